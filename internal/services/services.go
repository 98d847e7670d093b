// Package services maps every RESAMA backend operation to a typed call.
// No business rules live here; the backend is authoritative.
package services

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/example/resama/internal/apiclient"
)

// Requester is the subset of *apiclient.Client used by the services.
type Requester interface {
	Get(ctx context.Context, path string, query url.Values, out any, opts ...apiclient.RequestOption) error
	Post(ctx context.Context, path string, body, out any, opts ...apiclient.RequestOption) error
	Put(ctx context.Context, path string, body, out any, opts ...apiclient.RequestOption) error
	Patch(ctx context.Context, path string, body, out any, opts ...apiclient.RequestOption) error
	Delete(ctx context.Context, path string, out any, opts ...apiclient.RequestOption) error
}

// Services groups one service per backend resource.
type Services struct {
	Auth         *AuthService
	Teachers     *TeacherService
	Formations   *FormationService
	Rooms        *RoomService
	Equipment    *EquipmentService
	Reservations *ReservationService
	Dashboard    *DashboardService
}

// New builds every service over the same requester.
func New(client Requester) *Services {
	return &Services{
		Auth:         NewAuthService(client),
		Teachers:     NewTeacherService(client),
		Formations:   NewFormationService(client),
		Rooms:        NewRoomService(client),
		Equipment:    NewEquipmentService(client),
		Reservations: NewReservationService(client),
		Dashboard:    NewDashboardService(client),
	}
}

func resourcePath(segments ...string) string {
	escaped := make([]string, len(segments))
	for i, segment := range segments {
		escaped[i] = url.PathEscape(segment)
	}
	return "/" + strings.Join(escaped, "/")
}

func idSegment(id int64) string {
	return strconv.FormatInt(id, 10)
}
