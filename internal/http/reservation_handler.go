package http

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/example/resama/internal/application"
	"github.com/example/resama/internal/domain"
	"github.com/example/resama/internal/scheduler"
	"github.com/example/resama/internal/views"
)

type reservationService interface {
	Reservations(ctx context.Context, filter domain.ReservationFilter) ([]domain.Reservation, error)
	BookRoom(ctx context.Context, req domain.CreateReservationRequest) (application.BookingResult, error)
	BookEquipment(ctx context.Context, req domain.CreateReservationRequest) (application.BookingResult, error)
	ConfirmReservation(ctx context.Context, number int64) error
	CancelReservation(ctx context.Context, number int64) error
}

// ReservationHandler lists, books and moves reservations through their statuses.
type ReservationHandler struct {
	service   reservationService
	responder responder
	logger    *slog.Logger
}

func NewReservationHandler(service reservationService, logger *slog.Logger) *ReservationHandler {
	base := defaultLogger(logger)
	return &ReservationHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *ReservationHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "ReservationHandler", operation, attrs...)
}

func (h *ReservationHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	filter, criteria, err := buildReservationQuery(r.URL.Query())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	reservations, err := h.service.Reservations(r.Context(), filter)
	if err != nil {
		h.log(r.Context(), "List").ErrorContext(r.Context(), "reservation listing failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, views.FilterReservations(reservations, criteria))
}

// Create books a room, or an equipment item when only materielCode is given.
func (h *ReservationHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req domain.CreateReservationRequest
	if err := decodeJSON(r, &req); err != nil {
		h.log(r.Context(), "Create", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode reservation request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	book := h.service.BookRoom
	if req.EquipmentCode != "" && req.RoomCode == "" {
		book = h.service.BookEquipment
	}
	result, err := book(r.Context(), req)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	conflicts := result.Conflicts
	if conflicts == nil {
		conflicts = []scheduler.Conflict{}
	}
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, bookingResponse{
		Reservation: result.Reservation,
		Conflicts:   conflicts,
	})
}

// Transition applies the confirm or cancel action named in the path.
func (h *ReservationHandler) Transition(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	number, ok := pathID(r, "n")
	if !ok {
		h.log(r.Context(), "Transition", "error_kind", "bad_request").ErrorContext(r.Context(), "invalid reservation number")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidID)
		return
	}

	var err error
	switch action := r.PathValue("action"); action {
	case "confirm":
		err = h.service.ConfirmReservation(r.Context(), number)
	case "cancel":
		err = h.service.CancelReservation(r.Context(), number)
	default:
		http.NotFound(w, r)
		return
	}
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type bookingResponse struct {
	Reservation domain.Reservation   `json:"reservation"`
	Conflicts   []scheduler.Conflict `json:"conflits"`
}

func buildReservationQuery(values url.Values) (domain.ReservationFilter, views.ReservationCriteria, error) {
	filter := domain.ReservationFilter{Status: domain.ReservationStatus(values.Get("status"))}
	criteria := views.ReservationCriteria{Search: values.Get("search")}

	var err error
	if from := values.Get("from"); from != "" {
		if filter.From, err = domain.ParseDate(from); err != nil {
			return filter, criteria, &domain.InvalidFilterError{Field: "dateDebut", Reason: "expected YYYY-MM-DD"}
		}
	}
	if to := values.Get("to"); to != "" {
		if filter.To, err = domain.ParseDate(to); err != nil {
			return filter, criteria, &domain.InvalidFilterError{Field: "dateFin", Reason: "expected YYYY-MM-DD"}
		}
	}
	if teacher := values.Get("teacher"); teacher != "" {
		id, err := strconv.ParseInt(teacher, 10, 64)
		if err != nil || id <= 0 {
			return filter, criteria, &domain.InvalidFilterError{Field: "enseignantId", Reason: "must be positive"}
		}
		criteria.TeacherID = id
	}
	return filter, criteria, nil
}
