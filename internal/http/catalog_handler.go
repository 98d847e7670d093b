package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/example/resama/internal/application"
	"github.com/example/resama/internal/domain"
	"github.com/example/resama/internal/views"
)

type catalogService interface {
	Formations(ctx context.Context, filter domain.FormationFilter) ([]domain.Formation, error)
	CreateFormation(ctx context.Context, req domain.CreateFormationRequest) (domain.FormationDetail, error)
	Rooms(ctx context.Context) ([]domain.Room, error)
	AvailableRooms(ctx context.Context, query domain.RoomAvailabilityQuery) ([]domain.Room, error)
	Equipment(ctx context.Context) ([]domain.Equipment, error)
}

// CatalogHandler serves formations, rooms and equipment.
type CatalogHandler struct {
	service   catalogService
	responder responder
	logger    *slog.Logger
}

func NewCatalogHandler(service catalogService, logger *slog.Logger) *CatalogHandler {
	base := defaultLogger(logger)
	return &CatalogHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *CatalogHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "CatalogHandler", operation, attrs...)
}

func (h *CatalogHandler) Formations(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	formations, err := h.service.Formations(r.Context(), domain.FormationFilter{})
	if err != nil {
		h.log(r.Context(), "Formations").ErrorContext(r.Context(), "formation listing failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	query := r.URL.Query()
	h.responder.writeJSON(r.Context(), w, http.StatusOK, views.FilterFormations(formations, query.Get("search"), query.Get("level")))
}

func (h *CatalogHandler) CreateFormation(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req domain.CreateFormationRequest
	if err := decodeJSON(r, &req); err != nil {
		h.log(r.Context(), "CreateFormation", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode formation request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	formation, err := h.service.CreateFormation(r.Context(), req)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, formation)
}

func (h *CatalogHandler) Rooms(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	query := r.URL.Query()
	criteria := views.RoomCriteria{
		Type:      query.Get("type"),
		Equipment: query.Get("equipment"),
		Search:    query.Get("search"),
	}
	if value := query.Get("minCapacity"); value != "" {
		capacity, err := strconv.Atoi(value)
		if err != nil || capacity < 0 {
			h.responder.handleServiceError(r.Context(), w, &domain.InvalidFilterError{Field: "minCapacity", Reason: "must be a positive integer"})
			return
		}
		criteria.MinCapacity = capacity
	}

	var (
		rooms []domain.Room
		err   error
	)
	if query.Has("date") || query.Has("start") || query.Has("end") {
		var availability domain.RoomAvailabilityQuery
		availability, err = parseRoomAvailability(query.Get("date"), query.Get("start"), query.Get("end"))
		if err == nil {
			rooms, err = h.service.AvailableRooms(r.Context(), availability)
		}
	} else {
		rooms, err = h.service.Rooms(r.Context())
	}
	if err != nil {
		h.log(r.Context(), "Rooms").ErrorContext(r.Context(), "room listing failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, views.FilterRooms(rooms, criteria))
}

func (h *CatalogHandler) Equipment(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	query := r.URL.Query()
	kind := domain.EquipmentKind(query.Get("kind"))
	if kind != "" && !kind.Valid() {
		h.responder.handleServiceError(r.Context(), w, &domain.InvalidFilterError{Field: "kind", Reason: "unknown equipment kind"})
		return
	}

	items, err := h.service.Equipment(r.Context())
	if err != nil {
		h.log(r.Context(), "Equipment").ErrorContext(r.Context(), "equipment listing failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, equipmentResponse{
		Items:  views.FilterEquipment(items, views.EquipmentCriteria{Kind: kind, Search: query.Get("search")}),
		Counts: views.EquipmentCounts(items),
	})
}

type equipmentResponse struct {
	Items  []domain.Equipment                       `json:"materiel"`
	Counts map[domain.EquipmentKind]views.KindCount `json:"compteurs"`
}

func parseRoomAvailability(date, start, end string) (domain.RoomAvailabilityQuery, error) {
	var q domain.RoomAvailabilityQuery
	var err error
	if date != "" {
		if q.Day, err = domain.ParseDate(date); err != nil {
			return q, &domain.InvalidFilterError{Field: "date", Reason: "expected YYYY-MM-DD"}
		}
	}
	if start != "" {
		if q.Start, err = domain.ParseClockTime(start); err != nil {
			return q, &domain.InvalidFilterError{Field: "heureDebut", Reason: "expected HH:MM"}
		}
	}
	if end != "" {
		if q.End, err = domain.ParseClockTime(end); err != nil {
			return q, &domain.InvalidFilterError{Field: "heureFin", Reason: "expected HH:MM"}
		}
	}
	return q, q.Validate()
}
