package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/example/resama/internal/application"
	"github.com/example/resama/internal/domain"
	"github.com/example/resama/internal/views"
)

type teacherService interface {
	Teachers(ctx context.Context, filter domain.TeacherFilter) ([]domain.Teacher, error)
	Formations(ctx context.Context, filter domain.FormationFilter) ([]domain.Formation, error)
	CreateTeacher(ctx context.Context, req domain.CreateTeacherRequest) (domain.TeacherDetail, error)
	UpdateTeacher(ctx context.Context, req domain.UpdateTeacherRequest) (domain.TeacherDetail, error)
	DeleteTeacher(ctx context.Context, id int64) error
}

// TeacherHandler serves the teacher management page.
type TeacherHandler struct {
	service   teacherService
	responder responder
	logger    *slog.Logger
}

func NewTeacherHandler(service teacherService, logger *slog.Logger) *TeacherHandler {
	base := defaultLogger(logger)
	return &TeacherHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *TeacherHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "TeacherHandler", operation, attrs...)
}

func (h *TeacherHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	query := r.URL.Query()
	logger := h.log(r.Context(), "List")

	teachers, err := h.service.Teachers(r.Context(), domain.TeacherFilter{})
	if err != nil {
		logger.ErrorContext(r.Context(), "teacher listing failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	formations, err := h.service.Formations(r.Context(), domain.FormationFilter{})
	if err != nil {
		logger.ErrorContext(r.Context(), "formation listing failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	filtered := views.FilterTeachers(teachers, query.Get("search"), query.Get("specialty"))
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listTeachersResponse{
		Teachers:    filtered,
		Specialties: nonNilStrings(views.Specialties(teachers)),
		Stats:       views.TeacherStats(teachers, formations),
	})
}

func (h *TeacherHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req domain.CreateTeacherRequest
	if err := decodeJSON(r, &req); err != nil {
		h.log(r.Context(), "Create", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode teacher request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	teacher, err := h.service.CreateTeacher(r.Context(), req)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, teacher)
}

func (h *TeacherHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := pathID(r, "id")
	if !ok {
		h.log(r.Context(), "Update", "error_kind", "bad_request").ErrorContext(r.Context(), "invalid teacher id for update")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidID)
		return
	}

	var req domain.UpdateTeacherRequest
	if err := decodeJSON(r, &req); err != nil {
		h.log(r.Context(), "Update", "teacher_id", id, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode teacher update", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}
	req.ID = id

	teacher, err := h.service.UpdateTeacher(r.Context(), req)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, teacher)
}

func (h *TeacherHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := pathID(r, "id")
	if !ok {
		h.log(r.Context(), "Delete", "error_kind", "bad_request").ErrorContext(r.Context(), "invalid teacher id for delete")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidID)
		return
	}

	if err := h.service.DeleteTeacher(r.Context(), id); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type listTeachersResponse struct {
	Teachers    []domain.Teacher     `json:"enseignants"`
	Specialties []string             `json:"specialites"`
	Stats       views.TeacherSummary `json:"stats"`
}

func nonNilStrings(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
