package http

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/example/resama/internal/application"
	"github.com/example/resama/internal/domain"
	"github.com/example/resama/internal/export"
	"github.com/example/resama/internal/views"
)

type dashboardService interface {
	Planning(ctx context.Context, week views.Week, roomCode string) (views.WeekGrid, error)
	Overview(ctx context.Context, week views.Week, today time.Time) (application.Overview, error)
	DashboardStats(ctx context.Context) (domain.DashboardStats, error)
}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// DashboardHandler serves the planning, recap horaire and statistics pages.
type DashboardHandler struct {
	service   dashboardService
	weeks     int
	now       func() time.Time
	responder responder
	logger    *slog.Logger
}

// NewDashboardHandler selects weeks among the next weekCount weeks from now().
func NewDashboardHandler(service dashboardService, weekCount int, now func() time.Time, logger *slog.Logger) *DashboardHandler {
	base := defaultLogger(logger)
	if weekCount <= 0 {
		weekCount = views.DefaultWeekCount
	}
	if now == nil {
		now = time.Now
	}
	return &DashboardHandler{service: service, weeks: weekCount, now: now, responder: newResponder(base), logger: base}
}

func (h *DashboardHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "DashboardHandler", operation, attrs...)
}

func (h *DashboardHandler) selectWeek(w http.ResponseWriter, r *http.Request) ([]views.Week, views.Week, bool) {
	weeks := views.GenerateWeeks(h.now(), h.weeks)
	week, ok := views.FindWeek(weeks, r.URL.Query().Get("week"))
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusNotFound, errUnknownWeek)
		return nil, views.Week{}, false
	}
	return weeks, week, true
}

func (h *DashboardHandler) Planning(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	weeks, week, ok := h.selectWeek(w, r)
	if !ok {
		return
	}
	room := r.URL.Query().Get("room")
	grid, err := h.service.Planning(r.Context(), week, room)
	if err != nil {
		h.log(r.Context(), "Planning", "week", week.ID, "room", room).ErrorContext(r.Context(), "planning failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, planningResponse{Weeks: weeks, Grid: grid})
}

func (h *DashboardHandler) ExportPlanning(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	_, week, ok := h.selectWeek(w, r)
	if !ok {
		return
	}
	grid, err := h.service.Planning(r.Context(), week, r.URL.Query().Get("room"))
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WritePlanningXLSX(&buf, grid); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusInternalServerError, err)
		return
	}
	h.attachment(r.Context(), w, export.PlanningFileName(grid), xlsxContentType, buf.Bytes())
}

func (h *DashboardHandler) Recap(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	weeks, week, ok := h.selectWeek(w, r)
	if !ok {
		return
	}
	overview, err := h.service.Overview(r.Context(), week, h.now())
	if err != nil {
		h.log(r.Context(), "Recap", "week", week.ID).ErrorContext(r.Context(), "recap failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, recapResponse{Weeks: weeks, Overview: overview})
}

func (h *DashboardHandler) ExportRecap(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}
	if format != "json" && format != "xlsx" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errUnknownFormat)
		return
	}

	_, week, ok := h.selectWeek(w, r)
	if !ok {
		return
	}
	overview, err := h.service.Overview(r.Context(), week, h.now())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	var buf bytes.Buffer
	contentType := "application/json; charset=utf-8"
	if format == "xlsx" {
		contentType = xlsxContentType
		err = export.WriteRecapXLSX(&buf, overview.User, overview.Recap)
	} else {
		err = export.WriteRecapJSON(&buf, overview.User, overview.Recap)
	}
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusInternalServerError, err)
		return
	}
	h.attachment(r.Context(), w, export.RecapFileName(overview.User, overview.Recap, format), contentType, buf.Bytes())
}

func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	stats, err := h.service.DashboardStats(r.Context())
	if err != nil {
		h.log(r.Context(), "Stats").ErrorContext(r.Context(), "dashboard stats failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, stats)
}

func (h *DashboardHandler) attachment(ctx context.Context, w http.ResponseWriter, name, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		h.log(ctx, "attachment", "file", name).ErrorContext(ctx, "failed to write export", "error", err)
	}
}

type planningResponse struct {
	Weeks []views.Week   `json:"semaines"`
	Grid  views.WeekGrid `json:"planning"`
}

type recapResponse struct {
	Weeks    []views.Week         `json:"semaines"`
	Overview application.Overview `json:"recapitulatif"`
}
