package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/example/resama/internal/apiclient"
	"github.com/example/resama/internal/application"
	"github.com/example/resama/internal/domain"
)

var (
	errBadRequestBody = errors.New("Requête invalide")
	errInvalidID      = errors.New("Identifiant invalide")
	errUnknownWeek    = errors.New("Semaine inconnue")
	errUnknownFormat  = errors.New("Format d'export inconnu")
)

type responder struct {
	logger *slog.Logger
}

func newResponder(logger *slog.Logger) responder {
	if logger == nil {
		logger = slog.Default()
	}
	return responder{logger: logger}
}

func (r responder) writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}

	if status == http.StatusNoContent || payload == nil {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		r.loggerFor(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

func (r responder) writeError(ctx context.Context, w http.ResponseWriter, status int, err error) {
	message := localizedStatusMessage(status)
	if err != nil {
		if msg := strings.TrimSpace(err.Error()); msg != "" {
			message = msg
		}
		r.loggerFor(ctx).ErrorContext(ctx, "request failed", "status", status, "error", err)
	}

	r.writeJSON(ctx, w, status, errorResponse{Message: message})
}

// handleServiceError maps application and backend errors to a status and a
// French message. Backend 5xx answers become 502.
func (r responder) handleServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	if err == nil {
		r.writeError(ctx, w, http.StatusInternalServerError, errors.New("unknown error"))
		return
	}

	var (
		vErr   *application.ValidationError
		fErr   *domain.InvalidFilterError
		reqErr *apiclient.RequestError
	)
	switch {
	case errors.As(err, &vErr):
		r.writeJSON(ctx, w, http.StatusUnprocessableEntity, errorResponse{
			Message: localizedStatusMessage(http.StatusUnprocessableEntity),
			Errors:  vErr.FieldErrors,
		})
	case errors.As(err, &fErr):
		r.writeJSON(ctx, w, http.StatusBadRequest, errorResponse{
			Message: localizedStatusMessage(http.StatusBadRequest),
			Errors:  map[string]string{fErr.Field: fErr.Reason},
		})
	case errors.Is(err, application.ErrNotAuthenticated), errors.Is(err, application.ErrUnauthorized), apiclient.IsUnauthorized(err):
		r.writeJSON(ctx, w, http.StatusUnauthorized, errorResponse{
			ErrorCode: "AUTH_REQUIRED",
			Message:   localizedStatusMessage(http.StatusUnauthorized),
		})
	case errors.Is(err, application.ErrForbidden):
		r.writeJSON(ctx, w, http.StatusForbidden, errorResponse{
			ErrorCode: "AUTH_FORBIDDEN",
			Message:   localizedStatusMessage(http.StatusForbidden),
		})
	case errors.Is(err, application.ErrNotFound):
		r.writeJSON(ctx, w, http.StatusNotFound, errorResponse{Message: localizedStatusMessage(http.StatusNotFound)})
	case errors.Is(err, apiclient.ErrTimeout):
		r.writeJSON(ctx, w, http.StatusGatewayTimeout, errorResponse{Message: localizedStatusMessage(http.StatusGatewayTimeout)})
	case errors.As(err, &reqErr):
		status := reqErr.Status
		if status >= http.StatusInternalServerError || status < http.StatusBadRequest {
			status = http.StatusBadGateway
		}
		r.writeJSON(ctx, w, status, errorResponse{
			ErrorCode: reqErr.Code,
			Message:   apiclient.MessageOf(err, localizedStatusMessage(status)),
		})
	default:
		r.writeJSON(ctx, w, http.StatusInternalServerError, errorResponse{Message: localizedStatusMessage(http.StatusInternalServerError)})
	}
}

func (r responder) loggerFor(ctx context.Context) *slog.Logger {
	if logger := LoggerFromContext(ctx); logger != nil {
		return logger
	}
	return r.logger
}

func localizedStatusMessage(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "Requête invalide"
	case http.StatusUnauthorized:
		return "Veuillez vous connecter"
	case http.StatusForbidden:
		return "Action réservée aux responsables"
	case http.StatusNotFound:
		return "Ressource introuvable"
	case http.StatusConflict:
		return "La ressource est en conflit avec son état actuel"
	case http.StatusUnprocessableEntity:
		return "Formulaire invalide"
	case http.StatusBadGateway:
		return "Le serveur RESAMA a rencontré une erreur"
	case http.StatusGatewayTimeout:
		return "Le serveur ne répond pas"
	default:
		return "Erreur interne"
	}
}

type errorResponse struct {
	ErrorCode string            `json:"error_code,omitempty"`
	Message   string            `json:"message"`
	Errors    map[string]string `json:"errors,omitempty"`
}

func decodeJSON(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}

func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
