package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/resama/internal/application"
	"github.com/example/resama/internal/domain"
)

type sessionService interface {
	Login(ctx context.Context, identifier, secret string) (domain.User, bool)
	Logout(ctx context.Context)
	CurrentUser() (domain.User, bool)
	State() application.SessionState
}

// SessionHandler signs the dashboard in and out.
type SessionHandler struct {
	service   sessionService
	responder responder
	logger    *slog.Logger
}

func NewSessionHandler(service sessionService, logger *slog.Logger) *SessionHandler {
	base := defaultLogger(logger)
	return &SessionHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *SessionHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "SessionHandler", operation, attrs...)
}

func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req domain.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		h.log(r.Context(), "Create", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode login request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	email := strings.TrimSpace(strings.ToLower(req.Email))
	fields := map[string]string{}
	if email == "" {
		fields["email"] = "L'email est obligatoire"
	}
	if req.Password == "" {
		fields["password"] = "Le mot de passe est obligatoire"
	}
	if len(fields) > 0 {
		h.responder.handleServiceError(r.Context(), w, &application.ValidationError{FieldErrors: fields})
		return
	}

	logger := h.log(r.Context(), "Create", "email", email)
	user, ok := h.service.Login(r.Context(), email, req.Password)
	if !ok {
		logger.WarnContext(r.Context(), "login rejected", "error_kind", "invalid_credentials")
		h.responder.writeJSON(r.Context(), w, http.StatusUnauthorized, errorResponse{
			ErrorCode: "AUTH_INVALID_CREDENTIALS",
			Message:   "Email ou mot de passe incorrect",
		})
		return
	}

	logger.With("person_id", user.PersonID, "role", user.Role).InfoContext(r.Context(), "user signed in")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, h.state())
}

func (h *SessionHandler) Show(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, h.state())
}

func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	h.service.Logout(r.Context())
	h.log(r.Context(), "Delete").InfoContext(r.Context(), "user signed out")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *SessionHandler) state() sessionResponse {
	resp := sessionResponse{State: string(h.service.State())}
	if user, ok := h.service.CurrentUser(); ok {
		resp.Authenticated = true
		resp.User = &user
	}
	return resp
}

type sessionResponse struct {
	Authenticated bool         `json:"authenticated"`
	State         string       `json:"state"`
	User          *domain.User `json:"user,omitempty"`
}
