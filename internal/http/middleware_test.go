package http

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/example/resama/internal/domain"
)

type fakeSessions struct {
	user *domain.User
}

func (f fakeSessions) CurrentUser() (domain.User, bool) {
	if f.user == nil {
		return domain.User{}, false
	}
	return *f.user, true
}

func TestSessionMiddleware(t *testing.T) {
	t.Parallel()

	t.Run("rejects requests without a signed-in user", func(t *testing.T) {
		t.Parallel()

		handler := RequireSession(fakeSessions{}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("next handler should not be called when no user is signed in")
		}))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/protected", nil))

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "Veuillez vous connecter") {
			t.Fatalf("expected localized message, got %s", rec.Body.String())
		}
	})

	t.Run("attaches the signed-in user to the request context", func(t *testing.T) {
		t.Parallel()

		user := domain.User{PersonID: 7, DisplayName: "Jean Martin", Role: domain.RoleResponsable}
		var captured domain.User
		handler := RequireSession(fakeSessions{user: &user}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, ok := UserFromContext(r.Context())
			if !ok {
				t.Fatal("expected user in request context")
			}
			captured = got
			w.WriteHeader(http.StatusOK)
		}))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/protected", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if captured.PersonID != 7 {
			t.Fatalf("unexpected user in context: %+v", captured)
		}
	})
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, nil))

	handler := RequestLogger(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if LoggerFromContext(r.Context()) == nil {
			t.Fatal("expected request logger in context")
		}
		handlerLogger(r.Context(), nil, "TestHandler", "Serve").InfoContext(r.Context(), "inside")
		w.WriteHeader(http.StatusTeapot)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/rooms", nil))

	out := buf.String()
	for _, want := range []string{`"request_id":1`, `"path":"/rooms"`, `"handler":"TestHandler"`, `"status":418`} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %s in logs, got %s", want, out)
		}
	}
}

func TestHandleServiceErrorWithoutError(t *testing.T) {
	rec := httptest.NewRecorder()
	newResponder(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))).handleServiceError(t.Context(), rec, nil)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}
