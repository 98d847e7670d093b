package http

import (
	"net/http"
	"strings"
)

type RouterConfig struct {
	Session      *SessionHandler
	Teachers     *TeacherHandler
	Catalog      *CatalogHandler
	Reservations *ReservationHandler
	Dashboard    *DashboardHandler
	// Sessions guards every route except /session when set.
	Sessions   SessionReader
	Middleware []func(http.Handler) http.Handler
}

func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	protect := func(h http.HandlerFunc) http.Handler {
		if cfg.Sessions == nil {
			return h
		}
		return RequireSession(cfg.Sessions, nil)(h)
	}

	if cfg.Session != nil {
		mux.HandleFunc("/session", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				cfg.Session.Show(w, r)
			case http.MethodPost:
				cfg.Session.Create(w, r)
			case http.MethodDelete:
				cfg.Session.Delete(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost, http.MethodDelete)
			}
		})
	}

	if cfg.Teachers != nil {
		mux.Handle("/teachers", protect(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				cfg.Teachers.List(w, r)
			case http.MethodPost:
				cfg.Teachers.Create(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		}))
		mux.Handle("/teachers/{id}", protect(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodPut:
				cfg.Teachers.Update(w, r)
			case http.MethodDelete:
				cfg.Teachers.Delete(w, r)
			default:
				methodNotAllowed(w, http.MethodPut, http.MethodDelete)
			}
		}))
	}

	if cfg.Catalog != nil {
		mux.Handle("/formations", protect(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				cfg.Catalog.Formations(w, r)
			case http.MethodPost:
				cfg.Catalog.CreateFormation(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		}))
		mux.Handle("GET /rooms", protect(cfg.Catalog.Rooms))
		mux.Handle("GET /equipment", protect(cfg.Catalog.Equipment))
	}

	if cfg.Reservations != nil {
		mux.Handle("/reservations", protect(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				cfg.Reservations.List(w, r)
			case http.MethodPost:
				cfg.Reservations.Create(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		}))
		mux.Handle("/reservations/{n}/{action}", protect(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPatch {
				methodNotAllowed(w, http.MethodPatch)
				return
			}
			cfg.Reservations.Transition(w, r)
		}))
	}

	if cfg.Dashboard != nil {
		mux.Handle("GET /planning", protect(cfg.Dashboard.Planning))
		mux.Handle("GET /planning/export", protect(cfg.Dashboard.ExportPlanning))
		mux.Handle("GET /recap", protect(cfg.Dashboard.Recap))
		mux.Handle("GET /recap/export", protect(cfg.Dashboard.ExportRecap))
		mux.Handle("GET /stats", protect(cfg.Dashboard.Stats))
	}

	var handler http.Handler = mux
	if len(cfg.Middleware) > 0 {
		for i := len(cfg.Middleware) - 1; i >= 0; i-- {
			if cfg.Middleware[i] != nil {
				handler = cfg.Middleware[i](handler)
			}
		}
	}

	return handler
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	if len(allowed) > 0 {
		w.Header().Set("Allow", strings.Join(allowed, ", "))
	}
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}
