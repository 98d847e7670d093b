package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/example/resama/internal/apiclient"
	"github.com/example/resama/internal/application"
	"github.com/example/resama/internal/config"
	resamahttp "github.com/example/resama/internal/http"
	"github.com/example/resama/internal/persistence/sqlite"
	"github.com/example/resama/internal/querycache"
	"github.com/example/resama/internal/services"
)

// offlineBaseURL stands in for the backend when none is configured.
const offlineBaseURL = "http://127.0.0.1:1/api"

// app is the wired client shared by every command.
type app struct {
	cfg     config.Config
	logger  *slog.Logger
	store   *sqlite.Storage
	session *application.SessionManager
	queries *application.Queries
	now     func() time.Time
}

func newApp(ctx context.Context, cfg config.Config, logger *slog.Logger) (*app, error) {
	store, err := sqlite.Open(cfg.StoreDSN)
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, errors.Wrap(err, "apply migrations")
	}

	baseURL := cfg.APIURL
	if !cfg.RemoteEnabled() {
		logger.Warn("no backend configured, only demo accounts can sign in")
		baseURL = offlineBaseURL
	}
	client, err := apiclient.New(apiclient.Config{BaseURL: baseURL, Timeout: cfg.HTTPTimeout, Logger: logger})
	if err != nil {
		_ = store.Close()
		return nil, errors.Wrap(err, "api client")
	}
	svc := services.New(client)
	cache := querycache.New(querycache.WithLogger(logger))
	notifier := application.NewLogNotifier(logger)

	var demo *application.DemoDirectory
	if cfg.DemoMode {
		if demo, err = application.NewDemoDirectory(application.DefaultArgon2idParams); err != nil {
			_ = store.Close()
			return nil, errors.Wrap(err, "demo accounts")
		}
	}
	var remote application.Authenticator
	if cfg.RemoteEnabled() {
		remote = svc.Auth
	}

	session, err := application.NewSessionManager(application.SessionManagerConfig{
		Store:    store,
		Demo:     demo,
		Remote:   remote,
		Cache:    cache,
		Notifier: notifier,
		Logger:   logger,
	})
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	client.SetTokenProvider(session)
	client.SetUnauthorizedHandler(session.HandleUnauthorized)

	queries, err := application.NewQueries(application.QueriesConfig{
		Services:     svc,
		Cache:        cache,
		Session:      session,
		Notifier:     notifier,
		StaleWindows: staleWindows(cfg),
		Logger:       logger,
	})
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	session.RestoreSession(ctx)

	return &app{
		cfg:     cfg,
		logger:  logger,
		store:   store,
		session: session,
		queries: queries,
		now:     time.Now,
	}, nil
}

// staleWindows maps the configured windows onto the query families. The
// reservations window also covers availability lookups.
func staleWindows(cfg config.Config) application.StaleWindows {
	windows := application.DefaultStaleWindows()
	windows.Rooms = cfg.RoomsStaleWindow
	windows.Reservations = cfg.ReservationsStaleWindow
	windows.Availability = cfg.ReservationsStaleWindow
	return windows
}

func (a *app) Close() error {
	if a.store == nil {
		return nil
	}
	return a.store.Close()
}

func (a *app) router() http.Handler {
	return resamahttp.NewRouter(resamahttp.RouterConfig{
		Session:      resamahttp.NewSessionHandler(a.session, a.logger),
		Teachers:     resamahttp.NewTeacherHandler(a.queries, a.logger),
		Catalog:      resamahttp.NewCatalogHandler(a.queries, a.logger),
		Reservations: resamahttp.NewReservationHandler(a.queries, a.logger),
		Dashboard:    resamahttp.NewDashboardHandler(a.queries, a.cfg.PlanningWeeks, a.now, a.logger),
		Sessions:     a.session,
		Middleware:   []func(http.Handler) http.Handler{resamahttp.RequestLogger(a.logger)},
	})
}
