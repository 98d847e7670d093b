package testfixtures

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/example/resama/internal/apiclient"
	"github.com/example/resama/internal/application"
	"github.com/example/resama/internal/persistence"
	"github.com/example/resama/internal/querycache"
	"github.com/example/resama/internal/services"
)

// FastArgon2idParams keeps demo hashing cheap in tests.
var FastArgon2idParams = application.Argon2idParams{
	Memory:      1024,
	Iterations:  1,
	Parallelism: 1,
	SaltLength:  8,
	KeyLength:   16,
}

// ServiceFactory assembles the client stack with a deterministic clock and
// session identifiers.
type ServiceFactory struct {
	Clock       *Clock
	IDGenerator *IDGenerator
}

// ServiceFactoryOption configures a ServiceFactory instance.
type ServiceFactoryOption func(*ServiceFactory)

func NewServiceFactory(opts ...ServiceFactoryOption) *ServiceFactory {
	factory := &ServiceFactory{}
	for _, opt := range opts {
		opt(factory)
	}
	if factory.Clock == nil {
		factory.Clock = NewClock(time.Time{})
	}
	if factory.IDGenerator == nil {
		factory.IDGenerator = NewIDGenerator("session")
	}
	return factory
}

func WithClock(clock *Clock) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.Clock = clock
	}
}

func WithIDGenerator(generator *IDGenerator) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.IDGenerator = generator
	}
}

// StackDeps selects the optional parts of a Stack.
type StackDeps struct {
	// BaseURL defaults to an unroutable URL, which only demo logins survive.
	BaseURL string
	Store   persistence.KeyValueStore
	// Demo enables the demo accounts.
	Demo         bool
	StaleWindows application.StaleWindows
	Logger       *slog.Logger
}

// Stack is a fully wired client: HTTP client, services, cache, session and queries.
type Stack struct {
	Client   *apiclient.Client
	Services *services.Services
	Cache    *querycache.Cache
	Session  *application.SessionManager
	Queries  *application.Queries
	Store    persistence.KeyValueStore
	Notifier *application.RecordingNotifier
}

// NewStack wires a Stack the same way cmd/resama does.
func (f *ServiceFactory) NewStack(tb testing.TB, deps StackDeps) *Stack {
	tb.Helper()

	logger := deps.Logger
	if logger == nil {
		logger = DiscardLogger()
	}
	store := deps.Store
	if store == nil {
		store = persistence.NewMemoryStore()
	}
	baseURL := deps.BaseURL
	if baseURL == "" {
		baseURL = "http://127.0.0.1:1/api"
	}

	client, err := apiclient.New(apiclient.Config{BaseURL: baseURL, Timeout: 2 * time.Second, Logger: logger})
	if err != nil {
		tb.Fatalf("apiclient.New: %v", err)
	}
	svc := services.New(client)
	cache := querycache.New(querycache.WithClock(f.Clock.NowFunc()), querycache.WithLogger(logger))
	notifier := &application.RecordingNotifier{}

	var demo *application.DemoDirectory
	if deps.Demo {
		demo, err = application.NewDemoDirectory(FastArgon2idParams)
		if err != nil {
			tb.Fatalf("NewDemoDirectory: %v", err)
		}
	}

	session, err := application.NewSessionManager(application.SessionManagerConfig{
		Store:       store,
		Demo:        demo,
		Remote:      svc.Auth,
		Cache:       cache,
		Notifier:    notifier,
		IDGenerator: f.IDGenerator.NextFunc(),
		Now:         f.Clock.NowFunc(),
		Logger:      logger,
	})
	if err != nil {
		tb.Fatalf("NewSessionManager: %v", err)
	}
	client.SetTokenProvider(session)
	client.SetUnauthorizedHandler(session.HandleUnauthorized)

	queries, err := application.NewQueries(application.QueriesConfig{
		Services:     svc,
		Cache:        cache,
		Session:      session,
		Notifier:     notifier,
		StaleWindows: deps.StaleWindows,
		Logger:       logger,
	})
	if err != nil {
		tb.Fatalf("NewQueries: %v", err)
	}

	return &Stack{
		Client:   client,
		Services: svc,
		Cache:    cache,
		Session:  session,
		Queries:  queries,
		Store:    store,
		Notifier: notifier,
	}
}

// DiscardLogger drops every record.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
