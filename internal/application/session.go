package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/example/resama/internal/domain"
	"github.com/example/resama/internal/persistence"
	"github.com/example/resama/internal/querycache"
)

// SessionState is the position of the session state machine.
type SessionState string

const (
	StateAnonymous      SessionState = "anonymous"
	StateAuthenticating SessionState = "authenticating"
	StateAuthenticated  SessionState = "authenticated"
)

// SessionEventKind names a session transition.
type SessionEventKind string

const (
	EventLoggedIn   SessionEventKind = "logged_in"
	EventLoggedOut  SessionEventKind = "logged_out"
	EventRestored   SessionEventKind = "restored"
	EventSignedOut  SessionEventKind = "signed_out"
	EventLoginError SessionEventKind = "login_failed"
)

// SessionEvent is delivered to subscribers after each transition.
type SessionEvent struct {
	Kind  SessionEventKind
	State SessionState
	User  *domain.User
}

// Authenticator performs the remote credential exchange.
type Authenticator interface {
	Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error)
	Logout(ctx context.Context) error
}

// SessionManagerConfig wires a SessionManager.
type SessionManagerConfig struct {
	Store persistence.KeyValueStore
	// Demo is nil unless demo mode is enabled.
	Demo *DemoDirectory
	// Remote is nil when no backend URL is configured.
	Remote      Authenticator
	Cache       *querycache.Cache
	Notifier    Notifier
	IDGenerator func() string
	Now         func() time.Time
	Logger      *slog.Logger
}

// SessionManager owns the client session: login, logout, restore and forced sign-out.
// It is created once per process and passed explicitly to its consumers.
type SessionManager struct {
	store  persistence.KeyValueStore
	demo   *DemoDirectory
	remote Authenticator
	cache  *querycache.Cache
	notify Notifier
	nextID func() string
	now    func() time.Time
	logger *slog.Logger

	loginMu sync.Mutex

	mu        sync.RWMutex
	state     SessionState
	user      *domain.User
	token     string
	listeners map[int]func(SessionEvent)
	nextSub   int
	// signOuts increases on every sign-out.
	signOuts uint64
}

type sessionSnapshot struct {
	state    SessionState
	user     *domain.User
	token    string
	signOuts uint64
}

// NewSessionManager returns an anonymous manager. Call RestoreSession once before use.
func NewSessionManager(cfg SessionManagerConfig) (*SessionManager, error) {
	if cfg.Store == nil {
		return nil, errors.New("application: session store is required")
	}
	nextID := cfg.IDGenerator
	if nextID == nil {
		nextID = uuid.NewString
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	var notify Notifier = discardNotifier{}
	if cfg.Notifier != nil {
		notify = cfg.Notifier
	}
	return &SessionManager{
		store:     cfg.Store,
		demo:      cfg.Demo,
		remote:    cfg.Remote,
		cache:     cfg.Cache,
		notify:    notify,
		nextID:    nextID,
		now:       now,
		logger:    defaultLogger(cfg.Logger),
		state:     StateAnonymous,
		listeners: make(map[int]func(SessionEvent)),
	}, nil
}

func (m *SessionManager) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return componentLogger(ctx, m.logger, "SessionManager", operation, attrs...)
}

// Login tries the demo accounts first, then the backend. It reports failure
// through ok and leaves the previous session untouched in that case.
func (m *SessionManager) Login(ctx context.Context, identifier, secret string) (user domain.User, ok bool) {
	m.loginMu.Lock()
	defer m.loginMu.Unlock()

	identifier = strings.TrimSpace(identifier)
	logger := m.loggerWith(ctx, "Login", "email", identifier)

	previous := m.snapshot()
	m.setState(StateAuthenticating)

	var (
		token  string
		source string
		err    error
	)
	defer func() {
		if err != nil {
			event := SessionEvent{Kind: EventLoginError, State: StateAnonymous}
			if m.restore(previous) {
				event.State, event.User = previous.state, previous.user
			} else {
				logger.InfoContext(ctx, "session signed out during login attempt")
			}
			logger.WarnContext(ctx, "login failed", "error", err, "error_kind", ErrorKind(err))
			m.publish(event)
			m.notify.Notify(ctx, Notification{Level: LevelError, Title: "Identifiants invalides", Message: "Email ou mot de passe incorrect"})
			user, ok = domain.User{}, false
			return
		}
		logger.InfoContext(ctx, "login succeeded", "source", source, "person_id", user.PersonID, "role", user.Role, "token_present", token != "")
		m.notify.Notify(ctx, Notification{Level: LevelSuccess, Title: "Connexion réussie", Message: "Bienvenue " + user.DisplayName})
	}()

	if identifier == "" || secret == "" {
		err = ErrInvalidCredentials
		return
	}

	user, token, source, err = m.authenticate(ctx, identifier, secret)
	if err != nil {
		return
	}

	user.SessionID = m.nextID()
	user.TokenExpiresAt = tokenExpiry(token)

	if err = m.persist(ctx, user, token); err != nil {
		m.rollbackPersisted(ctx, previous)
		return
	}

	if previous.user != nil && (previous.user.PersonID != user.PersonID || previous.user.Role != user.Role) && m.cache != nil {
		m.cache.Clear()
	}

	m.mu.Lock()
	m.state = StateAuthenticated
	stored := user
	m.user = &stored
	m.token = token
	m.mu.Unlock()

	m.publish(SessionEvent{Kind: EventLoggedIn, State: StateAuthenticated, User: &stored})
	return user, true
}

func (m *SessionManager) authenticate(ctx context.Context, identifier, secret string) (domain.User, string, string, error) {
	if m.demo != nil {
		if user, err := m.demo.Authenticate(identifier, secret); err == nil {
			return user, DemoToken, "demo", nil
		}
	}
	if m.remote == nil {
		return domain.User{}, "", "", ErrInvalidCredentials
	}

	resp, err := m.remote.Login(ctx, domain.LoginRequest{Email: identifier, Password: secret})
	if err != nil {
		return domain.User{}, "", "", fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
	}
	user, err := userFromLoginResponse(resp, identifier)
	if err != nil {
		return domain.User{}, "", "", err
	}
	return user, resp.Token, "remote", nil
}

// Logout clears the session, its persisted entries and the query cache. It cannot fail.
func (m *SessionManager) Logout(ctx context.Context) {
	logger := m.loggerWith(ctx, "Logout")

	m.mu.RLock()
	token := m.token
	m.mu.RUnlock()

	if m.remote != nil && token != "" && token != DemoToken {
		if err := m.remote.Logout(ctx); err != nil {
			logger.WarnContext(ctx, "remote logout failed", "error", err, "error_kind", ErrorKind(err))
		}
	}

	m.clear(ctx, logger)
	logger.InfoContext(ctx, "logged out")
	m.publish(SessionEvent{Kind: EventLoggedOut, State: StateAnonymous})
	m.notify.Notify(ctx, successNotification("Déconnexion réussie"))
}

// HandleUnauthorized is the global sign-out hook run on every 401 response.
func (m *SessionManager) HandleUnauthorized(ctx context.Context) {
	logger := m.loggerWith(ctx, "HandleUnauthorized")

	m.mu.RLock()
	hadUser := m.user != nil
	m.mu.RUnlock()

	m.clear(ctx, logger)
	if hadUser {
		logger.WarnContext(ctx, "session signed out after unauthorized response")
		m.publish(SessionEvent{Kind: EventSignedOut, State: StateAnonymous})
	}
}

// RestoreSession loads the persisted session without contacting the backend.
// Corrupt entries are removed silently.
func (m *SessionManager) RestoreSession(ctx context.Context) (domain.User, bool) {
	logger := m.loggerWith(ctx, "RestoreSession")

	raw, err := m.store.Get(ctx, persistence.KeyUser)
	if err != nil {
		if !errors.Is(err, persistence.ErrNotFound) {
			logger.WarnContext(ctx, "persisted session unreadable", "error", err)
		}
		m.setAnonymous()
		return domain.User{}, false
	}

	user, err := decodeUser(raw)
	if err != nil {
		logger.WarnContext(ctx, "discarding corrupt persisted session", "error", err)
		if delErr := m.store.Delete(ctx, persistence.KeyUser, persistence.KeyAuthToken); delErr != nil {
			logger.WarnContext(ctx, "failed to clear corrupt session", "error", delErr)
		}
		m.setAnonymous()
		return domain.User{}, false
	}

	token, err := m.store.Get(ctx, persistence.KeyAuthToken)
	if err != nil && !errors.Is(err, persistence.ErrNotFound) {
		logger.WarnContext(ctx, "persisted token unreadable", "error", err)
	}

	m.mu.Lock()
	m.state = StateAuthenticated
	stored := user
	m.user = &stored
	m.token = token
	m.mu.Unlock()

	expired := user.TokenExpiresAt != nil && !m.now().Before(*user.TokenExpiresAt)
	logger.InfoContext(ctx, "session restored", "person_id", user.PersonID, "role", user.Role, "token_present", token != "", "token_expired", expired)
	m.publish(SessionEvent{Kind: EventRestored, State: StateAuthenticated, User: &stored})
	return user, true
}

// AccessToken implements apiclient.TokenProvider from the persisted token entry.
func (m *SessionManager) AccessToken(ctx context.Context) (string, error) {
	token, err := m.store.Get(ctx, persistence.KeyAuthToken)
	if errors.Is(err, persistence.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return token, nil
}

func (m *SessionManager) State() SessionState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// CurrentUser returns the signed-in user, if any.
func (m *SessionManager) CurrentUser() (domain.User, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.user == nil {
		return domain.User{}, false
	}
	return *m.user, true
}

// IsAuthenticated is true iff a user is present.
func (m *SessionManager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user != nil
}

// RequireUser returns the signed-in user or ErrNotAuthenticated.
func (m *SessionManager) RequireUser() (domain.User, error) {
	user, ok := m.CurrentUser()
	if !ok {
		return domain.User{}, ErrNotAuthenticated
	}
	return user, nil
}

// RequireResponsable returns the signed-in responsable or ErrNotAuthenticated / ErrForbidden.
func (m *SessionManager) RequireResponsable() (domain.User, error) {
	user, err := m.RequireUser()
	if err != nil {
		return domain.User{}, err
	}
	if !user.IsResponsable() {
		return domain.User{}, ErrForbidden
	}
	return user, nil
}

// Subscribe registers fn for every session event and returns its cancel function.
func (m *SessionManager) Subscribe(fn func(SessionEvent)) func() {
	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	m.listeners[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.listeners, id)
		m.mu.Unlock()
	}
}

func (m *SessionManager) publish(event SessionEvent) {
	m.mu.RLock()
	listeners := make([]func(SessionEvent), 0, len(m.listeners))
	for _, fn := range m.listeners {
		listeners = append(listeners, fn)
	}
	m.mu.RUnlock()

	for _, fn := range listeners {
		fn(event)
	}
}

func (m *SessionManager) clear(ctx context.Context, logger *slog.Logger) {
	m.setAnonymous()
	if err := m.store.Delete(ctx, persistence.KeyUser, persistence.KeyAuthToken); err != nil {
		logger.WarnContext(ctx, "failed to clear persisted session", "error", err)
	}
	if m.cache != nil {
		m.cache.Clear()
	}
}

func (m *SessionManager) setAnonymous() {
	m.mu.Lock()
	m.signOuts++
	m.state = StateAnonymous
	m.user = nil
	m.token = ""
	m.mu.Unlock()
}

func (m *SessionManager) setState(state SessionState) {
	m.mu.Lock()
	m.state = state
	m.mu.Unlock()
}

func (m *SessionManager) snapshot() sessionSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap := sessionSnapshot{state: m.state, token: m.token, signOuts: m.signOuts}
	if m.user != nil {
		copied := *m.user
		snap.user = &copied
	}
	return snap
}

// restore puts snap back unless a sign-out happened since it was taken.
func (m *SessionManager) restore(snap sessionSnapshot) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.signOuts != snap.signOuts {
		m.state = StateAnonymous
		return false
	}
	m.state = snap.state
	m.user = snap.user
	m.token = snap.token
	return true
}

func (m *SessionManager) persist(ctx context.Context, user domain.User, token string) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := m.store.Set(ctx, persistence.KeyUser, string(raw)); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	if token == "" {
		if err := m.store.Delete(ctx, persistence.KeyAuthToken); err != nil {
			return fmt.Errorf("clear token: %w", err)
		}
		return nil
	}
	if err := m.store.Set(ctx, persistence.KeyAuthToken, token); err != nil {
		return fmt.Errorf("persist token: %w", err)
	}
	return nil
}

// rollbackPersisted puts back the entries of the session that was active before a failed login.
func (m *SessionManager) rollbackPersisted(ctx context.Context, previous sessionSnapshot) {
	m.mu.RLock()
	signedOut := m.signOuts != previous.signOuts
	m.mu.RUnlock()

	var err error
	if previous.user == nil || signedOut {
		err = m.store.Delete(ctx, persistence.KeyUser, persistence.KeyAuthToken)
	} else {
		err = m.persist(ctx, *previous.user, previous.token)
	}
	if err != nil {
		m.loggerWith(ctx, "Login").ErrorContext(ctx, "failed to roll back persisted session", "error", err)
	}
}

func decodeUser(raw string) (domain.User, error) {
	var user domain.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return domain.User{}, err
	}
	if user.PersonID <= 0 && strings.TrimSpace(user.Email) == "" {
		return domain.User{}, errors.New("persisted session has no identity")
	}
	user.Role = domain.ParseRole(string(user.Role))
	return user, nil
}

func userFromLoginResponse(resp domain.LoginResponse, identifier string) (domain.User, error) {
	var user domain.User
	switch {
	case resp.Teacher != nil:
		t := resp.Teacher
		user = domain.User{
			PersonID:  t.ID,
			LastName:  t.LastName,
			FirstName: t.FirstName,
			Email:     t.Email,
			Phone:     t.Phone,
			Specialty: t.Specialty,
			Role:      domain.ParseRole(resp.Role),
		}
	case resp.User != nil:
		u := resp.User
		personID := u.TeacherID
		if personID == 0 {
			personID, _ = strconv.ParseInt(u.ID, 10, 64)
		}
		role := u.Role
		if role == "" {
			role = resp.Role
		}
		user = domain.User{
			PersonID:    personID,
			LastName:    u.LastName,
			FirstName:   u.FirstName,
			DisplayName: u.FullName,
			Email:       u.Email,
			Phone:       u.Phone,
			Specialty:   u.Specialty,
			Role:        domain.ParseRole(role),
		}
		if user.DisplayName == "" {
			user.DisplayName = u.Username
		}
	default:
		return domain.User{}, errors.New("login response carries no user")
	}

	if user.Email == "" {
		user.Email = identifier
	}
	if name := strings.TrimSpace(user.FirstName + " " + user.LastName); name != "" {
		user.DisplayName = name
	}
	if user.DisplayName == "" {
		user.DisplayName = user.Email
	}
	return user, nil
}

// tokenExpiry reads the exp claim without verifying the signature; the
// backend is the only verifier.
func tokenExpiry(token string) *time.Time {
	if strings.Count(token, ".") != 2 {
		return nil
	}
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return nil
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil
	}
	expiry := exp.Time.UTC()
	return &expiry
}
