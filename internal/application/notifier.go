package application

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/example/resama/internal/apiclient"
)

// NotificationLevel mirrors the toast kinds of the dashboard.
type NotificationLevel string

const (
	LevelSuccess NotificationLevel = "success"
	LevelError   NotificationLevel = "error"
	LevelWarning NotificationLevel = "warning"
	LevelInfo    NotificationLevel = "info"
)

// Notification is a transient user-visible message.
type Notification struct {
	Level   NotificationLevel `json:"level"`
	Title   string            `json:"title"`
	Message string            `json:"message,omitempty"`
}

// Notifier presents notifications to the operator.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// LogNotifier writes notifications to a structured logger.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: defaultLogger(logger)}
}

func (n *LogNotifier) Notify(ctx context.Context, note Notification) {
	level := slog.LevelInfo
	switch note.Level {
	case LevelError:
		level = slog.LevelError
	case LevelWarning:
		level = slog.LevelWarn
	}
	n.logger.Log(ctx, level, note.Title, "component", "notifier", "notification_level", string(note.Level), "detail", note.Message)
}

// RecordingNotifier keeps every notification in memory.
type RecordingNotifier struct {
	mu    sync.Mutex
	items []Notification
}

func (r *RecordingNotifier) Notify(_ context.Context, n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, n)
}

// Notifications returns a copy of the recorded notifications.
func (r *RecordingNotifier) Notifications() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.items))
	copy(out, r.items)
	return out
}

// Last returns the most recent notification.
func (r *RecordingNotifier) Last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.items) == 0 {
		return Notification{}, false
	}
	return r.items[len(r.items)-1], true
}

type discardNotifier struct{}

func (discardNotifier) Notify(context.Context, Notification) {}

func successNotification(title string) Notification {
	return Notification{Level: LevelSuccess, Title: title}
}

// failureNotification carries the backend message when there is one, else fallback.
func failureNotification(err error, fallback string) Notification {
	var message string
	var vErr *ValidationError
	switch {
	case errors.As(err, &vErr):
		message = "Formulaire invalide"
	case errors.Is(err, ErrForbidden):
		message = "Action réservée aux responsables"
	case errors.Is(err, ErrNotAuthenticated):
		message = "Veuillez vous connecter"
	case errors.Is(err, apiclient.ErrTimeout):
		message = "Le serveur ne répond pas"
	default:
		message = apiclient.MessageOf(err, fallback)
	}
	return Notification{Level: LevelError, Title: "Erreur", Message: message}
}
