package notification

import (
	"context"
	"log/slog"

	"github.com/specialgraphics/portal/internal/identity"
)

const (
	// KindSignIn indicates a completed sign-in.
	KindSignIn = "sign_in"
	// KindSignInFailed indicates a rejected sign-in attempt.
	KindSignInFailed = "sign_in_failed"
	// KindSignOut indicates a completed sign-out.
	KindSignOut = "sign_out"
	// KindRegistered indicates a new account signed in for the first time.
	KindRegistered = "registered"
)

// Event describes an authentication lifecycle event.
type Event struct {
	Kind   string
	Email  string
	Role   identity.Role
	Method string
	Reason string
}

// Notifier delivers auth events to downstream systems.
type Notifier interface {
	Send(ctx context.Context, event Event) error
}

// LoggerNotifier is a stub implementation that writes events to the logger.
type LoggerNotifier struct {
	logger *slog.Logger
}

// NewLoggerNotifier constructs a logging notifier stub.
func NewLoggerNotifier(logger *slog.Logger) *LoggerNotifier {
	return &LoggerNotifier{logger: logger}
}

// Send writes the event to the structured logger.
func (n *LoggerNotifier) Send(_ context.Context, event Event) error {
	if n == nil || n.logger == nil {
		return nil
	}
	n.logger.Info("auth event",
		"kind", event.Kind,
		"email", event.Email,
		"role", string(event.Role),
		"method", event.Method,
		"reason", event.Reason,
	)
	return nil
}
