// Package service holds the credential, membership and board hierarchy rules
// that every HTTP and websocket entry point goes through.
package service

import (
	"context"
	"errors"

	"cardtrack/internal/broadcast"
)

var (
	ErrDuplicateEmail          = errors.New("user with this email already exists")
	ErrInvalidCredentials      = errors.New("invalid credentials")
	ErrNotFound                = errors.New("not found")
	ErrForbidden               = errors.New("forbidden")
	ErrForbiddenRoleAssignment = errors.New("role assignment not allowed")
	ErrWeakPassword            = errors.New("password must be at least 8 characters")
)

// ValidationError reports a malformed field in a request payload.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// Notifier receives events for committed mutations.
type Notifier interface {
	Notify(ctx context.Context, ev broadcast.Event)
}

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, broadcast.Event) {}

func notifierOrNop(n Notifier) Notifier {
	if n == nil {
		return nopNotifier{}
	}
	return n
}
