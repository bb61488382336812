package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors shared by every backend. Callers match them with errors.Is.
var (
	// ErrNotFound is returned when no document or row matches the lookup.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateKey is returned when a write violates a unique index.
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrUnavailable is returned when the store did not answer in time.
	ErrUnavailable = errors.New("store unavailable")
)

// DuplicateKeyError reports which unique field a write collided on.
type DuplicateKeyError struct {
	Field string
	Value string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate %s %q", e.Field, e.Value)
}

// Unwrap lets errors.Is match ErrDuplicateKey.
func (e *DuplicateKeyError) Unwrap() error {
	return ErrDuplicateKey
}

// emailIndexMarkers are the index or column names each backend reports for
// the unique email index. Usernames are alphanumeric, so a colliding username
// value can never contain one of them.
var emailIndexMarkers = []string{"idx_users_email", "users.email", "email_1"}

// duplicateUserField works out the colliding user field from a driver message
// or index name.
func duplicateUserField(detail, username, email string) *DuplicateKeyError {
	for _, marker := range emailIndexMarkers {
		if strings.Contains(detail, marker) {
			return &DuplicateKeyError{Field: "email", Value: email}
		}
	}
	return &DuplicateKeyError{Field: "username", Value: username}
}

// translateContextErr maps deadline and cancellation to ErrUnavailable.
func translateContextErr(err error) error {
	if errors.Is(err, ErrUnavailable) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return err
}
