package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/BerylCAtieno/churn-dashboard/internal/wizard"
)

// ErrNotFound is returned by Get when the session is unknown or expired.
var ErrNotFound = errors.New("session: not found")

// Store keeps one wizard per session id. Put refreshes the entry's TTL.
type Store interface {
	Get(ctx context.Context, id string) (*wizard.Wizard, error)
	Put(ctx context.Context, id string, w *wizard.Wizard) error
	Delete(ctx context.Context, id string) error
	Close() error
}

// NewID returns a fresh random session id.
func NewID() string {
	return uuid.NewString()
}

// ValidID reports whether id looks like one produced by NewID. Anything
// else from a cookie is treated as no session at all.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil && len(id) == 36
}

const DefaultTTL = 30 * time.Minute
