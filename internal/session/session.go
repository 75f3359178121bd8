package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("session not found")

// Session is the per-browser authenticated state. Everything lives server-side;
// the browser only ever holds the signed session ID (see Codec).
type Session struct {
	ID           string    `json:"id"`
	UserID       int64     `json:"user_id"`
	Username     string    `json:"username"`
	Role         string    `json:"role"`
	GarageID     int64     `json:"garage_id"`
	DisplayName  string    `json:"display_name"`
	LastActivity time.Time `json:"last_activity"`
	CSRFToken    string    `json:"csrf_token,omitempty"`
	CSRFExpires  time.Time `json:"csrf_expires,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// New mints a session with a fresh random ID. Callers always get a new ID on
// login so a pre-login session identifier can never become authenticated.
func New() *Session {
	now := time.Now()
	return &Session{
		ID:           uuid.NewString(),
		LastActivity: now,
		CreatedAt:    now,
	}
}

// ExpiredAt reports whether the session's inactivity window has elapsed at t.
func (s *Session) ExpiredAt(t time.Time, timeout time.Duration) bool {
	return t.Sub(s.LastActivity) > timeout
}

// Store persists sessions. Implementations must treat Delete of a missing
// session as a no-op so logout stays idempotent. Ping backs the readiness
// probe: an unreachable store means no authenticated request can succeed.
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}
