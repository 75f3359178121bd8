package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/autowerk/garage-management/internal/session"
)

const csrfTokenBytes = 32

// CSRFGuard issues and checks anti-forgery tokens bound to a session. Tokens
// live for the configured lifetime and are not rotated on use.
type CSRFGuard struct {
	lifetime time.Duration
	now      func() time.Time
}

func NewCSRFGuard(lifetime time.Duration) *CSRFGuard {
	return &CSRFGuard{
		lifetime: lifetime,
		now:      time.Now,
	}
}

// Generate returns the session's current token if it has not expired, minting
// a fresh one otherwise. The caller must persist the session afterwards.
func (g *CSRFGuard) Generate(s *session.Session) (string, error) {
	now := g.now()
	if s.CSRFToken != "" && now.Before(s.CSRFExpires) {
		return s.CSRFToken, nil
	}

	raw := make([]byte, csrfTokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generate csrf token: %w", err)
	}

	s.CSRFToken = hex.EncodeToString(raw)
	s.CSRFExpires = now.Add(g.lifetime)
	return s.CSRFToken, nil
}

// Validate reports whether presented matches the session's live token. An
// expired token is cleared from the session and fails validation; the match
// itself is constant-time. The caller must persist the session if it changed.
func (g *CSRFGuard) Validate(s *session.Session, presented string) bool {
	if s.CSRFToken == "" {
		return false
	}
	if !g.now().Before(s.CSRFExpires) {
		s.CSRFToken = ""
		s.CSRFExpires = time.Time{}
		return false
	}
	return subtle.ConstantTimeCompare([]byte(s.CSRFToken), []byte(presented)) == 1
}
