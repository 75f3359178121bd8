package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/autowerk/garage-management/internal"
	"github.com/autowerk/garage-management/internal/core/events"
	"github.com/autowerk/garage-management/internal/session"
)

// Service is the authenticator: it owns credential verification, session
// lifecycle and the login bookkeeping the throttle feeds on.
type Service struct {
	repo           Repository
	sessions       session.Store
	throttle       *Throttle
	csrf           *CSRFGuard
	bus            *events.EventBus
	sessionTimeout time.Duration
	bcryptCost     int
	logger         *slog.Logger
	now            func() time.Time
}

type ServiceConfig struct {
	SessionTimeout    time.Duration
	CSRFTokenLifetime time.Duration
	BCryptCost        int
}

func NewService(repo Repository, sessions session.Store, throttle *Throttle, bus *events.EventBus, cfg ServiceConfig, logger *slog.Logger) *Service {
	cost := cfg.BCryptCost
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &Service{
		repo:           repo,
		sessions:       sessions,
		throttle:       throttle,
		csrf:           NewCSRFGuard(cfg.CSRFTokenLifetime),
		bus:            bus,
		sessionTimeout: cfg.SessionTimeout,
		bcryptCost:     cost,
		logger:         logger,
		now:            time.Now,
	}
}

// Login verifies credentials and establishes a fresh session. The lockout gate
// runs before the password check so a locked account fails the same way for
// right and wrong passwords. Any session the browser carried in is destroyed
// and a new session ID minted, so a pre-login identifier never survives
// authentication.
func (s *Service) Login(ctx context.Context, dto LoginDTO, sourceAddr, priorSessionID string) (*session.Session, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	locked, err := s.throttle.IsLockedOut(ctx, dto.Username)
	if err != nil {
		s.logger.Error("lockout check failed", "error", err, "username", dto.Username)
		return nil, internal.NewInternalError("login unavailable", err)
	}
	if locked {
		s.logger.Warn("login rejected: account locked", "username", dto.Username, "source_addr", sourceAddr)
		return nil, internal.ErrAccountLocked
	}

	user, err := s.repo.GetUserByUsername(ctx, dto.Username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			s.recordFailure(ctx, nil, dto.Username, sourceAddr)
			return nil, internal.ErrInvalidCredentials
		}
		s.logger.Error("user lookup failed", "error", err, "username", dto.Username)
		return nil, internal.NewInternalError("login unavailable", err)
	}

	if !user.IsActive {
		s.recordFailure(ctx, user, dto.Username, sourceAddr)
		return nil, internal.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(dto.Password)); err != nil {
		s.recordFailure(ctx, user, dto.Username, sourceAddr)
		return nil, internal.ErrInvalidCredentials
	}

	now := s.now()
	if err := s.repo.ResetFailedAttempts(ctx, user.ID, now); err != nil {
		s.logger.Error("failed to reset attempt counter", "error", err, "user_id", user.ID)
		return nil, internal.NewInternalError("login unavailable", err)
	}
	if err := s.repo.RecordAttempt(ctx, &LoginAttempt{
		Username:    dto.Username,
		SourceAddr:  sourceAddr,
		Success:     true,
		AttemptedAt: now,
	}); err != nil {
		s.logger.Error("failed to record login attempt", "error", err, "username", dto.Username)
		return nil, internal.NewInternalError("login unavailable", err)
	}

	if priorSessionID != "" {
		if err := s.sessions.Delete(ctx, priorSessionID); err != nil {
			s.logger.Warn("failed to destroy prior session", "error", err)
		}
	}

	sess := session.New()
	sess.UserID = user.ID
	sess.Username = user.Username
	sess.Role = string(user.Role)
	sess.GarageID = user.GarageID
	sess.DisplayName = user.DisplayName
	sess.LastActivity = now

	if err := s.sessions.Save(ctx, sess); err != nil {
		s.logger.Error("failed to persist session", "error", err, "user_id", user.ID)
		return nil, internal.NewInternalError("login unavailable", err)
	}

	s.logger.Info("login succeeded", "user_id", user.ID, "username", user.Username, "role", user.Role, "garage_id", user.GarageID)
	if s.bus != nil {
		_ = s.bus.Publish(ctx, events.NewLoginSucceededEvent(user.ID, user.Username, user.GarageID, sourceAddr))
	}

	return sess, nil
}

// recordFailure appends an audit row and, when the username maps to a real
// user, bumps the failure counter and writes the advisory lock hint on
// threshold crossing. Bookkeeping errors are logged and swallowed: the caller
// is already returning a credential failure.
func (s *Service) recordFailure(ctx context.Context, user *User, username, sourceAddr string) {
	now := s.now()
	if err := s.repo.RecordAttempt(ctx, &LoginAttempt{
		Username:    username,
		SourceAddr:  sourceAddr,
		Success:     false,
		AttemptedAt: now,
	}); err != nil {
		s.logger.Error("failed to record login attempt", "error", err, "username", username)
		return
	}

	if s.bus != nil {
		_ = s.bus.Publish(ctx, events.NewLoginFailedEvent(username, sourceAddr))
	}

	if user == nil {
		return
	}

	if err := s.repo.IncrementFailedAttempts(ctx, user.ID); err != nil {
		s.logger.Error("failed to increment attempt counter", "error", err, "user_id", user.ID)
	}

	count, err := s.repo.CountRecentFailures(ctx, username, now.Add(-s.throttle.Window()))
	if err != nil {
		s.logger.Error("failed to count recent failures", "error", err, "username", username)
		return
	}
	if count >= int64(s.throttle.Max()) {
		if err := s.repo.SetLockHint(ctx, user.ID, now.Add(s.throttle.Window())); err != nil {
			s.logger.Error("failed to set lock hint", "error", err, "user_id", user.ID)
		}
		s.logger.Warn("account locked", "username", username, "failures", count)
		if s.bus != nil {
			_ = s.bus.Publish(ctx, events.NewAccountLockedEvent(username, sourceAddr, count))
		}
	}
}

// Logout destroys the session. Destroying an already-absent session succeeds.
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		s.logger.Error("failed to delete session", "error", err)
		return internal.NewInternalError("logout failed", err)
	}
	return nil
}

// IsLoggedIn resolves the session and enforces the sliding inactivity window.
// An expired session is reaped here, not extended: expiry is checked against
// the stored last activity before any refresh happens.
func (s *Service) IsLoggedIn(ctx context.Context, sessionID string) (*session.Session, bool) {
	if sessionID == "" {
		return nil, false
	}

	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, session.ErrNotFound) {
			s.logger.Error("session lookup failed", "error", err)
		}
		return nil, false
	}

	now := s.now()
	if sess.ExpiredAt(now, s.sessionTimeout) {
		if err := s.sessions.Delete(ctx, sessionID); err != nil {
			s.logger.Warn("failed to reap expired session", "error", err)
		}
		return nil, false
	}

	sess.LastActivity = now
	if err := s.sessions.Save(ctx, sess); err != nil {
		s.logger.Warn("failed to refresh session activity", "error", err)
	}
	return sess, true
}

// RequireRole gates on an exact role match. There is no hierarchy: super_admin
// does not pass an admin-only gate.
func (s *Service) RequireRole(ctx context.Context, sessionID string, role Role) (*session.Session, error) {
	sess, ok := s.IsLoggedIn(ctx, sessionID)
	if !ok {
		return nil, internal.ErrUnauthenticated
	}
	if Role(sess.Role) != role {
		return nil, internal.ErrForbidden
	}
	return sess, nil
}

// CurrentUser loads the full identity record behind the session.
func (s *Service) CurrentUser(ctx context.Context, sessionID string) (*User, error) {
	sess, ok := s.IsLoggedIn(ctx, sessionID)
	if !ok {
		return nil, internal.ErrUnauthenticated
	}

	user, err := s.repo.GetUserByID(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, internal.ErrUnauthenticated
		}
		return nil, internal.NewInternalError("user lookup failed", err)
	}
	return user, nil
}

// GenerateCSRFToken returns the session's live token, minting one when absent
// or expired, and persists the session when the token changed.
func (s *Service) GenerateCSRFToken(ctx context.Context, sessionID string) (string, error) {
	sess, ok := s.IsLoggedIn(ctx, sessionID)
	if !ok {
		return "", internal.ErrUnauthenticated
	}

	before := sess.CSRFToken
	token, err := s.csrf.Generate(sess)
	if err != nil {
		return "", internal.NewInternalError("csrf token unavailable", err)
	}
	if token != before {
		if err := s.sessions.Save(ctx, sess); err != nil {
			return "", internal.NewInternalError("csrf token unavailable", err)
		}
	}
	return token, nil
}

// ValidateCSRFToken checks the presented token against the session-bound one.
// Expired tokens are cleared from the session as a side effect.
func (s *Service) ValidateCSRFToken(ctx context.Context, sessionID, presented string) bool {
	sess, ok := s.IsLoggedIn(ctx, sessionID)
	if !ok {
		return false
	}

	hadToken := sess.CSRFToken != ""
	valid := s.csrf.Validate(sess, presented)
	if !valid && hadToken && sess.CSRFToken == "" {
		// expiry cleared the token; persist so the next form gets a fresh one
		if err := s.sessions.Save(ctx, sess); err != nil {
			s.logger.Warn("failed to persist cleared csrf token", "error", err)
		}
	}
	return valid
}

// HashPassword creates a bcrypt hash at the configured cost.
func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
