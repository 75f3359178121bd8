package auth

import (
	"context"
	"errors"
	"time"

	"github.com/autowerk/garage-management/internal/session"
)

var ErrUserNotFound = errors.New("user not found")

// Repository is the credential-store and attempt-log access the core needs.
type Repository interface {
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	GetUserByID(ctx context.Context, id int64) (*User, error)

	// RecordAttempt appends one audit row; rows are immutable once written.
	RecordAttempt(ctx context.Context, attempt *LoginAttempt) error
	// CountRecentFailures counts failed attempts for username strictly after since.
	CountRecentFailures(ctx context.Context, username string, since time.Time) (int64, error)

	// IncrementFailedAttempts bumps the per-user counter in a single UPDATE so
	// concurrent failures cannot lose increments.
	IncrementFailedAttempts(ctx context.Context, userID int64) error
	// SetLockHint writes the advisory locked_until column. The throttle never
	// reads it back; it exists for operator visibility.
	SetLockHint(ctx context.Context, userID int64, until time.Time) error
	// ResetFailedAttempts zeroes the counter, clears the lock hint and stamps
	// last_login_at.
	ResetFailedAttempts(ctx context.Context, userID int64, lastLogin time.Time) error

	ListPermissions(ctx context.Context) ([]Permission, error)
}

// ServiceAPI is what handlers and middleware consume.
type ServiceAPI interface {
	Login(ctx context.Context, dto LoginDTO, sourceAddr, priorSessionID string) (*session.Session, error)
	Logout(ctx context.Context, sessionID string) error
	IsLoggedIn(ctx context.Context, sessionID string) (*session.Session, bool)
	RequireRole(ctx context.Context, sessionID string, role Role) (*session.Session, error)
	CurrentUser(ctx context.Context, sessionID string) (*User, error)
	GenerateCSRFToken(ctx context.Context, sessionID string) (string, error)
	ValidateCSRFToken(ctx context.Context, sessionID, presented string) bool
	HashPassword(password string) (string, error)
}
