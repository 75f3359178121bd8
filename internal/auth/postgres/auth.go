package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/autowerk/garage-management/internal/auth"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetUserByUsername(ctx context.Context, username string) (*auth.User, error) {
	var user auth.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, auth.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *Repository) GetUserByID(ctx context.Context, id int64) (*auth.User, error) {
	var user auth.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, auth.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *Repository) RecordAttempt(ctx context.Context, attempt *auth.LoginAttempt) error {
	return r.db.WithContext(ctx).Create(attempt).Error
}

func (r *Repository) CountRecentFailures(ctx context.Context, username string, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&auth.LoginAttempt{}).
		Where("username = ? AND success = ? AND attempted_at > ?", username, false, since).
		Count(&count).Error
	return count, err
}

// IncrementFailedAttempts is a single UPDATE so concurrent failures for the
// same user never lose increments.
func (r *Repository) IncrementFailedAttempts(ctx context.Context, userID int64) error {
	return r.db.WithContext(ctx).
		Model(&auth.User{}).
		Where("id = ?", userID).
		UpdateColumn("failed_attempts", gorm.Expr("failed_attempts + 1")).Error
}

func (r *Repository) SetLockHint(ctx context.Context, userID int64, until time.Time) error {
	return r.db.WithContext(ctx).
		Model(&auth.User{}).
		Where("id = ?", userID).
		UpdateColumn("locked_until", until).Error
}

func (r *Repository) ResetFailedAttempts(ctx context.Context, userID int64, lastLogin time.Time) error {
	return r.db.WithContext(ctx).
		Model(&auth.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"failed_attempts": 0,
			"locked_until":    nil,
			"last_login_at":   lastLogin,
			"updated_at":      time.Now(),
		}).Error
}

func (r *Repository) ListPermissions(ctx context.Context) ([]auth.Permission, error) {
	var perms []auth.Permission
	if err := r.db.WithContext(ctx).Find(&perms).Error; err != nil {
		return nil, err
	}
	return perms, nil
}
