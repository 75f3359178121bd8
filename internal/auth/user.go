package auth

import (
	"time"
)

// User is the credential-store record. FailedAttempts and LockedUntil are
// bookkeeping hints maintained alongside the attempt log; the throttle derives
// lockout from the log alone.
type User struct {
	ID             int64      `json:"id" gorm:"primaryKey"`
	GarageID       int64      `json:"garage_id" gorm:"column:garage_id;index"`
	Username       string     `json:"username" gorm:"column:username;uniqueIndex;not null"`
	DisplayName    string     `json:"display_name" gorm:"column:display_name"`
	Email          string     `json:"email" gorm:"column:email"`
	PasswordHash   string     `json:"-" gorm:"column:password_hash;not null"`
	Role           Role       `json:"role" gorm:"column:role;not null"`
	IsActive       bool       `json:"is_active" gorm:"column:is_active;default:true"`
	FailedAttempts int        `json:"-" gorm:"column:failed_attempts;default:0"`
	LockedUntil    *time.Time `json:"-" gorm:"column:locked_until"`
	LastLoginAt    *time.Time `json:"last_login_at,omitempty" gorm:"column:last_login_at"`
	CreatedAt      time.Time  `json:"created_at" gorm:"column:created_at"`
	UpdatedAt      time.Time  `json:"updated_at" gorm:"column:updated_at"`
}

func (User) TableName() string {
	return "users"
}

// LoginAttempt is an append-only audit row. Rows are never updated; the
// throttle counts them over a sliding window.
type LoginAttempt struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	Username    string    `json:"username" gorm:"column:username;index:idx_attempts_username_time"`
	SourceAddr  string    `json:"source_addr" gorm:"column:source_addr"`
	Success     bool      `json:"success" gorm:"column:success"`
	AttemptedAt time.Time `json:"attempted_at" gorm:"column:attempted_at;index:idx_attempts_username_time"`
}

func (LoginAttempt) TableName() string {
	return "login_attempts"
}

// Permission maps (role, module) to the four action flags. Missing rows deny.
type Permission struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	Role      Role      `json:"role" gorm:"column:role;uniqueIndex:idx_permissions_role_module"`
	Module    string    `json:"module" gorm:"column:module;uniqueIndex:idx_permissions_role_module"`
	CanView   bool      `json:"can_view" gorm:"column:can_view"`
	CanCreate bool      `json:"can_create" gorm:"column:can_create"`
	CanEdit   bool      `json:"can_edit" gorm:"column:can_edit"`
	CanDelete bool      `json:"can_delete" gorm:"column:can_delete"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
}

func (Permission) TableName() string {
	return "permissions"
}
