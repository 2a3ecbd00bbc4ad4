package auth

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID                  uint   `gorm:"primaryKey"`
	FirstName           string `gorm:"not null"`
	LastName            string `gorm:"not null"`
	Email               string `gorm:"uniqueIndex;not null"`
	PasswordHash        string `gorm:"not null" json:"-"`
	Image               string
	IsAdmin             bool `gorm:"default:false"`
	FailedLoginAttempts int  `gorm:"default:0"`
	LockedUntil         *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
	DeletedAt           gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// Locked reports whether the account is locked at the given instant.
// An expired LockedUntil counts as unlocked even though the column is
// only cleared on the next successful write.
func (u *User) Locked(now time.Time) bool {
	return u.LockedUntil != nil && u.LockedUntil.After(now)
}

func (u *User) Role() string {
	if u.IsAdmin {
		return "admin"
	}
	return "user"
}

// PasswordHistory keeps prior password hashes for reuse checks.
// At most the configured number of rows survive per user; the oldest
// is evicted on rotation.
type PasswordHistory struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"index;not null"`
	Hash      string `gorm:"not null"`
	CreatedAt time.Time
}

func (PasswordHistory) TableName() string {
	return "password_history"
}
