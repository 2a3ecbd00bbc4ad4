package activity

import "time"

// LoginActivity is one row of the append-only login log. Rows are
// written for every login attempt, whatever the outcome.
type LoginActivity struct {
	ID             uint   `gorm:"primaryKey"`
	Email          string `gorm:"index;not null"`
	Role           string `gorm:"not null"`
	Success        bool   `gorm:"not null"`
	Message        string `gorm:"not null"`
	Endpoint       string `gorm:"not null"`
	RequestDetails string `gorm:"not null"`
	Timestamp      time.Time `gorm:"index;not null"`
}

func (LoginActivity) TableName() string {
	return "login_activities"
}

// AuditLog records a user-initiated action on an authenticated endpoint.
type AuditLog struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"index;not null"`
	Action    string `gorm:"not null"`
	IPAddress string
	Details   string
	ProductID *uint `gorm:"index"`
	Timestamp time.Time `gorm:"index;not null"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
