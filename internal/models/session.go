package models

import "time"

// Session is a login session row in the identity store. A user may hold
// several live sessions at once; logout deletes the matching row, which
// revokes the token even if its signature is still valid.
type Session struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Token     string    `gorm:"size:500;index;not null" json:"-"`
	IPAddress string    `gorm:"size:50" json:"ip_address"`
	UserAgent string    `gorm:"type:text" json:"user_agent"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
}

// TableName keeps the table name used by the identity migrations.
func (Session) TableName() string { return "login_sessions" }

// Expired reports whether the session has passed its expiry time.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}
