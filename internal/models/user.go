package models

import "time"

// Role names seeded by the identity migrations.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Role IDs seeded by the identity migrations.
const (
	RoleIDAdmin uint = 1
	RoleIDUser  uint = 2
)

// Role represents a user role in the identity store.
type Role struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:50;uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// User represents a registered user in the identity store.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"size:100;uniqueIndex;not null" json:"username"`
	Email     string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	FullName  string    `gorm:"size:200;not null" json:"full_name"`
	RoleID    uint      `gorm:"not null" json:"-"`
	Role      Role      `gorm:"foreignKey:RoleID" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	Sessions  []Session `gorm:"foreignKey:UserID" json:"-"`
}

// RoleName returns the role name, falling back to "user" when the
// association was not preloaded.
func (u *User) RoleName() string {
	if u.Role.Name != "" {
		return u.Role.Name
	}
	if u.RoleID == RoleIDAdmin {
		return RoleAdmin
	}
	return RoleUser
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.RoleName() == RoleAdmin
}
