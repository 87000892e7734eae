package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	Base
	Username     string  `gorm:"column:username;type:varchar(80);not null;uniqueIndex" json:"username"`
	Email        string  `gorm:"column:email;type:varchar(120);not null;uniqueIndex" json:"email"`
	PasswordHash string  `gorm:"column:password_hash;type:varchar(255);not null" json:"-"`
	FirstName    *string `gorm:"column:first_name;type:varchar(100)" json:"first_name"`
	LastName     *string `gorm:"column:last_name;type:varchar(100)" json:"last_name"`
	Role         string  `gorm:"column:role;type:varchar(20);not null;default:'user'" json:"role"`
	OrcidID      *string `gorm:"column:orcid_id;type:varchar(19);uniqueIndex" json:"orcid_id"`
}

func (User) TableName() string { return "users" }

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// RefreshToken is a persisted, revocable refresh token.
type RefreshToken struct {
	Base
	Token      string     `gorm:"column:token;type:varchar(512);not null;uniqueIndex" json:"-"`
	ExpiresAt  time.Time  `gorm:"column:expires_at;not null" json:"expires_at"`
	UserID     uuid.UUID  `gorm:"column:user_id;type:char(36);not null;index" json:"user_id"`
	UserAgent  *string    `gorm:"column:user_agent;type:varchar(255)" json:"user_agent"`
	IPAddress  *string    `gorm:"column:ip_address;type:varchar(45)" json:"ip_address"`
	LastUsedAt *time.Time `gorm:"column:last_used_at" json:"last_used_at"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
}

func (RefreshToken) TableName() string { return "refresh_tokens" }

// Usable reports whether the token is active and unexpired at now.
func (t *RefreshToken) Usable(now time.Time) bool {
	return t.IsActive && now.Before(t.ExpiresAt)
}
