package user

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleAdmin  = "admin"
	RoleScorer = "scorer"
)

// DefaultRoles are created on startup.
var DefaultRoles = []string{RoleAdmin, RoleScorer}

type User struct {
	gorm.Model
	Name       string     `json:"name"`
	Username   string     `gorm:"uniqueIndex;not null" json:"username"`
	Email      string     `gorm:"uniqueIndex;not null" json:"email"`
	Password   string     `json:"-"`
	LastActive time.Time  `json:"last_active"`
	UserRoles  []UserRole `json:"-"`
}

type Role struct {
	gorm.Model
	Name string `gorm:"uniqueIndex;not null" json:"name"`
}

type UserRole struct {
	gorm.Model
	UserID uint `gorm:"uniqueIndex:idx_user_role;not null"`
	RoleID uint `gorm:"uniqueIndex:idx_user_role;not null"`
	Role   Role
}

// RefreshToken is an issued refresh token. Revoked tokens stay for audit.
type RefreshToken struct {
	gorm.Model
	UserID    uint      `gorm:"index;not null"`
	Token     string    `gorm:"uniqueIndex;size:512;not null"`
	ExpiresAt time.Time `gorm:"not null"`
	Revoked   bool      `gorm:"default:false"`
}
