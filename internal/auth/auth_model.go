package auth

import (
	"time"

	"github.com/DhavalSuthar-24/crickpro/internal/user"
)

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,max=100" example:"Ravi Shastri"`
	Username string `json:"username" binding:"required,min=3,max=30" example:"ravi"`
	Email    string `json:"email" binding:"required,email" example:"ravi@example.com"`
	Password string `json:"password" binding:"required,min=8,max=72" example:"password123"`
}

type LoginRequest struct {
	LoginIdentifier string `json:"login_identifier" binding:"required" example:"ravi@example.com"` // email or username
	Password        string `json:"password" binding:"required" example:"password123"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
}

type LogoutRequest struct {
	RefreshToken          string `json:"refresh_token,omitempty"`
	InvalidateAllSessions bool   `json:"invalidate_all_sessions,omitempty"`
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type AuthResponse struct {
	TokenPair
	User UserResponse `json:"user"`
}

type UserResponse struct {
	ID         uint      `json:"id"`
	Name       string    `json:"name"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	Roles      []string  `json:"roles"`
	LastActive time.Time `json:"last_active"`
	CreatedAt  time.Time `json:"created_at"`
}

// FilterUserRecord strips the password hash and other internals.
func FilterUserRecord(u *user.User, roles []string) UserResponse {
	if roles == nil {
		roles = []string{}
	}
	return UserResponse{
		ID:         u.ID,
		Name:       u.Name,
		Username:   u.Username,
		Email:      u.Email,
		Roles:      roles,
		LastActive: u.LastActive,
		CreatedAt:  u.CreatedAt,
	}
}
