package auth

import (
	"outletdesk/internal/users"

	"github.com/golang-jwt/jwt/v4"
)

// LoginResponse keeps the shape the dashboard's auth store persists
type LoginResponse struct {
	User       UserResponse `json:"user"`
	Token      string       `json:"token"`
	Refresh    string       `json:"refresh"`
	ExpiresIn  int64        `json:"expires_in"`
	AppVersion string       `json:"app_version"`
}

// represents user data in responses (without sensitive info)
type UserResponse struct {
	ID       string         `json:"id"`
	FullName string         `json:"fullname"`
	Email    string         `json:"email"`
	Phone    string         `json:"phone"`
	Role     string         `json:"role"`
	Avatar   string         `json:"avatar,omitempty"`
	Modules  []users.Module `json:"modules"`
}

// MeResponse is the profile payload of GET /auth/me
type MeResponse struct {
	ID         string `json:"id"`
	FullName   string `json:"fullname"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	AppVersion string `json:"app_version"`
}

// JWTClaims represents JWT token claims
type JWTClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Type   string `json:"type"` // "access" or "refresh"
	jwt.RegisteredClaims
}

// TokenPair represents access and refresh tokens
type TokenPair struct {
	AccessToken  string `json:"token"`
	RefreshToken string `json:"refresh"`
	ExpiresIn    int64  `json:"expires_in"`
}

func toUserResponse(u *users.User) UserResponse {
	modules := []users.Module(u.Modules)
	if modules == nil {
		modules = []users.Module{}
	}
	return UserResponse{
		ID:       u.ID.String(),
		FullName: u.FullName,
		Email:    u.Email,
		Phone:    u.Phone,
		Role:     string(u.Role),
		Avatar:   u.Avatar,
		Modules:  modules,
	}
}
