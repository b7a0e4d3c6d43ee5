package dto

import "github.com/helpdeskhq/helpdesk-service/internal/domain"

// RegisterRequest payload for new accounts. Role is optional and defaults
// to client.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse pairs the account with its signed token.
type AuthResponse struct {
	User  domain.PublicUser `json:"user"`
	Token string            `json:"token"`
}
