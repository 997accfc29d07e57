package dto

import (
	"time"

	"github.com/finhealth/savings_app/internal/core/domain"
)

// RegisterRequest defines the data needed to register a new user.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginRequest defines the credentials for a local login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse represents the response for a successful login.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// GoogleExchangeRequest carries the ID token obtained from Google sign-in.
type GoogleExchangeRequest struct {
	IDToken string `json:"idToken" binding:"required"`
}

// VerifyEmailRequest carries the token from an email verification link.
type VerifyEmailRequest struct {
	Token string `json:"token" binding:"required"`
}

// RequestPasswordResetRequest starts a password reset flow for an email.
type RequestPasswordResetRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest completes a password reset with a valid token.
type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=8"`
}

// UserResponse defines the data returned for a user.
type UserResponse struct {
	UserID        string    `json:"userID"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	EmailVerified bool      `json:"emailVerified"`
	AuthProvider  string    `json:"authProvider"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ToUserResponse converts a domain.User to UserResponse DTO.
func ToUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		UserID:        user.UserID,
		Name:          user.Name,
		Email:         user.Email,
		EmailVerified: user.EmailVerified,
		AuthProvider:  string(user.AuthProvider),
		CreatedAt:     user.CreatedAt,
	}
}
