package services

import (
	"context"

	"github.com/finhealth/savings_app/internal/core/domain"
	"github.com/finhealth/savings_app/internal/dto"
)

// UserSvcFacade manages user accounts and the authentication handoff flows
// (email verification, password reset) built on the action token service.
type UserSvcFacade interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*domain.User, error)

	// Authenticate verifies email/password credentials and returns the user,
	// or apperrors.ErrNotFound / ErrValidation on bad credentials.
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)

	GetUserByID(ctx context.Context, userID string) (*domain.User, error)

	// RequestEmailVerification issues an email-verify token for the user and
	// hands it to the mailer.
	RequestEmailVerification(ctx context.Context, userID string) error

	// VerifyEmail consumes an email-verify token and marks the subject's
	// email as verified.
	VerifyEmail(ctx context.Context, token string) (*domain.User, error)

	// RequestPasswordReset issues a password-reset token for the address, if
	// registered, and hands it to the mailer. Unknown addresses are not an
	// error, to avoid account enumeration.
	RequestPasswordReset(ctx context.Context, email string) error

	// ResetPassword consumes a password-reset token and replaces the
	// subject's password hash.
	ResetPassword(ctx context.Context, token string, newPassword string) error

	// CreateOAuthUser looks up or creates a user from a validated external
	// identity.
	CreateOAuthUser(ctx context.Context, name, email string, provider domain.AuthProvider, providerUserID string, emailVerified bool) (*domain.User, error)

	// DeactivateUser soft-deletes the user's own account. Lookups exclude
	// deactivated users; ledger history is retained.
	DeactivateUser(ctx context.Context, userID string) error
}
