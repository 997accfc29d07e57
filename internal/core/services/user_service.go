package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/finhealth/savings_app/internal/apperrors"
	"github.com/finhealth/savings_app/internal/core/domain"
	portsrepo "github.com/finhealth/savings_app/internal/core/ports/repositories"
	portssvc "github.com/finhealth/savings_app/internal/core/ports/services"
	"github.com/finhealth/savings_app/internal/dto"
	"github.com/finhealth/savings_app/internal/utils"
)

// userService manages user records and the token-based handoff flows.
type userService struct {
	BaseService
	userRepo    portsrepo.UserRepository
	actionToken portssvc.ActionTokenSvcFacade
	mailer      portssvc.Mailer

	emailVerifyTTL   time.Duration
	passwordResetTTL time.Duration
}

// NewUserService creates a new user service.
func NewUserService(userRepo portsrepo.UserRepository, actionToken portssvc.ActionTokenSvcFacade, mailer portssvc.Mailer, emailVerifyTTL, passwordResetTTL time.Duration) portssvc.UserSvcFacade {
	return &userService{
		userRepo:         userRepo,
		actionToken:      actionToken,
		mailer:           mailer,
		emailVerifyTTL:   emailVerifyTTL,
		passwordResetTTL: passwordResetTTL,
	}
}

// Register creates a local user with a hashed password and kicks off email
// verification. A failure to deliver the verification mail does not fail the
// registration; the user can request another token later.
func (s *userService) Register(ctx context.Context, req dto.RegisterRequest) (*domain.User, error) {
	existing, err := s.userRepo.FindUserByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check for existing user: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("email %s is already registered: %w", req.Email, apperrors.ErrDuplicate)
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	newUserID := uuid.NewString()
	user := domain.User{
		UserID:       newUserID,
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: passwordHash,
		AuthProvider: domain.ProviderLocal,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     newUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: newUserID,
		},
	}

	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.LogInfo(ctx, "User registered", slog.String("user_id", user.UserID))

	if err := s.sendEmailVerification(ctx, &user); err != nil {
		s.LogError(ctx, err, "Failed to send verification email", slog.String("user_id", user.UserID))
	}

	return &user, nil
}

// Authenticate verifies email/password credentials and returns the user.
func (s *userService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user.AuthProvider != domain.ProviderLocal || user.PasswordHash == "" {
		return nil, fmt.Errorf("account uses external sign-in: %w", apperrors.ErrValidation)
	}
	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, fmt.Errorf("invalid credentials: %w", apperrors.ErrValidation)
	}
	return user, nil
}

// GetUserByID returns a user by ID.
func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return s.userRepo.FindUserByID(ctx, userID)
}

// RequestEmailVerification issues a fresh verification token for the user
// and hands it to the mailer. Already-verified users are a no-op.
func (s *userService) RequestEmailVerification(ctx context.Context, userID string) error {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.EmailVerified {
		return nil
	}
	return s.sendEmailVerification(ctx, user)
}

func (s *userService) sendEmailVerification(ctx context.Context, user *domain.User) error {
	token, err := s.actionToken.Issue(user.UserID, domain.PurposeEmailVerify, s.emailVerifyTTL)
	if err != nil {
		return fmt.Errorf("failed to issue email verification token: %w", err)
	}
	return s.mailer.SendEmailVerification(ctx, user.Email, token)
}

// VerifyEmail consumes a verification token and marks the subject verified.
// Tokens stay valid until expiry, so re-presenting one is harmless.
func (s *userService) VerifyEmail(ctx context.Context, token string) (*domain.User, error) {
	userID, err := s.actionToken.Verify(token, domain.PurposeEmailVerify, s.emailVerifyTTL)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !user.EmailVerified {
		now := time.Now().UTC()
		if err := s.userRepo.MarkEmailVerified(ctx, userID, now); err != nil {
			return nil, fmt.Errorf("failed to mark email verified: %w", err)
		}
		user.EmailVerified = true
		user.LastUpdatedAt = now
		s.LogInfo(ctx, "Email verified", slog.String("user_id", userID))
	}

	return user, nil
}

// RequestPasswordReset issues a reset token for the address, if registered.
// Unknown addresses are not an error, to avoid account enumeration.
func (s *userService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.userRepo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.LogInfo(ctx, "Password reset requested for unknown email")
			return nil
		}
		return err
	}

	token, err := s.actionToken.Issue(user.UserID, domain.PurposePasswordReset, s.passwordResetTTL)
	if err != nil {
		return fmt.Errorf("failed to issue password reset token: %w", err)
	}
	return s.mailer.SendPasswordReset(ctx, user.Email, token)
}

// ResetPassword consumes a reset token and replaces the subject's password.
func (s *userService) ResetPassword(ctx context.Context, token string, newPassword string) error {
	if len(newPassword) < 8 {
		return fmt.Errorf("password must be at least 8 characters: %w", apperrors.ErrValidation)
	}

	userID, err := s.actionToken.Verify(token, domain.PurposePasswordReset, s.passwordResetTTL)
	if err != nil {
		return err
	}

	if _, err := s.userRepo.FindUserByID(ctx, userID); err != nil {
		return err
	}

	passwordHash, err := utils.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.UpdatePasswordHash(ctx, userID, passwordHash, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	s.LogInfo(ctx, "Password reset completed", slog.String("user_id", userID))
	return nil
}

// CreateOAuthUser looks up or creates a user from a validated external
// identity. An existing user with the same email is reused rather than
// duplicated.
func (s *userService) CreateOAuthUser(ctx context.Context, name, email string, provider domain.AuthProvider, providerUserID string, emailVerified bool) (*domain.User, error) {
	user, err := s.userRepo.FindUserByProviderID(ctx, provider, providerUserID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	user, err = s.userRepo.FindUserByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	newUserID := uuid.NewString()
	newUser := domain.User{
		UserID:         newUserID,
		Name:           name,
		Email:          email,
		EmailVerified:  emailVerified,
		AuthProvider:   provider,
		ProviderUserID: providerUserID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     newUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: newUserID,
		},
	}

	if err := s.userRepo.SaveUser(ctx, newUser); err != nil {
		return nil, fmt.Errorf("failed to create oauth user: %w", err)
	}

	s.LogInfo(ctx, "OAuth user created", slog.String("user_id", newUser.UserID), slog.String("provider", string(provider)))
	return &newUser, nil
}

// DeactivateUser soft-deletes the user's own account. The user record and
// ledger history stay in place; lookups exclude deactivated users.
func (s *userService) DeactivateUser(ctx context.Context, userID string) error {
	if err := s.userRepo.MarkUserDeleted(ctx, userID, time.Now().UTC(), userID); err != nil {
		return err
	}
	s.LogInfo(ctx, "User deactivated", slog.String("user_id", userID))
	return nil
}

var _ portssvc.UserSvcFacade = (*userService)(nil)
