package repositories

import (
	"context"
	"time"

	"github.com/finhealth/savings_app/internal/core/domain"
)

// UserRepository is the persistence boundary for user records.
type UserRepository interface {
	SaveUser(ctx context.Context, user domain.User) error
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
	FindUserByProviderID(ctx context.Context, provider domain.AuthProvider, providerUserID string) (*domain.User, error)
	MarkEmailVerified(ctx context.Context, userID string, now time.Time) error
	UpdatePasswordHash(ctx context.Context, userID string, passwordHash string, now time.Time) error
	MarkUserDeleted(ctx context.Context, userID string, deletedAt time.Time, deletedBy string) error
}
