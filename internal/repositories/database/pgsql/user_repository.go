package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finhealth/savings_app/internal/apperrors"
	"github.com/finhealth/savings_app/internal/core/domain"
	portsrepo "github.com/finhealth/savings_app/internal/core/ports/repositories"
	"github.com/finhealth/savings_app/internal/models"
	"github.com/finhealth/savings_app/internal/utils/mapping"
)

const userColumns = `user_id, name, email, password_hash, email_verified, auth_provider, provider_user_id, created_at, created_by, last_updated_at, last_updated_by, deleted_at`

type PgxUserRepository struct {
	db *pgxpool.Pool
}

func newPgxUserRepository(db *pgxpool.Pool) portsrepo.UserRepository {
	return &PgxUserRepository{db: db}
}

// Ensure PgxUserRepository implements portsrepo.UserRepository
var _ portsrepo.UserRepository = (*PgxUserRepository)(nil)

func (r *PgxUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	modelUser := mapping.ToModelUser(user)
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.db.Exec(ctx, query,
		modelUser.UserID,
		modelUser.Name,
		modelUser.Email,
		modelUser.PasswordHash,
		modelUser.EmailVerified,
		modelUser.AuthProvider,
		modelUser.ProviderUserID,
		modelUser.CreatedAt,
		modelUser.CreatedBy,
		modelUser.LastUpdatedAt,
		modelUser.LastUpdatedBy,
		modelUser.DeletedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save user: %w", classifyPgError(err))
	}
	return nil
}

func (r *PgxUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1 AND deleted_at IS NULL;`
	return scanUser(r.db.QueryRow(ctx, query, userID))
}

func (r *PgxUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1) AND deleted_at IS NULL;`
	return scanUser(r.db.QueryRow(ctx, query, email))
}

func (r *PgxUserRepository) FindUserByProviderID(ctx context.Context, provider domain.AuthProvider, providerUserID string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE auth_provider = $1 AND provider_user_id = $2 AND deleted_at IS NULL;`
	return scanUser(r.db.QueryRow(ctx, query, string(provider), providerUserID))
}

func (r *PgxUserRepository) MarkEmailVerified(ctx context.Context, userID string, now time.Time) error {
	query := `
		UPDATE users
		SET email_verified = TRUE, last_updated_at = $2, last_updated_by = $1
		WHERE user_id = $1 AND deleted_at IS NULL;
	`
	tag, err := r.db.Exec(ctx, query, userID, now)
	if err != nil {
		return fmt.Errorf("failed to mark email verified: %w", classifyPgError(err))
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxUserRepository) UpdatePasswordHash(ctx context.Context, userID string, passwordHash string, now time.Time) error {
	query := `
		UPDATE users
		SET password_hash = $2, last_updated_at = $3, last_updated_by = $1
		WHERE user_id = $1 AND deleted_at IS NULL;
	`
	tag, err := r.db.Exec(ctx, query, userID, passwordHash, now)
	if err != nil {
		return fmt.Errorf("failed to update password hash: %w", classifyPgError(err))
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxUserRepository) MarkUserDeleted(ctx context.Context, userID string, deletedAt time.Time, deletedBy string) error {
	query := `
		UPDATE users
		SET deleted_at = $2, last_updated_at = $2, last_updated_by = $3
		WHERE user_id = $1 AND deleted_at IS NULL;
	`
	tag, err := r.db.Exec(ctx, query, userID, deletedAt, deletedBy)
	if err != nil {
		return fmt.Errorf("failed to mark user deleted: %w", classifyPgError(err))
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// scanUser scans one user row into its domain form.
func scanUser(row pgx.Row) (*domain.User, error) {
	var m models.User
	err := row.Scan(
		&m.UserID,
		&m.Name,
		&m.Email,
		&m.PasswordHash,
		&m.EmailVerified,
		&m.AuthProvider,
		&m.ProviderUserID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
		&m.DeletedAt,
	)
	if err != nil {
		return nil, classifyPgError(err)
	}
	user := mapping.ToDomainUser(m)
	return &user, nil
}
