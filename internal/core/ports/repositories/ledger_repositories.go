package repositories

import (
	"context"
	"time"

	"github.com/finhealth/savings_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerTx exposes the mutating ledger operations that are only valid inside
// one atomic unit. Implementations bind every call to the same database
// transaction; the account row returned by the ForUpdate methods stays locked
// until the unit commits or rolls back.
type LedgerTx interface {
	// GetOrCreateAccountForUpdate returns the owner's account, creating it
	// with a zero balance if absent, and locks the row. Creation is
	// idempotent: two concurrent calls for the same owner never produce two
	// accounts.
	GetOrCreateAccountForUpdate(ctx context.Context, ownerUserID, currencyCode, creatorUserID string, now time.Time) (*domain.Account, error)

	// FindAccountForUpdate returns the owner's account with the row locked,
	// or apperrors.ErrNotFound if the owner has no account.
	FindAccountForUpdate(ctx context.Context, ownerUserID string) (*domain.Account, error)

	// UpdateAccountBalance writes the new balance and bumps the version
	// counter for the locked account.
	UpdateAccountBalance(ctx context.Context, accountID string, newBalance decimal.Decimal, userID string, now time.Time) error

	// AppendEntry inserts an immutable ledger entry and returns it with the
	// database-assigned, creation-ordered entry ID.
	AppendEntry(ctx context.Context, entry domain.LedgerEntry) (*domain.LedgerEntry, error)
}

// LedgerRepository is the persistence boundary of the ledger engine.
type LedgerRepository interface {
	// Atomically executes fn against a consistent snapshot and commits every
	// write fn performs, or rolls the whole unit back on any failure inside
	// fn. Lock conflicts and serialization failures surface as
	// apperrors.ErrContention; lost connections as apperrors.ErrStorageUnavailable.
	Atomically(ctx context.Context, fn func(tx LedgerTx) error) error

	// FindAccountByOwner returns the owner's account without locking.
	FindAccountByOwner(ctx context.Context, ownerUserID string) (*domain.Account, error)

	// ListEntries returns entries for an account, newest first, with cursor
	// pagination. The returned token is nil when no more pages exist.
	ListEntries(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error)

	// FindEntriesByAccount returns all entries for an account in creation
	// order. Used by audit reconciliation.
	FindEntriesByAccount(ctx context.Context, accountID string) ([]domain.LedgerEntry, error)
}
