package pgsql

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/finhealth/savings_app/internal/apperrors"
	"github.com/finhealth/savings_app/internal/core/domain"
	portsrepo "github.com/finhealth/savings_app/internal/core/ports/repositories"
	"github.com/finhealth/savings_app/internal/models"
	"github.com/finhealth/savings_app/internal/utils/mapping"
	"github.com/finhealth/savings_app/internal/utils/pagination"
)

const accountColumns = `account_id, owner_user_id, currency_code, balance, version, created_at, created_by, last_updated_at, last_updated_by`

const entryColumns = `entry_id, account_id, kind, amount, balance_after, created_at, created_by`

type PgxLedgerRepository struct {
	BaseRepository
}

// newPgxLedgerRepository creates a new repository for accounts and ledger entries.
func newPgxLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerRepository {
	return &PgxLedgerRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxLedgerRepository implements portsrepo.LedgerRepository
var _ portsrepo.LedgerRepository = (*PgxLedgerRepository)(nil)

// Atomically runs fn inside one database transaction. Any error from fn, or
// from commit, rolls the whole unit back.
func (r *PgxLedgerRepository) Atomically(ctx context.Context, fn func(tx portsrepo.LedgerTx) error) error {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: failed to begin transaction: %v", apperrors.ErrStorageUnavailable, err)
	}
	// Will be ignored if the transaction is committed successfully
	defer r.Rollback(ctx, tx) //nolint:errcheck

	if err := fn(&pgxLedgerTx{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return classifyPgError(err)
	}
	return nil
}

// FindAccountByOwner retrieves the owner's account without locking.
func (r *PgxLedgerRepository) FindAccountByOwner(ctx context.Context, ownerUserID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE owner_user_id = $1;`
	return scanAccount(r.Pool.QueryRow(ctx, query, ownerUserID))
}

// ListEntries retrieves entries for an account, newest first, using keyset
// pagination on (created_at, entry_id).
func (r *PgxLedgerRepository) ListEntries(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	baseQuery := `SELECT ` + entryColumns + ` FROM ledger_entries WHERE account_id = $1`
	orderByClause := `ORDER BY created_at DESC, entry_id DESC`
	args := []interface{}{accountID}

	var query string
	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, lastEntryID, decodeErr := pagination.DecodeEntryToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		args = append(args, lastCreatedAt, lastEntryID)
		cursorClause := `AND (created_at, entry_id) < ($2, $3)`
		query = baseQuery + " " + cursorClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
	} else {
		query = baseQuery + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
	}
	args = append(args, limit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, classifyPgError(err)
	}
	defer rows.Close()

	modelEntries := make([]models.LedgerEntry, 0, limit)
	for rows.Next() {
		var m models.LedgerEntry
		if err := rows.Scan(&m.EntryID, &m.AccountID, &m.Kind, &m.Amount, &m.BalanceAfter, &m.CreatedAt, &m.CreatedBy); err != nil {
			return nil, nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		modelEntries = append(modelEntries, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, classifyPgError(err)
	}

	var nextTokenVal *string
	if len(modelEntries) == limit {
		last := modelEntries[len(modelEntries)-1]
		token := pagination.EncodeEntryToken(last.CreatedAt, last.EntryID)
		nextTokenVal = &token
	}

	return mapping.ToDomainLedgerEntrySlice(modelEntries), nextTokenVal, nil
}

// FindEntriesByAccount retrieves all entries for an account in creation order.
func (r *PgxLedgerRepository) FindEntriesByAccount(ctx context.Context, accountID string) ([]domain.LedgerEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM ledger_entries WHERE account_id = $1 ORDER BY entry_id ASC;`

	rows, err := r.Pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, classifyPgError(err)
	}
	defer rows.Close()

	var modelEntries []models.LedgerEntry
	for rows.Next() {
		var m models.LedgerEntry
		if err := rows.Scan(&m.EntryID, &m.AccountID, &m.Kind, &m.Amount, &m.BalanceAfter, &m.CreatedAt, &m.CreatedBy); err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		modelEntries = append(modelEntries, m)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyPgError(err)
	}

	return mapping.ToDomainLedgerEntrySlice(modelEntries), nil
}

// pgxLedgerTx binds the mutating ledger operations to one pgx transaction.
type pgxLedgerTx struct {
	tx pgx.Tx
}

var _ portsrepo.LedgerTx = (*pgxLedgerTx)(nil)

// GetOrCreateAccountForUpdate returns the owner's account with the row
// locked, inserting a fresh zero-balance account first if none exists. The
// insert is idempotent under the unique owner constraint; a concurrent
// creator simply wins and we lock its row instead.
func (t *pgxLedgerTx) GetOrCreateAccountForUpdate(ctx context.Context, ownerUserID, currencyCode, creatorUserID string, now time.Time) (*domain.Account, error) {
	insertQuery := `
		INSERT INTO accounts (account_id, owner_user_id, currency_code, balance, version, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, 0, 1, $4, $5, $4, $5)
		ON CONFLICT (owner_user_id) DO NOTHING;
	`
	_, err := t.tx.Exec(ctx, insertQuery, uuid.NewString(), ownerUserID, currencyCode, now, creatorUserID)
	if err != nil {
		return nil, classifyPgError(err)
	}

	return t.FindAccountForUpdate(ctx, ownerUserID)
}

// FindAccountForUpdate returns the owner's account with the row locked.
func (t *pgxLedgerTx) FindAccountForUpdate(ctx context.Context, ownerUserID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE owner_user_id = $1 FOR UPDATE;`
	return scanAccount(t.tx.QueryRow(ctx, query, ownerUserID))
}

// UpdateAccountBalance writes the new balance and bumps the version counter.
func (t *pgxLedgerTx) UpdateAccountBalance(ctx context.Context, accountID string, newBalance decimal.Decimal, userID string, now time.Time) error {
	query := `
		UPDATE accounts
		SET balance = $2, version = version + 1, last_updated_at = $3, last_updated_by = $4
		WHERE account_id = $1;
	`
	tag, err := t.tx.Exec(ctx, query, accountID, newBalance, now, userID)
	if err != nil {
		return classifyPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("account %s: %w", accountID, apperrors.ErrNotFound)
	}
	return nil
}

// AppendEntry inserts an immutable ledger entry and returns it with the
// database-assigned entry ID.
func (t *pgxLedgerTx) AppendEntry(ctx context.Context, entry domain.LedgerEntry) (*domain.LedgerEntry, error) {
	m := mapping.ToModelLedgerEntry(entry)
	query := `
		INSERT INTO ledger_entries (account_id, kind, amount, balance_after, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING entry_id;
	`
	err := t.tx.QueryRow(ctx, query, m.AccountID, m.Kind, m.Amount, m.BalanceAfter, m.CreatedAt, m.CreatedBy).Scan(&m.EntryID)
	if err != nil {
		return nil, classifyPgError(err)
	}

	saved := mapping.ToDomainLedgerEntry(m)
	return &saved, nil
}

// scanAccount scans one account row into its domain form.
func scanAccount(row pgx.Row) (*domain.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.AccountID,
		&m.OwnerUserID,
		&m.CurrencyCode,
		&m.Balance,
		&m.Version,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, classifyPgError(err)
	}
	account := mapping.ToDomainAccount(m)
	return &account, nil
}
