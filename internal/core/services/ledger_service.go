package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finhealth/savings_app/internal/apperrors"
	"github.com/finhealth/savings_app/internal/core/domain"
	portsrepo "github.com/finhealth/savings_app/internal/core/ports/repositories"
	portssvc "github.com/finhealth/savings_app/internal/core/ports/services"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// LedgerConfig carries the tunables of the ledger engine.
type LedgerConfig struct {
	// CurrencyCode is assigned to accounts created lazily on first use.
	CurrencyCode string
	// MaxTxnAmount caps the amount of a single operation. Zero disables the cap.
	MaxTxnAmount decimal.Decimal
	// MaxRetries bounds how many times a contended operation is retried
	// before apperrors.ErrContention is surfaced.
	MaxRetries int
}

// ledgerService is the only writer of account balances and ledger entries.
// Every mutation runs inside one atomic unit with the account row locked, so
// concurrent operations on the same account serialize rather than interleave.
type ledgerService struct {
	BaseService
	repo portsrepo.LedgerRepository
	cfg  LedgerConfig
}

// NewLedgerService creates a new ledger service.
func NewLedgerService(repo portsrepo.LedgerRepository, cfg LedgerConfig) portssvc.LedgerSvcFacade {
	if cfg.MaxRetries < 1 {
		cfg.MaxRetries = 3
	}
	return &ledgerService{repo: repo, cfg: cfg}
}

// validateAmount enforces the shared amount rules: strictly positive, at
// most two decimal places, and within the configured cap.
func (s *ledgerService) validateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: amount must be positive, got %s", apperrors.ErrInvalidAmount, amount.String())
	}
	if amount.Exponent() < -2 {
		return fmt.Errorf("%w: amount %s has more than two decimal places", apperrors.ErrInvalidAmount, amount.String())
	}
	if s.cfg.MaxTxnAmount.IsPositive() && amount.GreaterThan(s.cfg.MaxTxnAmount) {
		return fmt.Errorf("%w: amount %s exceeds the per-operation limit of %s", apperrors.ErrInvalidAmount, amount.String(), s.cfg.MaxTxnAmount.String())
	}
	return nil
}

// Deposit adds amount to the owner's spendable balance, creating the account
// on first use.
func (s *ledgerService) Deposit(ctx context.Context, ownerUserID string, amount decimal.Decimal) (*domain.LedgerEntry, error) {
	return s.appendEntry(ctx, ownerUserID, domain.EntryDeposit, amount)
}

// Withdraw subtracts amount from the owner's spendable balance. The balance
// check happens with the account row locked, so two concurrent withdrawals
// can never jointly overdraw.
func (s *ledgerService) Withdraw(ctx context.Context, ownerUserID string, amount decimal.Decimal) (*domain.LedgerEntry, error) {
	return s.appendEntry(ctx, ownerUserID, domain.EntryWithdrawal, amount)
}

// RecordIncome appends an informational income entry. The spendable balance
// is unchanged; the entry only feeds reporting aggregations.
func (s *ledgerService) RecordIncome(ctx context.Context, ownerUserID string, amount decimal.Decimal) (*domain.LedgerEntry, error) {
	return s.appendEntry(ctx, ownerUserID, domain.EntryIncome, amount)
}

// RecordExpense appends an informational expense entry.
func (s *ledgerService) RecordExpense(ctx context.Context, ownerUserID string, amount decimal.Decimal) (*domain.LedgerEntry, error) {
	return s.appendEntry(ctx, ownerUserID, domain.EntryExpense, amount)
}

// appendEntry runs one ledger operation, retrying on contention up to the
// configured bound.
func (s *ledgerService) appendEntry(ctx context.Context, ownerUserID string, kind domain.EntryKind, amount decimal.Decimal) (*domain.LedgerEntry, error) {
	if ownerUserID == "" {
		return nil, fmt.Errorf("owner user ID is required: %w", apperrors.ErrValidation)
	}
	if err := s.validateAmount(amount); err != nil {
		return nil, err
	}

	var entry *domain.LedgerEntry
	var err error
	for attempt := 1; attempt <= s.cfg.MaxRetries; attempt++ {
		entry, err = s.tryAppendEntry(ctx, ownerUserID, kind, amount)
		if !errors.Is(err, apperrors.ErrContention) {
			break
		}
		if attempt < s.cfg.MaxRetries {
			s.LogWarn(ctx, "Ledger operation lost a lock conflict, retrying",
				slog.String("kind", string(kind)),
				slog.Int("attempt", attempt),
				slog.Int("max_retries", s.cfg.MaxRetries),
			)
		}
	}
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Ledger entry appended",
		slog.Int64("entry_id", entry.EntryID),
		slog.String("kind", string(kind)),
		slog.String("amount", amount.String()),
	)
	return entry, nil
}

// tryAppendEntry performs a single attempt inside one atomic unit: lock the
// account row, check and update the balance when the kind moves money, and
// append the immutable entry recording the outcome.
func (s *ledgerService) tryAppendEntry(ctx context.Context, ownerUserID string, kind domain.EntryKind, amount decimal.Decimal) (*domain.LedgerEntry, error) {
	var entry *domain.LedgerEntry

	err := s.repo.Atomically(ctx, func(tx portsrepo.LedgerTx) error {
		now := time.Now().UTC()

		var account *domain.Account
		var err error
		if kind == domain.EntryWithdrawal {
			// Withdrawing from an account that was never funded is a
			// not-found, not a zero-balance overdraw.
			account, err = tx.FindAccountForUpdate(ctx, ownerUserID)
		} else {
			account, err = tx.GetOrCreateAccountForUpdate(ctx, ownerUserID, s.cfg.CurrencyCode, ownerUserID, now)
		}
		if err != nil {
			return err
		}

		newBalance := account.Balance
		if kind.AffectsBalance() {
			if kind == domain.EntryWithdrawal {
				newBalance = account.Balance.Sub(amount)
				if newBalance.IsNegative() {
					return fmt.Errorf("%w: balance %s, requested %s", apperrors.ErrInsufficientFunds, account.Balance.String(), amount.String())
				}
			} else {
				newBalance = account.Balance.Add(amount)
			}
			if err := tx.UpdateAccountBalance(ctx, account.AccountID, newBalance, ownerUserID, now); err != nil {
				return err
			}
		}

		saved, err := tx.AppendEntry(ctx, domain.LedgerEntry{
			AccountID:    account.AccountID,
			Kind:         kind,
			Amount:       amount,
			BalanceAfter: newBalance,
			CreatedAt:    now,
			CreatedBy:    ownerUserID,
		})
		if err != nil {
			return err
		}
		entry = saved
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// GetBalance returns the owner's current spendable balance.
func (s *ledgerService) GetBalance(ctx context.Context, ownerUserID string) (decimal.Decimal, error) {
	account, err := s.repo.FindAccountByOwner(ctx, ownerUserID)
	if err != nil {
		return decimal.Zero, err
	}
	return account.Balance, nil
}

// ListEntries returns the owner's entries newest first with cursor pagination.
func (s *ledgerService) ListEntries(ctx context.Context, ownerUserID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	account, err := s.repo.FindAccountByOwner(ctx, ownerUserID)
	if err != nil {
		return nil, nil, err
	}

	return s.repo.ListEntries(ctx, account.AccountID, limit, nextToken)
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)
