package services

import (
	"context"

	"github.com/finhealth/savings_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerSvcFacade owns every balance mutation and the append-only audit
// trail. It is the only code path permitted to change Account.Balance or
// append a LedgerEntry.
type LedgerSvcFacade interface {
	// Deposit adds amount to the owner's balance, creating the account with
	// a zero balance first if absent. Returns the appended entry.
	Deposit(ctx context.Context, ownerUserID string, amount decimal.Decimal) (*domain.LedgerEntry, error)

	// Withdraw subtracts amount from the owner's balance. Fails with
	// apperrors.ErrNotFound if no account exists and with
	// apperrors.ErrInsufficientFunds if amount exceeds the balance.
	Withdraw(ctx context.Context, ownerUserID string, amount decimal.Decimal) (*domain.LedgerEntry, error)

	// RecordIncome and RecordExpense append informational entries tracked
	// for reporting. They do not change the spendable balance.
	RecordIncome(ctx context.Context, ownerUserID string, amount decimal.Decimal) (*domain.LedgerEntry, error)
	RecordExpense(ctx context.Context, ownerUserID string, amount decimal.Decimal) (*domain.LedgerEntry, error)

	// GetBalance returns the owner's current balance.
	GetBalance(ctx context.Context, ownerUserID string) (decimal.Decimal, error)

	// ListEntries returns the owner's entries, newest first, with cursor
	// pagination.
	ListEntries(ctx context.Context, ownerUserID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error)
}
