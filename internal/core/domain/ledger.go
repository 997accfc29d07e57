package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryKind identifies the type of a ledger entry.
type EntryKind string

const (
	EntryDeposit    EntryKind = "DEPOSIT"
	EntryWithdrawal EntryKind = "WITHDRAWAL"
	EntryIncome     EntryKind = "INCOME"
	EntryExpense    EntryKind = "EXPENSE"
)

// AffectsBalance reports whether entries of this kind change the spendable
// balance. Income and expense records are informational: they are aggregated
// for reporting but never move money in or out of the savings balance.
func (k EntryKind) AffectsBalance() bool {
	return k == EntryDeposit || k == EntryWithdrawal
}

// LedgerEntry is the immutable record of one completed ledger operation.
// EntryID is assigned by the database in creation order.
type LedgerEntry struct {
	EntryID      int64           `json:"entryID"`
	AccountID    string          `json:"accountID"`
	Kind         EntryKind       `json:"kind"`
	Amount       decimal.Decimal `json:"amount"`       // Always positive
	BalanceAfter decimal.Decimal `json:"balanceAfter"` // Account balance immediately after this entry
	CreatedAt    time.Time       `json:"createdAt"`
	CreatedBy    string          `json:"createdBy"`
}

// SignedAmount returns the entry amount with the sign it contributes to the
// spendable balance: positive for deposits, negative for withdrawals, zero
// for informational income/expense records.
func (e LedgerEntry) SignedAmount() decimal.Decimal {
	switch e.Kind {
	case EntryDeposit:
		return e.Amount
	case EntryWithdrawal:
		return e.Amount.Neg()
	default:
		return decimal.Zero
	}
}

// ReplayBalance recomputes an account balance by replaying entries in
// creation order. Used by audit reconciliation: the result must equal the
// persisted Account.Balance exactly.
func ReplayBalance(entries []LedgerEntry) decimal.Decimal {
	balance := decimal.Zero
	for _, e := range entries {
		balance = balance.Add(e.SignedAmount())
	}
	return balance
}
