package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntry is the database representation of one immutable ledger record.
// entry_id is a BIGSERIAL, so rows are ordered by creation.
type LedgerEntry struct {
	EntryID      int64           `db:"entry_id"`
	AccountID    string          `db:"account_id"`
	Kind         string          `db:"kind"`
	Amount       decimal.Decimal `db:"amount"`
	BalanceAfter decimal.Decimal `db:"balance_after"`
	CreatedAt    time.Time       `db:"created_at"`
	CreatedBy    string          `db:"created_by"`
}
