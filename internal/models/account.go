package models

import (
	"github.com/shopspring/decimal"
)

// Account is the database representation of a savings account.
// Balance is stored as NUMERIC; never a float.
type Account struct {
	AccountID    string          `db:"account_id"`
	OwnerUserID  string          `db:"owner_user_id"`
	CurrencyCode string          `db:"currency_code"`
	Balance      decimal.Decimal `db:"balance"`
	Version      int64           `db:"version"`
	AuditFields
}
