package domain

import (
	"github.com/shopspring/decimal"
)

// Account represents a user's savings account within the core domain.
// Exactly one account exists per owner; it is created lazily on the first
// deposit (or income/expense record) and is never deleted while ledger
// entries reference it.
type Account struct {
	AccountID    string          `json:"accountID"`   // Primary Key (UUID)
	OwnerUserID  string          `json:"ownerUserID"` // FK -> users.user_id, unique
	CurrencyCode string          `json:"currencyCode"`
	Balance      decimal.Decimal `json:"balance"` // Spendable balance, fixed-point decimal
	Version      int64           `json:"version"` // Bumped on every balance write
	AuditFields
}
