package dto

import (
	"time"

	"github.com/finhealth/savings_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// MovementRequest defines the data needed to record a deposit or withdrawal.
type MovementRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required,gt=0"`
}

// RecordRequest defines the data needed to record an income or expense entry.
type RecordRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required,gt=0"`
}

// EntryResponse defines the data returned for a single ledger entry.
type EntryResponse struct {
	EntryID      int64            `json:"entryID"`
	AccountID    string           `json:"accountID"`
	Kind         domain.EntryKind `json:"kind"`
	Amount       decimal.Decimal  `json:"amount"`
	BalanceAfter decimal.Decimal  `json:"balanceAfter"`
	CreatedAt    time.Time        `json:"createdAt"`
}

// BalanceResponse defines the data returned for a balance query.
type BalanceResponse struct {
	Balance decimal.Decimal `json:"balance"`
}

// ListEntriesParams defines query parameters for listing ledger entries.
type ListEntriesParams struct {
	Limit     int     `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	NextToken *string `form:"nextToken"`
}

// ListEntriesResponse wraps a page of ledger entries with the cursor for
// the next page, if any.
type ListEntriesResponse struct {
	Entries   []EntryResponse `json:"entries"`
	NextToken *string         `json:"nextToken,omitempty"`
}

// ToEntryResponse converts a domain.LedgerEntry to EntryResponse DTO.
func ToEntryResponse(e *domain.LedgerEntry) EntryResponse {
	return EntryResponse{
		EntryID:      e.EntryID,
		AccountID:    e.AccountID,
		Kind:         e.Kind,
		Amount:       e.Amount,
		BalanceAfter: e.BalanceAfter,
		CreatedAt:    e.CreatedAt,
	}
}

// ToListEntriesResponse converts a page of domain entries to its DTO form.
func ToListEntriesResponse(entries []domain.LedgerEntry, nextToken *string) ListEntriesResponse {
	responses := make([]EntryResponse, len(entries))
	for i, e := range entries {
		responses[i] = ToEntryResponse(&e)
	}
	return ListEntriesResponse{
		Entries:   responses,
		NextToken: nextToken,
	}
}
