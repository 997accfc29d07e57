package mapping

import (
	"github.com/finhealth/savings_app/internal/core/domain"
	"github.com/finhealth/savings_app/internal/models"
)

// ToModelLedgerEntry converts a domain ledger entry for DB storage.
func ToModelLedgerEntry(d domain.LedgerEntry) models.LedgerEntry {
	return models.LedgerEntry{
		EntryID:      d.EntryID,
		AccountID:    d.AccountID,
		Kind:         string(d.Kind),
		Amount:       d.Amount,
		BalanceAfter: d.BalanceAfter,
		CreatedAt:    d.CreatedAt,
		CreatedBy:    d.CreatedBy,
	}
}

// ToDomainLedgerEntry converts a DB ledger entry to its domain form.
func ToDomainLedgerEntry(m models.LedgerEntry) domain.LedgerEntry {
	return domain.LedgerEntry{
		EntryID:      m.EntryID,
		AccountID:    m.AccountID,
		Kind:         domain.EntryKind(m.Kind),
		Amount:       m.Amount,
		BalanceAfter: m.BalanceAfter,
		CreatedAt:    m.CreatedAt,
		CreatedBy:    m.CreatedBy,
	}
}

// ToDomainLedgerEntrySlice converts a slice of DB entries to domain form.
func ToDomainLedgerEntrySlice(ms []models.LedgerEntry) []domain.LedgerEntry {
	ds := make([]domain.LedgerEntry, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainLedgerEntry(m)
	}
	return ds
}
