package repositories

import (
	"context"
	"time"

	"github.com/finhealth/savings_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ReportingRepository provides pure read aggregations over ledger entries.
// No method mutates state or takes locks beyond read consistency.
type ReportingRepository interface {
	// SumEntriesByKind totals entry amounts of one kind within [from, to).
	SumEntriesByKind(ctx context.Context, accountID string, kind domain.EntryKind, from, to time.Time) (decimal.Decimal, error)

	// GetPeriodTotals buckets income and expense totals within [from, to)
	// by the requested granularity.
	GetPeriodTotals(ctx context.Context, accountID string, granularity domain.ReportGranularity, from, to time.Time) ([]domain.PeriodTotals, error)
}
