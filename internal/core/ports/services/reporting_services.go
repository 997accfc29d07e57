package services

import (
	"context"
	"time"

	"github.com/finhealth/savings_app/internal/core/domain"
)

// ReportingSvcFacade serves read-only aggregations over the ledger.
type ReportingSvcFacade interface {
	// GetSummary returns the dashboard view: balance plus all-time income
	// and expense totals.
	GetSummary(ctx context.Context, ownerUserID string) (*domain.FinanceSummary, error)

	// GetPeriodTotals buckets income/expense within [from, to) by the
	// requested granularity.
	GetPeriodTotals(ctx context.Context, ownerUserID string, granularity domain.ReportGranularity, from, to time.Time) ([]domain.PeriodTotals, error)
}
