package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReportGranularity selects the bucket size for period aggregation.
type ReportGranularity string

const (
	GranularityDaily   ReportGranularity = "day"
	GranularityMonthly ReportGranularity = "month"
	GranularityYearly  ReportGranularity = "year"
)

// PeriodTotals holds aggregated income and expense amounts for one bucket.
type PeriodTotals struct {
	PeriodStart time.Time       `json:"periodStart"`
	Income      decimal.Decimal `json:"income"`
	Expense     decimal.Decimal `json:"expense"`
}

// FinanceSummary is the dashboard view of an account: current balance plus
// all-time income and expense totals.
type FinanceSummary struct {
	Balance decimal.Decimal `json:"balance"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}
