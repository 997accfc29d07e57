package dto

import (
	"time"

	"github.com/finhealth/savings_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SummaryResponse represents the dashboard summary for a user's account.
type SummaryResponse struct {
	Balance decimal.Decimal `json:"balance"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

// PeriodTotalsParams defines query parameters for the period totals report.
type PeriodTotalsParams struct {
	Granularity string `form:"granularity,default=month" binding:"omitempty,oneof=day month year"`
	From        string `form:"from"` // inclusive, YYYY-MM-DD
	To          string `form:"to"`   // exclusive, YYYY-MM-DD
}

// PeriodTotalsRowResponse represents aggregated income and expense for one period.
type PeriodTotalsRowResponse struct {
	PeriodStart string          `json:"periodStart"`
	Income      decimal.Decimal `json:"income"`
	Expense     decimal.Decimal `json:"expense"`
}

// PeriodTotalsResponse represents the period totals report response.
type PeriodTotalsResponse struct {
	Granularity string                    `json:"granularity"`
	Rows        []PeriodTotalsRowResponse `json:"rows"`
}

// ToSummaryResponse converts a domain summary to its DTO form.
func ToSummaryResponse(s *domain.FinanceSummary) SummaryResponse {
	return SummaryResponse{
		Balance: s.Balance,
		Income:  s.Income,
		Expense: s.Expense,
	}
}

// ToPeriodTotalsResponse converts domain period rows to a DTO response.
func ToPeriodTotalsResponse(granularity domain.ReportGranularity, rows []domain.PeriodTotals) PeriodTotalsResponse {
	response := PeriodTotalsResponse{
		Granularity: string(granularity),
		Rows:        make([]PeriodTotalsRowResponse, len(rows)),
	}
	for i, row := range rows {
		response.Rows[i] = PeriodTotalsRowResponse{
			PeriodStart: row.PeriodStart.Format(time.DateOnly),
			Income:      row.Income,
			Expense:     row.Expense,
		}
	}
	return response
}
