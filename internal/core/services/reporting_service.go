package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finhealth/savings_app/internal/apperrors"
	"github.com/finhealth/savings_app/internal/core/domain"
	portsrepo "github.com/finhealth/savings_app/internal/core/ports/repositories"
	portssvc "github.com/finhealth/savings_app/internal/core/ports/services"
)

// reportingService serves read-only aggregations over the ledger.
type reportingService struct {
	BaseService
	ledgerRepo    portsrepo.LedgerRepository
	reportingRepo portsrepo.ReportingRepository
}

// NewReportingService creates a new reporting service.
func NewReportingService(ledgerRepo portsrepo.LedgerRepository, reportingRepo portsrepo.ReportingRepository) portssvc.ReportingSvcFacade {
	return &reportingService{
		ledgerRepo:    ledgerRepo,
		reportingRepo: reportingRepo,
	}
}

// GetSummary returns the dashboard view: current balance plus all-time
// income and expense totals. An owner who never funded an account gets an
// all-zero summary rather than a not-found.
func (s *reportingService) GetSummary(ctx context.Context, ownerUserID string) (*domain.FinanceSummary, error) {
	account, err := s.ledgerRepo.FindAccountByOwner(ctx, ownerUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return &domain.FinanceSummary{
				Balance: decimal.Zero,
				Income:  decimal.Zero,
				Expense: decimal.Zero,
			}, nil
		}
		return nil, err
	}

	// All-time window: the lower bound predates any possible entry and the
	// upper bound is just past now.
	from := time.Time{}
	to := time.Now().UTC().AddDate(0, 0, 1)

	income, err := s.reportingRepo.SumEntriesByKind(ctx, account.AccountID, domain.EntryIncome, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to sum income entries: %w", err)
	}
	expense, err := s.reportingRepo.SumEntriesByKind(ctx, account.AccountID, domain.EntryExpense, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to sum expense entries: %w", err)
	}

	return &domain.FinanceSummary{
		Balance: account.Balance,
		Income:  income,
		Expense: expense,
	}, nil
}

// GetPeriodTotals buckets income and expense totals within [from, to) by the
// requested granularity.
func (s *reportingService) GetPeriodTotals(ctx context.Context, ownerUserID string, granularity domain.ReportGranularity, from, to time.Time) ([]domain.PeriodTotals, error) {
	switch granularity {
	case domain.GranularityDaily, domain.GranularityMonthly, domain.GranularityYearly:
	default:
		return nil, fmt.Errorf("unknown granularity %q: %w", granularity, apperrors.ErrValidation)
	}
	if !from.Before(to) {
		return nil, fmt.Errorf("from must precede to: %w", apperrors.ErrValidation)
	}

	account, err := s.ledgerRepo.FindAccountByOwner(ctx, ownerUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return []domain.PeriodTotals{}, nil
		}
		return nil, err
	}

	return s.reportingRepo.GetPeriodTotals(ctx, account.AccountID, granularity, from, to)
}

var _ portssvc.ReportingSvcFacade = (*reportingService)(nil)
