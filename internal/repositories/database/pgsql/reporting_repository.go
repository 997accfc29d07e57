package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/finhealth/savings_app/internal/core/domain"
	portsrepo "github.com/finhealth/savings_app/internal/core/ports/repositories"
)

type PgxReportingRepository struct {
	db *pgxpool.Pool
}

func newReportingRepository(db *pgxpool.Pool) portsrepo.ReportingRepository {
	return &PgxReportingRepository{db: db}
}

// Ensure PgxReportingRepository implements portsrepo.ReportingRepository
var _ portsrepo.ReportingRepository = (*PgxReportingRepository)(nil)

// SumEntriesByKind totals entry amounts of one kind within [from, to).
func (r *PgxReportingRepository) SumEntriesByKind(ctx context.Context, accountID string, kind domain.EntryKind, from, to time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM ledger_entries
		WHERE account_id = $1 AND kind = $2 AND created_at >= $3 AND created_at < $4;
	`
	var total decimal.Decimal
	err := r.db.QueryRow(ctx, query, accountID, string(kind), from, to).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum entries: %w", classifyPgError(err))
	}
	return total, nil
}

// GetPeriodTotals buckets income and expense totals within [from, to) by
// the requested granularity. The granularity values match date_trunc units.
func (r *PgxReportingRepository) GetPeriodTotals(ctx context.Context, accountID string, granularity domain.ReportGranularity, from, to time.Time) ([]domain.PeriodTotals, error) {
	query := `
		SELECT date_trunc($4, created_at) AS period_start,
		       COALESCE(SUM(amount) FILTER (WHERE kind = 'INCOME'), 0) AS income,
		       COALESCE(SUM(amount) FILTER (WHERE kind = 'EXPENSE'), 0) AS expense
		FROM ledger_entries
		WHERE account_id = $1 AND kind IN ('INCOME', 'EXPENSE') AND created_at >= $2 AND created_at < $3
		GROUP BY period_start
		ORDER BY period_start;
	`
	rows, err := r.db.Query(ctx, query, accountID, from, to, string(granularity))
	if err != nil {
		return nil, fmt.Errorf("failed to query period totals: %w", classifyPgError(err))
	}
	defer rows.Close()

	var totals []domain.PeriodTotals
	for rows.Next() {
		var t domain.PeriodTotals
		if err := rows.Scan(&t.PeriodStart, &t.Income, &t.Expense); err != nil {
			return nil, fmt.Errorf("failed to scan period totals row: %w", err)
		}
		totals = append(totals, t)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyPgError(err)
	}

	return totals, nil
}
