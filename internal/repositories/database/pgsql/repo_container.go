package pgsql

import (
	portsrepo "github.com/finhealth/savings_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) *portsrepo.RepositoryProvider {
	return &portsrepo.RepositoryProvider{
		Ledger:    newPgxLedgerRepository(dbPool),
		User:      newPgxUserRepository(dbPool),
		Reporting: newReportingRepository(dbPool),
	}
}
