package repositories

// RepositoryProvider bundles all repositories backed by one datastore.
type RepositoryProvider struct {
	Ledger    LedgerRepository
	User      UserRepository
	Reporting ReportingRepository
}
