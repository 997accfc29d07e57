package services

// ServiceContainer bundles the service facades handed to the HTTP layer.
type ServiceContainer struct {
	Ledger      LedgerSvcFacade
	User        UserSvcFacade
	Reporting   ReportingSvcFacade
	ActionToken ActionTokenSvcFacade
	GoogleOAuth GoogleOAuthSvcFacade
}
