package services

import (
	"log/slog"

	portsrepo "github.com/finhealth/savings_app/internal/core/ports/repositories"
	portssvc "github.com/finhealth/savings_app/internal/core/ports/services"
	"github.com/finhealth/savings_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly
// initialized dependencies.
func NewServiceContainer(cfg *config.Config, repos *portsrepo.RepositoryProvider, logger *slog.Logger) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.ActionToken = NewActionTokenService(cfg.ActionTokenSecret, cfg.JWTIssuer)

	mailer := NewLogMailer(logger)

	container.User = NewUserService(
		repos.User,
		container.ActionToken,
		mailer,
		cfg.EmailVerifyTTL,
		cfg.PasswordResetTTL,
	)

	container.Ledger = NewLedgerService(repos.Ledger, LedgerConfig{
		CurrencyCode: cfg.DefaultCurrencyCode,
		MaxTxnAmount: cfg.MaxTxnAmount,
		MaxRetries:   cfg.LedgerMaxRetries,
	})

	container.Reporting = NewReportingService(repos.Ledger, repos.Reporting)

	container.GoogleOAuth = NewGoogleOAuthService(cfg)

	return container
}
