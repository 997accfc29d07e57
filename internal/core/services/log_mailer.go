package services

import (
	"context"
	"log/slog"

	portssvc "github.com/finhealth/savings_app/internal/core/ports/services"
)

// logMailer is a development Mailer that writes tokens to the log instead
// of delivering mail. Never enable it in production: tokens in logs grant
// account access.
type logMailer struct {
	logger *slog.Logger
}

// NewLogMailer creates a Mailer that logs outbound messages.
func NewLogMailer(logger *slog.Logger) portssvc.Mailer {
	return &logMailer{logger: logger}
}

func (m *logMailer) SendEmailVerification(_ context.Context, toEmail string, token string) error {
	m.logger.Info("Email verification token issued",
		slog.String("to", toEmail),
		slog.String("token", token),
	)
	return nil
}

func (m *logMailer) SendPasswordReset(_ context.Context, toEmail string, token string) error {
	m.logger.Info("Password reset token issued",
		slog.String("to", toEmail),
		slog.String("token", token),
	)
	return nil
}

var _ portssvc.Mailer = (*logMailer)(nil)
