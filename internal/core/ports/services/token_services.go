package services

import (
	"context"
	"time"

	"github.com/finhealth/savings_app/internal/core/domain"
)

// ActionTokenSvcFacade issues and verifies stateless, tamper-evident tokens
// that authorize a single follow-up action (verify email, reset password)
// for a specific subject. Both operations are pure computation: no storage
// or network I/O, so no context is taken.
//
// A verified token remains valid for repeated presentation until it expires;
// single-use consumption would require a side table this service
// deliberately does not keep.
type ActionTokenSvcFacade interface {
	// Issue produces an opaque, URL-safe token binding subjectID to purpose
	// for ttl.
	Issue(subjectID string, purpose domain.TokenPurpose, ttl time.Duration) (string, error)

	// Verify checks signature, expiry (both the embedded deadline and
	// maxAge since issuance), and purpose, returning the subject ID.
	// Failures are apperrors.ErrTokenMalformed, ErrTokenExpired, or
	// ErrPurposeMismatch.
	Verify(token string, expectedPurpose domain.TokenPurpose, maxAge time.Duration) (string, error)
}

// Mailer delivers action tokens to users. Outbound delivery is an external
// collaborator; implementations may be SMTP-backed or log-only in development.
type Mailer interface {
	SendEmailVerification(ctx context.Context, toEmail string, token string) error
	SendPasswordReset(ctx context.Context, toEmail string, token string) error
}
