package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finhealth/savings_app/internal/apperrors"
	"github.com/finhealth/savings_app/internal/core/domain"
	"github.com/finhealth/savings_app/internal/core/services"
)

const testTokenSecret = "test-secret-for-action-tokens"

func TestActionToken_RoundTrip(t *testing.T) {
	svc := services.NewActionTokenService(testTokenSecret, "savings-app-test")

	token, err := svc.Issue("user-123", domain.PurposeEmailVerify, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	subject, err := svc.Verify(token, domain.PurposeEmailVerify, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, "user-123", subject)

	// Tokens stay valid for repeated presentation until expiry.
	subject, err = svc.Verify(token, domain.PurposeEmailVerify, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, "user-123", subject)
}

func TestActionToken_PurposeIsolation(t *testing.T) {
	svc := services.NewActionTokenService(testTokenSecret, "savings-app-test")

	token, err := svc.Issue("user-123", domain.PurposeEmailVerify, time.Hour)
	require.NoError(t, err)

	_, err = svc.Verify(token, domain.PurposePasswordReset, time.Hour)
	assert.ErrorIs(t, err, apperrors.ErrPurposeMismatch)
}

func TestActionToken_Expired(t *testing.T) {
	svc := services.NewActionTokenService(testTokenSecret, "savings-app-test")

	token, err := svc.Issue("user-123", domain.PurposePasswordReset, -time.Minute)
	require.NoError(t, err)

	_, err = svc.Verify(token, domain.PurposePasswordReset, time.Hour)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
}

func TestActionToken_MaxAgeExceeded(t *testing.T) {
	svc := services.NewActionTokenService(testTokenSecret, "savings-app-test")

	token, err := svc.Issue("user-123", domain.PurposeEmailVerify, time.Hour)
	require.NoError(t, err)

	// The embedded deadline is still an hour out, but any measurable time
	// has passed since issuance, so a nanosecond maxAge must reject it.
	_, err = svc.Verify(token, domain.PurposeEmailVerify, time.Nanosecond)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
}

func TestActionToken_Malformed(t *testing.T) {
	svc := services.NewActionTokenService(testTokenSecret, "savings-app-test")

	_, err := svc.Verify("not-a-token", domain.PurposeEmailVerify, time.Hour)
	assert.ErrorIs(t, err, apperrors.ErrTokenMalformed)

	_, err = svc.Verify("", domain.PurposeEmailVerify, time.Hour)
	assert.ErrorIs(t, err, apperrors.ErrTokenMalformed)
}

func TestActionToken_WrongKey(t *testing.T) {
	issuer := services.NewActionTokenService(testTokenSecret, "savings-app-test")
	verifier := services.NewActionTokenService("a-different-secret", "savings-app-test")

	token, err := issuer.Issue("user-123", domain.PurposeEmailVerify, time.Hour)
	require.NoError(t, err)

	_, err = verifier.Verify(token, domain.PurposeEmailVerify, time.Hour)
	assert.ErrorIs(t, err, apperrors.ErrTokenMalformed)
}

func TestActionToken_IssueValidation(t *testing.T) {
	svc := services.NewActionTokenService(testTokenSecret, "savings-app-test")

	_, err := svc.Issue("", domain.PurposeEmailVerify, time.Hour)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = svc.Issue("user-123", "", time.Hour)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}
