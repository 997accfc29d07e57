package domain

// TokenPurpose scopes a signed action token to exactly one follow-up action.
// A token issued for one purpose must be rejected when presented for another.
type TokenPurpose string

const (
	PurposeEmailVerify   TokenPurpose = "email-verify"
	PurposePasswordReset TokenPurpose = "password-reset"
)
