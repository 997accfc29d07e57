package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/finhealth/savings_app/internal/apperrors"
	"github.com/finhealth/savings_app/internal/core/domain"
	portssvc "github.com/finhealth/savings_app/internal/core/ports/services"
)

// actionTokenClaims binds a token purpose to the standard registered claims.
type actionTokenClaims struct {
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// actionTokenService issues and verifies HMAC-signed action tokens. The
// service is stateless: a token is valid for as long as its claims say so,
// and presenting it twice before expiry succeeds twice.
type actionTokenService struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// NewActionTokenService creates a new action token service signing with the
// given secret.
func NewActionTokenService(secret, issuer string) portssvc.ActionTokenSvcFacade {
	return &actionTokenService{
		secret: []byte(secret),
		issuer: issuer,
		now:    time.Now,
	}
}

// Issue produces a signed token binding subjectID to purpose for ttl.
// A non-positive ttl yields a token that is already expired.
func (s *actionTokenService) Issue(subjectID string, purpose domain.TokenPurpose, ttl time.Duration) (string, error) {
	if subjectID == "" {
		return "", fmt.Errorf("subject ID is required: %w", apperrors.ErrValidation)
	}
	if purpose == "" {
		return "", fmt.Errorf("token purpose is required: %w", apperrors.ErrValidation)
	}

	now := s.now()
	claims := actionTokenClaims{
		Purpose: string(purpose),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   subjectID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign action token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, expiry and purpose, returning the subject ID.
// maxAge, when positive, additionally rejects tokens issued longer than
// maxAge ago regardless of their embedded deadline.
func (s *actionTokenService) Verify(tokenString string, expectedPurpose domain.TokenPurpose, maxAge time.Duration) (string, error) {
	claims := &actionTokenClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", apperrors.ErrTokenExpired
		}
		return "", fmt.Errorf("%w: %v", apperrors.ErrTokenMalformed, err)
	}
	if !token.Valid {
		return "", apperrors.ErrTokenMalformed
	}

	if claims.Subject == "" {
		return "", fmt.Errorf("%w: missing subject", apperrors.ErrTokenMalformed)
	}

	if claims.Purpose != string(expectedPurpose) {
		return "", apperrors.ErrPurposeMismatch
	}

	if maxAge > 0 {
		if claims.IssuedAt == nil {
			return "", fmt.Errorf("%w: missing issued-at", apperrors.ErrTokenMalformed)
		}
		if s.now().Sub(claims.IssuedAt.Time) > maxAge {
			return "", apperrors.ErrTokenExpired
		}
	}

	return claims.Subject, nil
}

var _ portssvc.ActionTokenSvcFacade = (*actionTokenService)(nil)
