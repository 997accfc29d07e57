package services

import (
	"context"

	"golang.org/x/oauth2"
	"google.golang.org/api/idtoken"
)

// GoogleOAuthSvcFacade wraps the Google OAuth code exchange and ID token
// validation used by the sign-in handler.
type GoogleOAuthSvcFacade interface {
	ExchangeCodeForToken(ctx context.Context, code string) (*oauth2.Token, error)
	ValidateGoogleIDToken(ctx context.Context, rawIDToken string) (*idtoken.Payload, error)
}
