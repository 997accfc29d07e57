package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/finhealth/savings_app/internal/core/domain"
	portssvc "github.com/finhealth/savings_app/internal/core/ports/services"
	"github.com/finhealth/savings_app/internal/dto"
	"github.com/finhealth/savings_app/internal/middleware"
)

// googleOAuthHandler exchanges Google identities for local sessions.
type googleOAuthHandler struct {
	auth        *AuthHandler
	oauthSvc    portssvc.GoogleOAuthSvcFacade
	userService portssvc.UserSvcFacade
}

// registerGoogleOAuthRoutes sets up the Google sign-in routes on the auth group.
func registerGoogleOAuthRoutes(rg *gin.RouterGroup, auth *AuthHandler, oauthSvc portssvc.GoogleOAuthSvcFacade) {
	h := &googleOAuthHandler{
		auth:        auth,
		oauthSvc:    oauthSvc,
		userService: auth.userService,
	}

	google := rg.Group("/google")
	{
		google.POST("", h.SignInWithIDToken)
		google.GET("/callback", h.Callback)
	}
}

// SignInWithIDToken godoc
// @Summary Sign in with a Google ID token
// @Description Validates a Google ID token obtained client-side, creates the user on first sign-in, and returns a JWT.
// @Tags auth
// @Accept json
// @Produce json
// @Param exchange body dto.GoogleExchangeRequest true "Google ID token"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse "ID token failed validation"
// @Failure 500 {object} ErrorResponse
// @Router /auth/google [post]
func (h *googleOAuthHandler) SignInWithIDToken(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.GoogleExchangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	h.loginWithIDToken(c, logger, req.IDToken)
}

// Callback godoc
// @Summary Google OAuth redirect callback
// @Description Exchanges the authorization code from Google's redirect for tokens and returns a JWT.
// @Tags auth
// @Produce json
// @Param code query string true "Authorization code"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/google/callback [get]
func (h *googleOAuthHandler) Callback(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Missing authorization code"})
		return
	}

	token, err := h.oauthSvc.ExchangeCodeForToken(c.Request.Context(), code)
	if err != nil {
		logger.Warn("Google code exchange failed", slog.String("error", err.Error()))
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Authorization code exchange failed"})
		return
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		logger.Error("Google token response missing id_token")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Google response did not include an identity token"})
		return
	}

	h.loginWithIDToken(c, logger, rawIDToken)
}

// loginWithIDToken validates the ID token, resolves the user and issues a JWT.
func (h *googleOAuthHandler) loginWithIDToken(c *gin.Context, logger *slog.Logger, rawIDToken string) {
	payload, err := h.oauthSvc.ValidateGoogleIDToken(c.Request.Context(), rawIDToken)
	if err != nil {
		logger.Warn("Google ID token validation failed", slog.String("error", err.Error()))
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Google ID token validation failed"})
		return
	}

	email, _ := payload.Claims["email"].(string)
	name, _ := payload.Claims["name"].(string)
	emailVerified, _ := payload.Claims["email_verified"].(bool)
	if email == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Google identity has no email"})
		return
	}
	if name == "" {
		name = email
	}

	user, err := h.userService.CreateOAuthUser(c.Request.Context(), name, email, domain.ProviderGoogle, payload.Subject, emailVerified)
	if err != nil {
		logger.Error("Failed to resolve oauth user", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to sign in"})
		return
	}

	jwtToken, err := h.auth.issueAccessToken(user.UserID)
	if err != nil {
		logger.Error("Failed to sign JWT token", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{Token: jwtToken, User: dto.ToUserResponse(user)})
}
