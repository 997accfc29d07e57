package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	limitergin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/finhealth/savings_app/internal/apperrors"
	portssvc "github.com/finhealth/savings_app/internal/core/ports/services"
	"github.com/finhealth/savings_app/internal/dto"
	"github.com/finhealth/savings_app/internal/middleware"
	"github.com/finhealth/savings_app/internal/platform/config"
	"github.com/finhealth/savings_app/internal/utils"
)

// AuthHandler handles authentication related requests.
type AuthHandler struct {
	userService portssvc.UserSvcFacade
	jwtSecret   string
	jwtDuration time.Duration
	jwtIssuer   string
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(us portssvc.UserSvcFacade, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		userService: us,
		jwtSecret:   cfg.JWTSecret,
		jwtDuration: cfg.JWTExpiryDuration,
		jwtIssuer:   cfg.JWTIssuer,
	}
}

// ErrorResponse is a generic error response structure for handlers.
type ErrorResponse struct {
	Error string `json:"error"`
}

// newIPLimiter builds a memory-store IP limiter from a formatted rate,
// falling back when the configured value does not parse.
func newIPLimiter(formatted, fallback string) *limiter.Limiter {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		rate, _ = limiter.NewRateFromFormatted(fallback)
	}
	return limiter.New(memory.NewStore(), rate)
}

// registerAuthRoutes sets up the public routes for authentication.
func registerAuthRoutes(rg *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer) {
	h := NewAuthHandler(services.User, cfg)

	limitMiddleware := limitergin.NewMiddleware(newIPLimiter(cfg.AuthRateLimit, "30-M"))

	auth := rg.Group("/api/v1/auth", limitMiddleware)
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/verify-email", h.VerifyEmail)
		auth.POST("/password-reset/request", h.RequestPasswordReset)
		auth.POST("/password-reset/confirm", h.ResetPassword)
	}

	registerGoogleOAuthRoutes(auth, h, services.GoogleOAuth)
}

// issueAccessToken signs a login JWT for the user.
func (h *AuthHandler) issueAccessToken(userID string) (string, error) {
	return utils.GenerateJWT(userID, h.jwtSecret, h.jwtDuration, h.jwtIssuer)
}

// Register godoc
// @Summary Register new user
// @Description Creates a new local user account and sends an email verification token.
// @Tags auth
// @Accept json
// @Produce json
// @Param register body dto.RegisterRequest true "User Registration Info"
// @Success 201 {object} dto.UserResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Email already registered"
// @Failure 500 {object} ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	newUser, err := h.userService.Register(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			c.JSON(http.StatusConflict, ErrorResponse{Error: "Email is already registered"})
			return
		}
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		logger.Error("Failed to register user", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to register user"})
		return
	}

	c.JSON(http.StatusCreated, dto.ToUserResponse(newUser))
}

// Login godoc
// @Summary User login
// @Description Authenticates a user and returns a JWT token.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Login Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	user, err := h.userService.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) || errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid email or password"})
			return
		}
		logger.Error("Failed to authenticate user", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to log in"})
		return
	}

	token, err := h.issueAccessToken(user.UserID)
	if err != nil {
		logger.Error("Failed to sign JWT token", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{Token: token, User: dto.ToUserResponse(user)})
}

// VerifyEmail godoc
// @Summary Verify email address
// @Description Consumes an email verification token and marks the address verified. Tokens may be presented repeatedly until they expire.
// @Tags auth
// @Accept json
// @Produce json
// @Param verify body dto.VerifyEmailRequest true "Verification token"
// @Success 200 {object} dto.UserResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse "Token invalid, expired, or issued for another purpose"
// @Failure 404 {object} ErrorResponse "User no longer exists"
// @Router /auth/verify-email [post]
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.VerifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	user, err := h.userService.VerifyEmail(c.Request.Context(), req.Token)
	if err != nil {
		respondTokenError(c, logger, err, "Failed to verify email")
		return
	}

	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// RequestPasswordReset godoc
// @Summary Request a password reset
// @Description Sends a password reset token to the address if it belongs to a registered user. The response does not reveal whether the address is registered.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RequestPasswordResetRequest true "Account email"
// @Success 202 {object} map[string]string
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/password-reset/request [post]
func (h *AuthHandler) RequestPasswordReset(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.RequestPasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	if err := h.userService.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		logger.Error("Failed to request password reset", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to request password reset"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"message": "If the address is registered, a reset link has been sent."})
}

// ResetPassword godoc
// @Summary Reset password
// @Description Consumes a password reset token and replaces the account password.
// @Tags auth
// @Accept json
// @Produce json
// @Param reset body dto.ResetPasswordRequest true "Reset token and new password"
// @Success 200 {object} map[string]string
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse "Token invalid, expired, or issued for another purpose"
// @Failure 404 {object} ErrorResponse "User no longer exists"
// @Router /auth/password-reset/confirm [post]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	if err := h.userService.ResetPassword(c.Request.Context(), req.Token, req.NewPassword); err != nil {
		respondTokenError(c, logger, err, "Failed to reset password")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password updated."})
}

// respondTokenError maps action token failures onto HTTP statuses.
func respondTokenError(c *gin.Context, logger *slog.Logger, err error, internalMsg string) {
	switch {
	case errors.Is(err, apperrors.ErrTokenExpired):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Token has expired"})
	case errors.Is(err, apperrors.ErrTokenMalformed):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Token is invalid"})
	case errors.Is(err, apperrors.ErrPurposeMismatch):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Token was issued for a different purpose"})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "User not found"})
	default:
		logger.Error(internalMsg, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: internalMsg})
	}
}
