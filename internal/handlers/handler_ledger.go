package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/finhealth/savings_app/internal/apperrors"
	"github.com/finhealth/savings_app/internal/core/domain"
	portssvc "github.com/finhealth/savings_app/internal/core/ports/services"
	"github.com/finhealth/savings_app/internal/dto"
	"github.com/finhealth/savings_app/internal/middleware"
)

// ledgerHandler handles balance mutations and entry history.
type ledgerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

// RegisterLedgerRoutes sets up the routes for ledger operations.
func RegisterLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := &ledgerHandler{ledgerService: ledgerService}

	ledger := rg.Group("/ledger")
	{
		ledger.POST("/deposit", h.deposit)
		ledger.POST("/withdraw", h.withdraw)
		ledger.POST("/income", h.recordIncome)
		ledger.POST("/expense", h.recordExpense)
		ledger.GET("/balance", h.getBalance)
		ledger.GET("/entries", h.listEntries)
	}
}

// respondLedgerError maps ledger service errors onto HTTP statuses.
func respondLedgerError(c *gin.Context, logger *slog.Logger, err error, operation string) {
	switch {
	case errors.Is(err, apperrors.ErrInvalidAmount), errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation error in ledger operation", slog.String("operation", operation), slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Account not found for ledger operation", slog.String("operation", operation))
		c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
	case errors.Is(err, apperrors.ErrInsufficientFunds):
		logger.Warn("Insufficient funds for withdrawal")
		c.JSON(http.StatusPaymentRequired, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrContention):
		logger.Warn("Ledger operation aborted after contention retries", slog.String("operation", operation))
		c.JSON(http.StatusConflict, gin.H{"error": "Operation conflicted with concurrent activity. Please retry."})
	case errors.Is(err, apperrors.ErrStorageUnavailable):
		logger.Error("Storage unavailable during ledger operation", slog.String("operation", operation), slog.String("error", err.Error()))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Storage temporarily unavailable. Nothing was applied."})
	default:
		logger.Error("Ledger operation failed", slog.String("operation", operation), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to complete operation"})
	}
}

// deposit godoc
// @Summary Deposit funds
// @Description Adds the given amount to the caller's spendable balance, creating the account on first use.
// @Tags ledger
// @Accept json
// @Produce json
// @Param movement body dto.MovementRequest true "Amount to deposit"
// @Success 201 {object} dto.EntryResponse
// @Failure 400 {object} map[string]string "Invalid amount"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Concurrent conflict, retry"
// @Failure 503 {object} map[string]string "Storage unavailable"
// @Security BearerAuth
// @Router /ledger/deposit [post]
func (h *ledgerHandler) deposit(c *gin.Context) {
	h.applyMovement(c, "deposit", h.ledgerService.Deposit)
}

// withdraw godoc
// @Summary Withdraw funds
// @Description Subtracts the given amount from the caller's spendable balance.
// @Tags ledger
// @Accept json
// @Produce json
// @Param movement body dto.MovementRequest true "Amount to withdraw"
// @Success 201 {object} dto.EntryResponse
// @Failure 400 {object} map[string]string "Invalid amount"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 402 {object} map[string]string "Insufficient funds"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 409 {object} map[string]string "Concurrent conflict, retry"
// @Failure 503 {object} map[string]string "Storage unavailable"
// @Security BearerAuth
// @Router /ledger/withdraw [post]
func (h *ledgerHandler) withdraw(c *gin.Context) {
	h.applyMovement(c, "withdraw", h.ledgerService.Withdraw)
}

// recordIncome godoc
// @Summary Record income
// @Description Appends an informational income entry. The spendable balance is unchanged.
// @Tags ledger
// @Accept json
// @Produce json
// @Param record body dto.RecordRequest true "Amount of income"
// @Success 201 {object} dto.EntryResponse
// @Failure 400 {object} map[string]string "Invalid amount"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /ledger/income [post]
func (h *ledgerHandler) recordIncome(c *gin.Context) {
	h.applyMovement(c, "record_income", h.ledgerService.RecordIncome)
}

// recordExpense godoc
// @Summary Record expense
// @Description Appends an informational expense entry. The spendable balance is unchanged.
// @Tags ledger
// @Accept json
// @Produce json
// @Param record body dto.RecordRequest true "Amount of expense"
// @Success 201 {object} dto.EntryResponse
// @Failure 400 {object} map[string]string "Invalid amount"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /ledger/expense [post]
func (h *ledgerHandler) recordExpense(c *gin.Context) {
	h.applyMovement(c, "record_expense", h.ledgerService.RecordExpense)
}

// applyMovement binds the shared amount payload, resolves the caller and
// delegates to the given ledger operation.
func (h *ledgerHandler) applyMovement(c *gin.Context, operation string, op func(ctx context.Context, ownerUserID string, amount decimal.Decimal) (*domain.LedgerEntry, error)) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.MovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ledger operation", slog.String("operation", operation), slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	entry, err := op(c.Request.Context(), userID, req.Amount)
	if err != nil {
		respondLedgerError(c, logger, err, operation)
		return
	}

	c.JSON(http.StatusCreated, dto.ToEntryResponse(entry))
}

// getBalance godoc
// @Summary Get current balance
// @Description Returns the caller's current spendable balance.
// @Tags ledger
// @Produce json
// @Success 200 {object} dto.BalanceResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /ledger/balance [get]
func (h *ledgerHandler) getBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	balance, err := h.ledgerService.GetBalance(c.Request.Context(), userID)
	if err != nil {
		respondLedgerError(c, logger, err, "get_balance")
		return
	}

	c.JSON(http.StatusOK, dto.BalanceResponse{Balance: balance})
}

// listEntries godoc
// @Summary List ledger entries
// @Description Returns the caller's ledger entries, newest first, with cursor pagination.
// @Tags ledger
// @Produce json
// @Param limit query int false "Page size (default 20, max 100)"
// @Param nextToken query string false "Cursor from a previous page"
// @Success 200 {object} dto.ListEntriesResponse
// @Failure 400 {object} map[string]string "Invalid pagination parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /ledger/entries [get]
func (h *ledgerHandler) listEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for listEntries", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	entries, nextToken, err := h.ledgerService.ListEntries(c.Request.Context(), userID, params.Limit, params.NextToken)
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			c.JSON(appErr.Code, gin.H{"error": appErr.Message})
			return
		}
		respondLedgerError(c, logger, err, "list_entries")
		return
	}

	c.JSON(http.StatusOK, dto.ToListEntriesResponse(entries, nextToken))
}
