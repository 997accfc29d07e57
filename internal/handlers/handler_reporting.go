package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/finhealth/savings_app/internal/apperrors"
	"github.com/finhealth/savings_app/internal/core/domain"
	portssvc "github.com/finhealth/savings_app/internal/core/ports/services"
	"github.com/finhealth/savings_app/internal/dto"
	"github.com/finhealth/savings_app/internal/middleware"
)

// reportingHandler serves read-only aggregations over the ledger.
type reportingHandler struct {
	reportingService portssvc.ReportingSvcFacade
}

// registerReportingRoutes sets up the routes for reports.
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingSvcFacade) {
	h := &reportingHandler{reportingService: reportingService}

	reports := rg.Group("/reports")
	{
		reports.GET("/summary", h.getSummary)
		reports.GET("/periods", h.getPeriodTotals)
	}
}

// getSummary godoc
// @Summary Get dashboard summary
// @Description Returns the caller's current balance plus all-time income and expense totals. An unfunded account yields zeros.
// @Tags reports
// @Produce json
// @Success 200 {object} dto.SummaryResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /reports/summary [get]
func (h *reportingHandler) getSummary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	summary, err := h.reportingService.GetSummary(c.Request.Context(), userID)
	if err != nil {
		logger.Error("Failed to build summary", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build summary"})
		return
	}

	c.JSON(http.StatusOK, dto.ToSummaryResponse(summary))
}

// getPeriodTotals godoc
// @Summary Get period totals
// @Description Buckets the caller's income and expense entries by day, month or year within [from, to). Defaults to the last year bucketed by month.
// @Tags reports
// @Produce json
// @Param granularity query string false "day, month or year (default month)"
// @Param from query string false "Inclusive start date, YYYY-MM-DD"
// @Param to query string false "Exclusive end date, YYYY-MM-DD"
// @Success 200 {object} dto.PeriodTotalsResponse
// @Failure 400 {object} map[string]string "Invalid parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /reports/periods [get]
func (h *reportingHandler) getPeriodTotals(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.PeriodTotalsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	now := time.Now().UTC()
	from := now.AddDate(-1, 0, 0)
	to := now.AddDate(0, 0, 1)

	var err error
	if params.From != "" {
		from, err = time.Parse(time.DateOnly, params.From)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'from' date, expected YYYY-MM-DD"})
			return
		}
	}
	if params.To != "" {
		to, err = time.Parse(time.DateOnly, params.To)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'to' date, expected YYYY-MM-DD"})
			return
		}
	}

	granularity := domain.ReportGranularity(params.Granularity)
	if params.Granularity == "" {
		granularity = domain.GranularityMonthly
	}

	rows, err := h.reportingService.GetPeriodTotals(c.Request.Context(), userID, granularity, from, to)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to build period totals", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build report"})
		return
	}

	c.JSON(http.StatusOK, dto.ToPeriodTotalsResponse(granularity, rows))
}
