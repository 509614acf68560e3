package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/services"
)

// AnalyticsHandler handles analytics and reporting requests.
type AnalyticsHandler struct {
	analyticsService services.AnalyticsServicer
}

// NewAnalyticsHandler creates a new AnalyticsHandler.
func NewAnalyticsHandler(analyticsService services.AnalyticsServicer) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// GetSummary handles the dashboard summary request.
// @Summary     Get dashboard summary
// @Description Get income/expense totals, balance, category breakdown, and an optional prior-period comparison
// @Tags        analytics
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       startDate query string false "Start of inclusive window (YYYY-MM-DD)"
// @Param       endDate   query string false "End of inclusive window (YYYY-MM-DD)"
// @Success     200 {object} services.DashboardSummary "Dashboard summary"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /analytics/summary [get]
func (h *AnalyticsHandler) GetSummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	startDate, err := parseDateQuery(c, "startDate")
	if err != nil {
		respondWithError(c, err)
		return
	}
	endDate, err := parseDateQuery(c, "endDate")
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.analyticsService.GetDashboardSummary(userID, startDate, endDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetCategoryBreakdown handles the per-category breakdown request.
// @Summary     Get category breakdown
// @Description Get totals grouped by category, sorted by amount descending
// @Tags        analytics
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       startDate query string false "Start of inclusive window (YYYY-MM-DD)"
// @Param       endDate   query string false "End of inclusive window (YYYY-MM-DD)"
// @Param       type      query string false "Filter by type (expense/income)"
// @Success     200 {object} map[string]interface{} "Breakdown entries"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /analytics/category-breakdown [get]
func (h *AnalyticsHandler) GetCategoryBreakdown(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	startDate, err := parseDateQuery(c, "startDate")
	if err != nil {
		respondWithError(c, err)
		return
	}
	endDate, err := parseDateQuery(c, "endDate")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var expenseType *models.ExpenseType
	if v := c.Query("type"); v != "" {
		t := models.ExpenseType(v)
		if t != models.ExpenseTypeExpense && t != models.ExpenseTypeIncome {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "type must be 'expense' or 'income'"))
			return
		}
		expenseType = &t
	}

	breakdown, err := h.analyticsService.GetCategoryBreakdown(userID, startDate, endDate, expenseType)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"breakdown": breakdown})
}

// GetMonthlyTrends handles the monthly trends request.
// @Summary     Get monthly trends
// @Description Get per-month income, expense, and savings totals for the trailing window
// @Tags        analytics
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       months query int false "Number of trailing months (default 6)"
// @Success     200 {object} map[string]interface{} "Monthly trend entries"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /analytics/monthly-trends [get]
func (h *AnalyticsHandler) GetMonthlyTrends(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	months := 0
	if v := c.Query("months"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "months must be a positive integer"))
			return
		}
		months = n
	}

	trends, err := h.analyticsService.GetMonthlyTrends(userID, months)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"trends": trends})
}

// GetTopCategories handles the top-categories ranking request.
// @Summary     Get top categories
// @Description Get the highest-spending categories for a record type
// @Tags        analytics
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       type  query string false "Record type to rank (default expense)"
// @Param       limit query int    false "Maximum entries (default 5)"
// @Success     200 {object} map[string]interface{} "Top category entries"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /analytics/top-categories [get]
func (h *AnalyticsHandler) GetTopCategories(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var expenseType models.ExpenseType
	if v := c.Query("type"); v != "" {
		t := models.ExpenseType(v)
		if t != models.ExpenseTypeExpense && t != models.ExpenseTypeIncome {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "type must be 'expense' or 'income'"))
			return
		}
		expenseType = t
	}

	limit := 0
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "limit must be a positive integer"))
			return
		}
		limit = n
	}

	topCategories, err := h.analyticsService.GetTopCategories(userID, expenseType, limit)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"topCategories": topCategories})
}
