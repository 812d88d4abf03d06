package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"budgetree/internal/currency"
	apperrors "budgetree/internal/errors"
	"budgetree/internal/models"
	"budgetree/internal/services"
)

// SummaryHandler serves the budget-wide views.
type SummaryHandler struct {
	ledgerService services.LedgerServicer
}

// NewSummaryHandler creates a new SummaryHandler.
func NewSummaryHandler(ledgerService services.LedgerServicer) *SummaryHandler {
	return &SummaryHandler{ledgerService: ledgerService}
}

// SummaryQuery holds the display currency of a summary.
type SummaryQuery struct {
	Currency string `form:"currency" binding:"omitempty,currency_code"`
}

// ChartQuery selects the category type and display currency of a chart.
type ChartQuery struct {
	Type     string `form:"type" binding:"required,category_type"`
	Currency string `form:"currency" binding:"omitempty,currency_code"`
}

// GetSummary handles the budget summary
// @Summary     Get budget summary
// @Description Total income, total expenses and balance over root categories
// @Tags        summary
// @Produce     json
// @Param       currency query string false "Display currency (USD, EUR, MXN, COP, GBP)"
// @Success     200 {object} services.Summary "Budget summary"
// @Failure     400 {object} ErrorResponse "Unsupported currency"
// @Failure     409 {object} ErrorResponse "Category hierarchy contains a cycle"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /summary [get]
func (h *SummaryHandler) GetSummary(c *gin.Context) {
	var q SummaryQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrUnsupportedCurrency, err.Error()))
		return
	}

	summary, err := h.ledgerService.GetSummary(q.Currency)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetChart handles the per-type chart breakdown
// @Summary     Get chart data
// @Description One slice per root category of the given type, with its share of the type total
// @Tags        summary
// @Produce     json
// @Param       type     query string true  "Category type (income/expense)"
// @Param       currency query string false "Display currency (USD, EUR, MXN, COP, GBP)"
// @Success     200 {object} services.Chart "Chart data"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /chart [get]
func (h *SummaryHandler) GetChart(c *gin.Context) {
	var q ChartQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	chart, err := h.ledgerService.GetChart(models.CategoryType(q.Type), q.Currency)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, chart)
}

// GetIncomeSources handles the list of income sources
// @Summary     List income sources
// @Description Root income categories an expense can draw from
// @Tags        summary
// @Produce     json
// @Success     200 {array} models.Category "Income sources"
// @Router      /income-sources [get]
func (h *SummaryHandler) GetIncomeSources(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": h.ledgerService.GetIncomeSources()})
}

// GetCurrencies handles the list of display currencies
// @Summary     List currencies
// @Description Supported display currencies with their rate against the base unit
// @Tags        summary
// @Produce     json
// @Success     200 {array} currency.Currency "Currencies"
// @Router      /currencies [get]
func (h *SummaryHandler) GetCurrencies(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"currencies": currency.All()})
}
