package services

import (
	"github.com/shopspring/decimal"

	"budgetree/internal/currency"
	"budgetree/internal/ledger"
	"budgetree/internal/models"
	"budgetree/internal/pagination"
)

// CategoryDetail is a category together with the figures derived for it.
type CategoryDetail struct {
	models.Category
	EffectiveAmount  decimal.Decimal  `json:"effective_amount"`
	IsGroup          bool             `json:"is_group"`
	ChildCount       int              `json:"child_count"`
	OverBudget       bool             `json:"over_budget"`
	Progress         float64          `json:"progress"`
	IncomeUsage      *decimal.Decimal `json:"income_usage,omitempty"`
	IncomeBalance    *decimal.Decimal `json:"income_balance,omitempty"`
	SourceIncomeName string           `json:"source_income_name,omitempty"`
}

// DeletePreview describes what a cascading delete would remove.
type DeletePreview struct {
	CategoryID       string              `json:"category_id"`
	Name             string              `json:"name"`
	Type             models.CategoryType `json:"type"`
	SubcategoryCount int                 `json:"subcategory_count"`
	IDs              []string            `json:"ids"`
}

// FormattedTotals holds display strings for converted totals.
type FormattedTotals struct {
	Income   string `json:"income"`
	Expenses string `json:"expenses"`
	Balance  string `json:"balance"`
}

// Summary is the budget-wide overview in base units and in a display currency.
type Summary struct {
	Currency      currency.Currency `json:"currency"`
	Totals        ledger.Totals     `json:"totals"`
	Converted     ledger.Totals     `json:"converted"`
	Formatted     FormattedTotals   `json:"formatted"`
	CategoryCount int               `json:"category_count"`
}

// ChartEntry is a chart slice with its value in the display currency.
type ChartEntry struct {
	ledger.ChartSlice
	Converted decimal.Decimal `json:"converted"`
	Formatted string          `json:"formatted"`
}

// Chart is the per-type breakdown of root categories.
type Chart struct {
	Type     models.CategoryType `json:"type"`
	Currency currency.Code       `json:"currency"`
	Slices   []ChartEntry        `json:"slices"`
}

// LedgerServicer defines the contract for category ledger business logic.
type LedgerServicer interface {
	CreateCategory(name string, categoryType models.CategoryType, parentID *string, budget decimal.Decimal, sourceIncomeID *string) (*CategoryDetail, error)
	GetCategories(page pagination.PageRequest, categoryType *models.CategoryType) (*pagination.PageResponse[CategoryDetail], error)
	GetCategoryByID(categoryID string) (*CategoryDetail, error)
	GetChildren(categoryID string) ([]CategoryDetail, error)
	UpdateCategory(categoryID string, in ledger.UpdateInput) (*CategoryDetail, error)
	UpdateAmount(categoryID string, amount decimal.Decimal) (*CategoryDetail, error)
	PreviewDelete(categoryID string) (*DeletePreview, error)
	DeleteCategory(categoryID string) ([]string, error)
	GetIncomeSources() []models.Category
	GetSummary(currencyCode string) (*Summary, error)
	GetChart(categoryType models.CategoryType, currencyCode string) (*Chart, error)
}
