package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "budgetree/internal/errors"
	"budgetree/internal/ledger"
	"budgetree/internal/models"
	"budgetree/internal/pagination"
	"budgetree/internal/services"
)

// CategoryHandler handles category-related requests.
type CategoryHandler struct {
	ledgerService services.LedgerServicer
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(ledgerService services.LedgerServicer) *CategoryHandler {
	return &CategoryHandler{ledgerService: ledgerService}
}

// CreateCategoryRequest represents the request payload for creating a category.
// A blank parent_id creates a root category; a blank source_income_id leaves
// an expense drawing from the common pool.
type CreateCategoryRequest struct {
	Name           string              `json:"name" binding:"required,min=1,max=100"`
	Type           models.CategoryType `json:"type" binding:"required,category_type"`
	ParentID       *string             `json:"parent_id"`
	Budget         decimal.Decimal     `json:"budget" swaggertype:"string"`
	SourceIncomeID *string             `json:"source_income_id"`
}

// UpdateCategoryRequest represents the request payload for updating a category.
// Omitted fields are left untouched. An empty parent_id moves the category to
// the root level and an empty source_income_id unlinks it.
type UpdateCategoryRequest struct {
	Name           *string          `json:"name" binding:"omitempty,min=1,max=100"`
	Budget         *decimal.Decimal `json:"budget" swaggertype:"string"`
	Color          *string          `json:"color" binding:"omitempty,hex_color"`
	Icon           *string          `json:"icon" binding:"omitempty,max=50"`
	ParentID       *string          `json:"parent_id"`
	SourceIncomeID *string          `json:"source_income_id"`
}

// UpdateAmountRequest represents the request payload for setting an amount.
// The value may be sent as a JSON number or a decimal string.
type UpdateAmountRequest struct {
	Amount *decimal.Decimal `json:"amount" binding:"required" swaggertype:"string"`
}

// DeleteCategoryResponse lists what a cascading delete removed.
type DeleteCategoryResponse struct {
	RemovedIDs []string `json:"removed_ids"`
	Removed    int      `json:"removed"`
}

// CreateCategory handles the creation of a new category
// @Summary     Create a category
// @Description Create a new income or expense category, optionally below a parent of the same type
// @Tags        categories
// @Accept      json
// @Produce     json
// @Param       request body CreateCategoryRequest true "Category details"
// @Success     201 {object} services.CategoryDetail "Category created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Parent or income source not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /categories [post]
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	category, err := h.ledgerService.CreateCategory(
		req.Name,
		req.Type,
		req.ParentID,
		req.Budget,
		req.SourceIncomeID,
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"category": category})
}

// GetCategories handles the retrieval of categories
// @Summary     List categories
// @Description Get a paginated list of categories in collection order
// @Tags        categories
// @Accept      json
// @Produce     json
// @Param       type      query string false "Filter by category type (income/expense)"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[services.CategoryDetail] "Paginated categories"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /categories [get]
func (h *CategoryHandler) GetCategories(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var categoryType *models.CategoryType
	if raw := c.Query("type"); raw != "" {
		t := models.CategoryType(raw)
		if !t.Valid() {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "type must be income or expense"))
			return
		}
		categoryType = &t
	}

	result, err := h.ledgerService.GetCategories(page, categoryType)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetCategoryByID handles the retrieval of a specific category
// @Summary     Get category by ID
// @Description Get a category with its effective amount, budget state and income figures
// @Tags        categories
// @Accept      json
// @Produce     json
// @Param       id path string true "Category ID"
// @Success     200 {object} services.CategoryDetail "Category details"
// @Failure     400 {object} ErrorResponse "Invalid category ID"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     409 {object} ErrorResponse "Category hierarchy contains a cycle"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /categories/{id} [get]
func (h *CategoryHandler) GetCategoryByID(c *gin.Context) {
	categoryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	category, err := h.ledgerService.GetCategoryByID(categoryID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"category": category})
}

// GetChildren handles the retrieval of a category's direct children
// @Summary     Get subcategories
// @Description Get the direct children of a category in collection order
// @Tags        categories
// @Accept      json
// @Produce     json
// @Param       id path string true "Category ID"
// @Success     200 {array}  services.CategoryDetail "Subcategories"
// @Failure     400 {object} ErrorResponse "Invalid category ID"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /categories/{id}/children [get]
func (h *CategoryHandler) GetChildren(c *gin.Context) {
	categoryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	children, err := h.ledgerService.GetChildren(categoryID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": children})
}

// UpdateCategory handles the update of a category
// @Summary     Update category
// @Description Rename, re-budget, restyle, re-parent or relink a category
// @Tags        categories
// @Accept      json
// @Produce     json
// @Param       id      path string                true "Category ID"
// @Param       request body UpdateCategoryRequest true "Updated category details"
// @Success     200 {object} services.CategoryDetail "Category updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     409 {object} ErrorResponse "Move would create a cycle"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /categories/{id} [put]
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	categoryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	category, err := h.ledgerService.UpdateCategory(categoryID, ledger.UpdateInput{
		Name:           req.Name,
		Budget:         req.Budget,
		Color:          req.Color,
		Icon:           req.Icon,
		ParentID:       req.ParentID,
		SourceIncomeID: req.SourceIncomeID,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"category": category})
}

// UpdateAmount handles setting the amount of a category
// @Summary     Set category amount
// @Description Replace the directly-entered amount of a category; group totals follow from their children
// @Tags        categories
// @Accept      json
// @Produce     json
// @Param       id      path string              true "Category ID"
// @Param       request body UpdateAmountRequest true "New amount"
// @Success     200 {object} services.CategoryDetail "Amount updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /categories/{id}/amount [put]
func (h *CategoryHandler) UpdateAmount(c *gin.Context) {
	categoryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateAmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	category, err := h.ledgerService.UpdateAmount(categoryID, *req.Amount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"category": category})
}

// GetDescendants handles the preview of a cascading delete
// @Summary     Preview category deletion
// @Description List the category and every descendant a delete would remove
// @Tags        categories
// @Accept      json
// @Produce     json
// @Param       id path string true "Category ID"
// @Success     200 {object} services.DeletePreview "Subtree to be removed"
// @Failure     400 {object} ErrorResponse "Invalid category ID"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /categories/{id}/descendants [get]
func (h *CategoryHandler) GetDescendants(c *gin.Context) {
	categoryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	preview, err := h.ledgerService.PreviewDelete(categoryID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, preview)
}

// DeleteCategory handles the deletion of a category and its subtree
// @Summary     Delete category
// @Description Delete a category with all of its descendants and unlink expenses drawing from removed incomes
// @Tags        categories
// @Accept      json
// @Produce     json
// @Param       id path string true "Category ID"
// @Success     200 {object} DeleteCategoryResponse "Categories removed"
// @Failure     400 {object} ErrorResponse "Invalid category ID"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /categories/{id} [delete]
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	categoryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	removed, err := h.ledgerService.DeleteCategory(categoryID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, DeleteCategoryResponse{RemovedIDs: removed, Removed: len(removed)})
}
