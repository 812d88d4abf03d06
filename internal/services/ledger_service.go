package services

import (
	"strings"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"budgetree/internal/currency"
	apperrors "budgetree/internal/errors"
	"budgetree/internal/ledger"
	"budgetree/internal/logger"
	"budgetree/internal/models"
	"budgetree/internal/pagination"
)

// generalSource names the pool an unlinked expense draws from.
const generalSource = "General"

// ledgerService serializes access to a ledger.Store and shapes its figures
// for presentation.
type ledgerService struct {
	mu              sync.RWMutex
	store           *ledger.Store
	engine          *ledger.Engine
	defaultCurrency currency.Code
	log             *zap.SugaredLogger
}

// NewLedgerService creates a new LedgerServicer over store. Summaries and
// charts requested without a currency use defaultCurrency.
func NewLedgerService(store *ledger.Store, defaultCurrency string) LedgerServicer {
	return &ledgerService{
		store:           store,
		engine:          ledger.NewEngine(store),
		defaultCurrency: currency.Lookup(defaultCurrency).Code,
		log:             logger.Named("ledger"),
	}
}

// CreateCategory creates a new leaf category
func (s *ledgerService) CreateCategory(
	name string,
	categoryType models.CategoryType,
	parentID *string,
	budget decimal.Decimal,
	sourceIncomeID *string,
) (*CategoryDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	category, err := s.store.Create(ledger.CreateInput{
		Name:           name,
		Type:           categoryType,
		ParentID:       parentID,
		Budget:         budget,
		SourceIncomeID: sourceIncomeID,
	})
	if err != nil {
		return nil, err
	}

	s.log.Infow("category created", "category_id", category.ID, "type", category.Type, "parent_id", category.ParentID)
	return s.detail(*category)
}

// GetCategories retrieves a paginated list of categories, optionally of one type.
func (s *ledgerService) GetCategories(page pagination.PageRequest, categoryType *models.CategoryType) (*pagination.PageResponse[CategoryDetail], error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []models.Category
	for _, c := range s.store.All() {
		if categoryType != nil && c.Type != *categoryType {
			continue
		}
		matched = append(matched, c)
	}

	window := pagination.Paginate(matched, page)
	details, err := s.details(window.Data)
	if err != nil {
		return nil, err
	}

	resp := pagination.NewPageResponse(details, window.Page, window.PageSize, window.TotalItems)
	return &resp, nil
}

// GetCategoryByID retrieves a category with its derived figures
func (s *ledgerService) GetCategoryByID(categoryID string) (*CategoryDetail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	category, err := s.store.Get(categoryID)
	if err != nil {
		return nil, err
	}
	return s.detail(*category)
}

// GetChildren retrieves the direct children of a category in collection order
func (s *ledgerService) GetChildren(categoryID string) ([]CategoryDetail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, err := s.store.Get(categoryID); err != nil {
		return nil, err
	}
	return s.details(s.engine.Children(categoryID))
}

// UpdateCategory applies metadata edits and re-parenting
func (s *ledgerService) UpdateCategory(categoryID string, in ledger.UpdateInput) (*CategoryDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	category, err := s.store.Update(categoryID, in)
	if err != nil {
		return nil, err
	}

	s.log.Infow("category updated", "category_id", category.ID)
	return s.detail(*category)
}

// UpdateAmount sets the directly-entered amount of a category
func (s *ledgerService) UpdateAmount(categoryID string, amount decimal.Decimal) (*CategoryDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.UpdateAmount(categoryID, amount); err != nil {
		return nil, err
	}
	category, err := s.store.Get(categoryID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.log.Debugw("category amount updated", "category_id", categoryID, "amount", amount.String())
	return s.detail(*category)
}

// PreviewDelete reports the subtree a delete would remove without touching it
func (s *ledgerService) PreviewDelete(categoryID string) (*DeletePreview, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	category, err := s.store.Get(categoryID)
	if err != nil {
		return nil, err
	}
	ids, err := s.store.Descendants(categoryID)
	if err != nil {
		return nil, err
	}

	return &DeletePreview{
		CategoryID:       category.ID,
		Name:             category.Name,
		Type:             category.Type,
		SubcategoryCount: len(ids) - 1,
		IDs:              ids,
	}, nil
}

// DeleteCategory removes a category with all of its descendants
func (s *ledgerService) DeleteCategory(categoryID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed, err := s.store.Delete(categoryID)
	if err != nil {
		return nil, err
	}

	s.log.Infow("category deleted", "category_id", categoryID, "removed", len(removed))
	return removed, nil
}

// GetIncomeSources lists the root income categories an expense can draw from
func (s *ledgerService) GetIncomeSources() []models.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sources := s.engine.IncomeSources()
	if sources == nil {
		return []models.Category{}
	}
	return sources
}

// GetSummary computes budget-wide totals in base units and in currencyCode.
func (s *ledgerService) GetSummary(currencyCode string) (*Summary, error) {
	cur, err := s.resolveCurrency(currencyCode)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	totals, err := s.engine.Totals()
	count := s.store.Len()
	s.mu.RUnlock()
	if err != nil {
		return nil, err
	}

	converted := ledger.Totals{
		Income:   cur.Convert(totals.Income),
		Expenses: cur.Convert(totals.Expenses),
		Balance:  cur.Convert(totals.Balance),
	}

	return &Summary{
		Currency:  cur,
		Totals:    totals,
		Converted: converted,
		Formatted: FormattedTotals{
			Income:   cur.Format(totals.Income),
			Expenses: cur.Format(totals.Expenses),
			Balance:  cur.Format(totals.Balance),
		},
		CategoryCount: count,
	}, nil
}

// GetChart returns the per-root breakdown of one category type.
func (s *ledgerService) GetChart(categoryType models.CategoryType, currencyCode string) (*Chart, error) {
	if !categoryType.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category type must be income or expense")
	}
	cur, err := s.resolveCurrency(currencyCode)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	slices, err := s.engine.Chart(categoryType)
	s.mu.RUnlock()
	if err != nil {
		return nil, err
	}

	entries := make([]ChartEntry, len(slices))
	for i, slice := range slices {
		entries[i] = ChartEntry{
			ChartSlice: slice,
			Converted:  cur.Convert(slice.Value),
			Formatted:  cur.Format(slice.Value),
		}
	}

	return &Chart{Type: categoryType, Currency: cur.Code, Slices: entries}, nil
}

func (s *ledgerService) resolveCurrency(code string) (currency.Currency, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return currency.Lookup(string(s.defaultCurrency)), nil
	}
	if !currency.IsSupported(code) {
		return currency.Currency{}, apperrors.WithMessage(apperrors.ErrUnsupportedCurrency, "unsupported currency "+code)
	}
	return currency.Lookup(code), nil
}

// detail must be called with s.mu held.
func (s *ledgerService) detail(category models.Category) (*CategoryDetail, error) {
	d, err := s.engine.Detail(category.ID)
	if err != nil {
		return nil, err
	}

	out := &CategoryDetail{
		Category:        category,
		EffectiveAmount: d.EffectiveAmount,
		IsGroup:         d.ChildCount > 0,
		ChildCount:      d.ChildCount,
		OverBudget:      d.OverBudget,
		Progress:        d.Progress,
	}

	switch category.Type {
	case models.CategoryTypeIncome:
		out.IncomeUsage = &d.IncomeUsage
		out.IncomeBalance = &d.IncomeBalance
	case models.CategoryTypeExpense:
		out.SourceIncomeName = generalSource
		if category.SourceIncomeID != nil {
			if source, err := s.store.Get(*category.SourceIncomeID); err == nil {
				out.SourceIncomeName = source.Name
			}
		}
	}
	return out, nil
}

func (s *ledgerService) details(categories []models.Category) ([]CategoryDetail, error) {
	out := make([]CategoryDetail, 0, len(categories))
	for _, c := range categories {
		d, err := s.detail(c)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, nil
}
