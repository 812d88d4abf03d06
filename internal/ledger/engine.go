package ledger

import (
	"github.com/shopspring/decimal"

	apperrors "budgetree/internal/errors"
	"budgetree/internal/models"
)

var (
	hundred = decimal.NewFromInt(100)
	one     = decimal.NewFromInt(1)

	// chartFloor keeps zero-valued slices visible in a chart.
	chartFloor = decimal.RequireFromString("0.1")
)

// Totals is the budget-wide summary over root categories.
type Totals struct {
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Balance  decimal.Decimal `json:"balance"`
}

// ChartSlice is one root category's share of its type's total.
type ChartSlice struct {
	CategoryID string          `json:"category_id"`
	Name       string          `json:"name"`
	Color      string          `json:"color"`
	Value      decimal.Decimal `json:"value"`
	Share      int64           `json:"share"`
}

// Engine derives computed figures from a Store. Every call walks the current
// contents afresh; nothing is cached between calls.
type Engine struct {
	store *Store
}

// NewEngine returns an Engine reading from store.
func NewEngine(store *Store) *Engine {
	return &Engine{store: store}
}

// Children returns the direct children of parentID in collection order.
func (e *Engine) Children(parentID string) []models.Category {
	var out []models.Category
	for _, c := range e.store.categories {
		if c.ParentID != nil && *c.ParentID == parentID {
			out = append(out, c.Clone())
		}
	}
	return out
}

// EffectiveAmount returns a leaf's own amount, or for a group the sum of its
// children's effective amounts.
func (e *Engine) EffectiveAmount(id string) (decimal.Decimal, error) {
	v := e.view()
	i, ok := v.index[id]
	if !ok {
		return decimal.Zero, apperrors.ErrCategoryNotFound
	}
	return v.effective(i)
}

// Totals sums the effective amounts of the root income and expense categories.
func (e *Engine) Totals() (Totals, error) {
	v := e.view()
	t := Totals{Income: decimal.Zero, Expenses: decimal.Zero}
	for i, c := range v.cats {
		if !c.IsRoot() {
			continue
		}
		amount, err := v.effective(i)
		if err != nil {
			return Totals{}, err
		}
		switch c.Type {
		case models.CategoryTypeIncome:
			t.Income = t.Income.Add(amount)
		case models.CategoryTypeExpense:
			t.Expenses = t.Expenses.Add(amount)
		}
	}
	t.Balance = t.Income.Sub(t.Expenses)
	return t, nil
}

// IncomeUsage sums the effective amounts of every expense, at any depth,
// that draws from incomeID. A linked group and its linked children are each
// counted.
func (e *Engine) IncomeUsage(incomeID string) (decimal.Decimal, error) {
	v := e.view()
	if _, ok := v.index[incomeID]; !ok {
		return decimal.Zero, apperrors.ErrCategoryNotFound
	}
	return v.usage(incomeID)
}

// IncomeBalance is the income's effective amount minus its usage. A negative
// balance is a valid state meaning the linked expenses overdraw the income.
func (e *Engine) IncomeBalance(incomeID string) (decimal.Decimal, error) {
	v := e.view()
	i, ok := v.index[incomeID]
	if !ok {
		return decimal.Zero, apperrors.ErrCategoryNotFound
	}
	if v.cats[i].Type != models.CategoryTypeIncome {
		return decimal.Zero, apperrors.WithMessage(apperrors.ErrInvalidInput, "income balance is only defined for income categories")
	}
	return v.balance(i)
}

// OverBudget reports whether an expense exceeds a configured budget. A zero
// budget means no cap and is never exceeded; income categories never are.
func (e *Engine) OverBudget(id string) (bool, error) {
	v := e.view()
	i, ok := v.index[id]
	if !ok {
		return false, apperrors.ErrCategoryNotFound
	}
	return v.overBudget(i)
}

// Progress returns the fill percentage of a category's progress bar: the
// unallocated share of an income (clamped to 0..100) or the spent share of an
// expense's budget (capped at 100).
func (e *Engine) Progress(id string) (float64, error) {
	v := e.view()
	i, ok := v.index[id]
	if !ok {
		return 0, apperrors.ErrCategoryNotFound
	}
	return v.progress(i)
}

// IncomeSources returns the root income categories an expense can draw from.
func (e *Engine) IncomeSources() []models.Category {
	var out []models.Category
	for _, c := range e.store.categories {
		if c.IsRoot() && c.Type == models.CategoryTypeIncome {
			out = append(out, c.Clone())
		}
	}
	return out
}

// Chart returns one slice per root category of type t.
func (e *Engine) Chart(t models.CategoryType) ([]ChartSlice, error) {
	totals, err := e.Totals()
	if err != nil {
		return nil, err
	}
	total := totals.Expenses
	if t == models.CategoryTypeIncome {
		total = totals.Income
	}
	if total.IsZero() {
		total = one
	}

	v := e.view()
	slices := []ChartSlice{}
	for i, c := range v.cats {
		if !c.IsRoot() || c.Type != t {
			continue
		}
		value, err := v.effective(i)
		if err != nil {
			return nil, err
		}
		if value.IsZero() {
			value = chartFloor
		}
		slices = append(slices, ChartSlice{
			CategoryID: c.ID,
			Name:       c.Name,
			Color:      c.Color,
			Value:      value,
			Share:      value.Div(total).Mul(hundred).Round(0).IntPart(),
		})
	}
	return slices, nil
}

// Detail bundles every figure derived for a single category.
type Detail struct {
	EffectiveAmount decimal.Decimal
	ChildCount      int
	OverBudget      bool
	Progress        float64
	IncomeUsage     decimal.Decimal
	IncomeBalance   decimal.Decimal
}

// Detail computes all derived figures of a category from one walk.
func (e *Engine) Detail(id string) (Detail, error) {
	v := e.view()
	i, ok := v.index[id]
	if !ok {
		return Detail{}, apperrors.ErrCategoryNotFound
	}

	amount, err := v.effective(i)
	if err != nil {
		return Detail{}, err
	}
	over, err := v.overBudget(i)
	if err != nil {
		return Detail{}, err
	}
	progress, err := v.progress(i)
	if err != nil {
		return Detail{}, err
	}

	d := Detail{
		EffectiveAmount: amount,
		ChildCount:      len(v.children[id]),
		OverBudget:      over,
		Progress:        progress,
		IncomeUsage:     decimal.Zero,
		IncomeBalance:   decimal.Zero,
	}
	if v.cats[i].Type == models.CategoryTypeIncome {
		if d.IncomeUsage, err = v.usage(id); err != nil {
			return Detail{}, err
		}
		d.IncomeBalance = amount.Sub(d.IncomeUsage)
	}
	return d, nil
}
