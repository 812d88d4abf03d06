package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"

	apperrors "budgetree/internal/errors"
	"budgetree/internal/models"
)

// view is a per-call adjacency snapshot of the store. Effective amounts are
// memoized only for the lifetime of the view.
type view struct {
	cats     []models.Category
	index    map[string]int
	children map[string][]int
	memo     map[int]decimal.Decimal
}

func (e *Engine) view() *view {
	s := e.store
	v := &view{
		cats:     s.categories,
		index:    s.index,
		children: make(map[string][]int),
		memo:     make(map[int]decimal.Decimal),
	}
	for i, c := range s.categories {
		if c.ParentID != nil {
			v.children[*c.ParentID] = append(v.children[*c.ParentID], i)
		}
	}
	return v
}

const (
	unvisited = iota
	onPath
	finished
)

// effective computes the roll-up of the category at start with an explicit
// post-order stack. Meeting a node that is still on the current path means
// the parent chain loops back on itself.
func (v *view) effective(start int) (decimal.Decimal, error) {
	if amount, ok := v.memo[start]; ok {
		return amount, nil
	}

	state := make(map[int]int)
	stack := []int{start}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		if _, ok := v.memo[top]; ok {
			stack = stack[:len(stack)-1]
			continue
		}

		kids := v.children[v.cats[top].ID]
		if state[top] == unvisited {
			state[top] = onPath
			for _, k := range kids {
				if state[k] == onPath {
					return decimal.Zero, cycleError(v.cats[k])
				}
				if _, ok := v.memo[k]; !ok {
					stack = append(stack, k)
				}
			}
			continue
		}

		sum := v.cats[top].Amount
		if len(kids) > 0 {
			sum = decimal.Zero
			for _, k := range kids {
				sum = sum.Add(v.memo[k])
			}
		}
		v.memo[top] = sum
		state[top] = finished
		stack = stack[:len(stack)-1]
	}
	return v.memo[start], nil
}

func (v *view) usage(incomeID string) (decimal.Decimal, error) {
	total := decimal.Zero
	for i, c := range v.cats {
		if c.Type != models.CategoryTypeExpense || c.SourceIncomeID == nil || *c.SourceIncomeID != incomeID {
			continue
		}
		amount, err := v.effective(i)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(amount)
	}
	return total, nil
}

func (v *view) balance(i int) (decimal.Decimal, error) {
	amount, err := v.effective(i)
	if err != nil {
		return decimal.Zero, err
	}
	used, err := v.usage(v.cats[i].ID)
	if err != nil {
		return decimal.Zero, err
	}
	return amount.Sub(used), nil
}

func (v *view) overBudget(i int) (bool, error) {
	c := v.cats[i]
	if c.Type != models.CategoryTypeExpense || !c.Budget.IsPositive() {
		return false, nil
	}
	amount, err := v.effective(i)
	if err != nil {
		return false, err
	}
	return amount.GreaterThan(c.Budget), nil
}

func (v *view) progress(i int) (float64, error) {
	c := v.cats[i]
	amount, err := v.effective(i)
	if err != nil {
		return 0, err
	}

	var pct decimal.Decimal
	if c.Type == models.CategoryTypeIncome {
		bal, err := v.balance(i)
		if err != nil {
			return 0, err
		}
		pct = bal.Div(orOne(amount)).Mul(hundred)
		pct = decimal.Max(decimal.Zero, decimal.Min(pct, hundred))
	} else {
		pct = decimal.Min(amount.Div(orOne(c.Budget)).Mul(hundred), hundred)
	}

	f, _ := pct.Round(2).Float64()
	return f, nil
}

func orOne(d decimal.Decimal) decimal.Decimal {
	if d.IsZero() {
		return one
	}
	return d
}

func cycleError(c models.Category) error {
	return apperrors.WithMessage(apperrors.ErrCycleDetected,
		fmt.Sprintf("category %q is its own ancestor", c.Name))
}
