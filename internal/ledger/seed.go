package ledger

import (
	"github.com/shopspring/decimal"

	"budgetree/internal/models"
)

type seedCategory struct {
	name     string
	kind     models.CategoryType
	amount   int64
	budget   int64
	children []seedCategory
}

var defaultCategories = []seedCategory{
	{name: "Main Salary", kind: models.CategoryTypeIncome, amount: 2500, budget: 2500},
	{name: "Housing", kind: models.CategoryTypeExpense, amount: 800, budget: 800, children: []seedCategory{
		{name: "Rent", kind: models.CategoryTypeExpense, amount: 700, budget: 700},
		{name: "Utilities", kind: models.CategoryTypeExpense, amount: 100, budget: 100},
	}},
	{name: "Food", kind: models.CategoryTypeExpense, amount: 400, budget: 450},
}

// Seed adds the starter budget a fresh ledger opens with.
func (s *Store) Seed() error {
	for _, sc := range defaultCategories {
		if err := s.seed(sc, nil); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) seed(sc seedCategory, parentID *string) error {
	c, err := s.Create(CreateInput{
		Name:     sc.name,
		Type:     sc.kind,
		ParentID: parentID,
		Budget:   decimal.NewFromInt(sc.budget),
	})
	if err != nil {
		return err
	}
	if err := s.UpdateAmount(c.ID, decimal.NewFromInt(sc.amount)); err != nil {
		return err
	}
	for _, child := range sc.children {
		if err := s.seed(child, &c.ID); err != nil {
			return err
		}
	}
	return nil
}
