// Package testutil provides test helpers for building ledgers, creating
// fixtures, and making assertions.
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"

	"budgetree/internal/ledger"
	"budgetree/internal/models"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// Ref returns a pointer to s, for optional id arguments.
func Ref(s string) *string {
	return &s
}

// Dec parses a decimal literal, failing loudly on typos.
func Dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// CreateTestCategory creates an empty root category of the given type.
func CreateTestCategory(t *testing.T, store *ledger.Store, categoryType models.CategoryType) *models.Category {
	t.Helper()

	category, err := store.Create(ledger.CreateInput{
		Name: fmt.Sprintf("Test Category %d", nextID()),
		Type: categoryType,
	})
	if err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestChild creates an empty category below parent, sharing its type.
func CreateTestChild(t *testing.T, store *ledger.Store, parent *models.Category) *models.Category {
	t.Helper()

	category, err := store.Create(ledger.CreateInput{
		Name:     fmt.Sprintf("Test Subcategory %d", nextID()),
		Type:     parent.Type,
		ParentID: &parent.ID,
	})
	if err != nil {
		t.Fatalf("failed to create test subcategory: %v", err)
	}
	return category
}

// CreateTestLeaf creates a category and sets its amount. parent and source may be nil.
func CreateTestLeaf(t *testing.T, store *ledger.Store, name string, categoryType models.CategoryType, parent *models.Category, amount, budget string, source *models.Category) *models.Category {
	t.Helper()

	in := ledger.CreateInput{
		Name:   name,
		Type:   categoryType,
		Budget: Dec(budget),
	}
	if parent != nil {
		in.ParentID = &parent.ID
	}
	if source != nil {
		in.SourceIncomeID = &source.ID
	}

	category, err := store.Create(in)
	if err != nil {
		t.Fatalf("failed to create test category %q: %v", name, err)
	}
	if err := store.UpdateAmount(category.ID, Dec(amount)); err != nil {
		t.Fatalf("failed to set amount of %q: %v", name, err)
	}
	category.Amount = Dec(amount)
	return category
}

// Household is the reference budget used across tests: a salary funding a
// Housing group with two children.
type Household struct {
	Store   *ledger.Store
	Salary  *models.Category
	Housing *models.Category
	Rent    *models.Category
	Bills   *models.Category
}

// NewHousehold builds Salary(1000) → Housing[budget 500](Rent 300, Bills 150).
func NewHousehold(t *testing.T) *Household {
	t.Helper()

	store := ledger.NewStore()
	h := &Household{Store: store}
	h.Salary = CreateTestLeaf(t, store, "Salary", models.CategoryTypeIncome, nil, "1000", "1000", nil)
	h.Housing = CreateTestLeaf(t, store, "Housing", models.CategoryTypeExpense, nil, "0", "500", h.Salary)
	h.Rent = CreateTestLeaf(t, store, "Rent", models.CategoryTypeExpense, h.Housing, "300", "0", nil)
	h.Bills = CreateTestLeaf(t, store, "Bills", models.CategoryTypeExpense, h.Housing, "150", "0", nil)
	return h
}
