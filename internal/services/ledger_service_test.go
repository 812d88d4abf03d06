package services

import (
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"budgetree/internal/ledger"
	"budgetree/internal/models"
	"budgetree/internal/pagination"
	"budgetree/internal/testutil"
)

func newHouseholdService(t *testing.T) (LedgerServicer, *testutil.Household) {
	t.Helper()
	h := testutil.NewHousehold(t)
	return NewLedgerService(h.Store, "USD"), h
}

func TestCreateCategory(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		svc := NewLedgerService(ledger.NewStore(), "USD")

		cat, err := svc.CreateCategory("Groceries", models.CategoryTypeExpense, nil, testutil.Dec("200"), nil)
		testutil.AssertNoError(t, err)

		if cat.ID == "" {
			t.Fatal("expected non-empty category ID")
		}
		if cat.Name != "Groceries" {
			t.Errorf("expected name Groceries, got %s", cat.Name)
		}
		if cat.IsGroup {
			t.Error("expected a new category to be a leaf")
		}
		if cat.SourceIncomeName != "General" {
			t.Errorf("expected source General, got %q", cat.SourceIncomeName)
		}
		testutil.AssertDecimal(t, cat.EffectiveAmount, "0")
	})

	t.Run("with_parent", func(t *testing.T) {
		svc, h := newHouseholdService(t)

		child, err := svc.CreateCategory("Insurance", models.CategoryTypeExpense, &h.Housing.ID, decimal.Zero, nil)
		testutil.AssertNoError(t, err)

		if child.ParentID == nil || *child.ParentID != h.Housing.ID {
			t.Errorf("expected parent ID %s, got %v", h.Housing.ID, child.ParentID)
		}

		parent, err := svc.GetCategoryByID(h.Housing.ID)
		testutil.AssertNoError(t, err)
		if parent.ChildCount != 3 {
			t.Errorf("expected 3 children, got %d", parent.ChildCount)
		}
	})

	t.Run("linked_source_name", func(t *testing.T) {
		svc, h := newHouseholdService(t)

		cat, err := svc.CreateCategory("Gym", models.CategoryTypeExpense, nil, decimal.Zero, &h.Salary.ID)
		testutil.AssertNoError(t, err)
		if cat.SourceIncomeName != "Salary" {
			t.Errorf("expected source Salary, got %q", cat.SourceIncomeName)
		}
	})

	t.Run("empty_name", func(t *testing.T) {
		svc := NewLedgerService(ledger.NewStore(), "USD")
		_, err := svc.CreateCategory("  ", models.CategoryTypeIncome, nil, decimal.Zero, nil)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("invalid_parent", func(t *testing.T) {
		svc := NewLedgerService(ledger.NewStore(), "USD")
		_, err := svc.CreateCategory("Orphan", models.CategoryTypeExpense, testutil.Ref("missing"), decimal.Zero, nil)
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})

	t.Run("source_not_income", func(t *testing.T) {
		svc, h := newHouseholdService(t)
		_, err := svc.CreateCategory("Gym", models.CategoryTypeExpense, nil, decimal.Zero, &h.Rent.ID)
		testutil.AssertAppError(t, err, "INVALID_INCOME_SOURCE")
	})
}

func TestGetCategories(t *testing.T) {
	t.Run("all_in_order", func(t *testing.T) {
		svc, h := newHouseholdService(t)

		page, err := svc.GetCategories(pagination.PageRequest{}, nil)
		testutil.AssertNoError(t, err)

		if page.TotalItems != 4 {
			t.Fatalf("expected 4 categories, got %d", page.TotalItems)
		}
		if page.Data[0].ID != h.Salary.ID || page.Data[3].ID != h.Bills.ID {
			t.Error("expected categories in collection order")
		}
		testutil.AssertDecimal(t, page.Data[1].EffectiveAmount, "450")
	})

	t.Run("by_type", func(t *testing.T) {
		svc, _ := newHouseholdService(t)
		income := models.CategoryTypeIncome

		page, err := svc.GetCategories(pagination.PageRequest{}, &income)
		testutil.AssertNoError(t, err)

		if len(page.Data) != 1 || page.Data[0].Name != "Salary" {
			t.Fatalf("expected only Salary, got %+v", page.Data)
		}
		if page.Data[0].IncomeUsage == nil {
			t.Fatal("expected income usage on an income category")
		}
		testutil.AssertDecimal(t, *page.Data[0].IncomeUsage, "450")
		testutil.AssertDecimal(t, *page.Data[0].IncomeBalance, "550")
	})

	t.Run("paged", func(t *testing.T) {
		svc, _ := newHouseholdService(t)

		page, err := svc.GetCategories(pagination.PageRequest{Page: 2, PageSize: 3}, nil)
		testutil.AssertNoError(t, err)

		if len(page.Data) != 1 {
			t.Errorf("expected 1 item on page 2, got %d", len(page.Data))
		}
		if page.TotalPages != 2 {
			t.Errorf("expected 2 pages, got %d", page.TotalPages)
		}
	})
}

func TestGetCategoryByID(t *testing.T) {
	t.Run("group", func(t *testing.T) {
		svc, h := newHouseholdService(t)

		cat, err := svc.GetCategoryByID(h.Housing.ID)
		testutil.AssertNoError(t, err)

		if !cat.IsGroup || cat.ChildCount != 2 {
			t.Errorf("expected a group with 2 children, got group=%v count=%d", cat.IsGroup, cat.ChildCount)
		}
		testutil.AssertDecimal(t, cat.EffectiveAmount, "450")
		if cat.Progress != 90 {
			t.Errorf("expected progress 90, got %v", cat.Progress)
		}
		if cat.OverBudget {
			t.Error("expected Housing within budget")
		}
	})

	t.Run("not_found", func(t *testing.T) {
		svc, _ := newHouseholdService(t)
		_, err := svc.GetCategoryByID("missing")
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})
}

func TestGetChildren(t *testing.T) {
	t.Run("ordered", func(t *testing.T) {
		svc, h := newHouseholdService(t)

		kids, err := svc.GetChildren(h.Housing.ID)
		testutil.AssertNoError(t, err)

		if len(kids) != 2 || kids[0].ID != h.Rent.ID || kids[1].ID != h.Bills.ID {
			t.Fatalf("expected [Rent Bills], got %+v", kids)
		}
	})

	t.Run("leaf_has_none", func(t *testing.T) {
		svc, h := newHouseholdService(t)

		kids, err := svc.GetChildren(h.Rent.ID)
		testutil.AssertNoError(t, err)
		if kids == nil || len(kids) != 0 {
			t.Errorf("expected empty non-nil slice, got %v", kids)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		svc, _ := newHouseholdService(t)
		_, err := svc.GetChildren("missing")
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})
}

func TestUpdateAmount(t *testing.T) {
	t.Run("leaf_rolls_up", func(t *testing.T) {
		svc, h := newHouseholdService(t)

		rent, err := svc.UpdateAmount(h.Rent.ID, testutil.Dec("400"))
		testutil.AssertNoError(t, err)
		testutil.AssertDecimal(t, rent.Amount, "400")

		housing, err := svc.GetCategoryByID(h.Housing.ID)
		testutil.AssertNoError(t, err)
		testutil.AssertDecimal(t, housing.EffectiveAmount, "550")
		if !housing.OverBudget {
			t.Error("expected Housing over its 500 budget")
		}
	})

	t.Run("group_amount_inert", func(t *testing.T) {
		svc, h := newHouseholdService(t)

		housing, err := svc.UpdateAmount(h.Housing.ID, testutil.Dec("9999"))
		testutil.AssertNoError(t, err)
		testutil.AssertDecimal(t, housing.EffectiveAmount, "450")
	})

	t.Run("not_found", func(t *testing.T) {
		svc, _ := newHouseholdService(t)
		_, err := svc.UpdateAmount("missing", testutil.Dec("1"))
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})
}

func TestUpdateCategory(t *testing.T) {
	t.Run("rename", func(t *testing.T) {
		svc, h := newHouseholdService(t)

		cat, err := svc.UpdateCategory(h.Rent.ID, ledger.UpdateInput{Name: testutil.Ref("Mortgage")})
		testutil.AssertNoError(t, err)
		if cat.Name != "Mortgage" {
			t.Errorf("expected name Mortgage, got %s", cat.Name)
		}
	})

	t.Run("move_to_root", func(t *testing.T) {
		svc, h := newHouseholdService(t)

		cat, err := svc.UpdateCategory(h.Bills.ID, ledger.UpdateInput{ParentID: testutil.Ref("")})
		testutil.AssertNoError(t, err)
		if !cat.IsRoot() {
			t.Error("expected Bills at the root")
		}

		summary, err := svc.GetSummary("USD")
		testutil.AssertNoError(t, err)
		testutil.AssertDecimal(t, summary.Totals.Expenses, "450")
	})

	t.Run("below_descendant", func(t *testing.T) {
		svc, h := newHouseholdService(t)
		_, err := svc.UpdateCategory(h.Housing.ID, ledger.UpdateInput{ParentID: &h.Rent.ID})
		testutil.AssertAppError(t, err, "CYCLE_DETECTED")
	})
}

func TestDeleteCategory(t *testing.T) {
	t.Run("preview", func(t *testing.T) {
		svc, h := newHouseholdService(t)

		preview, err := svc.PreviewDelete(h.Housing.ID)
		testutil.AssertNoError(t, err)

		if preview.SubcategoryCount != 2 || len(preview.IDs) != 3 {
			t.Errorf("expected 2 subcategories, got %d (%v)", preview.SubcategoryCount, preview.IDs)
		}
		if _, err := svc.GetCategoryByID(h.Rent.ID); err != nil {
			t.Error("expected preview to leave the subtree in place")
		}
	})

	t.Run("cascade", func(t *testing.T) {
		svc, h := newHouseholdService(t)

		removed, err := svc.DeleteCategory(h.Housing.ID)
		testutil.AssertNoError(t, err)
		if len(removed) != 3 {
			t.Errorf("expected 3 removed, got %d", len(removed))
		}

		_, err = svc.GetCategoryByID(h.Bills.ID)
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")

		salary, err := svc.GetCategoryByID(h.Salary.ID)
		testutil.AssertNoError(t, err)
		testutil.AssertDecimal(t, *salary.IncomeUsage, "0")
	})

	t.Run("income_unlinks_expenses", func(t *testing.T) {
		svc, h := newHouseholdService(t)

		_, err := svc.DeleteCategory(h.Salary.ID)
		testutil.AssertNoError(t, err)

		housing, err := svc.GetCategoryByID(h.Housing.ID)
		testutil.AssertNoError(t, err)
		if housing.SourceIncomeID != nil || housing.SourceIncomeName != "General" {
			t.Errorf("expected Housing unlinked, got %v %q", housing.SourceIncomeID, housing.SourceIncomeName)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		svc, _ := newHouseholdService(t)
		_, err := svc.DeleteCategory("missing")
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})
}

func TestGetIncomeSources(t *testing.T) {
	t.Run("roots_only", func(t *testing.T) {
		svc, h := newHouseholdService(t)

		sources := svc.GetIncomeSources()
		if len(sources) != 1 || sources[0].ID != h.Salary.ID {
			t.Errorf("expected [Salary], got %+v", sources)
		}
	})

	t.Run("empty", func(t *testing.T) {
		svc := NewLedgerService(ledger.NewStore(), "USD")
		if sources := svc.GetIncomeSources(); sources == nil || len(sources) != 0 {
			t.Errorf("expected empty non-nil slice, got %v", sources)
		}
	})
}

func TestGetSummary(t *testing.T) {
	t.Run("base_currency", func(t *testing.T) {
		svc, _ := newHouseholdService(t)

		summary, err := svc.GetSummary("")
		testutil.AssertNoError(t, err)

		if summary.Currency.Code != "USD" {
			t.Errorf("expected default USD, got %s", summary.Currency.Code)
		}
		testutil.AssertDecimal(t, summary.Totals.Income, "1000")
		testutil.AssertDecimal(t, summary.Totals.Expenses, "450")
		testutil.AssertDecimal(t, summary.Totals.Balance, "550")
		if summary.CategoryCount != 4 {
			t.Errorf("expected 4 categories, got %d", summary.CategoryCount)
		}
	})

	t.Run("converted", func(t *testing.T) {
		svc, _ := newHouseholdService(t)

		summary, err := svc.GetSummary("eur")
		testutil.AssertNoError(t, err)

		testutil.AssertDecimal(t, summary.Totals.Income, "1000")
		testutil.AssertDecimal(t, summary.Converted.Income, "920")
		testutil.AssertDecimal(t, summary.Converted.Balance, "506")
		if summary.Formatted.Income == "" {
			t.Error("expected a formatted income")
		}
	})

	t.Run("unsupported", func(t *testing.T) {
		svc, _ := newHouseholdService(t)
		_, err := svc.GetSummary("JPY")
		testutil.AssertAppError(t, err, "UNSUPPORTED_CURRENCY")
	})

	t.Run("configured_default", func(t *testing.T) {
		h := testutil.NewHousehold(t)
		svc := NewLedgerService(h.Store, "GBP")

		summary, err := svc.GetSummary("")
		testutil.AssertNoError(t, err)
		testutil.AssertDecimal(t, summary.Converted.Income, "790")
	})
}

func TestGetChart(t *testing.T) {
	t.Run("expense", func(t *testing.T) {
		svc, h := newHouseholdService(t)

		chart, err := svc.GetChart(models.CategoryTypeExpense, "MXN")
		testutil.AssertNoError(t, err)

		if len(chart.Slices) != 1 || chart.Slices[0].CategoryID != h.Housing.ID {
			t.Fatalf("expected one Housing slice, got %+v", chart.Slices)
		}
		if chart.Slices[0].Share != 100 {
			t.Errorf("expected share 100, got %d", chart.Slices[0].Share)
		}
		testutil.AssertDecimal(t, chart.Slices[0].Converted, "7672.5")
	})

	t.Run("invalid_type", func(t *testing.T) {
		svc, _ := newHouseholdService(t)
		_, err := svc.GetChart(models.CategoryType("savings"), "USD")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestConcurrentAccess(t *testing.T) {
	svc, h := newHouseholdService(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_, _ = svc.UpdateAmount(h.Rent.ID, decimal.NewFromInt(int64(i)))
		}(i)
		go func() {
			defer wg.Done()
			_, _ = svc.GetSummary("USD")
		}()
	}
	wg.Wait()

	cat, err := svc.GetCategoryByID(h.Rent.ID)
	testutil.AssertNoError(t, err)
	if cat.Amount.IsNegative() || cat.Amount.GreaterThan(decimal.NewFromInt(19)) {
		t.Errorf("unexpected final amount %s", cat.Amount)
	}
}
