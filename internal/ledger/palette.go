package ledger

import "budgetree/internal/models"

var colors = []string{"#13ec6a", "#3b82f6", "#f59e0b", "#ef4444", "#8b5cf6", "#ec4899"}

var (
	incomeIcons  = []string{"payments", "trending_up", "work", "redeem"}
	expenseIcons = []string{"shopping_cart", "home", "restaurant", "directions_car"}
)

// colorFor picks a color by cycling the palette with the collection size.
func colorFor(n int) string {
	return colors[n%len(colors)]
}

func iconFor(t models.CategoryType, n int) string {
	icons := expenseIcons
	if t == models.CategoryTypeIncome {
		icons = incomeIcons
	}
	return icons[n%len(icons)]
}
