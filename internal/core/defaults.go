package core

// DefaultCategories returns the built-in category set with every budget at zero.
func DefaultCategories() []Category {
	return []Category{
		{ID: 1, Name: "Food", Icon: "🍽️", Color: "#00ff88"},
		{ID: 2, Name: "Transportation", Icon: "🚗", Color: "#00d4ff"},
		{ID: 3, Name: "Entertainment", Icon: "🎬", Color: "#8b5cf6"},
		{ID: 4, Name: "Shopping", Icon: "🛍️", Color: "#f59e0b"},
		{ID: 5, Name: "Health", Icon: "⚕️", Color: "#10b981"},
		{ID: 6, Name: "Education", Icon: "📚", Color: "#ef4444"},
		{ID: 7, Name: "Bills", Icon: "💡", Color: "#06b6d4"},
	}
}

// DemoMonthlyBudget is the overall monthly budget loaded with the demo data.
var DemoMonthlyBudget = Units(25000)

// DemoCategories returns the built-in categories with demo budgets.
func DemoCategories() []Category {
	budgets := map[string]int64{
		"Food":           8000,
		"Transportation": 3000,
		"Entertainment":  2000,
		"Shopping":       5000,
		"Health":         2000,
		"Education":      3000,
		"Bills":          5000,
	}
	cats := DefaultCategories()
	for i := range cats {
		cats[i].Budget = Units(budgets[cats[i].Name])
	}
	return cats
}

// DemoTransactions returns the demo transactions, newest first.
// IDs are left empty so the ledger assigns fresh ones.
func DemoTransactions() []Transaction {
	return []Transaction{
		{Amount: Units(450), Category: "Food", Description: "Lunch at restaurant", Date: NewDate(2025, 8, 21), Type: Expense},
		{Amount: Units(280), Category: "Transportation", Description: "Metro/Bus pass", Date: NewDate(2025, 8, 20), Type: Expense},
		{Amount: Units(25000), Category: "Income", Description: "Part-time salary", Date: NewDate(2025, 8, 19), Type: Income},
		{Amount: Units(800), Category: "Entertainment", Description: "Movie + dinner", Date: NewDate(2025, 8, 18), Type: Expense},
		{Amount: Units(300), Category: "Food", Description: "Weekly groceries", Date: NewDate(2025, 8, 17), Type: Expense},
		{Amount: Units(1500), Category: "Shopping", Description: "Clothes", Date: NewDate(2025, 8, 16), Type: Expense},
		{Amount: Units(150), Category: "Food", Description: "Coffee", Date: NewDate(2025, 8, 15), Type: Expense},
		{Amount: Units(2000), Category: "Bills", Description: "Electricity bill", Date: NewDate(2025, 8, 14), Type: Expense},
	}
}
