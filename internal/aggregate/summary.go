package aggregate

import (
	"budgetdash/internal/core"
	"budgetdash/internal/ledger"
)

// DefaultRecentLimit is the number of recent transactions shown on the dashboard.
const DefaultRecentLimit = 5

// Summary is everything the dashboard shows for one ledger revision.
type Summary struct {
	Revision         uint64             `json:"revision"`
	Totals           Totals             `json:"totals"`
	Balance          core.Money         `json:"balance"`
	MonthlyBudget    core.Money         `json:"monthly_budget"`
	BudgetRemaining  core.Money         `json:"budget_remaining"`
	TransactionCount int                `json:"transaction_count"`
	Breakdown        []CategoryShare    `json:"breakdown"`
	ActiveCategories []CategoryShare    `json:"active_categories"`
	Budgets          []BudgetStatus     `json:"budgets"`
	Recent           []core.Transaction `json:"recent"`
	LargestExpense   *core.Money        `json:"largest_expense"`
	AverageDaily     core.Money         `json:"average_daily_spending"`
}

// Summarize composes the dashboard figures from a snapshot.
func Summarize(snap ledger.Snapshot, recentLimit int) Summary {
	if recentLimit <= 0 {
		recentLimit = DefaultRecentLimit
	}
	totals := TotalsByType(snap.Transactions)
	breakdown := CategoryBreakdown(snap.Transactions, snap.Categories)
	s := Summary{
		Revision:         snap.Revision,
		Totals:           totals,
		Balance:          totals.Balance(),
		MonthlyBudget:    snap.MonthlyBudget,
		BudgetRemaining:  BudgetRemaining(snap.MonthlyBudget, totals.Expense),
		TransactionCount: len(snap.Transactions),
		Breakdown:        breakdown,
		ActiveCategories: ActiveShares(breakdown),
		Budgets:          BudgetStatuses(snap.Categories, snap.Transactions),
		Recent:           MostRecent(snap.Transactions, recentLimit),
		AverageDaily:     AverageDailySpending(totals.Expense),
	}
	if largest, ok := LargestExpense(snap.Transactions); ok {
		s.LargestExpense = &largest
	}
	return s
}
