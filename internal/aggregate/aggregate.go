// Package aggregate derives dashboard figures from a ledger snapshot.
// Every function is pure: inputs are never modified.
package aggregate

import (
	"cmp"
	"slices"

	"github.com/shopspring/decimal"

	"budgetdash/internal/core"
)

// Budget utilisation thresholds, in percent.
var (
	nearLimitPct = decimal.NewFromInt(80)
	fullPct      = decimal.NewFromInt(100)
	hundred      = decimal.NewFromInt(100)
)

// DaysPerMonth is the divisor used for the average daily spending figure.
const DaysPerMonth = 30

// Percent is an exact percentage that encodes as a JSON number rounded to two decimals.
type Percent struct {
	decimal.Decimal
}

func (p Percent) MarshalJSON() ([]byte, error) {
	return []byte(p.Round(2).String()), nil
}

// percentOf returns part/whole*100, or zero when whole is zero.
func percentOf(part, whole core.Money) Percent {
	if whole.Cents == 0 {
		return Percent{}
	}
	return Percent{decimal.NewFromInt(part.Cents).Mul(hundred).Div(decimal.NewFromInt(whole.Cents))}
}

// Totals holds income and expense sums.
type Totals struct {
	Income  core.Money `json:"income"`
	Expense core.Money `json:"expense"`
}

// Balance is income minus expense; it may be negative.
func (t Totals) Balance() core.Money {
	return t.Income.Sub(t.Expense)
}

// TotalsByType sums amounts per transaction type.
func TotalsByType(txs []core.Transaction) Totals {
	var t Totals
	for _, tx := range txs {
		switch tx.Type {
		case core.Income:
			t.Income = t.Income.Add(tx.Amount)
		case core.Expense:
			t.Expense = t.Expense.Add(tx.Amount)
		}
	}
	return t
}

// BudgetRemaining is the monthly budget minus total spending; negative when overspent.
func BudgetRemaining(monthlyBudget, totalExpense core.Money) core.Money {
	return monthlyBudget.Sub(totalExpense)
}

// CategoryShare is one category's slice of total spending.
type CategoryShare struct {
	Category   core.Category `json:"category"`
	Spent      core.Money    `json:"spent"`
	Percentage Percent       `json:"percentage"`
}

// SpentIn sums the expenses recorded against the named category.
func SpentIn(name string, txs []core.Transaction) core.Money {
	var spent core.Money
	for _, tx := range txs {
		if tx.IsExpense() && tx.Category == name {
			spent = spent.Add(tx.Amount)
		}
	}
	return spent
}

// CategoryBreakdown returns one entry per category, in category order.
// Expenses in categories that are not listed do not count towards the total.
func CategoryBreakdown(txs []core.Transaction, categories []core.Category) []CategoryShare {
	shares := make([]CategoryShare, len(categories))
	var total core.Money
	for i, c := range categories {
		spent := SpentIn(c.Name, txs)
		shares[i] = CategoryShare{Category: c, Spent: spent}
		total = total.Add(spent)
	}
	for i := range shares {
		shares[i].Percentage = percentOf(shares[i].Spent, total)
	}
	return shares
}

// ActiveShares keeps the shares with spending, for charts.
func ActiveShares(shares []CategoryShare) []CategoryShare {
	out := make([]CategoryShare, 0, len(shares))
	for _, s := range shares {
		if s.Spent.Cents > 0 {
			out = append(out, s)
		}
	}
	return out
}

// Level classifies a budget utilisation.
type Level string

const (
	LevelOK         Level = "ok"
	LevelNearLimit  Level = "near_limit"
	LevelOverBudget Level = "over_budget"
)

// BudgetStatus reports how much of a category budget is used.
type BudgetStatus struct {
	Category       string     `json:"category"`
	Budget         core.Money `json:"budget"`
	Spent          core.Money `json:"spent"`
	Remaining      core.Money `json:"remaining"`
	UtilizationPct Percent    `json:"utilization_pct"`
	Level          Level      `json:"level"`
}

// level is over_budget above 100%, near_limit above 80% and ok otherwise.
func (s BudgetStatus) level() Level {
	switch {
	case s.UtilizationPct.GreaterThan(fullPct):
		return LevelOverBudget
	case s.UtilizationPct.GreaterThan(nearLimitPct):
		return LevelNearLimit
	default:
		return LevelOK
	}
}

// PerCategoryBudgetStatus computes spending against the category budget.
// Utilisation is zero when the category has no budget.
func PerCategoryBudgetStatus(category core.Category, txs []core.Transaction) BudgetStatus {
	spent := SpentIn(category.Name, txs)
	s := BudgetStatus{
		Category:       category.Name,
		Budget:         category.Budget,
		Spent:          spent,
		Remaining:      category.Budget.Sub(spent),
		UtilizationPct: percentOf(spent, category.Budget),
	}
	s.Level = s.level()
	return s
}

// BudgetStatuses returns the status of every category, in category order.
func BudgetStatuses(categories []core.Category, txs []core.Transaction) []BudgetStatus {
	out := make([]BudgetStatus, len(categories))
	for i, c := range categories {
		out[i] = PerCategoryBudgetStatus(c, txs)
	}
	return out
}

// MostRecent returns up to n transactions with the latest dates, newest first.
// Transactions sharing a date keep their stored order.
func MostRecent(txs []core.Transaction, n int) []core.Transaction {
	if n <= 0 || len(txs) == 0 {
		return []core.Transaction{}
	}
	sorted := slices.Clone(txs)
	slices.SortStableFunc(sorted, func(a, b core.Transaction) int {
		return b.Date.Compare(a.Date.Time)
	})
	return sorted[:min(n, len(sorted))]
}

// LargestExpense returns the biggest expense amount; ok is false when there are no expenses.
func LargestExpense(txs []core.Transaction) (largest core.Money, ok bool) {
	for _, tx := range txs {
		if !tx.IsExpense() {
			continue
		}
		if !ok || tx.Amount.Cents > largest.Cents {
			largest = tx.Amount
			ok = true
		}
	}
	return largest, ok
}

// AverageDailySpending spreads the total expense over a 30 day month, rounded to the cent.
func AverageDailySpending(totalExpense core.Money) core.Money {
	avg := totalExpense.Decimal().Div(decimal.NewFromInt(DaysPerMonth)).Round(2)
	return core.Money{Cents: avg.Shift(2).IntPart()}
}

// byAmount orders expenses largest first; used by the analytics top list.
func byAmount(a, b core.Transaction) int {
	return cmp.Compare(b.Amount.Cents, a.Amount.Cents)
}

// TopExpenses returns up to n expenses ordered by amount, largest first.
func TopExpenses(txs []core.Transaction, n int) []core.Transaction {
	out := make([]core.Transaction, 0, len(txs))
	for _, tx := range txs {
		if tx.IsExpense() {
			out = append(out, tx)
		}
	}
	slices.SortStableFunc(out, byAmount)
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
