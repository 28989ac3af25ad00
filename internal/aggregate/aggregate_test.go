package aggregate

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"

	"budgetdash/internal/core"
	"budgetdash/internal/ledger"
)

func tx(id string, amount int64, cat string, day int, typ core.TransactionType) core.Transaction {
	return core.Transaction{ID: id, Amount: core.Units(amount), Category: cat, Description: id, Date: core.NewDate(2025, 8, day), Type: typ}
}

func TestTotalsByType(t *testing.T) {
	tests := []struct {
		name    string
		txs     []core.Transaction
		income  int64
		expense int64
		balance int64
	}{
		{"empty", nil, 0, 0, 0},
		{"single lunch", []core.Transaction{tx("a", 450, "Food", 21, core.Expense)}, 0, 450, -450},
		{"mixed", []core.Transaction{
			tx("a", 450, "Food", 21, core.Expense),
			tx("b", 25000, "Income", 19, core.Income),
			tx("c", 150, "Food", 15, core.Expense),
		}, 25000, 600, 24400},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TotalsByType(tt.txs)
			if got.Income != core.Units(tt.income) || got.Expense != core.Units(tt.expense) {
				t.Fatalf("got %+v", got)
			}
			if got.Balance() != core.Units(tt.balance) {
				t.Fatalf("balance = %s, want %d", got.Balance(), tt.balance)
			}
		})
	}
}

func TestLunchScenario(t *testing.T) {
	ctx := context.Background()
	l := ledger.New()
	_, err := l.AddTransaction(ctx, core.TransactionInput{Amount: "450", Category: "Food", Description: "Lunch", Date: "2025-08-21", Type: "expense"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	snap, _ := l.Snapshot(ctx)
	totals := TotalsByType(snap.Transactions)
	if totals.Income.Cents != 0 || totals.Expense != core.Units(450) || totals.Balance() != core.Units(-450) {
		t.Fatalf("unexpected totals %+v balance %s", totals, totals.Balance())
	}
}

func TestBudgetRemaining(t *testing.T) {
	if got := BudgetRemaining(core.Units(25000), core.Units(5400)); got != core.Units(19600) {
		t.Fatalf("got %s", got)
	}
	if got := BudgetRemaining(core.Units(100), core.Units(150)); got != core.Units(-50) {
		t.Fatalf("overspent budget should go negative, got %s", got)
	}
}

func TestCategoryBreakdown(t *testing.T) {
	cats := []core.Category{{Name: "Food"}, {Name: "Transportation"}, {Name: "Bills"}}
	txs := []core.Transaction{
		tx("a", 100, "Food", 1, core.Expense),
		tx("b", 100, "Transportation", 2, core.Expense),
		tx("c", 100, "Bills", 3, core.Expense),
		tx("d", 999, "Food", 4, core.Income),
		tx("e", 50, "Unlisted", 5, core.Expense),
	}
	shares := CategoryBreakdown(txs, cats)
	if len(shares) != 3 {
		t.Fatalf("expected one share per category, got %d", len(shares))
	}
	sum := decimal.Zero
	for i, s := range shares {
		if s.Category.Name != cats[i].Name {
			t.Fatalf("share %d out of order: %s", i, s.Category.Name)
		}
		if s.Spent != core.Units(100) {
			t.Fatalf("%s spent %s, want 100", s.Category.Name, s.Spent)
		}
		sum = sum.Add(s.Percentage.Decimal)
	}
	if diff := sum.Sub(decimal.NewFromInt(100)).Abs(); diff.GreaterThan(decimal.New(1, -9)) {
		t.Fatalf("percentages sum to %s", sum)
	}
}

func TestCategoryBreakdownNoSpending(t *testing.T) {
	cats := core.DefaultCategories()
	shares := CategoryBreakdown([]core.Transaction{tx("a", 10, "Food", 1, core.Income)}, cats)
	for _, s := range shares {
		if !s.Percentage.IsZero() {
			t.Fatalf("%s percentage = %s, want 0", s.Category.Name, s.Percentage)
		}
	}
	if active := ActiveShares(shares); len(active) != 0 {
		t.Fatalf("expected no active shares, got %d", len(active))
	}
}

func TestActiveShares(t *testing.T) {
	cats := []core.Category{{Name: "Food"}, {Name: "Bills"}}
	shares := CategoryBreakdown([]core.Transaction{tx("a", 30, "Bills", 1, core.Expense)}, cats)
	active := ActiveShares(shares)
	if len(active) != 1 || active[0].Category.Name != "Bills" {
		t.Fatalf("unexpected active shares %+v", active)
	}
	if !active[0].Percentage.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("single active category should hold 100%%, got %s", active[0].Percentage)
	}
}

func TestPerCategoryBudgetStatus(t *testing.T) {
	food := core.Category{Name: "Food", Budget: core.Units(8000)}
	txs := []core.Transaction{
		tx("a", 300, "Food", 1, core.Expense),
		tx("b", 500, "Transportation", 2, core.Expense),
	}
	s := PerCategoryBudgetStatus(food, txs)
	if s.Spent != core.Units(300) || s.Remaining != core.Units(7700) {
		t.Fatalf("unexpected status %+v", s)
	}
	if !s.UtilizationPct.Equal(decimal.RequireFromString("3.75")) {
		t.Fatalf("utilization = %s, want 3.75", s.UtilizationPct)
	}
	if s.Level != LevelOK {
		t.Fatalf("level = %s", s.Level)
	}
}

func TestBudgetLevels(t *testing.T) {
	tests := []struct {
		spent int64
		want  Level
	}{
		{0, LevelOK},
		{80, LevelOK},
		{81, LevelNearLimit},
		{100, LevelNearLimit},
		{101, LevelOverBudget},
	}
	for _, tt := range tests {
		cat := core.Category{Name: "Food", Budget: core.Units(100)}
		s := PerCategoryBudgetStatus(cat, []core.Transaction{tx("a", tt.spent, "Food", 1, core.Expense)})
		if s.Level != tt.want {
			t.Errorf("spent %d: level = %s, want %s", tt.spent, s.Level, tt.want)
		}
	}
}

func TestBudgetStatusWithoutBudget(t *testing.T) {
	s := PerCategoryBudgetStatus(core.Category{Name: "Food"}, []core.Transaction{tx("a", 50, "Food", 1, core.Expense)})
	if !s.UtilizationPct.IsZero() || s.Remaining != core.Units(-50) || s.Level != LevelOK {
		t.Fatalf("unexpected status %+v", s)
	}
}

func TestMostRecent(t *testing.T) {
	txs := []core.Transaction{
		tx("old", 1, "Food", 1, core.Expense),
		tx("new-a", 1, "Food", 20, core.Expense),
		tx("mid", 1, "Food", 10, core.Expense),
		tx("new-b", 1, "Food", 20, core.Expense),
	}
	got := MostRecent(txs, 3)
	want := []string{"new-a", "new-b", "mid"}
	if len(got) != len(want) {
		t.Fatalf("got %d results", len(got))
	}
	for i := range want {
		if got[i].ID != want[i] {
			t.Fatalf("position %d = %s, want %s", i, got[i].ID, want[i])
		}
	}
	if txs[0].ID != "old" || txs[1].ID != "new-a" {
		t.Fatalf("source was reordered")
	}
	if len(MostRecent(txs, 10)) != 4 || len(MostRecent(txs, 0)) != 0 || len(MostRecent(nil, 3)) != 0 {
		t.Fatalf("unexpected bounds handling")
	}
}

func TestLargestExpense(t *testing.T) {
	if _, ok := LargestExpense([]core.Transaction{tx("a", 500, "Income", 1, core.Income)}); ok {
		t.Fatalf("expected no data without expenses")
	}
	got, ok := LargestExpense(core.DemoTransactions())
	if !ok || got != core.Units(2000) {
		t.Fatalf("largest = %s, %v", got, ok)
	}
}

func TestAverageDailySpending(t *testing.T) {
	if got := AverageDailySpending(core.Units(5400)); got != core.Units(180) {
		t.Fatalf("got %s", got)
	}
	if got := AverageDailySpending(core.Units(100)); got.Cents != 333 {
		t.Fatalf("got %d cents", got.Cents)
	}
}

func TestTopExpenses(t *testing.T) {
	got := TopExpenses(core.DemoTransactions(), 3)
	want := []string{"Electricity bill", "Clothes", "Movie + dinner"}
	for i := range want {
		if got[i].Description != want[i] {
			t.Fatalf("position %d = %s, want %s", i, got[i].Description, want[i])
		}
	}
}

func TestSummarizeDemo(t *testing.T) {
	ctx := context.Background()
	l := ledger.New()
	if err := l.LoadDemo(ctx); err != nil {
		t.Fatalf("load demo: %v", err)
	}
	snap, _ := l.Snapshot(ctx)
	s := Summarize(snap, 0)

	if s.Totals.Income != core.Units(25000) || s.Totals.Expense != core.Units(5480) {
		t.Fatalf("unexpected totals %+v", s.Totals)
	}
	if s.Balance != core.Units(19520) || s.BudgetRemaining != core.Units(19520) {
		t.Fatalf("balance %s remaining %s", s.Balance, s.BudgetRemaining)
	}
	if len(s.Recent) != DefaultRecentLimit || s.Recent[0].Description != "Lunch at restaurant" {
		t.Fatalf("unexpected recent list %+v", s.Recent)
	}
	if s.LargestExpense == nil || *s.LargestExpense != core.Units(2000) {
		t.Fatalf("unexpected largest %v", s.LargestExpense)
	}
	if len(s.Breakdown) != 7 || len(s.ActiveCategories) != 5 {
		t.Fatalf("breakdown %d active %d", len(s.Breakdown), len(s.ActiveCategories))
	}
	if s.TransactionCount != 8 || s.Revision != snap.Revision {
		t.Fatalf("count %d revision %d", s.TransactionCount, s.Revision)
	}
}

func TestSummaryJSON(t *testing.T) {
	s := Summarize(ledger.Snapshot{Categories: []core.Category{{ID: 1, Name: "Food", Budget: core.Units(8000)}},
		Transactions: []core.Transaction{tx("a", 300, "Food", 1, core.Expense)}}, 5)
	raw, err := json.Marshal(s.Budgets[0])
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"category":"Food","budget":8000,"spent":300,"remaining":7700,"utilization_pct":3.75,"level":"ok"}`
	if string(raw) != want {
		t.Fatalf("got %s\nwant %s", raw, want)
	}
	empty, _ := json.Marshal(Summarize(ledger.Snapshot{}, 5))
	var decoded map[string]any
	if err := json.Unmarshal(empty, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded["largest_expense"] != nil {
		t.Fatalf("expected null largest expense, got %v", decoded["largest_expense"])
	}
}
