package sheets

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"budgetdash/internal/aggregate"
	"budgetdash/internal/amqp"
	"budgetdash/internal/core"
)

// Column headers shared by every sink.
var (
	ReportHeader       = []any{"Metric", "Value"}
	CategoryHeader     = []any{"Category", "Budget", "Spent", "Remaining", "Utilization %", "Share %", "Level"}
	ActivityHeader     = []any{"Timestamp", "Event", "Revision", "Transaction", "Description", "Category", "Type", "Amount"}
	TransactionsHeader = []any{"Date", "Description", "Amount", "Category", "Type"}
)

// ReportRows renders a summary as a values matrix: the totals block, a blank
// row, then one row per category.
func ReportRows(s aggregate.Summary, generatedAt time.Time) [][]any {
	rows := [][]any{
		ReportHeader,
		{"Generated at", generatedAt.UTC().Format(time.RFC3339)},
		{"Revision", strconv.FormatUint(s.Revision, 10)},
		{"Income", s.Totals.Income.Float()},
		{"Expense", s.Totals.Expense.Float()},
		{"Balance", s.Balance.Float()},
		{"Monthly budget", s.MonthlyBudget.Float()},
		{"Budget remaining", s.BudgetRemaining.Float()},
		{"Average daily spending", s.AverageDaily.Float()},
		{"Transactions", s.TransactionCount},
		{},
		CategoryHeader,
	}
	for i, b := range s.Budgets {
		share := 0.0
		if i < len(s.Breakdown) {
			share = s.Breakdown[i].Percentage.Round(2).InexactFloat64()
		}
		rows = append(rows, []any{
			b.Category,
			b.Budget.Float(),
			b.Spent.Float(),
			b.Remaining.Float(),
			b.UtilizationPct.Round(2).InexactFloat64(),
			share,
			string(b.Level),
		})
	}
	return rows
}

// ActivityRow renders one ledger event.
func ActivityRow(msg *amqp.LedgerEventMessage) []any {
	amount := core.Money{Cents: msg.AmountCents}
	return []any{
		msg.Timestamp.UTC().Format(time.RFC3339),
		string(msg.Kind),
		strconv.FormatUint(msg.Revision, 10),
		msg.TransactionID,
		msg.Description,
		msg.Category,
		msg.Type,
		amount.Float(),
	}
}

// ParseTransactionRows converts a Date | Description | Amount | Category | Type
// matrix into transactions. A leading header row is skipped, blank rows are
// ignored and the first malformed row aborts the import.
func ParseTransactionRows(values [][]any) ([]core.Transaction, error) {
	var out []core.Transaction
	for i, row := range values {
		cols := toStrings(row)
		if isBlank(cols) {
			continue
		}
		if i == 0 && strings.EqualFold(strings.TrimSpace(safeGet(cols, 0)), "date") {
			continue
		}
		in := core.TransactionInput{
			Date:        safeGet(cols, 0),
			Description: safeGet(cols, 1),
			Amount:      safeGet(cols, 2),
			Category:    safeGet(cols, 3),
			Type:        safeGet(cols, 4),
		}
		if strings.TrimSpace(in.Date) == "" {
			return nil, fmt.Errorf("row %d: %w", i+1, core.NewValidationError("date", core.ErrInvalidDate))
		}
		t, err := in.Build("", time.Time{})
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		out = append(out, t)
	}
	return out, nil
}

// MergeCategories returns cats followed by a zero-budget category for every
// transaction category that is not listed yet, in first-seen order.
func MergeCategories(cats []core.Category, txs []core.Transaction) []core.Category {
	out := append([]core.Category(nil), cats...)
	seen := make(map[string]struct{}, len(cats))
	for _, c := range cats {
		seen[c.Name] = struct{}{}
	}
	for _, t := range txs {
		if _, ok := seen[t.Category]; ok {
			continue
		}
		seen[t.Category] = struct{}{}
		out = append(out, core.Category{Name: t.Category})
	}
	return out
}

// ErrNotConfigured is returned by sinks that have no destination.
var ErrNotConfigured = errors.New("sheets not configured")

func toStrings(row []any) []string {
	out := make([]string, len(row))
	for i, v := range row {
		switch x := v.(type) {
		case float64:
			out[i] = strconv.FormatFloat(x, 'f', -1, 64)
		default:
			out[i] = fmt.Sprint(v)
		}
	}
	return out
}

func safeGet(arr []string, idx int) string {
	if idx < 0 || idx >= len(arr) {
		return ""
	}
	return arr[idx]
}

func isBlank(cols []string) bool {
	for _, c := range cols {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
