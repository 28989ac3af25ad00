package sheets

import (
	"errors"
	"testing"
	"time"

	"budgetdash/internal/aggregate"
	"budgetdash/internal/amqp"
	"budgetdash/internal/core"
	"budgetdash/internal/ledger"
)

func TestReportRows(t *testing.T) {
	snap := ledger.Snapshot{
		Categories:    []core.Category{{ID: 1, Name: "Food", Budget: core.Units(8000)}, {ID: 2, Name: "Bills"}},
		MonthlyBudget: core.Units(1000),
		Transactions: []core.Transaction{
			{ID: "a", Amount: core.Units(300), Category: "Food", Description: "x", Date: core.NewDate(2025, 1, 1), Type: core.Expense},
		},
		Revision: 4,
	}
	at := time.Date(2025, 8, 22, 9, 0, 0, 0, time.FixedZone("CET", 3600))
	rows := ReportRows(aggregate.Summarize(snap, 5), at)

	if len(rows) != 14 {
		t.Fatalf("expected 14 rows, got %d", len(rows))
	}
	if rows[1][1] != "2025-08-22T08:00:00Z" || rows[2][1] != "4" {
		t.Errorf("unexpected header rows %v %v", rows[1], rows[2])
	}
	if rows[5][1] != -300.0 || rows[7][1] != 700.0 {
		t.Errorf("unexpected balance/remaining %v %v", rows[5], rows[7])
	}
	food := rows[12]
	if food[0] != "Food" || food[2] != 300.0 || food[3] != 7700.0 || food[4] != 3.75 || food[5] != 100.0 || food[6] != "ok" {
		t.Errorf("unexpected food row %v", food)
	}
}

func TestActivityRow(t *testing.T) {
	msg := &amqp.LedgerEventMessage{
		Kind:          amqp.EventTransactionUpdated,
		TransactionID: "t1",
		AmountCents:   1250,
		Category:      "Food",
		Type:          "expense",
		Description:   "Tea",
		Revision:      9,
		Timestamp:     time.Date(2025, 8, 22, 9, 0, 0, 0, time.UTC),
	}
	row := ActivityRow(msg)
	want := []any{"2025-08-22T09:00:00Z", "transaction.updated", "9", "t1", "Tea", "Food", "expense", 12.5}
	if len(row) != len(want) {
		t.Fatalf("row = %v", row)
	}
	for i := range want {
		if row[i] != want[i] {
			t.Errorf("column %d = %v, want %v", i, row[i], want[i])
		}
	}
}

func TestParseTransactionRows(t *testing.T) {
	values := [][]any{
		{"Date", "Description", "Amount", "Category", "Type"},
		{"2025-08-21", "Lunch", "450,50", "Food"},
		{},
		{"", "", ""},
		{"2025-08-19", "Salary", 25000.0, "Income", "Income"},
	}
	txs, err := ParseTransactionRows(values)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(txs) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(txs))
	}
	if txs[0].Amount.Cents != 45050 || txs[0].Type != core.Expense || txs[0].ID != "" {
		t.Errorf("unexpected first row %+v", txs[0])
	}
	if txs[1].Date != core.NewDate(2025, 8, 19) || txs[1].Type != core.Income {
		t.Errorf("unexpected second row %+v", txs[1])
	}
}

func TestParseTransactionRowsRejects(t *testing.T) {
	tests := map[string][]any{
		"missing date":   {"", "Lunch", "1", "Food"},
		"bad date":       {"21/08/2025", "Lunch", "1", "Food"},
		"bad amount":     {"2025-08-21", "Lunch", "-1", "Food"},
		"no description": {"2025-08-21", "", "1", "Food"},
		"bad type":       {"2025-08-21", "Lunch", "1", "Food", "transfer"},
	}
	for name, row := range tests {
		_, err := ParseTransactionRows([][]any{row})
		if !errors.Is(err, core.ErrValidation) {
			t.Errorf("%s: expected validation error, got %v", name, err)
		}
	}
}

func TestMergeCategories(t *testing.T) {
	cats := []core.Category{{ID: 1, Name: "Food"}}
	txs := []core.Transaction{{Category: "Food"}, {Category: "Rent"}, {Category: "Rent"}, {Category: "Gym"}}
	got := MergeCategories(cats, txs)
	if len(got) != 3 || got[1].Name != "Rent" || got[2].Name != "Gym" || got[1].ID != 0 {
		t.Fatalf("unexpected categories %+v", got)
	}
	if len(cats) != 1 {
		t.Fatal("input categories were modified")
	}
}
