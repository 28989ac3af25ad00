// Package ledgertest holds the behavioural checks every ledger.Store backend must pass.
package ledgertest

import (
	"context"
	"errors"
	"testing"

	"budgetdash/internal/core"
	"budgetdash/internal/ledger"
)

// Factory builds a fresh, empty store for one test.
type Factory func(t *testing.T) ledger.Store

// Run executes the full contract against stores built by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Run("AddThenList", func(t *testing.T) { testAddThenList(t, newStore(t)) })
	t.Run("AddRejectsInvalid", func(t *testing.T) { testAddRejectsInvalid(t, newStore(t)) })
	t.Run("InsertOrder", func(t *testing.T) { testInsertOrder(t, newStore(t)) })
	t.Run("UpdateRoundTrip", func(t *testing.T) { testUpdateRoundTrip(t, newStore(t)) })
	t.Run("UpdateUnknown", func(t *testing.T) { testUpdateUnknown(t, newStore(t)) })
	t.Run("UpdateInvalidKeepsState", func(t *testing.T) { testUpdateInvalidKeepsState(t, newStore(t)) })
	t.Run("RemoveIdempotent", func(t *testing.T) { testRemoveIdempotent(t, newStore(t)) })
	t.Run("Filter", func(t *testing.T) { testFilter(t, newStore(t)) })
	t.Run("ResetToDefaults", func(t *testing.T) { testResetToDefaults(t, newStore(t)) })
	t.Run("LoadSnapshot", func(t *testing.T) { testLoadSnapshot(t, newStore(t)) })
	t.Run("LoadSnapshotRejectsInvalid", func(t *testing.T) { testLoadSnapshotRejectsInvalid(t, newStore(t)) })
	t.Run("LoadDemo", func(t *testing.T) { testLoadDemo(t, newStore(t)) })
	t.Run("Categories", func(t *testing.T) { testCategories(t, newStore(t)) })
	t.Run("Revision", func(t *testing.T) { testRevision(t, newStore(t)) })
}

func lunch() core.TransactionInput {
	return core.TransactionInput{Amount: "450", Category: "Food", Description: "Lunch", Date: "2025-08-21", Type: "expense"}
}

func list(t *testing.T, s ledger.Store, f ledger.Filter) []core.Transaction {
	t.Helper()
	seq, err := s.ListTransactions(context.Background(), f)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	return ledger.Collect(seq)
}

func mustAdd(t *testing.T, s ledger.Store, in core.TransactionInput) core.Transaction {
	t.Helper()
	tx, err := s.AddTransaction(context.Background(), in)
	if err != nil {
		t.Fatalf("add %q: %v", in.Description, err)
	}
	return tx
}

func testAddThenList(t *testing.T, s ledger.Store) {
	before := list(t, s, ledger.Filter{})
	tx := mustAdd(t, s, lunch())
	if tx.ID == "" {
		t.Fatalf("expected an id to be assigned")
	}
	after := list(t, s, ledger.Filter{})
	if len(after) != len(before)+1 {
		t.Fatalf("expected %d transactions, got %d", len(before)+1, len(after))
	}
	want := core.Transaction{ID: tx.ID, Amount: core.Units(450), Category: "Food", Description: "Lunch", Date: core.NewDate(2025, 8, 21), Type: core.Expense}
	if after[0] != want {
		t.Fatalf("stored %+v, want %+v", after[0], want)
	}
}

func testAddRejectsInvalid(t *testing.T, s ledger.Store) {
	bad := []core.TransactionInput{
		{Category: "Food", Description: "x"},
		{Amount: "abc", Category: "Food", Description: "x"},
		{Amount: "-1", Category: "Food", Description: "x"},
		{Amount: "1", Description: "x"},
		{Amount: "1", Category: "Food"},
	}
	for _, in := range bad {
		if _, err := s.AddTransaction(context.Background(), in); !errors.Is(err, core.ErrValidation) {
			t.Fatalf("input %+v: expected validation error, got %v", in, err)
		}
	}
	if n := len(list(t, s, ledger.Filter{})); n != 0 {
		t.Fatalf("rejected inputs must not be stored, found %d", n)
	}
}

func testInsertOrder(t *testing.T, s ledger.Store) {
	a := mustAdd(t, s, core.TransactionInput{Amount: "1", Category: "Food", Description: "first", Date: "2025-08-01"})
	b := mustAdd(t, s, core.TransactionInput{Amount: "2", Category: "Food", Description: "second", Date: "2025-07-01"})
	got := list(t, s, ledger.Filter{})
	if len(got) != 2 || got[0].ID != b.ID || got[1].ID != a.ID {
		t.Fatalf("expected newest insert first, got %+v", got)
	}
}

func testUpdateRoundTrip(t *testing.T, s ledger.Store) {
	tx := mustAdd(t, s, lunch())
	other := mustAdd(t, s, core.TransactionInput{Amount: "20", Category: "Bills", Description: "Phone", Date: "2025-08-02"})

	updated, err := s.UpdateTransaction(context.Background(), tx.ID, core.TransactionPatch{Description: core.StrPtr("X")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	want := tx
	want.Description = "X"
	if updated != want {
		t.Fatalf("update returned %+v, want %+v", updated, want)
	}
	got := list(t, s, ledger.Filter{})
	if len(got) != 2 || got[0] != other || got[1] != want {
		t.Fatalf("unexpected state after update: %+v", got)
	}
}

func testUpdateUnknown(t *testing.T, s ledger.Store) {
	_, err := s.UpdateTransaction(context.Background(), "missing", core.TransactionPatch{Description: core.StrPtr("X")})
	var nf *core.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if nf.ID != "missing" {
		t.Fatalf("unexpected id in error: %q", nf.ID)
	}
}

func testUpdateInvalidKeepsState(t *testing.T, s ledger.Store) {
	tx := mustAdd(t, s, lunch())
	_, err := s.UpdateTransaction(context.Background(), tx.ID, core.TransactionPatch{Amount: core.StrPtr("-4"), Description: core.StrPtr("changed")})
	if !errors.Is(err, core.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	got := list(t, s, ledger.Filter{})
	if len(got) != 1 || got[0] != tx {
		t.Fatalf("failed update must not mutate, got %+v", got)
	}
}

func testRemoveIdempotent(t *testing.T, s ledger.Store) {
	ctx := context.Background()
	keep := mustAdd(t, s, lunch())
	drop := mustAdd(t, s, core.TransactionInput{Amount: "5", Category: "Food", Description: "Snack", Date: "2025-08-03"})

	if err := s.RemoveTransaction(ctx, drop.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	once := list(t, s, ledger.Filter{})
	if err := s.RemoveTransaction(ctx, drop.ID); err != nil {
		t.Fatalf("second remove: %v", err)
	}
	twice := list(t, s, ledger.Filter{})
	if len(once) != 1 || len(twice) != 1 || once[0] != keep || twice[0] != keep {
		t.Fatalf("remove not idempotent: once=%+v twice=%+v", once, twice)
	}
	if err := s.RemoveTransaction(ctx, "never-existed"); err != nil {
		t.Fatalf("removing an unknown id must succeed, got %v", err)
	}
}

func testFilter(t *testing.T, s ledger.Store) {
	mustAdd(t, s, core.TransactionInput{Amount: "450", Category: "Food", Description: "Lunch at restaurant", Date: "2025-08-21"})
	mustAdd(t, s, core.TransactionInput{Amount: "280", Category: "Transportation", Description: "Metro pass", Date: "2025-08-20"})
	mustAdd(t, s, core.TransactionInput{Amount: "25000", Category: "Income", Description: "Salary", Date: "2025-08-19", Type: "income"})

	cases := []struct {
		name   string
		filter ledger.Filter
		want   []string
	}{
		{"all", ledger.Filter{}, []string{"Salary", "Metro pass", "Lunch at restaurant"}},
		{"description case-insensitive", ledger.Filter{SearchText: "LUNCH"}, []string{"Lunch at restaurant"}},
		{"category substring", ledger.Filter{SearchText: "port"}, []string{"Metro pass"}},
		{"exact category", ledger.Filter{Category: "Income"}, []string{"Salary"}},
		{"category is exact only", ledger.Filter{Category: "food"}, nil},
		{"search and category", ledger.Filter{SearchText: "a", Category: "Food"}, []string{"Lunch at restaurant"}},
		{"no match", ledger.Filter{SearchText: "zzz"}, nil},
	}
	for _, tc := range cases {
		got := list(t, s, tc.filter)
		if len(got) != len(tc.want) {
			t.Fatalf("%s: got %d results, want %d", tc.name, len(got), len(tc.want))
		}
		for i := range got {
			if got[i].Description != tc.want[i] {
				t.Fatalf("%s: result %d = %q, want %q", tc.name, i, got[i].Description, tc.want[i])
			}
		}
	}
}

func testResetToDefaults(t *testing.T, s ledger.Store) {
	ctx := context.Background()
	mustAdd(t, s, lunch())
	if _, err := s.SetCategoryBudget(ctx, "Food", core.Units(8000)); err != nil {
		t.Fatalf("set budget: %v", err)
	}
	if err := s.SetMonthlyBudget(ctx, core.Units(25000)); err != nil {
		t.Fatalf("set monthly: %v", err)
	}
	if _, err := s.AddCategory(ctx, core.CategoryInput{Name: "Pets"}); err != nil {
		t.Fatalf("add category: %v", err)
	}

	if err := s.ResetToDefaults(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	snap, err := s.Snapshot(ctx)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(snap.Transactions) != 0 {
		t.Fatalf("expected no transactions, got %d", len(snap.Transactions))
	}
	defaults := core.DefaultCategories()
	if len(snap.Categories) != len(defaults) {
		t.Fatalf("expected %d categories, got %d", len(defaults), len(snap.Categories))
	}
	for i, c := range snap.Categories {
		if c != defaults[i] {
			t.Fatalf("category %d = %+v, want %+v", i, c, defaults[i])
		}
	}
	if snap.MonthlyBudget.Cents != 0 {
		t.Fatalf("expected monthly budget reset, got %d", snap.MonthlyBudget.Cents)
	}
}

func testLoadSnapshot(t *testing.T, s ledger.Store) {
	ctx := context.Background()
	mustAdd(t, s, lunch())
	txs := []core.Transaction{
		{ID: "b", Amount: core.Units(2), Category: "Rent", Description: "second", Date: core.NewDate(2025, 1, 2), Type: core.Expense},
		{Amount: core.Units(1), Category: "Rent", Description: "first", Date: core.NewDate(2025, 1, 1), Type: core.Income},
	}
	cats := []core.Category{{Name: "Rent", Budget: core.Units(900)}}
	if err := s.LoadSnapshot(ctx, txs, cats); err != nil {
		t.Fatalf("load: %v", err)
	}
	snap, err := s.Snapshot(ctx)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(snap.Transactions) != 2 {
		t.Fatalf("expected replaced transactions, got %d", len(snap.Transactions))
	}
	if snap.Transactions[0].ID != "b" || snap.Transactions[1].Description != "first" || snap.Transactions[1].ID == "" {
		t.Fatalf("unexpected order or ids: %+v", snap.Transactions)
	}
	if len(snap.Categories) != 1 || snap.Categories[0].Name != "Rent" || snap.Categories[0].ID == 0 {
		t.Fatalf("unexpected categories: %+v", snap.Categories)
	}
}

func testLoadSnapshotRejectsInvalid(t *testing.T, s ledger.Store) {
	ctx := context.Background()
	tx := mustAdd(t, s, lunch())
	bad := []core.Transaction{{ID: "x", Amount: core.Units(1), Category: "Food", Date: core.NewDate(2025, 1, 1), Type: core.Expense}}
	if err := s.LoadSnapshot(ctx, bad, core.DefaultCategories()); !errors.Is(err, core.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	got := list(t, s, ledger.Filter{})
	if len(got) != 1 || got[0] != tx {
		t.Fatalf("rejected snapshot must not replace state, got %+v", got)
	}
}

func testLoadDemo(t *testing.T, s ledger.Store) {
	ctx := context.Background()
	if err := s.LoadDemo(ctx); err != nil {
		t.Fatalf("load demo: %v", err)
	}
	snap, err := s.Snapshot(ctx)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(snap.Transactions) != len(core.DemoTransactions()) {
		t.Fatalf("expected demo transactions, got %d", len(snap.Transactions))
	}
	if snap.MonthlyBudget != core.DemoMonthlyBudget {
		t.Fatalf("expected demo monthly budget, got %d", snap.MonthlyBudget.Cents)
	}
	food, ok := snap.Category("Food")
	if !ok || food.Budget != core.Units(8000) {
		t.Fatalf("unexpected demo food category: %+v", food)
	}
	if snap.Transactions[0].Description != "Lunch at restaurant" {
		t.Fatalf("demo order not preserved: %+v", snap.Transactions[0])
	}
}

func testCategories(t *testing.T, s ledger.Store) {
	ctx := context.Background()
	c, err := s.AddCategory(ctx, core.CategoryInput{Name: "Pets", Icon: "🐾", Budget: "1200"})
	if err != nil {
		t.Fatalf("add category: %v", err)
	}
	if c.ID != 8 || c.Budget != core.Units(1200) {
		t.Fatalf("unexpected category: %+v", c)
	}
	if _, err := s.AddCategory(ctx, core.CategoryInput{Name: "Pets"}); !errors.Is(err, core.ErrDuplicateName) {
		t.Fatalf("expected duplicate name error, got %v", err)
	}
	updated, err := s.SetCategoryBudget(ctx, "Food", core.Units(8000))
	if err != nil {
		t.Fatalf("set budget: %v", err)
	}
	if updated.Name != "Food" || updated.Budget != core.Units(8000) {
		t.Fatalf("unexpected updated category: %+v", updated)
	}
	if _, err := s.SetCategoryBudget(ctx, "Nope", core.Units(1)); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := s.SetCategoryBudget(ctx, "Food", core.Money{Cents: -1}); !errors.Is(err, core.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if err := s.SetMonthlyBudget(ctx, core.Money{Cents: -1}); !errors.Is(err, core.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	snap, err := s.Snapshot(ctx)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(snap.Categories) != 8 || snap.Categories[7].Name != "Pets" {
		t.Fatalf("expected new category appended, got %+v", snap.Categories)
	}
}

func testRevision(t *testing.T, s ledger.Store) {
	ctx := context.Background()
	rev := func() uint64 {
		snap, err := s.Snapshot(ctx)
		if err != nil {
			t.Fatalf("snapshot: %v", err)
		}
		return snap.Revision
	}
	r0 := rev()
	tx := mustAdd(t, s, lunch())
	r1 := rev()
	if got, err := s.Revision(ctx); err != nil || got != r1 {
		t.Fatalf("Revision() = %d, %v; snapshot says %d", got, err, r1)
	}
	if r1 <= r0 {
		t.Fatalf("add must bump revision: %d -> %d", r0, r1)
	}
	if err := s.RemoveTransaction(ctx, "unknown"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if rev() != r1 {
		t.Fatalf("no-op remove must not bump revision")
	}
	if err := s.RemoveTransaction(ctx, tx.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if rev() <= r1 {
		t.Fatalf("remove must bump revision")
	}
}
