// Package ledger owns the authoritative collection of transactions and
// categories for a session.
package ledger

import (
	"context"
	"iter"
	"strings"

	"budgetdash/internal/core"
)

// Store is the port every ledger backend implements.
type Store interface {
	// AddTransaction validates the input and stores it at the front of the collection.
	AddTransaction(ctx context.Context, in core.TransactionInput) (core.Transaction, error)
	// UpdateTransaction applies the patch to the transaction with the given id.
	UpdateTransaction(ctx context.Context, id string, patch core.TransactionPatch) (core.Transaction, error)
	// RemoveTransaction deletes the transaction if present. Removing an unknown id is not an error.
	RemoveTransaction(ctx context.Context, id string) error
	// ListTransactions returns matching transactions in stored order.
	ListTransactions(ctx context.Context, f Filter) (iter.Seq[core.Transaction], error)
	// ResetToDefaults clears transactions and restores the built-in categories with zero budgets.
	ResetToDefaults(ctx context.Context) error
	// LoadSnapshot replaces the whole content of the ledger.
	LoadSnapshot(ctx context.Context, txs []core.Transaction, cats []core.Category) error
	// LoadDemo replaces the content with the demo data set.
	LoadDemo(ctx context.Context) error
	// Snapshot returns a consistent copy of the ledger.
	Snapshot(ctx context.Context) (Snapshot, error)
	// Revision returns the mutation counter without copying the ledger.
	Revision(ctx context.Context) (uint64, error)

	AddCategory(ctx context.Context, in core.CategoryInput) (core.Category, error)
	SetCategoryBudget(ctx context.Context, name string, budget core.Money) (core.Category, error)
	SetMonthlyBudget(ctx context.Context, budget core.Money) error
}

// Filter restricts ListTransactions. Zero value matches everything.
type Filter struct {
	SearchText string
	Category   string
}

// Match reports whether t passes the filter. SearchText matches description
// or category case-insensitively; Category must match exactly when set.
func (f Filter) Match(t core.Transaction) bool {
	if f.Category != "" && t.Category != f.Category {
		return false
	}
	if f.SearchText == "" {
		return true
	}
	q := strings.ToLower(f.SearchText)
	return strings.Contains(strings.ToLower(t.Description), q) ||
		strings.Contains(strings.ToLower(t.Category), q)
}

// Snapshot is a read-only copy of the ledger state.
type Snapshot struct {
	Transactions  []core.Transaction
	Categories    []core.Category
	MonthlyBudget core.Money
	Revision      uint64
}

// Category returns the category with the given name.
func (s Snapshot) Category(name string) (core.Category, bool) {
	for _, c := range s.Categories {
		if c.Name == name {
			return c, true
		}
	}
	return core.Category{}, false
}

// Collect drains a transaction sequence into a slice.
func Collect(seq iter.Seq[core.Transaction]) []core.Transaction {
	var out []core.Transaction
	for t := range seq {
		out = append(out, t)
	}
	return out
}

// Filtered lazily yields the items that match f, in order.
func Filtered(items []core.Transaction, f Filter) iter.Seq[core.Transaction] {
	return func(yield func(core.Transaction) bool) {
		for _, t := range items {
			if !f.Match(t) {
				continue
			}
			if !yield(t) {
				return
			}
		}
	}
}
