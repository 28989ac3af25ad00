package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"budgetdash/internal/core"
	"budgetdash/internal/ledger"

	_ "modernc.org/sqlite"
)

// SQLiteLedger is a ledger.Store backed by SQLite. The database is reset to
// the built-in defaults when opened, so nothing survives a restart.
type SQLiteLedger struct {
	db      *sql.DB
	queries *Queries

	now   func() time.Time
	newID func() string
}

var _ ledger.Store = (*SQLiteLedger)(nil)

// NewSQLiteLedger opens the database at dsn. An empty dsn or ":memory:" opens
// a private in-memory database that lives as long as the ledger.
func NewSQLiteLedger(dsn string) (*SQLiteLedger, error) {
	dsn = resolveDSN(dsn)
	if !isMemoryDSN(dsn) {
		if err := os.MkdirAll(filepath.Dir(dsn), 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// One connection serialises every mutation.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dsn); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	l := &SQLiteLedger{
		db:      db,
		queries: New(db),
		now:     time.Now,
		newID:   uuid.NewString,
	}
	if err := l.ResetToDefaults(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("reset ledger: %w", err)
	}
	return l, nil
}

func isMemoryDSN(dsn string) bool {
	return dsn == ":memory:" || strings.HasPrefix(dsn, "file:") && strings.Contains(dsn, "mode=memory")
}

// resolveDSN makes every in-memory database reachable from more than one
// connection, which the migrator needs. Empty and ":memory:" get a unique name
// so separate ledgers never share one database.
func resolveDSN(dsn string) string {
	switch {
	case dsn == "" || dsn == ":memory:":
		return "file:budgetdash-" + uuid.NewString() + "?mode=memory&cache=shared"
	case isMemoryDSN(dsn) && !strings.Contains(dsn, "cache=shared"):
		return dsn + "&cache=shared"
	default:
		return dsn
	}
}

// SetClock replaces the clock used to default transaction dates.
func (l *SQLiteLedger) SetClock(now func() time.Time) { l.now = now }

func (l *SQLiteLedger) Close() error {
	if l.db != nil {
		return l.db.Close()
	}
	return nil
}

// Ping reports whether the database is reachable.
func (l *SQLiteLedger) Ping(ctx context.Context) error {
	return l.db.PingContext(ctx)
}

// withTx runs fn in a transaction and bumps the revision when fn reports a change.
func (l *SQLiteLedger) withTx(ctx context.Context, fn func(q *Queries) (changed bool, err error)) error {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	q := l.queries.WithTx(tx)
	changed, err := fn(q)
	if err != nil {
		return err
	}
	if changed {
		if err := q.BumpRevision(ctx); err != nil {
			return fmt.Errorf("bump revision: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (l *SQLiteLedger) AddTransaction(ctx context.Context, in core.TransactionInput) (core.Transaction, error) {
	t, err := in.Build(l.newID(), l.now())
	if err != nil {
		return core.Transaction{}, err
	}
	err = l.withTx(ctx, func(q *Queries) (bool, error) {
		if err := q.CreateTransaction(ctx, createParams(t)); err != nil {
			return false, fmt.Errorf("create transaction: %w", err)
		}
		return true, nil
	})
	if err != nil {
		return core.Transaction{}, err
	}

	slog.DebugContext(ctx, "Transaction saved to SQLite",
		"id", t.ID,
		"amount_cents", t.Amount.Cents,
		"category", t.Category,
		"type", t.Type)
	return t, nil
}

func (l *SQLiteLedger) UpdateTransaction(ctx context.Context, id string, patch core.TransactionPatch) (core.Transaction, error) {
	var updated core.Transaction
	err := l.withTx(ctx, func(q *Queries) (bool, error) {
		row, err := q.GetTransaction(ctx, id)
		if errors.Is(err, sql.ErrNoRows) {
			return false, core.TransactionNotFound(id)
		}
		if err != nil {
			return false, fmt.Errorf("get transaction %s: %w", id, err)
		}
		current, err := fromRow(row)
		if err != nil {
			return false, err
		}
		if updated, err = patch.ApplyTo(current); err != nil {
			return false, err
		}
		if err := q.UpdateTransaction(ctx, UpdateTransactionParams{
			AmountCents: updated.Amount.Cents,
			Category:    updated.Category,
			Description: updated.Description,
			Date:        updated.Date.String(),
			Type:        string(updated.Type),
			ID:          id,
		}); err != nil {
			return false, fmt.Errorf("update transaction %s: %w", id, err)
		}
		return true, nil
	})
	if err != nil {
		return core.Transaction{}, err
	}
	return updated, nil
}

func (l *SQLiteLedger) RemoveTransaction(ctx context.Context, id string) error {
	return l.withTx(ctx, func(q *Queries) (bool, error) {
		n, err := q.DeleteTransaction(ctx, id)
		if err != nil {
			return false, fmt.Errorf("delete transaction %s: %w", id, err)
		}
		return n > 0, nil
	})
}

func (l *SQLiteLedger) ListTransactions(ctx context.Context, f ledger.Filter) (iter.Seq[core.Transaction], error) {
	var (
		rows []Transaction
		err  error
	)
	if f.Category != "" {
		rows, err = l.queries.ListTransactionsByCategory(ctx, f.Category)
	} else {
		rows, err = l.queries.ListTransactions(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	items, err := fromRows(rows)
	if err != nil {
		return nil, err
	}
	return ledger.Filtered(items, f), nil
}

func (l *SQLiteLedger) ResetToDefaults(ctx context.Context) error {
	return l.replace(ctx, nil, core.DefaultCategories(), core.Money{})
}

func (l *SQLiteLedger) LoadSnapshot(ctx context.Context, txs []core.Transaction, cats []core.Category) error {
	txs, cats, err := ledger.Normalize(txs, cats, l.newID)
	if err != nil {
		return err
	}
	monthly, err := l.queries.GetSetting(ctx, settingMonthlyBudget)
	if err != nil {
		return fmt.Errorf("get monthly budget: %w", err)
	}
	return l.replace(ctx, txs, cats, core.Money{Cents: monthly})
}

func (l *SQLiteLedger) LoadDemo(ctx context.Context) error {
	txs, cats, err := ledger.Normalize(core.DemoTransactions(), core.DemoCategories(), l.newID)
	if err != nil {
		return err
	}
	return l.replace(ctx, txs, cats, core.DemoMonthlyBudget)
}

// replace swaps the whole content in one transaction. txs are given in stored
// order, so they are inserted oldest first.
func (l *SQLiteLedger) replace(ctx context.Context, txs []core.Transaction, cats []core.Category, monthly core.Money) error {
	return l.withTx(ctx, func(q *Queries) (bool, error) {
		if err := q.DeleteAllTransactions(ctx); err != nil {
			return false, fmt.Errorf("clear transactions: %w", err)
		}
		if err := q.DeleteAllCategories(ctx); err != nil {
			return false, fmt.Errorf("clear categories: %w", err)
		}
		for i, c := range cats {
			if err := q.CreateCategory(ctx, CreateCategoryParams{
				ID:          c.ID,
				Name:        c.Name,
				Icon:        c.Icon,
				Color:       c.Color,
				BudgetCents: c.Budget.Cents,
				Position:    int64(i + 1),
			}); err != nil {
				return false, fmt.Errorf("create category %s: %w", c.Name, err)
			}
		}
		for _, t := range slices.Backward(txs) {
			if err := q.CreateTransaction(ctx, createParams(t)); err != nil {
				return false, fmt.Errorf("create transaction %s: %w", t.ID, err)
			}
		}
		if err := q.SetSetting(ctx, settingMonthlyBudget, monthly.Cents); err != nil {
			return false, fmt.Errorf("set monthly budget: %w", err)
		}
		return true, nil
	})
}

func (l *SQLiteLedger) Snapshot(ctx context.Context) (ledger.Snapshot, error) {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return ledger.Snapshot{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()
	q := l.queries.WithTx(tx)

	rows, err := q.ListTransactions(ctx)
	if err != nil {
		return ledger.Snapshot{}, fmt.Errorf("list transactions: %w", err)
	}
	txs, err := fromRows(rows)
	if err != nil {
		return ledger.Snapshot{}, err
	}
	catRows, err := q.ListCategories(ctx)
	if err != nil {
		return ledger.Snapshot{}, fmt.Errorf("list categories: %w", err)
	}
	cats := make([]core.Category, len(catRows))
	for i, c := range catRows {
		cats[i] = core.Category{ID: c.ID, Name: c.Name, Icon: c.Icon, Color: c.Color, Budget: core.Money{Cents: c.BudgetCents}}
	}
	monthly, err := q.GetSetting(ctx, settingMonthlyBudget)
	if err != nil {
		return ledger.Snapshot{}, fmt.Errorf("get monthly budget: %w", err)
	}
	revision, err := q.GetSetting(ctx, settingRevision)
	if err != nil {
		return ledger.Snapshot{}, fmt.Errorf("get revision: %w", err)
	}
	return ledger.Snapshot{
		Transactions:  txs,
		Categories:    cats,
		MonthlyBudget: core.Money{Cents: monthly},
		Revision:      uint64(revision),
	}, nil
}

func (l *SQLiteLedger) Revision(ctx context.Context) (uint64, error) {
	revision, err := l.queries.GetSetting(ctx, settingRevision)
	if err != nil {
		return 0, fmt.Errorf("get revision: %w", err)
	}
	return uint64(revision), nil
}

func (l *SQLiteLedger) AddCategory(ctx context.Context, in core.CategoryInput) (core.Category, error) {
	var c core.Category
	err := l.withTx(ctx, func(q *Queries) (bool, error) {
		id, position, err := q.NextCategorySlot(ctx)
		if err != nil {
			return false, fmt.Errorf("next category id: %w", err)
		}
		if c, err = in.Build(id); err != nil {
			return false, err
		}
		_, err = q.GetCategoryByName(ctx, c.Name)
		switch {
		case err == nil:
			return false, core.NewValidationError("name", core.ErrDuplicateName)
		case !errors.Is(err, sql.ErrNoRows):
			return false, fmt.Errorf("get category %s: %w", c.Name, err)
		}
		if err := q.CreateCategory(ctx, CreateCategoryParams{
			ID:          c.ID,
			Name:        c.Name,
			Icon:        c.Icon,
			Color:       c.Color,
			BudgetCents: c.Budget.Cents,
			Position:    position,
		}); err != nil {
			return false, fmt.Errorf("create category %s: %w", c.Name, err)
		}
		return true, nil
	})
	if err != nil {
		return core.Category{}, err
	}
	return c, nil
}

func (l *SQLiteLedger) SetCategoryBudget(ctx context.Context, name string, budget core.Money) (core.Category, error) {
	if err := budget.Validate(); err != nil {
		return core.Category{}, core.NewValidationError("budget", err)
	}
	var c core.Category
	err := l.withTx(ctx, func(q *Queries) (bool, error) {
		n, err := q.UpdateCategoryBudget(ctx, UpdateCategoryBudgetParams{BudgetCents: budget.Cents, Name: name})
		if err != nil {
			return false, fmt.Errorf("update category budget %s: %w", name, err)
		}
		if n == 0 {
			return false, core.CategoryNotFound(name)
		}
		row, err := q.GetCategoryByName(ctx, name)
		if err != nil {
			return false, fmt.Errorf("get category %s: %w", name, err)
		}
		c = core.Category{ID: row.ID, Name: row.Name, Icon: row.Icon, Color: row.Color, Budget: core.Money{Cents: row.BudgetCents}}
		return true, nil
	})
	if err != nil {
		return core.Category{}, err
	}
	return c, nil
}

func (l *SQLiteLedger) SetMonthlyBudget(ctx context.Context, budget core.Money) error {
	if err := budget.Validate(); err != nil {
		return core.NewValidationError("budget", err)
	}
	return l.withTx(ctx, func(q *Queries) (bool, error) {
		if err := q.SetSetting(ctx, settingMonthlyBudget, budget.Cents); err != nil {
			return false, fmt.Errorf("set monthly budget: %w", err)
		}
		return true, nil
	})
}

func createParams(t core.Transaction) CreateTransactionParams {
	return CreateTransactionParams{
		ID:          t.ID,
		AmountCents: t.Amount.Cents,
		Category:    t.Category,
		Description: t.Description,
		Date:        t.Date.String(),
		Type:        string(t.Type),
	}
}

func fromRow(r Transaction) (core.Transaction, error) {
	date, err := core.ParseDate(r.Date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("transaction %s: stored date %q: %w", r.ID, r.Date, err)
	}
	return core.Transaction{
		ID:          r.ID,
		Amount:      core.Money{Cents: r.AmountCents},
		Category:    r.Category,
		Description: r.Description,
		Date:        date,
		Type:        core.TransactionType(r.Type),
	}, nil
}

func fromRows(rows []Transaction) ([]core.Transaction, error) {
	out := make([]core.Transaction, 0, len(rows))
	for _, r := range rows {
		t, err := fromRow(r)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}
