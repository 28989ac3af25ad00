package ledger

import (
	"context"
	"iter"
	"sync"
	"time"

	"github.com/google/uuid"

	"budgetdash/internal/core"
)

// Ledger is the in-memory Store.
type Ledger struct {
	mu       sync.Mutex
	items    []core.Transaction
	cats     []core.Category
	monthly  core.Money
	revision uint64

	now   func() time.Time
	newID func() string
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithClock sets the clock used to default transaction dates.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// WithIDGenerator replaces the uuid-based id generator.
func WithIDGenerator(fn func() string) Option {
	return func(l *Ledger) { l.newID = fn }
}

var _ Store = (*Ledger)(nil)

// New returns an empty ledger holding the built-in categories.
func New(opts ...Option) *Ledger {
	l := &Ledger{
		cats:  core.DefaultCategories(),
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Ledger) AddTransaction(_ context.Context, in core.TransactionInput) (core.Transaction, error) {
	t, err := in.Build(l.newID(), l.now())
	if err != nil {
		return core.Transaction{}, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = append([]core.Transaction{t}, l.items...)
	l.revision++
	return t, nil
}

func (l *Ledger) UpdateTransaction(_ context.Context, id string, patch core.TransactionPatch) (core.Transaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, t := range l.items {
		if t.ID != id {
			continue
		}
		updated, err := patch.ApplyTo(t)
		if err != nil {
			return core.Transaction{}, err
		}
		l.items[i] = updated
		l.revision++
		return updated, nil
	}
	return core.Transaction{}, core.TransactionNotFound(id)
}

func (l *Ledger) RemoveTransaction(_ context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, t := range l.items {
		if t.ID == id {
			l.items = append(l.items[:i:i], l.items[i+1:]...)
			l.revision++
			return nil
		}
	}
	return nil
}

func (l *Ledger) ListTransactions(_ context.Context, f Filter) (iter.Seq[core.Transaction], error) {
	l.mu.Lock()
	items := append([]core.Transaction(nil), l.items...)
	l.mu.Unlock()
	return Filtered(items, f), nil
}

func (l *Ledger) ResetToDefaults(_ context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = nil
	l.cats = core.DefaultCategories()
	l.monthly = core.Money{}
	l.revision++
	return nil
}

func (l *Ledger) LoadSnapshot(_ context.Context, txs []core.Transaction, cats []core.Category) error {
	txs, cats, err := Normalize(txs, cats, l.newID)
	if err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = txs
	l.cats = cats
	l.revision++
	return nil
}

func (l *Ledger) LoadDemo(_ context.Context) error {
	txs, cats, err := Normalize(core.DemoTransactions(), core.DemoCategories(), l.newID)
	if err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = txs
	l.cats = cats
	l.monthly = core.DemoMonthlyBudget
	l.revision++
	return nil
}

func (l *Ledger) Snapshot(_ context.Context) (Snapshot, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return Snapshot{
		Transactions:  append([]core.Transaction(nil), l.items...),
		Categories:    append([]core.Category(nil), l.cats...),
		MonthlyBudget: l.monthly,
		Revision:      l.revision,
	}, nil
}

func (l *Ledger) Revision(_ context.Context) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.revision, nil
}

func (l *Ledger) AddCategory(_ context.Context, in core.CategoryInput) (core.Category, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var maxID int64
	for _, c := range l.cats {
		maxID = max(maxID, c.ID)
	}
	c, err := in.Build(maxID + 1)
	if err != nil {
		return core.Category{}, err
	}
	for _, existing := range l.cats {
		if existing.Name == c.Name {
			return core.Category{}, core.NewValidationError("name", core.ErrDuplicateName)
		}
	}
	l.cats = append(l.cats, c)
	l.revision++
	return c, nil
}

func (l *Ledger) SetCategoryBudget(_ context.Context, name string, budget core.Money) (core.Category, error) {
	if err := budget.Validate(); err != nil {
		return core.Category{}, core.NewValidationError("budget", err)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.cats {
		if l.cats[i].Name == name {
			l.cats[i].Budget = budget
			l.revision++
			return l.cats[i], nil
		}
	}
	return core.Category{}, core.CategoryNotFound(name)
}

func (l *Ledger) SetMonthlyBudget(_ context.Context, budget core.Money) error {
	if err := budget.Validate(); err != nil {
		return core.NewValidationError("budget", err)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.monthly = budget
	l.revision++
	return nil
}

// Normalize validates a bulk load before anything is replaced. Transactions
// without an id get a fresh one, categories without an id get the next free one.
func Normalize(txs []core.Transaction, cats []core.Category, newID func() string) ([]core.Transaction, []core.Category, error) {
	outTx := make([]core.Transaction, len(txs))
	seenID := make(map[string]struct{}, len(txs))
	for i, t := range txs {
		if t.ID == "" {
			t.ID = newID()
		}
		if _, dup := seenID[t.ID]; dup {
			return nil, nil, core.NewValidationError("id", core.ErrDuplicateID)
		}
		seenID[t.ID] = struct{}{}
		if err := t.Validate(); err != nil {
			return nil, nil, err
		}
		outTx[i] = t
	}

	outCats := make([]core.Category, len(cats))
	seenName := make(map[string]struct{}, len(cats))
	var maxID int64
	for _, c := range cats {
		maxID = max(maxID, c.ID)
	}
	for i, c := range cats {
		if err := c.Validate(); err != nil {
			return nil, nil, err
		}
		if _, dup := seenName[c.Name]; dup {
			return nil, nil, core.NewValidationError("name", core.ErrDuplicateName)
		}
		seenName[c.Name] = struct{}{}
		if c.ID == 0 {
			maxID++
			c.ID = maxID
		}
		outCats[i] = c
	}
	return outTx, outCats, nil
}
