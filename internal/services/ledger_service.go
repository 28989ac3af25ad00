package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"sync"

	"budgetdash/internal/aggregate"
	"budgetdash/internal/amqp"
	"budgetdash/internal/core"
	"budgetdash/internal/ledger"
	"budgetdash/internal/log"
	"budgetdash/internal/sheets"
)

var (
	ErrReportsDisabled = errors.New("report export is not configured")
	ErrImportDisabled  = errors.New("transaction import is not configured")
)

// EventPublisher forwards committed mutations to the message broker.
type EventPublisher interface {
	PublishLedgerEvent(ctx context.Context, msg *amqp.LedgerEventMessage) error
}

// Broadcaster pushes committed mutations to live subscribers.
type Broadcaster interface {
	Broadcast(msg *amqp.LedgerEventMessage)
}

// Option configures a LedgerService.
type Option func(*LedgerService)

func WithPublisher(p EventPublisher) Option {
	return func(s *LedgerService) { s.publisher = p }
}

func WithBroadcaster(b Broadcaster) Option {
	return func(s *LedgerService) { s.broadcaster = b }
}

func WithReportWriter(w sheets.ReportWriter) Option {
	return func(s *LedgerService) { s.reports = w }
}

func WithTransactionReader(r sheets.TransactionReader) Option {
	return func(s *LedgerService) { s.importer = r }
}

// LedgerService orchestrates ledger mutations, event fan-out and report export.
// Publishing failures are logged and never fail the mutation.
type LedgerService struct {
	store       ledger.Store
	publisher   EventPublisher
	broadcaster Broadcaster
	reports     sheets.ReportWriter
	importer    sheets.TransactionReader
	logger      *log.StructuredLogger

	// mu serialises a mutation with the revision read that stamps its event.
	mu sync.Mutex
}

func NewLedgerService(store ledger.Store, opts ...Option) *LedgerService {
	s := &LedgerService{
		store:  store,
		logger: log.NewStructuredLogger(log.New(log.Config{Component: log.ComponentLedger, Handler: slog.Default().Handler()})),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *LedgerService) AddTransaction(ctx context.Context, in core.TransactionInput) (core.Transaction, error) {
	var t core.Transaction
	rev, err := s.commit(ctx, func() (err error) {
		t, err = s.store.AddTransaction(ctx, in)
		return err
	})
	if err != nil {
		return core.Transaction{}, err
	}
	s.logger.LogTransaction(ctx, log.OpCreate, t.ID, t.Description, t.Amount.Cents, t.Category, string(t.Type))
	s.emit(ctx, amqp.NewTransactionEvent(amqp.EventTransactionAdded, t, rev))
	return t, nil
}

func (s *LedgerService) UpdateTransaction(ctx context.Context, id string, patch core.TransactionPatch) (core.Transaction, error) {
	var t core.Transaction
	rev, err := s.commit(ctx, func() (err error) {
		t, err = s.store.UpdateTransaction(ctx, id, patch)
		return err
	})
	if err != nil {
		return core.Transaction{}, err
	}
	s.logger.LogTransaction(ctx, log.OpUpdate, t.ID, t.Description, t.Amount.Cents, t.Category, string(t.Type))
	s.emit(ctx, amqp.NewTransactionEvent(amqp.EventTransactionUpdated, t, rev))
	return t, nil
}

// RemoveTransaction deletes the transaction; an unknown id is a silent no-op.
func (s *LedgerService) RemoveTransaction(ctx context.Context, id string) error {
	var (
		existing core.Transaction
		found    bool
	)
	rev, err := s.commit(ctx, func() (err error) {
		if existing, found, err = s.find(ctx, id); err != nil {
			return err
		}
		return s.store.RemoveTransaction(ctx, id)
	})
	if err != nil {
		return err
	}
	if !found {
		return nil
	}
	s.logger.LogTransaction(ctx, log.OpDelete, existing.ID, existing.Description, existing.Amount.Cents, existing.Category, string(existing.Type))
	s.emit(ctx, amqp.NewTransactionEvent(amqp.EventTransactionRemoved, existing, rev))
	return nil
}

func (s *LedgerService) find(ctx context.Context, id string) (core.Transaction, bool, error) {
	seq, err := s.store.ListTransactions(ctx, ledger.Filter{})
	if err != nil {
		return core.Transaction{}, false, err
	}
	for t := range seq {
		if t.ID == id {
			return t, true, nil
		}
	}
	return core.Transaction{}, false, nil
}

func (s *LedgerService) ListTransactions(ctx context.Context, f ledger.Filter) (iter.Seq[core.Transaction], error) {
	return s.store.ListTransactions(ctx, f)
}

func (s *LedgerService) Categories(ctx context.Context) ([]core.Category, error) {
	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Categories, nil
}

func (s *LedgerService) AddCategory(ctx context.Context, in core.CategoryInput) (core.Category, error) {
	var c core.Category
	rev, err := s.commit(ctx, func() (err error) {
		c, err = s.store.AddCategory(ctx, in)
		return err
	})
	if err != nil {
		return core.Category{}, err
	}
	s.emit(ctx, amqp.NewBudgetEvent(c.Name, c.Budget, rev))
	return c, nil
}

func (s *LedgerService) SetCategoryBudget(ctx context.Context, name string, budget core.Money) (core.Category, error) {
	var c core.Category
	rev, err := s.commit(ctx, func() (err error) {
		c, err = s.store.SetCategoryBudget(ctx, name, budget)
		return err
	})
	if err != nil {
		return core.Category{}, err
	}
	s.emit(ctx, amqp.NewBudgetEvent(c.Name, c.Budget, rev))
	return c, nil
}

func (s *LedgerService) SetMonthlyBudget(ctx context.Context, budget core.Money) error {
	rev, err := s.commit(ctx, func() error { return s.store.SetMonthlyBudget(ctx, budget) })
	if err != nil {
		return err
	}
	s.emit(ctx, amqp.NewBudgetEvent("", budget, rev))
	return nil
}

func (s *LedgerService) ResetToDefaults(ctx context.Context) error {
	rev, err := s.commit(ctx, func() error { return s.store.ResetToDefaults(ctx) })
	if err != nil {
		return err
	}
	slog.InfoContext(ctx, "Ledger reset to defaults", log.FieldOperation, log.OpReset)
	s.emit(ctx, amqp.NewLedgerEventMessage(amqp.EventLedgerReset, rev))
	return nil
}

func (s *LedgerService) LoadDemo(ctx context.Context) error {
	rev, err := s.commit(ctx, func() error { return s.store.LoadDemo(ctx) })
	if err != nil {
		return err
	}
	slog.InfoContext(ctx, "Demo data loaded", log.FieldOperation, log.OpLoad)
	s.emit(ctx, amqp.NewLedgerEventMessage(amqp.EventLedgerLoaded, rev))
	return nil
}

func (s *LedgerService) LoadSnapshot(ctx context.Context, txs []core.Transaction, cats []core.Category) error {
	rev, err := s.commit(ctx, func() error { return s.store.LoadSnapshot(ctx, txs, cats) })
	if err != nil {
		return err
	}
	slog.InfoContext(ctx, "Ledger snapshot loaded",
		log.FieldOperation, log.OpLoad,
		"transactions", len(txs),
		"categories", len(cats))
	s.emit(ctx, amqp.NewLedgerEventMessage(amqp.EventLedgerLoaded, rev))
	return nil
}

// ImportTransactions replaces the transactions with the rows of the configured
// reader. Current categories are kept and unknown category names are added.
func (s *LedgerService) ImportTransactions(ctx context.Context) (int, error) {
	if s.importer == nil {
		return 0, ErrImportDisabled
	}
	txs, err := s.importer.ReadTransactions(ctx)
	if err != nil {
		return 0, fmt.Errorf("read transactions: %w", err)
	}
	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return 0, err
	}
	if err := s.LoadSnapshot(ctx, txs, sheets.MergeCategories(snap.Categories, txs)); err != nil {
		return 0, err
	}
	return len(txs), nil
}

func (s *LedgerService) Snapshot(ctx context.Context) (ledger.Snapshot, error) {
	return s.store.Snapshot(ctx)
}

func (s *LedgerService) Revision(ctx context.Context) (uint64, error) {
	return s.store.Revision(ctx)
}

// Dashboard summarises the current ledger.
func (s *LedgerService) Dashboard(ctx context.Context, recentLimit int) (aggregate.Summary, error) {
	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return aggregate.Summary{}, err
	}
	return aggregate.Summarize(snap, recentLimit), nil
}

// CategoryStatus reports budget utilisation for one category.
func (s *LedgerService) CategoryStatus(ctx context.Context, name string) (aggregate.BudgetStatus, error) {
	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return aggregate.BudgetStatus{}, err
	}
	c, ok := snap.Category(name)
	if !ok {
		return aggregate.BudgetStatus{}, core.CategoryNotFound(name)
	}
	return aggregate.PerCategoryBudgetStatus(c, snap.Transactions), nil
}

// ExportReport writes the current dashboard through the report writer.
func (s *LedgerService) ExportReport(ctx context.Context) (string, aggregate.Summary, error) {
	if s.reports == nil {
		return "", aggregate.Summary{}, ErrReportsDisabled
	}
	sum, err := s.Dashboard(ctx, aggregate.DefaultRecentLimit)
	if err != nil {
		return "", aggregate.Summary{}, err
	}
	ref, err := s.reports.WriteReport(ctx, sum)
	if err != nil {
		return "", aggregate.Summary{}, fmt.Errorf("write report: %w", err)
	}
	slog.InfoContext(ctx, "Report exported",
		log.FieldOperation, log.OpExport,
		log.FieldSheetRange, ref,
		log.FieldRevision, sum.Revision)
	return ref, sum, nil
}

// Ping checks the store when it supports it.
func (s *LedgerService) Ping(ctx context.Context) error {
	if p, ok := s.store.(interface{ Ping(context.Context) error }); ok {
		return p.Ping(ctx)
	}
	return nil
}

// commit runs one store mutation and returns the revision it produced.
func (s *LedgerService) commit(ctx context.Context, mutate func() error) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := mutate(); err != nil {
		return 0, err
	}
	rev, err := s.store.Revision(ctx)
	if err != nil {
		slog.WarnContext(ctx, "Failed to read ledger revision", "error", err)
	}
	return rev, nil
}

func (s *LedgerService) emit(ctx context.Context, msg *amqp.LedgerEventMessage) {
	if s.broadcaster != nil {
		s.broadcaster.Broadcast(msg)
	}
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishLedgerEvent(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "Failed to publish ledger event",
			log.FieldEventKind, msg.Kind,
			log.FieldRevision, msg.Revision,
			"error", err)
	}
}

// Close closes the store and the publisher when they hold resources.
func (s *LedgerService) Close() error {
	var errs []error

	if c, ok := s.store.(io.Closer); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if c, ok := s.publisher.(io.Closer); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close ledger service: %w", errors.Join(errs...))
	}

	return nil
}
