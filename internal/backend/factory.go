package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"budgetdash/internal/amqp"
	"budgetdash/internal/ledger"
	gsheet "budgetdash/internal/sheets/google"
	"budgetdash/internal/sheets/memory"
	"budgetdash/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{logger: logger}
}

// CreateBackend builds the store, then the optional sheets and AMQP collaborators.
// Cleanup releases everything that was opened.
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	store, err := f.createStore(config)
	if err != nil {
		return nil, err
	}

	sink, err := f.CreateSheets(ctx, config)
	if err != nil {
		closeStore(store)
		return nil, err
	}

	result := &BackendResult{
		Store:     store,
		Sheets:    sink,
		Publisher: f.createPublisher(config),
	}
	result.Cleanup = func() error {
		var errs []error
		if c, ok := store.(interface{ Close() error }); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, fmt.Errorf("storage: %w", err))
			}
		}
		if result.Publisher != nil {
			if err := result.Publisher.Close(); err != nil {
				errs = append(errs, fmt.Errorf("amqp: %w", err))
			}
		}
		return errors.Join(errs...)
	}
	return result, nil
}

func (f *DefaultFactory) createStore(config Config) (ledger.Store, error) {
	switch config.Type {
	case SQLiteBackend:
		repo, err := storage.NewSQLiteLedger(config.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite ledger: %w", err)
		}
		f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)
		return repo, nil
	case MemoryBackend:
		f.logger.Info("Initialized memory backend")
		return ledger.New(), nil
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

// CreateSheets returns the Google Sheets client, or an in-memory sink when no
// spreadsheet is configured.
func (f *DefaultFactory) CreateSheets(ctx context.Context, config Config) (Sheets, error) {
	if config.Sheets.SpreadsheetID == "" {
		sink, err := memory.NewFromFile(config.MemorySeedFile)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize memory sheets: %w", err)
		}
		f.logger.Info("Using in-memory sheets", "seed_file", config.MemorySeedFile)
		return sink, nil
	}
	cli, err := gsheet.New(ctx, config.Sheets)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
	}
	f.logger.Info("Initialized Google Sheets client", "spreadsheet_id", config.Sheets.SpreadsheetID)
	return cli, nil
}

// createPublisher returns nil when AMQP is disabled or unreachable; the
// ledger keeps working without events.
func (f *DefaultFactory) createPublisher(config Config) *amqp.Client {
	if config.AMQPURL == "" {
		return nil
	}
	client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
	if err != nil {
		f.logger.Warn("Failed to initialize AMQP client, continuing without events", "error", err)
		return nil
	}
	f.logger.Info("Initialized AMQP client",
		"exchange", config.AMQPExchange,
		"queue", config.AMQPQueue)
	return client
}

func closeStore(store ledger.Store) {
	if c, ok := store.(interface{ Close() error }); ok {
		_ = c.Close()
	}
}
