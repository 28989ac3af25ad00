package backend

import (
	"context"

	"budgetdash/internal/amqp"
	"budgetdash/internal/ledger"
	"budgetdash/internal/services"
	"budgetdash/internal/sheets"
)

// Sheets is the full spreadsheet surface a backend provides.
type Sheets interface {
	sheets.ReportWriter
	sheets.ActivityWriter
	sheets.TransactionReader
}

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult contains the store, its optional collaborators and a cleanup function.
type BackendResult struct {
	Store     ledger.Store
	Publisher *amqp.Client // nil when AMQP is disabled or unreachable
	Sheets    Sheets
	Cleanup   CleanupFunc
}

// ServiceOptions wires the result into a LedgerService.
func (r *BackendResult) ServiceOptions() []services.Option {
	opts := []services.Option{
		services.WithReportWriter(r.Sheets),
		services.WithTransactionReader(r.Sheets),
	}
	// A nil *amqp.Client must not become a non-nil EventPublisher.
	if r.Publisher != nil {
		opts = append(opts, services.WithPublisher(r.Publisher))
	}
	return opts
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
	CreateSheets(ctx context.Context, config Config) (Sheets, error)
}

// BackendType represents the type of store backing the ledger
type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	MemoryBackend BackendType = "memory"
)

func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
