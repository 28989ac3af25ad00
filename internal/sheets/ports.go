package sheets

import (
	"context"

	"budgetdash/internal/aggregate"
	"budgetdash/internal/amqp"
	"budgetdash/internal/core"
)

// Ports for outbound adapters.
type (
	// ReportWriter replaces the report with the given dashboard summary.
	ReportWriter interface {
		WriteReport(ctx context.Context, s aggregate.Summary) (rangeRef string, err error)
	}

	// ActivityWriter appends one row per ledger event.
	ActivityWriter interface {
		AppendActivity(ctx context.Context, msg *amqp.LedgerEventMessage) (rowRef string, err error)
	}

	// TransactionReader reads transactions to import into the ledger.
	TransactionReader interface {
		ReadTransactions(ctx context.Context) ([]core.Transaction, error)
	}
)
