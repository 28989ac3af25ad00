package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"budgetdash/internal/log"
)

// ReportProcessorConfig holds configuration for the report processor
type ReportProcessorConfig struct {
	// Interval is how often the ledger revision is checked (default: 1m)
	Interval time.Duration
}

// DefaultReportProcessorConfig returns sensible defaults
func DefaultReportProcessorConfig() ReportProcessorConfig {
	return ReportProcessorConfig{Interval: time.Minute}
}

// ReportProcessor re-exports the dashboard report whenever the ledger changed
// since the last successful export.
type ReportProcessor struct {
	service *LedgerService
	config  ReportProcessorConfig

	mu           sync.Mutex
	running      bool
	stopCh       chan struct{}
	doneCh       chan struct{}
	lastExported uint64
	exported     bool
}

func NewReportProcessor(service *LedgerService, config ReportProcessorConfig) *ReportProcessor {
	if config.Interval <= 0 {
		config.Interval = DefaultReportProcessorConfig().Interval
	}
	return &ReportProcessor{service: service, config: config}
}

// Start begins the export loop. Returns an error if already running.
func (p *ReportProcessor) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return fmt.Errorf("report processor is already running")
	}
	p.running = true
	p.stopCh = make(chan struct{})
	p.doneCh = make(chan struct{})
	p.mu.Unlock()

	go p.runLoop(ctx)

	slog.InfoContext(ctx, "Report processor started", "interval", p.config.Interval)
	return nil
}

// Stop gracefully stops the processor and waits for completion.
func (p *ReportProcessor) Stop(ctx context.Context) error {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return nil
	}
	stopCh, doneCh := p.stopCh, p.doneCh
	p.running = false
	p.mu.Unlock()

	close(stopCh)

	select {
	case <-doneCh:
		slog.InfoContext(ctx, "Report processor stopped gracefully")
		return nil
	case <-ctx.Done():
		slog.WarnContext(ctx, "Report processor stop timed out")
		return ctx.Err()
	}
}

// IsRunning returns whether the processor is currently running
func (p *ReportProcessor) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

func (p *ReportProcessor) runLoop(ctx context.Context) {
	defer close(p.doneCh)

	ticker := time.NewTicker(p.config.Interval)
	defer ticker.Stop()

	p.exportIfChanged(ctx)

	for {
		select {
		case <-p.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.exportIfChanged(ctx)
		}
	}
}

// exportIfChanged writes the report when the revision moved. It reports
// whether an export happened.
func (p *ReportProcessor) exportIfChanged(ctx context.Context) bool {
	rev, err := p.service.Revision(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to read ledger revision", "error", err)
		return false
	}
	p.mu.Lock()
	unchanged := p.exported && rev == p.lastExported
	p.mu.Unlock()
	if unchanged {
		return false
	}

	_, sum, err := p.service.ExportReport(ctx)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			log.NewStructuredLogger(log.FromContext(ctx)).LogError(ctx, "Scheduled report export failed", err,
				log.ComponentReport, log.OpExport, log.NewFields().WithRevision(rev))
		}
		return false
	}

	p.mu.Lock()
	p.lastExported = sum.Revision
	p.exported = true
	p.mu.Unlock()
	return true
}
