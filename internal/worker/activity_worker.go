package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"budgetdash/internal/amqp"
	"budgetdash/internal/cache"
	"budgetdash/internal/log"
	"budgetdash/internal/sheets"
)

// DefaultDedupeSize bounds how many recently handled events are remembered.
const DefaultDedupeSize = 1024

// EventConsumer delivers ledger events to a handler until ctx is done.
type EventConsumer interface {
	ConsumeLedgerEvents(ctx context.Context, handler func(context.Context, *amqp.LedgerEventMessage) error) error
}

// ActivityWorker appends every ledger event it receives to the activity log.
// Redelivered events are recognised by their event id and written only once.
type ActivityWorker struct {
	activity sheets.ActivityWriter
	seen     *cache.LRUCache[struct{}]

	appended atomic.Int64
	skipped  atomic.Int64
	failed   atomic.Int64
}

// Stats counts what the worker has done since it started.
type Stats struct {
	Appended int64
	Skipped  int64
	Failed   int64
}

func NewActivityWorker(activity sheets.ActivityWriter, dedupeSize int) *ActivityWorker {
	if dedupeSize <= 0 {
		dedupeSize = DefaultDedupeSize
	}
	return &ActivityWorker{
		activity: activity,
		seen:     cache.NewLRUCache[struct{}](dedupeSize, 0),
	}
}

// eventKey identifies an event across redeliveries. Messages without an id
// fall back to every field that tells two events apart.
func eventKey(msg *amqp.LedgerEventMessage) string {
	if msg.EventID != "" {
		return msg.EventID
	}
	return fmt.Sprintf("%s:%d:%s:%s:%d:%d", msg.Kind, msg.Revision, msg.TransactionID,
		msg.Category, msg.AmountCents, msg.Timestamp.UnixNano())
}

// HandleLedgerEvent processes a single ledger event from AMQP. A returned
// error makes the consumer requeue the message.
func (w *ActivityWorker) HandleLedgerEvent(ctx context.Context, msg *amqp.LedgerEventMessage) error {
	key := eventKey(msg)
	if _, ok := w.seen.Get(key); ok {
		w.skipped.Add(1)
		slog.DebugContext(ctx, "Skipping duplicate ledger event",
			log.FieldEventKind, msg.Kind,
			log.FieldRevision, msg.Revision)
		return nil
	}

	ref, err := w.activity.AppendActivity(ctx, msg)
	if err != nil {
		w.failed.Add(1)
		return fmt.Errorf("append activity: %w", err)
	}
	w.seen.Set(key, struct{}{})
	w.appended.Add(1)

	slog.InfoContext(ctx, "Recorded ledger activity",
		log.FieldComponent, log.ComponentWorker,
		log.FieldEventKind, msg.Kind,
		log.FieldRevision, msg.Revision,
		log.FieldSheetRange, ref)
	return nil
}

// Run consumes events until ctx is cancelled. Cancellation is a clean stop.
func (w *ActivityWorker) Run(ctx context.Context, consumer EventConsumer) error {
	err := consumer.ConsumeLedgerEvents(ctx, w.HandleLedgerEvent)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (w *ActivityWorker) Stats() Stats {
	return Stats{
		Appended: w.appended.Load(),
		Skipped:  w.skipped.Load(),
		Failed:   w.failed.Load(),
	}
}
