// Package worker keeps a running ledger of the bill collection. It consumes
// bill change events, refetches the persisted snapshot and logs the
// recomputed per-status totals.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"bollette/internal/amqp"
	"bollette/internal/core"
	"bollette/internal/snapshot"
)

var counterEventsProcessed = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "bollette",
		Subsystem: "worker",
		Name:      "events_processed_total",
	},
	[]string{"op"},
)

var counterEventsFailed = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "bollette",
		Subsystem: "worker",
		Name:      "events_failed_total",
	},
	[]string{"op"},
)

var counterResyncs = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: "bollette",
		Subsystem: "worker",
		Name:      "resyncs_total",
	},
)

// LedgerWorker recomputes bill totals from the persisted snapshot whenever
// the collection changes.
type LedgerWorker struct {
	fetcher snapshot.Fetcher
}

func NewLedgerWorker(fetcher snapshot.Fetcher) *LedgerWorker {
	return &LedgerWorker{fetcher: fetcher}
}

// HandleBillEvent processes a single bill change notification.
func (w *LedgerWorker) HandleBillEvent(ctx context.Context, msg *amqp.BillEventMessage) error {
	slog.InfoContext(ctx, "Processing bill event",
		"op", msg.Op,
		"bill_id", msg.BillID)

	if err := w.logTotals(ctx); err != nil {
		counterEventsFailed.WithLabelValues(string(msg.Op)).Inc()
		return fmt.Errorf("handle bill event %s %s: %w", msg.Op, msg.BillID, err)
	}

	counterEventsProcessed.WithLabelValues(string(msg.Op)).Inc()
	return nil
}

// Resync refetches the snapshot outside of any event. Used at startup and on
// a timer to recover from missed messages.
func (w *LedgerWorker) Resync(ctx context.Context) error {
	if err := w.logTotals(ctx); err != nil {
		return fmt.Errorf("resync: %w", err)
	}
	counterResyncs.Inc()
	return nil
}

func (w *LedgerWorker) logTotals(ctx context.Context) error {
	bills, err := w.fetcher.FetchAll(ctx)
	if err != nil {
		return fmt.Errorf("fetch snapshot: %w", err)
	}

	totals := core.TotalsByStatus(bills)
	slog.InfoContext(ctx, "Ledger totals",
		"bill_count", len(bills),
		"paid", totals[core.StatusPaid].StringFixed(2),
		"unpaid", totals[core.StatusUnpaid].StringFixed(2),
		"pending", totals[core.StatusPending].StringFixed(2))

	return nil
}
