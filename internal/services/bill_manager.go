package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"bollette/internal/amqp"
	"bollette/internal/core"
	"bollette/internal/snapshot"
)

// EventPublisher notifies interested consumers after a bill mutation has
// been persisted. A nil publisher disables notifications.
type EventPublisher interface {
	PublishBillEvent(ctx context.Context, op amqp.BillEventOp, billID string) error
}

// BillManager owns the in-memory bill collection together with the current
// filter and sort selections, and pushes the full snapshot to the store on
// every mutation. Mutations are optimistic: the collection is updated first
// and kept even when the save fails, so callers always render the state the
// user just produced.
type BillManager struct {
	store  snapshot.Store
	events EventPublisher

	// saveMu serializes mutation-and-persist pairs so a slow save can
	// never land after a later one and drop its changes.
	saveMu sync.Mutex

	mu     sync.Mutex
	bills  []core.Bill
	filter core.Filter
	sort   core.SortOrder
}

// UpdatePatch lists the two fields a bill update may touch. Nil fields are
// left as they are.
type UpdatePatch struct {
	Amount *decimal.Decimal
	Status *core.Status
}

func NewBillManager(store snapshot.Store, events EventPublisher) *BillManager {
	return &BillManager{
		store:  store,
		events: events,
		filter: core.FilterAll,
		sort:   core.SortDefault,
	}
}

// Initialize loads the persisted snapshot and replaces the in-memory
// collection. It must complete before any display operation, otherwise the
// tracker would briefly show an empty state that was never true.
func (m *BillManager) Initialize(ctx context.Context) error {
	bills, err := m.store.FetchAll(ctx)
	if err != nil {
		return fmt.Errorf("load bills: %w", err)
	}

	m.mu.Lock()
	m.bills = bills
	m.mu.Unlock()

	slog.InfoContext(ctx, "Bill collection initialized", "bills", len(bills))
	return nil
}

// CreateBill validates and appends a bill, assigning a time-based ID when
// none is given, then persists the snapshot. The returned bill carries the
// assigned ID even when persistence fails.
func (m *BillManager) CreateBill(ctx context.Context, b core.Bill) (core.Bill, error) {
	if b.ID == "" {
		b.ID = core.NewBillID(time.Now())
	}
	if b.Status == "" {
		b.Status = core.StatusPending
	}
	b.Amount = core.NewAmount(b.Amount.Value, b.Amount.Currency)
	if err := b.Validate(); err != nil {
		return core.Bill{}, err
	}

	m.saveMu.Lock()
	defer m.saveMu.Unlock()

	m.mu.Lock()
	m.bills = append(m.bills, b)
	snap := m.copyBills()
	m.mu.Unlock()

	if err := m.persist(ctx, snap); err != nil {
		return b, err
	}
	m.publish(ctx, amqp.BillCreated, b.ID)
	return b, nil
}

// DeleteBill removes the first bill with the given ID and persists. An
// unknown ID is a no-op on the collection but the snapshot is still saved.
func (m *BillManager) DeleteBill(ctx context.Context, id string) error {
	m.saveMu.Lock()
	defer m.saveMu.Unlock()

	m.mu.Lock()
	removed := false
	for i, b := range m.bills {
		if b.ID == id {
			m.bills = append(m.bills[:i], m.bills[i+1:]...)
			removed = true
			break
		}
	}
	snap := m.copyBills()
	m.mu.Unlock()

	if err := m.persist(ctx, snap); err != nil {
		return err
	}
	if removed {
		m.publish(ctx, amqp.BillDeleted, id)
	}
	return nil
}

// UpdateBill applies the patch to the matching bill, touching only the
// amount value and the status. An unknown ID is a no-op; the snapshot is
// still saved.
func (m *BillManager) UpdateBill(ctx context.Context, id string, patch UpdatePatch) error {
	if patch.Status != nil && !patch.Status.Valid() {
		return core.ErrInvalidStatus
	}

	m.saveMu.Lock()
	defer m.saveMu.Unlock()

	m.mu.Lock()
	updated := false
	for i := range m.bills {
		if m.bills[i].ID != id {
			continue
		}
		if patch.Amount != nil {
			m.bills[i].Amount = core.NewAmount(*patch.Amount, m.bills[i].Amount.Currency)
		}
		if patch.Status != nil {
			m.bills[i].Status = *patch.Status
		}
		updated = true
		break
	}
	snap := m.copyBills()
	m.mu.Unlock()

	if err := m.persist(ctx, snap); err != nil {
		return err
	}
	if updated {
		m.publish(ctx, amqp.BillUpdated, id)
	}
	return nil
}

// SetFilter selects the status filter for display. Synchronous, nothing is
// persisted.
func (m *BillManager) SetFilter(f core.Filter) {
	m.mu.Lock()
	m.filter = f
	m.mu.Unlock()
}

// SetSort selects the display ordering. Synchronous, nothing is persisted.
func (m *BillManager) SetSort(s core.SortOrder) {
	m.mu.Lock()
	m.sort = s
	m.mu.Unlock()
}

// Filter returns the current status filter.
func (m *BillManager) Filter() core.Filter {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.filter
}

// Sort returns the current display ordering.
func (m *BillManager) Sort() core.SortOrder {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sort
}

// DisplayBills returns the filtered, sorted view of the collection. The
// canonical insertion order is never touched.
func (m *BillManager) DisplayBills() []core.Bill {
	m.mu.Lock()
	bills := m.copyBills()
	filter, order := m.filter, m.sort
	m.mu.Unlock()
	return core.ApplyView(bills, filter, order)
}

// TotalsByStatus aggregates amount values per status over the whole
// collection, ignoring the display filter.
func (m *BillManager) TotalsByStatus() core.Totals {
	m.mu.Lock()
	bills := m.copyBills()
	m.mu.Unlock()
	return core.TotalsByStatus(bills)
}

// Bill looks up a bill by ID.
func (m *BillManager) Bill(id string) (core.Bill, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.bills {
		if b.ID == id {
			return b, true
		}
	}
	return core.Bill{}, false
}

// Close releases the store and publisher when they hold resources.
func (m *BillManager) Close() error {
	var errs []error

	if c, ok := m.store.(io.Closer); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("store: %w", err))
		}
	}
	if c, ok := m.events.(io.Closer); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("events: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close bill manager: %v", errs)
	}
	return nil
}

// copyBills must be called with the mutex held.
func (m *BillManager) copyBills() []core.Bill {
	out := make([]core.Bill, len(m.bills))
	copy(out, m.bills)
	return out
}

// persist pushes the full snapshot. Every save failure surfaces as the
// single persistence error kind.
func (m *BillManager) persist(ctx context.Context, bills []core.Bill) error {
	if err := m.store.SaveAll(ctx, bills); err != nil {
		if errors.Is(err, snapshot.ErrSaveFailed) {
			return err
		}
		return fmt.Errorf("%w: %v", snapshot.ErrSaveFailed, err)
	}
	return nil
}

// publish is best-effort: the bill is already saved, so a broken broker
// must not fail the mutation.
func (m *BillManager) publish(ctx context.Context, op amqp.BillEventOp, id string) {
	if m.events == nil {
		return
	}
	if err := m.events.PublishBillEvent(ctx, op, id); err != nil {
		slog.ErrorContext(ctx, "Failed to publish bill event",
			"op", op, "bill_id", id, "error", err)
	}
}
