package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"bollette/internal/amqp"
	"bollette/internal/core"
	"bollette/internal/snapshot"
	"bollette/internal/snapshot/memory"
)

type capturedEvent struct {
	op amqp.BillEventOp
	id string
}

type fakePublisher struct {
	events []capturedEvent
	err    error
}

func (f *fakePublisher) PublishBillEvent(_ context.Context, op amqp.BillEventOp, id string) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, capturedEvent{op: op, id: id})
	return nil
}

func newManager(t *testing.T) (*BillManager, *snapshot.Simulator, *fakePublisher) {
	t.Helper()
	sim := snapshot.NewSimulator(memory.New(), 0)
	pub := &fakePublisher{}
	m := NewBillManager(sim, pub)
	if err := m.Initialize(context.Background()); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	return m, sim, pub
}

func draft(category string, amount int64, status core.Status) core.Bill {
	return core.Bill{
		Category:      category,
		PaymentMethod: "Direct debit",
		Status:        status,
		Amount:        core.NewAmount(decimal.NewFromInt(amount), "EUR"),
	}
}

func TestConcurrentMutationsPersistAll(t *testing.T) {
	m, sim, _ := newManager(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			bill := draft(fmt.Sprintf("Bill-%d", n), int64(n+1), core.StatusPending)
			if _, err := m.CreateBill(context.Background(), bill); err != nil {
				t.Errorf("create: %v", err)
			}
		}(i)
	}
	wg.Wait()

	// The persisted snapshot must hold every mutation. A stale snapshot
	// racing in last would silently drop the later bills.
	fresh := NewBillManager(sim, nil)
	if err := fresh.Initialize(context.Background()); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if got := len(fresh.DisplayBills()); got != 8 {
		t.Fatalf("persisted snapshot has %d bills, want 8", got)
	}
}

func TestCreateBill(t *testing.T) {
	m, _, pub := newManager(t)

	before := len(m.DisplayBills())
	created, err := m.CreateBill(context.Background(), draft("Energy", 42, core.StatusUnpaid))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("create should assign an ID")
	}
	if got := len(m.DisplayBills()); got != before+1 {
		t.Fatalf("create should grow the collection by one: %d -> %d", before, got)
	}
	if _, ok := m.Bill(created.ID); !ok {
		t.Fatalf("created bill should be retrievable by its assigned ID")
	}
	if len(pub.events) != 1 || pub.events[0].op != amqp.BillCreated {
		t.Fatalf("expected one created event, got %+v", pub.events)
	}
}

func TestCreateBillDefaults(t *testing.T) {
	m, _, _ := newManager(t)

	b := draft("Energy", 5, "")
	created, err := m.CreateBill(context.Background(), b)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Status != core.StatusPending {
		t.Fatalf("missing status should default to Pending, got %s", created.Status)
	}

	_, err = m.CreateBill(context.Background(), draft("", 5, core.StatusPaid))
	if !errors.Is(err, core.ErrEmptyCategory) {
		t.Fatalf("expected ErrEmptyCategory, got %v", err)
	}
}

func TestDeleteBill(t *testing.T) {
	m, _, pub := newManager(t)
	created, _ := m.CreateBill(context.Background(), draft("Energy", 10, core.StatusPaid))

	if err := m.DeleteBill(context.Background(), created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := m.Bill(created.ID); ok {
		t.Fatalf("deleted bill should not be found")
	}

	// Unknown ID is a no-op that still succeeds, and publishes nothing.
	events := len(pub.events)
	if err := m.DeleteBill(context.Background(), "missing"); err != nil {
		t.Fatalf("delete of unknown id: %v", err)
	}
	if len(pub.events) != events {
		t.Fatalf("no-op delete should not publish an event")
	}
}

func TestUpdateBillTouchesOnlyAmountAndStatus(t *testing.T) {
	m, _, _ := newManager(t)
	b := draft("Energy", 10, core.StatusUnpaid)
	b.DisplayName = "Electricity"
	created, _ := m.CreateBill(context.Background(), b)

	newAmount := decimal.RequireFromString("99.95")
	paid := core.StatusPaid
	if err := m.UpdateBill(context.Background(), created.ID, UpdatePatch{Amount: &newAmount, Status: &paid}); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, ok := m.Bill(created.ID)
	if !ok {
		t.Fatalf("bill disappeared after update")
	}
	if !got.Amount.Value.Equal(newAmount) || got.Status != core.StatusPaid {
		t.Fatalf("patch not applied: %+v", got)
	}
	// Identity and the untouched fields must be bit-identical.
	if got.ID != created.ID || got.Category != created.Category ||
		got.DisplayName != created.DisplayName ||
		got.PaymentMethod != created.PaymentMethod ||
		got.Amount.Currency != created.Amount.Currency {
		t.Fatalf("update touched fields outside the patch:\nbefore=%+v\nafter=%+v", created, got)
	}
}

func TestUpdateBillPartialPatch(t *testing.T) {
	m, _, _ := newManager(t)
	created, _ := m.CreateBill(context.Background(), draft("Energy", 10, core.StatusUnpaid))

	paid := core.StatusPaid
	if err := m.UpdateBill(context.Background(), created.ID, UpdatePatch{Status: &paid}); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, _ := m.Bill(created.ID)
	if got.Status != core.StatusPaid || !got.Amount.Value.Equal(created.Amount.Value) {
		t.Fatalf("status-only patch misapplied: %+v", got)
	}

	bad := core.Status("Overdue")
	if err := m.UpdateBill(context.Background(), created.ID, UpdatePatch{Status: &bad}); !errors.Is(err, core.ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}

	// Unknown ID is a no-op.
	if err := m.UpdateBill(context.Background(), "missing", UpdatePatch{Status: &paid}); err != nil {
		t.Fatalf("update of unknown id: %v", err)
	}
}

func TestDisplayBillsFilterAndSort(t *testing.T) {
	m, _, _ := newManager(t)
	ctx := context.Background()
	a, _ := m.CreateBill(ctx, draft("Energy", 30, core.StatusPaid))
	m.CreateBill(ctx, draft("Water", 20, core.StatusUnpaid))
	c, _ := m.CreateBill(ctx, draft("Streaming", 10, core.StatusPaid))

	m.SetFilter(core.FilterPaid)
	m.SetSort(core.SortAmountAsc)

	got := m.DisplayBills()
	if len(got) != 2 || got[0].ID != c.ID || got[1].ID != a.ID {
		t.Fatalf("expected paid bills ascending [%s %s], got %+v", c.ID, a.ID, got)
	}

	// The canonical order survives any view.
	m.SetFilter(core.FilterAll)
	m.SetSort(core.SortDefault)
	all := m.DisplayBills()
	if len(all) != 3 || all[0].ID != a.ID {
		t.Fatalf("display must not reorder the canonical collection: %+v", all)
	}
}

func TestTotalsByStatus(t *testing.T) {
	m, _, _ := newManager(t)
	ctx := context.Background()
	m.CreateBill(ctx, draft("A", 10, core.StatusPaid))
	m.CreateBill(ctx, draft("B", 20, core.StatusUnpaid))
	m.CreateBill(ctx, draft("C", 5, core.StatusPending))
	m.CreateBill(ctx, draft("D", 15, core.StatusPaid))
	m.CreateBill(ctx, draft("E", 25, core.StatusUnpaid))

	totals := m.TotalsByStatus()
	if totals[core.StatusPaid].IntPart() != 25 ||
		totals[core.StatusUnpaid].IntPart() != 45 ||
		totals[core.StatusPending].IntPart() != 5 {
		t.Fatalf("unexpected totals: %+v", totals)
	}
}

func TestSaveFailureKeepsOptimisticState(t *testing.T) {
	m, sim, pub := newManager(t)
	ctx := context.Background()
	m.CreateBill(ctx, draft("Energy", 10, core.StatusPaid))

	sim.SetFailSaves(true)
	created, err := m.CreateBill(ctx, draft("Water", 20, core.StatusUnpaid))
	if !errors.Is(err, snapshot.ErrSaveFailed) {
		t.Fatalf("expected ErrSaveFailed, got %v", err)
	}

	// The in-memory mutation is kept: the caller re-renders what the user
	// just entered, saved or not.
	if _, ok := m.Bill(created.ID); !ok {
		t.Fatalf("optimistic mutation should survive the failed save")
	}
	if len(m.DisplayBills()) != 2 {
		t.Fatalf("expected 2 bills in memory, got %d", len(m.DisplayBills()))
	}

	// No event for a failed save.
	for _, e := range pub.events {
		if e.id == created.ID {
			t.Fatalf("failed save must not publish an event")
		}
	}

	// The persisted snapshot still holds only the first bill.
	sim.SetFailSaves(false)
	fresh := NewBillManager(sim, nil)
	if err := fresh.Initialize(ctx); err != nil {
		t.Fatalf("re-initialize: %v", err)
	}
	if got := len(fresh.DisplayBills()); got != 1 {
		t.Fatalf("persisted snapshot should be unchanged by the failed save, got %d bills", got)
	}
}

func TestInitializeReplacesCollection(t *testing.T) {
	seed := []core.Bill{
		{ID: "a", Category: "Energy", Status: core.StatusPaid, Amount: core.NewAmount(decimal.NewFromInt(3), "EUR")},
	}
	m := NewBillManager(snapshot.NewSimulator(memory.NewSeeded(seed), 0), nil)
	if err := m.Initialize(context.Background()); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if _, ok := m.Bill("a"); !ok {
		t.Fatalf("initialize should rehydrate the persisted snapshot")
	}
}

func TestCloseWithNilComponents(t *testing.T) {
	m := NewBillManager(snapshot.NewSimulator(memory.New(), 0), nil)
	if err := m.Close(); err != nil {
		t.Fatalf("close should tolerate resource-free components: %v", err)
	}
}
