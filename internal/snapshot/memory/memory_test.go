package memory

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"bollette/internal/core"
)

func sample(id string, amount int64) core.Bill {
	return core.Bill{
		ID:       id,
		Category: "Energy",
		Status:   core.StatusPending,
		Amount:   core.NewAmount(decimal.NewFromInt(amount), "EUR"),
	}
}

func TestFetchAllEmpty(t *testing.T) {
	s := New()
	bills, err := s.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("fetch should never fail: %v", err)
	}
	if len(bills) != 0 {
		t.Fatalf("fresh store should be empty, got %d", len(bills))
	}
}

func TestSaveFetchRoundTrip(t *testing.T) {
	s := New()
	in := []core.Bill{sample("a", 10), sample("b", 20)}
	if err := s.SaveAll(context.Background(), in); err != nil {
		t.Fatalf("save: %v", err)
	}

	out, err := s.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(out) != 2 || out[0].ID != "a" || out[1].ID != "b" {
		t.Fatalf("unexpected snapshot: %+v", out)
	}
}

func TestSaveReplacesSnapshot(t *testing.T) {
	s := NewSeeded([]core.Bill{sample("a", 10), sample("b", 20)})
	if err := s.SaveAll(context.Background(), []core.Bill{sample("c", 5)}); err != nil {
		t.Fatalf("save: %v", err)
	}
	out, _ := s.FetchAll(context.Background())
	if len(out) != 1 || out[0].ID != "c" {
		t.Fatalf("save should replace the whole snapshot, got %+v", out)
	}
}

func TestFetchReturnsCopy(t *testing.T) {
	s := NewSeeded([]core.Bill{sample("a", 10)})
	out, _ := s.FetchAll(context.Background())
	out[0].ID = "tampered"

	again, _ := s.FetchAll(context.Background())
	if again[0].ID != "a" {
		t.Fatalf("caller mutation leaked into the store: %+v", again)
	}
}
