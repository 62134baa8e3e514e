package storage

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/MahmoodAbuGneam/BECS-System/internal/core/domain"
)

func TestMemoryStore_TryReserve_Success(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(nil)
	store.SetStock(ctx, domain.APositive, 10)

	ok, err := store.TryReserve(ctx, domain.APositive, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Error("expected success")
	}

	rec, _ := store.Get(ctx, domain.APositive)
	if rec.UnitsAvailable != 7 {
		t.Errorf("expected 7 units, got %d", rec.UnitsAvailable)
	}
}

func TestMemoryStore_TryReserve_Insufficient(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(nil)
	store.SetStock(ctx, domain.ABNegative, 2)

	ok, err := store.TryReserve(ctx, domain.ABNegative, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected failure due to insufficient stock")
	}

	// Failed reservation leaves stock unchanged
	rec, _ := store.Get(ctx, domain.ABNegative)
	if rec.UnitsAvailable != 2 {
		t.Errorf("expected 2 units, got %d", rec.UnitsAvailable)
	}
}

func TestMemoryStore_UnknownBloodType(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(nil)

	if _, err := store.Get(ctx, "C+"); !errors.Is(err, domain.ErrUnknownBloodType) {
		t.Errorf("Get: expected ErrUnknownBloodType, got %v", err)
	}
	if _, err := store.TryReserve(ctx, "C+", 1); !errors.Is(err, domain.ErrUnknownBloodType) {
		t.Errorf("TryReserve: expected ErrUnknownBloodType, got %v", err)
	}
	if err := store.Credit(ctx, "C+", 1); !errors.Is(err, domain.ErrUnknownBloodType) {
		t.Errorf("Credit: expected ErrUnknownBloodType, got %v", err)
	}
	if _, err := store.DrainAll(ctx, "C+"); !errors.Is(err, domain.ErrUnknownBloodType) {
		t.Errorf("DrainAll: expected ErrUnknownBloodType, got %v", err)
	}
}

func TestMemoryStore_DrainAll(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(nil)
	store.SetStock(ctx, domain.ONegative, 7)

	drained, err := store.DrainAll(ctx, domain.ONegative)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if drained != 7 {
		t.Errorf("expected 7 drained, got %d", drained)
	}

	// Second drain finds nothing
	drained, err = store.DrainAll(ctx, domain.ONegative)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if drained != 0 {
		t.Errorf("expected 0 drained, got %d", drained)
	}
}

func TestMemoryStore_Credit(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(nil)
	store.SetStock(ctx, domain.BPositive, 5)

	if err := store.Credit(ctx, domain.BPositive, 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rec, _ := store.Get(ctx, domain.BPositive)
	if rec.UnitsAvailable != 8 {
		t.Errorf("expected 8 units, got %d", rec.UnitsAvailable)
	}
}

func TestMemoryStore_Snapshot_IdempotentRead(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(map[domain.BloodType]int{domain.APositive: 5})
	store.SetStock(ctx, domain.APositive, 10)
	store.SetStock(ctx, domain.ONegative, 4)

	first, err := store.Snapshot(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := store.Snapshot(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(first) != len(domain.AllBloodTypes) {
		t.Fatalf("expected %d records, got %d", len(domain.AllBloodTypes), len(first))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("snapshot not idempotent at %s: %+v vs %+v", first[i].BloodType, first[i], second[i])
		}
		if first[i].BloodType != domain.AllBloodTypes[i] {
			t.Errorf("snapshot out of order at index %d: %s", i, first[i].BloodType)
		}
	}

	if first[0].LowStockThreshold != 5 {
		t.Errorf("expected threshold 5 for A+, got %d", first[0].LowStockThreshold)
	}
}

func TestMemoryStore_TryReserve_Concurrent(t *testing.T) {
	ctx := context.Background()
	initialStock := 20
	totalRequests := 50

	store := NewMemoryStore(nil)
	store.SetStock(ctx, domain.OPositive, initialStock)

	var successCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < totalRequests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := store.TryReserve(ctx, domain.OPositive, 1)
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			if ok {
				successCount.Add(1)
			}

			// Stock is never observable as negative
			rec, err := store.Get(ctx, domain.OPositive)
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			if rec.UnitsAvailable < 0 {
				t.Errorf("observed negative stock: %d", rec.UnitsAvailable)
			}
		}()
	}

	wg.Wait()

	if successCount.Load() != int32(initialStock) {
		t.Errorf("expected %d successes, got %d", initialStock, successCount.Load())
	}

	rec, _ := store.Get(ctx, domain.OPositive)
	if rec.UnitsAvailable != 0 {
		t.Errorf("expected 0 units, got %d", rec.UnitsAvailable)
	}
}
