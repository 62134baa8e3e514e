package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MahmoodAbuGneam/BECS-System/internal/core/domain"
	"github.com/MahmoodAbuGneam/BECS-System/internal/port"
)

var ErrInvalidInput = errors.New("invalid input")

// AllocationEngine is the only writer to the inventory store and the ledger.
// Insufficient stock and an empty emergency supply are reported as failure
// results, not errors; errors are reserved for invalid input and backend
// faults. Every accepted transaction is also emitted on a buffered channel
// for durable archiving.
type AllocationEngine struct {
	store   port.InventoryStore
	ledger  port.TransactionLedger
	archive chan domain.Transaction

	// mu serializes each mutate+append pair so ledger order always agrees
	// with the order mutations hit the store.
	mu sync.Mutex
}

func NewAllocationEngine(store port.InventoryStore, ledger port.TransactionLedger, queueSize int) *AllocationEngine {
	return &AllocationEngine{
		store:   store,
		ledger:  ledger,
		archive: make(chan domain.Transaction, queueSize),
	}
}

// RecordDonation credits one unit of the donor's blood type. There is no
// failure path once validation passes.
func (e *AllocationEngine) RecordDonation(ctx context.Context, donor domain.Donor) (domain.Result, error) {
	if donor.DonorID == "" || donor.FullName == "" {
		return domain.Result{}, fmt.Errorf("%w: donor id and full name are required", ErrInvalidInput)
	}
	if !donor.BloodType.Valid() {
		return domain.Result{}, fmt.Errorf("%w: %q is not a recognized blood type", ErrInvalidInput, donor.BloodType)
	}

	e.mu.Lock()
	if err := e.store.Credit(ctx, donor.BloodType, 1); err != nil {
		e.mu.Unlock()
		return domain.Result{}, fmt.Errorf("credit stock: %w", err)
	}
	tx := newTransaction(domain.TransactionDonation, donor.BloodType, 1, "Donation from "+donor.FullName)
	if err := e.ledger.Append(ctx, tx); err != nil {
		e.mu.Unlock()
		return domain.Result{}, fmt.Errorf("append ledger: %w", err)
	}
	e.mu.Unlock()

	e.archive <- tx
	return domain.Result{Success: true, Message: "Donation recorded successfully!"}, nil
}

// RequestRoutineDistribution reserves the requested units or, when stock is
// short, reports the shortfall with ranked alternatives. The shortage path is
// read-only; the caller retries with an alternative type explicitly, the
// engine never chains substitutions.
func (e *AllocationEngine) RequestRoutineDistribution(ctx context.Context, requested domain.BloodType, units int) (domain.Result, error) {
	if !requested.Valid() {
		return domain.Result{}, fmt.Errorf("%w: %q is not a recognized blood type", ErrInvalidInput, requested)
	}
	if units < 1 {
		return domain.Result{}, fmt.Errorf("%w: units must be positive", ErrInvalidInput)
	}

	e.mu.Lock()
	ok, err := e.store.TryReserve(ctx, requested, units)
	if err != nil {
		e.mu.Unlock()
		return domain.Result{}, fmt.Errorf("reserve stock: %w", err)
	}
	if ok {
		tx := newTransaction(domain.TransactionRoutine, requested, units, "Routine distribution")
		if err := e.ledger.Append(ctx, tx); err != nil {
			e.mu.Unlock()
			return domain.Result{}, fmt.Errorf("append ledger: %w", err)
		}
		e.mu.Unlock()

		e.archive <- tx
		return domain.Result{
			Success:       true,
			Message:       fmt.Sprintf("Successfully distributed %d units of %s", units, requested),
			UnitsProvided: units,
		}, nil
	}
	e.mu.Unlock()

	rec, err := e.store.Get(ctx, requested)
	if err != nil {
		return domain.Result{}, fmt.Errorf("read stock: %w", err)
	}
	alts, err := e.alternativesWithStock(ctx, requested)
	if err != nil {
		return domain.Result{}, err
	}

	return domain.Result{
		Success:      false,
		Message:      fmt.Sprintf("Insufficient stock. Only %d units available.", rec.UnitsAvailable),
		Alternatives: alts,
	}, nil
}

// RequestEmergencyDistribution drains all O- stock unconditionally. This is
// the break-glass path: it bypasses compatibility checks and always targets
// O- regardless of the actual need.
func (e *AllocationEngine) RequestEmergencyDistribution(ctx context.Context) (domain.Result, error) {
	e.mu.Lock()
	drained, err := e.store.DrainAll(ctx, domain.ONegative)
	if err != nil {
		e.mu.Unlock()
		return domain.Result{}, fmt.Errorf("drain stock: %w", err)
	}
	if drained == 0 {
		e.mu.Unlock()
		return domain.Result{
			Success: false,
			Message: "No O- blood available for emergency distribution!",
		}, nil
	}

	tx := newTransaction(domain.TransactionEmergency, domain.ONegative, drained, "Emergency distribution - all available units")
	if err := e.ledger.Append(ctx, tx); err != nil {
		e.mu.Unlock()
		return domain.Result{}, fmt.Errorf("append ledger: %w", err)
	}
	e.mu.Unlock()

	e.archive <- tx
	return domain.Result{
		Success:       true,
		Message:       fmt.Sprintf("Emergency distribution: %d units of O- blood dispensed", drained),
		UnitsProvided: drained,
	}, nil
}

func (e *AllocationEngine) Snapshot(ctx context.Context) ([]domain.InventoryRecord, error) {
	return e.store.Snapshot(ctx)
}

func (e *AllocationEngine) RecentTransactions(ctx context.Context, limit int) ([]domain.Transaction, error) {
	return e.ledger.Recent(ctx, limit)
}

// Transactions exposes accepted transactions for archive workers.
func (e *AllocationEngine) Transactions() <-chan domain.Transaction {
	return e.archive
}

func (e *AllocationEngine) Close() {
	close(e.archive)
}

// alternativesWithStock filters the static compatibility alternatives down to
// types with live stock. The requested type is skipped: its residual count is
// already in the shortfall message.
func (e *AllocationEngine) alternativesWithStock(ctx context.Context, requested domain.BloodType) ([]domain.AlternativeStock, error) {
	var alts []domain.AlternativeStock
	for _, candidate := range domain.AlternativesFor(requested) {
		if candidate == requested {
			continue
		}
		rec, err := e.store.Get(ctx, candidate)
		if err != nil {
			return nil, fmt.Errorf("read stock for %s: %w", candidate, err)
		}
		if rec.UnitsAvailable > 0 {
			alts = append(alts, domain.AlternativeStock{BloodType: candidate, Available: rec.UnitsAvailable})
		}
	}
	return alts, nil
}

func newTransaction(kind domain.TransactionType, bt domain.BloodType, units int, notes string) domain.Transaction {
	return domain.Transaction{
		ID:        uuid.New().String(),
		Type:      kind,
		BloodType: bt,
		Units:     units,
		Timestamp: time.Now().UTC(),
		Notes:     notes,
	}
}
