package storage

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/MahmoodAbuGneam/BECS-System/internal/core/domain"
)

// MemoryStore is the in-process inventory backend. A single mutex guards all
// 8 records; every check-and-decrement is one critical section, so stock can
// never be observed negative or torn.
type MemoryStore struct {
	mu      sync.Mutex
	records map[domain.BloodType]*domain.InventoryRecord
}

// NewMemoryStore creates a store holding all 8 blood types at zero stock.
// thresholds may be nil; missing entries default to zero.
func NewMemoryStore(thresholds map[domain.BloodType]int) *MemoryStore {
	records := make(map[domain.BloodType]*domain.InventoryRecord, len(domain.AllBloodTypes))
	for _, bt := range domain.AllBloodTypes {
		records[bt] = &domain.InventoryRecord{
			BloodType:         bt,
			LowStockThreshold: thresholds[bt],
		}
	}
	return &MemoryStore{records: records}
}

// SetStock seeds one blood type. Used at startup and in tests.
func (s *MemoryStore) SetStock(ctx context.Context, bt domain.BloodType, units int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.record(bt)
	if err != nil {
		return err
	}
	rec.UnitsAvailable = units
	rec.LastUpdated = time.Now().UTC()
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, bt domain.BloodType) (domain.InventoryRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.record(bt)
	if err != nil {
		return domain.InventoryRecord{}, err
	}
	return *rec, nil
}

func (s *MemoryStore) TryReserve(ctx context.Context, bt domain.BloodType, units int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.record(bt)
	if err != nil {
		return false, err
	}
	if rec.UnitsAvailable < units {
		return false, nil
	}
	rec.UnitsAvailable -= units
	rec.LastUpdated = time.Now().UTC()
	return true, nil
}

func (s *MemoryStore) DrainAll(ctx context.Context, bt domain.BloodType) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.record(bt)
	if err != nil {
		return 0, err
	}
	drained := rec.UnitsAvailable
	if drained > 0 {
		rec.UnitsAvailable = 0
		rec.LastUpdated = time.Now().UTC()
	}
	return drained, nil
}

func (s *MemoryStore) Credit(ctx context.Context, bt domain.BloodType, units int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.record(bt)
	if err != nil {
		return err
	}
	rec.UnitsAvailable += units
	rec.LastUpdated = time.Now().UTC()
	return nil
}

func (s *MemoryStore) Snapshot(ctx context.Context) ([]domain.InventoryRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.InventoryRecord, 0, len(domain.AllBloodTypes))
	for _, bt := range domain.AllBloodTypes {
		out = append(out, *s.records[bt])
	}
	return out, nil
}

// record must be called with the mutex held.
func (s *MemoryStore) record(bt domain.BloodType) (*domain.InventoryRecord, error) {
	rec, ok := s.records[bt]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownBloodType, bt)
	}
	return rec, nil
}
