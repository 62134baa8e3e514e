package storage

import (
	"context"
	"sync"

	"github.com/MahmoodAbuGneam/BECS-System/internal/core/domain"
)

// MemoryLedger is the in-process ledger of record. Append is the only write;
// entries are kept in insertion order.
type MemoryLedger struct {
	mu      sync.Mutex
	entries []domain.Transaction
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{}
}

func (l *MemoryLedger) Append(ctx context.Context, tx domain.Transaction) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, tx)
	return nil
}

func (l *MemoryLedger) Recent(ctx context.Context, limit int) ([]domain.Transaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if limit <= 0 {
		return nil, nil
	}
	if limit > len(l.entries) {
		limit = len(l.entries)
	}

	out := make([]domain.Transaction, 0, limit)
	for i := len(l.entries) - 1; i >= len(l.entries)-limit; i-- {
		out = append(out, l.entries[i])
	}
	return out, nil
}
