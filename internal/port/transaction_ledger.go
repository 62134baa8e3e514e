package port

import (
	"context"

	"github.com/MahmoodAbuGneam/BECS-System/internal/core/domain"
)

type TransactionLedger interface {
	// Append records an accepted mutation. Entries are never modified or
	// removed, and insertion order is preserved.
	Append(ctx context.Context, tx domain.Transaction) error

	// Recent returns up to limit entries, newest first. limit <= 0 returns
	// an empty sequence.
	Recent(ctx context.Context, limit int) ([]domain.Transaction, error)
}
