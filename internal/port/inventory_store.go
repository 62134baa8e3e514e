package port

import (
	"context"

	"github.com/MahmoodAbuGneam/BECS-System/internal/core/domain"
)

type InventoryStore interface {
	// Get retrieves the record for one blood type. Unknown types are an
	// error, never zero stock.
	Get(ctx context.Context, bt domain.BloodType) (domain.InventoryRecord, error)

	// TryReserve atomically checks and decrements stock, returns false if insufficient
	TryReserve(ctx context.Context, bt domain.BloodType, units int) (bool, error)

	// DrainAll atomically empties stock for one type and returns the amount drained
	DrainAll(ctx context.Context, bt domain.BloodType) (int, error)

	// Credit atomically increments stock
	Credit(ctx context.Context, bt domain.BloodType, units int) error

	// Snapshot returns all records in display order
	Snapshot(ctx context.Context) ([]domain.InventoryRecord, error)
}
