package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MahmoodAbuGneam/BECS-System/internal/core/domain"
)

const (
	stockKeyPrefix   = "stock:"
	updatedKeyPrefix = "updated:"
)

var reserveStockScript = redis.NewScript(`
local key = KEYS[1]
local units = tonumber(ARGV[1])

local current = redis.call('GET', key)
if not current then
	return 0
end

current = tonumber(current)
if current >= units then
	redis.call('DECRBY', key, units)
	return 1
end

return 0
`)

var drainStockScript = redis.NewScript(`
local key = KEYS[1]

local current = redis.call('GET', key)
if not current then
	return 0
end

current = tonumber(current)
if current > 0 then
	redis.call('SET', key, 0)
end

return current
`)

// RedisStore is the shared-backend inventory store. Check-and-decrement and
// drain run as Lua scripts so concurrent callers from multiple processes
// cannot oversell. Low-stock thresholds are static configuration, not Redis
// state.
type RedisStore struct {
	client     *redis.Client
	thresholds map[domain.BloodType]int
}

func NewRedisStore(client *redis.Client, thresholds map[domain.BloodType]int) *RedisStore {
	return &RedisStore{client: client, thresholds: thresholds}
}

// SetStock seeds one blood type. Used at startup and in tests.
func (r *RedisStore) SetStock(ctx context.Context, bt domain.BloodType, units int) error {
	if !bt.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrUnknownBloodType, bt)
	}
	if err := r.client.Set(ctx, stockKeyPrefix+string(bt), units, 0).Err(); err != nil {
		return err
	}
	r.touch(ctx, bt)
	return nil
}

func (r *RedisStore) Get(ctx context.Context, bt domain.BloodType) (domain.InventoryRecord, error) {
	if !bt.Valid() {
		return domain.InventoryRecord{}, fmt.Errorf("%w: %q", domain.ErrUnknownBloodType, bt)
	}

	units, err := r.client.Get(ctx, stockKeyPrefix+string(bt)).Int()
	if errors.Is(err, redis.Nil) {
		units = 0
	} else if err != nil {
		return domain.InventoryRecord{}, fmt.Errorf("get stock: %w", err)
	}

	rec := domain.InventoryRecord{
		BloodType:         bt,
		UnitsAvailable:    units,
		LowStockThreshold: r.thresholds[bt],
	}
	if raw, err := r.client.Get(ctx, updatedKeyPrefix+string(bt)).Result(); err == nil {
		if ts, perr := time.Parse(time.RFC3339Nano, raw); perr == nil {
			rec.LastUpdated = ts
		}
	}
	return rec, nil
}

func (r *RedisStore) TryReserve(ctx context.Context, bt domain.BloodType, units int) (bool, error) {
	if !bt.Valid() {
		return false, fmt.Errorf("%w: %q", domain.ErrUnknownBloodType, bt)
	}

	result, err := reserveStockScript.Run(ctx, r.client, []string{stockKeyPrefix + string(bt)}, units).Int()
	if err != nil {
		return false, err
	}
	if result != 1 {
		return false, nil
	}
	r.touch(ctx, bt)
	return true, nil
}

func (r *RedisStore) DrainAll(ctx context.Context, bt domain.BloodType) (int, error) {
	if !bt.Valid() {
		return 0, fmt.Errorf("%w: %q", domain.ErrUnknownBloodType, bt)
	}

	drained, err := drainStockScript.Run(ctx, r.client, []string{stockKeyPrefix + string(bt)}).Int()
	if err != nil {
		return 0, err
	}
	if drained > 0 {
		r.touch(ctx, bt)
	}
	return drained, nil
}

func (r *RedisStore) Credit(ctx context.Context, bt domain.BloodType, units int) error {
	if !bt.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrUnknownBloodType, bt)
	}

	if err := r.client.IncrBy(ctx, stockKeyPrefix+string(bt), int64(units)).Err(); err != nil {
		return err
	}
	r.touch(ctx, bt)
	return nil
}

func (r *RedisStore) Snapshot(ctx context.Context) ([]domain.InventoryRecord, error) {
	out := make([]domain.InventoryRecord, 0, len(domain.AllBloodTypes))
	for _, bt := range domain.AllBloodTypes {
		rec, err := r.Get(ctx, bt)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// touch records the mutation time. The timestamp is display-only, so a lost
// write here is not an error.
func (r *RedisStore) touch(ctx context.Context, bt domain.BloodType) {
	r.client.Set(ctx, updatedKeyPrefix+string(bt), time.Now().UTC().Format(time.RFC3339Nano), 0)
}
