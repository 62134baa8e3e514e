package main

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MahmoodAbuGneam/BECS-System/internal/adapter/storage"
	"github.com/MahmoodAbuGneam/BECS-System/internal/core/domain"
	"github.com/MahmoodAbuGneam/BECS-System/internal/core/service"
)

const (
	redisAddr     = "localhost:6379"
	initialStock  = 20
	totalRequests = 50
	queueSize     = 100
)

func main() {
	ctx := context.Background()

	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("failed to connect redis: %v", err)
	}
	defer rdb.Close()

	// Clear previous test data
	rdb.Del(ctx, "stock:"+string(domain.OPositive))

	store := storage.NewRedisStore(rdb, nil)
	if err := store.SetStock(ctx, domain.OPositive, initialStock); err != nil {
		log.Fatalf("failed to set stock: %v", err)
	}

	engine := service.NewAllocationEngine(store, storage.NewMemoryLedger(), queueSize)
	defer engine.Close()

	// Drain the transaction queue in background
	go func() {
		for range engine.Transactions() {
		}
	}()

	var successCount atomic.Int32
	var failCount atomic.Int32

	var wg sync.WaitGroup
	start := time.Now()

	for i := 0; i < totalRequests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			result, err := engine.RequestRoutineDistribution(ctx, domain.OPositive, 1)
			if err == nil && result.Success {
				successCount.Add(1)
			} else {
				failCount.Add(1)
			}
		}()
	}

	wg.Wait()
	elapsed := time.Since(start)

	success := successCount.Load()
	fail := failCount.Load()

	fmt.Println("========== STRESS TEST RESULTS ==========")
	fmt.Printf("Initial Stock:    %d\n", initialStock)
	fmt.Printf("Total Requests:   %d\n", totalRequests)
	fmt.Printf("Successful:       %d\n", success)
	fmt.Printf("Failed:           %d\n", fail)
	fmt.Printf("Duration:         %v\n", elapsed)
	fmt.Println("==========================================")

	if success == int32(initialStock) && fail == int32(totalRequests-initialStock) {
		fmt.Printf("PASS: Exactly %d distributions succeeded, %d failed\n", initialStock, totalRequests-initialStock)
	} else {
		fmt.Printf("FAIL: Expected %d success/%d fail, got %d/%d\n",
			initialStock, totalRequests-initialStock, success, fail)
	}

	finalStock, _ := rdb.Get(ctx, "stock:"+string(domain.OPositive)).Int()
	fmt.Printf("Final Redis Stock: %d\n", finalStock)

	if finalStock == 0 {
		fmt.Println("PASS: Stock depleted to 0")
	} else {
		fmt.Printf("FAIL: Expected stock 0, got %d\n", finalStock)
	}
}
