package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/MahmoodAbuGneam/BECS-System/internal/adapter/handler"
	"github.com/MahmoodAbuGneam/BECS-System/internal/adapter/storage"
	"github.com/MahmoodAbuGneam/BECS-System/internal/core/domain"
	"github.com/MahmoodAbuGneam/BECS-System/internal/core/service"
	"github.com/MahmoodAbuGneam/BECS-System/internal/metrics"
	"github.com/MahmoodAbuGneam/BECS-System/internal/port"
)

const defaultLowStockThreshold = 5

// initialStock mirrors the demo seed data: the two most common types start
// with a deeper buffer.
var initialStock = map[domain.BloodType]int{
	domain.APositive: 10,
	domain.OPositive: 10,
}

// inventoryBackend is an inventory store that can be seeded at startup.
type inventoryBackend interface {
	port.InventoryStore
	SetStock(ctx context.Context, bt domain.BloodType, units int) error
}

func main() {
	var (
		httpAddr  = flag.String("http-addr", ":8080", "HTTP listen address")
		backend   = flag.String("backend", "memory", "inventory backend: memory or redis")
		redisAddr = flag.String("redis-addr", "localhost:6379", "Redis address (backend=redis)")
		mysqlDSN  = flag.String("mysql-dsn", "", "MySQL DSN for the transaction archive (empty disables archiving)")
		workers   = flag.Int("workers", 4, "archive worker count")
		queueSize = flag.Int("queue-size", 1024, "transaction queue size")
	)
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	thresholds := make(map[domain.BloodType]int, len(domain.AllBloodTypes))
	for _, bt := range domain.AllBloodTypes {
		thresholds[bt] = defaultLowStockThreshold
	}

	var store inventoryBackend
	var rdb *redis.Client

	switch *backend {
	case "memory":
		store = storage.NewMemoryStore(thresholds)
	case "redis":
		rdb = redis.NewClient(&redis.Options{
			Addr:     *redisAddr,
			PoolSize: 100,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatalf("failed to connect redis: %v", err)
		}
		log.Println("connected to redis")
		store = storage.NewRedisStore(rdb, thresholds)
	default:
		log.Fatalf("unknown backend %q", *backend)
	}

	for _, bt := range domain.AllBloodTypes {
		units, ok := initialStock[bt]
		if !ok {
			units = 5
		}
		if err := store.SetStock(ctx, bt, units); err != nil {
			log.Fatalf("failed to seed stock for %s: %v", bt, err)
		}
	}
	log.Printf("seeded inventory for %d blood types", len(domain.AllBloodTypes))

	ledger := storage.NewMemoryLedger()
	engine := service.NewAllocationEngine(store, ledger, *queueSize)

	// Archive workers drain the engine's transaction queue. Without a MySQL
	// DSN the queue still has to be consumed.
	var db *sql.DB
	var wg sync.WaitGroup
	if *mysqlDSN != "" {
		var err error
		db, err = sql.Open("mysql", *mysqlDSN)
		if err != nil {
			log.Fatalf("failed to connect mysql: %v", err)
		}
		db.SetMaxOpenConns(50)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(5 * time.Minute)

		if err := db.PingContext(ctx); err != nil {
			log.Fatalf("failed to ping mysql: %v", err)
		}
		log.Println("connected to mysql")

		archive := storage.NewMySQLLedger(db)
		for i := 0; i < *workers; i++ {
			wg.Add(1)
			go func(id int) {
				defer wg.Done()
				archiveLoop(id, engine.Transactions(), archive)
			}(i)
		}
		log.Printf("started %d archive workers", *workers)
	} else {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range engine.Transactions() {
			}
		}()
		log.Println("transaction archive disabled")
	}

	httpHandler := handler.NewHTTPHandler(engine)
	mux := http.NewServeMux()
	mux.HandleFunc("/health", httpHandler.HealthCheck)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/api/inventory", httpHandler.GetInventory)
	mux.HandleFunc("/api/donations", httpHandler.RecordDonation)
	mux.HandleFunc("/api/distribute/routine", httpHandler.RoutineDistribution)
	mux.HandleFunc("/api/distribute/emergency", httpHandler.EmergencyDistribution)
	mux.HandleFunc("/api/transactions", httpHandler.RecentTransactions)

	httpServer := &http.Server{
		Addr:    *httpAddr,
		Handler: mux,
	}

	go func() {
		log.Printf("HTTP server listening on %s", *httpAddr)
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			log.Printf("HTTP server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	httpServer.Shutdown(shutdownCtx)
	log.Println("HTTP server stopped")

	engine.Close()
	wg.Wait()
	log.Println("workers stopped")

	if rdb != nil {
		rdb.Close()
	}
	if db != nil {
		db.Close()
	}
	log.Println("connections closed")
}

func archiveLoop(id int, queue <-chan domain.Transaction, archive port.TransactionLedger) {
	for tx := range queue {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)

		if err := archive.Append(ctx, tx); err != nil {
			metrics.ArchiveFailures.Inc()
			log.Printf("worker %d: failed to archive transaction %s: %v", id, tx.ID, err)
		}

		cancel()
	}
}
