package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prasetyod/go-inventory-orders/internal/config"
	"github.com/prasetyod/go-inventory-orders/internal/httpx"
	"github.com/prasetyod/go-inventory-orders/internal/inventory"
	kafkax "github.com/prasetyod/go-inventory-orders/internal/kafka"
	"github.com/prasetyod/go-inventory-orders/internal/postgres"
	"github.com/prasetyod/go-inventory-orders/internal/redisx"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer db.Close()
	if err := postgres.EnsureSchema(ctx, db); err != nil {
		log.Fatalf("db schema: %v", err)
	}

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()
	cache := redisx.NewCache(rdb)

	// Kafka producers
	pOrders := kafkax.NewProducer(cfg.KafkaBrokers, inventory.TopicOrderPlaced, 1024)
	pOrders.Start(ctx)
	pReorder := kafkax.NewProducer(cfg.KafkaBrokers, inventory.TopicReorderFlagged, 1024)
	pReorder.Start(ctx)

	// Repos, service & handlers
	repo := &inventory.Repo{DB: db}
	svc := &inventory.Service{Store: &inventory.PgStore{DB: db}}

	router := httpx.NewRouter()
	(&httpx.CustomersHandler{Store: repo}).Register(router)
	(&httpx.ItemsHandler{Store: repo, Cache: cache}).Register(router)
	(&httpx.OrdersHandler{
		Orders:        svc,
		Store:         repo,
		Cache:         cache,
		OrderEvents:   pOrders,
		ReorderEvents: pReorder,
		Service:       cfg.ServiceName,
	}).Register(router)

	// HTTP server
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		log.Printf("HTTP listening at %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	// wait signal
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	pOrders.Close()
	pReorder.Close()
	cancel() // stop producer loops
	pOrders.WaitClosed()
	pReorder.WaitClosed()
}
