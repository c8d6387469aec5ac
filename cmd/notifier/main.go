package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prasetyod/go-inventory-orders/internal/config"
	"github.com/prasetyod/go-inventory-orders/internal/inventory"
	kafkax "github.com/prasetyod/go-inventory-orders/internal/kafka"
	"github.com/prasetyod/go-inventory-orders/internal/notifier"
	"github.com/prasetyod/go-inventory-orders/internal/redisx"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Redis (event dedup)
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	svc := &notifier.Service{
		Idem:        &notifier.RedisIdempotency{RDB: rdb},
		Sender:      notifier.LogSender{},
		ServiceName: cfg.ServiceName + "-notifier",
	}

	group := getenv("NOTIFIER_GROUP", "reorder-notifier")
	workers := mustAtoi(os.Getenv("NOTIFIER_WORKERS"), "4")
	cons := kafkax.NewConsumer(cfg.KafkaBrokers, group, inventory.TopicReorderFlagged, workers)

	go func() {
		log.Printf("notifier consumer started: group=%s topic=%s workers=%d",
			group, inventory.TopicReorderFlagged, workers)
		if err := cons.Start(ctx, svc.HandleReorderFlagged); err != nil {
			log.Printf("consumer exit: %v", err)
			cancel()
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down consumer...")
	cancel()
	time.Sleep(500 * time.Millisecond)
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func mustAtoi(s, def string) int {
	if s == "" {
		s = def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 1
	}
	return i
}
