package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/prasetyod/go-inventory-orders/internal/inventory"
	kafkax "github.com/prasetyod/go-inventory-orders/internal/kafka"
	"github.com/prasetyod/go-inventory-orders/internal/redisx"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
)

// Idempotency claims an event id exactly once across the consumer group.
type Idempotency interface {
	// SetOnce returns false when the key was already claimed.
	SetOnce(ctx context.Context, key string) (bool, error)
}

type RedisIdempotency struct{ RDB *redis.Client }

func (r *RedisIdempotency) SetOnce(ctx context.Context, key string) (bool, error) {
	return r.RDB.SetNX(ctx, key, 1, redisx.TTLDedup).Result()
}

// Notice is what gets sent to an item's manufacturer when a reorder is due.
type Notice struct {
	ItemID            string
	ItemName          string
	ManufacturerName  string
	ManufacturerEmail string
	StockAfter        int
	ReorderQuantity   int
}

type Sender interface {
	Send(ctx context.Context, n Notice) error
}

// LogSender stands in for an SMTP hop: the notice is written to the log.
type LogSender struct{}

func (LogSender) Send(_ context.Context, n Notice) error {
	log.Printf("reorder notice: item=%s %q stock=%d threshold=%d -> %s <%s>",
		n.ItemID, n.ItemName, n.StockAfter, n.ReorderQuantity,
		n.ManufacturerName, n.ManufacturerEmail)
	return nil
}

type Service struct {
	Idem        Idempotency
	Sender      Sender
	ServiceName string
}

// HandleReorderFlagged is the consumer handler for the reorder topic.
func (s *Service) HandleReorderFlagged(ctx context.Context, m kafkago.Message) error {
	var env inventory.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}
	if env.EventType != inventory.EventReorderFlagged {
		return nil // ignore
	}

	dkey := fmt.Sprintf(redisx.KeyDedup, "notifier", env.EventID)
	fresh, err := s.Idem.SetOnce(ctx, dkey)
	if err != nil {
		return err
	}
	if !fresh {
		return nil
	}

	p, err := kafkax.UnwrapPayload[inventory.ReorderFlaggedPayload](env.Payload)
	if err != nil {
		return err
	}

	return s.Sender.Send(ctx, Notice{
		ItemID:            p.ItemID,
		ItemName:          p.ItemName,
		ManufacturerName:  p.ManufacturerName,
		ManufacturerEmail: p.ManufacturerEmail,
		StockAfter:        p.StockAfter,
		ReorderQuantity:   p.ReorderQuantity,
	})
}
