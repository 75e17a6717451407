package realtime

import (
	"context"
	"encoding/json"
	"log"

	"github.com/redis/go-redis/v9"
)

const orderMessageChannel = "kajbd:order-messages"

// Event is what gets pushed to websocket clients (and across instances through
// Redis when configured).
type Event struct {
	Kind       string          `json:"kind"`
	OrderID    uint            `json:"orderId"`
	Recipients []uint          `json:"-"`
	Payload    json.RawMessage `json:"payload"`
}

// wireEvent carries recipients over the Redis channel; they are stripped again
// before the event reaches a websocket client.
type wireEvent struct {
	Kind       string          `json:"kind"`
	OrderID    uint            `json:"orderId"`
	Recipients []uint          `json:"recipients"`
	Payload    json.RawMessage `json:"payload"`
}

func NewRedis(addr, password string) *redis.Client {
	if addr == "" {
		return nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})
	log.Printf("realtime: redis client created (addr: %s)", addr)
	return rdb
}

// Broker delivers order events to websocket clients. With Redis configured the
// event travels through pub/sub so every instance delivers to its own
// connections; without it delivery is local only.
type Broker struct {
	Hub *Hub
	RDB *redis.Client
}

func NewBroker(hub *Hub, rdb *redis.Client) *Broker {
	return &Broker{Hub: hub, RDB: rdb}
}

func (b *Broker) Publish(ctx context.Context, ev Event) {
	if b == nil || b.Hub == nil {
		return
	}
	if b.RDB == nil {
		b.deliver(ev)
		return
	}

	raw, err := json.Marshal(wireEvent{
		Kind:       ev.Kind,
		OrderID:    ev.OrderID,
		Recipients: ev.Recipients,
		Payload:    ev.Payload,
	})
	if err != nil {
		log.Printf("realtime: marshal event: %v", err)
		return
	}
	if err := b.RDB.Publish(ctx, orderMessageChannel, raw).Err(); err != nil {
		log.Printf("realtime: redis publish failed, delivering locally: %v", err)
		b.deliver(ev)
	}
}

// Run blocks consuming the Redis subscription until ctx is done. No-op without
// Redis.
func (b *Broker) Run(ctx context.Context) {
	if b == nil || b.RDB == nil {
		return
	}

	sub := b.RDB.Subscribe(ctx, orderMessageChannel)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var we wireEvent
			if err := json.Unmarshal([]byte(msg.Payload), &we); err != nil {
				log.Printf("realtime: bad event on %s: %v", orderMessageChannel, err)
				continue
			}
			b.deliver(Event{
				Kind:       we.Kind,
				OrderID:    we.OrderID,
				Recipients: we.Recipients,
				Payload:    we.Payload,
			})
		}
	}
}

func (b *Broker) deliver(ev Event) {
	for _, uid := range ev.Recipients {
		b.Hub.SendToUser(uid, ev)
	}
}
