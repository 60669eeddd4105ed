package helper

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"hostel_manager/constants"
	"hostel_manager/model"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// OccupancyHub fans occupancy events out to the websocket clients of this process.
type OccupancyHub struct {
	mu      sync.Mutex
	clients map[chan []byte]struct{}
}

func NewOccupancyHub() *OccupancyHub {
	return &OccupancyHub{clients: make(map[chan []byte]struct{})}
}

// Subscribe registers a client. The returned func unregisters it and closes the channel.
func (h *OccupancyHub) Subscribe() (<-chan []byte, func()) {
	ch := make(chan []byte, 16)
	h.mu.Lock()
	h.clients[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.clients, ch)
			h.mu.Unlock()
			close(ch)
		})
	}
}

// Broadcast never blocks; a client whose buffer is full misses the event.
func (h *OccupancyHub) Broadcast(payload []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.clients {
		select {
		case ch <- payload:
		default:
		}
	}
}

func (h *OccupancyHub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// PublishOccupancy lets the hub act as the publisher when no Redis is configured.
func (h *OccupancyHub) PublishOccupancy(_ context.Context, event model.OccupancyEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	h.Broadcast(payload)
	return nil
}

// RedisPublisher publishes occupancy events on a Redis channel so every API
// instance can relay them to its own websocket clients.
type RedisPublisher struct {
	client  *redis.Client
	channel string
	log     *zap.Logger
}

func NewRedisPublisher(client *redis.Client, log *zap.Logger) *RedisPublisher {
	return &RedisPublisher{client: client, channel: constants.OCCUPANCY_CHANNEL, log: log}
}

func (p *RedisPublisher) PublishOccupancy(ctx context.Context, event model.OccupancyEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", p.channel, err)
	}
	return nil
}

// Relay forwards messages from the Redis channel into hub until ctx is done.
func (p *RedisPublisher) Relay(ctx context.Context, hub *OccupancyHub) error {
	pubsub := p.client.Subscribe(ctx, p.channel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", p.channel, err)
	}
	p.log.Info("occupancy relay subscribed", zap.String("channel", p.channel))

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			hub.Broadcast([]byte(msg.Payload))
		}
	}
}
