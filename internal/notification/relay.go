package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"roofing_crm_backend/internal/notification/sse"
	"roofing_crm_backend/platform/logger"

	"github.com/redis/go-redis/v9"
)

// DefaultRelayChannel is the Redis pub/sub channel alert events travel on
// between the scheduler and the API.
const DefaultRelayChannel = "roofing-crm:sse"

// RedisRelay forwards SSE events across processes. The scheduler publishes,
// the API subscribes and broadcasts to its connected dashboards.
type RedisRelay struct {
	client  *redis.Client
	channel string
	log     *logger.Logger
}

func NewRedisRelay(client *redis.Client, channel string, log *logger.Logger) *RedisRelay {
	if channel == "" {
		channel = DefaultRelayChannel
	}
	return &RedisRelay{client: client, channel: channel, log: log}
}

// Publish sends one event to every subscribed process.
func (r *RedisRelay) Publish(ctx context.Context, event sse.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal relay event: %w", err)
	}
	if err := r.client.Publish(ctx, r.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish relay event: %w", err)
	}
	return nil
}

// Run subscribes to the relay channel and broadcasts every message to hub
// until ctx is cancelled.
func (r *RedisRelay) Run(ctx context.Context, hub *sse.Service) error {
	sub := r.client.Subscribe(ctx, r.channel)
	defer func() { _ = sub.Close() }()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe relay channel: %w", err)
	}
	r.log.Info("sse relay subscribed", slog.String("channel", r.channel))

	messages := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			var event sse.Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				r.log.Warn("dropping malformed relay message", slog.String("error", err.Error()))
				continue
			}
			hub.Broadcast(event)
		}
	}
}
