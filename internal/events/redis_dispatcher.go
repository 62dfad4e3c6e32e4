package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisDispatcher publishes events on a Redis channel and relays every
// event received on it to local subscribers, so all instances observe
// events published by any of them.
type RedisDispatcher struct {
	client  redis.UniversalClient
	channel string
	local   Dispatcher
	logger  *zap.Logger

	readyOnce sync.Once
	ready     chan struct{}
}

// NewRedisDispatcher builds a dispatcher bound to channel.
func NewRedisDispatcher(client redis.UniversalClient, channel string, logger *zap.Logger) *RedisDispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisDispatcher{
		client:  client,
		channel: channel,
		local:   NewInMemoryDispatcher(logger),
		logger:  logger,
		ready:   make(chan struct{}),
	}
}

// Publish sends the event to Redis. Local handlers run when it comes back.
func (d *RedisDispatcher) Publish(ctx context.Context, event Event) error {
	raw, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	return d.client.Publish(ctx, d.channel, raw).Err()
}

// Subscribe registers a local handler for the given event type.
func (d *RedisDispatcher) Subscribe(eventType EventType, handler EventHandler) {
	d.local.Subscribe(eventType, handler)
}

// Ready is closed once Run holds an active subscription.
func (d *RedisDispatcher) Ready() <-chan struct{} {
	return d.ready
}

// Run relays channel messages to local handlers until ctx is cancelled.
func (d *RedisDispatcher) Run(ctx context.Context) error {
	sub := d.client.Subscribe(ctx, d.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", d.channel, err)
	}
	d.readyOnce.Do(func() { close(d.ready) })
	d.logger.Info("relaying events", zap.String("channel", d.channel))

	messages := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			var event Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				d.logger.Warn("dropping undecodable event", zap.Error(err))
				continue
			}
			_ = d.local.Publish(ctx, event)
		}
	}
}
