package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	channelPrefix  = "orders:"
	channelSuffix  = ":messages"
	channelPattern = channelPrefix + "*" + channelSuffix
)

func NewRedis(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// Channel is the Redis pub/sub channel carrying events for one order.
func Channel(orderID uuid.UUID) string {
	return channelPrefix + orderID.String() + channelSuffix
}

func ParseChannel(ch string) (uuid.UUID, error) {
	if !strings.HasPrefix(ch, channelPrefix) || !strings.HasSuffix(ch, channelSuffix) {
		return uuid.Nil, fmt.Errorf("unexpected channel %q", ch)
	}
	return uuid.Parse(strings.TrimSuffix(strings.TrimPrefix(ch, channelPrefix), channelSuffix))
}

// RedisPublisher publishes order events to Redis so every instance's Relay
// can deliver them to its own subscribers.
type RedisPublisher struct {
	rdb *redis.Client
}

func NewRedisPublisher(rdb *redis.Client) *RedisPublisher {
	return &RedisPublisher{rdb: rdb}
}

func (p *RedisPublisher) Publish(ctx context.Context, orderID uuid.UUID, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := p.rdb.Publish(ctx, Channel(orderID), b).Err(); err != nil {
		return fmt.Errorf("redis publish: %w", err)
	}
	return nil
}

// Relay feeds events from every order channel into the local hub.
type Relay struct {
	rdb *redis.Client
	hub *Hub
	log *zap.Logger
}

func NewRelay(rdb *redis.Client, hub *Hub, log *zap.Logger) *Relay {
	return &Relay{rdb: rdb, hub: hub, log: log}
}

func (r *Relay) Run(ctx context.Context) error {
	ps := r.rdb.PSubscribe(ctx, channelPattern)
	defer ps.Close()

	if _, err := ps.Receive(ctx); err != nil {
		return fmt.Errorf("redis psubscribe: %w", err)
	}
	r.log.Info("redis relay subscribed", zap.String("pattern", channelPattern))

	ch := ps.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			orderID, err := ParseChannel(msg.Channel)
			if err != nil {
				r.log.Warn("ignoring relay message", zap.Error(err))
				continue
			}
			if err := r.hub.PublishRaw(ctx, orderID, []byte(msg.Payload)); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				r.log.Warn("relay delivery failed", zap.String("order_id", orderID.String()), zap.Error(err))
			}
		}
	}
}
