// Package events publishes board move events for downstream consumers
// (gateway SSE forwarding, analytics). Publishing is fire-and-forget: a
// failed publish never fails the move that triggered it.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ChannelCardMoved is the Redis pub/sub channel for board moves.
const ChannelCardMoved = "EVENT_CARD_MOVED"

// CardMoved describes one completed board move.
type CardMoved struct {
	SeekerID      string    `json:"seekerId"`
	JobID         string    `json:"jobId"`
	ApplicationID string    `json:"applicationId,omitempty"`
	From          string    `json:"from"`
	To            string    `json:"to"`
	At            time.Time `json:"at"`
}

// Publisher emits board move events.
type Publisher interface {
	CardMoved(ctx context.Context, ev CardMoved)
}

// RedisPublisher publishes events on a Redis pub/sub channel.
type RedisPublisher struct {
	rdb    *redis.Client
	logger *zap.Logger
}

// NewRedisPublisher returns a Publisher backed by the given Redis client.
func NewRedisPublisher(rdb *redis.Client, logger *zap.Logger) *RedisPublisher {
	return &RedisPublisher{rdb: rdb, logger: logger}
}

// CardMoved publishes the event as JSON. Failures are logged and dropped.
func (p *RedisPublisher) CardMoved(ctx context.Context, ev CardMoved) {
	payload, err := json.Marshal(ev)
	if err != nil {
		p.logger.Warn("marshal card moved event", zap.Error(err))
		return
	}
	if err := p.rdb.Publish(ctx, ChannelCardMoved, payload).Err(); err != nil {
		p.logger.Warn("publish card moved event",
			zap.String("seeker_id", ev.SeekerID),
			zap.String("job_id", ev.JobID),
			zap.Error(err),
		)
	}
}

// Nop is a Publisher that drops every event. Useful in tests and when Redis
// is not configured.
type Nop struct{}

func (Nop) CardMoved(context.Context, CardMoved) {}
