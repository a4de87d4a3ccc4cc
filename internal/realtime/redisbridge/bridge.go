package redisbridge

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskboard-api/internal/metrics"
	"github.com/phrazzld/taskboard-api/internal/realtime"
	goredis "github.com/redis/go-redis/v9"
)

const (
	outboundBuffer = 256
	publishTimeout = 2 * time.Second
)

// Applier applies room operations received from other instances.
type Applier interface {
	Apply(msg realtime.RoomMessage)
}

type envelope struct {
	Instance string               `json:"instance"`
	Message  realtime.RoomMessage `json:"message"`
}

// Bridge implements realtime.Forwarder on top of Redis Pub/Sub.
type Bridge struct {
	rdb      *goredis.Client
	prefix   string
	instance string
	out      chan realtime.RoomMessage
	metrics  *metrics.RealtimeMetrics
	logger   *slog.Logger
}

var _ realtime.Forwarder = (*Bridge)(nil)

// NewClient parses redisURL and verifies the server answers a PING.
func NewClient(ctx context.Context, redisURL string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	rdb := goredis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return rdb, nil
}

// New creates a Bridge publishing under prefix. Each Bridge gets a random
// instance id so it can recognise and skip its own messages.
func New(rdb *goredis.Client, prefix string, m *metrics.RealtimeMetrics, logger *slog.Logger) *Bridge {
	if logger == nil {
		logger = slog.Default()
	}
	instance := uuid.NewString()
	return &Bridge{
		rdb:      rdb,
		prefix:   strings.TrimSuffix(prefix, ":"),
		instance: instance,
		out:      make(chan realtime.RoomMessage, outboundBuffer),
		metrics:  m,
		logger: logger.With(
			slog.String("component", "redis_bridge"),
			slog.String("instance", instance)),
	}
}

// Channel returns the Pub/Sub channel for a board.
func (b *Bridge) Channel(boardID uuid.UUID) string {
	return b.prefix + ":board:" + boardID.String()
}

// Forward queues msg for publishing. When the queue is full the message is
// dropped and counted.
func (b *Bridge) Forward(msg realtime.RoomMessage) {
	select {
	case b.out <- msg:
	default:
		b.logger.Warn("bridge queue full, dropping room message",
			slog.String("board_id", msg.BoardID.String()),
			slog.String("op", string(msg.Op)))
		b.failed()
	}
}

// Run subscribes to every board channel, publishes queued messages and
// hands messages from other instances to applier until ctx is cancelled.
func (b *Bridge) Run(ctx context.Context, applier Applier) error {
	sub := b.rdb.PSubscribe(ctx, b.prefix+":board:*")
	defer func() { _ = sub.Close() }()

	// Wait for the subscription confirmation so nothing published after
	// Run starts is missed.
	if _, err := sub.Receive(ctx); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("failed to subscribe to board channels: %w", err)
	}
	b.logger.Info("redis bridge subscribed", slog.String("pattern", b.prefix+":board:*"))

	incoming := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg := <-b.out:
			b.publish(ctx, msg)
		case m, ok := <-incoming:
			if !ok {
				return nil
			}
			b.receive(m.Payload, applier)
		}
	}
}

func (b *Bridge) publish(ctx context.Context, msg realtime.RoomMessage) {
	payload, err := json.Marshal(envelope{Instance: b.instance, Message: msg})
	if err != nil {
		b.logger.Error("failed to encode room message", slog.String("error", err.Error()))
		b.failed()
		return
	}

	pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	if err := b.rdb.Publish(pubCtx, b.Channel(msg.BoardID), payload).Err(); err != nil {
		b.logger.Warn("failed to publish room message",
			slog.String("board_id", msg.BoardID.String()),
			slog.String("error", err.Error()))
		b.failed()
	}
}

func (b *Bridge) receive(payload string, applier Applier) {
	var env envelope
	if err := json.Unmarshal([]byte(payload), &env); err != nil {
		b.logger.Warn("discarding malformed bridge message", slog.String("error", err.Error()))
		b.failed()
		return
	}
	if env.Instance == b.instance {
		return
	}
	applier.Apply(env.Message)
}

func (b *Bridge) failed() {
	if b.metrics != nil {
		b.metrics.BridgeErrors.Inc()
	}
}
