package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/yegor77/pipeline-portwatch/pkg/models"
	"github.com/yegor77/pipeline-portwatch/pkg/utils"
	"go.uber.org/zap"
)

const (
	DefaultStreamMaxLen = 10000
	SnapshotStream      = "portwatch:snapshots"
)

// Client announces written snapshots over Pub/Sub and a capped stream.
type Client struct {
	client       *redis.Client
	logger       *zap.Logger
	streamMaxLen int64
}

// NewClient creates a new Redis client using environment variables for configuration.
// Environment variables:
//   - REDIS_HOST: Redis host (default: "localhost")
//   - REDIS_PORT: Redis port (default: "6379")
//   - REDIS_PASSWORD: Redis password (default: "")
//   - REDIS_DB: Redis database number (default: "0")
//   - REDIS_STREAM_MAXLEN: Max entries of the snapshot stream (default: 10000)
func NewClient(ctx context.Context, logger *zap.Logger) (*Client, error) {
	host := utils.Env("REDIS_HOST", "localhost")
	port := utils.Env("REDIS_PORT", "6379")
	password := utils.Env("REDIS_PASSWORD", "")
	db := utils.EnvInt("REDIS_DB", 0)
	streamMaxLen := utils.EnvInt64("REDIS_STREAM_MAXLEN", DefaultStreamMaxLen)

	addr := fmt.Sprintf("%s:%s", host, port)

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,

		PoolSize:     4,
		MinIdleConns: 1,

		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}

	logger.Info("Connected to Redis",
		zap.String("addr", addr),
		zap.Int("db", db),
		zap.Int64("streamMaxLen", streamMaxLen))

	return &Client{
		client:       rdb,
		logger:       logger,
		streamMaxLen: streamMaxLen,
	}, nil
}

// Close closes the Redis connection.
func (c *Client) Close() error {
	return c.client.Close()
}

// Health checks if Redis is healthy.
func (c *Client) Health(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// SnapshotChannel returns the Pub/Sub channel of a zone.
func SnapshotChannel(zone string) string {
	return fmt.Sprintf("portwatch:%s:snapshot.written", zone)
}

// StreamValues flattens an event into stream entry fields.
func StreamValues(e models.SnapshotEvent) map[string]interface{} {
	return map[string]interface{}{
		"zone":   e.Zone,
		"path":   e.Path,
		"rows":   strconv.Itoa(e.Rows),
		"codec":  e.Codec,
		"run_id": e.RunID,
		"at":     e.At.UTC().Format(time.RFC3339Nano),
	}
}

// PublishSnapshot announces a written snapshot. This is best effort: failures
// are logged and never reach the pipeline.
func (c *Client) PublishSnapshot(ctx context.Context, e models.SnapshotEvent) {
	payload, err := json.Marshal(e)
	if err != nil {
		c.logger.Warn("Failed to encode snapshot event", zap.Error(err))
		return
	}
	channel := SnapshotChannel(e.Zone)
	if err := c.client.Publish(ctx, channel, payload).Err(); err != nil {
		c.logger.Warn("Failed to publish Redis message",
			zap.String("channel", channel),
			zap.Error(err))
	}
	c.xadd(ctx, SnapshotStream, StreamValues(e))
}

func (c *Client) xadd(ctx context.Context, stream string, values map[string]interface{}) {
	args := &redis.XAddArgs{
		Stream: stream,
		Values: values,
	}
	if c.streamMaxLen > 0 {
		args.MaxLen = c.streamMaxLen
		args.Approx = true
	}
	if err := c.client.XAdd(ctx, args).Err(); err != nil {
		c.logger.Warn("Failed to add to Redis stream",
			zap.String("stream", stream),
			zap.Error(err))
	}
}
