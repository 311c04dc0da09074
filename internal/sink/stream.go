package sink

import (
	"context"
	"fmt"

	"wisefido-motion/internal/observability"
	rediscommon "wisefido-motion/internal/redis"

	"github.com/go-redis/redis/v8"
)

// Stream 写入 Redis Stream（每个集合一个流：<prefix><collection>）
type Stream struct {
	client *redis.Client
	prefix string
}

func NewStream(client *redis.Client, prefix string) *Stream {
	return &Stream{client: client, prefix: prefix}
}

// StreamName 集合对应的流名
func (s *Stream) StreamName(collection string) string {
	return s.prefix + collection
}

func (s *Stream) Push(ctx context.Context, collection string, payload map[string]interface{}) error {
	if _, err := rediscommon.PublishJSONToStream(ctx, s.client, s.StreamName(collection), payload); err != nil {
		observability.IncSinkWrite("redis_stream", collection, observability.ResultError)
		return fmt.Errorf("failed to publish to %s: %w", s.StreamName(collection), err)
	}
	observability.IncSinkWrite("redis_stream", collection, observability.ResultSuccess)
	return nil
}
