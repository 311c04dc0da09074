package consumer

import (
	"context"
	"fmt"
	"time"

	"wisefido-motion/internal/config"
	"wisefido-motion/internal/models"
	"wisefido-motion/internal/observability"
	rediscommon "wisefido-motion/internal/redis"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Handler 入口消息处理（由 MotionService 实现）
type Handler interface {
	Ingest(ctx context.Context, msg *models.IngestMessage) error
}

// StreamConsumer 运动事件 Redis Streams 消费者
type StreamConsumer struct {
	config      *config.Config
	redisClient *redis.Client
	handler     Handler
	logger      *zap.Logger
	block       time.Duration
}

// NewStreamConsumer 创建 Streams 消费者
func NewStreamConsumer(
	cfg *config.Config,
	redisClient *redis.Client,
	handler Handler,
	logger *zap.Logger,
) *StreamConsumer {
	return &StreamConsumer{
		config:      cfg,
		redisClient: redisClient,
		handler:     handler,
		logger:      logger,
		block:       5 * time.Second,
	}
}

// Start 启动消费循环，ctx 取消时返回
func (c *StreamConsumer) Start(ctx context.Context) error {
	stream := c.config.Motion.EventStream
	group := c.config.Motion.ConsumerGroup

	if err := rediscommon.CreateConsumerGroup(ctx, c.redisClient, stream, group); err != nil {
		return fmt.Errorf("failed to create consumer group for %s: %w", stream, err)
	}

	c.logger.Info("Stream consumer started",
		zap.String("stream", stream),
		zap.String("consumer_group", group),
		zap.String("consumer_name", c.config.Motion.ConsumerName),
	)

	backoff := time.Second
	maxBackoff := 30 * time.Second

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("Stream consumer stopped")
			return nil
		default:
		}

		if _, err := c.ConsumeOnce(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.logger.Error("Failed to consume stream",
				zap.String("stream", stream),
				zap.Duration("backoff", backoff),
				zap.Error(err),
			)

			select {
			case <-ctx.Done():
				return nil
			case <-time.After(backoff):
				backoff *= 2
				if backoff > maxBackoff {
					backoff = maxBackoff
				}
			}
			continue
		}
		backoff = time.Second
	}
}

// ConsumeOnce 读取并处理一批消息，返回处理条数
// 无效消息记录后确认，避免反复投递
func (c *StreamConsumer) ConsumeOnce(ctx context.Context) (int, error) {
	stream := c.config.Motion.EventStream
	group := c.config.Motion.ConsumerGroup

	messages, err := rediscommon.ReadFromStream(ctx, c.redisClient, stream, group,
		c.config.Motion.ConsumerName, c.config.Motion.BatchSize, c.block)
	if err != nil {
		return 0, fmt.Errorf("failed to read from stream %s: %w", stream, err)
	}

	for _, msg := range messages {
		if err := c.processMessage(ctx, msg); err != nil {
			c.logger.Warn("Failed to process message",
				zap.String("stream", stream),
				zap.String("message_id", msg.ID),
				zap.Error(err),
			)
		}
		if err := rediscommon.Ack(ctx, c.redisClient, stream, group, msg.ID); err != nil {
			c.logger.Error("Failed to ack message",
				zap.String("message_id", msg.ID),
				zap.Error(err),
			)
		}
	}
	return len(messages), nil
}

func (c *StreamConsumer) processMessage(ctx context.Context, msg rediscommon.StreamMessage) error {
	ingest, err := models.ParseStreamValues(msg.Values)
	if err != nil {
		observability.IncIngest("unknown", observability.ResultRejected)
		return err
	}
	if err := ingest.Validate(); err != nil {
		observability.IncIngest(ingest.Kind, observability.ResultRejected)
		return fmt.Errorf("invalid message: %w", err)
	}
	return c.handler.Ingest(ctx, ingest)
}
