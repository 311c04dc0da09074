package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"wisefido-motion/internal/config"
	"wisefido-motion/internal/models"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// AlertCache 最新照护告警缓存（key: <prefix><user_id>）
type AlertCache struct {
	config      *config.Config
	redisClient *redis.Client
	logger      *zap.Logger
}

// NewAlertCache 创建告警缓存
func NewAlertCache(cfg *config.Config, redisClient *redis.Client, logger *zap.Logger) *AlertCache {
	return &AlertCache{
		config:      cfg,
		redisClient: redisClient,
		logger:      logger,
	}
}

func (c *AlertCache) key(userID string) string {
	return c.config.Motion.Cache.AlertKeyPrefix + userID
}

// Set 写入最新告警（带 TTL）
func (c *AlertCache) Set(ctx context.Context, alert models.CaregiverAlert) error {
	data, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("failed to marshal alert: %w", err)
	}

	ttl := time.Duration(c.config.Motion.Cache.AlertTTL) * time.Second
	if err := c.redisClient.Set(ctx, c.key(alert.UserID), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set alert cache: %w", err)
	}

	c.logger.Debug("Updated alert cache",
		zap.String("user_id", alert.UserID),
		zap.String("severity", string(alert.Severity)),
	)
	return nil
}

// Get 读取最新告警；不存在时返回 nil, nil
func (c *AlertCache) Get(ctx context.Context, userID string) (*models.CaregiverAlert, error) {
	val, err := c.redisClient.Get(ctx, c.key(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get alert cache: %w", err)
	}

	var alert models.CaregiverAlert
	if err := json.Unmarshal([]byte(val), &alert); err != nil {
		return nil, fmt.Errorf("failed to unmarshal alert: %w", err)
	}
	return &alert, nil
}
