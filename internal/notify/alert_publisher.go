package notify

import (
	"encoding/json"
	"fmt"

	"wisefido-motion/internal/models"
	"wisefido-motion/internal/observability"

	"go.uber.org/zap"
)

// Publisher MQTT 发布接口（由 mqtt.Client 实现）
type Publisher interface {
	Publish(topic string, qos byte, retained bool, payload []byte) error
}

// AlertPublisher 照护告警发布到 MQTT
type AlertPublisher struct {
	publisher     Publisher
	topicTemplate string // 如 "motion/%s/alert"
	qos           byte
	logger        *zap.Logger
}

// NewAlertPublisher 创建告警发布器；publisher 为 nil 时只记录日志
func NewAlertPublisher(publisher Publisher, topicTemplate string, qos byte, logger *zap.Logger) *AlertPublisher {
	return &AlertPublisher{
		publisher:     publisher,
		topicTemplate: topicTemplate,
		qos:           qos,
		logger:        logger,
	}
}

// Topic 用户对应的主题
func (p *AlertPublisher) Topic(userID string) string {
	return fmt.Sprintf(p.topicTemplate, userID)
}

// Publish 发布告警（retained，订阅方总能拿到最新一条）
func (p *AlertPublisher) Publish(alert models.CaregiverAlert) error {
	if p.publisher == nil {
		p.logger.Debug("MQTT not configured, alert not published", zap.String("user_id", alert.UserID))
		return nil
	}

	payload, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("failed to marshal alert: %w", err)
	}

	if err := p.publisher.Publish(p.Topic(alert.UserID), p.qos, true, payload); err != nil {
		observability.IncNotification("mqtt", observability.ResultError)
		return err
	}
	observability.IncNotification("mqtt", observability.ResultSuccess)
	return nil
}
