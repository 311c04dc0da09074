package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// 入口消息类型
const (
	KindActivity = "activity"
	KindZone     = "zone"
)

// ErrInvalidDataFormat Stream 消息缺少 data 字段
var ErrInvalidDataFormat = errors.New("invalid data format: missing data field")

// IngestMessage 入口消息（Redis Stream 的 data 字段或 HTTP 请求体）
type IngestMessage struct {
	Kind      string    `json:"kind"`
	UserID    string    `json:"user_id"`
	Role      string    `json:"role,omitempty"` // 可选，携带时更新用户画像
	Activity  Activity  `json:"activity,omitempty"`
	FallProb  float64   `json:"fall_prob,omitempty"`
	IsFall    bool      `json:"is_fall,omitempty"`
	Zone      Zone      `json:"zone,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ParseStreamValues 从 Stream 消息的 data 字段解析
func ParseStreamValues(values map[string]interface{}) (*IngestMessage, error) {
	data, ok := values["data"].(string)
	if !ok {
		return nil, ErrInvalidDataFormat
	}

	var msg IngestMessage
	if err := json.Unmarshal([]byte(data), &msg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal ingest message: %w", err)
	}
	return &msg, nil
}

// Validate 按 kind 校验
func (m *IngestMessage) Validate() error {
	if m.UserID == "" {
		return fmt.Errorf("user_id is required")
	}
	switch m.Kind {
	case KindActivity:
		return ValidateActivityEvent(m.ActivityEvent())
	case KindZone:
		return ValidateZoneEvent(m.ZoneEvent())
	default:
		return fmt.Errorf("unknown kind: %q", m.Kind)
	}
}

// ActivityEvent 转为活动事件
func (m *IngestMessage) ActivityEvent() ActivityEvent {
	return ActivityEvent{
		UserID:    m.UserID,
		Timestamp: m.Timestamp,
		Activity:  m.Activity,
		FallProb:  m.FallProb,
		IsFall:    m.IsFall,
	}
}

// ZoneEvent 转为区域事件
func (m *IngestMessage) ZoneEvent() ZoneEvent {
	return ZoneEvent{
		UserID:    m.UserID,
		Zone:      m.Zone,
		Timestamp: m.Timestamp,
	}
}
