package notify

import (
	"context"
	"fmt"
	"time"

	"wisefido-motion/internal/observability"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// SMSConfig 短信网关配置；Endpoint 或 To 为空时不发送
type SMSConfig struct {
	Endpoint string
	Token    string
	From     string
	To       string
}

func (c SMSConfig) configured() bool {
	return c.Endpoint != "" && c.To != ""
}

type smsRequest struct {
	From    string `json:"from,omitempty"`
	To      string `json:"to"`
	Message string `json:"message"`
}

// SMSNotifier 高跌倒风险短信通知
type SMSNotifier struct {
	cfg        SMSConfig
	threshold  float64
	httpClient *resty.Client
	logger     *zap.Logger
}

// NewSMSNotifier 创建短信通知器
func NewSMSNotifier(cfg SMSConfig, threshold float64, logger *zap.Logger) *SMSNotifier {
	client := resty.New().
		SetTimeout(10*time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500*time.Millisecond).
		SetHeader("Content-Type", "application/json")
	if cfg.Token != "" {
		client.SetAuthToken(cfg.Token)
	}

	return &SMSNotifier{
		cfg:        cfg,
		threshold:  threshold,
		httpClient: client,
		logger:     logger,
	}
}

// FallRiskMessage 短信正文
func FallRiskMessage(userID string, score float64, at time.Time) string {
	return fmt.Sprintf("Fall risk alert: user %s scored %.2f at %s UTC",
		userID, score, at.UTC().Format("2006-01-02 15:04:05"))
}

// NotifyFallRisk 分数超过阈值时发送；返回是否实际发送
func (n *SMSNotifier) NotifyFallRisk(ctx context.Context, userID string, score float64, at time.Time) (bool, error) {
	if score <= n.threshold {
		return false, nil
	}
	if !n.cfg.configured() {
		n.logger.Info("SMS not configured, notification skipped",
			zap.String("user_id", userID),
			zap.Float64("fall_risk_score", score),
		)
		observability.IncNotification("sms", "skipped")
		return false, nil
	}

	resp, err := n.httpClient.R().
		SetContext(ctx).
		SetBody(smsRequest{
			From:    n.cfg.From,
			To:      n.cfg.To,
			Message: FallRiskMessage(userID, score, at),
		}).
		Post(n.cfg.Endpoint)
	if err != nil {
		observability.IncNotification("sms", observability.ResultError)
		return false, fmt.Errorf("failed to send sms: %w", err)
	}
	if resp.IsError() {
		observability.IncNotification("sms", observability.ResultError)
		return false, fmt.Errorf("sms gateway returned status %d", resp.StatusCode())
	}

	observability.IncNotification("sms", observability.ResultSuccess)
	n.logger.Info("Fall risk SMS sent",
		zap.String("user_id", userID),
		zap.Float64("fall_risk_score", score),
	)
	return true, nil
}
