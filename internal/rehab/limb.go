package rehab

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wisefido-motion/internal/analysis"

	"go.uber.org/zap"
)

// CollectionLimb 肢体康复预测结果集合
const CollectionLimb = "rehab_predictions"

// ErrMissingFeature 请求缺少模型要求的特征
var ErrMissingFeature = errors.New("missing feature")

// LimbFeatureNames 肢体康复模型要求的特征（顺序与训练一致）
var LimbFeatureNames = []string{
	"acc_variance",
	"acc_jerk",
	"step_regularity",
	"gyro_variance",
	"acc_energy",
}

// 康复状态
const (
	StatusGoodRecovery     = "Good Recovery"
	StatusModerateRecovery = "Moderate Recovery"
	StatusNeedsImprovement = "Needs Improvement"
)

// LimbResult 肢体康复评估结果
type LimbResult struct {
	UserID       string    `json:"user_id"`
	Timestamp    time.Time `json:"timestamp"`
	Features     Features  `json:"features"`
	PredictedRSI float64   `json:"predicted_rsi"`
	RehabStatus  string    `json:"rehab_status"`
}

func (r *LimbResult) Payload() map[string]interface{} {
	return map[string]interface{}{
		"user_id":       r.UserID,
		"timestamp":     r.Timestamp.Format(time.RFC3339),
		"features":      map[string]float64(r.Features),
		"predicted_rsi": r.PredictedRSI,
		"rehab_status":  r.RehabStatus,
	}
}

// LimbStatus RSI 分档
func LimbStatus(rsi float64) string {
	switch {
	case rsi >= 70:
		return StatusGoodRecovery
	case rsi >= 50:
		return StatusModerateRecovery
	default:
		return StatusNeedsImprovement
	}
}

// LimbAssessor 肢体康复指数评估
type LimbAssessor struct {
	model  Regressor
	logger *zap.Logger
	now    func() time.Time
}

// NewLimbAssessor 创建评估器
func NewLimbAssessor(model Regressor, logger *zap.Logger) *LimbAssessor {
	return &LimbAssessor{model: model, logger: logger, now: time.Now}
}

// Assess 校验特征、调用模型并分档
func (a *LimbAssessor) Assess(ctx context.Context, userID string, features Features) (*LimbResult, error) {
	for _, name := range LimbFeatureNames {
		if _, ok := features[name]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingFeature, name)
		}
	}

	rsi, err := a.model.Predict(ctx, features)
	if err != nil {
		return nil, fmt.Errorf("failed to predict limb RSI: %w", err)
	}
	rsi = analysis.Round2(rsi)

	result := &LimbResult{
		UserID:       userID,
		Timestamp:    a.now().UTC(),
		Features:     features,
		PredictedRSI: rsi,
		RehabStatus:  LimbStatus(rsi),
	}

	a.logger.Info("Limb rehab assessed",
		zap.String("user_id", userID),
		zap.Float64("predicted_rsi", rsi),
		zap.String("rehab_status", result.RehabStatus),
	)
	return result, nil
}
