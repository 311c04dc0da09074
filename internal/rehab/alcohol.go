package rehab

import (
	"context"
	"fmt"
	"time"

	"wisefido-motion/internal/analysis"

	"go.uber.org/zap"
)

// CollectionAlcohol 戒酒康复预测结果集合
const CollectionAlcohol = "alcohol_rehab_predictions"

// RSI 状态
const (
	StatusHighRisk       = "High Risk"
	StatusEarlyRecovery  = "Early Recovery"
	StatusStableRecovery = "Stable Recovery"
)

// AlcoholResult 戒酒康复评估结果
type AlcoholResult struct {
	UserID                    string    `json:"user_id"`
	Timestamp                 time.Time `json:"timestamp"`
	SleepQualityScore         float64   `json:"sleep_quality_score"`
	StressRegulationScore     float64   `json:"stress_regulation_score"`
	RehabilitationStatusIndex float64   `json:"rehabilitation_status_index"`
	RSIStatus                 string    `json:"rsi_status"`
}

func (r *AlcoholResult) Payload() map[string]interface{} {
	return map[string]interface{}{
		"user_id":                     r.UserID,
		"timestamp":                   r.Timestamp.Format(time.RFC3339),
		"sleep_quality_score":         r.SleepQualityScore,
		"stress_regulation_score":     r.StressRegulationScore,
		"rehabilitation_status_index": r.RehabilitationStatusIndex,
		"rsi_status":                  r.RSIStatus,
	}
}

// SleepScore 睡眠质量分：正类概率 * 100
func SleepScore(probs []float64) (float64, error) {
	if len(probs) < 2 {
		return 0, fmt.Errorf("sleep model returned %d classes, want at least 2", len(probs))
	}
	return analysis.Round2(probs[1] * 100), nil
}

// StressScore 压力调节分：(p0 + 0.5*p1) * 100
func StressScore(probs []float64) (float64, error) {
	if len(probs) < 2 {
		return 0, fmt.Errorf("stress model returned %d classes, want at least 2", len(probs))
	}
	return analysis.Round2((probs[0] + 0.5*probs[1]) * 100), nil
}

// AlcoholStatus RSI 分档
func AlcoholStatus(rsi float64) string {
	switch {
	case rsi < 30:
		return StatusHighRisk
	case rsi < 60:
		return StatusEarlyRecovery
	default:
		return StatusStableRecovery
	}
}

// AlcoholAssessor 睡眠与压力两个模型各占一半
type AlcoholAssessor struct {
	sleep  Classifier
	stress Classifier
	logger *zap.Logger
	now    func() time.Time
}

// NewAlcoholAssessor 创建评估器
func NewAlcoholAssessor(sleep, stress Classifier, logger *zap.Logger) *AlcoholAssessor {
	return &AlcoholAssessor{sleep: sleep, stress: stress, logger: logger, now: time.Now}
}

// Assess 分别推理后合成 RSI
func (a *AlcoholAssessor) Assess(ctx context.Context, userID string, sleepFeatures, stressFeatures Features) (*AlcoholResult, error) {
	sleepProbs, err := a.sleep.PredictProba(ctx, sleepFeatures)
	if err != nil {
		return nil, fmt.Errorf("failed to predict sleep quality: %w", err)
	}
	sleepScore, err := SleepScore(sleepProbs)
	if err != nil {
		return nil, err
	}

	stressProbs, err := a.stress.PredictProba(ctx, stressFeatures)
	if err != nil {
		return nil, fmt.Errorf("failed to predict stress regulation: %w", err)
	}
	stressScore, err := StressScore(stressProbs)
	if err != nil {
		return nil, err
	}

	rsi := analysis.Round2(0.5*sleepScore + 0.5*stressScore)
	result := &AlcoholResult{
		UserID:                    userID,
		Timestamp:                 a.now().UTC(),
		SleepQualityScore:         sleepScore,
		StressRegulationScore:     stressScore,
		RehabilitationStatusIndex: rsi,
		RSIStatus:                 AlcoholStatus(rsi),
	}

	a.logger.Info("Alcohol rehab assessed",
		zap.String("user_id", userID),
		zap.Float64("rsi", rsi),
		zap.String("rsi_status", result.RSIStatus),
	)
	return result, nil
}
