package analysis

import (
	"math"

	"wisefido-motion/internal/models"
)

// 跌倒风险权重
const (
	weightFall        = 0.4
	weightNearFall    = 0.3
	weightTransitions = 0.2
	weightInactivity  = 0.1

	// 静止占比超过该值视为长时间不活动（阶跃，不是比例）
	prolongedInactivityShare = 0.6
)

// FallRisk 跌倒风险 0–100
func FallRisk(m models.Metrics) float64 {
	if m.Total == 0 {
		return 0
	}
	r := m.Ratios()

	prolonged := 0.0
	if float64(m.Static) > float64(m.Total)*prolongedInactivityShare {
		prolonged = 1
	}

	risk := weightFall*r.Fall +
		weightNearFall*r.NearFall +
		weightTransitions*r.Transitions +
		weightInactivity*prolonged

	return scale(risk)
}

// SafetyRisk 工作安全风险 0–100：(运动 + 姿态转换) / 总数
func SafetyRisk(m models.Metrics) float64 {
	if m.Total == 0 {
		return 0
	}
	risk := float64(m.Exercise+m.Transitions) / float64(m.Total)
	return scale(risk)
}

// RehabProgress 康复进度 0–100
func RehabProgress(m models.Metrics) float64 {
	if m.Total == 0 {
		return 0
	}
	r := m.Ratios()
	progress := 0.5*r.Walk +
		0.3*(1-r.Transitions) +
		0.2*(1-r.Fall)
	return scale(progress)
}

// ScoreAll 同一次提取计算三种分数
func ScoreAll(m models.Metrics) models.RiskScores {
	return models.RiskScores{
		FallRisk:      FallRisk(m),
		SafetyRisk:    SafetyRisk(m),
		RehabProgress: RehabProgress(m),
	}
}

// scale ×100，截断到 [0,100]，保留两位小数
func scale(v float64) float64 {
	v = math.Min(v*100, 100)
	if v < 0 {
		v = 0
	}
	return Round2(v)
}

// Round2 四舍五入到两位小数
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
