package analysis

import "wisefido-motion/internal/models"

const (
	trendWindow       = 3
	highRiskThreshold = 70.0
)

// AnalyzeTrend 只看最近 3 个快照；不足 3 个视为 Stable
func AnalyzeTrend(history []models.RiskSnapshot) models.Trend {
	if len(history) < trendWindow {
		return models.TrendStable
	}

	recent := history[len(history)-trendWindow:]
	s0, s1, s2 := recent[0].FallRiskScore, recent[1].FallRiskScore, recent[2].FallRiskScore

	if s2 > highRiskThreshold {
		return models.TrendHigh
	}
	if s0 < s1 && s1 < s2 {
		return models.TrendIncreasing
	}
	return models.TrendStable
}
