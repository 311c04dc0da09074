package models

import "time"

// Metrics 事件集合的分类计数（派生值，不缓存）
type Metrics struct {
	Walk        int `json:"walk"`
	Transitions int `json:"transitions"`
	Static      int `json:"static"`
	Exercise    int `json:"exercise"`
	Stairs      int `json:"stairs"`
	NearFall    int `json:"near_fall"`
	Fall        int `json:"fall"`
	Total       int `json:"total"`
}

// Ratios 比例视图（风险评分使用）
type Ratios struct {
	Walk        float64
	Transitions float64
	Static      float64
	Exercise    float64
	NearFall    float64
	Fall        float64
}

// Ratios 按 Total 归一化；Total 为 0 时全部为 0
func (m Metrics) Ratios() Ratios {
	if m.Total == 0 {
		return Ratios{}
	}
	total := float64(m.Total)
	return Ratios{
		Walk:        float64(m.Walk) / total,
		Transitions: float64(m.Transitions) / total,
		Static:      float64(m.Static) / total,
		Exercise:    float64(m.Exercise) / total,
		NearFall:    float64(m.NearFall) / total,
		Fall:        float64(m.Fall) / total,
	}
}

// RiskScores 同一窗口下的三种风险分
type RiskScores struct {
	FallRisk      float64 `json:"fall_risk_score"`
	SafetyRisk    float64 `json:"safety_risk_score"`
	RehabProgress float64 `json:"rehab_progress_score"`
}

// RiskSnapshot 跌倒风险快照（按用户累积，旧→新）
type RiskSnapshot struct {
	Timestamp     time.Time `json:"timestamp"`
	FallRiskScore float64   `json:"fall_risk_score"` // 0–100
}

// Trend 风险趋势
type Trend string

const (
	TrendStable     Trend = "Stable"
	TrendIncreasing Trend = "Increasing"
	TrendHigh       Trend = "High"
)
