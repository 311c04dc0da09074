package models

// DailySummary 单日运动摘要
type DailySummary struct {
	UserID          string  `json:"user_id"`
	Date            Date    `json:"date"`
	WalkingDuration int     `json:"walking_duration"`
	TransitionCount int     `json:"transition_count"`
	NearFalls       int     `json:"near_falls"`
	InactivityTime  int     `json:"inactivity_time"`
	FallRiskScore   float64 `json:"fall_risk_score"`
}

// WeeklyTrend 本周相对上周的百分比变化
type WeeklyTrend struct {
	UserID           string   `json:"user_id"`
	EndDate          Date     `json:"end_date"`
	WalkChange       float64  `json:"walk_change"`
	NearFallChange   float64  `json:"near_fall_change"`
	InactivityChange float64  `json:"inactivity_change"`
	Narratives       []string `json:"narratives,omitempty"`
}
