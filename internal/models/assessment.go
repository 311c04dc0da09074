package models

import "time"

// Assessment 单用户周期评估结果
type Assessment struct {
	UserID    string         `json:"user_id"`
	AsOf      Date           `json:"as_of"`
	Timestamp time.Time      `json:"timestamp"`
	Current   Metrics        `json:"current_week"`
	Baseline  Metrics        `json:"baseline"`
	Scores    RiskScores     `json:"scores"`
	Drift     DriftResult    `json:"drift"`
	Trend     Trend          `json:"trend"`
	Alert     CaregiverAlert `json:"alert"`
	Summary   *DailySummary  `json:"daily_summary,omitempty"`
	Weekly    WeeklyTrend    `json:"weekly_trend"`
}
