package models

import "time"

// Level 三级等级（漂移等级、报警严重度、违规严重度共用）
type Level string

const (
	LevelLow    Level = "Low"
	LevelMedium Level = "Medium"
	LevelHigh   Level = "High"
)

// Rank Low(0) < Medium(1) < High(2)
func (l Level) Rank() int {
	switch l {
	case LevelMedium:
		return 1
	case LevelHigh:
		return 2
	default:
		return 0
	}
}

// MaxLevel 按 Rank 取较高者
func MaxLevel(a, b Level) Level {
	if b.Rank() > a.Rank() {
		return b
	}
	return a
}

// NoDriftAlert 未检测到漂移时的固定提示
const NoDriftAlert = "No significant mobility drift detected."

// DriftResult 基线 vs 当前窗口的漂移结果
type DriftResult struct {
	DriftScore int      `json:"drift_score"` // 0–3
	DriftLevel Level    `json:"drift_level"`
	Alerts     []string `json:"alerts"` // 非空
}

// CaregiverAlert 看护人报警
type CaregiverAlert struct {
	AlertID   string    `json:"alert_id"`
	UserID    string    `json:"user_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Severity  Level     `json:"severity"`
	Trend     Trend     `json:"trend"`
	Messages  []string  `json:"messages"` // 非空，最后一条为建议
}
