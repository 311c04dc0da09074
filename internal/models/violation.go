package models

import "time"

// Violation 工作场所违规记录（按用户只追加）
type Violation struct {
	ViolationID   string    `json:"violation_id"`
	UserID        string    `json:"user_id"`
	ViolationType string    `json:"violation_type"`
	Severity      Level     `json:"severity"`
	Zone          Zone      `json:"zone"`
	Activity      Activity  `json:"activity"`
	Timestamp     time.Time `json:"timestamp"`
}

// EscalationLevel 升级阶梯
type EscalationLevel string

const (
	EscalationNone       EscalationLevel = "No Action"
	EscalationWarning    EscalationLevel = "Warning"
	EscalationSupervisor EscalationLevel = "Supervisor Alert"
	EscalationAdmin      EscalationLevel = "Admin Escalation"
)

// WorkplaceDashboard 工作安全看板指标
type WorkplaceDashboard struct {
	UserID          string          `json:"user_id"`
	ViolationCount  int             `json:"violation_count"`
	EscalationLevel EscalationLevel `json:"escalation_level"`
	SafetyScore     int             `json:"safety_score"`
	ZoneRiskLevel   Level           `json:"zone_risk_level"`
	Timestamp       time.Time       `json:"timestamp"`
}
