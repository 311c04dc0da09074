package evaluator

import (
	"time"

	"wisefido-motion/internal/models"
)

// 各领域写入的集合名
const (
	CollectionElderly   = "elderly_context_events"
	CollectionWorkplace = "workplace_context_events"
	CollectionRehab     = "rehab_context_events"
	CollectionUnknown   = "unknown_events"
)

// Interpretation 路由结果（按角色的结构化解读）
type Interpretation interface {
	Domain() string
	Collection() string
	Payload() map[string]interface{}
}

// ElderlyRecord 老人看护解读
type ElderlyRecord struct {
	UserID           string          `json:"user_id"`
	Timestamp        time.Time       `json:"timestamp"`
	Activity         models.Activity `json:"activity"`
	FallProbability  float64         `json:"fall_probability"`
	Insights         []string        `json:"insights"`
	RiskContributors []string        `json:"risk_contributors"`
	Output           string          `json:"output"`
}

func (r *ElderlyRecord) Domain() string     { return "elderly" }
func (r *ElderlyRecord) Collection() string { return CollectionElderly }

func (r *ElderlyRecord) Payload() map[string]interface{} {
	return map[string]interface{}{
		"domain":            r.Domain(),
		"timestamp":         r.Timestamp.Format(time.RFC3339),
		"user_id":           r.UserID,
		"activity":          string(r.Activity),
		"fall_probability":  r.FallProbability,
		"insights":          r.Insights,
		"risk_contributors": r.RiskContributors,
		"output":            r.Output,
	}
}

// WorkplaceRecord 工作安全解读
type WorkplaceRecord struct {
	UserID          string                 `json:"user_id"`
	Timestamp       time.Time              `json:"timestamp"`
	Activity        models.Activity        `json:"activity"`
	Zone            models.Zone            `json:"zone"`
	Violations      []string               `json:"violations"`
	ViolationCount  int                    `json:"violation_count"`
	EscalationLevel models.EscalationLevel `json:"escalation_level"`
	SafetyScore     int                    `json:"safety_score"`
	Output          string                 `json:"output"`

	// 本次新增的违规明细（供调用方写入 workplace_violations）
	Logged []models.Violation `json:"-"`
}

func (r *WorkplaceRecord) Domain() string     { return "workplace" }
func (r *WorkplaceRecord) Collection() string { return CollectionWorkplace }

func (r *WorkplaceRecord) Payload() map[string]interface{} {
	return map[string]interface{}{
		"domain":           r.Domain(),
		"timestamp":        r.Timestamp.Format(time.RFC3339),
		"user_id":          r.UserID,
		"activity":         string(r.Activity),
		"zone":             string(r.Zone),
		"violations":       r.Violations,
		"violation_count":  r.ViolationCount,
		"escalation_level": string(r.EscalationLevel),
		"safety_score":     r.SafetyScore,
		"output":           r.Output,
	}
}

// RehabRecord 康复跟踪（占位）
type RehabRecord struct {
	UserID    string          `json:"user_id"`
	Timestamp time.Time       `json:"timestamp"`
	Activity  models.Activity `json:"activity"`
	Status    string          `json:"status"`
}

func (r *RehabRecord) Domain() string     { return "rehab" }
func (r *RehabRecord) Collection() string { return CollectionRehab }

func (r *RehabRecord) Payload() map[string]interface{} {
	return map[string]interface{}{
		"domain":    r.Domain(),
		"timestamp": r.Timestamp.Format(time.RFC3339),
		"user_id":   r.UserID,
		"activity":  string(r.Activity),
		"status":    r.Status,
	}
}

// UnknownRecord 未知角色的固定回退
type UnknownRecord struct {
	UserID    string    `json:"user_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
}

func (r *UnknownRecord) Domain() string     { return "unknown" }
func (r *UnknownRecord) Collection() string { return CollectionUnknown }

func (r *UnknownRecord) Payload() map[string]interface{} {
	return map[string]interface{}{
		"domain":    r.Domain(),
		"timestamp": r.Timestamp.Format(time.RFC3339),
		"user_id":   r.UserID,
		"message":   r.Message,
	}
}
