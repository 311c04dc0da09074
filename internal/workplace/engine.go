package workplace

import (
	"time"

	"wisefido-motion/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// 违规类型
const (
	ViolationRestrictedEntry = "Unauthorized entry into restricted zone"
	ViolationHazardStairs    = "Hazard zone stair activity"
	ViolationOverexertion    = "Overexertion detected"
	ViolationCollapseRisk    = "Prolonged inactivity (collapse risk)"
	ViolationUnsafePosture   = "Unsafe posture detected"
)

const scorePenaltyPerViolation = 15

// rule 一条违规规则；多条规则可同时命中
type rule struct {
	violationType string
	severity      models.Level
	match         func(zone models.Zone, activity models.Activity) bool
}

// rules 统一的规则集（区域+活动融合规则在前，仅活动规则在后）
var rules = []rule{
	{
		violationType: ViolationRestrictedEntry,
		severity:      models.LevelHigh,
		match: func(zone models.Zone, activity models.Activity) bool {
			return zone == models.ZoneRestricted && activity == models.ActivityWalk
		},
	},
	{
		violationType: ViolationHazardStairs,
		severity:      models.LevelHigh,
		match: func(zone models.Zone, activity models.Activity) bool {
			return zone == models.ZoneHazard && activity == models.ActivityStairs
		},
	},
	{
		violationType: ViolationOverexertion,
		severity:      models.LevelMedium,
		match: func(_ models.Zone, activity models.Activity) bool {
			return activity == models.ActivityExercise
		},
	},
	{
		violationType: ViolationCollapseRisk,
		severity:      models.LevelMedium,
		match: func(_ models.Zone, activity models.Activity) bool {
			return activity == models.ActivityStatic
		},
	},
	{
		violationType: ViolationUnsafePosture,
		severity:      models.LevelLow,
		match: func(_ models.Zone, activity models.Activity) bool {
			return activity == models.ActivityTransitions
		},
	},
}

// Engine 工作场所升级引擎
type Engine struct {
	ledger *Ledger
	logger *zap.Logger
	now    func() time.Time
}

// NewEngine 创建引擎；ledger 由调用方注入
func NewEngine(ledger *Ledger, logger *zap.Logger) *Engine {
	return &Engine{
		ledger: ledger,
		logger: logger,
		now:    time.Now,
	}
}

// Evaluate 区域+活动配对入口；user_id 不一致时不做任何处理
func (e *Engine) Evaluate(zone models.ZoneEvent, activity models.ActivityEvent) []models.Violation {
	if zone.UserID != activity.UserID {
		e.logger.Debug("Zone/activity user mismatch, skipped",
			zap.String("zone_user_id", zone.UserID),
			zap.String("activity_user_id", activity.UserID),
		)
		return nil
	}
	return e.apply(activity.UserID, zone.Zone, activity.Activity)
}

// EvaluateActivity 路由入口：区域事件可缺省（按 Unknown 处理）
// 区域事件属于其他用户时同样按 Unknown 处理
func (e *Engine) EvaluateActivity(activity models.ActivityEvent, zone *models.ZoneEvent) (models.Zone, []models.Violation) {
	z := ResolveZone(activity.UserID, zone)
	return z, e.apply(activity.UserID, z, activity.Activity)
}

// ResolveZone 解析配对区域
func ResolveZone(userID string, zone *models.ZoneEvent) models.Zone {
	if zone == nil {
		return models.ZoneUnknown
	}
	if zone.UserID != "" && zone.UserID != userID {
		return models.ZoneUnknown
	}
	return zone.Zone
}

func (e *Engine) apply(userID string, zone models.Zone, activity models.Activity) []models.Violation {
	now := e.now().UTC()

	var violations []models.Violation
	for _, r := range rules {
		if !r.match(zone, activity) {
			continue
		}
		violations = append(violations, models.Violation{
			ViolationID:   uuid.New().String(),
			UserID:        userID,
			ViolationType: r.violationType,
			Severity:      r.severity,
			Zone:          zone,
			Activity:      activity,
			Timestamp:     now,
		})
	}
	if len(violations) == 0 {
		return nil
	}

	count := e.ledger.Record(userID, violations)
	for _, v := range violations {
		e.logger.Info("Workplace violation logged",
			zap.String("user_id", userID),
			zap.String("violation_type", v.ViolationType),
			zap.String("severity", string(v.Severity)),
			zap.String("zone", string(zone)),
			zap.Int("violation_count", count),
		)
	}
	return violations
}

// ViolationCount 当前累计违规数
func (e *Engine) ViolationCount(userID string) int {
	return e.ledger.Count(userID)
}

// Violations 违规日志
func (e *Engine) Violations(userID string) []models.Violation {
	return e.ledger.Violations(userID)
}

// Dashboard 看板指标
func (e *Engine) Dashboard(userID string, zone models.Zone) models.WorkplaceDashboard {
	count := e.ledger.Count(userID)
	return models.WorkplaceDashboard{
		UserID:          userID,
		ViolationCount:  count,
		EscalationLevel: Escalation(count),
		SafetyScore:     SafetyScore(count),
		ZoneRiskLevel:   ZoneRiskLevel(zone),
		Timestamp:       e.now().UTC(),
	}
}

// Escalation 0→No Action，1–2→Warning，3–4→Supervisor Alert，≥5→Admin Escalation
func Escalation(count int) models.EscalationLevel {
	switch {
	case count >= 5:
		return models.EscalationAdmin
	case count >= 3:
		return models.EscalationSupervisor
	case count >= 1:
		return models.EscalationWarning
	default:
		return models.EscalationNone
	}
}

// SafetyScore max(100 - 15×count, 0)
func SafetyScore(count int) int {
	score := 100 - count*scorePenaltyPerViolation
	if score < 0 {
		return 0
	}
	return score
}

// ZoneRiskLevel 区域风险等级
func ZoneRiskLevel(zone models.Zone) models.Level {
	switch zone {
	case models.ZoneRestricted:
		return models.LevelHigh
	case models.ZoneHazard:
		return models.LevelMedium
	default:
		return models.LevelLow
	}
}
