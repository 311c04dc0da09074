package evaluator

import (
	"time"

	"wisefido-motion/internal/models"
	"wisefido-motion/internal/workplace"

	"go.uber.org/zap"
)

// evaluateWorkplace 员工：交给升级引擎，区域缺省为 Unknown
func (r *Router) evaluateWorkplace(activity models.ActivityEvent, zone *models.ZoneEvent, now time.Time) *WorkplaceRecord {
	z, logged := r.workplace.EvaluateActivity(activity, zone)

	types := make([]string, 0, len(logged))
	for _, v := range logged {
		types = append(types, v.ViolationType)
	}

	count := r.workplace.ViolationCount(activity.UserID)

	r.logger.Debug("Workplace event evaluated",
		zap.String("user_id", activity.UserID),
		zap.String("zone", string(z)),
		zap.Int("new_violations", len(logged)),
		zap.Int("violation_count", count),
	)

	return &WorkplaceRecord{
		UserID:          activity.UserID,
		Timestamp:       now,
		Activity:        activity.Activity,
		Zone:            z,
		Violations:      types,
		ViolationCount:  count,
		EscalationLevel: workplace.Escalation(count),
		SafetyScore:     workplace.SafetyScore(count),
		Output:          "Warning / Supervisor / Admin escalation",
		Logged:          logged,
	}
}
