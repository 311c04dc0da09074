package evaluator

import (
	"time"

	"wisefido-motion/internal/models"
)

// evaluateRehab 康复用户：仅标记跟踪，评分由 rehab 包离线完成
func evaluateRehab(activity models.ActivityEvent, now time.Time) *RehabRecord {
	return &RehabRecord{
		UserID:    activity.UserID,
		Timestamp: now,
		Activity:  activity.Activity,
		Status:    "Tracked for rehabilitation analysis",
	}
}
