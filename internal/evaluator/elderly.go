package evaluator

import (
	"time"

	"wisefido-motion/internal/analysis"
	"wisefido-motion/internal/models"
)

// 单事件高跌倒风险阈值
const elderlyFallProbThreshold = 0.6

// evaluateElderly 老人看护：按活动类型给出洞察和风险因子
func evaluateElderly(activity models.ActivityEvent, now time.Time) *ElderlyRecord {
	insights := make([]string, 0, 2)
	contributors := make([]string, 0, 2)

	switch activity.Activity {
	case models.ActivityWalk:
		insights = append(insights, "Walking activity observed")
	case models.ActivityTransitions:
		insights = append(insights, "Instability detected during posture change")
		contributors = append(contributors, "transition_instability")
	case models.ActivityStatic:
		insights = append(insights, "Prolonged inactivity detected")
		contributors = append(contributors, "inactivity")
	case models.ActivityExercise:
		insights = append(insights, "Fatigue risk detected")
	case models.ActivityStairs:
		insights = append(insights, "Stair usage increases fall risk")
		contributors = append(contributors, "stairs_risk")
	}

	if activity.FallProb > elderlyFallProbThreshold {
		insights = append(insights, "High fall risk detected")
		contributors = append(contributors, "fall_risk")
	}

	return &ElderlyRecord{
		UserID:           activity.UserID,
		Timestamp:        now,
		Activity:         activity.Activity,
		FallProbability:  analysis.Round2(activity.FallProb),
		Insights:         insights,
		RiskContributors: contributors,
		Output:           "Caregiver alert / preventive recommendation",
	}
}
