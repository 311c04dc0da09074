package analysis

import "wisefido-motion/internal/models"

// 近跌倒区间 [0.45, 0.7)，边界固定
const (
	nearFallLower = 0.45
	nearFallUpper = 0.7
)

// IsNearFall 是否为近跌倒事件
func IsNearFall(e models.ActivityEvent) bool {
	return e.FallProb >= nearFallLower && e.FallProb < nearFallUpper
}

// Extract 统计事件集合的分类计数；空输入返回全零
func Extract(events []models.ActivityEvent) models.Metrics {
	m := models.Metrics{Total: len(events)}
	for _, e := range events {
		switch e.Activity {
		case models.ActivityWalk:
			m.Walk++
		case models.ActivityTransitions:
			m.Transitions++
		case models.ActivityStatic:
			m.Static++
		case models.ActivityExercise:
			m.Exercise++
		case models.ActivityStairs:
			m.Stairs++
		}
		if IsNearFall(e) {
			m.NearFall++
		}
		if e.IsFall {
			m.Fall++
		}
	}
	return m
}
