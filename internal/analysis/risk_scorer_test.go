package analysis

import (
	"testing"

	"wisefido-motion/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestScores_EmptyInput(t *testing.T) {
	m := Extract(nil)

	assert.Equal(t, 0.0, FallRisk(m))
	assert.Equal(t, 0.0, SafetyRisk(m))
	assert.Equal(t, 0.0, RehabProgress(m))
}

// 14 条事件：3 次跌倒、4 次近跌倒、3 次姿态转换、7 次静止
func scenarioBEvents() []models.ActivityEvent {
	var events []models.ActivityEvent
	for i := 0; i < 3; i++ {
		events = append(events, ev(models.ActivityTransitions, 0.1, false))
	}
	for i := 0; i < 7; i++ {
		events = append(events, ev(models.ActivityStatic, 0.1, false))
	}
	for i := 0; i < 4; i++ {
		events = append(events, ev(models.ActivityWalk, 0.1, false))
	}
	// 跌倒标记在前 3 条，近跌倒概率在第 4–7 条
	for i := 0; i < 3; i++ {
		events[i].IsFall = true
	}
	for i := 3; i < 7; i++ {
		events[i].FallProb = 0.5
	}
	return events
}

func TestFallRisk_ScenarioB(t *testing.T) {
	m := Extract(scenarioBEvents())
	assert.Equal(t, 14, m.Total)
	assert.Equal(t, 3, m.Fall)
	assert.Equal(t, 4, m.NearFall)
	assert.Equal(t, 3, m.Transitions)
	assert.Equal(t, 7, m.Static)

	// 静止 7/14 = 0.5 <= 0.6，长时间不活动项为 0
	// 100 × (0.4×3/14 + 0.3×4/14 + 0.2×3/14) = 21.428… → 21.43
	assert.Equal(t, 21.43, FallRisk(m))
}

func TestFallRisk_ProlongedInactivityStep(t *testing.T) {
	var events []models.ActivityEvent
	for i := 0; i < 7; i++ {
		events = append(events, ev(models.ActivityStatic, 0.1, false))
	}
	for i := 0; i < 3; i++ {
		events = append(events, ev(models.ActivityWalk, 0.1, false))
	}
	// 静止 7/10 > 0.6 → +10
	assert.Equal(t, 10.0, FallRisk(Extract(events)))

	// 恰好 60% 不触发
	events[0].Activity = models.ActivityWalk
	assert.Equal(t, 0.0, FallRisk(Extract(events)))
}

func TestFallRisk_Upper(t *testing.T) {
	events := []models.ActivityEvent{
		ev(models.ActivityStatic, 0.5, true),
		ev(models.ActivityStatic, 0.5, true),
	}
	// 0.4 + 0.3 + 0 + 0.1
	assert.Equal(t, 80.0, FallRisk(Extract(events)))
}

func TestSafetyRisk(t *testing.T) {
	events := []models.ActivityEvent{
		ev(models.ActivityExercise, 0, false),
		ev(models.ActivityTransitions, 0, false),
		ev(models.ActivityWalk, 0, false),
	}
	assert.Equal(t, 66.67, SafetyRisk(Extract(events)))
}

func TestRehabProgress(t *testing.T) {
	allWalk := []models.ActivityEvent{ev(models.ActivityWalk, 0, false), ev(models.ActivityWalk, 0, false)}
	assert.Equal(t, 100.0, RehabProgress(Extract(allWalk)))

	events := []models.ActivityEvent{
		ev(models.ActivityWalk, 0, false),
		ev(models.ActivityTransitions, 0, true),
	}
	// 0.5×0.5 + 0.3×0.5 + 0.2×0.5 = 0.5
	assert.Equal(t, 50.0, RehabProgress(Extract(events)))
}

func TestScoreAll(t *testing.T) {
	m := Extract(scenarioBEvents())
	scores := ScoreAll(m)

	assert.Equal(t, FallRisk(m), scores.FallRisk)
	assert.Equal(t, SafetyRisk(m), scores.SafetyRisk)
	assert.Equal(t, RehabProgress(m), scores.RehabProgress)
}
