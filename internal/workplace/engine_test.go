package workplace

import (
	"sync"
	"testing"
	"time"

	"wisefido-motion/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var ts = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

func newTestEngine() *Engine {
	e := NewEngine(NewLedger(), zap.NewNop())
	e.now = func() time.Time { return ts }
	return e
}

func activity(userID string, a models.Activity) models.ActivityEvent {
	return models.ActivityEvent{UserID: userID, Timestamp: ts, Activity: a}
}

func zone(userID string, z models.Zone) models.ZoneEvent {
	return models.ZoneEvent{UserID: userID, Zone: z, Timestamp: ts}
}

func TestEngine_Evaluate_RestrictedEntry(t *testing.T) {
	e := newTestEngine()

	violations := e.Evaluate(zone("EMP_101", models.ZoneRestricted), activity("EMP_101", models.ActivityWalk))

	require.Len(t, violations, 1)
	v := violations[0]
	assert.NotEmpty(t, v.ViolationID)
	assert.Equal(t, "EMP_101", v.UserID)
	assert.Equal(t, ViolationRestrictedEntry, v.ViolationType)
	assert.Equal(t, models.LevelHigh, v.Severity)
	assert.Equal(t, models.ZoneRestricted, v.Zone)
	assert.Equal(t, ts, v.Timestamp)
	assert.Equal(t, 1, e.ViolationCount("EMP_101"))
}

func TestEngine_Evaluate_UserMismatchIsNoop(t *testing.T) {
	e := newTestEngine()

	violations := e.Evaluate(zone("EMP_101", models.ZoneRestricted), activity("EMP_202", models.ActivityWalk))

	assert.Nil(t, violations)
	assert.Equal(t, 0, e.ViolationCount("EMP_101"))
	assert.Equal(t, 0, e.ViolationCount("EMP_202"))
}

func TestEngine_ActivityOnlyRulesIgnoreZone(t *testing.T) {
	tests := []struct {
		activity models.Activity
		want     string
		severity models.Level
	}{
		{models.ActivityExercise, ViolationOverexertion, models.LevelMedium},
		{models.ActivityStatic, ViolationCollapseRisk, models.LevelMedium},
		{models.ActivityTransitions, ViolationUnsafePosture, models.LevelLow},
	}

	for _, tt := range tests {
		t.Run(string(tt.activity), func(t *testing.T) {
			for _, z := range []models.Zone{models.ZoneSafe, models.ZoneRestricted, models.ZoneHazard} {
				e := newTestEngine()
				violations := e.Evaluate(zone("u", z), activity("u", tt.activity))
				require.Len(t, violations, 1)
				assert.Equal(t, tt.want, violations[0].ViolationType)
				assert.Equal(t, tt.severity, violations[0].Severity)
			}
		})
	}
}

func TestEngine_HazardStairs(t *testing.T) {
	e := newTestEngine()

	violations := e.Evaluate(zone("u", models.ZoneHazard), activity("u", models.ActivityStairs))
	require.Len(t, violations, 1)
	assert.Equal(t, ViolationHazardStairs, violations[0].ViolationType)

	// 安全区走楼梯、限制区之外步行都不算违规
	assert.Empty(t, e.Evaluate(zone("u", models.ZoneSafe), activity("u", models.ActivityStairs)))
	assert.Empty(t, e.Evaluate(zone("u", models.ZoneHazard), activity("u", models.ActivityWalk)))
	assert.Equal(t, 1, e.ViolationCount("u"))
}

func TestEngine_EvaluateActivity_MissingZone(t *testing.T) {
	e := newTestEngine()

	z, violations := e.EvaluateActivity(activity("u", models.ActivityWalk), nil)
	assert.Equal(t, models.ZoneUnknown, z)
	assert.Empty(t, violations)

	z, violations = e.EvaluateActivity(activity("u", models.ActivityStatic), nil)
	assert.Equal(t, models.ZoneUnknown, z)
	require.Len(t, violations, 1)
	assert.Equal(t, models.ZoneUnknown, violations[0].Zone)

	other := zone("someone-else", models.ZoneRestricted)
	z, violations = e.EvaluateActivity(activity("u", models.ActivityWalk), &other)
	assert.Equal(t, models.ZoneUnknown, z)
	assert.Empty(t, violations)

	anonymous := models.ZoneEvent{Zone: models.ZoneRestricted}
	z, violations = e.EvaluateActivity(activity("u", models.ActivityWalk), &anonymous)
	assert.Equal(t, models.ZoneRestricted, z)
	assert.Len(t, violations, 1)
}

func TestEngine_ScenarioD_FiveViolations(t *testing.T) {
	e := newTestEngine()
	e.Evaluate(zone("EMP_101", models.ZoneRestricted), activity("EMP_101", models.ActivityWalk))
	e.Evaluate(zone("EMP_101", models.ZoneSafe), activity("EMP_101", models.ActivityExercise))
	e.Evaluate(zone("EMP_101", models.ZoneSafe), activity("EMP_101", models.ActivityStatic))
	e.Evaluate(zone("EMP_101", models.ZoneHazard), activity("EMP_101", models.ActivityStairs))
	e.Evaluate(zone("EMP_101", models.ZoneSafe), activity("EMP_101", models.ActivityTransitions))

	dashboard := e.Dashboard("EMP_101", models.ZoneRestricted)

	assert.Equal(t, 5, dashboard.ViolationCount)
	assert.Equal(t, models.EscalationAdmin, dashboard.EscalationLevel)
	assert.Equal(t, 25, dashboard.SafetyScore)
	assert.Equal(t, models.LevelHigh, dashboard.ZoneRiskLevel)
	assert.Len(t, e.Violations("EMP_101"), 5)
}

func TestEscalationAndSafetyScore(t *testing.T) {
	expected := map[int]models.EscalationLevel{
		0: models.EscalationNone,
		1: models.EscalationWarning,
		2: models.EscalationWarning,
		3: models.EscalationSupervisor,
		4: models.EscalationSupervisor,
		5: models.EscalationAdmin,
		9: models.EscalationAdmin,
	}
	for count, want := range expected {
		assert.Equal(t, want, Escalation(count), "count=%d", count)
	}

	assert.Equal(t, 100, SafetyScore(0))
	assert.Equal(t, 55, SafetyScore(3))
	assert.Equal(t, 10, SafetyScore(6))
	assert.Equal(t, 0, SafetyScore(7))
	assert.Equal(t, 0, SafetyScore(100))
}

func TestZoneRiskLevel(t *testing.T) {
	assert.Equal(t, models.LevelHigh, ZoneRiskLevel(models.ZoneRestricted))
	assert.Equal(t, models.LevelMedium, ZoneRiskLevel(models.ZoneHazard))
	assert.Equal(t, models.LevelLow, ZoneRiskLevel(models.ZoneSafe))
	assert.Equal(t, models.LevelLow, ZoneRiskLevel(models.ZoneUnknown))
}

func TestEngine_CounterMonotonicUnderConcurrency(t *testing.T) {
	e := newTestEngine()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				e.Evaluate(zone("u", models.ZoneSafe), activity("u", models.ActivityStatic))
			}
		}()
	}

	last := 0
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	for {
		c := e.ViolationCount("u")
		assert.GreaterOrEqual(t, c, last)
		last = c
		select {
		case <-done:
			assert.Equal(t, 500, e.ViolationCount("u"))
			return
		default:
		}
	}
}
