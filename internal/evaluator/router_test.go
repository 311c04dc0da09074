package evaluator

import (
	"testing"
	"time"

	"wisefido-motion/internal/models"
	"wisefido-motion/internal/workplace"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var ts = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

func newTestRouter() (*Router, *workplace.Engine) {
	engine := workplace.NewEngine(workplace.NewLedger(), zap.NewNop())
	r := NewRouter(engine, zap.NewNop())
	r.now = func() time.Time { return ts }
	return r, engine
}

func profile(userID string, role models.Role) models.UserProfile {
	return models.UserProfile{UserID: userID, Role: role}
}

func act(userID string, a models.Activity, p float64) models.ActivityEvent {
	return models.ActivityEvent{UserID: userID, Timestamp: ts, Activity: a, FallProb: p}
}

func TestRoute_Elderly_Insights(t *testing.T) {
	r, _ := newTestRouter()

	tests := []struct {
		name         string
		activity     models.Activity
		prob         float64
		insights     []string
		contributors []string
	}{
		{"walk", models.ActivityWalk, 0.1, []string{"Walking activity observed"}, []string{}},
		{"transitions", models.ActivityTransitions, 0.2,
			[]string{"Instability detected during posture change"}, []string{"transition_instability"}},
		{"static", models.ActivityStatic, 0.0, []string{"Prolonged inactivity detected"}, []string{"inactivity"}},
		{"exercise", models.ActivityExercise, 0.3, []string{"Fatigue risk detected"}, []string{}},
		{"stairs high prob", models.ActivityStairs, 0.8,
			[]string{"Stair usage increases fall risk", "High fall risk detected"},
			[]string{"stairs_risk", "fall_risk"}},
		{"threshold is strict", models.ActivityWalk, 0.6, []string{"Walking activity observed"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := r.Route(profile("E1", models.RoleElderly), act("E1", tt.activity, tt.prob), nil)

			rec, ok := out.(*ElderlyRecord)
			require.True(t, ok)
			assert.Equal(t, CollectionElderly, rec.Collection())
			assert.Equal(t, tt.insights, rec.Insights)
			assert.Equal(t, tt.contributors, rec.RiskContributors)
			assert.Equal(t, "Caregiver alert / preventive recommendation", rec.Output)
		})
	}
}

func TestRoute_Elderly_RoundsProbability(t *testing.T) {
	r, _ := newTestRouter()

	out := r.Route(profile("E1", models.RoleElderly), act("E1", models.ActivityWalk, 0.61234), nil)

	rec := out.(*ElderlyRecord)
	assert.Equal(t, 0.61, rec.FallProbability)
	assert.Equal(t, ts, rec.Timestamp)
}

func TestRoute_Employee_RestrictedWalk(t *testing.T) {
	r, engine := newTestRouter()
	z := &models.ZoneEvent{UserID: "EMP_1", Zone: models.ZoneRestricted, Timestamp: ts}

	out := r.Route(profile("EMP_1", models.RoleEmployee), act("EMP_1", models.ActivityWalk, 0), z)

	rec, ok := out.(*WorkplaceRecord)
	require.True(t, ok)
	assert.Equal(t, CollectionWorkplace, rec.Collection())
	assert.Equal(t, models.ZoneRestricted, rec.Zone)
	assert.Equal(t, []string{workplace.ViolationRestrictedEntry}, rec.Violations)
	assert.Equal(t, 1, rec.ViolationCount)
	assert.Equal(t, models.EscalationWarning, rec.EscalationLevel)
	assert.Equal(t, 85, rec.SafetyScore)
	require.Len(t, rec.Logged, 1)
	assert.Equal(t, 1, engine.ViolationCount("EMP_1"))
}

func TestRoute_Employee_NoZoneIsUnknown(t *testing.T) {
	r, _ := newTestRouter()

	out := r.Route(profile("EMP_2", models.RoleEmployee), act("EMP_2", models.ActivityWalk, 0), nil)

	rec := out.(*WorkplaceRecord)
	assert.Equal(t, models.ZoneUnknown, rec.Zone)
	assert.Empty(t, rec.Violations)
	assert.Equal(t, 0, rec.ViolationCount)
	assert.Equal(t, models.EscalationNone, rec.EscalationLevel)
	assert.Equal(t, 100, rec.SafetyScore)
}

func TestRoute_Employee_ForeignZoneIgnored(t *testing.T) {
	r, _ := newTestRouter()
	z := &models.ZoneEvent{UserID: "OTHER", Zone: models.ZoneRestricted, Timestamp: ts}

	out := r.Route(profile("EMP_3", models.RoleEmployee), act("EMP_3", models.ActivityWalk, 0), z)

	rec := out.(*WorkplaceRecord)
	assert.Equal(t, models.ZoneUnknown, rec.Zone)
	assert.Empty(t, rec.Violations)
}

func TestRoute_Employee_CountAccumulates(t *testing.T) {
	r, _ := newTestRouter()
	p := profile("EMP_4", models.RoleEmployee)

	var rec *WorkplaceRecord
	for i := 0; i < 3; i++ {
		rec = r.Route(p, act("EMP_4", models.ActivityExercise, 0), nil).(*WorkplaceRecord)
	}

	assert.Equal(t, 3, rec.ViolationCount)
	assert.Equal(t, models.EscalationSupervisor, rec.EscalationLevel)
	assert.Equal(t, 55, rec.SafetyScore)
}

func TestRoute_Rehab(t *testing.T) {
	r, _ := newTestRouter()

	out := r.Route(profile("R1", models.RoleRehab), act("R1", models.ActivityWalk, 0), nil)

	rec, ok := out.(*RehabRecord)
	require.True(t, ok)
	assert.Equal(t, CollectionRehab, rec.Collection())
	assert.Equal(t, "Tracked for rehabilitation analysis", rec.Status)
}

func TestRoute_Unknown(t *testing.T) {
	r, engine := newTestRouter()

	for _, role := range []models.Role{models.RoleUnknown, models.ParseRole("visitor")} {
		out := r.Route(profile("U1", role), act("U1", models.ActivityWalk, 0.9), nil)

		rec, ok := out.(*UnknownRecord)
		require.True(t, ok)
		assert.Equal(t, CollectionUnknown, rec.Collection())
		assert.Equal(t, "Unknown user role", rec.Message)
	}
	assert.Equal(t, 0, engine.ViolationCount("U1"))
}

func TestRoute_FillsUserIDFromProfile(t *testing.T) {
	r, _ := newTestRouter()

	out := r.Route(profile("E9", models.RoleElderly), act("", models.ActivityWalk, 0), nil)

	assert.Equal(t, "E9", out.(*ElderlyRecord).UserID)
}

func TestPayload_Keys(t *testing.T) {
	r, _ := newTestRouter()

	out := r.Route(profile("E1", models.RoleElderly), act("E1", models.ActivityStatic, 0), nil)
	p := out.Payload()

	assert.Equal(t, "elderly", p["domain"])
	assert.Equal(t, "E1", p["user_id"])
	assert.Equal(t, "Static", p["activity"])
	assert.Equal(t, ts.Format(time.RFC3339), p["timestamp"])
	assert.Contains(t, p, "insights")
	assert.Contains(t, p, "risk_contributors")
}
