package analysis

import (
	"testing"
	"time"

	"wisefido-motion/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestComposeAlert_Stable(t *testing.T) {
	drift := models.DriftResult{DriftLevel: models.LevelLow, Alerts: []string{models.NoDriftAlert}}

	alert := ComposeAlert("ELD_01", models.TrendStable, drift, base)

	assert.NotEmpty(t, alert.AlertID)
	assert.Equal(t, "ELD_01", alert.UserID)
	assert.Equal(t, models.LevelLow, alert.Severity)
	assert.Equal(t, []string{RecommendLow}, alert.Messages)
}

func TestComposeAlert_IncreasingWithHighDrift(t *testing.T) {
	drift := models.DriftResult{
		DriftScore: 2,
		DriftLevel: models.LevelHigh,
		Alerts:     []string{AlertWalkDecline, AlertInactivityIncrease},
	}
	trend := AnalyzeTrend(history(42, 55, 68))

	alert := ComposeAlert("ELD_01", trend, drift, base)

	assert.Equal(t, models.LevelHigh, alert.Severity)
	assert.Equal(t, models.TrendIncreasing, alert.Trend)
	assert.Equal(t, []string{
		MsgRiskIncreasing,
		MsgDriftHigh,
		AlertWalkDecline,
		AlertInactivityIncrease,
		RecommendHigh,
	}, alert.Messages)
}

func TestComposeAlert_MediumDriftDoesNotDowngradeHighTrend(t *testing.T) {
	drift := models.DriftResult{DriftScore: 1, DriftLevel: models.LevelMedium, Alerts: []string{AlertTransitionIncrease}}

	alert := ComposeAlert("u", models.TrendHigh, drift, base)

	assert.Equal(t, models.LevelHigh, alert.Severity)
	assert.Equal(t, []string{MsgRiskHigh, MsgDriftMedium, AlertTransitionIncrease, RecommendHigh}, alert.Messages)
}

func TestComposeAlert_MediumOnly(t *testing.T) {
	drift := models.DriftResult{DriftLevel: models.LevelLow, Alerts: []string{models.NoDriftAlert}}

	alert := ComposeAlert("u", models.TrendIncreasing, drift, base)

	assert.Equal(t, models.LevelMedium, alert.Severity)
	assert.Equal(t, []string{MsgRiskIncreasing, RecommendMedium}, alert.Messages)
}

func TestComposeAlert_TimestampIsUTC(t *testing.T) {
	local := time.Date(2024, 6, 1, 9, 0, 0, 0, time.FixedZone("X", 3600))
	drift := models.DriftResult{DriftLevel: models.LevelLow, Alerts: []string{models.NoDriftAlert}}

	alert := ComposeAlert("u", models.TrendStable, drift, local)

	assert.Equal(t, time.UTC, alert.Timestamp.Location())
	assert.True(t, alert.Timestamp.Equal(local))
}
