package analysis

import (
	"testing"
	"time"

	"wisefido-motion/internal/models"

	"github.com/stretchr/testify/assert"
)

var base = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

func ev(a models.Activity, fallProb float64, isFall bool) models.ActivityEvent {
	return models.ActivityEvent{Timestamp: base, Activity: a, FallProb: fallProb, IsFall: isFall}
}

func TestExtract_Empty(t *testing.T) {
	assert.Equal(t, models.Metrics{}, Extract(nil))
	assert.Equal(t, models.Metrics{}, Extract([]models.ActivityEvent{}))
}

func TestExtract_Counts(t *testing.T) {
	events := []models.ActivityEvent{
		ev(models.ActivityWalk, 0.1, false),
		ev(models.ActivityWalk, 0.5, false),
		ev(models.ActivityTransitions, 0.69, false),
		ev(models.ActivityStatic, 0.2, true),
		ev(models.ActivityExercise, 0.3, false),
		ev(models.ActivityStairs, 0.9, true),
	}

	m := Extract(events)

	assert.Equal(t, 2, m.Walk)
	assert.Equal(t, 1, m.Transitions)
	assert.Equal(t, 1, m.Static)
	assert.Equal(t, 1, m.Exercise)
	assert.Equal(t, 1, m.Stairs)
	assert.Equal(t, 2, m.NearFall)
	assert.Equal(t, 2, m.Fall)
	assert.Equal(t, 6, m.Total)
}

func TestIsNearFall_HalfOpenInterval(t *testing.T) {
	assert.False(t, IsNearFall(ev(models.ActivityWalk, 0.4499, false)))
	assert.True(t, IsNearFall(ev(models.ActivityWalk, 0.45, false)))
	assert.True(t, IsNearFall(ev(models.ActivityWalk, 0.6999, false)))
	assert.False(t, IsNearFall(ev(models.ActivityWalk, 0.7, false)))
}
