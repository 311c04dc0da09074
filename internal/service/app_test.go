package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"wisefido-motion/internal/config"
	"wisefido-motion/internal/models"
	"wisefido-motion/internal/sink"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// blockingConsumer 模拟入口流消费：阻塞到 ctx 取消
type blockingConsumer struct{}

func (blockingConsumer) Start(ctx context.Context) error {
	<-ctx.Done()
	return nil
}

func newTestApp(t *testing.T, users int) (*App, *sink.Memory, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	logger := zap.New(core)

	mem := sink.NewMemory()
	async := sink.NewAsync(mem, 1<<16, logger)
	svc := NewMotionService(NewComponents(7, async, zap.NewNop()), zap.NewNop())

	ts := time.Date(2024, 6, 30, 9, 0, 0, 0, time.UTC)
	for i := 0; i < users; i++ {
		userID := fmt.Sprintf("ELD_%03d", i)
		svc.Events.AddEvent(userID, models.ActivityEvent{UserID: userID, Timestamp: ts, Activity: models.ActivityWalk})
	}

	app := &App{
		config:         &config.Config{},
		logger:         zap.NewNop(),
		Motion:         svc,
		asyncSink:      async,
		streamConsumer: blockingConsumer{},
		assessInterval: time.Millisecond,
	}
	return app, mem, logs
}

func TestApp_StopDrainsInFlightRound(t *testing.T) {
	for run := 0; run < 5; run++ {
		app, mem, logs := newTestApp(t, 200)

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- app.Start(ctx) }()

		time.Sleep(20 * time.Millisecond)
		cancel()
		require.NoError(t, app.Stop())
		require.NoError(t, <-done)

		assert.Zero(t, logs.FilterMessage("Sink closed, document dropped").Len())
		assert.Zero(t, logs.FilterMessage("Sink queue full, document dropped").Len())

		// 每个完成的评估都写出了 risk_scores
		snapshots := 0
		for _, userID := range app.Motion.Events.Users() {
			snapshots += len(app.Motion.RiskHistory(userID))
		}
		assert.Equal(t, snapshots, len(mem.Collection(CollectionRiskScores)))
		assert.Equal(t, snapshots, len(mem.Collection(CollectionAlerts)))
	}
}

func TestApp_StartAfterStopReturns(t *testing.T) {
	app, _, _ := newTestApp(t, 1)

	require.NoError(t, app.Stop())

	done := make(chan error, 1)
	go func() { done <- app.Start(context.Background()) }()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Start did not return after Stop")
	}
}
