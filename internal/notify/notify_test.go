package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"wisefido-motion/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var at = time.Date(2024, 6, 1, 8, 30, 0, 0, time.UTC)

func TestFallRiskMessage(t *testing.T) {
	local := at.In(time.FixedZone("UTC+8", 8*3600))
	assert.Equal(t, "Fall risk alert: user E1 scored 72.50 at 2024-06-01 08:30:00 UTC", FallRiskMessage("E1", 72.5, local))
}

func TestSMSNotifier_SendsAboveThreshold(t *testing.T) {
	var got smsRequest
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := NewSMSNotifier(SMSConfig{Endpoint: srv.URL, Token: "tok", From: "+100", To: "+200"}, 70, zap.NewNop())

	sent, err := n.NotifyFallRisk(context.Background(), "E1", 85, at)
	require.NoError(t, err)
	assert.True(t, sent)
	assert.Equal(t, "Bearer tok", auth)
	assert.Equal(t, "+200", got.To)
	assert.Contains(t, got.Message, "E1")
	assert.Contains(t, got.Message, "85.00")
}

func TestSMSNotifier_AtThresholdNotSent(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer srv.Close()

	n := NewSMSNotifier(SMSConfig{Endpoint: srv.URL, To: "+200"}, 70, zap.NewNop())

	sent, err := n.NotifyFallRisk(context.Background(), "E1", 70, at)
	require.NoError(t, err)
	assert.False(t, sent)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestSMSNotifier_UnconfiguredSkips(t *testing.T) {
	n := NewSMSNotifier(SMSConfig{}, 70, zap.NewNop())

	sent, err := n.NotifyFallRisk(context.Background(), "E1", 99, at)
	require.NoError(t, err)
	assert.False(t, sent)
}

func TestSMSNotifier_GatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	n := NewSMSNotifier(SMSConfig{Endpoint: srv.URL, To: "+200"}, 70, zap.NewNop())

	sent, err := n.NotifyFallRisk(context.Background(), "E1", 90, at)
	assert.Error(t, err)
	assert.False(t, sent)
}

type fakePublisher struct {
	topic    string
	retained bool
	payload  []byte
	err      error
}

func (f *fakePublisher) Publish(topic string, _ byte, retained bool, payload []byte) error {
	f.topic, f.retained, f.payload = topic, retained, payload
	return f.err
}

func TestAlertPublisher_Publish(t *testing.T) {
	fp := &fakePublisher{}
	p := NewAlertPublisher(fp, "motion/%s/alert", 1, zap.NewNop())

	alert := models.CaregiverAlert{AlertID: "a1", UserID: "E1", Severity: models.LevelHigh}
	require.NoError(t, p.Publish(alert))

	assert.Equal(t, "motion/E1/alert", fp.topic)
	assert.True(t, fp.retained)
	var decoded models.CaregiverAlert
	require.NoError(t, json.Unmarshal(fp.payload, &decoded))
	assert.Equal(t, models.LevelHigh, decoded.Severity)
}

func TestAlertPublisher_Errors(t *testing.T) {
	boom := errors.New("broker gone")
	p := NewAlertPublisher(&fakePublisher{err: boom}, "motion/%s/alert", 1, zap.NewNop())
	assert.ErrorIs(t, p.Publish(models.CaregiverAlert{UserID: "E1"}), boom)

	nop := NewAlertPublisher(nil, "motion/%s/alert", 1, zap.NewNop())
	assert.NoError(t, nop.Publish(models.CaregiverAlert{UserID: "E1"}))
}
