package observability

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "motion_"

	ResultSuccess  = "success"
	ResultError    = "error"
	ResultRejected = "rejected"
)

var (
	registerOnce sync.Once

	ingestTotal        *prometheus.CounterVec
	violationsTotal    *prometheus.CounterVec
	alertsTotal        *prometheus.CounterVec
	sinkWritesTotal    *prometheus.CounterVec
	notificationsTotal *prometheus.CounterVec
	assessLatency      *prometheus.HistogramVec
	trackedUsers       prometheus.Gauge
)

// Init 注册指标（重复调用安全）
func Init() {
	registerOnce.Do(func() {
		ingestTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "ingest_events_total",
				Help: "Ingested motion events by kind and result",
			},
			[]string{"kind", "result"},
		)
		violationsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "workplace_violations_total",
				Help: "Workplace violations by severity",
			},
			[]string{"severity"},
		)
		alertsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "caregiver_alerts_total",
				Help: "Composed caregiver alerts by severity",
			},
			[]string{"severity"},
		)
		sinkWritesTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "sink_writes_total",
				Help: "Sink writes by sink, collection and result",
			},
			[]string{"sink", "collection", "result"},
		)
		notificationsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "notifications_total",
				Help: "Outbound notifications by channel and result",
			},
			[]string{"channel", "result"},
		)
		assessLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "assessment_latency_seconds",
				Help:    "Per-user assessment latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)
		trackedUsers = prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: metricPrefix + "tracked_users",
				Help: "Users with at least one stored event",
			},
		)

		prometheus.MustRegister(
			ingestTotal,
			violationsTotal,
			alertsTotal,
			sinkWritesTotal,
			notificationsTotal,
			assessLatency,
			trackedUsers,
		)
	})
}

func IncIngest(kind, result string) {
	if ingestTotal != nil {
		ingestTotal.WithLabelValues(kind, result).Inc()
	}
}

func AddViolations(severity string, n int) {
	if violationsTotal != nil && n > 0 {
		violationsTotal.WithLabelValues(severity).Add(float64(n))
	}
}

func IncAlert(severity string) {
	if alertsTotal != nil {
		alertsTotal.WithLabelValues(severity).Inc()
	}
}

func IncSinkWrite(sink, collection, result string) {
	if sinkWritesTotal != nil {
		sinkWritesTotal.WithLabelValues(sink, collection, result).Inc()
	}
}

func IncNotification(channel, result string) {
	if notificationsTotal != nil {
		notificationsTotal.WithLabelValues(channel, result).Inc()
	}
}

func ObserveAssessment(result string, duration time.Duration) {
	if assessLatency != nil {
		assessLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

func SetTrackedUsers(n int) {
	if trackedUsers != nil {
		trackedUsers.Set(float64(n))
	}
}
