package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PipelineMetrics instruments task pipeline runs.
type PipelineMetrics struct {
	registry *prometheus.Registry

	tasksTotal    *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec
	fallbackTotal prometheus.Counter
	inFlight      prometheus.Gauge
}

func NewPipelineMetrics() *PipelineMetrics {
	registry := prometheus.NewRegistry()

	tasksTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docufield",
			Subsystem: "pipeline",
			Name:      "tasks_total",
			Help:      "Finished pipeline runs by terminal status.",
		},
		[]string{"status"},
	)
	stageDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "docufield",
			Subsystem: "pipeline",
			Name:      "stage_duration_seconds",
			Help:      "Duration of pipeline stages in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"stage"},
	)
	fallbackTotal := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "docufield",
			Subsystem: "pipeline",
			Name:      "extraction_fallback_total",
			Help:      "Primary extraction failures recovered by the regex fallback.",
		},
	)
	inFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "docufield",
			Subsystem: "pipeline",
			Name:      "tasks_in_flight",
			Help:      "Number of pipeline runs currently executing.",
		},
	)

	registry.MustRegister(tasksTotal, stageDuration, fallbackTotal, inFlight)

	return &PipelineMetrics{
		registry:      registry,
		tasksTotal:    tasksTotal,
		stageDuration: stageDuration,
		fallbackTotal: fallbackTotal,
		inFlight:      inFlight,
	}
}

// Handler serves the registry for scraping.
func (m *PipelineMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *PipelineMetrics) StartTask() {
	if m == nil {
		return
	}
	m.inFlight.Inc()
}

func (m *PipelineMetrics) FinishTask(status string) {
	if m == nil {
		return
	}
	m.inFlight.Dec()
	m.tasksTotal.WithLabelValues(status).Inc()
}

func (m *PipelineMetrics) ObserveStage(stage string, d time.Duration) {
	if m == nil {
		return
	}
	m.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (m *PipelineMetrics) FallbackUsed() {
	if m == nil {
		return
	}
	m.fallbackTotal.Inc()
}
