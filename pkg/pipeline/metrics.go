package pipeline

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeSuccess      = "success"
	OutcomePromptFailed = "prompt_failed"
	OutcomeImageFailed  = "image_failed"
	OutcomeSaveFailed   = "save_failed"

	StagePrompt = "prompt"
	StageImage  = "image"
	StageSave   = "save"
)

// Metrics records per-slide outcomes and per-stage latency on a private
// registry. A nil *Metrics records nothing.
type Metrics struct {
	registry      *prometheus.Registry
	slides        *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them on a fresh registry
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		slides: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "slidegen_slides_total",
			Help: "Slides processed, by outcome.",
		}, []string{"outcome"}),
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "slidegen_stage_duration_seconds",
			Help:    "Duration of each per-slide pipeline stage.",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}, []string{"stage"}),
	}
	m.registry.MustRegister(m.slides, m.stageDuration)
	return m
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes all metrics in the node-exporter textfile format
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}

func (m *Metrics) countOutcome(outcome string) {
	if m == nil {
		return
	}
	m.slides.WithLabelValues(outcome).Inc()
}

func (m *Metrics) observeStage(stage string, started time.Time) {
	if m == nil {
		return
	}
	m.stageDuration.WithLabelValues(stage).Observe(time.Since(started).Seconds())
}
