package pipeline

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	StagePrepare  = "prepare"
	StageAnalyze  = "analyze"
	StageResearch = "research"
	StageFormat   = "format"
)

// Metrics records pipeline stage durations, run outcomes and token usage
type Metrics struct {
	stageDuration *prometheus.HistogramVec
	runs          *prometheus.CounterVec
	tokens        *prometheus.CounterVec
}

// NewMetrics registers the pipeline metrics on reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		stageDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "medagent_pipeline_stage_duration_seconds",
				Help:    "Duration of pipeline stages in seconds",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
			},
			[]string{"stage", "model"},
		),
		runs: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "medagent_pipeline_runs_total",
				Help: "Total number of pipeline invocations by outcome",
			},
			[]string{"outcome", "model"},
		),
		tokens: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "medagent_llm_tokens_total",
				Help: "Total number of model tokens consumed",
			},
			[]string{"direction", "model"},
		),
	}
}

func (m *Metrics) observeStage(stage string, model ModelSelection, d time.Duration) {
	if m == nil {
		return
	}
	m.stageDuration.WithLabelValues(stage, string(model)).Observe(d.Seconds())
}

func (m *Metrics) observeRun(result *Result, model ModelSelection, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	m.runs.WithLabelValues(outcome, string(model)).Inc()
	if result != nil && result.Usage != nil {
		m.tokens.WithLabelValues("input", string(model)).Add(float64(result.Usage.InputTokens))
		m.tokens.WithLabelValues("output", string(model)).Add(float64(result.Usage.OutputTokens))
	}
}
