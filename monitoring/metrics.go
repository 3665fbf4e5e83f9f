package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sarchlab/casesim/tracing"
)

// metricsTracer exports case activity as prometheus counters.
type metricsTracer struct {
	cycles          *prometheus.CounterVec
	candidateRuns   *prometheus.CounterVec
	candidateErrors *prometheus.CounterVec
	editSteps       *prometheus.CounterVec
	structVersion   *prometheus.GaugeVec

	progress func(skipped bool)
	version  func(container string) uint64
}

func newMetricsTracer(reg prometheus.Registerer) *metricsTracer {
	t := &metricsTracer{
		cycles: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "casesim",
				Subsystem: "case",
				Name:      "phases_total",
				Help:      "Cycle phases processed by cases.",
			},
			[]string{"case", "phase"},
		),
		candidateRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "casesim",
				Subsystem: "case",
				Name:      "candidate_runs_total",
				Help:      "Executions of each candidate.",
			},
			[]string{"case", "candidate"},
		),
		candidateErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "casesim",
				Subsystem: "case",
				Name:      "candidate_errors_total",
				Help:      "Cycle phases in which a candidate failed.",
			},
			[]string{"case", "phase"},
		),
		editSteps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "casesim",
				Subsystem: "structure",
				Name:      "edit_steps_total",
				Help:      "Steps of structural edits, including mirrored ones.",
			},
			[]string{"container", "step", "propagated"},
		),
		structVersion: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "casesim",
				Subsystem: "structure",
				Name:      "version",
				Help:      "Structural version of each container.",
			},
			[]string{"container"},
		),
	}

	reg.MustRegister(
		t.cycles,
		t.candidateRuns,
		t.candidateErrors,
		t.editSteps,
		t.structVersion,
	)

	return t
}

func (t *metricsTracer) TraceCycle(e tracing.CycleEvent) {
	t.cycles.WithLabelValues(e.Case, e.Phase).Inc()

	if e.Err != nil {
		t.candidateErrors.WithLabelValues(e.Case, e.Phase).Inc()
		return
	}

	if e.Phase == "run" {
		t.candidateRuns.WithLabelValues(e.Case, e.Candidate).Inc()
	}

	if (e.Phase == "finalize" || e.Phase == "skip") && t.progress != nil {
		t.progress(e.Phase == "skip")
	}
}

func (t *metricsTracer) TraceEdit(e tracing.EditEvent) {
	propagated := "false"
	if e.Propagated {
		propagated = "true"
	}

	t.editSteps.WithLabelValues(e.Container, e.Step, propagated).Inc()

	if t.version != nil {
		t.structVersion.WithLabelValues(e.Container).
			Set(float64(t.version(e.Container)))
	}
}
