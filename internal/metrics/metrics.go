// Package metrics exposes solver and evaluation progress as Prometheus metrics.
package metrics

import (
	"context"

	"github.com/aretw0/gridplan/pkg/domain"
	"github.com/aretw0/gridplan/pkg/evaluation"
	"github.com/prometheus/client_golang/prometheus"
)

// Collector holds the planner's Prometheus collectors.
type Collector struct {
	sweeps        *prometheus.CounterVec
	delta         *prometheus.GaugeVec
	policyChanges *prometheus.CounterVec
	iterations    *prometheus.GaugeVec
	duration      *prometheus.HistogramVec
	successRate   *prometheus.GaugeVec
	avgPathLength *prometheus.GaugeVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		sweeps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gridplan_sweeps_total",
				Help: "Total number of synchronous sweeps over the state space",
			},
			[]string{"algorithm"},
		),
		delta: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "gridplan_sweep_delta",
				Help: "Largest value change of the most recent sweep",
			},
			[]string{"algorithm"},
		),
		policyChanges: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gridplan_policy_changes_total",
				Help: "States whose action changed during policy improvement",
			},
			[]string{"algorithm"},
		),
		iterations: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "gridplan_iterations",
				Help: "Iterations (sweeps or cycles) taken by the last converged run",
			},
			[]string{"algorithm"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gridplan_solve_duration_seconds",
				Help:    "Wall time of converged solver runs",
				Buckets: prometheus.ExponentialBuckets(0.0005, 4, 10),
			},
			[]string{"algorithm"},
		),
		successRate: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "gridplan_evaluation_success_ratio",
				Help: "Fraction of Monte-Carlo rollouts that reached the goal",
			},
			[]string{"algorithm"},
		),
		avgPathLength: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "gridplan_evaluation_path_length",
				Help: "Average path length of successful rollouts",
			},
			[]string{"algorithm"},
		),
	}

	for _, col := range []prometheus.Collector{
		c.sweeps, c.delta, c.policyChanges, c.iterations, c.duration, c.successRate, c.avgPathLength,
	} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Hooks returns solver hooks that record into the collectors.
// Policy-evaluation sweeps run outside a solver algorithm are labelled "evaluation".
func (c *Collector) Hooks() domain.SolverHooks {
	return domain.SolverHooks{
		OnSweep: func(_ context.Context, e *domain.SweepEvent) {
			alg := label(e.Algorithm)
			c.sweeps.WithLabelValues(alg).Inc()
			c.delta.WithLabelValues(alg).Set(e.Delta)
		},
		OnCycle: func(_ context.Context, e *domain.CycleEvent) {
			c.policyChanges.WithLabelValues(label(e.Algorithm)).Add(float64(e.Changed))
		},
		OnConverged: func(_ context.Context, e *domain.ConvergedEvent) {
			alg := label(e.Algorithm)
			c.iterations.WithLabelValues(alg).Set(float64(e.Iterations))
			c.duration.WithLabelValues(alg).Observe(e.Elapsed.Seconds())
		},
	}
}

// ObserveComparison records rollout statistics per algorithm.
// Without a successful rollout the average path length is infinite, so the
// algorithm's series is removed instead.
func (c *Collector) ObserveComparison(cmp evaluation.Comparison) {
	for _, e := range cmp.Entries {
		alg := label(e.Algorithm)
		c.successRate.WithLabelValues(alg).Set(e.Stats.SuccessRate / 100)
		if e.Stats.Successes > 0 {
			c.avgPathLength.WithLabelValues(alg).Set(e.Stats.AvgPathLength)
		} else {
			c.avgPathLength.DeleteLabelValues(alg)
		}
	}
}

func label(a domain.Algorithm) string {
	if a == "" {
		return "evaluation"
	}
	return string(a)
}
