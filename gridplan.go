package gridplan

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/aretw0/gridplan/internal/logging"
	"github.com/aretw0/gridplan/internal/metrics"
	"github.com/aretw0/gridplan/pkg/config"
	"github.com/aretw0/gridplan/pkg/domain"
	"github.com/aretw0/gridplan/pkg/evaluation"
	"github.com/aretw0/gridplan/pkg/grid"
	"github.com/aretw0/gridplan/pkg/solver"
	"github.com/prometheus/client_golang/prometheus"
)

// Planner is the high-level entry point for the library.
// It wires a validated configuration into a grid model, a solver and the
// Monte-Carlo evaluator. A Planner is not safe for concurrent use.
type Planner struct {
	cfg       config.Config
	grid      *grid.Grid
	solver    *solver.Solver
	logger    *slog.Logger
	hooks     domain.SolverHooks
	rng       *rand.Rand
	seed      uint64
	maxSweeps int
	reg       prometheus.Registerer
	metrics   *metrics.Collector
}

// Option defines a functional option for configuring the Planner.
type Option func(*Planner)

// WithLogger sets a custom structured logger for the planner and its solver.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Planner) {
		p.logger = logger
	}
}

// WithHooks registers solver observability hooks.
func WithHooks(hooks domain.SolverHooks) Option {
	return func(p *Planner) {
		p.hooks = hooks
	}
}

// WithSeed seeds the random source shared by Policy Iteration and the rollouts (default: 1).
func WithSeed(seed uint64) Option {
	return func(p *Planner) {
		p.seed = seed
	}
}

// WithRand injects the random source directly. It takes precedence over WithSeed.
func WithRand(rng *rand.Rand) Option {
	return func(p *Planner) {
		p.rng = rng
	}
}

// WithMaxSweeps overrides the solver's safety cap on sweeps and cycles.
func WithMaxSweeps(n int) Option {
	return func(p *Planner) {
		p.maxSweeps = n
	}
}

// WithMetrics registers Prometheus collectors with reg and records every run.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(p *Planner) {
		p.reg = reg
	}
}

// New validates cfg and builds the grid model and solver.
func New(cfg config.Config, opts ...Option) (*Planner, error) {
	p := &Planner{cfg: cfg, seed: 1}
	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = logging.NewNop()
	}
	if p.rng == nil {
		p.rng = solver.NewRand(p.seed)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	g, err := grid.New(cfg.GridOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to build grid: %w", err)
	}
	p.grid = g

	hooks := p.hooks
	if p.reg != nil {
		p.metrics, err = metrics.New(p.reg)
		if err != nil {
			return nil, fmt.Errorf("failed to register metrics: %w", err)
		}
		hooks = chainHooks(hooks, p.metrics.Hooks())
	}

	p.solver, err = solver.New(g, cfg.Gamma, cfg.Theta,
		solver.WithLogger(p.logger),
		solver.WithHooks(hooks),
		solver.WithRand(p.rng),
		solver.WithMaxSweeps(p.maxSweeps),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build solver: %w", err)
	}

	p.logger.Debug("planner ready",
		"width", cfg.Width, "height", cfg.Height,
		"states", g.States().Len(), "model", g.Model(),
		"gamma", cfg.Gamma, "theta", cfg.Theta)
	return p, nil
}

// Config returns the configuration the planner was built from.
func (p *Planner) Config() config.Config { return p.cfg }

// Model returns the grid MDP.
func (p *Planner) Model() *grid.Grid { return p.grid }

// Solver returns the underlying solver.
func (p *Planner) Solver() *solver.Solver { return p.solver }

// ValueIteration runs Value Iteration to convergence.
func (p *Planner) ValueIteration(ctx context.Context) (*domain.Result, error) {
	return p.solver.ValueIteration(ctx)
}

// PolicyIteration runs Policy Iteration to a stable policy.
func (p *Planner) PolicyIteration(ctx context.Context) (*domain.Result, error) {
	return p.solver.PolicyIteration(ctx)
}

// Solve runs each algorithm in order and returns their results.
func (p *Planner) Solve(ctx context.Context, algorithms ...domain.Algorithm) ([]*domain.Result, error) {
	results := make([]*domain.Result, 0, len(algorithms))
	for _, alg := range algorithms {
		var (
			res *domain.Result
			err error
		)
		switch alg {
		case domain.AlgorithmValueIteration:
			res, err = p.ValueIteration(ctx)
		case domain.AlgorithmPolicyIteration:
			res, err = p.PolicyIteration(ctx)
		default:
			return results, fmt.Errorf("%w: %q", domain.ErrUnknownAlgorithm, alg)
		}
		if err != nil {
			return results, fmt.Errorf("%s: %w", alg.Title(), err)
		}
		results = append(results, res)
	}
	return results, nil
}

// Evaluate rolls policy out Simulations times under the configured transition
// model, capping each run at MaxPathLength moves.
func (p *Planner) Evaluate(policy *domain.Policy) (evaluation.Stats, error) {
	return evaluation.EvaluatePolicy(p.grid, policy, p.cfg.Simulations, p.cfg.MaxPathLength, p.rng)
}

// Compare evaluates every result with the same rollout budget and records the
// statistics when metrics are enabled.
func (p *Planner) Compare(results ...*domain.Result) (evaluation.Comparison, error) {
	cmp, err := evaluation.Compare(p.grid, results, p.cfg.Simulations, p.cfg.MaxPathLength, p.rng)
	if err != nil {
		return cmp, err
	}
	if p.metrics != nil {
		p.metrics.ObserveComparison(cmp)
	}
	for _, e := range cmp.Entries {
		p.logger.Info("policy evaluated",
			"algorithm", e.Algorithm,
			"success_rate", e.Stats.SuccessRate,
			"avg_path_length", e.Stats.AvgPathLength)
	}
	return cmp, nil
}

// Trace follows policy deterministically from the start cell for at most
// MaxPathLength moves.
func (p *Planner) Trace(policy *domain.Policy) []domain.Cell {
	return p.grid.TracePath(policy, p.cfg.MaxPathLength)
}

func chainHooks(hooks ...domain.SolverHooks) domain.SolverHooks {
	return domain.SolverHooks{
		OnSweep: func(ctx context.Context, e *domain.SweepEvent) {
			for _, h := range hooks {
				if h.OnSweep != nil {
					h.OnSweep(ctx, e)
				}
			}
		},
		OnCycle: func(ctx context.Context, e *domain.CycleEvent) {
			for _, h := range hooks {
				if h.OnCycle != nil {
					h.OnCycle(ctx, e)
				}
			}
		},
		OnConverged: func(ctx context.Context, e *domain.ConvergedEvent) {
			for _, h := range hooks {
				if h.OnConverged != nil {
					h.OnConverged(ctx, e)
				}
			}
		},
	}
}
