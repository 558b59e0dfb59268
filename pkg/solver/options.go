package solver

import (
	"log/slog"
	"math/rand/v2"

	"github.com/aretw0/gridplan/pkg/domain"
)

// DefaultMaxSweeps bounds every convergence loop. A contraction with γ<1 never
// gets close; hitting it signals a misconfigured discount factor.
const DefaultMaxSweeps = 100_000

// defaultSeed is used when neither WithSeed nor WithRand is given.
const defaultSeed uint64 = 1

// Option defines a functional option for configuring the Solver.
type Option func(*Solver)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Solver) {
		s.logger = logger
	}
}

// WithHooks registers observability hooks.
func WithHooks(hooks domain.SolverHooks) Option {
	return func(s *Solver) {
		s.hooks = hooks
	}
}

// WithRand injects the random source for Policy Iteration's initial policy.
func WithRand(rng *rand.Rand) Option {
	return func(s *Solver) {
		s.rng = rng
	}
}

// WithSeed seeds a deterministic PCG source for Policy Iteration's initial policy.
func WithSeed(seed uint64) Option {
	return func(s *Solver) {
		s.rng = NewRand(seed)
	}
}

// WithMaxSweeps overrides DefaultMaxSweeps. Non-positive values are ignored.
func WithMaxSweeps(n int) Option {
	return func(s *Solver) {
		if n > 0 {
			s.maxSweeps = n
		}
	}
}

// NewRand returns the PCG source the solver uses for a given seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
