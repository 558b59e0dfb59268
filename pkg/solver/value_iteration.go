package solver

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/aretw0/gridplan/pkg/domain"
)

// ValueIteration repeats synchronous Bellman optimality sweeps from V=0 until
// the largest per-state change drops below theta, then extracts the greedy policy.
// Result.Iterations is the sweep count and Result.Deltas the per-sweep changes.
func (s *Solver) ValueIteration(ctx context.Context) (*domain.Result, error) {
	const alg = domain.AlgorithmValueIteration
	start := time.Now()

	n := s.space.Len()
	prev := make([]float64, n)
	next := make([]float64, n)
	var deltas []float64

	sweep := 0
	for {
		if sweep >= s.maxSweeps {
			return nil, fmt.Errorf("value iteration: %w (%d sweeps)", domain.ErrNotConverged, s.maxSweeps)
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sweep++

		var delta float64
		for i := 0; i < n; i++ {
			if i == s.goal {
				next[i] = prev[i]
				continue
			}
			_, best := s.greedy(prev, i)
			delta = math.Max(delta, math.Abs(best-prev[i]))
			next[i] = best
		}
		prev, next = next, prev
		deltas = append(deltas, delta)
		s.emitSweep(ctx, alg, 0, sweep, delta)

		if delta < s.theta {
			break
		}
	}

	policy := s.extract(prev)
	elapsed := time.Since(start)
	s.emitConverged(ctx, alg, sweep, elapsed)

	return &domain.Result{
		Algorithm:  alg,
		Policy:     domain.NewPolicy(s.space, policy),
		Values:     domain.NewValueFunction(s.space, prev),
		Iterations: sweep,
		Elapsed:    elapsed,
		Deltas:     deltas,
	}, nil
}
