package solver

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/aretw0/gridplan/pkg/domain"
)

// PolicyIteration alternates policy evaluation and greedy improvement, starting
// from a uniformly random policy and V=0, until no state changes its action.
// Each evaluation is warm-started from the previous cycle's values.
// Result.Iterations is the outer cycle count; Result.EvaluationSweeps holds the
// nested evaluation sweep count of every cycle.
func (s *Solver) PolicyIteration(ctx context.Context) (*domain.Result, error) {
	const alg = domain.AlgorithmPolicyIteration
	start := time.Now()

	policy := s.randomPolicy()
	values := make([]float64, s.space.Len())
	var evalSweeps []int

	cycle := 0
	for {
		if cycle >= s.maxSweeps {
			return nil, fmt.Errorf("policy iteration: %w (%d cycles)", domain.ErrNotConverged, s.maxSweeps)
		}
		cycle++

		var (
			sweeps int
			err    error
		)
		values, sweeps, err = s.evaluate(ctx, alg, cycle, policy, values)
		if err != nil {
			return nil, fmt.Errorf("policy iteration: cycle %d: %w", cycle, err)
		}
		evalSweeps = append(evalSweeps, sweeps)

		improved := make([]domain.Action, len(policy))
		changed := 0
		for i := range policy {
			if i == s.goal {
				improved[i] = domain.ActionGoal
				continue
			}
			best, _ := s.greedy(values, i)
			if best != policy[i] {
				changed++
			}
			improved[i] = best
		}
		policy = improved

		s.logger.Debug("cycle", "algorithm", alg, "cycle", cycle, "evaluation_sweeps", sweeps, "changed", changed)
		if s.hooks.OnCycle != nil {
			s.hooks.OnCycle(ctx, &domain.CycleEvent{
				EventBase:        domain.EventBase{Timestamp: time.Now(), Type: domain.EventCycle, Algorithm: alg},
				Cycle:            cycle,
				EvaluationSweeps: sweeps,
				Changed:          changed,
			})
		}

		if changed == 0 {
			break
		}
	}

	elapsed := time.Since(start)
	s.emitConverged(ctx, alg, cycle, elapsed)

	return &domain.Result{
		Algorithm:        alg,
		Policy:           domain.NewPolicy(s.space, policy),
		Values:           domain.NewValueFunction(s.space, values),
		Iterations:       cycle,
		Elapsed:          elapsed,
		EvaluationSweeps: evalSweeps,
	}, nil
}

// EvaluatePolicy computes the value function of policy by synchronous sweeps of
// V[s] = Q(s, policy[s]) until the largest change drops below theta. A nil init
// starts from V=0. It returns the values and the number of sweeps taken.
func (s *Solver) EvaluatePolicy(ctx context.Context, policy *domain.Policy, init *domain.ValueFunction) (*domain.ValueFunction, int, error) {
	if policy.Len() != s.space.Len() {
		return nil, 0, fmt.Errorf("%w: policy has %d entries, want %d", domain.ErrInvalidConfig, policy.Len(), s.space.Len())
	}
	actions := policy.Slice()
	for i, a := range actions {
		if i != s.goal && !a.IsMove() {
			return nil, 0, fmt.Errorf("%w: state %v has action %q", domain.ErrUnknownAction, s.space.Cell(i), a)
		}
	}

	values := make([]float64, s.space.Len())
	if init != nil {
		if init.Len() != s.space.Len() {
			return nil, 0, fmt.Errorf("%w: value table has %d entries, want %d", domain.ErrInvalidConfig, init.Len(), s.space.Len())
		}
		values = init.Slice()
	}

	out, sweeps, err := s.evaluate(ctx, "", 0, actions, values)
	if err != nil {
		return nil, 0, err
	}
	return domain.NewValueFunction(s.space, out), sweeps, nil
}

// evaluate runs policy evaluation sweeps starting from init and returns a fresh table.
func (s *Solver) evaluate(ctx context.Context, alg domain.Algorithm, cycle int, policy []domain.Action, init []float64) ([]float64, int, error) {
	n := s.space.Len()
	prev := make([]float64, n)
	copy(prev, init)
	next := make([]float64, n)

	sweep := 0
	for {
		if sweep >= s.maxSweeps {
			return nil, sweep, fmt.Errorf("policy evaluation: %w (%d sweeps)", domain.ErrNotConverged, s.maxSweeps)
		}
		if err := ctx.Err(); err != nil {
			return nil, sweep, err
		}
		sweep++

		var delta float64
		for i := 0; i < n; i++ {
			if i == s.goal {
				next[i] = prev[i]
				continue
			}
			v := s.q(prev, i, slot(policy[i]))
			delta = math.Max(delta, math.Abs(v-prev[i]))
			next[i] = v
		}
		prev, next = next, prev
		s.emitSweep(ctx, alg, cycle, sweep, delta)

		if delta < s.theta {
			return prev, sweep, nil
		}
	}
}

// randomPolicy draws an independent uniform action for every non-goal state.
func (s *Solver) randomPolicy() []domain.Action {
	policy := make([]domain.Action, s.space.Len())
	for i := range policy {
		if i == s.goal {
			policy[i] = domain.ActionGoal
			continue
		}
		policy[i] = domain.Actions[s.rng.IntN(len(domain.Actions))]
	}
	return policy
}
