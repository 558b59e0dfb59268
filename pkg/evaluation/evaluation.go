// Package evaluation estimates how well a policy performs by Monte-Carlo
// rollouts against a transition model.
package evaluation

import (
	"encoding/json"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/aretw0/gridplan/pkg/domain"
)

// Environment is the part of the MDP a rollout needs.
type Environment interface {
	Start() domain.Cell
	Goal() domain.Cell
	Transition(domain.Cell, domain.Action) ([]domain.Outcome, error)
}

// Stats summarizes a batch of rollouts.
type Stats struct {
	Runs      int `json:"runs"`
	Successes int `json:"successes"`
	// SuccessRate is a percentage in [0, 100].
	SuccessRate float64 `json:"success_rate"`
	// AvgPathLength averages successful runs only; +Inf when none succeeded.
	AvgPathLength float64 `json:"avg_path_length"`
}

// MarshalJSON encodes an infinite average path length as null.
func (s Stats) MarshalJSON() ([]byte, error) {
	type plain Stats
	out := struct {
		plain
		AvgPathLength *float64 `json:"avg_path_length"`
	}{plain: plain(s)}
	if !math.IsInf(s.AvgPathLength, 0) && !math.IsNaN(s.AvgPathLength) {
		out.AvgPathLength = &s.AvgPathLength
	}
	return json.Marshal(out)
}

// UnmarshalJSON restores a null average path length as +Inf.
func (s *Stats) UnmarshalJSON(data []byte) error {
	type plain Stats
	var in struct {
		plain
		AvgPathLength *float64 `json:"avg_path_length"`
	}
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*s = Stats(in.plain)
	s.AvgPathLength = math.Inf(1)
	if in.AvgPathLength != nil {
		s.AvgPathLength = *in.AvgPathLength
	}
	return nil
}

// SimulateRun follows policy from the start cell, sampling each transition
// with rng. It succeeds on reaching the goal within maxSteps moves. A state with
// no action or the GOAL sentinel ends the run as a failure.
func SimulateRun(env Environment, policy *domain.Policy, maxSteps int, rng *rand.Rand) (bool, int, error) {
	state := env.Start()
	steps := 0
	for i := 0; i < maxSteps; i++ {
		if state == env.Goal() {
			return true, steps, nil
		}
		action, ok := policy.At(state)
		if !ok || !action.IsMove() {
			return false, steps, nil
		}
		outcomes, err := env.Transition(state, action)
		if err != nil {
			return false, steps, fmt.Errorf("rollout step %d: %w", steps, err)
		}
		next, err := sample(outcomes, rng.Float64())
		if err != nil {
			return false, steps, fmt.Errorf("rollout step %d from %v %v: %w", steps, state, action, err)
		}
		state = next
		steps++
	}
	// Arriving on the last allowed move still counts as failure.
	return false, steps, nil
}

// sample picks the outcome whose cumulative probability first exceeds u.
// Rounding slack past the last cumulative bound falls on the last outcome.
func sample(outcomes []domain.Outcome, u float64) (domain.Cell, error) {
	if len(outcomes) == 0 {
		return domain.Cell{}, fmt.Errorf("%w: empty outcome distribution", domain.ErrInvalidConfig)
	}
	var acc float64
	for _, o := range outcomes {
		acc += o.Probability
		if u < acc {
			return o.Next, nil
		}
	}
	return outcomes[len(outcomes)-1].Next, nil
}

// EvaluatePolicy runs SimulateRun runs times.
func EvaluatePolicy(env Environment, policy *domain.Policy, runs, maxSteps int, rng *rand.Rand) (Stats, error) {
	stats := Stats{Runs: runs}
	total := 0
	for i := 0; i < runs; i++ {
		ok, steps, err := SimulateRun(env, policy, maxSteps, rng)
		if err != nil {
			return stats, err
		}
		if ok {
			stats.Successes++
			total += steps
		}
	}
	if runs > 0 {
		stats.SuccessRate = float64(stats.Successes) / float64(runs) * 100
	}
	stats.AvgPathLength = math.Inf(1)
	if stats.Successes > 0 {
		stats.AvgPathLength = float64(total) / float64(stats.Successes)
	}
	return stats, nil
}

// Entry is one algorithm's column in a Comparison.
type Entry struct {
	Algorithm  domain.Algorithm `json:"algorithm"`
	Iterations int              `json:"iterations"`
	Elapsed    time.Duration    `json:"elapsed"`
	Stats      Stats            `json:"stats"`
}

// Comparison gathers the evaluated results of several solver runs.
type Comparison struct {
	Entries []Entry `json:"entries"`
}

// Compare evaluates each result's policy with the same rollout budget.
func Compare(env Environment, results []*domain.Result, runs, maxSteps int, rng *rand.Rand) (Comparison, error) {
	var cmp Comparison
	for _, res := range results {
		stats, err := EvaluatePolicy(env, res.Policy, runs, maxSteps, rng)
		if err != nil {
			return cmp, fmt.Errorf("evaluate %s: %w", res.Algorithm, err)
		}
		cmp.Entries = append(cmp.Entries, Entry{
			Algorithm:  res.Algorithm,
			Iterations: res.Iterations,
			Elapsed:    res.Elapsed,
			Stats:      stats,
		})
	}
	return cmp, nil
}
