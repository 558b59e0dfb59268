package solver

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand/v2"
	"time"

	"github.com/aretw0/gridplan/pkg/domain"
)

// Model is the MDP the solver runs against.
type Model interface {
	States() *domain.StateSpace
	Goal() domain.Cell
	Transition(domain.Cell, domain.Action) ([]domain.Outcome, error)
}

// edge is a transition outcome with the next state resolved to its index.
type edge struct {
	prob   float64
	next   int
	reward float64
}

// Solver runs Value Iteration and Policy Iteration over a Model.
type Solver struct {
	space     *domain.StateSpace
	goal      int
	gamma     float64
	theta     float64
	maxSweeps int
	table     [][len(domain.Actions)][]edge
	logger    *slog.Logger
	hooks     domain.SolverHooks
	rng       *rand.Rand
}

// New builds a solver for model with discount factor gamma and convergence
// threshold theta. The model's transition function is evaluated once for every
// (state, action) pair.
func New(model Model, gamma, theta float64, opts ...Option) (*Solver, error) {
	if math.IsNaN(gamma) || gamma < 0 {
		return nil, fmt.Errorf("%w: discount factor must be non-negative, got %v", domain.ErrInvalidConfig, gamma)
	}
	if math.IsNaN(theta) || theta <= 0 {
		return nil, fmt.Errorf("%w: convergence threshold must be positive, got %v", domain.ErrInvalidConfig, theta)
	}

	space := model.States()
	goal, ok := space.Index(model.Goal())
	if !ok {
		return nil, fmt.Errorf("%w: goal %v", domain.ErrUnknownState, model.Goal())
	}

	s := &Solver{
		space:     space,
		goal:      goal,
		gamma:     gamma,
		theta:     theta,
		maxSweeps: DefaultMaxSweeps,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if s.rng == nil {
		s.rng = NewRand(defaultSeed)
	}

	s.table = make([][len(domain.Actions)][]edge, space.Len())
	for i := range s.table {
		cell := space.Cell(i)
		for k, a := range domain.Actions {
			outcomes, err := model.Transition(cell, a)
			if err != nil {
				return nil, fmt.Errorf("transition %v %v: %w", cell, a, err)
			}
			if len(outcomes) == 0 {
				return nil, fmt.Errorf("transition %v %v: %w: empty outcome distribution", cell, a, domain.ErrInvalidConfig)
			}
			edges := make([]edge, len(outcomes))
			for j, o := range outcomes {
				next, ok := space.Index(o.Next)
				if !ok {
					return nil, fmt.Errorf("transition %v %v: %w: next %v", cell, a, domain.ErrUnknownState, o.Next)
				}
				edges[j] = edge{prob: o.Probability, next: next, reward: o.Reward}
			}
			s.table[i][k] = edges
		}
	}
	return s, nil
}

// Gamma returns the discount factor.
func (s *Solver) Gamma() float64 { return s.gamma }

// Theta returns the convergence threshold.
func (s *Solver) Theta() float64 { return s.theta }

// Space returns the state space the solver's tables are indexed by.
func (s *Solver) Space() *domain.StateSpace { return s.space }

// slot maps a movement action to its position in domain.Actions.
func slot(a domain.Action) int {
	return int(a - domain.ActionUp)
}

// q is the Bellman backup of state i under action slot k against values v.
func (s *Solver) q(v []float64, i, k int) float64 {
	var sum float64
	for _, e := range s.table[i][k] {
		sum += e.prob * (e.reward + s.gamma*v[e.next])
	}
	return sum
}

// greedy returns the first action in enumeration order achieving the max Q.
func (s *Solver) greedy(v []float64, i int) (domain.Action, float64) {
	best, bestQ := domain.Actions[0], s.q(v, i, 0)
	for k := 1; k < len(domain.Actions); k++ {
		if q := s.q(v, i, k); q > bestQ {
			best, bestQ = domain.Actions[k], q
		}
	}
	return best, bestQ
}

// Q returns the action value of taking a in cell c under values.
func (s *Solver) Q(values *domain.ValueFunction, c domain.Cell, a domain.Action) (float64, error) {
	i, ok := s.space.Index(c)
	if !ok {
		return 0, fmt.Errorf("%w: %v", domain.ErrUnknownState, c)
	}
	if !a.IsMove() {
		return 0, fmt.Errorf("%w: %v", domain.ErrUnknownAction, a)
	}
	if values.Len() != s.space.Len() {
		return 0, fmt.Errorf("%w: value table has %d entries, want %d", domain.ErrInvalidConfig, values.Len(), s.space.Len())
	}
	return s.q(values.Slice(), i, slot(a)), nil
}

// ExtractPolicy returns the greedy policy of values. The goal maps to ActionGoal.
func (s *Solver) ExtractPolicy(values *domain.ValueFunction) *domain.Policy {
	return domain.NewPolicy(s.space, s.extract(values.Slice()))
}

func (s *Solver) extract(v []float64) []domain.Action {
	actions := make([]domain.Action, s.space.Len())
	for i := range actions {
		if i == s.goal {
			actions[i] = domain.ActionGoal
			continue
		}
		actions[i], _ = s.greedy(v, i)
	}
	return actions
}

func (s *Solver) emitSweep(ctx context.Context, alg domain.Algorithm, cycle, sweep int, delta float64) {
	s.logger.Debug("sweep", "algorithm", alg, "cycle", cycle, "sweep", sweep, "delta", delta)
	if s.hooks.OnSweep != nil {
		s.hooks.OnSweep(ctx, &domain.SweepEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventSweep, Algorithm: alg},
			Sweep:     sweep,
			Cycle:     cycle,
			Delta:     delta,
		})
	}
}

func (s *Solver) emitConverged(ctx context.Context, alg domain.Algorithm, iterations int, elapsed time.Duration) {
	s.logger.Info("converged", "algorithm", alg, "iterations", iterations, "elapsed", elapsed)
	if s.hooks.OnConverged != nil {
		s.hooks.OnConverged(ctx, &domain.ConvergedEvent{
			EventBase:  domain.EventBase{Timestamp: time.Now(), Type: domain.EventConverged, Algorithm: alg},
			Iterations: iterations,
			Elapsed:    elapsed,
		})
	}
}
