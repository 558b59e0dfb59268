package solver_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/aretw0/gridplan/internal/testutils"
	"github.com/aretw0/gridplan/pkg/domain"
	"github.com/aretw0/gridplan/pkg/grid"
	"github.com/aretw0/gridplan/pkg/solver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RejectsBadParameters(t *testing.T) {
	g := testutils.Open(t, 3, 3)
	_, err := solver.New(g, -0.5, 1e-4)
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
	_, err = solver.New(g, 0.9, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
	_, err = solver.New(g, math.NaN(), 1e-4)
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

// emptyModel drops every outcome of the wrapped grid.
type emptyModel struct{ *grid.Grid }

func (emptyModel) Transition(domain.Cell, domain.Action) ([]domain.Outcome, error) {
	return nil, nil
}

func TestNew_RejectsEmptyDistribution(t *testing.T) {
	_, err := solver.New(emptyModel{testutils.Open(t, 2, 2)}, 0.9, 1e-4)
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestValueIteration_OpenGrid(t *testing.T) {
	g := testutils.Open(t, 3, 3)
	s, err := solver.New(g, 0.9, 1e-4)
	require.NoError(t, err)

	res, err := s.ValueIteration(context.Background())
	require.NoError(t, err)

	assert.Equal(t, domain.AlgorithmValueIteration, res.Algorithm)
	assert.Greater(t, res.Iterations, 0)
	assert.Less(t, res.Iterations, 20, "deterministic 3x3 should settle in a few sweeps")
	assert.Len(t, res.Deltas, res.Iterations)

	first, ok := res.Policy.At(domain.Cell{Row: 0, Col: 0})
	require.True(t, ok)
	assert.Contains(t, []domain.Action{domain.ActionDown, domain.ActionRight}, first)

	path := g.TracePath(res.Policy, 50)
	assert.Len(t, path, 5, "four moves from (0,0) to (2,2)")
	assert.Equal(t, g.Goal(), path[len(path)-1])

	// Next to the goal the value is exactly the goal reward.
	v, _ := res.Values.At(domain.Cell{Row: 2, Col: 1})
	assert.InDelta(t, 100.0, v, 1e-9)
	v, _ = res.Values.At(g.Goal())
	assert.Equal(t, 0.0, v)
}

func TestValueIteration_TieBreakByEnumerationOrder(t *testing.T) {
	g := testutils.Open(t, 3, 3)
	s, err := solver.New(g, 0.9, 1e-4)
	require.NoError(t, err)
	res, err := s.ValueIteration(context.Background())
	require.NoError(t, err)

	// DOWN and RIGHT are symmetric from (0,0); DOWN comes first.
	a, _ := res.Policy.At(domain.Cell{Row: 0, Col: 0})
	assert.Equal(t, domain.ActionDown, a)
}

func TestExtractPolicy(t *testing.T) {
	s, err := solver.New(testutils.Warehouse(t, grid.Stochastic), 0.99, 1e-4)
	require.NoError(t, err)
	vi, err := s.ValueIteration(context.Background())
	require.NoError(t, err)

	extracted := s.ExtractPolicy(vi.Values)
	assert.Equal(t, vi.Policy.Slice(), extracted.Slice())

	goal, ok := extracted.At(domain.Cell{Row: 9, Col: 9})
	require.True(t, ok)
	assert.Equal(t, domain.ActionGoal, goal)

	// With zero values only the immediate reward counts. From (0,0) UP and LEFT
	// bump; DOWN and RIGHT share the best reward and DOWN comes first.
	zero := s.ExtractPolicy(domain.NewValueFunction(s.Space(), nil))
	first, _ := zero.At(domain.Cell{Row: 0, Col: 0})
	assert.Equal(t, domain.ActionDown, first)
}

func TestValueIteration_DeltaEventuallyDecreases(t *testing.T) {
	s, err := solver.New(testutils.Warehouse(t, grid.Stochastic), 0.99, 1e-4)
	require.NoError(t, err)
	res, err := s.ValueIteration(context.Background())
	require.NoError(t, err)

	require.NotEmpty(t, res.Deltas)
	last := res.Deltas[len(res.Deltas)-1]
	assert.Less(t, last, 1e-4)

	// Over any window of 50 sweeps the max delta must shrink.
	for i := 0; i+50 < len(res.Deltas); i += 50 {
		assert.LessOrEqual(t, res.Deltas[i+50], res.Deltas[i], "sweep %d", i)
	}
}

func TestPolicyTotality(t *testing.T) {
	g := testutils.Warehouse(t, grid.Stochastic)
	s, err := solver.New(g, 0.99, 1e-4, solver.WithSeed(7))
	require.NoError(t, err)

	ctx := context.Background()
	vi, err := s.ValueIteration(ctx)
	require.NoError(t, err)
	pi, err := s.PolicyIteration(ctx)
	require.NoError(t, err)

	for _, res := range []*domain.Result{vi, pi} {
		require.Equal(t, g.States().Len(), res.Policy.Len())
		for _, c := range g.States().Cells() {
			a, ok := res.Policy.At(c)
			require.True(t, ok, "%s: %v has no action", res.Algorithm, c)
			if c == g.Goal() {
				assert.Equal(t, domain.ActionGoal, a)
			} else {
				assert.True(t, a.IsMove(), "%s: %v maps to %v", res.Algorithm, c, a)
			}
		}
	}
}

func TestValueAndPolicyIterationAgree(t *testing.T) {
	const gamma, theta = 0.9, 1e-8
	// Both runs stop within theta*gamma/(1-gamma) of the fixed point.
	tol := 2 * theta * gamma / (1 - gamma)

	for _, model := range []grid.TransitionModel{grid.Deterministic, grid.Stochastic} {
		t.Run(string(model), func(t *testing.T) {
			g := testutils.Warehouse(t, model)
			s, err := solver.New(g, gamma, theta, solver.WithSeed(42))
			require.NoError(t, err)

			ctx := context.Background()
			vi, err := s.ValueIteration(ctx)
			require.NoError(t, err)
			pi, err := s.PolicyIteration(ctx)
			require.NoError(t, err)

			for i := 0; i < g.States().Len(); i++ {
				assert.InDelta(t, vi.Values.Value(i), pi.Values.Value(i), tol, "state %v", g.States().Cell(i))
			}

			for i, c := range g.States().Cells() {
				if c == g.Goal() {
					continue
				}
				if !uniqueOptimum(t, s, vi.Values, c, 1e-6) {
					continue
				}
				assert.Equal(t, vi.Policy.Action(i), pi.Policy.Action(i), "state %v", c)
			}
		})
	}
}

func uniqueOptimum(t *testing.T, s *solver.Solver, values *domain.ValueFunction, c domain.Cell, margin float64) bool {
	t.Helper()
	best, second := math.Inf(-1), math.Inf(-1)
	for _, a := range domain.Actions {
		q, err := s.Q(values, c, a)
		require.NoError(t, err)
		switch {
		case q > best:
			best, second = q, best
		case q > second:
			second = q
		}
	}
	return best-second > margin
}

func TestPolicyIteration_SeedOnlyAffectsIterations(t *testing.T) {
	g := testutils.Warehouse(t, grid.Deterministic)
	ctx := context.Background()

	var runs []*domain.Result
	for _, seed := range []uint64{1, 2, 3} {
		s, err := solver.New(g, 0.9, 1e-8, solver.WithSeed(seed))
		require.NoError(t, err)
		res, err := s.PolicyIteration(ctx)
		require.NoError(t, err)
		assert.Len(t, res.EvaluationSweeps, res.Iterations)
		runs = append(runs, res)
	}
	for _, res := range runs[1:] {
		for i := 0; i < g.States().Len(); i++ {
			assert.InDelta(t, runs[0].Values.Value(i), res.Values.Value(i), 1e-6)
		}
	}

	// Same seed, same run.
	a, err := solver.New(g, 0.9, 1e-8, solver.WithSeed(9))
	require.NoError(t, err)
	b, err := solver.New(g, 0.9, 1e-8, solver.WithSeed(9))
	require.NoError(t, err)
	ra, err := a.PolicyIteration(ctx)
	require.NoError(t, err)
	rb, err := b.PolicyIteration(ctx)
	require.NoError(t, err)
	assert.Equal(t, ra.Iterations, rb.Iterations)
	assert.Equal(t, ra.EvaluationSweeps, rb.EvaluationSweeps)
	assert.Equal(t, ra.Policy.Slice(), rb.Policy.Slice())
}

func TestEvaluatePolicy(t *testing.T) {
	g := testutils.NewGrid(t, grid.Options{
		Width: 3, Height: 1,
		Start: domain.Cell{Row: 0, Col: 0}, Goal: domain.Cell{Row: 0, Col: 2},
		Model: grid.Deterministic,
	})
	s, err := solver.New(g, 0.5, 1e-10)
	require.NoError(t, err)

	policy := domain.NewPolicy(g.States(), []domain.Action{domain.ActionRight, domain.ActionRight, domain.ActionGoal})
	values, sweeps, err := s.EvaluatePolicy(context.Background(), policy, nil)
	require.NoError(t, err)
	assert.Greater(t, sweeps, 0)

	// V(0,1) = 100; V(0,0) = -1 + 0.5*100.
	assert.InDelta(t, 100.0, values.Value(1), 1e-9)
	assert.InDelta(t, 49.0, values.Value(0), 1e-9)

	q, err := s.Q(values, domain.Cell{Row: 0, Col: 0}, domain.ActionLeft)
	require.NoError(t, err)
	assert.InDelta(t, -10+0.5*49.0, q, 1e-9)

	_, _, err = s.EvaluatePolicy(context.Background(), domain.NewPolicy(g.States(), nil), nil)
	assert.ErrorIs(t, err, domain.ErrUnknownAction)
}

func TestSafetyCap(t *testing.T) {
	// The start is walled off from the goal; with gamma=1 its value falls forever.
	g := testutils.NewGrid(t, grid.Options{
		Width: 3, Height: 1,
		Start: domain.Cell{Row: 0, Col: 0}, Goal: domain.Cell{Row: 0, Col: 2},
		Obstacles: []domain.Cell{{Row: 0, Col: 1}},
		Model:     grid.Deterministic,
	})
	s, err := solver.New(g, 1.0, 1e-4, solver.WithMaxSweeps(50))
	require.NoError(t, err)

	_, err = s.ValueIteration(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotConverged)

	_, err = s.PolicyIteration(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotConverged)
}

func TestUnreachableGoalStillConverges(t *testing.T) {
	g := testutils.NewGrid(t, grid.Options{
		Width: 3, Height: 1,
		Start: domain.Cell{Row: 0, Col: 0}, Goal: domain.Cell{Row: 0, Col: 2},
		Obstacles: []domain.Cell{{Row: 0, Col: 1}},
		Model:     grid.Deterministic,
	})
	s, err := solver.New(g, 0.9, 1e-6)
	require.NoError(t, err)
	res, err := s.ValueIteration(context.Background())
	require.NoError(t, err)

	// Every move bounces: V = -10 / (1 - 0.9).
	v, _ := res.Values.At(g.Start())
	assert.InDelta(t, -100.0, v, 1e-4)
}

func TestCancellation(t *testing.T) {
	s, err := solver.New(testutils.Warehouse(t, grid.Stochastic), 0.99, 1e-4)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = s.ValueIteration(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
	_, err = s.PolicyIteration(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestHooks(t *testing.T) {
	var sweeps, cycles, converged int
	var lastDelta float64
	hooks := domain.SolverHooks{
		OnSweep: func(_ context.Context, e *domain.SweepEvent) {
			sweeps++
			lastDelta = e.Delta
		},
		OnCycle: func(_ context.Context, e *domain.CycleEvent) {
			cycles++
			assert.Equal(t, domain.AlgorithmPolicyIteration, e.Algorithm)
		},
		OnConverged: func(_ context.Context, e *domain.ConvergedEvent) {
			converged++
		},
	}
	s, err := solver.New(testutils.Open(t, 3, 3), 0.9, 1e-4, solver.WithHooks(hooks))
	require.NoError(t, err)

	res, err := s.ValueIteration(context.Background())
	require.NoError(t, err)
	assert.Equal(t, res.Iterations, sweeps)
	assert.Less(t, lastDelta, 1e-4)
	assert.Equal(t, 1, converged)

	sweeps = 0
	res, err = s.PolicyIteration(context.Background())
	require.NoError(t, err)
	assert.Equal(t, res.Iterations, cycles)
	total := 0
	for _, n := range res.EvaluationSweeps {
		total += n
	}
	assert.Equal(t, total, sweeps)
	assert.Equal(t, 2, converged)
}
