package grid

import (
	"fmt"

	"github.com/aretw0/gridplan/pkg/domain"
)

// Grid is the immutable MDP model of a grid world.
type Grid struct {
	width, height int
	start, goal   domain.Cell
	obstacles     map[domain.Cell]struct{}
	rewards       Rewards
	model         TransitionModel
	branches      Branches
	states        *domain.StateSpace
}

// New validates opts and builds the state space.
// It fails when start or goal is an obstacle or out of bounds, when the
// transition model is unknown, or when stochastic branches do not form a
// probability distribution.
func New(opts Options) (*Grid, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("%w: grid must be at least 1x1, got %dx%d", domain.ErrInvalidConfig, opts.Width, opts.Height)
	}
	switch opts.Model {
	case Deterministic:
	case Stochastic:
		if err := opts.Branches.Validate(); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownTransitionModel, opts.Model)
	}

	g := &Grid{
		width:     opts.Width,
		height:    opts.Height,
		start:     opts.Start,
		goal:      opts.Goal,
		obstacles: make(map[domain.Cell]struct{}, len(opts.Obstacles)),
		rewards:   opts.Rewards,
		model:     opts.Model,
		branches:  opts.Branches,
	}
	for _, o := range opts.Obstacles {
		if !o.In(g.width, g.height) {
			return nil, fmt.Errorf("%w: obstacle %v", domain.ErrOutOfBounds, o)
		}
		g.obstacles[o] = struct{}{}
	}
	if !g.start.In(g.width, g.height) {
		return nil, fmt.Errorf("%w: start %v", domain.ErrOutOfBounds, g.start)
	}
	if !g.goal.In(g.width, g.height) {
		return nil, fmt.Errorf("%w: goal %v", domain.ErrOutOfBounds, g.goal)
	}
	if g.IsObstacle(g.start) {
		return nil, domain.ErrStartOnObstacle
	}
	if g.IsObstacle(g.goal) {
		return nil, domain.ErrGoalOnObstacle
	}

	g.states = domain.NewStateSpace(g.width, g.height, g.IsObstacle)
	return g, nil
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// Start returns the start cell.
func (g *Grid) Start() domain.Cell { return g.start }

// Goal returns the absorbing goal cell.
func (g *Grid) Goal() domain.Cell { return g.goal }

// Model returns the transition model selector.
func (g *Grid) Model() TransitionModel { return g.model }

// Rewards returns the reward constants.
func (g *Grid) Rewards() Rewards { return g.rewards }

// Branches returns the stochastic branch probabilities.
func (g *Grid) Branches() Branches { return g.branches }

// States returns the enumerated state space.
func (g *Grid) States() *domain.StateSpace { return g.states }

// IsObstacle reports whether c is an obstacle.
func (g *Grid) IsObstacle(c domain.Cell) bool {
	_, ok := g.obstacles[c]
	return ok
}

// Obstacles returns the obstacle cells in row-major order.
func (g *Grid) Obstacles() []domain.Cell {
	out := make([]domain.Cell, 0, len(g.obstacles))
	for r := 0; r < g.height; r++ {
		for c := 0; c < g.width; c++ {
			cell := domain.Cell{Row: r, Col: c}
			if g.IsObstacle(cell) {
				out = append(out, cell)
			}
		}
	}
	return out
}

// Reward returns the goal reward for the goal cell and the step reward otherwise.
// The obstacle reward is applied when a move is resolved, not looked up by cell.
func (g *Grid) Reward(c domain.Cell) float64 {
	if c == g.goal {
		return g.rewards.Goal
	}
	return g.rewards.Step
}
