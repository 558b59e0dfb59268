package grid

import (
	"fmt"

	"github.com/aretw0/gridplan/pkg/domain"
)

// Resolve applies a single move from c. Leaving the grid or entering an
// obstacle deflects the agent back to c with the obstacle reward. Otherwise the
// agent arrives with the goal reward when the destination is the goal, and the
// step reward for any other destination.
//
// Resolve is the single-step rule shared by Transition and TracePath.
func (g *Grid) Resolve(c domain.Cell, a domain.Action) (domain.Cell, float64) {
	next := c.Move(a)
	if !next.In(g.width, g.height) || g.IsObstacle(next) {
		return c, g.rewards.Obstacle
	}
	if next == g.goal {
		return next, g.rewards.Goal
	}
	return next, g.rewards.Step
}

// Transition returns the outcome distribution of taking a in state c.
//
// The goal is absorbing: every action yields the single outcome (1, goal, 0).
// In deterministic mode exactly one outcome with probability 1 is returned. In
// stochastic mode up to three branches are resolved and branches landing on the
// same cell are merged into one outcome whose probability is the sum and whose
// reward is the probability-weighted average.
func (g *Grid) Transition(c domain.Cell, a domain.Action) ([]domain.Outcome, error) {
	if !g.states.Contains(c) {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnknownState, c)
	}
	if c == g.goal {
		return []domain.Outcome{{Probability: 1, Next: c, Reward: 0}}, nil
	}
	if !a.IsMove() {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnknownAction, a)
	}

	switch g.model {
	case Deterministic:
		next, reward := g.Resolve(c, a)
		return []domain.Outcome{{Probability: 1, Next: next, Reward: reward}}, nil
	case Stochastic:
		return g.stochastic(c, a), nil
	}
	return nil, fmt.Errorf("%w: %q", domain.ErrUnknownTransitionModel, g.model)
}

func (g *Grid) stochastic(c domain.Cell, a domain.Action) []domain.Outcome {
	branches := [3]struct {
		action domain.Action
		prob   float64
	}{
		{a, g.branches.Forward},
		{a.TurnLeft(), g.branches.Left},
		{a.TurnRight(), g.branches.Right},
	}

	outcomes := make([]domain.Outcome, 0, len(branches))
	for _, b := range branches {
		if b.prob <= 0 {
			continue
		}
		next, reward := g.Resolve(c, b.action)
		outcomes = merge(outcomes, domain.Outcome{Probability: b.prob, Next: next, Reward: reward})
	}
	return outcomes
}

// merge adds o to outcomes, folding it into an existing entry for the same cell.
func merge(outcomes []domain.Outcome, o domain.Outcome) []domain.Outcome {
	for i, existing := range outcomes {
		if existing.Next != o.Next {
			continue
		}
		p := existing.Probability + o.Probability
		outcomes[i] = domain.Outcome{
			Probability: p,
			Next:        o.Next,
			Reward:      (existing.Reward*existing.Probability + o.Reward*o.Probability) / p,
		}
		return outcomes
	}
	return append(outcomes, o)
}
