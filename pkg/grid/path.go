package grid

import "github.com/aretw0/gridplan/pkg/domain"

// TracePath replays policy from the start cell using Resolve, returning the
// visited cells including the start. It stops on reaching the goal, on a state
// with no action or the GOAL sentinel, or after maxSteps moves.
func (g *Grid) TracePath(policy *domain.Policy, maxSteps int) []domain.Cell {
	path := []domain.Cell{g.start}
	current := g.start
	for step := 0; step < maxSteps; step++ {
		if current == g.goal {
			break
		}
		a, ok := policy.At(current)
		if !ok || !a.IsMove() {
			break
		}
		current, _ = g.Resolve(current, a)
		path = append(path, current)
	}
	return path
}
