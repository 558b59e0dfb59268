package grid

import (
	"fmt"
	"math"

	"github.com/aretw0/gridplan/pkg/domain"
)

// TransitionModel selects the transition dynamics.
type TransitionModel string

const (
	Deterministic TransitionModel = "deterministic"
	Stochastic    TransitionModel = "stochastic"
)

// Rewards holds the reward constants of the grid.
type Rewards struct {
	Goal     float64 `json:"goal"`
	Obstacle float64 `json:"obstacle"`
	Step     float64 `json:"step"`
}

// Branches holds the stochastic branch probabilities, relative to the heading.
type Branches struct {
	Forward float64 `json:"forward"`
	Left    float64 `json:"left"`
	Right   float64 `json:"right"`
}

// Validate checks that every branch probability is in [0,1] and that they sum
// to 1 within 1e-9.
func (b Branches) Validate() error {
	for _, p := range []struct {
		name string
		prob float64
	}{{"forward", b.Forward}, {"left", b.Left}, {"right", b.Right}} {
		if math.IsNaN(p.prob) || p.prob < 0 || p.prob > 1 {
			return fmt.Errorf("%w: %s probability must be in [0,1], got %v", domain.ErrInvalidConfig, p.name, p.prob)
		}
	}
	if sum := b.Forward + b.Left + b.Right; math.Abs(sum-1) > 1e-9 {
		return fmt.Errorf("%w: branch probabilities must sum to 1, got %v", domain.ErrInvalidConfig, sum)
	}
	return nil
}

// Options describes a grid. All fields are copied by New.
type Options struct {
	Width, Height int
	Start, Goal   domain.Cell
	Obstacles     []domain.Cell
	Rewards       Rewards
	Model         TransitionModel
	Branches      Branches
}
