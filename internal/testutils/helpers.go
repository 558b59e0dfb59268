// Package testutils holds grid fixtures shared by the package tests.
package testutils

import (
	"testing"

	"github.com/aretw0/gridplan/pkg/domain"
	"github.com/aretw0/gridplan/pkg/grid"
	"github.com/stretchr/testify/require"
)

// Rewards are the reward constants used across the tests.
var Rewards = grid.Rewards{Goal: 100, Obstacle: -10, Step: -1}

// Branches is the 0.8/0.1/0.1 stochastic split.
var Branches = grid.Branches{Forward: 0.8, Left: 0.1, Right: 0.1}

// NewGrid builds a grid and fails the test immediately on error.
// Zero Rewards become Rewards; a stochastic grid with zero Branches gets Branches.
func NewGrid(t testing.TB, opts grid.Options) *grid.Grid {
	t.Helper()
	if opts.Rewards == (grid.Rewards{}) {
		opts.Rewards = Rewards
	}
	if opts.Model == "" {
		opts.Model = grid.Deterministic
	}
	if opts.Model == grid.Stochastic && opts.Branches == (grid.Branches{}) {
		opts.Branches = Branches
	}
	g, err := grid.New(opts)
	require.NoError(t, err, "failed to build grid")
	return g
}

// Open builds an obstacle-free deterministic grid from (0,0) to the bottom-right corner.
func Open(t testing.TB, width, height int) *grid.Grid {
	t.Helper()
	return NewGrid(t, grid.Options{
		Width: width, Height: height,
		Start: domain.Cell{Row: 0, Col: 0},
		Goal:  domain.Cell{Row: height - 1, Col: width - 1},
	})
}

// Warehouse builds the 10x10 floor with 22 shelves used by the default configuration.
func Warehouse(t testing.TB, model grid.TransitionModel) *grid.Grid {
	t.Helper()
	return NewGrid(t, grid.Options{
		Width: 10, Height: 10,
		Start: domain.Cell{Row: 0, Col: 0}, Goal: domain.Cell{Row: 9, Col: 9},
		Obstacles: []domain.Cell{
			{Row: 1, Col: 2}, {Row: 1, Col: 3}, {Row: 1, Col: 4}, {Row: 1, Col: 5}, {Row: 1, Col: 6},
			{Row: 3, Col: 2}, {Row: 3, Col: 3}, {Row: 3, Col: 4}, {Row: 3, Col: 5}, {Row: 3, Col: 6}, {Row: 3, Col: 7},
			{Row: 5, Col: 0}, {Row: 5, Col: 1}, {Row: 5, Col: 2}, {Row: 5, Col: 3},
			{Row: 7, Col: 4}, {Row: 7, Col: 5}, {Row: 7, Col: 6}, {Row: 7, Col: 7}, {Row: 7, Col: 8}, {Row: 7, Col: 9},
			{Row: 8, Col: 4},
		},
		Model: model,
	})
}
