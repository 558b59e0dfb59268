package domain

import "errors"

// ErrInvalidConfig is returned when the planner configuration fails validation.
var ErrInvalidConfig = errors.New("invalid configuration")

// ErrStartOnObstacle is returned when the start cell is listed as an obstacle.
var ErrStartOnObstacle = errors.New("start position cannot be an obstacle")

// ErrGoalOnObstacle is returned when the goal cell is listed as an obstacle.
var ErrGoalOnObstacle = errors.New("goal position cannot be an obstacle")

// ErrUnknownTransitionModel is returned for a transition model selector other than
// "deterministic" or "stochastic".
var ErrUnknownTransitionModel = errors.New("invalid transition model type")

// ErrOutOfBounds is returned when a configured cell lies outside the grid.
var ErrOutOfBounds = errors.New("cell out of bounds")

// ErrUnknownState is returned when a cell is not part of the state space.
var ErrUnknownState = errors.New("unknown state")

// ErrUnknownAction is returned for an action outside {UP, DOWN, LEFT, RIGHT}.
var ErrUnknownAction = errors.New("unknown action")

// ErrNotConverged is returned when a solver loop exceeds its safety sweep cap.
var ErrNotConverged = errors.New("did not converge within the sweep limit")

// ErrUnknownAlgorithm is returned for an algorithm name other than value or policy iteration.
var ErrUnknownAlgorithm = errors.New("unknown algorithm")
