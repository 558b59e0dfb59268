/*
Package domain contains the core domain models of the gridplan MDP planner.

It defines the vocabulary shared by the grid model, the solver and every adapter:
cells, actions, transition outcomes, the enumerated state space, and the value
function and policy tables produced by a solver run. This package is kept pure and
free of external dependencies like I/O, following Hexagonal Architecture principles.

# Key Entities

  - Cell: a (row, col) coordinate on the grid. Non-obstacle cells are the MDP states.
  - Action: one of UP, DOWN, LEFT, RIGHT (plus the GOAL sentinel used by policies).
  - Outcome: one (probability, next cell, reward) branch of a transition distribution.
  - StateSpace: the immutable row-major enumeration of states with an O(1) cell lookup.
  - ValueFunction / Policy: dense tables indexed by the StateSpace.
  - Result: the output of one solver run (policy, values, iteration count, elapsed time).
*/
package domain
