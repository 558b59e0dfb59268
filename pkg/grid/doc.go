/*
Package grid implements the grid world Markov Decision Process model.

A Grid holds static geometry (dimensions, obstacles, start and goal), reward
constants and a transition model selector. It answers one question: what
happens if the agent takes action A in state S. Answers are returned as a
discrete distribution of (probability, next cell, reward) outcomes.

# Transition Models

  - deterministic: the intended move happens with probability 1.
  - stochastic: the intended move happens with probability Forward; with
    probability Left / Right the agent instead moves 90 degrees left / right of
    its heading. Branches that resolve to the same cell are merged.

Moves that would leave the grid or enter an obstacle deflect the agent back to
its current cell and pay the obstacle reward. The goal is absorbing.

A Grid is immutable after New and safe for concurrent use.
*/
package grid
