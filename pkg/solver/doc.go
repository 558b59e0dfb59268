/*
Package solver computes optimal policies for a finite MDP with Value Iteration
and Policy Iteration.

Both algorithms are built on one Bellman backup:

	Q(s, a) = Σ p · (r + γ · V[s'])

summed over the outcomes (p, s', r) of the model's transition distribution.
Sweeps are synchronous: every update in a sweep reads the previous sweep's
table, and the new table replaces the old one only when the sweep completes.

The transition model is queried once per (state, action) when the Solver is
built and cached as an indexed table, so the hot loops do no map lookups and
no error handling. A Solver is not safe for concurrent use because it owns the
random source used by Policy Iteration.
*/
package solver
