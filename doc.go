/*
Package gridplan plans robot routes across a warehouse floor modelled as a
Markov Decision Process.

The floor is a rectangular grid of cells. Shelves (obstacles) are not states, the
goal is absorbing, and every move pays a reward: a bonus for entering the goal,
a penalty for bumping into a wall or shelf, and a small step cost otherwise.
Moves are either deterministic or stochastic, where the robot drifts to the
left or right of its heading with a configured probability.

Two dynamic-programming solvers compute the optimal value function and greedy
policy: Value Iteration and Policy Iteration. Both run synchronous sweeps over a
transition table built once per solver, so results are reproducible for a
given configuration and seed.

# Usage

	cfg := config.Default()
	planner, err := gridplan.New(cfg, gridplan.WithSeed(42))
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	vi, err := planner.ValueIteration(ctx)
	if err != nil {
		log.Fatal(err)
	}
	pi, err := planner.PolicyIteration(ctx)
	if err != nil {
		log.Fatal(err)
	}

	cmp, err := planner.Compare(vi, pi)
	if err != nil {
		log.Fatal(err)
	}
	for _, e := range cmp.Entries {
		fmt.Println(e.Algorithm.Title(), e.Stats.SuccessRate)
	}

The command in cmd/gridplan wraps the same flow with a terminal heatmap, a
markdown comparison report and an HTTP server exposing results and Prometheus
metrics.
*/
package gridplan
