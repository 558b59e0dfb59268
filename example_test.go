package gridplan_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/gridplan"
	"github.com/aretw0/gridplan/pkg/config"
	"github.com/aretw0/gridplan/pkg/domain"
)

// ExampleNew solves a small open floor with deterministic moves.
func ExampleNew() {
	cfg := config.Default()
	cfg.Width, cfg.Height = 3, 3
	cfg.Start = domain.Cell{Row: 0, Col: 0}
	cfg.Goal = domain.Cell{Row: 2, Col: 2}
	cfg.Obstacles = nil
	cfg.Gamma = 0.9
	cfg.Transition.Model = "deterministic"
	cfg.Simulations = 10

	planner, err := gridplan.New(cfg)
	if err != nil {
		log.Fatal(err)
	}

	res, err := planner.ValueIteration(context.Background())
	if err != nil {
		log.Fatal(err)
	}

	start, _ := res.Values.At(cfg.Start)
	fmt.Printf("V(start) = %.2f\n", start)
	fmt.Println("path:", planner.Trace(res.Policy))

	stats, err := planner.Evaluate(res.Policy)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("success: %.0f%%, moves: %.0f\n", stats.SuccessRate, stats.AvgPathLength)

	// Output:
	// V(start) = 70.19
	// path: [(0,0) (1,0) (2,0) (2,1) (2,2)]
	// success: 100%, moves: 4
}
