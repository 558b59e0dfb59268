package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/aretw0/gridplan/pkg/evaluation"
)

// ReportHeader describes the environment a comparison was run on.
type ReportHeader struct {
	Width, Height int
	Model         string
	Gamma, Theta  float64
	Simulations   int
}

// ComparisonMarkdown renders the algorithm comparison as a markdown table.
func ComparisonMarkdown(h ReportHeader, cmp evaluation.Comparison) string {
	var sb strings.Builder
	sb.WriteString("# MDP Algorithm Comparison\n\n")
	fmt.Fprintf(&sb, "- **Environment:** %dx%d grid\n", h.Width, h.Height)
	fmt.Fprintf(&sb, "- **Transition model:** %s\n", h.Model)
	fmt.Fprintf(&sb, "- **Discount factor (γ):** %g\n", h.Gamma)
	fmt.Fprintf(&sb, "- **Convergence threshold (θ):** %g\n", h.Theta)
	fmt.Fprintf(&sb, "- **Simulations per policy:** %d\n\n", h.Simulations)

	sb.WriteString("| Metric |")
	for _, e := range cmp.Entries {
		fmt.Fprintf(&sb, " %s |", e.Algorithm.Title())
	}
	sb.WriteString("\n|---|")
	for range cmp.Entries {
		sb.WriteString("---:|")
	}
	sb.WriteString("\n")

	row := func(name string, cell func(evaluation.Entry) string) {
		fmt.Fprintf(&sb, "| %s |", name)
		for _, e := range cmp.Entries {
			fmt.Fprintf(&sb, " %s |", cell(e))
		}
		sb.WriteString("\n")
	}
	row("Execution time (s)", func(e evaluation.Entry) string {
		return fmt.Sprintf("%.4f", e.Elapsed.Seconds())
	})
	row("Iterations / cycles", func(e evaluation.Entry) string {
		return fmt.Sprintf("%d", e.Iterations)
	})
	row("Success rate (%)", func(e evaluation.Entry) string {
		return fmt.Sprintf("%.2f", e.Stats.SuccessRate)
	})
	row("Avg. path length", func(e evaluation.Entry) string {
		if math.IsInf(e.Stats.AvgPathLength, 0) {
			return "∞"
		}
		return fmt.Sprintf("%.2f", e.Stats.AvgPathLength)
	})
	return sb.String()
}
