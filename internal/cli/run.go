package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aretw0/gridplan"
	"github.com/aretw0/gridplan/internal/presentation/tui"
	"github.com/aretw0/gridplan/pkg/config"
	"github.com/aretw0/gridplan/pkg/domain"
	"github.com/aretw0/gridplan/pkg/evaluation"
	"github.com/muesli/termenv"
)

// RunOptions contains all the configuration for the run command.
type RunOptions struct {
	Options
	// Algorithm is "vi", "pi" or "both".
	Algorithm string
	// Animate replays the last policy's path cell by cell.
	Animate bool
	// Quiet suppresses the banner and heatmaps, printing only the report.
	Quiet bool
}

// Execute solves the configured grid, prints a heatmap per algorithm and the
// comparison report.
func Execute(ctx context.Context, opts RunOptions) error {
	out := opts.out()
	sigCtx := NewSignalContext(ctx)
	defer sigCtx.Cancel()

	err := execute(sigCtx, opts)
	return handleExecutionError(out, err, sigCtx.Signal())
}

func execute(ctx context.Context, opts RunOptions) error {
	out := opts.out()
	profile, width := opts.terminal()

	logger, err := createLogger(opts.LogLevel)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(opts.Options)
	if err != nil {
		return err
	}

	algorithms, err := parseAlgorithms(opts.Algorithm)
	if err != nil {
		return err
	}

	planner, err := createPlanner(cfg, opts.Options, logger)
	if err != nil {
		return err
	}

	if !opts.Quiet {
		tui.PrintBanner(out, profile, gridplan.Version)
	}

	results, err := planner.Solve(ctx, algorithms...)
	if err != nil {
		return err
	}

	if !opts.Quiet {
		for _, res := range results {
			printResult(out, planner, res, profile, width)
		}
	}

	cmp, err := planner.Compare(results...)
	if err != nil {
		return err
	}
	if err := printReport(out, cfg, cmp, profile, width); err != nil {
		return err
	}

	if opts.Animate && len(results) > 0 {
		last := results[len(results)-1]
		frame := tui.Frame{
			Grid:    planner.Model(),
			Policy:  last.Policy,
			Path:    planner.Trace(last.Policy),
			Compact: true,
		}
		return tui.Animate(ctx, out, frame, profile, cfg.AnimationSpeed)
	}
	return nil
}

func printResult(out io.Writer, planner *gridplan.Planner, res *domain.Result, profile termenv.Profile, width int) {
	path := planner.Trace(res.Policy)
	frame := tui.Frame{
		Grid:   planner.Model(),
		Values: res.Values,
		Policy: res.Policy,
		Path:   path,
	}
	if !frame.FitsWidth(width) {
		frame.Compact = true
	}

	unit := "sweeps"
	if res.Algorithm == domain.AlgorithmPolicyIteration {
		unit = "cycles"
	}
	fmt.Fprintf(out, "%s: converged after %d %s in %s\n",
		res.Algorithm.Title(), res.Iterations, unit, res.Elapsed.Round(time.Microsecond))
	fmt.Fprint(out, tui.RenderGrid(frame, profile))
	fmt.Fprintln(out, tui.Legend())

	goal := planner.Model().Goal()
	if path[len(path)-1] == goal {
		printSystemMessage(out, "Path reaches the goal in %d moves.", len(path)-1)
	} else {
		printSystemMessage(out, "Path stops at %v without reaching the goal.", path[len(path)-1])
	}
	fmt.Fprintln(out)
}

func printReport(out io.Writer, cfg config.Config, cmp evaluation.Comparison, profile termenv.Profile, width int) error {
	md := tui.ComparisonMarkdown(tui.ReportHeader{
		Width:       cfg.Width,
		Height:      cfg.Height,
		Model:       cfg.Transition.Model,
		Gamma:       cfg.Gamma,
		Theta:       cfg.Theta,
		Simulations: cfg.Simulations,
	}, cmp)

	render := tui.NewRenderer(profile == termenv.Ascii, width)
	rendered, err := render(md)
	if err != nil {
		// Fall back to the raw markdown.
		rendered = md
	}
	_, err = fmt.Fprint(out, rendered)
	return err
}
