package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/aretw0/gridplan"
	"github.com/aretw0/gridplan/internal/presentation/tui"
	"github.com/aretw0/gridplan/pkg/config"
	"github.com/aretw0/gridplan/pkg/domain"
	"github.com/muesli/termenv"
)

// Options holds the flags shared by every command.
type Options struct {
	ConfigPath string
	Overrides  []string
	Seed       uint64
	LogLevel   string
	NoColor    bool
	// Out receives the report. Defaults to os.Stdout.
	Out io.Writer
}

func (o Options) out() io.Writer {
	if o.Out == nil {
		return os.Stdout
	}
	return o.Out
}

// terminal returns the color profile and width of the output.
// Anything that is not a terminal file gets plain output.
func (o Options) terminal() (termenv.Profile, int) {
	if f, ok := o.out().(*os.File); ok {
		return tui.Profile(f, o.NoColor), tui.Width(f)
	}
	return termenv.Ascii, tui.DefaultWidth
}

// loadConfig reads the config file, applies --set overrides and validates.
func loadConfig(opts Options) (config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return cfg, err
	}

	overrides, err := config.ParseOverrides(opts.Overrides)
	if err != nil {
		return cfg, err
	}
	cfg, err = config.ApplyOverrides(cfg, overrides)
	if err != nil {
		return cfg, err
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// createPlanner initializes a planner with standard CLI conventions.
func createPlanner(cfg config.Config, opts Options, logger *slog.Logger, extra ...gridplan.Option) (*gridplan.Planner, error) {
	plannerOpts := []gridplan.Option{
		gridplan.WithLogger(logger),
		gridplan.WithSeed(opts.Seed),
	}
	plannerOpts = append(plannerOpts, extra...)

	planner, err := gridplan.New(cfg, plannerOpts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing planner: %w", err)
	}
	return planner, nil
}

// parseAlgorithms expands "vi", "pi" or "both".
func parseAlgorithms(s string) ([]domain.Algorithm, error) {
	if s == "" || strings.EqualFold(s, "both") {
		return []domain.Algorithm{domain.AlgorithmValueIteration, domain.AlgorithmPolicyIteration}, nil
	}
	alg, err := domain.ParseAlgorithm(s)
	if err != nil {
		return nil, err
	}
	return []domain.Algorithm{alg}, nil
}
