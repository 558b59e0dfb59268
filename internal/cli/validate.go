package cli

import (
	"fmt"

	"github.com/aretw0/gridplan/pkg/grid"
)

// Validate loads the configuration, applies overrides and builds the grid
// without solving. With print set, the effective configuration is echoed as YAML.
func Validate(opts Options, printConfig bool) error {
	out := opts.out()

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	g, err := grid.New(cfg.GridOptions())
	if err != nil {
		return err
	}

	if printConfig {
		data, err := cfg.YAML()
		if err != nil {
			return fmt.Errorf("failed to encode config: %w", err)
		}
		fmt.Fprintf(out, "%s\n", data)
	}

	printSystemMessage(out, "Configuration is valid: %dx%d grid, %d states, %d shelves, %s moves.",
		g.Width(), g.Height(), g.States().Len(), len(g.Obstacles()), g.Model())
	return nil
}
