// Package config loads and validates the planner configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/gridplan/pkg/domain"
	"github.com/aretw0/gridplan/pkg/grid"
	"gopkg.in/yaml.v3"
)

// Config is the complete, immutable input of a planner run.
type Config struct {
	Width     int           `yaml:"width" json:"width" mapstructure:"width"`
	Height    int           `yaml:"height" json:"height" mapstructure:"height"`
	Start     domain.Cell   `yaml:"start" json:"start" mapstructure:"start"`
	Goal      domain.Cell   `yaml:"goal" json:"goal" mapstructure:"goal"`
	Obstacles []domain.Cell `yaml:"obstacles" json:"obstacles" mapstructure:"obstacles"`

	Rewards Rewards `yaml:"rewards" json:"rewards" mapstructure:"rewards"`

	Gamma float64 `yaml:"gamma" json:"gamma" mapstructure:"gamma"`
	Theta float64 `yaml:"theta" json:"theta" mapstructure:"theta"`

	Transition Transition `yaml:"transition" json:"transition" mapstructure:"transition"`

	MaxPathLength  int           `yaml:"max_path_length" json:"max_path_length" mapstructure:"max_path_length"`
	Simulations    int           `yaml:"simulations" json:"simulations" mapstructure:"simulations"`
	AnimationSpeed time.Duration `yaml:"animation_speed" json:"animation_speed" mapstructure:"animation_speed"`
}

// Rewards holds the reward constants.
type Rewards struct {
	Goal     float64 `yaml:"goal" json:"goal" mapstructure:"goal"`
	Obstacle float64 `yaml:"obstacle" json:"obstacle" mapstructure:"obstacle"`
	Step     float64 `yaml:"step" json:"step" mapstructure:"step"`
}

// Transition selects the transition model and its branch probabilities.
type Transition struct {
	Model   string  `yaml:"model" json:"model" mapstructure:"model"`
	Forward float64 `yaml:"forward" json:"forward" mapstructure:"forward"`
	Left    float64 `yaml:"left" json:"left" mapstructure:"left"`
	Right   float64 `yaml:"right" json:"right" mapstructure:"right"`
}

// Default returns the shipped warehouse configuration: a 10x10 floor with
// shelves, start (0,0), goal (9,9) and the stochastic 0.8/0.1/0.1 model.
func Default() Config {
	return Config{
		Width:  10,
		Height: 10,
		Start:  domain.Cell{Row: 0, Col: 0},
		Goal:   domain.Cell{Row: 9, Col: 9},
		Obstacles: []domain.Cell{
			{Row: 1, Col: 2}, {Row: 1, Col: 3}, {Row: 1, Col: 4}, {Row: 1, Col: 5}, {Row: 1, Col: 6},
			{Row: 3, Col: 2}, {Row: 3, Col: 3}, {Row: 3, Col: 4}, {Row: 3, Col: 5}, {Row: 3, Col: 6}, {Row: 3, Col: 7},
			{Row: 5, Col: 0}, {Row: 5, Col: 1}, {Row: 5, Col: 2}, {Row: 5, Col: 3},
			{Row: 7, Col: 4}, {Row: 7, Col: 5}, {Row: 7, Col: 6}, {Row: 7, Col: 7}, {Row: 7, Col: 8}, {Row: 7, Col: 9},
			{Row: 8, Col: 4},
		},
		Rewards: Rewards{Goal: 100, Obstacle: -10, Step: -1},
		Gamma:   0.99,
		Theta:   1e-4,
		Transition: Transition{
			Model:   string(grid.Stochastic),
			Forward: 0.8,
			Left:    0.1,
			Right:   0.1,
		},
		MaxPathLength:  50,
		Simulations:    1000,
		AnimationSpeed: 150 * time.Millisecond,
	}
}

// Load reads a configuration file (YAML or JSON) layered over Default.
// A missing file yields the defaults. A file that sets width or height
// describes a different floor, so the default shelves are dropped and only the
// obstacles it lists apply.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	unmarshal := yaml.Unmarshal
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		unmarshal = json.Unmarshal
	}

	var keys map[string]any
	if err := unmarshal(data, &keys); err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	_, hasWidth := keys["width"]
	_, hasHeight := keys["height"]
	if hasWidth || hasHeight {
		cfg.Obstacles = nil
	}

	if err := unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	return cfg, nil
}

// Validate checks every field and reports the first problem wrapped in
// domain.ErrInvalidConfig, or the specific obstacle/model sentinel.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: grid dimensions must be positive, got %dx%d", domain.ErrInvalidConfig, c.Width, c.Height)
	}
	if !c.Start.In(c.Width, c.Height) {
		return fmt.Errorf("%w: %w: start %v", domain.ErrInvalidConfig, domain.ErrOutOfBounds, c.Start)
	}
	if !c.Goal.In(c.Width, c.Height) {
		return fmt.Errorf("%w: %w: goal %v", domain.ErrInvalidConfig, domain.ErrOutOfBounds, c.Goal)
	}
	for _, o := range c.Obstacles {
		if !o.In(c.Width, c.Height) {
			return fmt.Errorf("%w: %w: obstacle %v", domain.ErrInvalidConfig, domain.ErrOutOfBounds, o)
		}
		if o == c.Start {
			return fmt.Errorf("%w: %w", domain.ErrInvalidConfig, domain.ErrStartOnObstacle)
		}
		if o == c.Goal {
			return fmt.Errorf("%w: %w", domain.ErrInvalidConfig, domain.ErrGoalOnObstacle)
		}
	}
	if !(c.Gamma > 0 && c.Gamma < 1) {
		return fmt.Errorf("%w: gamma must be in (0,1), got %v", domain.ErrInvalidConfig, c.Gamma)
	}
	if !(c.Theta > 0) {
		return fmt.Errorf("%w: theta must be positive, got %v", domain.ErrInvalidConfig, c.Theta)
	}

	switch grid.TransitionModel(c.Transition.Model) {
	case grid.Deterministic:
	case grid.Stochastic:
		if err := c.branches().Validate(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: %w: %q", domain.ErrInvalidConfig, domain.ErrUnknownTransitionModel, c.Transition.Model)
	}

	if c.MaxPathLength <= 0 {
		return fmt.Errorf("%w: max_path_length must be positive, got %d", domain.ErrInvalidConfig, c.MaxPathLength)
	}
	if c.Simulations <= 0 {
		return fmt.Errorf("%w: simulations must be positive, got %d", domain.ErrInvalidConfig, c.Simulations)
	}
	return nil
}

// GridOptions converts the configuration into grid.Options.
func (c Config) GridOptions() grid.Options {
	obstacles := make([]domain.Cell, len(c.Obstacles))
	copy(obstacles, c.Obstacles)
	return grid.Options{
		Width:     c.Width,
		Height:    c.Height,
		Start:     c.Start,
		Goal:      c.Goal,
		Obstacles: obstacles,
		Rewards: grid.Rewards{
			Goal:     c.Rewards.Goal,
			Obstacle: c.Rewards.Obstacle,
			Step:     c.Rewards.Step,
		},
		Model:    grid.TransitionModel(c.Transition.Model),
		Branches: c.branches(),
	}
}

func (c Config) branches() grid.Branches {
	return grid.Branches{
		Forward: c.Transition.Forward,
		Left:    c.Transition.Left,
		Right:   c.Transition.Right,
	}
}

// YAML renders the configuration as a YAML document.
func (c Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}
