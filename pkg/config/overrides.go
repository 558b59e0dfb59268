package config

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/aretw0/gridplan/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

var (
	cellType  = reflect.TypeOf(domain.Cell{})
	cellsType = reflect.TypeOf([]domain.Cell{})
)

// ParseOverrides turns "key=value" pairs into a nested map. Dotted keys
// address nested sections, e.g. "transition.model=deterministic".
func ParseOverrides(pairs []string) (map[string]any, error) {
	out := make(map[string]any)
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: override %q must be key=value", domain.ErrInvalidConfig, pair)
		}

		parts := strings.Split(key, ".")
		node := out
		for _, part := range parts[:len(parts)-1] {
			child, ok := node[part].(map[string]any)
			if !ok {
				child = make(map[string]any)
				node[part] = child
			}
			node = child
		}
		node[parts[len(parts)-1]] = strings.TrimSpace(value)
	}
	return out, nil
}

// ApplyOverrides decodes overrides on top of cfg. Strings are converted weakly
// ("0.9" -> float64, "150ms" -> time.Duration); cells are written "row,col" and
// cell lists "row,col;row,col". Unknown keys are rejected.
func ApplyOverrides(cfg Config, overrides map[string]any) (Config, error) {
	if len(overrides) == 0 {
		return cfg, nil
	}

	// Slices decode element-wise into existing storage; start obstacle lists fresh.
	if _, ok := overrides["obstacles"]; ok {
		cfg.Obstacles = nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			stringToCellsHook,
			stringToCellHook,
		),
	})
	if err != nil {
		return cfg, err
	}
	if err := decoder.Decode(overrides); err != nil {
		return cfg, fmt.Errorf("%w: %w", domain.ErrInvalidConfig, err)
	}
	return cfg, nil
}

func stringToCellHook(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to != cellType {
		return data, nil
	}
	return parseCell(data.(string))
}

func stringToCellsHook(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to != cellsType {
		return data, nil
	}
	raw := strings.TrimSpace(data.(string))
	cells := []domain.Cell{}
	if raw == "" {
		return cells, nil
	}
	for _, part := range strings.Split(raw, ";") {
		c, err := parseCell(part)
		if err != nil {
			return nil, err
		}
		cells = append(cells, c)
	}
	return cells, nil
}

func parseCell(s string) (domain.Cell, error) {
	r, c, ok := strings.Cut(strings.TrimSpace(s), ",")
	if !ok {
		return domain.Cell{}, fmt.Errorf("cell %q must be row,col", s)
	}
	row, err := strconv.Atoi(strings.TrimSpace(r))
	if err != nil {
		return domain.Cell{}, fmt.Errorf("cell %q: %w", s, err)
	}
	col, err := strconv.Atoi(strings.TrimSpace(c))
	if err != nil {
		return domain.Cell{}, fmt.Errorf("cell %q: %w", s, err)
	}
	return domain.Cell{Row: row, Col: col}, nil
}
