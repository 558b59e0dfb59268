package domain

import "fmt"

// Cell is a (row, col) coordinate on the grid.
type Cell struct {
	Row int `json:"row" yaml:"row" mapstructure:"row"`
	Col int `json:"col" yaml:"col" mapstructure:"col"`
}

// String renders the cell as "(row,col)".
func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

// Move returns the neighbour reached by applying the action's unit delta.
// Bounds and obstacles are not checked here.
func (c Cell) Move(a Action) Cell {
	dr, dc := a.Delta()
	return Cell{Row: c.Row + dr, Col: c.Col + dc}
}

// In reports whether the cell lies inside a width x height grid.
func (c Cell) In(width, height int) bool {
	return c.Row >= 0 && c.Row < height && c.Col >= 0 && c.Col < width
}
