package domain

// StateSpace is the row-major enumeration of every non-obstacle cell of a grid.
// It is computed once and never mutated; value functions and policies are dense
// slices indexed by it.
type StateSpace struct {
	width, height int
	cells         []Cell
	lookup        []int // row*width+col -> state index, -1 for blocked cells
}

// NewStateSpace enumerates the cells of a width x height grid for which blocked
// returns false. A nil blocked func admits every cell.
func NewStateSpace(width, height int, blocked func(Cell) bool) *StateSpace {
	s := &StateSpace{
		width:  width,
		height: height,
		lookup: make([]int, width*height),
	}
	for r := 0; r < height; r++ {
		for c := 0; c < width; c++ {
			cell := Cell{Row: r, Col: c}
			if blocked != nil && blocked(cell) {
				s.lookup[r*width+c] = -1
				continue
			}
			s.lookup[r*width+c] = len(s.cells)
			s.cells = append(s.cells, cell)
		}
	}
	return s
}

// Width returns the number of grid columns.
func (s *StateSpace) Width() int { return s.width }

// Height returns the number of grid rows.
func (s *StateSpace) Height() int { return s.height }

// Len returns the number of states.
func (s *StateSpace) Len() int { return len(s.cells) }

// Cell returns the cell of state i.
func (s *StateSpace) Cell(i int) Cell { return s.cells[i] }

// Cells returns a copy of the enumerated cells.
func (s *StateSpace) Cells() []Cell {
	out := make([]Cell, len(s.cells))
	copy(out, s.cells)
	return out
}

// Index returns the state index of c, or false when c is off-grid or blocked.
func (s *StateSpace) Index(c Cell) (int, bool) {
	if !c.In(s.width, s.height) {
		return 0, false
	}
	i := s.lookup[c.Row*s.width+c.Col]
	return i, i >= 0
}

// Contains reports whether c is a state.
func (s *StateSpace) Contains(c Cell) bool {
	_, ok := s.Index(c)
	return ok
}
