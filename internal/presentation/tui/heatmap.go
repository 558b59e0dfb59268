package tui

import (
	"context"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/aretw0/gridplan/pkg/domain"
	"github.com/aretw0/gridplan/pkg/grid"
	"github.com/muesli/termenv"
)

// viridis runs from low to high values.
var viridis = []string{"#440154", "#3b528b", "#21918c", "#5ec962", "#fde725"}

const (
	obstacleColor = "#6b7280"
	startColor    = "#2563eb"
	goalColor     = "#16a34a"
	pathColor     = "#22d3ee"
	robotColor    = "#ef4444"
)

// Frame is the data drawn by RenderGrid. Values, Policy and Path are optional.
type Frame struct {
	Grid   *grid.Grid
	Values *domain.ValueFunction
	Policy *domain.Policy
	Path   []domain.Cell
	// Robot marks the agent's current cell during playback.
	Robot *domain.Cell
	// Compact drops the numeric value from each cell.
	Compact bool
}

// CellWidth is the printed width of one grid cell.
func (f Frame) CellWidth() int {
	if f.Compact || f.Values == nil {
		return 4
	}
	return 9
}

// FitsWidth reports whether the frame renders within width columns.
func (f Frame) FitsWidth(width int) bool {
	return f.Grid.Width()*f.CellWidth()+2 <= width
}

// RenderGrid draws the value heatmap, policy arrows, obstacles, start/goal and
// the traced path. Cells that are not states show "##".
func RenderGrid(f Frame, p termenv.Profile) string {
	g := f.Grid
	lo, hi := valueRange(f.Values)

	onPath := make(map[domain.Cell]bool, len(f.Path))
	for _, c := range f.Path {
		onPath[c] = true
	}

	var sb strings.Builder
	width := f.CellWidth()
	border := "+" + strings.Repeat("-", g.Width()*width) + "+\n"
	sb.WriteString(border)
	for r := 0; r < g.Height(); r++ {
		sb.WriteString("|")
		for c := 0; c < g.Width(); c++ {
			cell := domain.Cell{Row: r, Col: c}
			sb.WriteString(renderCell(f, cell, onPath[cell], lo, hi, width, p))
		}
		sb.WriteString("|\n")
	}
	sb.WriteString(border)
	return sb.String()
}

func renderCell(f Frame, cell domain.Cell, onPath bool, lo, hi float64, width int, p termenv.Profile) string {
	g := f.Grid
	if g.IsObstacle(cell) {
		return p.String(center("##", width)).
			Foreground(p.Color("#000000")).
			Background(p.Color(obstacleColor)).String()
	}

	glyph := " "
	if f.Policy != nil {
		if a, ok := f.Policy.At(cell); ok {
			glyph = a.Arrow()
		}
	}
	switch {
	case f.Robot != nil && *f.Robot == cell:
		glyph = "R"
	case cell == g.Goal():
		glyph = "G"
	case cell == g.Start():
		glyph = "S"
	case onPath && p == termenv.Ascii:
		glyph = "*"
	}

	text := glyph
	if width > 4 && f.Values != nil {
		if v, ok := f.Values.At(cell); ok {
			text = fmt.Sprintf("%s %6.1f", glyph, v)
		}
	}

	style := p.String(center(text, width))
	switch {
	case f.Robot != nil && *f.Robot == cell:
		return style.Foreground(p.Color("#ffffff")).Background(p.Color(robotColor)).Bold().String()
	case cell == g.Goal():
		return style.Foreground(p.Color("#ffffff")).Background(p.Color(goalColor)).Bold().String()
	case cell == g.Start():
		return style.Foreground(p.Color("#ffffff")).Background(p.Color(startColor)).Bold().String()
	}

	if f.Values != nil {
		if v, ok := f.Values.At(cell); ok {
			bg := heat(v, lo, hi)
			style = style.Background(p.Color(bg)).Foreground(p.Color(contrast(bg)))
		}
	}
	if onPath {
		style = style.Foreground(p.Color(pathColor)).Bold()
	}
	return style.String()
}

// valueRange returns the min and max finite values.
func valueRange(values *domain.ValueFunction) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	if values == nil {
		return 0, 0
	}
	for i := 0; i < values.Len(); i++ {
		v := values.Value(i)
		if math.IsInf(v, 0) || math.IsNaN(v) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo > hi {
		return 0, 0
	}
	return lo, hi
}

// heat maps v in [lo, hi] onto the viridis palette.
func heat(v, lo, hi float64) string {
	if hi <= lo {
		return viridis[len(viridis)-1]
	}
	t := (v - lo) / (hi - lo)
	idx := int(math.Round(t * float64(len(viridis)-1)))
	idx = max(0, min(idx, len(viridis)-1))
	return viridis[idx]
}

// contrast picks a readable foreground for a palette background.
func contrast(bg string) string {
	switch bg {
	case viridis[3], viridis[4]:
		return "#000000"
	}
	return "#ffffff"
}

func center(s string, width int) string {
	n := len([]rune(s))
	if n >= width {
		return s
	}
	left := (width - n) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-n-left)
}

// Legend explains the glyphs used by RenderGrid.
func Legend() string {
	return "S start  G goal  ## shelf  ↑↓←→ policy  * path (plain output)"
}

// Animate replays path one move at a time, redrawing the grid with the robot's
// position after each delay. It stops early when ctx is cancelled.
func Animate(ctx context.Context, w io.Writer, f Frame, p termenv.Profile, delay time.Duration) error {
	out := termenv.NewOutput(w, termenv.WithProfile(p))
	path := f.Path
	for i := range path {
		robot := path[i]
		frame := f
		frame.Path = path[:i+1]
		frame.Robot = &robot

		if p != termenv.Ascii {
			out.ClearScreen()
		}
		fmt.Fprintf(w, "step %d/%d\n%s", i, len(path)-1, RenderGrid(frame, p))

		if i == len(path)-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return nil
}
