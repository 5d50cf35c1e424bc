// Package termsurface rasterises render drawing calls onto a grid of
// terminal cells.
//
// Each cell stands for CellWidth x CellHeight document pixels. Fills set cell
// backgrounds, strokes draw box-drawing characters and text is placed on the
// row containing its centre. String renders the grid with lipgloss styles.
package termsurface

import (
	"image/color"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/mattn/go-runewidth"

	"github.com/muurk/boxes/internal/layout"
	"github.com/muurk/boxes/internal/render"
)

// Default cell size in document pixels.
const (
	DefaultCellWidth  = 10
	DefaultCellHeight = 20
)

// Cell is one terminal cell. An empty colour string means the terminal
// default. Rune 0 marks the trailing half of a wide rune.
type Cell struct {
	Rune rune
	FG   string
	BG   string
}

var blank = Cell{Rune: ' '}

// Surface is a render.Surface backed by a cell grid.
type Surface struct {
	cols, rows int
	cellW      float64
	cellH      float64
	cells      []Cell
	stack      render.Stack
}

// New returns a cols x rows surface whose cells are cellW x cellH document
// pixels. Non-positive cell sizes fall back to the defaults.
func New(cols, rows int, cellW, cellH float64) *Surface {
	if cellW <= 0 {
		cellW = DefaultCellWidth
	}
	if cellH <= 0 {
		cellH = DefaultCellHeight
	}
	s := &Surface{cellW: cellW, cellH: cellH}
	s.Resize(cols, rows)
	return s
}

// Resize changes the grid size and clears it.
func (s *Surface) Resize(cols, rows int) {
	s.cols, s.rows = max(cols, 0), max(rows, 0)
	s.cells = make([]Cell, s.cols*s.rows)
	s.Clear()
}

// Grid returns the grid size in cells.
func (s *Surface) Grid() (cols, rows int) {
	return s.cols, s.rows
}

// CellSize returns the document size of one cell.
func (s *Surface) CellSize() (w, h float64) {
	return s.cellW, s.cellH
}

// Size implements render.Surface.
func (s *Surface) Size() (w, h float64) {
	return float64(s.cols) * s.cellW, float64(s.rows) * s.cellH
}

// Clear implements render.Surface.
func (s *Surface) Clear() {
	for i := range s.cells {
		s.cells[i] = blank
	}
	s.stack.Reset()
}

// Cell returns the cell at (col, row), or a blank cell when out of range.
func (s *Surface) Cell(col, row int) Cell {
	if col < 0 || row < 0 || col >= s.cols || row >= s.rows {
		return blank
	}
	return s.cells[row*s.cols+col]
}

func (s *Surface) at(col, row int) *Cell {
	if col < 0 || row < 0 || col >= s.cols || row >= s.rows {
		return nil
	}
	return &s.cells[row*s.cols+col]
}

func hex(c color.Color) string {
	cc, ok := colorful.MakeColor(c)
	if !ok {
		return ""
	}
	return cc.Hex()
}

// device maps a frame rect to device pixels.
func (s *Surface) device(x, y, w, h float64) (x0, y0, x1, y1 float64) {
	x0, y0 = s.stack.Apply(x, y)
	x1, y1 = s.stack.Apply(x+w, y+h)
	return
}

// FillRect colours the background of every cell whose centre lies inside the
// rect.
func (s *Surface) FillRect(x, y, w, h float64, c color.Color) {
	x0, y0, x1, y1 := s.device(x, y, w, h)
	bg := hex(c)
	c0 := int(math.Ceil(x0/s.cellW - 0.5))
	c1 := int(math.Ceil(x1/s.cellW - 0.5))
	r0 := int(math.Ceil(y0/s.cellH - 0.5))
	r1 := int(math.Ceil(y1/s.cellH - 0.5))
	for row := max(r0, 0); row < min(r1, s.rows); row++ {
		for col := max(c0, 0); col < min(c1, s.cols); col++ {
			s.cells[row*s.cols+col].BG = bg
		}
	}
}

type strokeRunes struct {
	h, v, tl, tr, bl, br rune
}

var (
	thin  = strokeRunes{'─', '│', '┌', '┐', '└', '┘'}
	heavy = strokeRunes{'━', '┃', '┏', '┓', '┗', '┛'}
)

// StrokeRect draws the rect outline with box-drawing characters. Rects
// narrower or shorter than a cell collapse to a single line.
func (s *Surface) StrokeRect(x, y, w, h, lineWidth float64, c color.Color) {
	x0, y0, x1, y1 := s.device(x, y, w, h)
	fg := hex(c)
	set := thin
	if lineWidth >= layout.BoxBorder {
		set = heavy
	}

	c0 := int(math.Floor(x0 / s.cellW))
	c1 := max(int(math.Ceil(x1/s.cellW))-1, c0)
	r0 := int(math.Floor(y0 / s.cellH))
	r1 := max(int(math.Ceil(y1/s.cellH))-1, r0)

	put := func(col, row int, r rune) {
		if cell := s.at(col, row); cell != nil {
			cell.Rune, cell.FG = r, fg
		}
	}

	switch {
	case c0 == c1:
		for row := r0; row <= r1; row++ {
			put(c0, row, set.v)
		}
	case r0 == r1:
		for col := c0; col <= c1; col++ {
			put(col, r0, set.h)
		}
	default:
		for col := c0 + 1; col < c1; col++ {
			put(col, r0, set.h)
			put(col, r1, set.h)
		}
		for row := r0 + 1; row < r1; row++ {
			put(c0, row, set.v)
			put(c1, row, set.v)
		}
		put(c0, r0, set.tl)
		put(c1, r0, set.tr)
		put(c0, r1, set.bl)
		put(c1, r1, set.br)
	}
}

// DrawText writes s centred on (x, y). Text scaled below half a cell height
// is not drawn.
func (s *Surface) DrawText(x, y float64, str string, c color.Color) {
	if layout.FontSize*s.stack.Top().Scale < s.cellH/2 {
		return
	}
	dx, dy := s.stack.Apply(x, y)
	fg := hex(c)
	row := int(math.Floor(dy / s.cellH))
	col := int(math.Round(dx/s.cellW - float64(runewidth.StringWidth(str))/2))

	for _, r := range str {
		rw := runewidth.RuneWidth(r)
		if rw == 0 {
			continue
		}
		if cell := s.at(col, row); cell != nil {
			cell.Rune, cell.FG = r, fg
			if rw == 2 {
				if next := s.at(col+1, row); next != nil {
					next.Rune, next.FG = 0, fg
				} else {
					cell.Rune = ' '
				}
			}
		}
		col += rw
	}
}

// PushFrame implements render.Surface.
func (s *Surface) PushFrame(dx, dy, scale float64) {
	s.stack.Push(dx, dy, scale)
}

// PopFrame implements render.Surface.
func (s *Surface) PopFrame() {
	s.stack.Pop()
}

// MeasureText returns the width of str in document pixels.
func (s *Surface) MeasureText(str string) float64 {
	return float64(runewidth.StringWidth(str)) * s.cellW
}

// ToDocument maps a cell position to the document pixel at its centre.
func (s *Surface) ToDocument(col, row int) (x, y float64) {
	return (float64(col) + 0.5) * s.cellW, (float64(row) + 0.5) * s.cellH
}

// Plain returns the grid's runes without styling, one line per row.
func (s *Surface) Plain() string {
	var b strings.Builder
	for row := 0; row < s.rows; row++ {
		if row > 0 {
			b.WriteByte('\n')
		}
		for col := 0; col < s.cols; col++ {
			if r := s.cells[row*s.cols+col].Rune; r != 0 {
				b.WriteRune(r)
			}
		}
	}
	return b.String()
}

// String renders the grid with lipgloss, grouping runs of equally styled
// cells.
func (s *Surface) String() string {
	lines := make([]string, s.rows)
	for row := 0; row < s.rows; row++ {
		var line strings.Builder
		var run strings.Builder
		var style Cell
		flush := func() {
			if run.Len() == 0 {
				return
			}
			st := lipgloss.NewStyle()
			if style.FG != "" {
				st = st.Foreground(lipgloss.Color(style.FG))
			}
			if style.BG != "" {
				st = st.Background(lipgloss.Color(style.BG))
			}
			line.WriteString(st.Render(run.String()))
			run.Reset()
		}
		for col := 0; col < s.cols; col++ {
			cell := s.cells[row*s.cols+col]
			if cell.Rune == 0 {
				continue
			}
			if cell.FG != style.FG || cell.BG != style.BG {
				flush()
				style = cell
			}
			run.WriteRune(cell.Rune)
		}
		flush()
		lines[row] = line.String()
	}
	return strings.Join(lines, "\n")
}
