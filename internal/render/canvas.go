package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jwebster45206/treasure-hunt/pkg/hunt"
	"github.com/mattn/go-runewidth"
)

// Default cell size in arena pixels. A 600x400 arena becomes 75x25 cells.
const (
	DefaultCellWidth  = 8
	DefaultCellHeight = 16
)

type cell struct {
	r    rune
	fg   hunt.Color
	bg   hunt.Color
	wide bool // first half of a double-width rune
	cont bool // second half of a double-width rune
}

var blank = cell{r: ' '}

// Canvas is a character-cell hunt.Surface. Pixel coordinates are scaled
// down to cells; anything outside the arena is clipped.
type Canvas struct {
	cellW, cellH int
	cols, rows   int
	cells        [][]cell
}

var _ hunt.Surface = (*Canvas)(nil)

func NewCanvas(arena hunt.Arena, cellW, cellH int) *Canvas {
	if cellW <= 0 {
		cellW = DefaultCellWidth
	}
	if cellH <= 0 {
		cellH = DefaultCellHeight
	}
	c := &Canvas{
		cellW: cellW,
		cellH: cellH,
		cols:  (arena.Width + cellW - 1) / cellW,
		rows:  (arena.Height + cellH - 1) / cellH,
	}
	c.cells = make([][]cell, c.rows)
	for y := range c.cells {
		c.cells[y] = make([]cell, c.cols)
	}
	c.Clear()
	return c
}

// Size returns the canvas dimensions in cells
func (c *Canvas) Size() (cols, rows int) {
	return c.cols, c.rows
}

func (c *Canvas) Clear() {
	for y := range c.cells {
		for x := range c.cells[y] {
			c.cells[y][x] = blank
		}
	}
}

// span converts a pixel rectangle to a half-open cell range, at least one cell wide and tall
func (c *Canvas) span(r hunt.Rect) (x0, y0, x1, y1 int) {
	x0, y0 = r.X/c.cellW, r.Y/c.cellH
	x1, y1 = (r.X+r.W)/c.cellW, (r.Y+r.H)/c.cellH
	if x1 <= x0 {
		x1 = x0 + 1
	}
	if y1 <= y0 {
		y1 = y0 + 1
	}
	return max(x0, 0), max(y0, 0), min(x1, c.cols), min(y1, c.rows)
}

func (c *Canvas) FillRect(r hunt.Rect, color hunt.Color) {
	x0, y0, x1, y1 := c.span(r)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			c.cells[y][x] = cell{r: ' ', bg: color}
		}
	}
}

func (c *Canvas) StrokeRect(r hunt.Rect, color hunt.Color) {
	x0, y0, x1, y1 := c.span(r)
	if x1-x0 < 2 || y1-y0 < 2 {
		c.FillRect(r, color)
		return
	}
	set := func(x, y int, ch rune) {
		prev := c.cells[y][x]
		c.cells[y][x] = cell{r: ch, fg: color, bg: prev.bg}
	}
	for x := x0 + 1; x < x1-1; x++ {
		set(x, y0, '─')
		set(x, y1-1, '─')
	}
	for y := y0 + 1; y < y1-1; y++ {
		set(x0, y, '│')
		set(x1-1, y, '│')
	}
	set(x0, y0, '┌')
	set(x1-1, y0, '┐')
	set(x0, y1-1, '└')
	set(x1-1, y1-1, '┘')
}

// DrawText writes text with its baseline at y, the way a 2D canvas does.
// Double-width runes take two cells.
func (c *Canvas) DrawText(text string, x, y, fontSize int) {
	row := (y - fontSize/2) / c.cellH
	if row < 0 || row >= c.rows {
		return
	}
	col := x / c.cellW
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if col < 0 {
			col += w
			continue
		}
		if col+w > c.cols {
			return
		}
		bg := c.cells[row][col].bg
		c.cells[row][col] = cell{r: r, fg: hunt.ColorBlack, bg: bg, wide: w == 2}
		if w == 2 {
			c.cells[row][col+1] = cell{fg: hunt.ColorBlack, bg: c.cells[row][col+1].bg, cont: true}
		}
		col += w
	}
}

// PlainLines renders the canvas without styling, one string per row
func (c *Canvas) PlainLines() []string {
	lines := make([]string, c.rows)
	for y := range c.cells {
		var b strings.Builder
		for x := range c.cells[y] {
			if r, ok := c.runeAt(x, y); ok {
				b.WriteRune(r)
			}
		}
		lines[y] = b.String()
	}
	return lines
}

// Background returns the fill color at a cell, for inspection
func (c *Canvas) Background(col, row int) hunt.Color {
	if row < 0 || row >= c.rows || col < 0 || col >= c.cols {
		return ""
	}
	return c.cells[row][col].bg
}

// runeAt resolves what a cell prints. Halves of a wide rune that lost their
// partner print as spaces; an intact second half prints nothing.
func (c *Canvas) runeAt(x, y int) (rune, bool) {
	cl := c.cells[y][x]
	switch {
	case cl.wide:
		if x+1 < c.cols && c.cells[y][x+1].cont {
			return cl.r, true
		}
		return ' ', true
	case cl.cont:
		if x > 0 && c.cells[y][x-1].wide {
			return 0, false
		}
		return ' ', true
	}
	return cl.r, true
}

// View renders the canvas with colors
func (c *Canvas) View() string {
	lines := make([]string, c.rows)
	for y := range c.cells {
		var b strings.Builder
		var run strings.Builder
		var style lipgloss.Style
		var current cell
		flush := func() {
			if run.Len() > 0 {
				b.WriteString(style.Render(run.String()))
				run.Reset()
			}
		}
		for x := range c.cells[y] {
			r, ok := c.runeAt(x, y)
			if !ok {
				continue
			}
			cl := c.cells[y][x]
			if x == 0 || cl.fg != current.fg || cl.bg != current.bg {
				flush()
				current = cl
				style = styleFor(cl)
			}
			run.WriteRune(r)
		}
		flush()
		lines[y] = b.String()
	}
	return strings.Join(lines, "\n")
}

var palette = map[hunt.Color]lipgloss.Color{
	hunt.ColorLightBlue: lipgloss.Color("117"),
	hunt.ColorGreen:     lipgloss.Color("34"),
	hunt.ColorBlack:     lipgloss.Color("16"),
}

func styleFor(cl cell) lipgloss.Style {
	style := lipgloss.NewStyle()
	if bg, ok := palette[cl.bg]; ok {
		style = style.Background(bg)
	}
	switch {
	case cl.fg == hunt.ColorBlack && cl.bg == "":
		// black ink outside a fill is drawn light grey
		style = style.Foreground(lipgloss.Color("250"))
	case cl.fg != "":
		if fg, ok := palette[cl.fg]; ok {
			style = style.Foreground(fg)
		}
	}
	return style
}
