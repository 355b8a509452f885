// Package screen holds the in-memory model of a remote terminal screen and
// serializes the cells that changed since the last flush.
package screen

import (
	"unicode/utf8"

	"github.com/mattn/go-runewidth"

	"pkt.systems/termframe/internal/termcap"
	"pkt.systems/termframe/internal/terminal"
)

// Pen is the attribute and color state applied to written cells.
type Pen struct {
	Attr terminal.Attr
	Fg   terminal.Color
	Bg   terminal.Color
}

// DefaultPen has no attributes and the terminal's default colors.
var DefaultPen = Pen{Attr: terminal.AttrNone, Fg: terminal.ColorDefault, Bg: terminal.ColorDefault}

// Surface is a width x height grid of cells.
type Surface struct {
	width  int
	height int
	cells  []Cell
	pen    Pen
	caps   *termcap.Table

	cursorX    int
	cursorY    int
	cursorHint bool

	term termState
}

// New allocates a fully dirty surface. Sizes below 1 are raised to 1.
func New(width, height int, caps *termcap.Table) *Surface {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	s := &Surface{
		width:  width,
		height: height,
		cells:  make([]Cell, width*height),
		pen:    DefaultPen,
		caps:   caps,
	}
	for i := range s.cells {
		s.cells[i] = blankCell()
	}
	return s
}

// Width returns the number of columns.
func (s *Surface) Width() int { return s.width }

// Height returns the number of rows.
func (s *Surface) Height() int { return s.height }

// Caps returns the capability table used for serialization.
func (s *Surface) Caps() *termcap.Table { return s.caps }

// SetCaps swaps the capability table. The terminal state is no longer known,
// so the whole surface is invalidated.
func (s *Surface) SetCaps(caps *termcap.Table) {
	s.caps = caps
	s.Invalidate()
}

// Cell returns a copy of the cell at x, y. Out of range positions yield a
// blank cell.
func (s *Surface) Cell(x, y int) Cell {
	if !s.inside(x, y) {
		return blankCell()
	}
	return s.cells[y*s.width+x]
}

// Row returns the characters of row y as a string, for inspection.
func (s *Surface) Row(y int) string {
	if y < 0 || y >= s.height {
		return ""
	}
	buf := make([]byte, s.width)
	for x := range buf {
		buf[x] = s.cells[y*s.width+x].ch
	}
	return string(buf)
}

func (s *Surface) inside(x, y int) bool {
	return x >= 0 && y >= 0 && x < s.width && y < s.height
}

func (s *Surface) at(x, y int) *Cell {
	return &s.cells[y*s.width+x]
}

// Pen returns the current pen.
func (s *Surface) Pen() Pen { return s.pen }

// SetPen replaces the pen for subsequent writes.
func (s *Surface) SetPen(attr terminal.Attr, fg, bg terminal.Color) {
	s.pen = Pen{Attr: attr, Fg: fg, Bg: bg}
}

// UsePen replaces the pen with p.
func (s *Surface) UsePen(p Pen) { s.pen = p }

// SetAttributes sets the pen attributes.
func (s *Surface) SetAttributes(attr terminal.Attr) { s.pen.Attr = attr }

// SetForeColor sets the pen foreground color.
func (s *Surface) SetForeColor(fg terminal.Color) { s.pen.Fg = fg }

// SetBackColor sets the pen background color.
func (s *Surface) SetBackColor(bg terminal.Color) { s.pen.Bg = bg }

// WriteText writes text at x, y with the current pen, clipped to the surface.
// Runes outside 7-bit ASCII become one '?' per display column.
func (s *Surface) WriteText(x, y int, text string) {
	if y < 0 || y >= s.height {
		return
	}
	col := x
	for i := 0; i < len(text) && col < s.width; {
		r, size := utf8.DecodeRuneInString(text[i:])
		i += size
		if r < utf8.RuneSelf && r != utf8.RuneError {
			s.put(col, y, byte(r))
			col++
			continue
		}
		for n := runewidth.RuneWidth(r); n > 0 && col < s.width; n-- {
			s.put(col, y, '?')
			col++
		}
	}
}

// WriteBytes writes raw bytes at x, y with the current pen.
func (s *Surface) WriteBytes(x, y int, text []byte) {
	if y < 0 || y >= s.height {
		return
	}
	for i, b := range text {
		if x+i >= s.width {
			return
		}
		s.put(x+i, y, b)
	}
}

// WriteChar writes one character with the current pen.
func (s *Surface) WriteChar(x, y int, ch byte) {
	s.put(x, y, ch)
}

// Repeat writes ch n times to the right of x, y.
func (s *Surface) Repeat(x, y int, ch byte, n int) {
	for i := 0; i < n; i++ {
		s.put(x+i, y, ch)
	}
}

// Fill writes ch to every cell of the w x h rectangle at x, y.
func (s *Surface) Fill(x, y, w, h int, ch byte) {
	for row := y; row < y+h; row++ {
		s.Repeat(x, row, ch, w)
	}
}

func (s *Surface) put(x, y int, ch byte) {
	if !s.inside(x, y) {
		return
	}
	s.at(x, y).apply(s.pen, ch)
}

// PutGlyph writes an alternate character set glyph at x, y.
func (s *Surface) PutGlyph(x, y int, g termcap.Glyph) {
	saved := s.pen
	s.pen.Attr |= terminal.AttrACS
	s.put(x, y, byte(g))
	s.pen = saved
}

// DrawHLine draws a horizontal line of n cells.
func (s *Surface) DrawHLine(x, y, n int) {
	saved := s.pen
	s.pen.Attr |= terminal.AttrACS
	s.Repeat(x, y, byte(termcap.HLine), n)
	s.pen = saved
}

// DrawVLine draws a vertical line of n cells.
func (s *Surface) DrawVLine(x, y, n int) {
	saved := s.pen
	s.pen.Attr |= terminal.AttrACS
	for i := 0; i < n; i++ {
		s.put(x, y+i, byte(termcap.VLine))
	}
	s.pen = saved
}

// DrawBox draws the outline of a w x h box. Junctions are left to callers.
func (s *Surface) DrawBox(x, y, w, h int) {
	if w < 2 || h < 2 {
		return
	}
	saved := s.pen
	s.pen.Attr |= terminal.AttrACS
	s.put(x, y, byte(termcap.ULCorner))
	s.put(x+w-1, y, byte(termcap.URCorner))
	s.put(x, y+h-1, byte(termcap.LLCorner))
	s.put(x+w-1, y+h-1, byte(termcap.LRCorner))
	s.Repeat(x+1, y, byte(termcap.HLine), w-2)
	s.Repeat(x+1, y+h-1, byte(termcap.HLine), w-2)
	for row := y + 1; row < y+h-1; row++ {
		s.put(x, row, byte(termcap.VLine))
		s.put(x+w-1, row, byte(termcap.VLine))
	}
	s.pen = saved
}

// SetCursor sets where the terminal cursor is left after a flush.
func (s *Surface) SetCursor(x, y int) {
	s.cursorX, s.cursorY = clamp(x, 0, s.width-1), clamp(y, 0, s.height-1)
	s.cursorHint = true
}

// HideCursorHint leaves the cursor wherever the last write put it.
func (s *Surface) HideCursorHint() {
	s.cursorHint = false
}

// Cursor returns the cursor hint.
func (s *Surface) Cursor() (x, y int, ok bool) {
	return s.cursorX, s.cursorY, s.cursorHint
}

// ClearScreen resets every cell to a blank in the default pen and marks all
// of them dirty. Callers send the terminal's clear sequence themselves.
func (s *Surface) ClearScreen() {
	for i := range s.cells {
		s.cells[i].reset()
	}
	s.term = termState{}
}

// Invalidate marks every cell dirty without changing content.
func (s *Surface) Invalidate() {
	for i := range s.cells {
		s.cells[i].dirty = true
	}
	s.term = termState{}
}

// DirtyCount returns the number of cells awaiting a flush.
func (s *Surface) DirtyCount() int {
	n := 0
	for i := range s.cells {
		if s.cells[i].dirty {
			n++
		}
	}
	return n
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
