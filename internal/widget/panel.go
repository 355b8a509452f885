package widget

import (
	"strings"

	"pkt.systems/termframe/internal/screen"
	"pkt.systems/termframe/internal/terminal"
)

const tabWidth = 8

// Panel is a cell addressable text grid. A focusable panel is editable: it
// keeps Tab for indentation and line feed for a new line.
type Panel struct {
	Base
	grid   []byte
	cx, cy int
}

// NewPanel creates a panel filled with spaces.
func NewPanel(x, y, width, height int) *Panel {
	p := &Panel{Base: newBase(x, y, width, height)}
	p.grid = blankGrid(p.width, p.height)
	return p
}

// NewEditPanel creates a focusable, editable panel.
func NewEditPanel(x, y, width, height int) *Panel {
	p := NewPanel(x, y, width, height)
	p.canFocus = true
	return p
}

func blankGrid(w, h int) []byte {
	g := make([]byte, w*h)
	for i := range g {
		g[i] = ' '
	}
	return g
}

// Put stores one character; positions outside the panel are ignored.
func (p *Panel) Put(x, y int, ch byte) {
	if x < 0 || y < 0 || x >= p.width || y >= p.height {
		return
	}
	p.grid[y*p.width+x] = ch
	p.dirty = true
}

// WriteAt stores text starting at x, y, clipped to the row.
func (p *Panel) WriteAt(x, y int, text string) {
	for i := 0; i < len(text); i++ {
		p.Put(x+i, y, text[i])
	}
}

// Clear blanks the panel and homes the caret.
func (p *Panel) Clear() {
	p.grid = blankGrid(p.width, p.height)
	p.cx, p.cy = 0, 0
	p.dirty = true
}

// Text returns the rows with trailing spaces removed.
func (p *Panel) Text() string {
	rows := make([]string, p.height)
	for y := range rows {
		rows[y] = strings.TrimRight(string(p.grid[y*p.width:(y+1)*p.width]), " ")
	}
	return strings.TrimRight(strings.Join(rows, "\n"), "\n")
}

func (p *Panel) Draw(s *screen.Surface) {
	s.UsePen(p.normal)
	for y := 0; y < p.height; y++ {
		s.WriteBytes(p.x, p.y+y, p.grid[y*p.width:(y+1)*p.width])
	}
	s.UsePen(screen.DefaultPen)
}

func (p *Panel) CursorPosition() (int, int, bool) {
	if !p.canFocus {
		return 0, 0, false
	}
	return p.x + p.cx, p.y + p.cy, true
}

func (p *Panel) TrapTabKey() bool { return p.canFocus }
func (p *Panel) TrapLF() bool     { return p.canFocus }

func (p *Panel) HandleKey(ch byte) bool {
	if !p.canFocus || !terminal.IsPrintable(ch) {
		return false
	}
	p.Put(p.cx, p.cy, ch)
	p.advance()
	return true
}

func (p *Panel) HandleKeyLF() bool {
	if !p.canFocus {
		return false
	}
	p.cx = 0
	p.cy = min(p.cy+1, p.height-1)
	return true
}

func (p *Panel) HandleKeyCmd(key terminal.Key) bool {
	if !p.canFocus {
		return false
	}
	switch key {
	case terminal.KeyTab:
		p.cx = min((p.cx/tabWidth+1)*tabWidth, p.width-1)
	case terminal.KeyLeft:
		p.cx = max(p.cx-1, 0)
	case terminal.KeyRight:
		p.cx = min(p.cx+1, p.width-1)
	case terminal.KeyUp:
		p.cy = max(p.cy-1, 0)
	case terminal.KeyDown:
		p.cy = min(p.cy+1, p.height-1)
	case terminal.KeyHome:
		p.cx = 0
	case terminal.KeyEnd:
		p.cx = p.width - 1
	case terminal.KeyBackspace:
		if p.cx > 0 {
			p.cx--
		} else if p.cy > 0 {
			p.cy--
			p.cx = p.width - 1
		}
		p.Put(p.cx, p.cy, ' ')
	case terminal.KeyDelete:
		row := p.grid[p.cy*p.width : (p.cy+1)*p.width]
		copy(row[p.cx:], row[p.cx+1:])
		row[len(row)-1] = ' '
		p.dirty = true
	default:
		return false
	}
	return true
}

func (p *Panel) advance() {
	p.cx++
	if p.cx >= p.width {
		p.cx = 0
		p.cy = min(p.cy+1, p.height-1)
	}
}

func (p *Panel) ResizeColumns(oldW, newW int) {
	w, h := p.width, p.height
	p.Base.ResizeColumns(oldW, newW)
	p.regrid(w, h)
}

func (p *Panel) ResizeRows(oldH, newH int) {
	w, h := p.width, p.height
	p.Base.ResizeRows(oldH, newH)
	p.regrid(w, h)
}

func (p *Panel) regrid(oldW, oldH int) {
	if oldW == p.width && oldH == p.height {
		return
	}
	grid := blankGrid(p.width, p.height)
	for y := 0; y < min(oldH, p.height); y++ {
		copy(grid[y*p.width:y*p.width+min(oldW, p.width)], p.grid[y*oldW:])
	}
	p.grid = grid
	p.cx = min(p.cx, p.width-1)
	p.cy = min(p.cy, p.height-1)
}

// Box is a decorative line-drawn frame with an optional title.
type Box struct {
	Base
	title string
}

// NewBox creates a box.
func NewBox(x, y, width, height int, title string) *Box {
	return &Box{Base: newBase(x, y, width, height), title: title}
}

// SetTitle replaces the title.
func (b *Box) SetTitle(title string) {
	b.title = title
	b.dirty = true
}

func (b *Box) Draw(s *screen.Surface) {
	s.UsePen(b.normal)
	s.DrawBox(b.x, b.y, b.width, b.height)
	if b.title != "" && b.width > 4 {
		title := " " + b.title + " "
		if len(title) > b.width-4 {
			title = title[:b.width-4]
		}
		s.WriteText(b.x+2, b.y, title)
	}
	s.UsePen(screen.DefaultPen)
}
