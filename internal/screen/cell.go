package screen

import "pkt.systems/termframe/internal/terminal"

// Cell is one screen position. For cells carrying terminal.AttrACS the
// character is a termcap.Glyph id rather than a literal byte.
type Cell struct {
	ch    byte
	attr  terminal.Attr
	fg    terminal.Color
	bg    terminal.Color
	dirty bool
}

func blankCell() Cell {
	return Cell{ch: ' ', fg: terminal.ColorDefault, bg: terminal.ColorDefault, dirty: true}
}

// Char returns the stored character.
func (c Cell) Char() byte { return c.ch }

// Attributes returns the attribute bits.
func (c Cell) Attributes() terminal.Attr { return c.attr }

// ForeColor returns the foreground color.
func (c Cell) ForeColor() terminal.Color { return c.fg }

// BackColor returns the background color.
func (c Cell) BackColor() terminal.Color { return c.bg }

// Dirty reports whether the cell changed since the last flush.
func (c Cell) Dirty() bool { return c.dirty }

// SetChar sets the character. Writing the current value leaves the cell clean.
func (c *Cell) SetChar(ch byte) {
	if c.ch == ch {
		return
	}
	c.ch = ch
	c.dirty = true
}

// SetAttributes sets the attribute bits.
func (c *Cell) SetAttributes(attr terminal.Attr) {
	if c.attr == attr {
		return
	}
	c.attr = attr
	c.dirty = true
}

// SetForeColor sets the foreground color.
func (c *Cell) SetForeColor(fg terminal.Color) {
	if c.fg == fg {
		return
	}
	c.fg = fg
	c.dirty = true
}

// SetBackColor sets the background color.
func (c *Cell) SetBackColor(bg terminal.Color) {
	if c.bg == bg {
		return
	}
	c.bg = bg
	c.dirty = true
}

func (c *Cell) apply(p Pen, ch byte) {
	c.SetAttributes(p.Attr)
	c.SetForeColor(p.Fg)
	c.SetBackColor(p.Bg)
	c.SetChar(ch)
}

func (c *Cell) reset() {
	*c = blankCell()
}
