package widget

import (
	"pkt.systems/termframe/internal/screen"
	"pkt.systems/termframe/internal/terminal"
)

// Spinner cycles through a fixed list of options.
type Spinner struct {
	Base
	options  []string
	index    int
	OnChange func(index int, value string)
}

// NewSpinner creates a focusable spinner. The width fits the longest option.
func NewSpinner(x, y int, options ...string) *Spinner {
	width := 1
	for _, o := range options {
		width = max(width, len(o))
	}
	sp := &Spinner{Base: newBase(x, y, width, 1), options: options}
	sp.canFocus = true
	return sp
}

// Value returns the selected index and option.
func (sp *Spinner) Value() (int, string) {
	if len(sp.options) == 0 {
		return -1, ""
	}
	return sp.index, sp.options[sp.index]
}

// Select sets the selected index without firing OnChange.
func (sp *Spinner) Select(index int) {
	if index < 0 || index >= len(sp.options) {
		return
	}
	sp.index = index
	sp.dirty = true
}

func (sp *Spinner) Draw(s *screen.Surface) {
	_, value := sp.Value()
	s.UsePen(sp.pen())
	s.WriteText(sp.x, sp.y, pad(value, sp.width))
	s.UsePen(screen.DefaultPen)
}

func (sp *Spinner) CursorPosition() (int, int, bool) {
	return sp.x, sp.y, true
}

func (sp *Spinner) HandleKey(ch byte) bool {
	if !terminal.IsPrintable(ch) {
		return false
	}
	sp.step(1)
	return true
}

func (sp *Spinner) HandleKeyCmd(key terminal.Key) bool {
	switch key {
	case terminal.KeyRight:
		sp.step(1)
	case terminal.KeyLeft:
		sp.step(-1)
	default:
		return false
	}
	return true
}

func (sp *Spinner) step(delta int) {
	n := len(sp.options)
	if n == 0 {
		return
	}
	sp.index = (sp.index + delta + n) % n
	sp.dirty = true
	if sp.OnChange != nil {
		sp.OnChange(sp.index, sp.options[sp.index])
	}
}
