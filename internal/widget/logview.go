package widget

import (
	"pkt.systems/termframe/internal/screen"
	"pkt.systems/termframe/internal/terminal"
)

// DefaultScrollback bounds the number of wrapped lines a LogView keeps.
const DefaultScrollback = 500

// LogView shows the newest lines of an append-only log, bottom-up.
type LogView struct {
	Base
	lines      []string
	scrollback int
	offset     int
}

// NewLogView creates a log view keeping at most scrollback wrapped lines.
func NewLogView(x, y, width, height, scrollback int) *LogView {
	if scrollback <= 0 {
		scrollback = DefaultScrollback
	}
	return &LogView{Base: newBase(x, y, width, height), scrollback: scrollback}
}

// Append adds text, wrapping it at the current width.
func (l *LogView) Append(text string) {
	l.lines = append(l.lines, reflow(text, l.width)...)
	if extra := len(l.lines) - l.scrollback; extra > 0 {
		l.lines = append(l.lines[:0], l.lines[extra:]...)
	}
	if l.offset > 0 {
		l.offset = min(l.offset, l.maxOffset())
	}
	l.dirty = true
}

// Lines returns the retained wrapped lines, oldest first.
func (l *LogView) Lines() []string {
	out := make([]string, len(l.lines))
	copy(out, l.lines)
	return out
}

// Clear drops all lines.
func (l *LogView) Clear() {
	l.lines = nil
	l.offset = 0
	l.dirty = true
}

func (l *LogView) maxOffset() int {
	return max(len(l.lines)-l.height, 0)
}

func (l *LogView) Draw(s *screen.Surface) {
	s.UsePen(l.normal)
	last := len(l.lines) - 1 - l.offset
	for row := l.height - 1; row >= 0; row-- {
		text := ""
		if last >= 0 {
			text = l.lines[last]
			last--
		}
		s.WriteText(l.x, l.y+row, pad(text, l.width))
	}
	s.UsePen(screen.DefaultPen)
}

func (l *LogView) HandleKeyCmd(key terminal.Key) bool {
	switch key {
	case terminal.KeyPageUp:
		l.offset = min(l.offset+l.height, l.maxOffset())
	case terminal.KeyPageDown:
		l.offset = max(l.offset-l.height, 0)
	case terminal.KeyHome:
		l.offset = l.maxOffset()
	case terminal.KeyEnd:
		l.offset = 0
	default:
		return false
	}
	l.dirty = true
	return true
}

// TextBlock draws a text blob reflowed into its bounds.
type TextBlock struct {
	Base
	text string
}

// NewTextBlock creates a text block.
func NewTextBlock(x, y, width, height int, text string) *TextBlock {
	return &TextBlock{Base: newBase(x, y, width, height), text: text}
}

// SetText replaces the text.
func (t *TextBlock) SetText(text string) {
	t.text = text
	t.dirty = true
}

func (t *TextBlock) Draw(s *screen.Surface) {
	lines := reflow(t.text, t.width)
	s.UsePen(t.normal)
	for row := 0; row < t.height; row++ {
		text := ""
		if row < len(lines) {
			text = lines[row]
		}
		s.WriteText(t.x, t.y+row, pad(text, t.width))
	}
	s.UsePen(screen.DefaultPen)
}
