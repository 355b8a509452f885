package widget

import (
	"strings"

	"pkt.systems/termframe/internal/screen"
	"pkt.systems/termframe/internal/terminal"
)

// hotText is display text with an optional '@' marked accelerator. "@@"
// renders a literal '@'.
type hotText struct {
	text   string
	index  int
	hotkey byte
}

func parseHotText(s string) hotText {
	var b strings.Builder
	h := hotText{index: -1}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '@' && i+1 < len(s) {
			i++
			c = s[i]
			if c != '@' && h.index < 0 {
				h.index = b.Len()
				h.hotkey = upper(c)
			}
		}
		b.WriteByte(c)
	}
	h.text = b.String()
	return h
}

// matches reports whether the control byte ch selects this hotkey.
func (h hotText) matches(ch byte) bool {
	if h.hotkey == 0 {
		return false
	}
	letter, ok := terminal.CtrlLetter(ch)
	return ok && letter == h.hotkey
}

// draw writes the text padded or truncated to width, underlining the hotkey.
func (h hotText) draw(s *screen.Surface, x, y, width int, pen screen.Pen) {
	s.UsePen(pen)
	s.WriteText(x, y, pad(h.text, width))
	if h.index >= 0 && h.index < width {
		s.SetAttributes(pen.Attr | terminal.AttrUnderline)
		s.WriteChar(x+h.index, y, h.text[h.index])
	}
	s.UsePen(screen.DefaultPen)
}

func upper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}

func pad(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if len(s) >= width {
		return s[:width]
	}
	return s + strings.Repeat(" ", width-len(s))
}
