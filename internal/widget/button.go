package widget

import (
	"pkt.systems/termframe/internal/screen"
	"pkt.systems/termframe/internal/termcap"
)

// Button fires OnPress on line feed, space, or its Ctrl hotkey.
type Button struct {
	Base
	text    hotText
	OnPress func()
}

// NewButton creates a focusable button sized to its text.
func NewButton(x, y int, text string, onPress func()) *Button {
	h := parseHotText(text)
	b := &Button{Base: newBase(x, y, len(h.text), 1), text: h, OnPress: onPress}
	b.canFocus = true
	return b
}

// SetText replaces the caption. The width is unchanged.
func (b *Button) SetText(text string) {
	b.text = parseHotText(text)
	b.dirty = true
}

func (b *Button) Draw(s *screen.Surface) {
	b.text.draw(s, b.x, b.y, b.width, b.pen())
	s.UsePen(b.normal)
	if b.focused {
		s.PutGlyph(b.x-1, b.y, termcap.RArrow)
		s.PutGlyph(b.x+b.width, b.y, termcap.LArrow)
	} else {
		s.WriteChar(b.x-1, b.y, ' ')
		s.WriteChar(b.x+b.width, b.y, ' ')
	}
	s.UsePen(screen.DefaultPen)
}

func (b *Button) CursorPosition() (int, int, bool) {
	return b.x, b.y, true
}

func (b *Button) SetFocus(s *screen.Surface) bool {
	if !b.Base.SetFocus(s) {
		return false
	}
	if s != nil {
		b.Draw(s)
	}
	return true
}

func (b *Button) LostFocus(s *screen.Surface) {
	b.Base.LostFocus(s)
	if s != nil {
		b.Draw(s)
	}
}

func (b *Button) TrapLF() bool { return true }

func (b *Button) HandleKeyLF() bool {
	b.press()
	return true
}

func (b *Button) HandleKey(ch byte) bool {
	if ch != ' ' {
		return false
	}
	b.press()
	return true
}

func (b *Button) HandleKeyCtrl(ch byte) bool {
	if !b.text.matches(ch) {
		return false
	}
	if b.owner != nil && !b.focused {
		b.owner.Focus(b)
	}
	b.press()
	return true
}

func (b *Button) press() {
	if b.OnPress != nil {
		b.OnPress()
	}
}
