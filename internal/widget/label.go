package widget

import "pkt.systems/termframe/internal/screen"

// Label is static text. An '@' before a letter marks a hotkey that moves
// focus to the label's target widget.
type Label struct {
	Base
	text   hotText
	target Widget
}

// NewLabel creates a label of the given width. A width of 0 sizes the label
// to its text.
func NewLabel(x, y, width int, text string) *Label {
	h := parseHotText(text)
	if width <= 0 {
		width = len(h.text)
	}
	return &Label{Base: newBase(x, y, width, 1), text: h}
}

// SetText replaces the label text.
func (l *Label) SetText(text string) {
	l.text = parseHotText(text)
	l.dirty = true
}

// Text returns the displayed text without hotkey markers.
func (l *Label) Text() string { return l.text.text }

// For sets the widget focused by the label's hotkey.
func (l *Label) For(w Widget) { l.target = w }

func (l *Label) Draw(s *screen.Surface) {
	l.text.draw(s, l.x, l.y, l.width, l.normal)
}

func (l *Label) HandleKeyCtrl(ch byte) bool {
	if l.target == nil || l.owner == nil || !l.text.matches(ch) {
		return false
	}
	return l.owner.Focus(l.target)
}
