package widget

import (
	"strings"

	"pkt.systems/termframe/internal/screen"
	"pkt.systems/termframe/internal/termcap"
	"pkt.systems/termframe/internal/terminal"
)

// TextBox is a fixed-width, single-line input field.
type TextBox struct {
	Base
	text      []byte
	caret     int
	overwrite bool

	// Mask, when non-zero, is drawn in place of every character.
	Mask byte
	// AutoAdvance moves focus to the next tab stop once the box is full.
	AutoAdvance bool
	OnChange    func(text string)
}

// NewTextBox creates a focusable text box holding at most width characters.
func NewTextBox(x, y, width int) *TextBox {
	t := &TextBox{Base: newBase(x, y, width, 1)}
	t.canFocus = true
	t.active = t.normal
	t.active.Attr |= terminal.AttrUnderline
	return t
}

// NewPasswordBox creates a text box that masks its contents.
func NewPasswordBox(x, y, width int) *TextBox {
	t := NewTextBox(x, y, width)
	t.Mask = '*'
	return t
}

// Text returns the current contents.
func (t *TextBox) Text() string { return string(t.text) }

// SetText replaces the contents, truncated to the width, and moves the caret
// to the end.
func (t *TextBox) SetText(text string) {
	if len(text) > t.width {
		text = text[:t.width]
	}
	t.text = []byte(text)
	t.caret = len(t.text)
	t.dirty = true
}

// Overwrite reports whether typed characters replace the one at the caret.
func (t *TextBox) Overwrite() bool { return t.overwrite }

func (t *TextBox) Draw(s *screen.Surface) {
	shown := string(t.text)
	if t.Mask != 0 {
		shown = strings.Repeat(string(t.Mask), len(t.text))
	}
	s.UsePen(t.pen())
	s.WriteText(t.x, t.y, pad(shown, t.width))
	s.UsePen(t.normal)
	if t.focused {
		s.PutGlyph(t.x-1, t.y, termcap.RArrow)
		s.PutGlyph(t.x+t.width, t.y, termcap.LArrow)
	} else {
		s.WriteChar(t.x-1, t.y, ' ')
		s.WriteChar(t.x+t.width, t.y, ' ')
	}
	s.UsePen(screen.DefaultPen)
}

func (t *TextBox) CursorPosition() (int, int, bool) {
	return t.x + min(t.caret, t.width-1), t.y, true
}

func (t *TextBox) SetFocus(s *screen.Surface) bool {
	if !t.Base.SetFocus(s) {
		return false
	}
	if s != nil {
		t.Draw(s)
	}
	return true
}

func (t *TextBox) LostFocus(s *screen.Surface) {
	t.Base.LostFocus(s)
	if s != nil {
		t.Draw(s)
	}
}

// HandleKey inserts or overwrites a printable character. It returns false
// when the box is full.
func (t *TextBox) HandleKey(ch byte) bool {
	if !terminal.IsPrintable(ch) {
		return false
	}
	switch {
	case t.overwrite && t.caret < len(t.text):
		t.text[t.caret] = ch
	case len(t.text) >= t.width:
		return false
	default:
		t.text = append(t.text, 0)
		copy(t.text[t.caret+1:], t.text[t.caret:])
		t.text[t.caret] = ch
	}
	t.caret++
	t.changed()
	if t.AutoAdvance && len(t.text) >= t.width && t.caret >= t.width && t.owner != nil {
		t.owner.FocusNext()
	}
	return true
}

func (t *TextBox) HandleKeyCmd(key terminal.Key) bool {
	switch key {
	case terminal.KeyLeft:
		if t.caret > 0 {
			t.caret--
		}
	case terminal.KeyRight:
		if t.caret < len(t.text) && t.caret < t.width-1 {
			t.caret++
		}
	case terminal.KeyHome:
		t.caret = 0
	case terminal.KeyEnd:
		t.caret = min(len(t.text), t.width-1)
	case terminal.KeyInsert:
		t.overwrite = !t.overwrite
	case terminal.KeyBackspace:
		if t.caret == 0 {
			return true
		}
		t.caret--
		t.text = append(t.text[:t.caret], t.text[t.caret+1:]...)
		t.changed()
	case terminal.KeyDelete:
		if t.caret >= len(t.text) {
			return true
		}
		t.text = append(t.text[:t.caret], t.text[t.caret+1:]...)
		t.changed()
	default:
		return false
	}
	t.dirty = true
	return true
}

func (t *TextBox) changed() {
	t.dirty = true
	if t.OnChange != nil {
		t.OnChange(string(t.text))
	}
}

// ActionTextBox is a TextBox that claims line feed and reports the text.
type ActionTextBox struct {
	TextBox
	OnAction func(text string)
}

// NewActionTextBox creates an action text box.
func NewActionTextBox(x, y, width int, onAction func(string)) *ActionTextBox {
	a := &ActionTextBox{TextBox: *NewTextBox(x, y, width), OnAction: onAction}
	return a
}

func (a *ActionTextBox) TrapLF() bool { return true }

func (a *ActionTextBox) HandleKeyLF() bool {
	if a.OnAction != nil {
		a.OnAction(a.Text())
	}
	return true
}
