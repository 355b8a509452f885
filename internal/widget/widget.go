// Package widget implements the text-mode widget set drawn onto a
// screen.Surface. Widgets are owned by a frame and reach back into it only
// through the Owner interface.
package widget

import (
	"pkt.systems/termframe/internal/screen"
	"pkt.systems/termframe/internal/terminal"
)

// Widget is the contract every widget satisfies. Handlers return true when
// they consumed the key.
type Widget interface {
	Common() *Base
	Draw(s *screen.Surface)
	HandleKey(ch byte) bool
	HandleKeyCtrl(ch byte) bool
	HandleKeyCmd(key terminal.Key) bool
	HandleKeyLF() bool
	CursorPosition() (x, y int, ok bool)
	SetFocus(s *screen.Surface) bool
	LostFocus(s *screen.Surface)
	TrapTabKey() bool
	TrapLF() bool
	ResizeColumns(oldW, newW int)
	ResizeRows(oldH, newH int)
}

// Owner is the frame-side view a widget may call into.
type Owner interface {
	FocusNext()
	FocusPrev()
	Focus(w Widget) bool
	Invalidate(w Widget)
}

// Anchor selects the frame edges a widget tracks on resize.
type Anchor uint8

const (
	AnchorLeft Anchor = 1 << iota
	AnchorRight
	AnchorTop
	AnchorBottom
	// AnchorFixed makes a widget anchored to the right (or bottom) edge but
	// not the opposite one keep its size and move with that edge instead.
	AnchorFixed

	AnchorNone Anchor = 0
)

// Base carries the state common to every widget and neutral defaults for
// every Widget method except Draw.
type Base struct {
	x, y          int
	width, height int
	zOrder        int
	tabOrder      int
	tabSet        bool
	canFocus      bool
	focused       bool
	normal        screen.Pen
	active        screen.Pen
	anchor        Anchor
	dirty         bool
	owner         Owner
}

func newBase(x, y, width, height int) Base {
	return Base{
		x:      x,
		y:      y,
		width:  max(width, 1),
		height: max(height, 1),
		normal: screen.DefaultPen,
		active: screen.Pen{Attr: terminal.AttrReverse, Fg: terminal.ColorDefault, Bg: terminal.ColorDefault},
		anchor: AnchorLeft | AnchorTop,
		dirty:  true,
	}
}

// Common returns the shared widget state.
func (b *Base) Common() *Base { return b }

// Bounds returns the position and size.
func (b *Base) Bounds() (x, y, width, height int) {
	return b.x, b.y, b.width, b.height
}

// Move sets the position.
func (b *Base) Move(x, y int) {
	b.x, b.y = x, y
	b.dirty = true
}

// SetSize sets the size. Sizes below 1 are raised to 1.
func (b *Base) SetSize(width, height int) {
	b.width, b.height = max(width, 1), max(height, 1)
	b.dirty = true
}

// Overlaps reports whether the bounds of b and o intersect.
func (b *Base) Overlaps(o *Base) bool {
	return b.x < o.x+o.width && o.x < b.x+b.width &&
		b.y < o.y+o.height && o.y < b.y+b.height
}

func (b *Base) ZOrder() int           { return b.zOrder }
func (b *Base) SetZOrder(z int)       { b.zOrder = z }
func (b *Base) TabOrder() int         { return b.tabOrder }
func (b *Base) CanFocus() bool        { return b.canFocus }
func (b *Base) Focused() bool         { return b.focused }
func (b *Base) Dirty() bool           { return b.dirty }
func (b *Base) MarkDirty()            { b.dirty = true }
func (b *Base) ClearDirty()           { b.dirty = false }
func (b *Base) Anchor() Anchor        { return b.anchor }
func (b *Base) SetAnchor(a Anchor)    { b.anchor = a }
func (b *Base) Owner() Owner          { return b.owner }
func (b *Base) SetOwner(o Owner)      { b.owner = o }
func (b *Base) NormalPen() screen.Pen { return b.normal }
func (b *Base) ActivePen() screen.Pen { return b.active }

// SetTabOrder sets the 1-based tab position. 0 removes the widget from the
// tab cycle. A focusable widget added to a frame without an explicit order
// takes the next free position.
func (b *Base) SetTabOrder(n int) {
	if n < 0 {
		n = 0
	}
	b.tabOrder = n
	b.tabSet = true
}

// TabOrderSet reports whether a tab order was assigned.
func (b *Base) TabOrderSet() bool { return b.tabSet }

// SetCanFocus controls whether SetFocus succeeds.
func (b *Base) SetCanFocus(v bool) {
	b.canFocus = v
	if !v {
		b.focused = false
	}
}

// SetColors sets the normal pen.
func (b *Base) SetColors(attr terminal.Attr, fg, bg terminal.Color) {
	b.normal = screen.Pen{Attr: attr, Fg: fg, Bg: bg}
	b.dirty = true
}

// SetActiveColors sets the pen used while focused or selected.
func (b *Base) SetActiveColors(attr terminal.Attr, fg, bg terminal.Color) {
	b.active = screen.Pen{Attr: attr, Fg: fg, Bg: bg}
	b.dirty = true
}

func (b *Base) pen() screen.Pen {
	if b.focused {
		return b.active
	}
	return b.normal
}

func (b *Base) HandleKey(byte) bool                 { return false }
func (b *Base) HandleKeyCtrl(byte) bool             { return false }
func (b *Base) HandleKeyCmd(terminal.Key) bool      { return false }
func (b *Base) HandleKeyLF() bool                   { return false }
func (b *Base) CursorPosition() (x, y int, ok bool) { return 0, 0, false }
func (b *Base) TrapTabKey() bool                    { return false }
func (b *Base) TrapLF() bool                        { return false }

// SetFocus focuses the widget if it accepts focus.
func (b *Base) SetFocus(*screen.Surface) bool {
	if !b.canFocus {
		return false
	}
	b.focused = true
	b.dirty = true
	return true
}

// LostFocus clears the focus flag.
func (b *Base) LostFocus(*screen.Surface) {
	b.focused = false
	b.dirty = true
}

// ResizeColumns applies a frame width change according to the anchors.
func (b *Base) ResizeColumns(oldW, newW int) {
	if b.anchor&AnchorRight == 0 {
		return
	}
	if b.anchor&(AnchorFixed|AnchorLeft) == AnchorFixed {
		b.x = max(b.x+newW-oldW, 0)
	} else {
		b.x, b.width = resizeSpan(b.x, b.width, newW-oldW, newW)
	}
	b.dirty = true
}

// ResizeRows applies a frame height change according to the anchors.
func (b *Base) ResizeRows(oldH, newH int) {
	if b.anchor&AnchorBottom == 0 {
		return
	}
	if b.anchor&(AnchorFixed|AnchorTop) == AnchorFixed {
		b.y = max(b.y+newH-oldH, 0)
	} else {
		b.y, b.height = resizeSpan(b.y, b.height, newH-oldH, newH)
	}
	b.dirty = true
}

func resizeSpan(pos, size, delta, limit int) (int, int) {
	size = max(size+delta, 1)
	if pos+size > limit {
		pos = max(limit-size, 0)
		size = min(size, limit-pos)
	}
	return pos, max(size, 1)
}

func (b *Base) notifyOwner(w Widget) {
	if b.owner != nil {
		b.owner.Invalidate(w)
	}
}
