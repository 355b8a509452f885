// Package frame groups the widgets of one logical screen and routes keys to
// them.
package frame

import (
	"pkt.systems/termframe/internal/screen"
	"pkt.systems/termframe/internal/terminal"
	"pkt.systems/termframe/internal/widget"
)

// Frame owns a z-ordered widget list, the tab table and the focus pointer.
type Frame struct {
	width, height int
	widgets       []widget.Widget
	tabs          []widget.Widget
	focused       widget.Widget
	fnKeys        [terminal.MaxFunctionKey + 1]func()
	onLF          func()
	cmdKeys       map[terminal.Key]func()
	surface       *screen.Surface
}

// New creates an empty frame laid out for width x height.
func New(width, height int) *Frame {
	return &Frame{width: max(width, 1), height: max(height, 1)}
}

// Size returns the geometry the widgets are currently laid out for.
func (f *Frame) Size() (width, height int) {
	return f.width, f.height
}

// Surface returns the attached surface, if any.
func (f *Frame) Surface() *screen.Surface { return f.surface }

// Widgets returns the widgets in z-order.
func (f *Frame) Widgets() []widget.Widget {
	return append([]widget.Widget(nil), f.widgets...)
}

// Focused returns the focused widget or nil.
func (f *Frame) Focused() widget.Widget { return f.focused }

// AddWidget appends w on top of the z-order. The first focusable widget
// added to a frame without focus receives it.
func (f *Frame) AddWidget(w widget.Widget) {
	b := w.Common()
	b.SetOwner(f)
	b.SetZOrder(len(f.widgets))
	b.MarkDirty()
	if b.CanFocus() && !b.TabOrderSet() {
		b.SetTabOrder(len(f.tabs) + 1)
	}
	f.widgets = append(f.widgets, w)
	f.rebuildTabs()
	if f.focused == nil && b.CanFocus() {
		f.SetFocus(w)
	}
}

// AddWidgets adds each widget in order.
func (f *Frame) AddWidgets(ws ...widget.Widget) {
	for _, w := range ws {
		f.AddWidget(w)
	}
}

// RemoveWidget drops w. Removing the focused widget moves focus to the next
// tab stop, if any.
func (f *Frame) RemoveWidget(w widget.Widget) {
	idx := f.indexOf(w)
	if idx < 0 {
		return
	}
	var next widget.Widget
	if w == f.focused {
		next = f.nextTab(1)
		w.LostFocus(nil)
		f.focused = nil
	}
	f.widgets = append(f.widgets[:idx], f.widgets[idx+1:]...)
	for i := idx; i < len(f.widgets); i++ {
		f.widgets[i].Common().SetZOrder(i)
	}
	f.rebuildTabs()
	f.clearArea(w.Common())
	w.Common().SetOwner(nil)
	if next != nil && next != w {
		f.SetFocus(next)
	}
}

// RemoveAllWidgets empties the frame.
func (f *Frame) RemoveAllWidgets() {
	for _, w := range f.widgets {
		w.Common().SetOwner(nil)
	}
	if f.focused != nil {
		f.focused.LostFocus(nil)
	}
	f.widgets = nil
	f.tabs = nil
	f.focused = nil
	if f.surface != nil {
		f.surface.UsePen(screen.DefaultPen)
		f.surface.Fill(0, 0, f.surface.Width(), f.surface.Height(), ' ')
	}
}

func (f *Frame) indexOf(w widget.Widget) int {
	for i, cur := range f.widgets {
		if cur == w {
			return i
		}
	}
	return -1
}

// clearArea blanks the cells a removed widget covered, including the focus
// marker columns, and marks every widget underneath dirty.
func (f *Frame) clearArea(b *widget.Base) {
	x, y, w, h := b.Bounds()
	if f.surface != nil {
		f.surface.UsePen(screen.DefaultPen)
		f.surface.Fill(x-1, y, w+2, h, ' ')
	}
	for _, other := range f.widgets {
		if other.Common().Overlaps(b) {
			other.Common().MarkDirty()
		}
	}
}

// rebuildTabs sizes the tab table to the largest tab order in use. When two
// widgets share an order the lower one in z-order keeps the slot.
func (f *Frame) rebuildTabs() {
	size := 0
	for _, w := range f.widgets {
		size = max(size, w.Common().TabOrder())
	}
	f.tabs = make([]widget.Widget, size)
	for _, w := range f.widgets {
		if n := w.Common().TabOrder(); n > 0 && f.tabs[n-1] == nil {
			f.tabs[n-1] = w
		}
	}
}

// SetTabOrder changes the tab order of a member widget.
func (f *Frame) SetTabOrder(w widget.Widget, n int) {
	w.Common().SetTabOrder(n)
	f.rebuildTabs()
}

// nextTab returns the next focusable tab stop in direction dir (+1 or -1),
// wrapping around, or nil when there is none besides the focused widget.
func (f *Frame) nextTab(dir int) widget.Widget {
	n := len(f.tabs)
	if n == 0 {
		return nil
	}
	start := -1
	if dir < 0 {
		start = n
	}
	if f.focused != nil {
		if order := f.focused.Common().TabOrder(); order > 0 && order <= n && f.tabs[order-1] == f.focused {
			start = order - 1
		}
	}
	for i := 1; i <= n; i++ {
		idx := ((start+dir*i)%n + n) % n
		w := f.tabs[idx]
		if w != nil && w != f.focused && w.Common().CanFocus() {
			return w
		}
	}
	return nil
}

// SetFocus moves focus to w, redrawing both widgets' focus indicators when a
// surface is attached. It fails for non-members and widgets that refuse focus.
func (f *Frame) SetFocus(w widget.Widget) bool {
	if w == f.focused {
		return w != nil
	}
	if f.indexOf(w) < 0 || !w.Common().CanFocus() {
		return false
	}
	if old := f.focused; old != nil {
		old.LostFocus(f.surface)
	}
	if !w.SetFocus(f.surface) {
		f.focused = nil
		return false
	}
	f.focused = w
	return true
}

// Focus implements widget.Owner.
func (f *Frame) Focus(w widget.Widget) bool { return f.SetFocus(w) }

// Invalidate implements widget.Owner.
func (f *Frame) Invalidate(w widget.Widget) { w.Common().MarkDirty() }

// FocusNext moves focus to the next tab stop. Without any it is a no-op.
func (f *Frame) FocusNext() {
	if w := f.nextTab(1); w != nil {
		f.SetFocus(w)
	}
}

// FocusPrev moves focus to the previous tab stop.
func (f *Frame) FocusPrev() {
	if w := f.nextTab(-1); w != nil {
		f.SetFocus(w)
	}
}

// SetFunctionKey installs the handler run for function key k.
func (f *Frame) SetFunctionKey(k terminal.FunctionKey, fn func()) {
	if k.Valid() {
		f.fnKeys[k] = fn
	}
}

// SetLineFeedHandler installs the handler run for line feed when the focused
// widget does not trap it.
func (f *Frame) SetLineFeedHandler(fn func()) { f.onLF = fn }

// SetCommandHandler runs fn for command key k when the focused widget does
// not consume it. A nil fn removes the handler.
func (f *Frame) SetCommandHandler(k terminal.Key, fn func()) {
	if fn == nil {
		delete(f.cmdKeys, k)
		return
	}
	if f.cmdKeys == nil {
		f.cmdKeys = make(map[terminal.Key]func())
	}
	f.cmdKeys[k] = fn
}

// HandleKeyTab advances focus unless the focused widget keeps Tab and
// consumes it.
func (f *Frame) HandleKeyTab() {
	if f.trapped(terminal.KeyTab) {
		return
	}
	f.FocusNext()
}

// HandleKeyBacktab moves focus backwards unless the focused widget keeps Tab
// and consumes Shift-Tab.
func (f *Frame) HandleKeyBacktab() {
	if f.trapped(terminal.KeyBacktab) {
		return
	}
	f.FocusPrev()
}

func (f *Frame) trapped(key terminal.Key) bool {
	return f.focused != nil && f.focused.TrapTabKey() && f.focused.HandleKeyCmd(key)
}

// HandleKey routes a printable character to the focused widget.
func (f *Frame) HandleKey(ch byte) bool {
	if f.focused == nil {
		return false
	}
	return f.focused.HandleKey(ch)
}

// HandleKeyControl offers a control byte to the focused widget and then to
// every widget's hotkeys in z-order.
func (f *Frame) HandleKeyControl(ch byte) bool {
	if f.focused != nil && f.focused.HandleKeyCtrl(ch) {
		return true
	}
	for _, w := range f.Widgets() {
		if w != f.focused && w.HandleKeyCtrl(ch) {
			return true
		}
	}
	return false
}

// HandleKeyCmd routes a command key to the focused widget, then to the
// frame's command handlers. Unhandled down and up move focus.
func (f *Frame) HandleKeyCmd(key terminal.Key) bool {
	switch key {
	case terminal.KeyTab:
		f.HandleKeyTab()
		return true
	case terminal.KeyBacktab:
		f.HandleKeyBacktab()
		return true
	}
	if f.focused != nil && f.focused.HandleKeyCmd(key) {
		return true
	}
	if fn := f.cmdKeys[key]; fn != nil {
		fn()
		return true
	}
	switch key {
	case terminal.KeyDown:
		f.FocusNext()
		return true
	case terminal.KeyUp:
		f.FocusPrev()
		return true
	}
	return false
}

// HandleKeyFN runs the frame's handler for function key k.
func (f *Frame) HandleKeyFN(k terminal.FunctionKey) bool {
	if !k.Valid() || f.fnKeys[k] == nil {
		return false
	}
	f.fnKeys[k]()
	return true
}

// HandleKeyLF gives line feed to a focused widget that traps it, then to the
// frame handler, and otherwise advances focus.
func (f *Frame) HandleKeyLF() {
	switch {
	case f.focused != nil && f.focused.TrapLF():
		f.focused.HandleKeyLF()
	case f.onLF != nil:
		f.onLF()
	default:
		f.FocusNext()
	}
}

// Attach binds the frame to s, resizing widgets when the geometry differs.
func (f *Frame) Attach(s *screen.Surface) {
	f.Resize(s)
}

// Resize propagates a new surface geometry: all columns first, then all
// rows, so no column change is computed from a row-resized sibling.
func (f *Frame) Resize(s *screen.Surface) {
	f.surface = s
	if s == nil {
		return
	}
	w, h := s.Width(), s.Height()
	if w != f.width {
		for _, wd := range f.widgets {
			wd.ResizeColumns(f.width, w)
		}
		f.width = w
	}
	if h != f.height {
		for _, wd := range f.widgets {
			wd.ResizeRows(f.height, h)
		}
		f.height = h
	}
}

// Detach forgets the surface. The frame keeps its widgets and layout.
func (f *Frame) Detach() {
	f.surface = nil
}

// Redraw clears the surface and draws every widget.
func (f *Frame) Redraw() {
	s := f.surface
	if s == nil {
		return
	}
	s.UsePen(screen.DefaultPen)
	s.ClearScreen()
	for _, w := range f.widgets {
		w.Draw(s)
		w.Common().ClearDirty()
	}
	f.placeCursor()
}

// Update draws dirty widgets and every higher widget overlapping one of
// them, then places the cursor.
func (f *Frame) Update() {
	s := f.surface
	if s == nil {
		return
	}
	draw := make([]bool, len(f.widgets))
	for i, w := range f.widgets {
		draw[i] = w.Common().Dirty()
	}
	for i := range f.widgets {
		if !draw[i] {
			continue
		}
		for j := i + 1; j < len(f.widgets); j++ {
			if !draw[j] && f.widgets[j].Common().Overlaps(f.widgets[i].Common()) {
				draw[j] = true
			}
		}
	}
	for i, w := range f.widgets {
		if draw[i] {
			w.Draw(s)
			w.Common().ClearDirty()
		}
	}
	f.placeCursor()
}

func (f *Frame) placeCursor() {
	if f.focused != nil {
		if x, y, ok := f.focused.CursorPosition(); ok {
			f.surface.SetCursor(x, y)
			return
		}
	}
	f.surface.HideCursorHint()
}
