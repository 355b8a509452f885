package frame

import (
	"bytes"
	"testing"

	"pkt.systems/termframe/internal/screen"
	"pkt.systems/termframe/internal/termcap"
	"pkt.systems/termframe/internal/terminal"
	"pkt.systems/termframe/internal/widget"
)

func newSurface(t *testing.T, w, h int) *screen.Surface {
	t.Helper()
	caps, err := termcap.Load(termcap.Bundled(), "ansi")
	if err != nil {
		t.Fatalf("load caps: %v", err)
	}
	return screen.New(w, h, caps)
}

func threeBoxes() (*Frame, []*widget.TextBox) {
	f := New(80, 25)
	boxes := make([]*widget.TextBox, 3)
	for i := range boxes {
		boxes[i] = widget.NewTextBox(2, i, 10)
		boxes[i].SetTabOrder(i + 1)
		f.AddWidget(boxes[i])
	}
	return f, boxes
}

func TestAddFocusesFirstFocusable(t *testing.T) {
	f := New(80, 25)
	f.AddWidget(widget.NewLabel(0, 0, 5, "name"))
	if f.Focused() != nil {
		t.Fatalf("label took focus")
	}
	tb := widget.NewTextBox(6, 0, 10)
	f.AddWidget(tb)
	if f.Focused() != widget.Widget(tb) || !tb.Focused() {
		t.Fatalf("text box not focused")
	}
	f.AddWidget(widget.NewTextBox(6, 1, 10))
	if f.Focused() != widget.Widget(tb) {
		t.Fatalf("focus moved on add")
	}
}

func TestTabCyclingWraps(t *testing.T) {
	f, boxes := threeBoxes()
	f.SetFocus(boxes[2])
	f.HandleKeyTab()
	if f.Focused() != widget.Widget(boxes[0]) {
		t.Fatalf("tab from last did not wrap to first")
	}
	if boxes[2].Focused() {
		t.Fatalf("previous widget kept focus")
	}
	f.HandleKeyBacktab()
	if f.Focused() != widget.Widget(boxes[2]) {
		t.Fatalf("backtab from first did not wrap to last")
	}
}

func TestTabSkipsRemovedWidget(t *testing.T) {
	f, boxes := threeBoxes()
	f.RemoveWidget(boxes[1])
	f.SetFocus(boxes[0])
	f.HandleKeyTab()
	if f.Focused() != widget.Widget(boxes[2]) {
		t.Fatalf("tab landed on %v", f.Focused())
	}
	if boxes[1].Owner() != nil {
		t.Fatalf("removed widget kept its owner")
	}
}

func TestRemoveFocusedMovesFocus(t *testing.T) {
	f, boxes := threeBoxes()
	f.RemoveWidget(boxes[0])
	if f.Focused() != widget.Widget(boxes[1]) {
		t.Fatalf("focus = %v, want second box", f.Focused())
	}
	f.RemoveAllWidgets()
	if f.Focused() != nil || len(f.Widgets()) != 0 {
		t.Fatalf("frame not empty")
	}
}

func TestTabWithoutFocusableIsNoop(t *testing.T) {
	f := New(80, 25)
	f.AddWidget(widget.NewLabel(0, 0, 5, "a"))
	f.HandleKeyTab()
	f.HandleKeyLF()
	if f.Focused() != nil {
		t.Fatalf("focus appeared")
	}
}

func TestSparseTabOrders(t *testing.T) {
	f := New(80, 25)
	a := widget.NewTextBox(0, 0, 5)
	a.SetTabOrder(2)
	b := widget.NewTextBox(0, 1, 5)
	b.SetTabOrder(9)
	f.AddWidgets(a, b)
	f.HandleKeyTab()
	if f.Focused() != widget.Widget(b) {
		t.Fatalf("tab did not reach order 9")
	}
	f.HandleKeyTab()
	if f.Focused() != widget.Widget(a) {
		t.Fatalf("tab did not wrap to order 2")
	}
}

func TestAddAssignsNextFreeTabOrder(t *testing.T) {
	f := New(80, 25)
	label := widget.NewLabel(0, 0, 5, "name")
	a := widget.NewTextBox(6, 0, 10)
	pinned := widget.NewTextBox(6, 1, 10)
	pinned.SetTabOrder(4)
	b := widget.NewTextBox(6, 2, 10)
	skipped := widget.NewTextBox(6, 3, 10)
	skipped.SetTabOrder(0)
	btn := widget.NewButton(6, 4, "OK", nil)
	f.AddWidgets(label, a, pinned, b, skipped, btn)

	if label.TabOrder() != 0 {
		t.Fatalf("label got tab order %d", label.TabOrder())
	}
	if a.TabOrder() != 1 || pinned.TabOrder() != 4 || b.TabOrder() != 5 || btn.TabOrder() != 6 {
		t.Fatalf("orders = %d %d %d %d", a.TabOrder(), pinned.TabOrder(), b.TabOrder(), btn.TabOrder())
	}
	if skipped.TabOrder() != 0 {
		t.Fatalf("opted out widget got order %d", skipped.TabOrder())
	}

	want := []widget.Widget{pinned, b, btn, a}
	for i, w := range want {
		f.HandleKeyTab()
		if f.Focused() != w {
			t.Fatalf("tab %d landed on %v", i+1, f.Focused())
		}
	}
}

func TestBacktabLeavesTrappingPanel(t *testing.T) {
	f := New(80, 25)
	before := widget.NewTextBox(0, 0, 5)
	p := widget.NewEditPanel(0, 2, 20, 2)
	f.AddWidgets(before, p)
	f.SetFocus(p)

	f.HandleKeyTab()
	if f.Focused() != widget.Widget(p) {
		t.Fatalf("panel gave up Tab")
	}
	f.HandleKeyBacktab()
	if f.Focused() != widget.Widget(before) {
		t.Fatalf("shift-tab stayed in panel: %v", f.Focused())
	}
	if !f.HandleKeyCmd(terminal.KeyBacktab) || f.Focused() != widget.Widget(p) {
		t.Fatalf("shift-tab from first field did not wrap to panel")
	}
}

func TestCommandKeysFallBackToFocusMoves(t *testing.T) {
	f, boxes := threeBoxes()
	f.HandleKeyCmd(terminal.KeyDown)
	if f.Focused() != widget.Widget(boxes[1]) {
		t.Fatalf("down did not advance")
	}
	f.HandleKeyCmd(terminal.KeyUp)
	if f.Focused() != widget.Widget(boxes[0]) {
		t.Fatalf("up did not go back")
	}
	if !f.HandleKeyCmd(terminal.KeyHome) {
		t.Fatalf("home not handled by text box")
	}
}

func TestCommandHandlerRunsWhenUnclaimed(t *testing.T) {
	f, _ := threeBoxes()
	escapes := 0
	f.SetCommandHandler(terminal.KeyEscape, func() { escapes++ })
	if !f.HandleKeyCmd(terminal.KeyEscape) || escapes != 1 {
		t.Fatalf("escape handler not run: %d", escapes)
	}
	f.HandleKeyCmd(terminal.KeyHome)
	if escapes != 1 {
		t.Fatalf("handler ran for a consumed key")
	}
	f.SetCommandHandler(terminal.KeyEscape, nil)
	if f.HandleKeyCmd(terminal.KeyEscape) {
		t.Fatalf("removed handler still consumes escape")
	}
}

func TestTrappedTabGoesToWidget(t *testing.T) {
	f := New(80, 25)
	p := widget.NewEditPanel(0, 0, 20, 2)
	other := widget.NewTextBox(0, 5, 5)
	p.SetTabOrder(1)
	other.SetTabOrder(2)
	f.AddWidgets(p, other)
	f.HandleKeyTab()
	if f.Focused() != widget.Widget(p) {
		t.Fatalf("trapping widget lost focus")
	}
	if x, _, _ := p.CursorPosition(); x != 8 {
		t.Fatalf("panel caret x = %d, want 8", x)
	}
}

func TestLineFeedRouting(t *testing.T) {
	f := New(80, 25)
	tb := widget.NewTextBox(0, 0, 5)
	tb.SetTabOrder(1)
	presses := 0
	btn := widget.NewButton(0, 1, "OK", func() { presses++ })
	btn.SetTabOrder(2)
	f.AddWidgets(tb, btn)

	f.HandleKeyLF()
	if f.Focused() != widget.Widget(btn) {
		t.Fatalf("line feed on text box did not advance")
	}
	f.HandleKeyLF()
	if presses != 1 {
		t.Fatalf("presses = %d", presses)
	}

	handled := 0
	f.SetFocus(tb)
	f.SetLineFeedHandler(func() { handled++ })
	f.HandleKeyLF()
	if handled != 1 || f.Focused() != widget.Widget(tb) {
		t.Fatalf("frame line feed handler not used")
	}
}

func TestControlHotkeysReachUnfocusedWidgets(t *testing.T) {
	f := New(80, 25)
	tb := widget.NewTextBox(0, 0, 5)
	fired := false
	btn := widget.NewButton(0, 1, "@Save", func() { fired = true })
	btn.SetTabOrder(2)
	tb.SetTabOrder(1)
	f.AddWidgets(tb, btn)
	if !f.HandleKeyControl(terminal.Ctrl('s')) || !fired {
		t.Fatalf("hotkey not delivered")
	}
	if f.Focused() != widget.Widget(btn) {
		t.Fatalf("hotkey did not focus the button")
	}
	if f.HandleKeyControl(terminal.Ctrl('z')) {
		t.Fatalf("unknown control key handled")
	}
}

func TestFunctionKeys(t *testing.T) {
	f := New(80, 25)
	called := 0
	f.SetFunctionKey(terminal.F1, func() { called++ })
	if !f.HandleKeyFN(terminal.F1) || called != 1 {
		t.Fatalf("F1 handler not run")
	}
	if f.HandleKeyFN(terminal.F2) {
		t.Fatalf("F2 without handler reported handled")
	}
}

func TestUpdateRedrawsOverlappingWidgets(t *testing.T) {
	s := newSurface(t, 20, 5)
	f := New(20, 5)
	under := widget.NewLabel(0, 0, 10, "underneath")
	over := widget.NewLabel(3, 0, 4, "TOP!")
	f.AddWidgets(under, over)
	f.Attach(s)
	f.Redraw()
	if got := s.Row(0)[:10]; got != "undTOP!ath" {
		t.Fatalf("row = %q", got)
	}
	var buf bytes.Buffer
	if err := s.SerializeDiff(&buf); err != nil {
		t.Fatalf("serialize: %v", err)
	}

	under.SetText("UNDERNEATH")
	f.Update()
	if got := s.Row(0)[:10]; got != "UNDTOP!ATH" {
		t.Fatalf("row after update = %q", got)
	}
	if over.Dirty() || under.Dirty() {
		t.Fatalf("widgets left dirty")
	}
}

func TestResizeAppliesColumnsThenRows(t *testing.T) {
	f := New(80, 25)
	log := widget.NewLogView(0, 1, 80, 22, 0)
	log.SetAnchor(widget.AnchorLeft | widget.AnchorRight | widget.AnchorTop | widget.AnchorBottom)
	status := widget.NewStatusBar(0, 24, 80)
	status.SetAnchor(widget.AnchorLeft | widget.AnchorRight | widget.AnchorBottom | widget.AnchorFixed)
	f.AddWidgets(log, status)
	f.Attach(newSurface(t, 100, 30))

	if w, h := f.Size(); w != 100 || h != 30 {
		t.Fatalf("frame size = %dx%d", w, h)
	}
	x, y, w, h := log.Bounds()
	if x != 0 || y != 1 || w != 100 || h != 27 {
		t.Fatalf("log bounds = %d,%d %dx%d", x, y, w, h)
	}
	_, y, _, h = status.Bounds()
	if y != 29 || h != 1 {
		t.Fatalf("status y=%d h=%d", y, h)
	}
}

func TestEndToEndTextBoxAndButton(t *testing.T) {
	s := newSurface(t, 80, 25)
	f := New(80, 25)
	tb := widget.NewTextBox(1, 1, 10)
	tb.SetTabOrder(1)
	presses := 0
	btn := widget.NewButton(1, 3, "OK", func() { presses++ })
	btn.SetTabOrder(2)
	f.AddWidgets(tb, btn)
	f.Attach(s)
	f.Redraw()

	f.HandleKey('h')
	f.HandleKey('i')
	if tb.Text() != "hi" {
		t.Fatalf("text = %q", tb.Text())
	}
	f.HandleKeyCmd(terminal.KeyTab)
	if f.Focused() != widget.Widget(btn) {
		t.Fatalf("tab did not focus the button")
	}
	f.HandleKeyLF()
	if presses != 1 {
		t.Fatalf("presses = %d, want 1", presses)
	}
}
