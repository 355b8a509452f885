package widget

import (
	"pkt.systems/termframe/internal/screen"
	"pkt.systems/termframe/internal/terminal"
)

// MenuItem is one entry of a MenuBar.
type MenuItem struct {
	text     hotText
	x        int
	fixed    bool
	OnSelect func()
}

// Text returns the item caption without hotkey markers.
func (m *MenuItem) Text() string { return m.text.text }

// MenuBar lays items out left to right. Ctrl plus an item hotkey activates
// the item even when the bar is not focused.
type MenuBar struct {
	Base
	items    []*MenuItem
	selected int
}

// NewMenuBar creates a focusable one-line menu bar.
func NewMenuBar(x, y, width int) *MenuBar {
	m := &MenuBar{Base: newBase(x, y, width, 1)}
	m.canFocus = true
	return m
}

// Add appends an item placed after the previous one.
func (m *MenuBar) Add(text string, onSelect func()) *MenuItem {
	item := &MenuItem{text: parseHotText(text), OnSelect: onSelect}
	m.items = append(m.items, item)
	m.layout()
	return item
}

// AddAt appends an item at a fixed column relative to the bar.
func (m *MenuBar) AddAt(x int, text string, onSelect func()) *MenuItem {
	item := &MenuItem{text: parseHotText(text), x: x, fixed: true, OnSelect: onSelect}
	m.items = append(m.items, item)
	m.layout()
	return item
}

func (m *MenuBar) layout() {
	next := 1
	for _, item := range m.items {
		if !item.fixed {
			item.x = next
		}
		next = item.x + len(item.text.text) + 2
	}
	m.dirty = true
}

// Items returns the items in display order.
func (m *MenuBar) Items() []*MenuItem { return m.items }

// Selected returns the index of the highlighted item.
func (m *MenuBar) Selected() int { return m.selected }

func (m *MenuBar) Draw(s *screen.Surface) {
	s.UsePen(m.normal)
	s.Repeat(m.x, m.y, ' ', m.width)
	for i, item := range m.items {
		pen := m.normal
		if m.focused && i == m.selected {
			pen = m.active
		}
		avail := m.width - item.x
		if avail <= 0 {
			continue
		}
		item.text.draw(s, m.x+item.x, m.y, min(len(item.text.text), avail), pen)
	}
	s.UsePen(screen.DefaultPen)
}

func (m *MenuBar) CursorPosition() (int, int, bool) {
	if len(m.items) == 0 {
		return m.x, m.y, true
	}
	return m.x + m.items[m.selected].x, m.y, true
}

func (m *MenuBar) TrapLF() bool { return true }

func (m *MenuBar) HandleKeyLF() bool {
	if len(m.items) == 0 {
		return false
	}
	m.activate(m.selected)
	return true
}

func (m *MenuBar) HandleKeyCmd(key terminal.Key) bool {
	n := len(m.items)
	if n == 0 {
		return false
	}
	switch key {
	case terminal.KeyRight:
		m.selected = (m.selected + 1) % n
	case terminal.KeyLeft:
		m.selected = (m.selected + n - 1) % n
	case terminal.KeyHome:
		m.selected = 0
	case terminal.KeyEnd:
		m.selected = n - 1
	default:
		return false
	}
	m.dirty = true
	return true
}

func (m *MenuBar) HandleKeyCtrl(ch byte) bool {
	for i, item := range m.items {
		if item.text.matches(ch) {
			m.selected = i
			m.dirty = true
			m.activate(i)
			return true
		}
	}
	return false
}

func (m *MenuBar) activate(i int) {
	if fn := m.items[i].OnSelect; fn != nil {
		fn()
	}
}

// StatusPanel is one section of a StatusBar. A width of 0 shares the space
// left over by fixed panels.
type StatusPanel struct {
	Width int
	text  string
}

// StatusBar is a one-line row of panels separated by vertical lines.
type StatusBar struct {
	Base
	panels []*StatusPanel
}

// NewStatusBar creates a status bar, usually anchored to the bottom row.
func NewStatusBar(x, y, width int) *StatusBar {
	return &StatusBar{Base: newBase(x, y, width, 1)}
}

// AddPanel appends a panel and returns its index.
func (b *StatusBar) AddPanel(width int) int {
	b.panels = append(b.panels, &StatusPanel{Width: width})
	b.dirty = true
	return len(b.panels) - 1
}

// SetText replaces the text of panel i.
func (b *StatusBar) SetText(i int, text string) {
	if i < 0 || i >= len(b.panels) || b.panels[i].text == text {
		return
	}
	b.panels[i].text = text
	b.dirty = true
	b.notifyOwner(b)
}

// Text returns the text of panel i.
func (b *StatusBar) Text(i int) string {
	if i < 0 || i >= len(b.panels) {
		return ""
	}
	return b.panels[i].text
}

func (b *StatusBar) widths() []int {
	out := make([]int, len(b.panels))
	left := b.width - max(len(b.panels)-1, 0)
	fills := 0
	for i, p := range b.panels {
		if p.Width > 0 {
			out[i] = p.Width
			left -= p.Width
		} else {
			fills++
		}
	}
	for i, p := range b.panels {
		if p.Width == 0 && fills > 0 {
			out[i] = max(left/fills, 0)
			left -= out[i]
			fills--
		}
	}
	return out
}

func (b *StatusBar) Draw(s *screen.Surface) {
	s.UsePen(b.normal)
	s.Repeat(b.x, b.y, ' ', b.width)
	x := b.x
	end := b.x + b.width
	for i, w := range b.widths() {
		if x >= end {
			break
		}
		if i > 0 {
			s.DrawVLine(x, b.y, 1)
			x++
		}
		w = min(w, end-x)
		s.WriteText(x, b.y, pad(b.panels[i].text, w))
		x += w
	}
	s.UsePen(screen.DefaultPen)
}
