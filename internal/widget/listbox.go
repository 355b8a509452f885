package widget

import (
	"pkt.systems/termframe/internal/screen"
	"pkt.systems/termframe/internal/terminal"
)

// ListBox shows items in a row-major grid of columns, one page of rows at a
// time. startRow is always a multiple of the visible row count.
type ListBox struct {
	Base
	items    []string
	columns  int
	selected int
	startRow int

	OnChange func(index int, item string)
	OnSelect func(index int, item string)
}

// NewListBox creates a focusable list box with the given number of columns.
func NewListBox(x, y, width, height, columns int) *ListBox {
	l := &ListBox{Base: newBase(x, y, width, height), columns: max(columns, 1)}
	l.canFocus = true
	return l
}

// SetItems replaces the items and resets the selection.
func (l *ListBox) SetItems(items []string) {
	l.items = append([]string(nil), items...)
	l.selected = 0
	l.startRow = 0
	l.dirty = true
}

// Items returns a copy of the items.
func (l *ListBox) Items() []string {
	return append([]string(nil), l.items...)
}

// Selected returns the selected index and item, or -1 when empty.
func (l *ListBox) Selected() (int, string) {
	if len(l.items) == 0 {
		return -1, ""
	}
	return l.selected, l.items[l.selected]
}

// Select moves the selection to index without firing OnChange.
func (l *ListBox) Select(index int) {
	if index < 0 || index >= len(l.items) {
		return
	}
	l.selected = index
	l.scroll()
}

// StartRow returns the first visible grid row.
func (l *ListBox) StartRow() int { return l.startRow }

// Columns returns the number of grid columns.
func (l *ListBox) Columns() int { return l.columns }

func (l *ListBox) rows() int { return l.height }

func (l *ListBox) totalRows() int {
	return (len(l.items) + l.columns - 1) / l.columns
}

func (l *ListBox) colWidth() int {
	return max(l.width/l.columns, 1)
}

func (l *ListBox) scroll() {
	row := l.selected / l.columns
	l.startRow = (row / l.rows()) * l.rows()
	l.dirty = true
}

func (l *ListBox) Draw(s *screen.Surface) {
	cw := l.colWidth()
	for r := 0; r < l.rows(); r++ {
		s.UsePen(l.normal)
		s.Repeat(l.x, l.y+r, ' ', l.width)
		for c := 0; c < l.columns; c++ {
			idx := (l.startRow+r)*l.columns + c
			if idx >= len(l.items) {
				break
			}
			pen := l.normal
			if idx == l.selected {
				pen = l.active
				if !l.focused {
					pen.Attr |= terminal.AttrBold
					pen.Attr &^= terminal.AttrReverse
				}
			}
			s.UsePen(pen)
			s.WriteText(l.x+c*cw, l.y+r, pad(l.items[idx], cw-1))
		}
	}
	s.UsePen(screen.DefaultPen)
}

func (l *ListBox) CursorPosition() (int, int, bool) {
	row := l.selected/l.columns - l.startRow
	col := l.selected % l.columns
	return l.x + col*l.colWidth(), l.y + row, true
}

func (l *ListBox) TrapLF() bool { return l.OnSelect != nil }

func (l *ListBox) HandleKeyLF() bool {
	if len(l.items) == 0 || l.OnSelect == nil {
		return false
	}
	l.OnSelect(l.selected, l.items[l.selected])
	return true
}

func (l *ListBox) HandleKeyCmd(key terminal.Key) bool {
	n := len(l.items)
	if n == 0 {
		return false
	}
	cols := l.columns
	row, col := l.selected/cols, l.selected%cols
	last := l.totalRows() - 1
	prev := l.selected

	switch key {
	case terminal.KeyRight:
		l.selected = (l.selected + 1) % n
	case terminal.KeyLeft:
		l.selected = (l.selected + n - 1) % n
	case terminal.KeyDown:
		switch {
		case l.selected+cols < n:
			l.selected += cols
		case row < last:
			l.selected = n - 1
		default:
			l.selected = col
		}
	case terminal.KeyUp:
		if l.selected-cols >= 0 {
			l.selected -= cols
		} else {
			idx := last*cols + col
			if idx >= n {
				idx -= cols
			}
			l.selected = max(idx, 0)
		}
	case terminal.KeyPageDown:
		l.selected = min(l.selected+cols*l.rows(), n-1)
	case terminal.KeyPageUp:
		l.selected = max(l.selected-cols*l.rows(), 0)
	case terminal.KeyHome:
		l.selected = 0
	case terminal.KeyEnd:
		l.selected = n - 1
	default:
		return false
	}
	l.scroll()
	if l.selected != prev && l.OnChange != nil {
		l.OnChange(l.selected, l.items[l.selected])
	}
	return true
}

func (l *ListBox) ResizeRows(oldH, newH int) {
	l.Base.ResizeRows(oldH, newH)
	l.scroll()
}
