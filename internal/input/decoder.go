// Package input turns raw keyboard bytes from a remote terminal into typed
// key events.
package input

import (
	"strconv"
	"strings"

	"pkt.systems/termframe/internal/terminal"
)

// Kind distinguishes event categories.
type Kind uint8

const (
	KindChar Kind = iota
	KindControl
	KindCommand
	KindFunction
	KindLineFeed
	KindCursorPosition
)

// Event is one decoded key or report.
type Event struct {
	Kind     Kind
	Char     byte
	Key      terminal.Key
	Function terminal.FunctionKey
	// X and Y are the zero-based position of a cursor position report.
	X, Y int
}

// maxSequence bounds how long an unterminated CSI sequence is buffered.
const maxSequence = 16

// Decoder assembles escape sequences split across reads. It is not safe for
// concurrent use.
type Decoder struct {
	buf    []byte
	lastCR bool
}

// Decode appends data to the pending bytes and returns every complete event.
// A trailing partial sequence stays buffered for the next call.
func (d *Decoder) Decode(data []byte) []Event {
	d.buf = append(d.buf, data...)
	var events []Event
	i := 0
	for i < len(d.buf) {
		n, ev, ok := d.next(d.buf[i:])
		if n == 0 {
			break
		}
		i += n
		if ok {
			events = append(events, ev)
		}
	}
	d.buf = append(d.buf[:0], d.buf[i:]...)
	return events
}

// Pending reports whether bytes are waiting for the rest of a sequence.
func (d *Decoder) Pending() bool { return len(d.buf) > 0 }

// Flush resolves buffered bytes after an input pause: a lone ESC becomes the
// escape key and anything else is dropped.
func (d *Decoder) Flush() []Event {
	if len(d.buf) == 0 {
		return nil
	}
	lone := len(d.buf) == 1 && d.buf[0] == terminal.ESC
	d.buf = d.buf[:0]
	if lone {
		return []Event{{Kind: KindCommand, Key: terminal.KeyEscape}}
	}
	return nil
}

// next decodes one event from data. n is 0 when more input is required; ok
// is false for bytes that are consumed without producing an event.
func (d *Decoder) next(data []byte) (n int, ev Event, ok bool) {
	b := data[0]
	wasCR := d.lastCR
	d.lastCR = false

	switch {
	case b == '\r':
		d.lastCR = true
		return 1, Event{Kind: KindLineFeed}, true
	case b == '\n':
		if wasCR {
			return 1, Event{}, false
		}
		return 1, Event{Kind: KindLineFeed}, true
	case b == 0:
		return 1, Event{}, false
	case b == '\t':
		return 1, command(terminal.KeyTab), true
	case b == 0x08 || b == 0x7f:
		return 1, command(terminal.KeyBackspace), true
	case b == terminal.ESC:
		return d.escape(data)
	case terminal.IsPrintable(b):
		return 1, Event{Kind: KindChar, Char: b}, true
	case terminal.IsControl(b):
		return 1, Event{Kind: KindControl, Char: b}, true
	}
	// 8-bit input is outside the supported character set.
	return 1, Event{}, false
}

func command(k terminal.Key) Event {
	return Event{Kind: KindCommand, Key: k}
}

func function(k terminal.FunctionKey) Event {
	return Event{Kind: KindFunction, Function: k}
}

func (d *Decoder) escape(data []byte) (int, Event, bool) {
	if len(data) < 2 {
		return 0, Event{}, false
	}
	switch data[1] {
	case '[':
		return csi(data)
	case 'O':
		return ss3(data)
	}
	return 1, command(terminal.KeyEscape), true
}

func ss3(data []byte) (int, Event, bool) {
	if len(data) < 3 {
		return 0, Event{}, false
	}
	switch c := data[2]; c {
	case 'A', 'B', 'C', 'D', 'H', 'F':
		return 3, command(cursorKeys[c]), true
	case 'P', 'Q', 'R', 'S':
		return 3, function(terminal.F1 + terminal.FunctionKey(c-'P')), true
	case 'M':
		return 3, Event{Kind: KindLineFeed}, true
	}
	return 3, Event{}, false
}

var cursorKeys = map[byte]terminal.Key{
	'A': terminal.KeyUp,
	'B': terminal.KeyDown,
	'C': terminal.KeyRight,
	'D': terminal.KeyLeft,
	'H': terminal.KeyHome,
	'F': terminal.KeyEnd,
	'Z': terminal.KeyBacktab,
}

// tildeKeys maps ESC [ n ~ codes.
var tildeKeys = map[int]Event{
	1:  command(terminal.KeyHome),
	2:  command(terminal.KeyInsert),
	3:  command(terminal.KeyDelete),
	4:  command(terminal.KeyEnd),
	5:  command(terminal.KeyPageUp),
	6:  command(terminal.KeyPageDown),
	7:  command(terminal.KeyHome),
	8:  command(terminal.KeyEnd),
	11: function(terminal.F1),
	12: function(terminal.F2),
	13: function(terminal.F3),
	14: function(terminal.F4),
	15: function(terminal.F5),
	17: function(terminal.F6),
	18: function(terminal.F7),
	19: function(terminal.F8),
	20: function(terminal.F9),
	21: function(terminal.F10),
	23: function(terminal.F11),
	24: function(terminal.F12),
	25: function(terminal.ShiftF3),
	26: function(terminal.ShiftF4),
	28: function(terminal.ShiftF5),
	29: function(terminal.ShiftF6),
	31: function(terminal.ShiftF7),
	32: function(terminal.ShiftF8),
	33: function(terminal.ShiftF9),
	34: function(terminal.ShiftF10),
}

func csi(data []byte) (int, Event, bool) {
	if len(data) < 3 {
		return 0, Event{}, false
	}
	// Linux console function keys: ESC [ [ A..E.
	if data[2] == '[' {
		if len(data) < 4 {
			return 0, Event{}, false
		}
		if c := data[3]; c >= 'A' && c <= 'E' {
			return 4, function(terminal.F1 + terminal.FunctionKey(c-'A')), true
		}
		return 4, Event{}, false
	}

	end := 2
	for ; end < len(data); end++ {
		c := data[end]
		if c >= 0x40 && c <= 0x7e {
			break
		}
		if c < 0x20 || end >= maxSequence {
			// Not a sequence we can finish: drop the introducer.
			return 2, Event{}, false
		}
	}
	if end >= len(data) {
		return 0, Event{}, false
	}
	n := end + 1
	params := parseParams(string(data[2:end]))
	shifted := len(params) > 1 && params[1] == 2

	switch final := data[end]; final {
	case 'A', 'B', 'C', 'D', 'H', 'F', 'Z':
		return n, command(cursorKeys[final]), true
	case 'R':
		if len(params) < 2 {
			return n, Event{}, false
		}
		// ESC [ 1 ; mod R is a modified F3 on xterm. A position report for
		// row 1 columns 2 to 8 has the same bytes and loses to the key.
		if params[0] == 1 && params[1] >= 2 && params[1] <= 8 {
			if shifted {
				return n, function(terminal.ShiftF3), true
			}
			return n, function(terminal.F3), true
		}
		return n, Event{Kind: KindCursorPosition, X: max(params[1]-1, 0), Y: max(params[0]-1, 0)}, true
	case 'P', 'Q', 'S':
		k := terminal.F1 + terminal.FunctionKey(strings.IndexByte("PQ S", final))
		if shifted {
			k += terminal.ShiftF1 - terminal.F1
		}
		return n, function(k), true
	case '~':
		if len(params) == 0 {
			return n, Event{}, false
		}
		ev, ok := tildeKeys[params[0]]
		if !ok {
			return n, Event{}, false
		}
		if shifted && ev.Kind == KindFunction && ev.Function <= terminal.F12 {
			ev.Function += terminal.ShiftF1 - terminal.F1
		}
		return n, ev, true
	}
	return n, Event{}, false
}

func parseParams(s string) []int {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ";")
	out := make([]int, len(parts))
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			v = 0
		}
		out[i] = v
	}
	return out
}
