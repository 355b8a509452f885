// Package termcap parses termcap-style capability sources and exposes the
// per-terminal capability table used to drive a remote screen.
package termcap

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
)

var (
	// ErrTerminalNotFound is returned when the source has no record for a
	// terminal name.
	ErrTerminalNotFound = errors.New("terminal type not found")
	// ErrMalformedSource is returned for records that cannot be parsed.
	ErrMalformedSource = errors.New("malformed capability source")
	// ErrCapabilityMissing is returned when a string capability is absent.
	ErrCapabilityMissing = errors.New("capability not present")
	// ErrFormat is returned when a parameterized string cannot be expanded.
	ErrFormat = errors.New("bad capability format")
)

// maxIndirection bounds tc= recursion so that cycles fail instead of hanging.
const maxIndirection = 32

// Table is the immutable capability set of one terminal type.
type Table struct {
	name    string
	names   []string
	flags   map[string]bool
	numbers map[string]int
	strings map[string][]byte
	family  Family
	glyphs  *glyphTable
	quirks  Quirks
}

// Load builds the table for name from a capability source.
func Load(src []byte, name string) (*Table, error) {
	entries := splitEntries(src)
	b := newBuilder()
	if err := b.load(entries, name, 0); err != nil {
		return nil, err
	}

	t := &Table{
		name:    name,
		names:   b.names,
		flags:   b.flags,
		numbers: b.numbers,
		strings: make(map[string][]byte, len(b.strings)),
	}
	for code, value := range b.strings {
		t.strings[code] = expand(value)
	}
	t.family = familyFor(name, b.names)
	t.glyphs = glyphsFor(t.family, t.Has("as") && t.Has("ae"))
	t.quirks = quirksFor(t.family)
	return t, nil
}

// Name returns the terminal name the table was loaded for.
func (t *Table) Name() string {
	return t.name
}

// Names returns every name of the matched record, description last.
func (t *Table) Names() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// Flag reports whether a boolean capability is present.
func (t *Table) Flag(code string) bool {
	return t.flags[code]
}

// Number returns a numeric capability. ok is false when absent.
func (t *Table) Number(code string) (int, bool) {
	n, ok := t.numbers[code]
	return n, ok
}

// Sequence returns the decoded bytes of a string capability. The returned
// slice is shared and must not be modified.
func (t *Table) Sequence(code string) ([]byte, error) {
	seq, ok := t.strings[code]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCapabilityMissing, code)
	}
	return seq, nil
}

// Has reports whether a string capability is present.
func (t *Table) Has(code string) bool {
	_, ok := t.strings[code]
	return ok
}

// Goto formats the cursor-addressing capability for a zero-based column and
// row.
func (t *Table) Goto(col, row int) ([]byte, error) {
	cm, err := t.Sequence("cm")
	if err != nil {
		return nil, err
	}
	return Format(cm, row, col)
}

// Family returns the terminal family used for glyph and quirk selection.
func (t *Table) Family() Family {
	return t.family
}

// Quirks returns the display quirks of the terminal.
func (t *Table) Quirks() Quirks {
	return t.quirks
}

// LineEnding returns the bytes that end a line on this terminal.
func (t *Table) LineEnding() []byte {
	var out []byte
	if !t.Flag("nc") {
		if cr, err := t.Sequence("cr"); err == nil {
			out = append(out, cr...)
		} else {
			out = append(out, '\r')
		}
	}
	if nl, err := t.Sequence("nl"); err == nil {
		out = append(out, nl...)
	} else {
		out = append(out, '\n')
	}
	return out
}

// Columns returns the co capability, or def when absent.
func (t *Table) Columns(def int) int {
	if n, ok := t.Number("co"); ok && n > 0 {
		return n
	}
	return def
}

// Lines returns the li capability, or def when absent.
func (t *Table) Lines(def int) int {
	if n, ok := t.Number("li"); ok && n > 0 {
		return n
	}
	return def
}

// Capabilities is a printable dump of a table.
type Capabilities struct {
	Name    string            `json:"name"`
	Names   []string          `json:"names"`
	Family  string            `json:"family"`
	Flags   []string          `json:"flags"`
	Numbers map[string]int    `json:"numbers"`
	Strings map[string]string `json:"strings"`
}

// Capabilities returns a sorted, printable copy of the table contents.
func (t *Table) Capabilities() Capabilities {
	out := Capabilities{
		Name:    t.name,
		Names:   t.Names(),
		Family:  t.family.String(),
		Flags:   make([]string, 0, len(t.flags)),
		Numbers: make(map[string]int, len(t.numbers)),
		Strings: make(map[string]string, len(t.strings)),
	}
	for code := range t.flags {
		out.Flags = append(out.Flags, code)
	}
	sort.Strings(out.Flags)
	for code, n := range t.numbers {
		out.Numbers[code] = n
	}
	for code, seq := range t.strings {
		out.Strings[code] = printable(seq)
	}
	return out
}

func printable(seq []byte) string {
	q := strconv.QuoteToASCII(string(seq))
	return q[1 : len(q)-1]
}
