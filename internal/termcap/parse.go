package termcap

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// splitEntries joins continuation lines and drops comments and blank lines.
// Each returned string is one complete record.
func splitEntries(src []byte) []string {
	var entries []string
	var cur strings.Builder
	continuing := false

	for _, line := range bytes.Split(src, []byte("\n")) {
		text := strings.TrimRight(string(line), "\r")
		if continuing {
			text = strings.TrimLeft(text, " \t")
		} else {
			trimmed := strings.TrimSpace(text)
			if trimmed == "" || strings.HasPrefix(trimmed, "#") {
				continue
			}
		}
		if strings.HasSuffix(text, "\\") && !strings.HasSuffix(text, "\\\\") {
			cur.WriteString(text[:len(text)-1])
			continuing = true
			continue
		}
		cur.WriteString(text)
		continuing = false
		entries = append(entries, cur.String())
		cur.Reset()
	}
	if cur.Len() > 0 {
		entries = append(entries, cur.String())
	}
	return entries
}

// findEntry returns the record whose name list holds name followed by '|'.
func findEntry(entries []string, name string) (string, []string, bool) {
	for _, entry := range entries {
		head := entry
		if idx := strings.IndexByte(entry, ':'); idx >= 0 {
			head = entry[:idx]
		}
		if strings.HasPrefix(strings.TrimSpace(head), "#") {
			continue
		}
		names := strings.Split(head, "|")
		// The last token is the description and never matches.
		for _, candidate := range names[:len(names)-1] {
			if strings.TrimSpace(candidate) == name {
				return entry, trimAll(names), true
			}
		}
	}
	return "", nil, false
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, strings.TrimSpace(s))
	}
	return out
}

type builder struct {
	names     []string
	flags     map[string]bool
	numbers   map[string]int
	strings   map[string][]byte
	cancelled map[string]bool
}

func newBuilder() *builder {
	return &builder{
		flags:     make(map[string]bool),
		numbers:   make(map[string]int),
		strings:   make(map[string][]byte),
		cancelled: make(map[string]bool),
	}
}

// defined reports whether the record already settled code, either by
// defining or by cancelling it.
func (b *builder) defined(code string) bool {
	if b.cancelled[code] || b.flags[code] {
		return true
	}
	if _, ok := b.numbers[code]; ok {
		return true
	}
	_, ok := b.strings[code]
	return ok
}

func (b *builder) load(entries []string, name string, depth int) error {
	if depth > maxIndirection {
		return fmt.Errorf("%w: tc= chain too deep at %q", ErrMalformedSource, name)
	}
	entry, names, ok := findEntry(entries, name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrTerminalNotFound, name)
	}
	if b.names == nil {
		b.names = names
	}

	fields := strings.Split(entry, ":")
	var parents []string
	for _, field := range fields[1:] {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		if strings.HasPrefix(field, "tc=") {
			parent := strings.TrimSpace(field[3:])
			if parent == "" {
				return fmt.Errorf("%w: empty tc= in %q", ErrMalformedSource, name)
			}
			parents = append(parents, parent)
			continue
		}
		if err := b.field(field); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrMalformedSource, name, err)
		}
	}

	for _, parent := range parents {
		inherited := newBuilder()
		if err := inherited.load(entries, parent, depth+1); err != nil {
			return err
		}
		b.merge(inherited)
	}
	return nil
}

// field records a single capability unless an earlier field of the same
// record already settled it.
func (b *builder) field(field string) error {
	sep := strings.IndexAny(field[1:], "=#")
	if sep >= 0 {
		sep++
		code, value := field[:sep], field[sep+1:]
		if b.defined(code) {
			return nil
		}
		if field[sep] == '#' {
			n, err := parseNumber(value)
			if err != nil {
				return fmt.Errorf("numeric capability %q: %w", code, err)
			}
			b.numbers[code] = n
			return nil
		}
		b.strings[code] = decodeValue(value)
		return nil
	}
	if len(field) > 1 && strings.HasSuffix(field, "@") {
		code := field[:len(field)-1]
		if !b.defined(code) {
			b.cancelled[code] = true
		}
		return nil
	}
	if !b.defined(field) {
		b.flags[field] = true
	}
	return nil
}

// merge copies capabilities from a parent record that the child has not
// already defined or cancelled.
func (b *builder) merge(parent *builder) {
	for code := range parent.cancelled {
		if !b.defined(code) {
			b.cancelled[code] = true
		}
	}
	for code := range parent.flags {
		if !b.defined(code) {
			b.flags[code] = true
		}
	}
	for code, n := range parent.numbers {
		if !b.defined(code) {
			b.numbers[code] = n
		}
	}
	for code, s := range parent.strings {
		if !b.defined(code) {
			b.strings[code] = s
		}
	}
}

func parseNumber(value string) (int, error) {
	base := 10
	if len(value) > 1 && value[0] == '0' {
		base = 8
	}
	n, err := strconv.ParseInt(value, base, 32)
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// decodeValue applies the parse-time escapes of a string capability: \E,
// \\ and \ddd octal. Every other backslash pair is kept for the lookup stage.
func decodeValue(value string) []byte {
	out := make([]byte, 0, len(value))
	for i := 0; i < len(value); i++ {
		c := value[i]
		if c != '\\' || i+1 >= len(value) {
			out = append(out, c)
			continue
		}
		next := value[i+1]
		switch {
		case next == 'E':
			out = append(out, 0x1b)
			i++
		case next == '\\':
			out = append(out, '\\')
			i++
		case isOctal(next):
			n := 0
			j := i + 1
			for ; j < len(value) && j < i+4 && isOctal(value[j]); j++ {
				n = n*8 + int(value[j]-'0')
			}
			out = append(out, byte(n))
			i = j - 1
		default:
			out = append(out, c, next)
			i++
		}
	}
	return out
}

func isOctal(c byte) bool {
	return c >= '0' && c <= '7'
}

// Names lists the primary name of every record in a capability source.
func Names(src []byte) []string {
	var out []string
	for _, entry := range splitEntries(src) {
		head := entry
		if idx := strings.IndexByte(entry, ':'); idx >= 0 {
			head = entry[:idx]
		}
		names := strings.Split(head, "|")
		if len(names) < 2 {
			continue
		}
		out = append(out, strings.TrimSpace(names[0]))
	}
	return out
}
