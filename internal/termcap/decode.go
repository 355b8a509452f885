package termcap

// expand applies the lookup-stage decoding to a string capability: caret
// control notation and the backslash escapes left by decodeValue.
func expand(raw []byte) []byte {
	out := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if i+1 >= len(raw) || (c != '^' && c != '\\') {
			out = append(out, c)
			continue
		}
		next := raw[i+1]
		if c == '^' {
			if b, ok := caret(next); ok {
				out = append(out, b)
			} else {
				out = append(out, c, next)
			}
			i++
			continue
		}
		if b, ok := backslash(next); ok {
			out = append(out, b)
		} else {
			out = append(out, c, next)
		}
		i++
	}
	return out
}

func caret(c byte) (byte, bool) {
	switch {
	case c >= 'a' && c <= 'z':
		return c - 'a' + 1, true
	case c >= 'A' && c <= 'Z':
		return c - 'A' + 1, true
	}
	switch c {
	case '@', '2':
		return 0x00, true
	case '[':
		return 0x1b, true
	case '\\':
		return 0x1c, true
	case ']':
		return 0x1d, true
	case '^', '6':
		return 0x1e, true
	case '_':
		return 0x1f, true
	case '?':
		return 0x7f, true
	}
	return 0, false
}

func backslash(c byte) (byte, bool) {
	switch c {
	case 'E', 'e':
		return 0x1b, true
	case 't':
		return '\t', true
	case 'n':
		return '\n', true
	case 'r':
		return '\r', true
	case 'b':
		return '\b', true
	case 'f':
		return '\f', true
	case 's':
		return ' ', true
	case '\\':
		return '\\', true
	case '^':
		return '^', true
	case ':':
		return ':', true
	}
	return 0, false
}
