package termcap

import (
	"fmt"
	"strconv"
)

// Format expands a termcap parameterized string. Parameters are consumed in
// order by %d, %2, %3, %. and %+; %r swaps the next two and %i increments the
// first two.
func Format(seq []byte, params ...int) ([]byte, error) {
	args := make([]int, len(params))
	copy(args, params)
	next := 0
	arg := func() (int, error) {
		if next >= len(args) {
			return 0, fmt.Errorf("%w: not enough parameters for %q", ErrFormat, seq)
		}
		v := args[next]
		next++
		return v, nil
	}

	out := make([]byte, 0, len(seq)+8)
	for i := 0; i < len(seq); i++ {
		c := seq[i]
		if c != '%' {
			out = append(out, c)
			continue
		}
		i++
		if i >= len(seq) {
			return nil, fmt.Errorf("%w: dangling %% in %q", ErrFormat, seq)
		}
		switch op := seq[i]; op {
		case '%':
			out = append(out, '%')
		case 'd', '2', '3':
			v, err := arg()
			if err != nil {
				return nil, err
			}
			s := strconv.Itoa(v)
			width := map[byte]int{'d': 0, '2': 2, '3': 3}[op]
			for n := len(s); n < width; n++ {
				out = append(out, '0')
			}
			out = append(out, s...)
		case '.':
			v, err := arg()
			if err != nil {
				return nil, err
			}
			out = append(out, byte(v))
		case '+':
			if i+1 >= len(seq) {
				return nil, fmt.Errorf("%w: %%+ without operand in %q", ErrFormat, seq)
			}
			i++
			v, err := arg()
			if err != nil {
				return nil, err
			}
			out = append(out, byte(v+int(seq[i])))
		case '>':
			if i+2 >= len(seq) {
				return nil, fmt.Errorf("%w: %%> without operands in %q", ErrFormat, seq)
			}
			if next < len(args) && args[next] > int(seq[i+1]) {
				args[next] += int(seq[i+2])
			}
			i += 2
		case 'r':
			if next+1 < len(args) {
				args[next], args[next+1] = args[next+1], args[next]
			}
		case 'i':
			for j := next; j < len(args) && j < next+2; j++ {
				args[j]++
			}
		case 'n':
			for j := next; j < len(args) && j < next+2; j++ {
				args[j] ^= 0140
			}
		case 'B':
			if next < len(args) {
				v := args[next]
				args[next] = 16*(v/10) + v%10
			}
		case 'D':
			if next < len(args) {
				v := args[next]
				args[next] = v - 2*(v%16)
			}
		default:
			return nil, fmt.Errorf("%w: unknown %%%c in %q", ErrFormat, op, seq)
		}
	}
	return out, nil
}
