package widget

import "strings"

// wrapLine breaks line into pieces no wider than width, preferring the last
// space before the limit and splitting mid-word when there is none.
func wrapLine(line string, width int) []string {
	if width < 1 {
		width = 1
	}
	var out []string
	for len(line) > width {
		cut := strings.LastIndexByte(line[:width+1], ' ')
		if cut <= 0 {
			out = append(out, line[:width])
			line = line[width:]
			continue
		}
		out = append(out, line[:cut])
		line = line[cut+1:]
	}
	return append(out, line)
}

// reflow wraps every newline separated paragraph of text.
func reflow(text string, width int) []string {
	var out []string
	for _, para := range strings.Split(text, "\n") {
		out = append(out, wrapLine(strings.TrimRight(para, "\r"), width)...)
	}
	return out
}
