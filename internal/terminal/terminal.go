package terminal

import "fmt"

// Attr is a set of cell rendering attributes.
type Attr uint8

// Cell attribute flags.
const (
	AttrBold      Attr = 1 << 0
	AttrUnderline Attr = 1 << 1
	AttrBlink     Attr = 1 << 2
	AttrReverse   Attr = 1 << 3
	AttrInvisible Attr = 1 << 4
	// AttrACS selects the alternate character set; the cell character is then
	// a Glyph id resolved through the capability table.
	AttrACS Attr = 1 << 5

	AttrNone Attr = 0
)

// Has reports whether all bits of flag are set.
func (a Attr) Has(flag Attr) bool {
	return a&flag == flag
}

// Without returns a with the bits of flag cleared.
func (a Attr) Without(flag Attr) Attr {
	return a &^ flag
}

// Color is an ANSI color index.
type Color uint8

// ANSI colors. ColorDefault selects the terminal's own default.
const (
	ColorBlack Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorDefault Color = 9
)

var colorNames = map[Color]string{
	ColorBlack:   "black",
	ColorRed:     "red",
	ColorGreen:   "green",
	ColorYellow:  "yellow",
	ColorBlue:    "blue",
	ColorMagenta: "magenta",
	ColorCyan:    "cyan",
	ColorWhite:   "white",
	ColorDefault: "default",
}

func (c Color) String() string {
	if name, ok := colorNames[c]; ok {
		return name
	}
	return fmt.Sprintf("color(%d)", uint8(c))
}

// ParseColor resolves a color name as printed by Color.String.
func ParseColor(name string) (Color, error) {
	for c, n := range colorNames {
		if n == name {
			return c, nil
		}
	}
	return ColorDefault, fmt.Errorf("unknown color %q", name)
}

// Geometry is a window size report in 1-based, inclusive terminal coordinates.
type Geometry struct {
	MinCol int
	MinRow int
	MaxCol int
	MaxRow int
}

// Size returns a Geometry spanning cols x rows from the origin.
func Size(cols, rows int) Geometry {
	return Geometry{MinCol: 1, MinRow: 1, MaxCol: cols, MaxRow: rows}
}

// Cols returns the number of columns covered.
func (g Geometry) Cols() int {
	return g.MaxCol - g.MinCol + 1
}

// Rows returns the number of rows covered.
func (g Geometry) Rows() int {
	return g.MaxRow - g.MinRow + 1
}

// Valid reports whether the geometry spans at least one cell.
func (g Geometry) Valid() bool {
	return g.MinCol >= 1 && g.MinRow >= 1 && g.Cols() > 0 && g.Rows() > 0
}
