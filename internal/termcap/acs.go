package termcap

import "strings"

// Glyph identifies a line-drawing or symbol character independent of the
// terminal's character set.
type Glyph byte

const (
	GlyphNone Glyph = iota
	ULCorner
	URCorner
	LLCorner
	LRCorner
	HLine
	VLine
	LTee
	RTee
	TTee
	BTee
	Cross
	LArrow
	RArrow
	UArrow
	DArrow
	Block
	Diamond
	Checker
	Degree
	PlusMinus
	Bullet
	LessEqual
	GreaterEqual
	glyphCount
)

// Family groups terminals sharing an alternate character set and display
// quirks.
type Family uint8

const (
	FamilyANSI Family = iota
	FamilyDOS
	FamilyCygwin
	FamilyLinux
	FamilyVT100
)

func (f Family) String() string {
	switch f {
	case FamilyDOS:
		return "dos"
	case FamilyCygwin:
		return "cygwin"
	case FamilyLinux:
		return "linux"
	case FamilyVT100:
		return "vt100"
	default:
		return "ansi"
	}
}

// Quirks records terminal behavior the serializer has to work around.
type Quirks struct {
	// ScrollsOnLastCell is set when writing the bottom-right cell scrolls
	// the display.
	ScrollsOnLastCell bool
}

type glyphTable [glyphCount]byte

// DEC special graphics, selected with as/ae.
var decGlyphs = glyphTable{
	ULCorner: 'l', URCorner: 'k', LLCorner: 'm', LRCorner: 'j',
	HLine: 'q', VLine: 'x',
	LTee: 't', RTee: 'u', TTee: 'w', BTee: 'v', Cross: 'n',
	LArrow: ',', RArrow: '+', UArrow: '-', DArrow: '.',
	Block: '0', Diamond: '`', Checker: 'a', Degree: 'f', PlusMinus: 'g',
	Bullet: '~', LessEqual: 'y', GreaterEqual: 'z',
}

// Code page 437, written directly without as/ae.
var cp437Glyphs = glyphTable{
	ULCorner: 0xda, URCorner: 0xbf, LLCorner: 0xc0, LRCorner: 0xd9,
	HLine: 0xc4, VLine: 0xb3,
	LTee: 0xc3, RTee: 0xb4, TTee: 0xc2, BTee: 0xc1, Cross: 0xc5,
	LArrow: 0x11, RArrow: 0x10, UArrow: 0x1e, DArrow: 0x1f,
	Block: 0xdb, Diamond: 0x04, Checker: 0xb1, Degree: 0xf8, PlusMinus: 0xf1,
	Bullet: 0xf9, LessEqual: 0xf3, GreaterEqual: 0xf2,
}

var asciiGlyphs = glyphTable{
	ULCorner: '+', URCorner: '+', LLCorner: '+', LRCorner: '+',
	HLine: '-', VLine: '|',
	LTee: '+', RTee: '+', TTee: '+', BTee: '+', Cross: '+',
	LArrow: '<', RArrow: '>', UArrow: '^', DArrow: 'v',
	Block: '#', Diamond: '+', Checker: ':', Degree: '\'', PlusMinus: '#',
	Bullet: 'o', LessEqual: '<', GreaterEqual: '>',
}

// Glyph returns the byte that renders g on this terminal. Callers switch the
// alternate set on with "as" when the terminal has it.
func (t *Table) Glyph(g Glyph) byte {
	if g == GlyphNone || g >= glyphCount {
		return ' '
	}
	return t.glyphs[g]
}

// ASCIIGlyph returns the plain-ASCII fallback for g.
func ASCIIGlyph(g Glyph) byte {
	if g == GlyphNone || g >= glyphCount {
		return ' '
	}
	return asciiGlyphs[g]
}

// UsesAlternateSet reports whether glyphs must be bracketed by as/ae.
func (t *Table) UsesAlternateSet() bool {
	return t.glyphs != &asciiGlyphs && t.Has("as") && t.Has("ae")
}

func familyFor(name string, names []string) Family {
	if f, ok := familyByName(name); ok {
		return f
	}
	for _, alias := range names {
		if f, ok := familyByName(alias); ok {
			return f
		}
	}
	return FamilyANSI
}

func familyByName(name string) (Family, bool) {
	n := strings.ToLower(name)
	switch {
	case n == "pcansi" || n == "ansi.sys" || n == "ansi-nt" || strings.HasPrefix(n, "dos"):
		return FamilyDOS, true
	case strings.HasPrefix(n, "cygwin"):
		return FamilyCygwin, true
	case n == "linux" || strings.HasPrefix(n, "xterm") || strings.HasPrefix(n, "screen") ||
		strings.HasPrefix(n, "tmux") || strings.HasPrefix(n, "rxvt"):
		return FamilyLinux, true
	case len(n) >= 3 && strings.HasPrefix(n, "vt") && n[2] >= '1' && n[2] <= '5':
		return FamilyVT100, true
	}
	return 0, false
}

// glyphsFor picks the glyph table of family f. DEC letters only draw lines
// inside the alternate set, so a record that cannot switch to it falls back
// to ASCII.
func glyphsFor(f Family, switchable bool) *glyphTable {
	switch f {
	case FamilyDOS, FamilyCygwin:
		return &cp437Glyphs
	case FamilyLinux, FamilyVT100:
		if !switchable {
			return &asciiGlyphs
		}
		return &decGlyphs
	default:
		return &asciiGlyphs
	}
}

func quirksFor(f Family) Quirks {
	switch f {
	case FamilyDOS, FamilyCygwin:
		return Quirks{ScrollsOnLastCell: true}
	}
	return Quirks{}
}
