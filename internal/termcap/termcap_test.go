package termcap

import (
	"bytes"
	"errors"
	"testing"
)

func TestLoadSingleRecord(t *testing.T) {
	src := []byte("vt100|vt100-am:am:co#80:cm=\\E[%i%d;%dH:\n")
	tab, err := Load(src, "vt100")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !tab.Flag("am") {
		t.Fatalf("expected am flag")
	}
	if n, ok := tab.Number("co"); !ok || n != 80 {
		t.Fatalf("co = %d, %v", n, ok)
	}
	got, err := tab.Goto(0, 0)
	if err != nil {
		t.Fatalf("goto: %v", err)
	}
	if string(got) != "\x1b[1;1H" {
		t.Fatalf("goto(0,0) = %q", got)
	}
	got, _ = tab.Goto(9, 4)
	if string(got) != "\x1b[5;10H" {
		t.Fatalf("goto(9,4) = %q", got)
	}
}

func TestLoadIndirectionChildWins(t *testing.T) {
	src := []byte("foo|Foo:xx#1:tc=bar:\nbar|Bar:xx#2:yy#3:\n")
	tab, err := Load(src, "foo")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if n, _ := tab.Number("xx"); n != 1 {
		t.Fatalf("xx = %d, want 1", n)
	}
	if n, _ := tab.Number("yy"); n != 3 {
		t.Fatalf("yy = %d, want 3", n)
	}
}

func TestLoadCancellation(t *testing.T) {
	src := []byte("child|Child:mk@:tc=parent:\nparent|Parent:mk=\\E[8m:md=\\E[1m:\n")
	tab, err := Load(src, "child")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if tab.Has("mk") {
		t.Fatalf("mk should be cancelled")
	}
	if !tab.Has("md") {
		t.Fatalf("md should be inherited")
	}
}

func TestLoadSkipsCommentsAndContinuations(t *testing.T) {
	src := []byte("# comment|Not:a#1:\n\nterm|A term:\\\n\t:co#132:\\\n\t:li#43:\n")
	tab, err := Load(src, "term")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if tab.Columns(80) != 132 || tab.Lines(25) != 43 {
		t.Fatalf("size = %dx%d", tab.Columns(80), tab.Lines(25))
	}
	if _, err := Load(src, "comment"); !errors.Is(err, ErrTerminalNotFound) {
		t.Fatalf("commented record matched: %v", err)
	}
}

func TestLoadDescriptionNeverMatches(t *testing.T) {
	src := []byte("abc|Description:am:\n")
	if _, err := Load(src, "Description"); !errors.Is(err, ErrTerminalNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := Load(src, "abc"); err != nil {
		t.Fatalf("load abc: %v", err)
	}
}

func TestLoadIndirectionLoop(t *testing.T) {
	src := []byte("a|A:tc=b:\nb|B:tc=a:\n")
	if _, err := Load(src, "a"); !errors.Is(err, ErrMalformedSource) {
		t.Fatalf("expected malformed source, got %v", err)
	}
}

func TestLoadMissingParent(t *testing.T) {
	src := []byte("a|A:tc=missing:\n")
	if _, err := Load(src, "a"); !errors.Is(err, ErrTerminalNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestNumbersOctal(t *testing.T) {
	src := []byte("t|T:pb#0100:co#80:\n")
	tab, err := Load(src, "t")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if n, _ := tab.Number("pb"); n != 64 {
		t.Fatalf("pb = %d, want 64", n)
	}
}

func TestSequenceDecoding(t *testing.T) {
	src := []byte(`t|T:bl=^G:kb=\177:x1=\E[\s\t:x2=^[:x3=^^:x4=\^X:`)
	tab, err := Load(src, "t")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cases := map[string]string{
		"bl": "\a",
		"kb": "\x7f",
		"x1": "\x1b[ \t",
		"x2": "\x1b",
		"x3": "\x1e",
		"x4": "^X",
	}
	for code, want := range cases {
		got, err := tab.Sequence(code)
		if err != nil {
			t.Fatalf("%s: %v", code, err)
		}
		if string(got) != want {
			t.Fatalf("%s = %q, want %q", code, got, want)
		}
	}
	if _, err := tab.Sequence("zz"); !errors.Is(err, ErrCapabilityMissing) {
		t.Fatalf("expected missing capability, got %v", err)
	}
}

func TestFormat(t *testing.T) {
	cases := []struct {
		seq    string
		params []int
		want   string
	}{
		{"\x1b[%i%d;%dH", []int{4, 9}, "\x1b[5;10H"},
		{"\x1b[%r%d;%dH", []int{1, 2}, "\x1b[2;1H"},
		{"%2,%3", []int{5, 7}, "05,007"},
		{"\x1b=%+ %+ ", []int{2, 3}, "\x1b=\"#"},
		{"%.", []int{'A'}, "A"},
		{"%>\x05\x10%d", []int{6}, "22"},
		{"100%%", nil, "100%"},
		{"\x1b[3%dm", []int{1}, "\x1b[31m"},
	}
	for _, tc := range cases {
		got, err := Format([]byte(tc.seq), tc.params...)
		if err != nil {
			t.Fatalf("format %q: %v", tc.seq, err)
		}
		if string(got) != tc.want {
			t.Fatalf("format %q = %q, want %q", tc.seq, got, tc.want)
		}
	}
}

func TestFormatErrors(t *testing.T) {
	for _, seq := range []string{"%d", "abc%", "%z"} {
		if _, err := Format([]byte(seq)); !errors.Is(err, ErrFormat) {
			t.Fatalf("format %q: expected ErrFormat, got %v", seq, err)
		}
	}
}

func TestBundledRecords(t *testing.T) {
	src := Bundled()
	for _, name := range Names(src) {
		tab, err := Load(src, name)
		if err != nil {
			t.Fatalf("load %s: %v", name, err)
		}
		if name != "dumb" && !tab.Has("cm") {
			t.Fatalf("%s has no cursor addressing", name)
		}
	}
	for _, alias := range []string{"xterm-256color", "tmux", "ansi.sys", "vt220"} {
		if _, err := Load(src, alias); err != nil {
			t.Fatalf("load alias %s: %v", alias, err)
		}
	}
}

func TestBundledInheritance(t *testing.T) {
	src := Bundled()
	cyg, err := Load(src, "cygwin")
	if err != nil {
		t.Fatalf("load cygwin: %v", err)
	}
	if cyg.Has("mk") {
		t.Fatalf("cygwin should cancel mk")
	}
	if me, _ := cyg.Sequence("me"); string(me) != "\x1b[0;10m" {
		t.Fatalf("cygwin me = %q", me)
	}
	scr, err := Load(src, "screen")
	if err != nil {
		t.Fatalf("load screen: %v", err)
	}
	if scr.Has("ti") || scr.Has("te") {
		t.Fatalf("screen should cancel ti/te")
	}
	if n, _ := scr.Number("li"); n != 24 {
		t.Fatalf("screen li = %d", n)
	}
	v220, err := Load(src, "vt220")
	if err != nil {
		t.Fatalf("load vt220: %v", err)
	}
	if seq, _ := v220.Sequence("@7"); string(seq) != "\x1b[4~" {
		t.Fatalf("vt220 @7 = %q", seq)
	}
}

func TestFamiliesAndGlyphs(t *testing.T) {
	src := Bundled()
	cases := []struct {
		name   string
		family Family
		hline  byte
		alt    bool
		scroll bool
	}{
		{"ansi", FamilyANSI, '-', false, false},
		{"pcansi", FamilyDOS, 0xc4, false, true},
		{"ansi.sys", FamilyDOS, 0xc4, false, true},
		{"cygwin", FamilyCygwin, 0xc4, true, true},
		{"linux", FamilyLinux, 'q', true, false},
		{"xterm", FamilyLinux, 'q', true, false},
		{"vt100", FamilyVT100, 'q', true, false},
	}
	for _, tc := range cases {
		tab, err := Load(src, tc.name)
		if err != nil {
			t.Fatalf("load %s: %v", tc.name, err)
		}
		if tab.Family() != tc.family {
			t.Fatalf("%s family = %s, want %s", tc.name, tab.Family(), tc.family)
		}
		if g := tab.Glyph(HLine); g != tc.hline {
			t.Fatalf("%s hline = %#x", tc.name, g)
		}
		if tab.UsesAlternateSet() != tc.alt {
			t.Fatalf("%s alternate set = %v", tc.name, tab.UsesAlternateSet())
		}
		if tab.Quirks().ScrollsOnLastCell != tc.scroll {
			t.Fatalf("%s scroll quirk = %v", tc.name, tab.Quirks().ScrollsOnLastCell)
		}
	}
}

func TestDECFamilyWithoutAlternateSetUsesASCII(t *testing.T) {
	tab, err := Load([]byte("vt100|plain vt100:cm=\\E[%i%d;%dH:me=\\E[m:\n"), "vt100")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if tab.Family() != FamilyVT100 {
		t.Fatalf("family = %s", tab.Family())
	}
	if tab.UsesAlternateSet() {
		t.Fatalf("alternate set reported without as/ae")
	}
	if g := tab.Glyph(HLine); g != '-' {
		t.Fatalf("hline = %q, want '-'", g)
	}
	if g := tab.Glyph(ULCorner); g != ASCIIGlyph(ULCorner) {
		t.Fatalf("corner = %q", g)
	}
}

func TestLineEnding(t *testing.T) {
	tab, err := Load(Bundled(), "dumb")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := tab.LineEnding(); !bytes.Equal(got, []byte("\r\n")) {
		t.Fatalf("line ending = %q", got)
	}
	nc, _ := Load([]byte("t|T:nc:nl=^J:"), "t")
	if got := nc.LineEnding(); string(got) != "\n" {
		t.Fatalf("nc line ending = %q", got)
	}
}
