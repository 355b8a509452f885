package terminal

import "testing"

func TestCtrlRoundTrip(t *testing.T) {
	for c := byte('A'); c <= 'Z'; c++ {
		b := Ctrl(c)
		got, ok := CtrlLetter(b)
		if !ok || got != c {
			t.Fatalf("CtrlLetter(Ctrl(%q)) = %q, %v", c, got, ok)
		}
	}
	if Ctrl('q') != CtrlQ {
		t.Fatalf("Ctrl('q') = %#x", Ctrl('q'))
	}
	if _, ok := CtrlLetter(ESC); ok {
		t.Fatalf("ESC should not map to a letter")
	}
}

func TestGeometrySize(t *testing.T) {
	g := Geometry{MinCol: 1, MinRow: 1, MaxCol: 132, MaxRow: 43}
	if g.Cols() != 132 || g.Rows() != 43 {
		t.Fatalf("size = %dx%d", g.Cols(), g.Rows())
	}
	if !Size(80, 25).Valid() {
		t.Fatalf("expected 80x25 to be valid")
	}
	if (Geometry{MinCol: 5, MinRow: 1, MaxCol: 4, MaxRow: 1}).Valid() {
		t.Fatalf("expected inverted geometry to be invalid")
	}
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("cyan")
	if err != nil || c != ColorCyan {
		t.Fatalf("ParseColor(cyan) = %v, %v", c, err)
	}
	if _, err := ParseColor("mauve"); err == nil {
		t.Fatalf("expected error for unknown color")
	}
}
