package screen

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/charmbracelet/x/vt"

	"pkt.systems/termframe/internal/termcap"
	"pkt.systems/termframe/internal/terminal"
)

func mustCaps(t *testing.T, name string) *termcap.Table {
	t.Helper()
	caps, err := termcap.Load(termcap.Bundled(), name)
	if err != nil {
		t.Fatalf("load %s: %v", name, err)
	}
	return caps
}

func flush(t *testing.T, s *Surface) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := s.SerializeDiff(&buf); err != nil {
		t.Fatalf("serialize: %v", err)
	}
	return buf.Bytes()
}

func TestSerializeDiffIdempotent(t *testing.T) {
	s := New(20, 4, mustCaps(t, "ansi"))
	s.WriteText(1, 1, "hello")
	if out := flush(t, s); len(out) == 0 {
		t.Fatalf("first flush produced nothing")
	}
	if out := flush(t, s); len(out) != 0 {
		t.Fatalf("second flush = %q, want empty", out)
	}
}

func TestRewritingSameValuesStaysClean(t *testing.T) {
	s := New(20, 4, mustCaps(t, "ansi"))
	s.SetPen(terminal.AttrBold, terminal.ColorRed, terminal.ColorDefault)
	s.WriteText(0, 0, "same")
	flush(t, s)

	s.WriteText(0, 0, "same")
	if n := s.DirtyCount(); n != 0 {
		t.Fatalf("dirty cells = %d, want 0", n)
	}
	if out := flush(t, s); len(out) != 0 {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestSerializeDiffEmitsOnlyChanges(t *testing.T) {
	s := New(20, 4, mustCaps(t, "ansi"))
	s.WriteText(0, 0, "abcdef")
	flush(t, s)

	s.WriteChar(3, 2, 'X')
	out := string(flush(t, s))
	if out != "\x1b[3;4HX" {
		t.Fatalf("diff = %q", out)
	}
}

func TestSerializeDiffSkipsGapWithCursorAddress(t *testing.T) {
	s := New(20, 2, mustCaps(t, "ansi"))
	flush(t, s)
	s.WriteChar(1, 0, 'a')
	s.WriteChar(2, 0, 'b')
	s.WriteChar(5, 0, 'c')
	out := string(flush(t, s))
	if strings.Count(out, "H") != 2 {
		t.Fatalf("expected two cursor moves in %q", out)
	}
	if !strings.Contains(out, "ab") {
		t.Fatalf("adjacent cells should be written without a move: %q", out)
	}
}

func TestWriteTextClips(t *testing.T) {
	s := New(6, 2, mustCaps(t, "ansi"))
	s.WriteText(-2, 0, "abcdefghij")
	if got := s.Row(0); got != "cdefgh" {
		t.Fatalf("row 0 = %q", got)
	}
	s.WriteText(0, 5, "ignored")
	s.WriteText(0, -1, "ignored")
	if got := s.Row(1); got != "      " {
		t.Fatalf("row 1 = %q", got)
	}
}

func TestWriteTextFoldsNonASCII(t *testing.T) {
	s := New(10, 1, mustCaps(t, "ansi"))
	s.WriteText(0, 0, "aé世b́")
	if got := s.Row(0); got != "a???b     " {
		t.Fatalf("row = %q", got)
	}
}

func TestPenAppliesOnlyToLaterWrites(t *testing.T) {
	s := New(10, 1, mustCaps(t, "ansi"))
	s.WriteText(0, 0, "a")
	s.SetPen(terminal.AttrReverse, terminal.ColorBlue, terminal.ColorWhite)
	s.WriteText(1, 0, "b")
	if c := s.Cell(0, 0); c.Attributes() != terminal.AttrNone {
		t.Fatalf("pen leaked to earlier cell")
	}
	c := s.Cell(1, 0)
	if c.Attributes() != terminal.AttrReverse || c.ForeColor() != terminal.ColorBlue || c.BackColor() != terminal.ColorWhite {
		t.Fatalf("cell = %+v", c)
	}
}

func TestDrawBoxRestoresPen(t *testing.T) {
	s := New(10, 5, mustCaps(t, "ansi"))
	s.SetPen(terminal.AttrBold, terminal.ColorDefault, terminal.ColorDefault)
	s.DrawBox(0, 0, 4, 3)
	if s.Pen().Attr != terminal.AttrBold {
		t.Fatalf("pen = %+v", s.Pen())
	}
	c := s.Cell(0, 0)
	if !c.Attributes().Has(terminal.AttrACS) || termcap.Glyph(c.Char()) != termcap.ULCorner {
		t.Fatalf("corner cell = %+v", c)
	}
	if termcap.Glyph(s.Cell(1, 2).Char()) != termcap.HLine {
		t.Fatalf("bottom edge not drawn")
	}
	if termcap.Glyph(s.Cell(3, 1).Char()) != termcap.VLine {
		t.Fatalf("right edge not drawn")
	}
}

func TestClearScreenMarksEverythingDirty(t *testing.T) {
	s := New(4, 2, mustCaps(t, "ansi"))
	flush(t, s)
	s.ClearScreen()
	if n := s.DirtyCount(); n != 8 {
		t.Fatalf("dirty = %d, want 8", n)
	}
	flush(t, s)
	s.Invalidate()
	if n := s.DirtyCount(); n != 8 {
		t.Fatalf("dirty after invalidate = %d", n)
	}
}

func TestSerializeDiffSkipsBottomRightOnScrollingTerminals(t *testing.T) {
	s := New(4, 2, mustCaps(t, "pcansi"))
	flush(t, s)
	s.WriteChar(3, 1, 'Z')
	if out := flush(t, s); bytes.Contains(out, []byte("Z")) {
		t.Fatalf("bottom-right cell written: %q", out)
	}
	if s.DirtyCount() != 0 {
		t.Fatalf("bottom-right cell left dirty")
	}

	v := New(4, 2, mustCaps(t, "vt100"))
	flush(t, v)
	v.WriteChar(3, 1, 'Z')
	if out := flush(t, v); !bytes.Contains(out, []byte("Z")) {
		t.Fatalf("vt100 should write the bottom-right cell: %q", out)
	}
}

func TestSerializeDiffRequiresCursorAddressing(t *testing.T) {
	caps, err := termcap.Load([]byte("t|T:am:"), "t")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	s := New(4, 2, caps)
	var buf bytes.Buffer
	if err := s.SerializeDiff(&buf); !errors.Is(err, termcap.ErrCapabilityMissing) {
		t.Fatalf("expected missing capability, got %v", err)
	}
}

func TestSerializeDiffAlternateCharset(t *testing.T) {
	s := New(10, 2, mustCaps(t, "vt100"))
	flush(t, s)
	s.WriteChar(0, 0, 'a')
	s.DrawHLine(1, 0, 3)
	s.WriteChar(4, 0, 'b')
	out := string(flush(t, s))
	want := "\x1b[1;1Ha\x1b(0qqq\x1b(Bb"
	if out != want {
		t.Fatalf("acs diff = %q, want %q", out, want)
	}
}

func TestSerializeDiffLinesWithoutAlternateSet(t *testing.T) {
	caps, err := termcap.Load([]byte("vt100|plain vt100:cm=\\E[%i%d;%dH:me=\\E[m:"), "vt100")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	s := New(5, 1, caps)
	flush(t, s)
	s.DrawHLine(0, 0, 5)
	out := string(flush(t, s))
	if !strings.HasSuffix(out, "-----") || strings.Contains(out, "q") {
		t.Fatalf("hline = %q, want ascii dashes", out)
	}
}

func TestSerializeDiffCursorHint(t *testing.T) {
	s := New(10, 4, mustCaps(t, "ansi"))
	s.SetCursor(3, 2)
	out := flush(t, s)
	if !bytes.HasSuffix(out, []byte("\x1b[3;4H")) {
		t.Fatalf("output does not end at cursor hint: %q", out)
	}
	if out := flush(t, s); len(out) != 0 {
		t.Fatalf("cursor re-sent: %q", out)
	}
}

func TestSerializedOutputRendersInReferenceTerminal(t *testing.T) {
	const cols, rows = 30, 6
	s := New(cols, rows, mustCaps(t, "ansi"))
	s.DrawBox(0, 0, 12, 4)
	s.SetPen(terminal.AttrBold, terminal.ColorDefault, terminal.ColorDefault)
	s.WriteText(2, 1, "hello")
	s.SetPen(terminal.AttrReverse, terminal.ColorDefault, terminal.ColorDefault)
	s.WriteText(15, 2, "[ OK ]")
	s.UsePen(DefaultPen)
	s.WriteText(0, 5, "status")

	emu := vt.NewEmulator(cols, rows)
	if _, err := emu.Write(flush(t, s)); err != nil {
		t.Fatalf("emulator write: %v", err)
	}

	// Change a single word and replay only the diff.
	s.SetPen(terminal.AttrBold, terminal.ColorDefault, terminal.ColorDefault)
	s.WriteText(2, 1, "world")
	if _, err := emu.Write(flush(t, s)); err != nil {
		t.Fatalf("emulator write: %v", err)
	}

	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			want := s.Cell(x, y)
			wantCh := want.Char()
			if want.Attributes().Has(terminal.AttrACS) {
				wantCh = termcap.ASCIIGlyph(termcap.Glyph(wantCh))
			}
			cell := emu.CellAt(x, y)
			got := " "
			var attrs uv.StyleAttr
			if cell != nil {
				if cell.Content != "" {
					got = cell.Content
				}
				attrs = cell.Style.Attrs
			}
			if got != string(wantCh) {
				t.Fatalf("cell(%d,%d) = %q, want %q", x, y, got, string(wantCh))
			}
			if want.Attributes().Has(terminal.AttrBold) != (attrs&uv.AttrBold != 0) {
				t.Fatalf("cell(%d,%d) bold mismatch", x, y)
			}
			if want.Attributes().Has(terminal.AttrReverse) != (attrs&uv.AttrReverse != 0) {
				t.Fatalf("cell(%d,%d) reverse mismatch", x, y)
			}
		}
	}
}
