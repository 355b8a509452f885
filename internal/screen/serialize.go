package screen

import (
	"bytes"
	"fmt"

	"pkt.systems/termframe/internal/termcap"
	"pkt.systems/termframe/internal/terminal"
)

type acsState uint8

const (
	acsUnknown acsState = iota
	acsOff
	acsOn
)

// termState is what the serializer believes the remote terminal currently
// shows. The zero value means nothing is known.
type termState struct {
	posKnown bool
	x, y     int
	penKnown bool
	pen      Pen
	acs      acsState
}

// SerializeDiff appends to out the bytes that bring the terminal in line with
// the surface, then clears the dirty flags it consumed. A second call with no
// intervening writes appends nothing.
func (s *Surface) SerializeDiff(out *bytes.Buffer) error {
	caps := s.caps
	if caps == nil || !caps.Has("cm") {
		return fmt.Errorf("%w: cm", termcap.ErrCapabilityMissing)
	}
	skipLast := caps.Quirks().ScrollsOnLastCell
	altSet := caps.UsesAlternateSet()

	for y := 0; y < s.height; y++ {
		for x := 0; x < s.width; x++ {
			c := &s.cells[y*s.width+x]
			if !c.dirty {
				continue
			}
			if skipLast && x == s.width-1 && y == s.height-1 {
				c.dirty = false
				continue
			}
			if !s.term.posKnown || s.term.x != x || s.term.y != y {
				if err := s.moveTo(out, x, y); err != nil {
					return err
				}
			}
			if err := s.emitPen(out, c.attr, c.fg, c.bg, altSet); err != nil {
				return err
			}
			out.WriteByte(s.glyphByte(c))
			c.dirty = false
			s.term.x++
			if s.term.x >= s.width {
				// Pending-wrap behavior differs between terminals.
				s.term.posKnown = false
			}
		}
	}

	if s.cursorHint && (!s.term.posKnown || s.term.x != s.cursorX || s.term.y != s.cursorY) {
		if err := s.moveTo(out, s.cursorX, s.cursorY); err != nil {
			return err
		}
	}
	return nil
}

func (s *Surface) moveTo(out *bytes.Buffer, x, y int) error {
	seq, err := s.caps.Goto(x, y)
	if err != nil {
		return err
	}
	out.Write(seq)
	s.term.posKnown = true
	s.term.x, s.term.y = x, y
	return nil
}

func (s *Surface) emitPen(out *bytes.Buffer, attr terminal.Attr, fg, bg terminal.Color, altSet bool) error {
	want := Pen{Attr: attr.Without(terminal.AttrACS), Fg: fg, Bg: bg}
	if !s.term.penKnown || s.term.pen != want {
		caps := s.caps
		if seq, err := caps.Sequence("me"); err == nil {
			out.Write(seq)
			s.term.acs = acsUnknown
		}
		for _, m := range attrCaps {
			if want.Attr.Has(m.attr) {
				if seq, err := caps.Sequence(m.code); err == nil {
					out.Write(seq)
				}
			}
		}
		if err := s.emitColor(out, "AF", want.Fg); err != nil {
			return err
		}
		if err := s.emitColor(out, "AB", want.Bg); err != nil {
			return err
		}
		s.term.pen = want
		s.term.penKnown = true
	}

	if !altSet {
		return nil
	}
	acs := acsOff
	if attr.Has(terminal.AttrACS) {
		acs = acsOn
	}
	if acs == s.term.acs {
		return nil
	}
	code := "ae"
	if acs == acsOn {
		code = "as"
	}
	seq, err := s.caps.Sequence(code)
	if err != nil {
		return err
	}
	out.Write(seq)
	s.term.acs = acs
	return nil
}

var attrCaps = []struct {
	attr terminal.Attr
	code string
}{
	{terminal.AttrBold, "md"},
	{terminal.AttrUnderline, "us"},
	{terminal.AttrBlink, "mb"},
	{terminal.AttrReverse, "mr"},
	{terminal.AttrInvisible, "mk"},
}

func (s *Surface) emitColor(out *bytes.Buffer, code string, c terminal.Color) error {
	if c == terminal.ColorDefault || c > terminal.ColorWhite {
		return nil
	}
	seq, err := s.caps.Sequence(code)
	if err != nil {
		return nil
	}
	formatted, err := termcap.Format(seq, int(c))
	if err != nil {
		return fmt.Errorf("format %s: %w", code, err)
	}
	out.Write(formatted)
	return nil
}

func (s *Surface) glyphByte(c *Cell) byte {
	if c.attr.Has(terminal.AttrInvisible) && !s.caps.Has("mk") {
		return ' '
	}
	if c.attr.Has(terminal.AttrACS) {
		return s.caps.Glyph(termcap.Glyph(c.ch))
	}
	if !terminal.IsPrintable(c.ch) && c.ch < 0x80 {
		return ' '
	}
	return c.ch
}
