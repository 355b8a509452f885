package session

import (
	"pkt.systems/termframe/internal/frame"
	"pkt.systems/termframe/internal/screen"
	"pkt.systems/termframe/internal/terminal"
)

func (c *Controller) currentFrame() *frame.Frame {
	return c.frames[c.current]
}

// HandleTerminalType loads the capability table for term and repaints.
func (c *Controller) HandleTerminalType(term string) error {
	return c.transact(func() error {
		if err := c.loadCaps(term); err != nil {
			c.logger.Warn("unknown terminal type", "term", term, "error", err)
			return err
		}
		c.wantCharMode = true
		c.wantSize = true
		if ra, err := c.caps.Sequence("RA"); err == nil {
			c.out.Write(ra)
		}
		c.logger.Info("terminal identified", "term", term, "family", c.caps.Family().String())
		return c.redrawLocked()
	})
}

// HandleWindowGeometry resizes the surface and every registered frame to
// the span of g. Invalid or unchanged sizes are ignored.
func (c *Controller) HandleWindowGeometry(g terminal.Geometry) error {
	return c.transact(func() error {
		if !g.Valid() {
			return nil
		}
		cols, rows := g.Cols(), g.Rows()
		if cols == c.surface.Width() && rows == c.surface.Height() {
			return nil
		}
		c.surface = screen.New(cols, rows, c.caps)
		for name, f := range c.frames {
			f.Resize(c.surface)
			if name != c.current {
				f.Detach()
			}
		}
		c.logger.Debug("window resized", "cols", cols, "rows", rows)
		return c.redrawLocked()
	})
}

// HandleChar delivers a printable character to the current frame.
func (c *Controller) HandleChar(ch byte) error {
	return c.transact(func() error {
		if f := c.currentFrame(); f != nil {
			f.HandleKey(ch)
		}
		return nil
	})
}

// HandleControl delivers a control character. An unclaimed Ctrl-L repaints
// the terminal.
func (c *Controller) HandleControl(ch byte) error {
	return c.transact(func() error {
		if f := c.currentFrame(); f != nil && f.HandleKeyControl(ch) {
			return nil
		}
		if ch == terminal.CtrlL {
			return c.redrawLocked()
		}
		return nil
	})
}

// HandleCommand delivers a cursor or editing key.
func (c *Controller) HandleCommand(key terminal.Key) error {
	return c.transact(func() error {
		if f := c.currentFrame(); f != nil {
			f.HandleKeyCmd(key)
		}
		return nil
	})
}

// HandleFunctionKey runs the function key callback of the current frame.
func (c *Controller) HandleFunctionKey(key terminal.FunctionKey) error {
	return c.transact(func() error {
		if f := c.currentFrame(); f != nil {
			f.HandleKeyFN(key)
		}
		return nil
	})
}

// HandleLineFeed delivers Enter.
func (c *Controller) HandleLineFeed() error {
	return c.transact(func() error {
		if f := c.currentFrame(); f != nil {
			f.HandleKeyLF()
		}
		return nil
	})
}

// HandleCursorPosition records a cursor position report.
func (c *Controller) HandleCursorPosition(x, y int) error {
	return c.transact(func() error {
		c.cursorX, c.cursorY = x, y
		return nil
	})
}
