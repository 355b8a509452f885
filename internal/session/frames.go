package session

import (
	"fmt"

	"pkt.systems/termframe/internal/frame"
)

// RegisterFrame stores f under name, replacing any previous frame with that
// name. The first registered frame becomes current.
func (c *Controller) RegisterFrame(name string, f *frame.Frame) {
	if old, ok := c.frames[name]; ok && old != f && name == c.current {
		old.Detach()
		c.frames[name] = f
		f.Attach(c.surface)
		f.Redraw()
		return
	}
	c.frames[name] = f
	if c.current == "" {
		c.current = name
		f.Attach(c.surface)
		f.Redraw()
	}
}

// RemoveFrame forgets a frame. The current frame cannot be removed.
func (c *Controller) RemoveFrame(name string) error {
	f, ok := c.frames[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUndefinedFrame, name)
	}
	if name == c.current {
		return fmt.Errorf("remove current frame %q", name)
	}
	f.RemoveAllWidgets()
	f.Detach()
	delete(c.frames, name)
	kept := c.stack[:0]
	for _, n := range c.stack {
		if n != name {
			kept = append(kept, n)
		}
	}
	c.stack = kept
	return nil
}

// Frame returns a registered frame.
func (c *Controller) Frame(name string) (*frame.Frame, error) {
	f, ok := c.frames[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUndefinedFrame, name)
	}
	return f, nil
}

// Current returns the name of the displayed frame.
func (c *Controller) Current() string { return c.current }

// PushFrame saves the current frame and displays name.
func (c *Controller) PushFrame(name string) error {
	if _, ok := c.frames[name]; !ok {
		return fmt.Errorf("%w: %s", ErrUndefinedFrame, name)
	}
	if c.current != "" {
		c.stack = append(c.stack, c.current)
	}
	return c.switchTo(name)
}

// PopFrame restores the most recently pushed frame.
func (c *Controller) PopFrame() error {
	if len(c.stack) == 0 {
		return ErrFrameStackEmpty
	}
	name := c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
	return c.switchTo(name)
}

// SetFrame displays name and discards the frame stack.
func (c *Controller) SetFrame(name string) error {
	if _, ok := c.frames[name]; !ok {
		return fmt.Errorf("%w: %s", ErrUndefinedFrame, name)
	}
	c.stack = nil
	return c.switchTo(name)
}

// StackDepth returns the number of saved frames.
func (c *Controller) StackDepth() int { return len(c.stack) }

func (c *Controller) switchTo(name string) error {
	if old := c.frames[c.current]; old != nil {
		old.Detach()
	}
	c.current = name
	c.frames[name].Attach(c.surface)
	c.logger.Debug("frame switched", "frame", name)
	return c.redrawLocked()
}
