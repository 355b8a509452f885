// Package session drives one connected terminal: it owns the surface, the
// frame registry and frame stack, and turns inbound events into screen
// updates sent through a Transport.
package session

import (
	"bytes"
	"errors"
	"fmt"
	"sync"

	"pkt.systems/pslog"

	"pkt.systems/termframe/internal/frame"
	"pkt.systems/termframe/internal/screen"
	"pkt.systems/termframe/internal/termcap"
)

var (
	// ErrUndefinedFrame is returned for frame names that were never
	// registered.
	ErrUndefinedFrame = errors.New("undefined frame")
	// ErrFrameStackEmpty is returned by PopFrame with nothing to restore.
	ErrFrameStackEmpty = errors.New("frame stack empty")
	// ErrClosed is returned for events delivered after Close.
	ErrClosed = errors.New("session closed")
)

// Transport carries controller output to the remote terminal.
type Transport interface {
	Send(p []byte) error
	RequestWindowSize() error
	RequestCharacterMode() error
}

// Options configures a Controller.
type Options struct {
	ID        string
	Transport Transport
	Logger    pslog.Logger
	// Source is the capability source. Nil selects the bundled one.
	Source []byte
	// Term is loaded when output is needed before the terminal identifies
	// itself.
	Term string
	Cols int
	Rows int
}

// Defaults applied when Options leaves them unset.
const (
	DefaultTerm = "ansi"
	DefaultCols = 80
	DefaultRows = 25
)

// Controller is the per-connection session state. Event handlers and Do
// each run one transaction: dispatch, draw dirty widgets, serialize the
// diff, then send. Frame management methods (RegisterFrame, PushFrame and
// friends) must be called inside a transaction, that is from a widget
// callback or a function passed to Do.
type Controller struct {
	mu     sync.Mutex
	sendMu sync.Mutex

	id        string
	transport Transport
	logger    pslog.Logger
	source    []byte
	term      string

	caps       *termcap.Table
	lineEnding []byte
	surface    *screen.Surface
	frames     map[string]*frame.Frame
	stack      []string
	current    string

	out          bytes.Buffer
	wantSize     bool
	wantCharMode bool
	cursorX      int
	cursorY      int
	quit         bool
	closed       bool
	done         chan struct{}
}

// New creates a controller. The capability table is loaded lazily.
func New(opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = pslog.LoggerFromEnv()
	}
	if opts.Term == "" {
		opts.Term = DefaultTerm
	}
	if opts.Cols <= 0 {
		opts.Cols = DefaultCols
	}
	if opts.Rows <= 0 {
		opts.Rows = DefaultRows
	}
	if opts.Source == nil {
		opts.Source = termcap.Bundled()
	}
	if opts.ID != "" {
		logger = logger.With("session", opts.ID)
	}
	return &Controller{
		id:         opts.ID,
		transport:  opts.Transport,
		logger:     logger,
		source:     opts.Source,
		term:       opts.Term,
		lineEnding: []byte("\r\n"),
		surface:    screen.New(opts.Cols, opts.Rows, nil),
		frames:     make(map[string]*frame.Frame),
		done:       make(chan struct{}),
	}
}

// ID returns the session id.
func (c *Controller) ID() string { return c.id }

// Logger returns the session logger.
func (c *Controller) Logger() pslog.Logger { return c.logger }

// Done is closed after the session quits or is closed.
func (c *Controller) Done() <-chan struct{} { return c.done }

// Info is a snapshot of the session state for listings.
type Info struct {
	Term  string
	Cols  int
	Rows  int
	Frame string
}

// Info returns the terminal type, size and current frame.
func (c *Controller) Info() Info {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Info{Term: c.term, Cols: c.surface.Width(), Rows: c.surface.Height(), Frame: c.current}
}

// transact runs fn under the session lock, flushes the surface and sends the
// result. The send lock is taken before the session lock is released, so
// output leaves in transaction order.
func (c *Controller) transact(fn func() error) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	err := fn()
	if err == nil {
		err = c.flushLocked()
	}
	data := append([]byte(nil), c.out.Bytes()...)
	c.out.Reset()
	wantCharMode, wantSize := c.wantCharMode, c.wantSize
	c.wantCharMode, c.wantSize = false, false
	quit := c.quit && !c.closed
	if quit {
		c.closeLocked()
	}

	c.sendMu.Lock()
	c.mu.Unlock()
	defer c.sendMu.Unlock()

	if sendErr := c.send(data, wantCharMode, wantSize); sendErr != nil && err == nil {
		err = sendErr
	}
	if quit {
		close(c.done)
	}
	return err
}

func (c *Controller) send(data []byte, charMode, size bool) error {
	if c.transport == nil {
		return nil
	}
	if charMode {
		if err := c.transport.RequestCharacterMode(); err != nil {
			return err
		}
	}
	if size {
		if err := c.transport.RequestWindowSize(); err != nil {
			return err
		}
	}
	if len(data) == 0 {
		return nil
	}
	return c.transport.Send(data)
}

func (c *Controller) flushLocked() error {
	if err := c.ensureCaps(); err != nil {
		return err
	}
	if f := c.frames[c.current]; f != nil {
		f.Update()
	}
	return c.surface.SerializeDiff(&c.out)
}

func (c *Controller) ensureCaps() error {
	if c.caps != nil {
		return nil
	}
	return c.loadCaps(c.term)
}

func (c *Controller) loadCaps(name string) error {
	caps, err := termcap.Load(c.source, name)
	if err != nil {
		return fmt.Errorf("load terminal %q: %w", name, err)
	}
	c.caps = caps
	c.term = name
	c.lineEnding = caps.LineEnding()
	c.surface.SetCaps(caps)
	return nil
}

// Do runs fn as a transaction. Use it to apply the results of background
// work to widgets.
func (c *Controller) Do(fn func() error) error {
	return c.transact(fn)
}

// Redraw clears the terminal and repaints the current frame.
func (c *Controller) Redraw() error {
	return c.transact(c.redrawLocked)
}

// redrawLocked sends the destructive clear and repaints the current frame.
func (c *Controller) redrawLocked() error {
	if err := c.ensureCaps(); err != nil {
		return err
	}
	if cl, err := c.caps.Sequence("cl"); err == nil {
		c.out.Write(cl)
	}
	c.surface.ClearScreen()
	if f := c.frames[c.current]; f != nil {
		f.Redraw()
	}
	return nil
}

// Quit ends the session after the running transaction has been sent.
func (c *Controller) Quit() {
	c.quit = true
}

// Goodbye writes a final message below the current screen contents. Call
// it inside a transaction, typically right before Quit.
func (c *Controller) Goodbye(message string) {
	if c.caps == nil {
		return
	}
	if seq, err := c.caps.Goto(0, c.surface.Height()-1); err == nil {
		c.out.Write(seq)
	}
	if me, err := c.caps.Sequence("me"); err == nil {
		c.out.Write(me)
	}
	c.out.WriteString(message)
	c.out.Write(c.lineEnding)
}

// Close destroys every registered frame. Later events return ErrClosed.
func (c *Controller) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	c.closeLocked()
	close(c.done)
	return nil
}

func (c *Controller) closeLocked() {
	for _, f := range c.frames {
		f.RemoveAllWidgets()
		f.Detach()
	}
	c.frames = nil
	c.stack = nil
	c.current = ""
	c.closed = true
	c.logger.Debug("session closed")
}

// LineEnding returns the bytes that end a line on the remote terminal.
// Call it inside a transaction.
func (c *Controller) LineEnding() []byte {
	return append([]byte(nil), c.lineEnding...)
}

// Surface returns the session surface. Call it inside a transaction.
func (c *Controller) Surface() *screen.Surface { return c.surface }

// Caps returns the capability table, or nil before the first flush. Call it
// inside a transaction.
func (c *Controller) Caps() *termcap.Table { return c.caps }

// Size returns the surface geometry. Call it inside a transaction.
func (c *Controller) Size() (cols, rows int) {
	return c.surface.Width(), c.surface.Height()
}

// CursorReport returns the last cursor position report.
func (c *Controller) CursorReport() (x, y int) {
	return c.cursorX, c.cursorY
}
