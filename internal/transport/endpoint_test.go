package transport

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/x/vt"
	"github.com/coder/websocket"

	"pkt.systems/termframe/internal/frame"
	"pkt.systems/termframe/internal/hub"
	"pkt.systems/termframe/internal/session"
	"pkt.systems/termframe/internal/terminal"
	"pkt.systems/termframe/internal/widget"
)

type client struct {
	t        *testing.T
	conn     *websocket.Conn
	screen   *vt.Emulator
	controls []Control
}

func dial(t *testing.T, ctx context.Context, url string) *client {
	t.Helper()
	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(url, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.CloseNow() })
	return &client{t: t, conn: conn, screen: vt.NewEmulator(80, 25)}
}

func (c *client) control(ctx context.Context, msg Control) {
	c.t.Helper()
	data, _ := json.Marshal(msg)
	if err := c.conn.Write(ctx, websocket.MessageText, data); err != nil {
		c.t.Fatalf("write control: %v", err)
	}
}

func (c *client) keys(ctx context.Context, s string) {
	c.t.Helper()
	if err := c.conn.Write(ctx, websocket.MessageBinary, []byte(s)); err != nil {
		c.t.Fatalf("write keys: %v", err)
	}
}

// readUntil consumes messages until cond holds or the read fails.
func (c *client) readUntil(ctx context.Context, cond func() bool) error {
	for !cond() {
		typ, data, err := c.conn.Read(ctx)
		if err != nil {
			return err
		}
		if typ == websocket.MessageText {
			var msg Control
			if err := json.Unmarshal(data, &msg); err != nil {
				c.t.Fatalf("bad control %q: %v", data, err)
			}
			c.controls = append(c.controls, msg)
			continue
		}
		if _, err := c.screen.Write(data); err != nil {
			c.t.Fatalf("vt write: %v", err)
		}
	}
	return nil
}

func (c *client) row(y, from, to int) string {
	var sb strings.Builder
	for x := from; x < to; x++ {
		cell := c.screen.CellAt(x, y)
		if cell == nil || cell.Content == "" {
			sb.WriteByte(' ')
			continue
		}
		sb.WriteString(cell.Content)
	}
	return sb.String()
}

func (c *client) sawControl(typ string) bool {
	for _, msg := range c.controls {
		if msg.Type == typ {
			return true
		}
	}
	return false
}

func newEndpoint(start StartFunc) (*Endpoint, *hub.Hub) {
	h := hub.New(nil)
	return &Endpoint{Hub: h, Start: start}, h
}

func TestEndpointRunsSession(t *testing.T) {
	presses := make(chan struct{}, 1)
	ep, h := newEndpoint(func(ctrl *session.Controller) error {
		return ctrl.Do(func() error {
			f := frame.New(80, 25)
			f.AddWidget(widget.NewTextBox(2, 1, 10))
			f.AddWidget(widget.NewButton(2, 3, "@Quit", func() {
				presses <- struct{}{}
				ctrl.Quit()
			}))
			ctrl.RegisterFrame("main", f)
			return nil
		})
	})
	srv := httptest.NewServer(ep)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	c := dial(t, ctx, srv.URL)

	c.control(ctx, Control{Type: TypeTerm, Term: "ansi"})
	if err := c.readUntil(ctx, func() bool {
		return c.sawControl(TypeCharMode) && c.sawControl(TypeQuerySize) && c.row(3, 2, 6) == "Quit"
	}); err != nil {
		t.Fatalf("initial screen: %v", err)
	}
	c.control(ctx, Control{Type: TypeSize, Cols: 80, Rows: 25})
	c.keys(ctx, "hi")
	if err := c.readUntil(ctx, func() bool { return c.row(1, 2, 4) == "hi" }); err != nil {
		t.Fatalf("typed text: %v", err)
	}
	if list := h.List(); len(list) != 1 || list[0].Term != "ansi" {
		t.Fatalf("hub list = %+v", list)
	}

	c.keys(ctx, "\t\r")
	select {
	case <-presses:
	case <-ctx.Done():
		t.Fatalf("button not pressed")
	}
	err := c.readUntil(ctx, func() bool { return false })
	if websocket.CloseStatus(err) != websocket.StatusNormalClosure {
		t.Fatalf("expected normal closure, got %v", err)
	}
	deadline := time.Now().Add(time.Second)
	for h.Len() != 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if h.Len() != 0 {
		t.Fatalf("session still registered")
	}
}

func TestEndpointLoneEscapeFlushes(t *testing.T) {
	escapes := make(chan struct{}, 1)
	ep, _ := newEndpoint(func(ctrl *session.Controller) error {
		return ctrl.Do(func() error {
			f := frame.New(80, 25)
			f.AddWidget(&escapeCatcher{TextBox: widget.NewTextBox(0, 0, 5), hit: escapes})
			ctrl.RegisterFrame("main", f)
			return nil
		})
	})
	srv := httptest.NewServer(ep)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	c := dial(t, ctx, srv.URL)
	c.keys(ctx, "\x1b")
	select {
	case <-escapes:
	case <-ctx.Done():
		t.Fatalf("escape not delivered")
	}
}

type escapeCatcher struct {
	*widget.TextBox
	hit chan struct{}
}

func (e *escapeCatcher) HandleKeyCmd(key terminal.Key) bool {
	if key == terminal.KeyEscape {
		e.hit <- struct{}{}
		return true
	}
	return e.TextBox.HandleKeyCmd(key)
}

func TestEndpointUnknownTerminal(t *testing.T) {
	ep, _ := newEndpoint(nil)
	srv := httptest.NewServer(ep)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	c := dial(t, ctx, srv.URL)
	c.control(ctx, Control{Type: TypeTerm, Term: "no-such-term"})
	err := c.readUntil(ctx, func() bool { return c.sawControl(TypeError) })
	if err != nil {
		t.Fatalf("expected error message, got %v", err)
	}
	err = c.readUntil(ctx, func() bool { return false })
	if websocket.CloseStatus(err) != websocket.StatusInternalError {
		t.Fatalf("expected internal error closure, got %v", err)
	}
}
