package transport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/coder/websocket"

	"pkt.systems/pslog"

	"pkt.systems/termframe/internal/hub"
	"pkt.systems/termframe/internal/input"
	"pkt.systems/termframe/internal/session"
	"pkt.systems/termframe/internal/terminal"
)

const (
	wsReadLimit    = 1 << 16
	wsPingInterval = 30 * time.Second
	wsPongTimeout  = 60 * time.Second
	// escapeTimeout is how long a lone ESC waits for the rest of a sequence.
	escapeTimeout = 50 * time.Millisecond
)

// StartFunc installs the application frames of a new session. It runs
// before the first inbound event.
type StartFunc func(ctrl *session.Controller) error

// Endpoint is the websocket handler that runs one session per connection.
type Endpoint struct {
	Hub    *hub.Hub
	Logger pslog.Logger
	Start  StartFunc
	// Source is the capability source given to every session.
	Source []byte
	Term   string
	Cols   int
	Rows   int
	// RealIP extracts the client address. Defaults to r.RemoteAddr.
	RealIP func(r *http.Request) string
	// OriginPatterns is passed to websocket.Accept.
	OriginPatterns []string
}

type inbound struct {
	typ  websocket.MessageType
	data []byte
	err  error
}

// ServeHTTP upgrades the request and serves the session until either side
// ends it.
func (e *Endpoint) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := e.Logger
	if logger == nil {
		logger = pslog.Ctx(r.Context())
	}
	if logger == nil {
		logger = pslog.LoggerFromEnv()
	}
	term, cols, rows := e.Term, e.Cols, e.Rows
	if term == "" {
		term = session.DefaultTerm
	}
	if cols <= 0 || rows <= 0 {
		cols, rows = session.DefaultCols, session.DefaultRows
	}
	remote := r.RemoteAddr
	if e.RealIP != nil {
		remote = e.RealIP(r)
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: e.OriginPatterns,
	})
	if err != nil {
		logger.Debug("websocket accept failed", "remote", remote, "err", err)
		return
	}
	conn.SetReadLimit(wsReadLimit)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	id := hub.NewID()
	logger = logger.With("remote", remote)
	ws := newWSConn(ctx, conn, logger.With("session", id))
	ctrl := session.New(session.Options{
		ID:        id,
		Transport: ws,
		Logger:    logger,
		Source:    e.Source,
		Term:      term,
		Cols:      cols,
		Rows:      rows,
	})
	if e.Hub != nil {
		if err := e.Hub.Register(ctrl, remote, term, cols, rows); err != nil {
			_ = ws.sendError(err.Error())
			_ = ws.Close(websocket.StatusInternalError, "registration failed")
			return
		}
		defer e.Hub.Unregister(id)
	}
	defer func() { _ = ctrl.Close() }()

	ctrl.Logger().Info("session connected")
	if e.Start != nil {
		if err := e.Start(ctrl); err != nil {
			ctrl.Logger().Error("session start failed", "err", err)
			_ = ws.sendError(err.Error())
			_ = ws.Close(websocket.StatusInternalError, "start failed")
			return
		}
	}

	status, reason := e.serve(ctx, ws, ctrl)
	ctrl.Logger().Info("session disconnected", "reason", reason)
	_ = ws.Close(status, reason)
}

func (e *Endpoint) serve(ctx context.Context, ws *wsConn, ctrl *session.Controller) (websocket.StatusCode, string) {
	go pingLoop(ctx, ws)

	msgs := make(chan inbound, 1)
	go func() {
		for {
			typ, data, err := ws.conn.Read(ctx)
			select {
			case msgs <- inbound{typ: typ, data: data, err: err}:
			case <-ctx.Done():
				return
			}
			if err != nil {
				return
			}
		}
	}()

	var dec input.Decoder
	var escTimer <-chan time.Time
	for {
		var err error
		select {
		case <-ctx.Done():
			return websocket.StatusGoingAway, "context done"
		case <-ctrl.Done():
			return websocket.StatusNormalClosure, "goodbye"
		case <-escTimer:
			escTimer = nil
			err = input.Dispatch(ctrl, dec.Flush()...)
		case msg := <-msgs:
			if msg.err != nil {
				return websocket.StatusNormalClosure, "client closed"
			}
			if e.Hub != nil {
				e.Hub.Touch(ctrl.ID())
			}
			switch msg.typ {
			case websocket.MessageBinary:
				err = input.Dispatch(ctrl, dec.Decode(msg.data)...)
				escTimer = nil
				if dec.Pending() {
					escTimer = time.After(escapeTimeout)
				}
			case websocket.MessageText:
				err = e.handleControl(ctrl, msg.data)
			}
		}
		if err != nil {
			if errors.Is(err, session.ErrClosed) {
				return websocket.StatusNormalClosure, "goodbye"
			}
			ctrl.Logger().Error("session failed", "err", err)
			_ = ws.sendError(err.Error())
			return websocket.StatusInternalError, "session error"
		}
	}
}

// handleControl applies one JSON control message. Malformed messages are
// ignored.
func (e *Endpoint) handleControl(ctrl *session.Controller, data []byte) error {
	var msg Control
	if err := json.Unmarshal(data, &msg); err != nil {
		ctrl.Logger().Debug("ignoring malformed control message", "err", err)
		return nil
	}
	switch msg.Type {
	case TypeTerm:
		if err := ctrl.HandleTerminalType(msg.Term); err != nil {
			return err
		}
		if e.Hub != nil {
			e.Hub.Update(ctrl.ID(), func(entry *hub.Entry) { entry.Term = msg.Term })
		}
	case TypeSize:
		g := terminal.Size(msg.Cols, msg.Rows)
		if err := ctrl.HandleWindowGeometry(g); err != nil {
			return err
		}
		if e.Hub != nil && g.Valid() {
			e.Hub.Update(ctrl.ID(), func(entry *hub.Entry) {
				entry.Cols = g.Cols()
				entry.Rows = g.Rows()
			})
		}
	case TypeCPR:
		return ctrl.HandleCursorPosition(msg.Col-1, msg.Row-1)
	default:
		ctrl.Logger().Debug("ignoring control message", "type", msg.Type)
	}
	return nil
}

func pingLoop(ctx context.Context, ws *wsConn) {
	ticker := time.NewTicker(wsPingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, wsPongTimeout)
			if err := ws.Ping(pingCtx); err != nil {
				ws.logger.Debug("websocket ping failed", "err", err)
			}
			cancel()
		}
	}
}
