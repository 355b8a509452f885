// Package transport connects remote terminals to session controllers over
// websockets.
package transport

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/coder/websocket"

	"pkt.systems/pslog"
)

const writeTimeout = 5 * time.Second

// Control message types.
const (
	TypeTerm      = "term"
	TypeSize      = "size"
	TypeCPR       = "cpr"
	TypeQuerySize = "query-size"
	TypeCharMode  = "char-mode"
	TypeError     = "error"
)

// Control is a JSON control message carried in websocket text frames.
type Control struct {
	Type    string `json:"type"`
	Term    string `json:"term,omitempty"`
	Cols    int    `json:"cols,omitempty"`
	Rows    int    `json:"rows,omitempty"`
	Col     int    `json:"col,omitempty"`
	Row     int    `json:"row,omitempty"`
	Message string `json:"message,omitempty"`
}

// wsConn is the session.Transport of one websocket.
type wsConn struct {
	ctx    context.Context
	conn   *websocket.Conn
	logger pslog.Logger

	sendMu sync.Mutex
}

func newWSConn(ctx context.Context, conn *websocket.Conn, logger pslog.Logger) *wsConn {
	if logger == nil {
		logger = pslog.LoggerFromEnv()
	}
	return &wsConn{ctx: ctx, conn: conn, logger: logger}
}

func (c *wsConn) write(typ websocket.MessageType, data []byte) error {
	ctx, cancel := context.WithTimeout(c.ctx, writeTimeout)
	defer cancel()
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	return c.conn.Write(ctx, typ, data)
}

func (c *wsConn) control(msg Control) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return c.write(websocket.MessageText, data)
}

// Send writes screen bytes.
func (c *wsConn) Send(p []byte) error {
	return c.write(websocket.MessageBinary, p)
}

// RequestWindowSize asks the client to report its geometry.
func (c *wsConn) RequestWindowSize() error {
	return c.control(Control{Type: TypeQuerySize})
}

// RequestCharacterMode asks the client to deliver keys unbuffered.
func (c *wsConn) RequestCharacterMode() error {
	return c.control(Control{Type: TypeCharMode})
}

func (c *wsConn) sendError(message string) error {
	return c.control(Control{Type: TypeError, Message: message})
}

func (c *wsConn) Close(status websocket.StatusCode, reason string) error {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	return c.conn.Close(status, reason)
}

func (c *wsConn) Ping(ctx context.Context) error {
	return c.conn.Ping(ctx)
}
