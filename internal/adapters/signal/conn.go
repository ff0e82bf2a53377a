package signal

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/jamwave/jamroom/internal/core"
)

var (
	ErrBackpressure = errors.New("backpressure")
	ErrConnClosed   = errors.New("connection closed")
)

// wsConn wraps a websocket connection behind core.SignalConnection.
// The adapter owns it and closes it; the room only ever calls TrySend.
type wsConn struct {
	conn      *websocket.Conn
	send      chan core.Frame
	writeWait time.Duration

	mu     sync.RWMutex
	closed bool
}

func newWSConn(conn *websocket.Conn, sendBuffer int, writeWait time.Duration) *wsConn {
	return &wsConn{
		conn:      conn,
		send:      make(chan core.Frame, sendBuffer),
		writeWait: writeWait,
	}
}

func (c *wsConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return ErrConnClosed
	}
	select {
	case c.send <- f:
		return nil
	default:
		return ErrBackpressure
	}
}

func (c *wsConn) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
}

// writePump pumps frames to the network until the connection or ctx dies.
func (c *wsConn) writePump(ctx context.Context) {
	defer c.Close()
	for {
		select {
		case <-ctx.Done():
			return
		case frame, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(c.writeWait)); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		}
	}
}
