package ws

import (
	"sync"
	"time"
)

// wireConn is the write surface of *websocket.Conn.
type wireConn interface {
	WriteJSON(v interface{}) error
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// safeConn serializes writes to a single websocket connection. gorilla
// allows at most one concurrent writer, and every connection here has
// three: the hub fan-out, the keepalive ticker, and the read loop's pong
// replies. The write deadline is refreshed under the same lock.
type safeConn struct {
	mu sync.Mutex
	ws wireConn
}

func newSafeConn(ws wireConn) *safeConn {
	return &safeConn{ws: ws}
}

func (c *safeConn) WriteJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	return c.ws.WriteJSON(v)
}

func (c *safeConn) WriteMessage(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	return c.ws.WriteMessage(messageType, data)
}

func (c *safeConn) Close() error {
	return c.ws.Close()
}
