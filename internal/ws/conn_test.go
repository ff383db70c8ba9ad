package ws

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"

	"cafehub/internal/models"
)

// overlapConn flags any write that starts while another is in flight.
type overlapConn struct {
	depth    int32
	overlaps int32
	writes   int32
}

func (o *overlapConn) write() error {
	if atomic.AddInt32(&o.depth, 1) > 1 {
		atomic.AddInt32(&o.overlaps, 1)
	}
	time.Sleep(10 * time.Microsecond)
	atomic.AddInt32(&o.writes, 1)
	atomic.AddInt32(&o.depth, -1)
	return nil
}

func (o *overlapConn) WriteJSON(v interface{}) error                   { return o.write() }
func (o *overlapConn) WriteMessage(messageType int, data []byte) error { return o.write() }
func (o *overlapConn) SetWriteDeadline(t time.Time) error              { return nil }
func (o *overlapConn) Close() error                                    { return nil }

// One connection is written to by the hub fan-out, the keepalive pings and
// the pong replies at the same time; the wrapper must serialize them.
func TestSafeConnSerializesConcurrentWriters(t *testing.T) {
	raw := &overlapConn{}
	conn := newSafeConn(raw)

	hub := newHubForTest(t)
	hub.RegisterVenue("cafe_1", conn)

	const rounds = 200
	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			hub.NotifyVenue("cafe_1", models.Event{Type: models.EventOrderCreated})
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			conn.WriteMessage(websocket.PingMessage, nil)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			conn.WriteJSON(models.Event{Type: "pong"})
		}
	}()
	wg.Wait()

	assert.Zero(t, atomic.LoadInt32(&raw.overlaps), "writes must never overlap")
	assert.Equal(t, int32(3*rounds), atomic.LoadInt32(&raw.writes))
}
