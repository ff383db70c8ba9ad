package ws

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cafehub/internal/logger"
	"cafehub/internal/models"
)

// fakeConn records writes and can be made to fail to exercise pruning.
type fakeConn struct {
	events []models.Event
	fail   bool
	closed bool
}

func (f *fakeConn) WriteJSON(v interface{}) error {
	if f.fail {
		return errors.New("write on dead connection")
	}
	f.events = append(f.events, v.(models.Event))
	return nil
}

func (f *fakeConn) Close() error {
	f.closed = true
	return nil
}

func newHubForTest(t *testing.T) *Hub {
	t.Helper()
	log := logger.NewLogger()
	t.Cleanup(log.Close)
	return NewHub(log)
}

func TestNotifyVenueFansOut(t *testing.T) {
	hub := newHubForTest(t)
	first := &fakeConn{}
	second := &fakeConn{}
	other := &fakeConn{}

	hub.RegisterVenue("cafe_1", first)
	hub.RegisterVenue("cafe_1", second)
	hub.RegisterVenue("cafe_2", other)

	event := models.Event{Type: models.EventOrderCreated, Payload: "ord_1"}
	hub.NotifyVenue("cafe_1", event)

	require.Len(t, first.events, 1)
	assert.Equal(t, models.EventOrderCreated, first.events[0].Type)
	require.Len(t, second.events, 1)
	assert.Empty(t, other.events, "events stay inside their venue scope")
}

func TestNotifyUserTargetsOneUser(t *testing.T) {
	hub := newHubForTest(t)
	mine := &fakeConn{}
	theirs := &fakeConn{}

	hub.RegisterUser("usr_1", mine)
	hub.RegisterUser("usr_2", theirs)

	hub.NotifyUser("usr_1", models.Event{Type: models.EventSystem})

	assert.Len(t, mine.events, 1)
	assert.Empty(t, theirs.events)
}

func TestNotifyPrunesDeadConnections(t *testing.T) {
	hub := newHubForTest(t)
	alive := &fakeConn{}
	dead := &fakeConn{fail: true}

	hub.RegisterVenue("cafe_1", alive)
	hub.RegisterVenue("cafe_1", dead)
	require.Equal(t, 2, hub.VenueConnections("cafe_1"))

	hub.NotifyVenue("cafe_1", models.Event{Type: models.EventOrderStatusChanged})

	assert.Equal(t, 1, hub.VenueConnections("cafe_1"))
	assert.True(t, dead.closed, "pruned connections are closed")
	assert.Len(t, alive.events, 1)

	// A later event only reaches the surviving connection.
	hub.NotifyVenue("cafe_1", models.Event{Type: models.EventOrderStatusChanged})
	assert.Len(t, alive.events, 2)
}

func TestUnregisterRemovesConnection(t *testing.T) {
	hub := newHubForTest(t)
	conn := &fakeConn{}

	hub.RegisterVenue("cafe_1", conn)
	hub.UnregisterVenue("cafe_1", conn)
	assert.Zero(t, hub.VenueConnections("cafe_1"))

	hub.NotifyVenue("cafe_1", models.Event{Type: models.EventOrderCreated})
	assert.Empty(t, conn.events)

	hub.RegisterUser("usr_1", conn)
	hub.UnregisterUser("usr_1", conn)
	assert.Zero(t, hub.UserConnections("usr_1"))
}

func TestNotifyAdminsReachesEveryAdmin(t *testing.T) {
	hub := newHubForTest(t)
	first := &fakeConn{}
	second := &fakeConn{}

	hub.RegisterAdmin(first)
	hub.RegisterAdmin(second)
	hub.NotifyAdmins(models.Event{Type: models.EventSystem})

	assert.Len(t, first.events, 1)
	assert.Len(t, second.events, 1)

	hub.UnregisterAdmin(second)
	hub.NotifyAdmins(models.Event{Type: models.EventSystem})
	assert.Len(t, first.events, 2)
	assert.Len(t, second.events, 1)
}
