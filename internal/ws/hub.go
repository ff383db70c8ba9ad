package ws

import (
	"fmt"
	"sync"

	"cafehub/internal/logger"
	"cafehub/internal/models"
)

// Conn is the subset of *websocket.Conn the hub needs; tests substitute
// their own implementation.
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

// Hub is the process-wide connection registry. Scope keys map to the set
// of live connections; there is no replay buffer, so a client connecting
// after an event is emitted never receives it.
type Hub struct {
	mu     sync.RWMutex
	venues map[string]map[Conn]bool
	users  map[string]map[Conn]bool
	admins map[Conn]bool
	log    *logger.Logger
}

func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		venues: make(map[string]map[Conn]bool),
		users:  make(map[string]map[Conn]bool),
		admins: make(map[Conn]bool),
		log:    log,
	}
}

func (h *Hub) RegisterVenue(cafeID string, conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.venues[cafeID] == nil {
		h.venues[cafeID] = make(map[Conn]bool)
	}
	h.venues[cafeID][conn] = true
	h.log.LogWS("CONNECT", "venue:"+cafeID, fmt.Sprintf("%d connections", len(h.venues[cafeID])))
}

func (h *Hub) UnregisterVenue(cafeID string, conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.venues[cafeID], conn)
	if len(h.venues[cafeID]) == 0 {
		delete(h.venues, cafeID)
	}
	h.log.LogWS("DISCONNECT", "venue:"+cafeID, "connection removed")
}

func (h *Hub) RegisterUser(userID string, conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.users[userID] == nil {
		h.users[userID] = make(map[Conn]bool)
	}
	h.users[userID][conn] = true
	h.log.LogWS("CONNECT", "user:"+userID, fmt.Sprintf("%d connections", len(h.users[userID])))
}

func (h *Hub) UnregisterUser(userID string, conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.users[userID], conn)
	if len(h.users[userID]) == 0 {
		delete(h.users, userID)
	}
	h.log.LogWS("DISCONNECT", "user:"+userID, "connection removed")
}

func (h *Hub) RegisterAdmin(conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.admins[conn] = true
}

func (h *Hub) UnregisterAdmin(conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.admins, conn)
}

// send pushes the event to every connection in the set and prunes any
// connection that errors.
func (h *Hub) send(scope string, conns map[Conn]bool, event models.Event) {
	var failed []Conn
	for conn := range conns {
		if err := conn.WriteJSON(event); err != nil {
			failed = append(failed, conn)
		}
	}
	for _, conn := range failed {
		delete(conns, conn)
		conn.Close()
	}
	if len(failed) > 0 {
		h.log.LogWS("PRUNE", scope, fmt.Sprintf("dropped %d dead connections", len(failed)))
	}
}

func (h *Hub) NotifyVenue(cafeID string, event models.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	conns := h.venues[cafeID]
	if len(conns) == 0 {
		return
	}
	h.send("venue:"+cafeID, conns, event)
	if len(conns) == 0 {
		delete(h.venues, cafeID)
	}
}

func (h *Hub) NotifyUser(userID string, event models.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	conns := h.users[userID]
	if len(conns) == 0 {
		return
	}
	h.send("user:"+userID, conns, event)
	if len(conns) == 0 {
		delete(h.users, userID)
	}
}

func (h *Hub) NotifyAdmins(event models.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.admins) == 0 {
		return
	}
	h.send("admin", h.admins, event)
}

// VenueConnections reports the live connection count for a venue scope.
func (h *Hub) VenueConnections(cafeID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.venues[cafeID])
}

func (h *Hub) UserConnections(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.users[userID])
}
