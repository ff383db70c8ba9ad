package ws

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"cafehub/internal/auth"
	"cafehub/internal/logger"
	"cafehub/internal/models"
	"cafehub/internal/services"
	"cafehub/internal/storage"
	"cafehub/internal/utils"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 50 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browser clients connect from a different origin than the API.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handler upgrades authenticated websocket requests and binds them to hub
// scopes. Browsers cannot set an Authorization header on the handshake, so
// the token rides in the query string.
type Handler struct {
	hub    *Hub
	issuer *auth.TokenIssuer
	store  storage.Store
	log    *logger.Logger
}

func NewHandler(hub *Hub, issuer *auth.TokenIssuer, store storage.Store, log *logger.Logger) *Handler {
	return &Handler{hub: hub, issuer: issuer, store: store, log: log}
}

func (h *Handler) authenticate(c *gin.Context) (*models.User, bool) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, utils.ErrorResponse("Authentication required", "missing token query parameter"))
		return nil, false
	}
	claims, err := h.issuer.ParseAccessToken(token)
	if err != nil {
		h.log.LogSecurity("WS_AUTH_FAILED", fmt.Sprintf("Invalid ws token from %s: %v", c.ClientIP(), err))
		c.JSON(http.StatusUnauthorized, utils.ErrorResponse("Authentication required", "invalid or expired token"))
		return nil, false
	}
	user, err := h.store.GetUser(claims.UserID)
	if err != nil || !user.IsActive {
		c.JSON(http.StatusUnauthorized, utils.ErrorResponse("Authentication required", "account unavailable"))
		return nil, false
	}
	return user, true
}

// VenueSocket serves GET /ws/venue/:id. Only staff with access to the cafe
// may subscribe to its event stream.
func (h *Handler) VenueSocket(c *gin.Context) {
	user, ok := h.authenticate(c)
	if !ok {
		return
	}
	cafeID := c.Param("id")
	if !services.HasCafeAccess(user, cafeID) {
		c.JSON(http.StatusForbidden, utils.ErrorResponse("Access denied", "no access to this cafe"))
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error("WS", fmt.Sprintf("Upgrade failed for venue %s: %v", cafeID, err))
		return
	}

	out := newSafeConn(conn)
	h.hub.RegisterVenue(cafeID, out)
	go h.serve(conn, out, func() { h.hub.UnregisterVenue(cafeID, out) })
}

// UserSocket serves GET /ws/user/:id. A user may only subscribe to their own
// stream; superadmins may watch any.
func (h *Handler) UserSocket(c *gin.Context) {
	user, ok := h.authenticate(c)
	if !ok {
		return
	}
	userID := c.Param("id")
	if user.ID != userID && user.Role != models.RoleSuperAdmin {
		c.JSON(http.StatusForbidden, utils.ErrorResponse("Access denied", "cannot subscribe to another user's stream"))
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error("WS", fmt.Sprintf("Upgrade failed for user %s: %v", userID, err))
		return
	}

	out := newSafeConn(conn)
	h.hub.RegisterUser(userID, out)
	if user.Role == models.RoleSuperAdmin {
		h.hub.RegisterAdmin(out)
		go h.serve(conn, out, func() {
			h.hub.UnregisterUser(userID, out)
			h.hub.UnregisterAdmin(out)
		})
		return
	}
	go h.serve(conn, out, func() { h.hub.UnregisterUser(userID, out) })
}

// serve owns the connection's read loop and keepalive pings. All writes go
// through the serialized wrapper; the hub writes to it concurrently. Clients
// may send JSON control messages; a {"type":"ping"} gets a pong envelope back.
func (h *Handler) serve(conn *websocket.Conn, out *safeConn, cleanup func()) {
	defer func() {
		cleanup()
		out.Close()
	}()

	conn.SetReadLimit(4096)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := out.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	}()
	defer close(done)

	for {
		var msg map[string]interface{}
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
		conn.SetReadDeadline(time.Now().Add(pongWait))
		if msg["type"] == "ping" {
			if err := out.WriteJSON(models.Event{Type: "pong"}); err != nil {
				return
			}
		}
	}
}
