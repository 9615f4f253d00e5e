package push

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/zono819/trading-sim/internal/infrastructure/logger"
	"github.com/zono819/trading-sim/internal/usecase/hub"
	"github.com/zono819/trading-sim/internal/usecase/store"
)

// Handler upgrades /ws/orders requests and drives the per-connection
// snapshot loop. Each open connection broadcasts the full order list on
// a fixed interval, on top of the event-driven broadcasts triggered by
// mutations.
type Handler struct {
	store    *store.OrderStore
	hub      *hub.Hub
	log      *logger.Logger
	interval time.Duration
	upgrader websocket.Upgrader
}

// NewHandler creates a push handler with the given snapshot interval
func NewHandler(s *store.OrderStore, h *hub.Hub, log *logger.Logger, interval time.Duration) *Handler {
	if log == nil {
		log = logger.Default()
	}
	if interval <= 0 {
		interval = time.Second
	}
	return &Handler{
		store:    s,
		hub:      h,
		log:      log.WithField("component", "push"),
		interval: interval,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// Register mounts the push route on the router
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/ws/orders", h.serve)
}

func (h *Handler) serve(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error("websocket upgrade failed: %v", err)
		return
	}

	id := h.hub.Connect(conn)
	defer h.hub.Disconnect(id)

	// The read pump only watches for the client going away; clients
	// are not expected to send anything.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					h.log.Debug("subscriber %s read error: %v", id, err)
				}
				return
			}
		}
	}()

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	// Immediate snapshot on connect, then one per tick for as long as
	// the connection stays open. Each pass goes to all subscribers, so
	// redundant identical snapshots are expected.
	h.hub.Broadcast(h.store.List())
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			h.hub.Broadcast(h.store.List())
		}
	}
}
