package hub

import (
	"sync"

	"github.com/google/uuid"
	"github.com/zono819/trading-sim/internal/domain/entity"
	"github.com/zono819/trading-sim/internal/infrastructure/logger"
)

// Conn is the connection surface the hub needs from a subscriber.
// *websocket.Conn satisfies it.
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

// subscriber wraps a connection with a write lock. Gorilla connections
// support at most one concurrent writer, and broadcasts can arrive from
// several goroutines at once.
type subscriber struct {
	id   string
	conn Conn
	mu   sync.Mutex
}

func (s *subscriber) send(v interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteJSON(v)
}

// Hub tracks live push subscribers and fans out order snapshots to all
// of them. A failed send removes the subscriber after the broadcast
// pass; it never blocks delivery to the others or surfaces to the
// caller.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]*subscriber
	log  *logger.Logger
}

// New creates an empty hub
func New(log *logger.Logger) *Hub {
	if log == nil {
		log = logger.Default()
	}
	return &Hub{
		subs: make(map[string]*subscriber),
		log:  log.WithField("component", "hub"),
	}
}

// Connect registers a subscriber and returns its id
func (h *Hub) Connect(conn Conn) string {
	sub := &subscriber{id: uuid.NewString(), conn: conn}

	h.mu.Lock()
	h.subs[sub.id] = sub
	n := len(h.subs)
	h.mu.Unlock()

	h.log.Info("subscriber connected: %s (%d active)", sub.id, n)
	return sub.id
}

// Disconnect removes a subscriber and closes its connection. It is
// idempotent; removing an unknown id is a no-op.
func (h *Hub) Disconnect(id string) {
	h.mu.Lock()
	sub, ok := h.subs[id]
	if ok {
		delete(h.subs, id)
	}
	h.mu.Unlock()

	if !ok {
		return
	}
	if err := sub.conn.Close(); err != nil {
		h.log.Debug("close subscriber %s: %v", id, err)
	}
	h.log.Info("subscriber disconnected: %s", id)
}

// Broadcast sends the order snapshot to every registered subscriber.
// Subscribers whose send fails are removed after the pass completes.
func (h *Hub) Broadcast(orders []entity.Order) {
	h.mu.RLock()
	targets := make([]*subscriber, 0, len(h.subs))
	for _, sub := range h.subs {
		targets = append(targets, sub)
	}
	h.mu.RUnlock()

	var failed []string
	for _, sub := range targets {
		if err := sub.send(orders); err != nil {
			h.log.Info("send to subscriber %s failed: %v", sub.id, err)
			failed = append(failed, sub.id)
		}
	}

	for _, id := range failed {
		h.Disconnect(id)
	}
}

// Len returns the number of registered subscribers
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
