package store

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/zono819/trading-sim/internal/domain/entity"
)

// OrderStore owns the canonical order set. All status transitions go
// through it under a single lock, so the PENDING->terminal transition
// is atomic with respect to concurrent cancel/execute attempts.
type OrderStore struct {
	mu     sync.RWMutex
	orders map[string]*entity.Order
	seq    []string // insertion order for List
}

// New creates an empty order store
func New() *OrderStore {
	return &OrderStore{
		orders: make(map[string]*entity.Order),
	}
}

// Create inserts a new PENDING order and returns a copy of it
func (s *OrderStore) Create(symbol string, quantity float64) entity.Order {
	o := &entity.Order{
		ID:        uuid.NewString(),
		Symbol:    symbol,
		Quantity:  quantity,
		Status:    entity.StatusPending,
		CreatedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	s.orders[o.ID] = o
	s.seq = append(s.seq, o.ID)
	s.mu.Unlock()

	return *o
}

// Get returns a copy of the order with the given id
func (s *OrderStore) Get(id string) (entity.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.orders[id]
	if !ok {
		return entity.Order{}, entity.ErrOrderNotFound
	}
	return *o, nil
}

// List returns copies of all orders in insertion order. The snapshot
// reflects state at call time and is not affected by later mutations.
func (s *OrderStore) List() []entity.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]entity.Order, 0, len(s.seq))
	for _, id := range s.seq {
		out = append(out, *s.orders[id])
	}
	return out
}

// Cancel transitions a PENDING order to CANCELLED. It returns
// ErrOrderNotFound for an unknown id and ErrOrderNotPending when the
// order has already executed or been cancelled.
func (s *OrderStore) Cancel(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return entity.ErrOrderNotFound
	}
	if !o.IsPending() {
		return entity.ErrOrderNotPending
	}
	o.Status = entity.StatusCancelled
	return nil
}

// TryExecute atomically transitions a PENDING order to EXECUTED and
// reports whether the transition happened. A lost race (order already
// cancelled or executed) is a no-op, not an error.
func (s *OrderStore) TryExecute(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok || !o.IsPending() {
		return false
	}
	o.Status = entity.StatusExecuted
	return true
}

// Len returns the number of orders in the store
func (s *OrderStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.orders)
}
