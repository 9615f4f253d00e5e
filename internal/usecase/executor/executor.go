package executor

import (
	"math/rand"
	"sync"
	"time"

	"github.com/zono819/trading-sim/internal/infrastructure/logger"
	"github.com/zono819/trading-sim/internal/usecase/hub"
	"github.com/zono819/trading-sim/internal/usecase/store"
)

// DelayedExecutor simulates order execution: each scheduled order gets
// one attempt to transition PENDING->EXECUTED after a random delay.
// The timer is never cancelled; if the order was cancelled in the
// meantime the store's check-and-set makes the attempt a no-op.
type DelayedExecutor struct {
	store *store.OrderStore
	hub   *hub.Hub
	log   *logger.Logger

	minDelay time.Duration
	maxDelay time.Duration

	mu  sync.Mutex
	rng *rand.Rand
}

// New creates an executor drawing delays uniformly from [minDelay, maxDelay]
func New(s *store.OrderStore, h *hub.Hub, log *logger.Logger, minDelay, maxDelay time.Duration) *DelayedExecutor {
	if log == nil {
		log = logger.Default()
	}
	if maxDelay < minDelay {
		maxDelay = minDelay
	}
	return &DelayedExecutor{
		store:    s,
		hub:      h,
		log:      log.WithField("component", "executor"),
		minDelay: minDelay,
		maxDelay: maxDelay,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Schedule queues exactly one delayed execution attempt for the order
func (e *DelayedExecutor) Schedule(id string) {
	delay := e.delay()

	time.AfterFunc(delay, func() {
		if !e.store.TryExecute(id) {
			// Order was cancelled (or already handled); nothing to do
			return
		}
		e.log.Info("order executed: %s (after %v)", id, delay)
		e.hub.Broadcast(e.store.List())
	})
}

func (e *DelayedExecutor) delay() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	spread := e.maxDelay - e.minDelay
	if spread <= 0 {
		return e.minDelay
	}
	return e.minDelay + time.Duration(e.rng.Int63n(int64(spread)))
}
