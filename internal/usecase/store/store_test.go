package store

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zono819/trading-sim/internal/domain/entity"
)

func TestCreate(t *testing.T) {
	s := New()

	o := s.Create("EURUSD", 100)

	assert.NotEmpty(t, o.ID)
	assert.Equal(t, "EURUSD", o.Symbol)
	assert.Equal(t, 100.0, o.Quantity)
	assert.Equal(t, entity.StatusPending, o.Status)
	assert.False(t, o.CreatedAt.IsZero())

	got, err := s.Get(o.ID)
	require.NoError(t, err)
	assert.Equal(t, o, got)
}

func TestCreate_PermissiveQuantity(t *testing.T) {
	// Zero and negative quantities are accepted as-is
	s := New()

	for _, qty := range []float64{0, -50, 0.0001} {
		o := s.Create("GBPUSD", qty)
		assert.Equal(t, qty, o.Quantity)
	}
}

func TestGet_NotFound(t *testing.T) {
	s := New()

	_, err := s.Get("no-such-order")
	assert.ErrorIs(t, err, entity.ErrOrderNotFound)
}

func TestList_InsertionOrder(t *testing.T) {
	s := New()

	a := s.Create("EURUSD", 1)
	b := s.Create("USDJPY", 2)
	c := s.Create("GBPUSD", 3)

	orders := s.List()
	require.Len(t, orders, 3)
	assert.Equal(t, []string{a.ID, b.ID, c.ID},
		[]string{orders[0].ID, orders[1].ID, orders[2].ID})
}

func TestList_SnapshotIsolation(t *testing.T) {
	s := New()
	o := s.Create("EURUSD", 100)

	snapshot := s.List()
	require.NoError(t, s.Cancel(o.ID))

	// The earlier snapshot must not observe the later transition
	assert.Equal(t, entity.StatusPending, snapshot[0].Status)

	got, err := s.Get(o.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusCancelled, got.Status)
}

func TestCancel(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(s *OrderStore) string
		wantErr error
		want    entity.OrderStatus
	}{
		{
			name: "pending order",
			prepare: func(s *OrderStore) string {
				return s.Create("EURUSD", 100).ID
			},
			want: entity.StatusCancelled,
		},
		{
			name: "unknown id",
			prepare: func(s *OrderStore) string {
				return "missing"
			},
			wantErr: entity.ErrOrderNotFound,
		},
		{
			name: "already cancelled",
			prepare: func(s *OrderStore) string {
				id := s.Create("EURUSD", 100).ID
				_ = s.Cancel(id)
				return id
			},
			wantErr: entity.ErrOrderNotPending,
			want:    entity.StatusCancelled,
		},
		{
			name: "already executed",
			prepare: func(s *OrderStore) string {
				id := s.Create("EURUSD", 100).ID
				s.TryExecute(id)
				return id
			},
			wantErr: entity.ErrOrderNotPending,
			want:    entity.StatusExecuted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			id := tt.prepare(s)

			err := s.Cancel(id)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			if tt.want != "" {
				got, gerr := s.Get(id)
				require.NoError(t, gerr)
				assert.Equal(t, tt.want, got.Status)
			}
		})
	}
}

func TestTryExecute(t *testing.T) {
	s := New()
	id := s.Create("EURUSD", 100).ID

	assert.True(t, s.TryExecute(id))
	// Second attempt is a no-op
	assert.False(t, s.TryExecute(id))
	// Unknown id is a no-op
	assert.False(t, s.TryExecute("missing"))

	got, err := s.Get(id)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusExecuted, got.Status)
}

func TestTryExecute_AfterCancel(t *testing.T) {
	s := New()
	id := s.Create("EURUSD", 100).ID

	require.NoError(t, s.Cancel(id))
	assert.False(t, s.TryExecute(id))

	got, err := s.Get(id)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusCancelled, got.Status)
}

// TestCancelExecuteRace hammers the cancel/execute race on the same
// order and checks that exactly one terminal transition ever wins.
func TestCancelExecuteRace(t *testing.T) {
	const iterations = 200

	for i := 0; i < iterations; i++ {
		s := New()
		id := s.Create("EURUSD", 100).ID

		var wg sync.WaitGroup
		var cancelled, executed bool

		wg.Add(2)
		go func() {
			defer wg.Done()
			cancelled = s.Cancel(id) == nil
		}()
		go func() {
			defer wg.Done()
			executed = s.TryExecute(id)
		}()
		wg.Wait()

		require.NotEqual(t, cancelled, executed,
			"exactly one of cancel/execute must win")

		got, err := s.Get(id)
		require.NoError(t, err)
		if cancelled {
			assert.Equal(t, entity.StatusCancelled, got.Status)
		} else {
			assert.Equal(t, entity.StatusExecuted, got.Status)
		}
	}
}

func TestConcurrentCreateAndList(t *testing.T) {
	s := New()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.Create("EURUSD", 1)
		}()
		go func() {
			defer wg.Done()
			_ = s.List()
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, s.Len())
}
