package availability

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/sports-booking/internal/coach"
	"github.com/nekogravitycat/sports-booking/internal/court"
	"github.com/nekogravitycat/sports-booking/internal/equipment"
	"github.com/nekogravitycat/sports-booking/internal/interval"
	"github.com/nekogravitycat/sports-booking/internal/pkg/apperror"
)

type fakeStore struct {
	mu    sync.Mutex
	holds map[Key][]Hold
}

func newFakeStore() *fakeStore {
	return &fakeStore{holds: make(map[Key][]Hold)}
}

func (s *fakeStore) ConfirmedOverlapping(ctx context.Context, key Key, iv interval.Interval) ([]Hold, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Hold
	for _, h := range s.holds[key] {
		if h.Interval.Overlaps(iv) {
			out = append(out, h)
		}
	}
	return out, nil
}

func (s *fakeStore) Atomic(ctx context.Context, keys []Key, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (s *fakeStore) add(key Key, h Hold) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.holds[key] = append(s.holds[key], h)
}

// commitRequest records req's holds in the store, the way a booking insert would.
func (s *fakeStore) commitRequest(id string, req Request) func(context.Context) error {
	return func(ctx context.Context) error {
		if req.Court != nil {
			s.add(Key{Kind: KindCourt, ID: req.Court.ID}, Hold{BookingID: id, Interval: req.Interval, Quantity: 1})
		}
		if req.Coach != nil {
			s.add(Key{Kind: KindCoach, ID: req.Coach.ID}, Hold{BookingID: id, Interval: req.Interval, Quantity: 1})
		}
		for _, l := range req.Equipment {
			s.add(Key{Kind: KindEquipment, ID: l.Item.ID}, Hold{BookingID: id, Interval: req.Interval, Quantity: l.Quantity})
		}
		return nil
	}
}

func at(hour int) time.Time {
	return time.Date(2024, time.March, 4, hour, 0, 0, 0, time.UTC)
}

func span(t *testing.T, start, end int) interval.Interval {
	t.Helper()
	iv, err := interval.New(at(start), at(end))
	require.NoError(t, err)
	return iv
}

var (
	courtA  = &court.Court{ID: "court-a", IsActive: true}
	coachB  = &coach.Coach{ID: "coach-b", IsActive: true}
	rackets = &equipment.Equipment{ID: "rackets", TotalStock: 5}
)

func TestPool_Check(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	pool := NewPool(store)

	store.add(Key{Kind: KindCourt, ID: courtA.ID}, Hold{BookingID: "b1", Interval: span(t, 10, 11), Quantity: 1})
	store.add(Key{Kind: KindEquipment, ID: rackets.ID}, Hold{BookingID: "b2", Interval: span(t, 10, 12), Quantity: 3})

	t.Run("Overlapping court booking conflicts", func(t *testing.T) {
		res, err := pool.Check(ctx, Request{Court: courtA, Interval: span(t, 10, 12)})
		require.NoError(t, err)
		assert.False(t, res.Available)
		require.Len(t, res.Conflicts, 1)
		assert.Equal(t, KindCourt, res.Conflicts[0].Kind)
		assert.Equal(t, []string{"b1"}, res.Conflicts[0].BookingIDs)
	})

	t.Run("Touching intervals do not conflict", func(t *testing.T) {
		res, err := pool.Check(ctx, Request{Court: courtA, Interval: span(t, 11, 12)})
		require.NoError(t, err)
		assert.True(t, res.Available)
		assert.Empty(t, res.Conflicts)
	})

	t.Run("Stock is aggregated over overlapping holds", func(t *testing.T) {
		res, err := pool.Check(ctx, Request{
			Equipment: []equipment.Line{{Item: rackets, Quantity: 3}},
			Interval:  span(t, 11, 13),
		})
		require.NoError(t, err)
		assert.False(t, res.Available)
		require.Len(t, res.Conflicts, 1)
		assert.Equal(t, 3, res.Conflicts[0].Requested)
		assert.Equal(t, 2, res.Conflicts[0].Available)

		res, err = pool.Check(ctx, Request{
			Equipment: []equipment.Line{{Item: rackets, Quantity: 2}},
			Interval:  span(t, 11, 13),
		})
		require.NoError(t, err)
		assert.True(t, res.Available)
	})

	t.Run("Duplicate lines are merged", func(t *testing.T) {
		res, err := pool.Check(ctx, Request{
			Equipment: []equipment.Line{{Item: rackets, Quantity: 1}, {Item: rackets, Quantity: 2}},
			Interval:  span(t, 10, 11),
		})
		require.NoError(t, err)
		require.Len(t, res.Conflicts, 1)
		assert.Equal(t, 3, res.Conflicts[0].Requested)
	})

	t.Run("Non-positive quantity", func(t *testing.T) {
		_, err := pool.Check(ctx, Request{
			Equipment: []equipment.Line{{Item: rackets, Quantity: 0}},
			Interval:  span(t, 10, 11),
		})
		assert.ErrorIs(t, err, ErrInvalidQuantity)
	})
}

func TestPool_Reserve(t *testing.T) {
	ctx := context.Background()

	t.Run("Conflicts are reported in court, coach, equipment order", func(t *testing.T) {
		store := newFakeStore()
		pool := NewPool(store)
		store.add(Key{Kind: KindCoach, ID: coachB.ID}, Hold{BookingID: "b1", Interval: span(t, 9, 11), Quantity: 1})
		store.add(Key{Kind: KindCourt, ID: courtA.ID}, Hold{BookingID: "b2", Interval: span(t, 10, 11), Quantity: 1})

		called := false
		err := pool.Reserve(ctx, Request{Court: courtA, Coach: coachB, Interval: span(t, 10, 11)}, func(context.Context) error {
			called = true
			return nil
		})
		assert.False(t, called)
		assert.ErrorIs(t, err, ErrCourtConflict)
		assert.ErrorIs(t, err, ErrCoachConflict)
		assert.NotErrorIs(t, err, ErrStockConflict)
		assert.Equal(t, apperror.KindCourtConflict, apperror.KindOf(err))

		var conflictErr *ConflictError
		require.ErrorAs(t, err, &conflictErr)
		require.Len(t, conflictErr.Conflicts, 2)
		assert.Equal(t, KindCourt, conflictErr.Conflicts[0].Kind)
		assert.Equal(t, KindCoach, conflictErr.Conflicts[1].Kind)
	})

	t.Run("Commit errors are returned unchanged", func(t *testing.T) {
		pool := NewPool(newFakeStore())
		boom := assert.AnError
		err := pool.Reserve(ctx, Request{Court: courtA, Interval: span(t, 10, 11)}, func(context.Context) error {
			return boom
		})
		assert.ErrorIs(t, err, boom)
	})

	t.Run("Concurrent requests for one court admit exactly one", func(t *testing.T) {
		store := newFakeStore()
		pool := NewPool(store)
		req := Request{Court: courtA, Interval: span(t, 14, 16)}

		const n = 20
		var wg sync.WaitGroup
		errs := make([]error, n)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				errs[i] = pool.Reserve(ctx, req, store.commitRequest(string(rune('a'+i)), req))
			}(i)
		}
		wg.Wait()

		succeeded := 0
		for _, err := range errs {
			if err == nil {
				succeeded++
				continue
			}
			assert.ErrorIs(t, err, ErrCourtConflict)
		}
		assert.Equal(t, 1, succeeded)
	})

	t.Run("Concurrent requests never oversell stock", func(t *testing.T) {
		store := newFakeStore()
		pool := NewPool(store)
		balls := &equipment.Equipment{ID: "balls", TotalStock: 3}
		req := Request{Equipment: []equipment.Line{{Item: balls, Quantity: 1}}, Interval: span(t, 8, 9)}

		const n = 10
		var wg sync.WaitGroup
		errs := make([]error, n)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				errs[i] = pool.Reserve(ctx, req, store.commitRequest(string(rune('a'+i)), req))
			}(i)
		}
		wg.Wait()

		succeeded := 0
		for _, err := range errs {
			if err == nil {
				succeeded++
				continue
			}
			assert.ErrorIs(t, err, ErrStockConflict)
		}
		assert.Equal(t, 3, succeeded)
	})

	t.Run("Waiting past the deadline times out", func(t *testing.T) {
		pool := NewPool(newFakeStore())
		release, err := pool.locks.acquire(ctx, []Key{{Kind: KindCourt, ID: courtA.ID}})
		require.NoError(t, err)
		defer release()

		tctx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
		defer cancel()

		err = pool.Reserve(tctx, Request{Court: courtA, Interval: span(t, 10, 11)}, func(context.Context) error {
			return nil
		})
		assert.ErrorIs(t, err, ErrTimeout)
		assert.Equal(t, apperror.KindTimeout, apperror.KindOf(err))
	})

	t.Run("Invalid interval", func(t *testing.T) {
		pool := NewPool(newFakeStore())
		err := pool.Reserve(ctx, Request{Court: courtA, Interval: interval.Interval{Start: at(12), End: at(12)}}, func(context.Context) error {
			return nil
		})
		assert.ErrorIs(t, err, interval.ErrInvalidInterval)
	})
}

func TestSortKeys(t *testing.T) {
	keys := []Key{
		{Kind: KindEquipment, ID: "b"},
		{Kind: KindCourt, ID: "z"},
		{Kind: KindEquipment, ID: "a"},
		{Kind: KindCoach, ID: "m"},
	}
	SortKeys(keys)
	assert.Equal(t, []Key{
		{Kind: KindCoach, ID: "m"},
		{Kind: KindCourt, ID: "z"},
		{Kind: KindEquipment, ID: "a"},
		{Kind: KindEquipment, ID: "b"},
	}, keys)
}
