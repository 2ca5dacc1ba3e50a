package booking

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nekogravitycat/sports-booking/internal/availability"
	"github.com/nekogravitycat/sports-booking/internal/interval"
)

type memoryRepository struct {
	mu       sync.RWMutex
	bookings map[string]Booking
}

// NewMemoryRepository returns a Repository kept in process memory. Its Atomic simply
// runs fn: within one process the availability pool's lock table already serializes
// reservations on shared keys.
func NewMemoryRepository() Repository {
	return &memoryRepository{bookings: make(map[string]Booking)}
}

func cloneBooking(b Booking) *Booking {
	b.Equipment = slices.Clone(b.Equipment)
	if b.CoachID != nil {
		id := *b.CoachID
		b.CoachID = &id
	}
	return &b
}

func (r *memoryRepository) Create(ctx context.Context, b *Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	b.ID = uuid.NewString()
	b.CreatedAt = now
	b.UpdatedAt = now
	r.bookings[b.ID] = *cloneBooking(*b)
	return nil
}

func (r *memoryRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneBooking(b), nil
}

func (r *memoryRepository) List(ctx context.Context, filter Filter) ([]*Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*Booking
	for _, b := range r.bookings {
		if filter.User != "" && b.User != filter.User {
			continue
		}
		if filter.CourtID != "" && b.CourtID != filter.CourtID {
			continue
		}
		if filter.Status != "" && b.Status != filter.Status {
			continue
		}
		if filter.StartFrom != nil && b.StartTime.Before(*filter.StartFrom) {
			continue
		}
		if filter.StartBefore != nil && !b.StartTime.Before(*filter.StartBefore) {
			continue
		}
		matched = append(matched, cloneBooking(b))
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].StartTime.Equal(matched[j].StartTime) {
			return matched[i].StartTime.Before(matched[j].StartTime)
		}
		return matched[i].ID < matched[j].ID
	})
	return matched, nil
}

func (r *memoryRepository) Cancel(ctx context.Context, id string) (*Booking, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[id]
	if !ok {
		return nil, false, ErrNotFound
	}
	if b.Status == StatusCancelled {
		return cloneBooking(b), false, nil
	}
	b.Status = StatusCancelled
	b.UpdatedAt = time.Now().UTC()
	r.bookings[id] = b
	return cloneBooking(b), true, nil
}

func (r *memoryRepository) ConfirmedOverlapping(ctx context.Context, key availability.Key, iv interval.Interval) ([]availability.Hold, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var holds []availability.Hold
	for _, b := range r.bookings {
		if b.Status != StatusConfirmed {
			continue
		}
		bi := interval.Interval{Start: b.StartTime, End: b.EndTime}
		if !interval.Overlaps(bi, iv) {
			continue
		}

		switch key.Kind {
		case availability.KindCourt:
			if b.CourtID == key.ID {
				holds = append(holds, availability.Hold{BookingID: b.ID, Interval: bi, Quantity: 1})
			}
		case availability.KindCoach:
			if b.CoachID != nil && *b.CoachID == key.ID {
				holds = append(holds, availability.Hold{BookingID: b.ID, Interval: bi, Quantity: 1})
			}
		case availability.KindEquipment:
			for _, l := range b.Equipment {
				if l.EquipmentID == key.ID {
					holds = append(holds, availability.Hold{BookingID: b.ID, Interval: bi, Quantity: l.Quantity})
				}
			}
		default:
			return nil, fmt.Errorf("unknown resource kind %q", key.Kind)
		}
	}
	return holds, nil
}

func (r *memoryRepository) Atomic(ctx context.Context, keys []availability.Key, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
