// Package availability decides whether courts, coaches and equipment are free over
// an interval and reserves them atomically.
package availability

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/nekogravitycat/sports-booking/internal/coach"
	"github.com/nekogravitycat/sports-booking/internal/court"
	"github.com/nekogravitycat/sports-booking/internal/equipment"
	"github.com/nekogravitycat/sports-booking/internal/interval"
	"github.com/nekogravitycat/sports-booking/internal/pkg/apperror"
)

// Hold is a confirmed booking's claim on a resource.
type Hold struct {
	BookingID string
	Interval  interval.Interval
	Quantity  int
}

// Store reads confirmed holds and provides the cross-process critical section.
type Store interface {
	// ConfirmedOverlapping returns the confirmed holds on key that overlap iv.
	ConfirmedOverlapping(ctx context.Context, key Key, iv interval.Interval) ([]Hold, error)
	// Atomic runs fn in one unit of work that excludes every other Atomic call on any of keys.
	// keys are sorted. Writes made by fn through the passed context commit or roll back together.
	Atomic(ctx context.Context, keys []Key, fn func(ctx context.Context) error) error
}

// Request is a resolved set of resources wanted over one interval.
type Request struct {
	Court     *court.Court
	Coach     *coach.Coach
	Equipment []equipment.Line
	Interval  interval.Interval
}

type Result struct {
	Available bool
	Conflicts []Conflict
}

// demand is what one resource must supply. Exclusive resources have capacity 1.
type demand struct {
	key       Key
	exclusive bool
	quantity  int
	capacity  int
}

// demands flattens the request in court, coach, equipment order, merging equipment
// lines that name the same item.
func (r Request) demands() ([]demand, error) {
	var ds []demand
	if r.Court != nil {
		ds = append(ds, demand{key: Key{Kind: KindCourt, ID: r.Court.ID}, exclusive: true, quantity: 1, capacity: 1})
	}
	if r.Coach != nil {
		ds = append(ds, demand{key: Key{Kind: KindCoach, ID: r.Coach.ID}, exclusive: true, quantity: 1, capacity: 1})
	}

	merged := make(map[string]*demand)
	var ids []string
	for _, line := range r.Equipment {
		if line.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		d, ok := merged[line.Item.ID]
		if !ok {
			d = &demand{key: Key{Kind: KindEquipment, ID: line.Item.ID}, capacity: line.Item.TotalStock}
			merged[line.Item.ID] = d
			ids = append(ids, line.Item.ID)
		}
		d.quantity += line.Quantity
	}
	sort.Strings(ids)
	for _, id := range ids {
		ds = append(ds, *merged[id])
	}
	return ds, nil
}

type Pool struct {
	store  Store
	locks  *lockTable
	tracer trace.Tracer
}

func NewPool(store Store) *Pool {
	return &Pool{
		store:  store,
		locks:  newLockTable(),
		tracer: otel.Tracer("github.com/nekogravitycat/sports-booking/internal/availability"),
	}
}

// Check reports which requested resources are taken. It takes no locks, so the answer
// may be stale by the time the caller acts on it.
func (p *Pool) Check(ctx context.Context, req Request) (*Result, error) {
	ctx, span := p.tracer.Start(ctx, "availability.Check")
	defer span.End()

	if !req.Interval.Valid() {
		return nil, interval.ErrInvalidInterval
	}
	ds, err := req.demands()
	if err != nil {
		return nil, err
	}

	conflicts, err := p.evaluate(ctx, ds, req.Interval)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("availability.conflicts", len(conflicts)))

	return &Result{Available: len(conflicts) == 0, Conflicts: conflicts}, nil
}

// Reserve claims every resource in req or none. It locks the resource keys in sorted
// order, re-checks availability inside Store.Atomic and, only if nothing conflicts,
// calls commit with the context of that atomic unit so its writes land together with
// the reservation. A ctx deadline reached while waiting yields ErrTimeout.
func (p *Pool) Reserve(ctx context.Context, req Request, commit func(ctx context.Context) error) error {
	ctx, span := p.tracer.Start(ctx, "availability.Reserve")
	defer span.End()

	err := p.reserve(ctx, req, commit)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (p *Pool) reserve(ctx context.Context, req Request, commit func(ctx context.Context) error) error {
	if !req.Interval.Valid() {
		return interval.ErrInvalidInterval
	}
	ds, err := req.demands()
	if err != nil {
		return err
	}

	keys := make([]Key, len(ds))
	for i, d := range ds {
		keys[i] = d.key
	}
	SortKeys(keys)

	release, err := p.locks.acquire(ctx, keys)
	if err != nil {
		return timeoutError(err)
	}
	defer release()

	err = p.store.Atomic(ctx, keys, func(ctx context.Context) error {
		conflicts, err := p.evaluate(ctx, ds, req.Interval)
		if err != nil {
			return err
		}
		if len(conflicts) > 0 {
			return &ConflictError{Conflicts: conflicts}
		}
		return commit(ctx)
	})
	if err != nil && apperror.KindOf(err) == "" && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return timeoutError(err)
	}
	return err
}

func (p *Pool) evaluate(ctx context.Context, ds []demand, iv interval.Interval) ([]Conflict, error) {
	var conflicts []Conflict
	for _, d := range ds {
		holds, err := p.store.ConfirmedOverlapping(ctx, d.key, iv)
		if err != nil {
			return nil, fmt.Errorf("load holds for %s failed: %w", d.key, err)
		}

		reserved := 0
		var bookingIDs []string
		for _, h := range holds {
			if !interval.Overlaps(h.Interval, iv) {
				continue
			}
			reserved += h.Quantity
			bookingIDs = append(bookingIDs, h.BookingID)
		}

		if d.exclusive {
			if len(bookingIDs) > 0 {
				conflicts = append(conflicts, Conflict{
					Kind:       d.key.Kind,
					ResourceID: d.key.ID,
					Requested:  1,
					Available:  0,
					BookingIDs: bookingIDs,
				})
			}
			continue
		}

		available := d.capacity - reserved
		if available < d.quantity {
			conflicts = append(conflicts, Conflict{
				Kind:       d.key.Kind,
				ResourceID: d.key.ID,
				Requested:  d.quantity,
				Available:  max(available, 0),
			})
		}
	}
	return conflicts, nil
}
