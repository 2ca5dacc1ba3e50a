package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/nekogravitycat/sports-booking/internal/availability"
	"github.com/nekogravitycat/sports-booking/internal/coach"
	"github.com/nekogravitycat/sports-booking/internal/court"
	"github.com/nekogravitycat/sports-booking/internal/equipment"
	"github.com/nekogravitycat/sports-booking/internal/interval"
	"github.com/nekogravitycat/sports-booking/internal/pkg/apperror"
	"github.com/nekogravitycat/sports-booking/internal/pricing"
)

const (
	EventCreated   = "booking.created"
	EventCancelled = "booking.cancelled"
)

// EventPublisher delivers booking events to other services.
type EventPublisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
}

// Resources groups the catalog services bookings are resolved against.
type Resources struct {
	Courts    court.Service
	Coaches   coach.Service
	Equipment equipment.Service
}

type Config struct {
	Location           *time.Location // facility time zone
	ReservationTimeout time.Duration  // upper bound for Create; zero means none
}

// ResourceRequest names what a booking wants. CoachID is optional.
type ResourceRequest struct {
	CourtID   string
	CoachID   string
	Equipment []EquipmentLine
	StartTime time.Time
	EndTime   time.Time
}

type CreateRequest struct {
	User string
	ResourceRequest
}

type ListRequest struct {
	User    string
	CourtID string
	Status  Status
	Date    *time.Time // calendar date in the facility time zone, matched on start time
}

type Service interface {
	Quote(ctx context.Context, req ResourceRequest) (*pricing.Breakdown, error)
	CheckAvailability(ctx context.Context, req ResourceRequest) (*availability.Result, error)
	Create(ctx context.Context, req CreateRequest) (*Booking, error)
	Cancel(ctx context.Context, id string) (*Booking, error)
	GetByID(ctx context.Context, id string) (*Booking, error)
	List(ctx context.Context, req ListRequest) ([]*Booking, error)
}

type service struct {
	repo      Repository
	resources Resources
	rules     pricing.Service
	engine    *pricing.Engine
	pool      *availability.Pool
	events    EventPublisher
	logger    *slog.Logger
	tracer    trace.Tracer
	loc       *time.Location
	timeout   time.Duration
}

func NewService(repo Repository, resources Resources, rules pricing.Service, events EventPublisher, logger *slog.Logger, cfg Config) Service {
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	return &service{
		repo:      repo,
		resources: resources,
		rules:     rules,
		engine:    pricing.NewEngine(loc),
		pool:      availability.NewPool(repo),
		events:    events,
		logger:    logger,
		tracer:    otel.Tracer("github.com/nekogravitycat/sports-booking/internal/booking"),
		loc:       loc,
		timeout:   cfg.ReservationTimeout,
	}
}

// resolved is a validated request with every referenced record loaded.
type resolved struct {
	court    *court.Court
	coach    *coach.Coach
	lines    []equipment.Line
	interval interval.Interval
}

func (r *resolved) poolRequest() availability.Request {
	return availability.Request{Court: r.court, Coach: r.coach, Equipment: r.lines, Interval: r.interval}
}

func (r *resolved) equipmentLines() []EquipmentLine {
	out := make([]EquipmentLine, len(r.lines))
	for i, l := range r.lines {
		out[i] = EquipmentLine{EquipmentID: l.Item.ID, Quantity: l.Quantity}
	}
	return out
}

// mergeLines sums quantities per equipment id, keeping first-seen order.
func mergeLines(lines []EquipmentLine) ([]EquipmentLine, error) {
	index := make(map[string]int, len(lines))
	var merged []EquipmentLine
	for _, l := range lines {
		if l.Quantity <= 0 {
			return nil, availability.ErrInvalidQuantity
		}
		if i, ok := index[l.EquipmentID]; ok {
			merged[i].Quantity += l.Quantity
			continue
		}
		index[l.EquipmentID] = len(merged)
		merged = append(merged, l)
	}
	return merged, nil
}

// resolve validates req and loads the court, coach and equipment concurrently.
// Missing and inactive records are both reported as not found.
func (s *service) resolve(ctx context.Context, req ResourceRequest) (*resolved, error) {
	iv, err := interval.New(req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}
	if req.CourtID == "" {
		return nil, ErrMissingCourt
	}
	lines, err := mergeLines(req.Equipment)
	if err != nil {
		return nil, err
	}

	res := &resolved{interval: iv, lines: make([]equipment.Line, len(lines))}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		c, err := s.resources.Courts.GetByID(gctx, req.CourtID)
		if err != nil {
			return err
		}
		if !c.IsActive {
			return court.ErrNotFound
		}
		res.court = c
		return nil
	})

	if req.CoachID != "" {
		g.Go(func() error {
			c, err := s.resources.Coaches.GetByID(gctx, req.CoachID)
			if err != nil {
				return err
			}
			if !c.IsActive {
				return coach.ErrNotFound
			}
			res.coach = c
			return nil
		})
	}

	for i, l := range lines {
		i, l := i, l
		g.Go(func() error {
			item, err := s.resources.Equipment.GetByID(gctx, l.EquipmentID)
			if err != nil {
				return err
			}
			if !item.IsActive {
				return equipment.ErrNotFound
			}
			res.lines[i] = equipment.Line{Item: item, Quantity: l.Quantity}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *service) price(ctx context.Context, res *resolved) (*pricing.Breakdown, error) {
	rules, err := s.rules.ActiveRules(ctx)
	if err != nil {
		return nil, err
	}
	return s.engine.Evaluate(res.court, res.interval, res.lines, res.coach, rules)
}

func (s *service) Quote(ctx context.Context, req ResourceRequest) (*pricing.Breakdown, error) {
	ctx, span := s.tracer.Start(ctx, "booking.Quote")
	defer span.End()

	res, err := s.resolve(ctx, req)
	if err != nil {
		return nil, fail(span, err)
	}
	b, err := s.price(ctx, res)
	if err != nil {
		return nil, fail(span, err)
	}
	return b, nil
}

// CheckAvailability answers without reserving anything, so a positive answer is advisory.
func (s *service) CheckAvailability(ctx context.Context, req ResourceRequest) (*availability.Result, error) {
	ctx, span := s.tracer.Start(ctx, "booking.CheckAvailability")
	defer span.End()

	res, err := s.resolve(ctx, req)
	if err != nil {
		return nil, fail(span, err)
	}
	result, err := s.pool.Check(ctx, res.poolRequest())
	if err != nil {
		return nil, fail(span, err)
	}
	return result, nil
}

// Create reserves every requested resource and stores a confirmed, priced booking,
// or stores nothing at all.
func (s *service) Create(ctx context.Context, req CreateRequest) (*Booking, error) {
	ctx, span := s.tracer.Start(ctx, "booking.Create",
		trace.WithAttributes(attribute.String("booking.court_id", req.CourtID)))
	defer span.End()

	user := strings.TrimSpace(req.User)
	if user == "" {
		return nil, fail(span, ErrEmptyUser)
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	res, err := s.resolve(ctx, req.ResourceRequest)
	if err != nil {
		return nil, fail(span, s.deadline(ctx, err))
	}

	var b *Booking
	err = s.pool.Reserve(ctx, res.poolRequest(), func(ctx context.Context) error {
		price, err := s.price(ctx, res)
		if err != nil {
			return err
		}

		b = &Booking{
			User:      user,
			CourtID:   res.court.ID,
			Equipment: res.equipmentLines(),
			StartTime: res.interval.Start,
			EndTime:   res.interval.End,
			Status:    StatusConfirmed,
			Price:     *price,
		}
		if res.coach != nil {
			id := res.coach.ID
			b.CoachID = &id
		}
		return s.repo.Create(ctx, b)
	})
	if err != nil {
		err = s.deadline(ctx, err)
		s.logReservationFailure(ctx, req, err)
		return nil, fail(span, err)
	}

	span.SetAttributes(attribute.String("booking.id", b.ID))
	s.logger.InfoContext(ctx, "booking confirmed",
		"booking_id", b.ID,
		"court_id", b.CourtID,
		"start", b.StartTime,
		"end", b.EndTime,
		"total", b.Price.Total.String(),
	)
	s.publish(ctx, EventCreated, b)
	return b, nil
}

// Cancel is idempotent: cancelling a cancelled booking succeeds without side effects.
func (s *service) Cancel(ctx context.Context, id string) (*Booking, error) {
	ctx, span := s.tracer.Start(ctx, "booking.Cancel",
		trace.WithAttributes(attribute.String("booking.id", id)))
	defer span.End()

	b, changed, err := s.repo.Cancel(ctx, id)
	if err != nil {
		return nil, fail(span, err)
	}
	if changed {
		s.logger.InfoContext(ctx, "booking cancelled", "booking_id", b.ID)
		s.publish(ctx, EventCancelled, b)
	}
	return b, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Booking, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, req ListRequest) ([]*Booking, error) {
	if req.Status != "" && !req.Status.Valid() {
		return nil, ErrInvalidStatus
	}

	filter := Filter{User: req.User, CourtID: req.CourtID, Status: req.Status}
	if req.Date != nil {
		d := *req.Date
		day := interval.Day(time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, s.loc), s.loc)
		filter.StartFrom = &day.Start
		filter.StartBefore = &day.End
	}
	return s.repo.List(ctx, filter)
}

// deadline reports an untyped failure caused by the reservation deadline as ErrTimeout.
func (s *service) deadline(ctx context.Context, err error) error {
	if apperror.KindOf(err) == "" && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", availability.ErrTimeout, err)
	}
	return err
}

func (s *service) logReservationFailure(ctx context.Context, req CreateRequest, err error) {
	attrs := []any{"court_id", req.CourtID, "start", req.StartTime, "end", req.EndTime, "error", err}
	switch apperror.KindOf(err) {
	case apperror.KindCourtConflict, apperror.KindCoachConflict, apperror.KindStockConflict, apperror.KindTimeout:
		s.logger.WarnContext(ctx, "booking rejected", attrs...)
	case "":
		s.logger.ErrorContext(ctx, "booking failed", attrs...)
	}
}

// publish is best effort; the booking is already committed.
func (s *service) publish(ctx context.Context, key string, b *Booking) {
	if err := s.events.PublishJSON(context.WithoutCancel(ctx), key, newEvent(b)); err != nil {
		s.logger.WarnContext(ctx, "publish booking event failed", "event", key, "booking_id", b.ID, "error", err)
	}
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
