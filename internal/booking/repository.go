package booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nekogravitycat/sports-booking/internal/availability"
	"github.com/nekogravitycat/sports-booking/internal/db"
	"github.com/nekogravitycat/sports-booking/internal/interval"
)

// Repository persists bookings and serves as the availability store, since confirmed
// bookings are the only record of what is held.
type Repository interface {
	availability.Store

	Create(ctx context.Context, b *Booking) error
	GetByID(ctx context.Context, id string) (*Booking, error)
	List(ctx context.Context, filter Filter) ([]*Booking, error)
	// Cancel moves a booking that is not yet cancelled to cancelled. It reports whether
	// the status changed; an already cancelled booking is returned unchanged.
	Cancel(ctx context.Context, id string) (*Booking, bool, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var bookingColumns = []string{
	"id", "user_name", "court_id", "coach_id", "start_time", "end_time", "status",
	"base_price", "peak_hour_fee", "weekend_fee", "indoor_fee", "equipment_fee", "coach_fee", "total",
	"created_at", "updated_at",
}

func scanBooking(row pgx.Row) (*Booking, error) {
	var b Booking
	err := row.Scan(
		&b.ID, &b.User, &b.CourtID, &b.CoachID, &b.StartTime, &b.EndTime, &b.Status,
		&b.Price.BasePrice, &b.Price.PeakHourFee, &b.Price.WeekendFee, &b.Price.IndoorFee,
		&b.Price.EquipmentFee, &b.Price.CoachFee, &b.Price.Total,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Create inserts the booking and its equipment lines in one transaction, joining the
// caller's transaction when there is one.
func (r *pgxRepository) Create(ctx context.Context, b *Booking) error {
	return db.InTx(ctx, r.pool, func(ctx context.Context) error {
		psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
		query, args, err := psql.Insert("public.bookings").
			Columns(
				"user_name", "court_id", "coach_id", "start_time", "end_time", "status",
				"base_price", "peak_hour_fee", "weekend_fee", "indoor_fee", "equipment_fee", "coach_fee", "total",
			).
			Values(
				b.User, b.CourtID, b.CoachID, b.StartTime, b.EndTime, b.Status,
				b.Price.BasePrice, b.Price.PeakHourFee, b.Price.WeekendFee, b.Price.IndoorFee,
				b.Price.EquipmentFee, b.Price.CoachFee, b.Price.Total,
			).
			Suffix("RETURNING id, created_at, updated_at").
			ToSql()
		if err != nil {
			return fmt.Errorf("build create booking query failed: %w", err)
		}

		conn := db.Conn(ctx, r.pool)
		if err := conn.QueryRow(ctx, query, args...).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return fmt.Errorf("create booking failed: %w", err)
		}

		if len(b.Equipment) == 0 {
			return nil
		}
		insert := psql.Insert("public.booking_equipment").Columns("booking_id", "equipment_id", "quantity")
		for _, l := range b.Equipment {
			insert = insert.Values(b.ID, l.EquipmentID, l.Quantity)
		}
		query, args, err = insert.ToSql()
		if err != nil {
			return fmt.Errorf("build create booking equipment query failed: %w", err)
		}
		if _, err := conn.Exec(ctx, query, args...); err != nil {
			return fmt.Errorf("create booking equipment failed: %w", err)
		}
		return nil
	})
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(bookingColumns...).
		From("public.bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get booking query failed: %w", err)
	}

	b, err := scanBooking(db.Conn(ctx, r.pool).QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get booking failed: %w", err)
	}

	if err := r.loadEquipment(ctx, []*Booking{b}); err != nil {
		return nil, err
	}
	return b, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Booking, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(bookingColumns...).From("public.bookings")

	if filter.User != "" {
		query = query.Where(squirrel.Eq{"user_name": filter.User})
	}
	if filter.CourtID != "" {
		query = query.Where(squirrel.Eq{"court_id": filter.CourtID})
	}
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"status": filter.Status})
	}
	if filter.StartFrom != nil {
		query = query.Where(squirrel.GtOrEq{"start_time": *filter.StartFrom})
	}
	if filter.StartBefore != nil {
		query = query.Where(squirrel.Lt{"start_time": *filter.StartBefore})
	}

	sql, args, err := query.OrderBy("start_time ASC", "id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list bookings query failed: %w", err)
	}

	rows, err := db.Conn(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list bookings failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking failed: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookings failed: %w", err)
	}

	if err := r.loadEquipment(ctx, bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *pgxRepository) loadEquipment(ctx context.Context, bookings []*Booking) error {
	if len(bookings) == 0 {
		return nil
	}
	byID := make(map[string]*Booking, len(bookings))
	ids := make([]string, 0, len(bookings))
	for _, b := range bookings {
		byID[b.ID] = b
		ids = append(ids, b.ID)
	}

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("booking_id", "equipment_id", "quantity").
		From("public.booking_equipment").
		Where(squirrel.Eq{"booking_id": ids}).
		OrderBy("equipment_id ASC").
		ToSql()
	if err != nil {
		return fmt.Errorf("build list booking equipment query failed: %w", err)
	}

	rows, err := db.Conn(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("list booking equipment failed: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var bookingID string
		var l EquipmentLine
		if err := rows.Scan(&bookingID, &l.EquipmentID, &l.Quantity); err != nil {
			return fmt.Errorf("scan booking equipment failed: %w", err)
		}
		if b, ok := byID[bookingID]; ok {
			b.Equipment = append(b.Equipment, l)
		}
	}
	return rows.Err()
}

func (r *pgxRepository) Cancel(ctx context.Context, id string) (*Booking, bool, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.bookings").
		Set("status", StatusCancelled).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.NotEq{"status": StatusCancelled}).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, false, fmt.Errorf("build cancel booking query failed: %w", err)
	}

	var cancelledID string
	err = db.Conn(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&cancelledID)
	changed := err == nil
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, fmt.Errorf("cancel booking failed: %w", err)
	}

	// No row updated means the booking is missing or was already cancelled.
	b, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, false, err
	}
	return b, changed, nil
}

func (r *pgxRepository) ConfirmedOverlapping(ctx context.Context, key availability.Key, iv interval.Interval) ([]availability.Hold, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	var query squirrel.SelectBuilder
	switch key.Kind {
	case availability.KindCourt:
		query = psql.Select("b.id", "b.start_time", "b.end_time", "1").
			From("public.bookings b").
			Where(squirrel.Eq{"b.court_id": key.ID})
	case availability.KindCoach:
		query = psql.Select("b.id", "b.start_time", "b.end_time", "1").
			From("public.bookings b").
			Where(squirrel.Eq{"b.coach_id": key.ID})
	case availability.KindEquipment:
		query = psql.Select("b.id", "b.start_time", "b.end_time", "be.quantity").
			From("public.booking_equipment be").
			Join("public.bookings b ON b.id = be.booking_id").
			Where(squirrel.Eq{"be.equipment_id": key.ID})
	default:
		return nil, fmt.Errorf("unknown resource kind %q", key.Kind)
	}

	// Half-open overlap: existing.start < new.end AND new.start < existing.end.
	sql, args, err := query.
		Where(squirrel.Eq{"b.status": StatusConfirmed}).
		Where(squirrel.Lt{"b.start_time": iv.End}).
		Where(squirrel.Gt{"b.end_time": iv.Start}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build overlapping holds query failed: %w", err)
	}

	rows, err := db.Conn(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list overlapping holds failed: %w", err)
	}
	defer rows.Close()

	var holds []availability.Hold
	for rows.Next() {
		var h availability.Hold
		if err := rows.Scan(&h.BookingID, &h.Interval.Start, &h.Interval.End, &h.Quantity); err != nil {
			return nil, fmt.Errorf("scan hold failed: %w", err)
		}
		holds = append(holds, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate holds failed: %w", err)
	}
	return holds, nil
}

// Atomic opens a transaction and takes a transaction-scoped advisory lock per key, in
// the order given, so concurrent reservations in other processes serialize on shared
// resources. The locks are released at commit or rollback.
func (r *pgxRepository) Atomic(ctx context.Context, keys []availability.Key, fn func(ctx context.Context) error) error {
	return db.InTx(ctx, r.pool, func(ctx context.Context) error {
		conn := db.Conn(ctx, r.pool)
		for _, k := range keys {
			if _, err := conn.Exec(ctx, "SELECT pg_advisory_xact_lock(hashtextextended($1, 0))", k.String()); err != nil {
				return fmt.Errorf("lock %s failed: %w", k, err)
			}
		}
		return fn(ctx)
	})
}
