package coach

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nekogravitycat/sports-booking/internal/db"
)

type Repository interface {
	Create(ctx context.Context, c *Coach) error
	GetByID(ctx context.Context, id string) (*Coach, error)
	List(ctx context.Context, filter Filter) ([]*Coach, int, error)
	Update(ctx context.Context, c *Coach) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var coachColumns = []string{
	"id", "name", "email", "phone", "hourly_rate", "is_active", "specialties", "bio", "created_at", "updated_at",
}

func scanCoach(row pgx.Row, extra ...any) (*Coach, error) {
	var c Coach
	dest := append([]any{
		&c.ID, &c.Name, &c.Email, &c.Phone, &c.HourlyRate, &c.IsActive, &c.Specialties, &c.Bio, &c.CreatedAt, &c.UpdatedAt,
	}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &c, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

func (r *pgxRepository) Create(ctx context.Context, c *Coach) error {
	if c.Specialties == nil {
		c.Specialties = []string{}
	}

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.coaches").
		Columns("name", "email", "phone", "hourly_rate", "is_active", "specialties", "bio").
		Values(c.Name, c.Email, c.Phone, c.HourlyRate, c.IsActive, c.Specialties, c.Bio).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create coach query failed: %w", err)
	}

	err = db.Conn(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrEmailTaken
		}
		return fmt.Errorf("create coach failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Coach, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(coachColumns...).
		From("public.coaches").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get coach query failed: %w", err)
	}

	c, err := scanCoach(db.Conn(ctx, r.pool).QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get coach failed: %w", err)
	}
	return c, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Coach, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(append(coachColumns, "count(*) OVER() AS total_count")...).
		From("public.coaches")

	if filter.ActiveOnly {
		query = query.Where(squirrel.Eq{"is_active": true})
	}
	if filter.Specialty != "" {
		query = query.Where(squirrel.Expr("? = ANY(specialties)", filter.Specialty))
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize

	sql, args, err := query.OrderBy("name ASC").
		Limit(uint64(filter.PageSize)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list coaches query failed: %w", err)
	}

	rows, err := db.Conn(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list coaches failed: %w", err)
	}
	defer rows.Close()

	var coaches []*Coach
	var total int
	for rows.Next() {
		c, err := scanCoach(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan coach failed: %w", err)
		}
		coaches = append(coaches, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate coaches failed: %w", err)
	}

	return coaches, total, nil
}

func (r *pgxRepository) Update(ctx context.Context, c *Coach) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.coaches").
		Set("name", c.Name).
		Set("email", c.Email).
		Set("phone", c.Phone).
		Set("hourly_rate", c.HourlyRate).
		Set("is_active", c.IsActive).
		Set("specialties", c.Specialties).
		Set("bio", c.Bio).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": c.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build update coach query failed: %w", err)
	}

	err = db.Conn(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&c.UpdatedAt)
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return ErrNotFound
		case isUniqueViolation(err):
			return ErrEmailTaken
		}
		return fmt.Errorf("update coach failed: %w", err)
	}
	return nil
}
