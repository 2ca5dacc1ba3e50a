package equipment

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
	Create(ctx context.Context, e *Equipment) error
	GetByID(ctx context.Context, id string) (*Equipment, error)
	List(ctx context.Context, filter Filter) ([]*Equipment, int, error)
	Update(ctx context.Context, e *Equipment) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var equipmentColumns = []string{
	"id", "name", "type", "total_stock", "available_stock", "rental_price",
	"is_active", "description", "created_at", "updated_at",
}

func scanEquipment(row pgx.Row, extra ...any) (*Equipment, error) {
	var e Equipment
	dest := append([]any{
		&e.ID, &e.Name, &e.Type, &e.TotalStock, &e.AvailableStock, &e.RentalPrice,
		&e.IsActive, &e.Description, &e.CreatedAt, &e.UpdatedAt,
	}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &e, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

func (r *pgxRepository) Create(ctx context.Context, e *Equipment) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.equipment").
		Columns("name", "type", "total_stock", "available_stock", "rental_price", "is_active", "description").
		Values(e.Name, e.Type, e.TotalStock, e.AvailableStock, e.RentalPrice, e.IsActive, e.Description).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create equipment query failed: %w", err)
	}

	err = db.Conn(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrNameTaken
		}
		return fmt.Errorf("create equipment failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Equipment, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(equipmentColumns...).
		From("public.equipment").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get equipment query failed: %w", err)
	}

	e, err := scanEquipment(db.Conn(ctx, r.pool).QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get equipment failed: %w", err)
	}
	return e, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Equipment, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(append(equipmentColumns, "count(*) OVER() AS total_count")...).
		From("public.equipment")

	if filter.Type != "" {
		query = query.Where(squirrel.Eq{"type": filter.Type})
	}
	if filter.ActiveOnly {
		query = query.Where(squirrel.Eq{"is_active": true})
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
		return nil, 0, fmt.Errorf("build list equipment query failed: %w", err)
	}

	rows, err := db.Conn(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list equipment failed: %w", err)
	}
	defer rows.Close()

	var items []*Equipment
	var total int
	for rows.Next() {
		e, err := scanEquipment(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan equipment failed: %w", err)
		}
		items = append(items, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate equipment failed: %w", err)
	}

	return items, total, nil
}

func (r *pgxRepository) Update(ctx context.Context, e *Equipment) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.equipment").
		Set("name", e.Name).
		Set("type", e.Type).
		Set("total_stock", e.TotalStock).
		Set("available_stock", e.AvailableStock).
		Set("rental_price", e.RentalPrice).
		Set("is_active", e.IsActive).
		Set("description", e.Description).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": e.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build update equipment query failed: %w", err)
	}

	err = db.Conn(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&e.UpdatedAt)
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return ErrNotFound
		case isUniqueViolation(err):
			return ErrNameTaken
		}
		return fmt.Errorf("update equipment failed: %w", err)
	}
	return nil
}
