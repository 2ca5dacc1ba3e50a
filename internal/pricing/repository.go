package pricing

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
	Create(ctx context.Context, r *Rule) error
	GetByID(ctx context.Context, id string) (*Rule, error)
	List(ctx context.Context, filter Filter) ([]*Rule, int, error)
	Update(ctx context.Context, r *Rule) error
	// ListActive returns every active rule, unpaginated, for price evaluation.
	ListActive(ctx context.Context) ([]*Rule, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var ruleColumns = []string{
	"id", "name", "type", "modifier_type", "modifier", "start_hour", "end_hour",
	"is_active", "description", "created_at", "updated_at",
}

func scanRule(row pgx.Row, extra ...any) (*Rule, error) {
	var r Rule
	dest := append([]any{
		&r.ID, &r.Name, &r.Type, &r.ModifierType, &r.Modifier, &r.StartHour, &r.EndHour,
		&r.IsActive, &r.Description, &r.CreatedAt, &r.UpdatedAt,
	}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &r, nil
}

// mapWriteError translates the one-active-rule-per-type index violation.
func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return ErrDuplicateActiveRule
	}
	return err
}

func (r *pgxRepository) Create(ctx context.Context, rule *Rule) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.pricing_rules").
		Columns("name", "type", "modifier_type", "modifier", "start_hour", "end_hour", "is_active", "description").
		Values(rule.Name, rule.Type, rule.ModifierType, rule.Modifier, rule.StartHour, rule.EndHour, rule.IsActive, rule.Description).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create pricing rule query failed: %w", err)
	}

	err = db.Conn(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&rule.ID, &rule.CreatedAt, &rule.UpdatedAt)
	if err != nil {
		if mapped := mapWriteError(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("create pricing rule failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Rule, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(ruleColumns...).
		From("public.pricing_rules").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get pricing rule query failed: %w", err)
	}

	rule, err := scanRule(db.Conn(ctx, r.pool).QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get pricing rule failed: %w", err)
	}
	return rule, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Rule, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(append(ruleColumns, "count(*) OVER() AS total_count")...).
		From("public.pricing_rules")

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

	sql, args, err := query.OrderBy("type ASC", "created_at ASC").
		Limit(uint64(filter.PageSize)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list pricing rules query failed: %w", err)
	}

	rows, err := db.Conn(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list pricing rules failed: %w", err)
	}
	defer rows.Close()

	var rules []*Rule
	var total int
	for rows.Next() {
		rule, err := scanRule(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan pricing rule failed: %w", err)
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate pricing rules failed: %w", err)
	}

	return rules, total, nil
}

func (r *pgxRepository) Update(ctx context.Context, rule *Rule) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.pricing_rules").
		Set("name", rule.Name).
		Set("type", rule.Type).
		Set("modifier_type", rule.ModifierType).
		Set("modifier", rule.Modifier).
		Set("start_hour", rule.StartHour).
		Set("end_hour", rule.EndHour).
		Set("is_active", rule.IsActive).
		Set("description", rule.Description).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": rule.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build update pricing rule query failed: %w", err)
	}

	err = db.Conn(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&rule.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		if mapped := mapWriteError(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("update pricing rule failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) ListActive(ctx context.Context) ([]*Rule, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(ruleColumns...).
		From("public.pricing_rules").
		Where(squirrel.Eq{"is_active": true}).
		OrderBy("type ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list active pricing rules query failed: %w", err)
	}

	rows, err := db.Conn(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list active pricing rules failed: %w", err)
	}
	defer rows.Close()

	var rules []*Rule
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, fmt.Errorf("scan pricing rule failed: %w", err)
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pricing rules failed: %w", err)
	}
	return rules, nil
}
