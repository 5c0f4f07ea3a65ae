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
)

// Repository defines data access methods for pricing rules.
type Repository interface {
	Create(ctx context.Context, rule *PricingRule) error
	GetByID(ctx context.Context, id string) (*PricingRule, error)
	List(ctx context.Context, filter Filter) ([]*PricingRule, int, error)
	// ListActive returns the facility's active rules, highest priority first.
	ListActive(ctx context.Context, facilityID string) ([]*PricingRule, error)
	Update(ctx context.Context, rule *PricingRule) error
	Delete(ctx context.Context, id string) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var ruleColumns = []string{
	"id", "facility_id", "zone_id", "name", "priority", "is_active", "days_of_week",
	"to_char(start_time, 'HH24:MI')", "to_char(end_time, 'HH24:MI')",
	"valid_from", "valid_to", "user_groups", "discount_type", "discount_value",
	"is_exclusive", "created_at",
}

func ruleDest(rule *PricingRule) []any {
	return []any{
		&rule.ID, &rule.FacilityID, &rule.ZoneID, &rule.Name, &rule.Priority, &rule.IsActive, &rule.DaysOfWeek,
		&rule.StartTime, &rule.EndTime,
		&rule.ValidFrom, &rule.ValidTo, &rule.UserGroups, &rule.DiscountType, &rule.DiscountValue,
		&rule.IsExclusive, &rule.CreatedAt,
	}
}

func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
		if pgErr.ConstraintName == "pricing_rules_zone_id_fkey" {
			return ErrZoneNotFound
		}
		return ErrFacilityNotFound
	}
	return nil
}

func (r *pgxRepository) Create(ctx context.Context, rule *PricingRule) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.pricing_rules").
		Columns(
			"facility_id", "zone_id", "name", "priority", "is_active", "days_of_week",
			"start_time", "end_time", "valid_from", "valid_to", "user_groups",
			"discount_type", "discount_value", "is_exclusive",
		).
		Values(
			rule.FacilityID, rule.ZoneID, rule.Name, rule.Priority, rule.IsActive, rule.DaysOfWeek,
			rule.StartTime, rule.EndTime, rule.ValidFrom, rule.ValidTo, rule.UserGroups,
			rule.DiscountType, rule.DiscountValue, rule.IsExclusive,
		).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create pricing rule query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&rule.ID, &rule.CreatedAt); err != nil {
		if mapped := mapWriteError(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("create pricing rule failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*PricingRule, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(ruleColumns...).
		From("public.pricing_rules").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get pricing rule query failed: %w", err)
	}

	var rule PricingRule
	if err := r.pool.QueryRow(ctx, query, args...).Scan(ruleDest(&rule)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get pricing rule failed: %w", err)
	}
	return &rule, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*PricingRule, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(append(ruleColumns, "count(*) OVER() as total_count")...).
		From("public.pricing_rules")

	if filter.FacilityID != "" {
		query = query.Where(squirrel.Eq{"facility_id": filter.FacilityID})
	}
	if filter.ZoneID != "" {
		query = query.Where(squirrel.Eq{"zone_id": filter.ZoneID})
	}
	if filter.IsActive != nil {
		query = query.Where(squirrel.Eq{"is_active": *filter.IsActive})
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize

	sql, args, err := query.OrderBy("priority DESC", "created_at ASC").
		Limit(uint64(filter.PageSize)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list pricing rules query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list pricing rules failed: %w", err)
	}
	defer rows.Close()

	var result []*PricingRule
	var total int
	for rows.Next() {
		var rule PricingRule
		if err := rows.Scan(append(ruleDest(&rule), &total)...); err != nil {
			return nil, 0, fmt.Errorf("scan pricing rule failed: %w", err)
		}
		result = append(result, &rule)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate pricing rules failed: %w", err)
	}

	return result, total, nil
}

func (r *pgxRepository) ListActive(ctx context.Context, facilityID string) ([]*PricingRule, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(ruleColumns...).
		From("public.pricing_rules").
		Where(squirrel.Eq{"facility_id": facilityID, "is_active": true}).
		OrderBy("priority DESC", "created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list active pricing rules query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list active pricing rules failed: %w", err)
	}
	defer rows.Close()

	var result []*PricingRule
	for rows.Next() {
		var rule PricingRule
		if err := rows.Scan(ruleDest(&rule)...); err != nil {
			return nil, fmt.Errorf("scan pricing rule failed: %w", err)
		}
		result = append(result, &rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pricing rules failed: %w", err)
	}
	return result, nil
}

func (r *pgxRepository) Update(ctx context.Context, rule *PricingRule) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.pricing_rules").
		Set("zone_id", rule.ZoneID).
		Set("name", rule.Name).
		Set("priority", rule.Priority).
		Set("is_active", rule.IsActive).
		Set("days_of_week", rule.DaysOfWeek).
		Set("start_time", rule.StartTime).
		Set("end_time", rule.EndTime).
		Set("valid_from", rule.ValidFrom).
		Set("valid_to", rule.ValidTo).
		Set("user_groups", rule.UserGroups).
		Set("discount_type", rule.DiscountType).
		Set("discount_value", rule.DiscountValue).
		Set("is_exclusive", rule.IsExclusive).
		Where(squirrel.Eq{"id": rule.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update pricing rule query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		if mapped := mapWriteError(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("update pricing rule failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Delete("public.pricing_rules").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete pricing rule query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete pricing rule failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
