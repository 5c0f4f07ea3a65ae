package zone

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

// Repository defines data access methods for zones and their conflict rules.
// Zones returned by GetByID and ListByFacility are hydrated with SubZones and ConflictRules.
type Repository interface {
	Create(ctx context.Context, z *Zone) error
	GetByID(ctx context.Context, id string) (*Zone, error)
	ListByFacility(ctx context.Context, facilityID string) ([]*Zone, error)
	Update(ctx context.Context, z *Zone) error
	Delete(ctx context.Context, id string) error
	// Conflict rule methods
	CreateRule(ctx context.Context, rule *ConflictRule) error
	GetRule(ctx context.Context, id string) (*ConflictRule, error)
	DeleteRule(ctx context.Context, id string) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

const (
	parentFKConstraint  = "zones_parent_zone_id_fkey"
	bookingFKConstraint = "bookings_zone_id_fkey"
)

var zoneColumns = []string{
	"z.id", "z.facility_id", "z.name", "z.type", "z.capacity", "z.price_per_hour",
	"z.equipment", "z.accessibility", "z.is_main_zone", "z.parent_zone_id",
	"z.is_active", "z.bookable_independently", "z.created_at",
}

var ruleColumns = []string{"id", "zone_id", "conflicting_zone_id", "type", "description"}

func scanZone(row pgx.Row) (*Zone, error) {
	var z Zone
	err := row.Scan(
		&z.ID, &z.FacilityID, &z.Name, &z.Type, &z.Capacity, &z.PricePerHour,
		&z.Equipment, &z.Accessibility, &z.IsMainZone, &z.ParentZoneID,
		&z.IsActive, &z.BookableIndependently, &z.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &z, nil
}

func (r *pgxRepository) Create(ctx context.Context, z *Zone) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.zones").
		Columns(
			"facility_id", "name", "type", "capacity", "price_per_hour", "equipment", "accessibility",
			"is_main_zone", "parent_zone_id", "is_active", "bookable_independently",
		).
		Values(
			z.FacilityID, z.Name, z.Type, z.Capacity, z.PricePerHour, z.Equipment, z.Accessibility,
			z.IsMainZone, z.ParentZoneID, z.IsActive, z.BookableIndependently,
		).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create zone query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&z.ID, &z.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			if pgErr.ConstraintName == parentFKConstraint {
				return ErrInvalidHierarchy
			}
			return ErrFacilityNotFound
		}
		return fmt.Errorf("create zone failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Zone, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(zoneColumns...).
		From("public.zones z").
		Where(squirrel.Eq{"z.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get zone query failed: %w", err)
	}

	z, err := scanZone(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get zone failed: %w", err)
	}

	// Sub-zones
	subQuery, subArgs, err := psql.Select("id").
		From("public.zones").
		Where(squirrel.Eq{"parent_zone_id": id}).
		OrderBy("created_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list sub-zones query failed: %w", err)
	}
	rows, err := r.pool.Query(ctx, subQuery, subArgs...)
	if err != nil {
		return nil, fmt.Errorf("list sub-zones failed: %w", err)
	}
	subIDs, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan sub-zones failed: %w", err)
	}
	if z.IsMainZone {
		z.SubZones = subIDs
	}

	// Rules declared on this zone
	rules, err := r.listRules(ctx, squirrel.Eq{"zone_id": id})
	if err != nil {
		return nil, err
	}
	z.ConflictRules = rules

	return z, nil
}

func (r *pgxRepository) ListByFacility(ctx context.Context, facilityID string) ([]*Zone, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(zoneColumns...).
		From("public.zones z").
		Where(squirrel.Eq{"z.facility_id": facilityID}).
		OrderBy("z.is_main_zone DESC", "z.created_at ASC", "z.id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list zones query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list zones failed: %w", err)
	}
	defer rows.Close()

	var zones []*Zone
	byID := make(map[string]*Zone)
	for rows.Next() {
		z, err := scanZone(rows)
		if err != nil {
			return nil, fmt.Errorf("scan zone failed: %w", err)
		}
		zones = append(zones, z)
		byID[z.ID] = z
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate zones failed: %w", err)
	}

	// Rows are ordered by creation, so sub-zone order is stable.
	for _, z := range zones {
		if z.ParentZoneID == nil {
			continue
		}
		if parent, ok := byID[*z.ParentZoneID]; ok && parent.IsMainZone {
			parent.SubZones = append(parent.SubZones, z.ID)
		}
	}

	rules, err := r.listRules(ctx, squirrel.Expr(
		"zone_id IN (SELECT id FROM public.zones WHERE facility_id = ?)", facilityID,
	))
	if err != nil {
		return nil, err
	}
	for _, rule := range rules {
		if z, ok := byID[rule.ZoneID]; ok {
			z.ConflictRules = append(z.ConflictRules, rule)
		}
	}

	return zones, nil
}

func (r *pgxRepository) Update(ctx context.Context, z *Zone) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.zones").
		Set("name", z.Name).
		Set("type", z.Type).
		Set("capacity", z.Capacity).
		Set("price_per_hour", z.PricePerHour).
		Set("equipment", z.Equipment).
		Set("accessibility", z.Accessibility).
		Set("is_active", z.IsActive).
		Set("bookable_independently", z.BookableIndependently).
		Where(squirrel.Eq{"id": z.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update zone query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update zone failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Delete("public.zones").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete zone query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return mapDeleteError(err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// mapDeleteError translates rows still referencing a zone into domain errors.
func mapDeleteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
		switch pgErr.ConstraintName {
		case parentFKConstraint:
			return ErrHasSubZones
		case bookingFKConstraint:
			return ErrHasBookings
		}
	}
	return fmt.Errorf("delete zone failed: %w", err)
}

// ------------------------
//   Conflict rule methods
// ------------------------

func (r *pgxRepository) CreateRule(ctx context.Context, rule *ConflictRule) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.zone_conflict_rules").
		Columns("zone_id", "conflicting_zone_id", "type", "description").
		Values(rule.ZoneID, rule.ConflictingZoneID, rule.Type, rule.Description).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create conflict rule query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&rule.ID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgerrcode.UniqueViolation:
				return ErrDuplicateRule
			case pgerrcode.ForeignKeyViolation:
				return ErrNotFound
			}
		}
		return fmt.Errorf("create conflict rule failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetRule(ctx context.Context, id string) (*ConflictRule, error) {
	rules, err := r.listRules(ctx, squirrel.Eq{"id": id})
	if err != nil {
		return nil, err
	}
	if len(rules) == 0 {
		return nil, ErrRuleNotFound
	}
	return &rules[0], nil
}

func (r *pgxRepository) DeleteRule(ctx context.Context, id string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Delete("public.zone_conflict_rules").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete conflict rule query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete conflict rule failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrRuleNotFound
	}
	return nil
}

func (r *pgxRepository) listRules(ctx context.Context, where squirrel.Sqlizer) ([]ConflictRule, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(ruleColumns...).
		From("public.zone_conflict_rules").
		Where(where).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list conflict rules query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list conflict rules failed: %w", err)
	}
	defer rows.Close()

	var rules []ConflictRule
	for rows.Next() {
		var rule ConflictRule
		if err := rows.Scan(&rule.ID, &rule.ZoneID, &rule.ConflictingZoneID, &rule.Type, &rule.Description); err != nil {
			return nil, fmt.Errorf("scan conflict rule failed: %w", err)
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate conflict rules failed: %w", err)
	}
	return rules, nil
}
