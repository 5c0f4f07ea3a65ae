package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nekogravitycat/facility-booking-backend/internal/zone"
)

type Repository interface {
	Create(ctx context.Context, booking *Booking) error
	// CreateMany inserts every booking or none of them.
	CreateMany(ctx context.Context, bookings []*Booking) error
	GetByID(ctx context.Context, id string) (*Booking, error)
	List(ctx context.Context, filter Filter) ([]*Booking, int, error)
	UpdateStatus(ctx context.Context, id string, status Status) error

	// ListExisting returns the non-cancelled bookings of a facility on the given dates.
	ListExisting(ctx context.Context, facilityID string, dates []time.Time) ([]zone.ExistingBooking, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

const zoneFKConstraint = "bookings_zone_id_fkey"

var bookingColumns = []string{
	"b.id", "b.zone_id", "z.name", "z.facility_id", "b.user_id", "b.booked_by",
	"b.date", "b.time_slot", "b.price", "b.status", "b.recurrence_id", "b.created_at", "b.updated_at",
}

// mapInsertError turns constraint violations into domain errors.
func mapInsertError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return ErrSlotTaken
		case pgerrcode.ForeignKeyViolation:
			if pgErr.ConstraintName == zoneFKConstraint {
				return ErrZoneNotFound
			}
		}
	}
	return fmt.Errorf("create booking failed: %w", err)
}

func insertQuery(b *Booking) (string, []interface{}, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	return psql.Insert("public.bookings").
		Columns("zone_id", "user_id", "booked_by", "date", "time_slot", "price", "status", "recurrence_id").
		Values(b.ZoneID, b.UserID, b.BookedBy, b.Date, b.TimeSlot, b.Price, b.Status, b.RecurrenceID).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
}

func (r *pgxRepository) Create(ctx context.Context, b *Booking) error {
	query, args, err := insertQuery(b)
	if err != nil {
		return fmt.Errorf("build create booking query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return mapInsertError(err)
	}
	return nil
}

func (r *pgxRepository) CreateMany(ctx context.Context, bookings []*Booking) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		for _, b := range bookings {
			query, args, err := insertQuery(b)
			if err != nil {
				return fmt.Errorf("build create booking query failed: %w", err)
			}
			if err := tx.QueryRow(ctx, query, args...).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt); err != nil {
				return mapInsertError(err)
			}
		}
		return nil
	})
}

func scanBooking(row pgx.Row, extra ...any) (*Booking, error) {
	var b Booking
	dest := []any{
		&b.ID, &b.ZoneID, &b.ZoneName, &b.FacilityID, &b.UserID, &b.BookedBy,
		&b.Date, &b.TimeSlot, &b.Price, &b.Status, &b.RecurrenceID, &b.CreatedAt, &b.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(bookingColumns...).
		From("public.bookings b").
		Join("public.zones z ON b.zone_id = z.id").
		Where(squirrel.Eq{"b.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get booking query failed: %w", err)
	}

	b, err := scanBooking(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get booking failed: %w", err)
	}
	return b, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(append(bookingColumns, "count(*) OVER() as total_count")...).
		From("public.bookings b").
		Join("public.zones z ON b.zone_id = z.id")

	if filter.UserID != "" {
		query = query.Where(squirrel.Eq{"b.user_id": filter.UserID})
	}
	if filter.ZoneID != "" {
		query = query.Where(squirrel.Eq{"b.zone_id": filter.ZoneID})
	}
	if filter.FacilityID != "" {
		query = query.Where(squirrel.Eq{"z.facility_id": filter.FacilityID})
	}
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"b.status": filter.Status})
	}
	if filter.DateFrom != nil {
		query = query.Where(squirrel.GtOrEq{"b.date": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		query = query.Where(squirrel.LtOrEq{"b.date": *filter.DateTo})
	}

	orderBy := "b.date"
	if filter.SortBy != "" {
		orderBy = "b." + filter.SortBy
	}
	orderDir := "ASC"
	if filter.SortOrder != "" {
		orderDir = filter.SortOrder
	}
	query = query.OrderBy(orderBy+" "+orderDir, "b.time_slot ASC")

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize
	query = query.Limit(uint64(filter.PageSize)).Offset(uint64(offset))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list bookings query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list bookings failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	var total int
	for rows.Next() {
		b, err := scanBooking(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan booking failed: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate bookings failed: %w", err)
	}

	return bookings, total, nil
}

func (r *pgxRepository) UpdateStatus(ctx context.Context, id string, status Status) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.bookings").
		Set("status", status).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update booking query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		// Reactivating a cancelled booking can collide with a newer one.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return ErrSlotTaken
		}
		return fmt.Errorf("update booking failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) ListExisting(ctx context.Context, facilityID string, dates []time.Time) ([]zone.ExistingBooking, error) {
	if len(dates) == 0 {
		return nil, nil
	}

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("b.id", "b.zone_id", "b.date", "b.time_slot", "b.booked_by").
		From("public.bookings b").
		Join("public.zones z ON b.zone_id = z.id").
		Where(squirrel.Eq{"z.facility_id": facilityID}).
		Where(squirrel.NotEq{"b.status": StatusCancelled}).
		Where(squirrel.Expr("b.date = ANY(?)", dates)).
		OrderBy("b.date ASC", "b.created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list existing bookings query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list existing bookings failed: %w", err)
	}
	defer rows.Close()

	var out []zone.ExistingBooking
	for rows.Next() {
		var e zone.ExistingBooking
		if err := rows.Scan(&e.ID, &e.ZoneID, &e.Date, &e.TimeSlot, &e.BookedBy); err != nil {
			return nil, fmt.Errorf("scan existing booking failed: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate existing bookings failed: %w", err)
	}
	return out, nil
}
