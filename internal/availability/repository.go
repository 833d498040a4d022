package availability

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

type Repository interface {
	Create(ctx context.Context, slot *Slot) error
	GetByID(ctx context.Context, id string) (*Slot, error)
	// ListForProviderRange returns the provider's slots between the two
	// dates inclusive, with booked state joined from active session
	// requests.
	ListForProviderRange(ctx context.Context, providerID, dateFrom, dateTo string) ([]*Slot, error)
	SetAvailability(ctx context.Context, id string, available bool) error
	Delete(ctx context.Context, id string) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

// Booked state comes from the left join against active session requests on
// the exact (provider, date, start time) triple.
const slotSelect = `
	SELECT
		sl.id, sl.provider_id, sl.provider_type,
		sl.slot_date, sl.start_time, sl.end_time, sl.is_available, sl.created_at,
		COALESCE(sr.requester_id, ''), COALESCE(sr.requester_name, '')
	FROM public.provider_slots sl
	LEFT JOIN public.session_requests sr
		ON sr.provider_id = sl.provider_id
		AND sr.session_date = sl.slot_date
		AND sr.session_time = sl.start_time
		AND sr.status IN ('pending', 'confirmed')
`

func (r *pgxRepository) Create(ctx context.Context, slot *Slot) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.provider_slots").
		Columns("provider_id", "provider_type", "slot_date", "start_time", "end_time", "is_available").
		Values(slot.ProviderID, slot.ProviderType, slot.Date, slot.StartTime, slot.EndTime, slot.IsAvailable).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create slot query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&slot.ID, &slot.CreatedAt); err != nil {
		var e *pgconn.PgError
		if errors.As(err, &e) && e.Code == pgerrcode.UniqueViolation {
			return ErrSlotExists
		}
		return fmt.Errorf("create slot failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Slot, error) {
	row := r.pool.QueryRow(ctx, slotSelect+` WHERE sl.id = $1`, id)
	return scanSlot(row)
}

func (r *pgxRepository) ListForProviderRange(ctx context.Context, providerID, dateFrom, dateTo string) ([]*Slot, error) {
	query := slotSelect + `
		WHERE sl.provider_id = $1 AND sl.slot_date >= $2 AND sl.slot_date <= $3
		ORDER BY sl.slot_date, sl.start_time
	`

	rows, err := r.pool.Query(ctx, query, providerID, dateFrom, dateTo)
	if err != nil {
		return nil, fmt.Errorf("list slots failed: %w", err)
	}
	defer rows.Close()

	var slots []*Slot
	for rows.Next() {
		s, err := scanSlot(rows)
		if err != nil {
			return nil, err
		}
		slots = append(slots, s)
	}
	return slots, nil
}

func (r *pgxRepository) SetAvailability(ctx context.Context, id string, available bool) error {
	const query = `
		UPDATE public.provider_slots
		SET is_available = $1
		WHERE id = $2
	`

	ct, err := r.pool.Exec(ctx, query, available, id)
	if err != nil {
		return fmt.Errorf("set slot availability failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM public.provider_slots WHERE id = $1`

	ct, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete slot failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanSlot(row pgx.Row) (*Slot, error) {
	var s Slot
	if err := row.Scan(
		&s.ID, &s.ProviderID, &s.ProviderType,
		&s.Date, &s.StartTime, &s.EndTime, &s.IsAvailable, &s.CreatedAt,
		&s.BookedByID, &s.BookedByName,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan slot failed: %w", err)
	}
	return &s, nil
}
