package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, s *SessionRequest) error
	GetByID(ctx context.Context, id string) (*SessionRequest, error)
	List(ctx context.Context, filter Filter) ([]*SessionRequest, int, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
	Delete(ctx context.Context, id string) error

	// FindActiveByRequester returns the requester's pending or confirmed
	// session, or ErrNotFound when none exists.
	FindActiveByRequester(ctx context.Context, requesterID string) (*SessionRequest, error)

	// FindActiveBySlot returns the active session occupying the exact
	// (provider, date, time) slot, or ErrNotFound when the slot is free.
	FindActiveBySlot(ctx context.Context, providerID, date, slotTime string) (*SessionRequest, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var sessionColumns = []string{
	"s.id", "s.requester_id", "s.requester_name", "s.requester_registration",
	"s.provider_id", "s.provider_name", "s.provider_registration", "s.provider_type",
	"s.session_date", "s.session_time", "s.mode", "s.status", "s.notes",
	"s.created_at", "s.updated_at",
}

func scanSession(row pgx.Row, dest ...any) (*SessionRequest, error) {
	var s SessionRequest
	fields := []any{
		&s.ID, &s.RequesterID, &s.RequesterName, &s.RequesterRegistration,
		&s.ProviderID, &s.ProviderName, &s.ProviderRegistration, &s.ProviderType,
		&s.Date, &s.Time, &s.Mode, &s.Status, &s.Notes,
		&s.CreatedAt, &s.UpdatedAt,
	}
	fields = append(fields, dest...)

	if err := row.Scan(fields...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan session request failed: %w", err)
	}
	return &s, nil
}

func (r *pgxRepository) Create(ctx context.Context, s *SessionRequest) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.session_requests").
		Columns(
			"requester_id", "requester_name", "requester_registration",
			"provider_id", "provider_name", "provider_registration", "provider_type",
			"session_date", "session_time", "mode", "status", "notes",
		).
		Values(
			s.RequesterID, s.RequesterName, s.RequesterRegistration,
			s.ProviderID, s.ProviderName, s.ProviderRegistration, s.ProviderType,
			s.Date, s.Time, s.Mode, s.Status, s.Notes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create session query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).
		Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt); err != nil {
		// The partial unique indexes are the authoritative, race-safe
		// conflict check. The pre-flight queries in the service are
		// advisory; a violation here means someone won the race.
		var e *pgconn.PgError
		if errors.As(err, &e) && e.Code == pgerrcode.UniqueViolation {
			if strings.Contains(e.ConstraintName, "slot") {
				return ErrSlotTaken
			}
			return ErrActiveSessionExists
		}
		return fmt.Errorf("create session request failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*SessionRequest, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(sessionColumns...).
		From("public.session_requests s").
		Where(squirrel.Eq{"s.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get session query failed: %w", err)
	}

	return scanSession(r.pool.QueryRow(ctx, query, args...))
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*SessionRequest, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	columns := append(append([]string{}, sessionColumns...), "count(*) OVER() as total_count")
	query := psql.Select(columns...).
		From("public.session_requests s")

	if filter.RequesterID != "" {
		query = query.Where(squirrel.Eq{"s.requester_id": filter.RequesterID})
	}
	if filter.ProviderID != "" {
		query = query.Where(squirrel.Eq{"s.provider_id": filter.ProviderID})
	}
	if len(filter.Statuses) > 0 {
		query = query.Where(squirrel.Eq{"s.status": filter.Statuses})
	}
	if filter.DateFrom != "" {
		query = query.Where(squirrel.GtOrEq{"s.session_date": filter.DateFrom})
	}
	if filter.DateTo != "" {
		query = query.Where(squirrel.LtOrEq{"s.session_date": filter.DateTo})
	}

	// Sorting
	orderBy := "s.session_date"
	if filter.SortBy != "" {
		orderBy = "s." + filter.SortBy
	}

	orderDir := "DESC"
	if filter.SortOrder != "" {
		orderDir = filter.SortOrder
	}

	query = query.OrderBy(orderBy+" "+orderDir, "s.session_time "+orderDir)

	// Pagination
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
		return nil, 0, fmt.Errorf("build list sessions query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list sessions failed: %w", err)
	}
	defer rows.Close()

	var sessions []*SessionRequest
	var total int

	for rows.Next() {
		s, err := scanSession(rows, &total)
		if err != nil {
			return nil, 0, err
		}
		sessions = append(sessions, s)
	}

	return sessions, total, nil
}

func (r *pgxRepository) UpdateStatus(ctx context.Context, id string, status Status) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.session_requests").
		Set("status", status).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update session status query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update session status failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Delete("public.session_requests").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete session query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete session failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) FindActiveByRequester(ctx context.Context, requesterID string) (*SessionRequest, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(sessionColumns...).
		From("public.session_requests s").
		Where(squirrel.Eq{"s.requester_id": requesterID}).
		Where(squirrel.Eq{"s.status": ActiveStatuses}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build active-by-requester query failed: %w", err)
	}

	return scanSession(r.pool.QueryRow(ctx, query, args...))
}

func (r *pgxRepository) FindActiveBySlot(ctx context.Context, providerID, date, slotTime string) (*SessionRequest, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(sessionColumns...).
		From("public.session_requests s").
		Where(squirrel.Eq{"s.provider_id": providerID}).
		Where(squirrel.Eq{"s.session_date": date}).
		Where(squirrel.Eq{"s.session_time": slotTime}).
		Where(squirrel.Eq{"s.status": ActiveStatuses}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build active-by-slot query failed: %w", err)
	}

	return scanSession(r.pool.QueryRow(ctx, query, args...))
}
