package emergency

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, ls *LocationShare) error
	GetByID(ctx context.Context, id string) (*LocationShare, error)
	List(ctx context.Context, filter Filter) ([]*LocationShare, int, error)
	Delete(ctx context.Context, id string) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, ls *LocationShare) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.location_shares").
		Columns("user_id", "user_name", "latitude", "longitude", "address", "note").
		Values(ls.UserID, ls.UserName, ls.Latitude, ls.Longitude, ls.Address, ls.Note).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create location share query failed: %w", err)
	}

	return r.pool.QueryRow(ctx, query, args...).
		Scan(&ls.ID, &ls.CreatedAt)
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*LocationShare, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("id", "user_id", "user_name", "latitude", "longitude", "address", "note", "created_at").
		From("public.location_shares").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get location share query failed: %w", err)
	}

	var ls LocationShare
	err = r.pool.QueryRow(ctx, query, args...).
		Scan(&ls.ID, &ls.UserID, &ls.UserName, &ls.Latitude, &ls.Longitude, &ls.Address, &ls.Note, &ls.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get location share failed: %w", err)
	}
	return &ls, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*LocationShare, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select("id", "user_id", "user_name", "latitude", "longitude", "address", "note", "created_at", "count(*) OVER() as total_count").
		From("public.location_shares")

	if filter.UserID != "" {
		query = query.Where(squirrel.Eq{"user_id": filter.UserID})
	}
	if !filter.Since.IsZero() {
		query = query.Where(squirrel.GtOrEq{"created_at": filter.Since})
	}

	query = query.OrderBy("created_at DESC")

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
		return nil, 0, fmt.Errorf("build list location shares query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list location shares failed: %w", err)
	}
	defer rows.Close()

	var shares []*LocationShare
	var total int

	for rows.Next() {
		var ls LocationShare
		if err := rows.Scan(&ls.ID, &ls.UserID, &ls.UserName, &ls.Latitude, &ls.Longitude, &ls.Address, &ls.Note, &ls.CreatedAt, &total); err != nil {
			return nil, 0, fmt.Errorf("scan location share failed: %w", err)
		}
		shares = append(shares, &ls)
	}

	return shares, total, nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Delete("public.location_shares").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete location share query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete location share failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
