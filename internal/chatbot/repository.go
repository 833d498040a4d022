package chatbot

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	CreateCanned(ctx context.Context, cr *CannedResponse) error
	GetCanned(ctx context.Context, id string) (*CannedResponse, error)
	ListCanned(ctx context.Context) ([]*CannedResponse, error)
	UpdateCanned(ctx context.Context, cr *CannedResponse) error
	DeleteCanned(ctx context.Context, id string) error

	GetSettings(ctx context.Context) (*Settings, error)
	SaveSettings(ctx context.Context, s *Settings) error

	AppendHistory(ctx context.Context, e *HistoryEntry) error
	ListHistory(ctx context.Context, userID string, limit int) ([]*HistoryEntry, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) CreateCanned(ctx context.Context, cr *CannedResponse) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.canned_responses").
		Columns("question", "answer", "keywords").
		Values(cr.Question, cr.Answer, cr.Keywords).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create canned response query failed: %w", err)
	}

	return r.pool.QueryRow(ctx, query, args...).
		Scan(&cr.ID, &cr.CreatedAt, &cr.UpdatedAt)
}

func (r *pgxRepository) GetCanned(ctx context.Context, id string) (*CannedResponse, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("id", "question", "answer", "keywords", "created_at", "updated_at").
		From("public.canned_responses").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get canned response query failed: %w", err)
	}

	var cr CannedResponse
	err = r.pool.QueryRow(ctx, query, args...).
		Scan(&cr.ID, &cr.Question, &cr.Answer, &cr.Keywords, &cr.CreatedAt, &cr.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get canned response failed: %w", err)
	}
	return &cr, nil
}

func (r *pgxRepository) ListCanned(ctx context.Context) ([]*CannedResponse, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("id", "question", "answer", "keywords", "created_at", "updated_at").
		From("public.canned_responses").
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list canned responses query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list canned responses failed: %w", err)
	}
	defer rows.Close()

	var responses []*CannedResponse
	for rows.Next() {
		var cr CannedResponse
		if err := rows.Scan(&cr.ID, &cr.Question, &cr.Answer, &cr.Keywords, &cr.CreatedAt, &cr.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan canned response failed: %w", err)
		}
		responses = append(responses, &cr)
	}

	return responses, nil
}

func (r *pgxRepository) UpdateCanned(ctx context.Context, cr *CannedResponse) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.canned_responses").
		Set("question", cr.Question).
		Set("answer", cr.Answer).
		Set("keywords", cr.Keywords).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": cr.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update canned response query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update canned response failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) DeleteCanned(ctx context.Context, id string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Delete("public.canned_responses").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete canned response query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete canned response failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// GetSettings reads the singleton persona row. Callers get defaults when
// nothing has been saved yet.
func (r *pgxRepository) GetSettings(ctx context.Context) (*Settings, error) {
	var s Settings
	err := r.pool.QueryRow(ctx,
		"SELECT name, personality, response_style, enabled, updated_at FROM public.assistant_settings WHERE id = 1").
		Scan(&s.Name, &s.Personality, &s.ResponseStyle, &s.Enabled, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return DefaultSettings(), nil
		}
		return nil, fmt.Errorf("get assistant settings failed: %w", err)
	}
	return &s, nil
}

func (r *pgxRepository) SaveSettings(ctx context.Context, s *Settings) error {
	sql := `
		INSERT INTO public.assistant_settings (id, name, personality, response_style, enabled, updated_at)
		VALUES (1, $1, $2, $3, $4, now())
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			personality = EXCLUDED.personality,
			response_style = EXCLUDED.response_style,
			enabled = EXCLUDED.enabled,
			updated_at = now()
		RETURNING updated_at`

	return r.pool.QueryRow(ctx, sql, s.Name, s.Personality, s.ResponseStyle, s.Enabled).
		Scan(&s.UpdatedAt)
}

func (r *pgxRepository) AppendHistory(ctx context.Context, e *HistoryEntry) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.assistant_history").
		Columns("user_id", "question", "answer", "source").
		Values(e.UserID, e.Question, e.Answer, e.Source).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build append history query failed: %w", err)
	}

	return r.pool.QueryRow(ctx, query, args...).
		Scan(&e.ID, &e.CreatedAt)
}

func (r *pgxRepository) ListHistory(ctx context.Context, userID string, limit int) ([]*HistoryEntry, error) {
	if limit < 1 {
		limit = 50
	}

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("id", "user_id", "question", "answer", "source", "created_at").
		From("public.assistant_history").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list history query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list history failed: %w", err)
	}
	defer rows.Close()

	var entries []*HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Question, &e.Answer, &e.Source, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan history entry failed: %w", err)
		}
		entries = append(entries, &e)
	}

	return entries, nil
}
