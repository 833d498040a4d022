package message

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, m *Message) error
	ListConversation(ctx context.Context, userID, peerID string, filter Filter) ([]*Message, int, error)
	ListInbox(ctx context.Context, userID string) ([]*Conversation, error)
	MarkRead(ctx context.Context, userID, peerID string) (int, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, m *Message) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.messages").
		Columns("sender_id", "sender_name", "recipient_id", "body").
		Values(m.SenderID, m.SenderName, m.RecipientID, m.Body).
		Suffix("RETURNING id, read, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create message query failed: %w", err)
	}

	return r.pool.QueryRow(ctx, query, args...).
		Scan(&m.ID, &m.Read, &m.CreatedAt)
}

func (r *pgxRepository) ListConversation(ctx context.Context, userID, peerID string, filter Filter) ([]*Message, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select("id", "sender_id", "sender_name", "recipient_id", "body", "read", "created_at", "count(*) OVER() as total_count").
		From("public.messages").
		Where(squirrel.Or{
			squirrel.And{squirrel.Eq{"sender_id": userID}, squirrel.Eq{"recipient_id": peerID}},
			squirrel.And{squirrel.Eq{"sender_id": peerID}, squirrel.Eq{"recipient_id": userID}},
		}).
		OrderBy("created_at ASC")

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 50
	}
	offset := (filter.Page - 1) * filter.PageSize
	query = query.Limit(uint64(filter.PageSize)).Offset(uint64(offset))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list conversation query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list conversation failed: %w", err)
	}
	defer rows.Close()

	var messages []*Message
	var total int

	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.SenderID, &m.SenderName, &m.RecipientID, &m.Body, &m.Read, &m.CreatedAt, &total); err != nil {
			return nil, 0, fmt.Errorf("scan message failed: %w", err)
		}
		messages = append(messages, &m)
	}

	return messages, total, nil
}

// ListInbox groups messages by conversation peer, newest thread first.
// DISTINCT ON picks the latest row per peer and forces its own peer_id
// ordering, so an outer query re-sorts the threads by recency. The unread
// count only considers messages addressed to the user.
func (r *pgxRepository) ListInbox(ctx context.Context, userID string) ([]*Conversation, error) {
	sql := `
		SELECT * FROM (
			SELECT DISTINCT ON (peer_id)
				peer_id,
				peer_name,
				body,
				created_at,
				(SELECT count(*) FROM public.messages u
					WHERE u.sender_id = t.peer_id AND u.recipient_id = $1 AND u.read = false) AS unread_count
			FROM (
				SELECT
					CASE WHEN sender_id = $1 THEN recipient_id ELSE sender_id END AS peer_id,
					CASE WHEN sender_id = $1 THEN '' ELSE sender_name END AS peer_name,
					body,
					created_at
				FROM public.messages
				WHERE sender_id = $1 OR recipient_id = $1
			) t
			ORDER BY peer_id, created_at DESC
		) latest
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, sql, userID)
	if err != nil {
		return nil, fmt.Errorf("list inbox failed: %w", err)
	}
	defer rows.Close()

	var conversations []*Conversation
	for rows.Next() {
		var c Conversation
		if err := rows.Scan(&c.PeerID, &c.PeerName, &c.LastMessage, &c.LastAt, &c.UnreadCount); err != nil {
			return nil, fmt.Errorf("scan conversation failed: %w", err)
		}
		conversations = append(conversations, &c)
	}

	return conversations, nil
}

func (r *pgxRepository) MarkRead(ctx context.Context, userID, peerID string) (int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.messages").
		Set("read", true).
		Where(squirrel.Eq{"sender_id": peerID, "recipient_id": userID, "read": false}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build mark read query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("mark read failed: %w", err)
	}
	return int(ct.RowsAffected()), nil
}
