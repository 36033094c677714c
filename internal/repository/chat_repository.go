package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Yug771/vishal-leadership-chatbot-backend-API/internal/domain"
	chatbot_errors "github.com/Yug771/vishal-leadership-chatbot-backend-API/pkg/errors"
)

type PostgresChatRepository struct {
	pool *pgxpool.Pool
}

func NewChatRepository(pool *pgxpool.Pool) ChatRepository {
	return &PostgresChatRepository{pool: pool}
}

func (r *PostgresChatRepository) Create(ctx context.Context, item *domain.ChatItem) error {
	query := `
		INSERT INTO chat_history (id, user_id, question, response, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.pool.Exec(ctx, query,
		item.ID,
		item.UserID,
		item.Question,
		item.Response,
		item.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create chat item: %w", err)
	}

	return nil
}

func (r *PostgresChatRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.ChatItem, int64, error) {
	var total int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM chat_history WHERE user_id = $1`, userID).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count chat items: %w", err)
	}

	query := `
		SELECT id, user_id, question, response, created_at
		FROM chat_history
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list chat items: %w", err)
	}
	defer rows.Close()

	items := make([]domain.ChatItem, 0, limit)
	for rows.Next() {
		var item domain.ChatItem
		if err := rows.Scan(&item.ID, &item.UserID, &item.Question, &item.Response, &item.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan chat item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate chat items: %w", err)
	}

	return items, total, nil
}

func (r *PostgresChatRepository) GetForUser(ctx context.Context, id, userID uuid.UUID) (domain.ChatItem, error) {
	// Scoping by user_id makes foreign rows indistinguishable from missing
	// ones, so ownership never leaks through the error.
	query := `
		SELECT id, user_id, question, response, created_at
		FROM chat_history
		WHERE id = $1 AND user_id = $2
	`

	var item domain.ChatItem
	err := r.pool.QueryRow(ctx, query, id, userID).Scan(
		&item.ID,
		&item.UserID,
		&item.Question,
		&item.Response,
		&item.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ChatItem{}, chatbot_errors.ErrNotFound
		}
		return domain.ChatItem{}, fmt.Errorf("get chat item: %w", err)
	}

	return item, nil
}
