package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Yug771/vishal-leadership-chatbot-backend-API/internal/domain"
	chatbot_errors "github.com/Yug771/vishal-leadership-chatbot-backend-API/pkg/errors"
)

type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &PostgresUserRepository{pool: pool}
}

func (r *PostgresUserRepository) Create(ctx context.Context, u *domain.User) error {
	query := `
		INSERT INTO users (id, username, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.pool.Exec(ctx, query,
		u.ID,
		u.Username,
		u.Email,
		u.PasswordHash,
		u.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			// Pre-insert checks normally catch duplicates; this covers the
			// race between check and insert.
			if strings.Contains(violatedConstraint(err), "email") {
				return chatbot_errors.Message(chatbot_errors.ErrAlreadyExists, "Email already exists")
			}
			return chatbot_errors.Message(chatbot_errors.ErrAlreadyExists, "Username already exists")
		}
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

func (r *PostgresUserRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	return r.getBy(ctx, "id = $1", id)
}

func (r *PostgresUserRepository) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	return r.getBy(ctx, "username = $1", username)
}

func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.getBy(ctx, "email = $1", email)
}

func (r *PostgresUserRepository) getBy(ctx context.Context, where string, arg any) (domain.User, error) {
	query := `
		SELECT id, username, email, password_hash, created_at
		FROM users
		WHERE ` + where

	var u domain.User
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, chatbot_errors.ErrNotFound
		}
		return domain.User{}, fmt.Errorf("get user: %w", err)
	}

	return u, nil
}
