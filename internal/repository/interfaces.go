package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/Yug771/vishal-leadership-chatbot-backend-API/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (domain.User, error)
	GetByUsername(ctx context.Context, username string) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
}

type ChatRepository interface {
	Create(ctx context.Context, item *domain.ChatItem) error
	// ListByUser returns a page of the user's items, most recent first,
	// along with the user's total item count.
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.ChatItem, int64, error)
	// GetForUser fetches one item scoped to its owner. A missing row and a
	// row owned by someone else are both reported as not found.
	GetForUser(ctx context.Context, id, userID uuid.UUID) (domain.ChatItem, error)
}
