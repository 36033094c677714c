package services

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/Yug771/vishal-leadership-chatbot-backend-API/internal/domain"
	"github.com/Yug771/vishal-leadership-chatbot-backend-API/internal/gateway"
	chatbot_errors "github.com/Yug771/vishal-leadership-chatbot-backend-API/pkg/errors"
)

// fakeUserRepo is an in-memory UserRepository.
type fakeUserRepo struct {
	users   map[uuid.UUID]domain.User
	failAll error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]domain.User)}
}

func (f *fakeUserRepo) Create(ctx context.Context, u *domain.User) error {
	if f.failAll != nil {
		return f.failAll
	}
	f.users[u.ID] = *u
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	if f.failAll != nil {
		return domain.User{}, f.failAll
	}
	u, ok := f.users[id]
	if !ok {
		return domain.User{}, chatbot_errors.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	if f.failAll != nil {
		return domain.User{}, f.failAll
	}
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return domain.User{}, chatbot_errors.ErrNotFound
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	if f.failAll != nil {
		return domain.User{}, f.failAll
	}
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, chatbot_errors.ErrNotFound
}

// fakeChatRepo is an in-memory ChatRepository with the same ordering
// semantics as the real one.
type fakeChatRepo struct {
	items      []domain.ChatItem
	failCreate error
	failList   error
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{}
}

func (f *fakeChatRepo) Create(ctx context.Context, item *domain.ChatItem) error {
	if f.failCreate != nil {
		return f.failCreate
	}
	f.items = append(f.items, *item)
	return nil
}

func (f *fakeChatRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.ChatItem, int64, error) {
	if f.failList != nil {
		return nil, 0, f.failList
	}

	var owned []domain.ChatItem
	for _, item := range f.items {
		if item.UserID == userID {
			owned = append(owned, item)
		}
	}
	sort.Slice(owned, func(i, j int) bool {
		return owned[i].CreatedAt.After(owned[j].CreatedAt)
	})

	total := int64(len(owned))
	if offset >= len(owned) {
		return []domain.ChatItem{}, total, nil
	}
	owned = owned[offset:]
	if limit < len(owned) {
		owned = owned[:limit]
	}
	return owned, total, nil
}

func (f *fakeChatRepo) GetForUser(ctx context.Context, id, userID uuid.UUID) (domain.ChatItem, error) {
	for _, item := range f.items {
		if item.ID == id && item.UserID == userID {
			return item, nil
		}
	}
	return domain.ChatItem{}, chatbot_errors.ErrNotFound
}

// scriptedProvider returns a canned answer or error and records what it was
// asked.
type scriptedProvider struct {
	answer string
	err    error

	calls       int
	lastQ       string
	lastHistory []gateway.Exchange
	sawDeadline bool
}

func (p *scriptedProvider) Ask(ctx context.Context, question string, history []gateway.Exchange) (string, error) {
	p.calls++
	p.lastQ = question
	p.lastHistory = history
	_, p.sawDeadline = ctx.Deadline()
	if p.err != nil {
		return "", p.err
	}
	return p.answer, nil
}
