package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Yug771/vishal-leadership-chatbot-backend-API/config"
	"github.com/Yug771/vishal-leadership-chatbot-backend-API/internal/domain"
	"github.com/Yug771/vishal-leadership-chatbot-backend-API/internal/gateway"
	"github.com/Yug771/vishal-leadership-chatbot-backend-API/internal/repository"
	chatbot_errors "github.com/Yug771/vishal-leadership-chatbot-backend-API/pkg/errors"
	"github.com/Yug771/vishal-leadership-chatbot-backend-API/pkg/logger"
)

const (
	DefaultHistoryLimit = 10
	MaxHistoryLimit     = 100
)

// upstreamFailureMessage is what clients see when the answer service fails.
// Details stay in the logs.
const upstreamFailureMessage = "I'm sorry, but I encountered an error while processing your question."

type ChatService struct {
	chatRepo       repository.ChatRepository
	userRepo       repository.UserRepository
	provider       gateway.Provider
	log            *logger.Logger
	gatewayTimeout time.Duration
	contextLimit   int
}

func NewChatService(chatRepo repository.ChatRepository, userRepo repository.UserRepository, provider gateway.Provider, cfg *config.Config, l *logger.Logger) *ChatService {
	return &ChatService{
		chatRepo:       chatRepo,
		userRepo:       userRepo,
		provider:       provider,
		log:            l,
		gatewayTimeout: time.Duration(cfg.GatewayTimeoutSec) * time.Second,
		contextLimit:   cfg.GatewayHistoryLimit,
	}
}

type AskResponse struct {
	Question string `json:"question"`
	Response string `json:"response"`
	ChatID   string `json:"chat_id"`
}

type HistoryResponse struct {
	ChatHistory []domain.ChatItem `json:"chat_history"`
	Total       int64             `json:"total"`
	Limit       int               `json:"limit"`
	Offset      int               `json:"offset"`
}

// Ask forwards a question to the answer gateway and records the exchange.
// Nothing is recorded when the gateway fails, so a timed-out call leaves no
// trace in the history.
func (s *ChatService) Ask(ctx context.Context, userID uuid.UUID, question string) (AskResponse, error) {
	question = sanitizeText(question)
	if question == "" {
		return AskResponse{}, chatbot_errors.Message(chatbot_errors.ErrInvalidInput, "Question is required")
	}

	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, chatbot_errors.ErrNotFound) {
			return AskResponse{}, chatbot_errors.Message(chatbot_errors.ErrNotFound, "User not found")
		}
		return AskResponse{}, err
	}

	history := s.recentExchanges(ctx, userID)

	callCtx, cancel := context.WithTimeout(ctx, s.gatewayTimeout)
	defer cancel()

	answer, err := s.provider.Ask(callCtx, question, history)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			// Client went away; nobody is waiting for a response.
			return AskResponse{}, err
		}
		if s.log != nil {
			s.log.ErrorfCtx(ctx, "answer gateway: %v", err)
		}
		if errors.Is(err, chatbot_errors.ErrUpstreamTimeout) {
			return AskResponse{}, chatbot_errors.Message(chatbot_errors.ErrUpstreamTimeout, "The answer service took too long to respond")
		}
		return AskResponse{}, chatbot_errors.Message(chatbot_errors.ErrUpstream, upstreamFailureMessage)
	}

	item := &domain.ChatItem{
		ID:        uuid.New(),
		UserID:    userID,
		Question:  question,
		Response:  answer,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.chatRepo.Create(ctx, item); err != nil {
		return AskResponse{}, err
	}

	return AskResponse{
		Question: item.Question,
		Response: item.Response,
		ChatID:   item.ID.String(),
	}, nil
}

// History returns a page of the user's exchanges, most recent first.
// Out-of-range paging values fall back to the defaults.
func (s *ChatService) History(ctx context.Context, userID uuid.UUID, limit, offset int) (HistoryResponse, error) {
	if limit < 1 || limit > MaxHistoryLimit {
		limit = DefaultHistoryLimit
	}
	if offset < 0 {
		offset = 0
	}

	items, total, err := s.chatRepo.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return HistoryResponse{}, err
	}

	return HistoryResponse{
		ChatHistory: items,
		Total:       total,
		Limit:       limit,
		Offset:      offset,
	}, nil
}

// Get returns a single exchange scoped to its owner. Items owned by other
// users are reported as missing.
func (s *ChatService) Get(ctx context.Context, userID, chatID uuid.UUID) (domain.ChatItem, error) {
	item, err := s.chatRepo.GetForUser(ctx, chatID, userID)
	if err != nil {
		if errors.Is(err, chatbot_errors.ErrNotFound) {
			return domain.ChatItem{}, chatbot_errors.Message(chatbot_errors.ErrNotFound, "Chat item not found")
		}
		return domain.ChatItem{}, err
	}
	return item, nil
}

// recentExchanges fetches the user's latest exchanges as grounding context
// for the gateway. History is best-effort: a read failure degrades to an
// uncontextualized question instead of failing the request.
func (s *ChatService) recentExchanges(ctx context.Context, userID uuid.UUID) []gateway.Exchange {
	if s.contextLimit <= 0 {
		return nil
	}

	items, _, err := s.chatRepo.ListByUser(ctx, userID, s.contextLimit, 0)
	if err != nil {
		if s.log != nil {
			s.log.WarnfCtx(ctx, "chat context unavailable: %v", err)
		}
		return nil
	}

	exchanges := make([]gateway.Exchange, 0, len(items))
	for _, item := range items {
		exchanges = append(exchanges, gateway.Exchange{
			Question: item.Question,
			Response: item.Response,
		})
	}
	return exchanges
}
