package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Yug771/vishal-leadership-chatbot-backend-API/config"
	"github.com/Yug771/vishal-leadership-chatbot-backend-API/internal/domain"
	"github.com/Yug771/vishal-leadership-chatbot-backend-API/internal/gateway"
	"github.com/Yug771/vishal-leadership-chatbot-backend-API/internal/handler"
	"github.com/Yug771/vishal-leadership-chatbot-backend-API/internal/server"
	"github.com/Yug771/vishal-leadership-chatbot-backend-API/internal/services"
	"github.com/Yug771/vishal-leadership-chatbot-backend-API/internal/token"
	chatbot_errors "github.com/Yug771/vishal-leadership-chatbot-backend-API/pkg/errors"
)

// The tests below drive the real router, so every request passes through the
// same middleware chain as production traffic. Only the repositories and the
// answer provider are replaced with in-memory stand-ins.

type memUserRepo struct {
	users map[uuid.UUID]domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[uuid.UUID]domain.User)}
}

func (m *memUserRepo) Create(ctx context.Context, u *domain.User) error {
	m.users[u.ID] = *u
	return nil
}

func (m *memUserRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	u, ok := m.users[id]
	if !ok {
		return domain.User{}, chatbot_errors.ErrNotFound
	}
	return u, nil
}

func (m *memUserRepo) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return domain.User{}, chatbot_errors.ErrNotFound
}

func (m *memUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, chatbot_errors.ErrNotFound
}

type memChatRepo struct {
	items []domain.ChatItem
}

func newMemChatRepo() *memChatRepo {
	return &memChatRepo{}
}

func (m *memChatRepo) Create(ctx context.Context, item *domain.ChatItem) error {
	m.items = append(m.items, *item)
	return nil
}

func (m *memChatRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.ChatItem, int64, error) {
	var mine []domain.ChatItem
	for _, item := range m.items {
		if item.UserID == userID {
			mine = append(mine, item)
		}
	}
	sort.Slice(mine, func(i, j int) bool { return mine[i].CreatedAt.After(mine[j].CreatedAt) })

	total := int64(len(mine))
	if offset >= len(mine) {
		return nil, total, nil
	}
	mine = mine[offset:]
	if limit < len(mine) {
		mine = mine[:limit]
	}
	return mine, total, nil
}

func (m *memChatRepo) GetForUser(ctx context.Context, id, userID uuid.UUID) (domain.ChatItem, error) {
	for _, item := range m.items {
		if item.ID == id && item.UserID == userID {
			return item, nil
		}
	}
	return domain.ChatItem{}, chatbot_errors.ErrNotFound
}

type stubProvider struct {
	answer string
	err    error
	lastQ  string
	calls  int
}

func (p *stubProvider) Ask(ctx context.Context, question string, history []gateway.Exchange) (string, error) {
	p.calls++
	p.lastQ = question
	if p.err != nil {
		return "", p.err
	}
	return p.answer, nil
}

type testAPI struct {
	engine   http.Handler
	users    *memUserRepo
	chats    *memChatRepo
	provider *stubProvider
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	cfg := &config.Config{
		AppPort:              "0",
		AppMode:              server.TestMode,
		CORSAllowOrigin:      "*",
		JWTSecret:            "handler-test-secret",
		JWTAccessExpiryMin:   15,
		JWTRefreshExpiryDays: 7,
		GatewayTimeoutSec:    5,
		GatewayHistoryLimit:  6,
	}

	users := newMemUserRepo()
	chats := newMemChatRepo()
	provider := &stubProvider{answer: "Leadership is influence. [Week 1: Foundations]"}

	authService := services.NewAuthService(users, token.NewService(cfg))
	chatService := services.NewChatService(chats, users, provider, cfg, nil)

	srv := server.New(cfg, nil)
	srv.SetupRoutes(&server.Handlers{
		Auth: handler.NewAuthHandler(authService),
		Chat: handler.NewChatHandler(chatService),
	}, authService, nil, nil)

	return &testAPI{engine: srv.Engine(), users: users, chats: chats, provider: provider}
}

func (api *testAPI) do(t *testing.T, method, path string, body any, accessToken string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	rec := httptest.NewRecorder()
	api.engine.ServeHTTP(rec, req)
	return rec
}

func (api *testAPI) doRaw(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	api.engine.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Code    string          `json:"code"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), "body: %s", rec.Body.String())
	return env
}

func dataAs[T any](t *testing.T, env envelope) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

func (api *testAPI) signup(t *testing.T, username, email, password string) {
	t.Helper()
	rec := api.do(t, http.MethodPost, "/api/signup", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code, "body: %s", rec.Body.String())
}

func (api *testAPI) login(t *testing.T, username, password string) services.AuthResponse {
	t.Helper()
	rec := api.do(t, http.MethodPost, "/api/login", map[string]string{
		"username": username,
		"password": password,
	}, "")
	require.Equal(t, http.StatusOK, rec.Code, "body: %s", rec.Body.String())
	return dataAs[services.AuthResponse](t, decode(t, rec))
}

func TestPing(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodGet, "/ping", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	env := decode(t, rec)
	require.True(t, env.Success)
	data := dataAs[map[string]string](t, env)
	require.Equal(t, "pong", data["message"])
}

func TestSignupCreatesUser(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/api/signup", map[string]string{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "Str0ng!pass",
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code, "body: %s", rec.Body.String())

	env := decode(t, rec)
	require.True(t, env.Success)

	data := dataAs[struct {
		Message string            `json:"message"`
		User    services.UserInfo `json:"user"`
	}](t, env)
	require.Equal(t, "User created successfully", data.Message)
	require.Equal(t, "alice", data.User.Username)
	require.Equal(t, "alice@example.com", data.User.Email)

	id, err := uuid.Parse(data.User.ID)
	require.NoError(t, err)
	require.Contains(t, api.users.users, id)

	// The password must never appear on the wire, hashed or otherwise.
	require.NotContains(t, rec.Body.String(), "password")
	require.NotContains(t, rec.Body.String(), "Str0ng!pass")
}

func TestSignupDuplicateUsername(t *testing.T) {
	api := newTestAPI(t)
	api.signup(t, "alice", "alice@example.com", "Str0ng!pass")

	rec := api.do(t, http.MethodPost, "/api/signup", map[string]string{
		"username": "alice",
		"email":    "other@example.com",
		"password": "Str0ng!pass",
	}, "")
	require.Equal(t, http.StatusConflict, rec.Code)

	env := decode(t, rec)
	require.False(t, env.Success)
	require.Equal(t, "Username already exists", env.Error)
	require.Equal(t, "CONFLICT", env.Code)
}

func TestSignupRejectsBadBody(t *testing.T) {
	api := newTestAPI(t)

	// Truncated JSON.
	rec := api.doRaw(t, http.MethodPost, "/api/signup", `{"username": "alice"`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	env := decode(t, rec)
	require.Equal(t, "invalid request", env.Error)
	require.Equal(t, "INVALID_REQUEST", env.Code)

	// Missing required fields.
	rec = api.do(t, http.MethodPost, "/api/signup", map[string]string{"username": "alice"}, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "INVALID_REQUEST", decode(t, rec).Code)
}

func TestSignupRejectsWeakPassword(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/api/signup", map[string]string{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "Short1!",
	}, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	env := decode(t, rec)
	require.Equal(t, "Password must be at least 8 characters long.", env.Error)
	require.Equal(t, "INVALID_REQUEST", env.Code)
}

func TestLoginReturnsTokenPair(t *testing.T) {
	api := newTestAPI(t)
	api.signup(t, "alice", "alice@example.com", "Str0ng!pass")

	res := api.login(t, "alice", "Str0ng!pass")
	require.NotEmpty(t, res.AccessToken)
	require.NotEmpty(t, res.RefreshToken)
	require.NotEqual(t, res.AccessToken, res.RefreshToken)
	require.Equal(t, "alice", res.User.Username)
}

func TestLoginWrongPassword(t *testing.T) {
	api := newTestAPI(t)
	api.signup(t, "alice", "alice@example.com", "Str0ng!pass")

	rec := api.do(t, http.MethodPost, "/api/login", map[string]string{
		"username": "alice",
		"password": "Wr0ng!pass",
	}, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	env := decode(t, rec)
	require.Equal(t, "Invalid credentials", env.Error)
	require.Equal(t, "UNAUTHORIZED", env.Code)
}

// An unknown username must be indistinguishable from a wrong password.
func TestLoginUnknownUser(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/api/login", map[string]string{
		"username": "nobody",
		"password": "Str0ng!pass",
	}, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "Invalid credentials", decode(t, rec).Error)
}

func TestRefreshMintsUsableAccessToken(t *testing.T) {
	api := newTestAPI(t)
	api.signup(t, "alice", "alice@example.com", "Str0ng!pass")
	res := api.login(t, "alice", "Str0ng!pass")

	rec := api.do(t, http.MethodPost, "/api/refresh", map[string]string{
		"refresh_token": res.RefreshToken,
	}, "")
	require.Equal(t, http.StatusOK, rec.Code, "body: %s", rec.Body.String())

	data := dataAs[struct {
		AccessToken string `json:"access_token"`
	}](t, decode(t, rec))
	require.NotEmpty(t, data.AccessToken)

	// The minted token must work against a protected endpoint.
	me := api.do(t, http.MethodGet, "/api/me", nil, data.AccessToken)
	require.Equal(t, http.StatusOK, me.Code)
}

// An access token is not a refresh token, even though both are signed by us.
func TestRefreshRejectsAccessToken(t *testing.T) {
	api := newTestAPI(t)
	api.signup(t, "alice", "alice@example.com", "Str0ng!pass")
	res := api.login(t, "alice", "Str0ng!pass")

	rec := api.do(t, http.MethodPost, "/api/refresh", map[string]string{
		"refresh_token": res.AccessToken,
	}, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "UNAUTHORIZED", decode(t, rec).Code)
}

func TestRefreshRequiresBody(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/api/refresh", map[string]string{}, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "INVALID_REQUEST", decode(t, rec).Code)
}

func TestMeReturnsProfile(t *testing.T) {
	api := newTestAPI(t)
	api.signup(t, "alice", "alice@example.com", "Str0ng!pass")
	res := api.login(t, "alice", "Str0ng!pass")

	rec := api.do(t, http.MethodGet, "/api/me", nil, res.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code)

	data := dataAs[struct {
		User services.UserInfo `json:"user"`
	}](t, decode(t, rec))
	require.Equal(t, "alice", data.User.Username)
	require.Equal(t, "alice@example.com", data.User.Email)
	require.Equal(t, res.User.ID, data.User.ID)
}

func TestProtectedEndpointsRejectBadTokens(t *testing.T) {
	api := newTestAPI(t)
	api.signup(t, "alice", "alice@example.com", "Str0ng!pass")
	res := api.login(t, "alice", "Str0ng!pass")

	tests := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"empty bearer", "Bearer "},
		{"wrong scheme", "Basic " + res.AccessToken},
		{"garbage token", "Bearer not-a-jwt"},
		{"refresh used as access", "Bearer " + res.RefreshToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			api.engine.ServeHTTP(rec, req)

			require.Equal(t, http.StatusUnauthorized, rec.Code)
			env := decode(t, rec)
			require.False(t, env.Success)
			require.Equal(t, "UNAUTHORIZED", env.Code)
		})
	}
}

func TestAskQuestionReturnsAnswer(t *testing.T) {
	api := newTestAPI(t)
	api.signup(t, "alice", "alice@example.com", "Str0ng!pass")
	res := api.login(t, "alice", "Str0ng!pass")

	rec := api.do(t, http.MethodPost, "/api/ask-question", map[string]string{
		"question": "What is leadership?",
	}, res.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code, "body: %s", rec.Body.String())

	data := dataAs[services.AskResponse](t, decode(t, rec))
	require.Equal(t, "What is leadership?", data.Question)
	require.Equal(t, api.provider.answer, data.Response)
	require.Equal(t, "What is leadership?", api.provider.lastQ)

	// The exchange is in the store under the id the client was given.
	id, err := uuid.Parse(data.ChatID)
	require.NoError(t, err)
	require.Len(t, api.chats.items, 1)
	require.Equal(t, id, api.chats.items[0].ID)
}

func TestAskQuestionRequiresAuth(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/api/ask-question", map[string]string{
		"question": "What is leadership?",
	}, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Zero(t, api.provider.calls)
}

func TestAskQuestionValidation(t *testing.T) {
	api := newTestAPI(t)
	api.signup(t, "alice", "alice@example.com", "Str0ng!pass")
	res := api.login(t, "alice", "Str0ng!pass")

	// Absent question fails binding.
	rec := api.do(t, http.MethodPost, "/api/ask-question", map[string]string{}, res.AccessToken)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "INVALID_REQUEST", decode(t, rec).Code)

	// Whitespace passes binding but sanitizes to nothing.
	rec = api.do(t, http.MethodPost, "/api/ask-question", map[string]string{
		"question": "   ",
	}, res.AccessToken)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Question is required", decode(t, rec).Error)

	require.Zero(t, api.provider.calls)
	require.Empty(t, api.chats.items)
}

func TestAskQuestionUpstreamFailure(t *testing.T) {
	api := newTestAPI(t)
	api.signup(t, "alice", "alice@example.com", "Str0ng!pass")
	res := api.login(t, "alice", "Str0ng!pass")

	api.provider.err = fmt.Errorf("index query failed: %w", chatbot_errors.ErrUpstream)

	rec := api.do(t, http.MethodPost, "/api/ask-question", map[string]string{
		"question": "What is leadership?",
	}, res.AccessToken)
	require.Equal(t, http.StatusBadGateway, rec.Code)

	env := decode(t, rec)
	require.False(t, env.Success)
	require.Equal(t, "I'm sorry, but I encountered an error while processing your question.", env.Error)
	require.Equal(t, "UPSTREAM_ERROR", env.Code)
	require.Empty(t, api.chats.items)
}

func TestAskQuestionUpstreamTimeout(t *testing.T) {
	api := newTestAPI(t)
	api.signup(t, "alice", "alice@example.com", "Str0ng!pass")
	res := api.login(t, "alice", "Str0ng!pass")

	api.provider.err = fmt.Errorf("gateway: %w", chatbot_errors.ErrUpstreamTimeout)

	rec := api.do(t, http.MethodPost, "/api/ask-question", map[string]string{
		"question": "What is leadership?",
	}, res.AccessToken)
	require.Equal(t, http.StatusGatewayTimeout, rec.Code)

	env := decode(t, rec)
	require.Equal(t, "The answer service took too long to respond", env.Error)
	require.Equal(t, "UPSTREAM_TIMEOUT", env.Code)
	require.Empty(t, api.chats.items)
}

func TestChatHistoryPaging(t *testing.T) {
	api := newTestAPI(t)
	api.signup(t, "alice", "alice@example.com", "Str0ng!pass")
	res := api.login(t, "alice", "Str0ng!pass")

	for i := 1; i <= 3; i++ {
		rec := api.do(t, http.MethodPost, "/api/ask-question", map[string]string{
			"question": fmt.Sprintf("question %d", i),
		}, res.AccessToken)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	// Defaults apply when no query parameters are sent.
	rec := api.do(t, http.MethodGet, "/api/chat-history", nil, res.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code)

	page := dataAs[services.HistoryResponse](t, decode(t, rec))
	require.Equal(t, int64(3), page.Total)
	require.Equal(t, 10, page.Limit)
	require.Equal(t, 0, page.Offset)
	require.Len(t, page.ChatHistory, 3)
	require.Equal(t, "question 3", page.ChatHistory[0].Question)

	// An explicit window.
	rec = api.do(t, http.MethodGet, "/api/chat-history?limit=2&offset=2", nil, res.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code)

	page = dataAs[services.HistoryResponse](t, decode(t, rec))
	require.Equal(t, int64(3), page.Total)
	require.Equal(t, 2, page.Limit)
	require.Equal(t, 2, page.Offset)
	require.Len(t, page.ChatHistory, 1)
	require.Equal(t, "question 1", page.ChatHistory[0].Question)
}

func TestChatHistoryRejectsBadQuery(t *testing.T) {
	api := newTestAPI(t)
	api.signup(t, "alice", "alice@example.com", "Str0ng!pass")
	res := api.login(t, "alice", "Str0ng!pass")

	rec := api.do(t, http.MethodGet, "/api/chat-history?limit=abc", nil, res.AccessToken)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "INVALID_REQUEST", decode(t, rec).Code)
}

func TestChatHistoryIsPerUser(t *testing.T) {
	api := newTestAPI(t)
	api.signup(t, "alice", "alice@example.com", "Str0ng!pass")
	api.signup(t, "bob", "bob@example.com", "Str0ng!pass")
	alice := api.login(t, "alice", "Str0ng!pass")
	bob := api.login(t, "bob", "Str0ng!pass")

	rec := api.do(t, http.MethodPost, "/api/ask-question", map[string]string{
		"question": "alice's question",
	}, alice.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(t, http.MethodGet, "/api/chat-history", nil, bob.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code)

	page := dataAs[services.HistoryResponse](t, decode(t, rec))
	require.Equal(t, int64(0), page.Total)
	require.Empty(t, page.ChatHistory)
}

func TestGetChatItem(t *testing.T) {
	api := newTestAPI(t)
	api.signup(t, "alice", "alice@example.com", "Str0ng!pass")
	res := api.login(t, "alice", "Str0ng!pass")

	rec := api.do(t, http.MethodPost, "/api/ask-question", map[string]string{
		"question": "What is leadership?",
	}, res.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code)
	asked := dataAs[services.AskResponse](t, decode(t, rec))

	rec = api.do(t, http.MethodGet, "/api/chat-history/"+asked.ChatID, nil, res.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code)

	data := dataAs[struct {
		Chat domain.ChatItem `json:"chat"`
	}](t, decode(t, rec))
	require.Equal(t, asked.ChatID, data.Chat.ID.String())
	require.Equal(t, "What is leadership?", data.Chat.Question)
	require.Equal(t, api.provider.answer, data.Chat.Response)
	require.False(t, data.Chat.CreatedAt.IsZero())
}

// Someone else's item and a nonexistent item answer identically.
func TestGetChatItemOwnership(t *testing.T) {
	api := newTestAPI(t)
	api.signup(t, "alice", "alice@example.com", "Str0ng!pass")
	api.signup(t, "bob", "bob@example.com", "Str0ng!pass")
	alice := api.login(t, "alice", "Str0ng!pass")
	bob := api.login(t, "bob", "Str0ng!pass")

	rec := api.do(t, http.MethodPost, "/api/ask-question", map[string]string{
		"question": "alice's question",
	}, alice.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code)
	asked := dataAs[services.AskResponse](t, decode(t, rec))

	rec = api.do(t, http.MethodGet, "/api/chat-history/"+asked.ChatID, nil, bob.AccessToken)
	require.Equal(t, http.StatusNotFound, rec.Code)

	env := decode(t, rec)
	require.Equal(t, "Chat item not found", env.Error)
	require.Equal(t, "NOT_FOUND", env.Code)
}

func TestGetChatItemMalformedID(t *testing.T) {
	api := newTestAPI(t)
	api.signup(t, "alice", "alice@example.com", "Str0ng!pass")
	res := api.login(t, "alice", "Str0ng!pass")

	for _, id := range []string{"123", "not-a-uuid"} {
		rec := api.do(t, http.MethodGet, "/api/chat-history/"+id, nil, res.AccessToken)
		require.Equal(t, http.StatusNotFound, rec.Code, "id %q", id)
		require.Equal(t, "Chat item not found", decode(t, rec).Error)
	}
}

// Responses carry a request id so a client error report can be matched to a
// log line.
func TestResponsesCarryRequestID(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodGet, "/ping", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestPanicReturnsStructuredError(t *testing.T) {
	api := newTestAPI(t)

	engine, ok := api.engine.(*gin.Engine)
	require.True(t, ok)
	engine.GET("/boom", func(c *gin.Context) {
		panic("boom")
	})

	rec := api.do(t, http.MethodGet, "/boom", nil, "")
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	env := decode(t, rec)
	require.False(t, env.Success)
	require.Equal(t, "internal server error", env.Error)
	require.Equal(t, "INTERNAL_ERROR", env.Code)
}

func TestSignupLoginAskRoundTrip(t *testing.T) {
	api := newTestAPI(t)

	api.signup(t, "carol", "carol@example.com", "Str0ng!pass")
	res := api.login(t, "carol", "Str0ng!pass")

	rec := api.do(t, http.MethodPost, "/api/ask-question", map[string]string{
		"question": "How do I motivate a team?",
	}, res.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code)
	asked := dataAs[services.AskResponse](t, decode(t, rec))

	rec = api.do(t, http.MethodGet, "/api/chat-history", nil, res.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code)
	page := dataAs[services.HistoryResponse](t, decode(t, rec))
	require.Equal(t, int64(1), page.Total)
	require.Equal(t, asked.ChatID, page.ChatHistory[0].ID.String())

	rec = api.do(t, http.MethodGet, "/api/chat-history/"+asked.ChatID, nil, res.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code)
}

// Timestamps recorded for exchanges are UTC and current.
func TestAskQuestionTimestamps(t *testing.T) {
	api := newTestAPI(t)
	api.signup(t, "alice", "alice@example.com", "Str0ng!pass")
	res := api.login(t, "alice", "Str0ng!pass")

	before := time.Now().UTC().Add(-time.Second)
	rec := api.do(t, http.MethodPost, "/api/ask-question", map[string]string{
		"question": "What is leadership?",
	}, res.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code)
	after := time.Now().UTC().Add(time.Second)

	require.Len(t, api.chats.items, 1)
	created := api.chats.items[0].CreatedAt
	require.True(t, created.After(before) && created.Before(after))
}
