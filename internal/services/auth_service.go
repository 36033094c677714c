package services

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Yug771/vishal-leadership-chatbot-backend-API/internal/domain"
	"github.com/Yug771/vishal-leadership-chatbot-backend-API/internal/repository"
	"github.com/Yug771/vishal-leadership-chatbot-backend-API/internal/token"
	chatbot_errors "github.com/Yug771/vishal-leadership-chatbot-backend-API/pkg/errors"
	"github.com/Yug771/vishal-leadership-chatbot-backend-API/pkg/logger"
)

type AuthService struct {
	userRepo repository.UserRepository
	tokens   *token.Service
}

func NewAuthService(userRepo repository.UserRepository, tokens *token.Service) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

type SignupInput struct {
	Username string
	Email    string
	Password string
}

type LoginInput struct {
	Username string
	Password string
}

type AuthResponse struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	User         UserInfo `json:"user"`
}

type UserInfo struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// Signup creates a new account. Duplicate usernames and emails fail with a
// conflict; they are never silently overwritten.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (UserInfo, error) {
	in.Username = sanitizeText(in.Username)

	if err := validateSignup(in); err != nil {
		return UserInfo{}, err
	}

	if err := s.ensureIdentityAvailable(ctx, in); err != nil {
		return UserInfo{}, err
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return UserInfo{}, err
	}

	newUser := &domain.User{
		ID:           uuid.New(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.userRepo.Create(ctx, newUser); err != nil {
		return UserInfo{}, err
	}

	return toUserInfo(*newUser), nil
}

// Login verifies credentials and issues an access/refresh token pair. The
// error never says whether the username or the password was wrong.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (AuthResponse, error) {
	in.Username = sanitizeText(in.Username)

	if in.Username == "" || in.Password == "" {
		return AuthResponse{}, chatbot_errors.Message(chatbot_errors.ErrUnauthorized, "Invalid credentials")
	}

	u, err := s.userRepo.GetByUsername(ctx, in.Username)
	if err != nil {
		if errors.Is(err, chatbot_errors.ErrNotFound) {
			return AuthResponse{}, chatbot_errors.Message(chatbot_errors.ErrUnauthorized, "Invalid credentials")
		}
		return AuthResponse{}, err
	}

	if err := comparePassword(u.PasswordHash, in.Password); err != nil {
		return AuthResponse{}, chatbot_errors.Message(chatbot_errors.ErrUnauthorized, "Invalid credentials")
	}

	pair, err := s.tokens.Issue(u.ID)
	if err != nil {
		return AuthResponse{}, err
	}

	return AuthResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		User:         toUserInfo(u),
	}, nil
}

// Refresh exchanges a valid refresh token for a new access token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", chatbot_errors.ErrInvalidInput
	}
	return s.tokens.Refresh(refreshToken)
}

// Me returns the profile behind a validated access token.
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (UserInfo, error) {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, chatbot_errors.ErrNotFound) {
			return UserInfo{}, chatbot_errors.Message(chatbot_errors.ErrNotFound, "User not found")
		}
		return UserInfo{}, err
	}
	return toUserInfo(u), nil
}

// ValidateAccessToken checks an access token and returns the user id it was
// issued for. Used by the auth middleware.
func (s *AuthService) ValidateAccessToken(tokenString string) (uuid.UUID, error) {
	return s.tokens.Validate(tokenString, token.TypeAccess)
}

func (s *AuthService) ensureIdentityAvailable(ctx context.Context, in SignupInput) error {
	if _, err := s.userRepo.GetByUsername(ctx, in.Username); err == nil {
		return chatbot_errors.Message(chatbot_errors.ErrAlreadyExists, "Username already exists")
	} else if !errors.Is(err, chatbot_errors.ErrNotFound) {
		return err
	}

	if _, err := s.userRepo.GetByEmail(ctx, in.Email); err == nil {
		return chatbot_errors.Message(chatbot_errors.ErrAlreadyExists, "Email already exists")
	} else if !errors.Is(err, chatbot_errors.ErrNotFound) {
		return err
	}

	return nil
}

func toUserInfo(u domain.User) UserInfo {
	return UserInfo{
		ID:        u.ID.String(),
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

func validateSignup(in SignupInput) error {
	if len(in.Username) < 3 || len(in.Username) > 50 {
		return chatbot_errors.Message(chatbot_errors.ErrInvalidInput, "Username must be between 3 and 50 characters")
	}
	if !isValidEmail(in.Email) {
		return chatbot_errors.Message(chatbot_errors.ErrInvalidInput, "Invalid email format")
	}
	return validatePassword(in.Password)
}

func isValidEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return false
	}
	at := strings.LastIndex(email, "@")
	return strings.Contains(email[at+1:], ".")
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return chatbot_errors.Message(chatbot_errors.ErrInvalidInput, "Password must be at least 8 characters long.")
	}

	var hasDigit, hasUpper, hasLower, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case strings.ContainsRune(`!@#$%^&*(),.?":{}|<>`, r):
			hasSpecial = true
		}
	}

	switch {
	case !hasDigit:
		return chatbot_errors.Message(chatbot_errors.ErrInvalidInput, "Password must contain at least one digit.")
	case !hasUpper:
		return chatbot_errors.Message(chatbot_errors.ErrInvalidInput, "Password must contain at least one uppercase letter.")
	case !hasLower:
		return chatbot_errors.Message(chatbot_errors.ErrInvalidInput, "Password must contain at least one lowercase letter.")
	case !hasSpecial:
		return chatbot_errors.Message(chatbot_errors.ErrInvalidInput, "Password must contain at least one special character.")
	}

	return nil
}

func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func comparePassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, chatbot_errors.ErrInvalidInput):
		return 400
	case errors.Is(err, chatbot_errors.ErrUnauthorized):
		return 401
	case errors.Is(err, chatbot_errors.ErrForbidden):
		return 403
	case errors.Is(err, chatbot_errors.ErrNotFound):
		return 404
	case errors.Is(err, chatbot_errors.ErrAlreadyExists), errors.Is(err, chatbot_errors.ErrConflict):
		return 409
	case errors.Is(err, chatbot_errors.ErrRateLimited):
		return 429
	case errors.Is(err, chatbot_errors.ErrUpstream):
		return 502
	case errors.Is(err, chatbot_errors.ErrServiceUnavailable):
		return 503
	case errors.Is(err, chatbot_errors.ErrUpstreamTimeout):
		return 504
	default:
		return 500
	}
}

type ctxKey string

var userIDKey ctxKey = "user_id"

// WithUserContext stores the authenticated user id for handlers and tags
// the logging context with it.
func WithUserContext(ctx context.Context, userID uuid.UUID) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, logger.UserIdKey, userID.String())
}

func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	value := ctx.Value(userIDKey)
	if value == nil {
		return uuid.Nil, false
	}
	userID, ok := value.(uuid.UUID)
	return userID, ok
}
