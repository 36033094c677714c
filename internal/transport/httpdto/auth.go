package httpdto

import "github.com/Yug771/vishal-leadership-chatbot-backend-API/internal/services"

// SignupRequest is used for POST /api/signup
type SignupRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// SignupResponse is returned after successful registration
type SignupResponse struct {
	Message string            `json:"message"`
	User    services.UserInfo `json:"user"`
}

// LoginRequest is used for POST /api/login
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest is used for POST /api/refresh
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// RefreshResponse is returned after successful token refresh
type RefreshResponse struct {
	AccessToken string `json:"access_token"`
}

// MeResponse is returned for GET /api/me
type MeResponse struct {
	User services.UserInfo `json:"user"`
}
