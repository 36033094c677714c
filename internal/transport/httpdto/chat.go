package httpdto

import "github.com/Yug771/vishal-leadership-chatbot-backend-API/internal/domain"

// AskRequest is used for POST /api/ask-question
type AskRequest struct {
	Question string `json:"question" binding:"required"`
}

// HistoryQuery holds query parameters for GET /api/chat-history
type HistoryQuery struct {
	Limit  int `form:"limit,default=10"`
	Offset int `form:"offset,default=0"`
}

// ChatItemResponse is returned for GET /api/chat-history/:id
type ChatItemResponse struct {
	Chat domain.ChatItem `json:"chat"`
}
