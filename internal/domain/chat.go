package domain

import (
	"time"

	"github.com/google/uuid"
)

// ChatItem is one recorded question/answer exchange. Items are immutable
// after creation and visible only to their owning user.
type ChatItem struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Question  string    `json:"question" db:"question"`
	Response  string    `json:"response" db:"response"`
	CreatedAt time.Time `json:"timestamp" db:"created_at"`
}
