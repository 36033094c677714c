package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is an account created on signup. The password is stored only as a
// bcrypt hash and never leaves the service.
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
