package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

// SeedConfig holds configuration for seeding the database
type SeedConfig struct {
	DemoUsername string
	DemoEmail    string
	DemoPassword string
	SampleChats  int
}

// DefaultSeedConfig returns default seed configuration
func DefaultSeedConfig() *SeedConfig {
	return &SeedConfig{
		DemoUsername: "demo",
		DemoEmail:    "demo@leadership.chat",
		DemoPassword: "Demo@1234",
		SampleChats:  2,
	}
}

var sampleExchanges = []struct {
	question string
	response string
}{
	{
		question: "What is leadership?",
		response: "Leadership is the practice of influencing and enabling a group to work toward a shared goal.",
	},
	{
		question: "What is the difference between a leader and a manager?",
		response: "Managers administer processes and maintain stability; leaders set direction and inspire change. Effective executives usually blend both.",
	},
	{
		question: "What is transformational leadership?",
		response: "Transformational leadership motivates followers through vision, intellectual stimulation, and individual consideration rather than transactional rewards.",
	},
}

// SeedDev inserts a demo user with a few recorded exchanges so the API can
// be exercised immediately after a fresh migration. Idempotent on the demo
// username.
func SeedDev(ctx context.Context, pool *pgxpool.Pool, cfg *SeedConfig) error {
	if cfg == nil {
		cfg = DefaultSeedConfig()
	}

	var userID uuid.UUID
	err := pool.QueryRow(ctx, `SELECT id FROM users WHERE username = $1`, cfg.DemoUsername).Scan(&userID)
	if err == nil {
		log.Printf("Demo user %q already exists (id %s), skipping user creation", cfg.DemoUsername, userID)
	} else {
		hash, hashErr := bcrypt.GenerateFromPassword([]byte(cfg.DemoPassword), bcrypt.DefaultCost)
		if hashErr != nil {
			return fmt.Errorf("hash demo password: %w", hashErr)
		}

		userID = uuid.New()
		_, err = pool.Exec(ctx,
			`INSERT INTO users (id, username, email, password_hash, created_at) VALUES ($1, $2, $3, $4, $5)`,
			userID, cfg.DemoUsername, cfg.DemoEmail, string(hash), time.Now().UTC())
		if err != nil {
			return fmt.Errorf("insert demo user: %w", err)
		}
		log.Printf("Created demo user %q (id %s)", cfg.DemoUsername, userID)
	}

	count := cfg.SampleChats
	if count > len(sampleExchanges) {
		count = len(sampleExchanges)
	}
	for i := 0; i < count; i++ {
		sample := sampleExchanges[i]
		_, err = pool.Exec(ctx,
			`INSERT INTO chat_history (id, user_id, question, response, created_at) VALUES ($1, $2, $3, $4, $5)`,
			uuid.New(), userID, sample.question, sample.response, time.Now().UTC())
		if err != nil {
			return fmt.Errorf("insert sample chat: %w", err)
		}
	}
	log.Printf("Seeded %d sample exchanges for %q", count, cfg.DemoUsername)

	return nil
}
