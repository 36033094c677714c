package main

import (
	"context"
	"io"
	"log"
	"time"

	"github.com/Yug771/vishal-leadership-chatbot-backend-API/config"
	"github.com/Yug771/vishal-leadership-chatbot-backend-API/internal/gateway"
	"github.com/Yug771/vishal-leadership-chatbot-backend-API/internal/handler"
	"github.com/Yug771/vishal-leadership-chatbot-backend-API/internal/redis"
	"github.com/Yug771/vishal-leadership-chatbot-backend-API/internal/repository"
	"github.com/Yug771/vishal-leadership-chatbot-backend-API/internal/server"
	"github.com/Yug771/vishal-leadership-chatbot-backend-API/internal/services"
	"github.com/Yug771/vishal-leadership-chatbot-backend-API/internal/token"
	"github.com/Yug771/vishal-leadership-chatbot-backend-API/pkg/database"
	"github.com/Yug771/vishal-leadership-chatbot-backend-API/pkg/logger"
)

func main() {
	cfg := config.LoadConfig()

	l := logger.New(cfg.AppMode)
	logger.SetGlobalLogger(l)
	defer l.Sync()

	ctx := context.Background()

	// Connect to Database
	pool, err := database.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// Run Raw Migrations (Tables, Indexes)
	if err := database.ApplyRawMigrations(ctx, pool, "migrations"); err != nil {
		log.Fatalf("Failed to apply raw migrations: %v", err)
	}

	// Rate limiting is optional: no Redis host means no limiter.
	var limiter *redis.RateLimiter
	if cfg.RedisHost != "" {
		client, err := redis.NewClient(ctx, redis.Config{
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			l.Warnf("Redis unavailable, rate limiting disabled: %v", err)
		} else {
			defer client.Close()
			limiter = redis.NewRateLimiter(client, redis.RateLimitConfig{
				AuthLimit:      cfg.AuthRateLimit,
				AuthWindow:     60 * time.Second,
				QuestionLimit:  cfg.QuestionRateLimit,
				QuestionWindow: 60 * time.Second,
			})
		}
	}

	provider, err := gateway.NewProvider(ctx, cfg, l)
	if err != nil {
		log.Fatalf("Failed to set up answer provider: %v", err)
	}
	if closer, ok := provider.(io.Closer); ok {
		defer closer.Close()
	}

	userRepo := repository.NewUserRepository(pool)
	chatRepo := repository.NewChatRepository(pool)

	tokens := token.NewService(cfg)
	authService := services.NewAuthService(userRepo, tokens)
	chatService := services.NewChatService(chatRepo, userRepo, provider, cfg, l)

	handlers := &server.Handlers{
		Auth: handler.NewAuthHandler(authService),
		Chat: handler.NewChatHandler(chatService),
	}

	srv := server.New(cfg, l)
	srv.SetupRoutes(handlers, authService, limiter, pool)

	if err := srv.Start(); err != nil {
		log.Fatalf("Server stopped with error: %v", err)
	}
}
