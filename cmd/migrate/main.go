package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/Yug771/vishal-leadership-chatbot-backend-API/config"
	"github.com/Yug771/vishal-leadership-chatbot-backend-API/pkg/database"

	"github.com/jackc/pgx/v5/pgxpool"
)

const usage = `
Leadership Chatbot - Database CLI Tool

Usage:
  migrate [command] [flags]

Commands:
  up          Run all SQL migrations
  status      Show database connection status
  seed-dev    Seed with a demo user and sample chat history
  reset       Drop all tables and re-run migrations (DANGEROUS)

Flags:
  -migrations string   Path to migrations directory (default "migrations")
  -demo-email string   Demo user email for seeding (default "demo@leadership.chat")
  -demo-pass string    Demo user password for seeding (default "Demo@1234")

Examples:
  go run cmd/migrate/main.go up
  go run cmd/migrate/main.go status
  go run cmd/migrate/main.go seed-dev
  go run cmd/migrate/main.go reset
`

func main() {
	// Define flags
	migrationsDir := flag.String("migrations", "migrations", "Path to migrations directory")
	demoEmail := flag.String("demo-email", "demo@leadership.chat", "Demo user email for seeding")
	demoPass := flag.String("demo-pass", "Demo@1234", "Demo user password for seeding")

	flag.Usage = func() {
		fmt.Print(usage)
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	command := flag.Arg(0)
	ctx := context.Background()

	// Load config and connect to database
	cfg := config.LoadConfig()
	pool, err := database.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("❌ Database connection failed: %v", err)
	}
	defer pool.Close()

	switch command {
	case "up":
		runMigrationsUp(ctx, pool, *migrationsDir)
	case "status":
		showStatus(ctx, pool)
	case "seed-dev":
		runSeedDevelopment(ctx, pool, *demoEmail, *demoPass)
	case "reset":
		runReset(ctx, pool, *migrationsDir)
	default:
		fmt.Printf("Unknown command: %s\n", command)
		flag.Usage()
		os.Exit(1)
	}
}

func runMigrationsUp(ctx context.Context, pool *pgxpool.Pool, migrationsDir string) {
	log.Println("🚀 Running migrations UP...")

	if err := database.ApplyRawMigrations(ctx, pool, migrationsDir); err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}

	log.Println("✅ Migrations completed successfully!")
}

func showStatus(ctx context.Context, pool *pgxpool.Pool) {
	log.Println("🔍 Checking database status...")

	if err := database.HealthCheck(ctx, pool); err != nil {
		log.Fatalf("❌ Database connection failed: %v", err)
	}
	log.Println("✅ Database connection: OK")

	// Check core tables
	tables := []string{"users", "chat_history"}
	for _, table := range tables {
		exists, err := database.TableExists(ctx, pool, table)
		if err != nil {
			log.Printf("⚠️  Error checking table %s: %v", table, err)
			continue
		}
		if exists {
			count, _ := database.TableCount(ctx, pool, table)
			log.Printf("✅ Table %-20s exists (%d rows)", table, count)
		} else {
			log.Printf("❌ Table %-20s does not exist", table)
		}
	}
}

func runSeedDevelopment(ctx context.Context, pool *pgxpool.Pool, demoEmail, demoPass string) {
	log.Println("🌱 Seeding database (development mode)...")

	seedCfg := database.DefaultSeedConfig()
	seedCfg.DemoEmail = demoEmail
	seedCfg.DemoPassword = demoPass

	if err := database.SeedDev(ctx, pool, seedCfg); err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	log.Println("✅ Development seeding completed!")
}

func runReset(ctx context.Context, pool *pgxpool.Pool, migrationsDir string) {
	log.Println("⚠️  WARNING: This will DROP all tables and re-run migrations!")

	log.Println("🗑️  Dropping all tables...")
	if err := database.DropAllTables(ctx, pool); err != nil {
		log.Fatalf("❌ Failed to drop tables: %v", err)
	}

	log.Println("🚀 Running migrations...")
	if err := database.ApplyRawMigrations(ctx, pool, migrationsDir); err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}

	log.Println("✅ Database reset completed!")
}
