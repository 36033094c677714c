package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort         string
	AppMode         string
	CORSAllowOrigin string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	DBMaxConns int
	DBMinConns int

	JWTSecret            string
	JWTAccessExpiryMin   int
	JWTRefreshExpiryDays int

	RedisHost         string
	RedisPort         string
	RedisPassword     string
	RedisDB           int
	AuthRateLimit     int
	QuestionRateLimit int

	AnswerProvider      string
	GatewayTimeoutSec   int
	GatewayMaxRetries   int
	GatewayHistoryLimit int

	LlamaCloudAPIKey      string
	LlamaCloudBaseURL     string
	LlamaCloudIndexName   string
	LlamaCloudProjectName string
	LlamaCloudOrgID       string

	GeminiAPIKey string
	GeminiModel  string
}

func LoadConfig() *Config {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return &Config{
		AppPort:         getEnv("APP_PORT", "8080"),
		AppMode:         getEnv("APP_MODE", "debug"),
		CORSAllowOrigin: getEnv("CORS_ALLOW_ORIGIN", "*"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "leadership_chatbot"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),
		DBMaxConns: getEnvAsInt("DB_MAX_CONNS", 10),
		DBMinConns: getEnvAsInt("DB_MIN_CONNS", 2),

		JWTSecret:            getEnv("JWT_SECRET", "change-me"),
		JWTAccessExpiryMin:   getEnvAsInt("JWT_ACCESS_EXPIRY_MIN", 15),
		JWTRefreshExpiryDays: getEnvAsInt("JWT_REFRESH_EXPIRY_DAYS", 7),

		RedisHost:         getEnv("REDIS_HOST", ""),
		RedisPort:         getEnv("REDIS_PORT", "6379"),
		RedisPassword:     getEnv("REDIS_PASSWORD", ""),
		RedisDB:           getEnvAsInt("REDIS_DB", 0),
		AuthRateLimit:     getEnvAsInt("RATE_LIMIT_AUTH", 5),
		QuestionRateLimit: getEnvAsInt("RATE_LIMIT_QUESTION", 10),

		AnswerProvider:      getEnv("ANSWER_PROVIDER", "llamacloud"),
		GatewayTimeoutSec:   getEnvAsInt("GATEWAY_TIMEOUT_SEC", 30),
		GatewayMaxRetries:   getEnvAsInt("GATEWAY_MAX_RETRIES", 2),
		GatewayHistoryLimit: getEnvAsInt("GATEWAY_HISTORY_LIMIT", 6),

		LlamaCloudAPIKey:      getEnv("LLAMA_CLOUD_API_KEY", ""),
		LlamaCloudBaseURL:     getEnv("LLAMA_CLOUD_BASE_URL", "https://api.cloud.llamaindex.ai"),
		LlamaCloudIndexName:   getEnv("LLAMA_CLOUD_INDEX_NAME", ""),
		LlamaCloudProjectName: getEnv("LLAMA_CLOUD_PROJECT_NAME", "Default"),
		LlamaCloudOrgID:       getEnv("LLAMA_CLOUD_ORG_ID", ""),

		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}
