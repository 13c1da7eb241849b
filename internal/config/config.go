package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers accepted in STORE_DRIVER.
const (
	StoreMongo    = "mongo"
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

type Config struct {
	ServerAddr         string
	AppEnv             string // "production" switches to JSON logs
	LogLevel           string
	ServiceName        string
	StoreDriver        string // mongo, postgres or memory
	MongoURI           string
	MongoDatabase      string
	UsersCollection    string // Mongo collection holding user documents
	UsersRoute         string // route prefix for the user endpoints
	DatabaseURL        string // PostgreSQL DSN, used when StoreDriver is postgres
	DBConnectRetries   uint64
	RedisURL           string // empty disables the cache
	CacheTTL           time.Duration
	RateLimitRPS       float64 // Rate limit for general API endpoints (requests per second)
	RateLimitBurst     int     // Burst size for rate limiting
	RateLimitBulkRPS   float64 // Rate limit for bulk updates (stricter)
	RateLimitBulkBurst int     // Burst size for bulk updates
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	ShutdownTimeout    time.Duration
}

func Load() *Config {
	// Try to load .env file (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables or defaults")
	}

	return &Config{
		ServerAddr:         getEnv("SERVER_ADDR", ":8000"),
		AppEnv:             getEnv("APP_ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		ServiceName:        getEnv("SERVICE_NAME", "user-management"),
		StoreDriver:        getEnv("STORE_DRIVER", StoreMongo),
		MongoURI:           getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:      getEnv("MONGO_DATABASE", "user_management"),
		UsersCollection:    getEnv("USERS_COLLECTION", "users"),
		UsersRoute:         getEnv("USERS_ROUTE", "/users"),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		DBConnectRetries:   uint64(getEnvInt("DB_CONNECT_RETRIES", 5)),
		RedisURL:           getEnv("REDIS_URL", ""),
		CacheTTL:           getEnvDuration("CACHE_TTL", 5*time.Minute),
		RateLimitRPS:       getEnvFloat("RATE_LIMIT_RPS", 10),     // 10 requests per second for general API
		RateLimitBurst:     getEnvInt("RATE_LIMIT_BURST", 20),     // Allow bursts of 20
		RateLimitBulkRPS:   getEnvFloat("RATE_LIMIT_BULK_RPS", 1), // 1 request per second for bulk updates
		RateLimitBulkBurst: getEnvInt("RATE_LIMIT_BULK_BURST", 3), // Allow bursts of 3
		ReadTimeout:        getEnvDuration("READ_TIMEOUT", 10*time.Second),
		WriteTimeout:       getEnvDuration("WRITE_TIMEOUT", 10*time.Second),
		ShutdownTimeout:    getEnvDuration("SHUTDOWN_TIMEOUT", 15*time.Second),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil && intValue >= 0 {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getEnvDuration accepts Go durations ("30s") or a bare number of seconds.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}
	return defaultValue
}
