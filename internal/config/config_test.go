package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"SERVER_ADDR", "STORE_DRIVER", "USERS_ROUTE", "USERS_COLLECTION", "CACHE_TTL", "RATE_LIMIT_RPS"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, ":8000", cfg.ServerAddr)
	assert.Equal(t, StoreMongo, cfg.StoreDriver)
	assert.Equal(t, "/users", cfg.UsersRoute)
	assert.Equal(t, "users", cfg.UsersCollection)
	assert.Equal(t, "user_management", cfg.MongoDatabase)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 10.0, cfg.RateLimitRPS)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", StoreMemory)
	t.Setenv("USERS_ROUTE", "/user")
	t.Setenv("USERS_COLLECTION", "user")
	t.Setenv("CACHE_TTL", "90")
	t.Setenv("READ_TIMEOUT", "2s")
	t.Setenv("RATE_LIMIT_BULK_BURST", "7")
	t.Setenv("DB_CONNECT_RETRIES", "not-a-number")

	cfg := Load()

	assert.Equal(t, StoreMemory, cfg.StoreDriver)
	assert.Equal(t, "/user", cfg.UsersRoute)
	assert.Equal(t, "user", cfg.UsersCollection)
	assert.Equal(t, 90*time.Second, cfg.CacheTTL)
	assert.Equal(t, 2*time.Second, cfg.ReadTimeout)
	assert.Equal(t, 7, cfg.RateLimitBulkBurst)
	assert.Equal(t, uint64(5), cfg.DBConnectRetries)
}

func TestGetEnvDuration_Invalid(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "soon")
	assert.Equal(t, time.Second, getEnvDuration("SHUTDOWN_TIMEOUT", time.Second))
}
