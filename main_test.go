package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"user-management-be/internal/config"
)

func TestOpenStore_Memory(t *testing.T) {
	repo, closeStore, err := openStore(context.Background(), &config.Config{StoreDriver: config.StoreMemory}, zap.NewNop())
	require.NoError(t, err)
	assert.NoError(t, repo.Ping(context.Background()))
	assert.NoError(t, closeStore())
}

func TestOpenStore_UnknownDriver(t *testing.T) {
	_, _, err := openStore(context.Background(), &config.Config{StoreDriver: "cassandra"}, zap.NewNop())
	assert.EqualError(t, err, `unknown store driver "cassandra"`)
}
