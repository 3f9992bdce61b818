package database

import (
	"context"
	"errors"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"connection-finder/internal/common/config"
)

func TestNewRedisBuildsClient(t *testing.T) {
	c, err := NewRedis(config.RedisConfig{Address: "localhost:6379"})
	require.NoError(t, err)
	require.NotNil(t, c.GetClient())
	assert.NoError(t, c.Close())
}

func TestPing(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := &RedisClient{Client: client}

	mock.ExpectPing().SetVal("PONG")
	assert.NoError(t, c.Ping(context.Background()))

	mock.ExpectPing().SetErr(errors.New("connection refused"))
	err := c.Ping(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis ping failed")

	assert.NoError(t, mock.ExpectationsWereMet())
}
