package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/smaug/pkg/redis"
)

func TestConnect(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := redis.Connect(context.Background(), redis.Config{
		ConnectionURL:  "redis://" + mr.Addr() + "/0",
		RetryAttempts:  2,
		RetryInterval:  10 * time.Millisecond,
		ConnectTimeout: time.Second,
	})
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, redis.Healthcheck(client)(context.Background()))

	mr.Close()
	assert.ErrorIs(t, redis.Healthcheck(client)(context.Background()), redis.ErrHealthcheckFailed)
}

func TestConnect_InvalidURL(t *testing.T) {
	_, err := redis.Connect(context.Background(), redis.Config{ConnectionURL: "http://nope"})
	assert.ErrorIs(t, err, redis.ErrFailedToParseRedisConnString)
}

func TestConnect_NotReady(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := redis.Connect(context.Background(), redis.Config{
		ConnectionURL:  "redis://" + addr + "/0",
		RetryAttempts:  2,
		RetryInterval:  10 * time.Millisecond,
		ConnectTimeout: 2 * time.Second,
	})
	assert.ErrorIs(t, err, redis.ErrRedisNotReady)
}
