package mongo_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/smaug/pkg/mongo"
)

func TestNew_InvalidURL(t *testing.T) {
	_, err := mongo.New(context.Background(), mongo.Config{ConnectionURL: "not-a-mongo-url"})
	assert.ErrorIs(t, err, mongo.ErrFailedToConnectToMongo)
}

func TestIntegration_NewWithDatabase(t *testing.T) {
	url := os.Getenv("MONGODB_URL")
	if url == "" {
		t.Skip("MONGODB_URL not set")
	}

	ctx := context.Background()
	db, err := mongo.NewWithDatabase(ctx, mongo.Config{
		ConnectionURL:  url,
		Database:       "smaug_test",
		ConnectTimeout: 5 * time.Second,
		MaxPoolSize:    4,
		RetryAttempts:  3,
		RetryInterval:  100 * time.Millisecond,
	})
	require.NoError(t, err)
	defer db.Client().Disconnect(ctx)

	assert.Equal(t, "smaug_test", db.Name())
	require.NoError(t, mongo.Healthcheck(db.Client())(ctx))
}
