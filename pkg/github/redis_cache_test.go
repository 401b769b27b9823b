//go:build integration

package github

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const isolatedTestRedisDB = 14

func testRedisClient(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("TECHTRACK_TEST_REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	client := redis.NewClient(&redis.Options{Addr: addr, DB: isolatedTestRedisDB})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("redis not reachable at %s: %v", addr, err)
	}
	t.Cleanup(func() {
		client.FlushDB(context.Background())
		client.Close()
	})
	return client
}

func TestRedisCache(t *testing.T) {
	// given
	cache := NewRedisCache(testRedisClient(t))
	ctx := context.Background()
	popularity := Popularity{
		Name:            "Go",
		RepositoryCount: 45678,
		TopRepositories: []Repository{{Name: "go", FullName: "golang/go"}},
		Topics:          []Topic{{Name: "go", DisplayName: "Go"}},
		PopularityScore: 46,
	}

	// when
	_, foundBefore, err := cache.Get(ctx, "go")
	require.NoError(t, err)
	require.NoError(t, cache.Set(ctx, "go", popularity, time.Minute))
	cached, found, err := cache.Get(ctx, "go")

	// then
	require.NoError(t, err)
	assert.False(t, foundBefore)
	assert.True(t, found)
	assert.Equal(t, popularity, cached)
}
