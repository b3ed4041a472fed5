package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wonny/finboard/pkg/config"
)

func TestDisabledClient(t *testing.T) {
	client := Disabled()

	assert.False(t, client.Enabled())
	assert.NoError(t, client.Close())

	// Cache on a disabled client is a no-op, never an error
	cache := NewCache(client, "finboard")
	ctx := context.Background()

	var out []string
	found, err := cache.Get(ctx, "squeeze:candidates:2026-08-28", &out)
	assert.NoError(t, err)
	assert.False(t, found)

	assert.NoError(t, cache.Set(ctx, "k", []string{"005930"}, TTLShort))
	assert.NoError(t, cache.Delete(ctx, "k"))
}

func TestDisabledRateLimiter(t *testing.T) {
	limiter := NewRateLimiter(Disabled(), "finboard")

	allowed, remaining, err := limiter.Allow(context.Background(), RateLimitConfig{
		Key:    "naver",
		Limit:  10,
		Window: time.Second,
	})
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, 10, remaining)
}

func TestCacheKeys(t *testing.T) {
	assert.Equal(t, "screener:magic-formula:30", ScreenerKey("magic-formula", 30))
	assert.Equal(t, "squeeze:candidates:2026-08-28", SqueezeKey("2026-08-28"))
	assert.Equal(t, "diagnosis:005930", DiagnosisKey("005930"))
	assert.Equal(t, "indicator:005930:2026-08-28", IndicatorKey("005930", "2026-08-28"))
}

func TestCache_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	cfg := &config.Config{}
	cfg.Redis.Host = "localhost"
	cfg.Redis.Port = "6379"
	cfg.Redis.Enabled = true

	client, err := New(cfg)
	if err != nil {
		t.Skipf("redis not available: %v", err)
	}
	defer client.Close()

	cache := NewCache(client, "finboard-test")
	ctx := context.Background()

	type payload struct {
		Code  string `json:"code"`
		Score int    `json:"score"`
	}

	in := payload{Code: "005930", Score: 85}
	require.NoError(t, cache.Set(ctx, "t1", in, TTLShort))

	var out payload
	found, err := cache.Get(ctx, "t1", &out)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, in, out)

	require.NoError(t, cache.Delete(ctx, "t1"))
}
