//go:build integration

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/questionconnection/backend/internal/model"
	"github.com/questionconnection/backend/internal/testutil"
)

func newIntegrationCache(t *testing.T) (context.Context, *Cache) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}

	ctx := context.Background()
	c, err := New(ctx, testutil.RequireEnv(t, "REDIS_URL"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	require.NoError(t, testutil.FlushRedis(ctx, c.Client()))
	return ctx, c
}

func TestIntegrationProfile_RoundTrip(t *testing.T) {
	ctx, c := newIntegrationCache(t)
	userID := testutil.UniqueID("user")

	got, err := c.GetProfile(ctx, userID)
	require.NoError(t, err)
	assert.Nil(t, got)

	user := &model.User{ID: userID, Nickname: "quizzer", NotifyOnCorrectAnswer: true}
	require.NoError(t, c.SetProfile(ctx, user))

	got, err = c.GetProfile(ctx, userID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "quizzer", got.Nickname)
	assert.True(t, got.NotifyOnCorrectAnswer)

	ttl, err := c.Client().TTL(ctx, profileCachePrefix+userID).Result()
	require.NoError(t, err)
	assert.LessOrEqual(t, ttl, profileCacheTTL)

	require.NoError(t, c.DeleteProfile(ctx, userID))
	got, err = c.GetProfile(ctx, userID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestIntegrationRateLimit_TokenBucket(t *testing.T) {
	ctx, c := newIntegrationCache(t)
	c.now = func() time.Time { return time.Unix(1_700_000_000, 0) }
	subject := testutil.UniqueID("subject")

	for i := 0; i < 3; i++ {
		res, err := c.CheckSubjectRateLimit(ctx, subject, 60, 3)
		require.NoError(t, err)
		assert.True(t, res.Allowed, "request %d", i+1)
	}

	res, err := c.CheckSubjectRateLimit(ctx, subject, 60, 3)
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, time.Second, res.RetryAfter)

	// One second refills one token at 60/min.
	c.now = func() time.Time { return time.Unix(1_700_000_001, 0) }
	res, err = c.CheckSubjectRateLimit(ctx, subject, 60, 3)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}
