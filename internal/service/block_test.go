package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlockLifecycle(t *testing.T) {
	t.Parallel()

	svc := NewBlockService(newMemStore(), testLogger())
	ctx := context.Background()

	require.NoError(t, svc.Block(ctx, "alice", "bob"))
	require.NoError(t, svc.Block(ctx, "alice", "bob"), "blocking twice is a no-op")
	require.NoError(t, svc.Block(ctx, "alice", "carol"))

	ids, err := svc.ListBlocked(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"bob", "carol"}, ids)

	blocked, err := svc.IsBlockedByTarget(ctx, "bob", "alice")
	require.NoError(t, err)
	assert.True(t, blocked)

	blocked, err = svc.IsBlockedByTarget(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.False(t, blocked, "direction matters")

	require.NoError(t, svc.Unblock(ctx, "alice", "bob"))
	ids, err = svc.ListBlocked(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"carol"}, ids)
}

func TestBlock_Rejections(t *testing.T) {
	t.Parallel()

	svc := NewBlockService(newMemStore(), testLogger())
	ctx := context.Background()

	assert.ErrorIs(t, svc.Block(ctx, "alice", "alice"), ErrSelfBlock)
	assert.ErrorIs(t, svc.Block(ctx, "alice", " "), ErrValidation)
	assert.ErrorIs(t, svc.Block(ctx, "", "bob"), ErrUnauthorized)

	_, err := svc.IsBlockedByTarget(ctx, "alice", "")
	assert.ErrorIs(t, err, ErrValidation)

	ids, err := svc.ListBlocked(ctx, "nobody")
	require.NoError(t, err)
	assert.NotNil(t, ids)
	assert.Empty(t, ids)
}
