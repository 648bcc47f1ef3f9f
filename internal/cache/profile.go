package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/questionconnection/backend/internal/model"
)

const profileCacheTTL = 5 * time.Minute

// GetProfile returns a cached profile, or nil on a miss.
func (c *Cache) GetProfile(ctx context.Context, userID string) (*model.User, error) {
	data, err := c.client.Get(ctx, profilePrefix+userID).Bytes()
	if err != nil {
		// Cache miss is not an error
		return nil, nil //nolint:nilerr
	}

	var user model.User
	if err := json.Unmarshal(data, &user); err != nil {
		// Corrupted cache entry - treat as miss
		return nil, nil //nolint:nilerr
	}
	return &user, nil
}

// SetProfile caches a profile.
func (c *Cache) SetProfile(ctx context.Context, user *model.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}
	return c.client.Set(ctx, profilePrefix+user.ID, data, profileCacheTTL).Err()
}

// DeleteProfile invalidates a cached profile.
func (c *Cache) DeleteProfile(ctx context.Context, userID string) error {
	return c.client.Del(ctx, profilePrefix+userID).Err()
}
