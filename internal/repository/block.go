package repository

import (
	"context"
	"fmt"
	"time"
)

// CreateBlock records that blockerID blocks blockedID. Repeating it is a no-op.
func (r *Repository) CreateBlock(ctx context.Context, blockerID, blockedID string, now time.Time) error {
	query := `
		INSERT INTO blocks (blocker_id, blocked_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (blocker_id, blocked_id) DO NOTHING
	`

	if _, err := r.pool.Exec(ctx, query, blockerID, blockedID, now); err != nil {
		return fmt.Errorf("failed to create block: %w", err)
	}

	return nil
}

// DeleteBlock removes a block. Removing a missing block is a no-op.
func (r *Repository) DeleteBlock(ctx context.Context, blockerID, blockedID string) error {
	query := `DELETE FROM blocks WHERE blocker_id = $1 AND blocked_id = $2`

	if _, err := r.pool.Exec(ctx, query, blockerID, blockedID); err != nil {
		return fmt.Errorf("failed to delete block: %w", err)
	}

	return nil
}

// ListBlockedIDs returns the users blockerID has blocked, oldest first.
func (r *Repository) ListBlockedIDs(ctx context.Context, blockerID string) ([]string, error) {
	query := `
		SELECT blocked_id FROM blocks
		WHERE blocker_id = $1
		ORDER BY created_at ASC, blocked_id ASC
	`

	rows, err := r.pool.Query(ctx, query, blockerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list blocks: %w", err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan block: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate blocks: %w", err)
	}

	return ids, nil
}

// IsBlocked reports whether blockerID has blocked blockedID.
func (r *Repository) IsBlocked(ctx context.Context, blockerID, blockedID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM blocks WHERE blocker_id = $1 AND blocked_id = $2
		)
	`

	var blocked bool
	if err := r.pool.QueryRow(ctx, query, blockerID, blockedID).Scan(&blocked); err != nil {
		return false, fmt.Errorf("failed to check block: %w", err)
	}

	return blocked, nil
}
