package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// BlockStore persists blocks.
type BlockStore interface {
	CreateBlock(ctx context.Context, blockerID, blockedID string, now time.Time) error
	DeleteBlock(ctx context.Context, blockerID, blockedID string) error
	ListBlockedIDs(ctx context.Context, blockerID string) ([]string, error)
	IsBlocked(ctx context.Context, blockerID, blockedID string) (bool, error)
}

// BlockService manages a user's block list.
type BlockService struct {
	repo   BlockStore
	logger *slog.Logger
	now    func() time.Time
}

// NewBlockService creates a BlockService.
func NewBlockService(repo BlockStore, logger *slog.Logger) *BlockService {
	return &BlockService{
		repo:   repo,
		logger: logger.With("component", "service.block"),
		now:    time.Now,
	}
}

// Block adds blockedID to callerID's block list. Blocking twice is a no-op.
func (s *BlockService) Block(ctx context.Context, callerID, blockedID string) error {
	if callerID == "" {
		return ErrUnauthorized
	}
	blockedID = strings.TrimSpace(blockedID)
	if blockedID == "" {
		return invalid("'blockedUserId' (string) is required in body.")
	}
	if blockedID == callerID {
		return ErrSelfBlock
	}

	if err := s.repo.CreateBlock(ctx, callerID, blockedID, s.now().UTC()); err != nil {
		return fmt.Errorf("failed to block user: %w", err)
	}
	s.logger.Info("user_blocked", "user_id", callerID, "blocked_user_id", blockedID)
	return nil
}

// Unblock removes blockedID from callerID's block list.
func (s *BlockService) Unblock(ctx context.Context, callerID, blockedID string) error {
	if callerID == "" {
		return ErrUnauthorized
	}
	if strings.TrimSpace(blockedID) == "" {
		return invalid("blockedUserId is required in path.")
	}

	if err := s.repo.DeleteBlock(ctx, callerID, blockedID); err != nil {
		return fmt.Errorf("failed to unblock user: %w", err)
	}
	s.logger.Info("user_unblocked", "user_id", callerID, "unblocked_user_id", blockedID)
	return nil
}

// ListBlocked returns the IDs callerID has blocked.
func (s *BlockService) ListBlocked(ctx context.Context, callerID string) ([]string, error) {
	if callerID == "" {
		return nil, ErrUnauthorized
	}
	ids, err := s.repo.ListBlockedIDs(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list blocked users: %w", err)
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

// IsBlockedByTarget reports whether targetID has blocked callerID.
func (s *BlockService) IsBlockedByTarget(ctx context.Context, callerID, targetID string) (bool, error) {
	if callerID == "" {
		return false, ErrUnauthorized
	}
	if strings.TrimSpace(targetID) == "" {
		return false, invalid("'targetId' query parameter is required.")
	}
	blocked, err := s.repo.IsBlocked(ctx, targetID, callerID)
	if err != nil {
		return false, fmt.Errorf("failed to check block: %w", err)
	}
	return blocked, nil
}
