package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/questionconnection/backend/internal/model"
	"github.com/questionconnection/backend/internal/repository"
)

// ProfileStore reads and writes user profiles.
type ProfileStore interface {
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	UpdateProfile(ctx context.Context, id, nickname string, notify *bool, now time.Time) (*model.User, error)
}

// ProfileCache caches profiles by user ID.
type ProfileCache interface {
	GetProfile(ctx context.Context, userID string) (*model.User, error)
	SetProfile(ctx context.Context, user *model.User) error
	DeleteProfile(ctx context.Context, userID string) error
}

// ProfileService reads and updates user profiles.
type ProfileService struct {
	repo   ProfileStore
	cache  ProfileCache
	logger *slog.Logger
	now    func() time.Time
}

// NewProfileService creates a ProfileService. cache may be nil.
func NewProfileService(repo ProfileStore, cache ProfileCache, logger *slog.Logger) *ProfileService {
	return &ProfileService{
		repo:   repo,
		cache:  cache,
		logger: logger.With("component", "service.profile"),
		now:    time.Now,
	}
}

// GetProfile returns a user's profile, reading through the cache.
func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*model.User, error) {
	if s.cache != nil {
		cached, err := s.cache.GetProfile(ctx, userID)
		if err != nil {
			s.logger.Warn("profile cache read failed", "user_id", userID, "error", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.SetProfile(ctx, user); err != nil {
			s.logger.Warn("profile cache write failed", "user_id", userID, "error", err)
		}
	}

	return user, nil
}

// UpdateProfileInput defines input for updating a profile. Nickname may be
// empty but must be present.
type UpdateProfileInput struct {
	CallerID              string
	UserID                string
	Nickname              *string
	NotifyOnCorrectAnswer *bool
}

// UpdateProfile writes the nickname and notification setting.
func (s *ProfileService) UpdateProfile(ctx context.Context, input UpdateProfileInput) (*model.User, error) {
	if err := requireSelf(input.CallerID, input.UserID); err != nil {
		return nil, err
	}
	if input.Nickname == nil {
		return nil, invalid("nickname is required")
	}

	user, err := s.repo.UpdateProfile(ctx, input.UserID, *input.Nickname, input.NotifyOnCorrectAnswer, s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.DeleteProfile(ctx, input.UserID); err != nil {
			s.logger.Warn("failed to invalidate profile cache", "user_id", input.UserID, "error", err)
		}
	}

	s.logger.Info("profile_updated", "user_id", input.UserID)
	return user, nil
}
