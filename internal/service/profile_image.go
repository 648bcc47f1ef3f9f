package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/questionconnection/backend/internal/blob"
	"github.com/questionconnection/backend/internal/metrics"
	"github.com/questionconnection/backend/internal/model"
	"github.com/questionconnection/backend/internal/multipart"
	"github.com/questionconnection/backend/internal/quota"
	"github.com/questionconnection/backend/internal/repository"
)

const (
	// ProfileImageField is the multipart field carrying the image.
	ProfileImageField = "profileImage"

	profileImageContentType = "image/jpeg"
	profileImageUpdatedMsg  = "Profile image updated successfully"
)

// ProfileImageStore reads and writes the subject record of an upload.
type ProfileImageStore interface {
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	UpdateProfileImage(ctx context.Context, id, imageURL string, changeDates []string, now time.Time) error
}

// BlobStore stores image objects.
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

// ProfileInvalidator drops cached profiles.
type ProfileInvalidator interface {
	DeleteProfile(ctx context.Context, userID string) error
}

// ProfileImageService replaces user profile images under a monthly limit.
type ProfileImageService struct {
	users   ProfileImageStore
	blobs   BlobStore
	cache   ProfileInvalidator
	limiter *quota.Limiter
	logger  *slog.Logger
	metrics metrics.Recorder
	now     func() time.Time
}

// NewProfileImageService creates a ProfileImageService. cache may be nil.
func NewProfileImageService(users ProfileImageStore, blobs BlobStore, cache ProfileInvalidator, limiter *quota.Limiter, logger *slog.Logger, recorder metrics.Recorder) *ProfileImageService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if limiter == nil {
		limiter = quota.New(quota.DefaultLimit, quota.DefaultRetentionYears)
	}
	return &ProfileImageService{
		users:   users,
		blobs:   blobs,
		cache:   cache,
		limiter: limiter,
		logger:  logger.With("component", "service.profile_image"),
		metrics: recorder,
		now:     time.Now,
	}
}

// UploadProfileImageInput is a raw upload request.
type UploadProfileImageInput struct {
	CallerID      string
	UserID        string
	Body          []byte
	Base64Encoded bool
	ContentType   string
}

// UploadProfileImageResult describes a successful upload.
type UploadProfileImageResult struct {
	ProfileImageURL  string `json:"profileImageUrl"`
	Message          string `json:"message"`
	ChangeCount      int    `json:"changeCount"`
	MaxChanges       int    `json:"maxChanges"`
	RemainingChanges int    `json:"remainingChanges"`
}

// UploadProfileImage checks the monthly limit, extracts the image from the
// multipart body, replaces the stored object and records the change.
//
// The limit check and the history write are separate round trips, so two
// concurrent uploads can both pass the check.
func (s *ProfileImageService) UploadProfileImage(ctx context.Context, input UploadProfileImageInput) (*UploadProfileImageResult, error) {
	if err := requireSelf(input.CallerID, input.UserID); err != nil {
		return nil, err
	}

	now := s.now().UTC()

	user, err := s.users.GetUserByID(ctx, input.UserID)
	if err != nil {
		if !errors.Is(err, repository.ErrUserNotFound) {
			s.metrics.IncProfileImageUpload("error")
			return nil, fmt.Errorf("%w: load user: %v", ErrStoreFailure, err)
		}
		user = &model.User{ID: input.UserID}
	}

	decision := s.limiter.Evaluate(user.ProfileImageChangeDates, now)
	if !decision.Allowed {
		s.logger.Info("profile_image_limit_exceeded",
			"user_id", input.UserID,
			"change_count", decision.Count,
			"max_changes", decision.Limit,
		)
		s.metrics.IncProfileImageUpload("limited")
		return nil, &RateLimitExceededError{Decision: decision}
	}

	body := input.Body
	if input.Base64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(string(body))
		if err != nil {
			s.metrics.IncProfileImageUpload("rejected")
			return nil, ErrInvalidEncoding
		}
		body = decoded
	}

	boundary, err := multipart.BoundaryFromContentType(input.ContentType)
	if err != nil {
		s.metrics.IncProfileImageUpload("rejected")
		return nil, ErrInvalidContentType
	}

	image, err := multipart.Extract(body, boundary, ProfileImageField)
	if err != nil || len(image) == 0 {
		s.metrics.IncProfileImageUpload("rejected")
		return nil, ErrNoImageData
	}

	if user.ProfileImageURL != "" {
		if oldKey := blob.KeyFromURL(user.ProfileImageURL); oldKey != "" {
			if err := s.blobs.Delete(ctx, oldKey); err != nil {
				s.logger.Warn("failed to delete old profile image",
					"user_id", input.UserID,
					"key", oldKey,
					"error", err,
				)
			}
		}
	}

	key := blob.ProfileImageKey(input.UserID)
	if err := s.blobs.Put(ctx, key, image, profileImageContentType); err != nil {
		s.metrics.IncProfileImageUpload("error")
		return nil, fmt.Errorf("%w: put image: %v", ErrStoreFailure, err)
	}
	imageURL := s.blobs.URL(key)

	history := s.limiter.Commit(user.ProfileImageChangeDates, now)
	if err := s.users.UpdateProfileImage(ctx, input.UserID, imageURL, history, now); err != nil {
		s.metrics.IncProfileImageUpload("error")
		return nil, fmt.Errorf("%w: save user: %v", ErrStoreFailure, err)
	}

	if s.cache != nil {
		if err := s.cache.DeleteProfile(ctx, input.UserID); err != nil {
			s.logger.Warn("failed to invalidate profile cache", "user_id", input.UserID, "error", err)
		}
	}

	s.logger.Info("profile_image_uploaded",
		"user_id", input.UserID,
		"bytes", len(image),
		"change_count", decision.Count+1,
	)
	s.metrics.IncProfileImageUpload("success")

	return &UploadProfileImageResult{
		ProfileImageURL:  imageURL,
		Message:          profileImageUpdatedMsg,
		ChangeCount:      decision.Count + 1,
		MaxChanges:       decision.Limit,
		RemainingChanges: decision.Remaining,
	}, nil
}
