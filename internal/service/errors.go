// Package service provides business logic for the application.
package service

import (
	"errors"
	"fmt"

	"github.com/questionconnection/backend/internal/quota"
)

// Service errors.
var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrValidation         = errors.New("validation failed")
	ErrInvalidEncoding    = errors.New("body is not valid base64")
	ErrInvalidContentType = errors.New("invalid content type")
	ErrNoImageData        = errors.New("no image data found")
	ErrRateLimitExceeded  = errors.New("monthly change limit exceeded")
	ErrStoreFailure       = errors.New("store failure")
	ErrUserNotFound       = errors.New("user not found")
	ErrQuestionNotFound   = errors.New("question not found")
	ErrThreadNotFound     = errors.New("thread not found")
	ErrQuestionExists     = errors.New("question already exists")
	ErrBlocked            = errors.New("messaging is blocked between these users")
	ErrSelfBlock          = errors.New("cannot block yourself")
)

// ValidationError reports a rejected input field. It matches ErrValidation.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func invalid(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// RateLimitExceededError carries the limiter decision that blocked a change.
// It matches ErrRateLimitExceeded.
type RateLimitExceededError struct {
	Decision quota.Decision
}

func (e *RateLimitExceededError) Error() string {
	return fmt.Sprintf("monthly change limit exceeded: %d/%d, next change available after %s",
		e.Decision.Count, e.Decision.Limit, e.Decision.NextAvailableDate())
}

func (e *RateLimitExceededError) Unwrap() error {
	return ErrRateLimitExceeded
}

// requireSelf returns ErrUnauthorized for an empty caller and ErrForbidden when
// the caller acts on another user's resource.
func requireSelf(callerID, userID string) error {
	if callerID == "" {
		return ErrUnauthorized
	}
	if callerID != userID {
		return ErrForbidden
	}
	return nil
}
