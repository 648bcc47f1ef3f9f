package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/questionconnection/backend/internal/model"
)

// DeviceStore persists device registrations.
type DeviceStore interface {
	UpsertDevice(ctx context.Context, d *model.Device) error
}

// EndpointRegistrar creates or refreshes a push endpoint for a device token.
type EndpointRegistrar interface {
	RegisterEndpoint(ctx context.Context, userID, token string) (string, error)
}

// DeviceService registers devices for push notifications.
type DeviceService struct {
	repo      DeviceStore
	endpoints EndpointRegistrar
	logger    *slog.Logger
	now       func() time.Time
}

// NewDeviceService creates a DeviceService.
func NewDeviceService(repo DeviceStore, endpoints EndpointRegistrar, logger *slog.Logger) *DeviceService {
	return &DeviceService{
		repo:      repo,
		endpoints: endpoints,
		logger:    logger.With("component", "service.device"),
		now:       time.Now,
	}
}

// RegisterDevice creates the push endpoint for token and stores the device.
func (s *DeviceService) RegisterDevice(ctx context.Context, callerID, userID, token string) (*model.Device, error) {
	if err := requireSelf(callerID, userID); err != nil {
		return nil, err
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, invalid("deviceToken is required")
	}

	endpointARN, err := s.endpoints.RegisterEndpoint(ctx, userID, token)
	if err != nil {
		return nil, fmt.Errorf("failed to register endpoint: %w", err)
	}

	device := &model.Device{
		UserID:      userID,
		DeviceID:    token,
		EndpointARN: endpointARN,
		RawToken:    token,
		UpdatedAt:   s.now().UTC().Truncate(time.Microsecond),
	}
	if err := s.repo.UpsertDevice(ctx, device); err != nil {
		return nil, fmt.Errorf("failed to save device: %w", err)
	}

	s.logger.Info("device_registered", "user_id", userID)
	return device, nil
}
