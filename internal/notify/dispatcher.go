package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/questionconnection/backend/internal/metrics"
	"github.com/questionconnection/backend/internal/model"
	"github.com/questionconnection/backend/internal/push"
)

// DeviceLister returns the registered devices of a user.
type DeviceLister interface {
	ListDevicesByUser(ctx context.Context, userID string) ([]*model.Device, error)
}

// Pusher delivers a message to one platform endpoint.
type Pusher interface {
	Publish(ctx context.Context, endpointARN string, msg push.Message) error
}

// Result summarizes a fan-out.
type Result struct {
	Sent   int
	Failed int
}

// Devices is the number of devices the fan-out targeted.
func (r Result) Devices() int {
	return r.Sent + r.Failed
}

// Dispatcher fans a message out to every device of a user.
type Dispatcher struct {
	devices DeviceLister
	pusher  Pusher
	logger  *slog.Logger
	metrics metrics.Recorder
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(devices DeviceLister, pusher Pusher, logger *slog.Logger, recorder metrics.Recorder) *Dispatcher {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &Dispatcher{
		devices: devices,
		pusher:  pusher,
		logger:  logger.With("component", "notify.dispatcher"),
		metrics: recorder,
	}
}

// Dispatch publishes msg to each device of userID. Per-device failures are
// counted in the result; only a failure to list devices is returned as an error.
func (d *Dispatcher) Dispatch(ctx context.Context, userID string, msg push.Message) (Result, error) {
	devices, err := d.devices.ListDevicesByUser(ctx, userID)
	if err != nil {
		return Result{}, fmt.Errorf("failed to list devices: %w", err)
	}

	var result Result
	for _, device := range devices {
		if device.EndpointARN == "" {
			d.logger.Warn("device has no endpoint",
				"user_id", userID,
				"device_id", device.DeviceID,
			)
			result.Failed++
			d.metrics.IncPushDelivery("failed")
			continue
		}

		if err := d.pusher.Publish(ctx, device.EndpointARN, msg); err != nil {
			d.logger.Warn("push delivery failed",
				"user_id", userID,
				"endpoint_arn", device.EndpointARN,
				"error", err,
			)
			result.Failed++
			d.metrics.IncPushDelivery("failed")
			continue
		}

		result.Sent++
		d.metrics.IncPushDelivery("sent")
	}

	d.logger.Debug("notification dispatched",
		"user_id", userID,
		"sent", result.Sent,
		"failed", result.Failed,
	)
	return result, nil
}
