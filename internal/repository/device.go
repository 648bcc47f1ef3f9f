package repository

import (
	"context"
	"fmt"

	"github.com/questionconnection/backend/internal/model"
)

// UpsertDevice stores a device registration keyed by (user_id, device_id).
func (r *Repository) UpsertDevice(ctx context.Context, d *model.Device) error {
	query := `
		INSERT INTO devices (user_id, device_id, endpoint_arn, raw_token, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, device_id) DO UPDATE SET
			endpoint_arn = EXCLUDED.endpoint_arn,
			raw_token = EXCLUDED.raw_token,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.pool.Exec(ctx, query, d.UserID, d.DeviceID, d.EndpointARN, d.RawToken, d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert device: %w", err)
	}

	return nil
}

// ListDevicesByUser returns every registered device of a user.
func (r *Repository) ListDevicesByUser(ctx context.Context, userID string) ([]*model.Device, error) {
	query := `
		SELECT user_id, device_id, endpoint_arn, raw_token, updated_at
		FROM devices
		WHERE user_id = $1
		ORDER BY updated_at DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}
	defer rows.Close()

	devices := make([]*model.Device, 0)
	for rows.Next() {
		var d model.Device
		if err := rows.Scan(&d.UserID, &d.DeviceID, &d.EndpointARN, &d.RawToken, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan device: %w", err)
		}
		devices = append(devices, &d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate devices: %w", err)
	}

	return devices, nil
}
