package model

import "time"

// Device is a push-notification registration for a user.
// DeviceID is the raw APNs token.
type Device struct {
	UserID      string    `json:"userId"`
	DeviceID    string    `json:"deviceId"`
	EndpointARN string    `json:"endpointArn"`
	RawToken    string    `json:"rawToken"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Block records that BlockerID has blocked BlockedID.
type Block struct {
	BlockerID string    `json:"blockerId"`
	BlockedID string    `json:"blockedId"`
	CreatedAt time.Time `json:"createdAt"`
}
