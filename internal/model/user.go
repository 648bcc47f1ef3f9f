// Package model defines domain entities for the application.
package model

import "time"

// DefaultNickname is shown when a user has not set a nickname.
const DefaultNickname = "（未設定）"

// User is the profile record of an app user. ID is the identity provider subject.
type User struct {
	ID                      string     `json:"userId"`
	Nickname                string     `json:"nickname"`
	ProfileImageURL         string     `json:"profileImageUrl,omitempty"`
	ProfileImageChangeDates []string   `json:"profileImageChangeDates,omitempty"`
	LastProfileImageUpdate  *time.Time `json:"lastProfileImageUpdate,omitempty"`
	NotifyOnCorrectAnswer   bool       `json:"notifyOnCorrectAnswer"`
	CreatedAt               time.Time  `json:"createdAt"`
	UpdatedAt               time.Time  `json:"updatedAt"`
}

// DisplayName returns the nickname, or fallback when it is empty.
func (u *User) DisplayName(fallback string) string {
	if u == nil || u.Nickname == "" {
		return fallback
	}
	return u.Nickname
}
