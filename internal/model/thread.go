package model

import (
	"crypto/md5"
	"encoding/hex"
	"slices"
	"time"
)

// MessageTimeLayout is the second-precision layout used for thread and message timestamps.
const MessageTimeLayout = "2006-01-02T15:04:05Z"

// Thread is a direct-message conversation between two users.
type Thread struct {
	ID            string    `json:"threadId"`
	Participants  []string  `json:"participants"`
	QuestionTitle string    `json:"questionTitle,omitempty"`
	LastUpdated   time.Time `json:"lastUpdated"`
}

// HasParticipant reports whether userID takes part in the thread.
func (t *Thread) HasParticipant(userID string) bool {
	return slices.Contains(t.Participants, userID)
}

// Message is a single direct message inside a thread.
type Message struct {
	ID        string    `json:"messageId"`
	ThreadID  string    `json:"threadId"`
	SenderID  string    `json:"senderId"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// ThreadID derives the stable thread identifier for a pair of users.
// The order of the arguments does not matter.
func ThreadID(a, b string) string {
	ids := SortedParticipants(a, b)
	sum := md5.Sum([]byte(ids[0] + ids[1]))
	return hex.EncodeToString(sum[:])
}

// SortedParticipants returns the two user IDs in ascending order.
func SortedParticipants(a, b string) []string {
	if b < a {
		return []string{b, a}
	}
	return []string{a, b}
}
