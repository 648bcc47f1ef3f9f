// Package notify carries push notification events from producers to devices.
//
// Producers enqueue events on a Redis stream; the worker consumes them and
// hands each one to a Dispatcher, which fans out to every registered device of
// the recipient.
package notify

import (
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/questionconnection/backend/internal/push"
)

// EventType identifies what triggered a notification.
type EventType string

// Event types.
const (
	EventDirectMessage EventType = "DM"
	EventQuizComplete  EventType = "QuizComplete"
)

// MaxExcerptRunes bounds the message preview carried by DM events.
const MaxExcerptRunes = 100

// Quiz completion copy.
const (
	QuizCompleteTitle       = "おめでとうございます！"
	DefaultSolverName       = "あるユーザー"
	DefaultQuestionTitle    = "無題"
	quizCompleteBodyPattern = "%sさんが、あなたの質問『%s』に全問正解しました！"
)

// Event is the stream payload for a single notification.
type Event struct {
	ID              string    `json:"id"`
	Type            EventType `json:"type"`
	RecipientUserID string    `json:"recipientUserId"`
	ThreadID        string    `json:"threadId,omitempty"`
	QuestionID      string    `json:"questionId,omitempty"`
	SenderName      string    `json:"senderName,omitempty"`
	MessageExcerpt  string    `json:"messageExcerpt,omitempty"`
	QuestionTitle   string    `json:"questionTitle,omitempty"`
	CreatedAt       int64     `json:"t"` // Unix milliseconds
}

// NewDirectMessageEvent builds a DM event. The excerpt is truncated to
// MaxExcerptRunes runes.
func NewDirectMessageEvent(recipientID, threadID, senderName, text string) Event {
	return Event{
		ID:              NewEventID(),
		Type:            EventDirectMessage,
		RecipientUserID: recipientID,
		ThreadID:        threadID,
		SenderName:      senderName,
		MessageExcerpt:  Excerpt(text, MaxExcerptRunes),
		CreatedAt:       time.Now().UnixMilli(),
	}
}

// NewQuizCompleteEvent builds the event sent to an author when someone
// answers all of their quiz items correctly.
func NewQuizCompleteEvent(authorID, questionID, questionTitle, solverName string) Event {
	return Event{
		ID:              NewEventID(),
		Type:            EventQuizComplete,
		RecipientUserID: authorID,
		QuestionID:      questionID,
		SenderName:      solverName,
		QuestionTitle:   questionTitle,
		CreatedAt:       time.Now().UnixMilli(),
	}
}

// Validate checks the fields required to deliver the event.
func (e Event) Validate() error {
	if e.RecipientUserID == "" {
		return errors.New("recipientUserId is required")
	}
	switch e.Type {
	case EventDirectMessage:
		if e.ThreadID == "" {
			return errors.New("threadId is required for DM events")
		}
	case EventQuizComplete:
		if e.QuestionID == "" {
			return errors.New("questionId is required for QuizComplete events")
		}
	default:
		return fmt.Errorf("unknown event type %q", e.Type)
	}
	return nil
}

// Message renders the push message for the event.
func (e Event) Message() push.Message {
	switch e.Type {
	case EventQuizComplete:
		solver := e.SenderName
		if solver == "" {
			solver = DefaultSolverName
		}
		title := e.QuestionTitle
		if title == "" {
			title = DefaultQuestionTitle
		}
		return push.Message{
			Title: QuizCompleteTitle,
			Body:  fmt.Sprintf(quizCompleteBodyPattern, solver, title),
			CustomData: map[string]string{
				"type":       string(EventQuizComplete),
				"questionId": e.QuestionID,
			},
		}
	default:
		return push.Message{
			Title: e.SenderName,
			Body:  e.MessageExcerpt,
			CustomData: map[string]string{
				"type":     string(EventDirectMessage),
				"threadId": e.ThreadID,
			},
		}
	}
}

// Excerpt returns at most n runes of s.
func Excerpt(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// NewEventID returns a lexically sortable event id.
func NewEventID() string {
	return ulid.Make().String()
}
