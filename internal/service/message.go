package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/questionconnection/backend/internal/metrics"
	"github.com/questionconnection/backend/internal/model"
	"github.com/questionconnection/backend/internal/notify"
	"github.com/questionconnection/backend/internal/repository"
)

// MessageStore persists threads and messages.
type MessageStore interface {
	SaveMessage(ctx context.Context, thread *model.Thread, msg *model.Message) (*model.Thread, error)
	GetThread(ctx context.Context, id string) (*model.Thread, error)
	ListThreadsByParticipant(ctx context.Context, userID string) ([]*model.Thread, error)
	ListMessages(ctx context.Context, threadID string) ([]*model.Message, error)
}

// BlockChecker reports whether one user has blocked another.
type BlockChecker interface {
	IsBlocked(ctx context.Context, blockerID, blockedID string) (bool, error)
}

// UserGetter loads user profiles.
type UserGetter interface {
	GetUserByID(ctx context.Context, id string) (*model.User, error)
}

// EventPublisher enqueues notification events without blocking.
type EventPublisher interface {
	PublishAsync(event notify.Event)
}

// MessageService handles direct messaging.
type MessageService struct {
	repo      MessageStore
	blocks    BlockChecker
	users     UserGetter
	publisher EventPublisher
	logger    *slog.Logger
	metrics   metrics.Recorder
	now       func() time.Time
}

// NewMessageService creates a MessageService. publisher may be nil, in which
// case no notifications are sent.
func NewMessageService(repo MessageStore, blocks BlockChecker, users UserGetter, publisher EventPublisher, logger *slog.Logger, recorder metrics.Recorder) *MessageService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &MessageService{
		repo:      repo,
		blocks:    blocks,
		users:     users,
		publisher: publisher,
		logger:    logger.With("component", "service.message"),
		metrics:   recorder,
		now:       time.Now,
	}
}

// SendMessageInput defines input for sending a direct message.
type SendMessageInput struct {
	CallerID      string
	SenderID      string
	RecipientID   string
	Text          string
	QuestionTitle string
}

// SendMessage stores a message in the thread between sender and recipient,
// creating the thread on first contact, and notifies the recipient.
func (s *MessageService) SendMessage(ctx context.Context, input SendMessageInput) (*model.Thread, error) {
	if input.CallerID == "" {
		return nil, ErrUnauthorized
	}
	if input.SenderID == "" || input.RecipientID == "" {
		return nil, invalid("senderId and recipientId are required")
	}
	if input.SenderID != input.CallerID {
		return nil, ErrForbidden
	}
	if strings.TrimSpace(input.Text) == "" {
		return nil, invalid("text must be a non-empty string")
	}

	if err := s.checkNotBlocked(ctx, input.SenderID, input.RecipientID); err != nil {
		return nil, err
	}

	now := s.now().UTC().Truncate(time.Second)
	threadID := model.ThreadID(input.SenderID, input.RecipientID)

	thread := &model.Thread{
		ID:            threadID,
		Participants:  model.SortedParticipants(input.SenderID, input.RecipientID),
		QuestionTitle: input.QuestionTitle,
		LastUpdated:   now,
	}
	msg := &model.Message{
		ID:        uuid.NewString(),
		ThreadID:  threadID,
		SenderID:  input.SenderID,
		Text:      input.Text,
		Timestamp: now,
	}

	saved, err := s.repo.SaveMessage(ctx, thread, msg)
	if err != nil {
		return nil, fmt.Errorf("failed to save message: %w", err)
	}

	s.metrics.IncMessageSent()
	s.logger.Info("message_sent",
		"thread_id", threadID,
		"sender_id", input.SenderID,
		"recipient_id", input.RecipientID,
	)

	s.notifyRecipient(ctx, input, threadID)

	return saved, nil
}

func (s *MessageService) checkNotBlocked(ctx context.Context, a, b string) error {
	for _, pair := range [][2]string{{a, b}, {b, a}} {
		blocked, err := s.blocks.IsBlocked(ctx, pair[0], pair[1])
		if err != nil {
			return fmt.Errorf("failed to check block: %w", err)
		}
		if blocked {
			return ErrBlocked
		}
	}
	return nil
}

// notifyRecipient publishes a DM event. Failures never fail the send.
func (s *MessageService) notifyRecipient(ctx context.Context, input SendMessageInput, threadID string) {
	if s.publisher == nil {
		return
	}

	senderName := model.DefaultNickname
	sender, err := s.users.GetUserByID(ctx, input.SenderID)
	switch {
	case err == nil:
		senderName = sender.DisplayName(model.DefaultNickname)
	case errors.Is(err, repository.ErrUserNotFound):
	default:
		s.logger.Warn("failed to load sender profile", "sender_id", input.SenderID, "error", err)
	}

	s.publisher.PublishAsync(notify.NewDirectMessageEvent(input.RecipientID, threadID, senderName, input.Text))
}

// ListThreads returns the caller's threads, most recently updated first.
func (s *MessageService) ListThreads(ctx context.Context, callerID, userID string) ([]*model.Thread, error) {
	if err := requireSelf(callerID, userID); err != nil {
		return nil, err
	}
	threads, err := s.repo.ListThreadsByParticipant(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list threads: %w", err)
	}
	return threads, nil
}

// ListMessages returns a thread's messages, oldest first. The caller must
// take part in the thread.
func (s *MessageService) ListMessages(ctx context.Context, callerID, threadID string) ([]*model.Message, error) {
	if callerID == "" {
		return nil, ErrUnauthorized
	}

	thread, err := s.repo.GetThread(ctx, threadID)
	if err != nil {
		if errors.Is(err, repository.ErrThreadNotFound) {
			return nil, ErrThreadNotFound
		}
		return nil, fmt.Errorf("failed to get thread: %w", err)
	}
	if !thread.HasParticipant(callerID) {
		return nil, ErrForbidden
	}

	messages, err := s.repo.ListMessages(ctx, threadID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return messages, nil
}
