package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/questionconnection/backend/internal/metrics"
	"github.com/questionconnection/backend/internal/model"
)

// AnswerStore persists answer logs.
type AnswerStore interface {
	CreateAnswerLog(ctx context.Context, log *model.AnswerLog) error
	HasAnswered(ctx context.Context, userID, questionID string) (bool, error)
	CountAnswers(ctx context.Context, userID string) (total, correct int, err error)
}

// AnswerService records answers and derives statistics.
type AnswerService struct {
	repo    AnswerStore
	logger  *slog.Logger
	metrics metrics.Recorder
	now     func() time.Time
}

// NewAnswerService creates an AnswerService.
func NewAnswerService(repo AnswerStore, logger *slog.Logger, recorder metrics.Recorder) *AnswerService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &AnswerService{
		repo:    repo,
		logger:  logger.With("component", "service.answer"),
		metrics: recorder,
		now:     time.Now,
	}
}

// LogAnswerInput defines input for logging an answer. IsCorrect is a pointer
// so that a missing value can be rejected.
type LogAnswerInput struct {
	CallerID         string
	UserID           string
	QuestionID       string
	SelectedChoiceID string
	IsCorrect        *bool
}

// LogAnswer stores one answer. UserID defaults to the caller.
func (s *AnswerService) LogAnswer(ctx context.Context, input LogAnswerInput) (*model.AnswerLog, error) {
	if input.CallerID == "" {
		return nil, ErrUnauthorized
	}
	userID := input.UserID
	if userID == "" {
		userID = input.CallerID
	}
	if userID != input.CallerID {
		return nil, ErrForbidden
	}

	questionID := strings.TrimSpace(input.QuestionID)
	choiceID := strings.TrimSpace(input.SelectedChoiceID)
	if questionID == "" || choiceID == "" || input.IsCorrect == nil {
		return nil, invalid("Missing required fields: questionId, selectedChoiceId, isCorrect")
	}

	log := &model.AnswerLog{
		ID:               uuid.NewString(),
		QuestionID:       questionID,
		UserID:           userID,
		SelectedChoiceID: choiceID,
		IsCorrect:        *input.IsCorrect,
		Timestamp:        s.now().UTC().Truncate(time.Microsecond),
	}

	if err := s.repo.CreateAnswerLog(ctx, log); err != nil {
		return nil, fmt.Errorf("failed to log answer: %w", err)
	}

	s.metrics.IncAnswerRecorded(log.IsCorrect)
	s.logger.Debug("answer_logged", "question_id", log.QuestionID, "user_id", log.UserID)

	return log, nil
}

// HasAnswered reports whether callerID has answered questionID.
func (s *AnswerService) HasAnswered(ctx context.Context, callerID, questionID string) (bool, error) {
	if callerID == "" {
		return false, ErrUnauthorized
	}
	if strings.TrimSpace(questionID) == "" {
		return false, invalid("questionId is required")
	}
	answered, err := s.repo.HasAnswered(ctx, callerID, questionID)
	if err != nil {
		return false, fmt.Errorf("failed to check answer status: %w", err)
	}
	return answered, nil
}

// GetUserStats returns a user's answer totals and accuracy.
func (s *AnswerService) GetUserStats(ctx context.Context, userID string) (model.UserStats, error) {
	if strings.TrimSpace(userID) == "" {
		return model.UserStats{}, invalid("userId is required")
	}
	total, correct, err := s.repo.CountAnswers(ctx, userID)
	if err != nil {
		return model.UserStats{}, fmt.Errorf("failed to count answers: %w", err)
	}
	return model.NewUserStats(userID, total, correct), nil
}
