package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/questionconnection/backend/internal/metrics"
	"github.com/questionconnection/backend/internal/model"
	"github.com/questionconnection/backend/internal/repository"
)

const (
	shareCodeLength   = 10
	shareCodeAlphabet = "23456789abcdefghjkmnpqrstuvwxyz"
	minChoices        = 2
)

// QuestionStore persists questions.
type QuestionStore interface {
	CreateQuestion(ctx context.Context, q *model.Question) error
	GetQuestionByID(ctx context.Context, id string) (*model.Question, error)
	ListQuestionsByAuthor(ctx context.Context, authorID string) ([]model.QuestionSummary, error)
}

// QuestionService handles quiz authoring.
type QuestionService struct {
	repo    QuestionStore
	logger  *slog.Logger
	metrics metrics.Recorder
	now     func() time.Time
}

// NewQuestionService creates a QuestionService.
func NewQuestionService(repo QuestionStore, logger *slog.Logger, recorder metrics.Recorder) *QuestionService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &QuestionService{
		repo:    repo,
		logger:  logger.With("component", "service.question"),
		metrics: recorder,
		now:     time.Now,
	}
}

// CreateQuestionInput defines input for creating a question.
type CreateQuestionInput struct {
	CallerID        string
	QuestionID      string
	Title           string
	AuthorID        string
	Purpose         string
	Tags            []string
	Remarks         string
	DMInviteMessage string
	QuizItems       []model.QuizItem
}

// CreateQuestion validates and stores a new quiz.
func (s *QuestionService) CreateQuestion(ctx context.Context, input CreateQuestionInput) (*model.Question, error) {
	if input.CallerID == "" {
		return nil, ErrUnauthorized
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, invalid("title must be a non-empty string.")
	}
	authorID := strings.TrimSpace(input.AuthorID)
	if authorID == "" {
		return nil, invalid("authorId must be a non-empty string.")
	}
	if authorID != input.CallerID {
		return nil, ErrForbidden
	}

	items, err := validateQuizItems(input.QuizItems)
	if err != nil {
		return nil, err
	}

	id := strings.TrimSpace(input.QuestionID)
	if id == "" {
		id = uuid.NewString()
	}

	shareCode, err := generateShareCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate share code: %w", err)
	}

	q := &model.Question{
		ID:              id,
		Title:           title,
		AuthorID:        authorID,
		Purpose:         strings.TrimSpace(input.Purpose),
		Tags:            normalizeTags(input.Tags),
		Remarks:         strings.TrimSpace(input.Remarks),
		DMInviteMessage: strings.TrimSpace(input.DMInviteMessage),
		QuizItems:       items,
		ShareCode:       shareCode,
		CreatedAt:       s.now().UTC().Truncate(time.Microsecond),
	}

	if err := s.repo.CreateQuestion(ctx, q); err != nil {
		if errors.Is(err, repository.ErrQuestionExists) {
			return nil, ErrQuestionExists
		}
		return nil, fmt.Errorf("failed to create question: %w", err)
	}

	s.metrics.IncQuestionCreated()
	s.logger.Info("question_created",
		"question_id", q.ID,
		"author_id", q.AuthorID,
		"items", len(q.QuizItems),
	)

	return q, nil
}

// GetQuestion returns a question by ID.
func (s *QuestionService) GetQuestion(ctx context.Context, id string) (*model.Question, error) {
	q, err := s.repo.GetQuestionByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrQuestionNotFound) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}
	return q, nil
}

// ListQuestionsByAuthor returns the author's questions, newest first.
func (s *QuestionService) ListQuestionsByAuthor(ctx context.Context, authorID string) ([]model.QuestionSummary, error) {
	if strings.TrimSpace(authorID) == "" {
		return nil, invalid("userId is required.")
	}
	summaries, err := s.repo.ListQuestionsByAuthor(ctx, authorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	return summaries, nil
}

// validateQuizItems checks every item and returns trimmed copies.
// Positions in messages are 1-based.
func validateQuizItems(items []model.QuizItem) ([]model.QuizItem, error) {
	if len(items) == 0 {
		return nil, invalid("quizItems must be a non-empty array.")
	}

	out := make([]model.QuizItem, 0, len(items))
	for i, item := range items {
		n := i + 1
		id := strings.TrimSpace(item.ID)
		if id == "" {
			return nil, invalid("quizItems[%d].id must be a non-empty string.", n)
		}
		text := strings.TrimSpace(item.QuestionText)
		if text == "" {
			return nil, invalid("quizItems[%d].questionText must be a non-empty string.", n)
		}
		if len(item.Choices) < minChoices {
			return nil, invalid("quizItems[%d].choices must contain at least %d items.", n, minChoices)
		}

		choices := make([]model.Choice, 0, len(item.Choices))
		for j, ch := range item.Choices {
			cid := strings.TrimSpace(ch.ID)
			if cid == "" {
				return nil, invalid("quizItems[%d].choices[%d].id must be a non-empty string.", n, j+1)
			}
			ctext := strings.TrimSpace(ch.Text)
			if ctext == "" {
				return nil, invalid("quizItems[%d].choices[%d].text must be a non-empty string.", n, j+1)
			}
			choices = append(choices, model.Choice{ID: cid, Text: ctext})
		}

		validated := model.QuizItem{
			ID:              id,
			QuestionText:    text,
			Choices:         choices,
			CorrectAnswerID: strings.TrimSpace(item.CorrectAnswerID),
		}
		if validated.CorrectAnswerID == "" {
			return nil, invalid("quizItems[%d].correctAnswerId must be a non-empty string.", n)
		}
		if !validated.HasChoice(validated.CorrectAnswerID) {
			return nil, invalid("quizItems[%d].correctAnswerId must match one of the choices' ids.", n)
		}
		out = append(out, validated)
	}
	return out, nil
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// generateShareCode draws shareCodeLength characters from shareCodeAlphabet.
func generateShareCode() (string, error) {
	max := big.NewInt(int64(len(shareCodeAlphabet)))
	b := make([]byte, shareCodeLength)
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = shareCodeAlphabet[n.Int64()]
	}
	return string(b), nil
}
