package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/questionconnection/backend/internal/model"
	"github.com/questionconnection/backend/internal/notify"
	"github.com/questionconnection/backend/internal/push"
	"github.com/questionconnection/backend/internal/repository"
)

// Quiz completion outcomes.
const (
	QuizNotPerfectMsg  = "Not a perfect score, no notification sent."
	QuizSolverIsAuthor = "Solver is author."
	QuizNotifyOffMsg   = "Author notification setting is off."
	QuizNoDevicesMsg   = "No devices found for author."
	QuizProcessedMsg   = "Quiz completion processed successfully."
)

// ErrAuthorNotFound is returned when a question's author has no profile.
var ErrAuthorNotFound = errors.New("author profile not found")

// QuestionGetter loads a single question.
type QuestionGetter interface {
	GetQuestionByID(ctx context.Context, id string) (*model.Question, error)
}

// NotificationDispatcher fans a message out to a user's devices.
type NotificationDispatcher interface {
	Dispatch(ctx context.Context, userID string, msg push.Message) (notify.Result, error)
}

// QuizService reacts to completed quizzes.
type QuizService struct {
	questions  QuestionGetter
	users      UserGetter
	dispatcher NotificationDispatcher
	logger     *slog.Logger
}

// NewQuizService creates a QuizService.
func NewQuizService(questions QuestionGetter, users UserGetter, dispatcher NotificationDispatcher, logger *slog.Logger) *QuizService {
	return &QuizService{
		questions:  questions,
		users:      users,
		dispatcher: dispatcher,
		logger:     logger.With("component", "service.quiz"),
	}
}

// CompleteQuizInput reports a finished quiz attempt.
type CompleteQuizInput struct {
	CallerID       string
	QuestionID     string
	Score          *int
	TotalQuestions *int
}

// CompleteQuizResult describes what was sent.
type CompleteQuizResult struct {
	Message string `json:"message"`
	Sent    int    `json:"sent"`
	Failed  int    `json:"failed"`
}

// CompleteQuiz notifies the author when the caller answered every item
// correctly and the author opted in. Delivery happens before it returns.
func (s *QuizService) CompleteQuiz(ctx context.Context, input CompleteQuizInput) (*CompleteQuizResult, error) {
	if input.CallerID == "" {
		return nil, ErrUnauthorized
	}
	if input.QuestionID == "" || input.Score == nil || input.TotalQuestions == nil {
		return nil, invalid("Missing required parameters (score, totalQuestions, or questionId)")
	}

	if *input.Score != *input.TotalQuestions {
		return &CompleteQuizResult{Message: QuizNotPerfectMsg}, nil
	}

	question, err := s.questions.GetQuestionByID(ctx, input.QuestionID)
	if err != nil {
		if errors.Is(err, repository.ErrQuestionNotFound) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}

	if question.AuthorID == input.CallerID {
		return &CompleteQuizResult{Message: QuizSolverIsAuthor}, nil
	}

	solverName := notify.DefaultSolverName
	solver, err := s.users.GetUserByID(ctx, input.CallerID)
	switch {
	case err == nil:
		solverName = solver.DisplayName(notify.DefaultSolverName)
	case errors.Is(err, repository.ErrUserNotFound):
	default:
		return nil, fmt.Errorf("failed to get solver profile: %w", err)
	}

	author, err := s.users.GetUserByID(ctx, question.AuthorID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrAuthorNotFound
		}
		return nil, fmt.Errorf("failed to get author profile: %w", err)
	}
	if !author.NotifyOnCorrectAnswer {
		return &CompleteQuizResult{Message: QuizNotifyOffMsg}, nil
	}

	event := notify.NewQuizCompleteEvent(question.AuthorID, question.ID, question.Title, solverName)
	result, err := s.dispatcher.Dispatch(ctx, question.AuthorID, event.Message())
	if err != nil {
		return nil, fmt.Errorf("failed to notify author: %w", err)
	}
	if result.Devices() == 0 {
		return &CompleteQuizResult{Message: QuizNoDevicesMsg}, nil
	}

	s.logger.Info("quiz_completion_notified",
		"question_id", question.ID,
		"author_id", question.AuthorID,
		"sent", result.Sent,
		"failed", result.Failed,
	)

	return &CompleteQuizResult{Message: QuizProcessedMsg, Sent: result.Sent, Failed: result.Failed}, nil
}
