package repository

import (
	"context"
	"fmt"

	"github.com/questionconnection/backend/internal/model"
)

// CreateAnswerLog stores a submitted answer.
func (r *Repository) CreateAnswerLog(ctx context.Context, log *model.AnswerLog) error {
	query := `
		INSERT INTO answer_logs (id, question_id, user_id, selected_choice_id, is_correct, answered_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		log.ID,
		log.QuestionID,
		log.UserID,
		log.SelectedChoiceID,
		log.IsCorrect,
		log.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to create answer log: %w", err)
	}

	return nil
}

// HasAnswered reports whether the user has logged any answer for the question.
func (r *Repository) HasAnswered(ctx context.Context, userID, questionID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM answer_logs WHERE user_id = $1 AND question_id = $2
		)
	`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, userID, questionID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check answer status: %w", err)
	}

	return exists, nil
}

// CountAnswers returns the total and correct answer counts for a user.
func (r *Repository) CountAnswers(ctx context.Context, userID string) (total, correct int, err error) {
	query := `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE is_correct)
		FROM answer_logs
		WHERE user_id = $1
	`

	if err := r.pool.QueryRow(ctx, query, userID).Scan(&total, &correct); err != nil {
		return 0, 0, fmt.Errorf("failed to count answers: %w", err)
	}

	return total, correct, nil
}
