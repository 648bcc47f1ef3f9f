package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"

	"github.com/questionconnection/backend/internal/model"
)

// Question repository errors.
var (
	ErrQuestionNotFound = errors.New("question not found")
	ErrQuestionExists   = errors.New("question already exists")
)

// CreateQuestion inserts a new question.
func (r *Repository) CreateQuestion(ctx context.Context, q *model.Question) error {
	items, err := json.Marshal(q.QuizItems)
	if err != nil {
		return fmt.Errorf("failed to encode quiz items: %w", err)
	}

	query := `
		INSERT INTO questions (id, title, author_id, purpose, tags, remarks, dm_invite_message, quiz_items, share_code, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	tags := q.Tags
	if tags == nil {
		tags = []string{}
	}

	_, err = r.pool.Exec(ctx, query,
		q.ID,
		q.Title,
		q.AuthorID,
		q.Purpose,
		pq.Array(tags),
		q.Remarks,
		q.DMInviteMessage,
		items,
		q.ShareCode,
		q.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrQuestionExists
		}
		return fmt.Errorf("failed to create question: %w", err)
	}

	return nil
}

// GetQuestionByID retrieves a question with its quiz items.
func (r *Repository) GetQuestionByID(ctx context.Context, id string) (*model.Question, error) {
	query := `
		SELECT id, title, author_id, purpose, tags, remarks, dm_invite_message, quiz_items, share_code, created_at
		FROM questions
		WHERE id = $1
	`

	var q model.Question
	var tags []string
	var items []byte

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&q.ID,
		&q.Title,
		&q.AuthorID,
		&q.Purpose,
		pq.Array(&tags),
		&q.Remarks,
		&q.DMInviteMessage,
		&items,
		&q.ShareCode,
		&q.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}

	if err := json.Unmarshal(items, &q.QuizItems); err != nil {
		return nil, fmt.Errorf("failed to decode quiz items: %w", err)
	}
	q.Tags = tags

	return &q, nil
}

// ListQuestionsByAuthor returns summaries of an author's questions, newest first.
func (r *Repository) ListQuestionsByAuthor(ctx context.Context, authorID string) ([]model.QuestionSummary, error) {
	query := `
		SELECT id, title, tags, share_code, created_at
		FROM questions
		WHERE author_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.pool.Query(ctx, query, authorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	defer rows.Close()

	summaries := make([]model.QuestionSummary, 0)
	for rows.Next() {
		var s model.QuestionSummary
		var tags []string
		if err := rows.Scan(&s.ID, &s.Title, pq.Array(&tags), &s.ShareCode, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		s.Tags = tags
		summaries = append(summaries, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate questions: %w", err)
	}

	return summaries, nil
}
