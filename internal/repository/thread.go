package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"

	"github.com/questionconnection/backend/internal/model"
)

// ErrThreadNotFound is returned when a thread does not exist.
var ErrThreadNotFound = errors.New("thread not found")

// SaveMessage stores msg in its thread, creating the thread first when it
// does not exist, and bumps the thread's last_updated to the message time.
// It returns the thread as stored after the write.
func (r *Repository) SaveMessage(ctx context.Context, thread *model.Thread, msg *model.Message) (*model.Thread, error) {
	var saved *model.Thread

	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		createThread := `
			INSERT INTO threads (id, participants, question_title, last_updated)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (id) DO NOTHING
		`
		if _, err := tx.Exec(ctx, createThread,
			thread.ID,
			pq.Array(thread.Participants),
			thread.QuestionTitle,
			thread.LastUpdated,
		); err != nil {
			return fmt.Errorf("create thread: %w", err)
		}

		insertMessage := `
			INSERT INTO messages (id, thread_id, sender_id, body, sent_at)
			VALUES ($1, $2, $3, $4, $5)
		`
		if _, err := tx.Exec(ctx, insertMessage,
			msg.ID,
			msg.ThreadID,
			msg.SenderID,
			msg.Text,
			msg.Timestamp,
		); err != nil {
			return fmt.Errorf("insert message: %w", err)
		}

		touch := `
			UPDATE threads SET last_updated = $2
			WHERE id = $1
			RETURNING id, participants, question_title, last_updated
		`
		t, err := scanThread(tx.QueryRow(ctx, touch, thread.ID, msg.Timestamp))
		if err != nil {
			return fmt.Errorf("update thread: %w", err)
		}
		saved = t
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save message: %w", err)
	}

	return saved, nil
}

// GetThread retrieves a thread by ID.
func (r *Repository) GetThread(ctx context.Context, id string) (*model.Thread, error) {
	query := `
		SELECT id, participants, question_title, last_updated
		FROM threads
		WHERE id = $1
	`

	thread, err := scanThread(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrThreadNotFound
		}
		return nil, fmt.Errorf("failed to get thread: %w", err)
	}

	return thread, nil
}

// ListThreadsByParticipant returns the user's threads, most recently updated first.
func (r *Repository) ListThreadsByParticipant(ctx context.Context, userID string) ([]*model.Thread, error) {
	query := `
		SELECT id, participants, question_title, last_updated
		FROM threads
		WHERE $1 = ANY(participants)
		ORDER BY last_updated DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list threads: %w", err)
	}
	defer rows.Close()

	threads := make([]*model.Thread, 0)
	for rows.Next() {
		thread, err := scanThread(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan thread: %w", err)
		}
		threads = append(threads, thread)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate threads: %w", err)
	}

	return threads, nil
}

// ListMessages returns a thread's messages, oldest first.
func (r *Repository) ListMessages(ctx context.Context, threadID string) ([]*model.Message, error) {
	query := `
		SELECT id, thread_id, sender_id, body, sent_at
		FROM messages
		WHERE thread_id = $1
		ORDER BY sent_at ASC, id ASC
	`

	rows, err := r.pool.Query(ctx, query, threadID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	messages := make([]*model.Message, 0)
	for rows.Next() {
		var m model.Message
		if err := rows.Scan(&m.ID, &m.ThreadID, &m.SenderID, &m.Text, &m.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, &m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate messages: %w", err)
	}

	return messages, nil
}

func scanThread(row pgx.Row) (*model.Thread, error) {
	var t model.Thread
	var participants []string

	if err := row.Scan(&t.ID, pq.Array(&participants), &t.QuestionTitle, &t.LastUpdated); err != nil {
		return nil, err
	}

	t.Participants = participants
	return &t, nil
}
