// Package testutil holds helpers shared by integration tests.
package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/questionconnection/backend/internal/model"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

const advisoryLockID int64 = 731731

// AcquireDBLock grabs a global advisory lock to serialize DB tests.
func AcquireDBLock(ctx context.Context, pool *pgxpool.Pool) (func() error, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", advisoryLockID); err != nil {
		conn.Release()
		return nil, fmt.Errorf("acquire advisory lock: %w", err)
	}

	unlock := func() error {
		defer conn.Release()
		if _, err := conn.Exec(ctx, "SELECT pg_advisory_unlock($1)", advisoryLockID); err != nil {
			return fmt.Errorf("release advisory lock: %w", err)
		}
		return nil
	}

	return unlock, nil
}

// ResetSchema drops and recreates every table from the init migration.
func ResetSchema(ctx context.Context, pool *pgxpool.Pool) error {
	return applyMigration(ctx, pool, "000001_init")
}

func applyMigration(ctx context.Context, pool *pgxpool.Pool, name string) error {
	root, err := ProjectRoot()
	if err != nil {
		return err
	}

	for _, direction := range []string{"down", "up"} {
		path := filepath.Join(root, "migrations", name+"."+direction+".sql")
		sql, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s migration: %w", direction, err)
		}
		if _, err := pool.Exec(ctx, string(sql)); err != nil {
			return fmt.Errorf("apply %s migration: %w", direction, err)
		}
	}

	return nil
}

// FlushRedis clears the current Redis database.
func FlushRedis(ctx context.Context, client *redis.Client) error {
	return client.FlushDB(ctx).Err()
}

// ProjectRoot returns the project root directory.
func ProjectRoot() (string, error) {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("failed to resolve testutil path")
	}
	root := filepath.Clean(filepath.Join(filepath.Dir(filename), "..", ".."))
	return root, nil
}

// ============================================================================
// Test Data Factories
// ============================================================================

// NewTestQuestion creates a two-item quiz owned by authorID.
func NewTestQuestion(t testing.TB, authorID string) *model.Question {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &model.Question{
		ID:       UniqueID("q"),
		Title:    "Test Quiz",
		AuthorID: authorID,
		Tags:     []string{"go", "test"},
		QuizItems: []model.QuizItem{
			{
				ID:              "item-1",
				QuestionText:    "1 + 1 = ?",
				Choices:         []model.Choice{{ID: "a", Text: "2"}, {ID: "b", Text: "3"}},
				CorrectAnswerID: "a",
			},
			{
				ID:              "item-2",
				QuestionText:    "2 * 3 = ?",
				Choices:         []model.Choice{{ID: "a", Text: "5"}, {ID: "b", Text: "6"}},
				CorrectAnswerID: "b",
			},
		},
		ShareCode: fmt.Sprintf("%010d", now.UnixNano()%10000000000),
		CreatedAt: now,
	}
}

// NewTestMessage creates a message from senderID to recipientID along with its thread.
func NewTestMessage(t testing.TB, senderID, recipientID, text string, at time.Time) (*model.Thread, *model.Message) {
	t.Helper()
	at = at.UTC().Truncate(time.Second)
	threadID := model.ThreadID(senderID, recipientID)
	thread := &model.Thread{
		ID:           threadID,
		Participants: model.SortedParticipants(senderID, recipientID),
		LastUpdated:  at,
	}
	msg := &model.Message{
		ID:        UniqueID("msg"),
		ThreadID:  threadID,
		SenderID:  senderID,
		Text:      text,
		Timestamp: at,
	}
	return thread, msg
}

// UniqueID generates a unique ID for tests.
func UniqueID(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}
