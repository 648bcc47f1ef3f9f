//go:build integration

package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/questionconnection/backend/internal/model"
	"github.com/questionconnection/backend/internal/testutil"
)

func newTestEnv(t *testing.T) (context.Context, *Repository) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}

	ctx := context.Background()
	dbURL := testutil.RequireEnv(t, "DATABASE_URL")

	repo, err := New(ctx, dbURL)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(repo.Close)

	unlock, err := testutil.AcquireDBLock(ctx, repo.Pool())
	if err != nil {
		t.Fatalf("acquire db lock: %v", err)
	}
	t.Cleanup(func() {
		_ = unlock()
	})

	if err := testutil.ResetSchema(ctx, repo.Pool()); err != nil {
		t.Fatalf("reset schema: %v", err)
	}

	return ctx, repo
}

func TestIntegrationUser_GetMissing(t *testing.T) {
	ctx, repo := newTestEnv(t)

	_, err := repo.GetUserByID(ctx, "nobody")
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("GetUserByID error = %v, want ErrUserNotFound", err)
	}
}

func TestIntegrationUser_UpdateProfileImageUpserts(t *testing.T) {
	ctx, repo := newTestEnv(t)
	now := time.Now().UTC().Truncate(time.Microsecond)
	history := []string{"2026-10-01T00:00:00.000000Z", "2026-10-17T09:00:00.000000Z"}

	if err := repo.UpdateProfileImage(ctx, "u1", "https://b.s3.r.amazonaws.com/k", history, now); err != nil {
		t.Fatalf("UpdateProfileImage failed: %v", err)
	}

	user, err := repo.GetUserByID(ctx, "u1")
	if err != nil {
		t.Fatalf("GetUserByID failed: %v", err)
	}
	if user.ProfileImageURL != "https://b.s3.r.amazonaws.com/k" {
		t.Errorf("ProfileImageURL = %q", user.ProfileImageURL)
	}
	if len(user.ProfileImageChangeDates) != 2 || user.ProfileImageChangeDates[1] != history[1] {
		t.Errorf("ProfileImageChangeDates = %v, want %v", user.ProfileImageChangeDates, history)
	}
	if user.LastProfileImageUpdate == nil || !user.LastProfileImageUpdate.Equal(now) {
		t.Errorf("LastProfileImageUpdate = %v, want %v", user.LastProfileImageUpdate, now)
	}

	// Profile updates keep the image history.
	notify := true
	updated, err := repo.UpdateProfile(ctx, "u1", "", &notify, now.Add(time.Minute))
	if err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}
	if !updated.NotifyOnCorrectAnswer {
		t.Error("NotifyOnCorrectAnswer should be true")
	}
	if len(updated.ProfileImageChangeDates) != 2 {
		t.Errorf("history lost on profile update: %v", updated.ProfileImageChangeDates)
	}

	// A nil notify flag leaves the setting alone.
	updated, err = repo.UpdateProfile(ctx, "u1", "taro", nil, now.Add(2*time.Minute))
	if err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}
	if updated.Nickname != "taro" || !updated.NotifyOnCorrectAnswer {
		t.Errorf("unexpected profile after update: %+v", updated)
	}
}

func TestIntegrationQuestion_CreateGetList(t *testing.T) {
	ctx, repo := newTestEnv(t)

	older := testutil.NewTestQuestion(t, "author-1")
	older.CreatedAt = older.CreatedAt.Add(-time.Hour)
	newer := testutil.NewTestQuestion(t, "author-1")
	newer.ShareCode = "zzzzzzzzzz"

	if err := repo.CreateQuestion(ctx, older); err != nil {
		t.Fatalf("CreateQuestion failed: %v", err)
	}
	if err := repo.CreateQuestion(ctx, newer); err != nil {
		t.Fatalf("CreateQuestion failed: %v", err)
	}
	if err := repo.CreateQuestion(ctx, newer); !errors.Is(err, ErrQuestionExists) {
		t.Fatalf("duplicate CreateQuestion error = %v, want ErrQuestionExists", err)
	}

	got, err := repo.GetQuestionByID(ctx, older.ID)
	if err != nil {
		t.Fatalf("GetQuestionByID failed: %v", err)
	}
	if len(got.QuizItems) != 2 || got.QuizItems[1].CorrectAnswerID != "b" {
		t.Errorf("QuizItems round trip mismatch: %+v", got.QuizItems)
	}

	list, err := repo.ListQuestionsByAuthor(ctx, "author-1")
	if err != nil {
		t.Fatalf("ListQuestionsByAuthor failed: %v", err)
	}
	if len(list) != 2 || list[0].ID != newer.ID {
		t.Errorf("ListQuestionsByAuthor order = %+v, want newest first", list)
	}

	if _, err := repo.GetQuestionByID(ctx, "missing"); !errors.Is(err, ErrQuestionNotFound) {
		t.Errorf("GetQuestionByID error = %v, want ErrQuestionNotFound", err)
	}
}

func TestIntegrationThread_SaveMessageCreatesOnce(t *testing.T) {
	ctx, repo := newTestEnv(t)
	start := time.Now().UTC().Truncate(time.Second)

	thread, first := testutil.NewTestMessage(t, "alice", "bob", "hi", start)
	if _, err := repo.SaveMessage(ctx, thread, first); err != nil {
		t.Fatalf("SaveMessage failed: %v", err)
	}

	_, second := testutil.NewTestMessage(t, "bob", "alice", "hello", start.Add(time.Minute))
	saved, err := repo.SaveMessage(ctx, thread, second)
	if err != nil {
		t.Fatalf("SaveMessage failed: %v", err)
	}
	if !saved.LastUpdated.Equal(start.Add(time.Minute)) {
		t.Errorf("LastUpdated = %v, want %v", saved.LastUpdated, start.Add(time.Minute))
	}

	threads, err := repo.ListThreadsByParticipant(ctx, "bob")
	if err != nil {
		t.Fatalf("ListThreadsByParticipant failed: %v", err)
	}
	if len(threads) != 1 {
		t.Fatalf("expected 1 thread, got %d", len(threads))
	}

	messages, err := repo.ListMessages(ctx, thread.ID)
	if err != nil {
		t.Fatalf("ListMessages failed: %v", err)
	}
	if len(messages) != 2 || messages[0].Text != "hi" {
		t.Errorf("ListMessages = %+v, want oldest first", messages)
	}
}

func TestIntegrationBlocksAndDevices(t *testing.T) {
	ctx, repo := newTestEnv(t)
	now := time.Now().UTC()

	if err := repo.CreateBlock(ctx, "a", "b", now); err != nil {
		t.Fatalf("CreateBlock failed: %v", err)
	}
	if err := repo.CreateBlock(ctx, "a", "b", now); err != nil {
		t.Fatalf("repeated CreateBlock failed: %v", err)
	}

	blocked, err := repo.IsBlocked(ctx, "a", "b")
	if err != nil || !blocked {
		t.Fatalf("IsBlocked(a, b) = %v, %v", blocked, err)
	}
	reverse, err := repo.IsBlocked(ctx, "b", "a")
	if err != nil || reverse {
		t.Fatalf("IsBlocked(b, a) = %v, %v", reverse, err)
	}

	if err := repo.DeleteBlock(ctx, "a", "b"); err != nil {
		t.Fatalf("DeleteBlock failed: %v", err)
	}
	ids, err := repo.ListBlockedIDs(ctx, "a")
	if err != nil || len(ids) != 0 {
		t.Fatalf("ListBlockedIDs = %v, %v", ids, err)
	}

	device := &model.Device{UserID: "a", DeviceID: "tok", EndpointARN: "arn:aws:sns:x:1:endpoint/APNS/app/1", RawToken: "tok", UpdatedAt: now}
	if err := repo.UpsertDevice(ctx, device); err != nil {
		t.Fatalf("UpsertDevice failed: %v", err)
	}
	device.EndpointARN = "arn:aws:sns:x:1:endpoint/APNS/app/2"
	if err := repo.UpsertDevice(ctx, device); err != nil {
		t.Fatalf("UpsertDevice (update) failed: %v", err)
	}
	devices, err := repo.ListDevicesByUser(ctx, "a")
	if err != nil || len(devices) != 1 || devices[0].EndpointARN != device.EndpointARN {
		t.Fatalf("ListDevicesByUser = %+v, %v", devices, err)
	}

	answered, err := repo.HasAnswered(ctx, "a", "q1")
	if err != nil || answered {
		t.Fatalf("HasAnswered = %v, %v", answered, err)
	}
}
