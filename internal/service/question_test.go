package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/questionconnection/backend/internal/metrics"
	"github.com/questionconnection/backend/internal/model"
)

func validItems() []model.QuizItem {
	return []model.QuizItem{{
		ID:              "1",
		QuestionText:    " 1 + 1 = ? ",
		Choices:         []model.Choice{{ID: "a", Text: "2"}, {ID: "b", Text: "3"}},
		CorrectAnswerID: "a",
	}}
}

func TestCreateQuestion(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	recorder := metrics.NewInMemory()
	svc := NewQuestionService(store, testLogger(), recorder)
	now := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)
	svc.now = fixedClock(now)

	q, err := svc.CreateQuestion(context.Background(), CreateQuestionInput{
		CallerID:  "author",
		Title:     "  Arithmetic ",
		AuthorID:  "author",
		Tags:      []string{" math ", "", "  "},
		QuizItems: validItems(),
	})
	require.NoError(t, err)

	assert.Len(t, q.ID, 36)
	assert.Equal(t, "Arithmetic", q.Title)
	assert.Equal(t, []string{"math"}, q.Tags)
	assert.Equal(t, "1 + 1 = ?", q.QuizItems[0].QuestionText)
	assert.Equal(t, now, q.CreatedAt)
	assert.Len(t, q.ShareCode, shareCodeLength)
	for _, r := range q.ShareCode {
		assert.True(t, strings.ContainsRune(shareCodeAlphabet, r), "unexpected rune %q", r)
	}
	assert.Equal(t, uint64(1), recorder.Snapshot().QuestionsCreated)
	assert.Contains(t, store.questions, q.ID)
}

func TestCreateQuestion_KeepsSuppliedID(t *testing.T) {
	t.Parallel()

	svc := NewQuestionService(newMemStore(), testLogger(), nil)
	in := CreateQuestionInput{CallerID: "a", AuthorID: "a", Title: "t", QuestionID: "q-1", QuizItems: validItems()}

	q, err := svc.CreateQuestion(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "q-1", q.ID)

	_, err = svc.CreateQuestion(context.Background(), in)
	assert.ErrorIs(t, err, ErrQuestionExists)
}

func TestCreateQuestion_Validation(t *testing.T) {
	t.Parallel()

	twoItems := func() []model.QuizItem {
		items := validItems()
		return append(items, model.QuizItem{
			ID:              "2",
			QuestionText:    "?",
			Choices:         []model.Choice{{ID: "a", Text: "only"}},
			CorrectAnswerID: "a",
		})
	}

	tests := []struct {
		name    string
		input   CreateQuestionInput
		wantErr error
		wantMsg string
	}{
		{"missing title", CreateQuestionInput{CallerID: "a", AuthorID: "a", QuizItems: validItems()}, ErrValidation, "title must be a non-empty string."},
		{"missing author", CreateQuestionInput{CallerID: "a", Title: "t", QuizItems: validItems()}, ErrValidation, "authorId must be a non-empty string."},
		{"author mismatch", CreateQuestionInput{CallerID: "a", AuthorID: "b", Title: "t", QuizItems: validItems()}, ErrForbidden, ""},
		{"anonymous", CreateQuestionInput{AuthorID: "a", Title: "t", QuizItems: validItems()}, ErrUnauthorized, ""},
		{"no items", CreateQuestionInput{CallerID: "a", AuthorID: "a", Title: "t"}, ErrValidation, "quizItems must be a non-empty array."},
		{"too few choices", CreateQuestionInput{CallerID: "a", AuthorID: "a", Title: "t", QuizItems: twoItems()}, ErrValidation, "quizItems[2].choices must contain at least 2 items."},
		{"bad correct answer", CreateQuestionInput{CallerID: "a", AuthorID: "a", Title: "t", QuizItems: []model.QuizItem{{
			ID: "1", QuestionText: "?", Choices: []model.Choice{{ID: "a", Text: "x"}, {ID: "b", Text: "y"}}, CorrectAnswerID: "z",
		}}}, ErrValidation, "quizItems[1].correctAnswerId must match one of the choices' ids."},
		{"blank choice text", CreateQuestionInput{CallerID: "a", AuthorID: "a", Title: "t", QuizItems: []model.QuizItem{{
			ID: "1", QuestionText: "?", Choices: []model.Choice{{ID: "a", Text: "x"}, {ID: "b", Text: " "}}, CorrectAnswerID: "a",
		}}}, ErrValidation, "quizItems[1].choices[2].text must be a non-empty string."},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := NewQuestionService(newMemStore(), testLogger(), nil)
			_, err := svc.CreateQuestion(context.Background(), tt.input)
			require.ErrorIs(t, err, tt.wantErr)
			if tt.wantMsg != "" {
				assert.EqualError(t, err, tt.wantMsg)
			}
		})
	}
}

func TestListQuestionsByAuthor_NewestFirst(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	svc := NewQuestionService(store, testLogger(), nil)
	base := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

	for i, id := range []string{"old", "new"} {
		svc.now = fixedClock(base.Add(time.Duration(i) * time.Hour))
		_, err := svc.CreateQuestion(context.Background(), CreateQuestionInput{
			CallerID: "a", AuthorID: "a", Title: id, QuestionID: id, QuizItems: validItems(),
		})
		require.NoError(t, err)
	}

	got, err := svc.ListQuestionsByAuthor(context.Background(), "a")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "new", got[0].ID)
	assert.Equal(t, "old", got[1].ID)

	_, err = svc.GetQuestion(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrQuestionNotFound)
}
