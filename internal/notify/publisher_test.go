package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublisher_Publish(t *testing.T) {
	t.Parallel()

	db, mock := redismock.NewClientMock()
	p := NewPublisher(db, testLogger(), nil)

	event := Event{
		ID:              "01JAAAAAAAAAAAAAAAAAAAAAAA",
		Type:            EventDirectMessage,
		RecipientUserID: "user-b",
		ThreadID:        "thread-1",
		SenderName:      "Alice",
		MessageExcerpt:  "hello",
		CreatedAt:       1760000000000,
	}
	data, err := json.Marshal(event)
	require.NoError(t, err)

	mock.ExpectXAdd(&redis.XAddArgs{
		Stream: StreamKey,
		MaxLen: MaxStreamLen,
		Approx: true,
		ID:     "*",
		Values: map[string]interface{}{"payload": string(data)},
	}).SetVal("1700000000000-0")

	id, err := p.Publish(context.Background(), event)
	require.NoError(t, err)
	assert.Equal(t, "1700000000000-0", id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPublisher_PublishError(t *testing.T) {
	t.Parallel()

	db, mock := redismock.NewClientMock()
	p := NewPublisher(db, testLogger(), nil)

	event := Event{ID: "e1", Type: EventQuizComplete, RecipientUserID: "u", QuestionID: "q", CreatedAt: 1}
	data, err := json.Marshal(event)
	require.NoError(t, err)

	mock.ExpectXAdd(&redis.XAddArgs{
		Stream: StreamKey,
		MaxLen: MaxStreamLen,
		Approx: true,
		ID:     "*",
		Values: map[string]interface{}{"payload": string(data)},
	}).SetErr(errors.New("connection refused"))

	_, err = p.Publish(context.Background(), event)
	assert.ErrorContains(t, err, "xadd")
}
