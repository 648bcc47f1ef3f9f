package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/questionconnection/backend/internal/model"
	"github.com/questionconnection/backend/internal/notify"
	"github.com/questionconnection/backend/internal/push"
	"github.com/questionconnection/backend/internal/repository"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// memStore is an in-memory stand-in for repository.Repository.
type memStore struct {
	mu        sync.Mutex
	users     map[string]*model.User
	questions map[string]*model.Question
	answers   []*model.AnswerLog
	threads   map[string]*model.Thread
	messages  map[string][]*model.Message
	blocks    map[[2]string]time.Time
	devices   map[string][]*model.Device

	err error
}

func newMemStore() *memStore {
	return &memStore{
		users:     make(map[string]*model.User),
		questions: make(map[string]*model.Question),
		threads:   make(map[string]*model.Thread),
		messages:  make(map[string][]*model.Message),
		blocks:    make(map[[2]string]time.Time),
		devices:   make(map[string][]*model.Device),
	}
}

func (m *memStore) GetUserByID(_ context.Context, id string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	u, ok := m.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memStore) UpdateProfileImage(_ context.Context, id, imageURL string, changeDates []string, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	u, ok := m.users[id]
	if !ok {
		u = &model.User{ID: id, CreatedAt: now}
		m.users[id] = u
	}
	u.ProfileImageURL = imageURL
	u.ProfileImageChangeDates = append([]string(nil), changeDates...)
	u.LastProfileImageUpdate = &now
	u.UpdatedAt = now
	return nil
}

func (m *memStore) UpdateProfile(_ context.Context, id, nickname string, notify *bool, now time.Time) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	u, ok := m.users[id]
	if !ok {
		u = &model.User{ID: id, CreatedAt: now}
		m.users[id] = u
	}
	u.Nickname = nickname
	if notify != nil {
		u.NotifyOnCorrectAnswer = *notify
	}
	u.UpdatedAt = now
	cp := *u
	return &cp, nil
}

func (m *memStore) CreateQuestion(_ context.Context, q *model.Question) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if _, ok := m.questions[q.ID]; ok {
		return repository.ErrQuestionExists
	}
	m.questions[q.ID] = q
	return nil
}

func (m *memStore) GetQuestionByID(_ context.Context, id string) (*model.Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	q, ok := m.questions[id]
	if !ok {
		return nil, repository.ErrQuestionNotFound
	}
	return q, nil
}

func (m *memStore) ListQuestionsByAuthor(_ context.Context, authorID string) ([]model.QuestionSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.QuestionSummary, 0)
	for _, q := range m.questions {
		if q.AuthorID == authorID {
			out = append(out, model.QuestionSummary{ID: q.ID, Title: q.Title, Tags: q.Tags, ShareCode: q.ShareCode, CreatedAt: q.CreatedAt})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memStore) CreateAnswerLog(_ context.Context, log *model.AnswerLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.answers = append(m.answers, log)
	return nil
}

func (m *memStore) HasAnswered(_ context.Context, userID, questionID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.answers {
		if a.UserID == userID && a.QuestionID == questionID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) CountAnswers(_ context.Context, userID string) (int, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var total, correct int
	for _, a := range m.answers {
		if a.UserID != userID {
			continue
		}
		total++
		if a.IsCorrect {
			correct++
		}
	}
	return total, correct, nil
}

func (m *memStore) SaveMessage(_ context.Context, thread *model.Thread, msg *model.Message) (*model.Thread, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	stored, ok := m.threads[thread.ID]
	if !ok {
		cp := *thread
		stored = &cp
		m.threads[thread.ID] = stored
	}
	stored.LastUpdated = msg.Timestamp
	m.messages[thread.ID] = append(m.messages[thread.ID], msg)
	cp := *stored
	return &cp, nil
}

func (m *memStore) GetThread(_ context.Context, id string) (*model.Thread, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.threads[id]
	if !ok {
		return nil, repository.ErrThreadNotFound
	}
	return t, nil
}

func (m *memStore) ListThreadsByParticipant(_ context.Context, userID string) ([]*model.Thread, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.Thread, 0)
	for _, t := range m.threads {
		if t.HasParticipant(userID) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastUpdated.After(out[j].LastUpdated) })
	return out, nil
}

func (m *memStore) ListMessages(_ context.Context, threadID string) ([]*model.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*model.Message(nil), m.messages[threadID]...), nil
}

func (m *memStore) CreateBlock(_ context.Context, blockerID, blockedID string, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	key := [2]string{blockerID, blockedID}
	if _, ok := m.blocks[key]; !ok {
		m.blocks[key] = now
	}
	return nil
}

func (m *memStore) DeleteBlock(_ context.Context, blockerID, blockedID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.blocks, [2]string{blockerID, blockedID})
	return nil
}

func (m *memStore) ListBlockedIDs(_ context.Context, blockerID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []string
	for k := range m.blocks {
		if k[0] == blockerID {
			ids = append(ids, k[1])
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (m *memStore) IsBlocked(_ context.Context, blockerID, blockedID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	_, ok := m.blocks[[2]string{blockerID, blockedID}]
	return ok, nil
}

func (m *memStore) UpsertDevice(_ context.Context, d *model.Device) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	list := m.devices[d.UserID]
	for i, existing := range list {
		if existing.DeviceID == d.DeviceID {
			list[i] = d
			return nil
		}
	}
	m.devices[d.UserID] = append(list, d)
	return nil
}

// fakeBlobs records blob operations.
type fakeBlobs struct {
	mu        sync.Mutex
	objects   map[string][]byte
	deleted   []string
	putErr    error
	deleteErr error
}

func newFakeBlobs() *fakeBlobs {
	return &fakeBlobs{objects: make(map[string][]byte)}
}

func (f *fakeBlobs) Put(_ context.Context, key string, data []byte, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.putErr != nil {
		return f.putErr
	}
	f.objects[key] = append([]byte(nil), data...)
	return nil
}

func (f *fakeBlobs) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, key)
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.objects, key)
	return nil
}

func (f *fakeBlobs) URL(key string) string {
	return "https://test-bucket.s3.ap-northeast-1.amazonaws.com/" + key
}

// fakeProfileCache is a map-backed ProfileCache.
type fakeProfileCache struct {
	mu          sync.Mutex
	entries     map[string]*model.User
	invalidated []string
}

func newFakeProfileCache() *fakeProfileCache {
	return &fakeProfileCache{entries: make(map[string]*model.User)}
}

func (f *fakeProfileCache) GetProfile(_ context.Context, userID string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.entries[userID], nil
}

func (f *fakeProfileCache) SetProfile(_ context.Context, user *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[user.ID] = user
	return nil
}

func (f *fakeProfileCache) DeleteProfile(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.entries, userID)
	f.invalidated = append(f.invalidated, userID)
	return nil
}

// fakePublisher captures published events.
type fakePublisher struct {
	mu     sync.Mutex
	events []notify.Event
}

func (f *fakePublisher) PublishAsync(event notify.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
}

// fakeRegistrar returns a fixed endpoint ARN.
type fakeRegistrar struct {
	arn   string
	err   error
	calls int
}

func (f *fakeRegistrar) RegisterEndpoint(_ context.Context, _, _ string) (string, error) {
	f.calls++
	return f.arn, f.err
}

// fakeDispatcher captures dispatched messages.
type fakeDispatcher struct {
	userID string
	msg    push.Message
	result notify.Result
	err    error
	calls  int
}

func (f *fakeDispatcher) Dispatch(_ context.Context, userID string, msg push.Message) (notify.Result, error) {
	f.calls++
	f.userID = userID
	f.msg = msg
	return f.result, f.err
}

var errBoom = errors.New("boom")
