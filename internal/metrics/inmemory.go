package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	HTTPRequests           uint64
	HTTPDurationTotalNs    int64
	ProfileImageUploads    map[string]uint64
	QuestionsCreated       uint64
	AnswersCorrect         uint64
	AnswersIncorrect       uint64
	MessagesSent           uint64
	NotificationsPublished map[string]uint64
	NotificationsProcessed map[string]uint64
	PushDeliveries         map[string]uint64
	NotificationQueueDepth int64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	httpRequests        uint64
	httpDurationTotalNs int64
	questionsCreated    uint64
	answersCorrect      uint64
	answersIncorrect    uint64
	messagesSent        uint64
	queueDepth          int64

	mu        sync.Mutex
	uploads   map[string]uint64
	published map[string]uint64
	processed map[string]uint64
	pushes    map[string]uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{
		uploads:   make(map[string]uint64),
		published: make(map[string]uint64),
		processed: make(map[string]uint64),
		pushes:    make(map[string]uint64),
	}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	return Snapshot{
		HTTPRequests:           atomic.LoadUint64(&m.httpRequests),
		HTTPDurationTotalNs:    atomic.LoadInt64(&m.httpDurationTotalNs),
		ProfileImageUploads:    copyCounts(m.uploads),
		QuestionsCreated:       atomic.LoadUint64(&m.questionsCreated),
		AnswersCorrect:         atomic.LoadUint64(&m.answersCorrect),
		AnswersIncorrect:       atomic.LoadUint64(&m.answersIncorrect),
		MessagesSent:           atomic.LoadUint64(&m.messagesSent),
		NotificationsPublished: copyCounts(m.published),
		NotificationsProcessed: copyCounts(m.processed),
		PushDeliveries:         copyCounts(m.pushes),
		NotificationQueueDepth: atomic.LoadInt64(&m.queueDepth),
	}
}

// ObserveHTTPRequest records a served request.
func (m *InMemoryRecorder) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	atomic.AddUint64(&m.httpRequests, 1)
	atomic.AddInt64(&m.httpDurationTotalNs, duration.Nanoseconds())
}

// IncProfileImageUpload counts an upload outcome.
func (m *InMemoryRecorder) IncProfileImageUpload(status string) {
	m.inc(m.uploads, status)
}

// IncQuestionCreated increments question created counter.
func (m *InMemoryRecorder) IncQuestionCreated() {
	atomic.AddUint64(&m.questionsCreated, 1)
}

// IncAnswerRecorded counts a recorded answer.
func (m *InMemoryRecorder) IncAnswerRecorded(correct bool) {
	if correct {
		atomic.AddUint64(&m.answersCorrect, 1)
		return
	}
	atomic.AddUint64(&m.answersIncorrect, 1)
}

// IncMessageSent increments message counter.
func (m *InMemoryRecorder) IncMessageSent() {
	atomic.AddUint64(&m.messagesSent, 1)
}

// IncNotificationPublished counts an enqueue outcome.
func (m *InMemoryRecorder) IncNotificationPublished(status string) {
	m.inc(m.published, status)
}

// IncNotificationProcessed counts a worker outcome.
func (m *InMemoryRecorder) IncNotificationProcessed(status string) {
	m.inc(m.processed, status)
}

// IncPushDelivery counts a per-device delivery outcome.
func (m *InMemoryRecorder) IncPushDelivery(status string) {
	m.inc(m.pushes, status)
}

// SetNotificationQueueDepth stores the latest queue depth.
func (m *InMemoryRecorder) SetNotificationQueueDepth(depth int64) {
	atomic.StoreInt64(&m.queueDepth, depth)
}

func (m *InMemoryRecorder) inc(counts map[string]uint64, status string) {
	m.mu.Lock()
	counts[status]++
	m.mu.Unlock()
}

func copyCounts(src map[string]uint64) map[string]uint64 {
	dst := make(map[string]uint64, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
