package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// ObserveHTTPRequest is a no-op.
func (n *NoopRecorder) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {}

// IncProfileImageUpload is a no-op.
func (n *NoopRecorder) IncProfileImageUpload(status string) {}

// IncQuestionCreated is a no-op.
func (n *NoopRecorder) IncQuestionCreated() {}

// IncAnswerRecorded is a no-op.
func (n *NoopRecorder) IncAnswerRecorded(correct bool) {}

// IncMessageSent is a no-op.
func (n *NoopRecorder) IncMessageSent() {}

// IncNotificationPublished is a no-op.
func (n *NoopRecorder) IncNotificationPublished(status string) {}

// IncNotificationProcessed is a no-op.
func (n *NoopRecorder) IncNotificationProcessed(status string) {}

// IncPushDelivery is a no-op.
func (n *NoopRecorder) IncPushDelivery(status string) {}

// SetNotificationQueueDepth is a no-op.
func (n *NoopRecorder) SetNotificationQueueDepth(depth int64) {}
