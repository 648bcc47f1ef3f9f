// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus or keep them in memory.
type Recorder interface {
	// HTTP metrics
	ObserveHTTPRequest(method, route string, status int, duration time.Duration)

	// Domain metrics
	IncProfileImageUpload(status string) // status: "success", "rate_limited", "rejected", "failed"
	IncQuestionCreated()
	IncAnswerRecorded(correct bool)
	IncMessageSent()

	// Notification pipeline metrics
	IncNotificationPublished(status string) // status: "success" or "dropped"
	IncNotificationProcessed(status string) // status: "success", "failed", "dead_lettered"
	IncPushDelivery(status string)          // status: "sent" or "failed"
	SetNotificationQueueDepth(depth int64)
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
