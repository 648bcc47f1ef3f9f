package notify

import (
	"math/rand"
	"time"
)

// Retry delays for a failed dispatch: 1s, 5s, 30s.
var retryDelays = []time.Duration{
	1 * time.Second,
	5 * time.Second,
	30 * time.Second,
}

// JitterFactor is the ±percentage of jitter applied to delays.
const JitterFactor = 0.2

// NextRetryDelay returns the delay before retry attemptCount (0-indexed),
// with ±20% jitter. Attempts past the table reuse the last delay.
func NextRetryDelay(attemptCount int) time.Duration {
	if attemptCount < 0 {
		attemptCount = 0
	}
	if attemptCount >= len(retryDelays) {
		attemptCount = len(retryDelays) - 1
	}

	base := retryDelays[attemptCount]
	jitterRange := float64(base) * JitterFactor
	jitter := (rand.Float64()*2 - 1) * jitterRange

	return time.Duration(float64(base) + jitter)
}

// MaxRetries is the number of retries after the first failed dispatch.
func MaxRetries() int {
	return len(retryDelays)
}
