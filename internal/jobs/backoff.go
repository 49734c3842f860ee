package jobs

import (
	"time"

	"github.com/hibiken/asynq"
)

// maxBackoffShift caps the exponent so the delay cannot overflow
const maxBackoffShift = 16

// ExponentialBackoff returns a retry delay func of base·2^n, n being the retry count so far
func ExponentialBackoff(base time.Duration) asynq.RetryDelayFunc {
	return func(n int, _ error, _ *asynq.Task) time.Duration {
		if n < 0 {
			n = 0
		}
		if n > maxBackoffShift {
			n = maxBackoffShift
		}
		return base * time.Duration(1<<uint(n))
	}
}

// MaxRetry converts a total attempt count into asynq's retry count
func MaxRetry(attempts int) int {
	if attempts < 1 {
		return 0
	}
	return attempts - 1
}
