// ABOUTME: Backoff calculation for retried provider calls
// ABOUTME: Shared by the OpenAI and Gemini clients for consistent retry pacing
package util

import (
	"math/rand/v2"
	"time"
)

// CalculateBackoff returns exponential backoff with jitter.
// Base delay doubles each attempt, capped at 30s, with ±25% jitter.
func CalculateBackoff(baseDelay time.Duration, attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}
	// Cap attempt to avoid overflow in the shift
	if attempt > 30 {
		attempt = 30
	}
	backoff := baseDelay * time.Duration(1<<uint(attempt))
	if backoff > 30*time.Second {
		backoff = 30 * time.Second
	}
	// A zero base delay means no backoff; rand.Int64N requires n > 0
	if backoff <= 0 {
		return 0
	}
	jitter := time.Duration(rand.Int64N(int64(backoff)/2)) - backoff/4
	return backoff + jitter
}
