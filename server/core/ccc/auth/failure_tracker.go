package auth

import (
	"sync"
	"time"
)

// LoginFailure is a single rejected login attempt.
type LoginFailure struct {
	ClientIP  string
	Timestamp time.Time
}

// FailureTracker counts rejected dashboard logins per client IP within a sliding window.
type FailureTracker interface {
	// RecordFailure records a failed login and returns the number of failures for that IP within the window.
	RecordFailure(clientIP string, timestamp time.Time) int
	// IsLockedOut reports whether the IP reached the threshold within the window ending at now.
	IsLockedOut(clientIP string, now time.Time) bool
	// Reset forgets all failures of the IP, typically after a successful login.
	Reset(clientIP string)
}

// LockoutSettings configures the login lockout. A threshold of 0 disables it.
type LockoutSettings struct {
	Threshold  int
	TimeWindow time.Duration
}

type nopFailureTracker struct{}

var NopFailureTracker FailureTracker = &nopFailureTracker{}

func (n *nopFailureTracker) RecordFailure(clientIP string, timestamp time.Time) int { return 0 }
func (n *nopFailureTracker) IsLockedOut(clientIP string, now time.Time) bool      { return false }
func (n *nopFailureTracker) Reset(clientIP string)                                {}

type memoryFailureTracker struct {
	settings LockoutSettings

	mu       sync.Mutex
	failures []LoginFailure
}

// NewMemoryFailureTracker creates an in-memory failure tracker. Returns NopFailureTracker when the threshold is 0.
func NewMemoryFailureTracker(settings LockoutSettings) FailureTracker {
	if settings.Threshold <= 0 {
		return NopFailureTracker
	}
	return &memoryFailureTracker{settings: settings}
}

func (t *memoryFailureTracker) RecordFailure(clientIP string, timestamp time.Time) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.failures = append(t.failures, LoginFailure{ClientIP: clientIP, Timestamp: timestamp})
	t.prune(timestamp)

	return t.count(clientIP, timestamp)
}

func (t *memoryFailureTracker) IsLockedOut(clientIP string, now time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.prune(now)
	return t.count(clientIP, now) >= t.settings.Threshold
}

func (t *memoryFailureTracker) Reset(clientIP string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	kept := t.failures[:0]
	for _, failure := range t.failures {
		if failure.ClientIP != clientIP {
			kept = append(kept, failure)
		}
	}
	t.failures = kept
}

// prune drops records older than the window. Caller holds mu.
func (t *memoryFailureTracker) prune(now time.Time) {
	cutoff := now.Add(-t.settings.TimeWindow)
	kept := t.failures[:0]
	for _, failure := range t.failures {
		if !failure.Timestamp.Before(cutoff) {
			kept = append(kept, failure)
		}
	}
	t.failures = kept
}

// count returns the failures of clientIP inside the window. Caller holds mu.
func (t *memoryFailureTracker) count(clientIP string, now time.Time) int {
	cutoff := now.Add(-t.settings.TimeWindow)
	count := 0
	for _, failure := range t.failures {
		if failure.ClientIP == clientIP && !failure.Timestamp.Before(cutoff) {
			count++
		}
	}
	return count
}
