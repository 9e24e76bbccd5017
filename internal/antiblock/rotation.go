package antiblock

import "time"

// SessionRotator signals when a browser session has served enough requests
// or lived long enough that it should be discarded and recreated.
type SessionRotator struct {
	MaxRequests int
	MaxDuration time.Duration

	now      func() time.Time
	started  time.Time
	requests int
}

// NewSessionRotator creates a rotator. A zero limit disables that trigger.
func NewSessionRotator(maxRequests int, maxDuration time.Duration) *SessionRotator {
	r := &SessionRotator{MaxRequests: maxRequests, MaxDuration: maxDuration, now: time.Now}
	r.Reset()
	return r
}

// Record counts one request against the current session.
func (r *SessionRotator) Record() {
	r.requests++
}

// ShouldRotate reports whether either limit has been reached.
func (r *SessionRotator) ShouldRotate() bool {
	if r.MaxRequests > 0 && r.requests >= r.MaxRequests {
		return true
	}
	if r.MaxDuration > 0 && r.now().Sub(r.started) >= r.MaxDuration {
		return true
	}
	return false
}

// Reset starts a new session window.
func (r *SessionRotator) Reset() {
	r.requests = 0
	r.started = r.now()
}

// Requests returns the number of requests recorded since the last reset.
func (r *SessionRotator) Requests() int {
	return r.requests
}
