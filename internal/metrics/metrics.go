package metrics

import (
	"sync"
	"time"
)

// Transition outcomes.
const (
	OutcomeApplied  = "applied"
	OutcomeNoop     = "noop"
	OutcomeRejected = "rejected"
)

type storeStats struct {
	calls       int
	errors      int
	lastLatency time.Duration
}

// Recorder captures in-memory counters that mirror the OpenTelemetry instruments.
type Recorder struct {
	mu          sync.Mutex
	store       map[string]*storeStats
	transitions map[string]int
	legalBalls  int
	extraBalls  int
	rateLimited int
	otel        *otelInstruments
}

func NewRecorder() *Recorder {
	return newRecorder(nil)
}

func newRecorder(otel *otelInstruments) *Recorder {
	return &Recorder{
		store:       make(map[string]*storeStats),
		transitions: make(map[string]int),
		otel:        otel,
	}
}

// RecordStoreOp counts a persistence call (load, save, clear) and its latency.
func (r *Recorder) RecordStoreOp(op, backend string, duration time.Duration, err error) {
	if r == nil {
		return
	}

	r.mu.Lock()
	stats, ok := r.store[op]
	if !ok {
		stats = &storeStats{}
		r.store[op] = stats
	}
	stats.calls++
	stats.lastLatency = duration
	if err != nil {
		stats.errors++
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordStoreOp(op, backend, duration, err)
	}
}

// RecordTransition counts a match operation by outcome.
func (r *Recorder) RecordTransition(name, outcome string) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.transitions[name+"/"+outcome]++
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordTransition(name, outcome)
	}
}

// RecordBall counts a recorded delivery by legality.
func (r *Recorder) RecordBall(legal bool) {
	if r == nil {
		return
	}
	r.mu.Lock()
	if legal {
		r.legalBalls++
	} else {
		r.extraBalls++
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordBall(legal)
	}
}

// RecordRateLimited counts a request rejected by the rate limiter.
func (r *Recorder) RecordRateLimited(path string) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.rateLimited++
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordRateLimited(path)
	}
}

// RecordHTTPRequest tracks basic HTTP metrics.
func (r *Recorder) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordHTTPRequest(method, path, status, duration)
}

// Transitions returns how many times name finished with outcome.
func (r *Recorder) Transitions(name, outcome string) int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.transitions[name+"/"+outcome]
}

// Balls returns the legal and extra deliveries recorded.
func (r *Recorder) Balls() (legal, extras int) {
	if r == nil {
		return 0, 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.legalBalls, r.extraBalls
}

// RateLimited returns the number of throttled requests.
func (r *Recorder) RateLimited() int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rateLimited
}

// StoreSnapshot is a copy of the counters for one persistence operation.
type StoreSnapshot struct {
	Calls       int
	Errors      int
	LastLatency time.Duration
}

func (r *Recorder) StoreSnapshot(op string) StoreSnapshot {
	if r == nil {
		return StoreSnapshot{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	stats, ok := r.store[op]
	if !ok || stats == nil {
		return StoreSnapshot{}
	}
	return StoreSnapshot{Calls: stats.calls, Errors: stats.errors, LastLatency: stats.lastLatency}
}
