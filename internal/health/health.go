// internal/health/health.go
package health

import (
	"time"

	"github.com/gandiva/sensorlink/internal/modbus"
)

// DefaultLatencyWindow bounds the latency ring buffer (one hour at 1 Hz).
const DefaultLatencyWindow = 3600

// Tracker aggregates per-cycle outcomes. Observable state only: it never
// initiates recovery. Created once at engine startup and mutated only by
// the acquisition driver, after a cycle completes; it is not safe for
// concurrent mutation and does not need to be.
type Tracker struct {
	totalAttempts       uint64
	failedAttempts      uint64
	consecutiveFailures uint64

	lastError     *modbus.ErrorKind
	lastSuccessAt *time.Time

	// latency ring buffer, oldest evicted once full
	latencies []time.Duration
	head      int
	count     int
}

// Snapshot is a plain-value view of the tracker, safe to hand to external
// collaborators.
type Snapshot struct {
	TotalAttempts       uint64
	FailedAttempts      uint64
	ConsecutiveFailures uint64
	LastError           *modbus.ErrorKind
	LastSuccessAt       *time.Time
	Latencies           []time.Duration
	SuccessRate         float64
}

// New creates a tracker with the given latency window. A non-positive
// window falls back to the default.
func New(window int) *Tracker {
	if window <= 0 {
		window = DefaultLatencyWindow
	}
	return &Tracker{latencies: make([]time.Duration, window)}
}

// RecordSuccess registers one successful cycle.
func (t *Tracker) RecordSuccess(at time.Time, latency time.Duration) {
	t.totalAttempts++
	t.consecutiveFailures = 0

	ts := at
	t.lastSuccessAt = &ts

	t.latencies[t.head] = latency
	t.head = (t.head + 1) % len(t.latencies)
	if t.count < len(t.latencies) {
		t.count++
	}
}

// RecordFailure registers one terminally failed cycle.
func (t *Tracker) RecordFailure(kind modbus.ErrorKind) {
	t.totalAttempts++
	t.failedAttempts++
	t.consecutiveFailures++

	k := kind
	t.lastError = &k
}

// Snapshot copies the current state. Latencies are ordered oldest first.
func (t *Tracker) Snapshot() Snapshot {
	s := Snapshot{
		TotalAttempts:       t.totalAttempts,
		FailedAttempts:      t.failedAttempts,
		ConsecutiveFailures: t.consecutiveFailures,
	}

	if t.lastError != nil {
		k := *t.lastError
		s.LastError = &k
	}
	if t.lastSuccessAt != nil {
		ts := *t.lastSuccessAt
		s.LastSuccessAt = &ts
	}

	s.Latencies = make([]time.Duration, 0, t.count)
	start := t.head - t.count
	if start < 0 {
		start += len(t.latencies)
	}
	for i := 0; i < t.count; i++ {
		s.Latencies = append(s.Latencies, t.latencies[(start+i)%len(t.latencies)])
	}

	if t.totalAttempts > 0 {
		s.SuccessRate = float64(t.totalAttempts-t.failedAttempts) / float64(t.totalAttempts)
	}
	return s
}
