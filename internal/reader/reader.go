// internal/reader/reader.go
package reader

import (
	"errors"
	"time"

	"github.com/gandiva/sensorlink/internal/modbus"
)

// Exchanger performs one request/response exchange on the bus. Implemented
// by link.Client; fakes implement it in tests.
type Exchanger interface {
	Exchange(req []byte, respLen int) ([]byte, *modbus.Error)
}

// Backoff maps a failed attempt number (1-based) to the delay before the
// next try. Expressed as a function so tests run without real time.
type Backoff func(attempt int) time.Duration

// Fixed returns a constant-delay backoff.
func Fixed(d time.Duration) Backoff {
	return func(int) time.Duration { return d }
}

// Policy bounds the retry loop.
type Policy struct {
	MaxAttempts int
	Backoff     Backoff
}

// Block is one validated register block read. Valid only for the cycle
// that produced it; callers must not cache it.
type Block struct {
	Words    []uint16
	Attempts int
}

// Reader wraps one block read with a bounded retry policy. Retryability is
// decided by the typed error kind from the codec, never by error text.
type Reader struct {
	ex     Exchanger
	policy Policy
	sleep  func(time.Duration)
}

// New creates a reader. MaxAttempts must be at least 1.
func New(ex Exchanger, policy Policy) (*Reader, error) {
	if ex == nil {
		return nil, errors.New("reader: exchanger required")
	}
	if policy.MaxAttempts < 1 {
		return nil, errors.New("reader: max attempts must be >= 1")
	}
	if policy.Backoff == nil {
		policy.Backoff = Fixed(0)
	}
	return &Reader{ex: ex, policy: policy, sleep: time.Sleep}, nil
}

// SetSleep replaces the inter-retry sleep. Test hook.
func (r *Reader) SetSleep(f func(time.Duration)) {
	r.sleep = f
}

// ReadBlock reads quantity holding registers starting at start from the
// given slave. It retries transient failures (timeout, checksum mismatch,
// device busy) up to the attempt budget; configuration-class failures
// propagate after exactly one attempt. The returned Block always carries
// the number of attempts consumed.
func (r *Reader) ReadBlock(slave uint8, start, quantity uint16) (Block, *modbus.Error) {
	req := modbus.BuildReadRequest(slave, start, quantity)
	respLen := modbus.ResponseLength(quantity)

	var last *modbus.Error
	for attempt := 1; attempt <= r.policy.MaxAttempts; attempt++ {
		words, err := r.exchangeOnce(slave, quantity, req, respLen)
		if err == nil {
			return Block{Words: words, Attempts: attempt}, nil
		}
		last = err

		if !err.Kind.Retryable() {
			return Block{Attempts: attempt}, err
		}
		if attempt < r.policy.MaxAttempts {
			r.sleep(r.policy.Backoff(attempt))
		}
	}
	return Block{Attempts: r.policy.MaxAttempts}, last
}

func (r *Reader) exchangeOnce(slave uint8, quantity uint16, req []byte, respLen int) ([]uint16, *modbus.Error) {
	resp, err := r.ex.Exchange(req, respLen)
	if err != nil {
		return nil, err
	}
	return modbus.ParseReadResponse(slave, quantity, resp)
}
