// internal/config/normalize.go
package config

import "github.com/gandiva/sensorlink/internal/scale"

// Defaults match the QM30VT2 factory configuration and the engine's
// documented retry policy.
const (
	DefaultBaudRate     = 19200
	DefaultDataBits     = 8
	DefaultParity       = "N"
	DefaultStopBits     = 1
	DefaultTimeoutMs    = 1000
	DefaultTurnaroundMs = 50
	DefaultMaxAttempts  = 3
	DefaultRetryDelayMs = 100
	DefaultIntervalMs   = 1000
)

// Normalize applies post-validation defaulting.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	s := &cfg.Sensor

	if s.Serial.BaudRate == 0 {
		s.Serial.BaudRate = DefaultBaudRate
	}
	if s.Serial.DataBits == 0 {
		s.Serial.DataBits = DefaultDataBits
	}
	if s.Serial.Parity == "" {
		s.Serial.Parity = DefaultParity
	}
	if s.Serial.StopBits == 0 {
		s.Serial.StopBits = DefaultStopBits
	}
	if s.Serial.TimeoutMs == 0 {
		s.Serial.TimeoutMs = DefaultTimeoutMs
	}
	if s.Serial.TurnaroundMs == 0 {
		s.Serial.TurnaroundMs = DefaultTurnaroundMs
	}

	if s.Read.Quantity == 0 {
		s.Read.StartAddress = scale.DefaultBlockStart
		s.Read.Quantity = scale.DefaultBlockLen
	}

	if s.Retry.MaxAttempts == 0 {
		s.Retry.MaxAttempts = DefaultMaxAttempts
	}
	if s.Retry.DelayMs == 0 {
		s.Retry.DelayMs = DefaultRetryDelayMs
	}
	if s.Poll.IntervalMs == 0 {
		s.Poll.IntervalMs = DefaultIntervalMs
	}
	// Health.LatencyWindow zero means "use the tracker default".
}
