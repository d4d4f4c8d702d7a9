// internal/config/validate.go
package config

import (
	"fmt"

	"github.com/gandiva/sensorlink/internal/scale"
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration; zero values that Normalize will
// default are allowed through.
func Validate(cfg *Config) error {
	s := cfg.Sensor

	// ------------------------------------------------------------
	// SERIAL PARAMETERS
	// ------------------------------------------------------------

	if s.Serial.Port == "" {
		return fmt.Errorf("sensor.serial.port is required")
	}
	if s.Serial.BaudRate < 0 {
		return fmt.Errorf("sensor.serial.baud_rate must not be negative")
	}
	switch s.Serial.Parity {
	case "", "N", "E", "O":
	default:
		return fmt.Errorf("sensor.serial.parity must be N, E or O, got %q", s.Serial.Parity)
	}
	switch s.Serial.DataBits {
	case 0, 7, 8:
	default:
		return fmt.Errorf("sensor.serial.data_bits must be 7 or 8, got %d", s.Serial.DataBits)
	}
	switch s.Serial.StopBits {
	case 0, 1, 2:
	default:
		return fmt.Errorf("sensor.serial.stop_bits must be 1 or 2, got %d", s.Serial.StopBits)
	}
	if s.Serial.TimeoutMs < 0 {
		return fmt.Errorf("sensor.serial.timeout_ms must not be negative")
	}
	if s.Serial.TurnaroundMs < 0 {
		return fmt.Errorf("sensor.serial.turnaround_ms must not be negative")
	}

	if s.SlaveID < 1 {
		return fmt.Errorf("sensor.slave_id must be 1-247")
	}

	// ------------------------------------------------------------
	// READ GEOMETRY vs PARAMETER REGISTRY
	// ------------------------------------------------------------

	// The block must cover every registry offset. Checked once, here,
	// instead of failing at every cycle.
	if s.Read.Quantity != 0 && int(s.Read.Quantity) < scale.DefaultBlockLen {
		return fmt.Errorf(
			"sensor.read.quantity %d cannot cover the %d-parameter registry",
			s.Read.Quantity, scale.DefaultBlockLen,
		)
	}

	if s.Retry.MaxAttempts < 0 {
		return fmt.Errorf("sensor.retry.max_attempts must not be negative")
	}
	if s.Retry.DelayMs < 0 {
		return fmt.Errorf("sensor.retry.delay_ms must not be negative")
	}
	if s.Poll.IntervalMs < 0 {
		return fmt.Errorf("sensor.poll.interval_ms must not be negative")
	}
	if s.Health.LatencyWindow < 0 {
		return fmt.Errorf("sensor.health.latency_window must not be negative")
	}

	// ------------------------------------------------------------
	// THRESHOLDS
	// ------------------------------------------------------------

	seen := make(map[string]bool, len(cfg.Thresholds))
	for _, th := range cfg.Thresholds {
		if th.Parameter == "" {
			return fmt.Errorf("threshold with empty parameter")
		}
		if !scale.KnownParameter(th.Parameter) {
			return fmt.Errorf("threshold for unknown parameter %q", th.Parameter)
		}
		if seen[th.Parameter] {
			return fmt.Errorf("duplicate threshold for %q", th.Parameter)
		}
		seen[th.Parameter] = true

		if th.WarningLimit < 0 {
			return fmt.Errorf("threshold %q: warning_limit must not be negative", th.Parameter)
		}
		if th.AlarmLimit < th.WarningLimit {
			return fmt.Errorf(
				"threshold %q: alarm_limit %v below warning_limit %v",
				th.Parameter, th.AlarmLimit, th.WarningLimit,
			)
		}
	}

	return nil
}
