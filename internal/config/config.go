// internal/config/config.go
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Sensor     SensorConfig      `yaml:"sensor"`
	Thresholds []ThresholdConfig `yaml:"thresholds"`
}

// ---- SENSOR ----

type SensorConfig struct {
	Serial  SerialConfig `yaml:"serial"`
	SlaveID uint8        `yaml:"slave_id"`
	Read    ReadConfig   `yaml:"read"`
	Retry   RetryConfig  `yaml:"retry"`
	Poll    PollConfig   `yaml:"poll"`
	Health  HealthConfig `yaml:"health"`
}

// ---- SERIAL ----

type SerialConfig struct {
	Port     string `yaml:"port"` // /dev/ttyUSB0, COM5
	BaudRate int    `yaml:"baud_rate"`
	DataBits int    `yaml:"data_bits"`
	Parity   string `yaml:"parity"` // N, E, O
	StopBits int    `yaml:"stop_bits"`

	TimeoutMs    int `yaml:"timeout_ms"`    // per read attempt
	TurnaroundMs int `yaml:"turnaround_ms"` // device settling after an exchange
}

// ---- READ GEOMETRY ----

type ReadConfig struct {
	StartAddress uint16 `yaml:"start_address"`
	Quantity     uint16 `yaml:"quantity"`
}

// ---- RETRY ----

type RetryConfig struct {
	MaxAttempts int `yaml:"max_attempts"`
	DelayMs     int `yaml:"delay_ms"`
}

// ---- POLL ----

type PollConfig struct {
	IntervalMs int `yaml:"interval_ms"`
}

// ---- HEALTH ----

type HealthConfig struct {
	LatencyWindow int `yaml:"latency_window"`
}

// ---- THRESHOLDS ----

type ThresholdConfig struct {
	Parameter    string  `yaml:"parameter"`
	WarningLimit float64 `yaml:"warning_limit"`
	AlarmLimit   float64 `yaml:"alarm_limit"`
}

// Load reads and decodes a YAML configuration file. Unknown fields are
// rejected so typos fail loudly at startup.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)

	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}
	return &cfg, nil
}
