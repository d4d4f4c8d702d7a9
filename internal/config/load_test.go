// internal/config/load_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleYAML = `
sensor:
  serial:
    port: /dev/ttyUSB0
    baud_rate: 19200
    parity: N
    timeout_ms: 1000
    turnaround_ms: 50
  slave_id: 1
  read:
    start_address: 5200
    quantity: 22
  retry:
    max_attempts: 3
    delay_ms: 100
  poll:
    interval_ms: 1000
thresholds:
  - parameter: z_rms_velocity_mm_s
    warning_limit: 2.3
    alarm_limit: 7.1
  - parameter: temperature_c
    warning_limit: 70
    alarm_limit: 80
`

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_Sample(t *testing.T) {
	cfg, err := Load(writeTemp(t, sampleYAML))
	if err != nil {
		t.Fatalf("Load() err=%v", err)
	}
	if cfg.Sensor.Serial.Port != "/dev/ttyUSB0" {
		t.Fatalf("port = %q", cfg.Sensor.Serial.Port)
	}
	if cfg.Sensor.Read.StartAddress != 5200 || cfg.Sensor.Read.Quantity != 22 {
		t.Fatalf("read = %+v", cfg.Sensor.Read)
	}
	if len(cfg.Thresholds) != 2 {
		t.Fatalf("%d thresholds", len(cfg.Thresholds))
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("sample does not validate: %v", err)
	}
}

func TestLoad_RejectsUnknownFields(t *testing.T) {
	bad := sampleYAML + "\nextra_section:\n  x: 1\n"
	if _, err := Load(writeTemp(t, bad)); err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
