// internal/driver/driver_test.go
package driver

import (
	"context"
	"testing"
	"time"

	"github.com/gandiva/sensorlink/internal/health"
	"github.com/gandiva/sensorlink/internal/modbus"
	"github.com/gandiva/sensorlink/internal/reader"
	"github.com/gandiva/sensorlink/internal/scale"
	"github.com/gandiva/sensorlink/internal/threshold"
)

// fakeReader scripts ReadBlock outcomes.
type fakeReader struct {
	errs  []*modbus.Error // nil entry = success
	words []uint16
	calls int
}

func (f *fakeReader) ReadBlock(slave uint8, start, quantity uint16) (reader.Block, *modbus.Error) {
	idx := f.calls
	f.calls++
	if idx < len(f.errs) && f.errs[idx] != nil {
		return reader.Block{Attempts: 3}, f.errs[idx]
	}
	return reader.Block{Words: f.words, Attempts: 1}, nil
}

func goodWords() []uint16 {
	words := make([]uint16, scale.DefaultBlockLen)
	words[1] = 51   // z_rms_velocity_mm_s = 0.051
	words[3] = 2927 // temperature_c = 29.27
	return words
}

func newDriver(t *testing.T, r BlockReader) *Driver {
	t.Helper()

	s, err := scale.NewScaler(scale.Registry(), scale.DefaultBlockLen)
	if err != nil {
		t.Fatalf("NewScaler() err=%v", err)
	}
	table, err := threshold.NewTable([]threshold.Definition{
		{Parameter: "z_rms_velocity_mm_s", WarningLimit: 2.3, AlarmLimit: 7.1},
		{Parameter: "temperature_c", WarningLimit: 70, AlarmLimit: 80},
	})
	if err != nil {
		t.Fatalf("NewTable() err=%v", err)
	}

	cfg := Config{SlaveID: 1, StartAddress: scale.DefaultBlockStart, Quantity: scale.DefaultBlockLen}
	d, err := New(cfg, r, s, table, health.New(10))
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}
	return d
}

func TestRunOnce_SuccessPath(t *testing.T) {
	d := newDriver(t, &fakeReader{words: goodWords()})

	c := d.RunOnce()
	if c.Err != nil {
		t.Fatalf("cycle failed: %v", c.Err)
	}
	if c.Reading == nil || !c.Reading.BlockValid {
		t.Fatal("expected a valid reading")
	}
	if len(c.Reading.Values) != 22 {
		t.Fatalf("decoded %d values, want 22", len(c.Reading.Values))
	}
	if c.Eval == nil || c.Eval.Overall != threshold.StatusOK {
		t.Fatalf("eval = %+v", c.Eval)
	}

	s := d.Health()
	if s.TotalAttempts != 1 || s.FailedAttempts != 0 || len(s.Latencies) != 1 {
		t.Fatalf("health = %+v", s)
	}
}

func TestRunOnce_FailurePropagatesNoData(t *testing.T) {
	d := newDriver(t, &fakeReader{errs: []*modbus.Error{{Kind: modbus.KindTimeout}}})

	c := d.RunOnce()
	if c.Err == nil || c.Err.Kind != modbus.KindTimeout {
		t.Fatalf("err = %v, want timeout", c.Err)
	}
	if c.Reading != nil || c.Eval != nil {
		t.Fatal("a failed cycle must not fabricate a reading")
	}

	s := d.Health()
	if s.FailedAttempts != 1 || s.ConsecutiveFailures != 1 {
		t.Fatalf("health = %+v", s)
	}
	if s.LastError == nil || *s.LastError != modbus.KindTimeout {
		t.Fatalf("last error = %v", s.LastError)
	}
}

func TestRunOnce_FailureThenRecovery(t *testing.T) {
	// One exhausted-retry cycle failure increments the streak by exactly
	// one; the following good cycle clears it.
	f := &fakeReader{
		errs:  []*modbus.Error{{Kind: modbus.KindChecksumMismatch}, nil},
		words: goodWords(),
	}
	d := newDriver(t, f)

	_ = d.RunOnce()
	if s := d.Health(); s.ConsecutiveFailures != 1 {
		t.Fatalf("streak = %d, want 1", s.ConsecutiveFailures)
	}

	c := d.RunOnce()
	if c.Err != nil {
		t.Fatalf("recovery cycle failed: %v", c.Err)
	}
	if s := d.Health(); s.ConsecutiveFailures != 0 || s.TotalAttempts != 2 {
		t.Fatalf("health = %+v", d.Health())
	}
}

func TestRunOnce_AlarmClassification(t *testing.T) {
	words := goodWords()
	words[1] = 8000 // 8.0 mm/s, above the 7.1 alarm limit
	d := newDriver(t, &fakeReader{words: words})

	c := d.RunOnce()
	if c.Eval.Overall != threshold.StatusAlarm || c.Eval.AlarmCount != 1 {
		t.Fatalf("eval = %+v", c.Eval)
	}
}

func TestNew_RejectsGeometryMismatch(t *testing.T) {
	s, err := scale.NewScaler(scale.Registry(), scale.DefaultBlockLen)
	if err != nil {
		t.Fatalf("NewScaler() err=%v", err)
	}
	table, _ := threshold.NewTable(nil)

	cfg := Config{SlaveID: 1, StartAddress: scale.DefaultBlockStart, Quantity: 10}
	if _, err := New(cfg, &fakeReader{}, s, table, health.New(10)); err == nil {
		t.Fatal("expected error for quantity/block mismatch")
	}
}

func TestRun_EmitsCyclesAndStopsOnCancel(t *testing.T) {
	d := newDriver(t, &fakeReader{words: goodWords()})

	ctx, cancel := context.WithCancel(context.Background())
	out := make(chan Cycle)
	done := make(chan struct{})
	go func() {
		d.Run(ctx, time.Millisecond, out)
		close(done)
	}()

	for i := 0; i < 3; i++ {
		select {
		case c := <-out:
			if c.Err != nil {
				t.Errorf("cycle %d failed: %v", i, c.Err)
			}
		case <-time.After(time.Second):
			t.Fatal("no cycle emitted")
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("runner did not stop on cancel")
	}
}
