// internal/driver/driver.go
package driver

import (
	"errors"
	"fmt"
	"time"

	"github.com/gandiva/sensorlink/internal/health"
	"github.com/gandiva/sensorlink/internal/modbus"
	"github.com/gandiva/sensorlink/internal/reader"
	"github.com/gandiva/sensorlink/internal/scale"
	"github.com/gandiva/sensorlink/internal/threshold"
)

// BlockReader is the read side of the bus as the driver sees it.
// Implemented by reader.Reader.
type BlockReader interface {
	ReadBlock(slave uint8, start, quantity uint16) (reader.Block, *modbus.Error)
}

// Config fixes the read geometry for the engine's lifetime.
type Config struct {
	SlaveID      uint8
	StartAddress uint16
	Quantity     uint16
}

type state int

const (
	stateIdle state = iota
	stateReading
	stateScaling
	stateFailed
)

// Driver runs one acquisition cycle per invocation:
// Idle → Reading → (Scaling|Failed) → Idle.
//
// It is the sole owner of the bus reader and the health tracker. Cycles
// never overlap: RunOnce is synchronous and the runner calls it from a
// single goroutine, preserving the half-duplex bus invariant end to end.
type Driver struct {
	cfg     Config
	reader  BlockReader
	scaler  *scale.Scaler
	table   *threshold.Table
	tracker *health.Tracker
	state   state
	now     func() time.Time
}

// Cycle is the outcome of one acquisition cycle, handed downstream by
// value. On failure Reading and Eval are nil: the driver reports "no data
// this cycle" and never fabricates a reading.
type Cycle struct {
	At       time.Time
	Reading  *scale.SensorReading
	Eval     *threshold.CycleResult
	Attempts int
	Err      *modbus.Error
}

// New wires a driver. The scaler's block length must match the configured
// read quantity; a mismatch is a configuration error caught here.
func New(cfg Config, r BlockReader, s *scale.Scaler, t *threshold.Table, h *health.Tracker) (*Driver, error) {
	if r == nil {
		return nil, errors.New("driver: block reader required")
	}
	if s == nil || t == nil || h == nil {
		return nil, errors.New("driver: scaler, threshold table and health tracker required")
	}
	if cfg.SlaveID < 1 {
		return nil, errors.New("driver: slave id required")
	}
	if int(cfg.Quantity) != s.BlockLen() {
		return nil, fmt.Errorf(
			"driver: read quantity %d does not match scaler block length %d",
			cfg.Quantity, s.BlockLen(),
		)
	}
	return &Driver{
		cfg:     cfg,
		reader:  r,
		scaler:  s,
		table:   t,
		tracker: h,
		now:     time.Now,
	}, nil
}

// SetNow replaces the clock. Test hook.
func (d *Driver) SetNow(f func() time.Time) {
	d.now = f
}

// RunOnce performs exactly one acquisition cycle.
func (d *Driver) RunOnce() Cycle {
	start := d.now()

	d.state = stateReading
	blk, err := d.reader.ReadBlock(d.cfg.SlaveID, d.cfg.StartAddress, d.cfg.Quantity)
	if err != nil {
		d.state = stateFailed
		d.tracker.RecordFailure(err.Kind)
		d.state = stateIdle
		return Cycle{At: start, Attempts: blk.Attempts, Err: err}
	}

	d.state = stateScaling
	reading := d.scaler.Apply(blk.Words, start)
	if !reading.BlockValid {
		// unreachable when New's geometry check holds; treated as a
		// corrupted cycle rather than a partial one
		d.state = stateIdle
		corrupt := &modbus.Error{Kind: modbus.KindChecksumMismatch, Detail: "block length mismatch"}
		d.tracker.RecordFailure(corrupt.Kind)
		return Cycle{At: start, Attempts: blk.Attempts, Err: corrupt}
	}

	eval := threshold.Evaluate(reading, d.table)

	end := d.now()
	d.tracker.RecordSuccess(end, end.Sub(start))
	d.state = stateIdle

	return Cycle{
		At:       start,
		Reading:  &reading,
		Eval:     &eval,
		Attempts: blk.Attempts,
	}
}

// Health returns a read-only snapshot for external collaborators.
func (d *Driver) Health() health.Snapshot {
	return d.tracker.Snapshot()
}
