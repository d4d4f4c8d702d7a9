// internal/threshold/evaluate.go
package threshold

import (
	"time"

	"github.com/gandiva/sensorlink/internal/scale"
)

// Result is the classification of one parameter.
type Result struct {
	Parameter string
	Value     float64
	Status    Status
}

// CycleResult is the classification of one full read cycle. Overall is
// the maximum severity among Results; parameters without a configured
// threshold do not appear and do not affect severity.
type CycleResult struct {
	Timestamp    time.Time
	Results      []Result
	Overall      Status
	WarningCount int
	AlarmCount   int
}

// Evaluate classifies a reading against a threshold table.
//
// Pure and stateless: no memory of prior cycles, no smoothing, no
// hysteresis. The same (reading, table) pair always yields an identical
// CycleResult; results are emitted in sorted parameter order.
//
// Boundaries are inclusive: a value exactly at a limit takes the more
// severe state.
func Evaluate(reading scale.SensorReading, table *Table) CycleResult {
	out := CycleResult{Timestamp: reading.Timestamp}

	for _, key := range table.keys {
		value, ok := reading.Values[key]
		if !ok {
			continue
		}
		def := table.defs[key]

		status := StatusOK
		switch {
		case value >= def.AlarmLimit:
			status = StatusAlarm
			out.AlarmCount++
		case value >= def.WarningLimit:
			status = StatusWarning
			out.WarningCount++
		}
		if status > out.Overall {
			out.Overall = status
		}

		out.Results = append(out.Results, Result{
			Parameter: key,
			Value:     value,
			Status:    status,
		})
	}

	return out
}
