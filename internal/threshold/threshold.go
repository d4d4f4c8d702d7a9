// internal/threshold/threshold.go
package threshold

import (
	"fmt"
	"sort"
)

// Status is a per-parameter severity. Ordering matters: higher is worse.
type Status int

const (
	StatusOK Status = iota
	StatusWarning
	StatusAlarm
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusWarning:
		return "WARNING"
	case StatusAlarm:
		return "ALARM"
	}
	return "UNKNOWN"
}

// Definition is a static limit pair for one parameter.
// Invariant: 0 <= WarningLimit <= AlarmLimit.
type Definition struct {
	Parameter    string
	WarningLimit float64
	AlarmLimit   float64
}

// Table is a validated, immutable threshold configuration.
type Table struct {
	defs map[string]Definition
	keys []string // sorted, fixes evaluation order
}

// NewTable validates definitions once, at load time. Violated invariants
// are rejected here so evaluation never sees a bad limit pair.
func NewTable(defs []Definition) (*Table, error) {
	t := &Table{defs: make(map[string]Definition, len(defs))}

	for _, d := range defs {
		if d.Parameter == "" {
			return nil, fmt.Errorf("threshold: definition with empty parameter")
		}
		if _, dup := t.defs[d.Parameter]; dup {
			return nil, fmt.Errorf("threshold: duplicate definition for %q", d.Parameter)
		}
		if d.WarningLimit < 0 {
			return nil, fmt.Errorf(
				"threshold: %q warning limit %v is negative", d.Parameter, d.WarningLimit)
		}
		if d.AlarmLimit < d.WarningLimit {
			return nil, fmt.Errorf(
				"threshold: %q alarm limit %v below warning limit %v",
				d.Parameter, d.AlarmLimit, d.WarningLimit)
		}
		t.defs[d.Parameter] = d
		t.keys = append(t.keys, d.Parameter)
	}

	sort.Strings(t.keys)
	return t, nil
}

// Len returns the number of configured thresholds.
func (t *Table) Len() int {
	return len(t.defs)
}
