// internal/scale/scaler.go
package scale

import (
	"fmt"
	"time"
)

// SensorReading is one decoded measurement set. Handed downstream by
// value; the engine never retains it.
//
// Invariant: if BlockValid is false, Values is empty. Partial extraction
// from a bad block is never produced.
type SensorReading struct {
	Timestamp  time.Time
	Values     map[string]float64
	BlockValid bool
}

// Scaler is a pure transform from a raw register block to a SensorReading.
type Scaler struct {
	defs     []ParameterDef
	blockLen int
}

// NewScaler binds a parameter registry to a block length. Every parameter
// must fit inside the block; a table/geometry mismatch is a configuration
// error caught here, once, not at every cycle.
func NewScaler(defs []ParameterDef, blockLen int) (*Scaler, error) {
	if len(defs) == 0 {
		return nil, fmt.Errorf("scale: empty parameter registry")
	}
	if blockLen <= 0 {
		return nil, fmt.Errorf("scale: block length must be > 0")
	}

	seen := make(map[string]bool, len(defs))
	for _, d := range defs {
		if d.Key == "" {
			return nil, fmt.Errorf("scale: parameter with empty key")
		}
		if seen[d.Key] {
			return nil, fmt.Errorf("scale: duplicate parameter %q", d.Key)
		}
		seen[d.Key] = true

		if d.Offset < 0 || d.Offset >= blockLen {
			return nil, fmt.Errorf(
				"scale: parameter %q offset %d outside %d-word block",
				d.Key, d.Offset, blockLen,
			)
		}
		if d.ScaleDen == 0 {
			return nil, fmt.Errorf("scale: parameter %q has zero scale denominator", d.Key)
		}
	}

	bound := make([]ParameterDef, len(defs))
	copy(bound, defs)
	return &Scaler{defs: bound, blockLen: blockLen}, nil
}

// BlockLen returns the block length the scaler was built for.
func (s *Scaler) BlockLen() int {
	return s.blockLen
}

// Apply decodes one raw block. All-or-nothing: a block of the wrong
// length yields BlockValid=false with no values. Words beyond the highest
// parameter offset are ignored.
func (s *Scaler) Apply(words []uint16, ts time.Time) SensorReading {
	if len(words) != s.blockLen {
		return SensorReading{Timestamp: ts, Values: map[string]float64{}, BlockValid: false}
	}

	values := make(map[string]float64, len(s.defs))
	for _, d := range s.defs {
		raw := words[d.Offset]

		var v float64
		if d.Signed {
			v = float64(int16(raw))
		} else {
			v = float64(raw)
		}
		values[d.Key] = v * float64(d.ScaleNum) / float64(d.ScaleDen)
	}

	return SensorReading{Timestamp: ts, Values: values, BlockValid: true}
}
