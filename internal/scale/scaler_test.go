// internal/scale/scaler_test.go
package scale

import (
	"math"
	"testing"
	"time"
)

func fullScaler(t *testing.T) *Scaler {
	t.Helper()
	s, err := NewScaler(Registry(), DefaultBlockLen)
	if err != nil {
		t.Fatalf("NewScaler() err=%v", err)
	}
	return s
}

func TestRegistry_Closed22(t *testing.T) {
	defs := Registry()
	if len(defs) != 22 {
		t.Fatalf("registry has %d parameters, want 22", len(defs))
	}

	// Mutating the returned slice must not leak into the registry.
	defs[0].Key = "tampered"
	if Registry()[0].Key == "tampered" {
		t.Fatal("registry is not isolated from callers")
	}
}

func TestApply_ScalingFixtures(t *testing.T) {
	s := fullScaler(t)

	words := make([]uint16, DefaultBlockLen)
	words[1] = 51   // z_rms_velocity_mm_s, 1/1000
	words[3] = 2927 // temperature_c, 1/100

	r := s.Apply(words, time.Unix(0, 0))
	if !r.BlockValid {
		t.Fatal("block should be valid")
	}

	if got := r.Values["z_rms_velocity_mm_s"]; math.Abs(got-0.051) > 1e-6 {
		t.Fatalf("z_rms_velocity_mm_s = %v, want 0.051", got)
	}
	if got := r.Values["temperature_c"]; math.Abs(got-29.27) > 1e-9 {
		t.Fatalf("temperature_c = %v, want 29.27", got)
	}
}

func TestApply_SignedTemperature(t *testing.T) {
	s := fullScaler(t)

	words := make([]uint16, DefaultBlockLen)
	words[3] = 0xF060 // -4000 two's complement -> -40.00 °C

	r := s.Apply(words, time.Now())
	if got := r.Values["temperature_c"]; math.Abs(got-(-40.0)) > 1e-9 {
		t.Fatalf("temperature_c = %v, want -40.0", got)
	}
}

func TestApply_AllOrNothingOnShortBlock(t *testing.T) {
	s := fullScaler(t)

	for _, n := range []int{0, 1, 17, 21, 23} {
		r := s.Apply(make([]uint16, n), time.Now())
		if r.BlockValid {
			t.Fatalf("%d-word block accepted, want invalid", n)
		}
		if len(r.Values) != 0 {
			t.Fatalf("%d-word block produced %d partial values", n, len(r.Values))
		}
	}
}

func TestApply_DecodesAll22(t *testing.T) {
	s := fullScaler(t)

	words := make([]uint16, DefaultBlockLen)
	for i := range words {
		words[i] = uint16(i + 1)
	}

	r := s.Apply(words, time.Now())
	if len(r.Values) != 22 {
		t.Fatalf("decoded %d parameters, want 22", len(r.Values))
	}
	for _, d := range Registry() {
		if _, ok := r.Values[d.Key]; !ok {
			t.Fatalf("missing parameter %q", d.Key)
		}
	}
}

func TestApply_TrailingWordsIgnored(t *testing.T) {
	// A scaler built for a longer device block still only decodes the
	// registry; extra trailing words change nothing.
	s, err := NewScaler(Registry(), 30)
	if err != nil {
		t.Fatalf("NewScaler() err=%v", err)
	}

	words := make([]uint16, 30)
	words[1] = 51
	words[29] = 0xFFFF

	r := s.Apply(words, time.Now())
	if !r.BlockValid || len(r.Values) != 22 {
		t.Fatalf("valid=%v values=%d", r.BlockValid, len(r.Values))
	}
}

func TestNewScaler_RejectsBadGeometry(t *testing.T) {
	// Block too short to hold the registry.
	if _, err := NewScaler(Registry(), 17); err == nil {
		t.Fatal("expected error for 17-word block under a 22-parameter registry")
	}

	if _, err := NewScaler(nil, 22); err == nil {
		t.Fatal("expected error for empty registry")
	}

	dup := []ParameterDef{
		{Key: "a", Offset: 0, ScaleNum: 1, ScaleDen: 10},
		{Key: "a", Offset: 1, ScaleNum: 1, ScaleDen: 10},
	}
	if _, err := NewScaler(dup, 2); err == nil {
		t.Fatal("expected error for duplicate key")
	}
}

func TestKnownParameter(t *testing.T) {
	if !KnownParameter("temperature_c") {
		t.Fatal("temperature_c should be known")
	}
	if KnownParameter("rpm") {
		t.Fatal("rpm is outside the closed registry")
	}
}
