// internal/scale/params.go
package scale

// ParameterDef maps one word of the measurement block to an
// engineering-unit parameter.
//
//	value = raw * ScaleNum / ScaleDen
type ParameterDef struct {
	Key      string
	Offset   int // word offset within the block
	Signed   bool
	ScaleNum int
	ScaleDen int
	Unit     string
}

// DefaultBlockStart is the 0-based holding-register address of the
// QM30VT2 instantaneous measurement block (direct address 45201).
const DefaultBlockStart uint16 = 5200

// DefaultBlockLen is the word count of that block: one register per
// parameter, 22 parameters.
const DefaultBlockLen = 22

// Registry returns the QM30VT2 measurement registry. The set is closed:
// exactly these 22 parameters, no ad-hoc additions. Callers receive a
// fresh slice and may not grow the registry through it.
func Registry() []ParameterDef {
	defs := make([]ParameterDef, len(qm30vt2))
	copy(defs, qm30vt2)
	return defs
}

var qm30vt2 = []ParameterDef{
	{Key: "z_rms_velocity_in_s", Offset: 0, ScaleNum: 1, ScaleDen: 1000, Unit: "in/s"},
	{Key: "z_rms_velocity_mm_s", Offset: 1, ScaleNum: 1, ScaleDen: 1000, Unit: "mm/s"},
	{Key: "temperature_f", Offset: 2, Signed: true, ScaleNum: 1, ScaleDen: 100, Unit: "°F"},
	{Key: "temperature_c", Offset: 3, Signed: true, ScaleNum: 1, ScaleDen: 100, Unit: "°C"},
	{Key: "x_rms_velocity_in_s", Offset: 4, ScaleNum: 1, ScaleDen: 1000, Unit: "in/s"},
	{Key: "x_rms_velocity_mm_s", Offset: 5, ScaleNum: 1, ScaleDen: 1000, Unit: "mm/s"},
	{Key: "z_peak_accel_g", Offset: 6, ScaleNum: 1, ScaleDen: 1000, Unit: "g"},
	{Key: "x_peak_accel_g", Offset: 7, ScaleNum: 1, ScaleDen: 1000, Unit: "g"},
	{Key: "z_peak_velocity_in_s", Offset: 8, ScaleNum: 1, ScaleDen: 1000, Unit: "in/s"},
	{Key: "z_peak_velocity_mm_s", Offset: 9, ScaleNum: 1, ScaleDen: 1000, Unit: "mm/s"},
	{Key: "z_rms_accel_g", Offset: 10, ScaleNum: 1, ScaleDen: 1000, Unit: "g"},
	{Key: "x_rms_accel_g", Offset: 11, ScaleNum: 1, ScaleDen: 1000, Unit: "g"},
	{Key: "z_kurtosis", Offset: 12, ScaleNum: 1, ScaleDen: 1000, Unit: "-"},
	{Key: "x_kurtosis", Offset: 13, ScaleNum: 1, ScaleDen: 1000, Unit: "-"},
	{Key: "z_crest_factor", Offset: 14, ScaleNum: 1, ScaleDen: 1000, Unit: "-"},
	{Key: "x_crest_factor", Offset: 15, ScaleNum: 1, ScaleDen: 1000, Unit: "-"},
	{Key: "z_hf_rms_accel_g", Offset: 16, ScaleNum: 1, ScaleDen: 1000, Unit: "g"},
	{Key: "x_hf_rms_accel_g", Offset: 17, ScaleNum: 1, ScaleDen: 1000, Unit: "g"},
	{Key: "x_peak_velocity_in_s", Offset: 18, ScaleNum: 1, ScaleDen: 1000, Unit: "in/s"},
	{Key: "x_peak_velocity_mm_s", Offset: 19, ScaleNum: 1, ScaleDen: 1000, Unit: "mm/s"},
	{Key: "z_peak_frequency_hz", Offset: 20, ScaleNum: 1, ScaleDen: 10, Unit: "Hz"},
	{Key: "x_peak_frequency_hz", Offset: 21, ScaleNum: 1, ScaleDen: 10, Unit: "Hz"},
}

// KnownParameter reports whether key names a registry parameter. Used by
// configuration validation to reject thresholds on unknown parameters.
func KnownParameter(key string) bool {
	for _, d := range qm30vt2 {
		if d.Key == key {
			return true
		}
	}
	return false
}
