// internal/modbus/errors.go
package modbus

import "fmt"

// ErrorKind is the closed taxonomy of transport and protocol failures.
// Retry policy dispatches on the kind, never on error text.
type ErrorKind int

const (
	// KindTimeout: the response never arrived (or arrived incomplete)
	// within the per-attempt deadline.
	KindTimeout ErrorKind = iota

	// KindChecksumMismatch: a frame arrived but failed CRC or echo
	// verification. The whole frame is discarded, never salvaged.
	KindChecksumMismatch

	// KindIllegalFunction: device exception 0x01. Configuration mismatch,
	// not transience.
	KindIllegalFunction

	// KindIllegalAddress: device exception 0x02. The register map does
	// not match the device.
	KindIllegalAddress

	// KindDeviceBusy: device exception 0x06. The device asked us to back
	// off and try again.
	KindDeviceBusy

	// KindPortUnavailable: OS-level serial failure (port gone, I/O error).
	// Fatal for the engine instance.
	KindPortUnavailable

	// KindExceptionOther: any other device-reported exception code.
	KindExceptionOther
)

func (k ErrorKind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindChecksumMismatch:
		return "checksum mismatch"
	case KindIllegalFunction:
		return "illegal function"
	case KindIllegalAddress:
		return "illegal address"
	case KindDeviceBusy:
		return "device busy"
	case KindPortUnavailable:
		return "port unavailable"
	case KindExceptionOther:
		return "device exception"
	}
	return "unknown"
}

// Retryable reports whether a failure of this kind is transient enough to
// spend retry budget on.
func (k ErrorKind) Retryable() bool {
	switch k {
	case KindTimeout, KindChecksumMismatch, KindDeviceBusy:
		return true
	}
	return false
}

// Error is a typed transport/protocol failure.
type Error struct {
	Kind ErrorKind

	// ExceptionCode is the raw device exception code. Zero unless the
	// failure was device-reported.
	ExceptionCode uint8

	// Detail is human-readable context. Informational only: callers must
	// dispatch on Kind.
	Detail string
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return "modbus: " + e.Kind.String()
	}
	return fmt.Sprintf("modbus: %s: %s", e.Kind, e.Detail)
}

func newError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}
