// internal/modbus/frame.go
package modbus

import (
	"encoding/binary"
	"fmt"
)

// FuncReadHolding is the only function code this codec speaks (FC 3,
// read holding registers).
const FuncReadHolding uint8 = 0x03

// exceptionFlag is set on the echoed function code of exception responses.
const exceptionFlag uint8 = 0x80

// Device exception codes (Modbus spec, annex A).
const (
	excIllegalFunction uint8 = 0x01
	excIllegalAddress  uint8 = 0x02
	excDeviceBusy      uint8 = 0x06
)

// ExceptionLength is the total size of an exception response frame:
// slave(1) + fc(1) + code(1) + crc(2).
const ExceptionLength = 5

// RequestLength is the total size of a read request frame.
const RequestLength = 8

// ResponseLength returns the total size of a normal read response for the
// given register quantity: slave(1) + fc(1) + count(1) + data(2q) + crc(2).
func ResponseLength(quantity uint16) int {
	return 5 + 2*int(quantity)
}

// BuildReadRequest builds a read-holding-registers request frame with the
// CRC appended.
//
//	[slave][0x03][start hi][start lo][count hi][count lo][crc lo][crc hi]
func BuildReadRequest(slave uint8, start, quantity uint16) []byte {
	frame := make([]byte, 6, RequestLength)
	frame[0] = slave
	frame[1] = FuncReadHolding
	binary.BigEndian.PutUint16(frame[2:4], start)
	binary.BigEndian.PutUint16(frame[4:6], quantity)
	return AppendCRC(frame)
}

// ParseReadResponse validates a response frame against the request it
// answers and unpacks the register data.
//
// Any corruption (bad CRC, wrong slave echo, wrong function echo, byte
// count inconsistent with quantity) discards the whole frame as
// KindChecksumMismatch. Exception responses decode to their typed kind.
func ParseReadResponse(slave uint8, quantity uint16, frame []byte) ([]uint16, *Error) {
	if len(frame) < ExceptionLength {
		return nil, newError(KindChecksumMismatch, "frame too short: %d bytes", len(frame))
	}
	if !VerifyCRC(frame) {
		return nil, newError(KindChecksumMismatch, "crc check failed on %d-byte frame", len(frame))
	}
	if frame[0] != slave {
		return nil, newError(KindChecksumMismatch, "slave echo %d, want %d", frame[0], slave)
	}

	if frame[1] == FuncReadHolding|exceptionFlag {
		return nil, decodeException(frame[2])
	}
	if frame[1] != FuncReadHolding {
		return nil, newError(KindChecksumMismatch, "function echo 0x%02X, want 0x%02X", frame[1], FuncReadHolding)
	}

	byteCount := int(frame[2])
	if byteCount != 2*int(quantity) || len(frame) != ResponseLength(quantity) {
		return nil, newError(KindChecksumMismatch,
			"byte count %d for %d-register read (%d-byte frame)", byteCount, quantity, len(frame))
	}

	words := make([]uint16, quantity)
	for i := range words {
		words[i] = binary.BigEndian.Uint16(frame[3+2*i : 5+2*i])
	}
	return words, nil
}

func decodeException(code uint8) *Error {
	var kind ErrorKind
	switch code {
	case excIllegalFunction:
		kind = KindIllegalFunction
	case excIllegalAddress:
		kind = KindIllegalAddress
	case excDeviceBusy:
		kind = KindDeviceBusy
	default:
		kind = KindExceptionOther
	}
	return &Error{Kind: kind, ExceptionCode: code, Detail: fmt.Sprintf("exception code %d", code)}
}
