// internal/modbus/crc.go
package modbus

// Sum16 computes the Modbus RTU CRC-16 (polynomial 0xA001, initial
// register 0xFFFF) over data.
func Sum16(data []byte) uint16 {
	crc := uint16(0xFFFF)
	for _, b := range data {
		crc ^= uint16(b)
		for i := 0; i < 8; i++ {
			if crc&0x0001 != 0 {
				crc = (crc >> 1) ^ 0xA001
			} else {
				crc >>= 1
			}
		}
	}
	return crc
}

// AppendCRC appends the CRC of frame to frame, low byte first (the RTU
// wire convention).
func AppendCRC(frame []byte) []byte {
	crc := Sum16(frame)
	return append(frame, byte(crc&0xFF), byte(crc>>8))
}

// VerifyCRC recomputes the CRC over all bytes except the trailing two and
// compares it against the trailer.
func VerifyCRC(frame []byte) bool {
	if len(frame) < 3 {
		return false
	}
	body := frame[:len(frame)-2]
	crc := Sum16(body)
	return frame[len(frame)-2] == byte(crc&0xFF) && frame[len(frame)-1] == byte(crc>>8)
}
