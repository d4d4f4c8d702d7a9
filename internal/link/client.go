// internal/link/client.go
package link

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/goburrow/serial"

	"github.com/gandiva/sensorlink/internal/modbus"
)

// Port is the minimal serial port surface the client needs. Satisfied by
// serial.Port; fakes implement it in tests.
type Port interface {
	io.ReadWriteCloser
}

// Config carries the physical serial parameters plus the link timing knobs.
type Config struct {
	Path     string // e.g. /dev/ttyUSB0
	BaudRate int
	DataBits int
	Parity   string // "N", "E", "O"
	StopBits int

	// Timeout bounds each read attempt on the port.
	Timeout time.Duration

	// Turnaround is slept after every successful exchange before the link
	// may be reused. The device needs settling time after answering;
	// skipping this raises checksum-error rates on the bus. Invariant,
	// not tuning.
	Turnaround time.Duration
}

// Client owns the serial port exclusively. The bus is half-duplex: one
// request/response exchange at a time. The client is not safe for
// concurrent use and is deliberately unguarded; its single owner is the
// acquisition driver.
type Client struct {
	port       Port
	turnaround time.Duration
	sleep      func(time.Duration)
}

// Open opens the serial port and returns a connected client.
func Open(cfg Config) (*Client, error) {
	if cfg.Path == "" {
		return nil, errors.New("link: port path required")
	}
	port, err := serial.Open(&serial.Config{
		Address:  cfg.Path,
		BaudRate: cfg.BaudRate,
		DataBits: cfg.DataBits,
		Parity:   cfg.Parity,
		StopBits: cfg.StopBits,
		Timeout:  cfg.Timeout,
	})
	if err != nil {
		return nil, err
	}
	return NewClient(port, cfg), nil
}

// NewClient wraps an already-open port. Used directly by tests.
func NewClient(port Port, cfg Config) *Client {
	return &Client{
		port:       port,
		turnaround: cfg.Turnaround,
		sleep:      time.Sleep,
	}
}

// SetSleep replaces the turnaround sleep. Test hook.
func (c *Client) SetSleep(f func(time.Duration)) {
	c.sleep = f
}

// Close releases the port.
func (c *Client) Close() error {
	return c.port.Close()
}

// Exchange writes one request frame and blocks until a complete response
// frame arrives or the port timeout elapses.
//
// respLen is the expected normal response length. Exception responses are
// shorter; they are detected from the echoed function code as soon as the
// second byte arrives, and the read target shrinks accordingly.
func (c *Client) Exchange(req []byte, respLen int) ([]byte, *modbus.Error) {
	if _, err := c.port.Write(req); err != nil {
		return nil, &modbus.Error{Kind: modbus.KindPortUnavailable, Detail: "write: " + err.Error()}
	}

	buf := make([]byte, 0, respLen)
	tmp := make([]byte, respLen)
	need := respLen

	for len(buf) < need {
		n, err := c.port.Read(tmp[:need-len(buf)])
		buf = append(buf, tmp[:n]...)

		if len(buf) >= 2 && buf[1]&0x80 != 0 {
			need = modbus.ExceptionLength
		}

		if err != nil {
			if errors.Is(err, serial.ErrTimeout) {
				if len(buf) >= need {
					break
				}
				return nil, &modbus.Error{
					Kind:   modbus.KindTimeout,
					Detail: fmt.Sprintf("received %d of %d bytes", len(buf), need),
				}
			}
			return nil, &modbus.Error{Kind: modbus.KindPortUnavailable, Detail: "read: " + err.Error()}
		}
	}

	// Device-side turnaround before the bus may be touched again.
	c.sleep(c.turnaround)

	return buf[:need], nil
}
