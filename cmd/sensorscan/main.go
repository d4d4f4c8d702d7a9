// cmd/sensorscan/main.go
//
// sensorscan probes a serial bus for a responding Modbus sensor: it walks
// candidate slave IDs across candidate baud rates until a read answers,
// then dumps one scaled measurement block. Diagnostic tool for
// commissioning; the acquisition daemon never auto-detects.
package main

import (
	"flag"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/goburrow/modbus"

	"github.com/gandiva/sensorlink/internal/scale"
)

func main() {
	var (
		port    = flag.String("port", "/dev/ttyUSB0", "serial port to probe")
		bauds   = flag.String("bauds", "19200,9600,38400,57600,115200", "baud rates to try")
		slaves  = flag.String("slaves", "1-10", "slave ID range to try")
		timeout = flag.Duration("timeout", 500*time.Millisecond, "per-probe timeout")
	)
	flag.Parse()

	baudList, err := parseInts(*bauds)
	if err != nil {
		log.Fatalf("bad -bauds: %v", err)
	}
	slaveList, err := parseRange(*slaves)
	if err != nil {
		log.Fatalf("bad -slaves: %v", err)
	}

	log.Printf("probing %s: %d baud rates x %d slave IDs", *port, len(baudList), len(slaveList))

	for _, baud := range baudList {
		for _, slave := range slaveList {
			if probe(*port, baud, slave, *timeout) {
				log.Printf("FOUND: baud=%d slave=%d", baud, slave)
				dumpBlock(*port, baud, slave, *timeout)
				return
			}
		}
	}

	log.Fatal("no responding sensor found")
}

// probe attempts a single one-register read.
func probe(port string, baud int, slave byte, timeout time.Duration) bool {
	handler := modbus.NewRTUClientHandler(port)
	handler.BaudRate = baud
	handler.DataBits = 8
	handler.Parity = "N"
	handler.StopBits = 1
	handler.SlaveId = slave
	handler.Timeout = timeout

	if err := handler.Connect(); err != nil {
		log.Fatalf("open %s: %v", port, err)
	}
	defer handler.Close()

	_, err := modbus.NewClient(handler).ReadHoldingRegisters(scale.DefaultBlockStart, 1)
	return err == nil
}

// dumpBlock reads the full measurement block and prints it scaled.
func dumpBlock(port string, baud int, slave byte, timeout time.Duration) {
	handler := modbus.NewRTUClientHandler(port)
	handler.BaudRate = baud
	handler.DataBits = 8
	handler.Parity = "N"
	handler.StopBits = 1
	handler.SlaveId = slave
	handler.Timeout = timeout

	if err := handler.Connect(); err != nil {
		log.Fatalf("open %s: %v", port, err)
	}
	defer handler.Close()

	raw, err := modbus.NewClient(handler).ReadHoldingRegisters(scale.DefaultBlockStart, scale.DefaultBlockLen)
	if err != nil {
		log.Printf("block read failed: %v", err)
		return
	}

	words := make([]uint16, len(raw)/2)
	for i := range words {
		words[i] = uint16(raw[2*i])<<8 | uint16(raw[2*i+1])
	}

	scaler, err := scale.NewScaler(scale.Registry(), scale.DefaultBlockLen)
	if err != nil {
		log.Fatalf("scaler build failed: %v", err)
	}

	reading := scaler.Apply(words, time.Now())
	if !reading.BlockValid {
		log.Printf("short block: %d words", len(words))
		return
	}

	for _, def := range scale.Registry() {
		fmt.Printf("%-24s %10.3f %-5s (raw %d)\n",
			def.Key, reading.Values[def.Key], def.Unit, words[def.Offset])
	}
}

func parseInts(s string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func parseRange(s string) ([]byte, error) {
	lo, hi, ok := strings.Cut(s, "-")
	if !ok {
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, err
		}
		return []byte{byte(n)}, nil
	}
	a, err := strconv.Atoi(strings.TrimSpace(lo))
	if err != nil {
		return nil, err
	}
	b, err := strconv.Atoi(strings.TrimSpace(hi))
	if err != nil {
		return nil, err
	}
	if a < 1 || b > 247 || a > b {
		return nil, fmt.Errorf("range %s outside 1-247", s)
	}
	var out []byte
	for n := a; n <= b; n++ {
		out = append(out, byte(n))
	}
	return out, nil
}
