// cmd/sensorlinkd/main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gandiva/sensorlink/internal/config"
	"github.com/gandiva/sensorlink/internal/driver"
	"github.com/gandiva/sensorlink/internal/health"
	"github.com/gandiva/sensorlink/internal/link"
	"github.com/gandiva/sensorlink/internal/reader"
	"github.com/gandiva/sensorlink/internal/scale"
	"github.com/gandiva/sensorlink/internal/threshold"
)

// healthLogEvery controls how often a health summary line is emitted.
const healthLogEvery = 60

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: sensorlinkd <config.yaml>")
	}

	cfgPath := os.Args[1]

	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	if err := config.Validate(cfg); err != nil {
		log.Fatalf("config validation failed: %v", err)
	}

	config.Normalize(cfg)

	// --------------------
	// Build the engine
	// --------------------

	s := cfg.Sensor

	lnk, err := link.Open(link.Config{
		Path:       s.Serial.Port,
		BaudRate:   s.Serial.BaudRate,
		DataBits:   s.Serial.DataBits,
		Parity:     s.Serial.Parity,
		StopBits:   s.Serial.StopBits,
		Timeout:    time.Duration(s.Serial.TimeoutMs) * time.Millisecond,
		Turnaround: time.Duration(s.Serial.TurnaroundMs) * time.Millisecond,
	})
	if err != nil {
		log.Fatalf("serial open failed (%s): %v", s.Serial.Port, err)
	}
	defer lnk.Close()

	rdr, err := reader.New(lnk, reader.Policy{
		MaxAttempts: s.Retry.MaxAttempts,
		Backoff:     reader.Fixed(time.Duration(s.Retry.DelayMs) * time.Millisecond),
	})
	if err != nil {
		log.Fatalf("reader build failed: %v", err)
	}

	scaler, err := scale.NewScaler(scale.Registry(), int(s.Read.Quantity))
	if err != nil {
		log.Fatalf("scaler build failed: %v", err)
	}

	defs := make([]threshold.Definition, 0, len(cfg.Thresholds))
	for _, th := range cfg.Thresholds {
		defs = append(defs, threshold.Definition{
			Parameter:    th.Parameter,
			WarningLimit: th.WarningLimit,
			AlarmLimit:   th.AlarmLimit,
		})
	}
	table, err := threshold.NewTable(defs)
	if err != nil {
		log.Fatalf("threshold table build failed: %v", err)
	}

	tracker := health.New(s.Health.LatencyWindow)

	drv, err := driver.New(driver.Config{
		SlaveID:      s.SlaveID,
		StartAddress: s.Read.StartAddress,
		Quantity:     s.Read.Quantity,
	}, rdr, scaler, table, tracker)
	if err != nil {
		log.Fatalf("driver build failed: %v", err)
	}

	log.Printf("engine up: port=%s slave=%d block=%d@%d interval=%dms thresholds=%d",
		s.Serial.Port, s.SlaveID, s.Read.Quantity, s.Read.StartAddress,
		s.Poll.IntervalMs, table.Len())

	// --------------------
	// Cycle loop
	// --------------------

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := make(chan driver.Cycle)
	go drv.Run(ctx, time.Duration(s.Poll.IntervalMs)*time.Millisecond, out)

	cycles := 0
	for {
		select {
		case <-ctx.Done():
			log.Print("shutting down")
			return

		case c := <-out:
			cycles++

			if c.Err != nil {
				log.Printf("cycle failed: %v (attempts=%d)", c.Err, c.Attempts)
			} else if c.Eval.Overall != threshold.StatusOK {
				log.Printf("cycle %s: warnings=%d alarms=%d (attempts=%d)",
					c.Eval.Overall, c.Eval.WarningCount, c.Eval.AlarmCount, c.Attempts)
				for _, r := range c.Eval.Results {
					if r.Status != threshold.StatusOK {
						log.Printf("  %s: %s value=%g", r.Status, r.Parameter, r.Value)
					}
				}
			}

			if cycles%healthLogEvery == 0 {
				h := drv.Health()
				log.Printf("health: attempts=%d failed=%d streak=%d rate=%.3f",
					h.TotalAttempts, h.FailedAttempts, h.ConsecutiveFailures, h.SuccessRate)
			}
		}
	}
}
