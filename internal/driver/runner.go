// internal/driver/runner.go
package driver

import (
	"context"
	"time"
)

// Run starts the ticker loop and emits one Cycle per tick on out.
// Cycles are strictly sequential: a tick fires the next cycle only after
// the previous one has fully returned to idle. No retries here, no
// overlap; scheduling is this loop's only job.
func (d *Driver) Run(ctx context.Context, interval time.Duration, out chan<- Cycle) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			select {
			case <-ctx.Done():
				return
			case out <- d.RunOnce():
			}
		}
	}
}
