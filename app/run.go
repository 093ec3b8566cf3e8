package app

import (
	"context"
	"errors"
	"time"
)

var ErrTickRate = errors.New("ticks per second must be positive")

// Run ticks the application tps times a second until ctx ends, an exit is requested
// or maxTicks ticks have run. maxTicks <= 0 means no limit.
func (a *App) Run(ctx context.Context, tps int, maxTicks int) error {
	if tps <= 0 {
		return ErrTickRate
	}
	ticker := time.NewTicker(time.Second / time.Duration(tps))
	defer ticker.Stop()

	for n := 0; maxTicks <= 0 || n < maxTicks; n++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		a.Tick()
		if a.exit {
			return nil
		}
	}
	return nil
}
