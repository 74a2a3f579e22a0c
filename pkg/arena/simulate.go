package arena

import (
	"context"

	"github.com/teslashibe/go-turret/pkg/targeting"
)

// Ticker is the part of a controller the arena drives.
type Ticker interface {
	Tick(env targeting.Environment) targeting.Command
}

// Simulate runs ticks controller ticks against w as fast as possible and
// returns the final score. It stops early if ctx is cancelled.
func Simulate(ctx context.Context, c Ticker, w *World, ticks int) Score {
	for i := 0; i < ticks; i++ {
		if ctx.Err() != nil {
			break
		}
		c.Tick(w)
		w.Step()
	}
	return w.Score()
}
