package leafy

import (
	"time"
)

// Clock tracks frame timing. Elapsed and Delta are in seconds.
type Clock struct {
	Start   time.Time
	Now     time.Time
	Elapsed float64
	Delta   float64
	FPS     float64
	Frames  uint64
}

func NewClock(start time.Time) *Clock {
	return &Clock{
		Start: start,
		Now:   start,
		Delta: 1,
		FPS:   1,
	}
}

// Tick advances the clock to now. FPS keeps its last value when no time
// has passed.
func (c *Clock) Tick(now time.Time) {
	elapsed := now.Sub(c.Start).Seconds()
	c.Delta = elapsed - c.Elapsed
	c.Elapsed = elapsed
	c.Now = now
	c.Frames++
	if c.Delta > 0 {
		c.FPS = 1 / c.Delta
	}
}

type ClockModule struct{}

func (ClockModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(NewClock(time.Now()))
	app.UseSystem(
		System(clockSystem).
			InStage(Prelude).
			RunAlways(),
	)
}

func clockSystem(clock *Clock) {
	clock.Tick(time.Now())
}
