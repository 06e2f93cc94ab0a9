package clock

import (
	"time"

	"go.uber.org/fx"
)

// Clock supplies the current time. Services take it as a dependency so
// tests can pin timestamps.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

func NewSystem() Clock {
	return systemClock{}
}

var Module = fx.Module("clock",
	fx.Provide(NewSystem),
)
