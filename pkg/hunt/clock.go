package hunt

import "time"

// Clock supplies the timers that settle step tasks
type Clock interface {
	After(d time.Duration) <-chan time.Time
}

// RealClock waits on wall-clock time
type RealClock struct{}

func (RealClock) After(d time.Duration) <-chan time.Time {
	return time.After(d)
}

// InstantClock fires every timer immediately
type InstantClock struct{}

func (InstantClock) After(time.Duration) <-chan time.Time {
	ch := make(chan time.Time, 1)
	ch <- time.Now()
	return ch
}

// ScaledClock stretches or shrinks every delay by Factor before handing it to Base.
type ScaledClock struct {
	Base   Clock
	Factor float64
}

func (c ScaledClock) After(d time.Duration) <-chan time.Time {
	return c.Base.After(time.Duration(float64(d) * c.Factor))
}

// ClockForSpeed picks the clock for a latency multiplier; zero or less means no waiting
func ClockForSpeed(speed float64) Clock {
	switch {
	case speed <= 0:
		return InstantClock{}
	case speed == 1:
		return RealClock{}
	default:
		return ScaledClock{Base: RealClock{}, Factor: speed}
	}
}
