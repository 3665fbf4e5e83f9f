package sim

import (
	"fmt"
	"math"
)

// Freq is a clock frequency in Hz.
type Freq float64

// Frequency units.
const (
	Hz  Freq = 1
	KHz Freq = 1e3
	MHz Freq = 1e6
	GHz Freq = 1e9
)

// Period returns the time between two ticks.
func (f Freq) Period() VTimeInSec {
	f.mustBePositive()

	return VTimeInSec(1 / f)
}

// Cycle returns the number of the tick closest to the given time.
func (f Freq) Cycle(t VTimeInSec) uint64 {
	return uint64(math.Round(float64(t) * float64(f)))
}

// ThisTick returns the earliest tick at or after t.
func (f Freq) ThisTick(t VTimeInSec) VTimeInSec {
	return f.tickTime(math.Ceil(f.cycles(t)))
}

// NextTick returns the earliest tick strictly after t.
func (f Freq) NextTick(t VTimeInSec) VTimeInSec {
	return f.tickTime(math.Floor(f.cycles(t)) + 1)
}

// cycles converts a time to a fractional cycle count. The count is rounded to
// a tenth of a cycle so that float error does not push a time that sits on a
// tick into the next cycle.
func (f Freq) cycles(t VTimeInSec) float64 {
	f.mustBePositive()

	if math.IsNaN(float64(t)) {
		panic("time is NaN")
	}

	return math.Round(float64(t)*float64(f)*10) / 10
}

func (f Freq) tickTime(cycle float64) VTimeInSec {
	return VTimeInSec(cycle / float64(f))
}

func (f Freq) mustBePositive() {
	if f <= 0 {
		panic(fmt.Sprintf("frequency must be positive, got %g", float64(f)))
	}
}
