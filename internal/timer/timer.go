// Package timer implements the interval clock that paces the liveness
// indicator. The arithmetic deliberately computes elapsed-minus-interval as a
// fractional-second difference rather than comparing absolute deadlines, so
// second/microsecond carry falls out of the subtraction.
package timer

import "time"

// Stamp records when an interval last fired, split into whole seconds and the
// microsecond remainder.
type Stamp struct {
	Sec  int64
	Usec int64
}

// Clock returns the current time as a seconds/microseconds pair. Injectable
// so tests can drive the interval logic with a simulated clock.
type Clock func() (sec, usec int64)

// SystemClock reads the wall clock.
func SystemClock() (int64, int64) {
	now := time.Now()
	return now.Unix(), int64(now.Nanosecond() / 1000)
}

// Check reports whether intervalMs has fully elapsed since last fired.
//
// With intervalMs == 0 it unconditionally re-anchors last to the current time
// and returns true (one-shot mode, used to seed a reference point). Otherwise
// it returns true and re-anchors only when the interval has strictly elapsed;
// on false, last is left untouched. Each firing re-anchors to now, not to the
// theoretical deadline.
func Check(clock Clock, last *Stamp, intervalMs float64) bool {
	sec, usec := clock()

	if intervalMs == 0 {
		last.Sec, last.Usec = sec, usec
		return true
	}

	// Positive once the current time has passed last + interval.
	diff := float64(sec-last.Sec) +
		(float64(usec)-(float64(last.Usec)+intervalMs*1000))/1e6

	if diff > 0 {
		last.Sec, last.Usec = sec, usec
		return true
	}
	return false
}
