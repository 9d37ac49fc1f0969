package raptor

import "math"

// Calculator is the single abstraction that makes forward and reverse
// Raptor share every other component (besttimes.go, tripsearch.go,
// worker.go, path.go): every time comparison and every time formation
// goes through it. Code that must know the direction itself asks
// Forward() rather than checking the concrete type.
type Calculator interface {
	// Add combines a time with a duration in the search direction
	// (t+d forward, t-d reverse).
	Add(t, d int64) int64
	// Sub is the inverse of Add.
	Sub(t, d int64) int64
	// IsBetter reports whether a is strictly preferable to b in the
	// search direction (a<b forward, a>b reverse).
	IsBetter(a, b int64) bool
	// ExceedsLimit reports whether t has gone past the caller's time
	// limit in the search direction.
	ExceedsLimit(t int64) bool
	// Unreached is the sentinel "worst possible" time.
	Unreached() int64
	// BoardTimeFor returns the time a trip can be boarded at pos.
	BoardTimeFor(trip *Trip, pos int) int64
	// AlightTimeFor returns the time a trip can be alighted at pos.
	AlightTimeFor(trip *Trip, pos int) int64
	// EarliestBoardTime applies board slack to a previous alight or
	// access time to find the earliest one could board next.
	EarliestBoardTime(prevAlightOrAccess int64) int64
	// Forward reports whether this is the forward (depart-at)
	// direction, for the few places that must tell the two apart: the
	// pattern walk order, the trip-search window, elapsed-time and
	// path-extraction helpers, and the destination frontier's axes.
	Forward() bool
}

// ForwardCalculator implements depart-at semantics.
type ForwardCalculator struct {
	BoardSlack int64
	TimeLimit  int64
}

func (c *ForwardCalculator) Add(t, d int64) int64 { return t + d }
func (c *ForwardCalculator) Sub(t, d int64) int64 { return t - d }
func (c *ForwardCalculator) IsBetter(a, b int64) bool {
	return a < b
}
func (c *ForwardCalculator) ExceedsLimit(t int64) bool {
	return t > c.TimeLimit
}
func (c *ForwardCalculator) Unreached() int64 { return math.MaxInt64 }
func (c *ForwardCalculator) BoardTimeFor(trip *Trip, pos int) int64 {
	return trip.Departures[pos]
}
func (c *ForwardCalculator) AlightTimeFor(trip *Trip, pos int) int64 {
	return trip.Arrivals[pos]
}
func (c *ForwardCalculator) EarliestBoardTime(prev int64) int64 {
	if prev == c.Unreached() {
		return prev
	}
	return prev + c.BoardSlack
}
func (c *ForwardCalculator) Forward() bool { return true }

// ReverseCalculator implements arrive-by semantics: every comparison
// and arithmetic operation is the mirror image of ForwardCalculator.
type ReverseCalculator struct {
	BoardSlack int64
	TimeLimit  int64
}

func (c *ReverseCalculator) Add(t, d int64) int64 { return t - d }
func (c *ReverseCalculator) Sub(t, d int64) int64 { return t + d }
func (c *ReverseCalculator) IsBetter(a, b int64) bool {
	return a > b
}
func (c *ReverseCalculator) ExceedsLimit(t int64) bool {
	return t < c.TimeLimit
}
func (c *ReverseCalculator) Unreached() int64 { return math.MinInt64 }
func (c *ReverseCalculator) BoardTimeFor(trip *Trip, pos int) int64 {
	return trip.Arrivals[pos]
}
func (c *ReverseCalculator) AlightTimeFor(trip *Trip, pos int) int64 {
	return trip.Departures[pos]
}
func (c *ReverseCalculator) EarliestBoardTime(prev int64) int64 {
	if prev == c.Unreached() {
		return prev
	}
	return prev - c.BoardSlack
}
func (c *ReverseCalculator) Forward() bool { return false }
