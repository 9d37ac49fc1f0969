package raptor

// Stop is an integer identifier in [0, N_stops). Stops carry no
// attributes the core depends on beyond identity.
type Stop int

// NoStop is the NOT_SET sentinel for stop-valued fields.
const NoStop Stop = -1

// TripRef identifies a single trip schedule within a pattern. It is
// opaque outside this package beyond identity and the accessors the
// calculator/path extraction need.
type TripRef struct {
	PatternIdx int
	TripIdx    int
}

// Trip is one scheduled run of a pattern: parallel arrival/departure
// arrays covering every stop position of the pattern, required to be
// monotonically non-decreasing in position, plus a service code the
// provider hook filters by calendar.
type Trip struct {
	ServiceCode string
	Arrivals    []int64
	Departures  []int64
}

// Pattern is an immutable tuple of stop positions and the trip
// schedules that run them, FIFO-ordered: for any fixed position,
// departure time is non-decreasing across trips. Split non-FIFO
// patterns at load time, or the engine degrades a detected violation
// to linear scan for the remainder of that pattern (see tripsearch.go).
type Pattern struct {
	Stops []Stop
	Trips []Trip
}

func (p *Pattern) numTrips() int {
	return len(p.Trips)
}

// PositionOf returns the stop position of s within the pattern, or -1.
func (p *Pattern) PositionOf(s Stop) int {
	for i, stop := range p.Stops {
		if stop == s {
			return i
		}
	}
	return -1
}

// Leg is the shared shape for transfer, access, and egress legs - the
// core doesn't distinguish mode beyond the duration it adds.
type Leg struct {
	ToStop   Stop
	Duration int64
}

// PatternTouch is what the provider hands back from PatternsTouching:
// a pattern, positioned at the stop position its scan should start
// from (earliest touched position going forward, latest going
// reverse).
type PatternTouch struct {
	PatternIdx int
	Pattern    *Pattern
	FirstPos   int
}

// ValidateFIFO reports whether p's trips are FIFO-ordered: for every
// fixed stop position, departure time is non-decreasing across trip
// index, and within each trip, arrival never exceeds departure at the
// same position (§3, §7's DataInconsistency). A pattern failing this
// must fall back to linear trip search for the remainder of the
// request (see tripsearch.go's fifoOK parameter) rather than trust
// SearchTrip's binary-search fast path.
func (p *Pattern) ValidateFIFO() (ok bool, reason string) {
	numPos := len(p.Stops)
	for tIdx, trip := range p.Trips {
		if len(trip.Arrivals) != numPos || len(trip.Departures) != numPos {
			return false, "trip schedule length does not match pattern stop count"
		}
		for pos := 0; pos < numPos; pos++ {
			if trip.Arrivals[pos] > trip.Departures[pos] {
				return false, "arrival exceeds departure within a trip"
			}
			if pos > 0 && trip.Arrivals[pos] < trip.Departures[pos-1] {
				return false, "non-monotone stop times within a trip"
			}
		}
		if tIdx > 0 {
			prev := p.Trips[tIdx-1]
			for pos := 0; pos < numPos; pos++ {
				if trip.Departures[pos] < prev.Departures[pos] {
					return false, "trips not FIFO-ordered by departure time"
				}
			}
		}
	}
	return true, ""
}
