package raptor

// binarySearchThreshold is the trip count above which SearchTrip
// switches from linear to binary search, per §4.3: "MAY substitute
// binary search when upper_bound > threshold, provided FIFO ordering
// holds."
const binarySearchThreshold = 20

// TripSearchResult is the outcome of a boardable-trip search.
type TripSearchResult struct {
	Found              bool
	CandidateTripIndex int
	CandidateTrip      *Trip
	CandidateTripTime  int64
}

// IsRunning filters trips by calendar/service. Implementations must be
// pure - no side effects - per §4.1.
type IsRunning func(serviceCode string) bool

// acceptable reports whether trip i's board time at pos is not worse
// than earliestBoard, direction-agnostic via the calculator: forward
// "not worse" means >=, reverse means <=, both captured by a single
// !IsBetter(boardTime, earliestBoard) test.
func acceptableBoardTime(calc Calculator, pattern *Pattern, earliestBoard int64, pos, i int) (int64, bool) {
	t := calc.BoardTimeFor(&pattern.Trips[i], pos)
	return t, !calc.IsBetter(t, earliestBoard)
}

// searchWindow returns the half-open trip-index range worth
// considering: the whole pattern when no trip is boarded yet
// (currentTripIdx < 0), or only the half of the index range that
// could possibly be a preferred alternative to currentTripIdx.
// Trips share one FIFO schedule order for both directions: forward
// prefers smaller indices (earlier departures), so only indices below
// currentTripIdx are worth a second look; reverse prefers larger
// indices, so only those above it are.
func searchWindow(calc Calculator, numTrips, currentTripIdx int) (lo, hi int) {
	if calc.Forward() {
		if currentTripIdx < 0 {
			return 0, numTrips
		}
		return 0, currentTripIdx
	}
	if currentTripIdx < 0 {
		return 0, numTrips
	}
	return currentTripIdx + 1, numTrips
}

// SearchTrip returns the preferred trip in [lo, hi) whose board time
// at pos is not worse than earliestBoard, skipping trips whose
// service isn't running that search date. currentTripIdx is the
// currently-boarded trip index, or -1 if none; it (and the search
// direction) determines the window via searchWindow.
//
// fifoOK gates the binary-search fast path: a caller that detected a
// FIFO violation on this pattern should pass false to force the
// linear fallback described in §4.3's edge cases, since binary search
// assumes board-time-at-pos is monotone in trip index.
func SearchTrip(calc Calculator, pattern *Pattern, earliestBoard int64, pos, currentTripIdx int, fifoOK bool, running IsRunning) TripSearchResult {
	lo, hi := searchWindow(calc, pattern.numTrips(), currentTripIdx)
	if lo >= hi {
		return TripSearchResult{}
	}

	if fifoOK && hi-lo > binarySearchThreshold {
		if result, ok := searchTripBinary(calc, pattern, earliestBoard, pos, lo, hi, running); ok {
			return result
		}
		return TripSearchResult{}
	}
	return searchTripLinear(calc, pattern, earliestBoard, pos, lo, hi, running)
}

// searchTripLinear scans the acceptable run within [lo, hi) and keeps
// whichever extreme index is preferred for this direction: forward
// keeps the lowest acceptable index (scanning hi-1 down to lo),
// reverse keeps the highest (scanning lo up to hi-1). Both break as
// soon as the run ends, since the unexamined remainder is provably
// all-unacceptable by monotonicity.
func searchTripLinear(calc Calculator, pattern *Pattern, earliestBoard int64, pos, lo, hi int, running IsRunning) TripSearchResult {
	if calc.Forward() {
		best := TripSearchResult{}
		for i := hi - 1; i >= lo; i-- {
			trip := &pattern.Trips[i]
			if running != nil && !running(trip.ServiceCode) {
				continue
			}
			t, ok := acceptableBoardTime(calc, pattern, earliestBoard, pos, i)
			if !ok {
				break
			}
			best = TripSearchResult{Found: true, CandidateTripIndex: i, CandidateTrip: trip, CandidateTripTime: t}
		}
		return best
	}

	best := TripSearchResult{}
	for i := lo; i < hi; i++ {
		trip := &pattern.Trips[i]
		if running != nil && !running(trip.ServiceCode) {
			continue
		}
		t, ok := acceptableBoardTime(calc, pattern, earliestBoard, pos, i)
		if !ok {
			break
		}
		best = TripSearchResult{Found: true, CandidateTripIndex: i, CandidateTrip: trip, CandidateTripTime: t}
	}
	return best
}

// searchTripBinary locates the boundary of the acceptable run within
// [lo, hi) via binary search, then scans toward the preferred extreme
// for the first running trip still inside that run.
func searchTripBinary(calc Calculator, pattern *Pattern, earliestBoard int64, pos, lo, hi int, running IsRunning) (TripSearchResult, bool) {
	if calc.Forward() {
		// Acceptable is false-then-true within [lo, hi); find the
		// leftmost true.
		l, h := lo, hi
		for l < h {
			mid := (l + h) / 2
			if _, ok := acceptableBoardTime(calc, pattern, earliestBoard, pos, mid); ok {
				h = mid
			} else {
				l = mid + 1
			}
		}
		for i := l; i < hi; i++ {
			trip := &pattern.Trips[i]
			if running != nil && !running(trip.ServiceCode) {
				continue
			}
			t, ok := acceptableBoardTime(calc, pattern, earliestBoard, pos, i)
			if !ok {
				return TripSearchResult{}, false
			}
			return TripSearchResult{Found: true, CandidateTripIndex: i, CandidateTrip: trip, CandidateTripTime: t}, true
		}
		return TripSearchResult{}, false
	}

	// Acceptable is true-then-false within [lo, hi); find the
	// rightmost true.
	l, h := lo-1, hi-1
	for l < h {
		mid := (l + h + 1) / 2
		if _, ok := acceptableBoardTime(calc, pattern, earliestBoard, pos, mid); ok {
			l = mid
		} else {
			h = mid - 1
		}
	}
	for i := l; i >= lo; i-- {
		trip := &pattern.Trips[i]
		if running != nil && !running(trip.ServiceCode) {
			continue
		}
		t, ok := acceptableBoardTime(calc, pattern, earliestBoard, pos, i)
		if !ok {
			return TripSearchResult{}, false
		}
		return TripSearchResult{Found: true, CandidateTripIndex: i, CandidateTrip: trip, CandidateTripTime: t}, true
	}
	return TripSearchResult{}, false
}
