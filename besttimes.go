package raptor

// BestTimes is the per-stop best-arrival index: two parallel arrays
// (overall, transit-only) plus the touched bitsets that drive which
// patterns get rescanned each round. Invariant maintained throughout:
// best_transit[s] is never better than best_overall[s] is required to
// be (IsBetter(best_overall[s], best_transit[s]) or equal), since the
// overall time can only improve via a transit arrival or something at
// least as good.
type BestTimes struct {
	calc Calculator

	bestOverall []int64
	bestTransit []int64

	// prevRoundOverall is a snapshot of bestOverall taken at the start
	// of each round (by PrepareForNextRound), used for boarding
	// decisions so pattern scanning observes round k-1, never round
	// k's own writes - the "round separation" invariant.
	prevRoundOverall []int64

	touchedTransitCurrent []bool
	touchedOverallLast    []bool
	touchedOverallCurrent []bool
	reachedByAccess       []bool
}

// NewBestTimes allocates a best-times index for numStops stops.
func NewBestTimes(numStops int, calc Calculator) *BestTimes {
	bt := &BestTimes{
		calc:                  calc,
		bestOverall:           make([]int64, numStops),
		bestTransit:           make([]int64, numStops),
		prevRoundOverall:      make([]int64, numStops),
		touchedTransitCurrent: make([]bool, numStops),
		touchedOverallLast:    make([]bool, numStops),
		touchedOverallCurrent: make([]bool, numStops),
		reachedByAccess:       make([]bool, numStops),
	}
	bt.PrepareForNewIteration()
	return bt
}

// SetAccessStop records an access arrival at s - round 0 only.
func (bt *BestTimes) SetAccessStop(s Stop, t int64) {
	bt.bestOverall[s] = t
	bt.reachedByAccess[s] = true
	bt.touchedOverallCurrent[s] = true
}

// UpdateOverall writes t as the new best overall time at s if it's an
// improvement, marking the stop touched this round.
func (bt *BestTimes) UpdateOverall(s Stop, t int64) bool {
	if bt.calc.IsBetter(t, bt.bestOverall[s]) {
		bt.bestOverall[s] = t
		bt.touchedOverallCurrent[s] = true
		return true
	}
	return false
}

// UpdateTransit writes t as the new best transit-only time at s if
// it's an improvement, marking the stop transit-touched this round.
func (bt *BestTimes) UpdateTransit(s Stop, t int64) bool {
	if bt.calc.IsBetter(t, bt.bestTransit[s]) {
		bt.bestTransit[s] = t
		bt.touchedTransitCurrent[s] = true
		return true
	}
	return false
}

// PrepareForNewIteration resets everything at the start of a Raptor
// iteration (one departure minute in the range window).
func (bt *BestTimes) PrepareForNewIteration() {
	u := bt.calc.Unreached()
	for i := range bt.bestOverall {
		bt.bestOverall[i] = u
		bt.bestTransit[i] = u
		bt.prevRoundOverall[i] = u
		bt.touchedTransitCurrent[i] = false
		bt.touchedOverallLast[i] = false
		bt.touchedOverallCurrent[i] = false
		bt.reachedByAccess[i] = false
	}
}

// PrepareForNextRound snapshots the overall array for this round's
// boarding decisions, rotates touched-current into touched-last, and
// clears both current bitsets for the round about to run.
func (bt *BestTimes) PrepareForNextRound() {
	copy(bt.prevRoundOverall, bt.bestOverall)
	copy(bt.touchedOverallLast, bt.touchedOverallCurrent)
	for i := range bt.touchedOverallCurrent {
		bt.touchedOverallCurrent[i] = false
		bt.touchedTransitCurrent[i] = false
	}
}

// IsCurrentRoundUpdated reports whether any stop improved this round,
// on either axis - the worker's termination condition.
func (bt *BestTimes) IsCurrentRoundUpdated() bool {
	for i := range bt.touchedOverallCurrent {
		if bt.touchedOverallCurrent[i] || bt.touchedTransitCurrent[i] {
			return true
		}
	}
	return false
}

// BestOverall returns the current best overall arrival time at s.
func (bt *BestTimes) BestOverall(s Stop) int64 { return bt.bestOverall[s] }

// BestTransit returns the current best transit-only arrival time at s.
func (bt *BestTimes) BestTransit(s Stop) int64 { return bt.bestTransit[s] }

// BestTimePrevRound returns the overall time as of the start of the
// current round, for boarding decisions (see prevRoundOverall).
func (bt *BestTimes) BestTimePrevRound(s Stop) int64 { return bt.prevRoundOverall[s] }

// WasTouchedLastRound reports whether s improved during the previous
// round - the trigger for re-scanning patterns serving it.
func (bt *BestTimes) WasTouchedLastRound(s Stop) bool { return bt.touchedOverallLast[s] }

// ReachedByAccess reports whether s was set directly by an access leg.
func (bt *BestTimes) ReachedByAccess(s Stop) bool { return bt.reachedByAccess[s] }

// TouchedLastRound returns the stops touched in the previous round, in
// ascending stop order - the set the worker feeds into
// TransitData.PatternsTouching.
func (bt *BestTimes) TouchedLastRound() []Stop {
	out := make([]Stop, 0, len(bt.touchedOverallLast)/4+1)
	for i, touched := range bt.touchedOverallLast {
		if touched {
			out = append(out, Stop(i))
		}
	}
	return out
}

// TouchedTransitCurrentRound returns the stops whose transit time
// improved this round, in ascending stop order - used by
// apply_transfers.
func (bt *BestTimes) TouchedTransitCurrentRound() []Stop {
	out := make([]Stop, 0, len(bt.touchedTransitCurrent)/4+1)
	for i, touched := range bt.touchedTransitCurrent {
		if touched {
			out = append(out, Stop(i))
		}
	}
	return out
}
