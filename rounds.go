package raptor

// RoundTracker owns the current round index and the bound on how many
// rounds a request may run: an absolute cap, tightened once the
// destination is first reached to "k extra rounds after that point".
type RoundTracker struct {
	absoluteCap      int
	extraAfterReach  int
	round            int
	destinationReached bool
	firstRoundReached int
}

// NewRoundTracker builds a tracker bounded by absoluteCap total rounds,
// or extraAfterReach rounds past whichever round first reaches the
// destination, whichever is smaller.
func NewRoundTracker(absoluteCap, extraAfterReach int) *RoundTracker {
	return &RoundTracker{absoluteCap: absoluteCap, extraAfterReach: extraAfterReach}
}

// BeginIteration resets the round counter and the destination-reached
// latch for a new departure-minute iteration (§4.6): each iteration in
// the range window starts with a clean round budget, since a different
// departure minute can board different trips and legitimately need
// more (or fewer) rounds to reach the destination than its neighbors.
func (rt *RoundTracker) BeginIteration() {
	rt.round = 0
	rt.destinationReached = false
	rt.firstRoundReached = 0
}

// NextRound advances to the next round.
func (rt *RoundTracker) NextRound() {
	rt.round++
}

// Round returns the current round index.
func (rt *RoundTracker) Round() int { return rt.round }

// EffectiveCap returns the round bound in effect right now.
func (rt *RoundTracker) EffectiveCap() int {
	if !rt.destinationReached {
		return rt.absoluteCap
	}
	cap := rt.firstRoundReached + rt.extraAfterReach
	if cap > rt.absoluteCap {
		return rt.absoluteCap
	}
	return cap
}

// HasMoreRounds reports whether another round may run.
func (rt *RoundTracker) HasMoreRounds() bool {
	return rt.round < rt.EffectiveCap()
}

// NotifyDestinationReached latches the first round in which the
// destination was reached; subsequent calls are no-ops.
func (rt *RoundTracker) NotifyDestinationReached() {
	if !rt.destinationReached {
		rt.destinationReached = true
		rt.firstRoundReached = rt.round
	}
}
