package raptor

// DestinationArrival is one candidate journey reaching the
// destination, kept only long enough to decide whether it survives
// the destination-wide Pareto frontier; the winners are turned into
// Paths by CommitIteration, which the worker calls at the end of every
// departure-minute iteration.
type DestinationArrival struct {
	Round       int
	ArrivalTime int64
	Cost        int64

	// scalar-store extraction fields
	ScalarStop Stop
	ScalarRound int
	egressDuration int64

	// multi-criteria extraction fields
	mcIndex ArrivalIndex
	mcUsed  bool
}

// DestinationArrivals is the C8 store: a single Pareto frontier (not
// one per round, the destination is one place), finally dominated on
// (end_time, start_time, n_transfers, total_travel_duration) - a later
// start and an earlier end both count as better - plus Cost as a
// fifth axis when fed from the multi-criteria store. The raw
// candidate-stage set (below) can only gate on (arrival_time, round
// [, cost]): total_travel_duration needs the journey's real start
// time, which isn't known until a candidate is walked back to its
// access leg during extraction, so that axis is applied only once on
// finalSet - see CommitIteration.
type DestinationArrivals struct {
	calc       Calculator
	roundTracker *RoundTracker
	set        *ParetoSet[DestinationArrival]
	debug      *Registry

	// finalSet holds fully-extracted Paths, committed at the end of
	// every iteration via CommitIteration. Extraction must happen
	// before the next iteration resets the scalar/multi-criteria
	// store's arena, so finalSet - not set's raw back-pointer handles
	// - is what survives across the whole departure-minute window.
	finalSet *ParetoSet[Path]
	marker   int

	// seen dedupes by Path.Fingerprint - many departure minutes within
	// one trip's board window produce the identical physical journey
	// (same boarded trip, same real schedule times), and equal-valued
	// Paths don't dominate each other under strict Pareto comparison,
	// so without this the result would carry one duplicate per minute
	// rather than one path per distinct journey (§3, testable property 9).
	seen map[string]bool
}

// NewDestinationArrivals builds the destination frontier. useCost
// adds the cost axis for multi-criteria requests.
func NewDestinationArrivals(calc Calculator, roundTracker *RoundTracker, useCost bool, debug *Registry) *DestinationArrivals {
	axes := []Axis[DestinationArrival]{
		LessAxis(func(d DestinationArrival) int64 { return d.ArrivalTime }, calc.IsBetter),
		LessAxis(func(d DestinationArrival) int { return d.Round }, func(a, b int) bool { return a < b }),
	}
	if useCost {
		axes = append(axes, LessAxis(func(d DestinationArrival) int64 { return d.Cost }, func(a, b int64) bool { return a < b }))
	}
	sink := func(kind EventKind, candidate, witness any) {
		ev := DestinationEvent{Kind: kind}
		if c, ok := candidate.(DestinationArrival); ok {
			ev.Round, ev.ArrivalTime = c.Round, c.ArrivalTime
		}
		debug.EmitDestination(ev)
	}

	finalAxes := []Axis[Path]{
		LessAxis(func(p Path) int64 {
			if calc.Forward() {
				return p.EndTime
			}
			return p.StartTime
		}, calc.IsBetter),
		// the opposite endpoint: a later start (forward) or an earlier
		// end (reverse) is better, so journeys on different trips of the
		// range window do not dominate one another.
		LessAxis(func(p Path) int64 {
			if calc.Forward() {
				return p.StartTime
			}
			return p.EndTime
		}, func(a, b int64) bool { return calc.IsBetter(b, a) }),
		LessAxis(func(p Path) int { return p.NTransfers }, func(a, b int) bool { return a < b }),
		LessAxis(func(p Path) int64 { return p.TotalTravelDuration }, func(a, b int64) bool { return a < b }),
	}
	if useCost {
		finalAxes = append(finalAxes, LessAxis(func(p Path) int64 { return p.Cost }, func(a, b int64) bool { return a < b }))
	}

	return &DestinationArrivals{
		calc: calc, roundTracker: roundTracker, debug: debug,
		set:      NewParetoSet(axes, sink),
		finalSet: NewParetoSet(finalAxes, nil),
	}
}

// OnScalarEgress is the hook installed via ScalarStopArrivals.SetEgressHook:
// every improved transit arrival at an egress stop becomes a
// destination-arrival candidate.
func (d *DestinationArrivals) OnScalarEgress(round int, stop Stop, transitArrival, egressDuration int64) {
	arrival := d.calc.Add(transitArrival, egressDuration)
	cand := DestinationArrival{
		Round: round, ArrivalTime: arrival,
		ScalarStop: stop, ScalarRound: round, egressDuration: egressDuration,
	}
	if d.set.Insert(cand) {
		d.roundTracker.NotifyDestinationReached()
	}
}

// OnMCEgress is the hook installed via MultiCriteriaStopArrivals.SetEgressHook.
func (d *DestinationArrivals) OnMCEgress(round int, idx ArrivalIndex, egressDuration int64, store *MultiCriteriaStopArrivals) {
	node := store.Node(idx)
	arrival := d.calc.Add(node.ArrivalTime, egressDuration)
	cand := DestinationArrival{
		Round: round, ArrivalTime: arrival, Cost: node.Cost,
		mcIndex: idx, mcUsed: true, egressDuration: egressDuration,
	}
	if d.set.Insert(cand) {
		d.roundTracker.NotifyDestinationReached()
	}
}

// Members returns the surviving destination-arrival candidates.
func (d *DestinationArrivals) Members() []DestinationArrival {
	return d.set.Members()
}

// Len reports how many destination arrivals currently survive.
func (d *DestinationArrivals) Len() int { return d.set.Len() }

// Reset clears the frontier at the start of a request - not between
// iterations, see ScalarWorker.ResetDestinations.
func (d *DestinationArrivals) Reset() {
	d.set.Reset()
	d.finalSet.Reset()
	d.marker = 0
	d.seen = nil
}

// CommitIteration extracts a Path for every destination-arrival
// candidate accepted since the last commit and inserts it into the
// persistent final frontier, via extract. This must run once at the
// end of every departure-minute iteration, before the worker's store
// is reset for the next one: a multi-criteria arrival's back-pointers
// live in an arena that gets truncated on the next ResetForNewIteration,
// so deferring extraction until after the whole window would read
// stale or overwritten nodes.
func (d *DestinationArrivals) CommitIteration(extract func(DestinationArrival) Path) {
	if d.seen == nil {
		d.seen = make(map[string]bool)
	}
	for _, cand := range d.set.SinceMarker(d.marker) {
		p := extract(cand)
		fp := p.Fingerprint()
		if d.seen[fp] {
			continue
		}
		d.seen[fp] = true
		d.finalSet.Insert(p)
	}
	d.marker = d.set.Marker()
}

// FinalPaths returns the Pareto-optimal paths accumulated across every
// committed iteration so far.
func (d *DestinationArrivals) FinalPaths() []Path {
	return d.finalSet.Members()
}

// bestKnownArrival returns the most favorable arrival time currently
// surviving in the frontier, or nil if it's empty - used by the
// multi-criteria worker's optional destination-heuristic pruning.
func (d *DestinationArrivals) bestKnownArrival() *int64 {
	var best *int64
	for _, m := range d.set.Members() {
		t := m.ArrivalTime
		if best == nil || d.calc.IsBetter(t, *best) {
			v := t
			best = &v
		}
	}
	return best
}
