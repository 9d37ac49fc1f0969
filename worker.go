package raptor

import (
	"context"

	"github.com/sirupsen/logrus"
)

// ScalarWorker runs the standard-profile Range Raptor round loop
// (C7): one instance is built per request and reused across every
// departure-minute iteration in the range window, since its stores
// reset cheaply between iterations rather than being reallocated.
type ScalarWorker struct {
	provider   TransitData
	calc       Calculator
	running    IsRunning
	log        *logrus.Entry
	metrics    *Metrics
	boardSlack int64

	bt    *BestTimes
	store *ScalarStopArrivals
	rnd   *RoundTracker
	dest  *DestinationArrivals
	debug *Registry

	// brokenFIFO caches per-pattern FIFO-validation results for the
	// life of the worker, so each pattern is validated and logged at
	// most once per request; a pattern that fails is not skipped but
	// scanned with the linear trip search from then on.
	brokenFIFO map[int]bool
}

// NewScalarWorker wires a scalar worker's stores together: egress
// improvements feed the destination frontier, matching §4's "every
// store composes through explicit hooks, never a god object."
func NewScalarWorker(provider TransitData, calc Calculator, maxRounds, extraRoundsAfterReach int, boardSlack int64, egress map[Stop]int64, running IsRunning, debug *Registry, log *logrus.Entry, metrics *Metrics) *ScalarWorker {
	numStops := provider.NumStops()
	rnd := NewRoundTracker(maxRounds, extraRoundsAfterReach)
	bt := NewBestTimes(numStops, calc)
	store := NewScalarStopArrivals(numStops, maxRounds, calc, debug)
	dest := NewDestinationArrivals(calc, rnd, false, debug)
	store.SetEgressHook(egress, dest.OnScalarEgress)
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &ScalarWorker{
		provider: provider, calc: calc, running: running, log: log, metrics: metrics, boardSlack: boardSlack,
		bt: bt, store: store, rnd: rnd, dest: dest, debug: debug,
		brokenFIFO: make(map[int]bool),
	}
}

// Destinations returns the destination-arrival Pareto set, which
// persists across every iteration run by this worker (§3: "the
// destination-arrival pareto set persists across iterations").
func (w *ScalarWorker) Destinations() *DestinationArrivals { return w.dest }

// Store exposes the scalar stop-arrival grid, for path extraction.
func (w *ScalarWorker) Store() *ScalarStopArrivals { return w.store }

// ResetDestinations clears the destination frontier once, at the
// start of a request - not between iterations, which would discard
// earlier departure minutes' surviving journeys.
func (w *ScalarWorker) ResetDestinations() { w.dest.Reset() }

// RunIteration resets the per-iteration stores (best-times, stop
// arrivals, round tracker) and runs one Range Raptor search from
// originTime, injecting accessLegs at round 0. The destination
// frontier is deliberately untouched - see ResetDestinations.
func (w *ScalarWorker) RunIteration(ctx context.Context, originTime int64, accessLegs []Leg) error {
	w.bt.PrepareForNewIteration()
	w.store.ResetForNewIteration()
	w.rnd.BeginIteration()
	w.metrics.incIteration()

	for _, leg := range accessLegs {
		arrival := w.calc.Add(originTime, leg.Duration)
		if w.calc.IsBetter(arrival, w.bt.BestOverall(leg.ToStop)) {
			w.bt.SetAccessStop(leg.ToStop, arrival)
			w.store.SetAccess(leg.ToStop, arrival, leg.Duration)
		}
	}

	for w.rnd.HasMoreRounds() {
		select {
		case <-ctx.Done():
			w.log.WithField("round", w.rnd.Round()).Debug("raptor: cancelled between rounds")
			w.commitDestinations()
			return ctx.Err()
		default:
		}

		w.rnd.NextRound()
		w.bt.PrepareForNextRound()
		round := w.rnd.Round()
		w.metrics.incRound()

		touched := w.bt.TouchedLastRound()
		patterns := w.provider.PatternsTouching(touched, w.calc.Forward())
		w.metrics.incPatternsScanned(len(patterns))
		for _, pt := range patterns {
			w.scanPattern(round, pt)
		}
		w.applyTransfers(round)

		if !w.bt.IsCurrentRoundUpdated() {
			break
		}
	}
	w.commitDestinations()
	return nil
}

// commitDestinations extracts every destination arrival accepted this
// iteration into the persistent final frontier, before the next
// iteration's ResetForNewIteration discards the stores those arrivals
// point into.
func (w *ScalarWorker) commitDestinations() {
	w.dest.CommitIteration(func(d DestinationArrival) Path {
		return extractScalarPath(w.store, w.calc, w.boardSlack, d.ScalarRound, d.ScalarStop, d.egressDuration, w.calc.Forward())
	})
}

// fifoOK reports whether pt.Pattern passed FIFO validation, running
// (and caching, and logging on failure) that validation the first
// time this worker encounters the pattern.
func (w *ScalarWorker) fifoOK(pt PatternTouch) bool {
	if broken, checked := w.brokenFIFO[pt.PatternIdx]; checked {
		return !broken
	}
	ok, reason := pt.Pattern.ValidateFIFO()
	w.brokenFIFO[pt.PatternIdx] = !ok
	if !ok {
		w.log.WithError(newDataInconsistency(pt.PatternIdx, reason)).
			Warn("raptor: falling back to linear trip search for this pattern")
	}
	return ok
}

func (w *ScalarWorker) scanPattern(round int, pt PatternTouch) {
	pattern := pt.Pattern
	fifoOK := w.fifoOK(pt)
	tripIdx := -1
	var boardStop Stop = NoStop
	var boardTime int64

	isRunning := func(serviceCode string) bool {
		if w.running == nil {
			return true
		}
		return w.running(serviceCode)
	}

	step, end := 1, len(pattern.Stops)
	if !w.calc.Forward() {
		step, end = -1, -1
	}
	for pos := pt.FirstPos; pos != end; pos += step {
		stop := pattern.Stops[pos]

		if tripIdx >= 0 {
			trip := &pattern.Trips[tripIdx]
			alight := w.calc.AlightTimeFor(trip, pos)
			if !w.calc.ExceedsLimit(alight) && w.bt.UpdateTransit(stop, alight) {
				improvedOverall := w.bt.UpdateOverall(stop, alight)
				w.store.TransitToStop(round, stop, alight, boardStop, boardTime, TripRef{PatternIdx: pt.PatternIdx, TripIdx: tripIdx}, improvedOverall)
			}
		}

		if w.bt.WasTouchedLastRound(stop) {
			prevTime := w.bt.BestTimePrevRound(stop)
			if prevTime != w.calc.Unreached() {
				earliest := w.calc.EarliestBoardTime(prevTime)
				result := SearchTrip(w.calc, pattern, earliest, pos, tripIdx, fifoOK, isRunning)
				if result.Found {
					tripIdx = result.CandidateTripIndex
					boardStop = stop
					boardTime = result.CandidateTripTime
					w.metrics.incTripsBoarded()
				}
			}
		}
	}
}

func (w *ScalarWorker) applyTransfers(round int) {
	for _, fromStop := range w.bt.TouchedTransitCurrentRound() {
		fromTime := w.bt.BestTransit(fromStop)
		for _, leg := range w.provider.TransfersFrom(fromStop) {
			arrival := w.calc.Add(fromTime, leg.Duration)
			if w.bt.UpdateOverall(leg.ToStop, arrival) {
				w.store.TransferToStop(round, fromStop, leg.ToStop, leg.Duration, arrival)
			}
		}
	}
}

// MultiCriteriaWorker is the C5/C7 multi-criteria profile: a bag of
// Pareto-optimal labels per (round, stop) instead of one scalar best
// time, trading the scalar profile's single-pass simplicity for a
// Pareto-complete cost/time frontier.
type MultiCriteriaWorker struct {
	provider   TransitData
	calc       Calculator
	running    IsRunning
	log        *logrus.Entry
	metrics    *Metrics
	heuristic  DestinationHeuristic
	boardSlack int64

	store *MultiCriteriaStopArrivals
	rnd   *RoundTracker
	dest  *DestinationArrivals
	debug *Registry

	brokenFIFO map[int]bool
}

// NewMultiCriteriaWorker builds a multi-criteria worker. heuristic may
// be nil, in which case MULTI_CRITERIA_WITH_HEURISTICS degrades to
// plain multi-criteria search (logged once) - resolving §9's open
// question that the oracle is optional, never mandatory.
func NewMultiCriteriaWorker(provider TransitData, calc Calculator, maxRounds, extraRoundsAfterReach int, boardSlack int64, factors CostFactors, egress map[Stop]int64, running IsRunning, debug *Registry, log *logrus.Entry, metrics *Metrics, heuristic DestinationHeuristic) *MultiCriteriaWorker {
	numStops := provider.NumStops()
	rnd := NewRoundTracker(maxRounds, extraRoundsAfterReach)
	store := NewMultiCriteriaStopArrivals(numStops, maxRounds, calc, factors, debug)
	dest := NewDestinationArrivals(calc, rnd, true, debug)
	store.SetEgressHook(egress, func(round int, idx ArrivalIndex, egressDuration int64) {
		dest.OnMCEgress(round, idx, egressDuration, store)
	})
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	if heuristic == nil {
		log.Debug("raptor: no destination heuristic supplied, running plain multi-criteria search")
	}
	return &MultiCriteriaWorker{
		provider: provider, calc: calc, running: running, log: log, metrics: metrics, heuristic: heuristic, boardSlack: boardSlack,
		store: store, rnd: rnd, dest: dest, debug: debug, brokenFIFO: make(map[int]bool),
	}
}

// Destinations returns the destination-arrival frontier, which
// persists across every iteration run by this worker.
func (w *MultiCriteriaWorker) Destinations() *DestinationArrivals { return w.dest }

// Store exposes the multi-criteria arena, for path extraction.
func (w *MultiCriteriaWorker) Store() *MultiCriteriaStopArrivals { return w.store }

// ResetDestinations clears the destination frontier once, at the
// start of a request - see ScalarWorker.ResetDestinations.
func (w *MultiCriteriaWorker) ResetDestinations() { w.dest.Reset() }

// mcOnboard is one label riding a specific trip: the stop and time it
// boarded at, and the frontier member that justified the boarding.
type mcOnboard struct {
	tripIdx   int
	boardStop Stop
	boardTime int64
	ancestor  ArrivalIndex
}

// RunIteration resets the per-iteration store and round tracker and
// runs one multi-criteria Range Raptor search from originTime. The
// destination frontier persists - see ResetDestinations.
func (w *MultiCriteriaWorker) RunIteration(ctx context.Context, originTime int64, accessLegs []Leg) error {
	w.store.ResetForNewIteration()
	w.rnd.BeginIteration()
	w.metrics.incIteration()

	for _, leg := range accessLegs {
		arrival := w.calc.Add(originTime, leg.Duration)
		w.store.AddAccess(leg.ToStop, arrival, leg.Duration)
	}

	for w.rnd.HasMoreRounds() {
		select {
		case <-ctx.Done():
			w.log.WithField("round", w.rnd.Round()).Debug("raptor: cancelled between rounds")
			w.commitDestinations()
			return ctx.Err()
		default:
		}

		w.rnd.NextRound()
		w.store.PrepareForNextRound()
		round := w.rnd.Round()
		w.metrics.incRound()

		touched := w.store.TouchedLastRound()
		patterns := w.provider.PatternsTouching(touched, w.calc.Forward())
		w.metrics.incPatternsScanned(len(patterns))
		for _, pt := range patterns {
			w.scanPattern(round, pt)
		}
		w.applyTransfers(round)

		if !w.store.IsCurrentRoundUpdated() {
			break
		}
	}
	w.commitDestinations()
	return nil
}

// commitDestinations extracts every destination arrival accepted this
// iteration before the next iteration's ResetForNewIteration truncates
// the arena those arrivals' back-pointers live in.
func (w *MultiCriteriaWorker) commitDestinations() {
	w.dest.CommitIteration(func(d DestinationArrival) Path {
		return extractMCPath(w.store, w.calc, w.boardSlack, d.mcIndex, d.egressDuration, w.calc.Forward())
	})
}

func (w *MultiCriteriaWorker) fifoOK(pt PatternTouch) bool {
	if broken, checked := w.brokenFIFO[pt.PatternIdx]; checked {
		return !broken
	}
	ok, reason := pt.Pattern.ValidateFIFO()
	w.brokenFIFO[pt.PatternIdx] = !ok
	if !ok {
		w.log.WithError(newDataInconsistency(pt.PatternIdx, reason)).
			Warn("raptor: falling back to linear trip search for this pattern")
	}
	return ok
}

// prunedByHeuristic reports whether a candidate arrival at stop can be
// discarded without a full dominance check: the heuristic's lower
// bound on the remaining cost/time to the destination, added to the
// candidate's own arrival, cannot beat any already-surviving
// destination arrival. No heuristic means nothing is pruned here.
func (w *MultiCriteriaWorker) prunedByHeuristic(stop Stop, arrival int64) bool {
	if w.heuristic == nil {
		return false
	}
	bound, ok := w.heuristic.LowerBound(stop)
	if !ok {
		return false
	}
	bestKnown := w.dest.bestKnownArrival()
	if bestKnown == nil {
		return false
	}
	projected := w.calc.Add(arrival, bound)
	return !w.calc.IsBetter(projected, *bestKnown) && projected != *bestKnown
}

func (w *MultiCriteriaWorker) scanPattern(round int, pt PatternTouch) {
	pattern := pt.Pattern
	fifoOK := w.fifoOK(pt)
	var active []mcOnboard

	isRunning := func(serviceCode string) bool {
		if w.running == nil {
			return true
		}
		return w.running(serviceCode)
	}

	step, end := 1, len(pattern.Stops)
	if !w.calc.Forward() {
		step, end = -1, -1
	}
	for pos := pt.FirstPos; pos != end; pos += step {
		stop := pattern.Stops[pos]

		for _, ob := range active {
			trip := &pattern.Trips[ob.tripIdx]
			alight := w.calc.AlightTimeFor(trip, pos)
			if w.calc.ExceedsLimit(alight) {
				continue
			}
			if w.prunedByHeuristic(stop, alight) {
				w.debug.EmitStop(StopEvent{Kind: EventRejectOptimized, Round: round, Stop: stop, ArrivalTime: alight}, nil)
				continue
			}
			w.store.AddTransit(round, stop, alight, ob.boardStop, ob.boardTime, TripRef{PatternIdx: pt.PatternIdx, TripIdx: ob.tripIdx}, ob.ancestor)
		}

		if round > 0 && w.store.WasTouchedLastRound(stop) {
			for _, prevIdx := range w.store.Frontier(round-1, stop).Members() {
				prevNode := w.store.Node(prevIdx)
				earliest := w.calc.EarliestBoardTime(prevNode.ArrivalTime)
				result := SearchTrip(w.calc, pattern, earliest, pos, -1, fifoOK, isRunning)
				if result.Found {
					active = append(active, mcOnboard{tripIdx: result.CandidateTripIndex, boardStop: stop, boardTime: result.CandidateTripTime, ancestor: prevIdx})
					w.metrics.incTripsBoarded()
				}
			}
		}
	}
}

func (w *MultiCriteriaWorker) applyTransfers(round int) {
	for stop := Stop(0); int(stop) < len(w.store.touchedCurrent); stop++ {
		if !w.store.touchedCurrent[stop] {
			continue
		}
		for _, idx := range w.store.Frontier(round, stop).Members() {
			node := w.store.Node(idx)
			if node.Kind == mcKindTransfer {
				continue
			}
			for _, leg := range w.provider.TransfersFrom(stop) {
				arrival := w.calc.Add(node.ArrivalTime, leg.Duration)
				w.store.AddTransfer(round, stop, leg.ToStop, leg.Duration, arrival, idx)
			}
		}
	}
}
