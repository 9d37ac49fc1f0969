package raptor

// ArrivalRecord is the scalar stop-arrival record kept per
// (round, stop): at most one of {access, transit, transfer} is "the"
// best path at any time, with ties broken so the most recent write
// wins. The transit sub-record, once set, is never cleared - it may
// still be needed to board a later round even after a faster transfer
// supersedes it as "best overall".
type ArrivalRecord struct {
	BestArrivalTime int64
	// BestSource names whichever sub-record last won the right to set
	// BestArrivalTime - path extraction (path.go) reads this instead of
	// re-deriving it from which fields happen to be populated, since
	// the transit sub-record is never cleared once set.
	BestSource arrivalSource

	HasTransit         bool
	TransitArrivalTime int64
	BoardStop          Stop
	BoardTime          int64
	Trip               TripRef

	TransferFromStop Stop
	TransferDuration int64

	IsAccess       bool
	AccessDuration int64
}

// arrivalSource discriminates which sub-record currently backs
// BestArrivalTime.
type arrivalSource int8

const (
	sourceNone arrivalSource = iota
	sourceAccess
	sourceTransit
	sourceTransfer
)

// Reached reports whether this record has any path at all.
func (r ArrivalRecord) Reached(calc Calculator) bool {
	return r.BestArrivalTime != calc.Unreached()
}

// ReachedByTransfer reports whether the best path is a transfer.
func (r ArrivalRecord) ReachedByTransfer() bool {
	return r.TransferFromStop != NoStop
}

// ScalarStopArrivals is the standard-profile stop-arrival store: one
// record per (round, stop), rounds and stops laid out as a flat grid
// so nothing allocates per stop-arrival during a request (§5's
// "pre-allocate rather than allocate per stop-arrival").
type ScalarStopArrivals struct {
	calc      Calculator
	numStops  int
	maxRounds int
	records   [][]ArrivalRecord

	egressDurations map[Stop]int64
	onEgressImprove func(round int, stop Stop, transitArrival, egressDuration int64)

	debug *Registry
}

// NewScalarStopArrivals allocates a grid covering rounds [0, maxRounds].
func NewScalarStopArrivals(numStops, maxRounds int, calc Calculator, debug *Registry) *ScalarStopArrivals {
	s := &ScalarStopArrivals{
		calc:      calc,
		numStops:  numStops,
		maxRounds: maxRounds,
		debug:     debug,
	}
	s.records = make([][]ArrivalRecord, maxRounds+1)
	for i := range s.records {
		s.records[i] = make([]ArrivalRecord, numStops)
	}
	s.ResetForNewIteration()
	return s
}

// SetEgressHook registers the egress-stop specialization: whenever a
// transit arrival improves one of these stops, cb is invoked with the
// round, stop, transit arrival time, and the stop's egress duration.
func (s *ScalarStopArrivals) SetEgressHook(egress map[Stop]int64, cb func(round int, stop Stop, transitArrival, egressDuration int64)) {
	s.egressDurations = egress
	s.onEgressImprove = cb
}

// ResetForNewIteration clears every record to the unreached sentinel,
// matching BestTimes.PrepareForNewIteration's lifecycle.
func (s *ScalarStopArrivals) ResetForNewIteration() {
	u := s.calc.Unreached()
	blank := ArrivalRecord{
		BestArrivalTime:    u,
		TransitArrivalTime: u,
		BoardStop:          NoStop,
		TransferFromStop:   NoStop,
	}
	for round := range s.records {
		row := s.records[round]
		for i := range row {
			row[i] = blank
		}
	}
}

// SetAccess records an access arrival at round 0.
func (s *ScalarStopArrivals) SetAccess(stop Stop, arrivalTime, duration int64) {
	r := &s.records[0][stop]
	r.BestArrivalTime = arrivalTime
	r.BestSource = sourceAccess
	r.IsAccess = true
	r.AccessDuration = duration
}

// TransitToStop writes the transit sub-record for (round, stop), and -
// when isNewBestOverall - also makes it the best overall path,
// clearing any transfer sub-record that previously held that title.
func (s *ScalarStopArrivals) TransitToStop(round int, stop Stop, alight int64, boardStop Stop, boardTime int64, trip TripRef, isNewBestOverall bool) {
	r := &s.records[round][stop]
	r.HasTransit = true
	r.TransitArrivalTime = alight
	r.BoardStop = boardStop
	r.BoardTime = boardTime
	r.Trip = trip
	if isNewBestOverall {
		r.BestArrivalTime = alight
		r.BestSource = sourceTransit
		r.TransferFromStop = NoStop
	}

	if dur, ok := s.egressDurations[stop]; ok && s.onEgressImprove != nil {
		s.onEgressImprove(round, stop, alight, dur)
	}
	s.debug.EmitStop(StopEvent{Kind: EventAccept, Round: round, Stop: stop, ArrivalTime: alight}, nil)
}

// TransferToStop writes the transfer sub-record for (round, stop) and
// unconditionally overwrites the best overall arrival - the caller
// (worker.applyTransfers) only invokes this after confirming the
// transfer time is an improvement via BestTimes.UpdateOverall.
func (s *ScalarStopArrivals) TransferToStop(round int, fromStop, toStop Stop, duration int64, arrivalTime int64) {
	r := &s.records[round][toStop]
	r.BestArrivalTime = arrivalTime
	r.BestSource = sourceTransfer
	r.TransferFromStop = fromStop
	r.TransferDuration = duration
	s.debug.EmitStop(StopEvent{Kind: EventAccept, Round: round, Stop: toStop, ArrivalTime: arrivalTime}, nil)
}

// Get returns the record for (round, stop).
func (s *ScalarStopArrivals) Get(round int, stop Stop) ArrivalRecord {
	return s.records[round][stop]
}

// MaxRounds returns the allocated round capacity.
func (s *ScalarStopArrivals) MaxRounds() int { return s.maxRounds }
