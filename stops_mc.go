package raptor

// ArrivalIndex is an arena index into a MultiCriteriaStopArrivals'
// node list - a u32-sized handle rather than a pointer, per the design
// notes' "arena + index" guidance: it keeps the back-pointer DAG
// flat and free of Go pointer-ownership cycles.
type ArrivalIndex int32

// NoArrivalIndex is the sentinel "no predecessor" / "rejected" handle.
const NoArrivalIndex ArrivalIndex = -1

type mcArrivalKind int8

const (
	mcKindAccess mcArrivalKind = iota
	mcKindTransit
	mcKindTransfer
)

// MCArrival is one node of the multi-criteria back-pointer DAG: a
// directed-acyclic arrival with a pointer to the predecessor arrival
// that produced it. Many nodes may coexist at the same (round, stop);
// the Pareto set at that (round, stop) decides which survive.
type MCArrival struct {
	Prev          ArrivalIndex
	Round         int
	Stop          Stop
	ArrivalTime   int64
	DepartureTime int64
	Cost          int64
	Kind          mcArrivalKind
	Trip          TripRef
	BoardStop     Stop

	// AccessDuration is only meaningful for Kind == mcKindAccess - the
	// walk duration that produced ArrivalTime, needed by path
	// extraction to retime the reported leg (§4.10) without losing the
	// real duration, mirroring ArrivalRecord.AccessDuration.
	AccessDuration int64
}

// CostFactors are the reluctance weights used to fold walking,
// waiting, boarding, and in-vehicle time into one monetary/disutility
// axis, per §4.8. Precision scales the fractional factors into
// integer arithmetic.
type CostFactors struct {
	Precision     int64
	BoardingCost  int64
	WaitFactor    int64
	TransitFactor int64
	WalkFactor    int64
}

// DefaultCostFactors matches the documented defaults.
func DefaultCostFactors() CostFactors {
	return CostFactors{Precision: 100, BoardingCost: 300, WaitFactor: 2, TransitFactor: 1, WalkFactor: 2}
}

func elapsed(calc Calculator, from, to int64) int64 {
	if calc.Forward() {
		return to - from
	}
	return from - to
}

// MultiCriteriaStopArrivals is the C5 replacement for the multi
// criteria profile: a Pareto set of arrivals at each (round, stop),
// keyed on (arrival_time, round, cost) with strict dominance per axis.
type MultiCriteriaStopArrivals struct {
	calc      Calculator
	factors   CostFactors
	numStops  int
	maxRounds int

	nodes []MCArrival

	frontiers [][]*ParetoSet[ArrivalIndex]

	egressDurations map[Stop]int64
	onEgressImprove func(round int, idx ArrivalIndex, egressDuration int64)

	touchedCurrent []bool
	touchedLast    []bool

	debug *Registry
}

// NewMultiCriteriaStopArrivals allocates the frontier grid and arena.
func NewMultiCriteriaStopArrivals(numStops, maxRounds int, calc Calculator, factors CostFactors, debug *Registry) *MultiCriteriaStopArrivals {
	m := &MultiCriteriaStopArrivals{
		calc:      calc,
		factors:   factors,
		numStops:  numStops,
		maxRounds: maxRounds,
		debug:     debug,
	}
	m.touchedCurrent = make([]bool, numStops)
	m.touchedLast = make([]bool, numStops)
	m.buildFrontiers()
	return m
}

// PrepareForNextRound rotates touched-current into touched-last,
// mirroring BestTimes' round-separation bookkeeping for the scalar
// profile.
func (m *MultiCriteriaStopArrivals) PrepareForNextRound() {
	copy(m.touchedLast, m.touchedCurrent)
	for i := range m.touchedCurrent {
		m.touchedCurrent[i] = false
	}
}

// WasTouchedLastRound reports whether stop's frontier gained a member
// during the previous round.
func (m *MultiCriteriaStopArrivals) WasTouchedLastRound(stop Stop) bool {
	return m.touchedLast[stop]
}

// IsCurrentRoundUpdated reports whether any stop's frontier gained a
// member during the round in progress - the worker's termination
// condition.
func (m *MultiCriteriaStopArrivals) IsCurrentRoundUpdated() bool {
	for _, t := range m.touchedCurrent {
		if t {
			return true
		}
	}
	return false
}

// TouchedLastRound returns the stops whose frontier improved last
// round, in ascending order.
func (m *MultiCriteriaStopArrivals) TouchedLastRound() []Stop {
	out := make([]Stop, 0, len(m.touchedLast)/4+1)
	for i, t := range m.touchedLast {
		if t {
			out = append(out, Stop(i))
		}
	}
	return out
}

func (m *MultiCriteriaStopArrivals) buildFrontiers() {
	axes := []Axis[ArrivalIndex]{
		LessAxis(func(i ArrivalIndex) int64 { return m.nodes[i].ArrivalTime }, m.calc.IsBetter),
		LessAxis(func(i ArrivalIndex) int { return m.nodes[i].Round }, func(a, b int) bool { return a < b }),
		LessAxis(func(i ArrivalIndex) int64 { return m.nodes[i].Cost }, func(a, b int64) bool { return a < b }),
	}
	m.frontiers = make([][]*ParetoSet[ArrivalIndex], m.maxRounds+1)
	for r := range m.frontiers {
		row := make([]*ParetoSet[ArrivalIndex], m.numStops)
		for s := range row {
			stop := Stop(s)
			round := r
			sink := func(kind EventKind, candidate, witness any) {
				ev := StopEvent{Kind: kind, Round: round, Stop: stop}
				if ci, ok := candidate.(ArrivalIndex); ok {
					ev.ArrivalTime = m.nodes[ci].ArrivalTime
				}
				if wi, ok := witness.(ArrivalIndex); ok {
					ev.Witness = m.nodes[wi].ArrivalTime
				}
				m.debug.EmitStop(ev, m.chain(candidate))
			}
			row[s] = NewParetoSet(axes, sink)
		}
		m.frontiers[r] = row
	}
}

// chain walks a candidate's ancestor stops, most-recent first, for
// path-of-interest matching. Accepts either an ArrivalIndex or an
// already-persisted node.
func (m *MultiCriteriaStopArrivals) chain(candidate any) []Stop {
	idx, ok := candidate.(ArrivalIndex)
	if !ok {
		return nil
	}
	var out []Stop
	for idx != NoArrivalIndex && int(idx) < len(m.nodes) {
		n := m.nodes[idx]
		out = append(out, n.Stop)
		idx = n.Prev
	}
	return out
}

// ResetForNewIteration empties the arena and every frontier - multi
// criteria state does not persist across departure-minute iterations,
// matching the scalar store's lifecycle.
func (m *MultiCriteriaStopArrivals) ResetForNewIteration() {
	m.nodes = m.nodes[:0]
	for _, row := range m.frontiers {
		for _, ps := range row {
			ps.Reset()
		}
	}
	for i := range m.touchedCurrent {
		m.touchedCurrent[i] = false
		m.touchedLast[i] = false
	}
}

// SetEgressHook registers the per-node egress callback: invoked for
// every accepted transit arrival at an egress stop.
func (m *MultiCriteriaStopArrivals) SetEgressHook(egress map[Stop]int64, cb func(round int, idx ArrivalIndex, egressDuration int64)) {
	m.egressDurations = egress
	m.onEgressImprove = cb
}

func (m *MultiCriteriaStopArrivals) push(n MCArrival) ArrivalIndex {
	m.nodes = append(m.nodes, n)
	return ArrivalIndex(len(m.nodes) - 1)
}

// Node returns the arrival stored at idx.
func (m *MultiCriteriaStopArrivals) Node(idx ArrivalIndex) MCArrival {
	return m.nodes[idx]
}

func (m *MultiCriteriaStopArrivals) insert(round int, stop Stop, idx ArrivalIndex) ArrivalIndex {
	if m.frontiers[round][stop].Insert(idx) {
		m.touchedCurrent[stop] = true
		return idx
	}
	return NoArrivalIndex
}

// AddAccess inserts an access arrival at round 0.
func (m *MultiCriteriaStopArrivals) AddAccess(stop Stop, arrivalTime, duration int64) ArrivalIndex {
	cost := m.factors.Precision * m.factors.WalkFactor * duration
	idx := m.push(MCArrival{Prev: NoArrivalIndex, Round: 0, Stop: stop, ArrivalTime: arrivalTime, Cost: cost, Kind: mcKindAccess, AccessDuration: duration})
	return m.insert(0, stop, idx)
}

// AddTransit inserts a transit arrival descending from prev, accruing
// boarding, wait, and in-vehicle cost per §4.8's formula.
func (m *MultiCriteriaStopArrivals) AddTransit(round int, stop Stop, alight int64, boardStop Stop, boardTime int64, trip TripRef, prev ArrivalIndex) ArrivalIndex {
	prevNode := m.nodes[prev]
	wait := elapsed(m.calc, prevNode.ArrivalTime, boardTime)
	inVehicle := elapsed(m.calc, boardTime, alight)
	cost := prevNode.Cost +
		m.factors.Precision*m.factors.BoardingCost +
		m.factors.Precision*m.factors.WaitFactor*wait +
		m.factors.Precision*m.factors.TransitFactor*inVehicle
	idx := m.push(MCArrival{
		Prev: prev, Round: round, Stop: stop, ArrivalTime: alight, DepartureTime: boardTime,
		Cost: cost, Kind: mcKindTransit, Trip: trip, BoardStop: boardStop,
	})
	accepted := m.insert(round, stop, idx)
	if accepted != NoArrivalIndex {
		if dur, ok := m.egressDurations[stop]; ok && m.onEgressImprove != nil {
			m.onEgressImprove(round, accepted, dur)
		}
	}
	return accepted
}

// AddTransfer inserts a transfer arrival descending from prev.
func (m *MultiCriteriaStopArrivals) AddTransfer(round int, fromStop, toStop Stop, duration, arrivalTime int64, prev ArrivalIndex) ArrivalIndex {
	prevNode := m.nodes[prev]
	cost := prevNode.Cost + m.factors.Precision*m.factors.WalkFactor*duration
	idx := m.push(MCArrival{Prev: prev, Round: round, Stop: toStop, ArrivalTime: arrivalTime, Cost: cost, Kind: mcKindTransfer, BoardStop: fromStop})
	return m.insert(round, toStop, idx)
}

// Frontier returns the Pareto set at (round, stop).
func (m *MultiCriteriaStopArrivals) Frontier(round int, stop Stop) *ParetoSet[ArrivalIndex] {
	return m.frontiers[round][stop]
}
