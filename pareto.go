package raptor

// EventKind enumerates the four debug events a Pareto set can emit.
type EventKind int

const (
	EventAccept EventKind = iota
	EventReject
	EventRejectOptimized
	EventDrop
)

func (k EventKind) String() string {
	switch k {
	case EventAccept:
		return "ACCEPT"
	case EventReject:
		return "REJECT"
	case EventRejectOptimized:
		return "REJECT_OPTIMIZED"
	case EventDrop:
		return "DROP"
	default:
		return "UNKNOWN"
	}
}

// ParetoEventSink receives a Pareto set's lifecycle events. For ACCEPT
// and REJECT, candidate is the item being inserted and witness is nil
// or the member that rejected it; for DROP, candidate is the evicted
// member and witness is the inserted item that evicted it; for
// RejectOptimized, witness carries the reason. Implementations must not mutate
// Raptor state and must copy anything they need to retain - the
// payload is transient.
type ParetoEventSink func(kind EventKind, candidate any, witness any)

// Axis compares two candidates on one criterion. notWorse reports
// whether a is not worse than b on this axis; strictlyBetter reports
// whether a is strictly better. Axes are composed into a dominance
// predicate rather than hard-coded per profile, so the stop frontier,
// the destination frontier, and the scalar/multi-criteria profiles
// can each supply their own axis list.
type Axis[T any] func(a, b T) (notWorse, strictlyBetter bool)

// LessAxis builds an Axis from a field extractor and a "strictly
// less is better" comparison on the extracted key.
func LessAxis[T any, K any](extract func(T) K, less func(a, b K) bool) Axis[T] {
	return func(a, b T) (bool, bool) {
		ka, kb := extract(a), extract(b)
		if less(ka, kb) {
			return true, true
		}
		if less(kb, ka) {
			return false, false
		}
		return true, false
	}
}

func dominates[T any](axes []Axis[T], a, b T) bool {
	anyStrict := false
	for _, axis := range axes {
		notWorse, strict := axis(a, b)
		if !notWorse {
			return false
		}
		anyStrict = anyStrict || strict
	}
	return anyStrict
}

type paretoMember[T any] struct {
	value T
	seq   int
}

// ParetoSet is an append-only, dominance-pruned container: after every
// insert it holds no pair where one member dominates another. A
// candidate dominated by an existing member is rejected without
// mutating the set; an accepted candidate evicts every member it
// dominates.
type ParetoSet[T any] struct {
	axes    []Axis[T]
	members []paretoMember[T]
	nextSeq int
	sink    ParetoEventSink
}

// NewParetoSet builds a Pareto set dominance-compared on axes. sink
// may be nil.
func NewParetoSet[T any](axes []Axis[T], sink ParetoEventSink) *ParetoSet[T] {
	return &ParetoSet[T]{axes: axes, sink: sink}
}

// Insert attempts to add x. Returns whether it was accepted.
func (ps *ParetoSet[T]) Insert(x T) bool {
	for _, m := range ps.members {
		if dominates(ps.axes, m.value, x) {
			if ps.sink != nil {
				ps.sink(EventReject, x, m.value)
			}
			return false
		}
	}

	kept := ps.members[:0]
	for _, m := range ps.members {
		if dominates(ps.axes, x, m.value) {
			if ps.sink != nil {
				ps.sink(EventDrop, m.value, x)
			}
			continue
		}
		kept = append(kept, m)
	}
	ps.members = append(kept, paretoMember[T]{value: x, seq: ps.nextSeq})
	ps.nextSeq++
	if ps.sink != nil {
		ps.sink(EventAccept, x, nil)
	}
	return true
}

// RejectOptimized records a candidate pruned before a full dominance
// check - e.g. a destination-heuristic bound - without touching the
// set.
func (ps *ParetoSet[T]) RejectOptimized(x T, reason any) {
	if ps.sink != nil {
		ps.sink(EventRejectOptimized, x, reason)
	}
}

// Members returns the current Pareto-optimal members, in no
// particular order.
func (ps *ParetoSet[T]) Members() []T {
	out := make([]T, len(ps.members))
	for i, m := range ps.members {
		out[i] = m.value
	}
	return out
}

// Len reports the current member count.
func (ps *ParetoSet[T]) Len() int {
	return len(ps.members)
}

// Marker returns a cursor usable with SinceMarker to later enumerate
// only members inserted after this call.
func (ps *ParetoSet[T]) Marker() int {
	return ps.nextSeq
}

// SinceMarker returns the members still present that were inserted at
// or after marker - used to feed the worker only a round's new
// transit arrivals.
func (ps *ParetoSet[T]) SinceMarker(marker int) []T {
	var out []T
	for _, m := range ps.members {
		if m.seq >= marker {
			out = append(out, m.value)
		}
	}
	return out
}

// Reset empties the set without touching nextSeq, so markers taken
// before a reset remain meaningless but future ones stay monotone.
func (ps *ParetoSet[T]) Reset() {
	ps.members = ps.members[:0]
}
