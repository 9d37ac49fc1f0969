package raptor

// StopEvent is emitted whenever a stop-arrival candidate is
// accepted, rejected, or drops an existing member (scalar store and
// multi-criteria frontier alike).
type StopEvent struct {
	Kind        EventKind
	Round       int
	Stop        Stop
	ArrivalTime int64
	// Witness is the arrival time of the member that caused a REJECT
	// or DROP, zero otherwise.
	Witness int64
}

// DestinationEvent is emitted on destination-arrival Pareto set
// transitions.
type DestinationEvent struct {
	Kind        EventKind
	Round       int
	ArrivalTime int64
}

// PathEvent is emitted once a completed journey is committed to the
// result set.
type PathEvent struct {
	Kind EventKind
	Path Path
}

// Registry owns the debug-event listener set and the stop-of-interest
// / path-of-interest filters described by a request's debug options.
// Handlers run synchronously on the calling goroutine during state
// updates; Registry itself never spawns a goroutine, matching §5's
// "no suspension points inside the core".
type Registry struct {
	stopsOfInterest map[Stop]bool
	pathOfInterest  []Stop
	pathStartIndex  int

	stopListeners        []func(StopEvent)
	destinationListeners []func(DestinationEvent)
	pathListeners        []func(PathEvent)
}

// NewRegistry builds an empty debug registry - no filters, no
// listeners, zero overhead beyond the nil checks on the hot path.
func NewRegistry() *Registry {
	return &Registry{}
}

// SetStopsOfInterest restricts stop-event emission to the given stops
// (destination events always pass, since there's exactly one
// destination frontier).
func (r *Registry) SetStopsOfInterest(stops []Stop) {
	r.stopsOfInterest = make(map[Stop]bool, len(stops))
	for _, s := range stops {
		r.stopsOfInterest[s] = true
	}
}

// SetPathOfInterest restricts emission to arrivals whose ancestor
// chain (most-recent stop first) agrees element-wise with a suffix of
// path starting at startIndex.
func (r *Registry) SetPathOfInterest(path []Stop, startIndex int) {
	r.pathOfInterest = path
	r.pathStartIndex = startIndex
}

func (r *Registry) OnStop(fn func(StopEvent))               { r.stopListeners = append(r.stopListeners, fn) }
func (r *Registry) OnDestination(fn func(DestinationEvent)) { r.destinationListeners = append(r.destinationListeners, fn) }
func (r *Registry) OnPath(fn func(PathEvent))               { r.pathListeners = append(r.pathListeners, fn) }

func (r *Registry) hasStopListeners() bool {
	return r != nil && len(r.stopListeners) > 0
}

// matchesStop reports whether a stop-keyed event passes the
// configured filters. With no filters configured, everything passes.
func (r *Registry) matchesStop(s Stop, chain []Stop) bool {
	if r.stopsOfInterest == nil && r.pathOfInterest == nil {
		return true
	}
	if r.stopsOfInterest != nil && r.stopsOfInterest[s] {
		return true
	}
	if r.pathOfInterest != nil && matchesPathSuffix(chain, r.pathOfInterest, r.pathStartIndex) {
		return true
	}
	return false
}

// matchesPathSuffix reports whether chain (most-recent-first) agrees
// element-wise with path[startIndex:] read in the same order.
func matchesPathSuffix(chain []Stop, path []Stop, startIndex int) bool {
	if startIndex < 0 || startIndex >= len(path) {
		return false
	}
	suffix := path[startIndex:]
	if len(chain) < len(suffix) {
		return false
	}
	for i, s := range suffix {
		if chain[i] != s {
			return false
		}
	}
	return true
}

// EmitStop notifies stop listeners, optionally gated by an ancestor
// chain for path-of-interest matching (nil chain disables that gate).
func (r *Registry) EmitStop(ev StopEvent, chain []Stop) {
	if !r.hasStopListeners() {
		return
	}
	if !r.matchesStop(ev.Stop, chain) {
		return
	}
	for _, fn := range r.stopListeners {
		fn(ev)
	}
}

// EmitDestination notifies destination listeners unconditionally -
// there is exactly one destination frontier per request.
func (r *Registry) EmitDestination(ev DestinationEvent) {
	if r == nil {
		return
	}
	for _, fn := range r.destinationListeners {
		fn(ev)
	}
}

// EmitPath notifies path listeners unconditionally.
func (r *Registry) EmitPath(ev PathEvent) {
	if r == nil {
		return
	}
	for _, fn := range r.pathListeners {
		fn(ev)
	}
}
