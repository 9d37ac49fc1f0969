package raptor

// Profile selects which of the three cooperating algorithms a request
// runs under (§6): plain Range Raptor, its reverse-search twin used as
// a heuristic oracle, or the cost-augmented multi-criteria variant
// (optionally consulting a destination heuristic).
type Profile int

const (
	ProfileStandard Profile = iota
	ProfileStandardReverse
	ProfileMultiCriteria
	ProfileMultiCriteriaWithHeuristics
)

func (p Profile) String() string {
	switch p {
	case ProfileStandard:
		return "STANDARD"
	case ProfileStandardReverse:
		return "STANDARD_REVERSE"
	case ProfileMultiCriteria:
		return "MULTI_CRITERIA"
	case ProfileMultiCriteriaWithHeuristics:
		return "MULTI_CRITERIA_WITH_HEURISTICS"
	default:
		return "UNKNOWN"
	}
}

// DebugOptions configures the C10 registry for one request.
type DebugOptions struct {
	Stops          []Stop
	Path           []Stop
	PathStartIndex int

	OnStop        func(StopEvent)
	OnDestination func(DestinationEvent)
	OnPath        func(PathEvent)
}

// Request is the sole external surface of the core (§6). Time fields
// are in seconds, either since epoch or since midnight - the
// calculator treats both symmetrically since it never interprets a
// time beyond comparing and shifting it.
type Request struct {
	EarliestDepartureTime int64
	LatestArrivalTime     int64

	SearchWindowSeconds   int64
	DepartureStepSeconds  int64

	ArrivedBy bool

	AccessLegs []Leg
	EgressLegs []Leg

	BoardSlackSeconds           int64
	NumberOfAdditionalTransfers int

	Profile Profile

	CostFactors *CostFactors

	Debug *DebugOptions

	// ServiceDate is passed to TransitData.IsTripRunning for calendar
	// filtering; its timezone-boundary handling is the provider's
	// responsibility (§9 open question - left to the adopter).
	ServiceDate string

	// Heuristic, when set, is consulted by the
	// MULTI_CRITERIA_WITH_HEURISTICS profile to prune stop arrivals
	// whose best-case destination arrival is worse than the best one
	// found so far. A nil heuristic degrades that profile to plain
	// multi-criteria search (logged once, not an error) - resolving
	// the §9 open question about whether the oracle is mandatory.
	Heuristic DestinationHeuristic
}

// DestinationHeuristic is the pluggable "destination heuristic" hook
// referenced but never consulted everywhere in the source system
// (§9). It is queried one stop at a time.
type DestinationHeuristic interface {
	// LowerBound returns the best-case remaining cost/time to the
	// destination from stop, or ok=false if it has no opinion.
	LowerBound(stop Stop) (bound int64, ok bool)
}

const maxReasonableFactor = 1_000_000

// applyDefaults fills zero-valued tunables from the supplied defaults
// (§1.3's viper-backed DefaultTunables), without overriding anything
// the caller set explicitly.
func (r *Request) applyDefaults(d DefaultTunables) {
	if r.DepartureStepSeconds == 0 {
		r.DepartureStepSeconds = d.DepartureStepSeconds
	}
	if r.BoardSlackSeconds == 0 {
		r.BoardSlackSeconds = d.BoardSlackSeconds
	}
	if r.NumberOfAdditionalTransfers == 0 {
		r.NumberOfAdditionalTransfers = d.NumberOfAdditionalTransfers
	}
	if r.CostFactors == nil {
		factors := d.CostFactors
		r.CostFactors = &factors
	}
}

// validate enforces §7's InvalidRequest rules. It mutates nothing and
// is safe to call before any state is constructed.
func (r *Request) validate() error {
	if len(r.AccessLegs) == 0 {
		return newInvalidRequest("access_legs must be non-empty")
	}
	if len(r.EgressLegs) == 0 {
		return newInvalidRequest("egress_legs must be non-empty")
	}
	if r.EarliestDepartureTime >= r.LatestArrivalTime {
		return newInvalidRequest("earliest_departure_time must be before latest_arrival_time")
	}
	for _, leg := range r.AccessLegs {
		if leg.Duration < 0 {
			return newInvalidRequest("access leg duration must be non-negative")
		}
	}
	for _, leg := range r.EgressLegs {
		if leg.Duration < 0 {
			return newInvalidRequest("egress leg duration must be non-negative")
		}
	}
	if r.BoardSlackSeconds < 0 {
		return newInvalidRequest("board_slack_seconds must be non-negative")
	}
	if r.CostFactors != nil {
		f := r.CostFactors
		if f.Precision <= 0 || f.Precision > maxReasonableFactor ||
			f.BoardingCost < 0 || f.BoardingCost > maxReasonableFactor ||
			f.WaitFactor < 0 || f.WaitFactor > maxReasonableFactor ||
			f.TransitFactor < 0 || f.TransitFactor > maxReasonableFactor ||
			f.WalkFactor < 0 || f.WalkFactor > maxReasonableFactor {
			return newInvalidRequest("multi_criteria_cost_factors outside [0, MAX_REASONABLE]")
		}
	}
	return nil
}

// Result is the Pareto-optimal set of paths produced by Route.
type Result struct {
	Paths []Path
}
