package raptor

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// absoluteRoundCap is the hard ceiling on rounds a single iteration may
// run, independent of number_of_additional_transfers: the latter only
// bounds how many extra rounds run after the destination is first
// reached (§4.6), so it can't by itself size the stop-arrival arrays.
// 15 covers any plausible transit itinerary with headroom to spare.
const absoluteRoundCap = 15

// Observability is the per-request correlation ID, logger, and metrics
// sink threaded through one Route call. None of it is global or
// singleton state (§9): a host embedding this package builds one
// Observability per request (or reuses a MetricsRegistry registered
// once at startup) and passes it in explicitly.
type Observability struct {
	RequestID string
	Log       *logrus.Entry
	Metrics   *MetricsRegistry
}

// NewObservability stamps a fresh request-correlation ID onto log (or
// a bare StandardLogger entry if log is nil) and pairs it with metrics,
// which may be nil to disable instrumentation entirely.
func NewObservability(log *logrus.Entry, metrics *MetricsRegistry) Observability {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	id := uuid.NewString()
	return Observability{RequestID: id, Log: log.WithField("request_id", id), Metrics: metrics}
}

// Route is the core's sole operation (§6): apply request defaults and
// validation, build the direction-appropriate calculator and worker,
// drive every departure-minute iteration in the window, and return the
// Pareto-optimal set of paths accumulated across all of them.
func Route(ctx context.Context, provider TransitData, req Request, tunables DefaultTunables, obs Observability) (Result, error) {
	req.applyDefaults(tunables)
	if err := req.validate(); err != nil {
		return Result{}, err
	}
	if req.Profile == ProfileStandardReverse {
		req.ArrivedBy = true
	}

	log := obs.Log
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	log = log.WithField("profile", req.Profile.String())

	metrics := obs.Metrics.ForProfile(req.Profile)
	stopTimer := metrics.timer()
	defer stopTimer()

	debug := buildRegistry(req.Debug)
	debug.OnStop(func(ev StopEvent) { metrics.observeParetoEvent(ev.Kind) })
	debug.OnDestination(func(ev DestinationEvent) { metrics.observeParetoEvent(ev.Kind) })

	calc := buildCalculator(req)
	accessLegs, egressMap := resolveLegs(req)
	origins := departureOrigins(req)

	running := func(serviceCode string) bool {
		return provider.IsTripRunning(serviceCode, req.ServiceDate)
	}

	dest, runIteration := buildWorker(provider, calc, req, egressMap, running, debug, log, metrics)
	dest.Reset()

	var cancelErr error
	for _, origin := range origins {
		select {
		case <-ctx.Done():
			cancelErr = wrapCancelled(ctx.Err())
		default:
		}
		if cancelErr != nil {
			break
		}
		if err := runIteration(ctx, origin, accessLegs); err != nil {
			cancelErr = wrapCancelled(err)
			break
		}
	}
	if cancelErr != nil {
		log.WithError(cancelErr).Debug("raptor: request ended early")
	}

	paths := dest.FinalPaths()
	for _, p := range paths {
		debug.EmitPath(PathEvent{Kind: EventAccept, Path: p})
	}
	return Result{Paths: paths}, cancelErr
}

// buildRegistry turns a request's optional DebugOptions into a wired
// Registry; a nil/empty DebugOptions yields a listener-free Registry
// that stays cheap on the hot path.
func buildRegistry(opts *DebugOptions) *Registry {
	reg := NewRegistry()
	if opts == nil {
		return reg
	}
	if len(opts.Stops) > 0 {
		reg.SetStopsOfInterest(opts.Stops)
	}
	if len(opts.Path) > 0 {
		reg.SetPathOfInterest(opts.Path, opts.PathStartIndex)
	}
	if opts.OnStop != nil {
		reg.OnStop(opts.OnStop)
	}
	if opts.OnDestination != nil {
		reg.OnDestination(opts.OnDestination)
	}
	if opts.OnPath != nil {
		reg.OnPath(opts.OnPath)
	}
	return reg
}

// buildCalculator picks the direction per req.ArrivedBy (§6): the time
// limit is whichever bound the search is working toward.
func buildCalculator(req Request) Calculator {
	if req.ArrivedBy {
		return &ReverseCalculator{BoardSlack: req.BoardSlackSeconds, TimeLimit: req.EarliestDepartureTime}
	}
	return &ForwardCalculator{BoardSlack: req.BoardSlackSeconds, TimeLimit: req.LatestArrivalTime}
}

// resolveLegs applies §6's access/egress swap for reverse search: in
// arrive-by mode the injected round-0 legs are the rider's egress legs
// run backward from the destination, and the "egress" hook fires on
// what the rider calls their access stops.
func resolveLegs(req Request) ([]Leg, map[Stop]int64) {
	injected, egress := req.AccessLegs, req.EgressLegs
	if req.ArrivedBy {
		injected, egress = egress, injected
	}
	egressMap := make(map[Stop]int64, len(egress))
	for _, leg := range egress {
		egressMap[leg.ToStop] = leg.Duration
	}
	return injected, egressMap
}

// departureOrigins computes the origin time injected at round 0 for
// every step of the window, ordered latest-first for forward search
// (§4.7). Reverse search mirrors this and runs the earliest origin
// first, the one furthest from its anchor (§9's "iterations accumulate
// order-independently" means any reverse-search ordering is equally
// correct; the mirror keeps the same round-cap-discovery rationale).
func departureOrigins(req Request) []int64 {
	step := req.DepartureStepSeconds
	if step <= 0 {
		step = 1
	}
	window := req.SearchWindowSeconds
	if window < 0 {
		window = 0
	}
	n := int(window/step) + 1

	anchor := req.EarliestDepartureTime
	sign := int64(1)
	if req.ArrivedBy {
		anchor = req.LatestArrivalTime
		sign = -1
	}

	origins := make([]int64, n)
	for i := 0; i < n; i++ {
		origins[i] = anchor + sign*int64(i)*step
	}
	for i, j := 0, len(origins)-1; i < j; i, j = i+1, j-1 {
		origins[i], origins[j] = origins[j], origins[i]
	}
	return origins
}

// buildWorker constructs the profile-appropriate worker and returns its
// destination frontier plus a closure running one of its iterations,
// erasing the scalar/multi-criteria distinction for the caller.
func buildWorker(provider TransitData, calc Calculator, req Request, egressMap map[Stop]int64, running IsRunning, debug *Registry, log *logrus.Entry, metrics *Metrics) (*DestinationArrivals, func(context.Context, int64, []Leg) error) {
	extraRounds := req.NumberOfAdditionalTransfers

	switch req.Profile {
	case ProfileMultiCriteria, ProfileMultiCriteriaWithHeuristics:
		var heuristic DestinationHeuristic
		if req.Profile == ProfileMultiCriteriaWithHeuristics {
			heuristic = req.Heuristic
		}
		worker := NewMultiCriteriaWorker(provider, calc, absoluteRoundCap, extraRounds, req.BoardSlackSeconds, *req.CostFactors, egressMap, running, debug, log, metrics, heuristic)
		return worker.Destinations(), worker.RunIteration
	default:
		worker := NewScalarWorker(provider, calc, absoluteRoundCap, extraRounds, req.BoardSlackSeconds, egressMap, running, debug, log, metrics)
		return worker.Destinations(), worker.RunIteration
	}
}
