package raptor

import "github.com/prometheus/client_golang/prometheus"

// Metrics is the per-request instrument bundle (§2 domain stack): it
// counts rounds, pattern scans, trips boarded, and Pareto transitions,
// and times each Route call. A nil *Metrics is safe to call through -
// every method is a no-op guard on that, so instrumentation is opt-in.
type Metrics struct {
	roundsTotal        prometheus.Counter
	patternsScanned    prometheus.Counter
	tripsBoarded       prometheus.Counter
	paretoAccepts      prometheus.Counter
	paretoRejects      prometheus.Counter
	paretoDrops        prometheus.Counter
	iterationsTotal    prometheus.Counter
	routeDuration      prometheus.Observer
}

// MetricsRegistry owns the CounterVec/HistogramVec instruments shared
// across requests; ForProfile curries them down to the per-request
// *Metrics a worker actually touches.
type MetricsRegistry struct {
	rounds          *prometheus.CounterVec
	patternsScanned *prometheus.CounterVec
	tripsBoarded    *prometheus.CounterVec
	paretoEvents    *prometheus.CounterVec
	iterations      *prometheus.CounterVec
	routeDuration   *prometheus.HistogramVec
}

// NewMetricsRegistry builds and registers the Raptor instrument set
// against reg. Pass prometheus.NewRegistry() in tests to avoid
// colliding with the default global registry across parallel test
// binaries.
func NewMetricsRegistry(reg prometheus.Registerer) *MetricsRegistry {
	m := &MetricsRegistry{
		rounds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "raptor", Name: "rounds_total",
			Help: "Raptor rounds executed, by profile.",
		}, []string{"profile"}),
		patternsScanned: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "raptor", Name: "patterns_scanned_total",
			Help: "Patterns scanned during pattern-scan, by profile.",
		}, []string{"profile"}),
		tripsBoarded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "raptor", Name: "trips_boarded_total",
			Help: "Trips successfully boarded via SearchTrip, by profile.",
		}, []string{"profile"}),
		paretoEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "raptor", Name: "pareto_events_total",
			Help: "Pareto-set accept/reject/drop events, by profile and kind.",
		}, []string{"profile", "kind"}),
		iterations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "raptor", Name: "iterations_total",
			Help: "Departure-minute iterations run per request, by profile.",
		}, []string{"profile"}),
		routeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "raptor", Name: "route_duration_seconds",
			Help:    "Wall-clock duration of one Route call, by profile.",
			Buckets: prometheus.DefBuckets,
		}, []string{"profile"}),
	}
	reg.MustRegister(m.rounds, m.patternsScanned, m.tripsBoarded, m.paretoEvents, m.iterations, m.routeDuration)
	return m
}

// ForProfile curries the registry's vectors down to the labels for
// one request, returning the bundle the worker increments directly.
func (r *MetricsRegistry) ForProfile(profile Profile) *Metrics {
	if r == nil {
		return nil
	}
	label := profile.String()
	return &Metrics{
		roundsTotal:     r.rounds.WithLabelValues(label),
		patternsScanned: r.patternsScanned.WithLabelValues(label),
		tripsBoarded:    r.tripsBoarded.WithLabelValues(label),
		paretoAccepts:   r.paretoEvents.WithLabelValues(label, "accept"),
		paretoRejects:   r.paretoEvents.WithLabelValues(label, "reject"),
		paretoDrops:     r.paretoEvents.WithLabelValues(label, "drop"),
		iterationsTotal: r.iterations.WithLabelValues(label),
		routeDuration:   r.routeDuration.WithLabelValues(label),
	}
}

func (m *Metrics) incRound() {
	if m != nil {
		m.roundsTotal.Inc()
	}
}

func (m *Metrics) incPatternsScanned(n int) {
	if m != nil {
		m.patternsScanned.Add(float64(n))
	}
}

func (m *Metrics) incTripsBoarded() {
	if m != nil {
		m.tripsBoarded.Inc()
	}
}

func (m *Metrics) incIteration() {
	if m != nil {
		m.iterationsTotal.Inc()
	}
}

// observeParetoEvent feeds C10's event stream into the accept/reject/
// drop counters.
func (m *Metrics) observeParetoEvent(kind EventKind) {
	if m == nil {
		return
	}
	switch kind {
	case EventAccept:
		m.paretoAccepts.Inc()
	case EventReject, EventRejectOptimized:
		m.paretoRejects.Inc()
	case EventDrop:
		m.paretoDrops.Inc()
	}
}

// timer starts a wall-clock observation for one Route call; call the
// returned func when the call completes.
func (m *Metrics) timer() func() {
	if m == nil {
		return func() {}
	}
	t := prometheus.NewTimer(m.routeDuration)
	return func() { t.ObserveDuration() }
}
