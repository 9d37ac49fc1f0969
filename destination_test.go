package raptor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDestinationArrivals(useCost bool) *DestinationArrivals {
	calc := &ForwardCalculator{}
	rt := NewRoundTracker(8, 0)
	return NewDestinationArrivals(calc, rt, useCost, NewRegistry())
}

func TestOnScalarEgressAcceptsStrictImprovement(t *testing.T) {
	d := newTestDestinationArrivals(false)
	d.OnScalarEgress(1, 5, 100, 10)
	require.Equal(t, 1, d.Len())

	// same round, same duration, worse arrival: dominated, must not be kept.
	d.OnScalarEgress(1, 5, 200, 10)
	assert.Equal(t, 1, d.Len())

	// same round, same duration, strictly earlier arrival: dominates and
	// replaces the worse member.
	d.OnScalarEgress(1, 5, 50, 10)
	assert.Equal(t, 1, d.Len())
	assert.Equal(t, int64(60), d.Members()[0].ArrivalTime)
}

func TestOnMCEgressTracksCost(t *testing.T) {
	d := newTestDestinationArrivals(true)
	d.OnMCEgress(1, ArrivalIndex(0), 10, &MultiCriteriaStopArrivals{nodes: []MCArrival{{ArrivalTime: 100, Cost: 500}}, calc: &ForwardCalculator{}})
	require.Equal(t, 1, d.Len())
	assert.Equal(t, int64(500), d.Members()[0].Cost)
	assert.Equal(t, int64(110), d.Members()[0].ArrivalTime)
}

// TestCommitIterationDedupesIdenticalJourneys exercises the
// seen-by-fingerprint fix: re-boarding the same trip from successive
// departure-minute iterations produces extracted Paths with identical
// legs (same boarded trip, same real schedule times), which would
// otherwise coexist in finalSet forever since equal-valued Paths never
// dominate each other under strict Pareto comparison.
func TestCommitIterationDedupesIdenticalJourneys(t *testing.T) {
	d := newTestDestinationArrivals(false)

	identicalPath := Path{
		StartTime: 100, EndTime: 300, NTransfers: 0, TotalTravelDuration: 200,
		Legs: []PathLeg{
			{Kind: LegAccess, FromStop: NoStop, ToStop: 0, DepartTime: 100, ArriveTime: 100},
			{Kind: LegTransit, FromStop: 0, ToStop: 1, DepartTime: 100, ArriveTime: 300, Trip: TripRef{PatternIdx: 1, TripIdx: 1}},
			{Kind: LegEgress, FromStop: 1, ToStop: NoStop, DepartTime: 300, ArriveTime: 300},
		},
	}

	// iteration 1: one candidate extracts to identicalPath.
	d.OnScalarEgress(1, 1, 300, 0)
	d.CommitIteration(func(DestinationArrival) Path { return identicalPath })
	require.Len(t, d.FinalPaths(), 1)

	// iteration 2: a different departure minute re-boards the same trip
	// and produces the exact same physical journey again. d.set is not
	// reset between iterations (ScalarWorker.ResetDestinations only
	// fires once per request), so the raw candidate frontier itself also
	// ends up holding two equal-valued, mutually non-dominating members -
	// exactly the case the fingerprint dedup exists for.
	d.OnScalarEgress(1, 1, 300, 0)
	d.CommitIteration(func(DestinationArrival) Path { return identicalPath })

	assert.Len(t, d.FinalPaths(), 1, "identical journeys re-extracted across iterations must dedupe, not accumulate")
}

func TestCommitIterationKeepsDistinctJourneys(t *testing.T) {
	d := newTestDestinationArrivals(false)

	// fewer transfers but arrives later - non-dominated against pathB.
	pathA := Path{StartTime: 100, EndTime: 300, NTransfers: 1, TotalTravelDuration: 250, Legs: []PathLeg{
		{Kind: LegAccess, FromStop: NoStop, ToStop: 0},
		{Kind: LegTransit, FromStop: 0, ToStop: 1, Trip: TripRef{PatternIdx: 1, TripIdx: 1}},
		{Kind: LegEgress, FromStop: 1, ToStop: NoStop},
	}}
	// arrives earlier and shorter overall, but more transfers - non-dominated
	// against pathA, so both must survive the frontier.
	pathB := Path{StartTime: 50, EndTime: 250, NTransfers: 2, TotalTravelDuration: 200, Legs: []PathLeg{
		{Kind: LegAccess, FromStop: NoStop, ToStop: 0},
		{Kind: LegTransit, FromStop: 0, ToStop: 2, Trip: TripRef{PatternIdx: 2, TripIdx: 1}},
		{Kind: LegTransfer, FromStop: 2, ToStop: 1},
		{Kind: LegEgress, FromStop: 1, ToStop: NoStop},
	}}

	d.OnScalarEgress(1, 1, 300, 0)
	d.CommitIteration(func(DestinationArrival) Path { return pathA })
	d.OnScalarEgress(2, 1, 250, 0)
	d.CommitIteration(func(DestinationArrival) Path { return pathB })

	assert.Len(t, d.FinalPaths(), 2)
}

func TestResetClearsSeenFingerprints(t *testing.T) {
	d := newTestDestinationArrivals(false)
	p := Path{StartTime: 100, EndTime: 300, Legs: []PathLeg{
		{Kind: LegAccess, FromStop: NoStop, ToStop: 0},
		{Kind: LegTransit, FromStop: 0, ToStop: 1, Trip: TripRef{PatternIdx: 1, TripIdx: 1}},
		{Kind: LegEgress, FromStop: 1, ToStop: NoStop},
	}}

	d.OnScalarEgress(1, 1, 300, 0)
	d.CommitIteration(func(DestinationArrival) Path { return p })
	require.Len(t, d.FinalPaths(), 1)

	// a fresh request (new Reset) must not carry dedup state from the
	// previous one forward.
	d.Reset()
	d.OnScalarEgress(1, 1, 300, 0)
	d.CommitIteration(func(DestinationArrival) Path { return p })
	assert.Len(t, d.FinalPaths(), 1)
}

// TestOnScalarEgressIgnoresEgressOnlyDurationAtRawStage guards against a
// fabricated "Duration" axis at the raw candidate stage: OnScalarEgress used
// to compute Duration as arrival-transitArrival, which is always exactly
// egressDuration and has nothing to do with the journey's true
// total_travel_duration (start time to end time). Two candidates tied on
// (ArrivalTime, Round) but with genuinely different true durations must both
// reach CommitIteration - neither a longer egress leg nor a shorter one may
// decide raw dominance - and the real duration comparison must happen on the
// extracted Paths in finalSet.
func TestOnScalarEgressIgnoresEgressOnlyDurationAtRawStage(t *testing.T) {
	d := newTestDestinationArrivals(false)

	const arrival = 9 * 3600
	// origin 7:50, alight 8:55 (round 2), egress 5 min -> arrival 9:00,
	// true total duration 70 min (the worse journey despite the shorter
	// egress leg).
	d.OnScalarEgress(2, 10, 8*3600+55*60, 5*60)
	// origin 8:10, alight 8:50 (round 2), egress 10 min -> arrival 9:00,
	// true total duration 50 min (the better journey despite the longer
	// egress leg).
	d.OnScalarEgress(2, 20, 8*3600+50*60, 10*60)

	require.Equal(t, 2, d.Len(), "candidates tied on (ArrivalTime, Round) must not be decided by egress-only duration")

	longer := Path{
		StartTime: 7*3600 + 50*60, EndTime: arrival, NTransfers: 1, TotalTravelDuration: 70 * 60,
		Legs: []PathLeg{
			{Kind: LegAccess, FromStop: NoStop, ToStop: 0},
			{Kind: LegTransit, FromStop: 0, ToStop: 10, Trip: TripRef{PatternIdx: 1, TripIdx: 1}},
			{Kind: LegEgress, FromStop: 10, ToStop: NoStop},
		},
	}
	shorter := Path{
		StartTime: 8*3600 + 10*60, EndTime: arrival, NTransfers: 1, TotalTravelDuration: 50 * 60,
		Legs: []PathLeg{
			{Kind: LegAccess, FromStop: NoStop, ToStop: 1},
			{Kind: LegTransit, FromStop: 1, ToStop: 20, Trip: TripRef{PatternIdx: 2, TripIdx: 1}},
			{Kind: LegEgress, FromStop: 20, ToStop: NoStop},
		},
	}

	d.CommitIteration(func(cand DestinationArrival) Path {
		if cand.ScalarStop == 10 {
			return longer
		}
		return shorter
	})

	finals := d.FinalPaths()
	require.Len(t, finals, 1, "the strictly-dominated longer journey must not survive finalSet")
	assert.Equal(t, int64(50*60), finals[0].TotalTravelDuration, "the journey with the shorter true duration must win, not the one with the shorter egress leg")
}

func TestBestKnownArrivalReflectsDirection(t *testing.T) {
	d := newTestDestinationArrivals(false)
	assert.Nil(t, d.bestKnownArrival())

	d.OnScalarEgress(1, 1, 300, 0)
	d.OnScalarEgress(2, 2, 150, 0)
	best := d.bestKnownArrival()
	require.NotNil(t, best)
	assert.Equal(t, int64(150), *best)
}
