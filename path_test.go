package raptor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathFingerprintIncludesTripIdentityOnlyForTransit(t *testing.T) {
	p := Path{Legs: []PathLeg{
		{Kind: LegAccess, FromStop: NoStop, ToStop: 0},
		{Kind: LegTransit, FromStop: 0, ToStop: 1, Trip: TripRef{PatternIdx: 2, TripIdx: 5}},
		{Kind: LegEgress, FromStop: 1, ToStop: NoStop},
	}}
	fp := p.Fingerprint()
	assert.Contains(t, fp, "2.5")
	// two paths riding different trips of the same pattern must not collide
	other := p
	other.Legs = append([]PathLeg(nil), p.Legs...)
	other.Legs[1].Trip = TripRef{PatternIdx: 2, TripIdx: 6}
	assert.NotEqual(t, fp, other.Fingerprint())
}

func TestExtractScalarPathForwardChronologicalOrder(t *testing.T) {
	calc := &ForwardCalculator{}
	store := NewScalarStopArrivals(2, 1, calc, NewRegistry())
	store.SetAccess(0, 100, 10)
	store.TransitToStop(1, 1, 300, 0, 200, TripRef{PatternIdx: 1, TripIdx: 2}, true)

	p := extractScalarPath(store, calc, 20, 1, 1, 5, true)

	require.Len(t, p.Legs, 3)
	assert.Equal(t, LegAccess, p.Legs[0].Kind)
	assert.Equal(t, Stop(0), p.Legs[0].ToStop)
	assert.Equal(t, int64(170), p.Legs[0].DepartTime)
	assert.Equal(t, int64(180), p.Legs[0].ArriveTime)
	assert.Equal(t, LegTransit, p.Legs[1].Kind)
	assert.Equal(t, int64(200), p.Legs[1].DepartTime)
	assert.Equal(t, int64(300), p.Legs[1].ArriveTime)
	assert.Equal(t, LegEgress, p.Legs[2].Kind)
	assert.Equal(t, int64(300), p.Legs[2].DepartTime)
	assert.Equal(t, int64(305), p.Legs[2].ArriveTime)

	assert.Equal(t, int64(170), p.StartTime)
	assert.Equal(t, int64(305), p.EndTime)
	assert.Equal(t, 0, p.NTransfers)
	assert.Equal(t, int64(135), p.TotalTravelDuration)
}

func TestExtractScalarPathForwardWithTransfer(t *testing.T) {
	calc := &ForwardCalculator{}
	store := NewScalarStopArrivals(4, 2, calc, NewRegistry())
	store.SetAccess(0, 0, 0)
	store.TransitToStop(1, 1, 100, 0, 50, TripRef{PatternIdx: 0, TripIdx: 0}, true)
	store.TransferToStop(1, 1, 2, 30, 130)
	store.TransitToStop(2, 3, 200, 2, 150, TripRef{PatternIdx: 1, TripIdx: 0}, true)

	p := extractScalarPath(store, calc, 0, 2, 3, 0, true)

	require.Len(t, p.Legs, 5)
	assert.Equal(t, LegAccess, p.Legs[0].Kind)
	assert.Equal(t, LegTransit, p.Legs[1].Kind)
	assert.Equal(t, int64(50), p.Legs[1].DepartTime)
	assert.Equal(t, int64(100), p.Legs[1].ArriveTime)
	assert.Equal(t, LegTransfer, p.Legs[2].Kind)
	assert.Equal(t, int64(100), p.Legs[2].DepartTime)
	assert.Equal(t, int64(130), p.Legs[2].ArriveTime)
	assert.Equal(t, LegTransit, p.Legs[3].Kind)
	assert.Equal(t, LegEgress, p.Legs[4].Kind)
	assert.Equal(t, 1, p.NTransfers)
}

// TestExtractScalarPathReverseMirrorsLegs directly exercises the
// reverse leg-direction fix in mirrorReverseLegs: a reverse search
// records each leg's endpoints and times in the walk's own
// later-stop-first direction, and extraction must flip every leg back
// to the usual earlier-to-later convention (not just relabel the
// first/last Kind).
func TestExtractScalarPathReverseMirrorsLegs(t *testing.T) {
	calc := &ReverseCalculator{}
	store := NewScalarStopArrivals(2, 1, calc, NewRegistry())
	// round 0 holds the worker-internal "access" stop, which for a
	// reverse search is the rider's real egress-side stop.
	store.SetAccess(1, 500, 7)
	// round 1's transit record: boarded (in the walk's own terms) at
	// stop1/time500, alighted at stop0/time300 - in real chronological
	// terms this is the rider boarding at stop0 at 300 and alighting at
	// stop1 at 500.
	store.TransitToStop(1, 0, 300, 1, 500, TripRef{PatternIdx: 3, TripIdx: 1}, true)

	p := extractScalarPath(store, calc, 0, 1, 0, 3, false)

	require.Len(t, p.Legs, 3)
	assert.Equal(t, LegAccess, p.Legs[0].Kind)
	assert.Equal(t, NoStop, p.Legs[0].FromStop)
	assert.Equal(t, Stop(0), p.Legs[0].ToStop)
	assert.Equal(t, int64(297), p.Legs[0].DepartTime)
	assert.Equal(t, int64(300), p.Legs[0].ArriveTime)

	assert.Equal(t, LegTransit, p.Legs[1].Kind)
	assert.Equal(t, Stop(0), p.Legs[1].FromStop)
	assert.Equal(t, Stop(1), p.Legs[1].ToStop)
	assert.Equal(t, int64(300), p.Legs[1].DepartTime)
	assert.Equal(t, int64(500), p.Legs[1].ArriveTime)

	assert.Equal(t, LegEgress, p.Legs[2].Kind)
	assert.Equal(t, Stop(1), p.Legs[2].FromStop)
	assert.Equal(t, NoStop, p.Legs[2].ToStop)
	assert.Equal(t, int64(500), p.Legs[2].DepartTime)
	assert.Equal(t, int64(507), p.Legs[2].ArriveTime)

	// every leg's own DepartTime must precede its ArriveTime once
	// mirrored, regardless of search direction.
	for _, leg := range p.Legs {
		assert.LessOrEqual(t, leg.DepartTime, leg.ArriveTime)
	}
	assert.Equal(t, int64(297), p.StartTime)
	assert.Equal(t, int64(507), p.EndTime)
	assert.Equal(t, int64(210), p.TotalTravelDuration)
}

func TestExtractMCPathForwardChronologicalOrder(t *testing.T) {
	calc := &ForwardCalculator{}
	factors := DefaultCostFactors()
	store := NewMultiCriteriaStopArrivals(2, 1, calc, factors, NewRegistry())

	access := store.AddAccess(0, 100, 10)
	transit := store.AddTransit(1, 1, 300, 0, 200, TripRef{PatternIdx: 0, TripIdx: 0}, access)

	p := extractMCPath(store, calc, 20, transit, 5, true)

	require.Len(t, p.Legs, 3)
	assert.Equal(t, LegAccess, p.Legs[0].Kind)
	assert.Equal(t, int64(170), p.Legs[0].DepartTime)
	assert.Equal(t, int64(180), p.Legs[0].ArriveTime)
	assert.Equal(t, LegTransit, p.Legs[1].Kind)
	assert.Equal(t, int64(200), p.Legs[1].DepartTime)
	assert.Equal(t, int64(300), p.Legs[1].ArriveTime)
	assert.Equal(t, LegEgress, p.Legs[2].Kind)
	assert.Equal(t, int64(300), p.Legs[2].DepartTime)
	assert.Equal(t, int64(305), p.Legs[2].ArriveTime)
	assert.Greater(t, p.Cost, int64(0))
}

func TestExtractMCPathReverseMirrorsLegs(t *testing.T) {
	calc := &ReverseCalculator{}
	factors := DefaultCostFactors()
	store := NewMultiCriteriaStopArrivals(2, 1, calc, factors, NewRegistry())

	access := store.AddAccess(1, 500, 7)
	transit := store.AddTransit(1, 0, 300, 1, 500, TripRef{PatternIdx: 3, TripIdx: 1}, access)

	p := extractMCPath(store, calc, 0, transit, 3, false)

	require.Len(t, p.Legs, 3)
	assert.Equal(t, LegAccess, p.Legs[0].Kind)
	assert.Equal(t, Stop(0), p.Legs[0].ToStop)
	assert.Equal(t, int64(297), p.Legs[0].DepartTime)
	assert.Equal(t, int64(300), p.Legs[0].ArriveTime)
	assert.Equal(t, LegTransit, p.Legs[1].Kind)
	assert.Equal(t, Stop(0), p.Legs[1].FromStop)
	assert.Equal(t, Stop(1), p.Legs[1].ToStop)
	assert.Equal(t, LegEgress, p.Legs[2].Kind)
	assert.Equal(t, Stop(1), p.Legs[2].FromStop)
	assert.Equal(t, int64(500), p.Legs[2].DepartTime)
	assert.Equal(t, int64(507), p.Legs[2].ArriveTime)
}
