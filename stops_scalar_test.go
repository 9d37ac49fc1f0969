package raptor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArrivalRecordReachedReflectsUnreachedSentinel(t *testing.T) {
	calc := &ForwardCalculator{}
	store := NewScalarStopArrivals(1, 1, calc, NewRegistry())

	rec := store.Get(0, 0)
	assert.False(t, rec.Reached(calc))

	store.SetAccess(0, 100, 0)
	rec = store.Get(0, 0)
	assert.True(t, rec.Reached(calc))
}

func TestArrivalRecordReachedByTransfer(t *testing.T) {
	calc := &ForwardCalculator{}
	store := NewScalarStopArrivals(2, 1, calc, NewRegistry())
	store.SetAccess(0, 0, 0)
	store.TransitToStop(1, 1, 100, 0, 50, TripRef{PatternIdx: 0, TripIdx: 0}, true)

	rec := store.Get(1, 1)
	assert.False(t, rec.ReachedByTransfer())

	store.TransferToStop(1, 1, 1, 10, 110)
	rec = store.Get(1, 1)
	assert.True(t, rec.ReachedByTransfer())
}

func TestTransitToStopKeepsSubRecordWhenNotBestOverall(t *testing.T) {
	calc := &ForwardCalculator{}
	store := NewScalarStopArrivals(2, 1, calc, NewRegistry())
	store.SetAccess(0, 0, 0)
	// a faster transfer already claimed "best overall" for this round/stop...
	store.TransferToStop(1, 0, 1, 5, 50)
	// ...but a transit arrival is still recorded as a sub-record for a
	// later round's boarding, even though it didn't win "best overall".
	store.TransitToStop(1, 1, 200, 0, 150, TripRef{PatternIdx: 2, TripIdx: 0}, false)

	rec := store.Get(1, 1)
	assert.Equal(t, sourceTransfer, rec.BestSource)
	assert.Equal(t, int64(50), rec.BestArrivalTime)
	assert.True(t, rec.HasTransit)
	assert.Equal(t, int64(200), rec.TransitArrivalTime)
}

func TestTransitToStopOverwritingBestOverallClearsTransferSource(t *testing.T) {
	calc := &ForwardCalculator{}
	store := NewScalarStopArrivals(2, 1, calc, NewRegistry())
	store.SetAccess(0, 0, 0)
	store.TransferToStop(1, 0, 1, 5, 50)
	require.Equal(t, sourceTransfer, store.Get(1, 1).BestSource)

	store.TransitToStop(1, 1, 40, 0, 20, TripRef{PatternIdx: 1, TripIdx: 0}, true)
	rec := store.Get(1, 1)
	assert.Equal(t, sourceTransit, rec.BestSource)
	assert.Equal(t, NoStop, rec.TransferFromStop)
}

func TestScalarEgressHookFiresOnlyForConfiguredStops(t *testing.T) {
	calc := &ForwardCalculator{}
	store := NewScalarStopArrivals(3, 1, calc, NewRegistry())
	var fired []Stop
	store.SetEgressHook(map[Stop]int64{2: 15}, func(round int, stop Stop, transitArrival, egressDuration int64) {
		fired = append(fired, stop)
		assert.Equal(t, int64(15), egressDuration)
	})
	store.SetAccess(0, 0, 0)
	store.TransitToStop(1, 1, 100, 0, 50, TripRef{PatternIdx: 0, TripIdx: 0}, true)
	store.TransitToStop(1, 2, 200, 0, 50, TripRef{PatternIdx: 1, TripIdx: 0}, true)

	assert.Equal(t, []Stop{2}, fired)
}

func TestScalarResetForNewIterationRestoresUnreachedSentinel(t *testing.T) {
	calc := &ForwardCalculator{}
	store := NewScalarStopArrivals(1, 1, calc, NewRegistry())
	store.SetAccess(0, 100, 0)
	require.True(t, store.Get(0, 0).Reached(calc))

	store.ResetForNewIteration()
	assert.False(t, store.Get(0, 0).Reached(calc))
	assert.Equal(t, NoStop, store.Get(0, 0).TransferFromStop)
	assert.Equal(t, NoStop, store.Get(0, 0).BoardStop)
}
