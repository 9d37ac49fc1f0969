package raptor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type labeledPoint struct {
	name string
	time int64
	cost int64
}

func timeCostAxes() []Axis[labeledPoint] {
	return []Axis[labeledPoint]{
		LessAxis(func(p labeledPoint) int64 { return p.time }, func(a, b int64) bool { return a < b }),
		LessAxis(func(p labeledPoint) int64 { return p.cost }, func(a, b int64) bool { return a < b }),
	}
}

func TestParetoSetRejectsDominatedCandidate(t *testing.T) {
	var events []EventKind
	ps := NewParetoSet(timeCostAxes(), func(kind EventKind, candidate, witness any) {
		events = append(events, kind)
	})

	require.True(t, ps.Insert(labeledPoint{"a", 10, 100}))
	require.False(t, ps.Insert(labeledPoint{"b", 20, 200}))

	require.Len(t, ps.Members(), 1)
	assert.Equal(t, "a", ps.Members()[0].name)
	assert.Equal(t, []EventKind{EventAccept, EventReject}, events)
}

func TestParetoSetDropsDominatedMembersOnInsert(t *testing.T) {
	var drops []string
	ps := NewParetoSet(timeCostAxes(), func(kind EventKind, candidate, witness any) {
		if kind == EventDrop {
			drops = append(drops, candidate.(labeledPoint).name)
		}
	})

	ps.Insert(labeledPoint{"slow-cheap", 20, 50})
	ps.Insert(labeledPoint{"fast-expensive", 10, 500})
	require.Len(t, ps.Members(), 2)

	// dominates both prior members on every axis
	ps.Insert(labeledPoint{"fast-cheap", 5, 10})

	require.Len(t, ps.Members(), 1)
	assert.Equal(t, "fast-cheap", ps.Members()[0].name)
	assert.ElementsMatch(t, []string{"slow-cheap", "fast-expensive"}, drops)
}

func TestParetoSetKeepsNonDominatingTradeoffs(t *testing.T) {
	ps := NewParetoSet(timeCostAxes(), nil)
	ps.Insert(labeledPoint{"fast-expensive", 10, 500})
	ps.Insert(labeledPoint{"slow-cheap", 20, 50})

	assert.Len(t, ps.Members(), 2)
}

// TestParetoSetEqualCandidateIsAcceptedAlongsideExisting documents a
// deliberate consequence of strict dominance (dominates requires at
// least one strictly-better axis, see the anyStrict accumulator): two
// candidates with identical axis values dominate neither one another,
// so both coexist as separate members rather than the second being
// treated as a redundant duplicate. A caller that cares about
// collapsing true duplicates (e.g. the same physical journey
// rediscovered on successive departure-minute iterations) must dedupe
// itself - see DestinationArrivals.seen.
func TestParetoSetEqualCandidateIsAcceptedAlongsideExisting(t *testing.T) {
	ps := NewParetoSet(timeCostAxes(), nil)
	ps.Insert(labeledPoint{"first", 10, 100})
	accepted := ps.Insert(labeledPoint{"second", 10, 100})

	assert.True(t, accepted)
	assert.Len(t, ps.Members(), 2)
}

func TestParetoSetSinceMarkerOnlyReturnsNewMembers(t *testing.T) {
	ps := NewParetoSet(timeCostAxes(), nil)
	ps.Insert(labeledPoint{"a", 10, 100})
	marker := ps.Marker()
	ps.Insert(labeledPoint{"b", 5, 5})

	fresh := ps.SinceMarker(marker)
	require.Len(t, fresh, 1)
	assert.Equal(t, "b", fresh[0].name)
}

func TestParetoSetResetClearsMembersButKeepsSeqMonotone(t *testing.T) {
	ps := NewParetoSet(timeCostAxes(), nil)
	ps.Insert(labeledPoint{"a", 10, 100})
	preResetMarker := ps.Marker()
	ps.Reset()
	require.Empty(t, ps.Members())

	postResetMarker := ps.Marker()
	assert.Equal(t, preResetMarker, postResetMarker)

	ps.Insert(labeledPoint{"b", 1, 1})
	require.Len(t, ps.Members(), 1)
	assert.Equal(t, "b", ps.SinceMarker(postResetMarker)[0].name)
}
