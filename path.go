package raptor

import (
	"fmt"
	"strconv"
	"strings"
)

// LegKind names the physical role of a PathLeg within a journey.
type LegKind int8

const (
	LegAccess LegKind = iota
	LegTransit
	LegTransfer
	LegEgress
)

func (k LegKind) String() string {
	switch k {
	case LegAccess:
		return "access"
	case LegTransit:
		return "transit"
	case LegTransfer:
		return "transfer"
	case LegEgress:
		return "egress"
	default:
		return "unknown"
	}
}

// PathLeg is one leg of a reconstructed journey, in chronological
// (real wall-clock) order regardless of which search direction
// produced it.
type PathLeg struct {
	Kind       LegKind
	FromStop   Stop
	ToStop     Stop
	DepartTime int64
	ArriveTime int64
	Trip       TripRef
}

// Path is a complete reconstructed journey - the result of path
// extraction (C9), not the excluded point-to-point aggregation layer:
// it shapes one already-found journey for display, it does not search
// for one.
type Path struct {
	StartTime           int64
	EndTime             int64
	NTransfers          int
	TotalTravelDuration int64
	Cost                int64
	Legs                []PathLeg
}

// String renders a compact human-readable summary, handy in debug
// sinks and test failure messages.
func (p Path) String() string {
	var b strings.Builder
	for i, leg := range p.Legs {
		if i > 0 {
			b.WriteString(" -> ")
		}
		fmt.Fprintf(&b, "%s(%d->%d)", leg.Kind, leg.FromStop, leg.ToStop)
	}
	return b.String()
}

// Fingerprint returns a stable string identity for deduplicating
// otherwise-distinct Path values that represent the same physical
// journey, mirroring the teacher's GetFingerPrint.
func (p Path) Fingerprint() string {
	var b strings.Builder
	for i, leg := range p.Legs {
		if i > 0 {
			b.WriteByte('|')
		}
		b.WriteString(strconv.Itoa(int(leg.FromStop)))
		b.WriteByte('.')
		if leg.Kind == LegTransit {
			b.WriteString(strconv.Itoa(leg.Trip.PatternIdx))
			b.WriteByte('.')
			b.WriteString(strconv.Itoa(leg.Trip.TripIdx))
		}
		b.WriteByte('.')
		b.WriteString(strconv.Itoa(int(leg.ToStop)))
	}
	return b.String()
}

// extractScalarPath walks a ScalarStopArrivals' BestSource back
// pointers from (round, egressStop) to the originating access leg,
// producing legs in true chronological order. forward selects which
// structural endpoint (round 0 vs the far terminal) is labeled access
// vs egress: forward search reverses the walked list, while in reverse
// search (round 0 holds the injected egress legs) the walked list is
// already chronological and mirrorReverseLegs flips each leg in place
// instead (§6, §9's access/egress swap).
func extractScalarPath(store *ScalarStopArrivals, calc Calculator, boardSlack int64, round int, egressStop Stop, egressDuration int64, forward bool) Path {
	rec := store.Get(round, egressStop)
	egressArrive := calc.Add(rec.TransitArrivalTime, egressDuration)

	var legs []PathLeg
	legs = append(legs, PathLeg{Kind: LegEgress, FromStop: egressStop, ToStop: NoStop, DepartTime: rec.TransitArrivalTime, ArriveTime: egressArrive})

	curRound, curStop := round, egressStop
	for {
		rec := store.Get(curRound, curStop)
		legs = append(legs, PathLeg{
			Kind: LegTransit, FromStop: rec.BoardStop, ToStop: curStop,
			DepartTime: rec.BoardTime, ArriveTime: rec.TransitArrivalTime, Trip: rec.Trip,
		})

		predRound := curRound - 1
		predStop := rec.BoardStop
		predRec := store.Get(predRound, predStop)

		switch predRec.BestSource {
		case sourceAccess:
			arrive := calc.Sub(rec.BoardTime, boardSlack)
			depart := calc.Sub(arrive, predRec.AccessDuration)
			legs = append(legs, PathLeg{Kind: LegAccess, FromStop: NoStop, ToStop: predStop, DepartTime: depart, ArriveTime: arrive})
			curRound = -1
		case sourceTransfer:
			depart := calc.Sub(predRec.BestArrivalTime, predRec.TransferDuration)
			legs = append(legs, PathLeg{Kind: LegTransfer, FromStop: predRec.TransferFromStop, ToStop: predStop, DepartTime: depart, ArriveTime: predRec.BestArrivalTime})
			curRound, curStop = predRound, predRec.TransferFromStop
		case sourceTransit:
			curRound, curStop = predRound, predStop
		}
		if curRound < 0 {
			break
		}
	}

	if forward {
		reverseLegs(legs)
	} else {
		mirrorReverseLegs(legs)
	}

	return buildPath(legs)
}

func reverseLegs(legs []PathLeg) {
	for i, j := 0, len(legs)-1; i < j; i, j = i+1, j-1 {
		legs[i], legs[j] = legs[j], legs[i]
	}
}

// mirrorReverseLegs fixes up a reverse-search leg list in place. A
// reverse walk is built from the rider's real access side to their real
// egress side (round 0 holds the rider's real egress leg, so walking
// the back-pointer chain away from it moves toward the access side) -
// the append order is already real-chronological and needs no
// reversal, but every individual leg was recorded with its endpoints
// and times in the walk's own (later-stop-first) direction and must be
// flipped to the usual earlier-to-later convention. The first and last
// legs also carry the wrong Kind for the same reason.
func mirrorReverseLegs(legs []PathLeg) {
	for i := range legs {
		legs[i].FromStop, legs[i].ToStop = legs[i].ToStop, legs[i].FromStop
		legs[i].DepartTime, legs[i].ArriveTime = legs[i].ArriveTime, legs[i].DepartTime
	}
	legs[0].Kind, legs[len(legs)-1].Kind = LegAccess, LegEgress
}

func buildPath(legs []PathLeg) Path {
	nTransit := 0
	for _, l := range legs {
		if l.Kind == LegTransit {
			nTransit++
		}
	}
	start, end := legs[0].DepartTime, legs[len(legs)-1].ArriveTime
	dur := end - start
	if dur < 0 {
		dur = -dur
	}
	transfers := nTransit - 1
	if transfers < 0 {
		transfers = 0
	}
	return Path{
		StartTime:           start,
		EndTime:             end,
		NTransfers:          transfers,
		TotalTravelDuration: dur,
		Legs:                legs,
	}
}

// extractMCPath walks a MultiCriteriaStopArrivals back-pointer DAG
// from idx to its root access node, producing the same chronological
// PathLeg shape as extractScalarPath, with Cost carried along.
func extractMCPath(store *MultiCriteriaStopArrivals, calc Calculator, boardSlack int64, idx ArrivalIndex, egressDuration int64, forward bool) Path {
	node := store.Node(idx)
	egressArrive := calc.Add(node.ArrivalTime, egressDuration)

	var legs []PathLeg
	legs = append(legs, PathLeg{Kind: LegEgress, FromStop: node.Stop, ToStop: NoStop, DepartTime: node.ArrivalTime, ArriveTime: egressArrive})

	cur := idx
	for {
		n := store.Node(cur)
		switch n.Kind {
		case mcKindAccess:
			arrive := n.ArrivalTime
			if len(legs) > 0 && legs[len(legs)-1].Kind == LegTransit {
				arrive = calc.Sub(legs[len(legs)-1].DepartTime, boardSlack)
			}
			depart := calc.Sub(arrive, n.AccessDuration)
			legs = append(legs, PathLeg{Kind: LegAccess, FromStop: NoStop, ToStop: n.Stop, DepartTime: depart, ArriveTime: arrive})
			cur = NoArrivalIndex
		case mcKindTransit:
			legs = append(legs, PathLeg{Kind: LegTransit, FromStop: n.BoardStop, ToStop: n.Stop, DepartTime: n.DepartureTime, ArriveTime: n.ArrivalTime, Trip: n.Trip})
			cur = n.Prev
		case mcKindTransfer:
			prev := store.Node(n.Prev)
			duration := elapsed(calc, prev.ArrivalTime, n.ArrivalTime)
			legs = append(legs, PathLeg{Kind: LegTransfer, FromStop: n.BoardStop, ToStop: n.Stop, DepartTime: calc.Sub(n.ArrivalTime, duration), ArriveTime: n.ArrivalTime})
			cur = n.Prev
		}
		if cur == NoArrivalIndex {
			break
		}
	}

	if forward {
		reverseLegs(legs)
	} else {
		mirrorReverseLegs(legs)
	}

	p := buildPath(legs)
	p.Cost = node.Cost
	return p
}
