package holdem

import "sort"

// SidePot is one partition of contested chips (spec §3, §4.6): an amount
// and the set of seats eligible to win it. Pots are ordered earliest-formed
// (lowest contribution level) to latest. Eligibility here is purely by
// contribution threshold, per spec §4.6 step 3 — it does NOT exclude
// folded seats; a folded seat's chips still belong to a pot it contributed
// to and are only excluded from WINNING it during settlement (§4.7 step 2),
// not from pot membership itself.
type SidePot struct {
	PotID    int
	Amount   int64
	Eligible []uint16 // stable ascending order by seat id
}

type potContribution struct {
	seat         uint16
	contribution int64
}

// BuildSidePots partitions wagered chips into side pots per spec §4.6's
// algorithm: entries are sorted ascending by whole-hand contribution, and a
// pot is carved out at every contribution level reached while two or more
// entries still remain in the ladder. Once only a single entry remains
// (active <= 1), the loop stops and whatever is left above the previous
// level is a refund to that lone remaining (top) contributor — this is the
// "unmatched overflow" of step 4, folded into the same settlement
// transaction map rather than a separate pre-settlement mutation.
//
// contributions maps seat -> whole-hand frozen contribution.
func BuildSidePots(contributions map[uint16]int64) ([]SidePot, map[uint16]int64) {
	entries := make([]potContribution, 0, len(contributions))
	for seat, amt := range contributions {
		if amt <= 0 {
			continue
		}
		entries = append(entries, potContribution{seat: seat, contribution: amt})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].contribution != entries[j].contribution {
			return entries[i].contribution < entries[j].contribution
		}
		return entries[i].seat < entries[j].seat
	})

	var pots []SidePot
	var prev int64
	nextID := 0
	active := len(entries)

	for i, e := range entries {
		x := e.contribution
		if x == prev {
			active--
			continue
		}
		if active <= 1 {
			break
		}

		amount := (x - prev) * int64(active)
		eligible := make([]uint16, 0, len(entries)-i)
		for j := i; j < len(entries); j++ {
			eligible = append(eligible, entries[j].seat)
		}
		sort.Slice(eligible, func(a, b int) bool { return eligible[a] < eligible[b] })

		merged := false
		if len(pots) > 0 && sameEligibility(pots[len(pots)-1].Eligible, eligible) {
			pots[len(pots)-1].Amount += amount
			merged = true
		}
		if !merged {
			pots = append(pots, SidePot{PotID: nextID, Amount: amount, Eligible: eligible})
			nextID++
		}

		prev = x
		active--
	}

	refunds := make(map[uint16]int64)
	if len(entries) > 0 {
		top := entries[len(entries)-1]
		if excess := top.contribution - prev; excess > 0 {
			refunds[top.seat] = excess
		}
	}

	return pots, refunds
}

func sameEligibility(a, b []uint16) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[uint16]struct{}, len(a))
	for _, s := range a {
		set[s] = struct{}{}
	}
	for _, s := range b {
		if _, ok := set[s]; !ok {
			return false
		}
	}
	return true
}
