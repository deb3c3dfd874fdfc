package holdem

import (
	"sort"

	"holdem-engine/card"
)

// SeatResult is one seat's showdown outcome: its evaluated hand (absent for
// a seat that folded or never reached showdown) and what it won, if
// anything.
type SeatResult struct {
	Seat      uint16
	Evaluated bool
	Category  HandCategory
	Score     uint32
	BestFive  [5]card.Card
	Kickers   []int
	Won       int64
}

// SettlementResult is the full record of one hand's atomic settlement
// (spec §4.7): per-pot distribution plus the flattened per-seat view used
// to build HAND_RESULT.
type SettlementResult struct {
	Pots    []SidePot
	Results []SeatResult
	Winners []WinnerEntry
	Refunds map[uint16]int64
}

// settleLocked runs the atomic settlement procedure: build the full
// transaction-delta map first, then apply it in a single ChipLedger.
// SettleHand call. Nothing here mutates the ledger before that call (spec
// §9: "build the entire transaction map before any ledger mutation").
func (g *Game) settleLocked() (*SettlementResult, error) {
	if g.noShowdown {
		return g.settleNoShowdownLocked()
	}
	return g.settleShowdownLocked()
}

func (g *Game) settleShowdownLocked() (*SettlementResult, error) {
	contributions := make(map[uint16]int64, len(g.seatsByChair))
	for chair, s := range g.seatsByChair {
		if s.handContribution > 0 {
			contributions[chair] = s.handContribution
		}
	}

	pots, refunds := BuildSidePots(contributions)

	if len(pots) > 0 {
		entries := make([]PotEventEntry, len(pots))
		for i, p := range pots {
			entries[i] = PotEventEntry{Amount: p.Amount, Eligible: append([]uint16{}, p.Eligible...)}
		}
		g.appendEvent(Event{Kind: EventSidePotsComputed, SidePotsComputed: &SidePotsComputedPayload{Pots: entries}})
	}

	resultsByChair := make(map[uint16]*SeatResult, len(g.seatsByChair))
	for chair, s := range g.seatsByChair {
		if s.status == SeatFolded || len(s.holeCards) != 2 {
			continue
		}
		all := make([]card.Card, 0, 7)
		all = append(all, s.holeCards...)
		all = append(all, g.communityCards...)
		if len(all) != 7 {
			return nil, wrapErr(KindSettlementFailure, "need 7 cards to evaluate", nil)
		}
		eval := EvalBestOf7(all)
		if eval == nil {
			return nil, wrapErr(KindSettlementFailure, "evaluator returned nil", nil)
		}
		resultsByChair[chair] = &SeatResult{
			Seat: chair, Evaluated: true, Category: eval.Category, Score: eval.Score,
			BestFive: eval.BestFive, Kickers: eval.Kickers,
		}
	}

	deltas := make(map[uint16]int64, len(g.seatsByChair))
	for chair, amt := range contributions {
		deltas[chair] -= amt
	}

	var winnerEntries []WinnerEntry
	for _, pot := range pots {
		candidates := make([]uint16, 0, len(pot.Eligible))
		for _, chair := range pot.Eligible {
			if resultsByChair[chair] != nil {
				candidates = append(candidates, chair)
			}
		}
		if len(candidates) == 0 {
			continue
		}

		var best int64 = -1
		var winners []uint16
		for _, chair := range candidates {
			score := int64(resultsByChair[chair].Score)
			switch {
			case score > best:
				best = score
				winners = []uint16{chair}
			case score == best:
				winners = append(winners, chair)
			}
		}
		winners = orderClockwiseFromButton(winners, g.dealerNode.Chair, g.cfg.MaxPlayers)

		share := pot.Amount / int64(len(winners))
		remainder := pot.Amount % int64(len(winners))
		for i, chair := range winners {
			amt := share
			if i == 0 {
				amt += remainder
			}
			deltas[chair] += amt
			resultsByChair[chair].Won += amt
		}
	}

	for chair, amt := range refunds {
		deltas[chair] += amt
	}

	if err := g.ledger.SettleHand(deltas); err != nil {
		return nil, err
	}

	out := &SettlementResult{Pots: pots, Refunds: refunds}
	for _, r := range resultsByChair {
		out.Results = append(out.Results, *r)
		if r.Won > 0 {
			winnerEntries = append(winnerEntries, WinnerEntry{Seat: r.Seat, Amount: r.Won, Category: r.Category, Kickers: r.Kickers})
		}
	}
	sort.Slice(out.Results, func(i, j int) bool { return out.Results[i].Seat < out.Results[j].Seat })
	sort.Slice(winnerEntries, func(i, j int) bool { return winnerEntries[i].Seat < winnerEntries[j].Seat })
	out.Winners = winnerEntries
	return out, nil
}

// settleNoShowdownLocked handles the walkover case (spec §4.7's final
// paragraph): a single non-folded seat remains, so steps 1-3 collapse to
// "single winner takes all wagered" without building side pots or running
// the evaluator at all.
func (g *Game) settleNoShowdownLocked() (*SettlementResult, error) {
	var winner *Seat
	for _, s := range g.seatsByChair {
		if s.status != SeatFolded && s.status != SeatOut {
			winner = s
			break
		}
	}
	if winner == nil {
		return nil, wrapErr(KindSettlementFailure, "no non-folded seat at walkover settlement", nil)
	}

	var total int64
	deltas := make(map[uint16]int64, len(g.seatsByChair))
	for chair, s := range g.seatsByChair {
		if s.handContribution <= 0 {
			continue
		}
		total += s.handContribution
		deltas[chair] -= s.handContribution
	}
	deltas[winner.Chair] += total

	if err := g.ledger.SettleHand(deltas); err != nil {
		return nil, err
	}

	return &SettlementResult{
		Results: []SeatResult{{Seat: winner.Chair, Won: total}},
		Winners: []WinnerEntry{{Seat: winner.Chair, Amount: total}},
	}, nil
}

// orderClockwiseFromButton sorts tied winners so the odd remainder chip
// (awarded to index 0 by the caller) lands on the first winner clockwise
// from the button's left, per spec §4.7 step 3 and scenario E.
func orderClockwiseFromButton(winners []uint16, buttonChair uint16, maxPlayers int) []uint16 {
	if len(winners) <= 1 {
		return winners
	}
	out := append([]uint16(nil), winners...)
	sort.Slice(out, func(i, j int) bool {
		di := distanceClockwise(buttonChair, out[i], maxPlayers)
		dj := distanceClockwise(buttonChair, out[j], maxPlayers)
		return di < dj
	})
	return out
}

func distanceClockwise(from, to uint16, maxPlayers int) int {
	d := int(to) - int(from)
	if d <= 0 {
		d += maxPlayers
	}
	return d
}
