package holdem

import (
	"sort"

	"holdem-engine/card"
)

// EvalResult is one seat's evaluated hand: a totally-ordered Score plus the
// category and kickers that produced it, per spec §4.3. Score is pure and
// comparable: strength(A) > strength(B) iff A beats B at showdown.
type EvalResult struct {
	Score     uint32
	Category  HandCategory
	BestFive  [5]card.Card
	BestIndex [5]int // indices of BestFive within the 7-card input
	Kickers   []int  // significant ranks, high to low, 2..14 (A=14)
}

// kickerBase must exceed the highest possible rank value (14) so kickers
// can be packed into a single base-N number without collision.
const kickerBase = 15

// EvalBestOf7 picks the best 5-card hand out of 7 cards by trying every
// C(7,5)=21 combination and keeping the highest score. Pure function: no
// I/O, no mutation, and bounded to a small fixed number of 5-card
// evaluations regardless of input (spec §4.3).
func EvalBestOf7(cards []card.Card) *EvalResult {
	if len(cards) != 7 {
		return nil
	}

	var best *EvalResult
	var idx [5]int
	for a := 0; a < 3; a++ {
		for b := a + 1; b < 4; b++ {
			for c := b + 1; c < 5; c++ {
				for d := c + 1; d < 6; d++ {
					for e := d + 1; e < 7; e++ {
						idx[0], idx[1], idx[2], idx[3], idx[4] = a, b, c, d, e
						res := eval5(cards[a], cards[b], cards[c], cards[d], cards[e])
						res.BestIndex = idx
						res.BestFive = [5]card.Card{cards[a], cards[b], cards[c], cards[d], cards[e]}
						if best == nil || res.Score > best.Score {
							r := res
							best = &r
						}
					}
				}
			}
		}
	}
	return best
}

// eval5 scores exactly five cards. Aces play high (14) except inside the
// 5-4-3-2-A wheel straight, where the ace plays as a 1 beneath the 2.
func eval5(cs ...card.Card) EvalResult {
	ranks := make([]int, 5)
	suits := make([]card.Suit, 5)
	counts := map[int]int{}
	for i, c := range cs {
		r := c.HandRealVal() // A=14, else face value
		ranks[i] = r
		suits[i] = c.Suit()
		counts[r]++
	}

	flush := true
	for _, s := range suits {
		if s != suits[0] {
			flush = false
			break
		}
	}

	straightHigh, isStraight := detectStraight(ranks)

	// Group ranks by multiplicity, each group sorted rank-descending.
	type group struct {
		rank  int
		count int
	}
	groups := make([]group, 0, len(counts))
	for r, n := range counts {
		groups = append(groups, group{rank: r, count: n})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].count != groups[j].count {
			return groups[i].count > groups[j].count
		}
		return groups[i].rank > groups[j].rank
	})

	switch {
	case isStraight && flush:
		return EvalResult{Score: encodeScore(HandStraightFlush, []int{straightHigh}), Category: HandStraightFlush, Kickers: []int{straightHigh}}
	case groups[0].count == 4:
		kickers := []int{groups[0].rank, groups[1].rank}
		return EvalResult{Score: encodeScore(HandFourOfKind, kickers), Category: HandFourOfKind, Kickers: kickers}
	case groups[0].count == 3 && len(groups) > 1 && groups[1].count >= 2:
		kickers := []int{groups[0].rank, groups[1].rank}
		return EvalResult{Score: encodeScore(HandFullHouse, kickers), Category: HandFullHouse, Kickers: kickers}
	case flush:
		kickers := descendingRanks(ranks)
		return EvalResult{Score: encodeScore(HandFlush, kickers), Category: HandFlush, Kickers: kickers}
	case isStraight:
		return EvalResult{Score: encodeScore(HandStraight, []int{straightHigh}), Category: HandStraight, Kickers: []int{straightHigh}}
	case groups[0].count == 3:
		kickers := []int{groups[0].rank, groups[1].rank, groups[2].rank}
		return EvalResult{Score: encodeScore(HandThreeOfKind, kickers), Category: HandThreeOfKind, Kickers: kickers}
	case groups[0].count == 2 && groups[1].count == 2:
		hi, lo := groups[0].rank, groups[1].rank
		if lo > hi {
			hi, lo = lo, hi
		}
		kickers := []int{hi, lo, groups[2].rank}
		return EvalResult{Score: encodeScore(HandTwoPair, kickers), Category: HandTwoPair, Kickers: kickers}
	case groups[0].count == 2:
		kickers := []int{groups[0].rank, groups[1].rank, groups[2].rank, groups[3].rank}
		return EvalResult{Score: encodeScore(HandOnePair, kickers), Category: HandOnePair, Kickers: kickers}
	default:
		kickers := descendingRanks(ranks)
		return EvalResult{Score: encodeScore(HandHighCard, kickers), Category: HandHighCard, Kickers: kickers}
	}
}

func descendingRanks(ranks []int) []int {
	out := append([]int(nil), ranks...)
	sort.Sort(sort.Reverse(sort.IntSlice(out)))
	return out
}

// detectStraight reports the high card of a straight among the five ranks,
// if any. The wheel (A-2-3-4-5) is recognized and reports a high of 5, so it
// correctly loses to every other straight (spec §4.1, §4.3).
func detectStraight(ranks []int) (high int, ok bool) {
	seen := map[int]bool{}
	for _, r := range ranks {
		seen[r] = true
	}
	if len(seen) != 5 {
		return 0, false
	}
	sorted := make([]int, 0, 5)
	for r := range seen {
		sorted = append(sorted, r)
	}
	sort.Ints(sorted)

	if sorted[4]-sorted[0] == 4 {
		return sorted[4], true
	}
	// Wheel: A,2,3,4,5 -> ranks {14,2,3,4,5}
	if sorted[0] == 2 && sorted[1] == 3 && sorted[2] == 4 && sorted[3] == 5 && sorted[4] == 14 {
		return 5, true
	}
	return 0, false
}

// encodeScore packs a category and up to five significant kickers into a
// single base-kickerBase integer so that comparing scores numerically is
// equivalent to comparing (category, kickers...) lexicographically.
func encodeScore(cat HandCategory, kickers []int) uint32 {
	score := uint32(cat)
	for i := 0; i < 5; i++ {
		score *= kickerBase
		if i < len(kickers) {
			score += uint32(kickers[i])
		}
	}
	return score
}
