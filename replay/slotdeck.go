package replay

import (
	"fmt"
	"math/rand"
	"strings"

	"holdem-engine/card"
)

// dealSlotPlan is the active-seat order holdem.Game.dealHoleCards walks:
// active chairs, seating order, rotated so the small blind acts first
// (heads-up, the dealer chair itself — which posts the small blind per
// the button-posts-SB rule). Knowing that order lets planDeck figure out
// exactly which deck index a forced hole or board card has to land on.
type dealSlotPlan struct {
	order []uint16
}

func newDealSlotPlan(activeChairs []uint16, dealerChair uint16) (dealSlotPlan, error) {
	if len(activeChairs) < 2 {
		return dealSlotPlan{}, &ReplayError{StepIndex: -1, Reason: "not_enough_players", Message: "at least 2 active chairs are required"}
	}
	dealerPos := -1
	for i, c := range activeChairs {
		if c == dealerChair {
			dealerPos = i
			break
		}
	}
	if dealerPos < 0 {
		return dealSlotPlan{}, &ReplayError{StepIndex: -1, Reason: "invalid_dealer", Message: "dealer chair is not active"}
	}

	start := dealerPos
	if len(activeChairs) > 2 {
		start = (dealerPos + 1) % len(activeChairs)
	}
	order := make([]uint16, len(activeChairs))
	for i := range order {
		order[i] = activeChairs[(start+i)%len(activeChairs)]
	}
	return dealSlotPlan{order: order}, nil
}

// holeSlots reports the two deck indices chair's hole cards are dealt
// from (one per dealing round), or ok=false if chair isn't in the order.
func (p dealSlotPlan) holeSlots(chair uint16) (first, second int, ok bool) {
	for i, c := range p.order {
		if c == chair {
			return i, len(p.order) + i, true
		}
	}
	return 0, 0, false
}

// boardSlots reports the five deck indices dealt as community cards
// (flop, flop, flop, turn, river), immediately following two full rounds
// of hole cards.
func (p dealSlotPlan) boardSlots() [5]int {
	base := len(p.order) * 2
	return [5]int{base, base + 1, base + 2, base + 3, base + 4}
}

// reservedDeck accumulates deck-index -> card pins while rejecting a card
// repeated across slots or a slot pinned to two different cards.
type reservedDeck struct {
	bySlot map[int]card.Card
	byCard map[card.Card]struct{}
}

func newReservedDeck(capacity int) *reservedDeck {
	return &reservedDeck{
		bySlot: make(map[int]card.Card, capacity),
		byCard: make(map[card.Card]struct{}, capacity),
	}
}

func (r *reservedDeck) reserve(slot int, c card.Card) error {
	if existing, ok := r.bySlot[slot]; ok && existing != c {
		return &ReplayError{StepIndex: -1, Reason: "duplicate_constraints", Message: fmt.Sprintf("conflicting cards for slot %d", slot)}
	}
	if _, ok := r.byCard[c]; ok {
		return &ReplayError{StepIndex: -1, Reason: "duplicate_cards", Message: fmt.Sprintf("card %s appears multiple times in constraints", c.String())}
	}
	r.bySlot[slot] = c
	r.byCard[c] = struct{}{}
	return nil
}

// planDeck resolves the 52-card order the engine's DeckOverride will deal
// from. Forced hole/board cards are pinned at the exact slots the
// engine's own dealing order would reach them; everything else comes
// either from an explicit deck listing (validated against those pins) or
// a seeded shuffle of whatever's left in the pack.
func planDeck(activeChairs []uint16, dealerChair uint16, seatByChair map[uint16]normalizedSeat, board [5]*card.Card, explicit []string, seed int64) ([]card.Card, error) {
	plan, err := newDealSlotPlan(activeChairs, dealerChair)
	if err != nil {
		return nil, err
	}

	reserved := newReservedDeck(len(activeChairs)*2 + 5)
	for chair, seat := range seatByChair {
		if len(seat.hole) == 0 {
			continue
		}
		first, second, ok := plan.holeSlots(chair)
		if !ok {
			return nil, &ReplayError{StepIndex: -1, Reason: "invalid_hole_cards", Message: fmt.Sprintf("chair %d is not active but has hole constraints", chair)}
		}
		if err := reserved.reserve(first, seat.hole[0]); err != nil {
			return nil, err
		}
		if err := reserved.reserve(second, seat.hole[1]); err != nil {
			return nil, err
		}
	}

	boardSlots := plan.boardSlots()
	for i, pinned := range board {
		if pinned == nil {
			continue
		}
		if err := reserved.reserve(boardSlots[i], *pinned); err != nil {
			return nil, err
		}
	}

	if len(explicit) > 0 {
		return resolveExplicitDeck(explicit, reserved.bySlot)
	}
	return resolveShuffledDeck(reserved.bySlot, seed), nil
}

func resolveExplicitDeck(explicit []string, pins map[int]card.Card) ([]card.Card, error) {
	if len(explicit) != len(card.StandardCards) {
		return nil, &ReplayError{
			StepIndex: -1,
			Reason:    "invalid_deck",
			Message:   fmt.Sprintf("deck must contain %d cards", len(card.StandardCards)),
		}
	}
	out := make([]card.Card, len(explicit))
	seen := make(map[card.Card]struct{}, len(explicit))
	for i, s := range explicit {
		c, err := card.ThdmStrToCard(strings.TrimSpace(s))
		if err != nil {
			return nil, &ReplayError{StepIndex: -1, Reason: "invalid_deck_card", Message: fmt.Sprintf("deck[%d]: %v", i, err)}
		}
		if _, ok := seen[c]; ok {
			return nil, &ReplayError{StepIndex: -1, Reason: "invalid_deck", Message: fmt.Sprintf("duplicate card in deck[%d]", i)}
		}
		seen[c] = struct{}{}
		out[i] = c
	}
	for idx, want := range pins {
		if out[idx] != want {
			return nil, &ReplayError{
				StepIndex: -1,
				Reason:    "deck_constraint_mismatch",
				Message:   fmt.Sprintf("deck[%d] does not match constrained card %s", idx, want.String()),
			}
		}
	}
	return out, nil
}

func resolveShuffledDeck(pins map[int]card.Card, seed int64) []card.Card {
	taken := make(map[card.Card]struct{}, len(pins))
	for _, c := range pins {
		taken[c] = struct{}{}
	}
	pool := make([]card.Card, 0, len(card.StandardCards)-len(pins))
	for _, c := range card.StandardCards {
		if _, ok := taken[c]; !ok {
			pool = append(pool, c)
		}
	}
	if seed != 0 {
		rand.New(rand.NewSource(seed)).Shuffle(len(pool), func(i, j int) {
			pool[i], pool[j] = pool[j], pool[i]
		})
	}

	out := make([]card.Card, len(card.StandardCards))
	next := 0
	for i := range out {
		if c, ok := pins[i]; ok {
			out[i] = c
			continue
		}
		out[i] = pool[next]
		next++
	}
	return out
}
