package replay

import (
	"fmt"
	"slices"
	"strings"

	"holdem-engine/card"
	"holdem-engine/holdem"
)

type normalizedSeat struct {
	chair  uint16
	userID uint64
	name   string
	stack  int64
	isHero bool
	hole   []card.Card
}

type normalizedAction struct {
	phase    holdem.Phase
	chair    uint16
	action   holdem.ActionType
	amountTo int64
}

type normalizedSpec struct {
	table       TableSpec
	dealerChair uint16
	seats       []normalizedSeat
	seatByChair map[uint16]normalizedSeat
	heroChair   uint16
	deck        []card.Card
	actions     []normalizedAction
}

// normalizeSpec validates a HandSpec and resolves it into everything
// GenerateReplayTape needs to drive the engine: a seated roster, a
// fully-ordered 52-card deck consistent with any forced hole/board cards,
// and a parsed action list.
func normalizeSpec(spec HandSpec) (normalizedSpec, error) {
	var out normalizedSpec
	out.table = spec.Table
	out.dealerChair = spec.DealerChair

	if err := validateTableAndDealer(spec); err != nil {
		return out, err
	}

	seats, seatByChair, heroChair, err := normalizeSeats(spec.Seats, out.table.MaxPlayers)
	if err != nil {
		return out, err
	}
	out.seats, out.seatByChair, out.heroChair = seats, seatByChair, heroChair

	active := activeSeatChairs(seats)
	if len(active) < 2 {
		return out, &ReplayError{StepIndex: -1, Reason: "not_enough_players", Message: "at least 2 active seats (stack > 0) are required"}
	}
	if !slices.Contains(active, out.heroChair) {
		return out, &ReplayError{StepIndex: -1, Reason: "invalid_hero", Message: "hero seat must be active"}
	}

	board, err := parseBoard(spec.Board)
	if err != nil {
		return out, err
	}
	deck, err := planDeck(active, out.dealerChair, seatByChair, board, spec.Deck, seedFromSpec(spec.RNG))
	if err != nil {
		return out, err
	}
	out.deck = deck

	actions, err := normalizeActions(spec.Actions, seatByChair)
	if err != nil {
		return out, err
	}
	out.actions = actions
	return out, nil
}

func validateTableAndDealer(spec HandSpec) error {
	if spec.Variant != "" && !strings.EqualFold(spec.Variant, "NLH") {
		return &ReplayError{StepIndex: -1, Reason: "invalid_variant", Message: "only NLH is supported"}
	}
	t := spec.Table
	if t.MaxPlayers == 0 {
		return &ReplayError{StepIndex: -1, Reason: "invalid_table", Message: "table.max_players must be > 0"}
	}
	if t.BB <= 0 || t.SB < 0 || t.SB > t.BB {
		return &ReplayError{StepIndex: -1, Reason: "invalid_blinds", Message: "invalid blinds configuration"}
	}
	if int(spec.DealerChair) >= int(t.MaxPlayers) {
		return &ReplayError{StepIndex: -1, Reason: "invalid_dealer", Message: "dealer_chair out of range"}
	}
	if len(spec.Seats) < 2 {
		return &ReplayError{StepIndex: -1, Reason: "invalid_seats", Message: "at least 2 seats are required"}
	}
	return nil
}

// normalizeSeats validates each seat and resolves the hero chair: the
// seat explicitly marked IsHero, or (absent one) the lowest-chaired
// active seat.
func normalizeSeats(specSeats []SeatSpec, maxPlayers uint16) ([]normalizedSeat, map[uint16]normalizedSeat, uint16, error) {
	seats := make([]normalizedSeat, 0, len(specSeats))
	byChair := make(map[uint16]normalizedSeat, len(specSeats))
	var heroChair uint16
	heroCount := 0

	for i, seat := range specSeats {
		if int(seat.Chair) >= int(maxPlayers) {
			return nil, nil, 0, &ReplayError{StepIndex: -1, Reason: "invalid_seat", Message: fmt.Sprintf("seat %d chair out of range", i)}
		}
		if _, exists := byChair[seat.Chair]; exists {
			return nil, nil, 0, &ReplayError{StepIndex: -1, Reason: "duplicate_chair", Message: fmt.Sprintf("duplicate chair %d", seat.Chair)}
		}
		if seat.Stack < 0 {
			return nil, nil, 0, &ReplayError{StepIndex: -1, Reason: "invalid_stack", Message: fmt.Sprintf("seat %d stack must be >= 0", i)}
		}
		hole, err := parseHoleCards(seat.Hole)
		if err != nil {
			return nil, nil, 0, &ReplayError{StepIndex: -1, Reason: "invalid_hole_cards", Message: err.Error()}
		}

		userID := seat.UserID
		if userID == 0 {
			userID = 100000 + uint64(seat.Chair)
		}
		name := strings.TrimSpace(seat.Name)
		if name == "" {
			name = fmt.Sprintf("P%d", seat.Chair)
		}

		ns := normalizedSeat{
			chair: seat.Chair, userID: userID, name: name,
			stack: seat.Stack, isHero: seat.IsHero, hole: hole,
		}
		if ns.isHero {
			heroCount++
			heroChair = ns.chair
		}
		seats = append(seats, ns)
		byChair[ns.chair] = ns
	}

	if heroCount > 1 {
		return nil, nil, 0, &ReplayError{StepIndex: -1, Reason: "invalid_hero", Message: "multiple seats marked as hero"}
	}
	if heroCount == 0 {
		if active := activeSeatChairs(seats); len(active) > 0 {
			heroChair = active[0]
		}
	}
	return seats, byChair, heroChair, nil
}

func normalizeActions(specActions []ActionSpec, seatByChair map[uint16]normalizedSeat) ([]normalizedAction, error) {
	actions := make([]normalizedAction, 0, len(specActions))
	for i, a := range specActions {
		phase, err := parsePhaseName(a.Phase)
		if err != nil {
			return nil, &ReplayError{StepIndex: int32(i), Reason: "invalid_phase", Message: err.Error()}
		}
		action, err := parseActionName(a.Type)
		if err != nil {
			return nil, &ReplayError{StepIndex: int32(i), Reason: "invalid_action", Message: err.Error()}
		}
		if _, ok := seatByChair[a.Chair]; !ok {
			return nil, &ReplayError{StepIndex: int32(i), Reason: "invalid_action_chair", Message: fmt.Sprintf("chair %d not seated", a.Chair)}
		}
		actions = append(actions, normalizedAction{phase: phase, chair: a.Chair, action: action, amountTo: a.AmountTo})
	}
	return actions, nil
}

func parseHoleCards(hole []string) ([]card.Card, error) {
	if len(hole) == 0 {
		return nil, nil
	}
	if len(hole) != 2 {
		return nil, fmt.Errorf("hole cards must contain exactly 2 cards")
	}
	out := make([]card.Card, 2)
	for i := range hole {
		c, err := card.ThdmStrToCard(strings.TrimSpace(hole[i]))
		if err != nil {
			return nil, fmt.Errorf("hole[%d]: %w", i, err)
		}
		out[i] = c
	}
	if out[0] == out[1] {
		return nil, fmt.Errorf("hole cards cannot duplicate")
	}
	return out, nil
}

// parseBoard returns the five board slots (flop x3, turn, river) as a
// fixed array, nil where the spec leaves that card unforced.
func parseBoard(board *BoardSpec) ([5]*card.Card, error) {
	var out [5]*card.Card
	if board == nil {
		return out, nil
	}
	if len(board.Flop) != 0 && len(board.Flop) != 3 {
		return out, &ReplayError{StepIndex: -1, Reason: "invalid_board", Message: "flop must be either empty or 3 cards"}
	}

	type slot struct {
		index int
		label string
		raw   *string
	}
	slots := make([]slot, 0, 5)
	for i := range board.Flop {
		slots = append(slots, slot{index: i, label: fmt.Sprintf("flop[%d]", i), raw: &board.Flop[i]})
	}
	slots = append(slots, slot{index: 3, label: "turn", raw: board.Turn})
	slots = append(slots, slot{index: 4, label: "river", raw: board.River})

	seen := make(map[card.Card]struct{}, 5)
	for _, s := range slots {
		if s.raw == nil {
			continue
		}
		c, err := card.ThdmStrToCard(strings.TrimSpace(*s.raw))
		if err != nil {
			return out, &ReplayError{StepIndex: -1, Reason: "invalid_board_card", Message: fmt.Sprintf("%s: %v", s.label, err)}
		}
		if _, dup := seen[c]; dup {
			return out, &ReplayError{StepIndex: -1, Reason: "duplicate_cards", Message: fmt.Sprintf("duplicate board card at index %d", s.index)}
		}
		seen[c] = struct{}{}
		pinned := c
		out[s.index] = &pinned
	}
	return out, nil
}

func activeSeatChairs(seats []normalizedSeat) []uint16 {
	active := make([]uint16, 0, len(seats))
	for _, seat := range seats {
		if seat.stack > 0 {
			active = append(active, seat.chair)
		}
	}
	slices.Sort(active)
	return active
}

func seedFromSpec(rng *RNGSpec) int64 {
	if rng == nil {
		return 0
	}
	return rng.Seed
}

var phaseByName = map[string]holdem.Phase{
	"PREFLOP": holdem.PhasePreFlop,
	"FLOP":    holdem.PhaseFlop,
	"TURN":    holdem.PhaseTurn,
	"RIVER":   holdem.PhaseRiver,
}

var nameByPhase = map[holdem.Phase]string{
	holdem.PhasePreFlop:  "PREFLOP",
	holdem.PhaseFlop:     "FLOP",
	holdem.PhaseTurn:     "TURN",
	holdem.PhaseRiver:    "RIVER",
	holdem.PhaseShowdown: "SHOWDOWN",
}

func parsePhaseName(raw string) (holdem.Phase, error) {
	phase, ok := phaseByName[strings.ToUpper(strings.TrimSpace(raw))]
	if !ok {
		return 0, fmt.Errorf("unsupported phase %q", raw)
	}
	return phase, nil
}

func phaseName(phase holdem.Phase) string {
	if name, ok := nameByPhase[phase]; ok {
		return name
	}
	return "UNSPECIFIED"
}

var actionByName = map[string]holdem.ActionType{
	"CHECK":  holdem.ActionCheck,
	"BET":    holdem.ActionRaise,
	"RAISE":  holdem.ActionRaise,
	"CALL":   holdem.ActionCall,
	"FOLD":   holdem.ActionFold,
	"ALLIN":  holdem.ActionAllIn,
	"ALL_IN": holdem.ActionAllIn,
}

// parseActionName accepts BET as a synonym for RAISE: the engine has no
// distinct bet-from-zero action, per holdem.ActionType's doc comment.
func parseActionName(raw string) (holdem.ActionType, error) {
	action, ok := actionByName[strings.ToUpper(strings.TrimSpace(raw))]
	if !ok {
		return 0, fmt.Errorf("unsupported action type %q", raw)
	}
	return action, nil
}

func heroHoleCards(snap holdem.GameStateSnapshot, heroChair uint16) []card.Card {
	for _, ss := range snap.Seats {
		if ss.Chair == heroChair {
			return append([]card.Card{}, ss.HoleCards...)
		}
	}
	return nil
}
