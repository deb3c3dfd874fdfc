package holdem

// This file is the Rules Query Service (spec §4.8): pure functions over a
// Game that never mutate it and never consult hidden information. It is
// kept as its own module rather than folded into Game's methods, mirroring
// how the original core keeps phase/transition lookup as a standalone
// service distinct from the state-machine handlers themselves.

// TransitionEvent drives the phase transition table (spec §4.5).
type TransitionEvent byte

const (
	EventHandStart TransitionEvent = iota
	EventBettingRoundComplete
	EventHandAutoFinish
	EventShowdownComplete
)

// nextPhaseTable is the direct lookup from spec §4.5's transition table.
var nextPhaseTable = map[Phase]map[TransitionEvent]Phase{
	PhaseInit: {
		EventHandStart: PhasePreFlop,
	},
	PhasePreFlop: {
		EventBettingRoundComplete: PhaseFlop,
		EventHandAutoFinish:       PhaseFinished,
	},
	PhaseFlop: {
		EventBettingRoundComplete: PhaseTurn,
		EventHandAutoFinish:       PhaseFinished,
	},
	PhaseTurn: {
		EventBettingRoundComplete: PhaseRiver,
		EventHandAutoFinish:       PhaseFinished,
	},
	PhaseRiver: {
		EventBettingRoundComplete: PhaseShowdown,
		EventHandAutoFinish:       PhaseFinished,
	},
	PhaseShowdown: {
		EventShowdownComplete: PhaseFinished,
	},
	PhaseFinished: {
		EventHandStart: PhasePreFlop,
	},
}

// DefinedNextPhase is a direct lookup against the transition table; it
// returns ok=false if the event has no defined transition from phase.
func DefinedNextPhase(phase Phase, event TransitionEvent) (next Phase, ok bool) {
	events, ok := nextPhaseTable[phase]
	if !ok {
		return PhaseInit, false
	}
	next, ok = events[event]
	return next, ok
}

// PossibleNextPhases returns every phase reachable from the current one
// given the Game's live state, not merely the static table: with one or
// zero non-folded seats remaining, FINISHED is the only reachable phase
// regardless of street (spec §4.8).
func PossibleNextPhases(g *Game) []Phase {
	if g.activeCount <= 1 {
		return []Phase{PhaseFinished}
	}
	events, ok := nextPhaseTable[g.phase]
	if !ok {
		return nil
	}
	seen := make(map[Phase]bool, len(events))
	out := make([]Phase, 0, len(events))
	for _, p := range events {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}

// PermissibleActions is the permissible-actions query from spec §4.4,
// exposed standalone so a host (or a bot) can call it without a reference
// to any other package internals beyond *Game and uint16.
type PermissibleActions struct {
	Actions        []ActionType
	MinCall        int64
	MinRaiseTotal  int64
	MaxRaiseTotal  int64
	AllInAvailable bool
}

// PermissibleActionsFor computes the permissible actions for seat in g's
// current state. It never mutates g.
func PermissibleActionsFor(g *Game, chair uint16) (PermissibleActions, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.permissibleActionsLocked(chair)
}

func (g *Game) permissibleActionsLocked(chair uint16) (PermissibleActions, error) {
	seat := g.seatsByChair[chair]
	if seat == nil {
		return PermissibleActions{}, ErrUnknownSeat
	}
	var pa PermissibleActions
	if seat.status != SeatActive {
		return pa, nil
	}
	if !g.phase.IsBettingPhase() {
		// Outside a betting phase an active seat still has the standing
		// option to fold, per the seat's own contract with the hand.
		pa.Actions = append(pa.Actions, ActionFold)
		return pa, nil
	}

	balance := g.ledger.Balance(chair)
	pa.Actions = append(pa.Actions, ActionFold)

	toCall := g.currentBet - seat.handBet
	switch {
	case toCall <= 0:
		pa.Actions = append(pa.Actions, ActionCheck)
	case balance >= toCall:
		pa.Actions = append(pa.Actions, ActionCall)
		pa.MinCall = toCall
	}

	if balance > 0 {
		pa.Actions = append(pa.Actions, ActionAllIn)
		pa.AllInAvailable = true
	}

	minRaiseTotal := g.currentBet + g.effectiveMinRaiseDelta()
	maxRaiseTotal := seat.handBet + balance
	reopen := g.currentRaiser != chair
	if reopen && maxRaiseTotal >= minRaiseTotal && g.activeCount-g.allInCount > 1 {
		pa.MinRaiseTotal = minRaiseTotal
		pa.MaxRaiseTotal = maxRaiseTotal
		pa.Actions = append(pa.Actions, ActionRaise)
	}

	return pa, nil
}
