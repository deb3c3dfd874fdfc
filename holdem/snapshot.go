package holdem

import "holdem-engine/card"

// SeatSnapshot is the immutable, value-equal public view of one seat (spec
// §3's GameStateSnapshot). HoleCards is empty whenever redaction hides it.
type SeatSnapshot struct {
	Chair            uint16
	UserID           uint64
	Robot            bool
	Balance          int64
	HandBet          int64
	HandContribution int64
	Status           SeatStatus
	LastAction       ActionType
	HoleCards        []card.Card
}

// GameStateSnapshot is an immutable copy of the public portion of a Game at
// a point in time (spec §3). Its card, seat and event slices are fresh
// copies; LastSettlement and each event's payload pointer are shared with
// the Game, which never mutates them after recording them.
type GameStateSnapshot struct {
	GameID    GameID
	HandIndex uint64
	Phase     Phase
	Ended     bool

	DealerChair     uint16
	SmallBlindChair uint16
	BigBlindChair   uint16
	ActionChair     uint16

	CurrentBet    int64
	MinRaiseDelta int64
	CurrentRaiser uint16

	CommunityCards []card.Card
	Seats          []SeatSnapshot

	LastSettlement *SettlementResult
	Events         []Event
}

// Snapshot returns the full, unredacted state. It is for the engine's own
// internal use (settlement bookkeeping, replay reconstruction) and for
// callers who have already determined they are entitled to every hole
// card — e.g. after HAND_FINISHED. Host-facing per-seat queries should use
// RedactedSnapshot instead (testable property 11).
func (g *Game) Snapshot() GameStateSnapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshotLocked(nil)
}

// RedactedSnapshot returns forSeat's view of the table: forSeat's own hole
// cards are visible, every other seat's are hidden. In SHOWDOWN or FINISHED
// nothing is hidden, but FINISHED housekeeping has already cleared every
// seat's hole cards, so a snapshot of a finished hand carries none.
func (g *Game) RedactedSnapshot(forSeat uint16) GameStateSnapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshotLocked(&forSeat)
}

func (g *Game) snapshotLocked(forSeat *uint16) GameStateSnapshot {
	reveal := g.phase == PhaseShowdown || g.phase == PhaseFinished

	s := GameStateSnapshot{
		GameID:         g.id,
		HandIndex:      g.handIndex,
		Phase:          g.phase,
		Ended:          g.ended,
		CurrentBet:     g.currentBet,
		MinRaiseDelta:  g.minRaiseDelta,
		CurrentRaiser:  g.currentRaiser,
		CommunityCards: append([]card.Card{}, g.communityCards...),
		DealerChair:    InvalidChair,
		SmallBlindChair: InvalidChair,
		BigBlindChair:  InvalidChair,
		ActionChair:    InvalidChair,
	}
	if g.dealerNode != nil {
		s.DealerChair = g.dealerNode.Chair
	}
	if g.smallBlindNode != nil {
		s.SmallBlindChair = g.smallBlindNode.Chair
	}
	if g.bigBlindNode != nil {
		s.BigBlindChair = g.bigBlindNode.Chair
	}
	if g.curNode != nil {
		s.ActionChair = g.curNode.Chair
	}
	if g.lastSettlement != nil {
		s.LastSettlement = g.lastSettlement
	}

	for chair := uint16(0); int(chair) < g.cfg.MaxPlayers; chair++ {
		seat := g.seatsByChair[chair]
		if seat == nil {
			continue
		}
		ss := SeatSnapshot{
			Chair:            seat.Chair,
			UserID:           seat.UserID,
			Robot:            seat.Robot,
			Balance:          g.ledger.Balance(chair),
			HandBet:          seat.handBet,
			HandContribution: seat.handContribution,
			Status:           seat.status,
			LastAction:       seat.lastAction,
		}
		visible := reveal || forSeat == nil || *forSeat == chair
		if visible {
			ss.HoleCards = append([]card.Card{}, seat.holeCards...)
		}
		s.Seats = append(s.Seats, ss)
	}

	s.Events = append([]Event{}, g.events...)
	return s
}
