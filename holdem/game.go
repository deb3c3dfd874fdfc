package holdem

import (
	"fmt"
	"math/rand"
	"sync"

	"holdem-engine/card"

	"google.golang.org/protobuf/types/known/timestamppb"
)

// Game is the aggregate mutable root for one table (spec §3's GameContext):
// game id, phase, seats, a reference to the ledger, community cards, the
// current round's high bet, blind amounts, positional markers, the active
// seat, and the append-only event log. A Game is single-threaded per spec
// §5: a host running multiple tables uses one Game per table.
type Game struct {
	id  GameID
	cfg Config
	rng *rand.Rand

	mu sync.Mutex

	ledger *ChipLedger

	seatsByChair map[uint16]*Seat
	chairNodes   map[uint16]*SeatNode

	handIndex      uint64
	phase          Phase
	communityCards card.CardList
	deck           *card.Deck

	dealerNode     *SeatNode
	smallBlindNode *SeatNode
	bigBlindNode   *SeatNode
	curNode        *SeatNode

	activeCount int // seats dealt into this hand that are not folded/out
	allInCount  int // among those, how many are ALL_IN

	minRaiseDelta int64
	currentRaiser uint16
	currentBet    int64
	lastAction    ActionType

	noShowdown bool
	ended      bool

	events         []Event
	lastSettlement *SettlementResult
}

// NewGame constructs an empty table from cfg. Seats are added afterward via
// SitDown; StartHand refuses to run until enough seats hold chips.
func NewGame(id GameID, cfg Config) (*Game, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	g := &Game{
		id:            id,
		cfg:           cfg,
		rng:           rand.New(rand.NewSource(cfg.Seed)),
		ledger:        NewChipLedger(nil, cfg.logger()),
		seatsByChair:  make(map[uint16]*Seat, cfg.MaxPlayers),
		chairNodes:    make(map[uint16]*SeatNode, cfg.MaxPlayers),
		phase:         PhaseInit,
		currentRaiser: InvalidChair,
	}
	return g, nil
}

func (g *Game) ID() GameID { return g.id }

// SitDown seats a player with a buy-in stack, registering it with the
// ledger (spec §3: "added once at table init", generalized to "added once
// before it ever plays").
func (g *Game) SitDown(chair uint16, userID uint64, stack int64, robot bool) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if int(chair) >= g.cfg.MaxPlayers {
		return wrapErr(KindInvalidArgument, fmt.Sprintf("chair %d out of range", chair), nil)
	}
	if stack < 0 {
		return wrapErr(KindInvalidArgument, "stack must be >= 0", nil)
	}
	if g.seatsByChair[chair] != nil {
		return wrapErr(KindInvalidArgument, fmt.Sprintf("chair %d already occupied", chair), nil)
	}
	g.seatsByChair[chair] = &Seat{Chair: chair, UserID: userID, Robot: robot, status: SeatActive}
	g.ledger.AddSeat(chair, stack)
	return nil
}

// StandUp removes a seat between hands. It refuses to run mid-hand, since
// seat membership is fixed for the duration of a hand (spec §9).
func (g *Game) StandUp(chair uint16) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.seatsByChair[chair] == nil {
		return wrapErr(KindInvalidArgument, fmt.Sprintf("chair %d is empty", chair), nil)
	}
	if g.phase != PhaseInit && g.phase != PhaseFinished {
		return ErrHandInProgress
	}

	g.ledger.RemoveSeat(chair)
	delete(g.seatsByChair, chair)
	delete(g.chairNodes, chair)
	return nil
}

func (g *Game) Seat(chair uint16) *Seat {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.seatsByChair[chair]
}

// StartHand begins the next hand: rotates the button, posts blinds/ante,
// deals hole cards, and sets the active seat to first-to-act preflop (spec
// §6's start_hand). It refuses to run with fewer than MinPlayers seats
// holding chips (scenario F).
func (g *Game) StartHand() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.phase != PhaseInit && g.phase != PhaseFinished {
		return ErrHandInProgress
	}

	active := make([]*Seat, 0, len(g.seatsByChair))
	for chair := uint16(0); int(chair) < g.cfg.MaxPlayers; chair++ {
		s := g.seatsByChair[chair]
		if s == nil || s.status == SeatOut || g.ledger.Balance(chair) <= 0 {
			continue
		}
		s.resetForNewHand()
		active = append(active, s)
	}
	if len(active) < g.cfg.MinPlayers {
		return ErrNotEnoughSeated
	}

	g.handIndex++
	g.ended = false
	g.noShowdown = false
	g.lastSettlement = nil
	g.communityCards = nil

	g.chairNodes = make(map[uint16]*SeatNode, len(active))
	var first, last *SeatNode
	for chair := uint16(0); int(chair) < g.cfg.MaxPlayers; chair++ {
		s := g.seatsByChair[chair]
		if s == nil || s.status == SeatOut || g.ledger.Balance(chair) <= 0 {
			continue
		}
		node := &SeatNode{Seat: s, Chair: chair}
		g.chairNodes[chair] = node
		if first == nil {
			first = node
		}
		if last != nil {
			last.Next = node
		}
		last = node
	}
	if first != nil && last != nil {
		last.Next = first
	}

	g.activeCount = len(active)
	g.allInCount = 0
	g.currentBet = 0
	g.minRaiseDelta = 0
	g.currentRaiser = InvalidChair
	g.lastAction = ActionNone

	if err := g.buildDeck(); err != nil {
		return err
	}
	if err := g.selectDealer(); err != nil {
		return err
	}
	g.selectBlindsByDealer()
	g.dealHoleCards()

	g.appendEvent(Event{Kind: EventHandStarted, HandStarted: &HandStartedPayload{
		GameID: g.id, HandIndex: g.handIndex, ButtonSeat: g.dealerNode.Chair,
	}})

	if g.cfg.Ante > 0 {
		g.postAntesLocked()
	}
	g.postBlindsLocked()

	if g.activeCount-g.allInCount <= 1 {
		g.noShowdown = false
		return g.runToShowdownLocked()
	}

	g.curNode = g.bigBlindNode.Next.WalkOnce(func(n *SeatNode) bool { return n.Seat.status == SeatActive })
	g.phase = PhasePreFlop
	return nil
}

func (g *Game) buildDeck() error {
	if len(g.cfg.DeckOverride) > 0 {
		g.deck = card.NewOrderedDeck(g.cfg.DeckOverride)
		return nil
	}
	cards := make([]card.Card, len(card.StandardCards))
	copy(cards, card.StandardCards)
	g.rng.Shuffle(len(cards), func(i, j int) { cards[i], cards[j] = cards[j], cards[i] })
	g.deck = card.NewOrderedDeck(cards)
	return nil
}

func (g *Game) selectDealer() error {
	if g.cfg.ForcedDealerChair != nil {
		node, ok := g.chairNodes[*g.cfg.ForcedDealerChair]
		if !ok {
			return wrapErr(KindInvalidArgument, "forced dealer chair not seated this hand", nil)
		}
		g.dealerNode = node
		return nil
	}

	if g.handIndex == 1 || g.dealerNode == nil {
		chairs := make([]uint16, 0, len(g.chairNodes))
		for c := range g.chairNodes {
			chairs = append(chairs, c)
		}
		// deterministic: pick via rng over a stable-sorted candidate list
		sortUint16(chairs)
		idx := g.rng.Intn(len(chairs))
		g.dealerNode = g.chairNodes[chairs[idx]]
		return nil
	}

	prevChair := g.dealerNode.Chair
	if node, ok := g.chairNodes[prevChair]; ok && node.Next != nil {
		g.dealerNode = node.Next
		return nil
	}
	chairs := make([]uint16, 0, len(g.chairNodes))
	for c := range g.chairNodes {
		chairs = append(chairs, c)
	}
	sortUint16(chairs)
	g.dealerNode = g.chairNodes[chairs[0]]
	return nil
}

// selectBlindsByDealer resolves SB/BB per spec §9's heads-up rule: with
// exactly two seats, the button also posts the small blind.
func (g *Game) selectBlindsByDealer() {
	if len(g.chairNodes) == 2 {
		g.smallBlindNode = g.dealerNode
		g.bigBlindNode = g.dealerNode.Next
	} else {
		g.smallBlindNode = g.dealerNode.Next
		g.bigBlindNode = g.smallBlindNode.Next
	}
}

func (g *Game) dealHoleCards() {
	for i := 0; i < 2; i++ {
		g.smallBlindNode.WalkAll(func(cur *SeatNode) {
			c, err := g.deck.DealOne()
			if err != nil {
				panic("holdem: " + err.Error())
			}
			cur.Seat.addHoleCards(c)
		})
	}
	g.smallBlindNode.WalkAll(func(cur *SeatNode) {
		g.appendEvent(Event{Kind: EventHoleCardsDealt, HoleCardsDealt: &HoleCardsDealtPayload{Seat: cur.Chair}})
	})
}

func (g *Game) postAntesLocked() {
	g.chairNodesInOrder(func(n *SeatNode) {
		amount := g.cfg.Ante
		if bal := g.ledger.Balance(n.Chair); bal < amount {
			amount = bal
		}
		if amount <= 0 {
			return
		}
		g.freezeSeat(n.Seat, amount, "Action: ANTE")
		g.appendEvent(Event{Kind: EventBlindPosted, BlindPosted: &BlindPostedPayload{Seat: n.Chair, Kind: BlindAnte, Amount: amount}})
	})
}

func (g *Game) postBlindsLocked() {
	if g.cfg.SmallBlind > 0 {
		amount := g.cfg.SmallBlind
		if bal := g.ledger.Balance(g.smallBlindNode.Chair); bal < amount {
			amount = bal
		}
		if amount > 0 {
			g.freezeSeat(g.smallBlindNode.Seat, amount, "Action: SMALL_BLIND")
			g.appendEvent(Event{Kind: EventBlindPosted, BlindPosted: &BlindPostedPayload{Seat: g.smallBlindNode.Chair, Kind: BlindSmall, Amount: amount}})
		}
	}

	bbAmount := g.cfg.BigBlind
	if bal := g.ledger.Balance(g.bigBlindNode.Chair); bal < bbAmount {
		bbAmount = bal
	}
	if bbAmount > 0 {
		g.freezeSeat(g.bigBlindNode.Seat, bbAmount, "Action: BIG_BLIND")
		g.appendEvent(Event{Kind: EventBlindPosted, BlindPosted: &BlindPostedPayload{Seat: g.bigBlindNode.Chair, Kind: BlindBig, Amount: bbAmount}})
	}

	g.currentBet = g.cfg.BigBlind
	g.minRaiseDelta = g.cfg.BigBlind
	g.lastAction = ActionRaise
}

// freezeSeat moves amount from the seat's ledger balance into frozen chips
// and updates its round/hand contribution bookkeeping, marking it ALL_IN if
// the freeze exhausts its balance.
func (g *Game) freezeSeat(s *Seat, amount int64, reason string) {
	if amount <= 0 {
		return
	}
	if err := g.ledger.Freeze(s.Chair, amount, reason); err != nil {
		panic("holdem: " + err.Error())
	}
	s.handBet += amount
	s.handContribution += amount
	if g.ledger.Balance(s.Chair) == 0 && s.status == SeatActive {
		s.status = SeatAllIn
		g.allInCount++
	}
}

func (g *Game) chairNodesInOrder(fn func(*SeatNode)) {
	chairs := make([]uint16, 0, len(g.chairNodes))
	for c := range g.chairNodes {
		chairs = append(chairs, c)
	}
	sortUint16(chairs)
	for _, c := range chairs {
		fn(g.chairNodes[c])
	}
}

// Act applies one seat's action per spec §4.4. amount is the seat's
// intended total round contribution for RAISE; it is ignored for every
// other action type.
func (g *Game) Act(chair uint16, action ActionType, amount int64) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.ended || g.phase == PhaseFinished {
		return ErrHandEnded
	}
	if !g.phase.IsBettingPhase() {
		return wrapErr(KindInvalidPhase, "not a betting phase", nil)
	}
	if g.curNode == nil || g.curNode.Chair != chair {
		return ErrOutOfTurn
	}

	seat := g.curNode.Seat
	pa, err := g.permissibleActionsLocked(chair)
	if err != nil {
		return err
	}
	allowed := false
	for _, a := range pa.Actions {
		if a == action {
			allowed = true
			break
		}
	}
	if !allowed {
		return wrapErr(KindIllegalAction, fmt.Sprintf("%s not permitted for seat %d", action, chair), nil)
	}

	switch action {
	case ActionFold:
		seat.status = SeatFolded
		seat.hasActedThisRound = true
		g.activeCount--

	case ActionCheck:
		seat.hasActedThisRound = true

	case ActionCall:
		g.freezeSeat(seat, pa.MinCall, "Action: CALL")
		seat.hasActedThisRound = true

	case ActionRaise:
		if amount < pa.MinRaiseTotal || amount > pa.MaxRaiseTotal {
			return wrapErr(KindIllegalAction, fmt.Sprintf("raise total %d out of range [%d, %d]", amount, pa.MinRaiseTotal, pa.MaxRaiseTotal), nil)
		}
		delta := amount - seat.handBet
		increment := amount - g.currentBet
		g.freezeSeat(seat, delta, "Action: RAISE")
		g.currentBet = amount
		g.minRaiseDelta = increment
		g.currentRaiser = chair
		g.clearActedFlagsExcept(chair)
		seat.hasActedThisRound = true

	case ActionAllIn:
		balance := g.ledger.Balance(chair)
		delta := balance
		g.freezeSeat(seat, delta, "Action: ALL_IN")
		newTotal := seat.handBet
		increment := newTotal - g.currentBet
		if increment > 0 && increment >= g.effectiveMinRaiseDelta() {
			g.currentBet = newTotal
			g.minRaiseDelta = increment
			g.currentRaiser = chair
			g.clearActedFlagsExcept(chair)
		}
		seat.hasActedThisRound = true
	}

	seat.lastAction = action
	lastAmount := seat.handBet
	g.appendEvent(Event{Kind: EventActionApplied, ActionApplied: &ActionAppliedPayload{
		Seat: chair, BetType: action, Amount: lastAmount, ResultingCurrentBet: g.currentBet,
	}})
	if action != ActionFold {
		g.lastAction = action
	}

	if g.activeCount <= 1 {
		g.noShowdown = true
		return g.runToShowdownLocked()
	}

	if !g.roundCompleteLocked() {
		g.curNode = g.curNode.Next.WalkOnce(func(n *SeatNode) bool { return n.Seat.status == SeatActive })
		if g.curNode == nil {
			return wrapErr(KindIllegalAction, "no next actor found but round incomplete", nil)
		}
		return nil
	}

	g.appendEvent(Event{Kind: EventBettingRoundCompleted, BettingRoundCompleted: &BettingRoundCompletedPayload{Street: g.phase}})

	if g.phase == PhaseRiver || g.activeCount-g.allInCount <= 1 {
		return g.runToShowdownLocked()
	}
	return g.advanceStreetLocked()
}

// effectiveMinRaiseDelta is the minimum increment required for a raise to
// reopen action: the last full raise's increment, or the big blind if no
// raise has happened yet this round.
func (g *Game) effectiveMinRaiseDelta() int64 {
	if g.minRaiseDelta > 0 {
		return g.minRaiseDelta
	}
	return g.cfg.BigBlind
}

func (g *Game) clearActedFlagsExcept(chair uint16) {
	for c, s := range g.seatsByChair {
		if c == chair {
			continue
		}
		if s.status == SeatActive {
			s.hasActedThisRound = false
		}
	}
}

// roundCompleteLocked is true iff every non-folded, non-all-in seat has
// acted this round and its contribution matches the current bet (spec
// §4.4's round-completion rule, testable property 5).
func (g *Game) roundCompleteLocked() bool {
	for _, n := range g.chairNodes {
		s := n.Seat
		if s.status != SeatActive {
			continue
		}
		if !s.hasActedThisRound || s.handBet != g.currentBet {
			return false
		}
	}
	return true
}

func (g *Game) advanceStreetLocked() error {
	next, ok := DefinedNextPhase(g.phase, EventBettingRoundComplete)
	if !ok {
		return wrapErr(KindInvalidPhase, "no defined next phase", nil)
	}
	g.phase = next

	var n int
	switch g.phase {
	case PhaseFlop:
		n = 3
	case PhaseTurn, PhaseRiver:
		n = 1
	}
	if n > 0 {
		if g.cfg.BurnCards {
			if err := g.deck.BurnOne(); err != nil {
				return wrapErr(KindDeckExhausted, err.Error(), err)
			}
		}
		cards, err := g.deck.DealN(n)
		if err != nil {
			return wrapErr(KindDeckExhausted, err.Error(), err)
		}
		g.communityCards = append(g.communityCards, cards...)
		g.appendEvent(Event{Kind: EventCommunityDealt, CommunityDealt: &CommunityDealtPayload{Street: g.phase, Cards: append([]card.Card{}, cards...)}})
	}

	for _, s := range g.seatsByChair {
		s.resetForNewRound()
	}
	g.currentBet = 0
	g.minRaiseDelta = 0
	g.currentRaiser = InvalidChair
	g.lastAction = ActionNone

	var first *SeatNode
	if len(g.chairNodes) == 2 {
		first = g.bigBlindNode
	} else {
		first = g.smallBlindNode
	}
	g.curNode = first.WalkOnce(func(n *SeatNode) bool { return n.Seat.status == SeatActive })
	if g.curNode == nil {
		// Nobody left who can act (everyone is all-in): run straight through.
		return g.runToShowdownLocked()
	}
	return nil
}

// runToShowdownLocked deals any remaining community cards, settles the
// hand atomically, and performs FINISHED housekeeping.
func (g *Game) runToShowdownLocked() error {
	g.phase = PhaseShowdown
	need := 5 - len(g.communityCards)
	if need > 0 {
		cards, err := g.deck.DealN(need)
		if err != nil {
			return wrapErr(KindDeckExhausted, err.Error(), err)
		}
		g.communityCards = append(g.communityCards, cards...)
		g.appendEvent(Event{Kind: EventCommunityDealt, CommunityDealt: &CommunityDealtPayload{Street: PhaseShowdown, Cards: append([]card.Card{}, cards...)}})
	}

	settlement, err := g.settleLocked()
	if err != nil {
		return err
	}
	g.lastSettlement = settlement

	g.appendEvent(Event{Kind: EventHandResult, HandResult: &HandResultPayload{Winners: settlement.Winners}})

	return g.finishLocked()
}

// finishLocked performs FINISHED housekeeping (spec §4.5): rotate button
// (handled implicitly by next StartHand via dealerNode), mark zero-balance
// seats OUT, clear hole/community cards and per-hand bets. The event log is
// preserved across hands for replay.
func (g *Game) finishLocked() error {
	g.phase = PhaseFinished
	g.ended = true

	for chair, s := range g.seatsByChair {
		if g.ledger.Balance(chair) <= 0 {
			s.status = SeatOut
		}
		s.holeCards = nil
		s.handBet = 0
		s.handContribution = 0
	}
	g.communityCards = nil

	g.appendEvent(Event{Kind: EventHandFinished, HandFinished: &HandFinishedPayload{HandIndex: g.handIndex}})
	return nil
}

// EndHand finalizes FINISHED housekeeping if a hand somehow reached
// PhaseShowdown/settlement without it (defensive; StartHand's own paths
// always call finishLocked already). Idempotent on an already-FINISHED
// game (testable property 10).
func (g *Game) EndHand() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.phase == PhaseFinished {
		return nil
	}
	if g.phase == PhaseInit {
		return nil
	}
	return g.finishLocked()
}

// appendEvent stamps e with the wall-clock time it was recorded and appends
// it to the hand's log. The timestamp is observational only: nothing in the
// engine's own logic reads it back, so two engines fed the same seed and
// action sequence still reach byte-identical game state (testable property
// 9) even though their event timestamps differ.
func (g *Game) appendEvent(e Event) {
	e.At = timestamppb.Now()
	g.events = append(g.events, e)
}

func sortUint16(s []uint16) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}
