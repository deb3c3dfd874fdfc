package holdem

import "testing"

func headsUpAcesVsKingsConfig(t *testing.T) Config {
	t.Helper()
	dealer := uint16(0)
	deck := buildForcedDeck(t, "Ah", "Kh", "Ad", "Kd", "2c", "3c", "4c", "9s", "9h")
	return Config{
		MaxPlayers:        2,
		MinPlayers:        2,
		SmallBlind:        50,
		BigBlind:          100,
		Seed:              1,
		ForcedDealerChair: &dealer,
		DeckOverride:      deck,
	}
}

// playHeadsUpToRiverCheck drives the hand to the moment right before the
// river's closing action, leaving the Game mid-river so a caller can
// inspect redaction or make the final move itself.
func playHeadsUpToRiverCheck(t *testing.T, g *Game) {
	t.Helper()
	mustAct(t, g, 0, ActionCall, 0)  // dealer calls preflop
	mustAct(t, g, 1, ActionCheck, 0) // bb checks, preflop round closes

	mustAct(t, g, 1, ActionCheck, 0) // flop
	mustAct(t, g, 0, ActionCheck, 0)

	mustAct(t, g, 1, ActionCheck, 0) // turn
	mustAct(t, g, 0, ActionCheck, 0)

	mustAct(t, g, 1, ActionCheck, 0) // river, bb acts first
}

func TestGame_FullHandShowdown_DealerTwoPairBeatsBBTwoPair(t *testing.T) {
	g, err := NewGame(NewGameID(), headsUpAcesVsKingsConfig(t))
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	mustSitDown(t, g, 0, 100, 1000)
	mustSitDown(t, g, 1, 101, 1000)
	if err := g.StartHand(); err != nil {
		t.Fatalf("StartHand: %v", err)
	}

	playHeadsUpToRiverCheck(t, g)
	mustAct(t, g, 0, ActionCheck, 0) // dealer closes the river

	snap := g.Snapshot()
	if snap.Phase != PhaseFinished {
		t.Fatalf("expected FINISHED, got %s", snap.Phase)
	}
	if snap.LastSettlement == nil {
		t.Fatal("expected a settlement result")
	}
	if len(snap.LastSettlement.Winners) != 1 || snap.LastSettlement.Winners[0].Seat != 0 {
		t.Fatalf("expected seat 0 as sole winner, got %+v", snap.LastSettlement.Winners)
	}
	if snap.LastSettlement.Winners[0].Amount != 200 {
		t.Fatalf("expected winner amount 200, got %d", snap.LastSettlement.Winners[0].Amount)
	}

	for _, s := range snap.Seats {
		switch s.Chair {
		case 0:
			if s.Balance != 1100 {
				t.Fatalf("expected dealer balance 1100, got %d", s.Balance)
			}
		case 1:
			if s.Balance != 900 {
				t.Fatalf("expected bb balance 900, got %d", s.Balance)
			}
		}
	}
}

func TestGame_RedactedSnapshot_HidesOpponentHoleCardsMidHand(t *testing.T) {
	g, err := NewGame(NewGameID(), headsUpAcesVsKingsConfig(t))
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	mustSitDown(t, g, 0, 100, 1000)
	mustSitDown(t, g, 1, 101, 1000)
	if err := g.StartHand(); err != nil {
		t.Fatalf("StartHand: %v", err)
	}
	playHeadsUpToRiverCheck(t, g)

	asDealer := g.RedactedSnapshot(0)
	asBB := g.RedactedSnapshot(1)

	for _, s := range asDealer.Seats {
		switch s.Chair {
		case 0:
			if len(s.HoleCards) != 2 {
				t.Fatalf("dealer should see its own hole cards, got %d", len(s.HoleCards))
			}
		case 1:
			if len(s.HoleCards) != 0 {
				t.Fatalf("dealer should not see bb's hole cards, got %d", len(s.HoleCards))
			}
		}
	}
	for _, s := range asBB.Seats {
		switch s.Chair {
		case 1:
			if len(s.HoleCards) != 2 {
				t.Fatalf("bb should see its own hole cards, got %d", len(s.HoleCards))
			}
		case 0:
			if len(s.HoleCards) != 0 {
				t.Fatalf("bb should not see dealer's hole cards, got %d", len(s.HoleCards))
			}
		}
	}

	// Finish the hand so the Game is left in FINISHED rather than mid-river.
	mustAct(t, g, 0, ActionCheck, 0)
}

func TestGame_IsDeterministicGivenSameSeedAndActions(t *testing.T) {
	run := func() GameStateSnapshot {
		g, err := NewGame(NewGameID(), headsUpAcesVsKingsConfig(t))
		if err != nil {
			t.Fatalf("NewGame: %v", err)
		}
		mustSitDown(t, g, 0, 100, 1000)
		mustSitDown(t, g, 1, 101, 1000)
		if err := g.StartHand(); err != nil {
			t.Fatalf("StartHand: %v", err)
		}
		playHeadsUpToRiverCheck(t, g)
		mustAct(t, g, 0, ActionCheck, 0)
		return g.Snapshot()
	}

	a := run()
	b := run()

	if len(a.CommunityCards) != len(b.CommunityCards) {
		t.Fatalf("community card count differs: %d vs %d", len(a.CommunityCards), len(b.CommunityCards))
	}
	for i := range a.CommunityCards {
		if a.CommunityCards[i] != b.CommunityCards[i] {
			t.Fatalf("community card %d differs: %v vs %v", i, a.CommunityCards[i], b.CommunityCards[i])
		}
	}
	if len(a.LastSettlement.Winners) != len(b.LastSettlement.Winners) {
		t.Fatalf("winner count differs between runs")
	}
	for i := range a.LastSettlement.Winners {
		if a.LastSettlement.Winners[i] != b.LastSettlement.Winners[i] {
			t.Fatalf("winner entry %d differs: %+v vs %+v", i, a.LastSettlement.Winners[i], b.LastSettlement.Winners[i])
		}
	}
	for i := range a.Seats {
		if a.Seats[i].Balance != b.Seats[i].Balance {
			t.Fatalf("seat %d balance differs between runs: %d vs %d", i, a.Seats[i].Balance, b.Seats[i].Balance)
		}
	}
}

func TestGame_EndHand_IsIdempotent(t *testing.T) {
	g, err := NewGame(NewGameID(), headsUpAcesVsKingsConfig(t))
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	mustSitDown(t, g, 0, 100, 1000)
	mustSitDown(t, g, 1, 101, 1000)
	if err := g.StartHand(); err != nil {
		t.Fatalf("StartHand: %v", err)
	}
	playHeadsUpToRiverCheck(t, g)
	mustAct(t, g, 0, ActionCheck, 0)

	if g.Snapshot().Phase != PhaseFinished {
		t.Fatal("expected hand to already be finished")
	}
	if err := g.EndHand(); err != nil {
		t.Fatalf("EndHand on already-finished hand: %v", err)
	}
	if err := g.EndHand(); err != nil {
		t.Fatalf("second EndHand call: %v", err)
	}
}

func TestGame_Walkover_SingleNonFoldedSeatTakesPotWithoutShowdown(t *testing.T) {
	dealer := uint16(0)
	cfg := Config{
		MaxPlayers:        3,
		MinPlayers:        2,
		SmallBlind:        50,
		BigBlind:          100,
		Seed:              7,
		ForcedDealerChair: &dealer,
	}
	g, err := NewGame(NewGameID(), cfg)
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	mustSitDown(t, g, 0, 100, 1000)
	mustSitDown(t, g, 1, 101, 1000)
	mustSitDown(t, g, 2, 102, 1000)
	if err := g.StartHand(); err != nil {
		t.Fatalf("StartHand: %v", err)
	}

	snap := g.Snapshot()
	first := snap.ActionChair
	mustAct(t, g, first, ActionFold, 0)
	snap = g.Snapshot()
	if snap.Phase == PhaseFinished {
		t.Fatal("hand should not be over after only one fold with 3 seats")
	}
	mustAct(t, g, snap.ActionChair, ActionFold, 0)

	final := g.Snapshot()
	if final.Phase != PhaseFinished {
		t.Fatalf("expected FINISHED after two folds leave one seat, got %s", final.Phase)
	}
	if len(final.LastSettlement.Winners) != 1 {
		t.Fatalf("expected exactly one winner in a walkover, got %+v", final.LastSettlement.Winners)
	}
	if final.LastSettlement.Winners[0].Category != 0 {
		t.Fatalf("walkover winner should not carry an evaluated category, got %s", final.LastSettlement.Winners[0].Category)
	}

	var totalBalance int64
	for _, s := range final.Seats {
		totalBalance += s.Balance
	}
	if totalBalance != 3000 {
		t.Fatalf("chip conservation violated: total balance %d, want 3000", totalBalance)
	}
}

func TestGame_StartHand_RefusesWithTooFewSeatedPlayers(t *testing.T) {
	cfg := Config{MaxPlayers: 6, MinPlayers: 2, SmallBlind: 50, BigBlind: 100, Seed: 1}
	g, err := NewGame(NewGameID(), cfg)
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	mustSitDown(t, g, 0, 100, 1000)

	if err := g.StartHand(); err != ErrNotEnoughSeated {
		t.Fatalf("expected ErrNotEnoughSeated, got %v", err)
	}
}

func TestGame_ShortAllIn_BelowMinRaiseDoesNotReopenTheRound(t *testing.T) {
	dealer := uint16(0)
	cfg := Config{
		MaxPlayers:        3,
		MinPlayers:        2,
		SmallBlind:        50,
		BigBlind:          100,
		Seed:              3,
		ForcedDealerChair: &dealer,
	}
	g, err := NewGame(NewGameID(), cfg)
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	mustSitDown(t, g, 0, 100, 1000) // dealer
	mustSitDown(t, g, 1, 101, 130)  // sb, short-stacked
	mustSitDown(t, g, 2, 102, 1000) // bb
	if err := g.StartHand(); err != nil {
		t.Fatalf("StartHand: %v", err)
	}

	// Preflop order in 3-handed play starts at the dealer (button).
	mustAct(t, g, 0, ActionCall, 0)  // dealer calls to 100
	mustAct(t, g, 1, ActionAllIn, 0) // sb shoves its last 80, only 30 over the 100 bet

	if g.currentBet != 100 {
		t.Fatalf("a short all-in raise must not move currentBet, got %d", g.currentBet)
	}
	if g.minRaiseDelta != 100 {
		t.Fatalf("a short all-in raise must not move minRaiseDelta, got %d", g.minRaiseDelta)
	}
	if g.currentRaiser != InvalidChair {
		t.Fatalf("a short all-in raise must not claim currentRaiser, got %d", g.currentRaiser)
	}
	// Once bb checks, the round must close straight onto the flop: the dealer
	// already matched 100 and had acted, and sb's short shove cannot force it
	// to act again.
	mustAct(t, g, 2, ActionCheck, 0)
	if g.phase != PhaseFlop {
		t.Fatalf("expected the round to close onto the flop, got %s", g.phase)
	}
}

func TestGame_FullAllIn_AtOrAboveMinRaiseReopensTheRound(t *testing.T) {
	dealer := uint16(0)
	cfg := Config{
		MaxPlayers:        3,
		MinPlayers:        2,
		SmallBlind:        50,
		BigBlind:          100,
		Seed:              5,
		ForcedDealerChair: &dealer,
	}
	g, err := NewGame(NewGameID(), cfg)
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	mustSitDown(t, g, 0, 100, 1000) // dealer
	mustSitDown(t, g, 1, 101, 1000) // sb
	mustSitDown(t, g, 2, 102, 500)  // bb
	if err := g.StartHand(); err != nil {
		t.Fatalf("StartHand: %v", err)
	}

	mustAct(t, g, 0, ActionCall, 0)  // dealer calls to 100
	mustAct(t, g, 1, ActionCall, 0)  // sb calls to 100
	mustAct(t, g, 2, ActionAllIn, 0) // bb shoves all 500, well above the 100 minimum raise

	if g.currentBet != 500 {
		t.Fatalf("a full all-in raise must move currentBet to the shove total, got %d", g.currentBet)
	}
	if g.currentRaiser != 2 {
		t.Fatalf("expected seat 2 to become currentRaiser, got %d", g.currentRaiser)
	}
	// Dealer and sb must be made to act again.
	if g.phase == PhaseFlop {
		t.Fatal("a full raise must reopen the round rather than closing it")
	}
}
