package holdem

import "testing"

func TestDefinedNextPhase_FollowsTheStaticTable(t *testing.T) {
	next, ok := DefinedNextPhase(PhaseFlop, EventBettingRoundComplete)
	if !ok || next != PhaseTurn {
		t.Fatalf("expected flop -> turn, got %s (ok=%v)", next, ok)
	}
	if _, ok := DefinedNextPhase(PhaseShowdown, EventBettingRoundComplete); ok {
		t.Fatal("showdown has no defined transition for a betting-round-complete event")
	}
}

func TestPossibleNextPhases_CollapsesToFinishedWithOneActiveSeat(t *testing.T) {
	g, err := NewGame(NewGameID(), Config{MaxPlayers: 3, MinPlayers: 2, SmallBlind: 50, BigBlind: 100, Seed: 1})
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	mustSitDown(t, g, 0, 1, 1000)
	mustSitDown(t, g, 1, 2, 1000)
	mustSitDown(t, g, 2, 3, 1000)
	if err := g.StartHand(); err != nil {
		t.Fatalf("StartHand: %v", err)
	}
	g.activeCount = 1
	phases := PossibleNextPhases(g)
	if len(phases) != 1 || phases[0] != PhaseFinished {
		t.Fatalf("expected only FINISHED once activeCount<=1, got %v", phases)
	}
}

func TestPermissibleActionsFor_OpeningPreflopOptionsFacingBigBlind(t *testing.T) {
	g, err := NewGame(NewGameID(), Config{MaxPlayers: 2, MinPlayers: 2, SmallBlind: 50, BigBlind: 100, Seed: 1})
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	mustSitDown(t, g, 0, 1, 1000)
	mustSitDown(t, g, 1, 2, 1000)
	if err := g.StartHand(); err != nil {
		t.Fatalf("StartHand: %v", err)
	}

	snap := g.Snapshot()
	pa, err := PermissibleActionsFor(g, snap.ActionChair)
	if err != nil {
		t.Fatalf("PermissibleActionsFor: %v", err)
	}
	if !containsActionType(pa.Actions, ActionFold) {
		t.Fatal("fold must always be available to the acting seat")
	}
	if !containsActionType(pa.Actions, ActionCall) {
		t.Fatal("the seat facing the big blind must be offered call")
	}
	if containsActionType(pa.Actions, ActionCheck) {
		t.Fatal("check must not be offered while a bet is outstanding")
	}
	if !containsActionType(pa.Actions, ActionRaise) {
		t.Fatal("raise must be offered when the acting seat has enough chips to reopen")
	}
	if pa.MinRaiseTotal != 200 {
		t.Fatalf("expected min raise total of 200 (100 bet + 100 bb increment), got %d", pa.MinRaiseTotal)
	}
}

func TestPermissibleActionsFor_ActiveSeatOutsideBettingPhaseOnlyHasFold(t *testing.T) {
	g, err := NewGame(NewGameID(), Config{MaxPlayers: 2, MinPlayers: 2, SmallBlind: 50, BigBlind: 100, Seed: 1})
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	mustSitDown(t, g, 0, 1, 1000)
	mustSitDown(t, g, 1, 2, 1000)
	if err := g.StartHand(); err != nil {
		t.Fatalf("StartHand: %v", err)
	}
	g.phase = PhaseShowdown

	pa, err := PermissibleActionsFor(g, 0)
	if err != nil {
		t.Fatalf("PermissibleActionsFor: %v", err)
	}
	if len(pa.Actions) != 1 || pa.Actions[0] != ActionFold {
		t.Fatalf("expected only {ActionFold} for an active seat outside a betting phase, got %v", pa.Actions)
	}
}

func TestPermissibleActionsFor_FoldedSeatOutsideBettingPhaseHasNoActions(t *testing.T) {
	g, err := NewGame(NewGameID(), Config{MaxPlayers: 2, MinPlayers: 2, SmallBlind: 50, BigBlind: 100, Seed: 1})
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	mustSitDown(t, g, 0, 1, 1000)
	mustSitDown(t, g, 1, 2, 1000)
	if err := g.StartHand(); err != nil {
		t.Fatalf("StartHand: %v", err)
	}
	g.seatsByChair[0].status = SeatFolded
	g.phase = PhaseShowdown

	pa, err := PermissibleActionsFor(g, 0)
	if err != nil {
		t.Fatalf("PermissibleActionsFor: %v", err)
	}
	if len(pa.Actions) != 0 {
		t.Fatalf("expected no actions for a folded seat, got %v", pa.Actions)
	}
}

func TestPermissibleActionsFor_UnknownSeatIsAnError(t *testing.T) {
	g, err := NewGame(NewGameID(), Config{MaxPlayers: 2, MinPlayers: 2, SmallBlind: 50, BigBlind: 100, Seed: 1})
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	mustSitDown(t, g, 0, 1, 1000)
	if _, err := PermissibleActionsFor(g, 5); err != ErrUnknownSeat {
		t.Fatalf("expected ErrUnknownSeat, got %v", err)
	}
}

func containsActionType(actions []ActionType, want ActionType) bool {
	for _, a := range actions {
		if a == want {
			return true
		}
	}
	return false
}
