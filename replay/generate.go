package replay

import (
	"fmt"

	"holdem-engine/holdem"
)

const defaultTableID = "replay_local"

// GenerateReplayTape reconstructs spec against a fresh holdem.Game and
// returns its full event log. Every action in spec.Actions is validated
// against the engine's own permissible-actions query before being applied,
// so a spec that drifts from what the engine would actually allow fails
// loudly with a ReplayError instead of silently producing a wrong tape.
func GenerateReplayTape(spec HandSpec) (*ReplayTape, error) {
	ns, err := normalizeSpec(spec)
	if err != nil {
		return nil, err
	}

	dealer := ns.dealerChair
	cfg := holdem.Config{
		MaxPlayers:        int(ns.table.MaxPlayers),
		MinPlayers:        2,
		SmallBlind:        ns.table.SB,
		BigBlind:          ns.table.BB,
		Ante:              ns.table.Ante,
		Seed:              seedFromSpec(spec.RNG),
		ForcedDealerChair: &dealer,
		DeckOverride:      ns.deck,
	}

	game, err := holdem.NewGame(holdem.NewGameID(), cfg)
	if err != nil {
		return nil, &ReplayError{StepIndex: -1, Reason: "engine_init_failed", Message: err.Error()}
	}

	for _, seat := range ns.seats {
		if seat.stack <= 0 {
			continue
		}
		if err := game.SitDown(seat.chair, seat.userID, seat.stack, false); err != nil {
			return nil, &ReplayError{StepIndex: -1, Reason: "seat_init_failed", Message: err.Error()}
		}
	}

	if err := game.StartHand(); err != nil {
		return nil, &ReplayError{StepIndex: -1, Reason: "start_hand_failed", Message: err.Error()}
	}

	for stepIdx, action := range ns.actions {
		snap := game.Snapshot()
		if snap.Phase == holdem.PhaseFinished {
			return nil, &ReplayError{
				StepIndex: int32(stepIdx),
				Reason:    "no_action_expected",
				Message:   "hand is already complete; no further actions are allowed",
			}
		}
		if snap.Phase != action.phase {
			return nil, &ReplayError{
				StepIndex: int32(stepIdx),
				Reason:    "phase_mismatch",
				Message:   fmt.Sprintf("expected phase %s, got %s", phaseName(snap.Phase), phaseName(action.phase)),
				Expected:  &ExpectedState{ActionChair: snap.ActionChair, Phase: phaseName(snap.Phase)},
			}
		}
		if snap.ActionChair != action.chair {
			return nil, &ReplayError{
				StepIndex: int32(stepIdx),
				Reason:    "out_of_turn",
				Message:   fmt.Sprintf("expected action chair %d, got %d", snap.ActionChair, action.chair),
				Expected:  expectedStateForChair(game, snap.ActionChair, snap.Phase),
			}
		}

		pa, err := holdem.PermissibleActionsFor(game, action.chair)
		if err != nil || !containsAction(pa.Actions, action.action) {
			return nil, &ReplayError{
				StepIndex: int32(stepIdx),
				Reason:    "illegal_action",
				Message:   fmt.Sprintf("action %s is not legal for chair %d", action.action, action.chair),
				Expected:  expectedStateForChair(game, action.chair, snap.Phase),
			}
		}

		if err := game.Act(action.chair, action.action, action.amountTo); err != nil {
			return nil, &ReplayError{
				StepIndex: int32(stepIdx),
				Reason:    "action_apply_failed",
				Message:   err.Error(),
				Expected:  expectedStateForChair(game, action.chair, snap.Phase),
			}
		}
	}

	final := game.Snapshot()
	return &ReplayTape{
		TapeVersion: 1,
		TableID:     defaultTableID,
		HeroChair:   ns.heroChair,
		HeroHole:    heroHoleCards(final, ns.heroChair),
		Events:      final.Events,
	}, nil
}

func containsAction(actions []holdem.ActionType, want holdem.ActionType) bool {
	for _, a := range actions {
		if a == want {
			return true
		}
	}
	return false
}

func expectedStateForChair(g *holdem.Game, chair uint16, phase holdem.Phase) *ExpectedState {
	pa, err := holdem.PermissibleActionsFor(g, chair)
	if err != nil {
		return &ExpectedState{ActionChair: chair, Phase: phaseName(phase)}
	}
	legal := make([]string, 0, len(pa.Actions))
	for _, a := range pa.Actions {
		legal = append(legal, a.String())
	}
	return &ExpectedState{
		ActionChair:  chair,
		LegalActions: legal,
		MinRaiseTo:   pa.MinRaiseTotal,
		CallAmount:   pa.MinCall,
		Phase:        phaseName(phase),
	}
}
