package replay

import "holdem-engine/holdem"

// WireReplayTape is ReplayTape flattened for external consumers: each event
// carries its Kind as a string and only its payload, skipping Event's
// byte-enum tag and internal struct-of-pointers shape.
type WireReplayTape struct {
	TapeVersion int         `json:"tapeVersion"`
	TableID     string      `json:"tableId"`
	HeroChair   uint16      `json:"heroChair"`
	Events      []WireEvent `json:"events"`
}

// WireEvent is one event with its Kind rendered as the human-readable
// string (holdem.EventKind.String()) and only the payload relevant to that
// kind, found by switching on Kind exactly like holdem.Event's own doc
// comment describes consuming it.
type WireEvent struct {
	Kind    string      `json:"kind"`
	Payload interface{} `json:"payload"`
}

func ToWireReplayTape(tape *ReplayTape) *WireReplayTape {
	if tape == nil {
		return nil
	}
	out := &WireReplayTape{
		TapeVersion: tape.TapeVersion,
		TableID:     tape.TableID,
		HeroChair:   tape.HeroChair,
		Events:      make([]WireEvent, 0, len(tape.Events)),
	}
	for _, e := range tape.Events {
		out.Events = append(out.Events, WireEvent{Kind: e.Kind.String(), Payload: payloadOf(e)})
	}
	return out
}

func payloadOf(e holdem.Event) interface{} {
	switch e.Kind {
	case holdem.EventHandStarted:
		return e.HandStarted
	case holdem.EventBlindPosted:
		return e.BlindPosted
	case holdem.EventHoleCardsDealt:
		return e.HoleCardsDealt
	case holdem.EventCommunityDealt:
		return e.CommunityDealt
	case holdem.EventActionApplied:
		return e.ActionApplied
	case holdem.EventBettingRoundCompleted:
		return e.BettingRoundCompleted
	case holdem.EventSidePotsComputed:
		return e.SidePotsComputed
	case holdem.EventHandResult:
		return e.HandResult
	case holdem.EventHandFinished:
		return e.HandFinished
	default:
		return nil
	}
}
