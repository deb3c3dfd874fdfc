package holdem

import (
	"holdem-engine/card"

	"google.golang.org/protobuf/types/known/timestamppb"
)

// EventKind tags one entry in a game's append-only event log (spec §6).
type EventKind byte

const (
	EventHandStarted EventKind = iota
	EventBlindPosted
	EventHoleCardsDealt
	EventCommunityDealt
	EventActionApplied
	EventBettingRoundCompleted
	EventSidePotsComputed
	EventHandResult
	EventHandFinished
)

var eventKindNames = map[EventKind]string{
	EventHandStarted:           "HAND_STARTED",
	EventBlindPosted:           "BLIND_POSTED",
	EventHoleCardsDealt:        "HOLE_CARDS_DEALT",
	EventCommunityDealt:        "COMMUNITY_DEALT",
	EventActionApplied:         "ACTION_APPLIED",
	EventBettingRoundCompleted: "BETTING_ROUND_COMPLETED",
	EventSidePotsComputed:      "SIDE_POTS_COMPUTED",
	EventHandResult:            "HAND_RESULT",
	EventHandFinished:          "HAND_FINISHED",
}

func (k EventKind) String() string {
	if s, ok := eventKindNames[k]; ok {
		return s
	}
	return "UNKNOWN"
}

// Event is one entry in the in-context event log. Only the field matching
// Kind is populated; the others are left at their zero value. A host that
// wants a single wire shape can marshal this struct directly (it carries no
// hidden information beyond what the Kind's payload permits per §6).
type Event struct {
	Kind EventKind
	At   *timestamppb.Timestamp

	HandStarted           *HandStartedPayload
	BlindPosted           *BlindPostedPayload
	HoleCardsDealt        *HoleCardsDealtPayload
	CommunityDealt        *CommunityDealtPayload
	ActionApplied         *ActionAppliedPayload
	BettingRoundCompleted *BettingRoundCompletedPayload
	SidePotsComputed      *SidePotsComputedPayload
	HandResult            *HandResultPayload
	HandFinished          *HandFinishedPayload
}

type HandStartedPayload struct {
	GameID     GameID
	HandIndex  uint64
	ButtonSeat uint16
}

type BlindKind byte

const (
	BlindSmall BlindKind = iota
	BlindBig
	BlindAnte
)

type BlindPostedPayload struct {
	Seat   uint16
	Kind   BlindKind
	Amount int64
}

// HoleCardsDealtPayload never carries the dealt cards themselves: per §6,
// opponents observing this event see only that seat received cards. A host
// reading its own seat's cards does so via RedactedSnapshot, not this event.
type HoleCardsDealtPayload struct {
	Seat uint16
}

type CommunityDealtPayload struct {
	Street Phase
	Cards  []card.Card
}

type ActionAppliedPayload struct {
	Seat               uint16
	BetType            ActionType
	Amount             int64
	ResultingCurrentBet int64
}

type BettingRoundCompletedPayload struct {
	Street Phase
}

type PotEventEntry struct {
	Amount   int64
	Eligible []uint16
}

type SidePotsComputedPayload struct {
	Pots []PotEventEntry
}

type WinnerEntry struct {
	Seat     uint16
	Amount   int64
	Category HandCategory
	Kickers  []int
}

type HandResultPayload struct {
	Winners []WinnerEntry
}

type HandFinishedPayload struct {
	HandIndex uint64
}
