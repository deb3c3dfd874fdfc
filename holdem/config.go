package holdem

import (
	"fmt"

	"github.com/charmbracelet/log"

	"holdem-engine/card"
)

// Config describes one table: seating limits, stakes, the shuffle seed and
// a handful of deterministic-replay knobs. It is the host-facing input to
// create_game (see §6); the config package layers HCL file loading on top
// of this struct for hosts that prefer a config file to a literal.
type Config struct {
	// Table
	MaxPlayers int
	MinPlayers int

	// Blinds / Ante
	SmallBlind int64
	BigBlind   int64
	Ante       int64

	// Seed seeds the Game's persistent RNG, which shuffles every hand's deck
	// and picks the first button. Zero is a seed like any other. Two
	// engines built with the same seed and fed the same action sequence
	// reach byte-identical snapshots (testable property 9).
	Seed int64

	// BurnCards decides whether a card is discarded from the deck before
	// each of flop/turn/river is dealt at the end of a betting round, per
	// spec §9's note that burning does not change the outcome distribution
	// and is therefore optional. When a hand runs straight to showdown, the
	// remaining board is dealt without burns. Default false.
	BurnCards bool

	// ForcedDealerChair pins the button seat, overriding the normal
	// rotation. Used for deterministic replay reconstruction from a
	// recorded hand.
	ForcedDealerChair *uint16

	// DeckOverride pins the full 52-card deal order, consumed from index 0
	// upward, instead of deriving it from Seed. Used for replay.
	DeckOverride []card.Card

	// Logger receives the chip ledger's conservation-breach diagnostic
	// before it panics. Settlement failures are returned as errors, not
	// logged. Nil is replaced with a discarding logger so the engine stays
	// silent and embeddable by default.
	Logger *log.Logger
}

func (c *Config) validate() error {
	if c.MaxPlayers <= 0 {
		return fmt.Errorf("holdem: MaxPlayers must be > 0")
	}
	if c.MinPlayers <= 0 {
		return fmt.Errorf("holdem: MinPlayers must be > 0")
	}
	if c.MinPlayers > c.MaxPlayers {
		return fmt.Errorf("holdem: MinPlayers must be <= MaxPlayers")
	}
	if c.SmallBlind < 0 || c.BigBlind <= 0 || c.SmallBlind > c.BigBlind {
		return fmt.Errorf("holdem: invalid blinds: sb=%d bb=%d", c.SmallBlind, c.BigBlind)
	}
	if c.Ante < 0 {
		return fmt.Errorf("holdem: Ante must be >= 0")
	}
	if c.ForcedDealerChair != nil && int(*c.ForcedDealerChair) >= c.MaxPlayers {
		return fmt.Errorf("holdem: forced dealer chair out of range: %d", *c.ForcedDealerChair)
	}
	if err := validateDeckOverride(c.DeckOverride); err != nil {
		return err
	}
	return nil
}

func validateDeckOverride(deck []card.Card) error {
	if len(deck) == 0 {
		return nil
	}
	if len(deck) != len(card.StandardCards) {
		return fmt.Errorf("holdem: deck override must contain %d cards, got %d", len(card.StandardCards), len(deck))
	}
	valid := make(map[card.Card]struct{}, len(card.StandardCards))
	for _, c := range card.StandardCards {
		valid[c] = struct{}{}
	}
	seen := make(map[card.Card]struct{}, len(deck))
	for i, c := range deck {
		if _, ok := valid[c]; !ok {
			return fmt.Errorf("holdem: deck override contains invalid card at index %d: %v", i, c)
		}
		if _, ok := seen[c]; ok {
			return fmt.Errorf("holdem: deck override contains duplicate card at index %d: %v", i, c)
		}
		seen[c] = struct{}{}
	}
	return nil
}

func (c *Config) logger() *log.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	l := log.New(discardWriter{})
	return l
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }
