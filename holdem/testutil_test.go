package holdem

import (
	"testing"

	"holdem-engine/card"
)

func mustCard(t *testing.T, s string) card.Card {
	t.Helper()
	c, err := card.ThdmStrToCard(s)
	if err != nil {
		t.Fatalf("ThdmStrToCard(%q): %v", s, err)
	}
	return c
}

// buildForcedDeck returns a full 52-card permutation whose first len(front)
// slots are exactly the given cards, in order. Every remaining standard
// card fills out the rest in its natural order, so the result is always a
// valid DeckOverride (52 unique cards) regardless of which cards front
// names.
func buildForcedDeck(t *testing.T, front ...string) []card.Card {
	t.Helper()
	deck := append([]card.Card(nil), card.StandardCards...)
	for i, s := range front {
		want := mustCard(t, s)
		idx := -1
		for j := i; j < len(deck); j++ {
			if deck[j] == want {
				idx = j
				break
			}
		}
		if idx == -1 {
			t.Fatalf("card %q not found in remaining deck (duplicate front entry?)", s)
		}
		deck[i], deck[idx] = deck[idx], deck[i]
	}
	return deck
}

func mustSitDown(t *testing.T, g *Game, chair uint16, userID uint64, stack int64) {
	t.Helper()
	if err := g.SitDown(chair, userID, stack, false); err != nil {
		t.Fatalf("SitDown(%d): %v", chair, err)
	}
}

func mustAct(t *testing.T, g *Game, chair uint16, action ActionType, amount int64) {
	t.Helper()
	if err := g.Act(chair, action, amount); err != nil {
		t.Fatalf("Act(chair=%d, %s, %d): %v", chair, action, amount, err)
	}
}
