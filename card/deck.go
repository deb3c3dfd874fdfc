package card

import (
	"errors"
	"math/rand"
)

// ErrDeckExhausted is returned by DealOne/BurnOne when the stock is empty.
var ErrDeckExhausted = errors.New("card: deck exhausted")

// StandardCards is the 52-card set in a fixed canonical order: Ace through
// King of spades, then hearts, clubs, diamonds. Deck shuffles a copy of
// this slice; the slice itself is never mutated.
var StandardCards = buildStandardCards()

func buildStandardCards() []Card {
	suits := [...]Suit{Spade, Heart, Club, Diamond}
	cards := make([]Card, 0, len(suits)*13)
	for _, s := range suits {
		for rank := byte(1); rank <= 13; rank++ {
			cards = append(cards, newCard(s, rank))
		}
	}
	return cards
}

// Deck is an ordered, deterministic supply of cards dealt top-down. Its
// shuffle is a pure function of a seed: the same seed always yields the
// same permutation, on any platform, via math/rand's Fisher-Yates Shuffle
// (index i runs from the last slot down to 1, each swapped with a draw in
// [0, i]) — no platform-default RNG is consulted.
type Deck struct {
	stock CardList
}

// NewStandardDeck builds a 52-card deck shuffled deterministically from
// seed. A seed of 0 is a valid, reproducible seed like any other; callers
// wanting a fresh deck every time should derive a nonzero seed themselves
// (e.g. from time.Now().UnixNano()).
func NewStandardDeck(seed int64) *Deck {
	cards := make([]Card, len(StandardCards))
	copy(cards, StandardCards)

	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(cards), func(i, j int) { cards[i], cards[j] = cards[j], cards[i] })

	d := &Deck{}
	d.stock.Init(cards)
	return d
}

// NewOrderedDeck builds a deck that deals cards in exactly the given order,
// consumed from index 0 upward. Used to reconstruct a hand deterministically
// from a recorded/forced card order (replay, tests) rather than a seed.
func NewOrderedDeck(order []Card) *Deck {
	d := &Deck{}
	d.stock.Init(order)
	return d
}

// Remaining reports how many cards are left to deal.
func (d *Deck) Remaining() int { return d.stock.Count() }

// DealOne removes and returns the top card.
func (d *Deck) DealOne() (Card, error) {
	if d.stock.Count() == 0 {
		return CardInvalid, ErrDeckExhausted
	}
	cards, _ := d.stock.PopCards(1)
	return cards[0], nil
}

// DealN removes and returns the top n cards, in deal order.
func (d *Deck) DealN(n int) ([]Card, error) {
	if n > d.stock.Count() {
		return nil, ErrDeckExhausted
	}
	cards, ok := d.stock.PopCards(n)
	if !ok {
		return nil, ErrDeckExhausted
	}
	return cards, nil
}

// BurnOne discards the top card without returning it, mirroring the
// traditional between-streets burn. The engine does not call this by
// default (see holdem.Config.BurnCards); it is exposed so a host that wants
// burn semantics can opt in without forking the deck type.
func (d *Deck) BurnOne() error {
	_, err := d.DealOne()
	return err
}
