package game

import (
	"fmt"
	"math/rand"
)

// NewDeckFromList copies the validated card list and shuffles it into draw
// order. The draw end is the tail of the slice.
func NewDeckFromList(cards []CardType, rng *rand.Rand) []CardType {
	deck := make([]CardType, len(cards))
	copy(deck, cards)
	Shuffle(deck, rng)
	return deck
}

// Shuffle permutes cards uniformly at random in place. Non-cryptographic
// randomness is acceptable for casual play fairness.
func Shuffle(cards []CardType, rng *rand.Rand) {
	rng.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
}

// DrawCards moves up to count cards from the player's deck to their hand.
// Draws come from the deck tail. When the deck runs out the discard pile is
// reshuffled into a fresh deck and drawing continues. If deck and discard
// are both exhausted drawing halts early, leaving a short hand.
func DrawCards(p *PlayerState, count int, rng *rand.Rand) {
	for i := 0; i < count; i++ {
		if len(p.Deck) == 0 {
			p.Deck = p.Discard
			p.Discard = nil
			Shuffle(p.Deck, rng)
			if len(p.Deck) == 0 {
				break
			}
		}
		last := len(p.Deck) - 1
		p.Hand = append(p.Hand, p.Deck[last])
		p.Deck = p.Deck[:last]
	}
}

// ValidateDeck checks a submitted deck against the configured deck rules.
// It is pure and side-effect-free; a non-nil error carries the specific
// rejection reason shown to the player.
func ValidateDeck(cards []CardType, deckMax, typeLimit int) error {
	if len(cards) != deckMax {
		return fmt.Errorf("Deck size must be exactly %d.", deckMax)
	}
	counts := make(map[CardType]int, len(AllCardTypes))
	for _, c := range cards {
		if !c.IsValid() {
			return fmt.Errorf("Unknown card type: %s", c)
		}
		counts[c]++
	}
	for _, t := range AllCardTypes {
		if counts[t] > typeLimit {
			return fmt.Errorf("Too many %s cards (max %d).", t, typeLimit)
		}
	}
	return nil
}
