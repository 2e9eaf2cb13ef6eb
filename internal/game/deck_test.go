package game

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func legalDeck() []CardType {
	return []CardType{
		CardAttack, CardAttack, CardAttack, CardAttack,
		CardDefend, CardDefend, CardDefend,
		CardHeal, CardHeal, CardHeal,
		CardCurse, CardCurse,
	}
}

func TestValidateDeck(t *testing.T) {
	tests := []struct {
		name    string
		cards   []CardType
		wantErr string
	}{
		{
			name:  "legal deck",
			cards: legalDeck(),
		},
		{
			name:    "too small",
			cards:   legalDeck()[:11],
			wantErr: "Deck size must be exactly 12.",
		},
		{
			name:    "too large",
			cards:   append(legalDeck(), CardAttack),
			wantErr: "Deck size must be exactly 12.",
		},
		{
			name: "unknown card type",
			cards: append(legalDeck()[:11],
				CardType("banish")),
			wantErr: "Unknown card type: banish",
		},
		{
			name: "over the per-type limit",
			cards: []CardType{
				CardAttack, CardAttack, CardAttack, CardAttack, CardAttack, CardAttack,
				CardDefend, CardDefend, CardDefend,
				CardHeal, CardHeal, CardHeal,
			},
			wantErr: "Too many attack cards (max 5).",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDeck(tt.cards, 12, 5)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantErr, err.Error())
		})
	}
}

func TestNewDeckFromListDoesNotAliasInput(t *testing.T) {
	src := legalDeck()
	deck := NewDeckFromList(src, rand.New(rand.NewSource(7)))
	require.Len(t, deck, len(src))
	// the caller's list survives the shuffle untouched
	assert.Equal(t, legalDeck(), src)

	counts := func(cards []CardType) map[CardType]int {
		m := make(map[CardType]int)
		for _, c := range cards {
			m[c]++
		}
		return m
	}
	assert.Equal(t, counts(src), counts(deck))
}

func TestDrawCardsFromDeckTail(t *testing.T) {
	p := &PlayerState{
		ID:   "p1",
		Deck: []CardType{CardHeal, CardDefend, CardAttack},
	}
	DrawCards(p, 2, rand.New(rand.NewSource(7)))
	assert.Equal(t, []CardType{CardAttack, CardDefend}, p.Hand)
	assert.Equal(t, []CardType{CardHeal}, p.Deck)
}

func TestDrawCardsReshufflesDiscard(t *testing.T) {
	p := &PlayerState{
		ID:      "p1",
		Deck:    []CardType{CardAttack},
		Discard: []CardType{CardHeal, CardHeal, CardDefend},
	}
	DrawCards(p, 3, rand.New(rand.NewSource(7)))
	assert.Len(t, p.Hand, 3)
	assert.Empty(t, p.Discard)
	assert.Len(t, p.Deck, 1)
}

func TestDrawCardsHaltsWhenExhausted(t *testing.T) {
	p := &PlayerState{
		ID:   "p1",
		Deck: []CardType{CardAttack, CardDefend},
	}
	DrawCards(p, 5, rand.New(rand.NewSource(7)))
	// a short hand is accepted when deck and discard are both empty
	assert.Len(t, p.Hand, 2)
	assert.Empty(t, p.Deck)
	assert.Empty(t, p.Discard)
}

func TestCursed(t *testing.T) {
	p := &PlayerState{ID: "p1"}
	assert.False(t, p.Cursed())
	p.Curse = &Curse{TurnsRemaining: 1}
	assert.True(t, p.Cursed())
	p.Curse.TurnsRemaining = 0
	assert.False(t, p.Cursed())
}

func TestOpponent(t *testing.T) {
	r := NewRoom("r1")
	r.AddPlayer(&PlayerState{ID: "a"})
	assert.Nil(t, r.Opponent("a"))

	r.AddPlayer(&PlayerState{ID: "b"})
	require.NotNil(t, r.Opponent("a"))
	assert.Equal(t, "b", r.Opponent("a").ID)
	assert.Equal(t, "a", r.Opponent("b").ID)
}
