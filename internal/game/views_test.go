package game

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func viewRoom() *Room {
	r := NewRoom("r1")
	r.Phase = PhasePlay
	r.Turn = 3
	r.TurnEndsAt = time.Now().Add(12 * time.Second)
	r.AddPlayer(&PlayerState{
		ID: "a", Name: "Alice", Character: CharacterMiko, HP: 80, Shield: 20,
		Hand: []CardType{CardAttack, CardHeal},
		Deck: []CardType{CardDefend},
	})
	r.AddPlayer(&PlayerState{
		ID: "b", Name: "Bob", Character: CharacterWitch, HP: 60,
		Hand: []CardType{CardCurse},
	})
	idx := 0
	r.Submissions["a"] = &Submission{CardIndex: &idx}
	return r
}

func TestPublicViewHidesHands(t *testing.T) {
	r := viewRoom()
	pub := r.Public(time.Now())

	assert.Equal(t, "r1", pub.RoomID)
	assert.Equal(t, 3, pub.Turn)
	assert.True(t, pub.Players["a"].Submitted)
	assert.False(t, pub.Players["b"].Submitted)
	assert.InDelta(t, 12, pub.TimerRemaining, 1)

	// neither hand appears anywhere in the serialized form
	b, err := json.Marshal(pub)
	require.NoError(t, err)
	assert.NotContains(t, string(b), `"hand"`)
}

func TestPublicViewTimerNeverNegative(t *testing.T) {
	r := viewRoom()
	pub := r.Public(r.TurnEndsAt.Add(5 * time.Second))
	assert.Equal(t, 0, pub.TimerRemaining)
}

func TestPrivateViewOnlyOwnHand(t *testing.T) {
	r := viewRoom()
	priv := r.Private("a", time.Now())

	assert.Equal(t, "a", priv.You)
	assert.Equal(t, []CardType{CardAttack, CardHeal}, priv.Hand)

	// the hand is a copy, not an alias of the live state
	priv.Hand[0] = CardCurse
	assert.Equal(t, CardAttack, r.Players["a"].Hand[0])
}

func TestPublicViewCopiesCurse(t *testing.T) {
	r := viewRoom()
	r.Players["a"].Curse = &Curse{TurnsRemaining: 3}
	pub := r.Public(time.Now())

	// a tick on the live player must not bleed into the captured view
	r.Players["a"].Curse.TurnsRemaining--

	require.NotNil(t, pub.Players["a"].Curse)
	assert.Equal(t, 3, pub.Players["a"].Curse.TurnsRemaining)
}

func TestSnapshotForIsDeepCopy(t *testing.T) {
	r := viewRoom()
	r.Players["a"].Curse = &Curse{TurnsRemaining: 2}
	snap := r.SnapshotFor()

	snap.Players["a"].HP = 1
	snap.Players["a"].Hand[0] = CardDefend
	snap.Players["a"].Curse.TurnsRemaining = 99

	assert.Equal(t, 80, r.Players["a"].HP)
	assert.Equal(t, CardAttack, r.Players["a"].Hand[0])
	assert.Equal(t, 2, r.Players["a"].Curse.TurnsRemaining)
}
