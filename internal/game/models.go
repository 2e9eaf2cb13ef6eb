package game

import "time"

// Phase represents the lifecycle stage of a battle room.
// Using a dedicated type instead of plain string makes code safer and self-documenting.
type Phase string

const (
	PhaseDeckbuild Phase = "deckbuild"
	PhasePlay      Phase = "play"
	PhaseResolve   Phase = "resolve"
	PhaseEnd       Phase = "end"
)

// CardType is the closed set of playable card kinds.
type CardType string

const (
	CardAttack CardType = "attack"
	CardDefend CardType = "defend"
	CardHeal   CardType = "heal"
	CardCurse  CardType = "curse"
)

// AllCardTypes lists every valid card type in a stable order.
var AllCardTypes = []CardType{CardAttack, CardDefend, CardHeal, CardCurse}

// IsValid reports whether c is one of the four known card types.
func (c CardType) IsValid() bool {
	switch c {
	case CardAttack, CardDefend, CardHeal, CardCurse:
		return true
	}
	return false
}

// Character identifies the playable character. The character determines
// special-ability eligibility (see Rules.Specials).
type Character string

const (
	CharacterMiko   Character = "Miko"
	CharacterWitch  Character = "Witch"
	CharacterSakuya Character = "Sakuya"
)

// IsValid reports whether ch names a known character.
func (ch Character) IsValid() bool {
	switch ch {
	case CharacterMiko, CharacterWitch, CharacterSakuya:
		return true
	}
	return false
}

// Outcome is the per-player result reported to the statistics sink.
type Outcome string

const (
	OutcomeWin  Outcome = "win"
	OutcomeLoss Outcome = "loss"
	OutcomeDraw Outcome = "draw"
)

// Curse is an active multi-turn debuff on a player.
type Curse struct {
	TurnsRemaining int `json:"turns_remaining"`
}

// Submission is a player's sealed play for the current turn. A nil CardIndex
// is an explicit pass and receives the same treatment as a missed deadline.
type Submission struct {
	CardIndex  *int `json:"card_index"`
	UseSpecial bool `json:"use_special"`
}

// PlayNote records the publicly visible outcome of a player's turn.
type PlayNote struct {
	Card *CardType `json:"card"`
	Note string    `json:"note"`
}

// PlayerState holds everything the engine tracks for one participant.
type PlayerState struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Character   Character  `json:"character"`
	HP          int        `json:"hp"`
	Shield      int        `json:"shield"`
	Deck        []CardType `json:"-"`
	Hand        []CardType `json:"-"`
	Discard     []CardType `json:"-"`
	SpecialUsed bool       `json:"special_used"`
	Curse       *Curse     `json:"curse,omitempty"`
	IsBot       bool       `json:"is_bot"`
	DeckReady   bool       `json:"-"`
}

// Cursed reports whether the player currently has an active curse.
func (p *PlayerState) Cursed() bool {
	return p.Curse != nil && p.Curse.TurnsRemaining > 0
}

// Room is the authoritative state for one two-player battle. Mutation
// happens only through the service submit/resolve path.
type Room struct {
	ID          string
	Phase       Phase
	Turn        int
	TurnEndsAt  time.Time
	Submissions map[string]*Submission
	LastPlayed  map[string]*PlayNote
	Players     map[string]*PlayerState
	// PlayerOrder preserves join order so resolution iterates players in a
	// fixed, stable order.
	PlayerOrder []string
	IsAIGame    bool
}

// NewRoom builds an empty room in the deckbuild phase.
func NewRoom(id string) *Room {
	return &Room{
		ID:          id,
		Phase:       PhaseDeckbuild,
		Submissions: make(map[string]*Submission),
		LastPlayed:  make(map[string]*PlayNote),
		Players:     make(map[string]*PlayerState),
	}
}

// AddPlayer registers a participant and records join order.
func (r *Room) AddPlayer(p *PlayerState) {
	r.Players[p.ID] = p
	r.PlayerOrder = append(r.PlayerOrder, p.ID)
}

// Opponent returns the other participant, or nil when the room does not
// hold exactly two players.
func (r *Room) Opponent(playerID string) *PlayerState {
	if len(r.PlayerOrder) != 2 {
		return nil
	}
	for _, id := range r.PlayerOrder {
		if id != playerID {
			return r.Players[id]
		}
	}
	return nil
}

// SpecialBonus is one character's once-per-game bonus: it applies only when
// the character plays the matching card type.
type SpecialBonus struct {
	Card  CardType `json:"card"`
	Bonus int      `json:"bonus"`
}

// CurseRules groups the curse tunables.
type CurseRules struct {
	Duration  int `json:"duration"`
	HPDebuff  int `json:"hp_debuff"`
	AtkDebuff int `json:"atk_debuff"`
}

// Rules carries every externally configured battle tunable. Values are
// loaded from the rules file at startup (see internal/config).
type Rules struct {
	HPStart       int                        `json:"hp_start"`
	HandSize      int                        `json:"hand_size"`
	DeckMax       int                        `json:"deck_max"`
	TypeLimit     int                        `json:"type_limit"`
	TurnSeconds   int                        `json:"turn_seconds"`
	TurnLimit     int                        `json:"turn_limit"`
	CardValues    map[CardType]int           `json:"card_values"`
	Specials      map[Character]SpecialBonus `json:"specials"`
	Curse         CurseRules                 `json:"curse"`
	NoPlayPenalty int                        `json:"no_play_penalty"`
	CurseCureHeal int                        `json:"curse_cure_heal"`
	SettleDelayMS int                        `json:"settle_delay_ms"`
}
