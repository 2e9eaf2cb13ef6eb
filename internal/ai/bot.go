package ai

import (
	"math/rand"
	"time"

	"github.com/Kit10v4/TouhouFM-Card-Battle/internal/game"
)

// Difficulty selects the decision heuristics and the thinking-delay range
// of a synthetic opponent.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
	DifficultyExpert Difficulty = "expert"
)

// Difficulties lists the supported tiers in ascending strength order.
var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyExpert}

// IsValid reports whether d names a known difficulty tier.
func (d Difficulty) IsValid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyExpert:
		return true
	}
	return false
}

// Decision is the adapter output: which hand index to play and whether to
// request the special. The engine re-validates the index before use.
type Decision struct {
	CardIndex  int
	UseSpecial bool
}

// DecisionMaker produces a submission from a read-only snapshot of the
// battle. Implementations must return synchronously and must never panic
// their way into the state machine.
type DecisionMaker interface {
	Decide(snap game.Snapshot, selfID string) Decision
}

// Bot is the built-in heuristic decision maker.
type Bot struct {
	Name       string
	Character  game.Character
	Difficulty Difficulty
	rng        *rand.Rand
}

// NewBot builds a bot with its own rand source so decisions do not contend
// with the hub's shuffler.
func NewBot(name string, character game.Character, difficulty Difficulty, seed int64) *Bot {
	if !difficulty.IsValid() {
		difficulty = DifficultyMedium
	}
	return &Bot{
		Name:       name,
		Character:  character,
		Difficulty: difficulty,
		rng:        rand.New(rand.NewSource(seed)),
	}
}

// ThinkingDelay returns a randomized pause before the bot submits. The
// range widens with the difficulty tier so stronger bots appear to think
// longer, matching the pacing players expect.
func (b *Bot) ThinkingDelay() time.Duration {
	var base, spread time.Duration
	switch b.Difficulty {
	case DifficultyEasy:
		base, spread = 500*time.Millisecond, 1000*time.Millisecond
	case DifficultyMedium:
		base, spread = 1000*time.Millisecond, 1500*time.Millisecond
	case DifficultyHard:
		base, spread = 1500*time.Millisecond, 2000*time.Millisecond
	default: // expert
		base, spread = 2000*time.Millisecond, 2500*time.Millisecond
	}
	return base + time.Duration(b.rng.Int63n(int64(spread)))
}

// Decide implements DecisionMaker.
func (b *Bot) Decide(snap game.Snapshot, selfID string) Decision {
	self := snap.Players[selfID]
	if self == nil || len(self.Hand) == 0 {
		return Decision{CardIndex: 0}
	}
	var opponent *game.PlayerState
	for id, p := range snap.Players {
		if id != selfID {
			opponent = p
		}
	}

	switch b.Difficulty {
	case DifficultyEasy:
		return b.decideRandom(self)
	case DifficultyMedium:
		return b.decideBasic(self)
	case DifficultyHard:
		return b.decideAdvanced(self, opponent)
	default:
		return b.decideOptimal(self, opponent)
	}
}

func (b *Bot) decideRandom(self *game.PlayerState) Decision {
	return Decision{
		CardIndex:  b.rng.Intn(len(self.Hand)),
		UseSpecial: !self.SpecialUsed && b.rng.Intn(4) == 0,
	}
}

// decideBasic heals when hurt, otherwise attacks when possible.
func (b *Bot) decideBasic(self *game.PlayerState) Decision {
	if self.HP <= 50 {
		if idx, ok := findCard(self.Hand, game.CardHeal); ok {
			return Decision{CardIndex: idx}
		}
	}
	if idx, ok := findCard(self.Hand, game.CardAttack); ok {
		return Decision{CardIndex: idx}
	}
	return Decision{CardIndex: b.rng.Intn(len(self.Hand))}
}

// decideAdvanced adds curse pressure and defensive play on top of the
// basic heuristics.
func (b *Bot) decideAdvanced(self, opponent *game.PlayerState) Decision {
	if self.Cursed() || self.HP <= 40 {
		if idx, ok := findCard(self.Hand, game.CardHeal); ok {
			return Decision{CardIndex: idx}
		}
	}
	if opponent != nil && !opponent.Cursed() {
		if idx, ok := findCard(self.Hand, game.CardCurse); ok {
			return Decision{CardIndex: idx}
		}
	}
	if self.HP <= 30 && self.Shield == 0 {
		if idx, ok := findCard(self.Hand, game.CardDefend); ok {
			return Decision{CardIndex: idx}
		}
	}
	if idx, ok := findCard(self.Hand, game.CardAttack); ok {
		return Decision{CardIndex: idx, UseSpecial: !self.SpecialUsed && b.rng.Intn(2) == 0}
	}
	return Decision{CardIndex: b.rng.Intn(len(self.Hand))}
}

// decideOptimal plays to win: finish the opponent when an attack can do it,
// cure curses immediately, keep curse uptime on the opponent and hold the
// special for attacks.
func (b *Bot) decideOptimal(self, opponent *game.PlayerState) Decision {
	if opponent != nil && opponent.HP+opponent.Shield <= 30 {
		if idx, ok := findCard(self.Hand, game.CardAttack); ok {
			return Decision{CardIndex: idx, UseSpecial: !self.SpecialUsed}
		}
	}
	if self.Cursed() {
		if idx, ok := findCard(self.Hand, game.CardHeal); ok {
			return Decision{CardIndex: idx}
		}
	}
	if opponent != nil && !opponent.Cursed() {
		if idx, ok := findCard(self.Hand, game.CardCurse); ok {
			return Decision{CardIndex: idx}
		}
	}
	if self.HP <= 60 {
		if idx, ok := findCard(self.Hand, game.CardHeal); ok {
			return Decision{CardIndex: idx}
		}
	}
	if idx, ok := findCard(self.Hand, game.CardAttack); ok {
		return Decision{CardIndex: idx, UseSpecial: !self.SpecialUsed}
	}
	if idx, ok := findCard(self.Hand, game.CardDefend); ok {
		return Decision{CardIndex: idx}
	}
	return Decision{CardIndex: 0}
}

func findCard(hand []game.CardType, t game.CardType) (int, bool) {
	for i, c := range hand {
		if c == t {
			return i, true
		}
	}
	return 0, false
}

// GenerateDeck builds a legal bot deck: round-robin across card types so no
// type exceeds the per-type limit.
func GenerateDeck(rules game.Rules, rng *rand.Rand) []game.CardType {
	deck := make([]game.CardType, 0, rules.DeckMax)
	counts := make(map[game.CardType]int, len(game.AllCardTypes))
	for len(deck) < rules.DeckMax {
		added := false
		for _, t := range game.AllCardTypes {
			if len(deck) >= rules.DeckMax {
				break
			}
			if counts[t] >= rules.TypeLimit {
				continue
			}
			deck = append(deck, t)
			counts[t]++
			added = true
		}
		if !added {
			break
		}
	}
	game.Shuffle(deck, rng)
	return deck
}

// AdaptiveDifficulty picks a tier from the player's record against the AI.
// New players get medium; the tier climbs with the win rate.
func AdaptiveDifficulty(wins, losses, draws int) Difficulty {
	total := wins + losses + draws
	if total == 0 {
		return DifficultyMedium
	}
	rate := float64(wins) / float64(total)
	switch {
	case rate < 0.3:
		return DifficultyEasy
	case rate < 0.5:
		return DifficultyMedium
	case rate < 0.7:
		return DifficultyHard
	default:
		return DifficultyExpert
	}
}
