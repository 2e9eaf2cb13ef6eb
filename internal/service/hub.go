package service

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Kit10v4/TouhouFM-Card-Battle/internal/ai"
	"github.com/Kit10v4/TouhouFM-Card-Battle/internal/constants"
	"github.com/Kit10v4/TouhouFM-Card-Battle/internal/game"
	"github.com/Kit10v4/TouhouFM-Card-Battle/internal/logging"
)

var (
	ErrAlreadyInRoom    = errors.New("player is already in a room")
	ErrNotInRoom        = errors.New("player is not in a room")
	ErrWrongPhase       = errors.New("action not allowed in current phase")
	ErrAlreadySubmitted = errors.New("action already submitted this turn")
	ErrInvalidCardIndex = errors.New("invalid card index")
)

// room wraps the battle state with its concurrency guard, deadline timer
// and AI opponent. All mutation of the embedded game.Room happens with mu
// held; the phase check-and-flip in resolveLocked is the exactly-once
// guard for the timer/submission race.
type room struct {
	*game.Room
	mu     sync.Mutex
	timer  *time.Timer
	closed bool
	rng    *rand.Rand
	bot    *ai.Bot
	botID  string
}

// stopTimerLocked clears the pending deadline or settle timer. Callers
// must hold rm.mu.
func (rm *room) stopTimerLocked() {
	if rm.timer != nil {
		rm.timer.Stop()
		rm.timer = nil
	}
}

// Hub orchestrates all battle rooms: matchmaking, deck intake, the turn
// state machine and teardown. Rooms are independent; the registry is the
// only cross-room shared resource.
type Hub struct {
	rules    game.Rules
	registry *Registry
	notifier Notifier
	stats    StatsRecorder
	pending  pendingJoins

	seedMu  sync.Mutex
	seedRng *rand.Rand
}

// NewHub wires the hub with its collaborators. The registry is owned by
// the caller so tests can run several isolated hubs.
func NewHub(rules game.Rules, registry *Registry, notifier Notifier, stats StatsRecorder) *Hub {
	return &Hub{
		rules:    rules,
		registry: registry,
		notifier: notifier,
		stats:    stats,
		seedRng:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (h *Hub) nextSeed() int64 {
	h.seedMu.Lock()
	defer h.seedMu.Unlock()
	return h.seedRng.Int63()
}

// Join enters matchmaking, or creates a room against a synthetic opponent
// when wantsAI is set. Difficulty accepts a tier name or "adaptive".
func (h *Hub) Join(playerID, name string, character game.Character, wantsAI bool, difficulty string) error {
	if name == "" {
		name = "Player"
	}
	if !character.IsValid() {
		character = game.CharacterMiko
	}
	if h.registry.inRoom(playerID) {
		return ErrAlreadyInRoom
	}

	if wantsAI {
		// A player parked in the waiting slot may switch to an AI game;
		// the slot and pending entry must not survive into matchmaking.
		h.registry.clearWaiting(playerID)
		h.pending.drop(playerID)
		h.createAIRoom(playerID, name, character, h.resolveDifficulty(name, difficulty))
		return nil
	}

	opponentID, parked := h.registry.takeWaiting(playerID)
	if parked {
		h.pending.store(playerID, name, character)
		h.notifier.Send(playerID, constants.MsgWaiting, nil)
		return nil
	}
	opp, ok := h.pending.take(opponentID)
	if !ok {
		// waiting player vanished; park the caller instead
		h.registry.takeWaiting(playerID)
		h.pending.store(playerID, name, character)
		h.notifier.Send(playerID, constants.MsgWaiting, nil)
		return nil
	}
	h.createPvPRoom(opponentID, opp.name, opp.character, playerID, name, character)
	return nil
}

// resolveDifficulty maps the requested tier to a concrete one, consulting
// the player's AI record when "adaptive" is requested.
func (h *Hub) resolveDifficulty(name, difficulty string) ai.Difficulty {
	if difficulty == "adaptive" {
		stats, err := h.statsFor(name)
		if err != nil {
			return ai.DifficultyMedium
		}
		return ai.AdaptiveDifficulty(stats.AIWins, stats.AILosses, stats.AIDraws)
	}
	d := ai.Difficulty(difficulty)
	if !d.IsValid() {
		return ai.DifficultyMedium
	}
	return d
}

func (h *Hub) statsFor(name string) (*game.User, error) {
	type statsReader interface {
		GetStatsByName(name string) (*game.User, error)
	}
	if sr, ok := h.stats.(statsReader); ok {
		return sr.GetStatsByName(name)
	}
	return &game.User{Name: name}, nil
}

func (h *Hub) createPvPRoom(aID, aName string, aChar game.Character, bID, bName string, bChar game.Character) {
	rm := &room{
		Room: game.NewRoom("cardgame-" + uuid.NewString()),
		rng:  rand.New(rand.NewSource(h.nextSeed())),
	}
	rm.AddPlayer(&game.PlayerState{ID: aID, Name: aName, Character: aChar, HP: h.rules.HPStart})
	rm.AddPlayer(&game.PlayerState{ID: bID, Name: bName, Character: bChar, HP: h.rules.HPStart})
	h.registry.insert(rm)

	h.notifier.Send(aID, constants.MsgMatched, MatchedPayload{
		RoomID:   rm.ID,
		Opponent: &OpponentInfo{Name: bName, Character: bChar},
	})
	h.notifier.Send(bID, constants.MsgMatched, MatchedPayload{
		RoomID:   rm.ID,
		Opponent: &OpponentInfo{Name: aName, Character: aChar},
	})
	h.broadcastDeckPrompt(rm)
	logging.Info("pvp room created", logging.Fields{constants.LogFieldRoomID: rm.ID})
}

func (h *Hub) createAIRoom(playerID, name string, character game.Character, difficulty ai.Difficulty) {
	rm := &room{
		Room: game.NewRoom("airoom-" + uuid.NewString()),
		rng:  rand.New(rand.NewSource(h.nextSeed())),
	}
	rm.Room.IsAIGame = true

	botID := "ai-bot-" + uuid.NewString()
	bot := ai.NewBot("AI "+string(game.CharacterWitch), game.CharacterWitch, difficulty, h.nextSeed())
	rm.bot = bot
	rm.botID = botID

	rm.AddPlayer(&game.PlayerState{ID: playerID, Name: name, Character: character, HP: h.rules.HPStart})
	botState := &game.PlayerState{ID: botID, Name: bot.Name, Character: bot.Character, HP: h.rules.HPStart, IsBot: true}
	botState.Deck = ai.GenerateDeck(h.rules, rm.rng)
	game.DrawCards(botState, h.rules.HandSize, rm.rng)
	botState.DeckReady = true
	rm.AddPlayer(botState)
	h.registry.insert(rm)

	h.notifier.Send(playerID, constants.MsgMatched, MatchedPayload{
		RoomID:   rm.ID,
		IsAIGame: true,
		Opponent: &OpponentInfo{Name: bot.Name, Character: bot.Character, Difficulty: string(difficulty)},
	})
	h.broadcastDeckPrompt(rm)
	logging.Info("ai room created", logging.Fields{
		constants.LogFieldRoomID:     rm.ID,
		constants.LogFieldDifficulty: string(difficulty),
	})
}

func (h *Hub) broadcastDeckPrompt(rm *room) {
	prompt := fmt.Sprintf("Submit your deck (max %d, max %d per type).", h.rules.DeckMax, h.rules.TypeLimit)
	for _, id := range rm.PlayerOrder {
		if rm.Players[id].IsBot {
			continue
		}
		h.notifier.Send(id, constants.MsgDeckPhase, DeckPhasePayload{Message: prompt})
	}
}

// Leave tears the player's room down. Subsequent submissions for the room
// become inert. Used for both voluntary leave and disconnects.
func (h *Hub) Leave(playerID string) {
	h.registry.clearWaiting(playerID)
	h.pending.drop(playerID)
	rm, ok := h.registry.roomOf(playerID)
	if !ok {
		return
	}
	rm.mu.Lock()
	if rm.closed {
		rm.mu.Unlock()
		return
	}
	h.teardownLocked(rm)
	others := rm.humanIDsLocked(playerID)
	rm.mu.Unlock()

	for _, id := range others {
		h.notifier.Send(id, constants.MsgOpponentLeft, nil)
	}
	logging.Info("room closed on leave", logging.Fields{
		constants.LogFieldRoomID:   rm.ID,
		constants.LogFieldPlayerID: playerID,
	})
}

// teardownLocked removes the room from the registry, clears any pending
// timer and marks the room closed. Callers must hold rm.mu. Every abort
// path runs through here so no room is ever left in the play phase with a
// stale timer.
func (h *Hub) teardownLocked(rm *room) {
	rm.closed = true
	rm.stopTimerLocked()
	h.registry.remove(rm.ID)
}

// humanIDsLocked lists human participants, excluding the given player.
func (rm *room) humanIDsLocked(except string) []string {
	ids := make([]string, 0, len(rm.PlayerOrder))
	for _, id := range rm.PlayerOrder {
		if id == except || rm.Players[id].IsBot {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// pendingJoins remembers name/character for players parked in the waiting
// slot so the eventual match can build their state.
type pendingJoins struct {
	mu      sync.Mutex
	entries map[string]pendingJoin
}

type pendingJoin struct {
	name      string
	character game.Character
}

func (p *pendingJoins) store(playerID, name string, character game.Character) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.entries == nil {
		p.entries = make(map[string]pendingJoin)
	}
	p.entries[playerID] = pendingJoin{name: name, character: character}
}

func (p *pendingJoins) take(playerID string) (pendingJoin, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	e, ok := p.entries[playerID]
	if ok {
		delete(p.entries, playerID)
	}
	return e, ok
}

func (p *pendingJoins) drop(playerID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.entries, playerID)
}
