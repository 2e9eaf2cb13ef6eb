package service

import "github.com/Kit10v4/TouhouFM-Card-Battle/internal/game"

// Notifier delivers outbound events to a single player. The hub is
// transport-agnostic: the websocket layer implements this interface and
// drops sends to players that are no longer connected.
type Notifier interface {
	Send(playerID, event string, payload interface{})
}

// StatsRecorder is the statistics sink collaborator. On game end the hub
// invokes it once per human participant; persistence is not the hub's
// concern.
type StatsRecorder interface {
	RecordOutcome(playerName string, outcome game.Outcome, vsAI bool) error
}

// MatchedPayload announces a formed room to a participant.
type MatchedPayload struct {
	RoomID   string        `json:"room_id"`
	IsAIGame bool          `json:"is_ai_game"`
	Opponent *OpponentInfo `json:"opponent,omitempty"`
}

// OpponentInfo is the public identity of the other participant.
type OpponentInfo struct {
	Name       string         `json:"name"`
	Character  game.Character `json:"character"`
	Difficulty string         `json:"difficulty,omitempty"`
}

// DeckPhasePayload prompts a player to submit their deck.
type DeckPhasePayload struct {
	Message string `json:"message"`
}

// DeckRejectedPayload carries the specific validation reason.
type DeckRejectedPayload struct {
	Reason string `json:"reason"`
}

// SubmittedPayload announces that a player has locked in a play. The card
// identity is deliberately withheld until resolution.
type SubmittedPayload struct {
	Player string `json:"player"`
}

// RoundEndPayload is the final broadcast of a finished match.
type RoundEndPayload struct {
	FinalHP map[string]int `json:"final_hp"`
	Turn    int            `json:"turn"`
	// Winner is the winning player's ID; empty on a draw.
	Winner string `json:"winner,omitempty"`
}

// ErrorPayload reports a rejected action to its originator only.
type ErrorPayload struct {
	Message string `json:"message"`
}
