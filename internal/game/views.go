package game

import "time"

// PublicPlayerView is the slice of a player's state every participant may
// see. Hands are never included here.
type PublicPlayerView struct {
	Name        string    `json:"name"`
	Character   Character `json:"character"`
	HP          int       `json:"hp"`
	Shield      int       `json:"shield"`
	SpecialUsed bool      `json:"special_used"`
	Curse       *Curse    `json:"curse,omitempty"`
	Submitted   bool      `json:"submitted"`
	LastPlayed  *PlayNote `json:"last_played"`
}

// PublicView is the battle state broadcast to both players each turn.
type PublicView struct {
	RoomID         string                      `json:"room_id"`
	Phase          Phase                       `json:"phase"`
	Turn           int                         `json:"turn"`
	TurnEndsAt     int64                       `json:"turn_ends_at"`
	TimerRemaining int                         `json:"timer_remaining"`
	Players        map[string]PublicPlayerView `json:"players"`
}

// PrivateView extends PublicView with the recipient's own hand. No player
// ever receives another player's hand.
type PrivateView struct {
	PublicView
	You  string     `json:"you"`
	Hand []CardType `json:"hand"`
}

// Public builds the shared view of the room as of now.
func (r *Room) Public(now time.Time) PublicView {
	players := make(map[string]PublicPlayerView, len(r.Players))
	for id, p := range r.Players {
		// copy the curse: views outlive the room lock and are marshaled
		// by the transport while later turns mutate the live value
		var curse *Curse
		if p.Curse != nil {
			c := *p.Curse
			curse = &c
		}
		players[id] = PublicPlayerView{
			Name:        p.Name,
			Character:   p.Character,
			HP:          p.HP,
			Shield:      p.Shield,
			SpecialUsed: p.SpecialUsed,
			Curse:       curse,
			Submitted:   r.Submissions[id] != nil,
			LastPlayed:  r.LastPlayed[id],
		}
	}
	remaining := int(r.TurnEndsAt.Sub(now).Seconds())
	if remaining < 0 {
		remaining = 0
	}
	return PublicView{
		RoomID:         r.ID,
		Phase:          r.Phase,
		Turn:           r.Turn,
		TurnEndsAt:     r.TurnEndsAt.UnixMilli(),
		TimerRemaining: remaining,
		Players:        players,
	}
}

// Private builds the view delivered to one recipient, including their hand.
func (r *Room) Private(playerID string, now time.Time) PrivateView {
	pv := PrivateView{PublicView: r.Public(now), You: playerID}
	if p, ok := r.Players[playerID]; ok {
		hand := make([]CardType, len(p.Hand))
		copy(hand, p.Hand)
		pv.Hand = hand
	}
	return pv
}

// Snapshot is the read-only view handed to the AI decision adapter.
type Snapshot struct {
	Turn    int
	Phase   Phase
	Players map[string]*PlayerState
}

// SnapshotFor builds the adapter snapshot with deep-copied player state so
// a decision maker can never mutate the live room.
func (r *Room) SnapshotFor() Snapshot {
	players := make(map[string]*PlayerState, len(r.Players))
	for id, p := range r.Players {
		cp := *p
		cp.Deck = append([]CardType(nil), p.Deck...)
		cp.Hand = append([]CardType(nil), p.Hand...)
		cp.Discard = append([]CardType(nil), p.Discard...)
		if p.Curse != nil {
			c := *p.Curse
			cp.Curse = &c
		}
		players[id] = &cp
	}
	return Snapshot{Turn: r.Turn, Phase: r.Phase, Players: players}
}
