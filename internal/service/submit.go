package service

import (
	"time"

	"github.com/Kit10v4/TouhouFM-Card-Battle/internal/constants"
	"github.com/Kit10v4/TouhouFM-Card-Battle/internal/game"
	"github.com/Kit10v4/TouhouFM-Card-Battle/internal/logging"
)

// SubmitDeck validates and installs a player's deck, draws the opening
// hand and starts the first turn once every participant is ready. A
// rejected deck leaves the player in the deckbuild phase awaiting
// resubmission.
func (h *Hub) SubmitDeck(playerID string, cards []game.CardType) error {
	rm, ok := h.registry.roomOf(playerID)
	if !ok {
		return ErrNotInRoom
	}
	rm.mu.Lock()
	defer rm.mu.Unlock()
	if rm.closed {
		return ErrNotInRoom
	}
	if rm.Phase != game.PhaseDeckbuild {
		h.notifier.Send(playerID, constants.MsgError, ErrorPayload{Message: constants.ErrDeckWhileNotInDeckb})
		return ErrWrongPhase
	}
	p, ok := rm.Players[playerID]
	if !ok {
		return ErrNotInRoom
	}

	if err := game.ValidateDeck(cards, h.rules.DeckMax, h.rules.TypeLimit); err != nil {
		h.notifier.Send(playerID, constants.MsgDeckRejected, DeckRejectedPayload{Reason: err.Error()})
		return err
	}

	p.Deck = game.NewDeckFromList(cards, rm.rng)
	p.Hand = nil
	p.Discard = nil
	p.HP = h.rules.HPStart
	p.Shield = 0
	p.SpecialUsed = false
	p.Curse = nil
	game.DrawCards(p, h.rules.HandSize, rm.rng)
	p.DeckReady = true

	h.notifier.Send(playerID, constants.MsgDeckAccepted, nil)
	h.notifier.Send(playerID, constants.MsgTurnState, rm.Private(playerID, time.Now()))

	for _, id := range rm.PlayerOrder {
		if !rm.Players[id].DeckReady {
			return nil
		}
	}
	h.startTurnLocked(rm)
	return nil
}

// Play records a player's sealed submission for the current turn. A nil
// cardIndex is an explicit pass. When the submission count reaches the
// player count, resolution triggers immediately, independent of the
// deadline timer.
func (h *Hub) Play(playerID string, cardIndex *int, useSpecial bool) error {
	rm, ok := h.registry.roomOf(playerID)
	if !ok {
		// unknown room: silently dropped
		return ErrNotInRoom
	}
	rm.mu.Lock()
	defer rm.mu.Unlock()
	if rm.closed {
		return ErrNotInRoom
	}
	if rm.Phase != game.PhasePlay {
		h.notifier.Send(playerID, constants.MsgError, ErrorPayload{Message: constants.ErrWrongPhase})
		return ErrWrongPhase
	}
	p, ok := rm.Players[playerID]
	if !ok {
		return ErrNotInRoom
	}
	if rm.Submissions[playerID] != nil {
		h.notifier.Send(playerID, constants.MsgError, ErrorPayload{Message: constants.ErrAlreadySubmitted})
		return ErrAlreadySubmitted
	}
	if cardIndex != nil && (*cardIndex < 0 || *cardIndex >= len(p.Hand)) {
		h.notifier.Send(playerID, constants.MsgError, ErrorPayload{Message: constants.ErrInvalidCardIndex})
		return ErrInvalidCardIndex
	}

	rm.Submissions[playerID] = &game.Submission{CardIndex: cardIndex, UseSpecial: useSpecial}
	logging.Debug("submission stored", logging.Fields{
		constants.LogFieldRoomID:   rm.ID,
		constants.LogFieldPlayerID: playerID,
		constants.LogFieldTurn:     rm.Turn,
	})

	// Only the fact of submission is broadcast; the chosen card stays
	// hidden until resolution.
	for _, id := range rm.humanIDsLocked("") {
		h.notifier.Send(id, constants.MsgSubmitted, SubmittedPayload{Player: playerID})
	}

	if len(rm.Submissions) == len(rm.Players) {
		h.resolveLocked(rm)
	}
	return nil
}
