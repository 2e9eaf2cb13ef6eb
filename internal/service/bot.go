package service

import (
	"time"

	"github.com/Kit10v4/TouhouFM-Card-Battle/internal/ai"
	"github.com/Kit10v4/TouhouFM-Card-Battle/internal/constants"
	"github.com/Kit10v4/TouhouFM-Card-Battle/internal/game"
	"github.com/Kit10v4/TouhouFM-Card-Battle/internal/logging"
)

// scheduleBotPlayLocked snapshots the room for the decision maker and
// arms the thinking delay. The bot submits through the ordinary
// submission path after the delay, so AI and human actions resolve
// identically. Callers must hold rm.mu.
func (h *Hub) scheduleBotPlayLocked(rm *room) {
	if rm.bot == nil {
		return
	}
	snap := rm.SnapshotFor()
	bot := rm.bot
	roomID, turn, botID := rm.ID, rm.Turn, rm.botID

	// The bot timer is independent of the deadline timer; a fire after
	// teardown or resolution is a harmless no-op.
	time.AfterFunc(bot.ThinkingDelay(), func() {
		dec := safeDecide(bot, snap, botID)
		h.submitBotDecision(roomID, turn, botID, dec)
	})
}

// safeDecide shields the state machine from a misbehaving decision maker:
// a panic degrades to the safe default play.
func safeDecide(dm ai.DecisionMaker, snap game.Snapshot, selfID string) (dec ai.Decision) {
	defer func() {
		if r := recover(); r != nil {
			logging.Error("ai decision maker panicked", nil, logging.Fields{constants.LogFieldReason: r})
			dec = ai.Decision{CardIndex: 0, UseSpecial: false}
		}
	}()
	return dm.Decide(snap, selfID)
}

// submitBotDecision validates the adapter's output against the live hand
// and stores it as an ordinary submission. An out-of-range index is
// replaced with the safe default rather than surfaced as an error.
func (h *Hub) submitBotDecision(roomID string, turn int, botID string, dec ai.Decision) {
	rm, ok := h.registry.lookup(roomID)
	if !ok {
		return
	}
	rm.mu.Lock()
	defer rm.mu.Unlock()
	if rm.closed || rm.Phase != game.PhasePlay || rm.Turn != turn {
		return
	}
	if rm.Submissions[botID] != nil {
		return
	}
	bot, ok := rm.Players[botID]
	if !ok {
		return
	}

	idx := dec.CardIndex
	useSpecial := dec.UseSpecial
	if idx < 0 || idx >= len(bot.Hand) {
		idx = 0
		useSpecial = false
	}
	var cardIndex *int
	if len(bot.Hand) > 0 {
		cardIndex = &idx
	}

	rm.Submissions[botID] = &game.Submission{CardIndex: cardIndex, UseSpecial: useSpecial}
	for _, id := range rm.humanIDsLocked("") {
		h.notifier.Send(id, constants.MsgSubmitted, SubmittedPayload{Player: botID})
	}
	if len(rm.Submissions) == len(rm.Players) {
		h.resolveLocked(rm)
	}
}
