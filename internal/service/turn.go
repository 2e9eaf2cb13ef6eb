package service

import (
	"time"

	"github.com/Kit10v4/TouhouFM-Card-Battle/internal/constants"
	"github.com/Kit10v4/TouhouFM-Card-Battle/internal/engine"
	"github.com/Kit10v4/TouhouFM-Card-Battle/internal/game"
	"github.com/Kit10v4/TouhouFM-Card-Battle/internal/logging"
)

// deadlineSlack gives in-flight submissions a short grace period before
// the deadline trigger fires.
const deadlineSlack = 50 * time.Millisecond

// startTurnLocked moves the room into the play phase: bumps the turn
// counter, clears the previous turn's submissions and notes, replaces the
// deadline timer and broadcasts fresh state. Callers must hold rm.mu.
func (h *Hub) startTurnLocked(rm *room) {
	rm.Phase = game.PhasePlay
	rm.Turn++
	rm.Submissions = make(map[string]*game.Submission, len(rm.Players))
	rm.LastPlayed = make(map[string]*game.PlayNote, len(rm.Players))
	turnDuration := time.Duration(h.rules.TurnSeconds) * time.Second
	rm.TurnEndsAt = time.Now().Add(turnDuration)

	// A stale timer from the previous turn must never fire against this
	// one: replace it before arming the new deadline.
	rm.stopTimerLocked()
	roomID, turn := rm.ID, rm.Turn
	rm.timer = time.AfterFunc(turnDuration+deadlineSlack, func() {
		h.handleDeadline(roomID, turn)
	})

	h.broadcastStateLocked(rm)
	logging.Debug("turn started", logging.Fields{
		constants.LogFieldRoomID: rm.ID,
		constants.LogFieldTurn:   rm.Turn,
	})

	if rm.Room.IsAIGame {
		h.scheduleBotPlayLocked(rm)
	}
}

// handleDeadline is the timer-side resolution trigger. It re-checks the
// room, turn and phase under the lock; a stale or raced trigger is a
// no-op.
func (h *Hub) handleDeadline(roomID string, turn int) {
	rm, ok := h.registry.lookup(roomID)
	if !ok {
		return
	}
	rm.mu.Lock()
	defer rm.mu.Unlock()
	if rm.closed || rm.Turn != turn || rm.Phase != game.PhasePlay {
		return
	}
	logging.Debug("turn deadline elapsed", logging.Fields{
		constants.LogFieldRoomID: roomID,
		constants.LogFieldTurn:   turn,
	})
	h.resolveLocked(rm)
}

// resolveLocked resolves the current turn. The phase check-and-flip is the
// first, synchronous action: whichever trigger (deadline timer or final
// submission) gets here first wins, and any later trigger observes a
// non-play phase and backs off. No suspension point occurs between the
// check and the flip, so resolution happens exactly once per turn.
// Callers must hold rm.mu.
func (h *Hub) resolveLocked(rm *room) {
	if rm.Phase != game.PhasePlay {
		return
	}
	rm.Phase = game.PhaseResolve
	rm.stopTimerLocked()

	res, err := engine.ResolveTurn(rm.Room, h.rules, rm.rng)
	if err != nil {
		// Inconsistent participant count: abort without touching player
		// state and flag the room for teardown.
		logging.Error("resolution aborted", err, logging.Fields{
			constants.LogFieldRoomID: rm.ID,
			constants.LogFieldTurn:   rm.Turn,
		})
		h.teardownLocked(rm)
		return
	}

	h.broadcastStateLocked(rm)

	if res.Ended {
		h.finishGameLocked(rm, res)
		return
	}

	// Settle delay before the next turn so clients can animate the
	// resolution.
	roomID, turn := rm.ID, rm.Turn
	rm.timer = time.AfterFunc(time.Duration(h.rules.SettleDelayMS)*time.Millisecond, func() {
		h.startNextTurn(roomID, turn)
	})
}

// startNextTurn is the settle-delay callback.
func (h *Hub) startNextTurn(roomID string, afterTurn int) {
	rm, ok := h.registry.lookup(roomID)
	if !ok {
		return
	}
	rm.mu.Lock()
	defer rm.mu.Unlock()
	if rm.closed || rm.Phase != game.PhaseResolve || rm.Turn != afterTurn {
		return
	}
	h.startTurnLocked(rm)
}

// finishGameLocked emits the final result, records outcomes for human
// participants and tears the room down. Callers must hold rm.mu.
func (h *Hub) finishGameLocked(rm *room, res engine.Result) {
	rm.Phase = game.PhaseEnd

	payload := RoundEndPayload{FinalHP: res.FinalHP, Turn: res.Turn, Winner: res.Winner}
	humans := rm.humanIDsLocked("")
	vsAI := rm.Room.IsAIGame
	for _, id := range humans {
		h.notifier.Send(id, constants.MsgRoundEnd, payload)
	}
	for _, id := range humans {
		outcome := res.Outcomes[id]
		if err := h.stats.RecordOutcome(rm.Players[id].Name, outcome, vsAI); err != nil {
			logging.Error("failed to record outcome", err, logging.Fields{
				constants.LogFieldRoomID:     rm.ID,
				constants.LogFieldPlayerName: rm.Players[id].Name,
			})
		}
	}

	h.teardownLocked(rm)
	logging.Info("game finished", logging.Fields{
		constants.LogFieldRoomID: rm.ID,
		constants.LogFieldTurn:   res.Turn,
	})
}

// broadcastStateLocked sends each human participant their private view:
// the public battle state plus their own hand, never anyone else's.
func (h *Hub) broadcastStateLocked(rm *room) {
	now := time.Now()
	for _, id := range rm.PlayerOrder {
		if rm.Players[id].IsBot {
			continue
		}
		h.notifier.Send(id, constants.MsgTurnState, rm.Private(id, now))
	}
}
