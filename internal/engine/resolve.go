package engine

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/Kit10v4/TouhouFM-Card-Battle/internal/game"
)

// ErrInvalidParticipants is returned when a room does not hold exactly two
// players at resolution time. The engine aborts without touching state.
var ErrInvalidParticipants = errors.New("room must have exactly two players at resolution")

// Result summarizes a resolved turn for the caller.
type Result struct {
	Ended   bool
	Turn    int
	FinalHP map[string]int
	// Winner is the winning player's ID, empty on a draw or when the
	// match did not end this turn.
	Winner   string
	Outcomes map[string]game.Outcome
}

// queuedEffect is a pending card effect built in step 3 and applied in
// steps 4 and 6.
type queuedEffect struct {
	kind   game.CardType
	amount int
}

// turnContext carries per-resolution scratch state. Nothing here survives
// the turn, which keeps the transient bonus/queue data off the model.
type turnContext struct {
	r     *game.Room
	rules game.Rules
	rng   *rand.Rand

	queued map[string][]queuedEffect
	bonus  map[string]int
}

func newTurnContext(r *game.Room, rules game.Rules, rng *rand.Rand) *turnContext {
	return &turnContext{
		r:      r,
		rules:  rules,
		rng:    rng,
		queued: make(map[string][]queuedEffect, 2),
		bonus:  make(map[string]int, 2),
	}
}

// ResolveTurn applies one full turn resolution to the room. The caller must
// already have flipped the room out of the play phase (the exactly-once
// guard lives in the service layer) and must hold the room lock.
//
// Steps, in order: no-play penalties, card discard + special marking,
// effect queueing, self effects, curse ticks, attacks, redraw, end check.
func ResolveTurn(r *game.Room, rules game.Rules, rng *rand.Rand) (Result, error) {
	if len(r.PlayerOrder) != 2 || len(r.Players) != 2 {
		return Result{}, ErrInvalidParticipants
	}
	tc := newTurnContext(r, rules, rng)

	tc.applyNoPlayPenalties()

	// Card playing happens in join order so resolution is deterministic.
	for _, id := range r.PlayerOrder {
		tc.playSubmission(id)
	}

	for _, id := range r.PlayerOrder {
		tc.applySelfEffects(r.Players[id])
	}
	for _, id := range r.PlayerOrder {
		tc.applyCurseTick(r.Players[id])
	}
	for _, id := range r.PlayerOrder {
		tc.applyAttacks(r.Players[id], r.Opponent(id))
	}

	for _, id := range r.PlayerOrder {
		p := r.Players[id]
		if need := rules.HandSize - len(p.Hand); need > 0 {
			game.DrawCards(p, need, rng)
		}
	}

	return tc.finishTurn(), nil
}

// applyNoPlayPenalties handles players without a usable submission. An
// explicit pass (nil card index) is treated exactly like a missed deadline.
func (tc *turnContext) applyNoPlayPenalties() {
	for _, id := range tc.r.PlayerOrder {
		sub := tc.r.Submissions[id]
		if sub != nil && sub.CardIndex != nil {
			continue
		}
		p := tc.r.Players[id]
		p.HP -= tc.rules.NoPlayPenalty
		tc.r.LastPlayed[id] = &game.PlayNote{
			Card: nil,
			Note: fmt.Sprintf("No play (-%d HP)", tc.rules.NoPlayPenalty),
		}
	}
}

// playSubmission removes the chosen card from the hand, marks special usage
// and queues the card's effect.
func (tc *turnContext) playSubmission(id string) {
	sub := tc.r.Submissions[id]
	if sub == nil || sub.CardIndex == nil {
		return
	}
	source := tc.r.Players[id]
	target := tc.r.Opponent(id)

	idx := *sub.CardIndex
	if idx < 0 || idx >= len(source.Hand) {
		// submissions are validated at intake; nothing to play
		return
	}
	cardType := source.Hand[idx]
	source.Discard = append(source.Discard, cardType)
	source.Hand = append(source.Hand[:idx], source.Hand[idx+1:]...)

	note := string(cardType)
	if sub.UseSpecial {
		if bonus, ok := tc.specialFor(source, cardType); ok {
			source.SpecialUsed = true
			tc.bonus[id] = bonus
			note += " + Special"
		} else {
			// an invalid special request is never an error
			note += " (special had no effect)"
		}
	}

	switch cardType {
	case game.CardDefend:
		tc.queue(id, game.CardDefend, tc.rules.CardValues[game.CardDefend])
	case game.CardHeal:
		if source.Cursed() {
			// Curing pays a reduced fixed amount instead of heal+bonus,
			// and the curse skips its tick this turn.
			source.Curse = nil
			tc.queue(id, game.CardHeal, tc.rules.CurseCureHeal)
		} else {
			tc.queue(id, game.CardHeal, tc.rules.CardValues[game.CardHeal]+tc.bonus[id])
		}
	case game.CardAttack:
		tc.queue(id, game.CardAttack, tc.rules.CardValues[game.CardAttack]+tc.bonus[id])
	case game.CardCurse:
		if target != nil && !target.Cursed() {
			target.Curse = &game.Curse{TurnsRemaining: tc.rules.Curse.Duration}
		}
		note += " (Curse)"
	}

	tc.r.LastPlayed[id] = &game.PlayNote{Card: &cardType, Note: note}
}

// specialFor reports whether the (character, card type) pair has a defined
// once-per-game bonus that is still available.
func (tc *turnContext) specialFor(p *game.PlayerState, card game.CardType) (int, bool) {
	if p.SpecialUsed {
		return 0, false
	}
	sp, ok := tc.rules.Specials[p.Character]
	if !ok || sp.Card != card {
		return 0, false
	}
	return sp.Bonus, true
}

func (tc *turnContext) queue(id string, kind game.CardType, amount int) {
	tc.queued[id] = append(tc.queued[id], queuedEffect{kind: kind, amount: amount})
}

// applySelfEffects applies shield and heal effects. Each only affects its
// owner, so ordering between players is irrelevant.
func (tc *turnContext) applySelfEffects(p *game.PlayerState) {
	for _, eff := range tc.queued[p.ID] {
		switch eff.kind {
		case game.CardDefend:
			p.Shield += eff.amount
		case game.CardHeal:
			p.HP += eff.amount
			if p.HP > tc.rules.HPStart {
				p.HP = tc.rules.HPStart
			}
		}
	}
}

// applyCurseTick applies the periodic curse damage and decrements the
// remaining duration. A curse cured earlier this turn no longer exists
// here, so it skips its tick.
func (tc *turnContext) applyCurseTick(p *game.PlayerState) {
	if !p.Cursed() {
		return
	}
	p.HP -= tc.rules.Curse.HPDebuff
	p.Curse.TurnsRemaining--
	if p.Curse.TurnsRemaining <= 0 {
		p.Curse = nil
	}
}

// applyAttacks deals the source's queued attacks to the target. Shield
// absorbs first; a cursed attacker hits for less, floored at zero.
func (tc *turnContext) applyAttacks(source, target *game.PlayerState) {
	if target == nil {
		return
	}
	debuff := 0
	if source.Cursed() {
		debuff = tc.rules.Curse.AtkDebuff
	}
	for _, eff := range tc.queued[source.ID] {
		if eff.kind != game.CardAttack {
			continue
		}
		amount := eff.amount - debuff
		if amount < 0 {
			amount = 0
		}
		dealDamage(target, amount)
	}
}

func dealDamage(target *game.PlayerState, amount int) {
	absorbed := amount
	if target.Shield < absorbed {
		absorbed = target.Shield
	}
	target.Shield -= absorbed
	target.HP -= amount - absorbed
}

// finishTurn clamps hit points, evaluates the end condition and builds the
// Result. Transient queue/bonus state dies with the turn context.
func (tc *turnContext) finishTurn() Result {
	res := Result{
		Turn:     tc.r.Turn,
		FinalHP:  make(map[string]int, 2),
		Outcomes: make(map[string]game.Outcome, 2),
	}

	someoneDead := false
	for _, id := range tc.r.PlayerOrder {
		p := tc.r.Players[id]
		if p.HP <= 0 {
			p.HP = 0
			someoneDead = true
		}
		res.FinalHP[id] = p.HP
	}

	if !someoneDead && tc.r.Turn < tc.rules.TurnLimit {
		return res
	}

	res.Ended = true
	a := tc.r.Players[tc.r.PlayerOrder[0]]
	b := tc.r.Players[tc.r.PlayerOrder[1]]
	switch {
	case a.HP > b.HP:
		res.Winner = a.ID
		res.Outcomes[a.ID] = game.OutcomeWin
		res.Outcomes[b.ID] = game.OutcomeLoss
	case b.HP > a.HP:
		res.Winner = b.ID
		res.Outcomes[b.ID] = game.OutcomeWin
		res.Outcomes[a.ID] = game.OutcomeLoss
	default:
		res.Outcomes[a.ID] = game.OutcomeDraw
		res.Outcomes[b.ID] = game.OutcomeDraw
	}
	return res
}
