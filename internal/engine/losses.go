package engine

import (
	"github.com/arrakeen/dune-battles/internal/game"
)

// ForcesLost returns what a side removes from the territory after a
// normal resolution. The winner loses exactly what it dialed; the loser
// loses every force it had in the territory, not merely its dial. The
// full territory count must be threaded through by the caller; reusing
// the dialed count here is the classic mistake this function exists to
// prevent.
func ForcesLost(won bool, dialed, territoryForces int) int {
	if dialed < 0 {
		dialed = 0
	}
	if territoryForces < 0 {
		territoryForces = 0
	}
	if won {
		if dialed > territoryForces {
			return territoryForces
		}
		return dialed
	}
	return territoryForces
}

// cardFates splits a side's played treachery cards into discards and
// keeps. Losers discard everything they played; winners keep their cards
// unless the card definition marks it discard-after-use. Cheap heroes are
// spent by playing them regardless of the outcome.
func cardFates(ctx *Context, f game.Faction, plan game.BattlePlan, lost bool) (discard, keep []string) {
	discard = []string{}
	keep = []string{}
	place := func(id string, alwaysDiscard bool) {
		if id == "" {
			return
		}
		if lost || alwaysDiscard {
			discard = append(discard, id)
			return
		}
		keep = append(keep, id)
	}
	for _, id := range []string{plan.WeaponID, plan.DefenseID} {
		always := false
		if c, ok := ctx.Rules.Card(id); ok {
			always = c.DiscardAfterUse
		}
		place(id, always)
	}
	if plan.CheapHero {
		if id := ctx.CheapHeroCard(f); id != "" {
			place(id, true)
		}
	}
	return discard, keep
}
