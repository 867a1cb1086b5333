package engine

import (
	"fmt"

	"github.com/arrakeen/dune-battles/internal/game"
)

// TraitorCall is one faction's announcement that the opposing committed
// leader is its traitor.
type TraitorCall struct {
	CalledBy game.Faction
	LeaderID string
}

// validTraitorCalls filters the announced calls down to the ones that
// actually bind: the named leader must be the one the opponent committed
// and the caller must hold the matching traitor card.
func validTraitorCalls(ctx *Context, in Input) []TraitorCall {
	valid := make([]TraitorCall, 0, 2)
	for _, call := range in.TraitorCalls {
		var opposing game.BattlePlan
		switch call.CalledBy {
		case in.Aggressor:
			opposing = in.DefenderPlan
		case in.Defender:
			opposing = in.AggressorPlan
		default:
			continue
		}
		if call.LeaderID == "" || opposing.LeaderID != call.LeaderID {
			continue
		}
		if !ctx.HoldsTraitor(call.CalledBy, call.LeaderID) {
			continue
		}
		valid = append(valid, call)
	}
	return valid
}

// resolveTraitor overrides normal resolution after one or two traitor
// reveals. A single reveal wins unconditionally: the revealer loses
// nothing, keeps both played cards, the opposing leader dies and its
// strength is paid to the revealer in spice, and the opposing side loses
// everything it had in the territory. When both committed leaders are
// traitors nobody wins: both sides lose everything, both leaders die,
// every played card is discarded and no spice moves. That asymmetry with
// the single-reveal payout is the rule, not an oversight.
func resolveTraitor(ctx *Context, in Input, calls []TraitorCall) *game.BattleResult {
	res := &game.BattleResult{
		Territory:       in.Territory,
		Sector:          in.Sector,
		TraitorRevealed: true,
		SpicePayouts:    []game.SpicePayout{},
	}

	if len(calls) >= 2 {
		res.TwoTraitors = true
		res.Aggressor = traitorSideResult(ctx, in.Territory, in.Aggressor, in.AggressorPlan, false)
		res.Defender = traitorSideResult(ctx, in.Territory, in.Defender, in.DefenderPlan, false)
		res.Summary = fmt.Sprintf(
			"Both leaders were traitors in %s: all forces on both sides are lost, both leaders are killed and nobody is paid.",
			in.Territory)
		return res
	}

	call := calls[0]
	res.TraitorRevealedBy = call.CalledBy

	winnerPlan, loserPlan := in.AggressorPlan, in.DefenderPlan
	loser := in.Defender
	if call.CalledBy == in.Defender {
		winnerPlan, loserPlan = in.DefenderPlan, in.AggressorPlan
		loser = in.Aggressor
	}
	res.Winner = call.CalledBy
	res.Loser = loser

	winSide := traitorSideResult(ctx, in.Territory, call.CalledBy, winnerPlan, true)
	loseSide := traitorSideResult(ctx, in.Territory, loser, loserPlan, false)

	if l, ok := ctx.Rules.Leader(call.LeaderID); ok && l.Strength > 0 {
		res.SpicePayouts = append(res.SpicePayouts, game.SpicePayout{
			Faction: call.CalledBy,
			Amount:  l.Strength,
			Reason:  fmt.Sprintf("%s revealed as a traitor in %s", l.Name, in.Territory),
		})
	}

	if call.CalledBy == in.Aggressor {
		res.Aggressor, res.Defender = winSide, loseSide
	} else {
		res.Aggressor, res.Defender = loseSide, winSide
	}
	res.Summary = fmt.Sprintf(
		"%s revealed %s as a traitor in %s and wins without losses; %s loses every force in the territory.",
		call.CalledBy, call.LeaderID, in.Territory, loser)
	return res
}

// traitorSideResult builds one side's result under a traitor outcome.
// The revealer loses nothing and keeps its cards; everyone else loses all
// territory forces, their leader, and every played card.
func traitorSideResult(ctx *Context, territory string, f game.Faction, plan game.BattlePlan, revealer bool) game.BattleSideResult {
	side := game.BattleSideResult{
		Faction:             f,
		ForcesDialed:        plan.ForcesDialed,
		SpiceDialed:         planSpice(plan),
		LeaderID:            plan.LeaderID,
		CheapHero:           plan.CheapHero,
		UsedKwisatzHaderach: plan.UseKwisatzHaderach,
		WeaponID:            plan.WeaponID,
		DefenseID:           plan.DefenseID,
		CardsToDiscard:      []string{},
		CardsToKeep:         []string{},
	}
	if revealer {
		side.ForcesLost = 0
		if plan.LeaderID != "" {
			if l, ok := ctx.Rules.Leader(plan.LeaderID); ok {
				side.LeaderStrength = l.Strength
			}
		}
		// Winner's choice: both played cards stay in hand, even ones that
		// would normally be spent. A played cheap hero is still consumed.
		if plan.WeaponID != "" {
			side.CardsToKeep = append(side.CardsToKeep, plan.WeaponID)
		}
		if plan.DefenseID != "" {
			side.CardsToKeep = append(side.CardsToKeep, plan.DefenseID)
		}
		if plan.CheapHero {
			if id := ctx.CheapHeroCard(f); id != "" {
				side.CardsToDiscard = append(side.CardsToDiscard, id)
			}
		}
		return side
	}
	side.ForcesLost = ctx.BattlingForces(f, territory, nil)
	side.LeaderKilled = plan.HasCommander()
	discard, _ := cardFates(ctx, f, plan, true)
	side.CardsToDiscard = discard
	return side
}
