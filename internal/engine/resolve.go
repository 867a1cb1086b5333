package engine

import (
	"fmt"
	"strings"

	"github.com/arrakeen/dune-battles/internal/game"
)

// Input is everything a single battle resolution needs. Plans are
// assumed to have passed validation; resolution never fails on
// well-formed input.
type Input struct {
	Territory     string
	Sector        int
	Aggressor     game.Faction
	Defender      game.Faction
	AggressorPlan game.BattlePlan
	DefenderPlan  game.BattlePlan
	TraitorCalls  []TraitorCall
}

// Resolve is the single public resolution entry point. Order matters:
// traitor reveals override everything, then weapons are matched, then
// the lasgun/shield explosion short-circuits, and only then do strength
// totals decide a winner. Ties go to the aggressor; that tie-break is
// load-bearing and must not change.
func Resolve(ctx *Context, in Input) *game.BattleResult {
	if calls := validTraitorCalls(ctx, in); len(calls) > 0 {
		return resolveTraitor(ctx, in, calls)
	}

	aggAttack := ResolveWeapon(ctx.Rules, in.AggressorPlan.WeaponID, in.DefenderPlan.DefenseID, in.DefenderPlan.HasCommander())
	defAttack := ResolveWeapon(ctx.Rules, in.DefenderPlan.WeaponID, in.AggressorPlan.DefenseID, in.AggressorPlan.HasCommander())

	if DetectExplosion(ctx.Rules, in.AggressorPlan, in.DefenderPlan) {
		return resolveExplosion(ctx, in)
	}

	aggKilled := defAttack.LeaderKilled
	defKilled := aggAttack.LeaderKilled

	aggTotal := sideStrength(ctx, in.Territory, in.Aggressor, in.Defender, in.AggressorPlan, aggKilled)
	defTotal := sideStrength(ctx, in.Territory, in.Defender, in.Aggressor, in.DefenderPlan, defKilled)

	aggWon := aggTotal >= defTotal

	res := &game.BattleResult{
		Territory: in.Territory,
		Sector:    in.Sector,
	}
	res.Aggressor = buildSideResult(ctx, in.Territory, in.Aggressor, in.AggressorPlan, aggKilled, aggAttack.WeaponEffective, defAttack.DefenseEffective, aggTotal, aggWon)
	res.Defender = buildSideResult(ctx, in.Territory, in.Defender, in.DefenderPlan, defKilled, defAttack.WeaponEffective, aggAttack.DefenseEffective, defTotal, !aggWon)

	if aggWon {
		res.Winner, res.Loser = in.Aggressor, in.Defender
		res.WinnerTotal, res.LoserTotal = aggTotal, defTotal
	} else {
		res.Winner, res.Loser = in.Defender, in.Aggressor
		res.WinnerTotal, res.LoserTotal = defTotal, aggTotal
	}
	res.SpicePayouts = leaderPayouts(ctx, in.Territory, res.Winner, &res.Aggressor, &res.Defender)
	res.Summary = normalSummary(in, res, aggWon)
	return res
}

// resolveExplosion handles the lasgun/shield detonation: it pre-empts
// everything else. Both sides lose every force in the territory, both
// committed leaders die, every played card is discarded and no spice
// moves.
func resolveExplosion(ctx *Context, in Input) *game.BattleResult {
	res := &game.BattleResult{
		Territory:             in.Territory,
		Sector:                in.Sector,
		LasgunShieldExplosion: true,
		SpicePayouts:          []game.SpicePayout{},
	}
	res.Aggressor = explosionSideResult(ctx, in.Territory, in.Aggressor, in.AggressorPlan)
	res.Defender = explosionSideResult(ctx, in.Territory, in.Defender, in.DefenderPlan)
	res.Summary = fmt.Sprintf(
		"Lasgun and shield met in %s: the territory is annihilated, both sides lose every force and leader, and nobody is paid.",
		in.Territory)
	return res
}

func explosionSideResult(ctx *Context, territory string, f game.Faction, plan game.BattlePlan) game.BattleSideResult {
	discard, _ := cardFates(ctx, f, plan, true)
	return game.BattleSideResult{
		Faction:             f,
		ForcesDialed:        plan.ForcesDialed,
		SpiceDialed:         planSpice(plan),
		ForcesLost:          ctx.BattlingForces(f, territory, nil),
		LeaderID:            plan.LeaderID,
		CheapHero:           plan.CheapHero,
		LeaderKilled:        plan.HasCommander(),
		UsedKwisatzHaderach: plan.UseKwisatzHaderach,
		WeaponID:            plan.WeaponID,
		DefenseID:           plan.DefenseID,
		CardsToDiscard:      discard,
		CardsToKeep:         []string{},
	}
}

// buildSideResult assembles one side's outcome under normal resolution.
func buildSideResult(ctx *Context, territory string, f game.Faction, plan game.BattlePlan, leaderKilled, weaponEffective, defenseEffective bool, total float64, won bool) game.BattleSideResult {
	discard, keep := cardFates(ctx, f, plan, !won)
	side := game.BattleSideResult{
		Faction:             f,
		ForcesDialed:        plan.ForcesDialed,
		SpiceDialed:         planSpice(plan),
		ForcesLost:          ForcesLost(won, plan.ForcesDialed, ctx.BattlingForces(f, territory, nil)),
		LeaderID:            plan.LeaderID,
		CheapHero:           plan.CheapHero,
		LeaderKilled:        leaderKilled,
		UsedKwisatzHaderach: plan.UseKwisatzHaderach,
		WeaponID:            plan.WeaponID,
		DefenseID:           plan.DefenseID,
		WeaponEffective:     weaponEffective,
		DefenseEffective:    defenseEffective,
		CardsToDiscard:      discard,
		CardsToKeep:         keep,
		Total:               total,
	}
	if plan.LeaderID != "" && !leaderKilled {
		if l, ok := ctx.Rules.Leader(plan.LeaderID); ok {
			side.LeaderStrength = l.Strength
		}
	}
	return side
}

func planSpice(plan game.BattlePlan) int {
	if plan.SpiceDialed == nil || *plan.SpiceDialed < 0 {
		return 0
	}
	return *plan.SpiceDialed
}

func normalSummary(in Input, res *game.BattleResult, aggWon bool) string {
	lines := make([]string, 0, 4)
	lines = append(lines, fmt.Sprintf("Battle for %s: %s %.1f vs %s %.1f.",
		in.Territory, in.Aggressor, res.Aggressor.Total, in.Defender, res.Defender.Total))
	if aggWon && res.Aggressor.Total == res.Defender.Total {
		lines = append(lines, "Tied totals favor the aggressor.")
	}
	for _, s := range []*game.BattleSideResult{&res.Aggressor, &res.Defender} {
		if s.LeaderKilled && s.LeaderID != "" {
			lines = append(lines, fmt.Sprintf("%s's leader %s was killed.", s.Faction, s.LeaderID))
		}
	}
	lines = append(lines, fmt.Sprintf("%s wins and loses the %d forces dialed; %s loses all %d forces in the territory.",
		res.Winner, res.Side(res.Winner).ForcesLost, res.Loser, res.Side(res.Loser).ForcesLost))
	return strings.Join(lines, " ")
}
