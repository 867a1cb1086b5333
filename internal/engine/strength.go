package engine

import (
	"errors"
	"math"

	"github.com/arrakeen/dune-battles/internal/game"
	"github.com/arrakeen/dune-battles/internal/logging"
)

const (
	// KwisatzHaderachBonus is added to a side's total when the Kwisatz
	// Haderach is committed and that side's leader survives.
	KwisatzHaderachBonus = 2
	// KwisatzHaderachThreshold is the total battle casualties Atreides
	// must accumulate before the Kwisatz Haderach can be used.
	KwisatzHaderachThreshold = 7
)

var errMalformedStrength = errors.New("malformed strength value")

// EliteSplit decides how many of the dialed forces are elite. Elites are
// dialed before regular forces. This is a policy of this implementation,
// not a rule of the game; it lives in one named function so it can be
// swapped without touching the rest of the strength math.
func EliteSplit(stack game.ForceStack, dialed int) (elite, regular int) {
	if dialed < 0 {
		dialed = 0
	}
	elite = stack.Elite
	if dialed < elite {
		elite = dialed
	}
	regular = dialed - elite
	return elite, regular
}

// DialedStrength converts a dialed force count into battle strength.
// Elite forces count double, except the Emperor's Sardaukar fighting the
// Fremen, which count single.
func DialedStrength(stack game.ForceStack, dialed int, owner, opponent game.Faction) float64 {
	elite, regular := EliteSplit(stack, dialed)
	mult := 2.0
	if owner == game.FactionEmperor && opponent == game.FactionFremen {
		mult = 1.0
	}
	return clampStrength(float64(regular) + mult*float64(elite))
}

// SpicedStrength layers the advanced spice-dialing rule on top of a base
// dialed strength: forces backed one-for-one by spice fight at full
// value, unsupported forces at half. Fractional totals are legal. The
// Fremen are exempt and always fight at full value.
func SpicedStrength(base float64, dialed, spiceDialed int, owner game.Faction) float64 {
	base = clampStrength(base)
	if owner == game.FactionFremen || dialed <= 0 {
		return base
	}
	if spiceDialed < 0 {
		spiceDialed = 0
	}
	spiced := spiceDialed
	if spiced > dialed {
		spiced = dialed
	}
	frac := float64(spiced) / float64(dialed)
	return clampStrength(base * (frac + (1-frac)*0.5))
}

// clampStrength normalizes malformed numeric values to zero instead of
// letting them corrupt a battle total. Upstream force data has been
// unreliable enough historically to warrant the guard; each clamp is
// logged so bad data stays visible.
func clampStrength(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		logging.Error("clamped non-finite strength to zero", errMalformedStrength, nil)
		return 0
	}
	if v < 0 {
		logging.Error("clamped negative strength to zero", errMalformedStrength, logging.Fields{"value": v})
		return 0
	}
	return v
}

// sideStrength computes one side's full battle total: dialed-force
// strength (spice-adjusted under advanced rules), surviving leader
// strength and the Kwisatz Haderach bonus.
func sideStrength(ctx *Context, territory string, f, opponent game.Faction, plan game.BattlePlan, leaderKilled bool) float64 {
	stack := ctx.TerritoryStack(f, territory)
	total := DialedStrength(stack, plan.ForcesDialed, f, opponent)
	if ctx.AdvancedRules() && plan.SpiceDialed != nil {
		total = SpicedStrength(total, plan.ForcesDialed, *plan.SpiceDialed, f)
	}
	if plan.LeaderID != "" && !leaderKilled {
		if l, ok := ctx.Rules.Leader(plan.LeaderID); ok {
			total += float64(l.Strength)
		}
	}
	if plan.UseKwisatzHaderach && !leaderKilled {
		total += KwisatzHaderachBonus
	}
	return clampStrength(total)
}
