package engine

import (
	"fmt"

	"github.com/arrakeen/dune-battles/internal/game"
)

// leaderPayouts computes the spice owed to the battle's winner for every
// leader killed on either side, the winner's own included. Cheap heroes
// are not leaders and pay nothing. Explosion and double-traitor outcomes
// never reach this function: nobody is paid there.
func leaderPayouts(ctx *Context, territory string, winner game.Faction, sides ...*game.BattleSideResult) []game.SpicePayout {
	payouts := []game.SpicePayout{}
	if winner == "" {
		return payouts
	}
	for _, s := range sides {
		if s == nil || !s.LeaderKilled || s.LeaderID == "" {
			continue
		}
		l, ok := ctx.Rules.Leader(s.LeaderID)
		if !ok || l.Strength <= 0 {
			continue
		}
		payouts = append(payouts, game.SpicePayout{
			Faction: winner,
			Amount:  l.Strength,
			Reason:  fmt.Sprintf("%s killed in battle for %s", l.Name, territory),
		})
	}
	return payouts
}
