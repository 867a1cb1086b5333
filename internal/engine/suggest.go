package engine

import (
	"fmt"
	"sort"

	"github.com/arrakeen/dune-battles/internal/game"
)

// BuildSuggestions assembles ready-to-submit alternative plans for a
// faction whose proposal failed validation, ranked strongest first. The
// variants are deliberately simple: strongest leader with everything
// dialed, a conservative half dial, and the cheap-hero or
// no-leader fallback when the pool is empty.
func BuildSuggestions(ctx *Context, f game.Faction, territory string, sector *int) []game.BattlePlanSuggestion {
	available := ctx.BattlingForces(f, territory, sector)
	playable := ctx.PlayableLeaders(f, territory)
	heroCard := ctx.CheapHeroCard(f)

	out := make([]game.BattlePlanSuggestion, 0, 3)

	if len(playable) > 0 {
		best := playable[0]
		out = append(out, game.BattlePlanSuggestion{
			Description:       fmt.Sprintf("commit %s with all %d forces", best.Name, available),
			Plan:              game.BattlePlan{ForcesDialed: available, LeaderID: best.ID},
			EstimatedStrength: float64(available + best.Strength),
		})
		half := available / 2
		out = append(out, game.BattlePlanSuggestion{
			Description:       fmt.Sprintf("hold back: %s with %d forces", best.Name, half),
			Plan:              game.BattlePlan{ForcesDialed: half, LeaderID: best.ID},
			EstimatedStrength: float64(half + best.Strength),
		})
	} else if heroCard != "" {
		out = append(out, game.BattlePlanSuggestion{
			Description:       fmt.Sprintf("no leader available: play the cheap hero with all %d forces", available),
			Plan:              game.BattlePlan{ForcesDialed: available, CheapHero: true},
			EstimatedStrength: float64(available),
		})
	} else {
		out = append(out, game.BattlePlanSuggestion{
			Description:       fmt.Sprintf("no leader or cheap hero: declare it and dial all %d forces", available),
			Plan:              game.BattlePlan{ForcesDialed: available, NoLeaderDeclared: true},
			EstimatedStrength: float64(available),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].EstimatedStrength > out[j].EstimatedStrength
	})
	return out
}
