package service

import (
	"time"

	"github.com/arrakeen/dune-battles/internal/constants"
	"github.com/arrakeen/dune-battles/internal/engine"
	"github.com/arrakeen/dune-battles/internal/game"
	"github.com/arrakeen/dune-battles/internal/logging"
	"github.com/arrakeen/dune-battles/internal/rules"
)

// HandleTimedOutGame applies timeout resolution for a single game.
// Behavior:
// - neither battle side submitted -> finish the match with no winner
// - exactly one side didn't submit -> auto-submit a fallback plan for it
// The fallback is the strongest ranked suggestion, so an absent player
// still fights rather than forfeiting silently.
func HandleTimedOutGame(repo GameRepo, reg *rules.Registry, gg *game.Game, actionTimeout time.Duration) error {
	if gg.Status != game.StatusInProgress || gg.Phase != game.PhasePlanning {
		return nil
	}

	finish := func(summary string) error {
		gg.Status = game.StatusFinished
		gg.Phase = game.PhaseResolved
		gg.Winner = ""
		gg.Message = "Match ended due to inactivity"
		gg.LastBattleSummary = summary
		gg.StatsCounted = true
		gg.ActionDeadline = time.Time{}
		return repo.UpdateGame(gg)
	}

	agg := gg.PlayerByFaction(gg.AggressorFaction)
	def := gg.PlayerByFaction(gg.DefenderFaction)
	if gg.BattleTerritory == "" || agg == nil || def == nil {
		return finish("no resolution was reached due to inactivity.")
	}

	switch {
	case !agg.HasSubmittedPlan && !def.HasSubmittedPlan:
		logging.Info("both sides timed out; finishing game", logging.Fields{constants.LogFieldGameID: gg.ID})
		return finish("Battle timed out: neither side submitted a plan within the allotted time.")
	case agg.HasSubmittedPlan && !def.HasSubmittedPlan:
		return autoSubmit(repo, reg, gg, def, actionTimeout)
	case !agg.HasSubmittedPlan && def.HasSubmittedPlan:
		return autoSubmit(repo, reg, gg, agg, actionTimeout)
	default:
		// shouldn't happen
		return nil
	}
}

func autoSubmit(repo GameRepo, reg *rules.Registry, gg *game.Game, p *game.Player, actionTimeout time.Duration) error {
	ctx := engine.NewContext(reg, gg)
	sector := gg.BattleSector
	sugs := engine.BuildSuggestions(ctx, p.Faction, gg.BattleTerritory, &sector)
	if len(sugs) == 0 {
		logging.Error("no fallback plan for timed-out side", nil, logging.Fields{constants.LogFieldGameID: gg.ID, constants.LogFieldFaction: p.Faction})
		return nil
	}
	logging.Info("auto-submitting fallback plan for inactive side", logging.Fields{constants.LogFieldGameID: gg.ID, constants.LogFieldFaction: p.Faction})
	_, _, _, err := SubmitPlan(repo, reg, gg.ID, p.PlayerEmail, sugs[0].Plan, actionTimeout)
	if err != nil {
		logging.Error("auto-submit of fallback plan failed", err, logging.Fields{constants.LogFieldGameID: gg.ID, constants.LogFieldFaction: p.Faction})
	}
	return err
}
