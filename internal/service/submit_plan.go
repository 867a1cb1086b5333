package service

import (
	"errors"
	"time"

	"github.com/arrakeen/dune-battles/internal/constants"
	"github.com/arrakeen/dune-battles/internal/engine"
	"github.com/arrakeen/dune-battles/internal/game"
	"github.com/arrakeen/dune-battles/internal/logging"
	"github.com/arrakeen/dune-battles/internal/rules"
)

// GameRepo is the minimal repository interface required by the battle
// services. Using a small interface simplifies testing.
type GameRepo interface {
	GetGameByID(id uint) (*game.Game, error)
	UpdateGame(g *game.Game) error
	UpdateStatsOnGameEnd(g *game.Game, resignedEmail string) error
	SaveBattleReport(r *game.BattleReport) error
}

var (
	ErrGameNotFound        = errors.New("game not found")
	ErrGameNotInProgress   = errors.New("game is not in progress")
	ErrPlansLocked         = errors.New("plans are locked; resolving current battle")
	ErrNoBattleInProgress  = errors.New("no battle in progress")
	ErrPlayerNotInGame     = errors.New("player not in game")
	ErrNotBattleSide       = errors.New("faction is not part of this battle")
	ErrPlanRejected        = errors.New("battle plan failed validation")
	ErrPlanAlreadyInPlace = errors.New("battle plan already submitted")
)

// SubmitPlan validates and stores one side's battle plan, then resolves
// the battle once both sides are in. Returns the updated game, the
// validation outcome, and whether the battle was resolved. A rejected
// plan returns ErrPlanRejected with the full validation result attached.
func SubmitPlan(repo GameRepo, reg *rules.Registry, gameID uint, playerEmail string, plan game.BattlePlan, actionTimeout time.Duration) (*game.Game, *game.ValidationResult, bool, error) {
	g, err := repo.GetGameByID(gameID)
	if err != nil || g == nil {
		return nil, nil, false, ErrGameNotFound
	}
	if g.Status != game.StatusInProgress {
		return nil, nil, false, ErrGameNotInProgress
	}
	if g.Phase != game.PhasePlanning {
		return nil, nil, false, ErrPlansLocked
	}
	if g.BattleTerritory == "" {
		return nil, nil, false, ErrNoBattleInProgress
	}

	p := g.PlayerByEmail(playerEmail)
	if p == nil {
		return nil, nil, false, ErrPlayerNotInGame
	}
	f := p.Faction
	if f != g.AggressorFaction && f != g.DefenderFaction {
		return nil, nil, false, ErrNotBattleSide
	}
	if p.HasSubmittedPlan {
		return nil, nil, false, ErrPlanAlreadyInPlace
	}

	ctx := engine.NewContext(reg, g)
	sector := g.BattleSector
	vr := engine.Validate(ctx, f, g.BattleTerritory, &sector, plan)
	if !vr.Valid {
		return g, &vr, false, ErrPlanRejected
	}

	p.HasSubmittedPlan = true
	stored := plan
	p.PendingPlan = &stored

	resolved := false
	agg := g.PlayerByFaction(g.AggressorFaction)
	def := g.PlayerByFaction(g.DefenderFaction)
	if agg != nil && def != nil && agg.HasSubmittedPlan && def.HasSubmittedPlan {
		resolveBattle(repo, reg, g, *agg.PendingPlan, *def.PendingPlan)
		if g.Status != game.StatusFinished {
			g.ActionDeadline = time.Now().Add(actionTimeout)
		}
		resolved = true
	}

	if err := repo.UpdateGame(g); err != nil {
		return nil, &vr, resolved, err
	}
	return g, &vr, resolved, nil
}

// resolveBattle runs the engine over both stored plans and applies the
// outcome to the game.
func resolveBattle(repo GameRepo, reg *rules.Registry, g *game.Game, aggPlan, defPlan game.BattlePlan) {
	g.Phase = game.PhaseResolving

	calls := make([]engine.TraitorCall, 0, 2)
	if aggPlan.CallTraitor {
		calls = append(calls, engine.TraitorCall{CalledBy: g.AggressorFaction, LeaderID: defPlan.LeaderID})
	}
	if defPlan.CallTraitor {
		calls = append(calls, engine.TraitorCall{CalledBy: g.DefenderFaction, LeaderID: aggPlan.LeaderID})
	}

	ctx := engine.NewContext(reg, g)
	res := engine.Resolve(ctx, engine.Input{
		Territory:     g.BattleTerritory,
		Sector:        g.BattleSector,
		Aggressor:     g.AggressorFaction,
		Defender:      g.DefenderFaction,
		AggressorPlan: aggPlan,
		DefenderPlan:  defPlan,
		TraitorCalls:  calls,
	})

	ApplyResult(g, res)

	report := &game.BattleReport{
		GameID:     g.ID,
		TurnNumber: g.TurnNumber,
		Territory:  res.Territory,
		Sector:     res.Sector,
		Aggressor:  g.AggressorFaction,
		Defender:   g.DefenderFaction,
		Result:     *res,
		Summary:    res.Summary,
	}
	if err := repo.SaveBattleReport(report); err != nil {
		logging.Error("failed to persist battle report", err, logging.Fields{constants.LogFieldGameID: g.ID})
	}

	g.Phase = game.PhaseResolved
	g.Message = res.Summary
	g.BattleTerritory = ""
	g.AggressorFaction = ""
	g.DefenderFaction = ""

	finishIfDecided(repo, g)

	logging.Info("battle resolved", logging.Fields{
		constants.LogFieldGameID:    g.ID,
		constants.LogFieldTerritory: res.Territory,
		constants.LogFieldWinner:    string(res.Winner),
	})
}

// finishIfDecided ends the game when a side has no forces left anywhere
// on the board.
func finishIfDecided(repo GameRepo, g *game.Game) {
	remaining := make(map[game.Faction]int, len(g.Players))
	for i := range g.Players {
		remaining[g.Players[i].Faction] = 0
	}
	for _, s := range g.Stacks {
		remaining[s.Faction] += s.Battling()
	}

	alive := make([]game.Faction, 0, len(remaining))
	for f, n := range remaining {
		if n > 0 {
			alive = append(alive, f)
		}
	}
	if len(alive) != 1 || len(g.Players) < 2 {
		return
	}

	g.Status = game.StatusFinished
	if p := g.PlayerByFaction(alive[0]); p != nil {
		g.Winner = p.PlayerName
		g.Message = p.PlayerName + " holds the last forces on the board and wins."
	}
	g.ActionDeadline = time.Time{}
	if !g.StatsCounted {
		if err := repo.UpdateStatsOnGameEnd(g, ""); err != nil {
			logging.Error("failed to update stats on game end", err, logging.Fields{constants.LogFieldGameID: g.ID})
		}
		g.StatsCounted = true
	}
}
