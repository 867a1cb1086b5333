package service

import (
	"errors"
	"time"

	"github.com/arrakeen/dune-battles/internal/constants"
	"github.com/arrakeen/dune-battles/internal/game"
	"github.com/arrakeen/dune-battles/internal/logging"
)

var (
	ErrBattleAlreadyOpen = errors.New("a battle is already in progress")
	ErrNoContestedForces = errors.New("both factions need battling forces in the territory")
	ErrSameFaction       = errors.New("a faction cannot battle itself")
)

// OpenBattle begins the planning phase for a contested territory. The
// aggressor is the faction that moved in; the tie-break in resolution
// favors it, so the roles are fixed here and never swapped. Setting
// newTurn advances the turn counter and recalls committed leaders, so
// several battles opened without it share one turn's leader commitments.
func OpenBattle(repo GameRepo, gameID uint, territory string, sector int, aggressor, defender game.Faction, newTurn bool, actionTimeout time.Duration) (*game.Game, error) {
	g, err := repo.GetGameByID(gameID)
	if err != nil || g == nil {
		return nil, ErrGameNotFound
	}
	if g.Status != game.StatusInProgress {
		return nil, ErrGameNotInProgress
	}
	if g.BattleTerritory != "" && g.Phase != game.PhaseResolved {
		return nil, ErrBattleAlreadyOpen
	}
	if aggressor == defender {
		return nil, ErrSameFaction
	}
	if g.PlayerByFaction(aggressor) == nil || g.PlayerByFaction(defender) == nil {
		return nil, ErrPlayerNotInGame
	}
	if battlingIn(g, aggressor, territory) == 0 || battlingIn(g, defender, territory) == 0 {
		return nil, ErrNoContestedForces
	}

	if newTurn {
		advanceTurn(g)
	}

	g.BattleTerritory = territory
	g.BattleSector = sector
	g.AggressorFaction = aggressor
	g.DefenderFaction = defender
	g.Phase = game.PhasePlanning
	g.ActionDeadline = time.Now().Add(actionTimeout)
	for i := range g.Players {
		g.Players[i].HasSubmittedPlan = false
		g.Players[i].PendingPlan = nil
	}

	logging.Info("battle opened", logging.Fields{
		constants.LogFieldGameID:    g.ID,
		constants.LogFieldTerritory: territory,
		constants.LogFieldSector:    sector,
		"aggressor":                 string(aggressor),
		"defender":                  string(defender),
	})

	if err := repo.UpdateGame(g); err != nil {
		return nil, err
	}
	return g, nil
}

// advanceTurn starts a fresh turn: on-board leaders return to the
// available pool and the per-turn ability locks clear.
func advanceTurn(g *game.Game) {
	g.TurnNumber++
	for i := range g.Players {
		p := &g.Players[i]
		p.KwisatzHaderachUsedIn = ""
		for j := range p.Leaders {
			if p.Leaders[j].Location == game.LeaderOnBoard {
				p.Leaders[j].Location = game.LeaderAvailable
				p.Leaders[j].FoughtIn = ""
			}
		}
	}
}

func battlingIn(g *game.Game, f game.Faction, territory string) int {
	total := 0
	for _, s := range g.Stacks {
		if s.Faction == f && s.Territory == territory {
			total += s.Battling()
		}
	}
	return total
}
