package service

import (
	"testing"
	"time"

	"github.com/arrakeen/dune-battles/internal/config"
	"github.com/arrakeen/dune-battles/internal/game"
)

func TestStartGame_SeedsEverythingFromConfig(t *testing.T) {
	reg := testRules(t)
	cfg := &config.LoadedConfig{
		Factions: []config.FactionSetup{
			{Faction: game.FactionAtreides, StartingSpice: 10, Regulars: 10, HomeTerritory: "arrakeen", HomeSector: 9, TraitorsDealt: 1},
			{Faction: game.FactionHarkonnen, StartingSpice: 10, Regulars: 10, HomeTerritory: "carthag", HomeSector: 11, TraitorsDealt: 1},
		},
		CardCopies: map[string]int{"crysknife": 2, "shield": 2, "chaumas": 2, "snooper": 2},
	}
	g := &game.Game{
		Status: game.StatusWaiting,
		Players: []game.Player{
			{PlayerName: "P1", PlayerEmail: "p1@test", Faction: game.FactionAtreides},
			{PlayerName: "P2", PlayerEmail: "p2@test", Faction: game.FactionHarkonnen},
		},
	}
	mr := &mockRepo{}

	if err := StartGame(mr, reg, cfg, g, time.Minute); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.Status != game.StatusInProgress || g.Phase != game.PhasePlanning || g.TurnNumber != 1 {
		t.Fatalf("game state after start: status=%s phase=%s turn=%d", g.Status, g.Phase, g.TurnNumber)
	}
	if mr.updatedGame == nil {
		t.Fatalf("expected game to be persisted")
	}

	for i := range g.Players {
		p := &g.Players[i]
		if p.Spice != 10 {
			t.Fatalf("%s spice: got %d, want 10", p.Faction, p.Spice)
		}
		if len(p.Leaders) != 2 {
			t.Fatalf("%s leader pool: got %d, want 2", p.Faction, len(p.Leaders))
		}
		for _, ls := range p.Leaders {
			if ls.Location != game.LeaderAvailable {
				t.Fatalf("leaders must start available: %+v", ls)
			}
		}
		if len(p.Hand) != startingHandSize {
			t.Fatalf("%s hand size: got %d, want %d", p.Faction, len(p.Hand), startingHandSize)
		}
		if len(p.Traitors) != 1 {
			t.Fatalf("%s traitors dealt: got %d, want 1", p.Faction, len(p.Traitors))
		}
		for _, tid := range p.Traitors {
			l, ok := reg.Leader(tid)
			if !ok {
				t.Fatalf("traitor %q is not a known leader", tid)
			}
			if l.Faction == p.Faction {
				t.Fatalf("own leader %q dealt as traitor to %s", tid, p.Faction)
			}
		}
	}

	if len(g.Stacks) != 2 {
		t.Fatalf("expected one home stack per faction, got %d", len(g.Stacks))
	}
	if g.Stacks[0].Territory != "arrakeen" || g.Stacks[0].Regular != 10 {
		t.Fatalf("atreides home stack: %+v", g.Stacks[0])
	}
}

func TestStartGame_RequiresTwoPlayers(t *testing.T) {
	reg := testRules(t)
	g := &game.Game{Players: []game.Player{{PlayerName: "P1", Faction: game.FactionAtreides}}}
	if err := StartGame(&mockRepo{}, reg, &config.LoadedConfig{}, g, time.Minute); err != ErrNotEnoughPlayers {
		t.Fatalf("expected ErrNotEnoughPlayers, got %v", err)
	}
}

func TestOpenBattle_SetsUpPlanningPhase(t *testing.T) {
	g := battleGame()
	g.ID = 7
	g.BattleTerritory = ""
	g.AggressorFaction = ""
	g.DefenderFaction = ""
	mr := &mockRepo{games: map[uint]*game.Game{7: g}}

	g2, err := OpenBattle(mr, 7, "arrakeen", 9, game.FactionHarkonnen, game.FactionAtreides, false, time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g2.AggressorFaction != game.FactionHarkonnen || g2.DefenderFaction != game.FactionAtreides {
		t.Fatalf("battle roles: %s vs %s", g2.AggressorFaction, g2.DefenderFaction)
	}
	if g2.Phase != game.PhasePlanning || g2.BattleTerritory != "arrakeen" {
		t.Fatalf("battle not opened: phase=%s territory=%s", g2.Phase, g2.BattleTerritory)
	}
}

func TestOpenBattle_NewTurnRecallsCommittedLeaders(t *testing.T) {
	g := battleGame()
	g.ID = 7
	g.BattleTerritory = ""
	g.TurnNumber = 2
	g.Players[0].Leaders[0] = game.LeaderState{
		LeaderID: "gurney_halleck", Location: game.LeaderOnBoard, FoughtIn: "arrakeen",
	}
	g.Players[0].KwisatzHaderachUsedIn = "arrakeen"
	mr := &mockRepo{games: map[uint]*game.Game{7: g}}

	g2, err := OpenBattle(mr, 7, "arrakeen", 9, game.FactionAtreides, game.FactionHarkonnen, true, time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g2.TurnNumber != 3 {
		t.Fatalf("turn number: got %d, want 3", g2.TurnNumber)
	}
	ls := g2.Players[0].Leaders[0]
	if ls.Location != game.LeaderAvailable || ls.FoughtIn != "" {
		t.Fatalf("committed leader must be recalled, got %+v", ls)
	}
	if g2.Players[0].KwisatzHaderachUsedIn != "" {
		t.Fatalf("per-turn ability lock must clear on a new turn")
	}
}

func TestOpenBattle_RequiresForcesOnBothSides(t *testing.T) {
	g := battleGame()
	g.ID = 7
	g.BattleTerritory = ""
	mr := &mockRepo{games: map[uint]*game.Game{7: g}}

	_, err := OpenBattle(mr, 7, "carthag", 11, game.FactionAtreides, game.FactionHarkonnen, false, time.Minute)
	if err != ErrNoContestedForces {
		t.Fatalf("expected ErrNoContestedForces, got %v", err)
	}
}
