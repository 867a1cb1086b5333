package service

import (
	"testing"
	"time"

	"github.com/arrakeen/dune-battles/internal/game"
	"github.com/arrakeen/dune-battles/internal/rules"
)

type mockRepo struct {
	games       map[uint]*game.Game
	updatedGame *game.Game
	reports     []*game.BattleReport
	statsCalled bool
}

func (m *mockRepo) GetGameByID(id uint) (*game.Game, error) {
	if g, ok := m.games[id]; ok {
		return g, nil
	}
	return nil, ErrGameNotFound
}

func (m *mockRepo) UpdateGame(g *game.Game) error {
	m.updatedGame = g
	return nil
}

func (m *mockRepo) UpdateStatsOnGameEnd(g *game.Game, resignedEmail string) error {
	m.statsCalled = true
	return nil
}

func (m *mockRepo) SaveBattleReport(r *game.BattleReport) error {
	m.reports = append(m.reports, r)
	return nil
}

func testRules(t *testing.T) *rules.Registry {
	t.Helper()
	reg, err := rules.NewRegistry(
		[]game.TreacheryCard{
			{ID: "crysknife", Name: "Crysknife", Kind: game.CardProjectileWeapon},
			{ID: "chaumas", Name: "Chaumas", Kind: game.CardPoisonWeapon},
			{ID: "shield", Name: "Shield", Kind: game.CardProjectileDefense},
			{ID: "snooper", Name: "Snooper", Kind: game.CardPoisonDefense},
			{ID: "lasgun", Name: "Lasgun", Kind: game.CardSpecialWeapon},
			{ID: "cheap_hero", Name: "Cheap Hero", Kind: game.CardCheapHero},
		},
		[]game.Leader{
			{ID: "gurney_halleck", Name: "Gurney Halleck", Faction: game.FactionAtreides, Strength: 6},
			{ID: "duncan_idaho", Name: "Duncan Idaho", Faction: game.FactionAtreides, Strength: 2},
			{ID: "feyd_rautha", Name: "Feyd-Rautha", Faction: game.FactionHarkonnen, Strength: 6},
			{ID: "beast_rabban", Name: "Beast Rabban", Faction: game.FactionHarkonnen, Strength: 4},
		},
	)
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	return reg
}

func available(ids ...string) []game.LeaderState {
	out := make([]game.LeaderState, 0, len(ids))
	for _, id := range ids {
		out = append(out, game.LeaderState{LeaderID: id, Location: game.LeaderAvailable})
	}
	return out
}

func battleGame() *game.Game {
	return &game.Game{
		Status:           game.StatusInProgress,
		Phase:            game.PhasePlanning,
		BattleTerritory:  "arrakeen",
		BattleSector:     9,
		AggressorFaction: game.FactionAtreides,
		DefenderFaction:  game.FactionHarkonnen,
		Players: []game.Player{
			{
				PlayerName:  "P1",
				PlayerEmail: "p1@test",
				Faction:     game.FactionAtreides,
				Spice:       10,
				Hand:        []string{"crysknife", "shield"},
				Leaders:     available("gurney_halleck", "duncan_idaho"),
			},
			{
				PlayerName:  "P2",
				PlayerEmail: "p2@test",
				Faction:     game.FactionHarkonnen,
				Spice:       8,
				Hand:        []string{"chaumas", "snooper"},
				Leaders:     available("feyd_rautha", "beast_rabban"),
			},
		},
		Stacks: []game.ForceStack{
			{Faction: game.FactionAtreides, Territory: "arrakeen", Sector: 9, Regular: 8},
			{Faction: game.FactionHarkonnen, Territory: "arrakeen", Sector: 9, Regular: 5},
			{Faction: game.FactionHarkonnen, Territory: "carthag", Sector: 11, Regular: 4},
		},
	}
}

func TestSubmitPlan_ResolvesWhenBothSidesAreIn(t *testing.T) {
	reg := testRules(t)
	g := battleGame()
	mr := &mockRepo{games: map[uint]*game.Game{7: g}}

	_, vr, resolved, err := SubmitPlan(mr, reg, 7, "p1@test", game.BattlePlan{
		ForcesDialed: 5, LeaderID: "gurney_halleck",
	}, time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !vr.Valid || resolved {
		t.Fatalf("first submission must store but not resolve (valid=%v resolved=%v)", vr.Valid, resolved)
	}

	g2, _, resolved, err := SubmitPlan(mr, reg, 7, "p2@test", game.BattlePlan{
		ForcesDialed: 2, LeaderID: "beast_rabban",
	}, time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resolved {
		t.Fatalf("expected battle to resolve after second submission")
	}
	if g2.Phase != game.PhaseResolved {
		t.Fatalf("phase: got %s, want %s", g2.Phase, game.PhaseResolved)
	}
	if len(mr.reports) != 1 {
		t.Fatalf("expected one battle report, got %d", len(mr.reports))
	}
	res := mr.reports[0].Result
	if res.Winner != game.FactionAtreides {
		t.Fatalf("winner: got %s, want atreides (11 vs 6)", res.Winner)
	}

	// Winner removes only the dialed forces, loser the whole territory.
	if got := stackCount(g2, game.FactionAtreides, "arrakeen"); got != 3 {
		t.Fatalf("atreides forces left: got %d, want 3", got)
	}
	if got := stackCount(g2, game.FactionHarkonnen, "arrakeen"); got != 0 {
		t.Fatalf("harkonnen forces left in arrakeen: got %d, want 0", got)
	}
	if got := stackCount(g2, game.FactionHarkonnen, "carthag"); got != 4 {
		t.Fatalf("harkonnen forces elsewhere must be untouched, got %d", got)
	}
}

func TestSubmitPlan_RejectedPlanIsNotStored(t *testing.T) {
	reg := testRules(t)
	g := battleGame()
	mr := &mockRepo{games: map[uint]*game.Game{7: g}}

	_, vr, _, err := SubmitPlan(mr, reg, 7, "p1@test", game.BattlePlan{
		ForcesDialed: 50, LeaderID: "gurney_halleck",
	}, time.Minute)
	if err != ErrPlanRejected {
		t.Fatalf("expected ErrPlanRejected, got %v", err)
	}
	if vr == nil || vr.Valid || len(vr.Errors) == 0 {
		t.Fatalf("expected validation errors, got %+v", vr)
	}
	if g.Players[0].HasSubmittedPlan {
		t.Fatalf("rejected plan must not be stored")
	}
}

func TestSubmitPlan_OnlyBattleSidesMaySubmit(t *testing.T) {
	reg := testRules(t)
	g := battleGame()
	g.Players = append(g.Players, game.Player{
		PlayerName: "P3", PlayerEmail: "p3@test", Faction: game.FactionFremen,
	})
	mr := &mockRepo{games: map[uint]*game.Game{7: g}}

	_, _, _, err := SubmitPlan(mr, reg, 7, "p3@test", game.BattlePlan{ForcesDialed: 0}, time.Minute)
	if err != ErrNotBattleSide {
		t.Fatalf("expected ErrNotBattleSide, got %v", err)
	}
}

func TestSubmitPlan_DoubleSubmissionRejected(t *testing.T) {
	reg := testRules(t)
	g := battleGame()
	mr := &mockRepo{games: map[uint]*game.Game{7: g}}

	if _, _, _, err := SubmitPlan(mr, reg, 7, "p1@test", game.BattlePlan{
		ForcesDialed: 5, LeaderID: "gurney_halleck",
	}, time.Minute); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, _, _, err := SubmitPlan(mr, reg, 7, "p1@test", game.BattlePlan{
		ForcesDialed: 1, LeaderID: "duncan_idaho",
	}, time.Minute)
	if err != ErrPlanAlreadyInPlace {
		t.Fatalf("expected ErrPlanAlreadyInPlace, got %v", err)
	}
}

func TestSubmitPlan_GameEndsWhenOneSideIsWipedOut(t *testing.T) {
	reg := testRules(t)
	g := battleGame()
	// Harkonnen has everything in the contested territory.
	g.Stacks = g.Stacks[:2]
	mr := &mockRepo{games: map[uint]*game.Game{7: g}}

	if _, _, _, err := SubmitPlan(mr, reg, 7, "p1@test", game.BattlePlan{
		ForcesDialed: 5, LeaderID: "gurney_halleck",
	}, time.Minute); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	g2, _, _, err := SubmitPlan(mr, reg, 7, "p2@test", game.BattlePlan{
		ForcesDialed: 2, LeaderID: "beast_rabban",
	}, time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g2.Status != game.StatusFinished {
		t.Fatalf("expected finished game, got %s", g2.Status)
	}
	if g2.Winner != "P1" {
		t.Fatalf("winner: got %q, want P1", g2.Winner)
	}
	if !mr.statsCalled {
		t.Fatalf("expected stats update on game end")
	}
}

func stackCount(g *game.Game, f game.Faction, territory string) int {
	total := 0
	for _, s := range g.Stacks {
		if s.Faction == f && s.Territory == territory {
			total += s.Battling()
		}
	}
	return total
}
