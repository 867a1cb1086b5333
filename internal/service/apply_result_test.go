package service

import (
	"testing"

	"github.com/arrakeen/dune-battles/internal/game"
)

func TestApplyResult_MovesEverythingTheEngineDecided(t *testing.T) {
	g := battleGame()
	g.Stacks[0].Elite = 2 // atreides: 8 regular + 2 elite

	res := &game.BattleResult{
		Territory: "arrakeen",
		Winner:    game.FactionAtreides,
		Loser:     game.FactionHarkonnen,
		Aggressor: game.BattleSideResult{
			Faction:        game.FactionAtreides,
			ForcesDialed:   5,
			SpiceDialed:    3,
			ForcesLost:     5,
			LeaderID:       "gurney_halleck",
			CardsToDiscard: []string{"crysknife"},
			CardsToKeep:    []string{"shield"},
		},
		Defender: game.BattleSideResult{
			Faction:        game.FactionHarkonnen,
			ForcesLost:     5,
			LeaderID:       "beast_rabban",
			LeaderKilled:   true,
			CardsToDiscard: []string{"chaumas", "snooper"},
		},
		SpicePayouts: []game.SpicePayout{{Faction: game.FactionAtreides, Amount: 4, Reason: "test"}},
		Summary:      "test battle",
	}

	ApplyResult(g, res)

	// Elites are removed before regulars.
	if g.Stacks[0].Elite != 0 || g.Stacks[0].Regular != 5 {
		t.Fatalf("atreides stack after loss: elite=%d regular=%d, want 0/5", g.Stacks[0].Elite, g.Stacks[0].Regular)
	}
	if g.Stacks[1].Battling() != 0 {
		t.Fatalf("harkonnen arrakeen stack should be emptied, got %d", g.Stacks[1].Battling())
	}

	p1 := g.PlayerByFaction(game.FactionAtreides)
	if len(p1.Hand) != 1 || p1.Hand[0] != "shield" {
		t.Fatalf("atreides hand after discard: %v", p1.Hand)
	}
	// Paid 4 for the kill, spent 3 dialed spice.
	if p1.Spice != 11 {
		t.Fatalf("atreides spice: got %d, want 11", p1.Spice)
	}
	if p1.Leaders[0].Location != game.LeaderOnBoard || p1.Leaders[0].FoughtIn != "arrakeen" {
		t.Fatalf("surviving leader must be on board in the territory: %+v", p1.Leaders[0])
	}
	if p1.ForcesLostTotal != 5 {
		t.Fatalf("atreides accumulated losses: got %d, want 5", p1.ForcesLostTotal)
	}

	p2 := g.PlayerByFaction(game.FactionHarkonnen)
	if len(p2.Hand) != 0 {
		t.Fatalf("harkonnen must discard both cards, hand=%v", p2.Hand)
	}
	var rabban *game.LeaderState
	for i := range p2.Leaders {
		if p2.Leaders[i].LeaderID == "beast_rabban" {
			rabban = &p2.Leaders[i]
		}
	}
	if rabban == nil || rabban.Location != game.LeaderTankFaceUp {
		t.Fatalf("killed leader must go to the tank face up: %+v", rabban)
	}
	if p1.HasSubmittedPlan || p1.PendingPlan != nil {
		t.Fatalf("pending plans must be cleared")
	}
}

func TestApplyResult_TraitorOutcomeSpendsNoDialedSpice(t *testing.T) {
	g := battleGame()

	res := &game.BattleResult{
		Territory:         "arrakeen",
		TraitorRevealed:   true,
		TraitorRevealedBy: game.FactionHarkonnen,
		Winner:            game.FactionHarkonnen,
		Loser:             game.FactionAtreides,
		Aggressor: game.BattleSideResult{
			Faction:      game.FactionAtreides,
			SpiceDialed:  4,
			ForcesLost:   8,
			LeaderID:     "gurney_halleck",
			LeaderKilled: true,
		},
		Defender: game.BattleSideResult{
			Faction:     game.FactionHarkonnen,
			SpiceDialed: 2,
		},
		SpicePayouts: []game.SpicePayout{{Faction: game.FactionHarkonnen, Amount: 6, Reason: "traitor"}},
	}

	ApplyResult(g, res)

	if got := g.PlayerByFaction(game.FactionAtreides).Spice; got != 10 {
		t.Fatalf("traitor outcome must not spend dialed spice, got %d", got)
	}
	if got := g.PlayerByFaction(game.FactionHarkonnen).Spice; got != 14 {
		t.Fatalf("revealer spice: got %d, want 14", got)
	}
}

func TestRemoveForces_NeverTouchesAdvisors(t *testing.T) {
	g := &game.Game{Stacks: []game.ForceStack{
		{Faction: game.FactionBeneGesserit, Territory: "arrakeen", Regular: 2, Advisors: 4},
	}}
	removeForces(g, game.FactionBeneGesserit, "arrakeen", 6)
	if g.Stacks[0].Regular != 0 || g.Stacks[0].Advisors != 4 {
		t.Fatalf("advisors must survive force removal: %+v", g.Stacks[0])
	}
}
