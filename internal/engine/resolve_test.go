package engine

import (
	"testing"

	"github.com/arrakeen/dune-battles/internal/game"
)

func testInput(aggPlan, defPlan game.BattlePlan) Input {
	return Input{
		Territory:     testTerritory,
		Sector:        9,
		Aggressor:     game.FactionAtreides,
		Defender:      game.FactionHarkonnen,
		AggressorPlan: aggPlan,
		DefenderPlan:  defPlan,
	}
}

func TestResolve_HigherTotalWins(t *testing.T) {
	ctx := testContext(t, false)
	// Aggressor: 5 forces + Gurney (6) = 11. Defender: 5 forces + Rabban (4) = 9.
	res := Resolve(ctx, testInput(
		game.BattlePlan{ForcesDialed: 5, LeaderID: "gurney_halleck"},
		game.BattlePlan{ForcesDialed: 5, LeaderID: "beast_rabban"},
	))

	if res.Winner != game.FactionAtreides || res.Loser != game.FactionHarkonnen {
		t.Fatalf("winner/loser: %s/%s", res.Winner, res.Loser)
	}
	if res.WinnerTotal != 11 || res.LoserTotal != 9 {
		t.Fatalf("totals: %v/%v, want 11/9", res.WinnerTotal, res.LoserTotal)
	}
	if res.Aggressor.ForcesLost != 5 {
		t.Fatalf("winner loses only its dial: got %d, want 5", res.Aggressor.ForcesLost)
	}
	// The loser dialed 5 but had 7 in the territory; it loses all 7.
	if res.Defender.ForcesLost != 7 {
		t.Fatalf("loser loses everything in the territory: got %d, want 7", res.Defender.ForcesLost)
	}
	if res.Aggressor.LeaderStrength != 6 || res.Defender.LeaderStrength != 0 {
		t.Fatalf("leader contributions: %d/%d", res.Aggressor.LeaderStrength, res.Defender.LeaderStrength)
	}
	if len(res.SpicePayouts) != 0 {
		t.Fatalf("no leader died, no payout: %v", res.SpicePayouts)
	}
}

func TestResolve_TiesGoToTheAggressor(t *testing.T) {
	ctx := testContext(t, false)
	res := Resolve(ctx, testInput(
		game.BattlePlan{ForcesDialed: 4, LeaderID: "gurney_halleck"},  // 10
		game.BattlePlan{ForcesDialed: 4, LeaderID: "feyd_rautha"},     // 10
	))
	if res.Winner != game.FactionAtreides {
		t.Fatalf("tie must favor the aggressor, winner=%s", res.Winner)
	}
}

func TestResolve_KilledLeaderForfeitsStrengthAndPaysWinner(t *testing.T) {
	ctx := testContext(t, false)
	// Aggressor's chaumas kills Rabban (no snooper played); defender's
	// crysknife is parried by the aggressor's shield.
	ctx.Player(game.FactionAtreides).Hand = []string{"chaumas", "shield"}
	ctx.Player(game.FactionHarkonnen).Hand = []string{"crysknife"}

	res := Resolve(ctx, testInput(
		game.BattlePlan{ForcesDialed: 2, LeaderID: "gurney_halleck", WeaponID: "chaumas", DefenseID: "shield"},
		game.BattlePlan{ForcesDialed: 5, LeaderID: "beast_rabban", WeaponID: "crysknife"},
	))

	// Aggressor: 2 + 6 = 8. Defender: 5 + 0 (Rabban dead) = 5.
	if res.Winner != game.FactionAtreides || res.WinnerTotal != 8 || res.LoserTotal != 5 {
		t.Fatalf("winner=%s totals=%v/%v", res.Winner, res.WinnerTotal, res.LoserTotal)
	}
	if !res.Defender.LeaderKilled || res.Aggressor.LeaderKilled {
		t.Fatalf("kill flags: agg=%v def=%v", res.Aggressor.LeaderKilled, res.Defender.LeaderKilled)
	}
	if !res.Aggressor.WeaponEffective || res.Defender.WeaponEffective {
		t.Fatalf("weapon effectiveness: agg=%v def=%v", res.Aggressor.WeaponEffective, res.Defender.WeaponEffective)
	}
	if !res.Aggressor.DefenseEffective {
		t.Fatalf("shield should have parried the crysknife")
	}
	if len(res.SpicePayouts) != 1 || res.SpicePayouts[0].Faction != game.FactionAtreides || res.SpicePayouts[0].Amount != 4 {
		t.Fatalf("payouts: %v", res.SpicePayouts)
	}
}

func TestResolve_WinnerIsPaidForItsOwnDeadLeader(t *testing.T) {
	ctx := testContext(t, false)
	ctx.Player(game.FactionAtreides).Hand = []string{"chaumas"}
	ctx.Player(game.FactionHarkonnen).Hand = []string{"gom_jabbar"}

	// Both leaders die; aggressor still wins on forces (5 vs 3).
	res := Resolve(ctx, testInput(
		game.BattlePlan{ForcesDialed: 5, LeaderID: "gurney_halleck", WeaponID: "chaumas"},
		game.BattlePlan{ForcesDialed: 3, LeaderID: "feyd_rautha", WeaponID: "gom_jabbar"},
	))

	if res.Winner != game.FactionAtreides {
		t.Fatalf("winner=%s", res.Winner)
	}
	if len(res.SpicePayouts) != 2 {
		t.Fatalf("expected payouts for both dead leaders, got %v", res.SpicePayouts)
	}
	for _, p := range res.SpicePayouts {
		if p.Faction != game.FactionAtreides || p.Amount != 6 {
			t.Fatalf("every payout goes to the winner: %v", p)
		}
	}
}

func TestResolve_LasgunShieldExplosion(t *testing.T) {
	ctx := testContext(t, false)
	ctx.Player(game.FactionAtreides).Hand = []string{"lasgun"}
	ctx.Player(game.FactionHarkonnen).Hand = []string{"shield"}

	res := Resolve(ctx, testInput(
		game.BattlePlan{ForcesDialed: 2, LeaderID: "gurney_halleck", WeaponID: "lasgun"},
		game.BattlePlan{ForcesDialed: 5, LeaderID: "beast_rabban", DefenseID: "shield"},
	))

	if !res.LasgunShieldExplosion {
		t.Fatalf("expected explosion")
	}
	if res.Winner != "" || res.Loser != "" {
		t.Fatalf("nobody wins an explosion: %s/%s", res.Winner, res.Loser)
	}
	if res.Aggressor.ForcesLost != 8 || res.Defender.ForcesLost != 7 {
		t.Fatalf("both sides lose everything: %d/%d", res.Aggressor.ForcesLost, res.Defender.ForcesLost)
	}
	if !res.Aggressor.LeaderKilled || !res.Defender.LeaderKilled {
		t.Fatalf("both leaders die in an explosion")
	}
	if len(res.SpicePayouts) != 0 {
		t.Fatalf("no payouts on explosion: %v", res.SpicePayouts)
	}
	if len(res.Aggressor.CardsToDiscard) != 1 || len(res.Defender.CardsToDiscard) != 1 {
		t.Fatalf("all played cards are discarded: %v / %v", res.Aggressor.CardsToDiscard, res.Defender.CardsToDiscard)
	}
}

func TestResolve_ExplosionRegardlessOfWhoPlayedWhat(t *testing.T) {
	ctx := testContext(t, false)
	ctx.Player(game.FactionAtreides).Hand = []string{"shield"}
	ctx.Player(game.FactionHarkonnen).Hand = []string{"lasgun"}

	res := Resolve(ctx, testInput(
		game.BattlePlan{ForcesDialed: 2, LeaderID: "gurney_halleck", DefenseID: "shield"},
		game.BattlePlan{ForcesDialed: 5, LeaderID: "beast_rabban", WeaponID: "lasgun"},
	))
	if !res.LasgunShieldExplosion {
		t.Fatalf("explosion must trigger no matter which side held which card")
	}
}

func TestResolve_TraitorReveal(t *testing.T) {
	ctx := testContext(t, false)
	ctx.Player(game.FactionHarkonnen).Traitors = []string{"gurney_halleck"}

	in := testInput(
		game.BattlePlan{ForcesDialed: 5, LeaderID: "gurney_halleck"},
		game.BattlePlan{ForcesDialed: 2, LeaderID: "beast_rabban"},
	)
	in.TraitorCalls = []TraitorCall{{CalledBy: game.FactionHarkonnen, LeaderID: "gurney_halleck"}}

	res := Resolve(ctx, in)

	if !res.TraitorRevealed || res.TraitorRevealedBy != game.FactionHarkonnen {
		t.Fatalf("traitor flags: %+v", res)
	}
	if res.Winner != game.FactionHarkonnen || res.Loser != game.FactionAtreides {
		t.Fatalf("revealer wins unconditionally: %s/%s", res.Winner, res.Loser)
	}
	if res.Defender.ForcesLost != 0 {
		t.Fatalf("revealer loses nothing, got %d", res.Defender.ForcesLost)
	}
	if res.Aggressor.ForcesLost != 8 {
		t.Fatalf("betrayed side loses its full territory count: got %d, want 8", res.Aggressor.ForcesLost)
	}
	if !res.Aggressor.LeaderKilled {
		t.Fatalf("the traitor leader always dies")
	}
	if len(res.SpicePayouts) != 1 || res.SpicePayouts[0].Faction != game.FactionHarkonnen || res.SpicePayouts[0].Amount != 6 {
		t.Fatalf("revealer is paid the traitor's strength: %v", res.SpicePayouts)
	}
}

func TestResolve_TraitorCallWithoutMatchingCardIsIgnored(t *testing.T) {
	ctx := testContext(t, false)
	// Harkonnen announces a reveal but holds no matching traitor.
	in := testInput(
		game.BattlePlan{ForcesDialed: 5, LeaderID: "gurney_halleck"},
		game.BattlePlan{ForcesDialed: 2, LeaderID: "beast_rabban"},
	)
	in.TraitorCalls = []TraitorCall{{CalledBy: game.FactionHarkonnen, LeaderID: "gurney_halleck"}}

	res := Resolve(ctx, in)
	if res.TraitorRevealed {
		t.Fatalf("an unbacked call must not override resolution")
	}
	if res.Winner != game.FactionAtreides {
		t.Fatalf("normal resolution should have run, winner=%s", res.Winner)
	}
}

func TestResolve_DoubleTraitor(t *testing.T) {
	ctx := testContext(t, false)
	ctx.Player(game.FactionAtreides).Traitors = []string{"beast_rabban"}
	ctx.Player(game.FactionHarkonnen).Traitors = []string{"gurney_halleck"}

	in := testInput(
		game.BattlePlan{ForcesDialed: 5, LeaderID: "gurney_halleck"},
		game.BattlePlan{ForcesDialed: 2, LeaderID: "beast_rabban"},
	)
	in.TraitorCalls = []TraitorCall{
		{CalledBy: game.FactionAtreides, LeaderID: "beast_rabban"},
		{CalledBy: game.FactionHarkonnen, LeaderID: "gurney_halleck"},
	}

	res := Resolve(ctx, in)

	if !res.TwoTraitors {
		t.Fatalf("expected the double-traitor outcome")
	}
	if res.Winner != "" || res.Loser != "" {
		t.Fatalf("nobody wins a double reveal: %s/%s", res.Winner, res.Loser)
	}
	if res.Aggressor.ForcesLost != 8 || res.Defender.ForcesLost != 7 {
		t.Fatalf("both sides lose everything: %d/%d", res.Aggressor.ForcesLost, res.Defender.ForcesLost)
	}
	if !res.Aggressor.LeaderKilled || !res.Defender.LeaderKilled {
		t.Fatalf("both leaders die")
	}
	// Explicit rule asymmetry: the single reveal pays, the double does not.
	if len(res.SpicePayouts) != 0 {
		t.Fatalf("no payouts on a double reveal: %v", res.SpicePayouts)
	}
}

func TestResolve_SpiceDialingChangesTheOutcome(t *testing.T) {
	ctx := testContext(t, true)
	// Both dial 6 with equal leaders; the aggressor backs every force with
	// spice, the defender none. 6+6=12 vs 3+6=9.
	res := Resolve(ctx, testInput(
		game.BattlePlan{ForcesDialed: 6, LeaderID: "gurney_halleck", SpiceDialed: intPtr(6)},
		game.BattlePlan{ForcesDialed: 6, LeaderID: "feyd_rautha", SpiceDialed: intPtr(0)},
	))
	if res.Winner != game.FactionAtreides {
		t.Fatalf("winner=%s", res.Winner)
	}
	if res.WinnerTotal != 12 || res.LoserTotal != 9 {
		t.Fatalf("totals: %v/%v, want 12/9", res.WinnerTotal, res.LoserTotal)
	}
}

func TestResolve_LoserDiscardsWinnerKeeps(t *testing.T) {
	ctx := testContext(t, false)
	ctx.Player(game.FactionAtreides).Hand = []string{"crysknife", "snooper"}
	ctx.Player(game.FactionHarkonnen).Hand = []string{"chaumas", "shield"}

	res := Resolve(ctx, testInput(
		game.BattlePlan{ForcesDialed: 6, LeaderID: "gurney_halleck", WeaponID: "crysknife", DefenseID: "snooper"},
		game.BattlePlan{ForcesDialed: 1, LeaderID: "umman_kudu", WeaponID: "chaumas", DefenseID: "shield"},
	))

	if res.Winner != game.FactionAtreides {
		t.Fatalf("winner=%s", res.Winner)
	}
	if len(res.Aggressor.CardsToKeep) != 2 || len(res.Aggressor.CardsToDiscard) != 0 {
		t.Fatalf("winner keeps its cards: keep=%v discard=%v", res.Aggressor.CardsToKeep, res.Aggressor.CardsToDiscard)
	}
	if len(res.Defender.CardsToDiscard) != 2 || len(res.Defender.CardsToKeep) != 0 {
		t.Fatalf("loser discards everything: keep=%v discard=%v", res.Defender.CardsToKeep, res.Defender.CardsToDiscard)
	}
}

func TestResolve_DiscardAfterUseCardLeavesEvenTheWinner(t *testing.T) {
	ctx := testContext(t, false)
	ctx.Player(game.FactionAtreides).Hand = []string{"flame_thrower"}

	res := Resolve(ctx, testInput(
		game.BattlePlan{ForcesDialed: 6, LeaderID: "gurney_halleck", WeaponID: "flame_thrower"},
		game.BattlePlan{ForcesDialed: 1, LeaderID: "umman_kudu"},
	))
	if res.Winner != game.FactionAtreides {
		t.Fatalf("winner=%s", res.Winner)
	}
	if len(res.Aggressor.CardsToDiscard) != 1 || res.Aggressor.CardsToDiscard[0] != "flame_thrower" {
		t.Fatalf("discard-after-use binds winners too: %v", res.Aggressor.CardsToDiscard)
	}
}

func TestForcesLost(t *testing.T) {
	if got := ForcesLost(true, 5, 9); got != 5 {
		t.Fatalf("winner: got %d, want 5", got)
	}
	if got := ForcesLost(false, 5, 9); got != 9 {
		t.Fatalf("loser: got %d, want 9", got)
	}
	if got := ForcesLost(true, 12, 9); got != 9 {
		t.Fatalf("dial capped by territory: got %d, want 9", got)
	}
	if got := ForcesLost(false, -1, -2); got != 0 {
		t.Fatalf("malformed counts clamp to zero: got %d", got)
	}
}
