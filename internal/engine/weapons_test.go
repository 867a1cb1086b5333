package engine

import (
	"testing"

	"github.com/arrakeen/dune-battles/internal/game"
)

func TestResolveWeapon_MatchingDefenseSavesLeader(t *testing.T) {
	reg := testRegistry(t)
	out := ResolveWeapon(reg, "crysknife", "shield", true)
	if out.LeaderKilled || !out.DefenseEffective || out.WeaponEffective {
		t.Fatalf("projectile vs shield: %+v", out)
	}
}

func TestResolveWeapon_MismatchedDefenseKills(t *testing.T) {
	reg := testRegistry(t)
	out := ResolveWeapon(reg, "chaumas", "shield", true)
	if !out.LeaderKilled || out.DefenseEffective || !out.WeaponEffective {
		t.Fatalf("poison vs shield: %+v", out)
	}
}

func TestResolveWeapon_PoisonBladeStoppedByShield(t *testing.T) {
	reg := testRegistry(t)
	// The one stock exception: wounds like poison, parried like projectile.
	out := ResolveWeapon(reg, "poison_blade", "shield", true)
	if out.LeaderKilled || !out.DefenseEffective {
		t.Fatalf("poison blade vs shield: %+v", out)
	}
	out = ResolveWeapon(reg, "poison_blade", "snooper", true)
	if !out.LeaderKilled || out.DefenseEffective {
		t.Fatalf("poison blade vs snooper: %+v", out)
	}
}

func TestResolveWeapon_LasgunIgnoresDefenses(t *testing.T) {
	reg := testRegistry(t)
	out := ResolveWeapon(reg, "lasgun", "snooper", true)
	if !out.LeaderKilled || !out.WeaponEffective || out.DefenseEffective {
		t.Fatalf("lasgun vs snooper: %+v", out)
	}
}

func TestResolveWeapon_NoEffectCases(t *testing.T) {
	reg := testRegistry(t)
	if out := ResolveWeapon(reg, "", "shield", true); out != (WeaponOutcome{}) {
		t.Fatalf("no weapon: %+v", out)
	}
	if out := ResolveWeapon(reg, "crysknife", "", false); out != (WeaponOutcome{}) {
		t.Fatalf("no target leader: %+v", out)
	}
	if out := ResolveWeapon(reg, "baliset", "", true); out != (WeaponOutcome{}) {
		t.Fatalf("worthless card is no weapon: %+v", out)
	}
}

func TestDetectExplosion(t *testing.T) {
	reg := testRegistry(t)
	cases := []struct {
		name string
		a, b game.BattlePlan
		want bool
	}{
		{"lasgun vs shield", game.BattlePlan{WeaponID: "lasgun"}, game.BattlePlan{DefenseID: "shield"}, true},
		{"shield vs lasgun", game.BattlePlan{DefenseID: "shield"}, game.BattlePlan{WeaponID: "lasgun"}, true},
		{"lasgun and shield on the same side", game.BattlePlan{WeaponID: "lasgun", DefenseID: "shield"}, game.BattlePlan{}, true},
		{"lasgun vs snooper", game.BattlePlan{WeaponID: "lasgun"}, game.BattlePlan{DefenseID: "snooper"}, false},
		{"shield without lasgun", game.BattlePlan{WeaponID: "crysknife"}, game.BattlePlan{DefenseID: "shield"}, false},
		{"empty plans", game.BattlePlan{}, game.BattlePlan{}, false},
	}
	for _, tc := range cases {
		if got := DetectExplosion(reg, tc.a, tc.b); got != tc.want {
			t.Fatalf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}
