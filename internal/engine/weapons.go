package engine

import (
	"github.com/arrakeen/dune-battles/internal/game"
	"github.com/arrakeen/dune-battles/internal/rules"
)

// WeaponOutcome is the result of matching one side's weapon against the
// opposing defense and leader.
type WeaponOutcome struct {
	LeaderKilled     bool
	WeaponEffective  bool
	DefenseEffective bool
}

// ResolveWeapon evaluates a weapon card against the opposing defense.
// hasTarget is whether the opponent committed a leader or cheap hero; no
// weapon or no target means no effect. Lasgun-class weapons always kill
// here: the explosive lasgun/shield pairing is detected separately and
// pre-empts this path entirely.
func ResolveWeapon(reg *rules.Registry, weaponID, defenseID string, hasTarget bool) WeaponOutcome {
	var out WeaponOutcome
	if weaponID == "" || !hasTarget {
		return out
	}
	w, ok := reg.Card(weaponID)
	if !ok || w.Kind == game.CardWorthless || !w.Kind.IsWeapon() {
		return out
	}
	if w.Kind == game.CardSpecialWeapon {
		out.LeaderKilled = true
		out.WeaponEffective = true
		return out
	}
	if defenseID != "" {
		if d, ok := reg.Card(defenseID); ok && d.Kind == w.Countering() {
			out.DefenseEffective = true
		}
	}
	out.LeaderKilled = !out.DefenseEffective
	out.WeaponEffective = out.LeaderKilled
	return out
}

// DetectExplosion reports whether the battle detonates: a lasgun-class
// weapon anywhere in either plan together with a shield (projectile
// defense) anywhere in either plan. The two cards need not be on the
// same side.
func DetectExplosion(reg *rules.Registry, a, b game.BattlePlan) bool {
	lasgun := cardKindIs(reg, a.WeaponID, game.CardSpecialWeapon) ||
		cardKindIs(reg, b.WeaponID, game.CardSpecialWeapon)
	shield := cardKindIs(reg, a.DefenseID, game.CardProjectileDefense) ||
		cardKindIs(reg, b.DefenseID, game.CardProjectileDefense)
	return lasgun && shield
}

func cardKindIs(reg *rules.Registry, cardID string, kind game.CardKind) bool {
	if cardID == "" {
		return false
	}
	c, ok := reg.Card(cardID)
	return ok && c.Kind == kind
}
