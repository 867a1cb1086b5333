package game

// CardKind is the closed set of treachery card categories. Battle rules
// switch on this type rather than on card names so new cards added to the
// configuration pick up the right behavior automatically.
type CardKind string

const (
	CardPoisonWeapon      CardKind = "poison_weapon"
	CardProjectileWeapon  CardKind = "projectile_weapon"
	// CardSpecialWeapon is the lasgun family: no ordinary defense stops
	// it, and combined with a shield anywhere in the battle it detonates.
	CardSpecialWeapon     CardKind = "special_weapon"
	CardProjectileDefense CardKind = "projectile_defense"
	CardPoisonDefense     CardKind = "poison_defense"
	CardWorthless         CardKind = "worthless"
	CardCheapHero         CardKind = "cheap_hero"
	CardSpecial           CardKind = "special"
)

// IsWeapon reports whether a card of this kind may occupy the weapon slot
// of a battle plan. Worthless cards are playable in either slot.
func (k CardKind) IsWeapon() bool {
	switch k {
	case CardPoisonWeapon, CardProjectileWeapon, CardSpecialWeapon, CardWorthless:
		return true
	}
	return false
}

// IsDefense reports whether a card of this kind may occupy the defense
// slot of a battle plan.
func (k CardKind) IsDefense() bool {
	switch k {
	case CardProjectileDefense, CardPoisonDefense, CardWorthless:
		return true
	}
	return false
}

// TreacheryCard is a static card definition. Definitions come from the
// server configuration and are exposed through the rules registry; they
// are never mutated at runtime.
type TreacheryCard struct {
	ID   string   `json:"id"`
	Name string   `json:"name"`
	Kind CardKind `json:"kind"`
	// CounteredBy overrides the defense kind that stops this weapon.
	// Empty means the default pairing (poison vs poison, projectile vs
	// projectile). The poison blade is the one stock card that needs
	// this: it wounds like a poison weapon but a projectile defense
	// stops it.
	CounteredBy CardKind `json:"countered_by,omitempty"`
	// DiscardAfterUse marks cards that are discarded after a battle even
	// when the side that played them won.
	DiscardAfterUse bool `json:"discard_after_use"`
}

// Countering returns the defense kind that neutralizes this weapon card.
// Special weapons return empty: no ordinary defense applies.
func (c TreacheryCard) Countering() CardKind {
	if c.CounteredBy != "" {
		return c.CounteredBy
	}
	switch c.Kind {
	case CardPoisonWeapon:
		return CardPoisonDefense
	case CardProjectileWeapon:
		return CardProjectileDefense
	}
	return ""
}
