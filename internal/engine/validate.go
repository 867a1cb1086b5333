package engine

import (
	"fmt"

	"github.com/arrakeen/dune-battles/internal/game"
)

// Machine-readable validation error codes. Automated callers switch on
// these to repair a rejected plan.
const (
	CodeFactionNotInGame       = "faction_not_in_game"
	CodeForcesNegative         = "forces_negative"
	CodeForcesExceedAvailable  = "forces_exceed_available"
	CodeLeaderRequired         = "leader_required"
	CodeCheapHeroRequired      = "cheap_hero_required"
	CodeNoLeaderUndeclared     = "no_leader_undeclared"
	CodeLeaderUnknown          = "leader_unknown"
	CodeLeaderNotOwned         = "leader_not_owned"
	CodeLeaderNotAvailable     = "leader_not_available"
	CodeLeaderElsewhere        = "leader_committed_elsewhere"
	CodeCheapHeroNotHeld       = "cheap_hero_not_held"
	CodeLeaderHeroExclusive    = "leader_and_cheap_hero_exclusive"
	CodeCardsRequireLeader     = "cards_require_leader"
	CodeCardNotInHand          = "card_not_in_hand"
	CodeCardWrongType          = "card_wrong_type"
	CodeSameCardTwice          = "same_card_both_slots"
	CodeKwisatzWrongFaction    = "kwisatz_haderach_wrong_faction"
	CodeKwisatzInactive        = "kwisatz_haderach_inactive"
	CodeKwisatzUsedElsewhere   = "kwisatz_haderach_used_elsewhere"
	CodeSpiceDialingDisabled   = "spice_dialing_disabled"
	CodeSpiceNegative          = "spice_negative"
	CodeSpiceExceedsForces     = "spice_exceeds_forces_dialed"
	CodeSpiceExceedsBalance    = "spice_exceeds_balance"
)

// Validate checks a proposed battle plan's legality. Every check runs and
// every problem is reported; nothing short-circuits, so an automated
// caller sees the complete repair list in one pass. On success the result
// carries an estimated strength (plain forces plus leader strength) as a
// planning aid; on failure it carries ranked alternative plans.
func Validate(ctx *Context, f game.Faction, territory string, sector *int, plan game.BattlePlan) game.ValidationResult {
	p := ctx.Player(f)
	if p == nil {
		return game.ValidationResult{Errors: []game.ValidationError{{
			Code:    CodeFactionNotInGame,
			Message: fmt.Sprintf("faction %s is not part of this game", f),
			Field:   "faction",
			Actual:  f,
		}}}
	}

	errs := []game.ValidationError{}
	add := func(e game.ValidationError) { errs = append(errs, e) }

	// (1) dialed forces within [0, available]
	available := ctx.BattlingForces(f, territory, sector)
	if plan.ForcesDialed < 0 {
		add(game.ValidationError{
			Code: CodeForcesNegative, Field: "forces_dialed",
			Message:    "forces dialed cannot be negative",
			Actual:     plan.ForcesDialed,
			Expected:   0,
			Suggestion: "dial zero or more forces",
		})
	} else if plan.ForcesDialed > available {
		add(game.ValidationError{
			Code: CodeForcesExceedAvailable, Field: "forces_dialed",
			Message:    fmt.Sprintf("only %d forces can fight in %s", available, territory),
			Actual:     plan.ForcesDialed,
			Expected:   available,
			Suggestion: fmt.Sprintf("dial at most %d forces", available),
		})
	}

	// (2) leader-or-cheap-hero requirement
	playable := ctx.PlayableLeaders(f, territory)
	heroCard := ctx.CheapHeroCard(f)
	switch {
	case len(playable) > 0 && plan.LeaderID == "":
		add(game.ValidationError{
			Code: CodeLeaderRequired, Field: "leader_id",
			Message:    "a leader is available and must be played",
			Expected:   playable[0].ID,
			Suggestion: fmt.Sprintf("play a leader, e.g. %s", playable[0].ID),
		})
	case len(playable) == 0 && heroCard != "" && !plan.CheapHero:
		add(game.ValidationError{
			Code: CodeCheapHeroRequired, Field: "cheap_hero",
			Message:    "no leader is available; the cheap hero in hand must be played",
			Expected:   true,
			Suggestion: "set cheap_hero to true",
		})
	case len(playable) == 0 && heroCard == "" && !plan.NoLeaderDeclared:
		add(game.ValidationError{
			Code: CodeNoLeaderUndeclared, Field: "no_leader_declared",
			Message:    "no leader or cheap hero can be played; the plan must say so explicitly",
			Expected:   true,
			Suggestion: "set no_leader_declared to true",
		})
	}

	// (3) leader validity
	if plan.LeaderID != "" {
		if _, ok := ctx.Rules.Leader(plan.LeaderID); !ok {
			add(game.ValidationError{
				Code: CodeLeaderUnknown, Field: "leader_id",
				Message:    fmt.Sprintf("unknown leader %q", plan.LeaderID),
				Actual:     plan.LeaderID,
				Suggestion: "use a leader id from your pool",
			})
		} else if ls := ctx.LeaderState(f, plan.LeaderID); ls == nil {
			add(game.ValidationError{
				Code: CodeLeaderNotOwned, Field: "leader_id",
				Message:    fmt.Sprintf("leader %s does not fight for %s", plan.LeaderID, f),
				Actual:     plan.LeaderID,
				Suggestion: "use one of your own leaders",
			})
		} else {
			switch ls.Location {
			case game.LeaderAvailable:
			case game.LeaderOnBoard:
				if ls.FoughtIn != territory {
					add(game.ValidationError{
						Code: CodeLeaderElsewhere, Field: "leader_id",
						Message:    fmt.Sprintf("%s already fought in %s this turn", plan.LeaderID, ls.FoughtIn),
						Actual:     ls.FoughtIn,
						Expected:   territory,
						Suggestion: "play a leader that has not fought elsewhere this turn",
					})
				}
			default:
				add(game.ValidationError{
					Code: CodeLeaderNotAvailable, Field: "leader_id",
					Message:    fmt.Sprintf("leader %s is %s and cannot fight", plan.LeaderID, ls.Location),
					Actual:     string(ls.Location),
					Expected:   string(game.LeaderAvailable),
					Suggestion: "play a leader from your available pool",
				})
			}
		}
	}

	// (4) cheap hero requires holding the card
	if plan.CheapHero && heroCard == "" {
		add(game.ValidationError{
			Code: CodeCheapHeroNotHeld, Field: "cheap_hero",
			Message:    "no cheap hero card in hand",
			Actual:     true,
			Expected:   false,
			Suggestion: "drop cheap_hero or play a leader",
		})
	}

	// (5) leader and cheap hero are mutually exclusive
	if plan.LeaderID != "" && plan.CheapHero {
		add(game.ValidationError{
			Code: CodeLeaderHeroExclusive, Field: "cheap_hero",
			Message:    "cannot commit both a leader and a cheap hero",
			Suggestion: "choose one of leader_id or cheap_hero",
		})
	}

	// (6) weapon/defense require a leader or cheap hero
	if (plan.WeaponID != "" || plan.DefenseID != "") && !plan.HasCommander() {
		add(game.ValidationError{
			Code: CodeCardsRequireLeader, Field: "weapon_id",
			Message:    "treachery cards require a leader or cheap hero",
			Suggestion: "commit a leader or cheap hero before playing cards",
		})
	}

	// (7) played cards must be held and of the right category
	validateCardSlot(ctx, f, plan.WeaponID, "weapon_id", true, add)
	validateCardSlot(ctx, f, plan.DefenseID, "defense_id", false, add)

	// (8) one card cannot fill both slots
	if plan.WeaponID != "" && plan.WeaponID == plan.DefenseID {
		add(game.ValidationError{
			Code: CodeSameCardTwice, Field: "defense_id",
			Message:    fmt.Sprintf("card %s cannot be both weapon and defense", plan.WeaponID),
			Actual:     plan.DefenseID,
			Suggestion: "play two different cards or clear one slot",
		})
	}

	// (9) Kwisatz Haderach preconditions
	if plan.UseKwisatzHaderach {
		switch {
		case f != game.FactionAtreides:
			add(game.ValidationError{
				Code: CodeKwisatzWrongFaction, Field: "use_kwisatz_haderach",
				Message:    "only the Atreides may use the Kwisatz Haderach",
				Actual:     f,
				Expected:   game.FactionAtreides,
				Suggestion: "drop use_kwisatz_haderach",
			})
		case p.ForcesLostTotal < KwisatzHaderachThreshold:
			add(game.ValidationError{
				Code: CodeKwisatzInactive, Field: "use_kwisatz_haderach",
				Message:    fmt.Sprintf("the Kwisatz Haderach awakens after %d losses; you have %d", KwisatzHaderachThreshold, p.ForcesLostTotal),
				Actual:     p.ForcesLostTotal,
				Expected:   KwisatzHaderachThreshold,
				Suggestion: "drop use_kwisatz_haderach",
			})
		case p.KwisatzHaderachUsedIn != "" && p.KwisatzHaderachUsedIn != territory:
			add(game.ValidationError{
				Code: CodeKwisatzUsedElsewhere, Field: "use_kwisatz_haderach",
				Message:    fmt.Sprintf("the Kwisatz Haderach already fought in %s this turn", p.KwisatzHaderachUsedIn),
				Actual:     p.KwisatzHaderachUsedIn,
				Expected:   territory,
				Suggestion: "drop use_kwisatz_haderach",
			})
		}
	}

	// (10) spice dialing bounds
	if plan.SpiceDialed != nil {
		sd := *plan.SpiceDialed
		if !ctx.AdvancedRules() {
			add(game.ValidationError{
				Code: CodeSpiceDialingDisabled, Field: "spice_dialed",
				Message:    "spice dialing requires advanced rules",
				Actual:     sd,
				Suggestion: "drop spice_dialed",
			})
		}
		if sd < 0 {
			add(game.ValidationError{
				Code: CodeSpiceNegative, Field: "spice_dialed",
				Message:    "spice dialed cannot be negative",
				Actual:     sd,
				Expected:   0,
				Suggestion: "dial zero or more spice",
			})
		}
		if sd > plan.ForcesDialed && plan.ForcesDialed >= 0 {
			add(game.ValidationError{
				Code: CodeSpiceExceedsForces, Field: "spice_dialed",
				Message:    "spice dialed cannot exceed forces dialed",
				Actual:     sd,
				Expected:   plan.ForcesDialed,
				Suggestion: fmt.Sprintf("dial at most %d spice", plan.ForcesDialed),
			})
		}
		if sd > p.Spice {
			add(game.ValidationError{
				Code: CodeSpiceExceedsBalance, Field: "spice_dialed",
				Message:    fmt.Sprintf("only %d spice in reserve", p.Spice),
				Actual:     sd,
				Expected:   p.Spice,
				Suggestion: fmt.Sprintf("dial at most %d spice", p.Spice),
			})
		}
	}

	if len(errs) > 0 {
		return game.ValidationResult{
			Errors:      errs,
			Suggestions: BuildSuggestions(ctx, f, territory, sector),
		}
	}

	est := float64(plan.ForcesDialed)
	if plan.LeaderID != "" {
		if l, ok := ctx.Rules.Leader(plan.LeaderID); ok {
			est += float64(l.Strength)
		}
	}
	return game.ValidationResult{Valid: true, EstimatedStrength: est}
}

func validateCardSlot(ctx *Context, f game.Faction, cardID, field string, weapon bool, add func(game.ValidationError)) {
	if cardID == "" {
		return
	}
	if !ctx.HandHas(f, cardID) {
		add(game.ValidationError{
			Code: CodeCardNotInHand, Field: field,
			Message:    fmt.Sprintf("card %s is not in hand", cardID),
			Actual:     cardID,
			Suggestion: "play a card from your hand or clear the slot",
		})
		return
	}
	c, ok := ctx.Rules.Card(cardID)
	if !ok {
		add(game.ValidationError{
			Code: CodeCardNotInHand, Field: field,
			Message:    fmt.Sprintf("card %s has no definition", cardID),
			Actual:     cardID,
			Suggestion: "clear the slot",
		})
		return
	}
	wrong := (weapon && !c.Kind.IsWeapon()) || (!weapon && !c.Kind.IsDefense())
	if wrong {
		slot := "defense"
		if weapon {
			slot = "weapon"
		}
		add(game.ValidationError{
			Code: CodeCardWrongType, Field: field,
			Message:    fmt.Sprintf("%s is a %s card, not a %s", cardID, c.Kind, slot),
			Actual:     string(c.Kind),
			Suggestion: fmt.Sprintf("play a %s card or a worthless card in this slot", slot),
		})
	}
}
