// Package engine validates and resolves battles. It is entirely
// synchronous and side-effect-free: every function is a pure transform of
// its inputs (plus diagnostic logging), holds no state between calls and
// never mutates the game snapshot it reads. Callers own serializing
// battles that touch overlapping state and applying results afterwards.
package engine

import (
	"github.com/arrakeen/dune-battles/internal/game"
	"github.com/arrakeen/dune-battles/internal/rules"
)

// Context bundles the read-only inputs a battle needs: the static rules
// registry and a consistent snapshot of the game.
type Context struct {
	Rules *rules.Registry
	Game  *game.Game
}

func NewContext(reg *rules.Registry, g *game.Game) *Context {
	return &Context{Rules: reg, Game: g}
}

// AdvancedRules reports whether the optional sub-systems (spice dialing)
// are enabled for this game.
func (c *Context) AdvancedRules() bool { return c.Game.AdvancedRules }

// Player returns the participant playing the given faction, or nil.
func (c *Context) Player(f game.Faction) *game.Player {
	return c.Game.PlayerByFaction(f)
}

// BattlingForces totals a faction's forces able to fight in a territory.
// When sector is non-nil only that sector counts. Bene Gesserit advisors
// are excluded: they share the territory but cannot fight.
func (c *Context) BattlingForces(f game.Faction, territory string, sector *int) int {
	total := 0
	for i := range c.Game.Stacks {
		s := &c.Game.Stacks[i]
		if s.Faction != f || s.Territory != territory {
			continue
		}
		if sector != nil && s.Sector != *sector {
			continue
		}
		total += s.Battling()
	}
	return total
}

// TerritoryStack aggregates a faction's stacks across a whole territory
// into a single snapshot, used by the strength calculator.
func (c *Context) TerritoryStack(f game.Faction, territory string) game.ForceStack {
	out := game.ForceStack{Faction: f, Territory: territory}
	for i := range c.Game.Stacks {
		s := &c.Game.Stacks[i]
		if s.Faction == f && s.Territory == territory {
			out.Regular += s.Regular
			out.Elite += s.Elite
			out.Advisors += s.Advisors
		}
	}
	return out
}

// HandHas reports whether the faction currently holds the given card.
func (c *Context) HandHas(f game.Faction, cardID string) bool {
	p := c.Player(f)
	if p == nil || cardID == "" {
		return false
	}
	for _, id := range p.Hand {
		if id == cardID {
			return true
		}
	}
	return false
}

// CheapHeroCard returns the id of a cheap-hero card in the faction's
// hand, or empty when none is held.
func (c *Context) CheapHeroCard(f game.Faction) string {
	p := c.Player(f)
	if p == nil {
		return ""
	}
	for _, id := range p.Hand {
		if card, ok := c.Rules.Card(id); ok && card.Kind == game.CardCheapHero {
			return id
		}
	}
	return ""
}

// LeaderState returns the location record for one of the faction's
// leaders, or nil when the faction does not own that leader.
func (c *Context) LeaderState(f game.Faction, leaderID string) *game.LeaderState {
	p := c.Player(f)
	if p == nil {
		return nil
	}
	for i := range p.Leaders {
		if p.Leaders[i].LeaderID == leaderID {
			return &p.Leaders[i]
		}
	}
	return nil
}

// PlayableLeaders returns the faction's leaders that could legally be
// committed to a battle in the given territory: available ones, plus
// on-board leaders already committed to that same territory.
func (c *Context) PlayableLeaders(f game.Faction, territory string) []game.Leader {
	p := c.Player(f)
	if p == nil {
		return nil
	}
	out := make([]game.Leader, 0, len(p.Leaders))
	for i := range p.Leaders {
		ls := &p.Leaders[i]
		switch ls.Location {
		case game.LeaderAvailable:
		case game.LeaderOnBoard:
			if ls.FoughtIn != territory {
				continue
			}
		default:
			continue
		}
		if l, ok := c.Rules.Leader(ls.LeaderID); ok {
			out = append(out, l)
		}
	}
	return out
}

// HoldsTraitor reports whether the faction was dealt the given leader as
// a traitor.
func (c *Context) HoldsTraitor(f game.Faction, leaderID string) bool {
	p := c.Player(f)
	if p == nil || leaderID == "" {
		return false
	}
	for _, id := range p.Traitors {
		if id == leaderID {
			return true
		}
	}
	return false
}
