// Package rules holds the immutable registry of static card and leader
// definitions. The registry is built once from configuration and injected
// into the engine, so tests can run against fixture data and there is no
// ambient global lookup table.
package rules

import (
	"fmt"
	"sort"
	"strings"

	"github.com/arrakeen/dune-battles/internal/game"
)

type Registry struct {
	cards   map[string]game.TreacheryCard
	leaders map[string]game.Leader
}

// NewRegistry builds a registry from definition lists, rejecting
// duplicate or malformed entries up front so the engine never has to.
func NewRegistry(cards []game.TreacheryCard, leaders []game.Leader) (*Registry, error) {
	r := &Registry{
		cards:   make(map[string]game.TreacheryCard, len(cards)),
		leaders: make(map[string]game.Leader, len(leaders)),
	}
	for _, c := range cards {
		id := strings.TrimSpace(c.ID)
		if id == "" {
			return nil, fmt.Errorf("card %q missing id", c.Name)
		}
		if _, exists := r.cards[id]; exists {
			return nil, fmt.Errorf("duplicate card id %q", id)
		}
		if !c.Kind.IsWeapon() && !c.Kind.IsDefense() &&
			c.Kind != game.CardCheapHero && c.Kind != game.CardSpecial {
			return nil, fmt.Errorf("card %q has unknown kind %q", id, c.Kind)
		}
		r.cards[id] = c
	}
	for _, l := range leaders {
		id := strings.TrimSpace(l.ID)
		if id == "" {
			return nil, fmt.Errorf("leader %q missing id", l.Name)
		}
		if _, exists := r.leaders[id]; exists {
			return nil, fmt.Errorf("duplicate leader id %q", id)
		}
		if !l.Faction.Valid() {
			return nil, fmt.Errorf("leader %q has unknown faction %q", id, l.Faction)
		}
		if l.Strength < 0 {
			return nil, fmt.Errorf("leader %q has negative strength", id)
		}
		r.leaders[id] = l
	}
	return r, nil
}

func (r *Registry) Card(id string) (game.TreacheryCard, bool) {
	c, ok := r.cards[id]
	return c, ok
}

func (r *Registry) Leader(id string) (game.Leader, bool) {
	l, ok := r.leaders[id]
	return l, ok
}

// LeadersOf returns a faction's leaders sorted by descending strength.
func (r *Registry) LeadersOf(f game.Faction) []game.Leader {
	out := make([]game.Leader, 0, 5)
	for _, l := range r.leaders {
		if l.Faction == f {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Strength != out[j].Strength {
			return out[i].Strength > out[j].Strength
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Cards returns all card definitions sorted by id.
func (r *Registry) Cards() []game.TreacheryCard {
	out := make([]game.TreacheryCard, 0, len(r.cards))
	for _, c := range r.cards {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Leaders returns all leader definitions sorted by id.
func (r *Registry) Leaders() []game.Leader {
	out := make([]game.Leader, 0, len(r.leaders))
	for _, l := range r.leaders {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
