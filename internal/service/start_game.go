package service

import (
	"errors"
	"math/rand"
	"time"

	"github.com/arrakeen/dune-battles/internal/config"
	"github.com/arrakeen/dune-battles/internal/constants"
	"github.com/arrakeen/dune-battles/internal/game"
	"github.com/arrakeen/dune-battles/internal/logging"
	"github.com/arrakeen/dune-battles/internal/rules"
)

var (
	ErrNotEnoughPlayers = errors.New("not enough players to start the game")
	ErrFactionNotSetUp  = errors.New("faction has no setup entry in the config")
)

// startingHandSize is how many treachery cards each faction is dealt when
// the game starts.
const startingHandSize = 4

// StartGame performs all server-side initialization when starting a game:
// starting spice, leader pools, home-territory force stacks, treachery
// hands and traitor cards, all driven by the config file. The provided
// game object is modified and persisted using the repository.
func StartGame(repo GameRepo, reg *rules.Registry, cfg *config.LoadedConfig, g *game.Game, actionTimeout time.Duration) error {
	if len(g.Players) < 2 {
		return ErrNotEnoughPlayers
	}

	setups := make(map[game.Faction]config.FactionSetup, len(cfg.Factions))
	for _, s := range cfg.Factions {
		setups[s.Faction] = s
	}

	deck := buildDeck(reg, cfg.CardCopies)
	rand.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })

	g.Stacks = g.Stacks[:0]
	for i := range g.Players {
		p := &g.Players[i]
		setup, ok := setups[p.Faction]
		if !ok {
			return ErrFactionNotSetUp
		}

		p.Spice = setup.StartingSpice
		p.ForcesLostTotal = 0
		p.KwisatzHaderachUsedIn = ""
		p.HasSubmittedPlan = false
		p.PendingPlan = nil

		p.Leaders = p.Leaders[:0]
		for _, l := range reg.LeadersOf(p.Faction) {
			p.Leaders = append(p.Leaders, game.LeaderState{LeaderID: l.ID, Location: game.LeaderAvailable})
		}

		p.Hand, deck = deal(deck, startingHandSize)
		p.Traitors = dealTraitors(reg, g, p.Faction, setup.TraitorsDealt)

		g.Stacks = append(g.Stacks, game.ForceStack{
			GameID:    g.ID,
			Faction:   p.Faction,
			Territory: setup.HomeTerritory,
			Sector:    setup.HomeSector,
			Regular:   setup.Regulars,
			Elite:     setup.Elites,
		})
	}

	g.Status = game.StatusInProgress
	g.TurnNumber = 1
	g.Phase = game.PhasePlanning
	g.Message = "The game has started. Move forces and open a battle."
	g.ActionDeadline = time.Now().Add(actionTimeout)

	logging.Info("game started", logging.Fields{constants.LogFieldGameID: g.ID, "players": len(g.Players)})
	return repo.UpdateGame(g)
}

func buildDeck(reg *rules.Registry, copies map[string]int) []string {
	deck := make([]string, 0, 64)
	for _, c := range reg.Cards() {
		n := copies[c.ID]
		if n <= 0 {
			n = 1
		}
		for i := 0; i < n; i++ {
			deck = append(deck, c.ID)
		}
	}
	return deck
}

func deal(deck []string, n int) (hand, rest []string) {
	if n > len(deck) {
		n = len(deck)
	}
	hand = append([]string{}, deck[:n]...)
	return hand, deck[n:]
}

// dealTraitors draws n distinct leaders from the factions this player
// fights against. Own leaders are never dealt as traitors.
func dealTraitors(reg *rules.Registry, g *game.Game, f game.Faction, n int) []string {
	pool := make([]string, 0, 16)
	for i := range g.Players {
		other := g.Players[i].Faction
		if other == f {
			continue
		}
		for _, l := range reg.LeadersOf(other) {
			pool = append(pool, l.ID)
		}
	}
	rand.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	if n > len(pool) {
		n = len(pool)
	}
	return append([]string{}, pool[:n]...)
}
