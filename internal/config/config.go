package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/arrakeen/dune-battles/internal/game"
)

type cardEntry struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Kind            string `json:"kind"`
	CounteredBy     string `json:"countered_by"`
	DiscardAfterUse bool   `json:"discard_after_use"`
	Copies          int    `json:"copies"`
}

type leaderEntry struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Faction  string `json:"faction"`
	Strength int    `json:"strength"`
}

type factionEntry struct {
	Faction       string `json:"faction"`
	StartingSpice int    `json:"starting_spice"`
	Regulars      int    `json:"regulars"`
	Elites        int    `json:"elites"`
	HomeTerritory string `json:"home_territory"`
	HomeSector    int    `json:"home_sector"`
	TraitorsDealt int    `json:"traitors_dealt"`
}

type rawConfig struct {
	CardList    []cardEntry    `json:"card_list"`
	LeaderList  []leaderEntry  `json:"leader_list"`
	FactionList []factionEntry `json:"faction_list"`
	Server      *struct {
		Address string `json:"address"`
	} `json:"server"`
	AdvancedRules        bool `json:"advanced_rules"`
	ActionTimeoutMinutes int  `json:"action_timeout_minutes"`
	// Optional prompt template used by the agent endpoint. Use the token
	// {{battle}} where the JSON battle summary will be substituted. If
	// omitted, a default prompt is used.
	AgentPrompt string `json:"agent_prompt"`
}

// FactionSetup describes one faction's starting position when a game is
// seeded.
type FactionSetup struct {
	Faction       game.Faction
	StartingSpice int
	Regulars      int
	Elites        int
	HomeTerritory string
	HomeSector    int
	TraitorsDealt int
}

// LoadedConfig contains the card and leader definitions to seed and the
// server address to bind to.
type LoadedConfig struct {
	Cards    []game.TreacheryCard
	Leaders  []game.Leader
	Factions []FactionSetup
	// Number of hand copies per card id, defaulting to 1.
	CardCopies map[string]int

	ServerAddress        string
	AdvancedRules        bool
	ActionTimeoutMinutes int
	// Optional agent prompt template loaded from config
	AgentPromptTemplate string
}

var validKinds = map[game.CardKind]struct{}{
	game.CardPoisonWeapon:      {},
	game.CardProjectileWeapon:  {},
	game.CardSpecialWeapon:     {},
	game.CardPoisonDefense:     {},
	game.CardProjectileDefense: {},
	game.CardWorthless:         {},
	game.CardCheapHero:         {},
	game.CardSpecial:           {},
}

// LoadConfig reads the configuration file at path and returns the card,
// leader and faction definitions plus the server address. It requires the
// keys `card_list` and `leader_list` (snake_case).
func LoadConfig(path string) (*LoadedConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	var rc rawConfig
	if err := json.Unmarshal(b, &rc); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if len(rc.CardList) == 0 {
		return nil, fmt.Errorf("config file %s: card_list is empty (provide 'card_list' array)", path)
	}
	if len(rc.LeaderList) == 0 {
		return nil, fmt.Errorf("config file %s: leader_list is empty (provide 'leader_list' array)", path)
	}

	cards := make([]game.TreacheryCard, 0, len(rc.CardList))
	copies := make(map[string]int, len(rc.CardList))
	cardSet := make(map[string]struct{}, len(rc.CardList))
	for _, c := range rc.CardList {
		id := strings.TrimSpace(c.ID)
		if id == "" {
			return nil, fmt.Errorf("config file %s: card entry missing 'id'", path)
		}
		if _, exists := cardSet[id]; exists {
			return nil, fmt.Errorf("config file %s: duplicate card id '%s'", path, id)
		}
		cardSet[id] = struct{}{}
		kind := game.CardKind(c.Kind)
		if _, ok := validKinds[kind]; !ok {
			return nil, fmt.Errorf("config file %s: card '%s' has unknown kind '%s'", path, id, c.Kind)
		}
		if c.CounteredBy != "" && !game.CardKind(c.CounteredBy).IsDefense() {
			return nil, fmt.Errorf("config file %s: card '%s' countered_by '%s' is not a defense kind", path, id, c.CounteredBy)
		}
		n := c.Copies
		if n <= 0 {
			n = 1
		}
		copies[id] = n
		cards = append(cards, game.TreacheryCard{
			ID:              id,
			Name:            c.Name,
			Kind:            kind,
			CounteredBy:     game.CardKind(c.CounteredBy),
			DiscardAfterUse: c.DiscardAfterUse,
		})
	}

	leaders := make([]game.Leader, 0, len(rc.LeaderList))
	leaderSet := make(map[string]struct{}, len(rc.LeaderList))
	for _, l := range rc.LeaderList {
		id := strings.TrimSpace(l.ID)
		if id == "" {
			return nil, fmt.Errorf("config file %s: leader entry missing 'id'", path)
		}
		if _, exists := leaderSet[id]; exists {
			return nil, fmt.Errorf("config file %s: duplicate leader id '%s'", path, id)
		}
		leaderSet[id] = struct{}{}
		f := game.Faction(l.Faction)
		if !f.Valid() {
			return nil, fmt.Errorf("config file %s: leader '%s' has unknown faction '%s'", path, id, l.Faction)
		}
		if l.Strength < 0 {
			return nil, fmt.Errorf("config file %s: leader '%s' has negative strength", path, id)
		}
		leaders = append(leaders, game.Leader{ID: id, Name: l.Name, Faction: f, Strength: l.Strength})
	}

	setups := make([]FactionSetup, 0, len(rc.FactionList))
	factionSet := make(map[game.Faction]struct{}, len(rc.FactionList))
	for _, fe := range rc.FactionList {
		f := game.Faction(fe.Faction)
		if !f.Valid() {
			return nil, fmt.Errorf("config file %s: faction_list entry has unknown faction '%s'", path, fe.Faction)
		}
		if _, exists := factionSet[f]; exists {
			return nil, fmt.Errorf("config file %s: duplicate faction_list entry '%s'", path, fe.Faction)
		}
		factionSet[f] = struct{}{}
		if fe.StartingSpice < 0 || fe.Regulars < 0 || fe.Elites < 0 {
			return nil, fmt.Errorf("config file %s: faction '%s' has negative starting values", path, fe.Faction)
		}
		setups = append(setups, FactionSetup{
			Faction:       f,
			StartingSpice: fe.StartingSpice,
			Regulars:      fe.Regulars,
			Elites:        fe.Elites,
			HomeTerritory: fe.HomeTerritory,
			HomeSector:    fe.HomeSector,
			TraitorsDealt: fe.TraitorsDealt,
		})
	}

	addr := ":8080"
	if rc.Server != nil && rc.Server.Address != "" {
		addr = rc.Server.Address
	}
	timeout := rc.ActionTimeoutMinutes
	if timeout <= 0 {
		timeout = 15
	}

	return &LoadedConfig{
		Cards:                cards,
		Leaders:              leaders,
		Factions:             setups,
		CardCopies:           copies,
		ServerAddress:        addr,
		AdvancedRules:        rc.AdvancedRules,
		ActionTimeoutMinutes: timeout,
		AgentPromptTemplate:  strings.TrimSpace(rc.AgentPrompt),
	}, nil
}
