package game

import (
	"time"

	"gorm.io/gorm"
)

// Game status and phase values persisted on the Game row.
const (
	StatusWaiting    = "waiting"
	StatusInProgress = "in_progress"
	StatusFinished   = "finished"

	PhasePlanning  = "planning"
	PhaseResolving = "resolving"
	PhaseResolved  = "resolved"
)

type Game struct {
	gorm.Model
	Name        string `json:"name" gorm:"size:32"`
	Description string `json:"description" gorm:"size:256"`
	Private     bool   `json:"private"`
	JoinCode    string `json:"join_code" gorm:"unique"`
	// AdvancedRules enables the optional sub-systems (spice dialing).
	// Fixed at game creation.
	AdvancedRules bool `json:"advanced_rules"`

	Players []Player     `json:"players"`
	Stacks  []ForceStack `json:"stacks"`

	TurnNumber int    `json:"turn_number"`
	Phase      string `json:"phase"` // planning | resolving | resolved
	Status     string `json:"status"`

	// The currently contested territory. One battle is open at a time;
	// the service layer serializes battles that touch the same state.
	BattleTerritory  string  `json:"battle_territory"`
	BattleSector     int     `json:"battle_sector"`
	AggressorFaction Faction `json:"aggressor_faction"`
	DefenderFaction  Faction `json:"defender_faction"`

	Winner            string    `json:"winner"`
	Message           string    `json:"message"`
	LastBattleSummary string    `json:"last_battle_summary"`
	ActionDeadline    time.Time `json:"action_deadline"`
	StatsCounted      bool      `json:"-"`
}

type Player struct {
	gorm.Model
	GameID      uint    `json:"-"`
	PlayerUUID  string  `json:"player_uuid"`
	PlayerName  string  `json:"player_name"`
	PlayerEmail string  `json:"player_email"`
	Faction     Faction `json:"faction"`

	Spice int `json:"spice"`
	// Hand and Traitors hold card/leader identifiers; definitions live in
	// the rules registry.
	Hand     []string      `json:"hand" gorm:"serializer:json"`
	Traitors []string      `json:"traitors" gorm:"serializer:json"`
	Leaders  []LeaderState `json:"leaders"`

	// ForcesLostTotal accumulates battle casualties across the game; it
	// gates the Kwisatz Haderach for Atreides.
	ForcesLostTotal int `json:"forces_lost_total"`
	// KwisatzHaderachUsedIn is the territory where the Kwisatz Haderach
	// already fought this turn (empty when unused).
	KwisatzHaderachUsedIn string `json:"kwisatz_haderach_used_in"`

	HasSubmittedPlan bool        `json:"has_submitted_plan"`
	PendingPlan      *BattlePlan `json:"-" gorm:"serializer:json"`
}

// Store per-game participants in a dedicated table for clarity
func (Player) TableName() string { return "game_players" }

// LeaderState tracks where one leader disc currently is for one player.
type LeaderState struct {
	gorm.Model
	PlayerID uint           `json:"-"`
	LeaderID string         `json:"leader_id"`
	Location LeaderLocation `json:"location"`
	// FoughtIn is the territory this leader was committed to this turn;
	// an on-board leader may only fight again there.
	FoughtIn string `json:"fought_in"`
}

func (LeaderState) TableName() string { return "player_leaders" }

// ForceStack is one faction's forces in one sector of one territory.
// The battle engine reads stacks as snapshots and never mutates them.
type ForceStack struct {
	gorm.Model
	GameID    uint    `json:"-" gorm:"index"`
	Faction   Faction `json:"faction"`
	Territory string  `json:"territory"`
	Sector    int     `json:"sector"`
	Regular   int     `json:"regular"`
	Elite     int     `json:"elite"`
	// Advisors are Bene Gesserit non-combatant tokens. They share the
	// territory but never fight and never count as available forces.
	Advisors int `json:"advisors"`
}

// Battling returns the forces in this stack that can be dialed in battle.
func (s ForceStack) Battling() int { return s.Regular + s.Elite }

// BattleReport is the persisted, auditable record of one resolved battle.
type BattleReport struct {
	gorm.Model
	GameID     uint         `json:"-" gorm:"index"`
	TurnNumber int          `json:"turn_number"`
	Territory  string       `json:"territory"`
	Sector     int          `json:"sector"`
	Aggressor  Faction      `json:"aggressor"`
	Defender   Faction      `json:"defender"`
	Result     BattleResult `json:"result" gorm:"serializer:json"`
	Summary    string       `json:"summary"`
}

func (BattleReport) TableName() string { return "battle_reports" }

// User stores unique player identity and aggregate stats.
type User struct {
	gorm.Model
	PlayerUUID   string `gorm:"index"`
	PlayerName   string
	Email        string `gorm:"uniqueIndex"`
	GamesPlayed  int
	Wins         int
	Resignations int
}

// Unify global users table name as "player_profiles"
func (User) TableName() string { return "player_profiles" }

// PlayerByFaction returns the participant playing the given faction.
func (g *Game) PlayerByFaction(f Faction) *Player {
	for i := range g.Players {
		if g.Players[i].Faction == f {
			return &g.Players[i]
		}
	}
	return nil
}

// PlayerByEmail returns the participant with the given login email.
func (g *Game) PlayerByEmail(email string) *Player {
	for i := range g.Players {
		if g.Players[i].PlayerEmail == email {
			return &g.Players[i]
		}
	}
	return nil
}
