package storage

import (
	"time"

	"github.com/arrakeen/dune-battles/internal/game"
)

type Repository interface {
	GetPublicGames() ([]game.Game, error)
	CreateGame(g *game.Game) error
	GetGameByID(id uint) (*game.Game, error)
	FindGameByJoinCode(code string) (*game.Game, error)
	UpdateGame(g *game.Game) error
	RemovePlayerByEmail(gameID uint, email string) error

	// Battle reports are append-only audit records of resolved battles.
	SaveBattleReport(r *game.BattleReport) error
	GetBattleReports(gameID uint) ([]game.BattleReport, error)

	UpsertUser(email, uuid, name string) error
	UpdateStatsOnGameEnd(g *game.Game, resignedEmail string) error
	GetStatsByEmail(email string) (*game.User, error)
	SaveUser(u *game.User) error
	// Leaderboard
	GetTopPlayers(limit int) ([]game.User, error)
	// FindTimedOutGames returns games that are currently in-progress,
	// in the planning phase and whose action deadline is at or before
	// the provided time. The caller may then decide how to resolve them
	// (for example, marking them finished due to inactivity).
	FindTimedOutGames(now time.Time) ([]game.Game, error)
}
