package storage

import (
	"time"

	"github.com/arrakeen/dune-battles/internal/game"
	"gorm.io/gorm"
)

type sqliteRepository struct {
	db *gorm.DB
}

func NewSQLiteRepository(db *gorm.DB) Repository {
	return &sqliteRepository{db: db}
}

func (r *sqliteRepository) CreateGame(g *game.Game) error {
	return r.db.Create(g).Error
}

func (r *sqliteRepository) GetGameByID(id uint) (*game.Game, error) {
	var g game.Game
	err := r.db.Preload("Players.Leaders").Preload("Stacks").First(&g, id).Error
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *sqliteRepository) UpdateGame(g *game.Game) error {
	return r.db.Session(&gorm.Session{FullSaveAssociations: true}).Save(g).Error
}

func (r *sqliteRepository) GetPublicGames() ([]game.Game, error) {
	var games []game.Game
	fiveMinutesAgo := time.Now().Add(-5 * time.Minute)
	if err := r.db.Preload("Players").Where("private = ? AND created_at > ?", false, fiveMinutesAgo).Order("created_at desc").Find(&games).Error; err != nil {
		return nil, err
	}
	// Only return games with at least one player
	filtered := make([]game.Game, 0, len(games))
	for i := range games {
		if len(games[i].Players) >= 1 {
			filtered = append(filtered, games[i])
		}
	}
	return filtered, nil
}

func (r *sqliteRepository) FindGameByJoinCode(code string) (*game.Game, error) {
	var g game.Game
	err := r.db.Preload("Players").Where("join_code = ?", code).First(&g).Error
	return &g, err
}

func (r *sqliteRepository) RemovePlayerByEmail(gameID uint, email string) error {
	tx := r.db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	var p game.Player
	if err := tx.Where("game_id = ? AND player_email = ?", gameID, email).
		Preload("Leaders").First(&p).Error; err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Where("player_id = ?", p.ID).Delete(&game.LeaderState{}).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Where("game_id = ? AND faction = ?", gameID, p.Faction).Delete(&game.ForceStack{}).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Delete(&p).Error; err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}

func (r *sqliteRepository) SaveBattleReport(rep *game.BattleReport) error {
	return r.db.Create(rep).Error
}

func (r *sqliteRepository) GetBattleReports(gameID uint) ([]game.BattleReport, error) {
	var reports []game.BattleReport
	if err := r.db.Where("game_id = ?", gameID).Order("created_at asc").Find(&reports).Error; err != nil {
		return nil, err
	}
	return reports, nil
}

func (r *sqliteRepository) UpdateStatsOnGameEnd(g *game.Game, resignedEmail string) error {
	// Helper to upsert and add deltas
	upsert := func(email, uuid, name string, played, wins, resigns int) error {
		var ps game.User
		if err := r.db.Where("email = ?", email).First(&ps).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				ps = game.User{Email: email, PlayerUUID: uuid, PlayerName: name}
			} else {
				return err
			}
		}
		ps.PlayerName = name
		ps.PlayerUUID = uuid
		ps.GamesPlayed += played
		ps.Wins += wins
		ps.Resignations += resigns
		return r.db.Save(&ps).Error
	}
	if len(g.Players) < 2 {
		return nil
	}
	for i := range g.Players {
		p := g.Players[i]
		if err := upsert(p.PlayerEmail, p.PlayerUUID, p.PlayerName, 1, 0, 0); err != nil {
			return err
		}
	}
	if g.Winner != "" {
		for i := range g.Players {
			p := g.Players[i]
			if p.PlayerName == g.Winner {
				if err := upsert(p.PlayerEmail, p.PlayerUUID, p.PlayerName, 0, 1, 0); err != nil {
					return err
				}
				break
			}
		}
	}
	if resignedEmail != "" {
		for i := range g.Players {
			p := g.Players[i]
			if p.PlayerEmail == resignedEmail {
				return upsert(p.PlayerEmail, p.PlayerUUID, p.PlayerName, 0, 0, 1)
			}
		}
	}
	return nil
}

func (r *sqliteRepository) GetStatsByEmail(email string) (*game.User, error) {
	var ps game.User
	if err := r.db.Where("email = ?", email).First(&ps).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return &game.User{Email: email}, nil
		}
		return nil, err
	}
	return &ps, nil
}

func (r *sqliteRepository) SaveUser(u *game.User) error {
	return r.db.Save(u).Error
}

func (r *sqliteRepository) UpsertUser(email, uuid, name string) error {
	var u game.User
	if err := r.db.Where("email = ?", email).First(&u).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			u = game.User{Email: email, PlayerUUID: uuid, PlayerName: name}
		} else {
			return err
		}
	}
	u.PlayerName = name
	u.PlayerUUID = uuid
	return r.db.Save(&u).Error
}

// GetTopPlayers returns top N players ordered by Wins desc, then GamesPlayed desc
func (r *sqliteRepository) GetTopPlayers(limit int) ([]game.User, error) {
	if limit <= 0 {
		limit = 10
	}
	var users []game.User
	if err := r.db.Model(&game.User{}).
		Order("wins DESC").
		Order("games_played DESC").
		Limit(limit).
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *sqliteRepository) FindTimedOutGames(now time.Time) ([]game.Game, error) {
	var games []game.Game
	if err := r.db.Preload("Players.Leaders").Preload("Stacks").
		Where("status = ? AND phase = ? AND action_deadline <= ?", game.StatusInProgress, game.PhasePlanning, now).
		Find(&games).Error; err != nil {
		return nil, err
	}
	return games, nil
}
