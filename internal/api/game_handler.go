package api

import (
	"time"

	"github.com/arrakeen/dune-battles/internal/config"
	"github.com/arrakeen/dune-battles/internal/rules"
	"github.com/arrakeen/dune-battles/internal/storage"
)

// GameHandler groups all game-related HTTP handlers.
type GameHandler struct {
	repo          storage.Repository
	rules         *rules.Registry
	cfg           *config.LoadedConfig
	actionTimeout time.Duration
}

// NewGameHandler creates a new GameHandler with the given repository,
// rules registry, loaded config and per-battle action timeout.
func NewGameHandler(repo storage.Repository, reg *rules.Registry, cfg *config.LoadedConfig, actionTimeout time.Duration) *GameHandler {
	return &GameHandler{repo: repo, rules: reg, cfg: cfg, actionTimeout: actionTimeout}
}
