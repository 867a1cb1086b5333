package main

import (
	"os"
	"time"

	"github.com/arrakeen/dune-battles/internal/agent"
	"github.com/arrakeen/dune-battles/internal/api"
	"github.com/arrakeen/dune-battles/internal/config"
	"github.com/arrakeen/dune-battles/internal/constants"
	"github.com/arrakeen/dune-battles/internal/logging"
	"github.com/arrakeen/dune-battles/internal/rules"
	"github.com/arrakeen/dune-battles/internal/service"
	"github.com/arrakeen/dune-battles/internal/storage"

	"github.com/gin-gonic/gin"
)

func main() {
	checkEnvVars([]string{constants.EnvSessionSecret, constants.EnvGoogleClientID, constants.EnvGoogleClientSecret, constants.EnvOpenAIAPIKey})

	// Load the rules configuration file (required). Path may be provided
	// via DUNE_CONFIG_PATH or defaults to ./dune_config.json in the
	// current working directory.
	configPath := os.Getenv(constants.EnvConfigPath)
	if configPath == "" {
		configPath = "./dune_config.json"
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logging.Fatal("Missing or invalid rules configuration", err, logging.Fields{"config_path": configPath, "hint": "create a dune_config.json with 'card_list', 'leader_list' and 'faction_list' arrays and optional keys: server.address, advanced_rules, action_timeout_minutes, agent_prompt"})
	}

	reg, err := rules.NewRegistry(cfg.Cards, cfg.Leaders)
	if err != nil {
		logging.Fatal("Invalid rules configuration", err, logging.Fields{"config_path": configPath})
	}

	if cfg.AgentPromptTemplate != "" {
		agent.SetPlanPromptTemplate(cfg.AgentPromptTemplate)
	}

	// Allow the DB path to be configured via DUNE_DATABASE_PATH. Default
	// to a `data/` directory inside the module for local development.
	dbPath := os.Getenv(constants.EnvDatabasePath)
	if dbPath == "" {
		dbPath = "./data/dune.db"
	}
	db, err := storage.OpenAndMigrate(dbPath)
	if err != nil {
		logging.Fatal("Failed to initialize database", err, nil)
	}

	repo := storage.NewSQLiteRepository(db)
	actionTimeout := time.Duration(cfg.ActionTimeoutMinutes) * time.Minute
	handler := api.NewGameHandler(repo, reg, cfg, actionTimeout)
	authHandler := api.NewAuthHandler(repo)

	// Background scanner: periodically pick up games whose planning
	// deadline has passed. A missing side gets the strongest legal plan
	// auto-submitted; a battle with no plans at all ends the game with
	// no winner.
	go func() {
		ticker := time.NewTicker(1 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			now := time.Now()
			games, err := repo.FindTimedOutGames(now)
			if err != nil {
				logging.Error("timeout scanner failed", err, nil)
				continue
			}
			for _, g := range games {
				gg, err := repo.GetGameByID(g.ID)
				if err != nil {
					continue
				}
				if err := service.HandleTimedOutGame(repo, reg, gg, actionTimeout); err != nil {
					logging.Error("failed to handle timed-out game", err, logging.Fields{constants.LogFieldGameID: gg.ID})
				}
			}
		}
	}()

	router := gin.Default()

	apiRoutes := router.Group(constants.RouteAPIPrefix)
	{
		// Public endpoints
		apiRoutes.GET("/version", api.Version)
		apiRoutes.GET(constants.RouteRules, handler.ListRules)
		apiRoutes.GET(constants.RoutePublicGames, handler.ListPublicGames)
		apiRoutes.GET(constants.RouteLeaderboard, handler.ListLeaderboard)

		// Authenticated endpoints
		protected := apiRoutes.Group("")
		protected.Use(api.AuthRequired())

		protected.GET(constants.RoutePlayerStats, handler.GetPlayerStats)
		protected.POST(constants.RoutePlayerStats, handler.UpdatePlayerProfile)
		protected.POST(constants.RouteGames, handler.CreateGame)
		protected.POST(constants.RouteGamesJoin, handler.JoinGame)
		protected.GET(constants.RouteGameByID, handler.GetGame)
		protected.POST(constants.RouteGameStart, handler.StartGame)
		protected.POST(constants.RouteGameEnd, handler.EndGame)
		protected.POST(constants.RouteGameLeave, handler.LeaveGame)
		protected.POST(constants.RouteGameBattle, handler.OpenBattle)
		protected.POST(constants.RouteGamePlan, handler.SubmitPlan)
		protected.POST(constants.RouteGamePlanValidate, handler.ValidatePlan)
		protected.POST(constants.RouteGamePlanAgent, handler.AgentPlan)
		protected.GET(constants.RouteGameReports, handler.ListBattleReports)
	}

	router.POST(constants.RouteAuthGoogleCallBack, authHandler.GoogleOAuthCallback)

	addr := cfg.ServerAddress
	logging.Info("Server started", logging.Fields{constants.LogFieldAddr: addr})
	if err := router.Run(addr); err != nil {
		logging.Fatal("Failed to start server", err, nil)
	}
}

func checkEnvVars(vars []string) {
	for _, v := range vars {
		if os.Getenv(v) == "" {
			logging.Fatal("Required environment variable not set", nil, logging.Fields{"var": v})
		}
	}
}
