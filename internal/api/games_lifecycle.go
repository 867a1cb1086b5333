package api

import (
	"net/http"
	"strconv"
	"unicode/utf8"

	"github.com/arrakeen/dune-battles/internal/constants"
	"github.com/arrakeen/dune-battles/internal/game"
	"github.com/arrakeen/dune-battles/internal/logging"
	"github.com/arrakeen/dune-battles/internal/service"

	"github.com/gin-gonic/gin"
)

type CreateGamePayload struct {
	PlayerName  string `json:"player_name"`
	PlayerEmail string `json:"player_email"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Private     bool   `json:"private"`
	Faction     string `json:"faction"`
}

// CreateGame creates a new game with the creator as first participant and
// returns IDs and join code. Advanced rules come from the server config,
// not the client: one deployment runs one rule set.
func (h *GameHandler) CreateGame(c *gin.Context) {
	var req CreateGamePayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	// Derive identity from session
	if v, ok := c.Get("userEmail"); ok {
		req.PlayerEmail, _ = v.(string)
	}
	if v, ok := c.Get("userName"); ok && req.PlayerName == "" {
		req.PlayerName, _ = v.(string)
	}

	// Validate lengths
	if utf8.RuneCountInString(req.Name) > 32 {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrGameNameExceeds})
		return
	}
	if utf8.RuneCountInString(req.Description) > 256 {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrDescriptionExceeds})
		return
	}
	faction := game.Faction(req.Faction)
	if !faction.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrUnknownFaction})
		return
	}

	joinCode := generateJoinCode()
	newGame := game.Game{
		Name:          req.Name,
		Description:   req.Description,
		Private:       req.Private,
		Status:        game.StatusWaiting,
		JoinCode:      joinCode,
		AdvancedRules: h.cfg.AdvancedRules,
		Players: []game.Player{
			{PlayerName: req.PlayerName, PlayerEmail: req.PlayerEmail, PlayerUUID: newPlayerUUID(), Faction: faction},
		},
		Message: "Game created. Waiting for more players.",
	}

	// Upsert user profile (name/email)
	_ = h.repo.UpsertUser(req.PlayerEmail, newGame.Players[0].PlayerUUID, req.PlayerName)

	if err := h.repo.CreateGame(&newGame); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedCreateGame})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"game_id":   newGame.ID,
		"join_code": joinCode,
	})
}

type JoinGamePayload struct {
	JoinCode    string `json:"join_code"`
	PlayerName  string `json:"player_name"`
	PlayerEmail string `json:"player_email"`
	Faction     string `json:"faction"`
}

// JoinGame adds a player to a waiting game via join code. Each faction
// can be played by at most one participant.
func (h *GameHandler) JoinGame(c *gin.Context) {
	var req JoinGamePayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	if v, ok := c.Get("userEmail"); ok {
		req.PlayerEmail, _ = v.(string)
	}
	if v, ok := c.Get("userName"); ok && req.PlayerName == "" {
		req.PlayerName, _ = v.(string)
	}

	code := normalizeJoinCode(req.JoinCode)
	if code == "" || !joinCodeRegex.MatchString(code) {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidGameID})
		return
	}
	g, err := h.repo.FindGameByJoinCode(code)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrGameNotFound})
		return
	}
	if g.Status != game.StatusWaiting {
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrGameAlreadyStartingOrStarted})
		return
	}
	if len(g.Players) >= len(game.AllFactions) {
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrGameFull})
		return
	}
	faction := game.Faction(req.Faction)
	if !faction.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrUnknownFaction})
		return
	}
	if g.PlayerByFaction(faction) != nil {
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrFactionTaken})
		return
	}

	newPlayer := game.Player{PlayerName: req.PlayerName, PlayerEmail: req.PlayerEmail, PlayerUUID: newPlayerUUID(), Faction: faction}
	g.Players = append(g.Players, newPlayer)
	g.Message = "A player joined. Waiting for the game to start."

	// Upsert user profile (name/email)
	_ = h.repo.UpsertUser(req.PlayerEmail, newPlayer.PlayerUUID, req.PlayerName)

	if err := h.repo.UpdateGame(g); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedUpdateGame})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"game_id":                g.ID,
		"join_code":              g.JoinCode,
		constants.JSONKeyMessage: "Successfully joined game",
	})
}

// StartGame seeds starting positions and opens the first planning phase.
func (h *GameHandler) StartGame(c *gin.Context) {
	g, ok := h.loadGame(c)
	if !ok {
		return
	}
	if g.Status != game.StatusWaiting {
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrGameAlreadyStartingOrStarted})
		return
	}
	if len(g.Players) < 2 {
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrNotEnoughPlayers})
		return
	}

	if err := service.StartGame(h.repo, h.rules, h.cfg, g, h.actionTimeout); err != nil {
		logging.Error("failed to start game", err, logging.Fields{constants.LogFieldGameID: g.ID})
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedUpdateGameStatus})
		return
	}
	c.JSON(http.StatusOK, gin.H{constants.JSONKeyMessage: "Game started"})
}

type EndGamePayload struct {
	PlayerEmail string `json:"player_email"`
}

// LeaveGame removes a player from a waiting room.
func (h *GameHandler) LeaveGame(c *gin.Context) {
	g, ok := h.loadGame(c)
	if !ok {
		return
	}
	if g.Status != game.StatusWaiting {
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrCannotLeaveAfterGameStarted})
		return
	}
	userEmail, _ := c.Get("userEmail")
	emailStr, _ := userEmail.(string)
	if emailStr == "" {
		c.JSON(http.StatusUnauthorized, gin.H{constants.JSONKeyError: constants.ErrAuthRequired})
		return
	}
	if g.PlayerByEmail(emailStr) == nil {
		c.JSON(http.StatusForbidden, gin.H{constants.JSONKeyError: constants.ErrPlayerNotInThisGame})
		return
	}
	if err := h.repo.RemovePlayerByEmail(g.ID, emailStr); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedRemovePlayer})
		return
	}
	// Reflect removal in the in-memory model to avoid re-attaching via FullSaveAssociations
	filtered := make([]game.Player, 0, len(g.Players))
	for _, p := range g.Players {
		if p.PlayerEmail != emailStr {
			filtered = append(filtered, p)
		}
	}
	g.Players = filtered
	g.Message = "A player left. Waiting for a new participant."
	if err := h.repo.UpdateGame(g); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrPlayerRemovedFailedUpdate})
		return
	}
	c.JSON(http.StatusOK, gin.H{constants.JSONKeyMessage: "Player removed"})
}

// EndGame allows any participant to end the match (cancels/finishes for all).
func (h *GameHandler) EndGame(c *gin.Context) {
	g, ok := h.loadGame(c)
	if !ok {
		return
	}
	// Default resolution on end
	g.Status = game.StatusFinished
	g.Phase = game.PhaseResolved
	g.Winner = ""

	// If a player is specified, count it as a resignation for that player.
	// Do NOT assign victory to the opponent: resignations only increment
	// the quitter's resignation stat and do not award a win to anyone.
	var req EndGamePayload
	_ = c.ShouldBindJSON(&req) // optional body; ignore errors

	userEmail, _ := c.Get("userEmail")
	emailStr, _ := userEmail.(string)
	if emailStr == "" {
		c.JSON(http.StatusUnauthorized, gin.H{constants.JSONKeyError: constants.ErrAuthRequired})
		return
	}

	loser := g.PlayerByEmail(emailStr)
	if loser == nil {
		c.JSON(http.StatusForbidden, gin.H{constants.JSONKeyError: constants.ErrPlayerNotInThisGame})
		return
	}
	g.Message = "Player resigned: " + loser.PlayerName

	// Update stats on resignation if not already counted
	if !g.StatsCounted {
		_ = h.repo.UpdateStatsOnGameEnd(g, loser.PlayerEmail)
		g.StatsCounted = true
	}
	if err := h.repo.UpdateGame(g); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedEndGame})
		return
	}
	c.JSON(http.StatusOK, gin.H{constants.JSONKeyMessage: "Game ended"})
}

// loadGame resolves the :gameID path param to a fully loaded game,
// writing the error response itself when that fails.
func (h *GameHandler) loadGame(c *gin.Context) (*game.Game, bool) {
	id, err := strconv.ParseUint(c.Param("gameID"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidGameID})
		return nil, false
	}
	g, err := h.repo.GetGameByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrGameNotFound})
		return nil, false
	}
	return g, true
}
