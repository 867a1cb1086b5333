package api

import (
	"net/http"

	"github.com/arrakeen/dune-battles/internal/constants"
	"github.com/arrakeen/dune-battles/internal/engine"
	"github.com/arrakeen/dune-battles/internal/game"
	"github.com/arrakeen/dune-battles/internal/service"

	"github.com/gin-gonic/gin"
)

type OpenBattleRequest struct {
	Territory string `json:"territory"`
	Sector    int    `json:"sector"`
	Aggressor string `json:"aggressor"`
	Defender  string `json:"defender"`
	// NewTurn advances the turn counter before opening, recalling
	// committed leaders and re-arming once-per-turn abilities.
	NewTurn bool `json:"new_turn"`
}

// OpenBattle starts the planning phase for a contested territory.
func (h *GameHandler) OpenBattle(c *gin.Context) {
	g, ok := h.loadGame(c)
	if !ok {
		return
	}
	var req OpenBattleRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Territory == "" {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	if !h.sessionIsParticipant(c, g) {
		return
	}

	g2, err := service.OpenBattle(h.repo, g.ID, req.Territory, req.Sector,
		game.Faction(req.Aggressor), game.Faction(req.Defender), req.NewTurn, h.actionTimeout)
	if err != nil {
		switch err {
		case service.ErrGameNotInProgress:
			c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrGameNotInProgress})
		case service.ErrBattleAlreadyOpen:
			c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrPlansLockedResolving})
		case service.ErrNoContestedForces, service.ErrSameFaction:
			c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: err.Error()})
		case service.ErrPlayerNotInGame:
			c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrPlayerNotInGame})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedUpdateGame})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{
		constants.JSONKeyMessage: "Battle opened. Submit battle plans.",
		"territory":              g2.BattleTerritory,
		"aggressor":              g2.AggressorFaction,
		"defender":               g2.DefenderFaction,
	})
}

// SubmitPlan validates and stores the session player's battle plan; the
// battle resolves as soon as both sides are in. A plan that fails
// validation comes back with the full error list and ranked suggestions
// so the caller can repair and retry.
func (h *GameHandler) SubmitPlan(c *gin.Context) {
	g, ok := h.loadGame(c)
	if !ok {
		return
	}
	var plan game.BattlePlan
	if err := c.ShouldBindJSON(&plan); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	emailStr := h.sessionEmail(c, g)
	if emailStr == "" {
		return
	}

	g2, vr, resolved, err := service.SubmitPlan(h.repo, h.rules, g.ID, emailStr, plan, h.actionTimeout)
	if err != nil {
		switch err {
		case service.ErrPlanRejected:
			c.JSON(http.StatusUnprocessableEntity, vr)
		case service.ErrGameNotFound:
			c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrGameNotFound})
		case service.ErrGameNotInProgress:
			c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrGameNotInProgress})
		case service.ErrPlansLocked:
			c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrPlansLockedResolving})
		case service.ErrNoBattleInProgress:
			c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrNoBattleInProgress})
		case service.ErrPlayerNotInGame:
			c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrPlayerNotInGame})
		case service.ErrNotBattleSide:
			c.JSON(http.StatusForbidden, gin.H{constants.JSONKeyError: constants.ErrNotABattleParticipant})
		case service.ErrPlanAlreadyInPlace:
			c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrPlanAlreadySubmitted})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedStorePlan})
		}
		return
	}

	if resolved {
		c.JSON(http.StatusOK, gin.H{
			constants.JSONKeyMessage: "Battle resolved",
			"validation":             vr,
			"summary":                g2.LastBattleSummary,
		})
	} else {
		c.JSON(http.StatusOK, gin.H{
			constants.JSONKeyMessage: "Plan stored. Waiting for the other side.",
			"validation":             vr,
		})
	}
}

// ValidatePlan is the dry-run twin of SubmitPlan: it runs full validation
// and returns the result without storing anything. Always 200; the
// verdict is in the body.
func (h *GameHandler) ValidatePlan(c *gin.Context) {
	g, ok := h.loadGame(c)
	if !ok {
		return
	}
	var plan game.BattlePlan
	if err := c.ShouldBindJSON(&plan); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	if g.BattleTerritory == "" {
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrNoBattleInProgress})
		return
	}
	emailStr := h.sessionEmail(c, g)
	if emailStr == "" {
		return
	}
	p := g.PlayerByEmail(emailStr)

	ctx := engine.NewContext(h.rules, g)
	sector := g.BattleSector
	vr := engine.Validate(ctx, p.Faction, g.BattleTerritory, &sector, plan)
	c.JSON(http.StatusOK, vr)
}

// sessionEmail extracts the authenticated email and verifies game
// membership, writing the error response on failure.
func (h *GameHandler) sessionEmail(c *gin.Context, g *game.Game) string {
	userEmail, _ := c.Get("userEmail")
	emailStr, _ := userEmail.(string)
	if emailStr == "" {
		c.JSON(http.StatusUnauthorized, gin.H{constants.JSONKeyError: constants.ErrAuthRequired})
		return ""
	}
	if g.PlayerByEmail(emailStr) == nil {
		c.JSON(http.StatusForbidden, gin.H{constants.JSONKeyError: constants.ErrPlayerNotInThisGame})
		return ""
	}
	return emailStr
}

func (h *GameHandler) sessionIsParticipant(c *gin.Context, g *game.Game) bool {
	return h.sessionEmail(c, g) != ""
}
