package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arrakeen/dune-battles/internal/agent"
	"github.com/arrakeen/dune-battles/internal/constants"
	"github.com/arrakeen/dune-battles/internal/logging"
	"github.com/arrakeen/dune-battles/internal/service"
)

// AgentPlan has the LLM draft a battle plan for the session player and
// submits it on their behalf. The generated plan is always returned so
// the caller can see what was played.
func (h *GameHandler) AgentPlan(c *gin.Context) {
	g, ok := h.loadGame(c)
	if !ok {
		return
	}
	emailStr := h.sessionEmail(c, g)
	if emailStr == "" {
		return
	}
	if g.BattleTerritory == "" {
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrNoBattleInProgress})
		return
	}
	p := g.PlayerByEmail(emailStr)
	if p.Faction != g.AggressorFaction && p.Faction != g.DefenderFaction {
		c.JSON(http.StatusForbidden, gin.H{constants.JSONKeyError: constants.ErrNotABattleParticipant})
		return
	}

	plan, _, err := agent.GeneratePlan(c.Request.Context(), h.rules, g, p.Faction)
	if err != nil {
		logging.Error("agent plan generation failed", err, logging.Fields{
			constants.LogFieldGameID:  g.ID,
			constants.LogFieldFaction: string(p.Faction),
		})
		c.JSON(http.StatusBadGateway, gin.H{constants.JSONKeyError: constants.ErrAgentPlanFailed})
		return
	}

	g2, vr, resolved, err := service.SubmitPlan(h.repo, h.rules, g.ID, emailStr, plan, h.actionTimeout)
	if err != nil {
		switch err {
		case service.ErrPlanRejected:
			// Generation validates against the same rules, so a
			// rejection here means the game state moved under us.
			c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrPlansLockedResolving, "validation": vr})
		case service.ErrPlanAlreadyInPlace:
			c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrPlanAlreadySubmitted})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedStorePlan})
		}
		return
	}

	resp := gin.H{"plan": plan, "validation": vr}
	if resolved {
		resp[constants.JSONKeyMessage] = "Battle resolved"
		resp["summary"] = g2.LastBattleSummary
	} else {
		resp[constants.JSONKeyMessage] = "Plan stored. Waiting for the other side."
	}
	c.JSON(http.StatusOK, resp)
}
