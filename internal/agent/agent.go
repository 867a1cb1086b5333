// Package agent turns a battle position into a legal battle plan using an
// LLM. The model proposes, the engine disposes: every candidate runs
// through full plan validation and rejected candidates are retried with
// the machine-readable error list fed back, up to a small attempt cap.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/arrakeen/dune-battles/internal/constants"
	"github.com/arrakeen/dune-battles/internal/dedupe"
	"github.com/arrakeen/dune-battles/internal/engine"
	"github.com/arrakeen/dune-battles/internal/game"
	"github.com/arrakeen/dune-battles/internal/keys"
	"github.com/arrakeen/dune-battles/internal/logging"
	"github.com/arrakeen/dune-battles/internal/openaiclient"
	"github.com/arrakeen/dune-battles/internal/rules"
)

// maxAttempts caps the propose/validate loop. Three tries is enough for
// the model to fix a bad dial or swap an unavailable leader; anything
// still illegal after that falls back to the strongest suggestion.
const maxAttempts = 3

const systemPrompt = "You are a battle planner for a Dune strategy game. Respond with a single JSON object and nothing else."

// chatFn is swapped out in tests.
var chatFn = openaiclient.ChatCompletion

// planPromptTemplate can be set at application startup to customize the
// prompt used when requesting battle plans. Use the token {{battle}}
// where the JSON battle summary will be substituted.
var planPromptTemplate string

// SetPlanPromptTemplate sets a custom prompt template for plan
// generation. Call from main after loading configuration.
func SetPlanPromptTemplate(t string) {
	planPromptTemplate = strings.TrimSpace(t)
}

// position is the battle state the model is shown. Secret information of
// the opponent is deliberately absent.
type position struct {
	Territory       string                      `json:"territory"`
	Sector          int                         `json:"sector"`
	Faction         game.Faction                `json:"faction"`
	IsAggressor     bool                        `json:"is_aggressor"`
	AvailableForces int                         `json:"available_forces"`
	Spice           int                         `json:"spice"`
	AdvancedRules   bool                        `json:"advanced_rules"`
	Hand            []handCard                  `json:"hand"`
	Leaders         []game.Leader               `json:"playable_leaders"`
	Traitors        []string                    `json:"traitor_cards"`
	OpponentFaction game.Faction                `json:"opponent_faction"`
	Errors          []game.ValidationError      `json:"previous_errors,omitempty"`
	Suggestions     []game.BattlePlanSuggestion `json:"suggestions,omitempty"`
}

type handCard struct {
	ID   string        `json:"id"`
	Kind game.CardKind `json:"kind"`
}

// GeneratePlan asks the LLM for a battle plan for the given faction and
// returns the first candidate that passes validation, together with its
// validation result. Concurrent requests for the same battle side share
// one generation via singleflight.
func GeneratePlan(ctx context.Context, reg *rules.Registry, g *game.Game, f game.Faction) (game.BattlePlan, *game.ValidationResult, error) {
	key := keys.BattleKey(g.ID, g.BattleTerritory, string(f))
	v, err, _ := dedupe.PlanGroup.Do(key, func() (interface{}, error) {
		plan, vr, err := generate(ctx, reg, g, f)
		if err != nil {
			return nil, err
		}
		return planAndResult{plan, vr}, nil
	})
	if err != nil {
		return game.BattlePlan{}, nil, err
	}
	pr := v.(planAndResult)
	return pr.plan, pr.result, nil
}

type planAndResult struct {
	plan   game.BattlePlan
	result *game.ValidationResult
}

func generate(ctx context.Context, reg *rules.Registry, g *game.Game, f game.Faction) (game.BattlePlan, *game.ValidationResult, error) {
	ectx := engine.NewContext(reg, g)
	sector := g.BattleSector
	pos := buildPosition(ectx, g, f, sector)

	var lastErrs []game.ValidationError
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		pos.Errors = lastErrs
		if len(lastErrs) > 0 {
			pos.Suggestions = engine.BuildSuggestions(ectx, f, g.BattleTerritory, &sector)
		}

		raw, err := chatFn(ctx, systemPrompt, buildPrompt(pos))
		if err != nil {
			return game.BattlePlan{}, nil, err
		}

		plan, perr := parsePlan(raw)
		if perr != nil {
			logging.Error("agent returned unparsable plan", perr, logging.Fields{
				constants.LogFieldGameID:  g.ID,
				constants.LogFieldFaction: string(f),
				constants.LogFieldAttempt: attempt,
			})
			lastErrs = []game.ValidationError{{
				Code:    "unparsable_response",
				Message: "the previous response was not a valid JSON battle plan: " + perr.Error(),
			}}
			continue
		}

		vr := engine.Validate(ectx, f, g.BattleTerritory, &sector, plan)
		if vr.Valid {
			logging.Info("agent plan accepted", logging.Fields{
				constants.LogFieldGameID:  g.ID,
				constants.LogFieldFaction: string(f),
				constants.LogFieldAttempt: attempt,
			})
			return plan, &vr, nil
		}
		lastErrs = vr.Errors
	}

	// The model never converged; fall back to the strongest legal
	// suggestion rather than failing the caller.
	sugs := engine.BuildSuggestions(ectx, f, g.BattleTerritory, &sector)
	if len(sugs) == 0 {
		return game.BattlePlan{}, nil, fmt.Errorf("no legal plan found after %d attempts", maxAttempts)
	}
	plan := sugs[0].Plan
	vr := engine.Validate(ectx, f, g.BattleTerritory, &sector, plan)
	logging.Info("agent fell back to suggested plan", logging.Fields{
		constants.LogFieldGameID:  g.ID,
		constants.LogFieldFaction: string(f),
	})
	return plan, &vr, nil
}

func buildPosition(ectx *engine.Context, g *game.Game, f game.Faction, sector int) position {
	p := g.PlayerByFaction(f)
	opponent := g.DefenderFaction
	if f == g.DefenderFaction {
		opponent = g.AggressorFaction
	}

	pos := position{
		Territory:       g.BattleTerritory,
		Sector:          sector,
		Faction:         f,
		IsAggressor:     f == g.AggressorFaction,
		AvailableForces: ectx.BattlingForces(f, g.BattleTerritory, &sector),
		AdvancedRules:   g.AdvancedRules,
		Leaders:         ectx.PlayableLeaders(f, g.BattleTerritory),
		OpponentFaction: opponent,
	}
	if p != nil {
		pos.Spice = p.Spice
		pos.Traitors = p.Traitors
		for _, id := range p.Hand {
			if c, ok := ectx.Rules.Card(id); ok {
				pos.Hand = append(pos.Hand, handCard{ID: c.ID, Kind: c.Kind})
			}
		}
	}
	return pos
}

func buildPrompt(pos position) string {
	b, _ := json.Marshal(pos)
	prompt := planPromptTemplate
	if prompt == "" {
		prompt = "Propose a battle plan for this position: {{battle}}. " +
			"Reply with one JSON object with keys forces_dialed (int), and optionally " +
			"leader_id, cheap_hero, weapon_id, defense_id, spice_dialed, use_kwisatz_haderach, " +
			"no_leader_declared, call_traitor. Fix every listed previous error."
	}
	return strings.ReplaceAll(prompt, "{{battle}}", string(b))
}

// parsePlan extracts the first JSON object from the model output. Models
// occasionally wrap the object in prose or code fences despite the
// instructions.
func parsePlan(raw string) (game.BattlePlan, error) {
	var plan game.BattlePlan
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return plan, fmt.Errorf("no JSON object in response")
	}
	if err := json.Unmarshal([]byte(raw[start:end+1]), &plan); err != nil {
		return plan, err
	}
	return plan, nil
}
