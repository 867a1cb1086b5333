package game

// BattlePlan is one side's secret commitment for a single battle. Plans
// are created by players (or the plan agent), validated by the engine and
// consumed exactly once by a resolution call.
type BattlePlan struct {
	ForcesDialed int    `json:"forces_dialed"`
	LeaderID     string `json:"leader_id,omitempty"`
	// CheapHero plays a cheap-hero card instead of a leader. Mutually
	// exclusive with LeaderID.
	CheapHero bool   `json:"cheap_hero,omitempty"`
	WeaponID  string `json:"weapon_id,omitempty"`
	DefenseID string `json:"defense_id,omitempty"`
	// SpiceDialed is the advanced-rules spice commitment backing the
	// dialed forces. Nil means the side dialed no spice at all; zero is a
	// deliberate zero under advanced rules.
	SpiceDialed *int `json:"spice_dialed,omitempty"`
	// UseKwisatzHaderach commits the Kwisatz Haderach behind this side's
	// leader (Atreides only, once active).
	UseKwisatzHaderach bool `json:"use_kwisatz_haderach,omitempty"`
	// NoLeaderDeclared is the explicit acknowledgement that the faction
	// has no available leader and holds no cheap hero.
	NoLeaderDeclared bool `json:"no_leader_declared,omitempty"`
	// CallTraitor announces a traitor reveal against the opposing leader.
	// The call only takes effect when the opponent's committed leader
	// matches a traitor card the caller holds.
	CallTraitor bool `json:"call_traitor,omitempty"`
}

// HasCommander reports whether the plan commits a leader or a cheap hero.
// Weapon and defense cards require one of the two.
func (p BattlePlan) HasCommander() bool {
	return p.LeaderID != "" || p.CheapHero
}

// SpicePayout is currency owed to a faction as part of a battle outcome.
type SpicePayout struct {
	Faction Faction `json:"faction"`
	Amount  int     `json:"amount"`
	Reason  string  `json:"reason"`
}

// BattleSideResult is the per-side half of a BattleResult.
type BattleSideResult struct {
	Faction      Faction `json:"faction"`
	ForcesDialed int     `json:"forces_dialed"`
	// SpiceDialed is the spice this side committed and must pay; zero
	// outside advanced rules.
	SpiceDialed int `json:"spice_dialed"`
	// ForcesLost is what this side removes from the territory: the dialed
	// count for the winner, the full territory count for the loser.
	ForcesLost   int    `json:"forces_lost"`
	LeaderID     string `json:"leader_id,omitempty"`
	CheapHero    bool   `json:"cheap_hero,omitempty"`
	LeaderKilled bool   `json:"leader_killed"`
	// LeaderStrength is the leader's contribution to the side total
	// (zero when the leader was killed or a cheap hero stood in).
	LeaderStrength      int      `json:"leader_strength"`
	UsedKwisatzHaderach bool     `json:"used_kwisatz_haderach,omitempty"`
	WeaponID            string   `json:"weapon_id,omitempty"`
	DefenseID           string   `json:"defense_id,omitempty"`
	WeaponEffective     bool     `json:"weapon_effective"`
	DefenseEffective    bool     `json:"defense_effective"`
	CardsToDiscard      []string `json:"cards_to_discard"`
	CardsToKeep         []string `json:"cards_to_keep"`
	Total               float64  `json:"total"`
}

// BattleResult is the immutable outcome of one resolved battle. The
// engine never applies it; the service layer owns removing forces,
// moving cards, transferring spice and updating leader locations.
type BattleResult struct {
	Territory string `json:"territory"`
	Sector    int    `json:"sector"`
	// Winner and Loser are empty for the double-traitor and explosion
	// outcomes, where nobody wins.
	Winner      Faction `json:"winner,omitempty"`
	Loser       Faction `json:"loser,omitempty"`
	WinnerTotal float64 `json:"winner_total"`
	LoserTotal  float64 `json:"loser_total"`

	TraitorRevealed   bool    `json:"traitor_revealed"`
	TraitorRevealedBy Faction `json:"traitor_revealed_by,omitempty"`
	TwoTraitors       bool    `json:"two_traitors"`

	LasgunShieldExplosion bool `json:"lasgun_shield_explosion"`

	Aggressor BattleSideResult `json:"aggressor"`
	Defender  BattleSideResult `json:"defender"`

	SpicePayouts []SpicePayout `json:"spice_payouts"`
	Summary      string        `json:"summary"`
}

// Side returns the side result belonging to the given faction, or nil.
func (r *BattleResult) Side(f Faction) *BattleSideResult {
	if r.Aggressor.Faction == f {
		return &r.Aggressor
	}
	if r.Defender.Faction == f {
		return &r.Defender
	}
	return nil
}

// ValidationError is one independent problem found in a proposed battle
// plan. The fields are machine-readable on purpose: automated callers
// (the plan agent) parse them to self-correct without a human in the loop.
type ValidationError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Field      string `json:"field"`
	Actual     any    `json:"actual,omitempty"`
	Expected   any    `json:"expected,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

// BattlePlanSuggestion is a ranked, ready-to-submit alternative offered
// alongside validation failures.
type BattlePlanSuggestion struct {
	Description       string     `json:"description"`
	Plan              BattlePlan `json:"plan"`
	EstimatedStrength float64    `json:"estimated_strength"`
}

// ValidationResult is the outcome of validating a single battle plan.
// Validation failures are values, never errors: every check runs and
// every problem is reported at once.
type ValidationResult struct {
	Valid bool `json:"valid"`
	// EstimatedStrength is a planning aid (plain forces plus leader
	// strength); only meaningful when Valid.
	EstimatedStrength float64                `json:"estimated_strength"`
	Errors            []ValidationError      `json:"errors,omitempty"`
	Suggestions       []BattlePlanSuggestion `json:"suggestions,omitempty"`
}
