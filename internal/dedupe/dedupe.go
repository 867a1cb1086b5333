package dedupe

// Package dedupe provides the shared singleflight group used to deduplicate
// concurrent agent plan generation. Using a centralized singleflight.Group
// ensures that only one LLM call runs for a given battle while other
// callers wait for the result.

import "golang.org/x/sync/singleflight"

// PlanGroup deduplicates agent plan generation requests keyed by the
// canonical battle key (see keys.BattleKey).
var PlanGroup singleflight.Group
