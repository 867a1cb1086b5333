package keys

import (
	"fmt"
	"strings"
)

// BattleKey produces a canonical key identifying one faction's side of a
// battle. Behavior: trims and lower-cases the parts, replaces spaces with
// underscores and joins them. Suitable as a stable singleflight or cache key.
func BattleKey(gameID uint, territory, faction string) string {
	norm := func(s string) string {
		return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), " ", "_"))
	}
	return fmt.Sprintf("%d:%s:%s", gameID, norm(territory), norm(faction))
}
