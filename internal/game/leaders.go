package game

// LeaderLocation is the closed set of places a leader disc can be.
type LeaderLocation string

const (
	// LeaderAvailable: in the faction's pool, playable in any battle.
	LeaderAvailable LeaderLocation = "available"
	// LeaderOnBoard: already committed to a territory this turn; may only
	// fight again in that same territory.
	LeaderOnBoard LeaderLocation = "on_board"
	// LeaderTankFaceUp: dead, eligible for revival.
	LeaderTankFaceUp LeaderLocation = "tank_face_up"
	// LeaderTankFaceDown: dead, not yet eligible for revival.
	LeaderTankFaceDown LeaderLocation = "tank_face_down"
	LeaderCaptured     LeaderLocation = "captured"
)

// Leader is a static leader definition (registry data, never mutated).
// The mutable part of a leader, where its disc currently is, lives in
// LeaderState on the owning player.
type Leader struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Faction  Faction `json:"faction"`
	Strength int     `json:"strength"`
}
