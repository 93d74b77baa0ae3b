package teams

// Side identifies which bench a team or player belongs to within a game.
type Side string

const (
	SideHome Side = "home"
	SideAway Side = "away"
)

// Valid reports whether the side is one of the two known values.
func (s Side) Valid() bool {
	return s == SideHome || s == SideAway
}

// Team represents the normalized team shape for use inside games.
// Kept in its own package to keep domain models modular and reusable across fixtures/archive payloads.
type Team struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Score int    `json:"score"`
}
