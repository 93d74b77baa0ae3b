package players

import (
	"rink-live-service/internal/domain/teams"
)

// Position is a skater/goalie position code.
type Position string

const (
	PositionCenter    Position = "C"
	PositionLeftWing  Position = "LW"
	PositionRightWing Position = "RW"
	PositionDefense   Position = "D"
	PositionGoalie    Position = "G"
)

// Stats is the mutable per-game stat bucket for a player.
// Points is derived (goals + assists) and recomputed after every update,
// never stored independently. Goalie fields are only meaningful for
// position G.
type Stats struct {
	Goals           int `json:"goals"`
	Assists         int `json:"assists"`
	Points          int `json:"points"`
	PenaltyMinutes  int `json:"penaltyMinutes"`
	PlusMinus       int `json:"plusMinus"`
	Shots           int `json:"shots"`
	Hits            int `json:"hits"`
	BlockedShots    int `json:"blockedShots"`
	FaceoffWins     int `json:"faceoffWins,omitempty"`
	FaceoffAttempts int `json:"faceoffAttempts,omitempty"`
	Saves           int `json:"saves,omitempty"`
	ShotsAgainst    int `json:"shotsAgainst,omitempty"`
}

// GamePlayer is a roster entry within a single live game. ID is unique
// within the game; UserID is a non-owning back-reference to the player's
// global identity. Team is fixed at creation and never changes.
type GamePlayer struct {
	ID       string     `json:"id"`
	UserID   string     `json:"userId"`
	Name     string     `json:"name"`
	Number   string     `json:"number,omitempty"`
	Team     teams.Side `json:"team"`
	Position Position   `json:"position"`
	Stats    Stats      `json:"stats"`
}

// IsGoalie reports whether the player occupies the goalie position.
func (p GamePlayer) IsGoalie() bool {
	return p.Position == PositionGoalie
}
