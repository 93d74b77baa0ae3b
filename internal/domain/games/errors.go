package games

import "errors"

var (
	// ErrPlayerNotFound reports a stat update naming a player id that is
	// not on the game's roster.
	ErrPlayerNotFound = errors.New("player not found in game")

	// ErrGameCompleted reports an operation against a game that already
	// reached its terminal state.
	ErrGameCompleted = errors.New("game already completed")

	// ErrInvalidStatType reports an update with an unknown stat type.
	ErrInvalidStatType = errors.New("invalid stat type")
)
