package games

import (
	"time"

	"rink-live-service/internal/domain/teams"
)

// StatType enumerates the discrete scoring events a scorekeeper can record.
type StatType string

const (
	StatGoal    StatType = "goal"
	StatAssist  StatType = "assist"
	StatPenalty StatType = "penalty"
	StatShot    StatType = "shot"
	StatHit     StatType = "hit"
	StatBlock   StatType = "block"
	StatSave    StatType = "save"
)

// Valid reports whether the stat type is one of the known values.
func (t StatType) Valid() bool {
	switch t {
	case StatGoal, StatAssist, StatPenalty, StatShot, StatHit, StatBlock, StatSave:
		return true
	}
	return false
}

// StatUpdate is a scorekeeper input. Value is conventionally +1 to add a
// stat and -1 to retract a previously recorded one. PenaltyMinutes applies
// only to penalty updates; AssistedBy only to goals.
type StatUpdate struct {
	PlayerID       string   `json:"playerId"`
	Type           StatType `json:"statType"`
	Value          int      `json:"value"`
	PenaltyMinutes *int     `json:"penaltyMinutes,omitempty"`
	AssistedBy     []string `json:"assistedBy,omitempty"`
}

// GameEvent is an immutable fact appended to the game's event log, exactly
// one per accepted StatUpdate. Player name and side are snapshotted from
// the roster at creation time, not taken from the update.
type GameEvent struct {
	ID         string     `json:"id"`
	Type       StatType   `json:"type"`
	PlayerID   string     `json:"playerId"`
	PlayerName string     `json:"playerName"`
	Team       teams.Side `json:"team"`
	Value      int        `json:"value"`
	Period     int        `json:"period"`
	GameClock  string     `json:"gameClock"`
	AssistedBy []string   `json:"assistedBy,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

func (e GameEvent) clone() GameEvent {
	out := e
	if e.AssistedBy != nil {
		out.AssistedBy = make([]string, len(e.AssistedBy))
		copy(out.AssistedBy, e.AssistedBy)
	}
	return out
}
