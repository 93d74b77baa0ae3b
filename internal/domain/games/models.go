package games

import (
	"time"

	"rink-live-service/internal/domain/players"
	"rink-live-service/internal/domain/teams"
)

// GameStatus mirrors the shared contract for game lifecycle states.
// The store owns only the transition into StatusCompleted, which is
// terminal; the remaining transitions are driven by the scorekeeper.
type GameStatus string

const (
	StatusNotStarted   GameStatus = "not_started"
	StatusInProgress   GameStatus = "in_progress"
	StatusIntermission GameStatus = "intermission"
	StatusCompleted    GameStatus = "completed"
)

// SideCounters holds a per-side aggregate counter pair.
type SideCounters struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

// LiveGame is the aggregate root for one live game: teams, roster, event
// log and lifecycle state treated as a single consistency unit.
//
// Penalties and Shots are team-level counters maintained independently of
// the per-player stat buckets; a per-player shot or penalty update does
// not feed them.
type LiveGame struct {
	ID            string               `json:"id"`
	RinkID        string               `json:"rinkId"`
	HomeTeam      teams.Team           `json:"homeTeam"`
	AwayTeam      teams.Team           `json:"awayTeam"`
	Period        int                  `json:"period"`
	TimeRemaining string               `json:"timeRemaining"`
	Status        GameStatus           `json:"status"`
	Players       []players.GamePlayer `json:"players"`
	Events        []GameEvent          `json:"events"`
	Penalties     SideCounters         `json:"penalties"`
	Shots         SideCounters         `json:"shots"`
	CreatedAt     time.Time            `json:"createdAt"`
	UpdatedAt     time.Time            `json:"updatedAt"`
}

// Completed reports whether the game has reached its terminal state.
func (g LiveGame) Completed() bool {
	return g.Status == StatusCompleted
}

// Clone returns a deep copy of the aggregate so callers holding a
// previously returned snapshot never observe later mutations.
func (g LiveGame) Clone() LiveGame {
	out := g
	if g.Players != nil {
		out.Players = make([]players.GamePlayer, len(g.Players))
		copy(out.Players, g.Players)
	}
	if g.Events != nil {
		out.Events = make([]GameEvent, len(g.Events))
		for i, ev := range g.Events {
			out.Events[i] = ev.clone()
		}
	}
	return out
}

// PlayerIndex returns the roster index for the given player id, or -1.
func (g LiveGame) PlayerIndex(playerID string) int {
	for i := range g.Players {
		if g.Players[i].ID == playerID {
			return i
		}
	}
	return -1
}

// RinkResponse is the payload returned by /games?rink={id}.
type RinkResponse struct {
	RinkID string     `json:"rinkId"`
	Games  []LiveGame `json:"games"`
}

// NewRinkResponse builds a RinkResponse payload.
func NewRinkResponse(rinkID string, games []LiveGame) RinkResponse {
	if games == nil {
		games = []LiveGame{}
	}
	return RinkResponse{
		RinkID: rinkID,
		Games:  games,
	}
}
