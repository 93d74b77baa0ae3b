package games

import (
	"time"

	"rink-live-service/internal/domain/teams"
)

const defaultPenaltyMinutes = 2

// Apply produces the next aggregate from the current one and a stat
// update. The input aggregate is never mutated; on error the returned
// game is the zero value and nothing was applied.
//
// Score handling for goals only consults the sign of Value: any positive
// delta adds one goal to the scoring team, any negative delta retracts
// one, clamped at zero.
func Apply(g LiveGame, upd StatUpdate, eventID string, now time.Time) (LiveGame, error) {
	if g.Completed() {
		return LiveGame{}, ErrGameCompleted
	}
	if !upd.Type.Valid() {
		return LiveGame{}, ErrInvalidStatType
	}

	next := g.Clone()
	idx := next.PlayerIndex(upd.PlayerID)
	if idx < 0 {
		return LiveGame{}, ErrPlayerNotFound
	}

	p := &next.Players[idx]
	stats := &p.Stats

	switch upd.Type {
	case StatGoal:
		stats.Goals = clampMin0(stats.Goals + upd.Value)
		switch {
		case upd.Value > 0:
			next.addTeamScore(p.Team, 1)
		case upd.Value < 0:
			next.addTeamScore(p.Team, -1)
		}
	case StatAssist:
		stats.Assists = clampMin0(stats.Assists + upd.Value)
	case StatPenalty:
		minutes := defaultPenaltyMinutes
		if upd.PenaltyMinutes != nil {
			minutes = *upd.PenaltyMinutes
		}
		stats.PenaltyMinutes = clampMin0(stats.PenaltyMinutes + minutes)
	case StatShot:
		stats.Shots = clampMin0(stats.Shots + upd.Value)
	case StatHit:
		stats.Hits = clampMin0(stats.Hits + upd.Value)
	case StatBlock:
		stats.BlockedShots = clampMin0(stats.BlockedShots + upd.Value)
	case StatSave:
		// Save credit for a non-goalie is dropped silently; the event is
		// still recorded below.
		if p.IsGoalie() {
			stats.Saves = clampMin0(stats.Saves + upd.Value)
		}
	}

	stats.Points = stats.Goals + stats.Assists

	ev := GameEvent{
		ID:         eventID,
		Type:       upd.Type,
		PlayerID:   p.ID,
		PlayerName: p.Name,
		Team:       p.Team,
		Value:      upd.Value,
		Period:     next.Period,
		GameClock:  next.TimeRemaining,
		CreatedAt:  now,
	}
	if upd.Type == StatGoal && len(upd.AssistedBy) > 0 {
		ev.AssistedBy = make([]string, len(upd.AssistedBy))
		copy(ev.AssistedBy, upd.AssistedBy)
	}
	next.Events = append(next.Events, ev)
	next.UpdatedAt = now

	return next, nil
}

func (g *LiveGame) addTeamScore(side teams.Side, delta int) {
	switch side {
	case teams.SideHome:
		g.HomeTeam.Score = clampMin0(g.HomeTeam.Score + delta)
	case teams.SideAway:
		g.AwayTeam.Score = clampMin0(g.AwayTeam.Score + delta)
	}
}

func clampMin0(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
