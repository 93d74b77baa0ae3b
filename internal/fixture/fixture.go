// Package fixture provides a static set of games useful for local testing
// and bootstrapping.
package fixture

import (
	"time"

	"rink-live-service/internal/domain/games"
	"rink-live-service/internal/domain/players"
	"rink-live-service/internal/domain/teams"
)

// Provider generates deterministic example games.
type Provider struct {
	now func() time.Time
}

// New creates a fixture provider with a time source.
func New() *Provider {
	return &Provider{
		now: time.Now,
	}
}

// Games returns a deterministic set of example live games across two rinks.
func (p *Provider) Games() []games.LiveGame {
	created := p.now().UTC().Truncate(time.Hour)

	return []games.LiveGame{
		{
			ID:            "fixture-1",
			RinkID:        "rink-main",
			HomeTeam:      teams.Team{ID: "ice-hawks", Name: "Ice Hawks"},
			AwayTeam:      teams.Team{ID: "polar-kings", Name: "Polar Kings"},
			Period:        1,
			TimeRemaining: "15:00",
			Status:        games.StatusInProgress,
			Players: []players.GamePlayer{
				{ID: "p1", UserID: "u1", Name: "Sam Carter", Number: "9", Team: teams.SideHome, Position: players.PositionCenter},
				{ID: "p2", UserID: "u2", Name: "Alex Morgan", Number: "4", Team: teams.SideHome, Position: players.PositionDefense},
				{ID: "p3", UserID: "u3", Name: "Jordan Lee", Number: "17", Team: teams.SideAway, Position: players.PositionLeftWing},
				{ID: "p4", UserID: "u4", Name: "Riley Chen", Number: "31", Team: teams.SideAway, Position: players.PositionGoalie},
			},
			Events:    []games.GameEvent{},
			CreatedAt: created,
			UpdatedAt: created,
		},
		{
			ID:            "fixture-2",
			RinkID:        "rink-practice",
			HomeTeam:      teams.Team{ID: "river-otters", Name: "River Otters"},
			AwayTeam:      teams.Team{ID: "night-owls", Name: "Night Owls"},
			Period:        1,
			TimeRemaining: "20:00",
			Status:        games.StatusNotStarted,
			Players: []players.GamePlayer{
				{ID: "p5", UserID: "u5", Name: "Casey Flynn", Number: "22", Team: teams.SideHome, Position: players.PositionRightWing},
				{ID: "p6", UserID: "u6", Name: "Drew Novak", Number: "30", Team: teams.SideHome, Position: players.PositionGoalie},
				{ID: "p7", UserID: "u7", Name: "Taylor Brooks", Number: "11", Team: teams.SideAway, Position: players.PositionCenter},
			},
			Events:    []games.GameEvent{},
			CreatedAt: created.Add(time.Minute),
			UpdatedAt: created.Add(time.Minute),
		},
	}
}
