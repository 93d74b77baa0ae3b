package games

import (
	"errors"
	"testing"
	"time"

	"rink-live-service/internal/domain/players"
	"rink-live-service/internal/domain/teams"
)

var testNow = time.Date(2026, 3, 14, 19, 30, 0, 0, time.UTC)

func testGame() LiveGame {
	created := testNow.Add(-time.Hour)
	return LiveGame{
		ID:            "g1",
		RinkID:        "rink-main",
		HomeTeam:      teams.Team{ID: "h", Name: "Home"},
		AwayTeam:      teams.Team{ID: "a", Name: "Away"},
		Period:        2,
		TimeRemaining: "12:34",
		Status:        StatusInProgress,
		Players: []players.GamePlayer{
			{ID: "p1", UserID: "u1", Name: "Sam Carter", Team: teams.SideHome, Position: players.PositionCenter},
			{ID: "p2", UserID: "u2", Name: "Alex Morgan", Team: teams.SideHome, Position: players.PositionDefense},
			{ID: "p3", UserID: "u3", Name: "Jordan Lee", Team: teams.SideAway, Position: players.PositionLeftWing},
			{ID: "p4", UserID: "u4", Name: "Riley Chen", Team: teams.SideAway, Position: players.PositionGoalie},
		},
		CreatedAt: created,
		UpdatedAt: created,
	}
}

func mustApply(t *testing.T, g LiveGame, upd StatUpdate) LiveGame {
	t.Helper()
	next, err := Apply(g, upd, "ev-"+upd.PlayerID+string(upd.Type), testNow)
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	return next
}

func TestApplyGoalUpdatesScoreAndPoints(t *testing.T) {
	g := testGame()

	next := mustApply(t, g, StatUpdate{PlayerID: "p1", Type: StatGoal, Value: 1})

	p := next.Players[next.PlayerIndex("p1")]
	if p.Stats.Goals != 1 || p.Stats.Points != 1 {
		t.Fatalf("expected goals=1 points=1, got goals=%d points=%d", p.Stats.Goals, p.Stats.Points)
	}
	if next.HomeTeam.Score != 1 {
		t.Fatalf("expected home score 1, got %d", next.HomeTeam.Score)
	}
	if next.AwayTeam.Score != 0 {
		t.Fatalf("expected away score unchanged, got %d", next.AwayTeam.Score)
	}
	if len(next.Events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(next.Events))
	}
	ev := next.Events[0]
	if ev.Type != StatGoal || ev.PlayerID != "p1" || ev.PlayerName != "Sam Carter" || ev.Team != teams.SideHome {
		t.Fatalf("unexpected event snapshot: %+v", ev)
	}
	if ev.Period != 2 || ev.GameClock != "12:34" {
		t.Fatalf("expected event to capture period and clock, got %+v", ev)
	}
}

func TestApplyAssistKeepsScore(t *testing.T) {
	g := mustApply(t, testGame(), StatUpdate{PlayerID: "p1", Type: StatGoal, Value: 1})

	next := mustApply(t, g, StatUpdate{PlayerID: "p1", Type: StatAssist, Value: 1})

	p := next.Players[next.PlayerIndex("p1")]
	if p.Stats.Assists != 1 || p.Stats.Points != 2 {
		t.Fatalf("expected assists=1 points=2, got assists=%d points=%d", p.Stats.Assists, p.Stats.Points)
	}
	if next.HomeTeam.Score != 1 {
		t.Fatalf("expected home score to stay 1, got %d", next.HomeTeam.Score)
	}
	if len(next.Events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(next.Events))
	}
}

func TestApplyGoalRetractionRestoresState(t *testing.T) {
	g := testGame()
	after := mustApply(t, g, StatUpdate{PlayerID: "p1", Type: StatGoal, Value: 1})
	restored := mustApply(t, after, StatUpdate{PlayerID: "p1", Type: StatGoal, Value: -1})

	p := restored.Players[restored.PlayerIndex("p1")]
	if p.Stats.Goals != 0 || p.Stats.Points != 0 {
		t.Fatalf("expected goals and points back to 0, got goals=%d points=%d", p.Stats.Goals, p.Stats.Points)
	}
	if restored.HomeTeam.Score != 0 {
		t.Fatalf("expected home score back to 0, got %d", restored.HomeTeam.Score)
	}
	// Retractions are events too; the log never shrinks.
	if len(restored.Events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(restored.Events))
	}
}

func TestApplyGoalScoreUsesSignOnly(t *testing.T) {
	g := mustApply(t, testGame(), StatUpdate{PlayerID: "p1", Type: StatGoal, Value: 3})

	p := g.Players[g.PlayerIndex("p1")]
	if p.Stats.Goals != 3 {
		t.Fatalf("expected goals=3, got %d", p.Stats.Goals)
	}
	if g.HomeTeam.Score != 1 {
		t.Fatalf("expected score delta of 1 regardless of magnitude, got %d", g.HomeTeam.Score)
	}
}

func TestApplyNeverGoesNegative(t *testing.T) {
	g := testGame()

	next := mustApply(t, g, StatUpdate{PlayerID: "p3", Type: StatGoal, Value: -1})

	p := next.Players[next.PlayerIndex("p3")]
	if p.Stats.Goals != 0 || p.Stats.Points != 0 {
		t.Fatalf("expected clamped stats, got goals=%d points=%d", p.Stats.Goals, p.Stats.Points)
	}
	if next.AwayTeam.Score != 0 {
		t.Fatalf("expected away score clamped at 0, got %d", next.AwayTeam.Score)
	}

	next = mustApply(t, next, StatUpdate{PlayerID: "p3", Type: StatShot, Value: -5})
	if got := next.Players[next.PlayerIndex("p3")].Stats.Shots; got != 0 {
		t.Fatalf("expected shots clamped at 0, got %d", got)
	}
}

func TestApplyPenaltyDefaultsToTwoMinutes(t *testing.T) {
	g := mustApply(t, testGame(), StatUpdate{PlayerID: "p2", Type: StatPenalty, Value: 1})

	if got := g.Players[g.PlayerIndex("p2")].Stats.PenaltyMinutes; got != 2 {
		t.Fatalf("expected 2 penalty minutes, got %d", got)
	}

	five := 5
	g = mustApply(t, g, StatUpdate{PlayerID: "p2", Type: StatPenalty, PenaltyMinutes: &five})
	if got := g.Players[g.PlayerIndex("p2")].Stats.PenaltyMinutes; got != 7 {
		t.Fatalf("expected 7 penalty minutes, got %d", got)
	}
}

func TestApplyPenaltyIgnoresValue(t *testing.T) {
	// Value carries no meaning for penalties; minutes are always added.
	g := mustApply(t, testGame(), StatUpdate{PlayerID: "p2", Type: StatPenalty, Value: -1})

	if got := g.Players[g.PlayerIndex("p2")].Stats.PenaltyMinutes; got != 2 {
		t.Fatalf("expected 2 penalty minutes, got %d", got)
	}
}

func TestApplySaveForGoalie(t *testing.T) {
	g := mustApply(t, testGame(), StatUpdate{PlayerID: "p4", Type: StatSave, Value: 1})

	if got := g.Players[g.PlayerIndex("p4")].Stats.Saves; got != 1 {
		t.Fatalf("expected saves=1, got %d", got)
	}
	if len(g.Events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(g.Events))
	}
}

func TestApplySaveForNonGoalieNoOpsButRecordsEvent(t *testing.T) {
	g := mustApply(t, testGame(), StatUpdate{PlayerID: "p1", Type: StatSave, Value: 1})

	p := g.Players[g.PlayerIndex("p1")]
	if p.Stats.Saves != 0 {
		t.Fatalf("expected non-goalie saves to stay 0, got %d", p.Stats.Saves)
	}
	if len(g.Events) != 1 {
		t.Fatalf("expected event appended even for no-op save, got %d", len(g.Events))
	}
	if g.Events[0].Type != StatSave {
		t.Fatalf("expected save event, got %s", g.Events[0].Type)
	}
}

func TestApplyGoalRecordsAssistIDs(t *testing.T) {
	g := mustApply(t, testGame(), StatUpdate{PlayerID: "p1", Type: StatGoal, Value: 1, AssistedBy: []string{"p2"}})

	ev := g.Events[0]
	if len(ev.AssistedBy) != 1 || ev.AssistedBy[0] != "p2" {
		t.Fatalf("expected assist ids on goal event, got %+v", ev.AssistedBy)
	}
}

func TestApplyPlayerNotFound(t *testing.T) {
	_, err := Apply(testGame(), StatUpdate{PlayerID: "missing", Type: StatGoal, Value: 1}, "ev", testNow)
	if !errors.Is(err, ErrPlayerNotFound) {
		t.Fatalf("expected ErrPlayerNotFound, got %v", err)
	}
}

func TestApplyCompletedGame(t *testing.T) {
	g := testGame()
	g.Status = StatusCompleted

	_, err := Apply(g, StatUpdate{PlayerID: "p1", Type: StatGoal, Value: 1}, "ev", testNow)
	if !errors.Is(err, ErrGameCompleted) {
		t.Fatalf("expected ErrGameCompleted, got %v", err)
	}
}

func TestApplyInvalidStatType(t *testing.T) {
	_, err := Apply(testGame(), StatUpdate{PlayerID: "p1", Type: "dunk", Value: 1}, "ev", testNow)
	if !errors.Is(err, ErrInvalidStatType) {
		t.Fatalf("expected ErrInvalidStatType, got %v", err)
	}
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	g := testGame()

	_ = mustApply(t, g, StatUpdate{PlayerID: "p1", Type: StatGoal, Value: 1})

	if g.HomeTeam.Score != 0 {
		t.Fatalf("expected input aggregate untouched, home score %d", g.HomeTeam.Score)
	}
	if got := g.Players[g.PlayerIndex("p1")].Stats.Goals; got != 0 {
		t.Fatalf("expected input player stats untouched, goals %d", got)
	}
	if len(g.Events) != 0 {
		t.Fatalf("expected input events untouched, got %d", len(g.Events))
	}
}

func TestApplyBumpsUpdatedAt(t *testing.T) {
	g := testGame()
	next := mustApply(t, g, StatUpdate{PlayerID: "p1", Type: StatHit, Value: 1})
	if !next.UpdatedAt.Equal(testNow) {
		t.Fatalf("expected updatedAt %v, got %v", testNow, next.UpdatedAt)
	}
	if !next.CreatedAt.Equal(g.CreatedAt) {
		t.Fatalf("expected createdAt unchanged")
	}
}

func TestPointsInvariantAcrossSequences(t *testing.T) {
	g := testGame()
	updates := []StatUpdate{
		{PlayerID: "p1", Type: StatGoal, Value: 1},
		{PlayerID: "p1", Type: StatAssist, Value: 1},
		{PlayerID: "p1", Type: StatGoal, Value: 1},
		{PlayerID: "p1", Type: StatGoal, Value: -1},
		{PlayerID: "p1", Type: StatAssist, Value: -1},
		{PlayerID: "p1", Type: StatShot, Value: 1},
	}

	for i, upd := range updates {
		g = mustApply(t, g, upd)
		p := g.Players[g.PlayerIndex("p1")]
		if p.Stats.Points != p.Stats.Goals+p.Stats.Assists {
			t.Fatalf("points invariant broken after update %d: goals=%d assists=%d points=%d",
				i, p.Stats.Goals, p.Stats.Assists, p.Stats.Points)
		}
	}
}
