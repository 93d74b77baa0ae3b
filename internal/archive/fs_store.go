package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"rink-live-service/internal/domain/games"
)

// FSArchive persists finalized games to the filesystem with a manifest
// and rolling-window retention. Files land at
// {basePath}/games/{date}/{gameID}.json where date is the finalization
// day (UTC).
type FSArchive struct {
	basePath      string
	retentionDays int
}

// NewFSArchive constructs an archive rooted at basePath with a rolling
// window retention.
func NewFSArchive(basePath string, retentionDays int) *FSArchive {
	if retentionDays <= 0 {
		retentionDays = 30
	}
	return &FSArchive{
		basePath:      basePath,
		retentionDays: retentionDays,
	}
}

// BasePath exposes the archive root path (primarily for testing).
func (a *FSArchive) BasePath() string {
	if a == nil {
		return ""
	}
	return a.basePath
}

// SaveFinalGame writes the finalized game atomically and updates the
// manifest, pruning archive dates outside the retention window.
func (a *FSArchive) SaveFinalGame(ctx context.Context, game games.LiveGame) error {
	if a == nil {
		return fmt.Errorf("archive not configured")
	}
	if game.ID == "" {
		return fmt.Errorf("game id required")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	date := game.UpdatedAt.UTC().Format(DateLayout)
	target := GamePath(a.basePath, date, game.ID)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(game, "", "  ")
	if err != nil {
		return err
	}

	if existing, err := os.ReadFile(target); err == nil && bytes.Equal(existing, data) {
		return a.updateManifest(date)
	}

	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, target); err != nil {
		return err
	}

	return a.updateManifest(date)
}

// LoadGame reads an archived game back (used by tests and tooling).
func (a *FSArchive) LoadGame(date, gameID string) (games.LiveGame, error) {
	var g games.LiveGame
	f, err := os.Open(GamePath(a.basePath, date, gameID))
	if err != nil {
		return games.LiveGame{}, err
	}
	defer f.Close()
	if err := json.NewDecoder(f).Decode(&g); err != nil {
		return games.LiveGame{}, err
	}
	return g, nil
}

// GamePath returns the archive location for a finalized game.
func GamePath(basePath, date, gameID string) string {
	return filepath.Join(basePath, "games", date, fmt.Sprintf("%s.json", gameID))
}

func (a *FSArchive) updateManifest(date string) error {
	manifestPath := filepath.Join(a.basePath, "manifest.json")
	m, _ := readManifest(manifestPath, a.retentionDays)

	dates, err := a.listDates()
	if err != nil {
		return err
	}
	if !containsDate(dates, date) {
		dates = append(dates, date)
	}
	pruned, err := a.pruneOldDates(dates)
	if err != nil {
		return err
	}

	m.Games.Dates = pruned
	m.Games.LastArchived = time.Now().UTC()
	m.Retention.GamesDays = a.retentionDays

	return writeManifest(a.basePath, m)
}

func (a *FSArchive) listDates() ([]string, error) {
	dir := filepath.Join(a.basePath, "games")
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}
	var dates []string
	for _, e := range entries {
		if e.IsDir() {
			dates = append(dates, e.Name())
		}
	}
	sort.Strings(dates)
	return dates, nil
}

func (a *FSArchive) pruneOldDates(dates []string) ([]string, error) {
	now := time.Now().UTC()
	cutoff := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -a.retentionDays)
	var keep []string
	for _, d := range dates {
		parsed, err := time.Parse(DateLayout, d)
		if err != nil {
			keep = append(keep, d)
			continue
		}
		if parsed.Before(cutoff) {
			_ = os.RemoveAll(filepath.Join(a.basePath, "games", d))
			continue
		}
		keep = append(keep, d)
	}
	sort.Strings(keep)
	return keep, nil
}

func containsDate(dates []string, date string) bool {
	for _, d := range dates {
		if d == date {
			return true
		}
	}
	return false
}
