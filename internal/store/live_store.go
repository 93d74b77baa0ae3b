package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"rink-live-service/internal/domain/games"
)

const defaultArchiveTimeout = 5 * time.Second

// Archiver receives finalized games. Implementations live outside the
// store; a nil archiver disables the hand-off.
type Archiver interface {
	SaveFinalGame(ctx context.Context, game games.LiveGame) error
}

// LiveGameStore owns the authoritative in-memory state of all live games
// keyed by game id. Writes to one game are serialized by a per-game mutex
// so concurrent updates never lose each other; unrelated games update in
// parallel. Reads serve deep copies of the latest committed aggregate and
// never observe a partially applied update.
type LiveGameStore struct {
	mu    sync.RWMutex
	games map[string]games.LiveGame

	lockMu sync.Mutex
	locks  map[string]*sync.Mutex

	archive        Archiver
	archiveTimeout time.Duration

	now        func() time.Time
	newEventID func() string
}

// NewLiveGameStore constructs an empty store. archiveTimeout bounds the
// finalize hand-off; zero selects a default.
func NewLiveGameStore(archive Archiver, archiveTimeout time.Duration) *LiveGameStore {
	if archiveTimeout <= 0 {
		archiveTimeout = defaultArchiveTimeout
	}
	return &LiveGameStore{
		games:          make(map[string]games.LiveGame),
		locks:          make(map[string]*sync.Mutex),
		archive:        archive,
		archiveTimeout: archiveTimeout,
		now:            time.Now,
		newEventID:     uuid.NewString,
	}
}

// ListGames returns deep copies of all games tracked for the rink,
// ordered by creation time then id. The result is never nil.
func (s *LiveGameStore) ListGames(rinkID string) []games.LiveGame {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]games.LiveGame, 0, len(s.games))
	for _, g := range s.games {
		if g.RinkID == rinkID {
			result = append(result, g.Clone())
		}
	}
	sortGames(result)
	return result
}

// ListActiveGames returns deep copies of every non-completed game across
// all rinks, ordered by creation time then id.
func (s *LiveGameStore) ListActiveGames() []games.LiveGame {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]games.LiveGame, 0, len(s.games))
	for _, g := range s.games {
		if !g.Completed() {
			result = append(result, g.Clone())
		}
	}
	sortGames(result)
	return result
}

// GetGame retrieves a deep copy of a game by id.
func (s *LiveGameStore) GetGame(id string) (games.LiveGame, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.games[id]
	if !ok {
		return games.LiveGame{}, false
	}
	return g.Clone(), true
}

// PutGame registers or replaces a game. Game creation itself happens
// outside the store (league scheduling), so PutGame trusts the caller's
// aggregate apart from two rules: a completed game is never reopened, and
// derived player points are normalized on ingest.
func (s *LiveGameStore) PutGame(g games.LiveGame) error {
	lock := s.gameLock(g.ID)
	lock.Lock()
	defer lock.Unlock()

	now := s.now()
	g = g.Clone()
	if g.Status == "" {
		g.Status = games.StatusNotStarted
	}
	for i := range g.Players {
		stats := &g.Players[i].Stats
		stats.Points = stats.Goals + stats.Assists
	}
	if g.CreatedAt.IsZero() {
		g.CreatedAt = now
	}
	g.UpdatedAt = now

	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.games[g.ID]; ok {
		if prev.Completed() && !g.Completed() {
			return games.ErrGameCompleted
		}
		g.CreatedAt = prev.CreatedAt
	}
	s.games[g.ID] = g
	return nil
}

// ApplyStatUpdate applies a stat update against the latest committed
// aggregate for the game and commits the result atomically. Validation
// failures leave the stored aggregate untouched.
func (s *LiveGameStore) ApplyStatUpdate(gameID string, upd games.StatUpdate) (games.LiveGame, error) {
	lock := s.gameLock(gameID)
	lock.Lock()
	defer lock.Unlock()

	s.mu.RLock()
	g, ok := s.games[gameID]
	s.mu.RUnlock()
	if !ok {
		return games.LiveGame{}, ErrGameNotFound
	}

	next, err := games.Apply(g, upd, s.newEventID(), s.now())
	if err != nil {
		return games.LiveGame{}, err
	}

	s.mu.Lock()
	s.games[gameID] = next
	s.mu.Unlock()

	return next.Clone(), nil
}

// FinalizeGame transitions the game to completed and hands the final
// aggregate to the archive collaborator under a bounded context. A second
// finalize fails with ErrGameCompleted. An archive failure surfaces as a
// PersistenceError but the in-memory completed state stands; the returned
// game is the finalized aggregate either way.
func (s *LiveGameStore) FinalizeGame(ctx context.Context, gameID string) (games.LiveGame, error) {
	lock := s.gameLock(gameID)
	lock.Lock()
	defer lock.Unlock()

	s.mu.RLock()
	g, ok := s.games[gameID]
	s.mu.RUnlock()
	if !ok {
		return games.LiveGame{}, ErrGameNotFound
	}
	if g.Completed() {
		return games.LiveGame{}, games.ErrGameCompleted
	}

	final := g.Clone()
	final.Status = games.StatusCompleted
	final.UpdatedAt = s.now()

	s.mu.Lock()
	s.games[gameID] = final
	s.mu.Unlock()

	if s.archive != nil {
		actx, cancel := context.WithTimeout(ctx, s.archiveTimeout)
		defer cancel()
		if err := s.archive.SaveFinalGame(actx, final.Clone()); err != nil {
			return final.Clone(), &PersistenceError{GameID: gameID, Err: err}
		}
	}

	return final.Clone(), nil
}

func (s *LiveGameStore) gameLock(gameID string) *sync.Mutex {
	s.lockMu.Lock()
	defer s.lockMu.Unlock()

	lock, ok := s.locks[gameID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[gameID] = lock
	}
	return lock
}

func sortGames(list []games.LiveGame) {
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.Before(list[j].CreatedAt)
		}
		return list[i].ID < list[j].ID
	})
}
