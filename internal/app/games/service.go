package games

import (
	"context"

	domaingames "rink-live-service/internal/domain/games"
)

// Store defines the contract the service needs from the live game store.
type Store interface {
	ListGames(rinkID string) []domaingames.LiveGame
	GetGame(id string) (domaingames.LiveGame, bool)
	PutGame(g domaingames.LiveGame) error
	ApplyStatUpdate(gameID string, upd domaingames.StatUpdate) (domaingames.LiveGame, error)
	FinalizeGame(ctx context.Context, gameID string) (domaingames.LiveGame, error)
}

// Service coordinates live game operations using a Store.
type Service struct {
	store Store
}

// NewService constructs a Service with the provided Store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Games returns the current games for a rink.
func (s *Service) Games(rinkID string) []domaingames.LiveGame {
	return s.store.ListGames(rinkID)
}

// GameByID returns a single game if present.
func (s *Service) GameByID(id string) (domaingames.LiveGame, bool) {
	return s.store.GetGame(id)
}

// Register adds or replaces a game in the store.
func (s *Service) Register(g domaingames.LiveGame) error {
	return s.store.PutGame(g)
}

// ApplyStatUpdate applies a scorekeeper stat update to a game.
func (s *Service) ApplyStatUpdate(gameID string, upd domaingames.StatUpdate) (domaingames.LiveGame, error) {
	return s.store.ApplyStatUpdate(gameID, upd)
}

// Finalize transitions a game to completed and archives it.
func (s *Service) Finalize(ctx context.Context, gameID string) (domaingames.LiveGame, error) {
	return s.store.FinalizeGame(ctx, gameID)
}
