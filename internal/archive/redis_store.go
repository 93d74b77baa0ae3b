package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"rink-live-service/internal/domain/games"
)

// RedisArchive persists finalized games to Redis: one JSON value per game
// plus a per-rink index set so league tooling can enumerate a rink's
// archived games.
type RedisArchive struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisArchive connects to the given redis URL and verifies the
// connection with a ping.
func NewRedisArchive(redisURL string, ttl time.Duration) (*RedisArchive, error) {
	if redisURL == "" {
		return nil, fmt.Errorf("REDIS_URL required for redis archive")
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return newRedisArchive(rdb, ttl), nil
}

func newRedisArchive(rdb *redis.Client, ttl time.Duration) *RedisArchive {
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &RedisArchive{rdb: rdb, ttl: ttl}
}

// Close releases the underlying client.
func (a *RedisArchive) Close() error {
	if a == nil || a.rdb == nil {
		return nil
	}
	return a.rdb.Close()
}

// SaveFinalGame stores the game payload and indexes it under its rink.
func (a *RedisArchive) SaveFinalGame(ctx context.Context, game games.LiveGame) error {
	if a == nil || a.rdb == nil {
		return fmt.Errorf("redis archive not initialized")
	}
	if game.ID == "" {
		return fmt.Errorf("game id required")
	}

	raw, err := json.Marshal(game)
	if err != nil {
		return err
	}

	pipe := a.rdb.TxPipeline()
	pipe.Set(ctx, gameKey(game.ID), raw, a.ttl)
	if game.RinkID != "" {
		key := rinkIndexKey(game.RinkID)
		pipe.SAdd(ctx, key, game.ID)
		pipe.Expire(ctx, key, a.ttl)
	}
	_, err = pipe.Exec(ctx)
	return err
}

// LoadGame reads an archived game back by id.
func (a *RedisArchive) LoadGame(ctx context.Context, gameID string) (games.LiveGame, bool, error) {
	raw, err := a.rdb.Get(ctx, gameKey(gameID)).Bytes()
	if err == redis.Nil {
		return games.LiveGame{}, false, nil
	}
	if err != nil {
		return games.LiveGame{}, false, err
	}
	var g games.LiveGame
	if err := json.Unmarshal(raw, &g); err != nil {
		return games.LiveGame{}, false, err
	}
	return g, true, nil
}

// RinkGameIDs lists the archived game ids recorded for a rink.
func (a *RedisArchive) RinkGameIDs(ctx context.Context, rinkID string) ([]string, error) {
	return a.rdb.SMembers(ctx, rinkIndexKey(rinkID)).Result()
}

func gameKey(id string) string      { return "archive:game:" + id }
func rinkIndexKey(id string) string { return "archive:rink:" + id }
