package redis

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/iamasit07/cube4/internal/domain"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/blake2b"
)

const keyPrefix = "cube4:move:"

// CachedMove is a finished search result for one position.
type CachedMove struct {
	Column domain.Column
	Score  int
	Depth  int
}

// DecisionCache remembers the move chosen for a position.
type DecisionCache interface {
	Get(ctx context.Context, key string) (CachedMove, bool, error)
	Set(ctx context.Context, key string, m CachedMove, ttl time.Duration) error
}

// CacheKey identifies a position for a given difficulty and engine
// configuration. engine is an opaque fingerprint of the settings that
// decide the move, so entries written under other settings are never read.
// The board cells are hashed in [z][y][x] order followed by the player.
func CacheKey(difficulty, engine string, b *domain.Board, player domain.PlayerID) string {
	var buf [domain.Cells + 1]byte
	i := 0
	for z := 0; z < domain.Size; z++ {
		for y := 0; y < domain.Size; y++ {
			for x := 0; x < domain.Size; x++ {
				buf[i] = byte(b[z][y][x])
				i++
			}
		}
	}
	buf[i] = byte(player)
	sum := blake2b.Sum256(buf[:])
	return keyPrefix + difficulty + ":" + engine + ":" + hex.EncodeToString(sum[:])
}

// RedisCache stores moves as "x,y,score,depth" strings.
type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (r *RedisCache) Get(ctx context.Context, key string) (CachedMove, bool, error) {
	val, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return CachedMove{}, false, nil
	}
	if err != nil {
		return CachedMove{}, false, err
	}

	var m CachedMove
	n, err := fmt.Sscanf(val, "%d,%d,%d,%d", &m.Column.X, &m.Column.Y, &m.Score, &m.Depth)
	if err != nil || n != 4 || !m.Column.InRange() || m.Depth < 1 {
		// stale or foreign value; treat as a miss and let it be overwritten
		return CachedMove{}, false, nil
	}
	return m, true, nil
}

func (r *RedisCache) Set(ctx context.Context, key string, m CachedMove, ttl time.Duration) error {
	val := fmt.Sprintf("%d,%d,%d,%d", m.Column.X, m.Column.Y, m.Score, m.Depth)
	return r.client.Set(ctx, key, val, ttl).Err()
}
