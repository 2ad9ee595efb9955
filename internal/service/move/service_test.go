package move

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/iamasit07/cube4/internal/domain"
	"github.com/iamasit07/cube4/internal/repository/redis"
	"github.com/iamasit07/cube4/internal/repository/sqldb"
	"github.com/iamasit07/cube4/internal/service/bot"
	goredis "github.com/redis/go-redis/v9"
)

type fakeRecorder struct {
	mu      sync.Mutex
	records []*sqldb.DecisionRecord
}

func (f *fakeRecorder) Record(d *sqldb.DecisionRecord) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, d)
	return true
}

type countingCache struct {
	redis.DecisionCache
	gets, sets int
}

func (c *countingCache) Get(ctx context.Context, key string) (redis.CachedMove, bool, error) {
	c.gets++
	return c.DecisionCache.Get(ctx, key)
}

func (c *countingCache) Set(ctx context.Context, key string, m redis.CachedMove, ttl time.Duration) error {
	c.sets++
	return c.DecisionCache.Set(ctx, key, m, ttl)
}

func newEngine(t *testing.T) *bot.Engine {
	return newEngineWith(t, nil)
}

func newEngineWith(t *testing.T, mutate func(*bot.Options)) *bot.Engine {
	t.Helper()
	opts := bot.DefaultOptions()
	opts.Depth = bot.DepthPolicy{Opening: 2, Midgame: 3, Endgame: 4, MidgameBelow: 40, EndgameBelow: 10}
	if mutate != nil {
		mutate(&opts)
	}
	e, err := bot.NewEngine(opts)
	if err != nil {
		t.Fatal(err)
	}
	return e
}

func newCache(t *testing.T) *countingCache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return &countingCache{DecisionCache: redis.NewRedisCache(client)}
}

func emptyGrid() [][][]int {
	var b domain.Board
	return b.Grid()
}

func TestChooseMoveRejectsBadPlayer(t *testing.T) {
	s := NewService(newEngine(t))
	for _, p := range []int{0, 3, -1} {
		_, err := s.ChooseMove(context.Background(), MoveRequest{Board: emptyGrid(), Player: p})
		if !errors.Is(err, domain.ErrInvalidPlayer) || !IsClientError(err) {
			t.Fatalf("player %d: expected ErrInvalidPlayer, got %v", p, err)
		}
	}
}

func TestChooseMoveCachesSearchResults(t *testing.T) {
	cache := newCache(t)
	rec := &fakeRecorder{}
	s := NewService(newEngine(t), WithCache(cache, time.Minute), WithRecorder(rec))

	req := MoveRequest{Board: emptyGrid(), Player: 1, Difficulty: "hard"}
	first, err := s.ChooseMove(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if first.Cached || first.Reason != bot.ReasonSearch || cache.sets != 1 {
		t.Fatalf("first call should search and fill the cache: %+v sets=%d", first, cache.sets)
	}

	second, err := s.ChooseMove(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if !second.Cached || second.X != first.X || second.Y != first.Y {
		t.Fatalf("second call should hit the cache with the same column: %+v vs %+v", second, first)
	}
	if second.Score != first.Score || second.Depth != first.Depth || second.Depth < 1 {
		t.Fatalf("cached reply should carry the searched score and depth: %+v vs %+v", second, first)
	}
	if second.DecisionID == first.DecisionID {
		t.Fatalf("decision ids must be unique")
	}

	if len(rec.records) != 2 || !rec.records[1].Cached || rec.records[0].Difficulty != "hard" {
		t.Fatalf("unexpected history: %+v", rec.records)
	}
}

func TestChooseMoveSkipsCacheForEasyAndTactics(t *testing.T) {
	cache := newCache(t)
	s := NewService(newEngine(t), WithCache(cache, time.Minute))

	if _, err := s.ChooseMove(context.Background(), MoveRequest{Board: emptyGrid(), Player: 2, Difficulty: "easy"}); err != nil {
		t.Fatal(err)
	}
	if cache.gets != 0 || cache.sets != 0 {
		t.Fatalf("easy must not touch the cache: gets=%d sets=%d", cache.gets, cache.sets)
	}

	var b domain.Board
	b.Set(domain.Point{X: 0, Y: 0, Z: 0}, domain.Player1)
	b.Set(domain.Point{X: 0, Y: 0, Z: 1}, domain.Player1)
	b.Set(domain.Point{X: 0, Y: 0, Z: 2}, domain.Player1)
	res, err := s.ChooseMove(context.Background(), MoveRequest{Board: b.Grid(), Player: 1, Difficulty: "hard"})
	if err != nil {
		t.Fatal(err)
	}
	if res.Reason != bot.ReasonWin || res.X != 0 || res.Y != 0 {
		t.Fatalf("expected immediate win, got %+v", res)
	}
	if cache.sets != 0 {
		t.Fatalf("tactical moves must not be cached")
	}
}

func TestChooseMoveIgnoresStaleCacheEntry(t *testing.T) {
	cache := newCache(t)
	s := NewService(newEngine(t), WithCache(cache, time.Minute))

	var b domain.Board
	for z := 0; z < domain.Size; z++ {
		b.Set(domain.Point{X: 1, Y: 1, Z: z}, domain.Blocked)
	}
	key := redis.CacheKey("hard", s.engineTag, &b, domain.Player1)
	cache.Set(context.Background(), key, redis.CachedMove{Column: domain.Column{X: 1, Y: 1}, Depth: 2}, time.Minute)

	res, err := s.ChooseMove(context.Background(), MoveRequest{Board: b.Grid(), Player: 1})
	if err != nil {
		t.Fatal(err)
	}
	if res.Cached || (res.X == 1 && res.Y == 1) {
		t.Fatalf("a full column from the cache must not be returned: %+v", res)
	}
}

func TestChooseMoveMalformedBoard(t *testing.T) {
	s := NewService(newEngine(t), WithDefaultDifficulty(bot.Medium))
	grid := [][][]int{{{0, 0, 0, 9}}}
	res, err := s.ChooseMove(context.Background(), MoveRequest{Board: grid, Player: 1, LastMove: []int{0, 0, 0}})
	if err != nil {
		t.Fatalf("malformed boards are answered, got %v", err)
	}
	if !res.Malformed {
		t.Fatalf("expected the malformed flag")
	}
	col := domain.Column{X: res.X, Y: res.Y}
	if !col.InRange() {
		t.Fatalf("column out of range: %+v", res)
	}
}

func TestChooseMoveFullBoard(t *testing.T) {
	s := NewService(newEngine(t))
	full, _ := domain.NewBoardFromGrid(nil)
	res, err := s.ChooseMove(context.Background(), MoveRequest{Board: full.Grid(), Player: 1})
	if err != nil {
		t.Fatal(err)
	}
	if res.Reason != bot.ReasonFallback || res.X != 0 || res.Y != 0 {
		t.Fatalf("expected fallback (0,0), got %+v", res)
	}
}

func TestChooseMoveCacheSeparatesEngineSettings(t *testing.T) {
	shallow := func(o *bot.Options) {
		o.Depth = bot.DepthPolicy{Opening: 1, Midgame: 1, Endgame: 1, MidgameBelow: 40, EndgameBelow: 10}
	}
	first := newEngineWith(t, shallow)
	second := newEngineWith(t, func(o *bot.Options) {
		shallow(o)
		o.Order = domain.OrderRowMajor
		o.Weights.Center = 0
	})
	if first.Options().Fingerprint() == second.Options().Fingerprint() {
		t.Fatalf("different settings must not share a fingerprint")
	}

	var b domain.Board
	b.Set(domain.Point{X: 3, Y: 3, Z: 0}, domain.Player2)
	req := MoveRequest{Board: b.Grid(), Player: 1, Difficulty: "hard"}
	ctx := context.Background()

	own, err := NewService(second).ChooseMove(ctx, req)
	if err != nil {
		t.Fatal(err)
	}

	cache := newCache(t)
	if _, err := NewService(first, WithCache(cache, time.Minute)).ChooseMove(ctx, req); err != nil {
		t.Fatal(err)
	}
	got, err := NewService(second, WithCache(cache, time.Minute)).ChooseMove(ctx, req)
	if err != nil {
		t.Fatal(err)
	}
	if got.Cached {
		t.Fatalf("an entry written under other engine settings was served: %+v", got)
	}
	if got.X != own.X || got.Y != own.Y {
		t.Fatalf("shared cache changed the answer: got (%d,%d), want (%d,%d)", got.X, got.Y, own.X, own.Y)
	}
}

func TestChooseMoveSkipsCacheForTruncatedSearch(t *testing.T) {
	e := newEngineWith(t, func(o *bot.Options) {
		o.Depth = bot.DepthPolicy{Opening: 8, Midgame: 8, Endgame: 8, MidgameBelow: 40, EndgameBelow: 10}
		o.MoveTimeout = time.Nanosecond
	})
	cache := newCache(t)
	s := NewService(e, WithCache(cache, time.Minute))

	res, err := s.ChooseMove(context.Background(), MoveRequest{Board: emptyGrid(), Player: 1, Difficulty: "hard"})
	if err != nil {
		t.Fatal(err)
	}
	if res.Reason != bot.ReasonSearch || res.Depth >= 8 {
		t.Fatalf("expected a search stopped by the deadline, got %+v", res)
	}
	if cache.sets != 0 {
		t.Fatalf("a deadline-truncated search must not be cached")
	}
}
