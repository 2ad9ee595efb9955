package move

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/iamasit07/cube4/internal/domain"
	"github.com/iamasit07/cube4/internal/repository/redis"
	"github.com/iamasit07/cube4/internal/repository/sqldb"
	"github.com/iamasit07/cube4/internal/service/bot"
	"github.com/iamasit07/cube4/pkg/uid"
	"github.com/rs/zerolog/log"
)

// MoveRequest is the transport-level form of a move request. Board is
// indexed [z][y][x].
type MoveRequest struct {
	Board      [][][]int `json:"board"`
	Player     int       `json:"player"`
	LastMove   []int     `json:"last_move,omitempty"`
	Difficulty string    `json:"difficulty,omitempty"`
}

type Result struct {
	X          int           `json:"x"`
	Y          int           `json:"y"`
	Reason     bot.Reason    `json:"reason"`
	Score      int           `json:"score"`
	Depth      int           `json:"depth"`
	Nodes      uint64        `json:"nodes"`
	Cached     bool          `json:"cached"`
	Malformed  bool          `json:"malformed,omitempty"`
	DecisionID string        `json:"decision_id"`
	Duration   time.Duration `json:"-"`
}

type Recorder interface {
	Record(d *sqldb.DecisionRecord) bool
}

type Service struct {
	engine            *bot.Engine
	engineTag         string
	cache             redis.DecisionCache
	cacheTTL          time.Duration
	recorder          Recorder
	defaultDifficulty bot.Difficulty
}

type Option func(*Service)

// WithCache enables the decision cache. A nil cache is ignored.
func WithCache(cache redis.DecisionCache, ttl time.Duration) Option {
	return func(s *Service) {
		s.cache = cache
		s.cacheTTL = ttl
	}
}

// WithRecorder enables decision history. A nil recorder is ignored.
func WithRecorder(r Recorder) Option {
	return func(s *Service) {
		s.recorder = r
	}
}

func WithDefaultDifficulty(d bot.Difficulty) Option {
	return func(s *Service) {
		s.defaultDifficulty = d
	}
}

func NewService(engine *bot.Engine, opts ...Option) *Service {
	s := &Service{
		engine:            engine,
		engineTag:         engine.Options().Fingerprint(),
		defaultDifficulty: bot.Hard,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ChooseMove validates the request, consults the cache, asks the engine and
// records the outcome. The only error is an invalid player; malformed
// boards are repaired and answered.
func (s *Service) ChooseMove(ctx context.Context, req MoveRequest) (Result, error) {
	player := domain.PlayerID(req.Player)
	if !player.IsPlayer() {
		return Result{}, fmt.Errorf("%w: %d", domain.ErrInvalidPlayer, req.Player)
	}

	board, err := domain.NewBoardFromGrid(req.Board)
	malformed := err != nil
	if malformed {
		log.Warn().Str("component", "move").Err(err).Msg("irregular board cells treated as blocked")
	}

	difficulty := s.defaultDifficulty
	if req.Difficulty != "" {
		difficulty = bot.ParseDifficulty(req.Difficulty)
	}

	var lastMove *domain.Point
	if len(req.LastMove) == 3 {
		lastMove = &domain.Point{X: req.LastMove[0], Y: req.LastMove[1], Z: req.LastMove[2]}
	}

	start := time.Now()
	var res Result
	key := ""
	if s.cacheable(difficulty) {
		key = redis.CacheKey(string(difficulty), s.engineTag, &board, player)
		if m, ok := s.cacheGet(ctx, key); ok && domain.IsValidMove(&board, m.Column) {
			res = Result{
				X:      m.Column.X,
				Y:      m.Column.Y,
				Reason: bot.ReasonSearch,
				Score:  m.Score,
				Depth:  m.Depth,
				Cached: true,
			}
		}
	}

	if !res.Cached {
		dec := s.engine.Decide(ctx, bot.Request{
			Board:      board,
			Player:     player,
			LastMove:   lastMove,
			Difficulty: difficulty,
		})
		res = Result{
			X:      dec.Column.X,
			Y:      dec.Column.Y,
			Reason: dec.Reason,
			Score:  dec.Score,
			Depth:  dec.Depth,
			Nodes:  dec.Nodes,
		}
		// a search cut short by the deadline is not the configured answer
		if key != "" && dec.Reason == bot.ReasonSearch && !dec.Truncated {
			s.cacheSet(ctx, key, redis.CachedMove{Column: dec.Column, Score: dec.Score, Depth: dec.Depth})
		}
	}

	res.Malformed = malformed
	res.Duration = time.Since(start)
	res.DecisionID = uid.GenerateDecisionID()
	s.record(&board, player, difficulty, res)
	return res, nil
}

func (s *Service) cacheable(d bot.Difficulty) bool {
	return s.cache != nil && d.Deterministic()
}

func (s *Service) cacheGet(ctx context.Context, key string) (redis.CachedMove, bool) {
	m, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		log.Warn().Str("component", "move").Err(err).Msg("decision cache read failed")
		return redis.CachedMove{}, false
	}
	return m, ok
}

func (s *Service) cacheSet(ctx context.Context, key string, m redis.CachedMove) {
	if err := s.cache.Set(ctx, key, m, s.cacheTTL); err != nil {
		log.Warn().Str("component", "move").Err(err).Msg("decision cache write failed")
	}
}

func (s *Service) record(b *domain.Board, player domain.PlayerID, difficulty bot.Difficulty, res Result) {
	if s.recorder == nil {
		return
	}
	grid, err := json.Marshal(b.Grid())
	if err != nil {
		log.Error().Str("component", "move").Err(err).Msg("failed to encode board for history")
		return
	}
	s.recorder.Record(&sqldb.DecisionRecord{
		DecisionID: res.DecisionID,
		Player:     int(player),
		Difficulty: string(difficulty),
		Reason:     string(res.Reason),
		X:          res.X,
		Y:          res.Y,
		Score:      res.Score,
		Depth:      res.Depth,
		Nodes:      res.Nodes,
		DurationMS: res.Duration.Milliseconds(),
		Cached:     res.Cached,
		Board:      string(grid),
	})
}

// IsClientError reports whether err was caused by the request itself.
func IsClientError(err error) bool {
	return errors.Is(err, domain.ErrInvalidPlayer) || errors.Is(err, domain.ErrMalformedInput)
}
