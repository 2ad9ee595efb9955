package bot

import (
	"context"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/iamasit07/cube4/internal/domain"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/blake2b"
)

type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// ParseDifficulty falls back to Hard for anything unrecognised.
func ParseDifficulty(s string) Difficulty {
	switch Difficulty(strings.ToLower(strings.TrimSpace(s))) {
	case Easy:
		return Easy
	case Medium:
		return Medium
	default:
		return Hard
	}
}

// Deterministic reports whether the same board always yields the same move.
func (d Difficulty) Deterministic() bool {
	return d != Easy
}

type Reason string

const (
	ReasonWin      Reason = "win"
	ReasonBlock    Reason = "block"
	ReasonSearch   Reason = "search"
	ReasonRandom   Reason = "random"
	ReasonFallback Reason = "fallback"
)

// FallbackColumn is returned when the board has no legal move at all.
var FallbackColumn = domain.Column{X: 0, Y: 0}

type Options struct {
	Depth       DepthPolicy
	Weights     Weights
	Order       domain.MoveOrder
	Parallel    bool
	MoveTimeout time.Duration
}

func DefaultOptions() Options {
	return Options{
		Depth:       DefaultDepthPolicy,
		Weights:     DefaultWeights,
		Order:       domain.OrderCenter,
		MoveTimeout: 5 * time.Second,
	}
}

type Request struct {
	Board      domain.Board
	Player     domain.PlayerID
	LastMove   *domain.Point
	Difficulty Difficulty
}

type Decision struct {
	Column    domain.Column
	Reason    Reason
	Score     int
	Depth     int
	Nodes     uint64
	Truncated bool // search hit MoveTimeout before its planned depth
	Duration  time.Duration
}

// Engine turns a board into a move. It keeps no state between calls and
// can serve concurrent requests.
type Engine struct {
	opts     Options
	searcher *Searcher
}

func NewEngine(opts Options) (*Engine, error) {
	if err := opts.Weights.Validate(); err != nil {
		return nil, err
	}
	if err := opts.Depth.Validate(); err != nil {
		return nil, err
	}
	return &Engine{
		opts: opts,
		searcher: NewSearcher(SearchOptions{
			Order:    opts.Order,
			Weights:  opts.Weights,
			Parallel: opts.Parallel,
		}),
	}, nil
}

func (e *Engine) Options() Options {
	return e.opts
}

// Fingerprint identifies the settings that decide which move a search
// picks: move order, weights and depth policy. MoveTimeout and Parallel do
// not change the answer of a completed search and are left out.
func (o Options) Fingerprint() string {
	raw := fmt.Sprintf("order=%s weights=%d/%d/%d/%d/%d/%d depth=%d/%d/%d/%d/%d medium=%d",
		o.Order,
		o.Weights.Three, o.Weights.Two, o.Weights.One, o.Weights.OppThree, o.Weights.OppTwo, o.Weights.Center,
		o.Depth.Opening, o.Depth.Midgame, o.Depth.Endgame, o.Depth.MidgameBelow, o.Depth.EndgameBelow,
		mediumDepth)
	sum := blake2b.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:8])
}

// Decide plays a one-ply win if there is one, otherwise blocks a one-ply
// opponent win, otherwise searches. It always returns an in-range column.
func (e *Engine) Decide(ctx context.Context, req Request) Decision {
	start := time.Now()
	d := e.decide(ctx, req)
	d.Duration = time.Since(start)

	event := log.Debug().
		Str("component", "bot").
		Int("player", int(req.Player)).
		Str("difficulty", string(req.Difficulty)).
		Stringer("column", d.Column).
		Str("reason", string(d.Reason)).
		Int("score", d.Score).
		Int("depth", d.Depth).
		Uint64("nodes", d.Nodes).
		Dur("took", d.Duration)
	if req.LastMove != nil {
		event = event.Ints("last_move", []int{req.LastMove.X, req.LastMove.Y, req.LastMove.Z})
	}
	event.Msg("move decided")
	return d
}

func (e *Engine) decide(ctx context.Context, req Request) Decision {
	board := req.Board
	moves := domain.GetValidMoves(&board, e.opts.Order)
	if len(moves) == 0 {
		log.Warn().
			Str("component", "bot").
			Err(domain.ErrNoLegalMoves).
			Msg("move requested on a full board, returning fallback column")
		return Decision{Column: FallbackColumn, Reason: ReasonFallback}
	}

	if col, ok := findWinningMove(&board, moves, req.Player); ok {
		return Decision{Column: col, Reason: ReasonWin, Score: WinScore, Depth: 1}
	}
	if col, ok := findWinningMove(&board, moves, req.Player.Opponent()); ok {
		return Decision{Column: col, Reason: ReasonBlock, Depth: 1}
	}

	switch req.Difficulty {
	case Easy:
		return calculateEasyMove(moves)
	case Medium:
		return e.search(ctx, board, req.Player, mediumDepth)
	default:
		return e.search(ctx, board, req.Player, e.opts.Depth.DepthFor(board.EmptyCount()))
	}
}

func (e *Engine) search(ctx context.Context, board domain.Board, player domain.PlayerID, depth int) Decision {
	if e.opts.MoveTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.opts.MoveTimeout)
		defer cancel()
	}
	res := e.searcher.Search(ctx, board, player, depth)
	return Decision{
		Column:    res.Column,
		Reason:    ReasonSearch,
		Score:     res.Score,
		Depth:     res.Depth,
		Nodes:     res.Nodes,
		Truncated: res.Truncated,
	}
}

// findWinningMove returns the first column in move order whose landing cell
// completes a line for player. Lines already on the board do not count.
func findWinningMove(board *domain.Board, moves []domain.Column, player domain.PlayerID) (domain.Column, bool) {
	if !player.IsPlayer() {
		return domain.Column{}, false
	}
	for _, col := range moves {
		z, err := board.Apply(col, player)
		if err != nil {
			continue
		}
		won := domain.CheckWin(board, domain.Point{X: col.X, Y: col.Y, Z: z}, player)
		board.Undo(col)
		if won {
			return col, true
		}
	}
	return domain.Column{}, false
}
