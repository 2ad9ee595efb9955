package bot

import (
	"context"
	"math"
	"runtime"
	"sync/atomic"

	"github.com/iamasit07/cube4/internal/domain"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const (
	// WinScore dominates any heuristic value. Terminal scores add the
	// remaining depth so quicker wins and slower losses are preferred.
	WinScore  = 1000000
	DrawScore = 0

	infinity = math.MaxInt32

	// how many nodes between context checks
	cancelCheckInterval = 1024
)

type SearchOptions struct {
	Order    domain.MoveOrder
	Weights  Weights
	Parallel bool
}

type SearchResult struct {
	Column    domain.Column
	Score     int
	Depth     int
	Nodes     uint64
	Truncated bool // the deadline stopped deepening before maxDepth
}

// Searcher runs depth-limited alpha-beta searches. It holds no per-search
// state and is safe for concurrent use.
type Searcher struct {
	opts SearchOptions
}

func NewSearcher(opts SearchOptions) *Searcher {
	return &Searcher{opts: opts}
}

// Search deepens iteratively up to maxDepth and returns the deepest result
// that finished before ctx expired. Depth 1 always runs to completion.
func (s *Searcher) Search(ctx context.Context, b domain.Board, ref domain.PlayerID, maxDepth int) SearchResult {
	if empty := b.EmptyCount(); maxDepth > empty {
		maxDepth = empty
	}
	if maxDepth < 1 {
		maxDepth = 1
	}

	var best SearchResult
	var nodes uint64
	for depth := 1; depth <= maxDepth; depth++ {
		runCtx := ctx
		if depth == 1 {
			runCtx = context.Background()
		}
		res, err := s.SearchDepth(runCtx, b, ref, depth)
		nodes += res.Nodes
		if err != nil {
			log.Debug().
				Int("completed_depth", best.Depth).
				Int("requested_depth", maxDepth).
				Msg("search deadline reached")
			best.Truncated = true
			break
		}
		best = res
		if best.Score >= WinScore {
			break
		}
	}
	best.Nodes = nodes
	return best
}

// SearchDepth searches exactly depth plies. It returns ctx.Err() if the
// context ended before the search finished; the partial result is then
// meaningless apart from its node count.
func (s *Searcher) SearchDepth(ctx context.Context, b domain.Board, ref domain.PlayerID, depth int) (SearchResult, error) {
	if err := ctx.Err(); err != nil {
		return SearchResult{Depth: depth}, err
	}

	moves := domain.GetValidMoves(&b, s.opts.Order)
	if len(moves) == 0 {
		return SearchResult{Column: domain.Column{}, Score: DrawScore, Depth: depth}, nil
	}

	if outcome := domain.Classify(&b, ref); outcome != domain.Ongoing {
		return SearchResult{Column: moves[0], Score: terminalScore(outcome, depth), Depth: depth}, nil
	}

	if s.opts.Parallel && len(moves) > 1 {
		return s.searchParallel(ctx, b, ref, depth, moves)
	}

	st := &searchState{ctx: ctx, board: b, ref: ref, opts: &s.opts}
	bestCol := moves[0]
	bestScore := -infinity
	alpha, beta := -infinity, infinity

	for _, col := range moves {
		score, ok := st.child(col, ref, depth, alpha, beta)
		if !ok {
			continue
		}
		if score > bestScore {
			bestScore = score
			bestCol = col
		}
		alpha = max(alpha, bestScore)
	}

	res := SearchResult{Column: bestCol, Score: bestScore, Depth: depth, Nodes: st.nodes}
	if st.aborted {
		return res, ctx.Err()
	}
	return res, nil
}

// searchParallel gives every root column its own board copy and a full
// window, then folds the results in move order.
func (s *Searcher) searchParallel(ctx context.Context, b domain.Board, ref domain.PlayerID, depth int, moves []domain.Column) (SearchResult, error) {
	scores := make([]int, len(moves))
	valid := make([]bool, len(moves))
	var nodes atomic.Uint64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, col := range moves {
		g.Go(func() error {
			st := &searchState{ctx: gctx, board: b, ref: ref, opts: &s.opts}
			score, ok := st.child(col, ref, depth, -infinity, infinity)
			nodes.Add(st.nodes)
			if st.aborted {
				return gctx.Err()
			}
			scores[i], valid[i] = score, ok
			return nil
		})
	}
	err := g.Wait()

	bestCol := moves[0]
	bestScore := -infinity
	for i, col := range moves {
		if valid[i] && scores[i] > bestScore {
			bestScore = scores[i]
			bestCol = col
		}
	}
	return SearchResult{Column: bestCol, Score: bestScore, Depth: depth, Nodes: nodes.Load()}, err
}

type searchState struct {
	ctx     context.Context
	board   domain.Board
	ref     domain.PlayerID
	opts    *SearchOptions
	nodes   uint64
	aborted bool
}

// child plays col for mover, scores the resulting position with depth-1
// plies left and takes the move back.
func (st *searchState) child(col domain.Column, mover domain.PlayerID, depth, alpha, beta int) (int, bool) {
	z, err := st.board.Apply(col, mover)
	if err != nil {
		return 0, false
	}
	defer st.board.Undo(col)

	if domain.CheckWin(&st.board, domain.Point{X: col.X, Y: col.Y, Z: z}, mover) {
		st.nodes++
		if mover == st.ref {
			return terminalScore(domain.Win, depth-1), true
		}
		return terminalScore(domain.Loss, depth-1), true
	}
	if st.board.IsFull() {
		st.nodes++
		return DrawScore, true
	}
	return st.alphaBeta(depth-1, alpha, beta, mover.Opponent()), true
}

// alphaBeta scores the current board with toMove to play. The board is
// known not to be terminal on entry.
func (st *searchState) alphaBeta(depth, alpha, beta int, toMove domain.PlayerID) int {
	st.nodes++
	if st.aborted {
		return 0
	}
	if st.nodes%cancelCheckInterval == 0 && st.ctx.Err() != nil {
		st.aborted = true
		return 0
	}

	if depth == 0 {
		return Evaluate(&st.board, st.ref, st.opts.Weights)
	}

	moves := domain.GetValidMoves(&st.board, st.opts.Order)
	if len(moves) == 0 {
		return DrawScore
	}

	if toMove == st.ref {
		best := -infinity
		for _, col := range moves {
			score, ok := st.child(col, toMove, depth, alpha, beta)
			if !ok {
				continue
			}
			best = max(best, score)
			alpha = max(alpha, best)
			if beta <= alpha {
				break // beta cutoff
			}
		}
		return best
	}

	best := infinity
	for _, col := range moves {
		score, ok := st.child(col, toMove, depth, alpha, beta)
		if !ok {
			continue
		}
		best = min(best, score)
		beta = min(beta, best)
		if beta <= alpha {
			break // alpha cutoff
		}
	}
	return best
}

func terminalScore(outcome domain.Outcome, depthLeft int) int {
	switch outcome {
	case domain.Win:
		return WinScore + depthLeft
	case domain.Loss:
		return -(WinScore + depthLeft)
	default:
		return DrawScore
	}
}

// Minimax is the plain exhaustive search without pruning. It scores exactly
// like SearchDepth and exists to check it.
func Minimax(b domain.Board, ref domain.PlayerID, depth int, opts SearchOptions) int {
	if outcome := domain.Classify(&b, ref); outcome != domain.Ongoing {
		return terminalScore(outcome, depth)
	}
	st := &searchState{ctx: context.Background(), board: b, ref: ref, opts: &opts}
	return st.minimax(depth, ref)
}

func (st *searchState) minimax(depth int, toMove domain.PlayerID) int {
	if depth == 0 {
		return Evaluate(&st.board, st.ref, st.opts.Weights)
	}
	moves := domain.GetValidMoves(&st.board, st.opts.Order)
	if len(moves) == 0 {
		return DrawScore
	}

	maximizing := toMove == st.ref
	best := infinity
	if maximizing {
		best = -infinity
	}
	for _, col := range moves {
		z, _ := st.board.Apply(col, toMove)
		var score int
		switch {
		case domain.CheckWin(&st.board, domain.Point{X: col.X, Y: col.Y, Z: z}, toMove):
			if maximizing {
				score = terminalScore(domain.Win, depth-1)
			} else {
				score = terminalScore(domain.Loss, depth-1)
			}
		case st.board.IsFull():
			score = DrawScore
		default:
			score = st.minimax(depth-1, toMove.Opponent())
		}
		st.board.Undo(col)

		if maximizing {
			best = max(best, score)
		} else {
			best = min(best, score)
		}
	}
	return best
}
