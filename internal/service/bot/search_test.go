package bot

import (
	"context"
	"math/rand"
	"testing"

	"github.com/iamasit07/cube4/internal/domain"
)

// playRandom plays n random moves and returns the board, the side to move,
// and false if the game ended on the way.
func playRandom(rng *rand.Rand, n int) (domain.Board, domain.PlayerID, bool) {
	game := domain.NewGame()
	for i := 0; i < n; i++ {
		moves := domain.GetValidMoves(&game.Board, domain.OrderRowMajor)
		game.MakeMove(game.CurrentPlayer, moves[rng.Intn(len(moves))])
		if game.IsFinished() {
			return game.Board, game.CurrentPlayer, false
		}
	}
	return game.Board, game.CurrentPlayer, true
}

// exhaustiveChild scores col for ref without any pruning.
func exhaustiveChild(b domain.Board, ref domain.PlayerID, col domain.Column, depth int, opts SearchOptions) int {
	z, _ := b.Apply(col, ref)
	if domain.CheckWin(&b, domain.Point{X: col.X, Y: col.Y, Z: z}, ref) {
		return terminalScore(domain.Win, depth-1)
	}
	if b.IsFull() {
		return DrawScore
	}
	st := &searchState{ctx: context.Background(), board: b, ref: ref, opts: &opts}
	return st.minimax(depth-1, ref.Opponent())
}

func TestAlphaBetaMatchesMinimax(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	configs := []SearchOptions{
		{Order: domain.OrderCenter, Weights: DefaultWeights},
		{Order: domain.OrderRowMajor, Weights: DefaultWeights},
		{Order: domain.OrderCenter, Weights: DefaultWeights, Parallel: true},
	}

	checked := 0
	for checked < 25 {
		b, toMove, ok := playRandom(rng, 8+rng.Intn(40))
		if !ok || b.IsFull() {
			continue
		}
		checked++
		for _, opts := range configs {
			s := NewSearcher(opts)
			for depth := 1; depth <= 3; depth++ {
				res, err := s.SearchDepth(context.Background(), b, toMove, depth)
				if err != nil {
					t.Fatalf("search failed: %v", err)
				}
				want := Minimax(b, toMove, depth, opts)
				if res.Score != want {
					t.Fatalf("depth %d order %v parallel %v: alpha-beta %d, minimax %d\n%s",
						depth, opts.Order, opts.Parallel, res.Score, want, b.String())
				}

				// the chosen column is the first one reaching the minimax value
				var first domain.Column
				for _, col := range domain.GetValidMoves(&b, opts.Order) {
					if exhaustiveChild(b, toMove, col, depth, opts) == want {
						first = col
						break
					}
				}
				if res.Column != first {
					t.Fatalf("depth %d: chose %v, first best is %v", depth, res.Column, first)
				}
			}
		}
	}
}

func TestSearchPrunes(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	b, toMove, _ := playRandom(rng, 6)
	s := NewSearcher(SearchOptions{Order: domain.OrderCenter, Weights: DefaultWeights})
	res, err := s.SearchDepth(context.Background(), b, toMove, 4)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	// a full-width depth 4 tree has more than 16^4 nodes
	if res.Nodes >= 16*16*16*16/4 {
		t.Fatalf("expected pruning, visited %d nodes", res.Nodes)
	}
}

func TestSearchAvoidsGivingAwayWin(t *testing.T) {
	var b domain.Board
	place(&b, domain.Player1, domain.Point{0, 0, 0}, domain.Point{1, 0, 0}, domain.Point{3, 3, 0}, domain.Point{0, 3, 0})
	place(&b, domain.Player2, domain.Point{2, 0, 0}, domain.Point{0, 0, 1}, domain.Point{1, 0, 1}, domain.Point{2, 0, 1})

	trap := domain.Column{X: 3, Y: 0}
	for _, opts := range []SearchOptions{
		{Order: domain.OrderCenter, Weights: DefaultWeights},
		{Order: domain.OrderRowMajor, Weights: DefaultWeights},
		{Order: domain.OrderCenter, Weights: DefaultWeights, Parallel: true},
	} {
		s := NewSearcher(opts)
		for depth := 2; depth <= 3; depth++ {
			res, err := s.SearchDepth(context.Background(), b, domain.Player1, depth)
			if err != nil {
				t.Fatalf("search failed: %v", err)
			}
			if res.Column == trap {
				t.Fatalf("depth %d played under the opponent's three", depth)
			}
			if res.Score <= -WinScore {
				t.Fatalf("position is not lost, got score %d", res.Score)
			}
		}
	}
}

func TestSearchFindsForcedWinScore(t *testing.T) {
	var b domain.Board
	place(&b, domain.Player1, domain.Point{0, 0, 0}, domain.Point{0, 0, 1}, domain.Point{0, 0, 2})
	place(&b, domain.Player2, domain.Point{3, 3, 0}, domain.Point{3, 2, 0}, domain.Point{2, 3, 0})

	s := NewSearcher(SearchOptions{Order: domain.OrderCenter, Weights: DefaultWeights})
	res := s.Search(context.Background(), b, domain.Player1, 4)
	if res.Column != (domain.Column{X: 0, Y: 0}) {
		t.Fatalf("expected the winning column, got %v", res.Column)
	}
	if res.Score < WinScore {
		t.Fatalf("expected a winning score, got %d", res.Score)
	}
	if res.Depth != 1 {
		t.Fatalf("iterative deepening should stop once a win is proven, reached depth %d", res.Depth)
	}
}

func TestSearchDeadlineDegradesDepth(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var b domain.Board
	s := NewSearcher(SearchOptions{Order: domain.OrderCenter, Weights: DefaultWeights})
	res := s.Search(ctx, b, domain.Player1, 6)
	if res.Depth != 1 {
		t.Fatalf("cancelled search should fall back to depth 1, got %d", res.Depth)
	}
	if !res.Truncated {
		t.Fatalf("a search stopped by its context must report truncation")
	}
	if full := s.Search(context.Background(), b, domain.Player1, 2); full.Truncated || full.Depth != 2 {
		t.Fatalf("complete search reported as truncated: %+v", full)
	}
	if !domain.IsValidMove(&b, res.Column) {
		t.Fatalf("fallback column %v is not legal", res.Column)
	}

	if _, err := s.SearchDepth(ctx, b, domain.Player1, 5); err == nil {
		t.Fatalf("expected SearchDepth to report the cancelled context")
	}
}

func TestSearchOnFinishedBoards(t *testing.T) {
	s := NewSearcher(SearchOptions{Order: domain.OrderCenter, Weights: DefaultWeights})

	var won domain.Board
	place(&won, domain.Player2, domain.Point{0, 0, 0}, domain.Point{1, 0, 0}, domain.Point{2, 0, 0}, domain.Point{3, 0, 0})
	res, err := s.SearchDepth(context.Background(), won, domain.Player1, 3)
	if err != nil || res.Score > -WinScore {
		t.Fatalf("lost board should score as a loss, got %d (%v)", res.Score, err)
	}
	if !domain.IsValidMove(&won, res.Column) {
		t.Fatalf("column %v not legal", res.Column)
	}

	full, _ := domain.NewBoardFromGrid(nil)
	res = s.Search(context.Background(), full, domain.Player1, 4)
	if res.Score != DrawScore || !res.Column.InRange() {
		t.Fatalf("full board: unexpected result %+v", res)
	}
}

func TestDepthPolicy(t *testing.T) {
	p := DefaultDepthPolicy
	tests := []struct {
		empty, want int
	}{
		{64, p.Opening},
		{40, p.Opening},
		{39, p.Midgame},
		{10, p.Midgame},
		{9, p.Endgame},
		{5, 5},
		{0, 1},
	}
	for _, tt := range tests {
		if got := p.DepthFor(tt.empty); got != tt.want {
			t.Errorf("DepthFor(%d) = %d, want %d", tt.empty, got, tt.want)
		}
	}
	if err := (DepthPolicy{Opening: 0, Midgame: 1, Endgame: 1}).Validate(); err == nil {
		t.Fatalf("zero depth should be rejected")
	}
}
