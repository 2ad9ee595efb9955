package domain

// Game tracks a full match: whose turn it is, every move played and the
// final result.
type Game struct {
	Board         Board
	CurrentPlayer PlayerID
	Status        GameStatus
	Winner        PlayerID
	MoveCount     int
	Moves         []Point
}

func NewGame() *Game {
	return &Game{
		Board:         NewBoard(),
		CurrentPlayer: Player1,
		Status:        StatusActive,
		Winner:        Empty,
	}
}

func (g *Game) MakeMove(player PlayerID, col Column) (int, error) {
	if g.Status != StatusActive || player != g.CurrentPlayer {
		return -1, ErrInvalidMove
	}

	if !IsValidMove(&g.Board, col) {
		return -1, ErrInvalidMove
	}

	z, err := g.Board.Apply(col, player)
	if err != nil {
		return -1, err
	}

	p := Point{X: col.X, Y: col.Y, Z: z}
	g.Moves = append(g.Moves, p)
	g.MoveCount++

	if CheckWin(&g.Board, p, player) {
		g.Status = StatusWon
		g.Winner = player
		return z, nil
	}

	if g.Board.IsFull() {
		g.Status = StatusDraw
		return z, nil
	}

	g.CurrentPlayer = player.Opponent()
	return z, nil
}

func (g *Game) LastMove() (Point, bool) {
	if len(g.Moves) == 0 {
		return Point{}, false
	}
	return g.Moves[len(g.Moves)-1], true
}

func (g *Game) IsFinished() bool {
	return g.Status == StatusWon || g.Status == StatusDraw
}
