package domain

import "fmt"

type PlayerID int

const (
	Empty   PlayerID = 0
	Player1 PlayerID = 1
	Player2 PlayerID = 2

	// Blocked marks a cell that came in malformed. It occupies space but
	// never belongs to a line owner.
	Blocked PlayerID = 3
)

// Opponent returns the other player. Non-player values map to Empty.
func (p PlayerID) Opponent() PlayerID {
	switch p {
	case Player1:
		return Player2
	case Player2:
		return Player1
	default:
		return Empty
	}
}

func (p PlayerID) IsPlayer() bool {
	return p == Player1 || p == Player2
}

const (
	Size    = 4
	Columns = Size * Size
	Cells   = Size * Size * Size
	ToWin   = 4
)

// Column is a vertical stack of cells, identified by its (x,y).
type Column struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (c Column) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

func (c Column) InRange() bool {
	return c.X >= 0 && c.X < Size && c.Y >= 0 && c.Y < Size
}

// Point addresses a single cell.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
}

func (p Point) InRange() bool {
	return p.X >= 0 && p.X < Size && p.Y >= 0 && p.Y < Size && p.Z >= 0 && p.Z < Size
}

func (p Point) Column() Column {
	return Column{X: p.X, Y: p.Y}
}

// Outcome is a position classification relative to a reference player.
type Outcome int

const (
	Ongoing Outcome = iota
	Win
	Loss
	Draw
)

func (o Outcome) String() string {
	switch o {
	case Win:
		return "win"
	case Loss:
		return "loss"
	case Draw:
		return "draw"
	default:
		return "ongoing"
	}
}

// to represent the game status
type GameStatus string

const (
	StatusActive GameStatus = "active"
	StatusWon    GameStatus = "won"
	StatusDraw   GameStatus = "draw"
)

// basic error that can occur
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	ErrInvalidMove    Error = "invalid move"
	ErrColumnFull     Error = "column is full"
	ErrNoLegalMoves   Error = "no legal moves"
	ErrMalformedInput Error = "malformed board input"
	ErrInvalidPlayer  Error = "invalid player"
)
