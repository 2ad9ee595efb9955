package domain

import (
	"fmt"
	"strings"
)

// Board is indexed [z][y][x], the same layout the harness sends. It is a
// value type: assignment copies it.
type Board [Size][Size][Size]PlayerID

func NewBoard() Board {
	return Board{}
}

func (b *Board) At(p Point) PlayerID {
	return b[p.Z][p.Y][p.X]
}

func (b *Board) Set(p Point, player PlayerID) {
	b[p.Z][p.Y][p.X] = player
}

func IsValidMove(b *Board, col Column) bool {
	if !col.InRange() {
		return false
	}
	return b[Size-1][col.Y][col.X] == Empty
}

// Apply drops a piece into col and returns the height it landed at.
func (b *Board) Apply(col Column, player PlayerID) (int, error) {
	for z := 0; z < Size; z++ {
		if b[z][col.Y][col.X] == Empty {
			b[z][col.Y][col.X] = player
			return z, nil
		}
	}
	return -1, ErrColumnFull
}

// Undo clears the highest occupied cell of col. It must only reverse the
// most recent Apply on that column.
func (b *Board) Undo(col Column) {
	for z := Size - 1; z >= 0; z-- {
		if b[z][col.Y][col.X] != Empty {
			b[z][col.Y][col.X] = Empty
			return
		}
	}
}

// Height is the number of occupied cells in col.
func (b *Board) Height(col Column) int {
	for z := 0; z < Size; z++ {
		if b[z][col.Y][col.X] == Empty {
			return z
		}
	}
	return Size
}

func (b *Board) IsFull() bool {
	for y := 0; y < Size; y++ {
		for x := 0; x < Size; x++ {
			if b[Size-1][y][x] == Empty {
				return false
			}
		}
	}
	return true
}

func (b *Board) EmptyCount() int {
	n := 0
	for z := 0; z < Size; z++ {
		for y := 0; y < Size; y++ {
			for x := 0; x < Size; x++ {
				if b[z][y][x] == Empty {
					n++
				}
			}
		}
	}
	return n
}

// SimulateMove returns a copy of the board with the move applied.
func SimulateMove(b Board, col Column, player PlayerID) (Board, int, error) {
	z, err := b.Apply(col, player)
	if err != nil {
		return b, -1, err
	}
	return b, z, nil
}

// NewBoardFromGrid converts a harness grid ([z][y][x], values 0/1/2) into a
// Board. Missing cells and unknown values become Blocked, and floating pieces
// are dropped onto the stack below them so the gravity invariant holds. The
// board is always usable; the error only reports that input was malformed.
func NewBoardFromGrid(grid [][][]int) (Board, error) {
	var b Board
	problems := 0

	if len(grid) != Size {
		problems++
	}
	for z := 0; z < Size; z++ {
		for y := 0; y < Size; y++ {
			for x := 0; x < Size; x++ {
				v, ok := gridValue(grid, x, y, z)
				if !ok {
					problems++
					b[z][y][x] = Blocked
					continue
				}
				switch PlayerID(v) {
				case Empty, Player1, Player2:
					b[z][y][x] = PlayerID(v)
				default:
					problems++
					b[z][y][x] = Blocked
				}
			}
		}
	}

	for y := 0; y < Size; y++ {
		for x := 0; x < Size; x++ {
			if settleColumn(&b, x, y) {
				problems++
			}
		}
	}

	if problems > 0 {
		return b, fmt.Errorf("%w: %d irregular cells", ErrMalformedInput, problems)
	}
	return b, nil
}

func gridValue(grid [][][]int, x, y, z int) (int, bool) {
	if z >= len(grid) || y >= len(grid[z]) || x >= len(grid[z][y]) {
		return 0, false
	}
	return grid[z][y][x], true
}

// settleColumn compacts a column downwards and reports whether anything moved.
func settleColumn(b *Board, x, y int) bool {
	moved := false
	next := 0
	for z := 0; z < Size; z++ {
		v := b[z][y][x]
		if v == Empty {
			continue
		}
		if z != next {
			b[next][y][x] = v
			b[z][y][x] = Empty
			moved = true
		}
		next++
	}
	return moved
}

// Grid returns the board in the harness layout.
func (b *Board) Grid() [][][]int {
	grid := make([][][]int, Size)
	for z := range grid {
		grid[z] = make([][]int, Size)
		for y := range grid[z] {
			grid[z][y] = make([]int, Size)
			for x := range grid[z][y] {
				grid[z][y][x] = int(b[z][y][x])
			}
		}
	}
	return grid
}

// String renders one level per block, bottom level first.
func (b *Board) String() string {
	var sb strings.Builder
	for z := 0; z < Size; z++ {
		fmt.Fprintf(&sb, "z=%d\n", z)
		for y := 0; y < Size; y++ {
			for x := 0; x < Size; x++ {
				sb.WriteByte(".XO#"[b[z][y][x]])
			}
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
