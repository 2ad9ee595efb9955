package domain

import (
	"fmt"
	"sort"
	"strings"
)

// MoveOrder controls the order legal columns are generated in. Search
// explores columns in this order and keeps the first of equally scored moves.
type MoveOrder int

const (
	OrderCenter MoveOrder = iota
	OrderRowMajor
)

func ParseMoveOrder(s string) (MoveOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "center":
		return OrderCenter, nil
	case "row-major", "rowmajor":
		return OrderRowMajor, nil
	default:
		return OrderCenter, fmt.Errorf("unknown move order %q", s)
	}
}

func (o MoveOrder) String() string {
	if o == OrderRowMajor {
		return "row-major"
	}
	return "center"
}

var (
	rowMajorColumns = buildRowMajor()
	centerColumns   = buildCenterFirst()
)

func buildRowMajor() [Columns]Column {
	var cols [Columns]Column
	for y := 0; y < Size; y++ {
		for x := 0; x < Size; x++ {
			cols[y*Size+x] = Column{X: x, Y: y}
		}
	}
	return cols
}

// buildCenterFirst sorts by squared distance to the cube's vertical axis
// (1.5,1.5); row-major order breaks ties. Distances are doubled to stay integral.
func buildCenterFirst() [Columns]Column {
	cols := buildRowMajor()
	dist := func(c Column) int {
		dx := 2*c.X - (Size - 1)
		dy := 2*c.Y - (Size - 1)
		return dx*dx + dy*dy
	}
	sort.SliceStable(cols[:], func(i, j int) bool {
		return dist(cols[i]) < dist(cols[j])
	})
	return cols
}

// ColumnOrder returns every column in the given order regardless of
// whether it is playable.
func ColumnOrder(order MoveOrder) [Columns]Column {
	if order == OrderRowMajor {
		return rowMajorColumns
	}
	return centerColumns
}

// GetValidMoves returns the playable columns in the given order.
func GetValidMoves(b *Board, order MoveOrder) []Column {
	all := ColumnOrder(order)
	moves := make([]Column, 0, Columns)
	for _, col := range all {
		if b[Size-1][col.Y][col.X] == Empty {
			moves = append(moves, col)
		}
	}
	return moves
}

// IsCentral reports whether col is one of the four middle columns.
func IsCentral(col Column) bool {
	return (col.X == 1 || col.X == 2) && (col.Y == 1 || col.Y == 2)
}
