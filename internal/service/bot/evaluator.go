package bot

import (
	"fmt"

	"github.com/iamasit07/cube4/internal/domain"
)

// Weights are the per-line bonuses and penalties used by Evaluate.
type Weights struct {
	Three    int // three own pieces and one empty cell
	Two      int // two own pieces and two empty cells
	One      int // one own piece on an otherwise empty line
	OppThree int // penalty for an open opponent three
	OppTwo   int // penalty for an open opponent two
	Center   int // per piece in one of the four middle columns
}

var DefaultWeights = Weights{
	Three:    100,
	Two:      10,
	One:      1,
	OppThree: 400,
	OppTwo:   15,
	Center:   3,
}

// Validate enforces the ordering the search relies on: more own pieces on an
// open line never scores less, and an open opponent three always outweighs
// any single own line.
func (w Weights) Validate() error {
	if w.One < 0 || w.Two < w.One || w.Three < w.Two {
		return fmt.Errorf("own line weights must satisfy 0 <= one <= two <= three, got %d/%d/%d", w.One, w.Two, w.Three)
	}
	if w.OppTwo < 0 || w.OppThree < w.OppTwo {
		return fmt.Errorf("opponent weights must satisfy 0 <= two <= three, got %d/%d", w.OppTwo, w.OppThree)
	}
	if w.OppThree <= w.Three {
		return fmt.Errorf("opponent three penalty %d must exceed own three bonus %d", w.OppThree, w.Three)
	}
	if w.Center < 0 {
		return fmt.Errorf("center weight must not be negative, got %d", w.Center)
	}
	return nil
}

// Evaluate scores a non-terminal board from ref's point of view.
func Evaluate(b *domain.Board, ref domain.PlayerID, w Weights) int {
	opponent := ref.Opponent()
	score := 0

	for _, line := range domain.Lines() {
		own, opp, empty := 0, 0, 0
		for _, p := range line {
			switch b[p.Z][p.Y][p.X] {
			case ref:
				own++
			case opponent:
				opp++
			case domain.Empty:
				empty++
			}
		}
		score += lineScore(own, opp, empty, w)
	}

	for z := 0; z < domain.Size; z++ {
		for y := 1; y < domain.Size-1; y++ {
			for x := 1; x < domain.Size-1; x++ {
				switch b[z][y][x] {
				case ref:
					score += w.Center
				case opponent:
					score -= w.Center
				}
			}
		}
	}

	return score
}

// lineScore only rewards lines that can still be completed: any mix of
// owners, or a blocked cell, makes the line dead. Completed lines only show
// up when Evaluate is called on a finished board.
func lineScore(own, opp, empty int, w Weights) int {
	switch {
	case opp == 0 && own+empty == domain.ToWin:
		switch own {
		case 4:
			return WinScore
		case 3:
			return w.Three
		case 2:
			return w.Two
		case 1:
			return w.One
		}
	case own == 0 && opp+empty == domain.ToWin:
		switch opp {
		case 4:
			return -WinScore
		case 3:
			return -w.OppThree
		case 2:
			return -w.OppTwo
		}
	}
	return 0
}
