package bot

import "fmt"

// DepthPolicy picks the search depth from the number of empty cells: the
// branching factor stays near 16 until columns fill up, so the early game
// is searched shallower than the endgame.
type DepthPolicy struct {
	Opening      int
	Midgame      int
	Endgame      int
	MidgameBelow int // empty cells below which Midgame applies
	EndgameBelow int // empty cells below which Endgame applies
}

var DefaultDepthPolicy = DepthPolicy{
	Opening:      4,
	Midgame:      5,
	Endgame:      8,
	MidgameBelow: 40,
	EndgameBelow: 10,
}

func (p DepthPolicy) Validate() error {
	if p.Opening < 1 || p.Midgame < 1 || p.Endgame < 1 {
		return fmt.Errorf("search depths must be positive, got %d/%d/%d", p.Opening, p.Midgame, p.Endgame)
	}
	if p.EndgameBelow > p.MidgameBelow {
		return fmt.Errorf("endgame threshold %d above midgame threshold %d", p.EndgameBelow, p.MidgameBelow)
	}
	return nil
}

// DepthFor never returns more plies than there are empty cells, and never
// less than one.
func (p DepthPolicy) DepthFor(empty int) int {
	depth := p.Opening
	if empty < p.MidgameBelow {
		depth = p.Midgame
	}
	if empty < p.EndgameBelow {
		depth = p.Endgame
	}
	if depth > empty {
		depth = empty
	}
	if depth < 1 {
		depth = 1
	}
	return depth
}

// mediumDepth looks at the reply to each candidate, which is enough to avoid
// handing the opponent a win but not to plan ahead.
const mediumDepth = 2
