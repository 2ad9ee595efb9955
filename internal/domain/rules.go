package domain

// Classify reports the state of the board from ref's point of view. ref's
// own lines are checked first, so a board that somehow holds a line for each
// side is a Win.
func Classify(b *Board, ref PlayerID) Outcome {
	if HasLine(b, ref) {
		return Win
	}
	if HasLine(b, ref.Opponent()) {
		return Loss
	}
	if b.IsFull() {
		return Draw
	}
	return Ongoing
}

// HasLine reports whether player owns all four cells of any line.
func HasLine(b *Board, player PlayerID) bool {
	if !player.IsPlayer() {
		return false
	}
	for i := range lineTable {
		if ownsLine(b, &lineTable[i], player) {
			return true
		}
	}
	return false
}

// CheckWin only looks at the lines passing through p, which is enough to
// decide whether the piece just placed at p completed a line.
func CheckWin(b *Board, p Point, player PlayerID) bool {
	if !player.IsPlayer() {
		return false
	}
	for _, i := range cellToLine[cellIndex(p)] {
		if ownsLine(b, &lineTable[i], player) {
			return true
		}
	}
	return false
}

// Winner returns the owner of a completed line, or Empty.
func Winner(b *Board) PlayerID {
	switch {
	case HasLine(b, Player1):
		return Player1
	case HasLine(b, Player2):
		return Player2
	default:
		return Empty
	}
}

func ownsLine(b *Board, line *Line, player PlayerID) bool {
	for _, p := range line {
		if b[p.Z][p.Y][p.X] != player {
			return false
		}
	}
	return true
}
