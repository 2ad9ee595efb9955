package domain

// Line is one of the fixed four-cell runs that wins when a single player
// owns all of it.
type Line [ToWin]Point

// directions are the 13 canonical steps whose first non-zero component is
// positive, so each geometric line is produced exactly once.
var directions = [13][3]int{
	// axis-aligned
	{1, 0, 0}, {0, 1, 0}, {0, 0, 1},
	// planar diagonals: xy, xz, yz
	{1, 1, 0}, {1, -1, 0},
	{1, 0, 1}, {1, 0, -1},
	{0, 1, 1}, {0, 1, -1},
	// space diagonals
	{1, 1, 1}, {1, 1, -1}, {1, -1, 1}, {1, -1, -1},
}

var (
	lineTable  = BuildLines()
	cellToLine = indexLines(lineTable)
)

// BuildLines enumerates every winning line of the cube. The order is
// deterministic: directions in table order, then start cells by z, y, x.
func BuildLines() []Line {
	lines := make([]Line, 0, 76)
	for _, d := range directions {
		for z := 0; z < Size; z++ {
			for y := 0; y < Size; y++ {
				for x := 0; x < Size; x++ {
					start := Point{X: x, Y: y, Z: z}
					end := Point{X: x + d[0]*(ToWin-1), Y: y + d[1]*(ToWin-1), Z: z + d[2]*(ToWin-1)}
					if !end.InRange() {
						continue
					}
					var line Line
					for i := 0; i < ToWin; i++ {
						line[i] = Point{X: start.X + d[0]*i, Y: start.Y + d[1]*i, Z: start.Z + d[2]*i}
					}
					lines = append(lines, line)
				}
			}
		}
	}
	return lines
}

func indexLines(lines []Line) [Cells][]int {
	var idx [Cells][]int
	for i, line := range lines {
		for _, p := range line {
			c := cellIndex(p)
			idx[c] = append(idx[c], i)
		}
	}
	return idx
}

// Lines returns the shared line table. Callers must not modify it.
func Lines() []Line {
	return lineTable
}

// LinesThrough returns the indexes into Lines() of every line containing p.
func LinesThrough(p Point) []int {
	return cellToLine[cellIndex(p)]
}

func cellIndex(p Point) int {
	return (p.Z*Size+p.Y)*Size + p.X
}
