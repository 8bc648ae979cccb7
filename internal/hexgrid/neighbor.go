package hexgrid

// Direction indexes the six flat-top neighbours. Direction d faces the edge
// between corners d and d+1 of Grid.Corners.
type Direction int

const (
	DirSE Direction = iota
	DirS
	DirSW
	DirNW
	DirN
	DirNE
)

// Opposite returns the direction pointing back across the same edge.
func (d Direction) Opposite() Direction {
	return (d + 3) % 6
}

// neighborOffsets[parity][dir] where parity is (col-1)%2. Odd columns sit
// half a hex lower, so their diagonal neighbours are one row further down.
var neighborOffsets = [2][6]Coord{
	{ // unshifted columns
		DirSE: {Col: +1, Row: 0},
		DirS:  {Col: 0, Row: +1},
		DirSW: {Col: -1, Row: 0},
		DirNW: {Col: -1, Row: -1},
		DirN:  {Col: 0, Row: -1},
		DirNE: {Col: +1, Row: -1},
	},
	{ // shifted columns
		DirSE: {Col: +1, Row: +1},
		DirS:  {Col: 0, Row: +1},
		DirSW: {Col: -1, Row: +1},
		DirNW: {Col: -1, Row: 0},
		DirN:  {Col: 0, Row: -1},
		DirNE: {Col: +1, Row: 0},
	},
}

// Neighbor returns the hex adjacent to (col, row) in direction d. The result
// may lie outside the grid; check with Grid.Contains.
func Neighbor(col, row int, d Direction) Coord {
	parity := (col - 1) % 2
	if parity < 0 {
		parity = -parity
	}
	off := neighborOffsets[parity][((d%6)+6)%6]
	return Coord{Col: col + off.Col, Row: row + off.Row}
}

// Neighbors returns all six neighbours of c in direction order.
func Neighbors(c Coord) [6]Coord {
	var out [6]Coord
	for d := DirSE; d <= DirNE; d++ {
		out[d] = Neighbor(c.Col, c.Row, d)
	}
	return out
}
