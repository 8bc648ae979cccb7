// Package hexgrid maps between the flat-top offset hex lattice, world space
// and screen space.
//
// Columns are laid out 1.5 hex sizes apart; every second column ((col-1) odd)
// is shifted down by half a hex height. Coordinates are 1-based.
package hexgrid

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

var sqrt3 = math.Sqrt(3)

// pickTolerance is the maximum distance, in hex sizes, between a query point
// and a hex centre for HexAt to accept it.
const pickTolerance = 1.1

// Point is a position in world space (hex-grid pixel units, before camera).
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Coord is a 1-based grid column/row.
type Coord struct {
	Col, Row int
}

// Key renders the "col_row" form used by hex snapshots.
func (c Coord) Key() string {
	return strconv.Itoa(c.Col) + "_" + strconv.Itoa(c.Row)
}

func (c Coord) String() string { return c.Key() }

// Less orders coords column-major. Used to pick a canonical owner for a
// shared edge.
func (c Coord) Less(o Coord) bool {
	if c.Col != o.Col {
		return c.Col < o.Col
	}
	return c.Row < o.Row
}

// ParseKey parses a "col_row" key. It does not check grid bounds.
func ParseKey(key string) (Coord, error) {
	colStr, rowStr, ok := strings.Cut(key, "_")
	if !ok {
		return Coord{}, fmt.Errorf("hex key %q: missing separator", key)
	}
	col, err := strconv.Atoi(colStr)
	if err != nil {
		return Coord{}, fmt.Errorf("hex key %q: column: %w", key, err)
	}
	row, err := strconv.Atoi(rowStr)
	if err != nil {
		return Coord{}, fmt.Errorf("hex key %q: row: %w", key, err)
	}
	return Coord{Col: col, Row: row}, nil
}

// Grid is the static lattice configuration.
type Grid struct {
	W, H int
	Size float64 // centre-to-corner radius in world units
}

// Contains reports whether c lies inside the grid bounds.
func (g Grid) Contains(c Coord) bool {
	return c.Col >= 1 && c.Col <= g.W && c.Row >= 1 && c.Row <= g.H
}

// Center returns the world-space centre of the hex at (col, row).
func (g Grid) Center(col, row int) Point {
	s := g.Size
	x := float64(col-1)*1.5*s + 2*s
	y := float64(row-1)*sqrt3*s + float64((col-1)%2)*(sqrt3*s/2) + 2*s
	return Point{X: x, Y: y}
}

// Corners returns the six flat-top corners of a hex, clockwise in screen
// space starting at the rightmost corner. Corner i and i+1 bound the edge
// facing direction i.
func (g Grid) Corners(col, row int) [6]Point {
	c := g.Center(col, row)
	var out [6]Point
	for i := 0; i < 6; i++ {
		a := float64(i) * math.Pi / 3
		out[i] = Point{X: c.X + g.Size*math.Cos(a), Y: c.Y + g.Size*math.Sin(a)}
	}
	return out
}

// Bounds returns the world-space extent of the whole grid including margins.
func (g Grid) Bounds() (w, h float64) {
	s := g.Size
	w = float64(g.W-1)*1.5*s + 4*s
	h = float64(g.H-1)*sqrt3*s + sqrt3*s/2 + 4*s
	return w, h
}

// HexAt returns the hex whose centre is closest to (wx, wy), provided it is
// within 1.1 hex sizes. Only the columns and rows that can possibly fall
// within the tolerance are examined; the result matches a full scan.
func (g Grid) HexAt(wx, wy float64) (Coord, bool) {
	if g.Size <= 0 || !finite(wx) || !finite(wy) {
		return Coord{}, false
	}
	s := g.Size
	tol := pickTolerance * s
	colLo := int(math.Ceil((wx-2*s-tol)/(1.5*s))) + 1
	colHi := int(math.Floor((wx-2*s+tol)/(1.5*s))) + 1
	colLo = max(colLo, 1)
	colHi = min(colHi, g.W)

	best := Coord{}
	bestD2 := 0.0
	found := false
	for col := colLo; col <= colHi; col++ {
		shift := float64((col-1)%2) * (sqrt3 * s / 2)
		rowLo := max(int(math.Ceil((wy-2*s-shift-tol)/(sqrt3*s)))+1, 1)
		rowHi := min(int(math.Floor((wy-2*s-shift+tol)/(sqrt3*s)))+1, g.H)
		for row := rowLo; row <= rowHi; row++ {
			c := g.Center(col, row)
			dx, dy := c.X-wx, c.Y-wy
			d2 := dx*dx + dy*dy
			if d2 <= tol*tol && (!found || d2 < bestD2) {
				best = Coord{Col: col, Row: row}
				bestD2 = d2
				found = true
			}
		}
	}
	return best, found
}

// hexAtScan is the brute-force form of HexAt over every hex.
func (g Grid) hexAtScan(wx, wy float64) (Coord, bool) {
	tol := pickTolerance * g.Size
	best := Coord{}
	bestD2 := math.MaxFloat64
	for col := 1; col <= g.W; col++ {
		for row := 1; row <= g.H; row++ {
			c := g.Center(col, row)
			dx, dy := c.X-wx, c.Y-wy
			d2 := dx*dx + dy*dy
			if d2 <= tol*tol && d2 < bestD2 {
				bestD2 = d2
				best = Coord{Col: col, Row: row}
			}
		}
	}
	return best, bestD2 != math.MaxFloat64
}

// All calls fn for every hex in column-major order.
func (g Grid) All(fn func(c Coord)) {
	for col := 1; col <= g.W; col++ {
		for row := 1; row <= g.H; row++ {
			fn(Coord{Col: col, Row: row})
		}
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
