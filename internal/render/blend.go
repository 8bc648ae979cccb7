package render

import (
	"image"
	"math"
	"slices"

	"github.com/Garsondee/hexmap/internal/hexgrid"
	"github.com/Garsondee/hexmap/internal/noise"
)

// Seam blending parameters. These are visual tuning values.
const (
	blendSamples     = 24
	blendMinDepth    = 0.15 // in hex sizes
	blendDepthRange  = 0.45
	blendFringeScale = 1.5
	blendFringeAlpha = 0.35
	blendCoreAlpha   = 0.85
)

var blendOctaves = []noise.Octave{
	{Scale: 60, Weight: 0.55, OffsetX: 17, OffsetY: 53},
	{Scale: 24, Weight: 0.30, OffsetX: 311, OffsetY: 97},
	{Scale: 8, Weight: 0.15, OffsetX: 733, OffsetY: 419},
}

// Edge is one shared hex edge. A is always the lesser coordinate and Dir is
// the direction from A to B.
type Edge struct {
	A, B hexgrid.Coord
	Dir  hexgrid.Direction
}

// EdgeBetween returns the canonical edge shared by a and b, in whichever
// order they are given.
func EdgeBetween(a, b hexgrid.Coord) (Edge, bool) {
	if b.Less(a) {
		a, b = b, a
	}
	for d := hexgrid.Direction(0); d < 6; d++ {
		if hexgrid.Neighbor(a.Col, a.Row, d) == b {
			return Edge{A: a, B: b, Dir: d}, true
		}
	}
	return Edge{}, false
}

// BlendEdges lists every in-grid edge whose two hexes resolve to different
// terrains, each exactly once.
func BlendEdges(g hexgrid.Grid, terrainOf func(hexgrid.Coord) (int, bool)) []Edge {
	var edges []Edge
	g.All(func(a hexgrid.Coord) {
		ta, ok := terrainOf(a)
		if !ok {
			return
		}
		for d := hexgrid.Direction(0); d < 6; d++ {
			b := hexgrid.Neighbor(a.Col, a.Row, d)
			if !g.Contains(b) || !a.Less(b) {
				continue
			}
			if tb, ok := terrainOf(b); ok && tb != ta {
				edges = append(edges, Edge{A: a, B: b, Dir: d})
			}
		}
	})
	return edges
}

// Blend is the spill of one terrain across a seam into its neighbour.
type Blend struct {
	Edge
	Source, Receiver hexgrid.Coord
	SourceTerrain    int
	// EdgePoints are the samples along the shared edge; Core and Fringe are
	// the matching points displaced into the receiver.
	EdgePoints []hexgrid.Point
	Core       []hexgrid.Point
	Fringe     []hexgrid.Point
}

// BuildBlend computes the blend for e given the terrains of e.A and e.B.
// The result depends only on the grid, the edge and the two terrains.
func BuildBlend(g hexgrid.Grid, e Edge, terrainA, terrainB int) Blend {
	corners := g.Corners(e.A.Col, e.A.Row)
	p0, p1 := corners[e.Dir], corners[(e.Dir+1)%6]
	mid := midpoint(p0, p1)

	bl := Blend{Edge: e, Source: e.A, Receiver: e.B, SourceTerrain: terrainA}
	if noise.Value(mid.X*0.73+400, mid.Y*0.73+800, 200) >= 0.5 {
		bl.Source, bl.Receiver, bl.SourceTerrain = e.B, e.A, terrainB
	}

	rc := g.Center(bl.Receiver.Col, bl.Receiver.Row)
	nx, ny := -(p1.Y - p0.Y), p1.X-p0.X
	l := math.Hypot(nx, ny)
	nx, ny = nx/l, ny/l
	if nx*(rc.X-mid.X)+ny*(rc.Y-mid.Y) < 0 {
		nx, ny = -nx, -ny
	}

	bl.EdgePoints = make([]hexgrid.Point, blendSamples)
	bl.Core = make([]hexgrid.Point, blendSamples)
	bl.Fringe = make([]hexgrid.Point, blendSamples)
	for i := 0; i < blendSamples; i++ {
		t := float64(i) / float64(blendSamples-1)
		p := lerp(p0, p1, t)
		depth := g.Size * (blendMinDepth + blendDepthRange*noise.Fractal(p.X, p.Y, blendOctaves))
		depth *= noise.Smoothstep(math.Sin(math.Pi * t))
		bl.EdgePoints[i] = p
		bl.Core[i] = point{X: p.X + nx*depth, Y: p.Y + ny*depth}
		bl.Fringe[i] = point{X: p.X + nx*depth*blendFringeScale, Y: p.Y + ny*depth*blendFringeScale}
	}
	return bl
}

// strip returns the quads between the edge and a displaced curve, each
// clipped to the receiving hexagon.
func (bl Blend) strip(g hexgrid.Grid, curve []hexgrid.Point) [][]hexgrid.Point {
	clip := hexPolygon(g, bl.Receiver)
	var polys [][]hexgrid.Point
	for i := 0; i+1 < len(curve); i++ {
		quad := []point{bl.EdgePoints[i], bl.EdgePoints[i+1], curve[i+1], curve[i]}
		if p := clipConvex(quad, clip); p != nil {
			polys = append(polys, p)
		}
	}
	return polys
}

// drawBlends fills every seam. All fringes go down before any core, and
// each layer is grouped by source terrain.
func (r *Renderer) drawBlends(dst Surface, v view, terr terrainGrid) {
	edges := BlendEdges(r.Grid, terr.at)
	if len(edges) == 0 {
		return
	}
	bySource := make(map[int][]Blend)
	for _, e := range edges {
		ta, _ := terr.at(e.A)
		tb, _ := terr.at(e.B)
		bl := BuildBlend(r.Grid, e, ta, tb)
		bySource[bl.SourceTerrain] = append(bySource[bl.SourceTerrain], bl)
	}
	ids := make([]int, 0, len(bySource))
	for id := range bySource {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	b := &triBatch{dst: dst}
	for _, layer := range []struct {
		fringe bool
		alpha  float64
	}{{true, blendFringeAlpha}, {false, blendCoreAlpha}} {
		for _, id := range ids {
			entry, _ := r.Catalog.Terrains.ByID(id)
			var tex image.Image
			if img, ok := r.Images.Terrain(id); ok {
				tex = img
			}
			b.begin(tex)
			for _, bl := range bySource[id] {
				curve := bl.Core
				if layer.fringe {
					curve = bl.Fringe
				}
				frame := texFrame{
					tex:    tex,
					origin: r.Grid.Center(bl.Source.Col, bl.Source.Row),
					span:   textureSpan * r.Grid.Size * entry.TextureScale(),
				}
				for _, poly := range bl.strip(r.Grid, curve) {
					b.fan(v, poly, frame, entry.RGBA(), layer.alpha)
				}
			}
		}
	}
	b.flush()
}
