package render

import (
	"image/color"
	"math"
	"slices"

	"github.com/Garsondee/hexmap/internal/hexgrid"
	"github.com/Garsondee/hexmap/internal/mapdata"
)

const (
	textureSpan    = 2.1  // texture image edge, in hex sizes
	mainTagSize    = 0.9  // main tag icon edge, in hex sizes
	sideTagRadius  = 0.7  // side tag distance from centre
	sideTagSize    = 0.32 // side tag icon edge
	maxSideTags    = 6
	fallbackTagDot = 0.12
)

// hexFan is the centre followed by the six corners and the first corner
// again, so fan triangulation yields the six triangles of the hexagon.
func hexFan(g hexgrid.Grid, c hexgrid.Coord) []point {
	corners := g.Corners(c.Col, c.Row)
	fan := make([]point, 0, 8)
	fan = append(fan, g.Center(c.Col, c.Row))
	fan = append(fan, corners[:]...)
	return append(fan, corners[0])
}

// drawTerrain is the base fill. Hexes are grouped by terrain so each
// texture is bound once per frame.
func (r *Renderer) drawTerrain(dst Surface, v view, terr terrainGrid) {
	byTerrain := make(map[int][]hexgrid.Coord)
	r.Grid.All(func(c hexgrid.Coord) {
		id, _ := terr.at(c)
		byTerrain[id] = append(byTerrain[id], c)
	})
	ids := make([]int, 0, len(byTerrain))
	for id := range byTerrain {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	b := &triBatch{dst: dst}
	for _, id := range ids {
		fill := emptyHexColor
		var frame texFrame
		if id != 0 {
			entry, _ := r.Catalog.Terrains.ByID(id)
			fill = entry.RGBA()
			if img, ok := r.Images.Terrain(id); ok {
				frame = texFrame{tex: img, span: textureSpan * r.Grid.Size * entry.TextureScale()}
			}
		}
		b.begin(frame.tex)
		for _, c := range byTerrain[id] {
			frame.origin = r.Grid.Center(c.Col, c.Row)
			b.fan(v, hexFan(r.Grid, c), frame, fill, 1)
		}
	}
	b.flush()
}

// drawTags draws each hex's main tag and side tags above the terrain.
func (r *Renderer) drawTags(dst Surface, v view, sc Scene) {
	for _, e := range sortedHexes(r.Grid, sc.Hexes) {
		h := e.data
		center := r.Grid.Center(e.coord.Col, e.coord.Row)
		if h.MainTag != nil && !(h.MainTagPrivate && !sc.Role.Privileged()) {
			r.drawTag(dst, v, *h.MainTag, center, mainTagSize*r.Grid.Size)
		}
		n := min(len(h.Tags), maxSideTags)
		for i := 0; i < n; i++ {
			a := float64(i) * math.Pi / 3
			p := point{
				X: center.X + sideTagRadius*r.Grid.Size*math.Cos(a),
				Y: center.Y + sideTagRadius*r.Grid.Size*math.Sin(a),
			}
			r.drawTag(dst, v, h.Tags[i], p, sideTagSize*r.Grid.Size)
		}
	}
}

// drawTag draws the tag icon, or a dot in the tag colour when the icon has
// not loaded. Unknown tags draw nothing.
func (r *Renderer) drawTag(dst Surface, v view, ref mapdata.Ref, at point, edge float64) {
	id, ok := r.Catalog.Tags.IDOf(ref)
	if !ok {
		return
	}
	x, y := v.xy(at)
	s := v.screenLen(edge)
	if img, ok := r.Images.Tag(id); ok {
		dst.DrawImage(img, x-s/2, y-s/2, s, s, 1)
		return
	}
	entry, _ := r.Catalog.Tags.ByID(id)
	if entry.Color == "" {
		return
	}
	c := mapdata.ParseColor(entry.Color, color.RGBA{A: 255})
	dst.FillCircle(x, y, v.screenLen(fallbackTagDot*r.Grid.Size), c)
}

type hexEntry struct {
	coord hexgrid.Coord
	data  mapdata.HexData
}

// sortedHexes parses the snapshot keys once, drops anything malformed or
// outside the grid, and orders the rest column-major.
func sortedHexes(g hexgrid.Grid, hexes map[string]mapdata.HexData) []hexEntry {
	out := make([]hexEntry, 0, len(hexes))
	for key, h := range hexes {
		c, err := hexgrid.ParseKey(key)
		if err != nil || !g.Contains(c) {
			continue
		}
		out = append(out, hexEntry{coord: c, data: h})
	}
	slices.SortFunc(out, func(a, b hexEntry) int {
		switch {
		case a.coord.Less(b.coord):
			return -1
		case b.coord.Less(a.coord):
			return 1
		}
		return 0
	})
	return out
}
