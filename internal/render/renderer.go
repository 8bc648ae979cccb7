package render

import (
	"image/color"

	"github.com/sirupsen/logrus"

	"github.com/Garsondee/hexmap/internal/hexgrid"
	"github.com/Garsondee/hexmap/internal/mapdata"
)

// Scene is everything one frame draws.
type Scene struct {
	Camera    hexgrid.Camera
	Hexes     map[string]mapdata.HexData
	Selected  *hexgrid.Coord
	PaintMode bool
	Role      mapdata.Role
	Markers   map[string]mapdata.HexMarkerData
	Paths     []mapdata.MapPath
	Preview   *mapdata.PathPreview
}

// Renderer composes the passes for one grid and catalog. It is not safe for
// concurrent use; the engine calls it from the draw goroutine only.
type Renderer struct {
	Grid    hexgrid.Grid
	Catalog *mapdata.Catalog
	Images  ImageSource
	Log     logrus.FieldLogger
}

var (
	backgroundColor = color.RGBA{R: 0x1b, G: 0x1d, B: 0x22, A: 0xff}
	emptyHexColor   = color.RGBA{R: 0x2c, G: 0x2f, B: 0x36, A: 0xff}
)

// Render clears dst and draws every pass in order: terrain fills, seam
// blends, borders, labels, selection, marker icons, paths and the preview.
func (r *Renderer) Render(dst Surface, sc Scene) {
	if r.Images == nil {
		r.Images = NoImages{}
	}
	if r.Catalog == nil {
		r.Catalog = mapdata.NewCatalog(nil, nil)
	}
	v := view{cam: sc.Camera}
	terr := r.resolveTerrain(sc.Hexes)

	dst.Clear(backgroundColor)
	r.drawTerrain(dst, v, terr)
	r.drawBlends(dst, v, terr)
	r.drawTags(dst, v, sc)
	r.drawBorders(dst, v)
	r.drawLabels(dst, v, sc.Selected)
	if !sc.PaintMode {
		r.drawSelection(dst, v, sc.Selected)
	}
	r.drawMarkers(dst, v, sc)
	r.drawPaths(dst, v, sc.Paths)
	if sc.Preview != nil {
		r.drawPreview(dst, v, *sc.Preview)
	}
}

// terrainGrid holds the resolved terrain id of every in-grid hex for one
// frame; 0 means no data or an unknown terrain.
type terrainGrid struct {
	grid hexgrid.Grid
	ids  []int
}

func (t terrainGrid) at(c hexgrid.Coord) (int, bool) {
	if !t.grid.Contains(c) {
		return 0, false
	}
	id := t.ids[(c.Row-1)*t.grid.W+(c.Col-1)]
	return id, id != 0
}

func (r *Renderer) resolveTerrain(hexes map[string]mapdata.HexData) terrainGrid {
	t := terrainGrid{grid: r.Grid, ids: make([]int, r.Grid.W*r.Grid.H)}
	for key, h := range hexes {
		c, err := hexgrid.ParseKey(key)
		if err != nil || !r.Grid.Contains(c) {
			continue
		}
		if id, ok := r.Catalog.TerrainOf(h); ok {
			t.ids[(c.Row-1)*r.Grid.W+(c.Col-1)] = id
		}
	}
	return t
}

func hexPolygon(g hexgrid.Grid, c hexgrid.Coord) []point {
	corners := g.Corners(c.Col, c.Row)
	return corners[:]
}
