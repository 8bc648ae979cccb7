package render

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Garsondee/hexmap/internal/hexgrid"
	"github.com/Garsondee/hexmap/internal/mapdata"
)

var testGrid = hexgrid.Grid{W: 6, H: 5, Size: 40}

func testCatalog() *mapdata.Catalog {
	return mapdata.NewCatalog(
		map[string]mapdata.TerrainEntry{
			"Plains": {ID: 1, Name: "Plains", Color: "#a3c46c"},
			"Forest": {ID: 3, Name: "Forest", Color: "#2f6b34", Texture: "https://unreachable.test/forest.png"},
			"Water":  {ID: 5, Name: "Water", Color: "#3a6fb0"},
		},
		map[string]mapdata.TagEntry{
			"Castle": {ID: 1, Name: "Castle", Color: "#ffffff"},
		},
	)
}

func newRenderer() *Renderer {
	return &Renderer{Grid: testGrid, Catalog: testCatalog(), Images: NoImages{}}
}

// stubImages serves a single texture for one terrain id.
type stubImages struct {
	NoImages
	id  int
	img image.Image
}

func (s stubImages) Terrain(id int) (image.Image, bool) {
	if id == s.id {
		return s.img, true
	}
	return nil, false
}

func TestEdgeBetween_OrderIndependent(t *testing.T) {
	testGrid.All(func(a hexgrid.Coord) {
		for _, b := range hexgrid.Neighbors(a) {
			if !testGrid.Contains(b) {
				continue
			}
			e1, ok1 := EdgeBetween(a, b)
			e2, ok2 := EdgeBetween(b, a)
			require.True(t, ok1)
			require.True(t, ok2)
			assert.Equal(t, e1, e2)
			assert.True(t, e1.A.Less(e1.B))
		}
	})
	_, ok := EdgeBetween(hexgrid.Coord{Col: 1, Row: 1}, hexgrid.Coord{Col: 4, Row: 4})
	assert.False(t, ok)
}

func TestBuildBlend_Symmetric(t *testing.T) {
	a := hexgrid.Coord{Col: 3, Row: 3}
	for _, b := range hexgrid.Neighbors(a) {
		fromA, _ := EdgeBetween(a, b)
		fromB, _ := EdgeBetween(b, a)
		terr := map[hexgrid.Coord]int{a: 1, b: 3}
		got1 := BuildBlend(testGrid, fromA, terr[fromA.A], terr[fromA.B])
		got2 := BuildBlend(testGrid, fromB, terr[fromB.A], terr[fromB.B])
		assert.Equal(t, got1, got2, "blend %v/%v depends on visit order", a, b)

		// Curves stay on the receiving side and start and end on the edge
		// corners.
		require.Len(t, got1.Core, blendSamples)
		assert.InDelta(t, got1.EdgePoints[0].X, got1.Core[0].X, 1e-9)
		assert.InDelta(t, got1.EdgePoints[blendSamples-1].Y, got1.Core[blendSamples-1].Y, 1e-9)
		rc := testGrid.Center(got1.Receiver.Col, got1.Receiver.Row)
		sc := testGrid.Center(got1.Source.Col, got1.Source.Row)
		mid := got1.Core[blendSamples/2]
		assert.Less(t, hexgrid.Distance(mid, rc), hexgrid.Distance(mid, sc))
		wantSource := 1
		if got1.Source == b {
			wantSource = 3
		}
		assert.Equal(t, wantSource, got1.SourceTerrain)
	}
}

func TestBlendEdges_EachPairOnce(t *testing.T) {
	terrainOf := func(c hexgrid.Coord) (int, bool) {
		return 1 + c.Col%2, true
	}
	edges := BlendEdges(testGrid, terrainOf)
	require.NotEmpty(t, edges)
	seen := make(map[[2]hexgrid.Coord]bool)
	for _, e := range edges {
		key := [2]hexgrid.Coord{e.A, e.B}
		assert.False(t, seen[key], "edge %v listed twice", key)
		seen[key] = true
		ta, _ := terrainOf(e.A)
		tb, _ := terrainOf(e.B)
		assert.NotEqual(t, ta, tb)
		assert.Equal(t, e.B, hexgrid.Neighbor(e.A.Col, e.A.Row, e.Dir))
	}

	uniform := BlendEdges(testGrid, func(hexgrid.Coord) (int, bool) { return 1, true })
	assert.Empty(t, uniform)
}

func TestBlendStrips_ClippedToReceiver(t *testing.T) {
	a, b := hexgrid.Coord{Col: 2, Row: 2}, hexgrid.Coord{Col: 3, Row: 2}
	e, ok := EdgeBetween(a, b)
	require.True(t, ok)
	bl := BuildBlend(testGrid, e, 1, 5)
	rc := testGrid.Center(bl.Receiver.Col, bl.Receiver.Row)
	for _, curve := range [][]hexgrid.Point{bl.Fringe, bl.Core} {
		for _, poly := range bl.strip(testGrid, curve) {
			for _, p := range poly {
				assert.LessOrEqual(t, hexgrid.Distance(p, rc), testGrid.Size+1e-6)
			}
		}
	}
}

func TestClipConvex(t *testing.T) {
	square := func(x0, y0, x1, y1 float64) []point {
		return []point{{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1}}
	}
	got := clipConvex(square(0, 0, 10, 10), square(5, 5, 20, 20))
	require.NotNil(t, got)
	assert.InDelta(t, 25, math.Abs(signedArea(got)), 1e-9)

	// Winding of the clip polygon does not matter.
	rev := square(5, 5, 20, 20)
	for i, j := 0, len(rev)-1; i < j; i, j = i+1, j-1 {
		rev[i], rev[j] = rev[j], rev[i]
	}
	assert.InDelta(t, 25, math.Abs(signedArea(clipConvex(square(0, 0, 10, 10), rev))), 1e-9)

	assert.Nil(t, clipConvex(square(0, 0, 1, 1), square(5, 5, 6, 6)))
}

func TestSmoothPolyline(t *testing.T) {
	two := []point{{X: 0, Y: 0}, {X: 10, Y: 0}}
	assert.Equal(t, two, smoothPolyline(two, 8))

	pts := []point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 20, Y: 10}}
	line := smoothPolyline(pts, 8)
	assert.Equal(t, pts[0], line[0])
	assert.Equal(t, pts[3], line[len(line)-1])
	assert.Len(t, line, 1+2*8)
}

func TestIconBudget_Tiers(t *testing.T) {
	cases := []struct {
		zoom float64
		want int
	}{
		{0.2, 1}, {1.49, 1}, {1.5, 3}, {2.9, 3}, {3, 6}, {4.99, 6}, {5, 7},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, IconBudget(tc.zoom), "zoom %v", tc.zoom)
	}
}

func sevenIcons() mapdata.HexMarkerData {
	var m mapdata.HexMarkerData
	kinds := []mapdata.IconKind{
		mapdata.KindNote, mapdata.KindMarker, mapdata.KindFeature, mapdata.KindLocation,
		mapdata.KindNote, mapdata.KindMarker, mapdata.KindFeature,
	}
	for _, k := range kinds {
		icon, _ := mapdata.NewIcon(k, mapdata.IconBase{Type: "x"})
		m.Icons = append(m.Icons, icon)
	}
	return m
}

func TestMarkers_DrawCountFollowsBudget(t *testing.T) {
	r := newRenderer()
	for _, zoom := range []float64{0.5, 1.5, 3, 5} {
		rec := NewRecorder(800, 600)
		r.Render(rec, Scene{
			Camera:  hexgrid.Camera{Zoom: zoom},
			Role:    mapdata.RolePlayer,
			Markers: map[string]mapdata.HexMarkerData{"2_2": sevenIcons()},
		})
		assert.Equal(t, min(7, IconBudget(zoom)), rec.Count(OpFillCircle), "zoom %v", zoom)
	}
}

func TestVisibleIcons_RoleAndOrder(t *testing.T) {
	one, two := 1, 2
	mk := func(k mapdata.IconKind, typ string, order *int, hidden bool) mapdata.IconEntry {
		e, err := mapdata.NewIcon(k, mapdata.IconBase{Type: typ, Order: order, Hidden: hidden})
		require.NoError(t, err)
		return e
	}
	m := mapdata.HexMarkerData{Icons: []mapdata.IconEntry{
		mk(mapdata.KindNote, "n", nil, false),
		mk(mapdata.KindLocation, "secret", nil, true),
		mk(mapdata.KindFeature, "f", &two, false),
		mk(mapdata.KindMarker, "m", &one, false),
		mk(mapdata.KindLocation, "town", nil, false),
	}}

	types := func(v []visibleIcon) []string {
		var out []string
		for _, ic := range v {
			out = append(out, ic.entry.Base().Type)
		}
		return out
	}
	assert.Equal(t, []string{"m", "f", "town", "n"}, types(visibleIcons(m, mapdata.RolePlayer)))

	dm := visibleIcons(m, mapdata.RoleDM)
	assert.Equal(t, []string{"m", "f", "secret", "town", "n"}, types(dm))
	assert.True(t, dm[2].dimmed)
}

func TestMarkers_MalformedKeysSkipped(t *testing.T) {
	rec := NewRecorder(800, 600)
	newRenderer().Render(rec, Scene{
		Camera: hexgrid.Camera{Zoom: 5},
		Markers: map[string]mapdata.HexMarkerData{
			"bogus": sevenIcons(),
			"99_99": sevenIcons(),
			"0_1":   sevenIcons(),
		},
	})
	assert.Zero(t, rec.Count(OpFillCircle))
}

func TestTerrain_UnreachableTextureFallsBackToColor(t *testing.T) {
	r := newRenderer()
	rec := NewRecorder(800, 600)
	require.NotPanics(t, func() {
		r.Render(rec, Scene{
			Camera: hexgrid.DefaultCamera(),
			Hexes: map[string]mapdata.HexData{
				"1_1":   {Type: mapdata.IDRef(3)},
				"2_1":   {Type: mapdata.IDRef(1)},
				"3_1":   {Type: mapdata.IDRef(42)},
				"x_y":   {Type: mapdata.IDRef(3)},
				"77_77": {Type: mapdata.IDRef(3)},
			},
		})
	})
	tris := rec.Filter(OpTriangles)
	require.NotEmpty(t, tris)
	forest := color.RGBA{R: 0x2f, G: 0x6b, B: 0x34, A: 0xff}
	var sawForest bool
	for _, op := range tris {
		assert.Nil(t, op.Image)
		v := op.Vertices[0]
		if math.Abs(float64(v.R)-float64(forest.R)/255) < 1e-6 && math.Abs(float64(v.G)-float64(forest.G)/255) < 1e-6 {
			sawForest = true
		}
	}
	assert.True(t, sawForest, "forest hex filled with its flat colour")

	// Once the texture is available the same hex is drawn textured.
	tex := image.NewRGBA(image.Rect(0, 0, 16, 16))
	r.Images = stubImages{id: 3, img: tex}
	rec.Reset()
	r.Render(rec, Scene{Camera: hexgrid.DefaultCamera(), Hexes: map[string]mapdata.HexData{"1_1": {Type: mapdata.IDRef(3)}}})
	var textured int
	for _, op := range rec.Filter(OpTriangles) {
		if op.Image == tex {
			textured++
		}
	}
	assert.Equal(t, 1, textured)
}

func TestTerrain_LegacyNameMatchesID(t *testing.T) {
	r := newRenderer()
	byID := NewRecorder(800, 600)
	byName := NewRecorder(800, 600)
	cam := hexgrid.Camera{X: -10, Y: 5, Zoom: 1.2}
	r.Render(byID, Scene{Camera: cam, Hexes: map[string]mapdata.HexData{
		"2_2": {Type: mapdata.IDRef(3)}, "3_2": {Type: mapdata.IDRef(5)},
	}})
	r.Render(byName, Scene{Camera: cam, Hexes: map[string]mapdata.HexData{
		"2_2": {Type: mapdata.NameRef("Forest")}, "3_2": {Type: mapdata.NameRef("water")},
	}})
	assert.Equal(t, byID.Ops(), byName.Ops())
}

func TestPaths_PointCounts(t *testing.T) {
	r := newRenderer()
	v := view{cam: hexgrid.DefaultCamera()}
	st := styleFor(mapdata.PathRoadSolid)

	rec := NewRecorder(100, 100)
	r.drawPath(rec, v, nil, st, 1)
	r.drawPaths(rec, v, []mapdata.MapPath{{Type: mapdata.PathRiver}})
	assert.Empty(t, rec.Ops(), "empty paths draw nothing")

	r.drawPath(rec, v, []point{{X: 5, Y: 5}}, st, 1)
	assert.Equal(t, 1, rec.Count(OpFillCircle))
	assert.Zero(t, rec.Count(OpLine))

	rec.Reset()
	r.drawPath(rec, v, []point{{X: 0, Y: 0}, {X: 50, Y: 0}}, st, 1)
	assert.Equal(t, 2, rec.Count(OpLine), "casing and stroke")
}

func TestPaths_DashLengthIsScreenConstant(t *testing.T) {
	r := newRenderer()
	st := styleFor(mapdata.PathRoadDotted)
	line := []point{{X: 0, Y: 0}, {X: 50, Y: 0}}
	for _, tc := range []struct {
		zoom   float64
		dashes int
	}{{1, 5}, {2, 9}} {
		rec := NewRecorder(200, 100)
		r.drawPath(rec, view{cam: hexgrid.Camera{Zoom: tc.zoom}}, line, st, 1)
		lines := rec.Filter(OpLine)
		assert.Len(t, lines, tc.dashes, "zoom %v", tc.zoom)
		for _, op := range lines {
			assert.LessOrEqual(t, float64(op.Coords[2]-op.Coords[0]), st.dash+1e-3)
			assert.InDelta(t, st.width, float64(op.Coords[4]), 1e-4, "stroke width stays in screen pixels")
		}
	}
}

func TestPreview_DotsAndCursor(t *testing.T) {
	r := newRenderer()
	v := view{cam: hexgrid.DefaultCamera()}
	cursor := point{X: 90, Y: 40}
	rec := NewRecorder(200, 200)
	r.drawPreview(rec, v, mapdata.PathPreview{
		Type:   mapdata.PathRoadSolid,
		Points: []point{{X: 10, Y: 10}, {X: 50, Y: 10}},
		Cursor: &cursor,
	})
	var dots int
	for _, op := range rec.Filter(OpFillCircle) {
		if op.Coords[2] == float32(styleFor(mapdata.PathRoadSolid).width) {
			dots++
		}
	}
	assert.Equal(t, 2, dots, "one dot per placed waypoint")
	lines := rec.Filter(OpLine)
	require.NotEmpty(t, lines)
	last := lines[len(lines)-1]
	assert.InDelta(t, 90, float64(last.Coords[2]), 1e-3, "path runs to the cursor")
	assert.Less(t, last.Color.A, uint8(255))
}

func TestSelection_SkippedInPaintMode(t *testing.T) {
	r := newRenderer()
	sel := hexgrid.Coord{Col: 2, Row: 3}
	wide := func(rec *Recorder) int {
		n := 0
		for _, op := range rec.Filter(OpLine) {
			if op.Coords[4] == 7 {
				n++
			}
		}
		return n
	}
	rec := NewRecorder(800, 600)
	r.Render(rec, Scene{Camera: hexgrid.DefaultCamera(), Selected: &sel})
	assert.Equal(t, 6, wide(rec))

	rec.Reset()
	r.Render(rec, Scene{Camera: hexgrid.DefaultCamera(), Selected: &sel, PaintMode: true})
	assert.Zero(t, wide(rec))
}

func TestBorders_EachEdgeOnce(t *testing.T) {
	g := hexgrid.Grid{W: 3, H: 3, Size: 40}
	r := &Renderer{Grid: g, Catalog: testCatalog()}
	rec := NewRecorder(400, 400)
	r.drawBorders(rec, view{cam: hexgrid.DefaultCamera()})

	// Shared edges are counted from both sides here.
	var shared int
	g.All(func(c hexgrid.Coord) {
		for _, n := range hexgrid.Neighbors(c) {
			if g.Contains(n) {
				shared++
			}
		}
	})
	assert.Equal(t, 6*g.W*g.H-shared/2, rec.Count(OpLine))
}

func TestLabels_SelectedBold(t *testing.T) {
	r := newRenderer()
	sel := hexgrid.Coord{Col: 4, Row: 2}
	rec := NewRecorder(800, 600)
	r.drawLabels(rec, view{cam: hexgrid.DefaultCamera()}, &sel)
	var bold []string
	for _, op := range rec.Filter(OpText) {
		if op.Style.Bold {
			bold = append(bold, op.Text)
		}
	}
	assert.ElementsMatch(t, []string{"4", "2"}, bold)
	assert.Len(t, rec.Filter(OpText), testGrid.W+testGrid.H)
}
