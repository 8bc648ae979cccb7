package engine_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/Garsondee/hexmap/internal/assets"
	assetsmocks "github.com/Garsondee/hexmap/internal/assets/mocks"
	"github.com/Garsondee/hexmap/internal/engine"
	"github.com/Garsondee/hexmap/internal/hexgrid"
	"github.com/Garsondee/hexmap/internal/input"
	"github.com/Garsondee/hexmap/internal/mapdata"
	"github.com/Garsondee/hexmap/internal/render"
)

const forestColor = "#2f6b34"

type EngineTestSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	fetcher *assetsmocks.MockFetcher
	canvas  *render.Recorder
	logs    *test.Hook
	engine  *engine.Engine
	clicks  []*hexgrid.Coord
	camera  int
}

func (s *EngineTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.fetcher = assetsmocks.NewMockFetcher(s.ctrl)
	s.fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any()).DoAndReturn(
		func(context.Context, string) (io.ReadCloser, error) {
			return nil, errors.New("dial tcp: no such host")
		}).AnyTimes()
	s.canvas = render.NewRecorder(640, 480)
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	s.logs = hook
	s.clicks = nil
	s.camera = 0

	e, err := engine.New(engine.Options{
		Canvas: s.canvas,
		Grid:   mapdata.GridConfig{Width: 8, Height: 6, HexSize: 30},
		Terrains: map[string]mapdata.TerrainEntry{
			"Forest": {ID: 3, Name: "Forest", Color: forestColor, Texture: "https://unreachable.test/forest.png"},
			"Plains": {ID: 1, Name: "Plains", Color: "#a3c46c"},
		},
		Tags:    map[string]mapdata.TagEntry{"Castle": {ID: 1, Name: "Castle", Color: "#ffffff"}},
		Fetcher: s.fetcher,
		Log:     logger,
		OnHexClick: func(hex *hexgrid.Coord, _, _ float64, _ input.ClickKind) {
			s.clicks = append(s.clicks, hex)
		},
		OnCameraChange: func() { s.camera++ },
	})
	s.Require().NoError(err)
	s.engine = e
}

func (s *EngineTestSuite) TearDownTest() {
	s.engine.Destroy()
}

func (s *EngineTestSuite) TestDraw_UnreachableTextureUsesColor() {
	s.Require().NoError(s.engine.LoadIconImages(&assets.RemoteConfig{}))
	s.engine.WaitImages()
	settled, expected, failed := s.engine.Progress()
	s.Equal(1, expected)
	s.Equal(1, settled)
	s.Equal(1, failed)

	s.Require().NotPanics(func() {
		s.engine.Draw(engine.Frame{
			Hexes: map[string]mapdata.HexData{
				"1_1": {Type: mapdata.IDRef(3)},
				"2_1": {Type: mapdata.NameRef("Forest")},
				"bad": {Type: mapdata.IDRef(1)},
			},
			Role: mapdata.RolePlayer,
		})
	})

	tris := s.canvas.Filter(render.OpTriangles)
	s.Require().NotEmpty(tris)
	var forest bool
	for _, op := range tris {
		s.Nil(op.Image, "no texture without a loaded image")
		v := op.Vertices[0]
		if v.R == float32(0x2f)/255 && v.G == float32(0x6b)/255 && v.B == float32(0x34)/255 {
			forest = true
		}
	}
	s.True(forest, "forest hexes use the fallback colour")
	s.False(s.engine.Dirty())
}

func (s *EngineTestSuite) TestClickAndCameraCallbacks() {
	c := s.engine.Controller()
	center := s.engine.Grid().Center(2, 3)
	c.MouseDown(input.ButtonLeft, center.X, center.Y)
	c.MouseUp(input.ButtonLeft, center.X, center.Y)
	s.Require().Len(s.clicks, 1)
	s.Require().NotNil(s.clicks[0])
	s.Equal(hexgrid.Coord{Col: 2, Row: 3}, *s.clicks[0])

	s.engine.WaitImages()
	s.engine.Draw(engine.Frame{})
	s.False(s.engine.Dirty())
	c.Wheel(-200, 100, 100)
	s.Equal(1, s.camera)
	s.True(s.engine.Dirty(), "camera change requests a redraw")
	s.Greater(s.engine.Camera().Zoom, 1.0)
}

func (s *EngineTestSuite) TestSetConfig_RebuildsCatalog() {
	s.Require().NoError(s.engine.SetConfig(
		map[string]mapdata.TerrainEntry{"Marsh": {ID: 9, Name: "Marsh", Color: "#445544"}},
		nil,
	))
	id, ok := s.engine.Catalog().Terrains.IDOf(mapdata.NameRef("marsh"))
	s.True(ok)
	s.Equal(9, id)
	_, ok = s.engine.Catalog().Terrains.IDOf(mapdata.NameRef("Forest"))
	s.False(ok)
	s.True(s.engine.Dirty())
}

func (s *EngineTestSuite) TestResize_KeepsCamera() {
	before := s.engine.Camera()
	s.engine.Resize(300, 200, 2)
	w, h := s.canvas.Size()
	s.Equal(600, w)
	s.Equal(400, h)
	s.Equal(before, s.engine.Camera())

	s.engine.Resize(300, 200, 0)
	w, _ = s.canvas.Size()
	s.Equal(300, w, "bad scale falls back to 1")
}

func (s *EngineTestSuite) TestDestroy_StopsWork() {
	s.engine.Destroy()
	s.engine.Destroy()
	s.canvas.Reset()
	s.engine.Draw(engine.Frame{})
	s.Empty(s.canvas.Ops())
	s.ErrorIs(s.engine.LoadIconImages(nil), assets.ErrClosed)
}

func TestEngineTestSuite(t *testing.T) {
	suite.Run(t, new(EngineTestSuite))
}

func TestNew_Validation(t *testing.T) {
	_, err := engine.New(engine.Options{})
	assert.ErrorIs(t, err, engine.ErrNoCanvas)

	e, err := engine.New(engine.Options{Canvas: render.NewRecorder(10, 10)})
	require.NoError(t, err)
	assert.Equal(t, hexgrid.Grid{W: 50, H: 50, Size: 40}, e.Grid(), "defaults apply")
	e.Draw(engine.Frame{Paths: []mapdata.MapPath{{Type: mapdata.PathRiver}}})
	e.Destroy()
}
