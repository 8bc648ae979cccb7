package assets_test

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/Garsondee/hexmap/internal/assets"
	assetsmocks "github.com/Garsondee/hexmap/internal/assets/mocks"
	"github.com/Garsondee/hexmap/internal/mapdata"
)

func pngBytes(t testing.TB, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 10), G: uint8(y * 10), B: 80, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

type LoaderTestSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	fetcher *assetsmocks.MockFetcher
	logs    *test.Hook
	changes atomic.Int32
	loader  *assets.Loader
	catalog *mapdata.Catalog
}

func (s *LoaderTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.fetcher = assetsmocks.NewMockFetcher(s.ctrl)
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	s.logs = hook
	s.changes.Store(0)
	s.loader = assets.NewLoader(s.fetcher,
		assets.WithLogger(logger),
		assets.WithChangeHook(func() { s.changes.Add(1) }),
		assets.WithPatternSize(32),
		assets.WithParallelism(2),
	)
	s.catalog = mapdata.NewCatalog(
		map[string]mapdata.TerrainEntry{
			"Forest": {ID: 3, Name: "Forest", Texture: "https://cdn.test/forest.png"},
			"Deep Water": {ID: 2, Name: "Deep Water", Texture: "https://unreachable.test/water.png"},
		},
		map[string]mapdata.TagEntry{
			"Castle": {ID: 1, Name: "Castle", Icon: "https://cdn.test/castle.png"},
		},
	)
}

func (s *LoaderTestSuite) TearDownTest() {
	s.loader.Close()
}

func (s *LoaderTestSuite) serve(ok map[string][]byte) {
	s.fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, src string) (io.ReadCloser, error) {
			if b, found := ok[src]; found {
				return io.NopCloser(bytes.NewReader(b)), nil
			}
			return nil, errors.New("connection refused")
		}).AnyTimes()
}

func (s *LoaderTestSuite) TestRemoteLoad_StoresPatternsAndSurvivesFailures() {
	s.serve(map[string][]byte{
		"https://cdn.test/forest.png": pngBytes(s.T(), 8, 4),
		"https://cdn.test/castle.png": pngBytes(s.T(), 5, 5),
	})

	s.Require().NoError(s.loader.Load(s.catalog, &assets.RemoteConfig{}))
	s.loader.Wait()

	forest, ok := s.loader.Terrain(3)
	s.Require().True(ok)
	s.Equal(image.Rect(0, 0, 32, 32), forest.Bounds(), "terrain textures are resampled to the pattern size")

	_, ok = s.loader.Terrain(2)
	s.False(ok, "unreachable texture stays unresolved")

	castle, ok := s.loader.Tag(1)
	s.Require().True(ok)
	s.Equal(5, castle.Bounds().Dx(), "icons keep their size")

	settled, expected, failed := s.loader.Progress()
	s.Equal(3, expected)
	s.Equal(3, settled)
	s.Equal(1, failed)
	// Two stored images plus the settle notification.
	s.Equal(int32(3), s.changes.Load())

	var warned bool
	for _, e := range s.logs.AllEntries() {
		if e.Level == logrus.WarnLevel && e.Data["asset"] == "terrain/2" {
			warned = true
		}
	}
	s.True(warned, "failed load is logged with its asset key")
}

func (s *LoaderTestSuite) TestReload_KeepsLoadedImages() {
	var mu sync.Mutex
	fetched := make(map[string]int)
	body := pngBytes(s.T(), 4, 4)
	s.fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, src string) (io.ReadCloser, error) {
			mu.Lock()
			fetched[src]++
			mu.Unlock()
			if strings.Contains(src, "unreachable") {
				return nil, errors.New("timeout")
			}
			return io.NopCloser(bytes.NewReader(body)), nil
		}).AnyTimes()

	s.Require().NoError(s.loader.Load(s.catalog, &assets.RemoteConfig{}))
	s.loader.Wait()
	s.Require().NoError(s.loader.Load(s.catalog, &assets.RemoteConfig{}))
	s.loader.Wait()

	s.Equal(1, fetched["https://cdn.test/forest.png"], "loaded image is not refetched")
	s.Equal(2, fetched["https://unreachable.test/water.png"], "failed image is retried on the next load")
}

func (s *LoaderTestSuite) TestSwitchToRemote_SlowLocalImageDoesNotOverwrite() {
	release := make(chan struct{})
	local := pngBytes(s.T(), 9, 9)
	remote := pngBytes(s.T(), 5, 5)
	s.fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, src string) (io.ReadCloser, error) {
			switch src {
			case "tags/castle.png":
				select {
				case <-release:
				case <-ctx.Done():
					return nil, ctx.Err()
				}
				return io.NopCloser(bytes.NewReader(local)), nil
			case "https://cdn.test/castle.png":
				return io.NopCloser(bytes.NewReader(remote)), nil
			}
			return nil, errors.New("not found")
		}).AnyTimes()

	s.Require().NoError(s.loader.Load(s.catalog, nil))
	s.Require().NoError(s.loader.Load(s.catalog, &assets.RemoteConfig{}))
	s.Eventually(func() bool {
		_, ok := s.loader.Tag(1)
		return ok
	}, 2*time.Second, 5*time.Millisecond)

	close(release)
	s.loader.Wait()

	castle, ok := s.loader.Tag(1)
	s.Require().True(ok)
	s.Equal(5, castle.Bounds().Dx(), "the remote icon survives the earlier local batch")
}

func (s *LoaderTestSuite) TestLocalFallback_UsesPathTable() {
	var srcs []string
	s.fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, src string) (io.ReadCloser, error) {
			return nil, errors.New("missing")
		}).AnyTimes()
	jobs := assets.Plan(s.catalog, nil)
	for _, j := range jobs {
		srcs = append(srcs, j.Src)
	}
	s.Contains(srcs, "terrain/forest.png")
	s.Contains(srcs, "terrain/deep_water.png")
	s.Contains(srcs, "tags/castle.png")
	s.Contains(srcs, "icons/location/town.png")

	s.Require().NoError(s.loader.Load(s.catalog, nil))
	s.loader.Wait()
	settled, expected, failed := s.loader.Progress()
	s.Equal(len(jobs), expected)
	s.Equal(expected, settled)
	s.Equal(expected, failed)
}

func (s *LoaderTestSuite) TestClosed_RejectsLoad() {
	s.loader.Close()
	err := s.loader.Load(s.catalog, nil)
	s.ErrorIs(err, assets.ErrClosed)
}

func TestLoaderTestSuite(t *testing.T) {
	suite.Run(t, new(LoaderTestSuite))
}
