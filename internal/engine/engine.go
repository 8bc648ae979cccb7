// Package engine is the map component a host embeds: it owns the canvas,
// camera, catalog and image loader, and draws whatever snapshot the host
// passes to Draw.
package engine

import (
	"errors"
	"fmt"
	"math"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/Garsondee/hexmap/internal/assets"
	"github.com/Garsondee/hexmap/internal/hexgrid"
	"github.com/Garsondee/hexmap/internal/input"
	"github.com/Garsondee/hexmap/internal/mapdata"
	"github.com/Garsondee/hexmap/internal/render"
)

// ErrNoCanvas is returned by New without a canvas.
var ErrNoCanvas = errors.New("engine: canvas is required")

// Frame is the per-draw input. The engine never mutates it.
type Frame struct {
	Hexes     map[string]mapdata.HexData
	Selected  *hexgrid.Coord
	PaintMode bool
	Role      mapdata.Role
	Markers   map[string]mapdata.HexMarkerData
	Paths     []mapdata.MapPath
	Preview   *mapdata.PathPreview
}

// Options configures New.
type Options struct {
	Canvas   render.Canvas
	Grid     mapdata.GridConfig
	Terrains map[string]mapdata.TerrainEntry
	Tags     map[string]mapdata.TagEntry
	// Fetcher loads images; nil disables image loading.
	Fetcher assets.Fetcher
	Log     logrus.FieldLogger

	OnHexClick     input.ClickFunc
	OnCameraChange func()

	PatternSize int
	Parallelism int
}

// Engine is one map instance. Apart from the dirty flag it must only be
// used from the draw goroutine.
type Engine struct {
	log      logrus.FieldLogger
	grid     hexgrid.Grid
	canvas   render.Canvas
	catalog  *mapdata.Catalog
	loader   *assets.Loader
	ctrl     *input.Controller
	renderer *render.Renderer
	adapter  *input.EbitenAdapter
	remote   *assets.RemoteConfig

	onCameraChange func()
	dirty          atomic.Bool
	destroyed      bool
}

// New builds an engine and starts loading images for the initial config
// from local paths. Call LoadIconImages to switch to remote URLs.
func New(opts Options) (*Engine, error) {
	if opts.Canvas == nil {
		return nil, ErrNoCanvas
	}
	grid := opts.Grid.Grid()
	if grid.W <= 0 || grid.H <= 0 || !(grid.Size > 0) || math.IsInf(grid.Size, 0) {
		return nil, fmt.Errorf("engine: invalid grid %dx%d size %v", grid.W, grid.H, grid.Size)
	}
	log := opts.Log
	if log == nil {
		log = logrus.StandardLogger()
	}

	e := &Engine{
		log:            log.WithField("component", "engine"),
		grid:           grid,
		canvas:         opts.Canvas,
		catalog:        mapdata.NewCatalog(opts.Terrains, opts.Tags),
		onCameraChange: opts.OnCameraChange,
	}
	e.dirty.Store(true)

	var images render.ImageSource = render.NoImages{}
	if opts.Fetcher != nil {
		loaderOpts := []assets.Option{
			assets.WithLogger(log),
			assets.WithChangeHook(e.MarkDirty),
		}
		if opts.PatternSize > 0 {
			loaderOpts = append(loaderOpts, assets.WithPatternSize(opts.PatternSize))
		}
		if opts.Parallelism > 0 {
			loaderOpts = append(loaderOpts, assets.WithParallelism(opts.Parallelism))
		}
		e.loader = assets.NewLoader(opts.Fetcher, loaderOpts...)
		images = e.loader
	}

	e.renderer = &render.Renderer{Grid: grid, Catalog: e.catalog, Images: images, Log: log}
	e.ctrl = input.NewController(input.Options{
		Grid:     grid,
		Camera:   hexgrid.DefaultCamera(),
		OnClick:  opts.OnHexClick,
		OnChange: e.cameraChanged,
		Log:      log,
	})

	if e.loader != nil {
		if err := e.loader.Load(e.catalog, nil); err != nil {
			return nil, fmt.Errorf("engine: start image load: %w", err)
		}
	}
	e.log.WithFields(logrus.Fields{
		"grid":     fmt.Sprintf("%dx%d", grid.W, grid.H),
		"hex_size": grid.Size,
		"terrains": e.catalog.Terrains.Len(),
		"tags":     e.catalog.Tags.Len(),
	}).Info("engine ready")
	return e, nil
}

func (e *Engine) cameraChanged() {
	e.MarkDirty()
	if e.onCameraChange != nil {
		e.onCameraChange()
	}
}

// MarkDirty requests a redraw. Safe from any goroutine.
func (e *Engine) MarkDirty() { e.dirty.Store(true) }

// Dirty reports whether anything changed since the last Draw.
func (e *Engine) Dirty() bool { return e.dirty.Load() }

// Draw renders f. Bad data is skipped or normalised; Draw never panics.
func (e *Engine) Draw(f Frame) {
	if e.destroyed {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			e.log.WithField("panic", r).Error("draw aborted")
		}
	}()
	cam := e.ctrl.Camera()
	if cam.Sanitize() {
		e.log.WithField("camera", fmt.Sprintf("%+v", e.ctrl.Camera())).Warn("camera reset to a safe default")
		e.ctrl.SetCamera(cam)
	}
	e.dirty.Store(false)
	e.renderer.Render(e.canvas, render.Scene{
		Camera:    cam,
		Hexes:     f.Hexes,
		Selected:  f.Selected,
		PaintMode: f.PaintMode,
		Role:      f.Role,
		Markers:   f.Markers,
		Paths:     f.Paths,
		Preview:   f.Preview,
	})
}

// LoadIconImages (re)starts image loading. A nil remote uses the local
// fallback paths. Images already loaded from the same source are kept.
func (e *Engine) LoadIconImages(remote *assets.RemoteConfig) error {
	if e.destroyed {
		return assets.ErrClosed
	}
	e.remote = remote
	if e.loader == nil {
		return nil
	}
	return e.loader.Load(e.catalog, remote)
}

// SetConfig rebuilds the lookup tables and loads any new images.
func (e *Engine) SetConfig(terrains map[string]mapdata.TerrainEntry, tags map[string]mapdata.TagEntry) error {
	if e.destroyed {
		return assets.ErrClosed
	}
	e.catalog = mapdata.NewCatalog(terrains, tags)
	e.renderer.Catalog = e.catalog
	e.MarkDirty()
	e.log.WithFields(logrus.Fields{
		"terrains": e.catalog.Terrains.Len(),
		"tags":     e.catalog.Tags.Len(),
	}).Info("config updated")
	if e.loader == nil {
		return nil
	}
	return e.loader.Load(e.catalog, e.remote)
}

// Resize resizes the canvas backing store to w×h CSS-style pixels at the
// given device scale. The camera is not changed.
func (e *Engine) Resize(w, h int, scale float64) {
	if e.destroyed {
		return
	}
	if !(scale > 0) || math.IsInf(scale, 0) {
		scale = 1
	}
	e.canvas.Resize(int(math.Round(float64(w)*scale)), int(math.Round(float64(h)*scale)))
	e.MarkDirty()
}

// AttachEbitenInput starts forwarding ebiten input to the controller. The
// caller must call the adapter's Update each tick.
func (e *Engine) AttachEbitenInput() *input.EbitenAdapter {
	if e.adapter == nil {
		e.adapter = input.NewEbitenAdapter(e.ctrl)
	}
	return e.adapter
}

// Destroy detaches input, stops image loading and frees the canvas. It is
// safe to call more than once.
func (e *Engine) Destroy() {
	if e.destroyed {
		return
	}
	e.destroyed = true
	if e.adapter != nil {
		e.adapter.Detach()
	}
	if e.loader != nil {
		e.loader.Close()
	}
	if d, ok := e.canvas.(interface{ Dispose() }); ok {
		d.Dispose()
	}
	e.log.Info("engine destroyed")
}

// Controller exposes the input controller.
func (e *Engine) Controller() *input.Controller { return e.ctrl }

// Camera is the current camera.
func (e *Engine) Camera() hexgrid.Camera { return e.ctrl.Camera() }

// Grid is the lattice this engine draws.
func (e *Engine) Grid() hexgrid.Grid { return e.grid }

// Catalog is the current lookup catalog.
func (e *Engine) Catalog() *mapdata.Catalog { return e.catalog }

// Progress reports image loading as settled, expected and failed counts.
func (e *Engine) Progress() (settled, expected, failed int) {
	if e.loader == nil {
		return 0, 0, 0
	}
	return e.loader.Progress()
}

// WaitImages blocks until the current image batch has settled.
func (e *Engine) WaitImages() {
	if e.loader != nil {
		e.loader.Wait()
	}
}
