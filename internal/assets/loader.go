// Package assets loads terrain textures and icon images in the background so
// the first frame never waits on the network.
package assets

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"sync"

	"github.com/sirupsen/logrus"
	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"

	"github.com/Garsondee/hexmap/internal/mapdata"
)

// ErrClosed is returned by Load after Close.
var ErrClosed = errors.New("asset loader closed")

const (
	defaultPatternSize = 256
	defaultParallelism = 8
)

// Loader fetches and caches images. Completion callbacks run on loader
// goroutines; the change hook must be safe to call from any goroutine.
type Loader struct {
	fetcher     Fetcher
	log         logrus.FieldLogger
	onChange    func()
	patternSize int
	parallelism int

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu       sync.Mutex
	images   map[Key]image.Image
	sources  map[Key]string
	// written is the batch generation that stored each image.
	written  map[Key]int
	gen      int
	expected int
	settled  int
	failed   int
	closed   bool
}

// Option configures a Loader.
type Option func(*Loader)

// WithLogger sets the logger. Defaults to the logrus standard logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(l *Loader) { l.log = log }
}

// WithChangeHook is called after every stored image and once more when a
// whole batch has settled.
func WithChangeHook(fn func()) Option {
	return func(l *Loader) { l.onChange = fn }
}

// WithPatternSize sets the square size terrain textures are resampled to.
func WithPatternSize(px int) Option {
	return func(l *Loader) { l.patternSize = px }
}

// WithParallelism bounds concurrent fetches.
func WithParallelism(n int) Option {
	return func(l *Loader) { l.parallelism = n }
}

// NewLoader creates an idle loader.
func NewLoader(f Fetcher, opts ...Option) *Loader {
	l := &Loader{
		fetcher:     f,
		log:         logrus.StandardLogger(),
		onChange:    func() {},
		patternSize: defaultPatternSize,
		parallelism: defaultParallelism,
		images:      make(map[Key]image.Image),
		sources:     make(map[Key]string),
		written:     make(map[Key]int),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.ctx, l.cancel = context.WithCancel(context.Background())
	return l
}

// Load starts fetching every image in the plan for cat/remote and returns
// immediately. Images already loaded from the same source are kept and not
// refetched; a changed source is refetched and the old image served until
// the new one arrives.
func (l *Loader) Load(cat *mapdata.Catalog, remote *RemoteConfig) error {
	jobs := Plan(cat, remote)

	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return ErrClosed
	}
	l.gen++
	gen := l.gen
	pending := jobs[:0:0]
	for _, j := range jobs {
		if src, ok := l.sources[j.Key]; ok && src == j.Src {
			if _, loaded := l.images[j.Key]; loaded {
				continue
			}
		}
		pending = append(pending, j)
	}
	l.expected = len(pending)
	l.settled = 0
	l.failed = 0
	l.mu.Unlock()

	l.log.WithFields(logrus.Fields{
		"planned": len(jobs),
		"pending": len(pending),
		"remote":  remote != nil,
	}).Info("loading map assets")

	if len(pending) == 0 {
		l.onChange()
		return nil
	}

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		var g errgroup.Group
		g.SetLimit(l.parallelism)
		for _, j := range pending {
			g.Go(func() error {
				l.run(gen, j)
				return nil
			})
		}
		_ = g.Wait()
		if !l.isClosed() {
			l.onChange()
		}
	}()
	return nil
}

func (l *Loader) run(gen int, j Job) {
	img, err := l.fetch(j)

	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	current := gen == l.gen
	if current {
		l.settled++
	}
	if err != nil {
		if current {
			l.failed++
		}
		l.mu.Unlock()
		l.log.WithFields(logrus.Fields{"asset": j.Key.String(), "src": j.Src}).WithError(err).Warn("asset load failed")
		return
	}
	if gen < l.written[j.Key] {
		// A newer batch already stored this key.
		l.mu.Unlock()
		l.log.WithFields(logrus.Fields{"asset": j.Key.String(), "src": j.Src}).Debug("stale asset dropped")
		return
	}
	l.images[j.Key] = img
	l.sources[j.Key] = j.Src
	l.written[j.Key] = gen
	l.mu.Unlock()

	l.log.WithFields(logrus.Fields{"asset": j.Key.String(), "src": j.Src}).Debug("asset loaded")
	l.onChange()
}

func (l *Loader) fetch(j Job) (image.Image, error) {
	rc, err := l.fetcher.Fetch(l.ctx, j.Src)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	img, err := decode(rc)
	if err != nil {
		return nil, err
	}
	if j.Key.Class == ClassTerrain {
		img = toPattern(img, l.patternSize)
	}
	return img, nil
}

func decode(r io.Reader) (image.Image, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("decode image: empty %s", format)
	}
	return img, nil
}

// toPattern resamples a texture into a square tile so every terrain pattern
// repeats at the same resolution.
func toPattern(src image.Image, size int) image.Image {
	if size <= 0 {
		return src
	}
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}

// Image returns a cached image.
func (l *Loader) Image(k Key) (image.Image, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	img, ok := l.images[k]
	return img, ok
}

// Terrain returns the repeating pattern for a terrain id.
func (l *Loader) Terrain(id int) (image.Image, bool) { return l.Image(TerrainKey(id)) }

// Tag returns the icon for a tag id.
func (l *Loader) Tag(id int) (image.Image, bool) { return l.Image(TagKey(id)) }

// Overlay returns the icon for an overlay kind/type.
func (l *Loader) Overlay(kind mapdata.IconKind, typ string) (image.Image, bool) {
	return l.Image(OverlayKey(kind, typ))
}

// Progress reports the current batch: settled of expected, failed included.
func (l *Loader) Progress() (settled, expected, failed int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.settled, l.expected, l.failed
}

// Wait blocks until every started batch has settled.
func (l *Loader) Wait() {
	l.wg.Wait()
}

// Close cancels in-flight fetches. Completions after Close are dropped.
func (l *Loader) Close() {
	l.mu.Lock()
	l.closed = true
	l.mu.Unlock()
	l.cancel()
}

func (l *Loader) isClosed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closed
}
