// Package render draws the hex map into a Surface: terrain fills and seam
// blending first, then borders, labels, selection, marker icons and paths.
//
// Everything here works in world space until vertices are emitted, at which
// point the camera is applied. The package has no input handling and no
// lifecycle of its own.
package render

import (
	"image"
	"image/color"

	"github.com/Garsondee/hexmap/internal/mapdata"
)

// Vertex is a screen-space triangle vertex. U/V are texture pixel
// coordinates (wrapping); R,G,B,A scale the sampled colour.
type Vertex struct {
	X, Y       float32
	U, V       float32
	R, G, B, A float32
}

// Align positions text relative to its anchor point.
type Align int

const (
	AlignStart Align = iota
	AlignCenter
	AlignEnd
)

// TextStyle configures DrawText.
type TextStyle struct {
	Size   float64
	Color  color.Color
	Bold   bool
	HAlign Align
	VAlign Align
}

// Surface is a drawing target. All coordinates are screen pixels.
type Surface interface {
	Size() (w, h int)
	Clear(c color.Color)
	// FillTriangles draws indexed triangles. tex nil draws the vertex colour
	// as a solid fill; otherwise tex is sampled with repeat addressing.
	FillTriangles(vs []Vertex, idx []uint16, tex image.Image)
	StrokeLine(x0, y0, x1, y1, width float32, c color.Color)
	FillCircle(cx, cy, r float32, c color.Color)
	StrokeCircle(cx, cy, r, width float32, c color.Color)
	DrawImage(img image.Image, x, y, w, h, alpha float32)
	DrawText(s string, x, y float32, style TextStyle)
}

// Canvas is a Surface whose backing store the engine can resize.
type Canvas interface {
	Surface
	Resize(w, h int)
}

// ImageSource provides loaded images. Missing entries fall back to flat
// colours and dots.
type ImageSource interface {
	Terrain(id int) (image.Image, bool)
	Tag(id int) (image.Image, bool)
	Overlay(kind mapdata.IconKind, typ string) (image.Image, bool)
}

// NoImages is an ImageSource with nothing loaded.
type NoImages struct{}

func (NoImages) Terrain(int) (image.Image, bool) { return nil, false }
func (NoImages) Tag(int) (image.Image, bool)     { return nil, false }
func (NoImages) Overlay(mapdata.IconKind, string) (image.Image, bool) {
	return nil, false
}
