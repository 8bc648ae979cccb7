package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// EbitenCanvas is the on-screen Surface: an offscreen ebiten image the
// viewer blits to the window.
type EbitenCanvas struct {
	img     *ebiten.Image
	white   *ebiten.Image
	regular *text.GoTextFaceSource
	bold    *text.GoTextFaceSource
	textures *textureCache[*ebiten.Image]
	scratch  []ebiten.Vertex
}

// NewEbitenCanvas allocates a w×h canvas and loads the label fonts.
func NewEbitenCanvas(w, h int) (*EbitenCanvas, error) {
	regular, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, fmt.Errorf("load regular font: %w", err)
	}
	bold, err := text.NewGoTextFaceSource(bytes.NewReader(gobold.TTF))
	if err != nil {
		return nil, fmt.Errorf("load bold font: %w", err)
	}
	white := ebiten.NewImage(4, 4)
	white.Fill(color.White)
	return &EbitenCanvas{
		img:      ebiten.NewImage(max(1, w), max(1, h)),
		white:    white,
		regular:  regular,
		bold:     bold,
		textures: newTextureCache(textureIdleFrames, ebiten.NewImageFromImage, (*ebiten.Image).Deallocate),
	}, nil
}

// Image is the backing image.
func (c *EbitenCanvas) Image() *ebiten.Image { return c.img }

func (c *EbitenCanvas) Size() (int, int) {
	b := c.img.Bounds()
	return b.Dx(), b.Dy()
}

// Resize reallocates the backing image when the size changes.
func (c *EbitenCanvas) Resize(w, h int) {
	w, h = max(1, w), max(1, h)
	if cw, ch := c.Size(); cw == w && ch == h {
		return
	}
	c.img.Deallocate()
	c.img = ebiten.NewImage(w, h)
}

// Clear starts a frame; it also ages out textures no longer drawn.
func (c *EbitenCanvas) Clear(col color.Color) {
	c.textures.nextFrame()
	c.img.Fill(col)
}

func (c *EbitenCanvas) texture(img image.Image) *ebiten.Image {
	if e, ok := img.(*ebiten.Image); ok {
		return e
	}
	return c.textures.get(img)
}

func (c *EbitenCanvas) FillTriangles(vs []Vertex, idx []uint16, tex image.Image) {
	if len(idx) == 0 {
		return
	}
	c.scratch = c.scratch[:0]
	src := c.white
	op := &ebiten.DrawTrianglesOptions{}
	op.Blend = ebiten.BlendSourceOver
	if tex != nil {
		src = c.texture(tex)
		op.Address = ebiten.AddressRepeat
		op.Filter = ebiten.FilterLinear
	}
	for _, v := range vs {
		ev := ebiten.Vertex{
			DstX: v.X, DstY: v.Y,
			SrcX: v.U, SrcY: v.V,
			ColorR: v.R, ColorG: v.G, ColorB: v.B, ColorA: v.A,
		}
		if tex == nil {
			ev.SrcX, ev.SrcY = 1, 1
		}
		c.scratch = append(c.scratch, ev)
	}
	c.img.DrawTriangles(c.scratch, idx, src, op)
}

func (c *EbitenCanvas) StrokeLine(x0, y0, x1, y1, width float32, col color.Color) {
	vector.StrokeLine(c.img, x0, y0, x1, y1, width, col, true)
}

func (c *EbitenCanvas) FillCircle(cx, cy, r float32, col color.Color) {
	vector.FillCircle(c.img, cx, cy, r, col, true)
}

func (c *EbitenCanvas) StrokeCircle(cx, cy, r, width float32, col color.Color) {
	vector.StrokeCircle(c.img, cx, cy, r, width, col, true)
}

func (c *EbitenCanvas) DrawImage(img image.Image, x, y, w, h, alpha float32) {
	t := c.texture(img)
	b := t.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(w)/float64(b.Dx()), float64(h)/float64(b.Dy()))
	op.GeoM.Translate(float64(x), float64(y))
	op.ColorScale.ScaleAlpha(alpha)
	op.Filter = ebiten.FilterLinear
	c.img.DrawImage(t, op)
}

func (c *EbitenCanvas) DrawText(s string, x, y float32, st TextStyle) {
	src := c.regular
	if st.Bold {
		src = c.bold
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(x), float64(y))
	if st.Color != nil {
		op.ColorScale.ScaleWithColor(st.Color)
	}
	op.PrimaryAlign = textAlign(st.HAlign)
	op.SecondaryAlign = textAlign(st.VAlign)
	text.Draw(c.img, s, &text.GoTextFace{Source: src, Size: st.Size}, op)
}

func textAlign(a Align) text.Align {
	switch a {
	case AlignCenter:
		return text.AlignCenter
	case AlignEnd:
		return text.AlignEnd
	}
	return text.AlignStart
}

// Dispose frees the canvas and every cached texture.
func (c *EbitenCanvas) Dispose() {
	c.textures.clear()
	c.white.Deallocate()
	c.img.Deallocate()
}
