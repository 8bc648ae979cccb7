package render

import (
	"fmt"
	"image"
	"image/color"
	"strings"
)

// OpKind names a Surface call.
type OpKind string

const (
	OpClear        OpKind = "clear"
	OpTriangles    OpKind = "triangles"
	OpLine         OpKind = "line"
	OpFillCircle   OpKind = "fill_circle"
	OpStrokeCircle OpKind = "stroke_circle"
	OpImage        OpKind = "image"
	OpText         OpKind = "text"
)

// Op is one recorded Surface call.
type Op struct {
	Kind     OpKind
	Image    image.Image // textured triangles and DrawImage
	Vertices []Vertex
	Indices  []uint16
	Coords   []float32 // positional arguments in call order
	Color    color.RGBA
	Text     string
	Style    TextStyle
}

// String formats the op as a single log line.
//
//	triangles  tex=true  verts=14 tris=12
func (o Op) String() string {
	switch o.Kind {
	case OpTriangles:
		return fmt.Sprintf("%-14s tex=%-5t verts=%d tris=%d", o.Kind, o.Image != nil, len(o.Vertices), len(o.Indices)/3)
	case OpText:
		return fmt.Sprintf("%-14s %q bold=%t", o.Kind, o.Text, o.Style.Bold)
	}
	return fmt.Sprintf("%-14s %v rgba=%v", o.Kind, o.Coords, o.Color)
}

// Recorder is a Surface that records calls instead of drawing them. It backs
// headless runs and tests.
type Recorder struct {
	W, H int
	ops  []Op
}

// NewRecorder creates a recorder of the given size.
func NewRecorder(w, h int) *Recorder {
	return &Recorder{W: w, H: h}
}

func (r *Recorder) Size() (int, int) { return r.W, r.H }

// Resize changes the reported size.
func (r *Recorder) Resize(w, h int) { r.W, r.H = w, h }

func (r *Recorder) Clear(c color.Color) {
	r.ops = append(r.ops, Op{Kind: OpClear, Color: rgba(c)})
}

func (r *Recorder) FillTriangles(vs []Vertex, idx []uint16, tex image.Image) {
	r.ops = append(r.ops, Op{
		Kind:     OpTriangles,
		Image:    tex,
		Vertices: append([]Vertex(nil), vs...),
		Indices:  append([]uint16(nil), idx...),
	})
}

func (r *Recorder) StrokeLine(x0, y0, x1, y1, width float32, c color.Color) {
	r.ops = append(r.ops, Op{Kind: OpLine, Coords: []float32{x0, y0, x1, y1, width}, Color: rgba(c)})
}

func (r *Recorder) FillCircle(cx, cy, rad float32, c color.Color) {
	r.ops = append(r.ops, Op{Kind: OpFillCircle, Coords: []float32{cx, cy, rad}, Color: rgba(c)})
}

func (r *Recorder) StrokeCircle(cx, cy, rad, width float32, c color.Color) {
	r.ops = append(r.ops, Op{Kind: OpStrokeCircle, Coords: []float32{cx, cy, rad, width}, Color: rgba(c)})
}

func (r *Recorder) DrawImage(img image.Image, x, y, w, h, alpha float32) {
	r.ops = append(r.ops, Op{Kind: OpImage, Image: img, Coords: []float32{x, y, w, h, alpha}})
}

func (r *Recorder) DrawText(s string, x, y float32, style TextStyle) {
	r.ops = append(r.ops, Op{Kind: OpText, Text: s, Coords: []float32{x, y}, Style: style, Color: rgba(style.Color)})
}

// Ops returns every recorded op.
func (r *Recorder) Ops() []Op { return r.ops }

// Filter returns the ops of one kind.
func (r *Recorder) Filter(kind OpKind) []Op {
	var out []Op
	for _, o := range r.ops {
		if o.Kind == kind {
			out = append(out, o)
		}
	}
	return out
}

// Count is len(Filter(kind)).
func (r *Recorder) Count(kind OpKind) int {
	n := 0
	for _, o := range r.ops {
		if o.Kind == kind {
			n++
		}
	}
	return n
}

// Reset drops all recorded ops.
func (r *Recorder) Reset() { r.ops = r.ops[:0] }

// Dump formats all ops, one per line.
func (r *Recorder) Dump() string {
	var sb strings.Builder
	for i, o := range r.ops {
		fmt.Fprintf(&sb, "%04d %s\n", i, o)
	}
	return sb.String()
}

func rgba(c color.Color) color.RGBA {
	if c == nil {
		return color.RGBA{}
	}
	r, g, b, a := c.RGBA()
	return color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(a >> 8)}
}
