package render

import (
	"encoding/binary"
	"math"

	"github.com/graphick-dev/graphick/geom"
)

// Instance byte layouts, packed tightly per spec.md §4.5.3's "22 B -
// 52 B per instance" budget.

// filledSpanInstance is 32 bytes: rect (16B) + color (16B). color is
// converted from the paint's straight-alpha sRGB to premultiplied
// linear before packing, matching the space the shaders blend in.
func packFilledSpanInstance(rect geom.Rect, color [4]float32) []byte {
	b := make([]byte, 32)
	putF32(b[0:], rect.Min.X)
	putF32(b[4:], rect.Min.Y)
	putF32(b[8:], rect.Max.X)
	putF32(b[12:], rect.Max.Y)
	for i, c := range geom.PremultiplyPaintColor(color) {
		putF32(b[16+4*i:], c)
	}
	return b
}

// boundarySpanInstance is 40 bytes: rect (16B) + color (16B) +
// curves_data (4B: offset|count packed) + bands_data (4B: range pair).
func packBoundarySpanInstance(rect geom.Rect, color [4]float32, curvesOffset, curvesCount int) []byte {
	b := make([]byte, 40)
	putF32(b[0:], rect.Min.X)
	putF32(b[4:], rect.Min.Y)
	putF32(b[8:], rect.Max.X)
	putF32(b[12:], rect.Max.Y)
	for i, c := range geom.PremultiplyPaintColor(color) {
		putF32(b[16+4*i:], c)
	}
	binary.LittleEndian.PutUint32(b[32:], packOffsetCount(curvesOffset, curvesCount))
	binary.LittleEndian.PutUint32(b[36:], 0)
	return b
}

// packOffsetCount fits a 24-bit offset and 8-bit count into one u32,
// matching curves_data's "offset into the curves texture + count"
// shape from spec.md §4.5.2.
func packOffsetCount(offset, count int) uint32 {
	return uint32(offset&0xFFFFFF) | uint32(count&0xFF)<<24
}

func putF32(b []byte, v float32) {
	binary.LittleEndian.PutUint32(b, math.Float32bits(v))
}

// packFloats little-endian-encodes a float32 slice for a texture
// upload, the wire shape every RGBA32F texture in this package moves
// across the gpu.Texture.Upload boundary.
func packFloats(v []float32) []byte {
	b := make([]byte, len(v)*4)
	for i, f := range v {
		putF32(b[i*4:], f)
	}
	return b
}

// CurveTexelsPerQuad is how many RGBA32F texels one quadratic curve
// occupies in the global curves texture (spec.md §4.5.3): two texels
// hold P0, P1, P2 (6 floats) plus 2 floats of padding.
const CurveTexelsPerQuad = 2

// PackCurves flattens a list of quadratic curves into the RGBA32F
// texel payload the curves texture is uploaded from.
func PackCurves(curves []geom.Quadratic) []float32 {
	out := make([]float32, 0, len(curves)*CurveTexelsPerQuad*4)
	for _, q := range curves {
		out = append(out, q.P0.X, q.P0.Y, q.P1.X, q.P1.Y, q.P2.X, q.P2.Y, 0, 0)
	}
	return out
}
