package geom

import (
	"image/color"
	"math"
)

// RGBA is a 32 bit floating point linear premultiplied color, the
// space the renderer blends in (spec.md §3.8's curves/gradients
// textures are sampled and composited in this space before the final
// sRGB framebuffer write).
type RGBA struct {
	R, G, B, A float32
}

// Array returns r, g, b, a as a packed array, the shape instance
// packing expects.
func (c RGBA) Array() [4]float32 { return [4]float32{c.R, c.G, c.B, c.A} }

// SRGB converts c back to 8 bit non-premultiplied sRGB, for readback
// or host-side color pickers.
func (c RGBA) SRGB() color.NRGBA {
	if c.A == 0 {
		return color.NRGBA{}
	}
	return color.NRGBA{
		R: uint8(linearToSRGB(c.R/c.A)*255 + .5),
		G: uint8(linearToSRGB(c.G/c.A)*255 + .5),
		B: uint8(linearToSRGB(c.B/c.A)*255 + .5),
		A: uint8(c.A*255 + .5),
	}
}

// Luminance is the relative luminance of a linear color, normalized
// to 0 for black and 1 for white.
//
// See https://www.w3.org/TR/WCAG20/#relativeluminancedef
func (c RGBA) Luminance() float32 {
	return 0.2126*c.R + 0.7152*c.G + 0.0722*c.B
}

// LinearFromSRGB converts an 8 bit non-premultiplied sRGB color to
// premultiplied linear RGBA.
func LinearFromSRGB(c color.NRGBA) RGBA {
	a := float32(c.A) / 0xFF
	return RGBA{
		R: sRGBToLinear(float32(c.R)/0xFF) * a,
		G: sRGBToLinear(float32(c.G)/0xFF) * a,
		B: sRGBToLinear(float32(c.B)/0xFF) * a,
		A: a,
	}
}

// PremultiplyPaintColor converts a scene.Paint color (straight-alpha
// sRGB, 0..1 per channel) to the premultiplied linear form the
// renderer packs into GPU instances.
func PremultiplyPaintColor(c [4]float32) [4]float32 {
	nrgba := color.NRGBA{
		R: clampByte(c[0]),
		G: clampByte(c[1]),
		B: clampByte(c[2]),
		A: clampByte(c[3]),
	}
	return LinearFromSRGB(nrgba).Array()
}

func clampByte(v float32) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 0xFF
	default:
		return uint8(v*255 + .5)
	}
}

// linearToSRGB transforms a color value from linear to sRGB space.
func linearToSRGB(c float32) float32 {
	switch {
	case c <= 0:
		return 0
	case c < 0.0031308:
		return 12.92 * c
	case c < 1:
		return 1.055*float32(math.Pow(float64(c), 0.41666)) - 0.055
	default:
		return 1
	}
}

// sRGBToLinear transforms a color value from sRGB to linear space.
func sRGBToLinear(c float32) float32 {
	if c <= 0.04045 {
		return c / 12.92
	}
	return float32(math.Pow(float64((c+0.055)/1.055), 2.4))
}
