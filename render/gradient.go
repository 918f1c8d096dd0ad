package render

import (
	"github.com/graphick-dev/graphick/geom"
	"github.com/graphick-dev/graphick/scene"
)

func linearColor(c [4]float32) [4]float32 { return geom.PremultiplyPaintColor(c) }

// RampWidth is the fixed column count of a gradient ramp row, one row
// of the 64x64 gradients texture spec.md §4.5.2 names.
const RampWidth = 64

// BuildRamp samples g's stops into a RampWidth-wide row of
// premultiplied-linear RGBA texels, ready to upload as one row of the
// gradients texture. Gradient stops are typically placed at a handful
// of arbitrary offsets rather than evenly across the ramp, so the
// sampling interpolates directly between the two stops bracketing
// each output column instead of resampling a uniformly spaced source
// image.
func BuildRamp(g scene.Gradient) []float32 {
	out := make([]float32, RampWidth*4)
	if len(g.Stops) == 0 {
		return out
	}
	for x := 0; x < RampWidth; x++ {
		t := float32(x) / float32(RampWidth-1)
		c := sampleStops(g.Stops, t)
		copy(out[x*4:], c[:])
	}
	return out
}

func sampleStops(stops []scene.GradientStop, t float32) [4]float32 {
	first := stops[0]
	if t <= first.Offset {
		return linearColor(first.Color)
	}
	last := stops[len(stops)-1]
	if t >= last.Offset {
		return linearColor(last.Color)
	}
	for i := 1; i < len(stops); i++ {
		b := stops[i]
		if t > b.Offset {
			continue
		}
		a := stops[i-1]
		span := b.Offset - a.Offset
		if span <= 0 {
			return linearColor(b.Color)
		}
		f := (t - a.Offset) / span
		ca, cb := linearColor(a.Color), linearColor(b.Color)
		var c [4]float32
		for k := range c {
			c[k] = ca[k] + (cb[k]-ca[k])*f
		}
		return c
	}
	return linearColor(last.Color)
}
