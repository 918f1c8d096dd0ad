package scene

import (
	"math"

	"github.com/graphick-dev/graphick/geom"
)

// Zoom bounds shared by every scene (spec.md §3.5).
const (
	ZoomMin = 0.01
	ZoomMax = 256.0
)

// Viewport maps between client (screen) and scene (world) coordinates,
// and clamps pan/zoom against an optional content bounds (spec.md §3.5).
type Viewport struct {
	position geom.Vec2
	zoom     float32
	rotation float32

	size   geom.IVec2
	offset geom.IVec2
	dpr    float32

	bounds      geom.Rect
	hasBounds   bool
	minZoom     float32
}

// NewViewport returns a Viewport at the origin, unit zoom, no rotation.
func NewViewport() Viewport {
	return Viewport{zoom: 1}
}

func (v *Viewport) Position() geom.Vec2 { return v.position }
func (v *Viewport) Zoom() float32       { return v.zoom }
func (v *Viewport) Rotation() float32   { return v.rotation }
func (v *Viewport) Size() geom.IVec2    { return v.size }
func (v *Viewport) Offset() geom.IVec2  { return v.offset }
func (v *Viewport) DPR() float32        { return v.dpr }

// Resize updates the viewport's client-space extent.
func (v *Viewport) Resize(size, offset geom.IVec2, dpr float32) {
	v.size = size
	v.offset = offset
	v.dpr = dpr
}

// Move pans the viewport by a scene-space delta.
func (v *Viewport) Move(delta geom.Vec2) { v.MoveTo(v.position.Add(delta)) }

// MoveTo pans the viewport to an absolute scene-space position,
// clamped against content bounds when set.
func (v *Viewport) MoveTo(position geom.Vec2) {
	if !v.hasBounds {
		v.position = position
		return
	}
	sizeF := geom.Pt(float32(v.size.X), float32(v.size.Y))
	minPos := sizeF.Sub(v.bounds.Max.Mul(v.zoom)).Div(v.zoom)
	maxPos := v.bounds.Min

	if v.bounds.Max.X*v.zoom < sizeF.X {
		maxPos.X = -(v.bounds.Max.X*v.zoom - sizeF.X) / (2 * v.zoom)
	}
	if v.bounds.Max.Y*v.zoom < sizeF.Y {
		maxPos.Y = -(v.bounds.Max.Y*v.zoom - sizeF.Y) / (2 * v.zoom)
	}

	v.position = position.Max(minPos).Min(maxPos)
}

// ZoomTo sets the zoom level, clamped to [max(ZoomMin, minZoom), ZoomMax]
// and rounded to 4 decimal places (spec.md §3.5).
func (v *Viewport) ZoomTo(zoom float32) {
	v.zoom = roundZoom(geom.Clamp(zoom, maxf32(v.minZoom, ZoomMin), ZoomMax))
}

// ZoomToward sets the zoom level while keeping origin fixed in client
// space, panning to compensate (spec.md §8 property 6 / scenario S4).
func (v *Viewport) ZoomToward(zoom float32, origin geom.Vec2) {
	newZoom := roundZoom(geom.Clamp(zoom, maxf32(v.minZoom, ZoomMin), ZoomMax))
	before := v.clientToSceneAt(origin, newZoom)
	after := v.ClientToScene(origin)
	delta := before.Sub(after)

	v.zoom = newZoom
	v.Move(delta)
}

// SetBounds constrains panning/zooming to keep bounds visible, per
// spec.md §3.5's min_zoom derivation (fit the longer axis).
func (v *Viewport) SetBounds(bounds geom.Rect) {
	v.bounds = bounds
	v.hasBounds = true

	size := bounds.Max.Sub(bounds.Min)
	if size.X > size.Y && size.X > 0 {
		v.minZoom = float32(v.size.X) / size.X
	} else if size.Y > 0 {
		v.minZoom = float32(v.size.Y) / size.Y
	}
}

// Visible returns the scene-space rect currently on screen.
func (v *Viewport) Visible() geom.Rect {
	min := v.ClientToScene(geom.Pt(0, 0))
	max := v.ClientToScene(geom.Pt(float32(v.size.X), float32(v.size.Y)))
	return geom.Rect{Min: min, Max: max}.Canon()
}

// IsVisible reports whether r overlaps the visible scene rect.
func (v *Viewport) IsVisible(r geom.Rect) bool { return v.Visible().Intersects(r) }

// ClientToScene converts a client-space (screen pixel) point to scene space.
func (v *Viewport) ClientToScene(p geom.Vec2) geom.Vec2 {
	return v.clientToSceneAt(p, v.zoom)
}

func (v *Viewport) clientToSceneAt(p geom.Vec2, zoom float32) geom.Vec2 {
	offset := geom.Pt(float32(v.offset.X), float32(v.offset.Y))
	return p.Sub(offset).Div(zoom).Sub(v.position)
}

// SceneToClient converts a scene-space point to client space.
func (v *Viewport) SceneToClient(p geom.Vec2) geom.Vec2 {
	offset := geom.Pt(float32(v.offset.X), float32(v.offset.Y))
	return p.Add(v.position).Mul(v.zoom).Add(offset)
}

func roundZoom(z float32) float32 {
	return float32(math.Round(float64(z)*10000) / 10000)
}

func maxf32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
