package scene

import (
	"encoding/binary"
	"math"

	"github.com/google/uuid"
	"github.com/graphick-dev/graphick/geom"
	"github.com/graphick-dev/graphick/path"
)

// Kind names a component type for history targeting and storage lookup
// (spec.md §3.3). It plays the role the original's entt component type
// id plays, but as a plain comparable string so history.Target needs
// no dependency on this package.
type Kind string

const (
	KindID        Kind = "id"
	KindTag       Kind = "tag"
	KindCategory  Kind = "category"
	KindPath      Kind = "path"
	KindTransform Kind = "transform"
	KindFill      Kind = "fill"
	KindStroke    Kind = "stroke"
	KindGroup     Kind = "group"
	KindLayer     Kind = "layer"
	KindArtboard  Kind = "artboard"
)

// Category is a bitmask over the entity classification flags spec.md
// §3.3 names. Selectable gates hit-testing and the renderer skips Hidden
// entities; Locked is not consulted anywhere in this module.
type Category uint32

const (
	CategorySelectable Category = 1 << iota
	CategoryLocked
	CategoryHidden
)

// IDComponent carries the entity's stable identifier. Every live
// entity has exactly one; it is never removed independently of the
// entity itself.
type IDComponent struct {
	ID uuid.UUID
}

// TagComponent is a human-readable label, defaulted by Scene.CreateEntity
// when none is given.
type TagComponent struct {
	Tag string
}

// CategoryComponent classifies an entity for hit-testing and UI
// filtering (spec.md §3.3).
type CategoryComponent struct {
	Mask Category
}

func (c CategoryComponent) Is(cat Category) bool { return c.Mask&cat != 0 }

// PathComponent owns the entity's vector geometry.
type PathComponent struct {
	Path *path.Path
}

// TransformComponent is the entity's local-to-parent affine transform.
type TransformComponent struct {
	Matrix geom.Affine2D
}

// Encode serializes the transform to the fixed 24-byte little-endian
// layout used by history Modify actions (6 float32 affine elements).
func (t TransformComponent) Encode() []byte {
	buf := make([]byte, 24)
	sx, hx, ox, hy, sy, oy := t.Matrix.Elems()
	for i, v := range [...]float32{sx, hx, ox, hy, sy, oy} {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

// DecodeTransform parses a transform previously produced by Encode.
func DecodeTransform(data []byte) (TransformComponent, bool) {
	if len(data) != 24 {
		return TransformComponent{}, false
	}
	var v [6]float32
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return TransformComponent{Matrix: geom.NewAffine2D(v[0], v[1], v[2], v[3], v[4], v[5])}, true
}

// PaintKind is the fill-paint union spec.md §4.5.3 names.
type PaintKind uint8

const (
	PaintSolidColor PaintKind = iota
	PaintLinearGradient
	PaintRadialGradient
	PaintTexture
)

// Paint is the common shape of FillComponent and StrokeComponent's
// color source: a flat color, or a reference to a Gradient resource
// sampled along a direction local to this paint (spec.md §4.5.3).
type Paint struct {
	Kind PaintKind

	// Color is used directly when Kind is PaintSolidColor.
	Color [4]float32 // RGBA, straight alpha

	// Gradient, GradientStart and GradientEnd are used when Kind is
	// PaintLinearGradient or PaintRadialGradient: Gradient names the
	// registered color ramp, while Start/End give the ramp's placement
	// in entity-local space (linear: the two points the ramp runs
	// between; radial: Start is the center and the distance to End is
	// the radius).
	Gradient      uuid.UUID
	GradientStart geom.Vec2
	GradientEnd   geom.Vec2
}

func (p Paint) HasGradient() bool { return p.Kind != PaintSolidColor && p.Gradient != uuid.Nil }

// FillComponent is the entity's fill paint.
type FillComponent struct {
	Paint Paint
}

// Cap and Join mirror the stroke styles spec.md §3.3 names.
type Cap uint8

const (
	CapButt Cap = iota
	CapRound
	CapSquare
)

type Join uint8

const (
	JoinBevel Join = iota
	JoinRound
	JoinMiter
)

// StrokeComponent is the entity's stroke paint and geometry.
type StrokeComponent struct {
	Paint      Paint
	Width      float32
	Cap        Cap
	Join       Join
	MiterLimit float32
}

// GroupComponent lists child entities by id, never by pointer
// (spec.md §9: parent/child references are uuid-based to avoid
// dangling back-pointers and to make cycles detectable at insertion).
type GroupComponent struct {
	Children []uuid.UUID
}

// BlendMode is the layer compositing mode; only Normal is implemented,
// the rest are reserved for a future renderer pass.
type BlendMode uint8

const (
	BlendNormal BlendMode = iota
)

// LayerComponent groups children under opacity/blend-mode controls.
type LayerComponent struct {
	Children  []uuid.UUID
	BlendMode BlendMode
	Opacity   float32
}

// ArtboardComponent marks an entity as a fixed-size canvas root.
type ArtboardComponent struct {
	Color [4]float32
	Size  geom.Vec2
}
