package geom

// Rect contains the points (X, Y) where Min.X <= X <= Max.X and
// Min.Y <= Y <= Max.Y. Unlike image.Rectangle the bounds are inclusive on
// both ends, matching the bounding-rect semantics used for path and
// selection queries throughout the scene.
type Rect struct {
	Min, Max Vec2
}

// RectWH builds a rect from an origin and a size.
func RectWH(x, y, w, h float32) Rect {
	return Rect{Min: Vec2{x, y}, Max: Vec2{x + w, y + h}}
}

// Size returns the rect's width and height.
func (r Rect) Size() Vec2 { return Vec2{r.Dx(), r.Dy()} }

// Dx returns the rect's width.
func (r Rect) Dx() float32 { return r.Max.X - r.Min.X }

// Dy returns the rect's height.
func (r Rect) Dy() float32 { return r.Max.Y - r.Min.Y }

// Center returns the rect's center point.
func (r Rect) Center() Vec2 {
	return Vec2{(r.Min.X + r.Max.X) / 2, (r.Min.Y + r.Max.Y) / 2}
}

// Canon returns the canonical version of r, with Min to the upper left
// of Max.
func (r Rect) Canon() Rect {
	if r.Max.X < r.Min.X {
		r.Min.X, r.Max.X = r.Max.X, r.Min.X
	}
	if r.Max.Y < r.Min.Y {
		r.Min.Y, r.Max.Y = r.Max.Y, r.Min.Y
	}
	return r
}

// Empty reports whether r represents the empty area.
func (r Rect) Empty() bool { return r.Min.X >= r.Max.X || r.Min.Y >= r.Max.Y }

// Add offsets r by the vector p.
func (r Rect) Add(p Vec2) Rect {
	return Rect{r.Min.Add(p), r.Max.Add(p)}
}

// Sub offsets r by -p.
func (r Rect) Sub(p Vec2) Rect {
	return Rect{r.Min.Sub(p), r.Max.Sub(p)}
}

// Inset shrinks r by d on every side (negative d grows it).
func (r Rect) Inset(d float32) Rect {
	return Rect{
		Min: Vec2{r.Min.X + d, r.Min.Y + d},
		Max: Vec2{r.Max.X - d, r.Max.Y - d},
	}
}

// Intersect returns the intersection of r and s. The result may be
// empty (Empty() reports true) if they do not overlap.
func (r Rect) Intersect(s Rect) Rect {
	if r.Min.X < s.Min.X {
		r.Min.X = s.Min.X
	}
	if r.Min.Y < s.Min.Y {
		r.Min.Y = s.Min.Y
	}
	if r.Max.X > s.Max.X {
		r.Max.X = s.Max.X
	}
	if r.Max.Y > s.Max.Y {
		r.Max.Y = s.Max.Y
	}
	return r
}

// Union returns the smallest rect containing both r and s. A rect whose
// Min lies beyond its Max on either axis contains no point and is
// ignored; a zero-width or zero-height rect still counts.
func (r Rect) Union(s Rect) Rect {
	if r.Min.X > r.Max.X || r.Min.Y > r.Max.Y {
		return s
	}
	if s.Min.X > s.Max.X || s.Min.Y > s.Max.Y {
		return r
	}
	if r.Min.X > s.Min.X {
		r.Min.X = s.Min.X
	}
	if r.Min.Y > s.Min.Y {
		r.Min.Y = s.Min.Y
	}
	if r.Max.X < s.Max.X {
		r.Max.X = s.Max.X
	}
	if r.Max.Y < s.Max.Y {
		r.Max.Y = s.Max.Y
	}
	return r
}

// ContainsPoint reports whether p lies within r (inclusive of the
// boundary).
func (r Rect) ContainsPoint(p Vec2) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// Intersects reports whether r and s overlap.
func (r Rect) Intersects(s Rect) bool {
	return r.Min.X <= s.Max.X && s.Min.X <= r.Max.X &&
		r.Min.Y <= s.Max.Y && s.Min.Y <= r.Max.Y
}

// ExpandToPoint grows r, if necessary, to contain p.
func (r Rect) ExpandToPoint(p Vec2) Rect {
	return Rect{Min: r.Min.Min(p), Max: r.Max.Max(p)}
}

// IVec2 is an integer two dimensional vector, used for pixel sizes and
// offsets (viewport size, framebuffer dimensions).
type IVec2 struct {
	X, Y int
}

// IPt is a shorthand constructor for IVec2.
func IPt(x, y int) IVec2 { return IVec2{X: x, Y: y} }
