package scene

import "github.com/graphick-dev/graphick/geom"

// Cache is the per-scene spatial invalidation grid the renderer
// consults to skip re-tiling unchanged regions (spec.md §3.7). It
// tracks validity per cell over the current viewport-visible rect; a
// rect invalidation clears every overlapping cell and records the
// invalidated cell rects for the renderer to re-tile.
type Cache struct {
	gridRect     geom.Rect
	subdivisions geom.IVec2
	valid        []bool
	invalidRects []geom.Rect
}

// NewCache returns an empty, ungridded cache.
func NewCache() *Cache { return &Cache{} }

// SetGridRect (re)lays the grid over rect with the given subdivisions,
// resetting every cell to valid.
func (c *Cache) SetGridRect(rect geom.Rect, subdivisions geom.IVec2) {
	c.gridRect = rect
	c.subdivisions = subdivisions
	n := subdivisions.X * subdivisions.Y
	if n < 0 {
		n = 0
	}
	c.valid = make([]bool, n)
	for i := range c.valid {
		c.valid[i] = true
	}
	c.invalidRects = nil
}

// Clear marks every cell invalid, without recording invalidated rects.
func (c *Cache) Clear() {
	for i := range c.valid {
		c.valid[i] = false
	}
}

// InvalidateAll marks every cell invalid and records the whole grid
// rect as a single invalidated region, for callers that need to force
// a full re-tile rather than invalidate one entity's bounds (e.g. the
// editor's IgnoreCache render option).
func (c *Cache) InvalidateAll() {
	c.Clear()
	if c.gridRect != (geom.Rect{}) {
		c.invalidRects = append(c.invalidRects, c.gridRect)
	}
}

// InvalidRects returns the cell rects invalidated since the grid was
// last (re)laid or explicitly drained, for the renderer to re-tile.
func (c *Cache) InvalidRects() []geom.Rect { return c.invalidRects }

// DrainInvalidRects returns and clears the pending invalid-rect list.
func (c *Cache) DrainInvalidRects() []geom.Rect {
	r := c.invalidRects
	c.invalidRects = nil
	return r
}

// InvalidateRect marks every grid cell overlapping rect invalid and
// appends its cell-space rect to the pending invalid list.
func (c *Cache) InvalidateRect(rect geom.Rect) {
	if c.subdivisions.X == 0 || c.subdivisions.Y == 0 {
		return
	}
	size := c.gridRect.Max.Sub(c.gridRect.Min)
	if size.X <= 0 || size.Y <= 0 {
		return
	}
	cellW := size.X / float32(c.subdivisions.X)
	cellH := size.Y / float32(c.subdivisions.Y)

	minX := clampInt(int(floor32((rect.Min.X-c.gridRect.Min.X)/cellW)), 0, c.subdivisions.X)
	minY := clampInt(int(floor32((rect.Min.Y-c.gridRect.Min.Y)/cellH)), 0, c.subdivisions.Y)
	maxX := clampInt(int(ceil32((rect.Max.X-c.gridRect.Min.X)/cellW)), 0, c.subdivisions.X)
	maxY := clampInt(int(ceil32((rect.Max.Y-c.gridRect.Min.Y)/cellH)), 0, c.subdivisions.Y)

	for y := minY; y < maxY; y++ {
		for x := minX; x < maxX; x++ {
			idx := y*c.subdivisions.X + x
			if idx < 0 || idx >= len(c.valid) || !c.valid[idx] {
				continue
			}
			c.valid[idx] = false
			cellMin := c.gridRect.Min.Add(geom.Pt(float32(x)*cellW, float32(y)*cellH))
			cellMax := c.gridRect.Min.Add(geom.Pt(float32(x+1)*cellW, float32(y+1)*cellH))
			c.invalidRects = append(c.invalidRects, geom.Rect{Min: cellMin, Max: cellMax})
		}
	}
}

func floor32(v float32) float32 {
	i := float32(int(v))
	if v < 0 && i != v {
		return i - 1
	}
	return i
}

func ceil32(v float32) float32 {
	i := float32(int(v))
	if v > 0 && i != v {
		return i + 1
	}
	return i
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
