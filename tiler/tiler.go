// Package tiler implements the CPU scanline tiler the renderer's
// pipeline feeds its stroke-offset, quadraticized paths through
// (spec.md §4.5.1 step 2c, §4.5.2): a uniform grid over the path's
// bounds is classified, per cell, as entirely filled, entirely empty,
// or straddling a curve.
package tiler

import (
	"sort"

	"github.com/graphick-dev/graphick/geom"
	"github.com/graphick-dev/graphick/path"
)

// FillRule selects how accumulated winding is interpreted as "inside".
type FillRule uint8

const (
	NonZero FillRule = iota
	EvenOdd
)

func (r FillRule) inside(winding int) bool {
	if r == EvenOdd {
		return winding%2 != 0
	}
	return winding != 0
}

// BaseCell and toleranceConstant feed the LOD formula in spec.md
// §4.5.2: `LOD = clamp(round(-log2(13 / (base_cell * zoom))), 0, 24)`,
// capped in practice at 8 (a 512/2^8 = 2px cell is already far below
// any useful screen resolution).
const (
	BaseCell          = 512
	toleranceConstant = 13
	maxLOD            = 8
)

// LOD returns the level of detail for the given zoom, per spec.md
// §4.5.2.
func LOD(zoom float32) int {
	lod := int(roundf(-log2(toleranceConstant / (BaseCell * zoom))))
	if lod < 0 {
		lod = 0
	}
	if lod > maxLOD {
		lod = maxLOD
	}
	return lod
}

// CellSize returns the grid cell size for the given LOD.
func CellSize(lod int) float32 {
	return BaseCell / pow2(lod)
}

// FilledSpan is one instance of the filled-span GPU program: a cell
// entirely inside the fill, with no curve passing through it.
type FilledSpan struct {
	Cell geom.IVec2
	Rect geom.Rect
}

// BoundarySpan is one instance of the boundary-span GPU program: a
// cell straddling one or more curves, needing a per-pixel coverage
// test against them (spec.md §4.5.3's curves_data/bands_data).
type BoundarySpan struct {
	Cell         geom.IVec2
	Rect         geom.Rect
	CurveIndices []int
}

// Result is the pair of instance streams spec.md §4.5.1 step 2c
// produces for a single drawable.
type Result struct {
	Filled   []FilledSpan
	Boundary []BoundarySpan
}

type crossing struct {
	x    float32
	sign int
}

// Tile rasterizes qp into filled and boundary spans over a grid sized
// for zoom, padded by one cell around bounds per spec.md §4.5.2. qp's
// segments must already be monotonic in both axes, which is guaranteed
// when they come from Path.ToQuadratics (the pipeline's step 2a runs
// before tiling, so by the time Tile sees a path every piece is the
// monotonic curve spec.md's tiler algorithm assumes, even though the
// algorithm was originally stated in terms of monotonic cubics).
func Tile(qp path.QuadraticPath, bounds geom.Rect, zoom float32, rule FillRule) Result {
	if qp.Segments == nil || bounds.Empty() {
		return Result{}
	}
	cell := CellSize(LOD(zoom))

	gridMinX := floorTo(bounds.Min.X, cell) - cell
	gridMinY := floorTo(bounds.Min.Y, cell) - cell
	gridMaxX := ceilTo(bounds.Max.X, cell) + cell
	gridMaxY := ceilTo(bounds.Max.Y, cell) + cell

	cols := int((gridMaxX-gridMinX)/cell + 0.5)
	rows := int((gridMaxY-gridMinY)/cell + 0.5)
	if cols <= 0 || rows <= 0 {
		return Result{}
	}

	hasCurve := make([][]bool, rows)
	curveIdx := make([][][]int, rows)
	for r := range hasCurve {
		hasCurve[r] = make([]bool, cols)
		curveIdx[r] = make([][]int, cols)
	}
	rowCrossings := make([][]crossing, rows)

	colAt := func(x float32) int { return clampInt(int((x-gridMinX)/cell), 0, cols-1) }
	rowAt := func(y float32) int { return clampInt(int((y-gridMinY)/cell), 0, rows-1) }

	markCells := func(segIdx int, r geom.Rect) {
		c0, c1 := colAt(r.Min.X), colAt(r.Max.X)
		r0, r1 := rowAt(r.Min.Y), rowAt(r.Max.Y)
		for rr := r0; rr <= r1; rr++ {
			for cc := c0; cc <= c1; cc++ {
				hasCurve[rr][cc] = true
				if idx := curveIdx[rr][cc]; len(idx) > 0 && idx[len(idx)-1] == segIdx {
					continue
				}
				curveIdx[rr][cc] = append(curveIdx[rr][cc], segIdx)
			}
		}
	}

	for i, seg := range qp.Segments {
		q := seg.Quad()
		// Mark only the cells the curve passes through, stepping at most
		// an eighth of a cell of arc length at a time.
		steps := intCeil(float64((q.P1.Distance(q.P0) + q.P2.Distance(q.P1)) * 8 / cell))
		if steps < 1 {
			steps = 1
		}
		prev := q.P0
		for s := 1; s <= steps; s++ {
			cur := q.Eval(float32(s) / float32(steps))
			markCells(i, geom.Rect{Min: prev.Min(cur), Max: prev.Max(cur)})
			prev = cur
		}

		yMin, yMax := q.P0.Y, q.P2.Y
		downward := true
		if yMin > yMax {
			yMin, yMax = yMax, yMin
			downward = false
		}
		if yMax-yMin < geom.Epsilon {
			continue
		}
		rowLo := rowAt(yMin)
		rowHi := rowAt(yMax)
		for rr := rowLo; rr <= rowHi+1 && rr <= rows; rr++ {
			yLevel := gridMinY + float32(rr)*cell
			if yLevel < yMin || yLevel >= yMax {
				continue
			}
			t, ok := solveQuadForY(q, yLevel)
			if !ok {
				continue
			}
			x := q.Eval(t).X
			sign := 1
			if !downward {
				sign = -1
			}
			// Each row keeps the crossings of the grid line along its top
			// edge, so its winding is the winding at that edge.
			if rr < rows {
				rowCrossings[rr] = append(rowCrossings[rr], crossing{x: x, sign: sign})
			}
		}
	}

	var res Result
	for r := 0; r < rows; r++ {
		crossings := rowCrossings[r]
		sort.Slice(crossings, func(i, j int) bool { return crossings[i].x < crossings[j].x })

		winding := 0
		ci := 0
		for c := 0; c < cols; c++ {
			left := gridMinX + float32(c)*cell
			for ci < len(crossings) && crossings[ci].x <= left {
				winding += crossings[ci].sign
				ci++
			}
			cellRect := geom.Rect{
				Min: geom.Pt(gridMinX+float32(c)*cell, gridMinY+float32(r)*cell),
				Max: geom.Pt(gridMinX+float32(c+1)*cell, gridMinY+float32(r+1)*cell),
			}
			if hasCurve[r][c] {
				res.Boundary = append(res.Boundary, BoundarySpan{
					Cell:         geom.IPt(c, r),
					Rect:         cellRect,
					CurveIndices: curveIdx[r][c],
				})
				continue
			}
			if rule.inside(winding) {
				res.Filled = append(res.Filled, FilledSpan{Cell: geom.IPt(c, r), Rect: cellRect})
			}
		}
	}
	return res
}

// solveQuadForY finds t in [0,1] such that the quadratic's y component
// equals yLevel, per the Bezier expansion B(t) = P0 + t(2P1-2P0) +
// t^2(P0-2P1+P2).
func solveQuadForY(q geom.Quadratic, yLevel float32) (float32, bool) {
	a := q.P0.Y - 2*q.P1.Y + q.P2.Y
	b := 2 * (q.P1.Y - q.P0.Y)
	c := q.P0.Y - yLevel
	var roots [2]float32
	n := geom.SolveQuadratic(a, b, c, &roots)
	for i := 0; i < n; i++ {
		if roots[i] >= -1e-4 && roots[i] <= 1+1e-4 {
			t := roots[i]
			if t < 0 {
				t = 0
			}
			if t > 1 {
				t = 1
			}
			return t, true
		}
	}
	return 0, false
}

func floorTo(v, step float32) float32 { return float32(intFloor(float64(v/step))) * step }
func ceilTo(v, step float32) float32  { return float32(intCeil(float64(v/step))) * step }

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
