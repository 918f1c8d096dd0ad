package path

import (
	"math"

	"github.com/graphick-dev/graphick/geom"
)

// FitCubics fits a run of cubic Bezier segments through pts so that no
// sampled point deviates from its segment by more than maxError,
// grounded on the classic curve-fitting algorithm in original_source's
// math/models/path_fitter.cpp: chord-length parameterization, a
// least-squares single-cubic fit per run (the Bernstein-basis 2x2
// system below), and recursive splitting at the point of maximum
// deviation when a run can't be fit within tolerance. The original's
// Newton-Raphson reparameterization pass is omitted — each run is fit
// once from its chord-length parameterization rather than iteratively
// refined, a cheaper approximation adequate for a freehand stroke.
func FitCubics(pts []geom.Vec2, maxError float32) []geom.Cubic {
	pts = dedupeConsecutive(pts)
	if len(pts) < 2 {
		return nil
	}
	if len(pts) == 2 {
		return []geom.Cubic{lineCubic(pts[0], pts[1])}
	}
	tHat1 := tangent(pts[1], pts[0])
	tHat2 := tangent(pts[len(pts)-2], pts[len(pts)-1])
	return fitCubicRun(pts, tHat1, tHat2, maxError)
}

func dedupeConsecutive(pts []geom.Vec2) []geom.Vec2 {
	if len(pts) == 0 {
		return pts
	}
	out := make([]geom.Vec2, 0, len(pts))
	out = append(out, pts[0])
	for _, p := range pts[1:] {
		if p != out[len(out)-1] {
			out = append(out, p)
		}
	}
	return out
}

func lineCubic(a, b geom.Vec2) geom.Cubic {
	return geom.Cubic{P0: a, P1: a.Lerp(b, 1.0/3), P2: a.Lerp(b, 2.0/3), P3: b}
}

// tangent returns the unit vector at from pointing away from to.
func tangent(from, to geom.Vec2) geom.Vec2 {
	d := from.Sub(to)
	if d == (geom.Vec2{}) {
		return geom.Vec2{}
	}
	return d.Normalized()
}

func fitCubicRun(pts []geom.Vec2, tHat1, tHat2 geom.Vec2, maxError float32) []geom.Cubic {
	if len(pts) == 2 {
		return []geom.Cubic{lineCubic(pts[0], pts[1])}
	}
	u := chordLengthParameterize(pts)
	cubic := generateBezier(pts, u, tHat1, tHat2)
	maxErr, splitIndex := computeMaxError(pts, u, cubic)
	if maxErr < maxError || len(pts) <= 3 {
		return []geom.Cubic{cubic}
	}
	if splitIndex <= 0 || splitIndex >= len(pts)-1 {
		splitIndex = len(pts) / 2
	}
	centerTangent := tangent(pts[splitIndex-1], pts[splitIndex+1])
	left := fitCubicRun(pts[:splitIndex+1], tHat1, centerTangent, maxError)
	right := fitCubicRun(pts[splitIndex:], centerTangent.Neg(), tHat2, maxError)
	return append(left, right...)
}

func chordLengthParameterize(pts []geom.Vec2) []float32 {
	u := make([]float32, len(pts))
	for i := 1; i < len(pts); i++ {
		u[i] = u[i-1] + pts[i].Distance(pts[i-1])
	}
	total := u[len(u)-1]
	if total > 0 {
		for i := range u {
			u[i] /= total
		}
	}
	return u
}

func bernstein(n int, t float32) float32 {
	mt := 1 - t
	switch n {
	case 0:
		return mt * mt * mt
	case 1:
		return 3 * mt * mt * t
	case 2:
		return 3 * mt * t * t
	default:
		return t * t * t
	}
}

// generateBezier solves for the two interior control points of a
// single cubic through pts via the least-squares 2x2 system from the
// original algorithm's generate_bezier, falling back to a
// chord-length-fraction control distance when the system is
// ill-conditioned.
func generateBezier(pts []geom.Vec2, u []float32, tHat1, tHat2 geom.Vec2) geom.Cubic {
	first, last := pts[0], pts[len(pts)-1]

	var c00, c01, c11, x0, x1 float32
	for i, t := range u {
		a0 := tHat1.Mul(bernstein(1, t))
		a1 := tHat2.Mul(bernstein(2, t))

		c00 += a0.Dot(a0)
		c01 += a0.Dot(a1)
		c11 += a1.Dot(a1)

		known := first.Mul(bernstein(0, t) + bernstein(1, t)).Add(last.Mul(bernstein(2, t) + bernstein(3, t)))
		shortfall := pts[i].Sub(known)
		x0 += a0.Dot(shortfall)
		x1 += a1.Dot(shortfall)
	}

	detC0C1 := c00*c11 - c01*c01
	detC0X := c00*x1 - c01*x0
	detXC1 := x0*c11 - x1*c01

	segLen := last.Distance(first)
	epsilon := float32(1e-6) * maxf(segLen, 1)

	var alphaL, alphaR float32
	if detC0C1 != 0 {
		alphaL = detXC1 / detC0C1
		alphaR = detC0X / detC0C1
	}

	if detC0C1 == 0 || alphaL < epsilon || alphaR < epsilon {
		dist := segLen / 3
		return geom.Cubic{
			P0: first,
			P1: first.Add(tHat1.Mul(dist)),
			P2: last.Add(tHat2.Mul(dist)),
			P3: last,
		}
	}

	return geom.Cubic{
		P0: first,
		P1: first.Add(tHat1.Mul(alphaL)),
		P2: last.Add(tHat2.Mul(alphaR)),
		P3: last,
	}
}

func computeMaxError(pts []geom.Vec2, u []float32, c geom.Cubic) (float32, int) {
	maxDist := float32(0)
	splitIndex := len(pts) / 2
	for i, t := range u {
		p := cubicPoint(c, t)
		d := p.Sub(pts[i]).LenSquared()
		if d > maxDist {
			maxDist = d
			splitIndex = i
		}
	}
	return float32(math.Sqrt(float64(maxDist))), splitIndex
}

func cubicPoint(c geom.Cubic, t float32) geom.Vec2 {
	mt := 1 - t
	return c.P0.Mul(mt * mt * mt).
		Add(c.P1.Mul(3 * mt * mt * t)).
		Add(c.P2.Mul(3 * mt * t * t)).
		Add(c.P3.Mul(t * t * t))
}
