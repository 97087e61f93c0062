package geom

import "math"

const (
	// PoincareMinDisplayZoom and PoincareMaxDisplayZoom bound displayZoom.
	PoincareMinDisplayZoom = 0.5
	PoincareMaxDisplayZoom = 10.0

	poincareZoomStep   = 1.1
	poincareRadiusFrac = 0.45

	// mobiusDenomEpsilon and the clamp radius below implement the
	// degenerate-math handling: rather than propagate NaN/Inf, clamp
	// radially to just inside the disk boundary.
	mobiusDenomEpsilon = 1e-12
	mobiusClampRadius  = 0.999

	// panSolveDetEpsilon guards the 2x2 Cramer's-rule solve in PanPoincare.
	panSolveDetEpsilon = 1e-10
	panClampRadius     = 0.99

	// zoomReanchorPixelTol is the "moved more than 0.5 pixel" threshold for
	// re-anchoring after a zoom.
	zoomReanchorPixelTol = 0.5

	// hyperbolicDistanceRatioClamp avoids atanh(1) = +Inf.
	hyperbolicDistanceRatioClamp = 1 - 1e-10
)

// PoincareView is the Poincaré-disk view state: the Möbius translation
// parameter a (with ax²+ay² < 1) and a display zoom. Immutable value type.
type PoincareView struct {
	Ax, Ay      float64
	DisplayZoom float64
}

// NewPoincareView returns the default view: a=0 (no translation), unit
// display zoom.
func NewPoincareView() PoincareView {
	return PoincareView{DisplayZoom: 1.0}
}

// ClampPoincareDisplayZoom clamps a display zoom value to the valid range.
func ClampPoincareDisplayZoom(zoom float64) float64 {
	if zoom < PoincareMinDisplayZoom {
		return PoincareMinDisplayZoom
	}
	if zoom > PoincareMaxDisplayZoom {
		return PoincareMaxDisplayZoom
	}
	return zoom
}

// clampToDisk radially clamps a point to radius r if it lies at or beyond
// unit distance from the origin.
func clampToDisk(p Point, r float64) Point {
	mag := math.Hypot(p.X, p.Y)
	if mag < 1 {
		return p
	}
	return p.Scale(r / mag)
}

// mobius evaluates the disk automorphism T_a(z) = (z-a)/(1-ā·z), which maps
// a to the origin. On a near-zero denominator or an out-of-disk result, the
// output is clamped radially to mobiusClampRadius rather than returning
// NaN/Inf.
func mobius(a, z Point) Point {
	numX := z.X - a.X
	numY := z.Y - a.Y

	// 1 - ā·z, with ā the complex conjugate of a: Re = 1 - (ax·zx + ay·zy),
	// Im = -(ax·zy - ay·zx).
	denomRe := 1 - (a.X*z.X + a.Y*z.Y)
	denomIm := -(a.X*z.Y - a.Y*z.X)
	denomMagSq := denomRe*denomRe + denomIm*denomIm

	if denomMagSq < mobiusDenomEpsilon*mobiusDenomEpsilon {
		return clampToDisk(Point{numX, numY}, mobiusClampRadius)
	}

	// Complex division (numX + i·numY) / (denomRe + i·denomIm).
	resX := (numX*denomRe + numY*denomIm) / denomMagSq
	resY := (numY*denomRe - numX*denomIm) / denomMagSq
	result := Point{resX, resY}

	if math.Hypot(resX, resY) >= 1 {
		return clampToDisk(result, mobiusClampRadius)
	}
	return result
}

// inverseMobius evaluates T_a⁻¹(w) = (w+a)/(1+ā·w), the inverse of mobius,
// with the same symmetric clamping.
func inverseMobius(a, w Point) Point {
	numX := w.X + a.X
	numY := w.Y + a.Y

	denomRe := 1 + (a.X*w.X + a.Y*w.Y)
	denomIm := a.X*w.Y - a.Y*w.X // Im(1 + ā·w) = Im(ā·w) = ax·wy - ay·wx
	denomMagSq := denomRe*denomRe + denomIm*denomIm

	if denomMagSq < mobiusDenomEpsilon*mobiusDenomEpsilon {
		return clampToDisk(Point{numX, numY}, mobiusClampRadius)
	}

	resX := (numX*denomRe + numY*denomIm) / denomMagSq
	resY := (numY*denomRe - numX*denomIm) / denomMagSq
	result := Point{resX, resY}

	if math.Hypot(resX, resY) >= 1 {
		return clampToDisk(result, mobiusClampRadius)
	}
	return result
}

// poincareRadius returns the on-screen pixel radius of the disk.
func poincareRadius(width, height int, displayZoom float64) float64 {
	return math.Min(float64(width), float64(height)) * poincareRadiusFrac * displayZoom
}

// ProjectPoincare maps a data-space point (inside the open unit disk) to
// screen pixels.
func ProjectPoincare(view PoincareView, width, height int, x, y float64) (sx, sy float64) {
	a := Point{view.Ax, view.Ay}
	w := mobius(a, Point{x, y})
	r := poincareRadius(width, height, view.DisplayZoom)
	sx = float64(width)/2 + w.X*r
	sy = float64(height)/2 - w.Y*r
	return sx, sy
}

// UnprojectPoincare maps a screen-pixel point back to data space. If the
// screen point falls outside the disk, it is clamped radially to 0.999
// before applying the inverse Möbius transform.
func UnprojectPoincare(view PoincareView, width, height int, sx, sy float64) (x, y float64) {
	r := poincareRadius(width, height, view.DisplayZoom)
	w := Point{
		X: (sx - float64(width)/2) / r,
		Y: -(sy - float64(height)/2) / r,
	}
	w = clampToDisk(w, mobiusClampRadius)
	a := Point{view.Ax, view.Ay}
	p := inverseMobius(a, w)
	return p.X, p.Y
}

// screenToDisk converts a screen point to disk coordinates (the w in
// T_a(z)=w), clamped to radius 0.95 to keep the pan solver well-conditioned.
func screenToDisk(width, height int, displayZoom, sx, sy float64) Point {
	r := poincareRadius(width, height, displayZoom)
	d := Point{
		X: (sx - float64(width)/2) / r,
		Y: -(sy - float64(height)/2) / r,
	}
	if m := math.Hypot(d.X, d.Y); m > 0.95 {
		d = d.Scale(0.95 / m)
	}
	return d
}

// PanPoincare computes the new view such that the data point which
// projected to (startSX, startSY) under the old view projects to
// (endSX, endSY) under the new one (anchor invariance).
//
// Solves the 2x2 linear system for a' via Cramer's rule; on a near-zero
// determinant (anchor point is numerically indistinguishable from the
// disk's "point at infinity" under the transform) it falls back to
// a'=-d2, and the result is always clamped to stay inside the open disk.
func PanPoincare(view PoincareView, width, height int, startSX, startSY, endSX, endSY float64) PoincareView {
	d1 := screenToDisk(width, height, view.DisplayZoom, startSX, startSY)
	d2 := screenToDisk(width, height, view.DisplayZoom, endSX, endSY)

	a := Point{view.Ax, view.Ay}
	p := inverseMobius(a, d1) // the data point currently under the cursor

	// Solve for a' such that T_{a'}(p) = d2, i.e. (p-a')/(1-ā'·p) = d2.
	// => p - a' = d2 - d2·(ā'·p)
	// => a'·(1 - A - iB ... ) — expand in real components:
	A := d2.X*p.X - d2.Y*p.Y
	B := d2.X*p.Y + d2.Y*p.X
	det := A*A + B*B - 1

	var newA Point
	if math.Abs(det) < panSolveDetEpsilon {
		newA = Point{-d2.X, -d2.Y}
	} else {
		rhsX := p.X - d2.X
		rhsY := d2.Y - p.Y
		// Cramer's rule for [[1-A, -B],[-B, 1+A]] * a' = [rhsX, rhsY] (the
		// real 2x2 form of the complex equation a'-ā'(d2·p) = p-d2).
		newA = Point{
			X: (-rhsX*(1+A) + B*rhsY) / det,
			Y: ((1-A)*rhsY - B*rhsX) / det,
		}
	}

	newA = clampToDisk(newA, panClampRadius)
	return PoincareView{Ax: newA.X, Ay: newA.Y, DisplayZoom: view.DisplayZoom}
}

// ZoomPoincare applies a wheel-notch zoom delta anchored at the given screen
// position. If changing displayZoom alone moves the anchor's projection by
// more than half a pixel, PanPoincare is invoked to bring it back under the
// cursor.
func ZoomPoincare(view PoincareView, width, height int, anchorSX, anchorSY, delta float64) PoincareView {
	newZoom := ClampPoincareDisplayZoom(view.DisplayZoom * math.Pow(poincareZoomStep, delta))

	anchorDataX, anchorDataY := UnprojectPoincare(view, width, height, anchorSX, anchorSY)

	zoomedView := PoincareView{Ax: view.Ax, Ay: view.Ay, DisplayZoom: newZoom}
	movedSX, movedSY := ProjectPoincare(zoomedView, width, height, anchorDataX, anchorDataY)

	if math.Hypot(movedSX-anchorSX, movedSY-anchorSY) <= zoomReanchorPixelTol {
		return zoomedView
	}
	return PanPoincare(zoomedView, width, height, movedSX, movedSY, anchorSX, anchorSY)
}

// HyperbolicDistance returns the Poincaré-metric distance between two
// data-space points, used by the accuracy harness and tests. Not on any
// rendering hot path.
func HyperbolicDistance(p, q Point) float64 {
	num := Dist(p, q)
	conj := Point{X: p.X, Y: -p.Y}
	denom := math.Hypot(1-(conj.X*q.X-conj.Y*q.Y), conj.X*q.Y+conj.Y*q.X)
	ratio := num / denom
	if ratio > hyperbolicDistanceRatioClamp {
		ratio = hyperbolicDistanceRatioClamp
	}
	return 2 * math.Atanh(ratio)
}

// ConservativeDataRadius bounds, for a point z under view `view`, the
// data-space radius whose image under projection covers a screen disk of
// radius rScreen centered at z's projection. Used to size the spatial-index
// AABB query in hit-testing: the exact Möbius derivative varies per-point,
// so a uniform per-query conservative bound is computed by iterating a
// fixed-point relation.
func ConservativeDataRadius(view PoincareView, width, height int, z Point, rScreen float64) float64 {
	a := Point{view.Ax, view.Ay}
	r := poincareRadius(width, height, view.DisplayZoom)

	conjA := Point{a.X, -a.Y}
	d0x := 1 - (conjA.X*z.X - conjA.Y*z.Y)
	d0y := conjA.X*z.Y + conjA.Y*z.X
	d0 := math.Hypot(d0x, d0y)

	aMag := math.Hypot(a.X, a.Y)
	oneMinusAMagSq := 1 - aMag*aMag
	if oneMinusAMagSq <= 0 {
		oneMinusAMagSq = 1e-9
	}

	radius := rScreen / r // seed in the normalized disk-radius units
	for i := 0; i < 5; i++ {
		numer := d0 + aMag*radius
		radius = rScreen * (numer * numer) / (r * oneMinusAMagSq)
	}

	radius *= 1.001
	if radius > 1.999 {
		radius = 1.999
	}
	return radius
}
