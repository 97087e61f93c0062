package interaction

import "math"

// chaikinSmooth applies one or more iterations of Chaikin corner-cutting to
// a flat (x0,y0,x1,y1,...) open polyline, replacing each edge with two
// points at 1/4 and 3/4 along it. The endpoints are preserved so the
// smoothed polygon still closes the same region the raw gesture traced.
func chaikinSmooth(points []float64, iterations int) []float64 {
	if len(points) < 6 || iterations <= 0 {
		return points
	}
	current := points
	for iter := 0; iter < iterations; iter++ {
		n := len(current) / 2
		next := make([]float64, 0, (n-1)*4+4)
		next = append(next, current[0], current[1])
		for i := 0; i < n-1; i++ {
			x0, y0 := current[2*i], current[2*i+1]
			x1, y1 := current[2*i+2], current[2*i+3]
			next = append(next,
				0.75*x0+0.25*x1, 0.75*y0+0.25*y1,
				0.25*x0+0.75*x1, 0.25*y0+0.75*y1,
			)
		}
		next = append(next, current[len(current)-2], current[len(current)-1])
		current = next
	}
	return current
}

// ramerDouglasPeucker simplifies a flat open polyline, keeping points that
// deviate from the chord between their neighbors by more than epsilon.
func ramerDouglasPeucker(points []float64, epsilon float64) []float64 {
	n := len(points) / 2
	if n < 3 {
		return points
	}
	keep := make([]bool, n)
	keep[0], keep[n-1] = true, true
	rdpRecurse(points, 0, n-1, epsilon, keep)

	out := make([]float64, 0, len(points))
	for i := 0; i < n; i++ {
		if keep[i] {
			out = append(out, points[2*i], points[2*i+1])
		}
	}
	return out
}

func rdpRecurse(points []float64, start, end int, epsilon float64, keep []bool) {
	if end <= start+1 {
		return
	}
	x0, y0 := points[2*start], points[2*start+1]
	x1, y1 := points[2*end], points[2*end+1]

	maxDist := -1.0
	maxIdx := -1
	for i := start + 1; i < end; i++ {
		d := perpendicularDistance(points[2*i], points[2*i+1], x0, y0, x1, y1)
		if d > maxDist {
			maxDist, maxIdx = d, i
		}
	}

	if maxDist > epsilon {
		keep[maxIdx] = true
		rdpRecurse(points, start, maxIdx, epsilon, keep)
		rdpRecurse(points, maxIdx, end, epsilon, keep)
	}
}

func perpendicularDistance(px, py, x0, y0, x1, y1 float64) float64 {
	dx, dy := x1-x0, y1-y0
	lenSq := dx*dx + dy*dy
	if lenSq < 1e-12 {
		ex, ey := px-x0, py-y0
		return math.Sqrt(ex*ex + ey*ey)
	}
	num := math.Abs(dy*px - dx*py + x1*y0 - y1*x0)
	return num / math.Sqrt(lenSq)
}

func polylineBoundsDiagonal(points []float64) float64 {
	n := len(points) / 2
	if n == 0 {
		return 0
	}
	xmin, xmax := points[0], points[0]
	ymin, ymax := points[1], points[1]
	for i := 1; i < n; i++ {
		x, y := points[2*i], points[2*i+1]
		if x < xmin {
			xmin = x
		}
		if x > xmax {
			xmax = x
		}
		if y < ymin {
			ymin = y
		}
		if y > ymax {
			ymax = y
		}
	}
	return math.Hypot(xmax-xmin, ymax-ymin)
}

// defaultBboxRelTolerance is the fraction of the polygon's bounding-box
// diagonal used as the RDP epsilon when simplifyLasso isn't given one
// explicitly.
const defaultBboxRelTolerance = 0.01

// simplifyLasso smooths a raw lasso stroke into a small polygon: Chaikin
// corner-cutting followed by Ramer-Douglas-Peucker, with RDP's tolerance
// scaled to the polygon's own bounding-box diagonal so it behaves
// consistently whether the gesture is tiny or spans the whole canvas. If the
// result still exceeds maxVertices, the tolerance is doubled and RDP
// re-applied (bounded to a handful of rounds — this is a frame-budget
// simplification pass, not an optimal vertex-budget solver).
func simplifyLasso(raw []float64, maxVertices int) []float64 {
	if len(raw)/2 < 3 {
		return raw
	}
	smoothed := chaikinSmooth(raw, 2)
	diag := polylineBoundsDiagonal(smoothed)
	tolerance := diag * defaultBboxRelTolerance
	if tolerance <= 0 {
		return smoothed
	}

	simplified := ramerDouglasPeucker(smoothed, tolerance)
	for round := 0; round < 6 && len(simplified)/2 > maxVertices; round++ {
		tolerance *= 2
		simplified = ramerDouglasPeucker(smoothed, tolerance)
	}
	return simplified
}
