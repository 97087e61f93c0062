// Package polygon implements the ray-casting point-in-polygon test used by
// lasso selection, with on-boundary-counts-as-inside as the tie-break.
package polygon

import "math"

// boundaryTolerance is the segment-distance tolerance below which a point is
// treated as lying on an edge.
const boundaryTolerance = 1e-9

// Contains reports whether point (px,py) lies inside or on the boundary of
// the polygon described by the flat coordinate slice verts
// ([x0,y0,x1,y1,...]). A polygon with fewer than 3 vertices contains
// nothing.
func Contains(verts []float64, px, py float64) bool {
	n := len(verts) / 2
	if n < 3 {
		return false
	}

	inside := false
	jx, jy := verts[(n-1)*2], verts[(n-1)*2+1]
	for i := 0; i < n; i++ {
		ix, iy := verts[i*2], verts[i*2+1]

		if onSegment(ix, iy, jx, jy, px, py) {
			return true
		}

		if (iy > py) != (jy > py) {
			xCross := ix + (py-iy)/(jy-iy)*(jx-ix)
			if px < xCross {
				inside = !inside
			}
		}

		jx, jy = ix, iy
	}
	return inside
}

// onSegment reports whether (px,py) lies within boundaryTolerance of the
// segment (ax,ay)-(bx,by). Degenerate (near-zero-length) segments are
// treated as points.
func onSegment(ax, ay, bx, by, px, py float64) bool {
	dx, dy := bx-ax, by-ay
	lenSq := dx*dx + dy*dy

	if lenSq < boundaryTolerance*boundaryTolerance {
		return math.Hypot(px-ax, py-ay) <= boundaryTolerance
	}

	t := ((px-ax)*dx + (py-ay)*dy) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}

	closestX := ax + t*dx
	closestY := ay + t*dy
	return math.Hypot(px-closestX, py-closestY) <= boundaryTolerance
}

// BoundingBox computes the axis-aligned bounding box of a flat polygon
// coordinate slice. Returns ok=false for fewer than 1 vertex.
func BoundingBox(verts []float64) (xmin, ymin, xmax, ymax float64, ok bool) {
	n := len(verts) / 2
	if n < 1 {
		return 0, 0, 0, 0, false
	}
	xmin, ymin = verts[0], verts[1]
	xmax, ymax = verts[0], verts[1]
	for i := 1; i < n; i++ {
		x, y := verts[i*2], verts[i*2+1]
		xmin = math.Min(xmin, x)
		xmax = math.Max(xmax, x)
		ymin = math.Min(ymin, y)
		ymax = math.Max(ymax, y)
	}
	return xmin, ymin, xmax, ymax, true
}
