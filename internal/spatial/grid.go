// Package spatial implements a static uniform-grid spatial index over
// dataset positions: bounds computed once at construction, cells sized for
// ~64 average occupancy, stored as two dense arrays (offsets, ids) so that
// AABB queries touch no allocations.
package spatial

import "math"

const (
	targetOccupancy = 64.0
	minCellsPerAxis = 8
	maxCellsPerAxis = 2048

	// aabbEpsilon expands every query AABB slightly, so points lying
	// exactly on a query boundary are never missed due to floating-point
	// rounding.
	aabbEpsilon = 1e-12
)

// Grid is an immutable uniform-grid spatial index over a fixed set of 2D
// points, built once per dataset and never mutated afterward.
type Grid struct {
	xmin, ymin, xmax, ymax float64
	cellsX, cellsY         int
	cellW, cellH           float64

	offsets []int32 // length cellsX*cellsY+1, prefix sums
	ids     []int32 // length n, point indices grouped by cell
}

// Build constructs a Grid over n points whose interleaved (x,y) coordinates
// are given by positions (length 2n).
func Build(positions []float32, n int) *Grid {
	xmin, ymin := math.Inf(1), math.Inf(1)
	xmax, ymax := math.Inf(-1), math.Inf(-1)
	for i := 0; i < n; i++ {
		x, y := float64(positions[2*i]), float64(positions[2*i+1])
		xmin = math.Min(xmin, x)
		xmax = math.Max(xmax, x)
		ymin = math.Min(ymin, y)
		ymax = math.Max(ymax, y)
	}
	if n == 0 {
		xmin, ymin, xmax, ymax = 0, 0, 0, 0
	}

	// Expand degenerate axes by 1 so a single point or a collinear set still
	// has a well-formed, nonzero-area query region.
	if xmax-xmin <= 0 {
		xmin -= 1
		xmax += 1
	}
	if ymax-ymin <= 0 {
		ymin -= 1
		ymax += 1
	}

	width, height := xmax-xmin, ymax-ymin
	aspect := width / height

	totalCells := math.Max(1, float64(n)/targetOccupancy)
	cellsX := clampInt(int(math.Round(math.Sqrt(totalCells*aspect))), minCellsPerAxis, maxCellsPerAxis)
	cellsY := clampInt(int(math.Round(math.Sqrt(totalCells/aspect))), minCellsPerAxis, maxCellsPerAxis)

	g := &Grid{
		xmin: xmin, ymin: ymin, xmax: xmax, ymax: ymax,
		cellsX: cellsX, cellsY: cellsY,
		cellW: width / float64(cellsX),
		cellH: height / float64(cellsY),
	}

	cellCount := cellsX * cellsY
	counts := make([]int32, cellCount+1)
	cellOf := make([]int32, n)
	for i := 0; i < n; i++ {
		x, y := float64(positions[2*i]), float64(positions[2*i+1])
		cx := g.cellXFor(x)
		cy := g.cellYFor(y)
		c := int32(cy*cellsX + cx)
		cellOf[i] = c
		counts[c+1]++
	}
	for c := 0; c < cellCount; c++ {
		counts[c+1] += counts[c]
	}

	ids := make([]int32, n)
	cursor := make([]int32, cellCount)
	copy(cursor, counts[:cellCount])
	for i := 0; i < n; i++ {
		c := cellOf[i]
		ids[cursor[c]] = int32(i)
		cursor[c]++
	}

	g.offsets = counts
	g.ids = ids
	return g
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

func (g *Grid) cellXFor(x float64) int {
	cx := int((x - g.xmin) / g.cellW)
	return clampInt(cx, 0, g.cellsX-1)
}

func (g *Grid) cellYFor(y float64) int {
	cy := int((y - g.ymin) / g.cellH)
	return clampInt(cy, 0, g.cellsY-1)
}

// ForEachInAABB visits every candidate point index whose cell intersects the
// query box [xmin,ymin]-[xmax,ymax] (expanded by aabbEpsilon), in
// deterministic row-major cell order. No allocations.
func (g *Grid) ForEachInAABB(xmin, ymin, xmax, ymax float64, visit func(idx int)) {
	xmin -= aabbEpsilon
	ymin -= aabbEpsilon
	xmax += aabbEpsilon
	ymax += aabbEpsilon

	cxMin := clampInt(int((xmin-g.xmin)/g.cellW), 0, g.cellsX-1)
	cxMax := clampInt(int((xmax-g.xmin)/g.cellW), 0, g.cellsX-1)
	cyMin := clampInt(int((ymin-g.ymin)/g.cellH), 0, g.cellsY-1)
	cyMax := clampInt(int((ymax-g.ymin)/g.cellH), 0, g.cellsY-1)

	for cy := cyMin; cy <= cyMax; cy++ {
		rowBase := cy * g.cellsX
		for cx := cxMin; cx <= cxMax; cx++ {
			c := rowBase + cx
			start, end := g.offsets[c], g.offsets[c+1]
			for k := start; k < end; k++ {
				visit(int(g.ids[k]))
			}
		}
	}
}

// Bounds returns the grid's data-space bounding box.
func (g *Grid) Bounds() (xmin, ymin, xmax, ymax float64) {
	return g.xmin, g.ymin, g.xmax, g.ymax
}

// CellCounts returns the grid dimensions, useful for diagnostics/tests.
func (g *Grid) CellCounts() (cellsX, cellsY int) {
	return g.cellsX, g.cellsY
}
