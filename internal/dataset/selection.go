package dataset

import (
	"github.com/HackerRoomAI/hyper-scatter/internal/bitset"
	"github.com/HackerRoomAI/hyper-scatter/internal/polygon"
)

// bitsetMaterializeThreshold is the cardinality above which an indices
// selection is backed by a bitset.Set instead of a plain []int.
const bitsetMaterializeThreshold = 2_000_000

// Selection is the sum-of-two-variants selection result: both variants
// expose Has, Size, and ComputeTimeMs.
type Selection interface {
	// Has reports whether point index i is a member of the selection.
	Has(i int) bool
	// Size returns the selection's cardinality. exact is false only for a
	// geometry-variant selection whose count has not yet been materialized
	// via an async countSelection call.
	Size() (n int, exact bool)
	// ComputeTimeMs is the time spent constructing this selection.
	ComputeTimeMs() float64
}

// IndicesSelection is the indices variant: a concrete set-like container of
// point indices, either a slice kept in the order given (small selections)
// or a bitset.Set (selections at or above bitsetMaterializeThreshold).
type IndicesSelection struct {
	slice        []int // used when small; nil when bitset-backed
	set          *bitset.Set
	computeTimeMs float64
}

// NewIndicesSelection builds an indices selection from a slice of point
// indices, materializing into a bitset when the slice is large.
func NewIndicesSelection(universeN int, indices []int, computeTimeMs float64) *IndicesSelection {
	if len(indices) >= bitsetMaterializeThreshold {
		return &IndicesSelection{set: bitset.FromSlice(universeN, indices), computeTimeMs: computeTimeMs}
	}
	cp := make([]int, len(indices))
	copy(cp, indices)
	return &IndicesSelection{slice: cp, computeTimeMs: computeTimeMs}
}

func (s *IndicesSelection) Has(i int) bool {
	if s.set != nil {
		return s.set.Has(i)
	}
	for _, idx := range s.slice {
		if idx == i {
			return true
		}
	}
	return false
}

func (s *IndicesSelection) Size() (int, bool) {
	if s.set != nil {
		return s.set.Count(), true
	}
	return len(s.slice), true
}

func (s *IndicesSelection) ComputeTimeMs() float64 { return s.computeTimeMs }

// Indices returns a copy of the member indices: in the order they were given
// for a slice-backed selection, in ascending order (materialized) for a
// bitset-backed one. Callers should avoid this on huge selections — it
// exists for small selections and for tests.
func (s *IndicesSelection) Indices() []int {
	if s.set != nil {
		return s.set.ToSlice()
	}
	out := make([]int, len(s.slice))
	copy(out, s.slice)
	return out
}

// GeometrySelection is the geometry variant: a polygon in data space plus an
// optional bounding box plus a membership predicate computed lazily as
// (inside bounds) AND (inside polygon), never eagerly enumerated.
type GeometrySelection struct {
	Polygon       []float64 // flat data-space coordinates
	HasBounds     bool
	Xmin, Ymin    float64
	Xmax, Ymax    float64
	computeTimeMs float64

	// count/countExact record the result of an async countSelection call;
	// zero-value means "not yet materialized".
	count      int
	countExact bool
}

// NewGeometrySelection builds a geometry selection from a flat data-space
// polygon. A polygon with fewer than 3 vertices yields an empty selection:
// Has always returns false, Size is exactly 0.
func NewGeometrySelection(poly []float64, computeTimeMs float64) *GeometrySelection {
	g := &GeometrySelection{Polygon: poly, computeTimeMs: computeTimeMs}
	if len(poly)/2 < 3 {
		g.countExact = true
		return g
	}
	xmin, ymin, xmax, ymax, ok := polygon.BoundingBox(poly)
	if ok {
		g.HasBounds = true
		g.Xmin, g.Ymin, g.Xmax, g.Ymax = xmin, ymin, xmax, ymax
	}
	return g
}

// HasPoint is the membership predicate: bounds-check AND ray-cast.
// GeometrySelection needs the point's coordinates (unlike
// IndicesSelection, which only needs an index), so it does not implement
// Selection directly — see PointSelection below, which closes over a
// Dataset to adapt it.
func (g *GeometrySelection) HasPoint(x, y float64) bool {
	if len(g.Polygon)/2 < 3 {
		return false
	}
	if g.HasBounds && (x < g.Xmin || x > g.Xmax || y < g.Ymin || y > g.Ymax) {
		return false
	}
	return polygon.Contains(g.Polygon, x, y)
}

func (g *GeometrySelection) Size() (int, bool) { return g.count, g.countExact }

func (g *GeometrySelection) ComputeTimeMs() float64 { return g.computeTimeMs }

// SetCount records the exact count produced by an async countSelection pass.
func (g *GeometrySelection) SetCount(n int) { g.count = n; g.countExact = true }

// PointSelection adapts a GeometrySelection into the Selection interface by
// closing over the Dataset whose point coordinates Has(i) needs.
type PointSelection struct {
	Geometry *GeometrySelection
	Data     *Dataset
}

func (p PointSelection) Has(i int) bool {
	return p.Geometry.HasPoint(float64(p.Data.X(i)), float64(p.Data.Y(i)))
}
func (p PointSelection) Size() (int, bool)     { return p.Geometry.Size() }
func (p PointSelection) ComputeTimeMs() float64 { return p.Geometry.ComputeTimeMs() }
