package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndicesSelectionSmallIsSliceBacked(t *testing.T) {
	sel := NewIndicesSelection(100, []int{5, 1, 9}, 1.5)
	n, exact := sel.Size()
	assert.Equal(t, 3, n)
	assert.True(t, exact)
	assert.True(t, sel.Has(5))
	assert.False(t, sel.Has(2))
	assert.Equal(t, 1.5, sel.ComputeTimeMs())
	assert.Equal(t, []int{5, 1, 9}, sel.Indices())
}

func TestIndicesSelectionLargeIsBitsetBacked(t *testing.T) {
	indices := make([]int, bitsetMaterializeThreshold)
	for i := range indices {
		indices[i] = i
	}
	sel := NewIndicesSelection(bitsetMaterializeThreshold, indices, 10)
	n, exact := sel.Size()
	assert.Equal(t, bitsetMaterializeThreshold, n)
	assert.True(t, exact)
	assert.True(t, sel.Has(0))
	assert.True(t, sel.Has(bitsetMaterializeThreshold-1))
}

func TestGeometrySelectionDegeneratePolygonIsEmpty(t *testing.T) {
	sel := NewGeometrySelection([]float64{0, 0, 1, 1}, 0)
	assert.False(t, sel.HasPoint(0, 0))
	n, exact := sel.Size()
	assert.Equal(t, 0, n)
	assert.True(t, exact)
}

func TestGeometrySelectionHasPointBoundsAndPolygon(t *testing.T) {
	square := []float64{0, 0, 10, 0, 10, 10, 0, 10}
	sel := NewGeometrySelection(square, 2.0)
	require.True(t, sel.HasBounds)
	assert.True(t, sel.HasPoint(5, 5))
	assert.False(t, sel.HasPoint(15, 5)) // outside bounds, short-circuits
	assert.False(t, sel.HasPoint(-1, -1))

	n, exact := sel.Size()
	assert.Equal(t, 0, n)
	assert.False(t, exact) // not yet materialized

	sel.SetCount(42)
	n, exact = sel.Size()
	assert.Equal(t, 42, n)
	assert.True(t, exact)
}

func TestPointSelectionAdaptsGeometrySelectionToDataset(t *testing.T) {
	square := []float64{0, 0, 10, 0, 10, 10, 0, 10}
	geo := NewGeometrySelection(square, 0)
	ds, err := New(2, []float32{5, 5, 20, 20}, []uint16{0, 0}, Euclidean)
	require.NoError(t, err)

	ps := PointSelection{Geometry: geo, Data: ds}
	assert.True(t, ps.Has(0))
	assert.False(t, ps.Has(1))
}
