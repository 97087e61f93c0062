package gpurender

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HackerRoomAI/hyper-scatter/internal/dataset"
	"github.com/HackerRoomAI/hyper-scatter/internal/renderer"
	"github.com/HackerRoomAI/hyper-scatter/internal/spatial"
)

func TestPointSizePxClampsToMinimum(t *testing.T) {
	got := pointSizePx(0.01, 1, 0.01)
	assert.Equal(t, float32(minPointSizePx), got)
}

func TestPointSizePxClampsToMaximum(t *testing.T) {
	got := pointSizePx(100, 2, 10)
	assert.Equal(t, float32(maxPointSizePx), got)
}

func TestPointSizePxScalesWithZoomAndDPR(t *testing.T) {
	got := pointSizePx(3, 2, 1)
	assert.Equal(t, float32(12), got) // 2*3*2*1 = 12, within [2,28]
}

func TestShapePolicyForSwitchesAtThreshold(t *testing.T) {
	assert.Equal(t, shapeCircle, shapePolicyFor(densityShapeThreshold))
	assert.Equal(t, shapeSquare, shapePolicyFor(densityShapeThreshold+1))
	assert.Equal(t, shapeCircle, shapePolicyFor(0))
}

func TestSelectIndicesInPolygonFindsEnclosedPoints(t *testing.T) {
	ds, err := dataset.New(3, []float32{0, 0, 5, 5, 100, 100}, []uint16{0, 0, 0}, dataset.Euclidean)
	require.NoError(t, err)

	square := []float64{-1, -1, 10, -1, 10, 10, -1, 10}
	got := selectIndicesInPolygon(ds, square)
	assert.Equal(t, []int{0, 1}, got)
}

func TestCountSelectionNaiveUsesExactSizeWhenAvailable(t *testing.T) {
	sel := dataset.NewIndicesSelection(10, []int{1, 2, 3}, 0)
	n, err := countSelectionNaive(context.Background(), nil, nil, sel, renderer.CountOptions{})
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestCountSelectionNaiveCountsGeometrySelectionOverDataset(t *testing.T) {
	ds, err := dataset.New(4, []float32{0, 0, 1, 1, 2, 2, 3, 3}, []uint16{0, 0, 0, 0}, dataset.Euclidean)
	require.NoError(t, err)

	geo := dataset.NewGeometrySelection([]float64{-1, -1, 1.5, -1, 1.5, 1.5, -1, 1.5}, 0)
	sel := dataset.PointSelection{Geometry: geo, Data: ds}

	n, err := countSelectionNaive(context.Background(), ds, nil, sel, renderer.CountOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestCountSelectionNaiveUsesGridFastPathForBoundedGeometrySelection(t *testing.T) {
	ds, err := dataset.New(4, []float32{0, 0, 1, 1, 2, 2, 3, 3}, []uint16{0, 0, 0, 0}, dataset.Euclidean)
	require.NoError(t, err)
	grid := spatial.Build(ds.Positions, ds.N)

	geo := dataset.NewGeometrySelection([]float64{-1, -1, 1.5, -1, 1.5, 1.5, -1, 1.5}, 0)
	sel := dataset.PointSelection{Geometry: geo, Data: ds}

	n, err := countSelectionNaive(context.Background(), ds, grid, sel, renderer.CountOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestShapeForAppliesHysteresisBand(t *testing.T) {
	b := newBase()
	assert.Equal(t, shapeCircle, b.shapeFor(densityShapeThreshold))
	assert.Equal(t, shapeSquare, b.shapeFor(densityShapeThreshold+densityShapeHysteresis+1))
	// Dropping back just under the raw threshold should NOT flip back yet —
	// hysteresis holds square until well below the threshold.
	assert.Equal(t, shapeSquare, b.shapeFor(densityShapeThreshold-1))
	assert.Equal(t, shapeCircle, b.shapeFor(densityShapeThreshold-densityShapeHysteresis-1))
}

func TestResolvePaletteDefaultsWhenNoHexColorsGiven(t *testing.T) {
	p, err := resolvePalette(nil)
	require.NoError(t, err)
	assert.Equal(t, 10, p.Size())
}

func TestResolvePaletteUsesProvidedHexColors(t *testing.T) {
	p, err := resolvePalette([]string{"#ff0000", "#00ff00"})
	require.NoError(t, err)
	assert.Equal(t, 2, p.Size())
}
