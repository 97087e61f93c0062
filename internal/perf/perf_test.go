package perf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HackerRoomAI/hyper-scatter/internal/dataset"
	"github.com/HackerRoomAI/hyper-scatter/internal/renderer"
)

func TestGenerateDatasetEuclideanShape(t *testing.T) {
	ds := generateDataset(renderer.GeometryEuclidean, 500)
	require.Equal(t, 500, ds.N)
	assert.Equal(t, dataset.Euclidean, ds.Geometry)
}

func TestGenerateDatasetPoincareStaysInDisk(t *testing.T) {
	ds := generateDataset(renderer.GeometryPoincare, 500)
	require.Equal(t, dataset.Poincare, ds.Geometry)
	for i := 0; i < ds.N; i++ {
		x, y := float64(ds.X(i)), float64(ds.Y(i))
		assert.Less(t, x*x+y*y, 1.0)
	}
}

func TestGenerateDatasetLabelsSpanClusters(t *testing.T) {
	ds := generateDataset(renderer.GeometryEuclidean, 100)
	seen := make(map[uint16]bool)
	for i := 0; i < ds.N; i++ {
		seen[ds.Labels[i]] = true
	}
	assert.Greater(t, len(seen), 1)
}

func TestOptionsWithDefaults(t *testing.T) {
	o := Options{}.withDefaults()
	assert.Equal(t, 60, o.SampleFrames)
	assert.Equal(t, 100, o.HitTestSamples)

	custom := Options{SampleFrames: 10, HitTestSamples: 5}.withDefaults()
	assert.Equal(t, 10, custom.SampleFrames)
	assert.Equal(t, 5, custom.HitTestSamples)
}
