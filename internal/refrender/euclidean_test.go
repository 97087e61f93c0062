package refrender

import (
	"context"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HackerRoomAI/hyper-scatter/internal/dataset"
	"github.com/HackerRoomAI/hyper-scatter/internal/geom"
	"github.com/HackerRoomAI/hyper-scatter/internal/renderer"
)

type fakeSurface struct{ w, h int }

func (f fakeSurface) Size() (int, int) { return f.w, f.h }

func newTestEuclidean(t *testing.T) *Euclidean {
	t.Helper()
	r := NewEuclidean()
	err := r.Init(fakeSurface{800, 600}, renderer.InitOptions{Width: 800, Height: 600, DevicePixelRatio: 1})
	require.NoError(t, err)
	return r
}

func sampleEuclideanDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.New(3,
		[]float32{0, 0, 5, 5, -5, -5},
		[]uint16{0, 1, 2},
		dataset.Euclidean,
	)
	require.NoError(t, err)
	return ds
}

func TestEuclideanInitAllocatesBackingImage(t *testing.T) {
	r := newTestEuclidean(t)
	assert.NotNil(t, r.Image())
	assert.Equal(t, 800, r.Image().Bounds().Dx())
	assert.Equal(t, 600, r.Image().Bounds().Dy())
}

func TestEuclideanSetDatasetRejectsWrongGeometry(t *testing.T) {
	r := newTestEuclidean(t)
	poincareDs, err := dataset.New(1, []float32{0.1, 0.1}, []uint16{0}, dataset.Poincare)
	require.NoError(t, err)

	err = r.SetDataset(poincareDs)
	assert.Error(t, err)
}

func TestEuclideanRenderClearsToBackground(t *testing.T) {
	r := newTestEuclidean(t)
	require.NoError(t, r.Render())

	c := r.Image().RGBAAt(10, 10)
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, c)
}

func TestEuclideanRenderDrawsPoints(t *testing.T) {
	r := newTestEuclidean(t)
	ds := sampleEuclideanDataset(t)
	require.NoError(t, r.SetDataset(ds))
	require.NoError(t, r.Render())

	sx, sy := r.ProjectToScreen(0, 0)
	px, py := r.px(sx, sy)
	c := r.Image().RGBAAt(px, py)
	assert.NotEqual(t, color.RGBA{255, 255, 255, 255}, c)
}

func TestEuclideanHitTestFindsNearestPoint(t *testing.T) {
	r := newTestEuclidean(t)
	ds := sampleEuclideanDataset(t)
	require.NoError(t, r.SetDataset(ds))

	sx, sy := r.ProjectToScreen(0, 0)
	hit, err := r.HitTest(sx, sy)
	require.NoError(t, err)
	require.NotNil(t, hit)
	assert.Equal(t, 0, hit.Index)
}

func TestEuclideanHitTestMissReturnsNil(t *testing.T) {
	r := newTestEuclidean(t)
	ds := sampleEuclideanDataset(t)
	require.NoError(t, r.SetDataset(ds))

	hit, err := r.HitTest(-10000, -10000)
	require.NoError(t, err)
	assert.Nil(t, hit)
}

func TestEuclideanLassoSelectFindsEnclosedPoints(t *testing.T) {
	r := newTestEuclidean(t)
	ds := sampleEuclideanDataset(t)
	require.NoError(t, r.SetDataset(ds))

	// A screen-space box big enough to enclose only the point at (0,0).
	x0, y0 := r.ProjectToScreen(-1, -1)
	x1, y1 := r.ProjectToScreen(1, 1)
	polyline := []float32{
		float32(x0), float32(y0),
		float32(x1), float32(y0),
		float32(x1), float32(y1),
		float32(x0), float32(y1),
	}
	sel, err := r.LassoSelect(polyline)
	require.NoError(t, err)
	assert.True(t, sel.Has(0))
	assert.False(t, sel.Has(1))
	assert.False(t, sel.Has(2))
}

func TestEuclideanLassoSelectDegenerateReturnsEmpty(t *testing.T) {
	r := newTestEuclidean(t)
	ds := sampleEuclideanDataset(t)
	require.NoError(t, r.SetDataset(ds))

	sel, err := r.LassoSelect([]float32{1, 1, 2, 2})
	require.NoError(t, err)
	n, exact := sel.Size()
	assert.Equal(t, 0, n)
	assert.True(t, exact)
}

func TestEuclideanCountSelectionMatchesIndicesSize(t *testing.T) {
	r := newTestEuclidean(t)
	ds := sampleEuclideanDataset(t)
	require.NoError(t, r.SetDataset(ds))

	sel := dataset.NewIndicesSelection(ds.N, []int{0, 2}, 0)
	count, err := r.CountSelection(context.Background(), sel, renderer.CountOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestEuclideanPanAndZoomAreAnchorInvariant(t *testing.T) {
	r := newTestEuclidean(t)
	ds := sampleEuclideanDataset(t)
	require.NoError(t, r.SetDataset(ds))

	sxBefore, syBefore := r.ProjectToScreen(5, 5)
	r.Zoom(sxBefore, syBefore, 3, renderer.Modifiers{})
	sxAfter, syAfter := r.ProjectToScreen(5, 5)
	assert.InDelta(t, sxBefore, sxAfter, 1e-6)
	assert.InDelta(t, syBefore, syAfter, 1e-6)
}

func TestEuclideanSetViewRejectsWrongType(t *testing.T) {
	r := newTestEuclidean(t)
	err := r.SetView(geom.NewPoincareView())
	assert.Error(t, err)
}

func TestEuclideanResizeReallocatesImage(t *testing.T) {
	r := newTestEuclidean(t)
	require.NoError(t, r.Resize(400, 300))
	assert.Equal(t, 400, r.Image().Bounds().Dx())
	assert.Equal(t, 300, r.Image().Bounds().Dy())
}

func TestEuclideanDestroyClearsState(t *testing.T) {
	r := newTestEuclidean(t)
	ds := sampleEuclideanDataset(t)
	require.NoError(t, r.SetDataset(ds))
	r.Destroy()
	assert.Nil(t, r.Image())
}
