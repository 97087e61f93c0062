package refrender

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HackerRoomAI/hyper-scatter/internal/dataset"
	"github.com/HackerRoomAI/hyper-scatter/internal/renderer"
)

func newTestPoincare(t *testing.T) *Poincare {
	t.Helper()
	r := NewPoincare()
	err := r.Init(fakeSurface{800, 600}, renderer.InitOptions{Width: 800, Height: 600, DevicePixelRatio: 1})
	require.NoError(t, err)
	return r
}

func samplePoincareDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.New(3,
		[]float32{0, 0, 0.3, 0.3, -0.4, 0.1},
		[]uint16{0, 1, 2},
		dataset.Poincare,
	)
	require.NoError(t, err)
	return ds
}

func TestPoincareSetDatasetRejectsWrongGeometry(t *testing.T) {
	r := newTestPoincare(t)
	euclideanDs := sampleEuclideanDataset(t)
	assert.Error(t, r.SetDataset(euclideanDs))
}

func TestPoincareRenderDrawsBackdropAndPoints(t *testing.T) {
	r := newTestPoincare(t)
	ds := samplePoincareDataset(t)
	require.NoError(t, r.SetDataset(ds))
	require.NoError(t, r.Render())

	// Center of the disk should be within the disk fill/border/point area,
	// i.e. not left at the plain background color.
	cx, cy := r.px(400, 300)
	c := r.Image().RGBAAt(cx, cy)
	assert.NotEqual(t, r.bgColor, c)
}

func TestPoincareHitTestRejectsPointsOutsideDisk(t *testing.T) {
	r := newTestPoincare(t)
	ds := samplePoincareDataset(t)
	require.NoError(t, r.SetDataset(ds))

	// Far outside the rendered disk: no hit regardless of dataset contents.
	hit, err := r.HitTest(5, 5)
	require.NoError(t, err)
	assert.Nil(t, hit)
}

func TestPoincareHitTestFindsCenterPoint(t *testing.T) {
	r := newTestPoincare(t)
	ds := samplePoincareDataset(t)
	require.NoError(t, r.SetDataset(ds))

	sx, sy := r.ProjectToScreen(0, 0)
	hit, err := r.HitTest(sx, sy)
	require.NoError(t, err)
	require.NotNil(t, hit)
	assert.Equal(t, 0, hit.Index)
}

func TestPoincareStartPanThenPanIsAnchorInvariant(t *testing.T) {
	r := newTestPoincare(t)
	ds := samplePoincareDataset(t)
	require.NoError(t, r.SetDataset(ds))

	startSX, startSY := r.ProjectToScreen(0.3, 0.3)
	r.StartPan(startSX, startSY)
	r.Pan(20, -15, renderer.Modifiers{})

	gotSX, gotSY := startSX+20, startSY-15
	newSX, newSY := r.ProjectToScreen(0.3, 0.3)
	assert.InDelta(t, gotSX, newSX, 1e-6)
	assert.InDelta(t, gotSY, newSY, 1e-6)
}

func TestPoincareInsideDiskBoundary(t *testing.T) {
	r := newTestPoincare(t)
	cx, cy := float64(r.width)/2, float64(r.height)/2
	assert.True(t, r.insideDisk(cx, cy))
	assert.False(t, r.insideDisk(cx+float64(r.width), cy))
}

func TestPoincareLassoSelectFindsEnclosedPoint(t *testing.T) {
	r := newTestPoincare(t)
	ds := samplePoincareDataset(t)
	require.NoError(t, r.SetDataset(ds))

	x0, y0 := r.ProjectToScreen(-0.05, -0.05)
	x1, y1 := r.ProjectToScreen(0.05, 0.05)
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
}
