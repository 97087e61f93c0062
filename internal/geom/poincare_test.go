package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPoincareViewDefaults(t *testing.T) {
	v := NewPoincareView()
	assert.Equal(t, PoincareView{Ax: 0, Ay: 0, DisplayZoom: 1}, v)
}

func TestClampPoincareDisplayZoom(t *testing.T) {
	assert.Equal(t, PoincareMinDisplayZoom, ClampPoincareDisplayZoom(0))
	assert.Equal(t, PoincareMaxDisplayZoom, ClampPoincareDisplayZoom(1000))
	assert.Equal(t, 2.0, ClampPoincareDisplayZoom(2.0))
}

func TestProjectPoincareOriginAtNoTranslation(t *testing.T) {
	view := NewPoincareView()
	sx, sy := ProjectPoincare(view, 800, 600, 0, 0)
	assert.InDelta(t, 400, sx, 1e-9)
	assert.InDelta(t, 300, sy, 1e-9)
}

func TestProjectUnprojectPoincareRoundTrip(t *testing.T) {
	view := PoincareView{Ax: 0.2, Ay: -0.1, DisplayZoom: 1.5}
	x, y := 0.3, 0.1
	sx, sy := ProjectPoincare(view, 800, 600, x, y)
	gx, gy := UnprojectPoincare(view, 800, 600, sx, sy)
	assert.InDelta(t, x, gx, 1e-7)
	assert.InDelta(t, y, gy, 1e-7)
}

func TestMobiusMapsAnchorToOrigin(t *testing.T) {
	a := Point{0.3, 0.2}
	result := mobius(a, a)
	assert.InDelta(t, 0, result.X, 1e-9)
	assert.InDelta(t, 0, result.Y, 1e-9)
}

func TestMobiusInverseMobiusRoundTrip(t *testing.T) {
	a := Point{0.4, -0.2}
	z := Point{0.1, 0.3}
	w := mobius(a, z)
	back := inverseMobius(a, w)
	assert.InDelta(t, z.X, back.X, 1e-9)
	assert.InDelta(t, z.Y, back.Y, 1e-9)
}

func TestClampToDiskLeavesInteriorPointsUntouched(t *testing.T) {
	p := Point{0.2, 0.1}
	assert.Equal(t, p, clampToDisk(p, 0.999))
}

func TestClampToDiskClampsExteriorPoints(t *testing.T) {
	p := Point{2, 0}
	got := clampToDisk(p, 0.5)
	assert.InDelta(t, 0.5, got.X, 1e-9)
	assert.InDelta(t, 0, got.Y, 1e-9)
}

func TestPanPoincareIsAnchorInvariant(t *testing.T) {
	view := NewPoincareView()
	startSX, startSY := 450.0, 320.0

	panned := PanPoincare(view, 800, 600, startSX, startSY, 500, 280)

	x, y := UnprojectPoincare(view, 800, 600, startSX, startSY)
	newSX, newSY := ProjectPoincare(panned, 800, 600, x, y)
	assert.InDelta(t, 500, newSX, 1e-6)
	assert.InDelta(t, 280, newSY, 1e-6)
}

func TestPanPoincareKeepsTranslationInsideDisk(t *testing.T) {
	view := NewPoincareView()
	panned := PanPoincare(view, 800, 600, 10, 10, 790, 590)
	mag := math.Hypot(panned.Ax, panned.Ay)
	assert.Less(t, mag, 1.0)
}

func TestZoomPoincareKeepsAnchorFixed(t *testing.T) {
	view := PoincareView{Ax: 0.1, Ay: 0.05, DisplayZoom: 1}
	anchorSX, anchorSY := 500.0, 350.0

	ax, ay := UnprojectPoincare(view, 800, 600, anchorSX, anchorSY)
	zoomed := ZoomPoincare(view, 800, 600, anchorSX, anchorSY, 2)
	newSX, newSY := ProjectPoincare(zoomed, 800, 600, ax, ay)

	assert.InDelta(t, anchorSX, newSX, 1e-5)
	assert.InDelta(t, anchorSY, newSY, 1e-5)
	assert.Greater(t, zoomed.DisplayZoom, view.DisplayZoom)
}

func TestZoomPoincareClampsDisplayZoom(t *testing.T) {
	view := PoincareView{DisplayZoom: PoincareMaxDisplayZoom}
	zoomed := ZoomPoincare(view, 800, 600, 400, 300, 50)
	assert.Equal(t, PoincareMaxDisplayZoom, zoomed.DisplayZoom)
}

func TestHyperbolicDistanceZeroForSamePoint(t *testing.T) {
	p := Point{0.3, 0.1}
	assert.InDelta(t, 0, HyperbolicDistance(p, p), 1e-9)
}

func TestHyperbolicDistanceIsPositiveAndSymmetric(t *testing.T) {
	p := Point{0.1, 0}
	q := Point{0.5, 0.2}
	dpq := HyperbolicDistance(p, q)
	dqp := HyperbolicDistance(q, p)
	assert.Greater(t, dpq, 0.0)
	assert.InDelta(t, dpq, dqp, 1e-9)
}

func TestConservativeDataRadiusIsPositiveAndFinite(t *testing.T) {
	view := PoincareView{Ax: 0.1, Ay: 0.1, DisplayZoom: 1}
	r := ConservativeDataRadius(view, 800, 600, Point{0.2, 0.2}, 5)
	assert.Greater(t, r, 0.0)
	assert.False(t, math.IsNaN(r))
	assert.False(t, math.IsInf(r, 0))
}
