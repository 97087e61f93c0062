package interaction

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HackerRoomAI/hyper-scatter/internal/dataset"
	"github.com/HackerRoomAI/hyper-scatter/internal/renderer"
)

// fakeRenderer is a minimal, in-memory renderer.Renderer stand-in recording
// every call the Controller makes, so Tick's drain order and at-most-one-
// render-per-frame discipline can be asserted without any GL context.
type fakeRenderer struct {
	panCalls    int
	lastPanDX   float64
	lastPanDY   float64
	zoomCalls   int
	resizeCalls int
	renderCalls int
	hoveredCalls int
	lastHovered int
	startPanCalls int

	lassoSelectCalls int
	lassoPreviewCalls int
	endInteractionCalls int
}

func (f *fakeRenderer) Init(renderer.Surface, renderer.InitOptions) error { return nil }
func (f *fakeRenderer) SetDataset(*dataset.Dataset) error                 { return nil }
func (f *fakeRenderer) SetView(any) error                                 { return nil }
func (f *fakeRenderer) GetView() any                                      { return nil }
func (f *fakeRenderer) Render() error                                     { f.renderCalls++; return nil }
func (f *fakeRenderer) Resize(int, int) error                             { f.resizeCalls++; return nil }
func (f *fakeRenderer) Destroy()                                          {}
func (f *fakeRenderer) SetSelection(dataset.Selection)                    {}
func (f *fakeRenderer) GetSelection() dataset.Selection                   { return nil }
func (f *fakeRenderer) SetHovered(index int)                              { f.hoveredCalls++; f.lastHovered = index }
func (f *fakeRenderer) Pan(dx, dy float64, _ renderer.Modifiers)          { f.panCalls++; f.lastPanDX, f.lastPanDY = dx, dy }
func (f *fakeRenderer) Zoom(float64, float64, float64, renderer.Modifiers) { f.zoomCalls++ }
func (f *fakeRenderer) HitTest(sx, sy float64) (*renderer.HitResult, error) { return nil, nil }
func (f *fakeRenderer) LassoSelect(poly []float32) (dataset.Selection, error) {
	f.lassoSelectCalls++
	return nil, nil
}
func (f *fakeRenderer) CountSelection(context.Context, dataset.Selection, renderer.CountOptions) (int, error) {
	return 0, nil
}
func (f *fakeRenderer) ProjectToScreen(x, y float64) (float64, float64)     { return x, y }
func (f *fakeRenderer) UnprojectFromScreen(sx, sy float64) (float64, float64) { return sx, sy }

func (f *fakeRenderer) StartPan(x, y float64) { f.startPanCalls++ }
func (f *fakeRenderer) EndInteraction()       { f.endInteractionCalls++ }
func (f *fakeRenderer) SetLassoPreview(poly []float32) error {
	f.lassoPreviewCalls++
	return nil
}

func newTestController() (*Controller, *fakeRenderer) {
	fr := &fakeRenderer{}
	return NewController(fr), fr
}

func TestPointerDownSelectsPanModeByDefault(t *testing.T) {
	c, fr := newTestController()
	c.PointerDown(10, 10, renderer.Modifiers{})
	assert.Equal(t, ModePan, c.Mode())
	assert.Equal(t, 1, fr.startPanCalls)
}

func TestPointerDownSelectsLassoModeWithPredicate(t *testing.T) {
	c, _ := newTestController()
	c.PointerDown(10, 10, renderer.Modifiers{Shift: true, Ctrl: true})
	assert.Equal(t, ModeLasso, c.Mode())
}

func TestPanAccumulatesAndFlushesOnTick(t *testing.T) {
	c, fr := newTestController()
	c.PointerDown(0, 0, renderer.Modifiers{})
	c.PointerMove(3, 4, 3, 4)
	c.PointerMove(5, 5, 2, 1)

	require.Equal(t, 0, fr.panCalls, "pan must not be applied before Tick")
	require.NoError(t, c.Tick())
	assert.Equal(t, 1, fr.panCalls, "coalesced into exactly one Pan call")
	assert.InDelta(t, 5, fr.lastPanDX, 1e-9)
	assert.InDelta(t, 5, fr.lastPanDY, 1e-9)
	assert.Equal(t, 1, fr.renderCalls)

	// A second Tick with nothing pending must not render again.
	require.NoError(t, c.Tick())
	assert.Equal(t, 1, fr.renderCalls)
}

func TestPanFlushesSynchronouslyOnPointerUp(t *testing.T) {
	c, fr := newTestController()
	c.PointerDown(0, 0, renderer.Modifiers{})
	c.PointerMove(10, 10, 10, 10)
	c.PointerUp()

	assert.Equal(t, 1, fr.panCalls, "short gesture must flush pan on release, not be discarded")
	assert.Equal(t, 1, fr.endInteractionCalls)
	assert.Equal(t, ModeIdle, c.Mode())
}

func TestHoverSuppressedDuringDrag(t *testing.T) {
	c, fr := newTestController()
	c.PointerDown(0, 0, renderer.Modifiers{})
	c.Hover(42) // should be ignored: mode is Pan
	require.NoError(t, c.Tick())
	assert.Equal(t, 0, fr.hoveredCalls, "hover must not be delivered while dragging")
}

func TestHoverDeliveredOnlyOnChange(t *testing.T) {
	c, fr := newTestController()
	c.Hover(5)
	require.NoError(t, c.Tick())
	assert.Equal(t, 5, fr.lastHovered)
	callsAfterFirst := fr.hoveredCalls

	// Re-ticking with the same hover target must not call SetHovered again.
	require.NoError(t, c.Tick())
	assert.Equal(t, callsAfterFirst, fr.hoveredCalls)
}

func TestWheelAccumulatesAndFlushesOnTick(t *testing.T) {
	c, fr := newTestController()
	c.Wheel(100, 50, 50, renderer.Modifiers{})
	require.Equal(t, 0, fr.zoomCalls)
	require.NoError(t, c.Tick())
	assert.Equal(t, 1, fr.zoomCalls)
}

func TestResizeOnlyAppliesWhenDirty(t *testing.T) {
	c, fr := newTestController()
	require.NoError(t, c.Tick())
	assert.Equal(t, 0, fr.resizeCalls, "no resize call without a pending resize")

	c.Resize(800, 600)
	require.NoError(t, c.Tick())
	assert.Equal(t, 1, fr.resizeCalls)
}

func TestLassoGestureSamplesAndFinalizes(t *testing.T) {
	c, fr := newTestController()
	var completed *LassoResult
	c.OnLassoComplete = func(r LassoResult) { completed = &r }

	c.PointerDown(0, 0, renderer.Modifiers{Shift: true, Meta: true})
	c.PointerMove(10, 0, 10, 0)
	c.PointerMove(10, 10, 0, 10)
	c.PointerMove(0, 10, -10, 0)
	c.PointerUp()

	require.NotNil(t, completed)
	assert.Equal(t, 1, fr.lassoSelectCalls)
	assert.GreaterOrEqual(t, len(completed.Raw)/2, 3)
	assert.Equal(t, ModeIdle, c.Mode())
}

func TestLassoSampleBelowThresholdIsDropped(t *testing.T) {
	c, _ := newTestController()
	c.PointerDown(0, 0, renderer.Modifiers{Shift: true, Ctrl: true})
	initialLen := len(c.lassoRawData)
	c.PointerMove(0.5, 0.5, 0.5, 0.5) // below the 2px default threshold
	assert.Equal(t, initialLen, len(c.lassoRawData))
}
