// Package interaction implements a frame-coalescing input controller:
// pointer/wheel/resize events write into pending buffers, and a single Tick
// call — bound to the host's animation-frame equivalent — drains them in a
// fixed order and issues at most one render. Callbacks only ever accumulate
// into fields; all renderer mutation is confined to Tick.
package interaction

import (
	"math"

	"github.com/HackerRoomAI/hyper-scatter/internal/dataset"
	"github.com/HackerRoomAI/hyper-scatter/internal/renderer"
)

// Mode is the controller's current gesture state.
type Mode int

const (
	ModeIdle Mode = iota
	ModePan
	ModeLasso
)

const (
	defaultLassoSampleMinPx   = 2.0
	defaultLassoLiveVertices  = 24
	defaultLassoFinalVertices = 24
	defaultWheelScale         = 1.0 / 100.0
)

// ModePredicate decides, at pointer-down, whether the gesture is a lasso
// (true) or a pan (false). The default is shift AND (meta OR ctrl).
type ModePredicate func(mods renderer.Modifiers) bool

func defaultModePredicate(mods renderer.Modifiers) bool {
	return mods.Shift && (mods.Meta || mods.Ctrl)
}

// LassoResult is delivered to OnLassoComplete at pointer-up: both the raw
// and the simplified polygon.
type LassoResult struct {
	Raw        []float64 // flat (x,y,...) data-space points, unsimplified
	Simplified []float64 // flat (x,y,...) data-space points after Chaikin+RDP
	Selection  dataset.Selection
}

// Controller drains pointer/wheel/resize input into renderer calls once per
// Tick, enforcing at-most-one-render-per-frame.
type Controller struct {
	r renderer.Renderer

	mode          Mode
	isModePredicate ModePredicate

	// Pending buffers, drained exactly once per Tick in a fixed order:
	// resize -> pan -> zoom -> hover -> render.
	resizeDirty           bool
	pendingW, pendingH    int
	pendingPanDX, pendingPanDY float64
	pendingZoomDelta      float64
	zoomAnchorX, zoomAnchorY float64
	pendingMods           renderer.Modifiers

	hoverTarget   int // -1 means "no change pending"
	lastHovered   int

	// Lasso gesture state.
	lassoRawData    []float64 // flat data-space points accumulated this gesture
	lastSampleSX    float64
	lastSampleSY    float64
	lassoGrew       bool
	lassoSampleMinPx float64
	lassoLiveVertices  int
	lassoFinalVertices int

	// OnLassoComplete, if set, is invoked once at pointer-up with the raw
	// and simplified polygons plus the resulting selection.
	OnLassoComplete func(LassoResult)

	dragging bool
}

// NewController builds a Controller bound to a renderer. The renderer must
// already be Init'd.
func NewController(r renderer.Renderer) *Controller {
	return &Controller{
		r:                  r,
		mode:               ModeIdle,
		isModePredicate:    defaultModePredicate,
		hoverTarget:        -1,
		lastHovered:        -1,
		lassoSampleMinPx:   defaultLassoSampleMinPx,
		lassoLiveVertices:  defaultLassoLiveVertices,
		lassoFinalVertices: defaultLassoFinalVertices,
	}
}

// SetModePredicate overrides the default lasso-vs-pan gesture predicate.
func (c *Controller) SetModePredicate(p ModePredicate) {
	if p != nil {
		c.isModePredicate = p
	}
}

// Mode reports the controller's current gesture mode.
func (c *Controller) Mode() Mode { return c.mode }

// Renderer exposes the bound renderer so callers can drive operations the
// Controller itself doesn't wrap (e.g. an idle-mode hover hit test).
func (c *Controller) Renderer() renderer.Renderer { return c.r }

// PointerDown starts a gesture. Only the primary button should reach this —
// callers filter that before calling in.
func (c *Controller) PointerDown(sx, sy float64, mods renderer.Modifiers) {
	c.dragging = true
	c.pendingMods = mods

	// Hover is cleared on pointer-down regardless of which mode follows.
	c.hoverTarget = -1
	if c.lastHovered != -1 {
		c.r.SetHovered(-1)
		c.lastHovered = -1
	}

	if c.isModePredicate(mods) {
		c.mode = ModeLasso
		c.lassoRawData = c.lassoRawData[:0]
		x, y := c.r.UnprojectFromScreen(sx, sy)
		c.lassoRawData = append(c.lassoRawData, x, y)
		c.lastSampleSX, c.lastSampleSY = sx, sy
		c.lassoGrew = true
		return
	}

	c.mode = ModePan
	if starter, ok := c.r.(renderer.PanStarter); ok {
		starter.StartPan(sx, sy)
	}
	// Without an explicit StartPan capability, pan falls back to the canvas
	// center as anchor — the renderer's own Pan implementation handles that
	// default; the controller does nothing further here.
}

// PointerMove accumulates pan deltas or lasso samples depending on mode. It
// never mutates renderer state directly — only Tick does.
func (c *Controller) PointerMove(sx, sy, dx, dy float64) {
	if !c.dragging {
		return
	}
	switch c.mode {
	case ModePan:
		c.pendingPanDX += dx
		c.pendingPanDY += dy
	case ModeLasso:
		dispSX := sx - c.lastSampleSX
		dispSY := sy - c.lastSampleSY
		if math.Hypot(dispSX, dispSY) < c.lassoSampleMinPx {
			return
		}
		x, y := c.r.UnprojectFromScreen(sx, sy)
		c.lassoRawData = append(c.lassoRawData, x, y)
		c.lastSampleSX, c.lastSampleSY = sx, sy
		c.lassoGrew = true
	}
}

// PointerUp ends the active gesture. Pending pan deltas are flushed
// synchronously here (before mode state clears) so a gesture that ends
// before its scheduled frame doesn't appear to snap back; lasso gestures
// are finalized (simplify, project, lassoSelect) and delivered to
// OnLassoComplete.
func (c *Controller) PointerUp() {
	if !c.dragging {
		return
	}
	c.dragging = false

	switch c.mode {
	case ModePan:
		if c.pendingPanDX != 0 || c.pendingPanDY != 0 {
			c.r.Pan(c.pendingPanDX, c.pendingPanDY, c.pendingMods)
			c.pendingPanDX, c.pendingPanDY = 0, 0
		}
		if ender, ok := c.r.(renderer.InteractionEnder); ok {
			ender.EndInteraction()
		}

	case ModeLasso:
		c.finalizeLasso()
		if ender, ok := c.r.(renderer.InteractionEnder); ok {
			ender.EndInteraction()
		}
	}

	c.mode = ModeIdle
}

func (c *Controller) finalizeLasso() {
	raw := c.lassoRawData
	simplified := simplifyLasso(raw, c.lassoFinalVertices)

	screenPoly := make([]float32, len(simplified))
	for i := 0; i < len(simplified); i += 2 {
		sx, sy := c.r.ProjectToScreen(simplified[i], simplified[i+1])
		screenPoly[i] = float32(sx)
		screenPoly[i+1] = float32(sy)
	}

	sel, err := c.r.LassoSelect(screenPoly)
	if err != nil {
		sel = nil
	}

	if p, ok := c.r.(renderer.LassoPreviewer); ok {
		_ = p.SetLassoPreview(nil)
	}

	if c.OnLassoComplete != nil {
		c.OnLassoComplete(LassoResult{
			Raw:        append([]float64(nil), raw...),
			Simplified: simplified,
			Selection:  sel,
		})
	}
}

// Hover records a candidate hover target from a pointer-move while idle.
// Actual delivery to the renderer happens in Tick, and only if it differs
// from the last value actually applied.
func (c *Controller) Hover(index int) {
	if c.mode != ModeIdle {
		return // hover suppressed while dragging or lassoing
	}
	c.hoverTarget = index
}

// Wheel accumulates a zoom delta as -deltaY*scale. Callers pass the raw
// deltaY; scale defaults to 1/100.
func (c *Controller) Wheel(deltaY, anchorX, anchorY float64, mods renderer.Modifiers) {
	c.pendingZoomDelta += -deltaY * defaultWheelScale
	c.zoomAnchorX, c.zoomAnchorY = anchorX, anchorY
	c.pendingMods = mods
}

// Resize records a new viewport size (clamped to at least 1x1) and marks
// the viewport dirty so the next Tick applies it. A size equal to the last
// one recorded is ignored, so the renderer's Resize is only called when the
// dimensions actually change.
func (c *Controller) Resize(width, height int) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	if width == c.pendingW && height == c.pendingH {
		return
	}
	c.pendingW, c.pendingH = width, height
	c.resizeDirty = true
}

// Tick drains the pending buffers in a fixed order — resize, pan, zoom,
// hover, render — and renders iff something changed or the lasso polyline
// grew this frame.
func (c *Controller) Tick() error {
	changed := false

	if c.resizeDirty {
		if err := c.r.Resize(c.pendingW, c.pendingH); err != nil {
			return err
		}
		c.resizeDirty = false
		changed = true
	}

	if c.pendingPanDX != 0 || c.pendingPanDY != 0 {
		c.r.Pan(c.pendingPanDX, c.pendingPanDY, c.pendingMods)
		c.pendingPanDX, c.pendingPanDY = 0, 0
		changed = true
	}

	if c.pendingZoomDelta != 0 {
		c.r.Zoom(c.zoomAnchorX, c.zoomAnchorY, c.pendingZoomDelta, c.pendingMods)
		c.pendingZoomDelta = 0
		changed = true
	}

	if c.mode == ModeIdle && c.hoverTarget != c.lastHovered {
		c.r.SetHovered(c.hoverTarget)
		c.lastHovered = c.hoverTarget
		changed = true
	}

	if c.mode == ModeLasso {
		c.updateLassoPreview()
	}

	if c.lassoGrew {
		changed = true
		c.lassoGrew = false
	}

	if !changed {
		return nil
	}
	return c.r.Render()
}

// updateLassoPreview feeds the live (in-progress) lasso polygon, simplified
// to the per-frame vertex budget, to renderers that can draw a preview
// overlay.
func (c *Controller) updateLassoPreview() {
	previewer, ok := c.r.(renderer.LassoPreviewer)
	if !ok {
		return
	}
	live := simplifyLasso(c.lassoRawData, c.lassoLiveVertices)
	screenPoly := make([]float32, len(live))
	for i := 0; i < len(live); i += 2 {
		sx, sy := c.r.ProjectToScreen(live[i], live[i+1])
		screenPoly[i] = float32(sx)
		screenPoly[i+1] = float32(sy)
	}
	_ = previewer.SetLassoPreview(screenPoly)
}
