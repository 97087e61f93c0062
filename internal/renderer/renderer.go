// Package renderer defines the geometry-agnostic Renderer contract and a
// capability-set dispatch table: a pair of tagged (geometry × backend)
// variants rather than a class hierarchy. Concrete implementations live in
// internal/refrender (the CPU ground-truth renderer) and internal/gpurender
// (the GPU candidate renderer); both satisfy Renderer structurally, with no
// shared base type required by this package.
package renderer

import (
	"context"

	"github.com/HackerRoomAI/hyper-scatter/internal/dataset"
)

// HitResult is returned by HitTest on a successful pick.
type HitResult struct {
	Index            int
	ScreenX, ScreenY float64
	Distance         float64
}

// Modifiers carries the keyboard-modifier state accompanying a pan/zoom
// gesture. No current Renderer implementation branches on it, but the
// contract includes it so input-specific behavior (e.g. constrained-axis
// pan) can be added without changing the interface.
type Modifiers struct {
	Shift, Ctrl, Alt, Meta bool
}

// CountOptions configures an async countSelection materialization pass.
type CountOptions struct {
	ShouldCancel func() bool
	OnProgress   func(counted, total int)
	YieldEvery   int // approximate wall-clock budget in milliseconds between yields
}

// Surface describes the minimum a drawable surface must report so a
// Renderer can size its backing resources. Concrete surfaces (an
// *image.RGBA-backed CPU target, a GL-context-bearing window) carry
// additional, implementation-specific capabilities beyond this.
type Surface interface {
	Size() (width, height int)
}

// InitOptions configures a Renderer at construction.
type InitOptions struct {
	Width, Height     int
	DevicePixelRatio  float64
	BackgroundColor   string
	PointRadius       float64
	Colors            []string // hex palette; if empty, a default palette is generated
	PoincareDiskFill  string
	PoincareDiskBorder string
	PoincareGridColor string
	PoincareDiskBorderWidthPx float64
	PoincareGridWidthPx       float64
}

// Renderer is the geometry-agnostic capability set every implementation
// (reference × {euclidean,poincare}, candidate × {euclidean,poincare})
// exposes.
type Renderer interface {
	Init(surface Surface, opts InitOptions) error
	SetDataset(ds *dataset.Dataset) error
	SetView(view any) error
	GetView() any
	Render() error
	Resize(width, height int) error
	Destroy()

	SetSelection(sel dataset.Selection)
	GetSelection() dataset.Selection

	SetHovered(index int)

	Pan(dx, dy float64, mods Modifiers)
	Zoom(anchorX, anchorY, delta float64, mods Modifiers)

	HitTest(sx, sy float64) (*HitResult, error)
	LassoSelect(polyline []float32) (dataset.Selection, error)
	CountSelection(ctx context.Context, sel dataset.Selection, opts CountOptions) (int, error)

	ProjectToScreen(x, y float64) (sx, sy float64)
	UnprojectFromScreen(sx, sy float64) (x, y float64)
}

// PanStarter is the optional capability a renderer exposes when it needs an
// explicit pan-gesture anchor — currently only the Poincaré geometry, whose
// anchor-invariant pan solves for a new Möbius parameter relative to the
// gesture's start point rather than a simple vector delta.
type PanStarter interface {
	StartPan(x, y float64)
}

// InteractionEnder is the optional capability a renderer exposes to reset
// its interaction-LOD timer immediately on gesture release, avoiding a
// visible density pop.
type InteractionEnder interface {
	EndInteraction()
}

// LassoPreviewer is the optional capability a renderer exposes to draw the
// live, in-progress lasso polyline as a translucent fill overlay while the
// gesture is still active. The reference renderer has no use for this — it
// has no persistent GPU overlay to maintain — so only the GPU candidate
// renderers implement it.
type LassoPreviewer interface {
	SetLassoPreview(polyline []float32) error
}

// Backend selects which renderer implementation a geometry is paired with.
type Backend int

const (
	Reference Backend = iota
	Candidate
)
