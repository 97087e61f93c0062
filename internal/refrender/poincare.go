package refrender

import (
	"context"
	"fmt"
	"image/color"
	"math"
	"time"

	"github.com/HackerRoomAI/hyper-scatter/internal/dataset"
	"github.com/HackerRoomAI/hyper-scatter/internal/geom"
	"github.com/HackerRoomAI/hyper-scatter/internal/renderer"
)

const (
	numRadialGeodesics  = 8
	numConcentricCircles = 5
)

// Poincare is the reference (CPU, ground-truth) renderer for the Poincaré
// disk geometry.
type Poincare struct {
	base
	view geom.PoincareView

	diskFillColor   color.RGBA
	diskBorderColor color.RGBA
	gridColor       color.RGBA

	hasPanAnchor           bool
	panAnchorX, panAnchorY float64
}

// NewPoincare constructs an uninitialized Poincaré reference renderer.
func NewPoincare() *Poincare {
	return &Poincare{
		base:            newBase(),
		view:            geom.NewPoincareView(),
		diskFillColor:   color.RGBA{245, 245, 250, 255},
		diskBorderColor: color.RGBA{40, 40, 50, 255},
		gridColor:       color.RGBA{210, 210, 220, 255},
	}
}

func (r *Poincare) Init(surface renderer.Surface, opts renderer.InitOptions) error {
	dpr := opts.DevicePixelRatio
	if dpr <= 0 {
		dpr = 1
	}
	if err := r.reinit(opts.Width, opts.Height, dpr); err != nil {
		return err
	}
	if opts.PointRadius > 0 {
		r.pointRadius = opts.PointRadius
	}
	pal, err := resolvePalette(opts.Colors)
	if err != nil {
		return err
	}
	r.pal = pal
	return nil
}

func (r *Poincare) SetDataset(ds *dataset.Dataset) error {
	if err := validateDataset(ds, dataset.Poincare); err != nil {
		return err
	}
	r.setDataset(ds)
	return nil
}

func (r *Poincare) SetView(v any) error {
	view, ok := v.(geom.PoincareView)
	if !ok {
		return fmt.Errorf("refrender: expected geom.PoincareView, got %T", v)
	}
	r.view = view
	return nil
}

func (r *Poincare) GetView() any { return r.view }

func (r *Poincare) Resize(width, height int) error { return r.reinit(width, height, r.dpr) }

func (r *Poincare) Destroy() { r.destroy() }

func (r *Poincare) SetSelection(sel dataset.Selection) { r.setSelection(sel) }
func (r *Poincare) GetSelection() dataset.Selection    { return r.getSelection() }
func (r *Poincare) SetHovered(i int)                   { r.setHovered(i) }

// StartPan records the gesture's starting screen position as the anchor
// used by the next Pan call.
func (r *Poincare) StartPan(x, y float64) {
	r.panAnchorX, r.panAnchorY = x, y
	r.hasPanAnchor = true
}

// Pan interprets (dx,dy) relative to the last StartPan anchor (or the
// canvas center, if StartPan was never called) and solves the anchor-
// invariant Möbius translation via geom.PanPoincare.
func (r *Poincare) Pan(dx, dy float64, _ renderer.Modifiers) {
	startX, startY := float64(r.width)/2, float64(r.height)/2
	if r.hasPanAnchor {
		startX, startY = r.panAnchorX, r.panAnchorY
	}
	endX, endY := startX+dx, startY+dy
	r.view = geom.PanPoincare(r.view, r.width, r.height, startX, startY, endX, endY)
	r.panAnchorX, r.panAnchorY = endX, endY
	r.hasPanAnchor = true
}

func (r *Poincare) Zoom(anchorX, anchorY, delta float64, _ renderer.Modifiers) {
	r.view = geom.ZoomPoincare(r.view, r.width, r.height, anchorX, anchorY, delta)
}

func (r *Poincare) ProjectToScreen(x, y float64) (float64, float64) {
	return geom.ProjectPoincare(r.view, r.width, r.height, x, y)
}

func (r *Poincare) UnprojectFromScreen(sx, sy float64) (float64, float64) {
	return geom.UnprojectPoincare(r.view, r.width, r.height, sx, sy)
}

func (r *Poincare) diskRadius() float64 {
	return math.Min(float64(r.width), float64(r.height)) * 0.45 * r.view.DisplayZoom
}

// Render draws the backdrop (disk fill, border, geodesics, concentric
// circles), then points, then the hovered point on top.
func (r *Poincare) Render() error {
	start := time.Now()
	r.clear()
	r.drawBackdrop()
	if r.ds != nil {
		r.drawPoints()
	}
	r.stats.LastRenderTimeUs = float64(time.Since(start).Microseconds())
	return nil
}

func (r *Poincare) drawBackdrop() {
	cx, cy := float64(r.width)/2, float64(r.height)/2
	rad := r.diskRadius()

	r.drawFilledCircle(cx, cy, rad, r.diskFillColor)
	r.drawRing(cx, cy, rad, 2, r.diskBorderColor)

	for i := 0; i < numRadialGeodesics; i++ {
		theta := float64(i) * math.Pi / float64(numRadialGeodesics)
		x0 := cx - rad*math.Cos(theta)
		y0 := cy - rad*math.Sin(theta)
		x1 := cx + rad*math.Cos(theta)
		y1 := cy + rad*math.Sin(theta)
		r.drawLine(x0, y0, x1, y1, r.gridColor)
	}

	for i := 1; i <= numConcentricCircles; i++ {
		r.drawRing(cx, cy, rad*float64(i)/float64(numConcentricCircles+1), 1, r.gridColor)
	}
}

func (r *Poincare) drawPoints() {
	n := r.ds.N
	for i := 0; i < n; i++ {
		if i == r.hovered {
			continue
		}
		sx, sy := r.ProjectToScreen(float64(r.ds.X(i)), float64(r.ds.Y(i)))
		if !r.insideDisk(sx, sy) {
			continue
		}
		selected := r.selection != nil && r.selection.Has(i)
		if selected {
			r.drawFilledCircle(sx, sy, r.pointRadius+1, r.selectionColor)
		} else {
			r.drawFilledCircle(sx, sy, r.pointRadius, r.pal.ColorFor(r.ds.Labels[i]))
		}
	}

	if r.hovered >= 0 && r.hovered < n {
		sx, sy := r.ProjectToScreen(float64(r.ds.X(r.hovered)), float64(r.ds.Y(r.hovered)))
		if r.insideDisk(sx, sy) {
			c := r.pal.ColorFor(r.ds.Labels[r.hovered])
			if r.selection != nil && r.selection.Has(r.hovered) {
				c = r.selectionColor
			}
			r.drawRing(sx, sy, r.pointRadius+3, 2, c)
			r.drawFilledCircle(sx, sy, r.pointRadius+1, c)
		}
	}
}

func (r *Poincare) insideDisk(sx, sy float64) bool {
	cx, cy := float64(r.width)/2, float64(r.height)/2
	rad := r.diskRadius()
	dx, dy := sx-cx, sy-cy
	return dx*dx+dy*dy <= rad*rad
}

// HitTest iterates every point, rejecting any whose projection falls
// outside the disk, accepting the closest one within (r+5)² screen-pixels.
func (r *Poincare) HitTest(sx, sy float64) (*renderer.HitResult, error) {
	if r.ds == nil {
		return nil, nil
	}
	thresholdSq := (r.pointRadius + hitTestSlackPx) * (r.pointRadius + hitTestSlackPx)
	bestIdx := -1
	bestDistSq := thresholdSq
	for i := 0; i < r.ds.N; i++ {
		psx, psy := r.ProjectToScreen(float64(r.ds.X(i)), float64(r.ds.Y(i)))
		if !r.insideDisk(psx, psy) {
			continue
		}
		dx, dy := psx-sx, psy-sy
		distSq := dx*dx + dy*dy
		if distSq <= bestDistSq && (bestIdx == -1 || distSq < bestDistSq) {
			bestIdx, bestDistSq = i, distSq
		}
	}
	if bestIdx == -1 {
		return nil, nil
	}
	psx, psy := r.ProjectToScreen(float64(r.ds.X(bestIdx)), float64(r.ds.Y(bestIdx)))
	return &renderer.HitResult{Index: bestIdx, ScreenX: psx, ScreenY: psy, Distance: sqrtf(bestDistSq)}, nil
}

func (r *Poincare) LassoSelect(polyline []float32) (dataset.Selection, error) {
	start := time.Now()
	if len(polyline) < 6 || r.ds == nil {
		return dataset.NewIndicesSelection(0, nil, msSince(start)), nil
	}
	dataPoly := unprojectPolyline(r, polyline)
	indices := selectIndicesInPolygon(r.ds, dataPoly)
	return dataset.NewIndicesSelection(r.ds.N, indices, msSince(start)), nil
}

func (r *Poincare) CountSelection(ctx context.Context, sel dataset.Selection, opts renderer.CountOptions) (int, error) {
	return countSelectionNaive(ctx, r.ds, sel, opts)
}
