package refrender

import (
	"context"
	"fmt"
	"time"

	"github.com/HackerRoomAI/hyper-scatter/internal/dataset"
	"github.com/HackerRoomAI/hyper-scatter/internal/geom"
	"github.com/HackerRoomAI/hyper-scatter/internal/palette"
	"github.com/HackerRoomAI/hyper-scatter/internal/renderer"
)

// Euclidean is the reference (CPU, ground-truth) renderer for the Euclidean
// geometry.
type Euclidean struct {
	base
	view geom.EuclideanView
}

// NewEuclidean constructs an uninitialized Euclidean reference renderer.
func NewEuclidean() *Euclidean {
	return &Euclidean{base: newBase(), view: geom.NewEuclideanView()}
}

func (r *Euclidean) Init(surface renderer.Surface, opts renderer.InitOptions) error {
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

func (r *Euclidean) SetDataset(ds *dataset.Dataset) error {
	if err := validateDataset(ds, dataset.Euclidean); err != nil {
		return err
	}
	r.setDataset(ds)
	return nil
}

func (r *Euclidean) SetView(v any) error {
	view, ok := v.(geom.EuclideanView)
	if !ok {
		return fmt.Errorf("refrender: expected geom.EuclideanView, got %T", v)
	}
	r.view = view
	return nil
}

func (r *Euclidean) GetView() any { return r.view }

func (r *Euclidean) Resize(width, height int) error { return r.reinit(width, height, r.dpr) }

func (r *Euclidean) Destroy() { r.destroy() }

func (r *Euclidean) SetSelection(sel dataset.Selection) { r.setSelection(sel) }
func (r *Euclidean) GetSelection() dataset.Selection    { return r.getSelection() }
func (r *Euclidean) SetHovered(i int)                   { r.setHovered(i) }

func (r *Euclidean) Pan(dx, dy float64, _ renderer.Modifiers) {
	r.view = geom.PanEuclidean(r.view, r.width, r.height, dx, dy)
}

func (r *Euclidean) Zoom(anchorX, anchorY, delta float64, _ renderer.Modifiers) {
	r.view = geom.ZoomEuclidean(r.view, r.width, r.height, anchorX, anchorY, delta)
}

func (r *Euclidean) ProjectToScreen(x, y float64) (float64, float64) {
	return geom.ProjectEuclidean(r.view, r.width, r.height, x, y)
}

func (r *Euclidean) UnprojectFromScreen(sx, sy float64) (float64, float64) {
	return geom.UnprojectEuclidean(r.view, r.width, r.height, sx, sy)
}

// Render draws the full frame: background, unselected points, selected
// points, then the hovered point on top.
func (r *Euclidean) Render() error {
	start := time.Now()
	r.clear()
	if r.ds != nil {
		r.drawPoints()
	}
	r.stats.LastRenderTimeUs = float64(time.Since(start).Microseconds())
	return nil
}

func (r *Euclidean) drawPoints() {
	n := r.ds.N
	// Pass 0 draws unselected points, pass 1 draws selected ones over them.
	for pass := 0; pass < 2; pass++ {
		for i := 0; i < n; i++ {
			if i == r.hovered {
				continue // drawn last, on top
			}
			selected := r.selection != nil && r.selection.Has(i)
			if selected != (pass == 1) {
				continue
			}
			sx, sy := r.ProjectToScreen(float64(r.ds.X(i)), float64(r.ds.Y(i)))
			if selected {
				r.drawFilledCircle(sx, sy, r.pointRadius+1, r.selectionColor)
			} else {
				r.drawFilledCircle(sx, sy, r.pointRadius, r.pal.ColorFor(r.ds.Labels[i]))
			}
		}
	}

	if r.hovered >= 0 && r.hovered < n {
		sx, sy := r.ProjectToScreen(float64(r.ds.X(r.hovered)), float64(r.ds.Y(r.hovered)))
		c := r.pal.ColorFor(r.ds.Labels[r.hovered])
		if r.selection != nil && r.selection.Has(r.hovered) {
			c = r.selectionColor
		}
		r.drawRing(sx, sy, r.pointRadius+3, 2, c)
		r.drawFilledCircle(sx, sy, r.pointRadius+1, c)
	}
}

// HitTest iterates every point (a naive ground-truth search), accepting the
// closest one within (r+5)² screen-pixels, lowest index wins ties.
func (r *Euclidean) HitTest(sx, sy float64) (*renderer.HitResult, error) {
	if r.ds == nil {
		return nil, nil
	}
	thresholdSq := (r.pointRadius + hitTestSlackPx) * (r.pointRadius + hitTestSlackPx)
	bestIdx := -1
	bestDistSq := thresholdSq
	for i := 0; i < r.ds.N; i++ {
		psx, psy := r.ProjectToScreen(float64(r.ds.X(i)), float64(r.ds.Y(i)))
		dx, dy := psx-sx, psy-sy
		distSq := dx*dx + dy*dy
		if distSq <= bestDistSq {
			// Strictly smaller OR first candidate at this distance keeps the
			// lowest index, since we iterate in ascending index order and
			// only replace on strict improvement.
			if bestIdx == -1 || distSq < bestDistSq {
				bestIdx, bestDistSq = i, distSq
			}
		}
	}
	if bestIdx == -1 {
		return nil, nil
	}
	psx, psy := r.ProjectToScreen(float64(r.ds.X(bestIdx)), float64(r.ds.Y(bestIdx)))
	return &renderer.HitResult{Index: bestIdx, ScreenX: psx, ScreenY: psy, Distance: sqrtf(bestDistSq)}, nil
}

// LassoSelect unprojects the screen polyline into data space and tests
// every point against it, returning an indices-variant selection — unlike
// the candidate renderer, the reference renderer always eagerly
// enumerates, since it exists for correctness, not scale.
func (r *Euclidean) LassoSelect(polyline []float32) (dataset.Selection, error) {
	start := time.Now()
	if len(polyline) < 6 || r.ds == nil {
		return dataset.NewIndicesSelection(0, nil, msSince(start)), nil
	}
	dataPoly := unprojectPolyline(r, polyline)
	indices := selectIndicesInPolygon(r.ds, dataPoly)
	return dataset.NewIndicesSelection(r.ds.N, indices, msSince(start)), nil
}

func (r *Euclidean) CountSelection(ctx context.Context, sel dataset.Selection, opts renderer.CountOptions) (int, error) {
	return countSelectionNaive(ctx, r.ds, sel, opts)
}

func resolvePalette(hexColors []string) (palette.Palette, error) {
	if len(hexColors) > 0 {
		return palette.FromHex(hexColors)
	}
	return palette.Default(10, 42)
}
