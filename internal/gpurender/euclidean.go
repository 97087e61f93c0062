package gpurender

import (
	"context"
	"fmt"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/HackerRoomAI/hyper-scatter/internal/dataset"
	"github.com/HackerRoomAI/hyper-scatter/internal/geom"
	"github.com/HackerRoomAI/hyper-scatter/internal/renderer"
)

// Euclidean is the GPU candidate renderer for the Euclidean geometry. Unlike
// Poincare, its data-to-screen projection is affine, so pan/zoom only update
// a shader uniform (geom.Affine.ToMatrix4) — point positions are uploaded
// once per dataset and never re-uploaded on view changes, except when an
// interaction-LOD subsampling switch takes effect (see base.beginInteraction).
type Euclidean struct {
	base
	view geom.EuclideanView
}

func NewEuclidean() *Euclidean {
	return &Euclidean{base: newBase(), view: geom.NewEuclideanView()}
}

func (r *Euclidean) Init(surface renderer.Surface, opts renderer.InitOptions) error {
	dpr := opts.DevicePixelRatio
	if dpr <= 0 {
		dpr = 1
	}
	if err := r.initGL(opts.Width, opts.Height, dpr); err != nil {
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
	if ds.Geometry != dataset.Euclidean {
		return fmt.Errorf("gpurender: dataset geometry %s does not match renderer geometry euclidean", ds.Geometry)
	}
	r.setDataset(ds)
	return nil
}

func (r *Euclidean) SetView(v any) error {
	view, ok := v.(geom.EuclideanView)
	if !ok {
		return fmt.Errorf("gpurender: expected geom.EuclideanView, got %T", v)
	}
	r.view = view
	return nil
}

func (r *Euclidean) GetView() any { return r.view }

func (r *Euclidean) Resize(width, height int) error {
	return r.initGL(width, height, r.dpr)
}

func (r *Euclidean) Destroy() { r.destroy() }

func (r *Euclidean) SetSelection(sel dataset.Selection) { r.setSelection(sel) }
func (r *Euclidean) GetSelection() dataset.Selection    { return r.getSelection() }
func (r *Euclidean) SetHovered(i int)                   { r.setHovered(i) }

func (r *Euclidean) Pan(dx, dy float64, _ renderer.Modifiers) {
	r.view = geom.PanEuclidean(r.view, r.width, r.height, dx, dy)
	r.beginInteraction()
}

func (r *Euclidean) Zoom(anchorX, anchorY, delta float64, _ renderer.Modifiers) {
	r.view = geom.ZoomEuclidean(r.view, r.width, r.height, anchorX, anchorY, delta)
	r.beginInteraction()
}

func (r *Euclidean) ProjectToScreen(x, y float64) (float64, float64) {
	return geom.ProjectEuclidean(r.view, r.width, r.height, x, y)
}

func (r *Euclidean) UnprojectFromScreen(sx, sy float64) (float64, float64) {
	return geom.UnprojectEuclidean(r.view, r.width, r.height, sx, sy)
}

// dataToScreenAffine returns the affine transform ProjectEuclidean computes
// pointwise, expressed as a geom.Affine so it can be folded into a single GL
// uniform alongside the screen-to-NDC transform.
func (r *Euclidean) dataToScreenAffine() geom.Affine {
	s := geom.EuclideanScale(r.width, r.height, r.view.Zoom)
	return geom.MakeAffine(
		s, 0, float64(r.width)/2-s*r.view.CenterX,
		0, -s, float64(r.height)/2+s*r.view.CenterY,
	)
}

func screenToNDCAffine(width, height int) geom.Affine {
	return geom.MakeAffine(
		2.0/float64(width), 0, -1,
		0, -2.0/float64(height), 1,
	)
}

func (r *Euclidean) rebuildVertices() []float32 {
	n := r.ds.N
	stride := r.lodStride()
	vertices := make([]float32, 0, (n/stride+1)*floatsPerVertex)
	for i := 0; i < n; i += stride {
		if i == r.hovered {
			continue
		}
		c := r.colorFor(i)
		vertices = append(vertices, r.ds.X(i), r.ds.Y(i), c[0], c[1], c[2], c[3])
	}
	return vertices
}

func (r *Euclidean) Render() error {
	start := time.Now()
	gl.ClearColor(r.bgColor[0], r.bgColor[1], r.bgColor[2], r.bgColor[3])
	gl.Clear(gl.COLOR_BUFFER_BIT)

	if r.ds == nil {
		r.stats.LastRenderTimeUs = float64(time.Since(start).Microseconds())
		return nil
	}

	if r.dirty {
		if err := r.points.upload(r.rebuildVertices()); err != nil {
			return err
		}
		r.dirty = false
	}

	screenNDC := screenToNDCAffine(r.width, r.height)
	ndc := screenNDC.Mul(r.dataToScreenAffine())

	r.shaders.Use()
	r.shaders.SetTransform(ndc.ToMatrix4())
	r.shaders.SetShapePolicy(r.shapeFor(r.ds.N))
	size := pointSizePx(r.pointRadius, r.dpr, r.view.Zoom)
	r.points.drawPoints(r.shaders.PointSizeLoc(), size)

	if r.hovered >= 0 && r.hovered < r.ds.N {
		c := r.colorFor(r.hovered)
		hoverVerts := []float32{
			r.ds.X(r.hovered), r.ds.Y(r.hovered), c[0], c[1], c[2], c[3],
		}
		if err := r.hover.upload(hoverVerts); err != nil {
			return err
		}
		r.hover.drawPoints(r.shaders.PointSizeLoc(), size+4)
	}

	// Lasso preview vertices are already in screen space (the controller
	// feeds the live gesture polyline straight from pointer events), so they
	// need just the screen-to-NDC leg, not the data-to-screen one.
	r.shaders.SetTransform(screenNDC.ToMatrix4())
	r.shaders.SetShapePolicy(shapeSquare)
	r.drawLassoPreview()

	r.stats.LastRenderTimeUs = float64(time.Since(start).Microseconds())
	return nil
}

// HitTest uses the spatial grid to narrow candidates to the AABB around the
// unprojected cursor position (sized by the screen-space hit threshold
// converted to data space via the current affine scale) instead of scanning
// every point.
func (r *Euclidean) HitTest(sx, sy float64) (*renderer.HitResult, error) {
	if r.ds == nil || r.grid == nil {
		return nil, nil
	}
	threshold := r.pointRadius + hitTestSlackPx
	thresholdSq := threshold * threshold

	ux, uy := r.UnprojectFromScreen(sx, sy)
	scale := geom.EuclideanScale(r.width, r.height, r.view.Zoom)
	dataRadius := threshold / scale

	bestIdx := -1
	bestDistSq := thresholdSq
	r.grid.ForEachInAABB(ux-dataRadius, uy-dataRadius, ux+dataRadius, uy+dataRadius, func(i int) {
		psx, psy := r.ProjectToScreen(float64(r.ds.X(i)), float64(r.ds.Y(i)))
		dx, dy := psx-sx, psy-sy
		distSq := dx*dx + dy*dy
		if distSq > bestDistSq {
			return
		}
		if bestIdx == -1 || distSq < bestDistSq || (distSq == bestDistSq && i < bestIdx) {
			bestIdx, bestDistSq = i, distSq
		}
	})
	if bestIdx == -1 {
		return nil, nil
	}
	psx, psy := r.ProjectToScreen(float64(r.ds.X(bestIdx)), float64(r.ds.Y(bestIdx)))
	return &renderer.HitResult{Index: bestIdx, ScreenX: psx, ScreenY: psy, Distance: sqrtf(bestDistSq)}, nil
}

// LassoSelect returns the geometry-variant selection: the candidate renderer
// exists to scale, so it never eagerly materializes an index slice the way
// the reference renderer does.
func (r *Euclidean) LassoSelect(polyline []float32) (dataset.Selection, error) {
	start := time.Now()
	if len(polyline) < 6 || r.ds == nil {
		return dataset.PointSelection{Geometry: dataset.NewGeometrySelection(nil, msSince(start)), Data: r.ds}, nil
	}
	dataPoly := unprojectPolyline(r, polyline)
	geomSel := dataset.NewGeometrySelection(dataPoly, msSince(start))
	return dataset.PointSelection{Geometry: geomSel, Data: r.ds}, nil
}

func (r *Euclidean) CountSelection(ctx context.Context, sel dataset.Selection, opts renderer.CountOptions) (int, error) {
	return countSelectionNaive(ctx, r.ds, r.grid, sel, opts)
}
