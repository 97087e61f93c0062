package gpurender

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/HackerRoomAI/hyper-scatter/internal/dataset"
	"github.com/HackerRoomAI/hyper-scatter/internal/geom"
	"github.com/HackerRoomAI/hyper-scatter/internal/renderer"
)

const (
	numRadialGeodesics   = 8
	numConcentricCircles = 5
	circleSegments       = 64
)

// Poincare is the GPU candidate renderer for the Poincaré disk geometry.
// Möbius transforms are not affine, so — unlike Euclidean — they cannot be
// folded into a single GL uniform matrix: every Pan/Zoom/SetView call
// re-projects every point on the CPU and re-uploads the vertex buffer
// before the next Render.
type Poincare struct {
	base
	view geom.PoincareView

	diskFillColor   [4]float32
	diskBorderColor [4]float32
	gridColor       [4]float32

	diskFill *dynamicVBO // GL_TRIANGLE_FAN
	gridLine *dynamicVBO // GL_LINES: border + radial geodesics + concentric circles
	backdropDirty bool

	hasPanAnchor           bool
	panAnchorX, panAnchorY float64
}

func NewPoincare() *Poincare {
	return &Poincare{
		base:            newBase(),
		view:            geom.NewPoincareView(),
		diskFillColor:   [4]float32{0.96, 0.96, 0.98, 1},
		diskBorderColor: [4]float32{0.16, 0.16, 0.2, 1},
		gridColor:       [4]float32{0.82, 0.82, 0.86, 1},
		backdropDirty:   true,
	}
}

func (r *Poincare) Init(surface renderer.Surface, opts renderer.InitOptions) error {
	dpr := opts.DevicePixelRatio
	if dpr <= 0 {
		dpr = 1
	}
	if err := r.initGL(opts.Width, opts.Height, dpr); err != nil {
		return err
	}
	if r.diskFill == nil {
		r.diskFill = newDynamicVBO()
	}
	if r.gridLine == nil {
		r.gridLine = newDynamicVBO()
	}
	if opts.PointRadius > 0 {
		r.pointRadius = opts.PointRadius
	}
	pal, err := resolvePalette(opts.Colors)
	if err != nil {
		return err
	}
	r.pal = pal
	r.backdropDirty = true
	return nil
}

func (r *Poincare) SetDataset(ds *dataset.Dataset) error {
	if ds.Geometry != dataset.Poincare {
		return fmt.Errorf("gpurender: dataset geometry %s does not match renderer geometry poincare", ds.Geometry)
	}
	r.setDataset(ds)
	return nil
}

func (r *Poincare) SetView(v any) error {
	view, ok := v.(geom.PoincareView)
	if !ok {
		return fmt.Errorf("gpurender: expected geom.PoincareView, got %T", v)
	}
	r.view = view
	r.dirty = true
	r.backdropDirty = true
	return nil
}

func (r *Poincare) GetView() any { return r.view }

func (r *Poincare) Resize(width, height int) error {
	if err := r.initGL(width, height, r.dpr); err != nil {
		return err
	}
	r.dirty = true
	r.backdropDirty = true
	return nil
}

func (r *Poincare) Destroy() {
	if r.diskFill != nil {
		r.diskFill.destroy()
	}
	if r.gridLine != nil {
		r.gridLine.destroy()
	}
	r.destroy()
}

func (r *Poincare) SetSelection(sel dataset.Selection) { r.setSelection(sel) }
func (r *Poincare) GetSelection() dataset.Selection    { return r.getSelection() }
func (r *Poincare) SetHovered(i int)                   { r.setHovered(i) }

func (r *Poincare) StartPan(x, y float64) {
	r.panAnchorX, r.panAnchorY = x, y
	r.hasPanAnchor = true
}

func (r *Poincare) Pan(dx, dy float64, _ renderer.Modifiers) {
	startX, startY := float64(r.width)/2, float64(r.height)/2
	if r.hasPanAnchor {
		startX, startY = r.panAnchorX, r.panAnchorY
	}
	endX, endY := startX+dx, startY+dy
	r.view = geom.PanPoincare(r.view, r.width, r.height, startX, startY, endX, endY)
	r.panAnchorX, r.panAnchorY = endX, endY
	r.hasPanAnchor = true
	r.dirty = true
	r.backdropDirty = true
	r.beginInteraction()
}

func (r *Poincare) Zoom(anchorX, anchorY, delta float64, _ renderer.Modifiers) {
	r.view = geom.ZoomPoincare(r.view, r.width, r.height, anchorX, anchorY, delta)
	r.dirty = true
	r.backdropDirty = true
	r.beginInteraction()
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

func (r *Poincare) insideDisk(sx, sy float64) bool {
	cx, cy := float64(r.width)/2, float64(r.height)/2
	rad := r.diskRadius()
	dx, dy := sx-cx, sy-cy
	return dx*dx+dy*dy <= rad*rad
}

func flatVertex(vertices []float32, x, y float64, c [4]float32) []float32 {
	return append(vertices, float32(x), float32(y), c[0], c[1], c[2], c[3])
}

// rebuildBackdrop regenerates the disk fill (triangle fan) and grid lines
// (border + radial geodesics + concentric circles) in screen space, since
// the Poincaré backdrop is anchored to the viewport, not data space.
func (r *Poincare) rebuildBackdrop() {
	cx, cy := float64(r.width)/2, float64(r.height)/2
	rad := r.diskRadius()

	fill := make([]float32, 0, (circleSegments+2)*floatsPerVertex)
	fill = flatVertex(fill, cx, cy, r.diskFillColor)
	for i := 0; i <= circleSegments; i++ {
		theta := 2 * math.Pi * float64(i) / float64(circleSegments)
		fill = flatVertex(fill, cx+rad*math.Cos(theta), cy+rad*math.Sin(theta), r.diskFillColor)
	}
	r.diskFill.upload(fill)

	var lines []float32
	lines = appendCircleLines(lines, cx, cy, rad, r.diskBorderColor)
	for i := 0; i < numRadialGeodesics; i++ {
		theta := float64(i) * math.Pi / float64(numRadialGeodesics)
		x0, y0 := cx-rad*math.Cos(theta), cy-rad*math.Sin(theta)
		x1, y1 := cx+rad*math.Cos(theta), cy+rad*math.Sin(theta)
		lines = flatVertex(lines, x0, y0, r.gridColor)
		lines = flatVertex(lines, x1, y1, r.gridColor)
	}
	for i := 1; i <= numConcentricCircles; i++ {
		lines = appendCircleLines(lines, cx, cy, rad*float64(i)/float64(numConcentricCircles+1), r.gridColor)
	}
	r.gridLine.upload(lines)

	r.backdropDirty = false
}

func appendCircleLines(vertices []float32, cx, cy, radius float64, c [4]float32) []float32 {
	for i := 0; i < circleSegments; i++ {
		t0 := 2 * math.Pi * float64(i) / float64(circleSegments)
		t1 := 2 * math.Pi * float64(i+1) / float64(circleSegments)
		vertices = flatVertex(vertices, cx+radius*math.Cos(t0), cy+radius*math.Sin(t0), c)
		vertices = flatVertex(vertices, cx+radius*math.Cos(t1), cy+radius*math.Sin(t1), c)
	}
	return vertices
}

func (r *Poincare) rebuildVertices() []float32 {
	n := r.ds.N
	stride := r.lodStride()
	vertices := make([]float32, 0, (n/stride+1)*floatsPerVertex)
	for i := 0; i < n; i += stride {
		if i == r.hovered {
			continue
		}
		sx, sy := r.ProjectToScreen(float64(r.ds.X(i)), float64(r.ds.Y(i)))
		if !r.insideDisk(sx, sy) {
			continue
		}
		c := r.colorFor(i)
		vertices = flatVertex(vertices, sx, sy, c)
	}
	return vertices
}

func (r *Poincare) Render() error {
	start := time.Now()
	gl.ClearColor(r.bgColor[0], r.bgColor[1], r.bgColor[2], r.bgColor[3])
	gl.Clear(gl.COLOR_BUFFER_BIT)

	ndc := screenToNDCAffine(r.width, r.height)

	r.shaders.Use()
	r.shaders.SetTransform(ndc.ToMatrix4())
	r.shaders.SetShapePolicy(shapeSquare) // no point-sprite discard for fills/lines

	if r.backdropDirty {
		r.rebuildBackdrop()
	}
	r.diskFill.drawLines(gl.TRIANGLE_FAN)
	r.gridLine.drawLines(gl.LINES)

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

	r.shaders.SetShapePolicy(r.shapeFor(r.ds.N))
	size := pointSizePx(r.pointRadius, r.dpr, r.view.DisplayZoom)
	r.points.drawPoints(r.shaders.PointSizeLoc(), size)

	if r.hovered >= 0 && r.hovered < r.ds.N {
		sx, sy := r.ProjectToScreen(float64(r.ds.X(r.hovered)), float64(r.ds.Y(r.hovered)))
		if r.insideDisk(sx, sy) {
			c := r.colorFor(r.hovered)
			hoverVerts := flatVertex(nil, sx, sy, c)
			if err := r.hover.upload(hoverVerts); err != nil {
				return err
			}
			r.hover.drawPoints(r.shaders.PointSizeLoc(), size+4)
		}
	}

	r.shaders.SetShapePolicy(shapeSquare)
	r.drawLassoPreview()

	r.stats.LastRenderTimeUs = float64(time.Since(start).Microseconds())
	return nil
}

// HitTest uses the spatial grid to narrow candidates to the AABB around the
// unprojected cursor position. Because the Möbius projection isn't affine,
// the data-space query radius is bounded conservatively via
// geom.ConservativeDataRadius rather than a single closed-form scale.
func (r *Poincare) HitTest(sx, sy float64) (*renderer.HitResult, error) {
	if r.ds == nil || r.grid == nil {
		return nil, nil
	}
	threshold := r.pointRadius + hitTestSlackPx
	thresholdSq := threshold * threshold

	ux, uy := r.UnprojectFromScreen(sx, sy)
	dataRadius := geom.ConservativeDataRadius(r.view, r.width, r.height, geom.Point{X: ux, Y: uy}, threshold)

	bestIdx := -1
	bestDistSq := thresholdSq
	r.grid.ForEachInAABB(ux-dataRadius, uy-dataRadius, ux+dataRadius, uy+dataRadius, func(i int) {
		psx, psy := r.ProjectToScreen(float64(r.ds.X(i)), float64(r.ds.Y(i)))
		if !r.insideDisk(psx, psy) {
			return
		}
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

// LassoSelect returns the geometry-variant selection, same rationale as
// Euclidean.LassoSelect: the candidate renderer never eagerly materializes
// an index slice.
func (r *Poincare) LassoSelect(polyline []float32) (dataset.Selection, error) {
	start := time.Now()
	if len(polyline) < 6 || r.ds == nil {
		return dataset.PointSelection{Geometry: dataset.NewGeometrySelection(nil, msSince(start)), Data: r.ds}, nil
	}
	dataPoly := unprojectPolyline(r, polyline)
	geomSel := dataset.NewGeometrySelection(dataPoly, msSince(start))
	return dataset.PointSelection{Geometry: geomSel, Data: r.ds}, nil
}

func (r *Poincare) CountSelection(ctx context.Context, sel dataset.Selection, opts renderer.CountOptions) (int, error) {
	return countSelectionNaive(ctx, r.ds, r.grid, sel, opts)
}
