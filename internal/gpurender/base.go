package gpurender

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/rclancey/earcut"

	"github.com/HackerRoomAI/hyper-scatter/internal/dataset"
	"github.com/HackerRoomAI/hyper-scatter/internal/palette"
	"github.com/HackerRoomAI/hyper-scatter/internal/polygon"
	"github.com/HackerRoomAI/hyper-scatter/internal/renderer"
	"github.com/HackerRoomAI/hyper-scatter/internal/spatial"
)

func sqrtf(v float64) float64 { return math.Sqrt(v) }

const (
	defaultPointRadiusPx = 3.0
	hitTestSlackPx       = 5.0
	minPointSizePx        = 2.0
	maxPointSizePx        = 28.0
	// densityShapeThreshold switches from circular to square sprites once the
	// dataset holds more than this many points, trading per-pixel roundness
	// for fill-rate headroom at very large point counts. densityShapeHysteresis
	// keeps a gap between the ON and OFF thresholds so a point count hovering
	// right at the line doesn't flicker shape every frame.
	densityShapeThreshold   = 300_000
	densityShapeHysteresis  = 30_000

	// interactionLODThreshold is the dataset size above which an active
	// pan/zoom gesture draws a subsampled point set instead of the full
	// upload; below it the full dataset is cheap enough to re-upload (or,
	// for Euclidean, never needs re-upload at all) every frame.
	interactionLODThreshold    = 500_000
	interactionLODTargetPoints = 150_000

	// staticUploadSubsampleThreshold bounds the GPU upload itself,
	// independent of interaction: above this point count even a settled,
	// non-interacting frame draws a stride-subsampled set rather than every
	// point, since a point-sprite draw call's fill-rate cost keeps climbing
	// long after individual points are no longer visually distinguishable.
	staticUploadSubsampleThreshold   = 10_000_000
	staticUploadSubsampleTargetPoints = 4_000_000
)

// Stats tracks the candidate renderer's performance, mirroring the shape
// of internal/refrender.Stats so the two renderers report comparable
// metrics.
type Stats struct {
	LastRenderTimeUs float64
	GrowthEvents     int
}

// base holds GPU state shared by both geometry candidate renderers: the
// shader program, the base point-cloud buffer, the hover-overlay buffer, and
// the lasso-fill triangle buffer. Geometry-specific pan/zoom/projection math
// lives in Euclidean and Poincare, each of which embeds base — mirroring
// internal/refrender's base/Euclidean/Poincare split and, further back, the
// teacher's single render.Renderer generalized into geometry-specific
// variants behind the shared renderer.Renderer contract.
type base struct {
	width, height int
	dpr           float64

	shaders *ShaderManager
	points  *dynamicVBO
	hover   *dynamicVBO
	lasso   *dynamicVBO

	ds          *dataset.Dataset
	grid        *spatial.Grid
	selection   dataset.Selection
	hovered     int
	pal         palette.Palette
	pointRadius float64

	bgColor        [4]float32
	selectionColor [4]float32
	lassoFillColor [4]float32

	dirty          bool // vertex buffer needs rebuilding before next Render
	interactionLOD bool // true while an active gesture is subsampling the upload
	lastShape      shapePolicy
	shapeInit      bool
	stats          Stats
}

func newBase() base {
	return base{
		hovered:        -1,
		pointRadius:    defaultPointRadiusPx,
		bgColor:        [4]float32{1, 1, 1, 1},
		selectionColor: [4]float32{1, 0.25, 0.25, 1},
		lassoFillColor: [4]float32{0.2, 0.45, 1, 0.18},
		dirty:          true,
	}
}

func (b *base) initGL(width, height int, dpr float64) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("gpurender: invalid viewport dimensions %dx%d", width, height)
	}
	if dpr <= 0 {
		dpr = 1
	}
	b.width, b.height, b.dpr = width, height, dpr
	if b.shaders == nil {
		b.shaders = NewShaderManager()
	}
	if b.points == nil {
		b.points = newDynamicVBO()
	}
	if b.hover == nil {
		b.hover = newDynamicVBO()
	}
	if b.lasso == nil {
		b.lasso = newDynamicVBO()
	}
	return nil
}

func (b *base) setDataset(ds *dataset.Dataset) {
	b.ds = ds
	b.hovered = -1
	b.selection = nil
	b.dirty = true
	b.interactionLOD = false
	if ds != nil {
		b.grid = spatial.Build(ds.Positions, ds.N)
	} else {
		b.grid = nil
	}
}

// beginInteraction engages subsampled uploads for the duration of an active
// gesture, once the dataset is large enough that re-uploading it in full
// every frame would be the bottleneck. EndInteraction reverses this the
// instant the gesture releases, so the view never settles on a visibly
// thinned-out frame.
func (b *base) beginInteraction() {
	if b.ds != nil && b.ds.N > interactionLODThreshold && !b.interactionLOD {
		b.interactionLOD = true
		b.dirty = true
	}
}

// EndInteraction implements renderer.InteractionEnder: it resets the
// interaction-LOD subsampling immediately on gesture release so the next
// render goes back to full fidelity rather than waiting for the next
// dataset/view change to notice.
func (b *base) EndInteraction() {
	if b.interactionLOD {
		b.interactionLOD = false
		b.dirty = true
	}
}

// lodStride returns the vertex-array stride to draw at. Two independent
// budgets apply, and the coarser one wins: a static upload cap that kicks
// in once the dataset itself is enormous (regardless of interaction), and
// the interaction-LOD cap that only applies while a gesture is active.
func (b *base) lodStride() int {
	if b.ds == nil {
		return 1
	}
	n := b.ds.N

	stride := 1
	if n > staticUploadSubsampleThreshold {
		stride = n / staticUploadSubsampleTargetPoints
		if stride < 1 {
			stride = 1
		}
	}

	if b.interactionLOD && n > interactionLODThreshold {
		interactiveStride := n / interactionLODTargetPoints
		if interactiveStride > stride {
			stride = interactiveStride
		}
	}
	return stride
}

func (b *base) setSelection(sel dataset.Selection) {
	b.selection = sel
	b.dirty = true
}

func (b *base) getSelection() dataset.Selection { return b.selection }

func (b *base) setHovered(i int) {
	b.hovered = i
	b.dirty = true
}

func (b *base) colorFor(i int) [4]float32 {
	if b.selection != nil && b.selection.Has(i) {
		return b.selectionColor
	}
	c := b.pal.ColorFor(b.ds.Labels[i])
	return [4]float32{float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255, float32(c.A) / 255}
}

// pointSizePx derives the on-screen sprite diameter from the base point
// radius, device pixel ratio, and current zoom, clamped to a sane range.
func pointSizePx(radius, dpr, zoom float64) float32 {
	size := 2 * radius * dpr * zoom
	if size < minPointSizePx {
		size = minPointSizePx
	}
	if size > maxPointSizePx {
		size = maxPointSizePx
	}
	return float32(size)
}

// shapePolicyFor is the stateless circle/square decision at a single
// threshold, used directly by tests and as the seed value for shapeFor's
// hysteresis band.
func shapePolicyFor(n int) shapePolicy {
	if n > densityShapeThreshold {
		return shapeSquare
	}
	return shapeCircle
}

// shapeFor applies a hysteresis band around densityShapeThreshold: once
// switched to square, n must drop densityShapeHysteresis below the
// threshold before switching back to circle, and vice versa. This keeps a
// point count hovering near the threshold from flipping shape every frame.
func (b *base) shapeFor(n int) shapePolicy {
	if !b.shapeInit {
		b.lastShape = shapePolicyFor(n)
		b.shapeInit = true
		return b.lastShape
	}
	switch b.lastShape {
	case shapeSquare:
		if n <= densityShapeThreshold-densityShapeHysteresis {
			b.lastShape = shapeCircle
		}
	default:
		if n > densityShapeThreshold+densityShapeHysteresis {
			b.lastShape = shapeSquare
		}
	}
	return b.lastShape
}

func (b *base) destroy() {
	if b.points != nil {
		b.points.destroy()
	}
	if b.hover != nil {
		b.hover.destroy()
	}
	if b.lasso != nil {
		b.lasso.destroy()
	}
	if b.shaders != nil {
		b.shaders.Destroy()
	}
	b.ds = nil
	b.selection = nil
}

// screenMapper mirrors internal/refrender's capability interface: both
// Euclidean and Poincare implement UnprojectFromScreen.
type screenMapper interface {
	UnprojectFromScreen(sx, sy float64) (x, y float64)
}

func unprojectPolyline(m screenMapper, polyline []float32) []float64 {
	out := make([]float64, len(polyline))
	for i := 0; i < len(polyline)/2; i++ {
		x, y := m.UnprojectFromScreen(float64(polyline[2*i]), float64(polyline[2*i+1]))
		out[2*i], out[2*i+1] = x, y
	}
	return out
}

// SetLassoPreview triangulates a live, in-progress lasso gesture's
// screen-space polyline with earcut and uploads it as a translucent fill
// overlay, cleared once fewer than 3 vertices remain. It is exposed on
// base so both geometry candidate renderers share the same triangulation
// path.
func (b *base) SetLassoPreview(polyline []float32) error {
	if len(polyline) < 6 {
		return b.lasso.upload(nil)
	}
	coords := make([]float64, len(polyline))
	for i, v := range polyline {
		coords[i] = float64(v)
	}
	indices, err := earcut.Earcut(coords, nil, 2)
	if err != nil {
		return fmt.Errorf("gpurender: lasso preview triangulation failed: %w", err)
	}
	vertices := make([]float32, 0, len(indices)*floatsPerVertex)
	for _, idx := range indices {
		vertices = flatVertex(vertices, coords[idx*2], coords[idx*2+1], b.lassoFillColor)
	}
	return b.lasso.upload(vertices)
}

func (b *base) drawLassoPreview() {
	b.lasso.drawLines(gl.TRIANGLES)
}

func selectIndicesInPolygon(ds *dataset.Dataset, dataPoly []float64) []int {
	var indices []int
	for i := 0; i < ds.N; i++ {
		if polygon.Contains(dataPoly, float64(ds.X(i)), float64(ds.Y(i))) {
			indices = append(indices, i)
		}
	}
	return indices
}

func msSince(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000.0
}

// countSelectionNaive mirrors internal/refrender's cooperative-yield
// materialization pass, except that a geometry-variant selection with a
// bounding box is counted via an AABB query against grid rather than a full
// dataset scan: only points whose cell intersects the lasso's bounding box
// are ever tested against the polygon.
func countSelectionNaive(ctx context.Context, ds *dataset.Dataset, grid *spatial.Grid, sel dataset.Selection, opts renderer.CountOptions) (int, error) {
	if n, exact := sel.Size(); exact {
		return n, nil
	}
	if ds == nil {
		return 0, nil
	}

	if ps, ok := sel.(dataset.PointSelection); ok && grid != nil && ps.Geometry.HasBounds {
		return countSelectionViaGrid(ctx, grid, ps, opts)
	}

	yieldEvery := opts.YieldEvery
	if yieldEvery <= 0 {
		yieldEvery = 8
	}
	budget := time.Duration(yieldEvery) * time.Millisecond

	count := 0
	lastYield := time.Now()
	for i := 0; i < ds.N; i++ {
		select {
		case <-ctx.Done():
			return count, nil
		default:
		}
		if opts.ShouldCancel != nil && opts.ShouldCancel() {
			return count, nil
		}
		if sel.Has(i) {
			count++
		}
		if time.Since(lastYield) >= budget {
			if opts.OnProgress != nil {
				opts.OnProgress(i+1, ds.N)
			}
			lastYield = time.Now()
		}
	}
	if opts.OnProgress != nil {
		opts.OnProgress(ds.N, ds.N)
	}
	return count, nil
}

// countSelectionViaGrid restricts the membership scan to candidates inside
// the selection's polygon bounding box, using grid's AABB query to skip
// every cell that cannot possibly intersect the lasso.
func countSelectionViaGrid(ctx context.Context, grid *spatial.Grid, ps dataset.PointSelection, opts renderer.CountOptions) (int, error) {
	yieldEvery := opts.YieldEvery
	if yieldEvery <= 0 {
		yieldEvery = 8
	}
	budget := time.Duration(yieldEvery) * time.Millisecond

	g := ps.Geometry
	count := 0
	visited := 0
	cancelled := false
	lastYield := time.Now()

	grid.ForEachInAABB(g.Xmin, g.Ymin, g.Xmax, g.Ymax, func(i int) {
		if cancelled {
			return
		}
		select {
		case <-ctx.Done():
			cancelled = true
			return
		default:
		}
		if opts.ShouldCancel != nil && opts.ShouldCancel() {
			cancelled = true
			return
		}
		visited++
		if ps.Has(i) {
			count++
		}
		if time.Since(lastYield) >= budget {
			if opts.OnProgress != nil {
				opts.OnProgress(visited, visited)
			}
			lastYield = time.Now()
		}
	})

	if opts.OnProgress != nil {
		opts.OnProgress(visited, visited)
	}
	return count, nil
}

func resolvePalette(hexColors []string) (palette.Palette, error) {
	if len(hexColors) > 0 {
		return palette.FromHex(hexColors)
	}
	return palette.Default(10, 42)
}
