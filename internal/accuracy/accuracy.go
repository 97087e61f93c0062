// Package accuracy implements a reference-vs-candidate comparison suite:
// initialize both a reference and a candidate renderer against the same
// dataset and view, drive each through an identical sequence of
// operations, and report whether their outputs agree within a per-check
// numeric tolerance.
package accuracy

import (
	"context"
	"fmt"
	"math"

	"github.com/HackerRoomAI/hyper-scatter/internal/dataset"
	"github.com/HackerRoomAI/hyper-scatter/internal/geom"
	"github.com/HackerRoomAI/hyper-scatter/internal/renderer"
)

// Check is one named operation's pass/fail result, returned as a plain
// struct rather than an error-chain or panic.
type Check struct {
	Name     string
	Passed   bool
	MaxError float64
	Detail   string
}

// Report is the full suite's outcome: a list of operations, each with a
// pass/fail verdict, a max observed error, and an optional textual detail.
type Report struct {
	Geometry renderer.Geometry
	Checks   []Check
}

// Passed reports whether every check in the report passed.
func (r Report) Passed() bool {
	for _, c := range r.Checks {
		if !c.Passed {
			return false
		}
	}
	return true
}

func (r *Report) record(name string, maxErr, tolerance float64, detail string) {
	r.Checks = append(r.Checks, Check{
		Name:     name,
		Passed:   maxErr <= tolerance,
		MaxError: maxErr,
		Detail:   detail,
	})
}

type stubSurface struct{ w, h int }

func (s stubSurface) Size() (int, int) { return s.w, s.h }

// Run executes the full comparison suite for one geometry: reference and
// candidate renderers are constructed via renderer.New, initialized
// identically against ds and an initial view, then compared operation by
// operation.
func Run(ctx context.Context, geometry renderer.Geometry, ds *dataset.Dataset, opts renderer.InitOptions) (Report, error) {
	report := Report{Geometry: geometry}

	ref, err := renderer.New(geometry, renderer.Reference)
	if err != nil {
		return report, fmt.Errorf("accuracy: %w", err)
	}
	cand, err := renderer.New(geometry, renderer.Candidate)
	if err != nil {
		return report, fmt.Errorf("accuracy: %w", err)
	}

	surface := stubSurface{w: opts.Width, h: opts.Height}
	if err := ref.Init(surface, opts); err != nil {
		return report, fmt.Errorf("accuracy: reference init: %w", err)
	}
	if err := cand.Init(surface, opts); err != nil {
		return report, fmt.Errorf("accuracy: candidate init: %w", err)
	}
	if err := ref.SetDataset(ds); err != nil {
		return report, fmt.Errorf("accuracy: reference SetDataset: %w", err)
	}
	if err := cand.SetDataset(ds); err != nil {
		return report, fmt.Errorf("accuracy: candidate SetDataset: %w", err)
	}

	initialView := initialViewFor(geometry)
	if err := ref.SetView(initialView); err != nil {
		return report, fmt.Errorf("accuracy: reference SetView: %w", err)
	}
	if err := cand.SetView(initialView); err != nil {
		return report, fmt.Errorf("accuracy: candidate SetView: %w", err)
	}

	checkProjection(&report, ref, cand, ds)
	checkProjectionRoundTrip(&report, ref, cand, ds)
	if geometry == renderer.GeometryPoincare {
		checkNearBoundary(&report, ref, cand, ds)
	}
	checkPan(&report, ref, cand, geometry, initialView)
	checkZoom(&report, ref, cand, geometry, initialView)
	checkHitTest(&report, ref, cand)
	if err := checkLasso(ctx, &report, ref, cand, ds); err != nil {
		return report, err
	}

	return report, nil
}

func initialViewFor(geometry renderer.Geometry) any {
	if geometry == renderer.GeometryPoincare {
		return geom.NewPoincareView()
	}
	return geom.NewEuclideanView()
}

// sampleIndices returns a representative sample: {0, n/4, n/2, n-1},
// de-duplicated and clamped to the dataset size.
func sampleIndices(n int) []int {
	if n <= 0 {
		return nil
	}
	raw := []int{0, n / 4, n / 2, n - 1}
	seen := make(map[int]bool, len(raw))
	out := make([]int, 0, len(raw))
	for _, i := range raw {
		if i < 0 || i >= n || seen[i] {
			continue
		}
		seen[i] = true
		out = append(out, i)
	}
	return out
}

const (
	projectionTolerance     = 1e-6
	roundTripTolerance      = 1e-6
	nearBoundaryTolerance   = 1e-5
	panTolerance            = 1e-10
	zoomTolerance           = 1e-10
	zoomExtremeTolerance    = 1e-9
)

func checkProjection(report *Report, ref, cand renderer.Renderer, ds *dataset.Dataset) {
	maxErr := 0.0
	for _, i := range sampleIndices(ds.N) {
		x, y := float64(ds.X(i)), float64(ds.Y(i))
		rx, ry := ref.ProjectToScreen(x, y)
		cx, cy := cand.ProjectToScreen(x, y)
		maxErr = math.Max(maxErr, math.Hypot(rx-cx, ry-cy))
	}
	report.record("projection", maxErr, projectionTolerance, "")
}

func checkProjectionRoundTrip(report *Report, ref, cand renderer.Renderer, ds *dataset.Dataset) {
	maxErr := 0.0
	for _, i := range sampleIndices(ds.N) {
		x, y := float64(ds.X(i)), float64(ds.Y(i))
		for _, r := range []renderer.Renderer{ref, cand} {
			sx, sy := r.ProjectToScreen(x, y)
			ux, uy := r.UnprojectFromScreen(sx, sy)
			maxErr = math.Max(maxErr, math.Hypot(ux-x, uy-y))
		}
	}
	report.record("projection-roundtrip", maxErr, roundTripTolerance, "")
}

// checkNearBoundary probes additional Poincaré-only points at radii ~0.95,
// since the disk boundary is where the closed-form Möbius math is most
// exposed to cancellation error.
func checkNearBoundary(report *Report, ref, cand renderer.Renderer, ds *dataset.Dataset) {
	maxErr := 0.0
	const probeRadius = 0.95
	for a := 0; a < 8; a++ {
		angle := float64(a) / 8 * 2 * math.Pi
		x, y := probeRadius*math.Cos(angle), probeRadius*math.Sin(angle)
		rx, ry := ref.ProjectToScreen(x, y)
		cx, cy := cand.ProjectToScreen(x, y)
		maxErr = math.Max(maxErr, math.Hypot(rx-cx, ry-cy))
	}
	report.record("near-boundary", maxErr, nearBoundaryTolerance, "8 probes at r=0.95")
}

func checkPan(report *Report, ref, cand renderer.Renderer, geometry renderer.Geometry, initialView any) {
	_ = ref.SetView(initialView)
	_ = cand.SetView(initialView)

	if starter, ok := ref.(renderer.PanStarter); ok {
		starter.StartPan(100, 100)
	}
	if starter, ok := cand.(renderer.PanStarter); ok {
		starter.StartPan(100, 100)
	}

	deltas := [][2]float64{{10, 5}, {-3, 20}, {0, -8}}
	for _, d := range deltas {
		ref.Pan(d[0], d[1], renderer.Modifiers{})
		cand.Pan(d[0], d[1], renderer.Modifiers{})
	}

	maxErr := viewDelta(geometry, ref.GetView(), cand.GetView())
	report.record("pan", maxErr, panTolerance, "")
}

func checkZoom(report *Report, ref, cand renderer.Renderer, geometry renderer.Geometry, initialView any) {
	_ = ref.SetView(initialView)
	_ = cand.SetView(initialView)

	deltas := []float64{1, -1, 3, -0.5}
	for _, d := range deltas {
		ref.Zoom(150, 150, d, renderer.Modifiers{})
		cand.Zoom(150, 150, d, renderer.Modifiers{})
	}
	maxErr := viewDelta(geometry, ref.GetView(), cand.GetView())
	report.record("zoom", maxErr, zoomTolerance, "")

	_ = ref.SetView(initialView)
	_ = cand.SetView(initialView)
	extreme := []float64{50, -50}
	for _, d := range extreme {
		ref.Zoom(150, 150, d, renderer.Modifiers{})
		cand.Zoom(150, 150, d, renderer.Modifiers{})
	}
	extremeErr := viewDelta(geometry, ref.GetView(), cand.GetView())
	report.record("zoom-extreme", extremeErr, zoomExtremeTolerance, "two extreme deltas")
}

// viewDelta compares two same-geometry view states field by field, since
// geom.EuclideanView/PoincareView carry different fields.
func viewDelta(geometry renderer.Geometry, a, b any) float64 {
	if geometry == renderer.GeometryPoincare {
		va, aok := a.(geom.PoincareView)
		vb, bok := b.(geom.PoincareView)
		if !aok || !bok {
			return math.Inf(1)
		}
		return math.Max(math.Hypot(va.Ax-vb.Ax, va.Ay-vb.Ay), math.Abs(va.DisplayZoom-vb.DisplayZoom))
	}
	va, aok := a.(geom.EuclideanView)
	vb, bok := b.(geom.EuclideanView)
	if !aok || !bok {
		return math.Inf(1)
	}
	return math.Max(math.Hypot(va.CenterX-vb.CenterX, va.CenterY-vb.CenterY), math.Abs(va.Zoom-vb.Zoom))
}

func checkHitTest(report *Report, ref, cand renderer.Renderer) {
	positions := [][2]float64{{100, 100}, {200, 150}, {50, 400}, {400, 50}, {300, 300}}
	mismatches := 0
	for _, p := range positions {
		rHit, _ := ref.HitTest(p[0], p[1])
		cHit, _ := cand.HitTest(p[0], p[1])
		if !sameHit(rHit, cHit) {
			mismatches++
		}
	}
	detail := ""
	if mismatches > 0 {
		detail = fmt.Sprintf("%d/%d positions mismatched", mismatches, len(positions))
	}
	report.record("hit-test", float64(mismatches), 0, detail)
}

func sameHit(a, b *renderer.HitResult) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return a.Index == b.Index
}

// checkLasso asserts selected-set equality for a canonical polygon covering
// ~40% of the canvas area.
func checkLasso(ctx context.Context, report *Report, ref, cand renderer.Renderer, ds *dataset.Dataset) error {
	poly := canonicalLassoPolygon()

	refSel, err := ref.LassoSelect(poly)
	if err != nil {
		return fmt.Errorf("accuracy: reference LassoSelect: %w", err)
	}
	candSel, err := cand.LassoSelect(poly)
	if err != nil {
		return fmt.Errorf("accuracy: candidate LassoSelect: %w", err)
	}

	refCount, err := ref.CountSelection(ctx, refSel, renderer.CountOptions{})
	if err != nil {
		return fmt.Errorf("accuracy: reference CountSelection: %w", err)
	}
	candCount, err := cand.CountSelection(ctx, candSel, renderer.CountOptions{})
	if err != nil {
		return fmt.Errorf("accuracy: candidate CountSelection: %w", err)
	}

	mismatches := 0
	for i := 0; i < ds.N; i++ {
		if refSel.Has(i) != candSel.Has(i) {
			mismatches++
		}
	}

	detail := fmt.Sprintf("ref count=%d cand count=%d", refCount, candCount)
	report.record("lasso", float64(mismatches), 0, detail)
	return nil
}

// canonicalLassoPolygon is a rectangle covering roughly 40% of a 600x600
// canvas, centered, expressed in screen space.
func canonicalLassoPolygon() []float32 {
	const w, h = 600.0, 600.0
	const frac = 0.4
	halfW := float32(math.Sqrt(frac) * w / 2)
	halfH := float32(math.Sqrt(frac) * h / 2)
	cx, cy := float32(w/2), float32(h/2)
	return []float32{
		cx - halfW, cy - halfH,
		cx + halfW, cy - halfH,
		cx + halfW, cy + halfH,
		cx - halfW, cy + halfH,
	}
}
