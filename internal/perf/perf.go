// Package perf implements a per-geometry, per-point-count performance
// harness: the same FPS/throughput instrumentation the demo binary prints
// to its window title, returned instead as a structured report a caller
// can log or assert against.
package perf

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/HackerRoomAI/hyper-scatter/internal/dataset"
	"github.com/HackerRoomAI/hyper-scatter/internal/geom"
	"github.com/HackerRoomAI/hyper-scatter/internal/renderer"
)

// Report mirrors the demo binary's window-title metrics (FPS, frame time,
// throughput), extended with additional per-operation timings.
type Report struct {
	Geometry   renderer.Geometry
	PointCount int

	DatasetGenMs     float64
	SubmitFrameUs    float64 // CPU submit time per frame (mean over SampleFrames)
	DerivedFPS       float64
	HitTestUs        float64 // mean over ~100 random screen positions
	LassoEndToEndMs  float64 // includes exact-count materialization
	PanFrameIntervalUs  float64
	HoverFrameIntervalUs float64
}

type stubSurface struct{ w, h int }

func (s stubSurface) Size() (int, int) { return s.w, s.h }

// Options configures one harness run.
type Options struct {
	Backend      renderer.Backend
	SampleFrames int // frames sampled for submit/pan/hover timings; default 60
	HitTestSamples int // default 100
}

func (o Options) withDefaults() Options {
	if o.SampleFrames <= 0 {
		o.SampleFrames = 60
	}
	if o.HitTestSamples <= 0 {
		o.HitTestSamples = 100
	}
	return o
}

// Run drives one (geometry, pointCount) combination through the full §4.8
// measurement set.
func Run(ctx context.Context, geometry renderer.Geometry, pointCount int, opts Options) (Report, error) {
	opts = opts.withDefaults()
	report := Report{Geometry: geometry, PointCount: pointCount}

	genStart := time.Now()
	ds := generateDataset(geometry, pointCount)
	report.DatasetGenMs = msSince(genStart)

	r, err := renderer.New(geometry, opts.Backend)
	if err != nil {
		return report, err
	}
	defer r.Destroy()

	initOpts := renderer.InitOptions{Width: 1280, Height: 960, DevicePixelRatio: 1}
	if err := r.Init(stubSurface{w: initOpts.Width, h: initOpts.Height}, initOpts); err != nil {
		return report, err
	}
	if err := r.SetDataset(ds); err != nil {
		return report, err
	}
	if geometry == renderer.GeometryPoincare {
		_ = r.SetView(geom.NewPoincareView())
	} else {
		_ = r.SetView(geom.NewEuclideanView())
	}

	measureSubmitFPS(r, opts.SampleFrames, &report)
	measureHitTest(r, opts.HitTestSamples, &report)
	measureLasso(ctx, r, &report)
	measurePanInterval(r, opts.SampleFrames, &report)
	measureHoverInterval(r, ds, opts.SampleFrames, &report)

	return report, nil
}

func msSince(start time.Time) float64 { return float64(time.Since(start).Microseconds()) / 1000.0 }

// generateDataset produces a synthetic dataset for harness use: points
// scattered uniformly in angle and radius (up to 0.1) around ten cluster
// centers on a circle of radius 0.5, consistent with real
// embedding output without claiming to model any specific embedding
// algorithm.
func generateDataset(geometry renderer.Geometry, n int) *dataset.Dataset {
	rng := rand.New(rand.NewSource(42))
	positions := make([]float32, 2*n)
	labels := make([]uint16, n)
	const numClusters = 10

	for i := 0; i < n; i++ {
		cluster := i % numClusters
		labels[i] = uint16(cluster)
		angle := rng.Float64() * 2 * math.Pi
		centerRadius := 0.5
		cx := centerRadius * math.Cos(2*math.Pi*float64(cluster)/numClusters)
		cy := centerRadius * math.Sin(2*math.Pi*float64(cluster)/numClusters)

		spread := rng.Float64() * 0.1
		x := cx + spread*math.Cos(angle)
		y := cy + spread*math.Sin(angle)

		if geometry == renderer.GeometryPoincare {
			r := math.Min(math.Hypot(x, y), 0.97)
			theta := math.Atan2(y, x)
			x, y = r*math.Cos(theta), r*math.Sin(theta)
		}
		positions[2*i], positions[2*i+1] = float32(x), float32(y)
	}

	dsGeom := dataset.Euclidean
	if geometry == renderer.GeometryPoincare {
		dsGeom = dataset.Poincare
	}
	ds, err := dataset.New(n, positions, labels, dsGeom)
	if err != nil {
		// Construction above guarantees disk membership and matching
		// lengths; a failure here means the harness itself is broken.
		panic(err)
	}
	return ds
}

func measureSubmitFPS(r renderer.Renderer, frames int, report *Report) {
	var total time.Duration
	start := time.Now()
	for f := 0; f < frames; f++ {
		frameStart := time.Now()
		_ = r.Render()
		total += time.Since(frameStart)
	}
	elapsed := time.Since(start)

	report.SubmitFrameUs = float64(total.Microseconds()) / float64(frames)
	if elapsed > 0 {
		report.DerivedFPS = float64(frames) / elapsed.Seconds()
	}
}

func measureHitTest(r renderer.Renderer, samples int, report *Report) {
	rng := rand.New(rand.NewSource(7))
	var total time.Duration
	for i := 0; i < samples; i++ {
		sx, sy := rng.Float64()*1280, rng.Float64()*960
		start := time.Now()
		_, _ = r.HitTest(sx, sy)
		total += time.Since(start)
	}
	if samples > 0 {
		report.HitTestUs = float64(total.Microseconds()) / float64(samples)
	}
}

func measureLasso(ctx context.Context, r renderer.Renderer, report *Report) {
	start := time.Now()
	poly := []float32{200, 200, 900, 200, 900, 700, 200, 700}
	sel, err := r.LassoSelect(poly)
	if err != nil {
		return
	}
	_, _ = r.CountSelection(ctx, sel, renderer.CountOptions{})
	report.LassoEndToEndMs = msSince(start)
}

// measurePanInterval drives 60+ frames along a 5-keypoint loop, issuing
// pan deltas synchronously frame by frame.
func measurePanInterval(r renderer.Renderer, frames int, report *Report) {
	keypoints := [][2]float64{{10, 0}, {0, 10}, {-10, 0}, {0, -10}, {5, 5}}
	if frames < len(keypoints) {
		frames = len(keypoints)
	}

	var total time.Duration
	for f := 0; f < frames; f++ {
		d := keypoints[f%len(keypoints)]
		start := time.Now()
		r.Pan(d[0], d[1], renderer.Modifiers{})
		_ = r.Render()
		total += time.Since(start)
	}
	report.PanFrameIntervalUs = float64(total.Microseconds()) / float64(frames)
}

// measureHoverInterval drives a circular mouse path over the canvas,
// issuing HitTest + SetHovered per frame.
func measureHoverInterval(r renderer.Renderer, ds *dataset.Dataset, frames int, report *Report) {
	if ds.N == 0 {
		return
	}
	const cx, cy, radius = 640.0, 480.0, 200.0

	var total time.Duration
	for f := 0; f < frames; f++ {
		angle := float64(f) / float64(frames) * 2 * math.Pi
		sx := cx + radius*math.Cos(angle)
		sy := cy + radius*math.Sin(angle)

		start := time.Now()
		hit, _ := r.HitTest(sx, sy)
		if hit != nil {
			r.SetHovered(hit.Index)
		} else {
			r.SetHovered(-1)
		}
		_ = r.Render()
		total += time.Since(start)
	}
	report.HoverFrameIntervalUs = float64(total.Microseconds()) / float64(frames)
}
