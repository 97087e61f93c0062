package refrender

import (
	"context"
	"math"
	"time"

	"github.com/HackerRoomAI/hyper-scatter/internal/dataset"
	"github.com/HackerRoomAI/hyper-scatter/internal/polygon"
	"github.com/HackerRoomAI/hyper-scatter/internal/renderer"
)

func sqrtf(v float64) float64 { return math.Sqrt(v) }

func msSince(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000.0
}

// screenMapper is the minimal capability unprojectPolyline needs; both
// Euclidean and Poincare satisfy it via their ProjectToScreen/
// UnprojectFromScreen methods.
type screenMapper interface {
	UnprojectFromScreen(sx, sy float64) (x, y float64)
}

// unprojectPolyline converts a flat screen-space polyline into a flat
// data-space one.
func unprojectPolyline(m screenMapper, polyline []float32) []float64 {
	out := make([]float64, len(polyline))
	for i := 0; i < len(polyline)/2; i++ {
		x, y := m.UnprojectFromScreen(float64(polyline[2*i]), float64(polyline[2*i+1]))
		out[2*i], out[2*i+1] = x, y
	}
	return out
}

// selectIndicesInPolygon runs the point-in-polygon test against every point
// in the dataset: a naive full-dataset lasso scan.
func selectIndicesInPolygon(ds *dataset.Dataset, dataPoly []float64) []int {
	var indices []int
	for i := 0; i < ds.N; i++ {
		if polygon.Contains(dataPoly, float64(ds.X(i)), float64(ds.Y(i))) {
			indices = append(indices, i)
		}
	}
	return indices
}

// countSelectionNaive materializes an exact count for a selection,
// cooperatively yielding roughly every opts.YieldEvery milliseconds and
// honoring cancellation. If the selection already reports an exact size
// (true for every reference-renderer selection, which is always an indices
// variant), it returns immediately without iterating.
func countSelectionNaive(ctx context.Context, ds *dataset.Dataset, sel dataset.Selection, opts renderer.CountOptions) (int, error) {
	if n, exact := sel.Size(); exact {
		return n, nil
	}
	if ds == nil {
		return 0, nil
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
