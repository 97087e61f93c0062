package main

import (
	"math"
	"math/rand"

	"github.com/HackerRoomAI/hyper-scatter/internal/dataset"
	"github.com/HackerRoomAI/hyper-scatter/internal/renderer"
)

const demoNumClusters = 12

// generateDemoDataset synthesizes a clustered point cloud for the demo
// binary to render — not a faithful embedding generator, just enough
// structure to make panning/zooming/lasso-ing feel like a real dataset.
func generateDemoDataset(geometry renderer.Geometry, n int, seed int64) *dataset.Dataset {
	rng := rand.New(rand.NewSource(seed))

	positions := make([]float32, 2*n)
	labels := make([]uint16, n)

	centers := make([][2]float64, demoNumClusters)
	for c := range centers {
		angle := 2 * math.Pi * float64(c) / demoNumClusters
		centers[c] = [2]float64{0.6 * math.Cos(angle), 0.6 * math.Sin(angle)}
	}

	for i := 0; i < n; i++ {
		cluster := i % demoNumClusters
		labels[i] = uint16(cluster)
		cx, cy := centers[cluster][0], centers[cluster][1]

		// Box-Muller for a roughly Gaussian scatter around the cluster
		// center.
		u1, u2 := rng.Float64(), rng.Float64()
		if u1 < 1e-12 {
			u1 = 1e-12
		}
		mag := math.Sqrt(-2 * math.Log(u1))
		gx := mag * math.Cos(2*math.Pi*u2)
		gy := mag * math.Sin(2*math.Pi*u2)

		const spread = 0.08
		x, y := cx+spread*gx, cy+spread*gy

		if geometry == renderer.GeometryPoincare {
			r := math.Hypot(x, y)
			if r > 0.97 {
				scale := 0.97 / r
				x, y = x*scale, y*scale
			}
		} else {
			// Euclidean positions are conventionally in a wider data-space
			// range; scale up so pan/zoom has room to move.
			x, y = x*400, y*400
		}
		positions[2*i], positions[2*i+1] = float32(x), float32(y)
	}

	ds, err := dataset.New(n, positions, labels, geometryToDataset(geometry))
	if err != nil {
		// Construction above guarantees valid lengths and disk membership;
		// a failure here means this generator itself is broken.
		panic(err)
	}
	return ds
}
