package gpurender

import "github.com/HackerRoomAI/hyper-scatter/internal/renderer"

func init() {
	renderer.Register(renderer.GeometryEuclidean, renderer.Candidate, func() renderer.Renderer { return NewEuclidean() })
	renderer.Register(renderer.GeometryPoincare, renderer.Candidate, func() renderer.Renderer { return NewPoincare() })
}
