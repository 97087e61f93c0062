package refrender

import "github.com/HackerRoomAI/hyper-scatter/internal/renderer"

func init() {
	renderer.Register(renderer.GeometryEuclidean, renderer.Reference, func() renderer.Renderer { return NewEuclidean() })
	renderer.Register(renderer.GeometryPoincare, renderer.Reference, func() renderer.Renderer { return NewPoincare() })
}
