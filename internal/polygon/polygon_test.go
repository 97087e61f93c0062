package polygon

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func square() []float64 {
	return []float64{0, 0, 10, 0, 10, 10, 0, 10}
}

func TestContainsInterior(t *testing.T) {
	assert.True(t, Contains(square(), 5, 5))
}

func TestContainsExterior(t *testing.T) {
	assert.False(t, Contains(square(), 15, 5))
	assert.False(t, Contains(square(), -1, -1))
}

func TestContainsOnBoundaryCountsAsInside(t *testing.T) {
	assert.True(t, Contains(square(), 0, 5))  // left edge
	assert.True(t, Contains(square(), 5, 0))  // bottom edge
	assert.True(t, Contains(square(), 10, 5)) // right edge
	assert.True(t, Contains(square(), 0, 0))  // corner
}

func TestContainsDegeneratePolygon(t *testing.T) {
	assert.False(t, Contains([]float64{0, 0, 1, 1}, 0, 0)) // only 2 verts
	assert.False(t, Contains(nil, 0, 0))
}

func TestContainsConcavePolygon(t *testing.T) {
	// A "C" shape (concave): outer square with a notch cut from the right
	// side, through the middle.
	cShape := []float64{
		0, 0,
		10, 0,
		10, 4,
		5, 4,
		5, 6,
		10, 6,
		10, 10,
		0, 10,
	}
	assert.True(t, Contains(cShape, 1, 5))  // inside the C's body
	assert.False(t, Contains(cShape, 8, 5)) // inside the notch, not the shape
}

func TestBoundingBox(t *testing.T) {
	xmin, ymin, xmax, ymax, ok := BoundingBox(square())
	assert.True(t, ok)
	assert.Equal(t, 0.0, xmin)
	assert.Equal(t, 0.0, ymin)
	assert.Equal(t, 10.0, xmax)
	assert.Equal(t, 10.0, ymax)
}

func TestBoundingBoxEmpty(t *testing.T) {
	_, _, _, _, ok := BoundingBox(nil)
	assert.False(t, ok)
}
