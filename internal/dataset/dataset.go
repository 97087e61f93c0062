// Package dataset holds the shared, geometry-agnostic data contracts:
// the immutable Dataset, and the two selection-result variants.
package dataset

import "fmt"

// Geometry names the two supported embedding geometries.
type Geometry int

const (
	Euclidean Geometry = iota
	Poincare
)

func (g Geometry) String() string {
	switch g {
	case Euclidean:
		return "euclidean"
	case Poincare:
		return "poincare"
	default:
		return "unknown"
	}
}

// Dataset is immutable after construction: n points, interleaved
// single-precision (x,y) positions, 16-bit unsigned labels, tagged with the
// geometry its positions are valid under.
type Dataset struct {
	N         int
	Positions []float32 // length 2N, interleaved x,y
	Labels    []uint16  // length N
	Geometry  Geometry
}

// New validates and constructs a Dataset. Returns an error (a contract
// violation) rather than panicking, since inputs originate outside this
// package.
func New(n int, positions []float32, labels []uint16, geometry Geometry) (*Dataset, error) {
	if len(positions) != 2*n {
		return nil, fmt.Errorf("dataset: positions length %d, want %d (2*n)", len(positions), 2*n)
	}
	if len(labels) != n {
		return nil, fmt.Errorf("dataset: labels length %d, want %d", len(labels), n)
	}
	if geometry == Poincare {
		for i := 0; i < n; i++ {
			x, y := float64(positions[2*i]), float64(positions[2*i+1])
			if x*x+y*y >= 1 {
				return nil, fmt.Errorf("dataset: point %d (%g,%g) lies outside the open unit disk", i, x, y)
			}
		}
	}
	return &Dataset{N: n, Positions: positions, Labels: labels, Geometry: geometry}, nil
}

// X returns the x coordinate of point i.
func (d *Dataset) X(i int) float32 { return d.Positions[2*i] }

// Y returns the y coordinate of point i.
func (d *Dataset) Y(i int) float32 { return d.Positions[2*i+1] }
