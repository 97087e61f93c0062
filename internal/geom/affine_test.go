package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPointArithmetic(t *testing.T) {
	p := MakePoint(1, 2)
	q := MakePoint(3, 4)
	assert.Equal(t, Point{4, 6}, p.Add(q))
	assert.Equal(t, Point{-2, -2}, p.Sub(q))
	assert.Equal(t, Point{2, 4}, p.Scale(2))
	assert.Equal(t, 11.0, Dot(p, q))
}

func TestDist(t *testing.T) {
	assert.InDelta(t, 5.0, Dist(MakePoint(0, 0), MakePoint(3, 4)), 1e-12)
}

func TestAffineMulPointIdentity(t *testing.T) {
	identity := MakeAffine(1, 0, 0, 0, 1, 0)
	p := MakePoint(5, -3)
	assert.Equal(t, p, identity.MulPoint(p))
}

func TestAffineMulPointTranslateScale(t *testing.T) {
	// x' = 2x + 10, y' = 3y - 1
	tf := MakeAffine(2, 0, 10, 0, 3, -1)
	got := tf.MulPoint(MakePoint(1, 1))
	assert.Equal(t, Point{12, 2}, got)
}

func TestAffineMulComposition(t *testing.T) {
	scale := MakeAffine(2, 0, 0, 0, 2, 0)
	translate := MakeAffine(1, 0, 5, 0, 1, 5)
	composed := translate.Mul(scale) // apply scale then translate
	got := composed.MulPoint(MakePoint(1, 1))
	assert.Equal(t, Point{7, 7}, got)
}

func TestAffineInvRoundTrips(t *testing.T) {
	tf := MakeAffine(2, 1, 3, 0, 2, -1)
	inv, err := tf.Inv()
	require.NoError(t, err)

	p := MakePoint(4, -2)
	transformed := tf.MulPoint(p)
	back := inv.MulPoint(transformed)
	assert.InDelta(t, p.X, back.X, 1e-9)
	assert.InDelta(t, p.Y, back.Y, 1e-9)
}

func TestAffineInvSingularReturnsError(t *testing.T) {
	// determinant = 0*0 - 1*1 = -1... use a genuinely singular one instead.
	singular := MakeAffine(1, 2, 0, 2, 4, 0)
	_, err := singular.Inv()
	assert.Error(t, err)
}

func TestAffineToMatrix4LayoutIsColumnMajor(t *testing.T) {
	tf := MakeAffine(1, 2, 3, 4, 5, 6)
	m := tf.ToMatrix4()
	assert.Equal(t, [16]float32{
		1, 4, 0, 0,
		2, 5, 0, 0,
		0, 0, 1, 0,
		3, 6, 0, 1,
	}, m)
}
