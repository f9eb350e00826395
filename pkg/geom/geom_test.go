package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnap(t *testing.T) {
	assert.Equal(t, 0.0, Snap(9.9, 20))
	assert.Equal(t, 20.0, Snap(10, 20))
	assert.Equal(t, -20.0, Snap(-11, 20))
	assert.Equal(t, 140.0, Snap(147, 20))
	assert.Equal(t, 7.3, Snap(7.3, 0), "non-positive grid is a no-op")
}

func TestSnapIdempotent(t *testing.T) {
	for _, v := range []float64{-1234.5, -10, -0.01, 0, 0.49, 9.99, 10, 33.3, 1e6 + 0.7} {
		once := Snap(v, 20)
		assert.Equal(t, once, Snap(once, 20), "v=%v", v)
		assert.Zero(t, math.Mod(once, 20), "v=%v", v)
	}
}

func FuzzSnap(f *testing.F) {
	f.Add(0.0)
	f.Add(19.999)
	f.Add(-30.0)
	f.Add(123456.789)
	f.Fuzz(func(t *testing.T, v float64) {
		if math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) > 1e12 {
			t.Skip()
		}
		once := Snap(v, 20)
		if twice := Snap(once, 20); twice != once {
			t.Fatalf("snap not idempotent: %v -> %v -> %v", v, once, twice)
		}
		if m := math.Mod(once, 20); m != 0 {
			t.Fatalf("snap(%v) = %v is not a multiple of 20", v, once)
		}
	})
}

func TestOrthoConstrain(t *testing.T) {
	anchor := Pt(10, 10)

	assert.Equal(t, Pt(50, 10), OrthoConstrain(anchor, Pt(50, 25)), "horizontal dominant")
	assert.Equal(t, Pt(10, -40), OrthoConstrain(anchor, Pt(4, -40)), "vertical dominant")
	assert.Equal(t, Pt(20, 10), OrthoConstrain(anchor, Pt(20, 20)), "tie keeps horizontal")
}

func TestBoundingBox(t *testing.T) {
	_, ok := BoundingBox(nil)
	assert.False(t, ok)

	r, ok := BoundingBox([]Point{{3, 4}, {-1, 10}, {7, -2}})
	require.True(t, ok)
	assert.Equal(t, Rect{X: -1, Y: -2, W: 8, H: 12}, r)
	assert.True(t, r.Contains(Pt(0, 0)))
	assert.False(t, r.Contains(Pt(8, 0)))
	assert.Equal(t, Pt(3, 4), r.Center())
}

func TestRectUnionInflate(t *testing.T) {
	a := Rect{X: 0, Y: 0, W: 10, H: 10}
	b := Rect{X: 20, Y: -5, W: 5, H: 5}
	assert.Equal(t, Rect{X: 0, Y: -5, W: 25, H: 15}, a.Union(b))
	assert.Equal(t, Rect{X: -2, Y: -2, W: 14, H: 14}, a.Inflate(2))
}

func TestRotateDegQuarterTurns(t *testing.T) {
	c := Pt(0, 0)
	assert.Equal(t, Pt(0, 10), RotateDeg(Pt(10, 0), c, 90))
	assert.Equal(t, Pt(-10, 0), RotateDeg(Pt(10, 0), c, 180))
	assert.Equal(t, Pt(0, -10), RotateDeg(Pt(10, 0), c, -90))
	assert.Equal(t, Pt(10, 0), RotateDeg(Pt(10, 0), c, 360))
}

func TestPointHelpers(t *testing.T) {
	p := Pt(1, 2)
	assert.Equal(t, Pt(4, 6), p.Add(Pt(3, 4)))
	assert.Equal(t, Pt(-2, -2), p.Sub(Pt(3, 4)))
	assert.Equal(t, Pt(2, 4), p.Scale(2))
	assert.Equal(t, 300.0, Pt(0, 0).Manhattan(Pt(100, -200)))
	assert.True(t, p.Finite())
	assert.False(t, Pt(math.NaN(), 0).Finite())
	assert.False(t, Pt(0, math.Inf(1)).Finite())
}
