package geom

import (
	"fmt"
	"math"
)

// Viewport maps world coordinates onto the view (screen) plane with a uniform
// scale s and translation t:
//
//	view  = world*s + t
//	world = (view - t) / s
type Viewport struct {
	Scale float64 `json:"scale" msgpack:"scale"`
	TX    float64 `json:"tx" msgpack:"tx"`
	TY    float64 `json:"ty" msgpack:"ty"`
}

// Zoom limits applied by ZoomAt.
const (
	DefaultMinScale = 0.1
	DefaultMaxScale = 20.0
)

// IdentityViewport returns scale 1 with no translation.
func IdentityViewport() Viewport {
	return Viewport{Scale: 1}
}

// Valid reports whether the viewport can be inverted.
func (v Viewport) Valid() bool {
	return v.Scale > 0 && Point{v.TX, v.TY}.Finite()
}

// ToView converts a world point to view space.
func (v Viewport) ToView(p Point) Point {
	return Point{X: p.X*v.Scale + v.TX, Y: p.Y*v.Scale + v.TY}
}

// ToWorld converts a view point to world space.
func (v Viewport) ToWorld(p Point) Point {
	return Point{X: (p.X - v.TX) / v.Scale, Y: (p.Y - v.TY) / v.Scale}
}

// ZoomAt sets a new scale while keeping the world point under the view-space
// pointer fixed: t' = P - (P - t)/s * s'.
func (v Viewport) ZoomAt(pointer Point, scale float64) Viewport {
	if scale <= 0 {
		return v
	}
	return Viewport{
		Scale: scale,
		TX:    pointer.X - (pointer.X-v.TX)/v.Scale*scale,
		TY:    pointer.Y - (pointer.Y-v.TY)/v.Scale*scale,
	}
}

// ZoomBy multiplies the scale by factor around the pointer, clamped to [min, max].
func (v Viewport) ZoomBy(pointer Point, factor, min, max float64) Viewport {
	next := v.Scale * factor
	if next < min {
		next = min
	}
	if next > max {
		next = max
	}
	return v.ZoomAt(pointer, next)
}

// Pan shifts the translation by a view-space delta.
func (v Viewport) Pan(dx, dy float64) Viewport {
	v.TX += dx
	v.TY += dy
	return v
}

// Center returns the world point shown at the centre of a view of the given size.
func (v Viewport) Center(width, height float64) Point {
	return v.ToWorld(Point{X: width / 2, Y: height / 2})
}

func (v Viewport) String() string {
	return fmt.Sprintf("%.0f%% @ (%.1f, %.1f)", v.Scale*100, v.TX, v.TY)
}

// FitViewport returns the viewport that centres r in a view of the given size
// at the largest scale that shows all of it. A degenerate rectangle is shown
// at scale 1.
func FitViewport(r Rect, width, height float64) Viewport {
	s := math.Inf(1)
	if r.W > 0 {
		s = width / r.W
	}
	if r.H > 0 {
		s = math.Min(s, height/r.H)
	}
	if math.IsInf(s, 0) || math.IsNaN(s) || s <= 0 {
		s = 1
	}
	c := r.Center()
	return Viewport{Scale: s, TX: width/2 - c.X*s, TY: height/2 - c.Y*s}
}
