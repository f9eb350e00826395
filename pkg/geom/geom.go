// Geometric utilities for the plan canvas.
// Provides points, rectangles, grid snapping and the axis lock used while drawing.

package geom

import "math"

// Point represents a 2D coordinate in world or view space.
type Point struct {
	X float64 `json:"x" msgpack:"x"`
	Y float64 `json:"y" msgpack:"y"`
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns the sum of two points.
func (p Point) Add(o Point) Point {
	return Point{X: p.X + o.X, Y: p.Y + o.Y}
}

// Sub returns the difference of two points.
func (p Point) Sub(o Point) Point {
	return Point{X: p.X - o.X, Y: p.Y - o.Y}
}

// Scale returns the point multiplied by a factor.
func (p Point) Scale(f float64) Point {
	return Point{X: p.X * f, Y: p.Y * f}
}

// Manhattan returns |dx| + |dy| between two points.
func (p Point) Manhattan(o Point) float64 {
	return math.Abs(p.X-o.X) + math.Abs(p.Y-o.Y)
}

// Finite reports whether both coordinates are finite numbers.
func (p Point) Finite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) &&
		!math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

// Rect represents an axis-aligned rectangle by its top-left corner and size.
type Rect struct {
	X, Y float64
	W, H float64
}

// Contains reports whether p lies inside the rectangle (edges inclusive).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.W &&
		p.Y >= r.Y && p.Y <= r.Y+r.H
}

// Center returns the centre point of the rectangle.
func (r Rect) Center() Point {
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Union returns the smallest rectangle containing both rectangles.
func (r Rect) Union(o Rect) Rect {
	x := math.Min(r.X, o.X)
	y := math.Min(r.Y, o.Y)
	x2 := math.Max(r.X+r.W, o.X+o.W)
	y2 := math.Max(r.Y+r.H, o.Y+o.H)
	return Rect{X: x, Y: y, W: x2 - x, H: y2 - y}
}

// Inflate grows the rectangle by d on every side.
func (r Rect) Inflate(d float64) Rect {
	return Rect{X: r.X - d, Y: r.Y - d, W: r.W + 2*d, H: r.H + 2*d}
}

// BoundingBox returns the axis-aligned bounds of a set of points.
// The second result is false when points is empty.
func BoundingBox(points []Point) (Rect, bool) {
	if len(points) == 0 {
		return Rect{}, false
	}
	minX, minY := points[0].X, points[0].Y
	maxX, maxY := minX, minY
	for _, p := range points[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}, true
}

// Snap rounds v to the nearest multiple of grid.
// A non-positive grid leaves v unchanged.
func Snap(v, grid float64) float64 {
	if grid <= 0 {
		return v
	}
	return math.Round(v/grid) * grid
}

// SnapPoint snaps both coordinates of p to the grid.
func SnapPoint(p Point, grid float64) Point {
	return Point{X: Snap(p.X, grid), Y: Snap(p.Y, grid)}
}

// OrthoConstrain locks p to the dominant axis measured from anchor:
// the delta on the axis with the smaller magnitude is zeroed.
// Ties keep the horizontal delta.
func OrthoConstrain(anchor, p Point) Point {
	dx := p.X - anchor.X
	dy := p.Y - anchor.Y
	if math.Abs(dx) >= math.Abs(dy) {
		return Point{X: p.X, Y: anchor.Y}
	}
	return Point{X: anchor.X, Y: p.Y}
}

// RotateDeg rotates p around c by deg degrees (clockwise on a downward-Y canvas).
func RotateDeg(p, c Point, deg float64) Point {
	rad := deg * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)
	// Exact values for quarter turns keep integer grids integral.
	switch math.Mod(math.Mod(deg, 360)+360, 360) {
	case 0:
		cos, sin = 1, 0
	case 90:
		cos, sin = 0, 1
	case 180:
		cos, sin = -1, 0
	case 270:
		cos, sin = 0, -1
	}
	d := p.Sub(c)
	return Point{
		X: c.X + d.X*cos - d.Y*sin,
		Y: c.Y + d.X*sin + d.Y*cos,
	}
}
