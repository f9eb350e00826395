package plan

import (
	"github.com/ha1tch/gasplan/pkg/geom"
)

// ShapeKind names a drawable variant.
type ShapeKind string

const (
	ShapeLine ShapeKind = "line"
	ShapeRect ShapeKind = "rect"
	ShapeText ShapeKind = "text"
)

// Shape is the variant payload of a Drawable: *Line, *Rectangle or *Text.
// Consumers dispatch with a type switch.
type Shape interface {
	Kind() ShapeKind
	// Anchor is the point the drawable rotates about.
	Anchor() geom.Point
	// Bounds is the unrotated extent in world units.
	Bounds() geom.Rect
	Translate(d geom.Point) Shape
	Clone() Shape
}

// Line is an open polyline.
type Line struct {
	Points []geom.Point
}

func (l *Line) Kind() ShapeKind { return ShapeLine }

func (l *Line) Anchor() geom.Point {
	if len(l.Points) == 0 {
		return geom.Point{}
	}
	return l.Points[0]
}

func (l *Line) Bounds() geom.Rect {
	r, _ := geom.BoundingBox(l.Points)
	return r
}

func (l *Line) Translate(d geom.Point) Shape {
	out := &Line{Points: make([]geom.Point, len(l.Points))}
	for i, p := range l.Points {
		out.Points[i] = p.Add(d)
	}
	return out
}

func (l *Line) Clone() Shape {
	return &Line{Points: append([]geom.Point(nil), l.Points...)}
}

// Rectangle is an axis-aligned box before rotation.
type Rectangle struct {
	Origin geom.Point
	W, H   float64
}

func (r *Rectangle) Kind() ShapeKind    { return ShapeRect }
func (r *Rectangle) Anchor() geom.Point { return r.Origin }

// Bounds normalises negative sizes produced by dragging up or left.
func (r *Rectangle) Bounds() geom.Rect {
	b := geom.Rect{X: r.Origin.X, Y: r.Origin.Y, W: r.W, H: r.H}
	if b.W < 0 {
		b.X += b.W
		b.W = -b.W
	}
	if b.H < 0 {
		b.Y += b.H
		b.H = -b.H
	}
	return b
}

func (r *Rectangle) Translate(d geom.Point) Shape {
	return &Rectangle{Origin: r.Origin.Add(d), W: r.W, H: r.H}
}

func (r *Rectangle) Clone() Shape {
	c := *r
	return &c
}

// Approximate text metrics in world units.
const (
	TextCharWidth = 8.0
	TextHeight    = 14.0
)

// Text is a single-line annotation anchored at its baseline origin.
type Text struct {
	Origin geom.Point
	Body   string
}

func (t *Text) Kind() ShapeKind    { return ShapeText }
func (t *Text) Anchor() geom.Point { return t.Origin }

func (t *Text) Bounds() geom.Rect {
	w := float64(len([]rune(t.Body))) * TextCharWidth
	return geom.Rect{X: t.Origin.X, Y: t.Origin.Y - TextHeight, W: w, H: TextHeight}
}

func (t *Text) Translate(d geom.Point) Shape {
	return &Text{Origin: t.Origin.Add(d), Body: t.Body}
}

func (t *Text) Clone() Shape {
	c := *t
	return &c
}

// Drawable is a CAD annotation. Stroke and Fill are CSS-style colour strings;
// an empty Fill means unfilled.
type Drawable struct {
	ID       string
	Stroke   string
	Fill     string
	Rotation int
	Shape    Shape
}

// DefaultStroke is used when a drawable is created without a colour.
const DefaultStroke = "#000000"

func (d Drawable) clone() Drawable {
	if d.Shape != nil {
		d.Shape = d.Shape.Clone()
	}
	return d
}

// validShape reports whether the payload is complete and finite.
func validShape(s Shape) bool {
	switch v := s.(type) {
	case *Line:
		if v == nil || len(v.Points) < 2 {
			return false
		}
		for _, p := range v.Points {
			if !p.Finite() {
				return false
			}
		}
		return true
	case *Rectangle:
		return v != nil && v.Origin.Finite() && geom.Pt(v.W, v.H).Finite()
	case *Text:
		return v != nil && v.Origin.Finite()
	}
	return false
}
