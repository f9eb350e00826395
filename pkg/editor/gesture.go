package editor

import (
	"fmt"

	"github.com/ha1tch/gasplan/pkg/geom"
	"github.com/ha1tch/gasplan/pkg/plan"
)

type gestureKind int

const (
	gestureMoveItem gestureKind = iota
	gestureMoveDrawable
	gestureBend
	gestureDraw
)

func (k gestureKind) String() string {
	switch k {
	case gestureMoveItem:
		return "move item"
	case gestureMoveDrawable:
		return "move drawable"
	case gestureBend:
		return "bend"
	}
	return "draw"
}

// gesture is an in-progress drag. Updates only touch the staged fields; the
// document is changed once, on EndDrag.
type gesture struct {
	kind   gestureKind
	id     string
	origin geom.Point // pointer at begin, world space
	start  geom.Point // item position at begin

	pos   geom.Point // staged item position or drawable delta
	bend  float64    // staged bend offset
	draft plan.Shape // shape being drawn
}

// Dragging reports whether a gesture is in progress.
func (e *Editor) Dragging() bool {
	return e.gesture != nil
}

func (e *Editor) begin(g *gesture) error {
	if e.gesture != nil {
		return ErrBusy
	}
	e.gesture = g
	e.log.Debug("gesture begin", "kind", g.kind.String(), "id", g.id)
	return nil
}

// BeginItemDrag starts moving an item. pointer is in world space.
func (e *Editor) BeginItemDrag(id string, pointer geom.Point) error {
	if e.mode != ModePipe {
		return ErrWrongMode
	}
	it, ok := e.doc.Item(id)
	if !ok {
		return fmt.Errorf("%w: %s", plan.ErrUnknownItem, id)
	}
	return e.begin(&gesture{kind: gestureMoveItem, id: id, origin: pointer, start: it.Pos, pos: it.Pos})
}

// BeginDrawableDrag starts translating a drawable.
func (e *Editor) BeginDrawableDrag(id string, pointer geom.Point) error {
	if e.mode != ModeCAD {
		return ErrWrongMode
	}
	if _, ok := e.doc.Drawable(id); !ok {
		return fmt.Errorf("%w: drawable %s", plan.ErrUnknownEntity, id)
	}
	return e.begin(&gesture{kind: gestureMoveDrawable, id: id, origin: pointer})
}

// BeginBendDrag starts dragging a connection's bend handle.
func (e *Editor) BeginBendDrag(id string) error {
	if e.mode != ModePipe {
		return ErrWrongMode
	}
	c, ok := e.doc.Connection(id)
	if !ok {
		return fmt.Errorf("%w: connection %s", plan.ErrUnknownEntity, id)
	}
	if _, _, ok := e.doc.Endpoints(c); !ok {
		return fmt.Errorf("%w: connection %s has a missing endpoint", plan.ErrUnknownItem, id)
	}
	return e.begin(&gesture{kind: gestureBend, id: id, bend: c.BendOffset})
}

// BeginDraw starts a shape with the active CAD tool at a world point.
func (e *Editor) BeginDraw(pointer geom.Point) error {
	if e.mode != ModeCAD {
		return ErrWrongMode
	}
	p := e.snap(pointer)
	var draft plan.Shape
	switch e.tool {
	case ToolLine:
		draft = &plan.Line{Points: []geom.Point{p, p}}
	case ToolRect:
		draft = &plan.Rectangle{Origin: p}
	case ToolText:
		draft = &plan.Text{Origin: p, Body: e.textBody}
	default:
		return fmt.Errorf("%w: select tool does not draw", ErrWrongMode)
	}
	return e.begin(&gesture{kind: gestureDraw, origin: p, draft: draft})
}

// UpdateDrag moves the active gesture to a world-space pointer. ortho locks
// the current line segment to its dominant axis.
func (e *Editor) UpdateDrag(pointer geom.Point, ortho bool) error {
	g := e.gesture
	if g == nil {
		return ErrNoGesture
	}
	switch g.kind {
	case gestureMoveItem:
		g.pos = e.snap(g.start.Add(pointer.Sub(g.origin)))
	case gestureMoveDrawable:
		g.pos = e.snap(pointer.Sub(g.origin))
	case gestureBend:
		c, _ := e.doc.Connection(g.id)
		a, b, ok := e.doc.Endpoints(c)
		if !ok {
			return fmt.Errorf("%w: connection %s has a missing endpoint", plan.ErrUnknownItem, g.id)
		}
		x := e.snap(pointer).X
		g.bend = e.Router().BendOffsetFor(a.Pos, b.Pos, c.Layer, x)
	case gestureDraw:
		p := e.snap(pointer)
		switch s := g.draft.(type) {
		case *plan.Line:
			last := len(s.Points) - 1
			if ortho && last > 0 {
				p = geom.OrthoConstrain(s.Points[last-1], p)
			}
			s.Points[last] = p
		case *plan.Rectangle:
			s.W = p.X - s.Origin.X
			s.H = p.Y - s.Origin.Y
		case *plan.Text:
			s.Origin = p
		}
	}
	return nil
}

// AddVertex fixes the current end of the line being drawn and starts a new
// segment from it.
func (e *Editor) AddVertex() error {
	g := e.gesture
	if g == nil || g.kind != gestureDraw {
		return ErrNoGesture
	}
	line, ok := g.draft.(*plan.Line)
	if !ok {
		return fmt.Errorf("%w: only lines take vertices", ErrWrongMode)
	}
	last := line.Points[len(line.Points)-1]
	line.Points = append(line.Points, last)
	return nil
}

// CancelDrag abandons the gesture without touching the document.
func (e *Editor) CancelDrag() {
	if e.gesture != nil {
		e.log.Debug("gesture cancelled", "kind", e.gesture.kind.String())
	}
	e.gesture = nil
}

// EndDrag commits the gesture as one history step. It returns false when
// the gesture produced no change, which records nothing.
func (e *Editor) EndDrag() (bool, error) {
	g := e.gesture
	if g == nil {
		return false, ErrNoGesture
	}
	e.gesture = nil

	var err error
	switch g.kind {
	case gestureMoveItem:
		if g.pos == g.start {
			return false, nil
		}
		err = e.commit("move item", func(d *plan.Document) error {
			return d.MoveItem(g.id, g.pos)
		})
	case gestureMoveDrawable:
		if g.pos == (geom.Point{}) {
			return false, nil
		}
		err = e.commit("move drawable", func(d *plan.Document) error {
			return d.MoveDrawable(g.id, g.pos)
		})
	case gestureBend:
		c, _ := e.doc.Connection(g.id)
		if g.bend == c.BendOffset {
			return false, nil
		}
		err = e.commit("bend", func(d *plan.Document) error {
			return d.SetBendOffset(g.id, g.bend)
		})
	case gestureDraw:
		shape, ok := finishDraft(g.draft)
		if !ok {
			return false, nil
		}
		err = e.commit("draw", func(d *plan.Document) error {
			_, err := d.AddDrawable(plan.Drawable{Stroke: e.stroke, Shape: shape})
			return err
		})
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// finishDraft drops repeated line vertices and rejects shapes with no extent.
func finishDraft(s plan.Shape) (plan.Shape, bool) {
	switch v := s.(type) {
	case *plan.Line:
		pts := []geom.Point{v.Points[0]}
		for _, p := range v.Points[1:] {
			if p != pts[len(pts)-1] {
				pts = append(pts, p)
			}
		}
		if len(pts) < 2 {
			return nil, false
		}
		return &plan.Line{Points: pts}, true
	case *plan.Rectangle:
		if v.W == 0 || v.H == 0 {
			return nil, false
		}
		return v, true
	case *plan.Text:
		return v, v.Body != ""
	}
	return nil, false
}

// stagedItem applies the active gesture to a copy of an item for display.
func (e *Editor) stagedItem(it plan.Item) plan.Item {
	if g := e.gesture; g != nil && g.kind == gestureMoveItem && g.id == it.ID {
		it.Pos = g.pos
	}
	return it
}
