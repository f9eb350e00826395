package editor

import (
	"github.com/ha1tch/gasplan/pkg/geom"
	"github.com/ha1tch/gasplan/pkg/plan"
)

// Pipe is a connection with its routed geometry.
type Pipe struct {
	plan.Connection
	Route plan.Route
}

// Frame is a read-only snapshot of everything a renderer needs. Staged drag
// positions are applied; dangling connections are omitted.
type Frame struct {
	Mode     Mode
	Tool     Tool
	Layer    plan.GasLayer
	View     plan.ViewSettings
	Pending  string
	Selected []string
	Menu     *ContextMenu

	Items      []plan.Item
	Pipes      []Pipe
	Drawables  []plan.Drawable
	Draft      *plan.Drawable // shape being drawn, nil when none
	Background []plan.BackgroundEntity
	Underlay   plan.Background
}

// Frame builds the current frame.
func (e *Editor) Frame() Frame {
	f := Frame{
		Mode:       e.mode,
		Tool:       e.tool,
		Layer:      e.layer,
		View:       e.doc.View(),
		Pending:    e.pending,
		Selected:   e.Selected(),
		Background: e.doc.BackgroundEntities(),
		Underlay:   e.doc.Background(),
	}
	if e.menu != nil {
		m := *e.menu
		f.Menu = &m
	}

	positions := make(map[string]geom.Point)
	for _, it := range e.doc.Items() {
		it = e.stagedItem(it)
		positions[it.ID] = it.Pos
		f.Items = append(f.Items, it)
	}

	r := e.Router()
	for _, c := range e.doc.Connections() {
		a, okA := positions[c.Start]
		b, okB := positions[c.End]
		if !okA || !okB {
			continue
		}
		if g := e.gesture; g != nil && g.kind == gestureBend && g.id == c.ID {
			c.BendOffset = g.bend
		}
		f.Pipes = append(f.Pipes, Pipe{Connection: c, Route: r.Between(a, b, c.Layer, c.BendOffset)})
	}

	for _, dr := range e.doc.Drawables() {
		if g := e.gesture; g != nil && g.kind == gestureMoveDrawable && g.id == dr.ID {
			dr.Shape = dr.Shape.Translate(g.pos)
		}
		f.Drawables = append(f.Drawables, dr)
	}
	if g := e.gesture; g != nil && g.kind == gestureDraw {
		f.Draft = &plan.Drawable{Stroke: e.stroke, Shape: g.draft.Clone()}
	}
	return f
}
