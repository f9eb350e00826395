package editor

import (
	"math"

	"github.com/ha1tch/gasplan/pkg/geom"
	"github.com/ha1tch/gasplan/pkg/plan"
)

// HandleRadius is the pick distance for bend handles, in world units.
const HandleRadius = 8.0

// ItemAt returns the topmost item whose footprint contains p (world space).
func (e *Editor) ItemAt(p geom.Point) (plan.Item, bool) {
	items := e.doc.Items()
	for i := len(items) - 1; i >= 0; i-- {
		it := items[i]
		if math.Abs(p.X-it.Pos.X) <= plan.ItemRadius && math.Abs(p.Y-it.Pos.Y) <= plan.ItemRadius {
			return it, true
		}
	}
	return plan.Item{}, false
}

// HandleAt returns the topmost connection whose bend handle is near p.
func (e *Editor) HandleAt(p geom.Point) (plan.Connection, bool) {
	r := e.Router()
	conns := e.doc.Connections()
	for i := len(conns) - 1; i >= 0; i-- {
		route, ok := r.Route(e.doc, conns[i])
		if !ok {
			continue
		}
		if math.Abs(p.X-route.Handle.X) <= HandleRadius && math.Abs(p.Y-route.Handle.Y) <= HandleRadius {
			return conns[i], true
		}
	}
	return plan.Connection{}, false
}

// DrawableAt returns the topmost drawable whose bounds contain p.
func (e *Editor) DrawableAt(p geom.Point) (plan.Drawable, bool) {
	drs := e.doc.Drawables()
	for i := len(drs) - 1; i >= 0; i-- {
		if drs[i].Shape.Bounds().Inflate(HandleRadius / 2).Contains(p) {
			return drs[i], true
		}
	}
	return plan.Drawable{}, false
}
