package plan

import (
	"github.com/ha1tch/gasplan/pkg/geom"
)

// Routing defaults.
const (
	DefaultOverLength  = 20.0 // length units
	DefaultLayerOffset = 15.0 // world units between parallel gas runs
)

// DefaultLayerOffsets keeps O2 on the centre column and shifts medical air
// right and vacuum left.
func DefaultLayerOffsets() map[GasLayer]float64 {
	return map[GasLayer]float64{
		LayerO2:         0,
		LayerMedicalAir: DefaultLayerOffset,
		LayerVacuum:     -DefaultLayerOffset,
	}
}

// Router computes connection paths and lengths. Paths run horizontally from
// the start, vertically through a single bend column at
//
//	midX = (A.x+B.x)/2 + bendOffset + layerOffset(layer)
//
// and horizontally again into the end. Length is the Manhattan distance
// between the endpoints divided by PixelsPerUnit; the bend column is visual
// only and never lengthens the pipe.
type Router struct {
	PixelsPerUnit float64
	OverLength    float64
	LayerOffsets  map[GasLayer]float64
}

// DefaultRouter returns a router with 50px per unit, a 20 unit over-length
// threshold and the default layer offsets.
func DefaultRouter() Router {
	return Router{
		PixelsPerUnit: DefaultPixelsPerUnit,
		OverLength:    DefaultOverLength,
		LayerOffsets:  DefaultLayerOffsets(),
	}
}

// Route is the derived geometry of one connection.
type Route struct {
	Path       []geom.Point // A, (midX, A.y), (midX, B.y), B
	Handle     geom.Point   // bend handle, middle of the vertical run
	Length     float64
	OverLength bool
}

// LayerOffset returns the fixed lateral shift for a layer.
func (r Router) LayerOffset(l GasLayer) float64 {
	return r.LayerOffsets[l]
}

// MidX returns the x of the bend column.
func (r Router) MidX(a, b geom.Point, layer GasLayer, bend float64) float64 {
	return (a.X+b.X)/2 + bend + r.LayerOffset(layer)
}

// Length converts the endpoint Manhattan distance into length units.
// A non-positive scale is treated as 1.
func (r Router) Length(a, b geom.Point) float64 {
	ppu := r.PixelsPerUnit
	if ppu <= 0 {
		ppu = 1
	}
	return a.Manhattan(b) / ppu
}

// IsOverLength reports whether length exceeds the display threshold.
// A non-positive threshold disables the flag.
func (r Router) IsOverLength(length float64) bool {
	return r.OverLength > 0 && length > r.OverLength
}

// Between routes a pipe between two points.
func (r Router) Between(a, b geom.Point, layer GasLayer, bend float64) Route {
	midX := r.MidX(a, b, layer, bend)
	length := r.Length(a, b)
	return Route{
		Path:       []geom.Point{a, {X: midX, Y: a.Y}, {X: midX, Y: b.Y}, b},
		Handle:     geom.Pt(midX, (a.Y+b.Y)/2),
		Length:     length,
		OverLength: r.IsOverLength(length),
	}
}

// Route resolves a connection's endpoints and routes it. ok is false when an
// endpoint is missing; such connections are skipped, not reported.
func (r Router) Route(d *Document, c Connection) (Route, bool) {
	a, b, ok := d.Endpoints(c)
	if !ok {
		return Route{}, false
	}
	return r.Between(a.Pos, b.Pos, c.Layer, c.BendOffset), true
}

// BendOffsetFor returns the bend offset that puts the bend column at bendX,
// so a dragged handle stays under the pointer whatever the layer offset.
func (r Router) BendOffsetFor(a, b geom.Point, layer GasLayer, bendX float64) float64 {
	return bendX - (a.X+b.X)/2 - r.LayerOffset(layer)
}

// RouterFor returns a router using the document's drawing scale and the
// given threshold and offsets. Nil offsets select the defaults.
func RouterFor(d *Document, overLength float64, offsets map[GasLayer]float64) Router {
	if offsets == nil {
		offsets = DefaultLayerOffsets()
	}
	return Router{
		PixelsPerUnit: d.View().PixelsPerUnit,
		OverLength:    overLength,
		LayerOffsets:  offsets,
	}
}
