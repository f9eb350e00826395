// Package plan provides the medical-gas plan document: typed items, gas pipe
// connections, CAD annotations and imported background geometry, together with
// routing, validation and bill-of-materials aggregation.
package plan

import (
	"github.com/ha1tch/gasplan/pkg/geom"
)

// ItemKind is the variant of a placed device.
type ItemKind string

const (
	KindSource   ItemKind = "source"
	KindTerminal ItemKind = "terminal"
	KindValve    ItemKind = "valve"
)

// ItemKinds lists every item kind in display order.
var ItemKinds = []ItemKind{KindSource, KindTerminal, KindValve}

// Valid reports whether k is a known kind.
func (k ItemKind) Valid() bool {
	switch k {
	case KindSource, KindTerminal, KindValve:
		return true
	}
	return false
}

// Title returns the name used for auto-generated labels and reports.
func (k ItemKind) Title() string {
	switch k {
	case KindSource:
		return "Source"
	case KindTerminal:
		return "Bed"
	case KindValve:
		return "Valve"
	}
	return string(k)
}

// GasLayer is the utility carried by a connection.
type GasLayer string

const (
	LayerO2         GasLayer = "o2"
	LayerMedicalAir GasLayer = "medical_air"
	LayerVacuum     GasLayer = "vacuum"
)

// GasLayers lists every gas layer in display order.
var GasLayers = []GasLayer{LayerO2, LayerMedicalAir, LayerVacuum}

// Valid reports whether l is a known layer.
func (l GasLayer) Valid() bool {
	switch l {
	case LayerO2, LayerMedicalAir, LayerVacuum:
		return true
	}
	return false
}

// Title returns the human-readable layer name.
func (l GasLayer) Title() string {
	switch l {
	case LayerO2:
		return "O2"
	case LayerMedicalAir:
		return "Medical Air"
	case LayerVacuum:
		return "Vacuum"
	}
	return string(l)
}

// Next returns the following layer, wrapping around.
func (l GasLayer) Next() GasLayer {
	for i, g := range GasLayers {
		if g == l {
			return GasLayers[(i+1)%len(GasLayers)]
		}
	}
	return LayerO2
}

// Item is a placed device.
type Item struct {
	ID       string     `json:"id" msgpack:"id"`
	Pos      geom.Point `json:"pos" msgpack:"pos"`
	Kind     ItemKind   `json:"kind" msgpack:"kind"`
	Label    string     `json:"label" msgpack:"label"`
	Rotation int        `json:"rotation" msgpack:"rotation"` // degrees, [0, 360)
	Icon     string     `json:"icon,omitempty" msgpack:"icon,omitempty"`
}

// Connection is a pipe between two items. Start and End are item ids; the
// layer is fixed at creation.
type Connection struct {
	ID         string   `json:"id" msgpack:"id"`
	Start      string   `json:"start" msgpack:"start"`
	End        string   `json:"end" msgpack:"end"`
	Layer      GasLayer `json:"layer" msgpack:"layer"`
	BendOffset float64  `json:"bend_offset" msgpack:"bend_offset"`
}

// Touches reports whether the connection has itemID as an endpoint.
func (c Connection) Touches(itemID string) bool {
	return c.Start == itemID || c.End == itemID
}

// Other returns the endpoint opposite itemID.
func (c Connection) Other(itemID string) string {
	if c.Start == itemID {
		return c.End
	}
	return c.Start
}

// BackgroundEntity is one imported line segment in the import's native units.
type BackgroundEntity struct {
	ID string     `json:"id" msgpack:"id"`
	P1 geom.Point `json:"p1" msgpack:"p1"`
	P2 geom.Point `json:"p2" msgpack:"p2"`
}

// Background describes how imported geometry is drawn.
// Scale is computed once at import time and applied uniformly when rendering.
// Image is an opaque handle to a raster underlay, empty when there is none.
type Background struct {
	Scale float64 `json:"scale" msgpack:"scale"`
	Image string  `json:"image,omitempty" msgpack:"image,omitempty"`
}

// ViewSettings holds the per-document view and drawing scale.
type ViewSettings struct {
	Viewport      geom.Viewport `json:"viewport" msgpack:"viewport"`
	GridSnap      bool          `json:"grid_snap" msgpack:"grid_snap"`
	GridSize      float64       `json:"grid_size" msgpack:"grid_size"`
	PixelsPerUnit float64       `json:"pixels_per_unit" msgpack:"pixels_per_unit"`
}

// Defaults for new documents.
const (
	DefaultGridSize      = 20.0
	DefaultPixelsPerUnit = 50.0
)

// DefaultViewSettings returns identity view, snapping on, 20px grid and 50px per unit.
func DefaultViewSettings() ViewSettings {
	return ViewSettings{
		Viewport:      geom.IdentityViewport(),
		GridSnap:      true,
		GridSize:      DefaultGridSize,
		PixelsPerUnit: DefaultPixelsPerUnit,
	}
}

// Snap applies grid snapping to a world point when snapping is enabled.
func (v ViewSettings) Snap(p geom.Point) geom.Point {
	if !v.GridSnap {
		return p
	}
	return geom.SnapPoint(p, v.GridSize)
}

// ItemRadius is the half-size of an item's footprint in world units, used for
// hit testing and bounds.
const ItemRadius = 20.0

// normalizeRotation wraps degrees into [0, 360).
func normalizeRotation(deg int) int {
	return ((deg % 360) + 360) % 360
}
