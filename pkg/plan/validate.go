package plan

import (
	"fmt"
	"math"
)

// ValidateConnection checks a candidate connection against the current
// connections, before it is added. A Source may only ever supply one gas
// layer; other kinds are unconstrained.
func (d *Document) ValidateConnection(start, end string, layer GasLayer) error {
	if !layer.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidLayer, layer)
	}
	if start == end {
		return ErrSelfConnection
	}
	a, ok := d.items.get(start)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownItem, start)
	}
	b, ok := d.items.get(end)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownItem, end)
	}
	for _, it := range []Item{a, b} {
		if it.Kind != KindSource {
			continue
		}
		if existing, ok := d.SourceLayer(it.ID); ok && existing != layer {
			return &GasConflictError{
				Source:      it.ID,
				SourceLabel: it.Label,
				Existing:    existing,
				Requested:   layer,
			}
		}
	}
	return nil
}

// SourceLayer returns the gas layer already carried by an item's connections.
// ok is false when the item has none.
func (d *Document) SourceLayer(itemID string) (GasLayer, bool) {
	for _, c := range d.connections.all() {
		if c.Touches(itemID) {
			return c.Layer, true
		}
	}
	return "", false
}

// Check verifies the invariants a loaded document must hold. Dangling
// connections are tolerated; everything else that the mutation API could
// never produce is reported as ErrCorruptDocument.
func (d *Document) Check() error {
	for _, it := range d.items.all() {
		if !it.Kind.Valid() {
			return corrupt("item %s: unknown kind %q", it.ID, it.Kind)
		}
		if !it.Pos.Finite() {
			return corrupt("item %s: non-finite position", it.ID)
		}
		if it.Rotation < 0 || it.Rotation >= 360 {
			return corrupt("item %s: rotation %d out of range", it.ID, it.Rotation)
		}
	}

	sourceLayers := make(map[string]GasLayer)
	for _, c := range d.connections.all() {
		if !c.Layer.Valid() {
			return corrupt("connection %s: unknown layer %q", c.ID, c.Layer)
		}
		if c.Start == c.End {
			return corrupt("connection %s: both ends on %s", c.ID, c.Start)
		}
		if math.IsNaN(c.BendOffset) || math.IsInf(c.BendOffset, 0) {
			return corrupt("connection %s: non-finite bend offset", c.ID)
		}
		for _, id := range []string{c.Start, c.End} {
			it, ok := d.items.get(id)
			if !ok || it.Kind != KindSource {
				continue
			}
			if prev, seen := sourceLayers[id]; seen && prev != c.Layer {
				return corrupt("source %s carries both %s and %s", id, prev, c.Layer)
			}
			sourceLayers[id] = c.Layer
		}
	}

	for _, dr := range d.drawables.all() {
		if !validShape(dr.Shape) {
			return corrupt("drawable %s: incomplete shape", dr.ID)
		}
		if dr.Rotation < 0 || dr.Rotation >= 360 {
			return corrupt("drawable %s: rotation %d out of range", dr.ID, dr.Rotation)
		}
	}

	for _, e := range d.background.all() {
		if !e.P1.Finite() || !e.P2.Finite() {
			return corrupt("background entity %s: non-finite segment", e.ID)
		}
	}
	if !(d.bg.Scale > 0) || math.IsInf(d.bg.Scale, 0) {
		return corrupt("background scale %v", d.bg.Scale)
	}
	if !d.view.Viewport.Valid() {
		return corrupt("viewport %v", d.view.Viewport)
	}
	if !(d.view.PixelsPerUnit > 0) || math.IsInf(d.view.PixelsPerUnit, 0) {
		return corrupt("pixels per unit %v", d.view.PixelsPerUnit)
	}
	if d.view.GridSize < 0 {
		return corrupt("grid size %v", d.view.GridSize)
	}
	return nil
}
