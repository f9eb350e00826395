package editor

import (
	"errors"
	"fmt"

	"github.com/ha1tch/gasplan/pkg/geom"
	"github.com/ha1tch/gasplan/pkg/plan"
)

// PlaceItem adds an item at the centre of the view.
func (e *Editor) PlaceItem(kind plan.ItemKind) (plan.Item, error) {
	return e.PlaceItemAt(kind, e.Viewport().Center(e.viewW, e.viewH))
}

// PlaceItemAt adds an item at a world position, snapped when grid snap is on.
func (e *Editor) PlaceItemAt(kind plan.ItemKind, p geom.Point) (plan.Item, error) {
	if e.mode != ModePipe {
		return plan.Item{}, ErrWrongMode
	}
	var it plan.Item
	err := e.commit("place", func(d *plan.Document) error {
		var err error
		it, err = d.AddItem(kind, e.snap(p), "")
		return err
	})
	return it, err
}

// Connect commits a connection on layer between two items. A rejected
// connection changes nothing and records no history.
func (e *Editor) Connect(start, end string, layer plan.GasLayer) (plan.Connection, error) {
	var c plan.Connection
	err := e.commit("connect", func(d *plan.Document) error {
		var err error
		c, err = d.AddConnection(start, end, layer)
		return err
	})
	if err != nil {
		var conflict *plan.GasConflictError
		if errors.As(err, &conflict) {
			e.log.Warn("connection rejected",
				"source", conflict.Source,
				"existing", conflict.Existing,
				"requested", conflict.Requested)
		}
		return plan.Connection{}, err
	}
	return c, nil
}

// ClickResult describes what a click did to the connect state machine.
type ClickResult int

const (
	ClickIgnored   ClickResult = iota // not in PIPE mode, or unknown item
	ClickPending                      // first endpoint chosen
	ClickCancelled                    // pending connection dropped
	ClickConnected                    // connection committed
	ClickRejected                     // connection refused; back to idle
)

// ClickItem advances the connect state machine: the first click picks the
// start item, a click on a different item connects on the active layer, and
// a second click on the same item cancels.
func (e *Editor) ClickItem(id string) (ClickResult, error) {
	if e.mode != ModePipe {
		return ClickIgnored, nil
	}
	if _, ok := e.doc.Item(id); !ok {
		return ClickIgnored, nil
	}
	if e.pending == "" {
		e.pending = id
		return ClickPending, nil
	}
	start := e.pending
	e.pending = ""
	if start == id {
		return ClickCancelled, nil
	}
	if _, err := e.Connect(start, id, e.layer); err != nil {
		return ClickRejected, err
	}
	return ClickConnected, nil
}

// ClickCanvas handles a click on empty canvas. It cancels a pending
// connection and, with the CAD select tool, clears the selection.
func (e *Editor) ClickCanvas() ClickResult {
	if e.mode == ModeCAD && e.tool == ToolSelect {
		e.selected = nil
	}
	if e.pending != "" {
		e.pending = ""
		return ClickCancelled
	}
	return ClickIgnored
}

// Pending returns the start item of a connection in progress.
func (e *Editor) Pending() (string, bool) {
	return e.pending, e.pending != ""
}

// CancelPending drops a pending connection.
func (e *Editor) CancelPending() {
	e.pending = ""
}

// Rotate turns an item or drawable by delta degrees.
func (e *Editor) Rotate(kind plan.EntityKind, id string, delta int) error {
	return e.commit("rotate", func(d *plan.Document) error {
		switch kind {
		case plan.EntityItem:
			_, err := d.RotateItem(id, delta)
			return err
		case plan.EntityDrawable:
			_, err := d.RotateDrawable(id, delta)
			return err
		}
		return fmt.Errorf("%w: cannot rotate %s", plan.ErrUnknownEntity, kind)
	})
}

// Delete removes one entity. Items take their connections with them.
func (e *Editor) Delete(kind plan.EntityKind, id string) error {
	err := e.commit("delete", func(d *plan.Document) error {
		switch kind {
		case plan.EntityItem:
			_, err := d.RemoveItem(id)
			return err
		case plan.EntityConnection:
			return d.RemoveConnection(id)
		case plan.EntityDrawable:
			return d.RemoveDrawable(id)
		case plan.EntityBackground:
			return d.RemoveBackgroundEntity(id)
		}
		return fmt.Errorf("%w: %s", plan.ErrUnknownEntity, kind)
	})
	if err == nil {
		e.prune()
	}
	return err
}

// SetLabel renames an item.
func (e *Editor) SetLabel(id, label string) error {
	return e.commit("label", func(d *plan.Document) error {
		return d.SetItemLabel(id, label)
	})
}

// SetText replaces the body of a text drawable.
func (e *Editor) SetText(id, body string) error {
	return e.commit("text", func(d *plan.Document) error {
		dr, ok := d.Drawable(id)
		if !ok {
			return fmt.Errorf("%w: drawable %s", plan.ErrUnknownEntity, id)
		}
		txt, ok := dr.Shape.(*plan.Text)
		if !ok {
			return fmt.Errorf("%w: drawable %s is a %s", plan.ErrInvalidGeometry, id, dr.Shape.Kind())
		}
		txt.Body = body
		return d.UpdateDrawable(dr)
	})
}

// ImportBackground replaces the imported background in one history step and
// returns the fit scale.
func (e *Editor) ImportBackground(segs []plan.Segment, flipY bool) float64 {
	var scale float64
	_ = e.commit("import", func(d *plan.Document) error {
		scale = d.ImportBackground(segs, e.cfg.ImportOptions(flipY))
		return nil
	})
	e.log.Info("background imported", "segments", len(e.doc.BackgroundEntities()), "scale", scale)
	e.prune()
	return scale
}

// SetBackgroundImage attaches an opaque raster handle, or clears it when empty.
func (e *Editor) SetBackgroundImage(handle string) {
	_ = e.commit("background image", func(d *plan.Document) error {
		bg := d.Background()
		if bg.Image == handle {
			return errNoChange
		}
		bg.Image = handle
		d.SetBackground(bg)
		return nil
	})
}

// Selection

// Selected returns the selected ids in selection order.
func (e *Editor) Selected() []string {
	return append([]string(nil), e.selected...)
}

// IsSelected reports whether id is selected.
func (e *Editor) IsSelected(id string) bool {
	for _, s := range e.selected {
		if s == id {
			return true
		}
	}
	return false
}

// ToggleSelect adds id to the selection, or removes it if present.
func (e *Editor) ToggleSelect(id string) {
	for i, s := range e.selected {
		if s == id {
			e.selected = append(e.selected[:i], e.selected[i+1:]...)
			return
		}
	}
	if len(e.doc.Lookup(id)) > 0 {
		e.selected = append(e.selected, id)
	}
}

// ClearSelection empties the selection.
func (e *Editor) ClearSelection() {
	e.selected = nil
}

// DeleteSelected removes every selected id from every collection in one
// history step. It returns the number of entities removed.
func (e *Editor) DeleteSelected() int {
	if len(e.selected) == 0 {
		return 0
	}
	ids := e.selected
	var n int
	_ = e.commit("delete selection", func(d *plan.Document) error {
		if n = d.Remove(ids...); n == 0 {
			return errNoChange
		}
		return nil
	})
	e.selected = nil
	e.prune()
	return n
}

// prune drops selected ids and a pending start item that no longer exist.
func (e *Editor) prune() {
	if _, ok := e.doc.Item(e.pending); !ok {
		e.pending = ""
	}
	kept := e.selected[:0]
	for _, id := range e.selected {
		if len(e.doc.Lookup(id)) > 0 {
			kept = append(kept, id)
		}
	}
	if len(kept) == 0 {
		kept = nil
	}
	e.selected = kept
}
