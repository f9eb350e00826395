// Package editor implements the interactive editing layer over a plan
// document: interaction modes, the connect state machine, drag gestures,
// selection, context-menu commands and undo/redo. Every structural change is
// recorded in the history stack as a single step; view changes are not.
package editor

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/ha1tch/gasplan/pkg/config"
	"github.com/ha1tch/gasplan/pkg/geom"
	"github.com/ha1tch/gasplan/pkg/history"
	"github.com/ha1tch/gasplan/pkg/plan"
)

// Mode is the interaction mode. PIPE places and connects items; CAD draws
// and edits annotations.
type Mode int

const (
	ModePipe Mode = iota
	ModeCAD
)

func (m Mode) String() string {
	if m == ModeCAD {
		return "CAD"
	}
	return "PIPE"
}

// Tool is the active CAD tool.
type Tool int

const (
	ToolSelect Tool = iota
	ToolLine
	ToolRect
	ToolText
)

func (t Tool) String() string {
	switch t {
	case ToolLine:
		return "line"
	case ToolRect:
		return "rect"
	case ToolText:
		return "text"
	}
	return "select"
}

// Errors returned for requests that do not fit the current editor state.
var (
	ErrWrongMode = errors.New("not available in this mode")
	ErrBusy      = errors.New("another gesture is in progress")
	ErrNoGesture = errors.New("no gesture in progress")

	errNoChange = errors.New("no change")
)

// Editor owns a document and its history.
type Editor struct {
	doc  *plan.Document
	hist *history.Stack[*plan.Document]
	cfg  config.Config
	log  *slog.Logger

	mode  Mode
	tool  Tool
	layer plan.GasLayer

	pending  string // first item of a connection, "" when idle
	selected []string
	gesture  *gesture
	menu     *ContextMenu

	stroke   string
	textBody string

	viewW, viewH float64
	modified     bool
}

// Option configures an Editor.
type Option func(*Editor)

// WithLogger sets the logger. Nil keeps slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Editor) {
		if l != nil {
			e.log = l
		}
	}
}

// WithDocument starts the editor on an existing document.
func WithDocument(d *plan.Document) Option {
	return func(e *Editor) {
		if d != nil {
			e.doc = d
		}
	}
}

// New creates an editor on an empty document configured from cfg.
func New(cfg config.Config, opts ...Option) *Editor {
	e := &Editor{
		cfg:      cfg,
		log:      slog.Default(),
		layer:    plan.LayerO2,
		stroke:   plan.DefaultStroke,
		textBody: "Text",
		viewW:    800,
		viewH:    600,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.doc == nil {
		e.doc = plan.New(plan.WithViewSettings(cfg.ViewSettings()))
	}
	e.hist = history.New(cfg.HistoryLimit, (*plan.Document).Clone)
	return e
}

// Document returns a copy of the current document.
func (e *Editor) Document() *plan.Document {
	return e.doc.Clone()
}

// Load replaces the document and clears history and transient state.
func (e *Editor) Load(d *plan.Document) {
	e.doc = d
	e.hist.Reset()
	e.reset()
	e.modified = false
	e.log.Info("document loaded", "items", d.ItemCount(), "connections", len(d.Connections()))
}

// Modified reports whether there are unsaved structural changes.
func (e *Editor) Modified() bool { return e.modified }

// MarkSaved clears the modified flag.
func (e *Editor) MarkSaved() { e.modified = false }

// Config returns the editor configuration.
func (e *Editor) Config() config.Config { return e.cfg }

// Router returns the router for the current document.
func (e *Editor) Router() plan.Router {
	return e.cfg.Router(e.doc)
}

// BOM aggregates the current document.
func (e *Editor) BOM() plan.BOM {
	return plan.Aggregate(e.doc, e.Router())
}

// Mode returns the interaction mode.
func (e *Editor) Mode() Mode { return e.mode }

// SetMode switches interaction mode, cancelling any gesture, pending
// connection or open menu.
func (e *Editor) SetMode(m Mode) {
	if m == e.mode {
		return
	}
	e.reset()
	e.mode = m
	e.log.Debug("mode", "mode", m.String())
}

// Tool returns the active CAD tool.
func (e *Editor) Tool() Tool { return e.tool }

// SetTool selects a CAD tool. A shape being drawn is discarded.
func (e *Editor) SetTool(t Tool) error {
	if e.mode != ModeCAD {
		return ErrWrongMode
	}
	if e.gesture != nil && e.gesture.kind == gestureDraw {
		e.gesture = nil
	}
	e.tool = t
	return nil
}

// Layer returns the gas layer used for new connections.
func (e *Editor) Layer() plan.GasLayer { return e.layer }

// SetLayer sets the gas layer used for new connections.
func (e *Editor) SetLayer(l plan.GasLayer) error {
	if !l.Valid() {
		return fmt.Errorf("%w: %q", plan.ErrInvalidLayer, l)
	}
	e.layer = l
	return nil
}

// CycleLayer advances to the next gas layer.
func (e *Editor) CycleLayer() plan.GasLayer {
	e.layer = e.layer.Next()
	return e.layer
}

// SetStroke sets the stroke colour for new drawables.
func (e *Editor) SetStroke(c string) { e.stroke = c }

// SetTextBody sets the body used by the text tool.
func (e *Editor) SetTextBody(s string) { e.textBody = s }

// reset drops all transient interaction state.
func (e *Editor) reset() {
	e.pending = ""
	e.gesture = nil
	e.menu = nil
	e.prune()
}

// commit runs a structural mutation as one history step. fn must leave the
// document untouched when it returns an error.
func (e *Editor) commit(op string, fn func(d *plan.Document) error) error {
	before := e.doc.Clone()
	if err := fn(e.doc); err != nil {
		return err
	}
	e.hist.Record(before)
	e.modified = true
	e.log.Debug("command", "op", op, "undo_depth", e.hist.Cursor())
	return nil
}

// Undo restores the previous document state. View settings are kept.
// It returns false when there is nothing to undo.
func (e *Editor) Undo() bool {
	prev, ok := e.hist.Undo(e.doc)
	if !ok {
		e.log.Debug("nothing to undo")
		return false
	}
	e.restore(prev)
	return true
}

// Redo re-applies an undone step. It returns false at the top of history.
func (e *Editor) Redo() bool {
	next, ok := e.hist.Redo()
	if !ok {
		e.log.Debug("nothing to redo")
		return false
	}
	e.restore(next)
	return true
}

// CanUndo reports whether Undo would change the document.
func (e *Editor) CanUndo() bool { return e.hist.CanUndo() }

// CanRedo reports whether Redo would change the document.
func (e *Editor) CanRedo() bool { return e.hist.CanRedo() }

func (e *Editor) restore(d *plan.Document) {
	d.SetView(e.doc.View())
	e.doc = d
	e.reset()
	e.modified = true
}

// View

// SetViewSize records the canvas size in view units.
func (e *Editor) SetViewSize(w, h float64) {
	if w > 0 && h > 0 {
		e.viewW, e.viewH = w, h
	}
}

func (e *Editor) setViewport(v geom.Viewport) {
	vs := e.doc.View()
	vs.Viewport = v
	e.doc.SetView(vs)
}

// Viewport returns the current transform.
func (e *Editor) Viewport() geom.Viewport {
	return e.doc.View().Viewport
}

// ZoomIn zooms by the configured step around a view-space pointer.
func (e *Editor) ZoomIn(pointer geom.Point) {
	e.zoom(pointer, e.cfg.Zoom.Step)
}

// ZoomOut zooms out by the configured step around a view-space pointer.
func (e *Editor) ZoomOut(pointer geom.Point) {
	e.zoom(pointer, 1/e.cfg.Zoom.Step)
}

func (e *Editor) zoom(pointer geom.Point, factor float64) {
	v := e.Viewport().ZoomBy(pointer, factor, e.cfg.Zoom.Min, e.cfg.Zoom.Max)
	e.setViewport(v)
}

// ZoomAt sets an absolute scale keeping the world point under pointer fixed.
func (e *Editor) ZoomAt(pointer geom.Point, scale float64) {
	e.setViewport(e.Viewport().ZoomAt(pointer, scale))
}

// Pan shifts the view by a view-space delta.
func (e *Editor) Pan(dx, dy float64) {
	e.setViewport(e.Viewport().Pan(dx, dy))
}

// ZoomToFit scales and centres the view on the document content.
func (e *Editor) ZoomToFit() {
	b, ok := e.doc.Bounds()
	if !ok {
		e.setViewport(geom.IdentityViewport())
		return
	}
	b = b.Inflate(plan.ItemRadius)
	v := geom.FitViewport(b, e.viewW, e.viewH)
	clamped := math.Max(e.cfg.Zoom.Min, math.Min(e.cfg.Zoom.Max, v.Scale))
	e.setViewport(v.ZoomAt(geom.Pt(e.viewW/2, e.viewH/2), clamped))
}

// ToggleSnap flips grid snapping and returns the new state.
func (e *Editor) ToggleSnap() bool {
	vs := e.doc.View()
	vs.GridSnap = !vs.GridSnap
	e.doc.SetView(vs)
	return vs.GridSnap
}

// ToWorld converts a view-space point to world space.
func (e *Editor) ToWorld(p geom.Point) geom.Point {
	return e.Viewport().ToWorld(p)
}

func (e *Editor) snap(p geom.Point) geom.Point {
	return e.doc.View().Snap(p)
}
