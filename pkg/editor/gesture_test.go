package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/gasplan/pkg/geom"
	"github.com/ha1tch/gasplan/pkg/plan"
)

func TestItemDragIsOneStep(t *testing.T) {
	e := newTestEditor(t)
	it := place(t, e, plan.KindValve, 100, 100)
	depth := e.hist.Cursor()

	require.NoError(t, e.BeginItemDrag(it.ID, geom.Pt(110, 90)))
	assert.ErrorIs(t, e.BeginItemDrag(it.ID, geom.Pt(0, 0)), ErrBusy)
	for i := 1; i <= 50; i++ {
		require.NoError(t, e.UpdateDrag(geom.Pt(110+float64(i)*4, 90), false))
	}
	// Staged in the frame, untouched in the document.
	got, _ := e.Document().Item(it.ID)
	assert.Equal(t, geom.Pt(100, 100), got.Pos)
	assert.Equal(t, geom.Pt(300, 100), e.Frame().Items[0].Pos)
	assert.Equal(t, depth, e.hist.Cursor())

	changed, err := e.EndDrag()
	require.NoError(t, err)
	assert.True(t, changed)
	got, _ = e.Document().Item(it.ID)
	assert.Equal(t, geom.Pt(300, 100), got.Pos)
	assert.Equal(t, depth+1, e.hist.Cursor())

	require.True(t, e.Undo())
	got, _ = e.Document().Item(it.ID)
	assert.Equal(t, geom.Pt(100, 100), got.Pos)
}

func TestDragWithoutMovementRecordsNothing(t *testing.T) {
	e := newTestEditor(t)
	it := place(t, e, plan.KindValve, 100, 100)
	depth := e.hist.Cursor()

	require.NoError(t, e.BeginItemDrag(it.ID, geom.Pt(100, 100)))
	require.NoError(t, e.UpdateDrag(geom.Pt(104, 97), false)) // snaps back
	changed, err := e.EndDrag()
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, depth, e.hist.Cursor())

	_, err = e.EndDrag()
	assert.ErrorIs(t, err, ErrNoGesture)
	assert.ErrorIs(t, e.UpdateDrag(geom.Pt(0, 0), false), ErrNoGesture)
}

func TestCancelDrag(t *testing.T) {
	e := newTestEditor(t)
	it := place(t, e, plan.KindValve, 0, 0)
	require.NoError(t, e.BeginItemDrag(it.ID, geom.Pt(0, 0)))
	require.NoError(t, e.UpdateDrag(geom.Pt(200, 0), false))
	e.CancelDrag()
	assert.False(t, e.Dragging())
	got, _ := e.Document().Item(it.ID)
	assert.Equal(t, geom.Pt(0, 0), got.Pos)
}

func TestBendDragFollowsPointer(t *testing.T) {
	e := newTestEditor(t)
	a := place(t, e, plan.KindTerminal, 0, 0)
	b := place(t, e, plan.KindTerminal, 400, 200)
	for _, layer := range plan.GasLayers {
		c, err := e.Connect(a.ID, b.ID, layer)
		require.NoError(t, err)

		require.NoError(t, e.BeginBendDrag(c.ID))
		require.NoError(t, e.UpdateDrag(geom.Pt(120, 77), false))
		for _, p := range e.Frame().Pipes {
			if p.ID == c.ID {
				assert.Equal(t, 120.0, p.Route.Handle.X, "staged handle, layer %s", layer)
			}
		}
		changed, err := e.EndDrag()
		require.NoError(t, err)
		require.True(t, changed)

		got, _ := e.Document().Connection(c.ID)
		route, ok := e.Router().Route(e.Document(), got)
		require.True(t, ok)
		assert.Equal(t, 120.0, route.Handle.X, "layer %s", layer)
		assert.Equal(t, layer, got.Layer)
	}
}

func TestBendDragRequiresPipeMode(t *testing.T) {
	e := newTestEditor(t)
	a := place(t, e, plan.KindTerminal, 0, 0)
	b := place(t, e, plan.KindTerminal, 400, 200)
	c, err := e.Connect(a.ID, b.ID, plan.LayerO2)
	require.NoError(t, err)
	e.SetMode(ModeCAD)
	assert.ErrorIs(t, e.BeginBendDrag(c.ID), ErrWrongMode)
	e.SetMode(ModePipe)
	assert.ErrorIs(t, e.BeginBendDrag("nope"), plan.ErrUnknownEntity)
}

func TestDrawPolylineWithOrtho(t *testing.T) {
	e := newTestEditor(t)
	e.SetMode(ModeCAD)
	require.NoError(t, e.SetTool(ToolLine))

	require.NoError(t, e.BeginDraw(geom.Pt(0, 0)))
	require.NoError(t, e.UpdateDrag(geom.Pt(200, 40), true))
	require.NoError(t, e.AddVertex())
	require.NoError(t, e.UpdateDrag(geom.Pt(220, 160), true))

	f := e.Frame()
	require.NotNil(t, f.Draft)
	assert.Equal(t, []geom.Point{{X: 0, Y: 0}, {X: 200, Y: 0}, {X: 200, Y: 160}}, f.Draft.Shape.(*plan.Line).Points)

	changed, err := e.EndDrag()
	require.NoError(t, err)
	require.True(t, changed)
	drs := e.Document().Drawables()
	require.Len(t, drs, 1)
	assert.Equal(t, plan.DefaultStroke, drs[0].Stroke)
	assert.Equal(t, f.Draft.Shape, drs[0].Shape)
}

func TestDrawDiscardsDegenerateShapes(t *testing.T) {
	e := newTestEditor(t)
	e.SetMode(ModeCAD)

	require.NoError(t, e.SetTool(ToolLine))
	require.NoError(t, e.BeginDraw(geom.Pt(0, 0)))
	require.NoError(t, e.AddVertex())
	changed, err := e.EndDrag()
	require.NoError(t, err)
	assert.False(t, changed)

	require.NoError(t, e.SetTool(ToolRect))
	require.NoError(t, e.BeginDraw(geom.Pt(0, 0)))
	require.NoError(t, e.UpdateDrag(geom.Pt(100, 0), false))
	changed, err = e.EndDrag()
	require.NoError(t, err)
	assert.False(t, changed)

	assert.Empty(t, e.Document().Drawables())
	assert.False(t, e.CanUndo())
}

func TestDrawRectAndText(t *testing.T) {
	e := newTestEditor(t)
	e.SetMode(ModeCAD)
	e.SetStroke("#0044aa")

	require.NoError(t, e.SetTool(ToolRect))
	require.NoError(t, e.BeginDraw(geom.Pt(100, 100)))
	require.NoError(t, e.UpdateDrag(geom.Pt(40, 160), false))
	_, err := e.EndDrag()
	require.NoError(t, err)

	require.NoError(t, e.SetTool(ToolText))
	e.SetTextBody("ICU")
	require.NoError(t, e.BeginDraw(geom.Pt(0, 0)))
	require.NoError(t, e.UpdateDrag(geom.Pt(20, 40), false))
	_, err = e.EndDrag()
	require.NoError(t, err)

	drs := e.Document().Drawables()
	require.Len(t, drs, 2)
	assert.Equal(t, &plan.Rectangle{Origin: geom.Pt(100, 100), W: -60, H: 60}, drs[0].Shape)
	assert.Equal(t, geom.Rect{X: 40, Y: 100, W: 60, H: 60}, drs[0].Shape.Bounds())
	assert.Equal(t, "#0044aa", drs[0].Stroke)
	assert.Equal(t, &plan.Text{Origin: geom.Pt(20, 40), Body: "ICU"}, drs[1].Shape)

	require.NoError(t, e.SetText(drs[1].ID, "ICU 2"))
	txt, _ := e.Document().Drawable(drs[1].ID)
	assert.Equal(t, "ICU 2", txt.Shape.(*plan.Text).Body)
	assert.ErrorIs(t, e.SetText(drs[0].ID, "x"), plan.ErrInvalidGeometry)
}

func TestDrawableDrag(t *testing.T) {
	e := newTestEditor(t)
	e.SetMode(ModeCAD)
	require.NoError(t, e.SetTool(ToolRect))
	require.NoError(t, e.BeginDraw(geom.Pt(0, 0)))
	require.NoError(t, e.UpdateDrag(geom.Pt(40, 40), false))
	_, err := e.EndDrag()
	require.NoError(t, err)
	id := e.Document().Drawables()[0].ID

	require.NoError(t, e.SetTool(ToolSelect))
	assert.ErrorIs(t, e.BeginDraw(geom.Pt(0, 0)), ErrWrongMode)
	require.NoError(t, e.BeginDrawableDrag(id, geom.Pt(20, 20)))
	require.NoError(t, e.UpdateDrag(geom.Pt(81, 59), false))
	assert.Equal(t, geom.Pt(60, 40), e.Frame().Drawables[0].Shape.(*plan.Rectangle).Origin)
	_, err = e.EndDrag()
	require.NoError(t, err)

	dr, _ := e.Document().Drawable(id)
	assert.Equal(t, geom.Pt(60, 40), dr.Shape.(*plan.Rectangle).Origin)

	e.SetMode(ModePipe)
	assert.ErrorIs(t, e.BeginDrawableDrag(id, geom.Pt(0, 0)), ErrWrongMode)
}

func TestSetToolRequiresCAD(t *testing.T) {
	e := newTestEditor(t)
	assert.ErrorIs(t, e.SetTool(ToolLine), ErrWrongMode)
	assert.Equal(t, "select", e.Tool().String())
}
