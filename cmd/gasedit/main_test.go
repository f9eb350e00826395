package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/gasplan/pkg/config"
	"github.com/ha1tch/gasplan/pkg/editor"
	"github.com/ha1tch/gasplan/pkg/geom"
	"github.com/ha1tch/gasplan/pkg/plan"
	"github.com/ha1tch/gasplan/pkg/planfile"
)

func newTestEditor(t *testing.T) *Editor {
	t.Helper()
	cfg := config.DefaultConfig()
	doc := plan.New(plan.WithIDGenerator(plan.SequentialIDs("t")), plan.WithViewSettings(cfg.ViewSettings()))
	ed := newEditor(cfg, filepath.Join(t.TempDir(), "config.yaml"), editor.WithDocument(doc))

	screen := tcell.NewSimulationScreen("")
	require.NoError(t, screen.Init())
	screen.SetSize(110, 40)
	t.Cleanup(screen.Fini)
	ed.screen = screen
	ed.resize()
	return ed
}

func key(k tcell.Key) *tcell.EventKey { return tcell.NewEventKey(k, 0, tcell.ModNone) }

func runes(ed *Editor, s string) {
	for _, r := range s {
		ed.handleKey(tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone))
	}
}

func press(ed *Editor, k tcell.Key, n int) {
	for i := 0; i < n; i++ {
		ed.handleKey(key(k))
	}
}

func moveTo(ed *Editor, x, y int) {
	ed.cursorX, ed.cursorY = x, y
}

// buildNetwork places a source at cell (10,5) and a bed at (40,15) and joins
// them with an O2 pipe.
func buildNetwork(t *testing.T, ed *Editor) (plan.Item, plan.Item) {
	t.Helper()
	moveTo(ed, 10, 5)
	runes(ed, "1")
	moveTo(ed, 40, 15)
	runes(ed, "2")

	moveTo(ed, 10, 5)
	press(ed, tcell.KeyEnter, 1)
	moveTo(ed, 40, 15)
	press(ed, tcell.KeyEnter, 1)

	items := ed.session.Document().Items()
	require.Len(t, items, 2)
	require.Len(t, ed.session.Document().Connections(), 1)
	return items[0], items[1]
}

func TestPlaceAndConnect(t *testing.T) {
	ed := newTestEditor(t)
	src, bed := buildNetwork(t, ed)

	assert.Equal(t, plan.KindSource, src.Kind)
	assert.Equal(t, geom.Pt(100, 100), src.Pos)
	assert.Equal(t, geom.Pt(400, 300), bed.Pos)
	assert.Equal(t, MsgSuccess, ed.messageType)

	c := ed.session.Document().Connections()[0]
	assert.Equal(t, plan.LayerO2, c.Layer)

	press(ed, tcell.KeyCtrlZ, 1)
	assert.Empty(t, ed.session.Document().Connections())
	press(ed, tcell.KeyCtrlY, 1)
	assert.Len(t, ed.session.Document().Connections(), 1)
}

func TestLayerConflictShowsError(t *testing.T) {
	ed := newTestEditor(t)
	buildNetwork(t, ed)

	moveTo(ed, 10, 25)
	runes(ed, "2")
	runes(ed, "ll") // vacuum
	assert.Equal(t, plan.LayerVacuum, ed.session.Layer())

	moveTo(ed, 10, 5)
	press(ed, tcell.KeyEnter, 1)
	moveTo(ed, 10, 25)
	press(ed, tcell.KeyEnter, 1)

	assert.Equal(t, MsgError, ed.messageType)
	assert.Len(t, ed.session.Document().Connections(), 1)
}

func TestMoveItemWithKeys(t *testing.T) {
	ed := newTestEditor(t)
	_, bed := buildNetwork(t, ed)

	moveTo(ed, 40, 15)
	runes(ed, "g")
	require.Equal(t, ModeMove, ed.mode)
	press(ed, tcell.KeyRight, 2)
	press(ed, tcell.KeyEnter, 1)
	assert.Equal(t, ModeCanvas, ed.mode)

	got, _ := ed.session.Document().Item(bed.ID)
	assert.Equal(t, geom.Pt(420, 300), got.Pos)

	moveTo(ed, 42, 15)
	runes(ed, "g")
	press(ed, tcell.KeyRight, 4)
	press(ed, tcell.KeyEscape, 1)
	got, _ = ed.session.Document().Item(bed.ID)
	assert.Equal(t, geom.Pt(420, 300), got.Pos, "cancelled drag leaves the item")
}

func TestBendHandleWithKeys(t *testing.T) {
	ed := newTestEditor(t)
	buildNetwork(t, ed)

	moveTo(ed, 25, 10) // handle at (250,200)
	runes(ed, "b")
	require.Equal(t, ModeBend, ed.mode)
	press(ed, tcell.KeyRight, 3)
	press(ed, tcell.KeyEnter, 1)

	c := ed.session.Document().Connections()[0]
	route, ok := ed.session.Router().Route(ed.session.Document(), c)
	require.True(t, ok)
	assert.Equal(t, 280.0, route.Handle.X)
}

func TestRotateDeleteAndMenu(t *testing.T) {
	ed := newTestEditor(t)
	src, _ := buildNetwork(t, ed)

	moveTo(ed, 10, 5)
	runes(ed, "r")
	got, _ := ed.session.Document().Item(src.ID)
	assert.Equal(t, 90, got.Rotation)
	runes(ed, "RR")
	got, _ = ed.session.Document().Item(src.ID)
	assert.Equal(t, 270, got.Rotation)

	runes(ed, "m")
	require.Equal(t, ModeMenu, ed.mode)
	press(ed, tcell.KeyDown, 1)
	press(ed, tcell.KeyEnter, 1)
	got, _ = ed.session.Document().Item(src.ID)
	assert.Equal(t, 0, got.Rotation)

	runes(ed, "x")
	assert.Equal(t, 1, ed.session.Document().ItemCount())
	assert.Empty(t, ed.session.Document().Connections(), "deleting an item removes its pipes")
}

func TestSelectionDelete(t *testing.T) {
	ed := newTestEditor(t)
	buildNetwork(t, ed)

	moveTo(ed, 10, 5)
	runes(ed, " ")
	moveTo(ed, 40, 15)
	runes(ed, " ")
	assert.Len(t, ed.session.Selected(), 2)

	runes(ed, "X")
	assert.True(t, ed.session.Document().Empty())
	press(ed, tcell.KeyCtrlZ, 1)
	assert.Equal(t, 2, ed.session.Document().ItemCount())
}

func TestRenameItem(t *testing.T) {
	ed := newTestEditor(t)
	src, _ := buildNetwork(t, ed)

	moveTo(ed, 10, 5)
	runes(ed, "n")
	require.Equal(t, ModeInput, ed.mode)
	runes(ed, "Plant")
	press(ed, tcell.KeyEnter, 1)

	got, _ := ed.session.Document().Item(src.ID)
	assert.Equal(t, "Plant", got.Label)
}

func TestDrawLineAndText(t *testing.T) {
	ed := newTestEditor(t)
	press(ed, tcell.KeyTab, 1)
	assert.Equal(t, editor.ModeCAD, ed.session.Mode())

	runes(ed, "t")
	assert.Equal(t, editor.ToolLine, ed.session.Tool())
	moveTo(ed, 0, 10)
	runes(ed, "d")
	require.Equal(t, ModeDraw, ed.mode)
	press(ed, tcell.KeyRight, 20)
	press(ed, tcell.KeyEnter, 1)

	drs := ed.session.Document().Drawables()
	require.Len(t, drs, 1)
	assert.Equal(t, plan.ShapeLine, drs[0].Shape.Kind())

	runes(ed, "tt")
	assert.Equal(t, editor.ToolText, ed.session.Tool())
	moveTo(ed, 5, 20)
	runes(ed, "d")
	require.Equal(t, ModeInput, ed.mode)
	runes(ed, "ICU")
	press(ed, tcell.KeyEnter, 1)
	require.Equal(t, ModeDraw, ed.mode)
	press(ed, tcell.KeyEnter, 1)

	drs = ed.session.Document().Drawables()
	require.Len(t, drs, 2)
	assert.Equal(t, "ICU", drs[1].Shape.(*plan.Text).Body)
}

func TestQuitAsksTwiceWhenModified(t *testing.T) {
	ed := newTestEditor(t)
	assert.True(t, ed.handleKey(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)))

	moveTo(ed, 10, 5)
	runes(ed, "3")
	q := tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)
	assert.False(t, ed.handleKey(q))
	assert.True(t, ed.handleKey(q))
}

func TestSaveAndReopen(t *testing.T) {
	ed := newTestEditor(t)
	buildNetwork(t, ed)

	dir := t.TempDir()
	path := filepath.Join(dir, "ward")
	press(ed, tcell.KeyCtrlS, 1)
	require.Equal(t, ModeInput, ed.mode)
	runes(ed, path)
	press(ed, tcell.KeyEnter, 1)

	assert.Equal(t, path+".gplan", ed.filename)
	assert.False(t, ed.session.Modified())
	assert.Equal(t, dir, ed.config.LastDir)
	cfg, err := config.LoadConfig(ed.configPath)
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.LastDir)

	d, err := planfile.ReadFile(ed.filename)
	require.NoError(t, err)
	assert.Equal(t, 2, d.ItemCount())

	other := newTestEditor(t)
	other.open(ed.filename)
	assert.Equal(t, MsgSuccess, other.messageType)
	assert.Len(t, other.session.Document().Connections(), 1)
}

func TestImportAndExport(t *testing.T) {
	ed := newTestEditor(t)
	dir := t.TempDir()
	segs := filepath.Join(dir, "walls.json")
	require.NoError(t, os.WriteFile(segs, []byte(`[[0,0,100,0],[100,0,100,50]]`), 0644))

	ed.importSegments(segs)
	assert.Equal(t, MsgSuccess, ed.messageType, ed.message)
	assert.Len(t, ed.session.Document().BackgroundEntities(), 2)

	moveTo(ed, 10, 5)
	runes(ed, "1")
	ed.filename = filepath.Join(dir, "ward.gplan")
	runes(ed, "e")
	assert.Equal(t, MsgSuccess, ed.messageType, ed.message)
	_, err := os.Stat(filepath.Join(dir, "ward.png"))
	assert.NoError(t, err)
}

func TestDrawShowsItemsAndSidebar(t *testing.T) {
	ed := newTestEditor(t)
	buildNetwork(t, ed)
	ed.draw()
	ed.screen.Show()

	screen := ed.screen.(tcell.SimulationScreen)
	cells, w, _ := screen.GetContents()
	at := func(x, y int) rune { return cells[y*w+x].Runes[0] }

	x, y := ed.cellOf(geom.Pt(100, 100))
	assert.Equal(t, 'S', at(x, y))
	x, y = ed.cellOf(geom.Pt(250, 200))
	assert.Equal(t, '◆', at(x, y))
	assert.Equal(t, 'g', at(w-sidebarWidth+2, 0))
}
