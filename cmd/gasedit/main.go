// Command gasedit is a terminal editor for medical gas pipe-network plans.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/ha1tch/gasplan/pkg/config"
	"github.com/ha1tch/gasplan/pkg/editor"
	"github.com/ha1tch/gasplan/pkg/geom"
	"github.com/ha1tch/gasplan/pkg/plan"
	"github.com/ha1tch/gasplan/pkg/planfile"
)

// One terminal cell covers cellW x cellH view pixels, roughly the aspect of
// a character.
const (
	cellW = 10.0
	cellH = 20.0
)

const sidebarWidth = 30

// Editor is the terminal front end. All document state lives in session.
type Editor struct {
	screen   tcell.Screen
	session  *editor.Editor
	config     config.Config
	configPath string
	filename   string
	mode     Mode

	message     string
	messageType MessageType

	// Canvas cursor, in cells.
	cursorX int
	cursorY int

	ortho     bool // axis lock while drawing
	quitArmed bool // q pressed once with unsaved changes

	// Text input
	inputPrompt string
	inputBuffer string
	inputAction func(string)

	menuSelected int
}

// Mode represents the front end's input mode.
type Mode int

const (
	ModeCanvas Mode = iota
	ModeInput
	ModeMove // keyboard-driven item or drawable drag
	ModeBend // keyboard-driven bend handle drag
	ModeDraw // drawing a CAD shape
	ModeMenu // context menu
	ModeHelp
)

// MessageType for status messages
type MessageType int

const (
	MsgInfo MessageType = iota
	MsgError
	MsgSuccess
)

func main() {
	cfgPath := config.ConfigPath()
	cfg, cfgErr := config.LoadConfig(cfgPath)

	ed := newEditor(cfg, cfgPath)
	if cfgErr != nil {
		ed.showMessage(cfgErr.Error(), MsgError)
	}
	if len(os.Args) > 1 {
		if err := ed.loadFile(os.Args[1]); err != nil && !errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", os.Args[1], err)
			os.Exit(1)
		}
		ed.filename = os.Args[1]
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing screen: %v\n", err)
		os.Exit(1)
	}
	screen.Clear()
	ed.screen = screen

	ed.run()
	screen.Fini()
}

// newEditor builds a front end over an empty plan. The session logs nowhere:
// the terminal belongs to the canvas, and messages go to the status bar.
func newEditor(cfg config.Config, cfgPath string, opts ...editor.Option) *Editor {
	opts = append([]editor.Option{
		editor.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}, opts...)
	return &Editor{
		config:     cfg,
		configPath: cfgPath,
		session:    editor.New(cfg, opts...),
	}
}

func (ed *Editor) run() {
	for {
		ed.resize()
		ed.draw()
		ed.screen.Show()

		switch ev := ed.screen.PollEvent().(type) {
		case *tcell.EventResize:
			ed.screen.Sync()
		case *tcell.EventKey:
			if ed.handleKey(ev) {
				return
			}
		}
	}
}

// resize keeps the session's view size equal to the canvas area.
func (ed *Editor) resize() {
	w, h := ed.canvasSize()
	ed.session.SetViewSize(float64(w)*cellW, float64(h)*cellH)
}

func (ed *Editor) canvasSize() (int, int) {
	if ed.screen == nil {
		return 80, 24
	}
	w, h := ed.screen.Size()
	return max(w-sidebarWidth, 1), max(h-2, 1)
}

// Coordinate mapping

func cellToView(x, y int) geom.Point {
	return geom.Pt(float64(x)*cellW, float64(y)*cellH)
}

func (ed *Editor) cellOf(world geom.Point) (int, int) {
	v := ed.session.Viewport().ToView(world)
	return roundCell(v.X / cellW), roundCell(v.Y / cellH)
}

func roundCell(f float64) int {
	if f < 0 {
		return int(f - 0.5)
	}
	return int(f + 0.5)
}

// cursorView is the cursor position in view space; cursorWorld in world space.
func (ed *Editor) cursorView() geom.Point { return cellToView(ed.cursorX, ed.cursorY) }

func (ed *Editor) cursorWorld() geom.Point { return ed.session.ToWorld(ed.cursorView()) }

// target is whatever lies under the cursor, items first.
func (ed *Editor) target() (plan.EntityKind, string, bool) {
	p := ed.cursorWorld()
	if it, ok := ed.session.ItemAt(p); ok {
		return plan.EntityItem, it.ID, true
	}
	if c, ok := ed.session.HandleAt(p); ok {
		return plan.EntityConnection, c.ID, true
	}
	if dr, ok := ed.session.DrawableAt(p); ok {
		return plan.EntityDrawable, dr.ID, true
	}
	return "", "", false
}

// Keys

func (ed *Editor) handleKey(ev *tcell.EventKey) bool {
	if ev.Key() != tcell.KeyRune || ev.Rune() != 'q' {
		ed.quitArmed = false
	}
	switch ev.Key() {
	case tcell.KeyCtrlC, tcell.KeyCtrlQ:
		return true
	case tcell.KeyCtrlS:
		ed.save()
		return false
	case tcell.KeyCtrlZ:
		if ed.mode == ModeCanvas {
			ed.undo()
		}
		return false
	case tcell.KeyCtrlY:
		if ed.mode == ModeCanvas {
			ed.redo()
		}
		return false
	}

	switch ed.mode {
	case ModeCanvas:
		return ed.handleCanvasKey(ev)
	case ModeInput:
		ed.handleInputKey(ev)
	case ModeMove, ModeBend, ModeDraw:
		ed.handleDragKey(ev)
	case ModeMenu:
		ed.handleMenuKey(ev)
	case ModeHelp:
		ed.mode = ModeCanvas
	}
	return false
}

// moveCursor handles arrow keys. It reports whether ev was one.
func (ed *Editor) moveCursor(ev *tcell.EventKey) bool {
	dx, dy := 0, 0
	switch ev.Key() {
	case tcell.KeyUp:
		dy = -1
	case tcell.KeyDown:
		dy = 1
	case tcell.KeyLeft:
		dx = -1
	case tcell.KeyRight:
		dx = 1
	default:
		return false
	}
	if ev.Modifiers()&tcell.ModShift != 0 && ed.mode == ModeCanvas {
		ed.session.Pan(-float64(dx)*cellW*4, -float64(dy)*cellH*4)
		return true
	}
	w, h := ed.canvasSize()
	ed.cursorX = min(max(ed.cursorX+dx, 0), w-1)
	ed.cursorY = min(max(ed.cursorY+dy, 0), h-1)
	return true
}

func (ed *Editor) handleCanvasKey(ev *tcell.EventKey) bool {
	if ed.moveCursor(ev) {
		return false
	}
	switch ev.Key() {
	case tcell.KeyEscape:
		ed.session.CancelPending()
		ed.session.ClearSelection()
	case tcell.KeyEnter:
		ed.click()
	case tcell.KeyTab:
		ed.toggleMode()
	case tcell.KeyDelete, tcell.KeyBackspace, tcell.KeyBackspace2:
		ed.deleteTarget()
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			if ed.session.Modified() && !ed.quitArmed {
				ed.quitArmed = true
				ed.showMessage("Unsaved changes: q again to quit", MsgError)
				return false
			}
			return true
		case '1':
			ed.place(plan.KindSource)
		case '2':
			ed.place(plan.KindTerminal)
		case '3':
			ed.place(plan.KindValve)
		case 'c':
			ed.click()
		case 'l':
			layer := ed.session.CycleLayer()
			ed.showMessage("Layer: "+layer.Title(), MsgInfo)
		case 'g':
			ed.startMove()
		case 'b':
			ed.startBend()
		case 'r':
			ed.rotateTarget(90)
		case 'R':
			ed.rotateTarget(-90)
		case 'x':
			ed.deleteTarget()
		case ' ':
			ed.toggleSelect()
		case 'X':
			if n := ed.session.DeleteSelected(); n > 0 {
				ed.showMessage(fmt.Sprintf("Deleted %d", n), MsgSuccess)
			}
		case 'm':
			ed.openMenu()
		case 'n':
			ed.renameTarget()
		case 't':
			ed.cycleTool()
		case 'd':
			ed.startDraw()
		case '+', '=':
			ed.session.ZoomIn(ed.cursorView())
		case '-':
			ed.session.ZoomOut(ed.cursorView())
		case 'f':
			ed.session.ZoomToFit()
		case '#':
			if ed.session.ToggleSnap() {
				ed.showMessage("Grid snap on", MsgInfo)
			} else {
				ed.showMessage("Grid snap off", MsgInfo)
			}
		case 'i':
			ed.prompt("Import segments: ", ed.importSegments)
		case 'e':
			ed.export()
		case 'w':
			ed.prompt("Save as: ", ed.saveAs)
		case 'o':
			ed.prompt("Open: ", ed.open)
		case 'u':
			ed.undo()
		case 'U':
			ed.redo()
		case 'h', '?':
			ed.mode = ModeHelp
		}
	}
	return false
}

func (ed *Editor) handleInputKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape:
		ed.mode = ModeCanvas
	case tcell.KeyEnter:
		ed.mode = ModeCanvas
		if ed.inputAction != nil {
			ed.inputAction(ed.inputBuffer)
		}
		ed.inputBuffer = ""
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if len(ed.inputBuffer) > 0 {
			r := []rune(ed.inputBuffer)
			ed.inputBuffer = string(r[:len(r)-1])
		}
	case tcell.KeyRune:
		ed.inputBuffer += string(ev.Rune())
	}
}

func (ed *Editor) prompt(label string, action func(string)) {
	ed.inputPrompt = label
	ed.inputBuffer = ""
	ed.inputAction = action
	ed.mode = ModeInput
}

// handleDragKey drives a gesture from the keyboard: arrows move the pointer,
// Enter commits and Esc cancels.
func (ed *Editor) handleDragKey(ev *tcell.EventKey) {
	if ed.moveCursor(ev) {
		if err := ed.session.UpdateDrag(ed.cursorWorld(), ed.ortho); err != nil {
			ed.showMessage(err.Error(), MsgError)
		}
		return
	}
	switch ev.Key() {
	case tcell.KeyEscape:
		ed.session.CancelDrag()
		ed.mode = ModeCanvas
		ed.showMessage("Cancelled", MsgInfo)
	case tcell.KeyEnter:
		ed.mode = ModeCanvas
		changed, err := ed.session.EndDrag()
		switch {
		case err != nil:
			ed.showMessage(err.Error(), MsgError)
		case changed:
			ed.showMessage("Done", MsgSuccess)
		default:
			ed.showMessage("Nothing changed", MsgInfo)
		}
	case tcell.KeyRune:
		if ed.mode != ModeDraw {
			return
		}
		switch ev.Rune() {
		case 'v':
			if err := ed.session.AddVertex(); err != nil {
				ed.showMessage(err.Error(), MsgError)
			}
		case 'o':
			ed.ortho = !ed.ortho
		}
	}
}

func (ed *Editor) handleMenuKey(ev *tcell.EventKey) {
	menu, open := ed.session.Menu()
	if !open {
		ed.mode = ModeCanvas
		return
	}
	switch ev.Key() {
	case tcell.KeyUp:
		if ed.menuSelected > 0 {
			ed.menuSelected--
		}
	case tcell.KeyDown:
		if ed.menuSelected < len(menu.Actions)-1 {
			ed.menuSelected++
		}
	case tcell.KeyEscape:
		ed.session.CloseMenu()
		ed.mode = ModeCanvas
	case tcell.KeyEnter:
		ed.mode = ModeCanvas
		action := menu.Actions[ed.menuSelected]
		if err := ed.session.ApplyMenu(action); err != nil {
			ed.showMessage(err.Error(), MsgError)
			return
		}
		ed.showMessage(fmt.Sprintf("%s %s", action, menu.Kind), MsgSuccess)
	}
}

// Commands

func (ed *Editor) place(kind plan.ItemKind) {
	it, err := ed.session.PlaceItemAt(kind, ed.cursorWorld())
	if err != nil {
		ed.showMessage(err.Error(), MsgError)
		return
	}
	ed.showMessage("Placed "+it.Label, MsgSuccess)
}

func (ed *Editor) click() {
	kind, id, ok := ed.target()
	if !ok || kind != plan.EntityItem {
		if ed.session.ClickCanvas() == editor.ClickCancelled {
			ed.showMessage("Connection cancelled", MsgInfo)
		}
		return
	}
	res, err := ed.session.ClickItem(id)
	switch res {
	case editor.ClickPending:
		ed.showMessage("Connect: pick the other end ("+ed.session.Layer().Title()+")", MsgInfo)
	case editor.ClickCancelled:
		ed.showMessage("Connection cancelled", MsgInfo)
	case editor.ClickConnected:
		ed.showMessage(ed.session.Layer().Title()+" pipe added", MsgSuccess)
	case editor.ClickRejected:
		ed.showMessage(err.Error(), MsgError)
	case editor.ClickIgnored:
		if ed.session.Mode() != editor.ModePipe {
			ed.showMessage("Connections need PIPE mode (Tab)", MsgInfo)
		}
	}
}

func (ed *Editor) toggleMode() {
	if ed.session.Mode() == editor.ModePipe {
		ed.session.SetMode(editor.ModeCAD)
	} else {
		ed.session.SetMode(editor.ModePipe)
	}
	ed.showMessage("Mode: "+ed.session.Mode().String(), MsgInfo)
}

var tools = []editor.Tool{editor.ToolSelect, editor.ToolLine, editor.ToolRect, editor.ToolText}

func (ed *Editor) cycleTool() {
	cur := ed.session.Tool()
	next := tools[0]
	for i, t := range tools {
		if t == cur {
			next = tools[(i+1)%len(tools)]
		}
	}
	if err := ed.session.SetTool(next); err != nil {
		ed.showMessage("Tools need CAD mode (Tab)", MsgInfo)
		return
	}
	ed.showMessage("Tool: "+next.String(), MsgInfo)
}

func (ed *Editor) startMove() {
	kind, id, ok := ed.target()
	if !ok {
		ed.showMessage("Nothing under the cursor", MsgInfo)
		return
	}
	var err error
	switch kind {
	case plan.EntityItem:
		err = ed.session.BeginItemDrag(id, ed.cursorWorld())
	case plan.EntityDrawable:
		err = ed.session.BeginDrawableDrag(id, ed.cursorWorld())
	default:
		ed.showMessage("Use b to move a bend", MsgInfo)
		return
	}
	if err != nil {
		ed.showMessage(err.Error(), MsgError)
		return
	}
	ed.mode = ModeMove
	ed.showMessage("Move: arrows, Enter=confirm, Esc=cancel", MsgInfo)
}

func (ed *Editor) startBend() {
	c, ok := ed.session.HandleAt(ed.cursorWorld())
	if !ok {
		ed.showMessage("Put the cursor on a bend handle", MsgInfo)
		return
	}
	if err := ed.session.BeginBendDrag(c.ID); err != nil {
		ed.showMessage(err.Error(), MsgError)
		return
	}
	ed.mode = ModeBend
	ed.showMessage("Bend: Left/Right, Enter=confirm, Esc=cancel", MsgInfo)
}

func (ed *Editor) startDraw() {
	begin := func() {
		if err := ed.session.BeginDraw(ed.cursorWorld()); err != nil {
			ed.showMessage(err.Error(), MsgError)
			return
		}
		ed.mode = ModeDraw
		ed.showMessage("Draw: arrows, v=vertex, o=ortho, Enter=finish", MsgInfo)
	}
	if ed.session.Tool() == editor.ToolText {
		ed.prompt("Text: ", func(body string) {
			ed.session.SetTextBody(body)
			begin()
		})
		return
	}
	begin()
}

func (ed *Editor) rotateTarget(delta int) {
	kind, id, ok := ed.target()
	if !ok {
		return
	}
	if err := ed.session.Rotate(kind, id, delta); err != nil {
		ed.showMessage(err.Error(), MsgError)
	}
}

func (ed *Editor) deleteTarget() {
	kind, id, ok := ed.target()
	if !ok {
		return
	}
	if err := ed.session.Delete(kind, id); err != nil {
		ed.showMessage(err.Error(), MsgError)
		return
	}
	ed.showMessage("Deleted "+string(kind), MsgSuccess)
}

func (ed *Editor) toggleSelect() {
	if _, id, ok := ed.target(); ok {
		ed.session.ToggleSelect(id)
	}
}

func (ed *Editor) openMenu() {
	kind, id, ok := ed.target()
	if !ok {
		return
	}
	if _, err := ed.session.OpenContextMenu(kind, id); err != nil {
		ed.showMessage(err.Error(), MsgError)
		return
	}
	ed.menuSelected = 0
	ed.mode = ModeMenu
}

func (ed *Editor) renameTarget() {
	kind, id, ok := ed.target()
	if !ok {
		return
	}
	switch kind {
	case plan.EntityItem:
		ed.prompt("Label: ", func(label string) {
			if err := ed.session.SetLabel(id, label); err != nil {
				ed.showMessage(err.Error(), MsgError)
			}
		})
	case plan.EntityDrawable:
		ed.prompt("Text: ", func(body string) {
			if err := ed.session.SetText(id, body); err != nil {
				ed.showMessage(err.Error(), MsgError)
			}
		})
	}
}

func (ed *Editor) undo() {
	if ed.session.Undo() {
		ed.showMessage("Undo", MsgInfo)
	} else {
		ed.showMessage("Nothing to undo", MsgInfo)
	}
}

func (ed *Editor) redo() {
	if ed.session.Redo() {
		ed.showMessage("Redo", MsgInfo)
	} else {
		ed.showMessage("Nothing to redo", MsgInfo)
	}
}

func (ed *Editor) showMessage(msg string, msgType MessageType) {
	ed.message = msg
	ed.messageType = msgType
}

// File operations

func (ed *Editor) loadFile(path string) error {
	d, err := planfile.ReadFile(path)
	if err != nil {
		return err
	}
	ed.session.Load(d)
	ed.filename = path
	return nil
}

func (ed *Editor) open(path string) {
	if path == "" {
		return
	}
	if err := ed.loadFile(path); err != nil {
		ed.showMessage(err.Error(), MsgError)
		return
	}
	ed.session.ZoomToFit()
	ed.showMessage("Opened "+filepath.Base(path), MsgSuccess)
}

func (ed *Editor) save() {
	if ed.filename == "" {
		ed.prompt("Save as: ", ed.saveAs)
		return
	}
	ed.saveAs(ed.filename)
}

func (ed *Editor) saveAs(path string) {
	if path == "" {
		return
	}
	if _, err := planfile.FormatFor(path); err != nil {
		path += ".gplan"
	}
	d := ed.session.Document()
	if err := planfile.WriteFile(path, d, ed.session.Router()); err != nil {
		ed.showMessage(err.Error(), MsgError)
		return
	}
	ed.filename = path
	ed.session.MarkSaved()
	ed.rememberDir(path)
	ed.showMessage("Saved "+filepath.Base(path), MsgSuccess)
}

// rememberDir records the directory of the last saved file in the config.
func (ed *Editor) rememberDir(path string) {
	dir, err := filepath.Abs(filepath.Dir(path))
	if err != nil || dir == ed.config.LastDir {
		return
	}
	ed.config.LastDir = dir
	if err := config.SaveConfig(ed.configPath, ed.config); err != nil {
		ed.showMessage(err.Error(), MsgError)
	}
}

func (ed *Editor) importSegments(path string) {
	if path == "" {
		return
	}
	segs, err := planfile.ReadSegmentsFile(path)
	if err != nil {
		ed.showMessage(err.Error(), MsgError)
		return
	}
	scale := ed.session.ImportBackground(segs, false)
	ed.session.ZoomToFit()
	ed.showMessage(fmt.Sprintf("Imported %d segments at scale %g", len(segs), scale), MsgSuccess)
}

// export plots the plan next to the plan file in the configured file type.
func (ed *Editor) export() {
	d := ed.session.Document()
	if d.Empty() {
		ed.showMessage("Canvas is empty - nothing to render", MsgError)
		return
	}
	base := ed.filename
	if base == "" {
		base = "plan.gplan"
	}
	out := strings.TrimSuffix(base, filepath.Ext(base)) + "." + ed.config.FileType
	title := strings.TrimSuffix(filepath.Base(base), filepath.Ext(base))

	var err error
	switch ed.config.FileType {
	case "svg":
		opts := planfile.DefaultSVGOptions()
		opts.Title = title
		err = os.WriteFile(out, []byte(planfile.GenerateSVG(d, ed.session.Router(), opts)), 0644)
	default:
		var f *os.File
		if f, err = os.Create(out); err == nil {
			opts := planfile.DefaultPNGOptions()
			opts.Title = title
			err = planfile.RenderPNG(d, ed.session.Router(), f, opts)
			if cerr := f.Close(); err == nil {
				err = cerr
			}
		}
	}
	if err != nil {
		ed.showMessage(err.Error(), MsgError)
		return
	}
	ed.showMessage("Rendered "+filepath.Base(out), MsgSuccess)
}
