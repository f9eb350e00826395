package main

import (
	"fmt"
	"path/filepath"

	"github.com/gdamore/tcell/v2"

	"github.com/ha1tch/gasplan/pkg/editor"
	"github.com/ha1tch/gasplan/pkg/geom"
	"github.com/ha1tch/gasplan/pkg/plan"
)

// Styles
var (
	styleDefault    = tcell.StyleDefault
	styleMenu       = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleMenuSel    = tcell.StyleDefault.Background(tcell.ColorBlue).Foreground(tcell.ColorWhite)
	styleBackground = tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	styleDrawable   = tcell.StyleDefault.Foreground(tcell.ColorSilver)
	styleDraft      = tcell.StyleDefault.Foreground(tcell.NewRGBColor(200, 162, 200)) // Lilac
	styleItemSel    = tcell.StyleDefault.Background(tcell.ColorGreen).Foreground(tcell.ColorBlack)
	styleItemPend   = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleOverLength = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleSidebar    = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleSidebarH   = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleStatus     = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy)
	styleMsgInfo    = tcell.StyleDefault.Foreground(tcell.ColorSilver).Background(tcell.ColorNavy)
	styleMsgError   = tcell.StyleDefault.Foreground(tcell.ColorRed).Background(tcell.ColorNavy).Bold(true)
	styleMsgSuccess = tcell.StyleDefault.Foreground(tcell.ColorLime).Background(tcell.ColorNavy)
	styleHelp       = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleCursor     = tcell.StyleDefault.Background(tcell.ColorDarkGray)
	styleInput      = tcell.StyleDefault.Background(tcell.ColorNavy).Foreground(tcell.ColorWhite)
	styleBorder     = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

var layerStyle = map[plan.GasLayer]tcell.Style{
	plan.LayerO2:         tcell.StyleDefault.Foreground(tcell.NewRGBColor(0x2e, 0x7d, 0x32)),
	plan.LayerMedicalAir: tcell.StyleDefault.Foreground(tcell.NewRGBColor(0xf9, 0xa8, 0x25)),
	plan.LayerVacuum:     tcell.StyleDefault.Foreground(tcell.NewRGBColor(0x15, 0x65, 0xc0)),
}

var kindGlyph = map[plan.ItemKind]string{
	plan.KindSource:   "[S]",
	plan.KindTerminal: "[B]",
	plan.KindValve:    "[V]",
}

func (ed *Editor) draw() {
	ed.screen.Clear()
	w, h := ed.screen.Size()

	f := ed.session.Frame()
	ed.drawCanvas(f)
	ed.drawSidebar(f, w, h)
	ed.drawStatusBar(w, h)

	switch ed.mode {
	case ModeMenu:
		ed.drawMenuOverlay(f, w, h)
	case ModeInput:
		ed.drawInputBox(w, h)
	case ModeHelp:
		ed.drawHelp(w, h)
	}
}

// canvas clips drawing to the canvas area.
type canvas struct {
	ed   *Editor
	w, h int
}

func (c canvas) set(x, y int, r rune, style tcell.Style) {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return
	}
	c.ed.screen.SetContent(x, y, r, nil, style)
}

func (c canvas) text(x, y int, s string, style tcell.Style) {
	for i, r := range []rune(s) {
		c.set(x+i, y, r, style)
	}
}

// line steps from (x0,y0) to (x1,y1) one cell at a time.
func (c canvas) line(x0, y0, x1, y1 int, style tcell.Style) {
	r := '·'
	switch {
	case y0 == y1:
		r = '─'
	case x0 == x1:
		r = '│'
	}
	dx, dy := x1-x0, y1-y0
	steps := max(abs(dx), abs(dy))
	if steps == 0 {
		c.set(x0, y0, r, style)
		return
	}
	for i := 0; i <= steps; i++ {
		c.set(x0+roundCell(float64(dx*i)/float64(steps)), y0+roundCell(float64(dy*i)/float64(steps)), r, style)
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func (ed *Editor) drawCanvas(f editor.Frame) {
	w, h := ed.canvasSize()
	c := canvas{ed: ed, w: w, h: h}

	scale := f.Underlay.Scale
	if scale == 0 {
		scale = 1
	}
	for _, e := range f.Background {
		x0, y0 := ed.cellOf(e.P1.Scale(scale))
		x1, y1 := ed.cellOf(e.P2.Scale(scale))
		c.line(x0, y0, x1, y1, styleBackground)
	}

	for _, p := range f.Pipes {
		style := layerStyle[p.Layer]
		if ed.session.IsSelected(p.ID) {
			style = styleItemSel
		}
		ed.drawPath(c, p.Route.Path, style)
		hx, hy := ed.cellOf(p.Route.Handle)
		handle := style
		if p.Route.OverLength {
			handle = styleOverLength
		}
		c.set(hx, hy, '◆', handle)
	}

	for _, dr := range f.Drawables {
		style := styleDrawable
		if ed.session.IsSelected(dr.ID) {
			style = styleItemSel
		}
		ed.drawShape(c, dr, style)
	}
	if f.Draft != nil {
		ed.drawShape(c, *f.Draft, styleDraft)
	}

	for _, it := range f.Items {
		style := styleDefault
		switch {
		case it.ID == f.Pending:
			style = styleItemPend
		case ed.session.IsSelected(it.ID):
			style = styleItemSel
		}
		x, y := ed.cellOf(it.Pos)
		c.text(x-1, y, kindGlyph[it.Kind], style)
		c.text(x+3, y, it.Label, styleDefault)
	}

	// Cursor
	r, _, _, _ := ed.screen.GetContent(ed.cursorX, ed.cursorY)
	if r == ' ' || r == 0 {
		r = '+'
	}
	c.set(ed.cursorX, ed.cursorY, r, styleCursor)
}

func (ed *Editor) drawPath(c canvas, path []geom.Point, style tcell.Style) {
	for i := 1; i < len(path); i++ {
		x0, y0 := ed.cellOf(path[i-1])
		x1, y1 := ed.cellOf(path[i])
		c.line(x0, y0, x1, y1, style)
	}
}

func (ed *Editor) drawShape(c canvas, dr plan.Drawable, style tcell.Style) {
	switch s := dr.Shape.(type) {
	case *plan.Line:
		ed.drawPath(c, s.Points, style)
	case *plan.Rectangle:
		b := s.Bounds()
		ed.drawPath(c, []geom.Point{
			{X: b.X, Y: b.Y}, {X: b.X + b.W, Y: b.Y},
			{X: b.X + b.W, Y: b.Y + b.H}, {X: b.X, Y: b.Y + b.H},
			{X: b.X, Y: b.Y},
		}, style)
	case *plan.Text:
		x, y := ed.cellOf(s.Origin)
		c.text(x, y, s.Body, style)
	}
}

func (ed *Editor) drawSidebar(f editor.Frame, w, h int) {
	x := w - sidebarWidth + 2
	y := 0
	for row := 0; row < h-2; row++ {
		ed.screen.SetContent(x-2, row, '│', nil, styleBorder)
	}

	ed.drawString(x, y, "gasedit", styleSidebarH)
	y += 2

	ed.drawString(x, y, "Mode:  "+f.Mode.String(), styleSidebar)
	y++
	if f.Mode == editor.ModeCAD {
		ed.drawString(x, y, "Tool:  "+f.Tool.String(), styleSidebar)
		y++
	}
	ed.drawString(x, y, "Layer: ", styleSidebar)
	ed.drawString(x+7, y, f.Layer.Title(), layerStyle[f.Layer])
	y++
	ed.drawString(x, y, fmt.Sprintf("Zoom:  %.0f%%", ed.session.Viewport().Scale*100), styleSidebar)
	y++
	snap := "off"
	if f.View.GridSnap {
		snap = fmt.Sprintf("%g", f.View.GridSize)
	}
	ed.drawString(x, y, "Snap:  "+snap, styleSidebar)
	y += 2

	bom := ed.session.BOM()
	ed.drawString(x, y, "Items:", styleSidebarH)
	y++
	for _, k := range plan.ItemKinds {
		ed.drawString(x, y, fmt.Sprintf("  %-8s %d", k.Title(), bom.Counts[k]), styleSidebar)
		y++
	}
	y++
	ed.drawString(x, y, "Pipe (m):", styleSidebarH)
	y++
	for _, l := range plan.GasLayers {
		ed.drawString(x, y, truncate(fmt.Sprintf("  %-12s %.1f", l.Title(), bom.PipeLength[l]), sidebarWidth-4), layerStyle[l])
		y++
	}
	y++
	if n := len(f.Selected); n > 0 {
		ed.drawString(x, y, fmt.Sprintf("Selected: %d", n), styleSidebar)
	}
}

func (ed *Editor) drawStatusBar(w, h int) {
	ed.drawString(1, h-2, truncate(ed.helpString(), w-2), styleHelp)

	y := h - 1
	for x := 0; x < w; x++ {
		ed.screen.SetContent(x, y, ' ', nil, styleStatus)
	}

	fileInfo := "[New]"
	if ed.filename != "" {
		if len(ed.filename) > 30 {
			fileInfo = filepath.Base(ed.filename)
		} else {
			fileInfo = ed.filename
		}
	}
	if ed.session.Modified() {
		fileInfo += " *"
	}
	ed.drawString(1, y, fileInfo, styleStatus)

	modeStr := ed.modeString()
	ed.drawString(w/2-len(modeStr)/2, y, modeStr, styleStatus)

	if ed.message != "" {
		style := styleMsgInfo
		switch ed.messageType {
		case MsgError:
			style = styleMsgError
		case MsgSuccess:
			style = styleMsgSuccess
		}
		msg := truncate(ed.message, w/2-2)
		ed.drawString(w-len([]rune(msg))-1, y, msg, style)
	}
}

func (ed *Editor) drawMenuOverlay(f editor.Frame, w, h int) {
	if f.Menu == nil {
		return
	}
	menuWidth := 24
	menuHeight := len(f.Menu.Actions) + 4
	startX := max((w-menuWidth)/2, 0)
	startY := max((h-menuHeight)/2, 0)

	ed.drawTitledBox(startX, startY, menuWidth, menuHeight, string(f.Menu.Kind))
	for i, a := range f.Menu.Actions {
		style := styleMenu
		if i == ed.menuSelected {
			style = styleMenuSel
		}
		ed.drawString(startX+1, startY+2+i, fmt.Sprintf(" %-*s", menuWidth-3, a), style)
	}
}

func (ed *Editor) drawInputBox(w, h int) {
	boxW := 50
	boxH := 3
	boxX := (w - boxW) / 2
	boxY := (h - boxH) / 2

	ed.drawBox(boxX, boxY, boxW, boxH, styleInput)
	ed.drawString(boxX+2, boxY+1, ed.inputPrompt, styleInput)
	ed.drawString(boxX+2+len(ed.inputPrompt), boxY+1, ed.inputBuffer+"_", styleInput)
}

var helpLines = []string{
	"Arrows     move cursor    Shift+Arrows  pan",
	"1 2 3      place source, bed, valve",
	"Enter / c  connect (click item)",
	"l          cycle gas layer",
	"g          move item or shape",
	"b          drag bend handle",
	"r / R      rotate +90 / -90",
	"x / Del    delete under cursor",
	"Space      select    X  delete selected",
	"m          context menu    n  rename",
	"Tab        PIPE / CAD mode",
	"t          cycle CAD tool    d  draw",
	"+ / -      zoom    f  fit    #  snap",
	"i          import segments",
	"e          render PNG/SVG",
	"Ctrl+S     save    w  save as    o  open",
	"Ctrl+Z/Y   undo / redo",
	"q          quit",
}

func (ed *Editor) drawHelp(w, h int) {
	boxW := 50
	boxH := len(helpLines) + 4
	x := max((w-boxW)/2, 0)
	y := max((h-boxH)/2, 0)
	ed.drawTitledBox(x, y, boxW, boxH, "Keys")
	for i, l := range helpLines {
		ed.drawString(x+2, y+2+i, l, styleMenu)
	}
}

// drawTitledBox draws a bordered box with optional title
func (ed *Editor) drawTitledBox(x, y, w, h int, title string) {
	ed.drawBox(x, y, w, h, styleDefault)
	if title != "" {
		titleX := x + (w-len(title)-2)/2
		ed.screen.SetContent(titleX, y, ' ', nil, styleBorder)
		ed.drawString(titleX+1, y, title, styleSidebarH)
		ed.screen.SetContent(titleX+1+len(title), y, ' ', nil, styleBorder)
	}
}

func (ed *Editor) drawBox(x, y, w, h int, style tcell.Style) {
	ed.screen.SetContent(x, y, '┌', nil, styleBorder)
	ed.screen.SetContent(x+w-1, y, '┐', nil, styleBorder)
	ed.screen.SetContent(x, y+h-1, '└', nil, styleBorder)
	ed.screen.SetContent(x+w-1, y+h-1, '┘', nil, styleBorder)

	for i := x + 1; i < x+w-1; i++ {
		ed.screen.SetContent(i, y, '─', nil, styleBorder)
		ed.screen.SetContent(i, y+h-1, '─', nil, styleBorder)
	}
	for i := y + 1; i < y+h-1; i++ {
		ed.screen.SetContent(x, i, '│', nil, styleBorder)
		ed.screen.SetContent(x+w-1, i, '│', nil, styleBorder)
	}

	for row := y + 1; row < y+h-1; row++ {
		for col := x + 1; col < x+w-1; col++ {
			ed.screen.SetContent(col, row, ' ', nil, style)
		}
	}
}

func (ed *Editor) drawString(x, y int, s string, style tcell.Style) {
	for i, r := range []rune(s) {
		ed.screen.SetContent(x+i, y, r, nil, style)
	}
}

func (ed *Editor) modeString() string {
	switch ed.mode {
	case ModeMenu:
		return "MENU"
	case ModeMove:
		return "MOVE"
	case ModeBend:
		return "BEND"
	case ModeDraw:
		return "DRAW " + ed.session.Tool().String()
	case ModeInput:
		return "INPUT"
	default:
		return ""
	}
}

func (ed *Editor) helpString() string {
	switch ed.mode {
	case ModeMenu:
		return "↑↓:Select  Enter:Confirm  Esc:Cancel"
	case ModeInput:
		return "Type text  Enter:Confirm  Esc:Cancel"
	case ModeMove, ModeBend:
		return "Arrows:Move  Enter:Confirm  Esc:Cancel"
	case ModeDraw:
		return "Arrows:Move  v:Vertex  o:Ortho  Enter:Finish  Esc:Cancel"
	case ModeHelp:
		return "Any key:Close"
	}
	if ed.session.Mode() == editor.ModeCAD {
		return "Tab:PIPE  t:Tool  d:Draw  g:Move  Space:Select  x:Delete  Ctrl+S:Save  ?:Help  q:Quit"
	}
	return "1/2/3:Place  Enter:Connect  l:Layer  g:Move  b:Bend  r:Rotate  x:Delete  Tab:CAD  ?:Help  q:Quit"
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:max(maxLen, 0)])
	}
	return string(r[:maxLen-3]) + "..."
}
