package planfile

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/ha1tch/gasplan/pkg/geom"
	"github.com/ha1tch/gasplan/pkg/plan"
)

// Plot colours, as hex so both renderers share them.
const (
	hexPaper      = "#ffffff"
	hexInk        = "#333333"
	hexMuted      = "#666666"
	hexBackground = "#b0bec5"
	hexOverLength = "#c62828"
)

var layerHex = map[plan.GasLayer]string{
	plan.LayerO2:         "#2e7d32",
	plan.LayerMedicalAir: "#f9a825",
	plan.LayerVacuum:     "#1565c0",
}

var kindHex = map[plan.ItemKind][2]string{ // fill, border
	plan.KindSource:   {"#e8f5e9", "#2e7d32"},
	plan.KindTerminal: {"#e3f2fd", "#1565c0"},
	plan.KindValve:    {"#fff3e0", "#e65100"},
}

// scene is a document laid out in image coordinates.
type scene struct {
	view       geom.Viewport
	radius     float64
	background [][2]geom.Point
	pipes      []scenePipe
	items      []sceneItem
	drawables  []sceneDrawable
}

type scenePipe struct {
	path   []geom.Point
	handle geom.Point
	layer  plan.GasLayer
	length float64
	over   bool
}

type sceneItem struct {
	pos      geom.Point
	kind     plan.ItemKind
	label    string
	rotation int
}

type sceneDrawable struct {
	kind     plan.ShapeKind
	points   []geom.Point // polyline, or the closed rectangle outline
	origin   geom.Point
	text     string
	rotation int
	stroke   string
	fill     string
}

// buildScene fits the document into the frame rectangle of the image. Pipes
// are routed with r; dangling connections are skipped.
func buildScene(d *plan.Document, r plan.Router, frame geom.Rect) scene {
	var routes []plan.Route
	var conns []plan.Connection
	for _, c := range d.Connections() {
		if route, ok := r.Route(d, c); ok {
			routes = append(routes, route)
			conns = append(conns, c)
		}
	}

	bounds, ok := d.Bounds()
	for _, route := range routes {
		if rb, rok := geom.BoundingBox(route.Path); rok {
			if ok {
				bounds = bounds.Union(rb)
			} else {
				bounds, ok = rb, true
			}
		}
	}

	var s scene
	if ok {
		s.view = geom.FitViewport(bounds, frame.W, frame.H).Pan(frame.X, frame.Y)
	} else {
		s.view = geom.IdentityViewport().Pan(frame.X, frame.Y)
	}
	s.radius = math.Max(plan.ItemRadius*s.view.Scale, 4)

	bgScale := d.Background().Scale
	for _, e := range d.BackgroundEntities() {
		s.background = append(s.background, [2]geom.Point{
			s.view.ToView(e.P1.Scale(bgScale)),
			s.view.ToView(e.P2.Scale(bgScale)),
		})
	}

	for i, route := range routes {
		p := scenePipe{
			handle: s.view.ToView(route.Handle),
			layer:  conns[i].Layer,
			length: route.Length,
			over:   route.OverLength,
		}
		for _, pt := range route.Path {
			p.path = append(p.path, s.view.ToView(pt))
		}
		s.pipes = append(s.pipes, p)
	}

	for _, it := range d.Items() {
		s.items = append(s.items, sceneItem{
			pos:      s.view.ToView(it.Pos),
			kind:     it.Kind,
			label:    it.Label,
			rotation: it.Rotation,
		})
	}

	for _, dr := range d.Drawables() {
		if dr.Shape == nil {
			continue
		}
		s.drawables = append(s.drawables, s.layoutDrawable(dr))
	}
	return s
}

func (s scene) layoutDrawable(dr plan.Drawable) sceneDrawable {
	out := sceneDrawable{
		kind:     dr.Shape.Kind(),
		rotation: dr.Rotation,
		stroke:   dr.Stroke,
		fill:     dr.Fill,
	}
	if out.stroke == "" {
		out.stroke = plan.DefaultStroke
	}
	pivot := dr.Shape.Bounds().Center()
	place := func(p geom.Point) geom.Point {
		return s.view.ToView(geom.RotateDeg(p, pivot, float64(dr.Rotation)))
	}
	switch sh := dr.Shape.(type) {
	case *plan.Line:
		for _, p := range sh.Points {
			out.points = append(out.points, place(p))
		}
	case *plan.Rectangle:
		b := sh.Bounds()
		for _, p := range []geom.Point{
			{X: b.X, Y: b.Y}, {X: b.X + b.W, Y: b.Y},
			{X: b.X + b.W, Y: b.Y + b.H}, {X: b.X, Y: b.Y + b.H},
		} {
			out.points = append(out.points, place(p))
		}
	case *plan.Text:
		out.origin = place(sh.Origin)
		out.text = sh.Body
	}
	return out
}

// plotFrame is the drawing area left inside the padding and under a title of
// the given height.
func plotFrame(width, height, padding, title float64) geom.Rect {
	return geom.Rect{
		X: padding,
		Y: padding + title,
		W: math.Max(width-2*padding, 1),
		H: math.Max(height-2*padding-title, 1),
	}
}

func formatLength(l float64) string {
	return strconv.FormatFloat(l, 'f', 1, 64) + " m"
}

// parseHexColor parses #rgb or #rrggbb. Anything else yields fallback.
func parseHexColor(s string, fallback color.RGBA) color.RGBA {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) == 3 {
		s = fmt.Sprintf("%c%c%c%c%c%c", s[0], s[0], s[1], s[1], s[2], s[2])
	}
	if len(s) != 6 {
		return fallback
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return fallback
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}
}
