package planfile

import (
	"fmt"
	"html"
	"strings"

	"github.com/ha1tch/gasplan/pkg/geom"
	"github.com/ha1tch/gasplan/pkg/plan"
)

// SVGOptions controls SVG plotting.
type SVGOptions struct {
	Width       int    // canvas width in pixels
	Height      int    // canvas height in pixels
	Title       string // plot title
	FontSize    int    // label font size
	Padding     int    // padding around edges
	ShowLengths bool   // label each pipe with its length
}

// DefaultSVGOptions returns sensible defaults.
func DefaultSVGOptions() SVGOptions {
	return SVGOptions{
		Width:       1200,
		Height:      900,
		FontSize:    12,
		Padding:     40,
		ShowLengths: true,
	}
}

// GenerateSVG plots a document as SVG. r routes the pipes.
func GenerateSVG(d *plan.Document, r plan.Router, opts SVGOptions) string {
	def := DefaultSVGOptions()
	if opts.Width <= 0 {
		opts.Width = def.Width
	}
	if opts.Height <= 0 {
		opts.Height = def.Height
	}
	if opts.FontSize <= 0 {
		opts.FontSize = def.FontSize
	}
	if opts.Padding < 0 {
		opts.Padding = 0
	}

	var title float64
	if opts.Title != "" {
		title = float64(opts.FontSize * 2)
	}
	s := buildScene(d, r, plotFrame(float64(opts.Width), float64(opts.Height), float64(opts.Padding), title))

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<style>
  .bg { fill: none; stroke: %s; stroke-width: 1; }
  .pipe { fill: none; stroke-width: 3; stroke-linejoin: round; }
  .pipe-length { font-family: sans-serif; font-size: %dpx; fill: %s; text-anchor: middle; }
  .pipe-length.over { fill: %s; font-weight: bold; }
  .item-label { font-family: sans-serif; font-size: %dpx; fill: %s; text-anchor: middle; }
  .note { font-family: sans-serif; font-size: %dpx; }
  .title { font-family: sans-serif; font-size: %dpx; font-weight: bold; text-anchor: middle; }
</style>
<rect width="%d" height="%d" fill="%s"/>
`, opts.Width, opts.Height, opts.Width, opts.Height,
		hexBackground, opts.FontSize, hexMuted, hexOverLength,
		opts.FontSize, hexInk, opts.FontSize, opts.FontSize+4,
		opts.Width, opts.Height, hexPaper)

	if opts.Title != "" {
		fmt.Fprintf(&sb, `<text x="%d" y="%d" class="title">%s</text>
`, opts.Width/2, opts.Padding+opts.FontSize, html.EscapeString(opts.Title))
	}

	// Background geometry, then pipes, annotations and items on top.
	if len(s.background) > 0 {
		sb.WriteString(`<g class="bg">` + "\n")
		for _, seg := range s.background {
			fmt.Fprintf(&sb, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>
`, seg[0].X, seg[0].Y, seg[1].X, seg[1].Y)
		}
		sb.WriteString("</g>\n")
	}

	for _, p := range s.pipes {
		fmt.Fprintf(&sb, `<polyline class="pipe" data-layer="%s" stroke="%s" points="%s"/>
`, p.layer, layerHex[p.layer], svgPoints(p.path))
		if opts.ShowLengths {
			class := "pipe-length"
			if p.over {
				class += " over"
			}
			fmt.Fprintf(&sb, `<text x="%.1f" y="%.1f" class="%s">%s</text>
`, p.handle.X, p.handle.Y-6, class, formatLength(p.length))
		}
	}

	for _, dr := range s.drawables {
		fill := dr.fill
		if fill == "" {
			fill = "none"
		}
		switch dr.kind {
		case plan.ShapeLine:
			fmt.Fprintf(&sb, `<polyline fill="none" stroke="%s" stroke-width="1.5" points="%s"/>
`, html.EscapeString(dr.stroke), svgPoints(dr.points))
		case plan.ShapeRect:
			fmt.Fprintf(&sb, `<polygon fill="%s" stroke="%s" stroke-width="1.5" points="%s"/>
`, html.EscapeString(fill), html.EscapeString(dr.stroke), svgPoints(dr.points))
		case plan.ShapeText:
			rotate := ""
			if dr.rotation != 0 {
				rotate = fmt.Sprintf(` transform="rotate(%d %.1f %.1f)"`, dr.rotation, dr.origin.X, dr.origin.Y)
			}
			fmt.Fprintf(&sb, `<text x="%.1f" y="%.1f" class="note" fill="%s"%s>%s</text>
`, dr.origin.X, dr.origin.Y, html.EscapeString(dr.stroke), rotate, html.EscapeString(dr.text))
		}
	}

	for _, it := range s.items {
		colors := kindHex[it.kind]
		fmt.Fprintf(&sb, `<g data-kind="%s" transform="rotate(%d %.1f %.1f)">
<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s" stroke="%s" stroke-width="2"/>
<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="2"/>
</g>
`, it.kind, it.rotation, it.pos.X, it.pos.Y,
			it.pos.X, it.pos.Y, s.radius, colors[0], colors[1],
			it.pos.X, it.pos.Y, it.pos.X+s.radius, it.pos.Y, colors[1])
		if it.label != "" {
			fmt.Fprintf(&sb, `<text x="%.1f" y="%.1f" class="item-label">%s</text>
`, it.pos.X, it.pos.Y+s.radius+float64(opts.FontSize)+2, html.EscapeString(it.label))
		}
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}

func svgPoints(pts []geom.Point) string {
	parts := make([]string, len(pts))
	for i, p := range pts {
		parts[i] = fmt.Sprintf("%.1f,%.1f", p.X, p.Y)
	}
	return strings.Join(parts, " ")
}
