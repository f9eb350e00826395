// Native PNG plotting for plan documents.
// Mirrors the SVG plot using Go's image packages.

package planfile

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/ha1tch/gasplan/pkg/plan"
)

// PNGOptions configures PNG rendering.
type PNGOptions struct {
	Width       int
	Height      int
	Padding     int
	FontSize    int
	Title       string
	ShowLengths bool // label each pipe with its length
}

// DefaultPNGOptions returns sensible defaults for PNG rendering.
func DefaultPNGOptions() PNGOptions {
	return PNGOptions{
		Width:       1200,
		Height:      900,
		Padding:     40,
		FontSize:    12,
		ShowLengths: true,
	}
}

var (
	colorWhite = parseHexColor(hexPaper, color.RGBA{255, 255, 255, 255})
	colorBlack = parseHexColor(hexInk, color.RGBA{51, 51, 51, 255})
)

// renderContext holds rendering parameters including scale
type renderContext struct {
	img       *image.RGBA
	scale     float64   // supersampling factor
	lineWidth float64   // base line width (scaled)
	face      font.Face // font face for text rendering
}

func newRenderContext(img *image.RGBA, scale, fontSize int) (*renderContext, error) {
	fnt, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, err
	}
	// Hinting off: the image is supersampled instead.
	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    float64(fontSize * scale),
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, err
	}
	return &renderContext{
		img:       img,
		scale:     float64(scale),
		lineWidth: float64(scale) * 2,
		face:      face,
	}, nil
}

// RenderPNG plots a document to PNG. r routes the pipes.
// Uses 4x supersampling for smoother output.
func RenderPNG(d *plan.Document, r plan.Router, w io.Writer, opts PNGOptions) error {
	img, err := RenderImage(d, r, opts)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// RenderImage plots a document to an in-memory image.
func RenderImage(d *plan.Document, r plan.Router, opts PNGOptions) (*image.RGBA, error) {
	def := DefaultPNGOptions()
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

	const scale = 4
	large := image.NewRGBA(image.Rect(0, 0, opts.Width*scale, opts.Height*scale))
	ctx, err := newRenderContext(large, scale, opts.FontSize)
	if err != nil {
		return nil, err
	}
	var title float64
	if opts.Title != "" {
		title = float64(opts.FontSize * 2 * scale)
	}
	frame := plotFrame(float64(opts.Width*scale), float64(opts.Height*scale), float64(opts.Padding*scale), title)
	ctx.plot(buildScene(d, r, frame), opts)
	if opts.Title != "" {
		drawTextCentered(ctx, large.Bounds().Dx()/2, (opts.Padding+opts.FontSize)*scale, opts.Title, colorBlack)
	}

	// Downsample to target size using high-quality interpolation
	final := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	draw.CatmullRom.Scale(final, final.Bounds(), large, large.Bounds(), draw.Over, nil)
	return final, nil
}

func (ctx *renderContext) plot(s scene, opts PNGOptions) {
	draw.Draw(ctx.img, ctx.img.Bounds(), image.NewUniform(colorWhite), image.Point{}, draw.Src)

	bg := parseHexColor(hexBackground, colorBlack)
	for _, seg := range s.background {
		drawLine(ctx, seg[0].X, seg[0].Y, seg[1].X, seg[1].Y, bg)
	}

	over := parseHexColor(hexOverLength, colorBlack)
	for _, p := range s.pipes {
		c := parseHexColor(layerHex[p.layer], colorBlack)
		for i := 1; i < len(p.path); i++ {
			drawLine(ctx, p.path[i-1].X, p.path[i-1].Y, p.path[i].X, p.path[i].Y, c)
		}
		if opts.ShowLengths {
			lc := colorBlack
			if p.over {
				lc = over
			}
			drawTextCentered(ctx, int(p.handle.X), int(p.handle.Y-ctx.lineWidth*4), formatLength(p.length), lc)
		}
	}

	for _, dr := range s.drawables {
		stroke := parseHexColor(dr.stroke, colorBlack)
		switch dr.kind {
		case plan.ShapeLine:
			for i := 1; i < len(dr.points); i++ {
				drawLine(ctx, dr.points[i-1].X, dr.points[i-1].Y, dr.points[i].X, dr.points[i].Y, stroke)
			}
		case plan.ShapeRect:
			for i := range dr.points {
				a, b := dr.points[i], dr.points[(i+1)%len(dr.points)]
				drawLine(ctx, a.X, a.Y, b.X, b.Y, stroke)
			}
		case plan.ShapeText:
			drawText(ctx, int(dr.origin.X), int(dr.origin.Y), dr.text, stroke)
		}
	}

	for _, it := range s.items {
		colors := kindHex[it.kind]
		fill := parseHexColor(colors[0], colorWhite)
		border := parseHexColor(colors[1], colorBlack)
		drawEllipse(ctx, it.pos.X, it.pos.Y, s.radius, s.radius, fill, border)
		// Rotation tick from the centre to the rim.
		a := float64(it.rotation) * math.Pi / 180
		drawLine(ctx, it.pos.X, it.pos.Y, it.pos.X+s.radius*math.Cos(a), it.pos.Y+s.radius*math.Sin(a), border)
		if it.label != "" {
			ascent := ctx.face.Metrics().Ascent.Ceil()
			drawTextCentered(ctx, int(it.pos.X), int(it.pos.Y+s.radius)+ascent, it.label, colorBlack)
		}
	}
}

// drawEllipse draws a filled ellipse with a thick outline.
func drawEllipse(ctx *renderContext, cx, cy, rx, ry float64, fill, stroke color.Color) {
	img := ctx.img
	thickness := ctx.lineWidth

	if fill != color.Transparent {
		for dy := -ry; dy <= ry; dy++ {
			yNorm := dy / ry
			if yNorm*yNorm <= 1 {
				xExtent := rx * math.Sqrt(1-yNorm*yNorm)
				for dx := -xExtent; dx <= xExtent; dx++ {
					img.Set(int(cx+dx), int(cy+dy), fill)
				}
			}
		}
	}

	for angle := 0.0; angle < 2*math.Pi; angle += 0.005 {
		nx, ny := math.Cos(angle), math.Sin(angle)
		x, y := cx+rx*nx, cy+ry*ny
		for t := -thickness / 2; t <= thickness/2; t += 0.5 {
			img.Set(int(x+nx*t), int(y+ny*t), stroke)
		}
	}
}

// drawLine draws a line of the context's width.
func drawLine(ctx *renderContext, x1, y1, x2, y2 float64, c color.Color) {
	img := ctx.img
	halfThick := ctx.lineWidth / 2

	dx := x2 - x1
	dy := y2 - y1
	dist := math.Hypot(dx, dy)
	if dist < 1 {
		for ty := -halfThick; ty <= halfThick; ty++ {
			for tx := -halfThick; tx <= halfThick; tx++ {
				img.Set(int(x1+tx), int(y1+ty), c)
			}
		}
		return
	}

	steps := math.Max(math.Abs(dx), math.Abs(dy))
	perpX := -dy / dist
	perpY := dx / dist
	for i := 0.0; i <= steps; i++ {
		t := i / steps
		cx := x1 + dx*t
		cy := y1 + dy*t
		for offset := -halfThick; offset <= halfThick; offset += 0.5 {
			img.Set(int(cx+perpX*offset), int(cy+perpY*offset), c)
		}
	}
}

// drawTextCentered draws text horizontally centred on x with its baseline at y.
func drawTextCentered(ctx *renderContext, x, y int, text string, c color.Color) {
	width := font.MeasureString(ctx.face, text).Ceil()
	drawText(ctx, x-width/2, y, text, c)
}

func drawText(ctx *renderContext, x, y int, text string, c color.Color) {
	d := &font.Drawer{
		Dst:  ctx.img,
		Src:  image.NewUniform(c),
		Face: ctx.face,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
}
