package plan

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/ha1tch/gasplan/pkg/geom"
)

// Segment is an imported line in the source file's native units.
type Segment struct {
	P1 geom.Point `json:"p1" msgpack:"p1"`
	P2 geom.Point `json:"p2" msgpack:"p2"`
}

// DefaultImportWidth is the world width imported geometry is fitted to.
const DefaultImportWidth = 1000.0

// ImportOptions controls normalisation of an imported segment list.
type ImportOptions struct {
	TargetWidth float64 // world width to fit; <= 0 selects DefaultImportWidth
	FlipY       bool    // negate Y to match the downward-Y canvas
}

// Normalize prepares imported segments: non-finite segments are dropped, Y is
// flipped when requested, and the fit scale
//
//	scale = targetWidth / (maxX - minX)
//
// is computed over all remaining endpoints. An empty list or a zero-width
// bounding box yields scale 1. The returned segments are a new slice.
func Normalize(segs []Segment, opts ImportOptions) ([]Segment, float64) {
	target := opts.TargetWidth
	if target <= 0 {
		target = DefaultImportWidth
	}
	out := make([]Segment, 0, len(segs))
	xs := make([]float64, 0, 2*len(segs))
	for _, s := range segs {
		if !s.P1.Finite() || !s.P2.Finite() {
			continue
		}
		if opts.FlipY {
			s.P1.Y, s.P2.Y = -s.P1.Y, -s.P2.Y
		}
		out = append(out, s)
		xs = append(xs, s.P1.X, s.P2.X)
	}
	if len(xs) == 0 {
		return out, 1
	}
	width := floats.Max(xs) - floats.Min(xs)
	scale := target / width
	if width <= 0 || math.IsInf(scale, 0) || math.IsNaN(scale) || scale <= 0 {
		return out, 1
	}
	return out, scale
}

// ImportBackground normalises segs and replaces the document's background
// segments with them. It returns the stored scale.
func (d *Document) ImportBackground(segs []Segment, opts ImportOptions) float64 {
	norm, scale := Normalize(segs, opts)
	d.ReplaceBackground(norm, scale)
	return scale
}
