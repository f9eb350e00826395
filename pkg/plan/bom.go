package plan

import (
	"gonum.org/v1/gonum/floats"
)

// PipeRow is one connection in a report, in connection insertion order.
type PipeRow struct {
	ConnectionID string   `json:"connection_id" yaml:"connection_id"`
	StartLabel   string   `json:"start" yaml:"start"`
	EndLabel     string   `json:"end" yaml:"end"`
	Layer        GasLayer `json:"layer" yaml:"layer"`
	Length       float64  `json:"length" yaml:"length"`
	OverLength   bool     `json:"over_length,omitempty" yaml:"over_length,omitempty"`
}

// BOM is the bill of materials derived from a document.
type BOM struct {
	Counts     map[ItemKind]int     `json:"counts" yaml:"counts"`
	PipeLength map[GasLayer]float64 `json:"pipe_length" yaml:"pipe_length"`
	Rows       []PipeRow            `json:"rows" yaml:"rows"`
}

// Aggregate computes the bill of materials. Every kind and layer is present
// in the maps, zero when unused. Dangling connections are skipped.
func Aggregate(d *Document, r Router) BOM {
	bom := BOM{
		Counts:     make(map[ItemKind]int, len(ItemKinds)),
		PipeLength: make(map[GasLayer]float64, len(GasLayers)),
		Rows:       []PipeRow{},
	}
	for _, k := range ItemKinds {
		bom.Counts[k] = 0
	}
	for _, it := range d.Items() {
		bom.Counts[it.Kind]++
	}

	lengths := make(map[GasLayer][]float64, len(GasLayers))
	for _, c := range d.Connections() {
		a, b, ok := d.Endpoints(c)
		if !ok {
			continue
		}
		l := r.Length(a.Pos, b.Pos)
		lengths[c.Layer] = append(lengths[c.Layer], l)
		bom.Rows = append(bom.Rows, PipeRow{
			ConnectionID: c.ID,
			StartLabel:   a.Label,
			EndLabel:     b.Label,
			Layer:        c.Layer,
			Length:       l,
			OverLength:   r.IsOverLength(l),
		})
	}
	for _, g := range GasLayers {
		bom.PipeLength[g] = floats.Sum(lengths[g])
	}
	return bom
}

// ItemTotal returns the number of items counted.
func (b BOM) ItemTotal() int {
	n := 0
	for _, c := range b.Counts {
		n += c
	}
	return n
}

// TotalLength returns the pipe length over all layers.
func (b BOM) TotalLength() float64 {
	per := make([]float64, 0, len(GasLayers))
	for _, g := range GasLayers {
		per = append(per, b.PipeLength[g])
	}
	return floats.Sum(per)
}

// OverLengthRows returns the rows flagged as over-length.
func (b BOM) OverLengthRows() []PipeRow {
	var out []PipeRow
	for _, row := range b.Rows {
		if row.OverLength {
			out = append(out, row)
		}
	}
	return out
}
