// Package planfile reads and writes plan documents and segment import files,
// and plots documents to PNG and SVG.
package planfile

import (
	"fmt"

	"github.com/ha1tch/gasplan/pkg/geom"
	"github.com/ha1tch/gasplan/pkg/plan"
)

// Version is the record format version written by this package.
const Version = 1

// Record is the serialised form of a document.
type Record struct {
	Version     int                     `json:"version" msgpack:"version"`
	View        plan.ViewSettings       `json:"view" msgpack:"view"`
	Background  plan.Background         `json:"background" msgpack:"background"`
	Items       []plan.Item             `json:"items" msgpack:"items"`
	Connections []plan.Connection       `json:"connections" msgpack:"connections"`
	Drawables   []DrawableRecord        `json:"drawables" msgpack:"drawables"`
	Segments    []plan.BackgroundEntity `json:"background_entities" msgpack:"background_entities"`
}

// DrawableRecord is a drawable tagged with its shape type. Only the fields
// of that shape are set.
type DrawableRecord struct {
	ID       string         `json:"id" msgpack:"id"`
	Type     plan.ShapeKind `json:"type" msgpack:"type"`
	Stroke   string         `json:"stroke,omitempty" msgpack:"stroke,omitempty"`
	Fill     string         `json:"fill,omitempty" msgpack:"fill,omitempty"`
	Rotation int            `json:"rotation,omitempty" msgpack:"rotation,omitempty"`
	Points   []geom.Point   `json:"points,omitempty" msgpack:"points,omitempty"`
	Origin   *geom.Point    `json:"origin,omitempty" msgpack:"origin,omitempty"`
	Width    float64        `json:"width,omitempty" msgpack:"width,omitempty"`
	Height   float64        `json:"height,omitempty" msgpack:"height,omitempty"`
	Text     string         `json:"text,omitempty" msgpack:"text,omitempty"`
}

// ToRecord converts a document to its record.
func ToRecord(d *plan.Document) Record {
	r := Record{
		Version:     Version,
		View:        d.View(),
		Background:  d.Background(),
		Items:       d.Items(),
		Connections: d.Connections(),
		Drawables:   make([]DrawableRecord, 0),
		Segments:    d.BackgroundEntities(),
	}
	for _, dr := range d.Drawables() {
		r.Drawables = append(r.Drawables, drawableToRecord(dr))
	}
	return r
}

func drawableToRecord(dr plan.Drawable) DrawableRecord {
	rec := DrawableRecord{
		ID:       dr.ID,
		Stroke:   dr.Stroke,
		Fill:     dr.Fill,
		Rotation: dr.Rotation,
	}
	switch s := dr.Shape.(type) {
	case *plan.Line:
		rec.Type = plan.ShapeLine
		rec.Points = s.Points
	case *plan.Rectangle:
		rec.Type = plan.ShapeRect
		o := s.Origin
		rec.Origin = &o
		rec.Width, rec.Height = s.W, s.H
	case *plan.Text:
		rec.Type = plan.ShapeText
		o := s.Origin
		rec.Origin = &o
		rec.Text = s.Body
	}
	return rec
}

func recordToDrawable(rec DrawableRecord) (plan.Drawable, error) {
	dr := plan.Drawable{
		ID:       rec.ID,
		Stroke:   rec.Stroke,
		Fill:     rec.Fill,
		Rotation: rec.Rotation,
	}
	origin := func() (geom.Point, error) {
		if rec.Origin == nil {
			return geom.Point{}, fmt.Errorf("drawable %s: %s without origin", rec.ID, rec.Type)
		}
		return *rec.Origin, nil
	}
	switch rec.Type {
	case plan.ShapeLine:
		dr.Shape = &plan.Line{Points: append([]geom.Point(nil), rec.Points...)}
	case plan.ShapeRect:
		o, err := origin()
		if err != nil {
			return dr, err
		}
		dr.Shape = &plan.Rectangle{Origin: o, W: rec.Width, H: rec.Height}
	case plan.ShapeText:
		o, err := origin()
		if err != nil {
			return dr, err
		}
		dr.Shape = &plan.Text{Origin: o, Body: rec.Text}
	default:
		return dr, fmt.Errorf("drawable %s: unknown type %q", rec.ID, rec.Type)
	}
	return dr, nil
}

// FromRecord rebuilds a document. Anything the editing API could not have
// produced is rejected with an error wrapping plan.ErrCorruptDocument;
// connections to missing items are kept.
func FromRecord(r Record, opts ...plan.Option) (*plan.Document, error) {
	if r.Version != Version {
		return nil, fmt.Errorf("%w: unsupported version %d", plan.ErrCorruptDocument, r.Version)
	}
	d := plan.New(opts...)
	d.SetView(r.View)
	d.SetBackground(r.Background)

	wrap := func(err error) error {
		return fmt.Errorf("%w: %w", plan.ErrCorruptDocument, err)
	}
	for _, it := range r.Items {
		if err := d.InsertItem(it); err != nil {
			return nil, wrap(err)
		}
	}
	for _, c := range r.Connections {
		if err := d.InsertConnection(c); err != nil {
			return nil, wrap(err)
		}
	}
	for _, rec := range r.Drawables {
		dr, err := recordToDrawable(rec)
		if err != nil {
			return nil, wrap(err)
		}
		if err := d.InsertDrawable(dr); err != nil {
			return nil, wrap(err)
		}
	}
	for _, e := range r.Segments {
		if err := d.InsertBackgroundEntity(e); err != nil {
			return nil, wrap(err)
		}
	}
	if err := d.Check(); err != nil {
		return nil, err
	}
	return d, nil
}
