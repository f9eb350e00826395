package plan

import (
	"fmt"

	"github.com/ha1tch/gasplan/pkg/geom"
)

// Document is the plan aggregate. It owns the four entity collections and is
// mutated only through its methods; accessors return copies.
type Document struct {
	items       collection[Item]
	connections collection[Connection]
	drawables   collection[Drawable]
	background  collection[BackgroundEntity]
	bg          Background
	view        ViewSettings
	ids         *idSource
}

// Option configures a new Document.
type Option func(*Document)

// WithIDGenerator replaces the default UUIDv7 id generator.
func WithIDGenerator(gen IDGenerator) Option {
	return func(d *Document) {
		if gen != nil {
			d.ids = &idSource{next: gen}
		}
	}
}

// WithViewSettings sets the initial view settings.
func WithViewSettings(v ViewSettings) Option {
	return func(d *Document) {
		d.view = v
	}
}

// New creates an empty document.
func New(opts ...Option) *Document {
	d := &Document{
		items:       newCollection[Item](),
		connections: newCollection[Connection](),
		drawables:   newCollection[Drawable](),
		background:  newCollection[BackgroundEntity](),
		bg:          Background{Scale: 1},
		view:        DefaultViewSettings(),
		ids:         &idSource{next: NewID},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Clone returns a deep copy sharing only the id generator.
func (d *Document) Clone() *Document {
	return &Document{
		items:       d.items.clone(nil),
		connections: d.connections.clone(nil),
		drawables:   d.drawables.clone(Drawable.clone),
		background:  d.background.clone(nil),
		bg:          d.bg,
		view:        d.view,
		ids:         d.ids,
	}
}

func (d *Document) freshID(taken func(string) bool) string {
	for {
		id := d.ids.next()
		if !taken(id) {
			return id
		}
	}
}

// View returns the view settings.
func (d *Document) View() ViewSettings {
	return d.view
}

// SetView replaces the view settings.
func (d *Document) SetView(v ViewSettings) {
	d.view = v
}

// Items

// Item looks up an item by id.
func (d *Document) Item(id string) (Item, bool) {
	return d.items.get(id)
}

// Items returns all items in insertion order.
func (d *Document) Items() []Item {
	return d.items.all()
}

// ItemCount returns the number of items.
func (d *Document) ItemCount() int {
	return d.items.size()
}

// AddItem places a new item. An empty label is replaced by the next free
// "<Kind> n" label.
func (d *Document) AddItem(kind ItemKind, pos geom.Point, label string) (Item, error) {
	if !kind.Valid() {
		return Item{}, fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}
	if !pos.Finite() {
		return Item{}, fmt.Errorf("%w: item position %v", ErrInvalidGeometry, pos)
	}
	if label == "" {
		label = d.nextLabel(kind)
	}
	it := Item{
		ID:    d.freshID(d.items.has),
		Pos:   pos,
		Kind:  kind,
		Label: label,
	}
	d.items.put(it.ID, it)
	return it, nil
}

// InsertItem stores an item with its existing id, as when loading a file.
func (d *Document) InsertItem(it Item) error {
	if it.ID == "" {
		return fmt.Errorf("%w: item without id", ErrInvalidGeometry)
	}
	if d.items.has(it.ID) {
		return fmt.Errorf("%w: item %s", ErrDuplicateID, it.ID)
	}
	d.items.put(it.ID, it)
	return nil
}

func (d *Document) nextLabel(kind ItemKind) string {
	taken := make(map[string]bool)
	n := 1
	for _, it := range d.items.all() {
		taken[it.Label] = true
		if it.Kind == kind {
			n++
		}
	}
	for {
		label := fmt.Sprintf("%s %d", kind.Title(), n)
		if !taken[label] {
			return label
		}
		n++
	}
}

// MoveItem sets an item's position.
func (d *Document) MoveItem(id string, pos geom.Point) error {
	it, ok := d.items.get(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownItem, id)
	}
	if !pos.Finite() {
		return fmt.Errorf("%w: item position %v", ErrInvalidGeometry, pos)
	}
	it.Pos = pos
	d.items.put(id, it)
	return nil
}

// RotateItem adds delta degrees to an item's rotation, wrapping modulo 360.
func (d *Document) RotateItem(id string, delta int) (Item, error) {
	it, ok := d.items.get(id)
	if !ok {
		return Item{}, fmt.Errorf("%w: %s", ErrUnknownItem, id)
	}
	it.Rotation = normalizeRotation(it.Rotation + delta)
	d.items.put(id, it)
	return it, nil
}

// SetItemLabel renames an item.
func (d *Document) SetItemLabel(id, label string) error {
	it, ok := d.items.get(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownItem, id)
	}
	it.Label = label
	d.items.put(id, it)
	return nil
}

// RemoveItem deletes an item and every connection referencing it.
// The removed connections are returned in insertion order.
func (d *Document) RemoveItem(id string) ([]Connection, error) {
	if !d.items.has(id) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownItem, id)
	}
	var removed []Connection
	for _, c := range d.connections.all() {
		if c.Touches(id) {
			d.connections.remove(c.ID)
			removed = append(removed, c)
		}
	}
	d.items.remove(id)
	return removed, nil
}

// Connections

// Connection looks up a connection by id.
func (d *Document) Connection(id string) (Connection, bool) {
	return d.connections.get(id)
}

// Connections returns all connections in insertion order, including any whose
// endpoints are missing.
func (d *Document) Connections() []Connection {
	return d.connections.all()
}

// ConnectionsOf returns the connections touching an item.
func (d *Document) ConnectionsOf(itemID string) []Connection {
	var out []Connection
	for _, c := range d.connections.all() {
		if c.Touches(itemID) {
			out = append(out, c)
		}
	}
	return out
}

// Endpoints resolves both endpoint items. ok is false for a dangling connection.
func (d *Document) Endpoints(c Connection) (start, end Item, ok bool) {
	start, ok1 := d.items.get(c.Start)
	end, ok2 := d.items.get(c.End)
	return start, end, ok1 && ok2
}

// AddConnection validates and commits a new connection. On error nothing changes.
func (d *Document) AddConnection(start, end string, layer GasLayer) (Connection, error) {
	if err := d.ValidateConnection(start, end, layer); err != nil {
		return Connection{}, err
	}
	c := Connection{
		ID:    d.freshID(d.connections.has),
		Start: start,
		End:   end,
		Layer: layer,
	}
	d.connections.put(c.ID, c)
	return c, nil
}

// InsertConnection stores a connection without validation, as when loading.
// Use Check afterwards.
func (d *Document) InsertConnection(c Connection) error {
	if c.ID == "" {
		return fmt.Errorf("%w: connection without id", ErrInvalidGeometry)
	}
	if d.connections.has(c.ID) {
		return fmt.Errorf("%w: connection %s", ErrDuplicateID, c.ID)
	}
	d.connections.put(c.ID, c)
	return nil
}

// SetBendOffset updates the only mutable attribute of a connection.
func (d *Document) SetBendOffset(id string, offset float64) error {
	c, ok := d.connections.get(id)
	if !ok {
		return fmt.Errorf("%w: connection %s", ErrUnknownEntity, id)
	}
	if !geom.Pt(offset, 0).Finite() {
		return fmt.Errorf("%w: bend offset %v", ErrInvalidGeometry, offset)
	}
	c.BendOffset = offset
	d.connections.put(id, c)
	return nil
}

// RemoveConnection deletes a connection.
func (d *Document) RemoveConnection(id string) error {
	if !d.connections.remove(id) {
		return fmt.Errorf("%w: connection %s", ErrUnknownEntity, id)
	}
	return nil
}

// Drawables

// Drawable looks up a drawable by id. The returned shape is a copy.
func (d *Document) Drawable(id string) (Drawable, bool) {
	dr, ok := d.drawables.get(id)
	if !ok {
		return Drawable{}, false
	}
	return dr.clone(), true
}

// Drawables returns copies of all drawables in insertion order.
func (d *Document) Drawables() []Drawable {
	all := d.drawables.all()
	for i := range all {
		all[i] = all[i].clone()
	}
	return all
}

// AddDrawable stores a new annotation, assigning its id. Stroke defaults to
// DefaultStroke.
func (d *Document) AddDrawable(dr Drawable) (Drawable, error) {
	if !validShape(dr.Shape) {
		return Drawable{}, fmt.Errorf("%w: incomplete drawable", ErrInvalidGeometry)
	}
	dr = dr.clone()
	dr.ID = d.freshID(d.drawables.has)
	if dr.Stroke == "" {
		dr.Stroke = DefaultStroke
	}
	dr.Rotation = normalizeRotation(dr.Rotation)
	d.drawables.put(dr.ID, dr)
	return dr.clone(), nil
}

// InsertDrawable stores a drawable with its existing id, as when loading.
func (d *Document) InsertDrawable(dr Drawable) error {
	if dr.ID == "" {
		return fmt.Errorf("%w: drawable without id", ErrInvalidGeometry)
	}
	if d.drawables.has(dr.ID) {
		return fmt.Errorf("%w: drawable %s", ErrDuplicateID, dr.ID)
	}
	d.drawables.put(dr.ID, dr.clone())
	return nil
}

// UpdateDrawable replaces the shape and style of an existing drawable.
func (d *Document) UpdateDrawable(dr Drawable) error {
	if !d.drawables.has(dr.ID) {
		return fmt.Errorf("%w: drawable %s", ErrUnknownEntity, dr.ID)
	}
	if !validShape(dr.Shape) {
		return fmt.Errorf("%w: incomplete drawable", ErrInvalidGeometry)
	}
	dr = dr.clone()
	dr.Rotation = normalizeRotation(dr.Rotation)
	d.drawables.put(dr.ID, dr)
	return nil
}

// MoveDrawable translates a drawable by delta.
func (d *Document) MoveDrawable(id string, delta geom.Point) error {
	dr, ok := d.drawables.get(id)
	if !ok {
		return fmt.Errorf("%w: drawable %s", ErrUnknownEntity, id)
	}
	if !delta.Finite() {
		return fmt.Errorf("%w: delta %v", ErrInvalidGeometry, delta)
	}
	dr.Shape = dr.Shape.Translate(delta)
	d.drawables.put(id, dr)
	return nil
}

// RotateDrawable adds delta degrees to a drawable's rotation.
func (d *Document) RotateDrawable(id string, delta int) (Drawable, error) {
	dr, ok := d.drawables.get(id)
	if !ok {
		return Drawable{}, fmt.Errorf("%w: drawable %s", ErrUnknownEntity, id)
	}
	dr.Rotation = normalizeRotation(dr.Rotation + delta)
	d.drawables.put(id, dr)
	return dr.clone(), nil
}

// RemoveDrawable deletes a drawable.
func (d *Document) RemoveDrawable(id string) error {
	if !d.drawables.remove(id) {
		return fmt.Errorf("%w: drawable %s", ErrUnknownEntity, id)
	}
	return nil
}

// Background

// Background returns the background scale and raster handle.
func (d *Document) Background() Background {
	return d.bg
}

// BackgroundEntities returns imported segments in insertion order.
func (d *Document) BackgroundEntities() []BackgroundEntity {
	return d.background.all()
}

// BackgroundEntity looks up an imported segment.
func (d *Document) BackgroundEntity(id string) (BackgroundEntity, bool) {
	return d.background.get(id)
}

// ReplaceBackground discards existing imported segments and stores segs with
// fresh ids and the given scale. The raster handle is kept.
func (d *Document) ReplaceBackground(segs []Segment, scale float64) {
	d.background.clear()
	for _, s := range segs {
		e := BackgroundEntity{ID: d.freshID(d.background.has), P1: s.P1, P2: s.P2}
		d.background.put(e.ID, e)
	}
	d.bg.Scale = scale
}

// InsertBackgroundEntity stores a segment with its existing id, as when loading.
func (d *Document) InsertBackgroundEntity(e BackgroundEntity) error {
	if e.ID == "" {
		return fmt.Errorf("%w: background entity without id", ErrInvalidGeometry)
	}
	if d.background.has(e.ID) {
		return fmt.Errorf("%w: background entity %s", ErrDuplicateID, e.ID)
	}
	d.background.put(e.ID, e)
	return nil
}

// SetBackground replaces the background scale and raster handle.
func (d *Document) SetBackground(bg Background) {
	d.bg = bg
}

// RemoveBackgroundEntity deletes an imported segment.
func (d *Document) RemoveBackgroundEntity(id string) error {
	if !d.background.remove(id) {
		return fmt.Errorf("%w: background entity %s", ErrUnknownEntity, id)
	}
	return nil
}

// Cross-collection

// EntityKind names the collection an id was found in.
type EntityKind string

const (
	EntityItem       EntityKind = "item"
	EntityConnection EntityKind = "connection"
	EntityDrawable   EntityKind = "drawable"
	EntityBackground EntityKind = "background"
)

// Lookup reports which collections hold id. Ids are only unique per
// collection, so more than one kind may be returned.
func (d *Document) Lookup(id string) []EntityKind {
	var kinds []EntityKind
	if d.items.has(id) {
		kinds = append(kinds, EntityItem)
	}
	if d.connections.has(id) {
		kinds = append(kinds, EntityConnection)
	}
	if d.drawables.has(id) {
		kinds = append(kinds, EntityDrawable)
	}
	if d.background.has(id) {
		kinds = append(kinds, EntityBackground)
	}
	return kinds
}

// Remove deletes each id from every collection that holds it, cascading item
// deletes to their connections. It returns the number of entities removed,
// cascaded connections included.
func (d *Document) Remove(ids ...string) int {
	n := 0
	for _, id := range ids {
		if d.items.has(id) {
			removed, _ := d.RemoveItem(id)
			n += 1 + len(removed)
		}
		if d.connections.remove(id) {
			n++
		}
		if d.drawables.remove(id) {
			n++
		}
		if d.background.remove(id) {
			n++
		}
	}
	return n
}

// Empty reports whether the document has no entities.
func (d *Document) Empty() bool {
	return d.items.size() == 0 && d.connections.size() == 0 &&
		d.drawables.size() == 0 && d.background.size() == 0
}

// Bounds returns the world extent of all items, drawables and scaled
// background segments. ok is false for an empty document.
func (d *Document) Bounds() (geom.Rect, bool) {
	var pts []geom.Point
	for _, it := range d.items.all() {
		pts = append(pts,
			it.Pos.Sub(geom.Pt(ItemRadius, ItemRadius)),
			it.Pos.Add(geom.Pt(ItemRadius, ItemRadius)))
	}
	for _, dr := range d.drawables.all() {
		if dr.Shape == nil {
			continue
		}
		b := dr.Shape.Bounds()
		pts = append(pts, geom.Pt(b.X, b.Y), geom.Pt(b.X+b.W, b.Y+b.H))
	}
	for _, e := range d.background.all() {
		pts = append(pts, e.P1.Scale(d.bg.Scale), e.P2.Scale(d.bg.Scale))
	}
	return geom.BoundingBox(pts)
}
