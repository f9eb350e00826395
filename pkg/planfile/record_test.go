package planfile

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/gasplan/pkg/geom"
	"github.com/ha1tch/gasplan/pkg/plan"
)

// sampleDoc has one of everything: a source feeding two beds on O2, a
// vacuum run between the beds, every drawable shape and a background.
func sampleDoc(t *testing.T) *plan.Document {
	t.Helper()
	d := plan.New(plan.WithIDGenerator(plan.SequentialIDs("s")))
	src, err := d.AddItem(plan.KindSource, geom.Pt(0, 0), "Manifold")
	require.NoError(t, err)
	a, err := d.AddItem(plan.KindTerminal, geom.Pt(300, 0), "")
	require.NoError(t, err)
	b, err := d.AddItem(plan.KindTerminal, geom.Pt(300, 200), "ICU <2>")
	require.NoError(t, err)
	_, err = d.RotateItem(b.ID, 90)
	require.NoError(t, err)

	_, err = d.AddConnection(src.ID, a.ID, plan.LayerO2)
	require.NoError(t, err)
	c, err := d.AddConnection(src.ID, b.ID, plan.LayerO2)
	require.NoError(t, err)
	require.NoError(t, d.SetBendOffset(c.ID, -40))
	_, err = d.AddConnection(a.ID, b.ID, plan.LayerVacuum)
	require.NoError(t, err)

	for _, dr := range []plan.Drawable{
		{Shape: &plan.Line{Points: []geom.Point{{X: 0, Y: 300}, {X: 200, Y: 300}, {X: 200, Y: 400}}}},
		{Shape: &plan.Rectangle{Origin: geom.Pt(-50, -50), W: 100, H: 60}, Fill: "#eeeeee", Rotation: 90},
		{Shape: &plan.Text{Origin: geom.Pt(10, 450), Body: "Ward B"}, Stroke: "#0044aa"},
	} {
		_, err := d.AddDrawable(dr)
		require.NoError(t, err)
	}

	d.ImportBackground([]plan.Segment{
		{P1: geom.Pt(0, 0), P2: geom.Pt(50, 0)},
		{P1: geom.Pt(50, 0), P2: geom.Pt(50, 40)},
	}, plan.ImportOptions{TargetWidth: 500})
	d.SetBackground(plan.Background{Scale: d.Background().Scale, Image: "scan-01"})
	return d
}

func requireSameDocument(t *testing.T, want, got *plan.Document) {
	t.Helper()
	assert.Equal(t, want.Items(), got.Items())
	assert.Equal(t, want.Connections(), got.Connections())
	assert.Equal(t, want.Drawables(), got.Drawables())
	assert.Equal(t, want.BackgroundEntities(), got.BackgroundEntities())
	assert.Equal(t, want.Background(), got.Background())
	assert.Equal(t, want.View(), got.View())
}

func TestJSONRoundTrip(t *testing.T) {
	d := sampleDoc(t)
	for _, pretty := range []bool{false, true} {
		data, err := ToJSON(d, pretty)
		require.NoError(t, err)
		got, err := ParseJSON(data)
		require.NoError(t, err)
		requireSameDocument(t, d, got)
	}
}

func TestMsgpackRoundTrip(t *testing.T) {
	d := sampleDoc(t)
	data, err := ToMsgpack(d)
	require.NoError(t, err)
	got, err := ParseMsgpack(data)
	require.NoError(t, err)
	requireSameDocument(t, d, got)
}

func TestBundleRoundTrip(t *testing.T) {
	d := sampleDoc(t)
	var buf bytes.Buffer
	require.NoError(t, WriteBundle(&buf, d, plan.RouterFor(d, 0, nil)))

	got, err := ReadBundleBytes(buf.Bytes())
	require.NoError(t, err)
	requireSameDocument(t, d, got)

	bom, err := ReadBundleBOM(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 1, bom.Counts[plan.KindSource])
	assert.Equal(t, 2, bom.Counts[plan.KindTerminal])
	assert.Len(t, bom.Rows, 3)
}

func TestEmptyDocumentWritesArrays(t *testing.T) {
	data, err := ToJSON(plan.New(), false)
	require.NoError(t, err)
	for _, key := range []string{"items", "connections", "drawables", "background_entities"} {
		assert.Contains(t, string(data), `"`+key+`":[]`)
	}
	got, err := ParseJSON(data)
	require.NoError(t, err)
	assert.True(t, got.Empty())
}

func TestFileFormatsByExtension(t *testing.T) {
	d := sampleDoc(t)
	dir := t.TempDir()
	for _, name := range []string{"plan.json", "plan.mpk", "plan.gplan"} {
		path := filepath.Join(dir, name)
		require.NoError(t, WriteFile(path, d, plan.DefaultRouter()), name)
		got, err := ReadFile(path)
		require.NoError(t, err, name)
		requireSameDocument(t, d, got)
	}

	_, err := FormatFor("plan.txt")
	assert.Error(t, err)
	assert.Error(t, WriteFile(filepath.Join(dir, "plan.txt"), d, plan.DefaultRouter()))
}

func TestLoadedDocumentKeepsGenerating(t *testing.T) {
	data, err := ToJSON(sampleDoc(t), false)
	require.NoError(t, err)
	got, err := ParseJSON(data, plan.WithIDGenerator(plan.SequentialIDs("s")))
	require.NoError(t, err)

	// s-1..s-3 are taken by items; ids stay unique.
	it, err := got.AddItem(plan.KindValve, geom.Pt(0, 0), "")
	require.NoError(t, err)
	assert.Equal(t, 4, got.ItemCount())
	assert.NotContains(t, []string{"s-1", "s-2", "s-3"}, it.ID)
	assert.Equal(t, "Valve 1", it.Label)
}

func TestRejectsCorruptDocuments(t *testing.T) {
	cases := map[string]string{
		"version": `{"version": 2, "view": {"viewport": {"scale": 1}, "pixels_per_unit": 50}, "background": {"scale": 1}}`,
		"syntax":  `{"version": 1,`,
		"duplicate item": `{"version": 1, "view": {"viewport": {"scale": 1}, "pixels_per_unit": 50}, "background": {"scale": 1},
			"items": [{"id": "a", "kind": "valve", "pos": {"x": 0, "y": 0}}, {"id": "a", "kind": "valve", "pos": {"x": 1, "y": 0}}]}`,
		"unknown kind": `{"version": 1, "view": {"viewport": {"scale": 1}, "pixels_per_unit": 50}, "background": {"scale": 1},
			"items": [{"id": "a", "kind": "pump", "pos": {"x": 0, "y": 0}}]}`,
		"source with two gases": `{"version": 1, "view": {"viewport": {"scale": 1}, "pixels_per_unit": 50}, "background": {"scale": 1},
			"items": [{"id": "s", "kind": "source", "pos": {"x": 0, "y": 0}},
			          {"id": "a", "kind": "terminal", "pos": {"x": 100, "y": 0}},
			          {"id": "b", "kind": "terminal", "pos": {"x": 0, "y": 100}}],
			"connections": [{"id": "c1", "start": "s", "end": "a", "layer": "o2"},
			                {"id": "c2", "start": "b", "end": "s", "layer": "vacuum"}]}`,
		"unknown drawable": `{"version": 1, "view": {"viewport": {"scale": 1}, "pixels_per_unit": 50}, "background": {"scale": 1},
			"drawables": [{"id": "d", "type": "circle"}]}`,
		"rect without origin": `{"version": 1, "view": {"viewport": {"scale": 1}, "pixels_per_unit": 50}, "background": {"scale": 1},
			"drawables": [{"id": "d", "type": "rect", "width": 5, "height": 5}]}`,
		"zero background scale": `{"version": 1, "view": {"viewport": {"scale": 1}, "pixels_per_unit": 50}, "background": {"scale": 0}}`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseJSON([]byte(doc))
			require.Error(t, err)
			if name != "syntax" {
				assert.ErrorIs(t, err, plan.ErrCorruptDocument)
			}
		})
	}
}

func TestDanglingConnectionIsTolerated(t *testing.T) {
	doc := `{"version": 1, "view": {"viewport": {"scale": 1}, "pixels_per_unit": 50}, "background": {"scale": 1},
		"items": [{"id": "a", "kind": "terminal", "pos": {"x": 0, "y": 0}}],
		"connections": [{"id": "c", "start": "a", "end": "gone", "layer": "o2"}]}`
	d, err := ParseJSON([]byte(doc))
	require.NoError(t, err)
	assert.Len(t, d.Connections(), 1)

	bom := plan.Aggregate(d, plan.RouterFor(d, 0, nil))
	assert.Empty(t, bom.Rows)
	assert.Zero(t, bom.TotalLength())
}

func TestReadBundleWithoutPlan(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.gplan")
	require.NoError(t, os.WriteFile(path, []byte("PK\x05\x06"+string(make([]byte, 18))), 0o644))
	_, err := ReadFile(path)
	assert.ErrorIs(t, err, plan.ErrCorruptDocument)
}
