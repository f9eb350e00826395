package plan

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/gasplan/pkg/geom"
)

func seg(x1, y1, x2, y2 float64) Segment {
	return Segment{P1: geom.Pt(x1, y1), P2: geom.Pt(x2, y2)}
}

func TestNormalizeScale(t *testing.T) {
	segs := []Segment{seg(10, 0, 60, 0), seg(60, 0, 210, 40)}
	out, scale := Normalize(segs, ImportOptions{TargetWidth: 1000})
	assert.Equal(t, 5.0, scale)
	assert.Equal(t, segs, out)

	_, scale = Normalize(segs, ImportOptions{})
	assert.Equal(t, DefaultImportWidth/200, scale)
}

func TestNormalizeDegenerate(t *testing.T) {
	_, scale := Normalize(nil, ImportOptions{TargetWidth: 800})
	assert.Equal(t, 1.0, scale)

	out, scale := Normalize([]Segment{seg(5, 0, 5, 100), seg(5, 100, 5, 300)}, ImportOptions{TargetWidth: 800})
	assert.Equal(t, 1.0, scale, "zero-width bounding box")
	assert.Len(t, out, 2)

	out, scale = Normalize([]Segment{seg(math.Inf(1), 0, 0, 0)}, ImportOptions{})
	assert.Empty(t, out)
	assert.Equal(t, 1.0, scale)
}

func TestNormalizeFlipY(t *testing.T) {
	out, _ := Normalize([]Segment{seg(0, 10, 100, -20)}, ImportOptions{FlipY: true})
	assert.Equal(t, []Segment{seg(0, -10, 100, 20)}, out)
}

func TestImportBackgroundReplaces(t *testing.T) {
	d := newTestDoc()
	d.SetBackground(Background{Scale: 1, Image: "floor.png"})

	scale := d.ImportBackground([]Segment{seg(0, 0, 100, 0), seg(0, 0, 0, 100)}, ImportOptions{TargetWidth: 500})
	assert.Equal(t, 5.0, scale)
	require.Len(t, d.BackgroundEntities(), 2)

	d.ImportBackground([]Segment{seg(0, 0, 10, 0)}, ImportOptions{TargetWidth: 500})
	ents := d.BackgroundEntities()
	require.Len(t, ents, 1)
	assert.Equal(t, geom.Pt(10, 0), ents[0].P2)
	assert.Equal(t, Background{Scale: 50, Image: "floor.png"}, d.Background())

	require.NoError(t, d.RemoveBackgroundEntity(ents[0].ID))
	assert.Empty(t, d.BackgroundEntities())
	assert.NoError(t, d.Check())
}
