package leafy

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/leafyhollows/leafy/spritert/rt/batch"
	"github.com/leafyhollows/leafy/spritert/rt/core"
	"github.com/leafyhollows/leafy/spritert/rt/shaders"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCanvas(t *testing.T) *Canvas {
	t.Helper()
	buf, err := batch.New(&fakeBackend{}, batch.Options{})
	require.NoError(t, err)
	glyphs, err := core.NewGlyphAtlas(core.DefaultFace(), core.DefaultCharset)
	require.NoError(t, err)
	return NewCanvas(buf, core.DefaultSprites(), glyphs)
}

func record(t *testing.T, c *Canvas, i int) batch.Record {
	t.Helper()
	r, ok := c.buf.Record(i)
	require.True(t, ok, "record %d", i)
	return r
}

func TestCanvas_Rectangle(t *testing.T) {
	c := newTestCanvas(t)
	c.DrawRectangle(mgl32.Vec4{-0.5, -0.5, 1, 0.25}, mgl32.Vec4{1, 0, 0, 1}, 0.75)

	r := record(t, c, 0)
	assert.Equal(t, [4]float32{-0.5, -0.5, 1, 0.25}, r.Destination)
	assert.Equal(t, [4]float32{1, 0, 0, 1}, r.SourceOrColor)
	assert.Equal(t, [4]float32{shaders.ShapeRectangle, 0.75, 0, 0}, r.ShapeTransform)
}

func TestCanvas_Circle(t *testing.T) {
	c := newTestCanvas(t)
	c.DrawCircle(mgl32.Vec2{1, 0.3}, mgl32.Vec4{0.6, 0.2, 0.9, 0.7}, 0.2)

	r := record(t, c, 0)
	assert.InDeltaSlice(t, []float32{0.8, 0.1, 0.4, 0.4}, r.Destination[:], 1e-6)
	assert.Equal(t, [4]float32{0.6, 0.2, 0.9, 0.7}, r.SourceOrColor)
	assert.Equal(t, [4]float32{shaders.ShapeCircle, 0, 0, 0}, r.ShapeTransform)
}

func TestCanvas_Image(t *testing.T) {
	c := newTestCanvas(t)
	c.DrawImage(mgl32.Vec4{0, 0, 0.5, 0.5}, 1, 0.1, true, false)
	c.DrawImage(mgl32.Vec4{0, 0, 0.5, 0.5}, 99, 0, false, true)

	r := record(t, c, 0)
	assert.Equal(t, [4]float32{0.25, 0, 0.25, 1}, r.SourceOrColor)
	assert.Equal(t, [4]float32{shaders.ShapeImage, 0.1, 1, 0}, r.ShapeTransform)

	out := record(t, c, 1)
	assert.Equal(t, [4]float32{0, 0, 0.25, 1}, out.SourceOrColor, "out of range sprites use the first cell")
	assert.Equal(t, [4]float32{shaders.ShapeImage, 0, 0, 1}, out.ShapeTransform)
}

func TestCanvas_Glyph(t *testing.T) {
	c := newTestCanvas(t)
	white := mgl32.Vec4{1, 1, 1, 1}
	c.DrawChar(mgl32.Vec4{0, 0, 0.05, 0.1}, 'A', white)
	c.DrawChar(mgl32.Vec4{0, 0, 0.05, 0.1}, 'é', white)

	assert.Equal(t, [4]float32{shaders.ShapeGlyph, 0, 33, 0}, record(t, c, 0).ShapeTransform)
	assert.Equal(t, [4]float32{shaders.ShapeGlyph, 0, 31, 0}, record(t, c, 1).ShapeTransform, "unknown runes draw '?'")
	assert.Equal(t, [4]float32{1, 1, 1, 1}, record(t, c, 0).SourceOrColor)
}

func TestCanvas_DrawText(t *testing.T) {
	c := newTestCanvas(t)
	c.DrawText(mgl32.Vec2{0, 0.5}, "ab", 0.1, mgl32.Vec4{1, 1, 1, 1})
	require.Equal(t, 2, c.Count())

	a := record(t, c, 0)
	b := record(t, c, 1)
	assert.InDeltaSlice(t, []float32{-0.1, 0.5, 0.05, 0.1}, a.Destination[:], 1e-6)
	assert.InDeltaSlice(t, []float32{0.02, 0.5, 0.05, 0.1}, b.Destination[:], 1e-6)
	assert.Equal(t, float32(c.Glyphs().Index('b')), b.ShapeTransform[2])
}

func TestCanvas_DrawTextCountsRunes(t *testing.T) {
	c := newTestCanvas(t)
	c.DrawText(mgl32.Vec2{}, "héllo", 0.1, mgl32.Vec4{1, 1, 1, 1})
	assert.Equal(t, 5, c.Count())
}

func TestCanvas_DrawMixedShapes(t *testing.T) {
	c := newTestCanvas(t)
	c.Draw(
		Rectangle{Rect: mgl32.Vec4{0, 0, 1, 1}},
		Circle{Radius: 0.5},
		Image{Rect: mgl32.Vec4{0, 0, 1, 1}, Sprite: 3},
		Glyph{Rect: mgl32.Vec4{0, 0, 1, 1}, Char: 'z'},
	)
	require.Equal(t, 4, c.Count())
	for i, want := range []float32{shaders.ShapeRectangle, shaders.ShapeCircle, shaders.ShapeImage, shaders.ShapeGlyph} {
		assert.Equal(t, want, record(t, c, i).ShapeTransform[0])
	}
	assert.Equal(t, [4]float32{0.75, 0, 0.25, 1}, record(t, c, 2).SourceOrColor)
}
