package leafy

import (
	"unicode/utf8"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/leafyhollows/leafy/spritert/rt/batch"
	"github.com/leafyhollows/leafy/spritert/rt/core"
	"github.com/leafyhollows/leafy/spritert/rt/shaders"
)

// Shape is one drawable primitive. Rectangles are (x, y, w, h) with (x, y)
// the lower-left corner in view units; the view spans [-aspect, aspect] by
// [-1, 1].
type Shape interface {
	record(c *Canvas) batch.Record
}

type Rectangle struct {
	Rect     mgl32.Vec4
	Color    mgl32.Vec4
	Rotation float32
}

type Circle struct {
	Center mgl32.Vec2
	Radius float32
	Color  mgl32.Vec4
}

// Image draws cell Sprite of the sprite sheet.
type Image struct {
	Rect     mgl32.Vec4
	Sprite   int
	Rotation float32
	FlipX    bool
	FlipY    bool
}

type Glyph struct {
	Rect  mgl32.Vec4
	Char  rune
	Color mgl32.Vec4
}

func (s Rectangle) record(*Canvas) batch.Record {
	return batch.Record{
		Destination:    s.Rect,
		SourceOrColor:  s.Color,
		ShapeTransform: [4]float32{shaders.ShapeRectangle, s.Rotation, 0, 0},
	}
}

func (s Circle) record(*Canvas) batch.Record {
	return batch.Record{
		Destination:    [4]float32{s.Center[0] - s.Radius, s.Center[1] - s.Radius, 2 * s.Radius, 2 * s.Radius},
		SourceOrColor:  s.Color,
		ShapeTransform: [4]float32{shaders.ShapeCircle, 0, 0, 0},
	}
}

func (s Image) record(c *Canvas) batch.Record {
	src, _ := c.sprites.Rect(s.Sprite)
	return batch.Record{
		Destination:    s.Rect,
		SourceOrColor:  src,
		ShapeTransform: [4]float32{shaders.ShapeImage, s.Rotation, flag(s.FlipX), flag(s.FlipY)},
	}
}

func (s Glyph) record(c *Canvas) batch.Record {
	return batch.Record{
		Destination:    s.Rect,
		SourceOrColor:  s.Color,
		ShapeTransform: [4]float32{shaders.ShapeGlyph, 0, float32(c.glyphs.Index(s.Char)), 0},
	}
}

func flag(b bool) float32 {
	if b {
		return 1
	}
	return 0
}

// Canvas turns shapes into batch records for the current frame.
type Canvas struct {
	buf     *batch.Buffer
	sprites *core.SpriteSheet
	glyphs  *core.GlyphAtlas
}

func NewCanvas(buf *batch.Buffer, sprites *core.SpriteSheet, glyphs *core.GlyphAtlas) *Canvas {
	return &Canvas{buf: buf, sprites: sprites, glyphs: glyphs}
}

func (c *Canvas) Draw(shapes ...Shape) {
	for _, s := range shapes {
		c.buf.AppendRecord(s.record(c))
	}
}

// Count is the number of instances queued this frame.
func (c *Canvas) Count() int { return c.buf.Count() }

func (c *Canvas) Sprites() *core.SpriteSheet { return c.sprites }

func (c *Canvas) Glyphs() *core.GlyphAtlas { return c.glyphs }

func (c *Canvas) DrawRectangle(rect, color mgl32.Vec4, rotation float32) {
	c.Draw(Rectangle{Rect: rect, Color: color, Rotation: rotation})
}

func (c *Canvas) DrawCircle(center mgl32.Vec2, color mgl32.Vec4, radius float32) {
	c.Draw(Circle{Center: center, Radius: radius, Color: color})
}

func (c *Canvas) DrawImage(rect mgl32.Vec4, sprite int, rotation float32, flipX, flipY bool) {
	c.Draw(Image{Rect: rect, Sprite: sprite, Rotation: rotation, FlipX: flipX, FlipY: flipY})
}

func (c *Canvas) DrawChar(rect mgl32.Vec4, char rune, color mgl32.Vec4) {
	c.Draw(Glyph{Rect: rect, Char: char, Color: color})
}

// DrawText lays text out on one line centred on center.x. Each glyph is
// size high and size/2 wide, with a fifth of size between glyphs.
func (c *Canvas) DrawText(center mgl32.Vec2, text string, size float32, color mgl32.Vec4) {
	length := float32(utf8.RuneCountInString(text))
	i := 0
	for _, char := range text {
		x := center[0] + (float32(i)-length*0.5+float32(i)/5)*size
		c.DrawChar(mgl32.Vec4{x, center[1], size * 0.5, size}, char, color)
		i++
	}
}
