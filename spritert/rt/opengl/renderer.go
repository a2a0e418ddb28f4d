// Package opengl renders the sprite batch with an OpenGL 3.3 core context:
// one VAO holding a static quad and three per-instance buffers, drawn with a
// single DrawElementsInstanced per frame.
package opengl

import (
	"fmt"
	"image"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/leafyhollows/leafy/spritert/rt/batch"
	"github.com/leafyhollows/leafy/spritert/rt/shaders"
)

// Renderer implements batch.Backend on the current GL context. It must be
// created and used on the thread that owns that context.
type Renderer struct {
	program *Program

	vao      uint32
	quadVbo  uint32
	ebo      uint32
	vbos     [batch.ChannelCount]uint32
	widths   [batch.ChannelCount]int
	capacity int

	sprites uint32
	glyphs  uint32

	width   int
	height  int
	inFrame bool
	swap    func()
}

var _ batch.Backend = (*Renderer)(nil)

// New loads the GL entry points for the current context and builds the
// sprite program. swap presents the back buffer at the end of each frame.
func New(width, height int, swap func()) (*Renderer, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("opengl: init: %w", err)
	}

	program, err := NewProgram(shaders.SpriteVertexGLSL, shaders.SpriteFragmentGLSL)
	if err != nil {
		return nil, err
	}

	gl.Enable(gl.MULTISAMPLE)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.Disable(gl.DEPTH_TEST)

	return &Renderer{
		program: program,
		width:   width,
		height:  height,
		swap:    swap,
	}, nil
}

// Version reports the driver's GL version string.
func (r *Renderer) Version() string {
	return gl.GoStr(gl.GetString(gl.VERSION))
}

// SetTextures uploads the sprite sheet to unit 0 and the glyph atlas to unit 1.
func (r *Renderer) SetTextures(sprites *image.RGBA, glyphs *image.Alpha) error {
	if r.sprites == 0 {
		gl.GenTextures(1, &r.sprites)
	}
	if r.glyphs == 0 {
		gl.GenTextures(1, &r.glyphs)
	}
	uploadTexture(r.sprites, sprites.Rect.Dx(), sprites.Rect.Dy(), gl.RGBA8, gl.RGBA, sprites.Pix)
	uploadTexture(r.glyphs, glyphs.Rect.Dx(), glyphs.Rect.Dy(), gl.R8, gl.RED, glyphs.Pix)
	return glError("upload textures")
}

func (r *Renderer) ResizeSurface(width, height int) {
	r.width = width
	r.height = height
}

func (r *Renderer) BeginFrame(clear [4]float32, projection mgl32.Mat4, glyphCount int) error {
	gl.Viewport(0, 0, int32(r.width), int32(r.height))
	gl.ClearColor(clear[0], clear[1], clear[2], clear[3])
	gl.Clear(gl.COLOR_BUFFER_BIT)

	r.program.Use()
	gl.UniformMatrix4fv(r.program.Uniform("projection"), 1, false, &projection[0])
	gl.Uniform1f(r.program.Uniform("glyph_count"), float32(glyphCount))

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, r.sprites)
	gl.Uniform1i(r.program.Uniform("sprites"), 0)
	gl.ActiveTexture(gl.TEXTURE1)
	gl.BindTexture(gl.TEXTURE_2D, r.glyphs)
	gl.Uniform1i(r.program.Uniform("glyphs"), 1)

	r.inFrame = true
	return nil
}

func (r *Renderer) EndFrame() error {
	r.inFrame = false
	if r.swap != nil {
		r.swap()
	}
	return glError("end frame")
}

func (r *Renderer) Release() {
	r.releaseBuffers()
	if r.sprites != 0 {
		gl.DeleteTextures(1, &r.sprites)
		r.sprites = 0
	}
	if r.glyphs != 0 {
		gl.DeleteTextures(1, &r.glyphs)
		r.glyphs = 0
	}
	if r.program != nil {
		r.program.Delete()
		r.program = nil
	}
}

func uploadTexture(texture uint32, width, height int, internalFormat int32, format uint32, pix []uint8) {
	borderColor := [4]float32{0, 0, 0, 0}

	gl.BindTexture(gl.TEXTURE_2D, texture)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, internalFormat, int32(width), int32(height), 0, format, gl.UNSIGNED_BYTE, gl.Ptr(pix))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_BORDER)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_BORDER)
	gl.TexParameterfv(gl.TEXTURE_2D, gl.TEXTURE_BORDER_COLOR, &borderColor[0])
	gl.BindTexture(gl.TEXTURE_2D, 0)
}
