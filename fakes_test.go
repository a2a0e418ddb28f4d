package leafy

import (
	"fmt"
	"image"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/leafyhollows/leafy/spritert/rt/batch"
)

// fakeBackend records frame calls in order and refuses draws outside a frame
// like the real backends do.
type fakeBackend struct {
	calls    []string
	layout   []batch.Attribute
	capacity int
	draws    []uint32

	surface    [2]int
	clear      [4]float32
	projection mgl32.Mat4
	glyphCount int
	beginErr   error
	inFrame    bool

	sprites  *image.RGBA
	glyphs   *image.Alpha
	released bool
}

var _ frameBackend = (*fakeBackend)(nil)

func (f *fakeBackend) Bind(layout []batch.Attribute) error {
	f.calls = append(f.calls, "bind")
	f.layout = layout
	return nil
}

func (f *fakeBackend) Resize(capacity int) error {
	f.calls = append(f.calls, fmt.Sprintf("resize %d", capacity))
	f.capacity = capacity
	return nil
}

func (f *fakeBackend) Upload(ch batch.Channel, first int, data []float32) error {
	return nil
}

func (f *fakeBackend) DrawInstanced(count uint32) error {
	if !f.inFrame {
		return batch.ErrNoFrame
	}
	f.calls = append(f.calls, fmt.Sprintf("draw %d", count))
	f.draws = append(f.draws, count)
	return nil
}

func (f *fakeBackend) Release() {
	f.calls = append(f.calls, "release")
	f.released = true
}

func (f *fakeBackend) SetTextures(sprites *image.RGBA, glyphs *image.Alpha) error {
	f.calls = append(f.calls, "textures")
	f.sprites = sprites
	f.glyphs = glyphs
	return nil
}

func (f *fakeBackend) ResizeSurface(width, height int) {
	f.calls = append(f.calls, fmt.Sprintf("surface %dx%d", width, height))
	f.surface = [2]int{width, height}
}

func (f *fakeBackend) BeginFrame(clear [4]float32, projection mgl32.Mat4, glyphCount int) error {
	if f.beginErr != nil {
		return f.beginErr
	}
	f.calls = append(f.calls, "begin")
	f.clear = clear
	f.projection = projection
	f.glyphCount = glyphCount
	f.inFrame = true
	return nil
}

func (f *fakeBackend) EndFrame() error {
	f.calls = append(f.calls, "end")
	f.inFrame = false
	return nil
}

type captureLogger struct {
	nopLogger
	infos  []string
	warns  []string
	errors []string
}

func (l *captureLogger) Infof(format string, args ...any) {
	l.infos = append(l.infos, fmt.Sprintf(format, args...))
}

func (l *captureLogger) Warnf(format string, args ...any) {
	l.warns = append(l.warns, fmt.Sprintf(format, args...))
}

func (l *captureLogger) Errorf(format string, args ...any) {
	l.errors = append(l.errors, fmt.Sprintf(format, args...))
}
